package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"campusfix/internal/config"
	"campusfix/internal/database"
	"campusfix/internal/export"
	"campusfix/internal/logging"
)

// report builds an xlsx booking report for a date range from the local
// database, without going through the admin API.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	var (
		startFlag = flag.String("start", "", "start date (YYYY-MM-DD), default 30 days ago")
		endFlag   = flag.String("end", "", "end date (YYYY-MM-DD), default today")
	)
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, _, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "report").Logger()

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if *startFlag != "" {
		if start, err = time.Parse("2006-01-02", *startFlag); err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	if *endFlag != "" {
		parsed, err := time.Parse("2006-01-02", *endFlag)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)
	filePath, err := exporter.BookingsReport(context.Background(), start, end)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	fmt.Println(filePath)
	return nil
}
