package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusfix/internal/api"
	"campusfix/internal/codes"
	"campusfix/internal/config"
	"campusfix/internal/database"
	"campusfix/internal/domain"
	"campusfix/internal/events"
	"campusfix/internal/export"
	"campusfix/internal/google"
	"campusfix/internal/logging"
	"campusfix/internal/metrics"
	"campusfix/internal/models"
	"campusfix/internal/notify"
	"campusfix/internal/quote"
	"campusfix/internal/repository"
	"campusfix/internal/service"
	"campusfix/internal/status"
	"campusfix/internal/whatsapp"
	"campusfix/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	analytics := initAnalytics(redisClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewEventBus()
	formatter := whatsapp.NewFormatter(cfg.WhatsApp.BusinessNumber)
	generator := codes.NewGenerator(db, logger)

	alerts := initAlerts(ctx, cfg, redisClient, logger)
	initGoogleSheets(cfg, eventBus, logger)

	bookingService := service.NewBookingService(db, generator, formatter, eventBus, alerts, analytics, logger)
	feedbackService := service.NewFeedbackService(db, eventBus, logger)
	lookup := status.NewLookup(db, logger)
	exporter := export.NewExporter(db, cfg.Exports.Path, logger)

	httpServer := api.NewHTTPServer(cfg.API, bookingService, feedbackService, lookup, catalog, analytics, exporter, logger)

	startMetrics(ctx, cfg, logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, _, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, nil
}

func loadCatalog(cfg *config.Config, logger *zerolog.Logger) (*quote.Catalog, error) {
	if cfg.Catalog.Path == "" {
		logger.Info().Msg("no catalog path configured, using built-in price list")
		return quote.DefaultCatalog(), nil
	}

	catalog, err := quote.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", cfg.Catalog.Path).Msg("load catalog")
		return nil, err
	}
	return catalog, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initAnalytics(redisClient *redis.Client, logger *zerolog.Logger) domain.AnalyticsRepository {
	memory := repository.NewMemoryAnalyticsRepository(models.EventLogLimit)
	if redisClient == nil {
		return memory
	}
	primary := repository.NewRedisAnalyticsRepository(redisClient, models.EventLogLimit)
	return repository.NewFailoverAnalyticsRepository(primary, memory, logger)
}

func initAlerts(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.AlertQueue {
	if cfg.Telegram.BotToken == "" {
		logger.Info().Msg("telegram not configured, operator alerts disabled")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without alerts")
		return nil
	}

	notifier := notify.NewTelegramNotifier(bot, cfg.Telegram.ManagerChatIDs, logger)
	alertWorker := worker.NewAlertWorker(notifier, redisClient, worker.RetryPolicy{}, logger)
	go alertWorker.Start(ctx)

	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram alerts enabled")
	return alertWorker
}

func initGoogleSheets(cfg *config.Config, eventBus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return
	}

	subscribeSheetsMirror(eventBus, sheetsService, logger)
	logger.Info().Msg("google sheets mirror enabled")
}

// subscribeSheetsMirror applies booking events to the spreadsheet as they
// happen. Mirror errors are logged and never block the booking flow.
func subscribeSheetsMirror(eventBus *events.EventBus, sheets *google.SheetsService, logger *zerolog.Logger) {
	handler := func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := event.Decode(&payload); err != nil {
			logger.Warn().Err(err).Str("event_type", event.Type).Msg("decode event payload")
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		switch event.Type {
		case events.EventBookingCreated:
			err = sheets.AppendBooking(ctx, payloadBooking(payload))
		default:
			err = sheets.UpdateBookingStatus(ctx, payload.Code, payload.Status, payload.Progress)
		}
		if err != nil {
			logger.Warn().Err(err).Str("code", payload.Code).Msg("sheets mirror failed")
		}
		return err
	}

	eventBus.Subscribe(events.EventBookingCreated, handler)
	eventBus.Subscribe(events.EventStageAdvanced, handler)
	eventBus.Subscribe(events.EventBookingCompleted, handler)
}

func payloadBooking(p events.BookingEventPayload) *models.Booking {
	return &models.Booking{
		Code:      p.Code,
		Name:      p.Name,
		Phone:     p.Phone,
		Hostel:    p.Hostel,
		Device:    p.Device,
		Issue:     p.Issue,
		Urgency:   models.Urgency(p.Urgency),
		Status:    p.Status,
		Progress:  p.Progress,
		UpdatedAt: p.At,
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
