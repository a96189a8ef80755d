package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"campusfix/internal/domain"
	"campusfix/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

// Exporter writes booking reports as xlsx files.
type Exporter struct {
	store  domain.BookingStore
	path   string
	logger *zerolog.Logger
}

func NewExporter(store domain.BookingStore, path string, logger *zerolog.Logger) *Exporter {
	if path == "" {
		path = "./exports"
	}
	return &Exporter{store: store, path: path, logger: logger}
}

// BookingsReport exports all bookings created within the date range and
// returns the path of the saved file.
func (e *Exporter) BookingsReport(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.store.BookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(bookingsSheet, "A1", fmt.Sprintf("Repair bookings: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	headers := []string{
		"Code", "Customer", "Phone", "Hostel", "Device", "Issue",
		"Urgency", "Status", "Progress", "Estimated Completion", "Created",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(bookingsSheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 2)
	_ = f.SetCellStyle(bookingsSheet, "A2", lastHeader, headerStyle)

	for i, b := range bookings {
		row := i + 3
		values := []interface{}{
			b.Code, b.Name, b.Phone, b.Hostel, b.Device, b.Issue,
			b.Urgency.Display(), b.Status, fmt.Sprintf("%d%%", b.Progress),
			b.EstimatedCompletion, b.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(bookingsSheet, cell, value)
		}

		if styleID, err := e.statusStyle(f, b.Status); err == nil {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(headers), row)
			_ = f.SetCellStyle(bookingsSheet, first, last, styleID)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 15)
	_ = f.SetColWidth(bookingsSheet, "B", "F", 22)
	_ = f.SetColWidth(bookingsSheet, "G", "K", 18)

	_ = f.MergeCell(bookingsSheet, "A1", lastHeader[:1]+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(bookingsSheet, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

// statusStyle colors a row by lifecycle status: green when completed,
// yellow while in repair, no fill otherwise.
func (e *Exporter) statusStyle(f *excelize.File, status string) (int, error) {
	alignment := &excelize.Alignment{Horizontal: "left", Vertical: "top"}

	switch status {
	case models.StatusCompleted:
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
			Alignment: alignment,
		})
	case models.StatusRepair:
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
			Alignment: alignment,
		})
	default:
		return f.NewStyle(&excelize.Style{Alignment: alignment})
	}
}
