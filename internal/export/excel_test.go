package export

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"campusfix/internal/database"
	"campusfix/internal/lifecycle"
	"campusfix/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBookingsReport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	now := time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)

	booking, err := models.NewBooking("CF-2024-2601", models.BookingInput{
		Name:    "Ama Boateng",
		Phone:   "0245550134",
		Hostel:  "Unity Hall, Room 212",
		Device:  "iPhone 12",
		Issue:   "Cracked screen",
		Urgency: "express",
	}, now)
	require.NoError(t, err)
	require.NoError(t, lifecycle.Apply(booking, lifecycle.StageCompleted, "", now))
	require.NoError(t, db.CreateBooking(ctx, booking))

	exportDir := filepath.Join(t.TempDir(), "exports")
	exporter := NewExporter(db, exportDir, &logger)

	path, err := exporter.BookingsReport(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Contains(t, path, ".xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	code, err := f.GetCellValue(bookingsSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "CF-2024-2601", code)

	name, err := f.GetCellValue(bookingsSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Ama Boateng", name)

	statusCell, err := f.GetCellValue(bookingsSheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, statusCell)
}

func TestBookingsReportEmptyRange(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exporter := NewExporter(db, filepath.Join(t.TempDir(), "exports"), &logger)
	path, err := exporter.BookingsReport(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}
