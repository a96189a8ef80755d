package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campusfix/internal/codes"
	"campusfix/internal/models"
)

const bookingColumns = `code, name, phone, hostel, device, issue, urgency, status,
		progress, steps, notes, estimated_completion, created_at, updated_at`

// CreateBooking inserts a new record. The insert and the duplicate check
// run in one transaction so two submissions can not race the same code.
// Returns ErrCodeExists on collision; the counter is reconciled from the
// stored code afterwards.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE code = ?`, booking.Code).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check code: %w", err)
	}
	if exists > 0 {
		return ErrCodeExists
	}

	steps, notes, err := encodeBookingJSON(booking)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.Code, booking.Name, booking.Phone, booking.Hostel,
		booking.Device, booking.Issue, string(booking.Urgency), booking.Status,
		booking.Progress, steps, notes, booking.EstimatedCompletion,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := bumpCounterTx(ctx, tx, suffixOf(booking.Code)); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveBooking is an idempotent upsert keyed by code, used by admin imports
// and repairs. The counter is reconciled so generation stays ahead of
// manually inserted records.
func (db *DB) SaveBooking(ctx context.Context, booking *models.Booking) error {
	steps, notes, err := encodeBookingJSON(booking)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			hostel = excluded.hostel,
			device = excluded.device,
			issue = excluded.issue,
			urgency = excluded.urgency,
			status = excluded.status,
			progress = excluded.progress,
			steps = excluded.steps,
			notes = excluded.notes,
			estimated_completion = excluded.estimated_completion,
			updated_at = excluded.updated_at`,
		booking.Code, booking.Name, booking.Phone, booking.Hostel,
		booking.Device, booking.Issue, string(booking.Urgency), booking.Status,
		booking.Progress, steps, notes, booking.EstimatedCompletion,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	return db.updateCounterFromCode(ctx, booking.Code)
}

// GetBooking resolves a code exactly. Missing codes map to
// ErrBookingNotFound rather than a raw sql error.
func (db *DB) GetBooking(ctx context.Context, code string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE code = ?`, code)

	booking, err := db.scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingLifecycle rewrites the mutable lifecycle fields of an
// existing record. It never inserts: a missing code is ErrBookingNotFound.
func (db *DB) UpdateBookingLifecycle(ctx context.Context, booking *models.Booking) error {
	steps, notes, err := encodeBookingJSON(booking)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, progress = ?, steps = ?, notes = ?, updated_at = ? WHERE code = ?`,
		booking.Status, booking.Progress, steps, notes, booking.UpdatedAt, booking.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListBookings returns every record in creation order.
func (db *DB) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at ASC, code ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return db.collectBookings(rows)
}

// BookingsByDateRange returns records created inside [start, end].
func (db *DB) BookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE date(created_at) >= ? AND date(created_at) <= ?
		 ORDER BY created_at ASC`,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	return db.collectBookings(rows)
}

// MaxCodeSuffix scans stored codes for the highest numeric suffix.
// Malformed codes are skipped; they can not hold the sequence back.
func (db *DB) MaxCodeSuffix(ctx context.Context) (int, error) {
	rows, err := db.QueryContext(ctx, `SELECT code FROM bookings`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan codes: %w", err)
	}
	defer rows.Close()

	max := 0
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return 0, fmt.Errorf("failed to scan code: %w", err)
		}
		suffix, err := codes.ParseSuffix(code)
		if err != nil {
			db.logger.Debug().Str("code", code).Msg("skipping malformed code during suffix scan")
			continue
		}
		if suffix > max {
			max = suffix
		}
	}
	return max, rows.Err()
}

// Stats aggregates operator-facing numbers.
func (db *DB) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{ByStatus: make(map[string]int)}

	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[status] = count
		stats.TotalBookings += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM feedback`).
		Scan(&stats.FeedbackCount, &stats.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback: %w", err)
	}

	counter, err := db.Counter(ctx)
	if err != nil {
		return nil, err
	}
	stats.CounterValue = counter

	var lastCode sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT code FROM bookings ORDER BY created_at DESC, code DESC LIMIT 1`).Scan(&lastCode)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get last code: %w", err)
	}
	stats.LastBookingCode = lastCode.String

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b             models.Booking
		urgency       string
		stepsJSON     string
		notesJSON     string
		estCompletion sql.NullString
	)
	err := row.Scan(
		&b.Code, &b.Name, &b.Phone, &b.Hostel, &b.Device, &b.Issue,
		&urgency, &b.Status, &b.Progress, &stepsJSON, &notesJSON,
		&estCompletion, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Urgency = models.Urgency(urgency)
	b.EstimatedCompletion = estCompletion.String

	// Corrupted step/notes payloads degrade to empty, never to a failure.
	if err := json.Unmarshal([]byte(stepsJSON), &b.Steps); err != nil {
		db.logger.Warn().Err(err).Str("code", b.Code).Msg("corrupted steps payload, treating as empty")
		b.Steps = nil
	}
	if err := json.Unmarshal([]byte(notesJSON), &b.Notes); err != nil {
		db.logger.Warn().Err(err).Str("code", b.Code).Msg("corrupted notes payload, treating as empty")
		b.Notes = nil
	}

	return &b, nil
}

func (db *DB) collectBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b, err := db.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func encodeBookingJSON(booking *models.Booking) (steps string, notes string, err error) {
	stepsRaw, err := json.Marshal(booking.Steps)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode steps: %w", err)
	}
	notesRaw, err := json.Marshal(booking.Notes)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode notes: %w", err)
	}
	return string(stepsRaw), string(notesRaw), nil
}

func suffixOf(code string) int {
	suffix, err := codes.ParseSuffix(code)
	if err != nil {
		return 0
	}
	return suffix
}
