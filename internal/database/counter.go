package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusfix/internal/codes"
	"campusfix/internal/models"
)

// Counter returns the persisted booking sequence counter, 0 when unset.
func (db *DB) Counter(ctx context.Context) (int, error) {
	var value int
	err := db.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE name = ?`, models.BookingCounterName).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return value, nil
}

// BumpCounter raises the persisted counter to value. MAX on conflict keeps
// the counter monotonic: it can never regress, whatever order writers
// arrive in.
func (db *DB) BumpCounter(ctx context.Context, value int) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`,
		models.BookingCounterName, value)
	if err != nil {
		return fmt.Errorf("failed to bump counter: %w", err)
	}
	return nil
}

func bumpCounterTx(ctx context.Context, tx *sql.Tx, value int) error {
	if value <= 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`,
		models.BookingCounterName, value)
	if err != nil {
		return fmt.Errorf("failed to bump counter: %w", err)
	}
	return nil
}

// updateCounterFromCode keeps the sequence ahead of any record that landed
// in the store without going through the generator.
func (db *DB) updateCounterFromCode(ctx context.Context, code string) error {
	suffix, err := codes.ParseSuffix(code)
	if err != nil {
		// Manually crafted codes outside the pattern do not move the
		// sequence.
		db.logger.Debug().Str("code", code).Msg("code outside sequence pattern, counter unchanged")
		return nil
	}
	return db.BumpCounter(ctx, suffix)
}

// RepairCounter recomputes the counter from the stored codes. Returns the
// counter value afterwards. Lifting only: a high counter is left alone so
// already-issued codes stay unrepeatable.
func (db *DB) RepairCounter(ctx context.Context) (int, error) {
	maxSuffix, err := db.MaxCodeSuffix(ctx)
	if err != nil {
		return 0, err
	}
	if err := db.BumpCounter(ctx, maxSuffix); err != nil {
		return 0, err
	}
	return db.Counter(ctx)
}
