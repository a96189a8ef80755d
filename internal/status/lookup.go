// Package status resolves user-entered tracking codes against the demo
// records and the live store.
package status

import (
	"context"
	"errors"
	"strings"

	"campusfix/internal/database"
	"campusfix/internal/models"

	"github.com/rs/zerolog"
)

// Source tags where a lookup result came from.
type Source string

const (
	SourceDemo Source = "demo"
	SourceLive Source = "live"
)

// Result is a discriminated lookup outcome. When Found is false the
// queried (normalized) code is still echoed back for display.
type Result struct {
	Code    string          `json:"code"`
	Found   bool            `json:"found"`
	Source  Source          `json:"source,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

type Store interface {
	GetBooking(ctx context.Context, code string) (*models.Booking, error)
}

type Lookup struct {
	store  Store
	logger *zerolog.Logger
}

func NewLookup(store Store, logger *zerolog.Logger) *Lookup {
	return &Lookup{store: store, logger: logger}
}

// Normalize trims and uppercases a user-entered code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Find resolves a code: demo records first, then the live store. Exact
// match only; an unknown code is a normal not-found result, not an error.
func (l *Lookup) Find(ctx context.Context, raw string) (*Result, error) {
	code := Normalize(raw)
	if code == "" {
		return &Result{Code: code}, nil
	}

	if demo, ok := demoRecords[code]; ok {
		return &Result{Code: code, Found: true, Source: SourceDemo, Booking: demo}, nil
	}

	booking, err := l.store.GetBooking(ctx, code)
	if errors.Is(err, database.ErrBookingNotFound) {
		return &Result{Code: code}, nil
	}
	if err != nil {
		l.logger.Error().Err(err).Str("code", code).Msg("status lookup failed")
		return nil, err
	}

	return &Result{Code: code, Found: true, Source: SourceLive, Booking: booking}, nil
}
