package database

import "errors"

var (
	// ErrBookingNotFound is returned by exact-match lookups and by updates
	// that touched no row. Callers treat it as a normal outcome.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCodeExists is returned when inserting a booking whose code is
	// already taken. The caller regenerates rather than overwriting.
	ErrCodeExists = errors.New("booking code already exists")
)
