package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Feedback is a customer rating left against a completed booking. Feedback
// lives independently of the booking lifecycle.
type Feedback struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// NewFeedback validates and builds a feedback record for a booking code.
func NewFeedback(code string, rating int, comment string, now time.Time) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return &Feedback{
		ID:        uuid.NewString(),
		Code:      code,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
	}, nil
}
