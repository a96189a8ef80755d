package service

import (
	"context"
	"errors"
	"time"

	"campusfix/internal/domain"
	"campusfix/internal/events"
	"campusfix/internal/models"
	"campusfix/internal/status"

	"github.com/rs/zerolog"
)

// ErrBookingNotCompleted is returned when feedback is submitted for a
// booking that has not reached the completed status yet.
var ErrBookingNotCompleted = errors.New("feedback is accepted only for completed bookings")

type FeedbackService struct {
	store    domain.BookingStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewFeedbackService(store domain.BookingStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// AddFeedback records a rating for a completed booking.
func (s *FeedbackService) AddFeedback(ctx context.Context, code string, rating int, comment string) (*models.Feedback, error) {
	booking, err := s.store.GetBooking(ctx, status.Normalize(code))
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	feedback, err := models.NewFeedback(booking.Code, rating, comment, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.AddFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", booking.Code).Int("rating", rating).Msg("feedback recorded")

	if s.eventBus != nil {
		payload := events.PayloadFor(booking, "customer", s.now())
		if err := s.eventBus.PublishJSON(events.EventFeedbackReceived, payload); err != nil {
			s.logger.Error().Err(err).Str("code", booking.Code).Msg("publish event error")
		}
	}

	return feedback, nil
}

// ListFeedback returns feedback entries for a booking, oldest first.
func (s *FeedbackService) ListFeedback(ctx context.Context, code string) ([]*models.Feedback, error) {
	return s.store.FeedbackForCode(ctx, status.Normalize(code))
}
