package service

import (
	"context"
	"errors"
	"time"

	"campusfix/internal/codes"
	"campusfix/internal/database"
	"campusfix/internal/domain"
	"campusfix/internal/events"
	"campusfix/internal/lifecycle"
	"campusfix/internal/metrics"
	"campusfix/internal/models"
	"campusfix/internal/status"
	"campusfix/internal/whatsapp"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation with code
// generation, stage advances and counter repair.
type BookingService struct {
	store     domain.BookingStore
	generator *codes.Generator
	formatter *whatsapp.Formatter
	eventBus  domain.EventPublisher
	alerts    domain.AlertQueue
	analytics domain.AnalyticsRepository
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewBookingService(
	store domain.BookingStore,
	generator *codes.Generator,
	formatter *whatsapp.Formatter,
	eventBus domain.EventPublisher,
	alerts domain.AlertQueue,
	analytics domain.AnalyticsRepository,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		store:     store,
		generator: generator,
		formatter: formatter,
		eventBus:  eventBus,
		alerts:    alerts,
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// CreateResult is what the customer gets back after submitting the form.
type CreateResult struct {
	Booking      *models.Booking `json:"booking"`
	WhatsAppLink string          `json:"whatsapp_link"`
}

// CreateBooking validates the form, issues a code, persists the record and
// builds the operator WhatsApp link. Validation failures mutate nothing,
// the sequence counter included.
func (s *BookingService) CreateBooking(ctx context.Context, in models.BookingInput) (*CreateResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	code, err := s.generator.Next(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking, err := models.NewBooking(code, in, now)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Apply(booking, lifecycle.StageReceived, "", now); err != nil {
		return nil, err
	}

	err = s.store.CreateBooking(ctx, booking)
	if errors.Is(err, database.ErrCodeExists) {
		// Should not normally happen; regenerate instead of overwriting.
		booking.Code = s.generator.Emergency()
		s.logger.Warn().Str("code", code).Str("emergency_code", booking.Code).
			Msg("code collision at save time, using emergency code")
		err = s.store.CreateBooking(ctx, booking)
	}
	if err != nil {
		return nil, err
	}

	link, err := s.formatter.BookingLink(booking)
	if err != nil {
		// The booking is saved; a broken notification must not undo it.
		s.logger.Error().Err(err).Str("code", booking.Code).Msg("whatsapp message build failed")
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, "customer")
	s.enqueueAlert(ctx, booking, true)

	return &CreateResult{Booking: booking, WhatsAppLink: link}, nil
}

// AdvanceStage moves a booking forward. Repeats are idempotent; regress
// attempts surface lifecycle.ErrStageRegression.
func (s *BookingService) AdvanceStage(ctx context.Context, code string, stage lifecycle.Stage, note string) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, status.Normalize(code))
	if err != nil {
		return nil, err
	}

	if err := lifecycle.Apply(booking, stage, note, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBookingLifecycle(ctx, booking); err != nil {
		return nil, err
	}

	eventType := events.EventStageAdvanced
	if stage == lifecycle.StageCompleted {
		eventType = events.EventBookingCompleted
	}
	s.publishEvent(eventType, booking, "admin")
	s.enqueueAlert(ctx, booking, false)

	return booking, nil
}

// MarkDiagnosisComplete, StartRepair and CompleteBooking are the named
// admin operations of the original tracker.
func (s *BookingService) MarkDiagnosisComplete(ctx context.Context, code, note string) (*models.Booking, error) {
	return s.AdvanceStage(ctx, code, lifecycle.StageDiagnosis, note)
}

func (s *BookingService) StartRepair(ctx context.Context, code, note string) (*models.Booking, error) {
	return s.AdvanceStage(ctx, code, lifecycle.StageRepair, note)
}

func (s *BookingService) CompleteBooking(ctx context.Context, code, note string) (*models.Booking, error) {
	return s.AdvanceStage(ctx, code, lifecycle.StageCompleted, note)
}

// RepairCounter reconciles the sequence counter from stored codes.
func (s *BookingService) RepairCounter(ctx context.Context) (int, error) {
	value, err := s.store.RepairCounter(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("counter", value).Msg("booking counter repaired")
	return value, nil
}

// Stats merges store aggregates with the analytics page-view counter.
func (s *BookingService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.analytics != nil {
		views, err := s.analytics.PageViews(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("page views unavailable for stats")
		} else {
			stats.PageViews = views
		}
	}
	return stats, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedBy string) {
	if s.eventBus == nil {
		return
	}
	payload := events.PayloadFor(booking, changedBy, s.now())
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("code", booking.Code).Msg("publish event error")
	}
}

func (s *BookingService) enqueueAlert(ctx context.Context, booking *models.Booking, created bool) {
	if s.alerts == nil {
		return
	}

	var (
		text string
		err  error
	)
	if created {
		text, err = s.formatter.BookingMessage(booking)
	} else {
		text, err = s.formatter.StatusMessage(booking)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("code", booking.Code).Msg("alert message build failed")
		return
	}

	if err := s.alerts.Enqueue(ctx, text); err != nil {
		s.logger.Error().Err(err).Str("code", booking.Code).Msg("alert enqueue failed")
	}
}
