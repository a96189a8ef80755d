package domain

import (
	"context"
	"time"

	"campusfix/internal/models"
)

// BookingStore is the persistence surface of the booking core.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	SaveBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, code string) (*models.Booking, error)
	UpdateBookingLifecycle(ctx context.Context, booking *models.Booking) error
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	BookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	MaxCodeSuffix(ctx context.Context) (int, error)
	Counter(ctx context.Context) (int, error)
	BumpCounter(ctx context.Context, value int) error
	RepairCounter(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*models.Stats, error)
	AddFeedback(ctx context.Context, fb *models.Feedback) error
	FeedbackForCode(ctx context.Context, code string) ([]*models.Feedback, error)
}

// AnalyticsRepository tracks page views and click events. Implementations
// may lose data on restart; analytics never gates correctness.
type AnalyticsRepository interface {
	AddPageView(ctx context.Context) (int64, error)
	PageViews(ctx context.Context) (int64, error)
	RecordEvent(ctx context.Context, event models.Event) error
	RecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier delivers one operator alert.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// AlertQueue accepts alerts for asynchronous delivery.
type AlertQueue interface {
	Enqueue(ctx context.Context, text string) error
}
