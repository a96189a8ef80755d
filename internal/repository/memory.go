package repository

import (
	"context"
	"sync"
	"sync/atomic"

	"campusfix/internal/models"
)

// MemoryAnalyticsRepository keeps page views and the event log in process
// memory. It backs the Redis repository as the failover target and doubles
// as the test fake.
type MemoryAnalyticsRepository struct {
	pageViews atomic.Int64

	mu     sync.Mutex
	events []models.Event
	limit  int
}

func NewMemoryAnalyticsRepository(eventLimit int) *MemoryAnalyticsRepository {
	if eventLimit <= 0 {
		eventLimit = models.EventLogLimit
	}
	return &MemoryAnalyticsRepository{limit: eventLimit}
}

func (r *MemoryAnalyticsRepository) AddPageView(ctx context.Context) (int64, error) {
	return r.pageViews.Add(1), nil
}

func (r *MemoryAnalyticsRepository) PageViews(ctx context.Context) (int64, error) {
	return r.pageViews.Load(), nil
}

func (r *MemoryAnalyticsRepository) RecordEvent(ctx context.Context, event models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
	return nil
}

func (r *MemoryAnalyticsRepository) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}

	// Newest first.
	out := make([]models.Event, 0, limit)
	for i := len(r.events) - 1; i >= len(r.events)-limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}
