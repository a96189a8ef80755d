package repository

import (
	"context"
	"sync/atomic"
	"time"

	"campusfix/internal/domain"
	"campusfix/internal/models"

	"github.com/rs/zerolog"
)

// FailoverAnalyticsRepository prefers the primary (Redis) repository and
// falls back to the in-memory one when it errors, probing the primary
// again after a minute. Analytics keep flowing while Redis is away.
type FailoverAnalyticsRepository struct {
	primary   domain.AnalyticsRepository
	fallback  domain.AnalyticsRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverAnalyticsRepository(primary, fallback domain.AnalyticsRepository, logger *zerolog.Logger) *FailoverAnalyticsRepository {
	return &FailoverAnalyticsRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const retryAfter = time.Minute

func (r *FailoverAnalyticsRepository) primaryUsable() bool {
	if !r.isDown.Load() {
		return true
	}
	last := time.Unix(r.lastCheck.Load(), 0)
	return time.Since(last) > retryAfter
}

func (r *FailoverAnalyticsRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary analytics repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().Unix())
}

func (r *FailoverAnalyticsRepository) markUp() {
	if r.isDown.Load() {
		r.logger.Info().Msg("primary analytics repository recovered")
		r.isDown.Store(false)
	}
}

func (r *FailoverAnalyticsRepository) AddPageView(ctx context.Context) (int64, error) {
	if r.primaryUsable() {
		count, err := r.primary.AddPageView(ctx)
		if err == nil {
			r.markUp()
			return count, nil
		}
		r.markDown(err)
	}
	return r.fallback.AddPageView(ctx)
}

func (r *FailoverAnalyticsRepository) PageViews(ctx context.Context) (int64, error) {
	if r.primaryUsable() {
		count, err := r.primary.PageViews(ctx)
		if err == nil {
			r.markUp()
			return count, nil
		}
		r.markDown(err)
	}
	return r.fallback.PageViews(ctx)
}

func (r *FailoverAnalyticsRepository) RecordEvent(ctx context.Context, event models.Event) error {
	if r.primaryUsable() {
		err := r.primary.RecordEvent(ctx, event)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.RecordEvent(ctx, event)
}

func (r *FailoverAnalyticsRepository) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if r.primaryUsable() {
		events, err := r.primary.RecentEvents(ctx, limit)
		if err == nil {
			r.markUp()
			return events, nil
		}
		r.markDown(err)
	}
	return r.fallback.RecentEvents(ctx, limit)
}
