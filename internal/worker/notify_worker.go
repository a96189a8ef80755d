package worker

import (
	"context"
	"errors"
	"time"

	"campusfix/internal/domain"
	"campusfix/internal/metrics"
	"campusfix/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrQueueFull is returned when the alert buffer cannot take more work.
var ErrQueueFull = errors.New("alert queue is full")

// AlertWorker delivers operator alerts asynchronously with retries.
// Undeliverable alerts land in a redis dead-letter list when redis is
// available, otherwise they are logged and dropped.
type AlertWorker struct {
	notifier      domain.Notifier
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan string
	deadLetterKey string
	logger        *zerolog.Logger
}

func NewAlertWorker(notifier domain.Notifier, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *AlertWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &AlertWorker{
		notifier:      notifier,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan string, models.AlertQueueSize),
		deadLetterKey: "campusfix:alerts:deadletter",
		logger:        logger,
	}
}

// Enqueue schedules an alert without blocking the request path.
func (w *AlertWorker) Enqueue(ctx context.Context, text string) error {
	if text == "" {
		return errors.New("alert text is empty")
	}

	select {
	case w.queue <- text:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Start runs the delivery loop until ctx is done.
func (w *AlertWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("alert worker started")
	defer w.logger.Info().Msg("alert worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-w.queue:
			w.deliver(ctx, text)
		}
	}
}

func (w *AlertWorker) deliver(ctx context.Context, text string) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		lastErr = w.notifier.Send(ctx, text)
		if lastErr == nil {
			metrics.IncAlert("sent")
			return
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			break
		}

		w.logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("alert delivery failed")

		if attempt == w.retryPolicy.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}

	metrics.IncAlert("failed")
	w.pushDeadLetter(ctx, text, lastErr)
}

func (w *AlertWorker) pushDeadLetter(ctx context.Context, text string, cause error) {
	if w.redis == nil {
		w.logger.Error().Err(cause).Str("alert", text).Msg("alert dropped, no dead-letter store")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, text).Err(); err != nil {
		w.logger.Error().Err(err).Msg("dead-letter push failed")
		return
	}
	w.logger.Error().Err(cause).Msg("alert moved to dead-letter queue")
}
