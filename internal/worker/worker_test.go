package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 10*time.Second, policy.NextDelay(10), "clamped to MaxDelay")
	assert.Equal(t, time.Second, policy.NextDelay(0), "attempt below 1 is treated as 1")
}

func TestRetryPolicyDefaults(t *testing.T) {
	var policy RetryPolicy
	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
}

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []string
	failures int
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("network down")
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) delivered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestWorker(notifier *fakeNotifier) *AlertWorker {
	logger := zerolog.New(io.Discard)
	retry := RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
	return NewAlertWorker(notifier, nil, retry, &logger)
}

func TestAlertWorkerDelivers(t *testing.T) {
	notifier := &fakeNotifier{}
	w := newTestWorker(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, w.Enqueue(ctx, "booking CF-2024-2601 created"))

	require.Eventually(t, func() bool {
		return len(notifier.delivered()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "booking CF-2024-2601 created", notifier.delivered()[0])
}

func TestAlertWorkerRetriesTransientFailures(t *testing.T) {
	notifier := &fakeNotifier{failures: 2}
	w := newTestWorker(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, w.Enqueue(ctx, "stage update"))

	require.Eventually(t, func() bool {
		return len(notifier.delivered()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestAlertWorkerGivesUpAfterMaxRetries(t *testing.T) {
	notifier := &fakeNotifier{failures: 100}
	w := newTestWorker(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, w.Enqueue(ctx, "doomed alert"))

	// Three attempts burn three failures, nothing gets delivered.
	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return notifier.failures <= 97
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, notifier.delivered())
}

func TestAlertWorkerEnqueueValidation(t *testing.T) {
	w := newTestWorker(&fakeNotifier{})
	ctx := context.Background()

	require.Error(t, w.Enqueue(ctx, ""))
}

func TestAlertWorkerQueueFull(t *testing.T) {
	logger := zerolog.New(io.Discard)
	w := NewAlertWorker(&fakeNotifier{}, nil, RetryPolicy{}, &logger)
	// The worker is never started, so the buffer fills up.
	ctx := context.Background()

	var err error
	for i := 0; i < cap(w.queue)+1; i++ {
		err = w.Enqueue(ctx, "alert")
	}
	require.ErrorIs(t, err, ErrQueueFull)
}
