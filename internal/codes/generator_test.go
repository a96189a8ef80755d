package codes

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	counter    int
	maxSuffix  int
	counterErr error
	suffixErr  error
	bumpErr    error
	bumped     []int
}

func (f *fakeStore) Counter(ctx context.Context) (int, error) {
	return f.counter, f.counterErr
}

func (f *fakeStore) BumpCounter(ctx context.Context, value int) error {
	if f.bumpErr != nil {
		return f.bumpErr
	}
	if value > f.counter {
		f.counter = value
	}
	f.bumped = append(f.bumped, value)
	return nil
}

func (f *fakeStore) MaxCodeSuffix(ctx context.Context) (int, error) {
	return f.maxSuffix, f.suffixErr
}

func newTestGenerator(store Store) *Generator {
	logger := zerolog.New(io.Discard)
	gen := NewGenerator(store, &logger)
	return gen.WithClock(func() time.Time {
		return time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC)
	})
}

func TestNextUsesCounter(t *testing.T) {
	store := &fakeStore{counter: 2600}
	gen := newTestGenerator(store)

	code, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CF-2024-2601", code)
	assert.Equal(t, []int{2601}, store.bumped)
}

func TestNextReconcilesFromStoredCodes(t *testing.T) {
	// Counter lags behind the highest stored code; the suffix source wins.
	store := &fakeStore{counter: 10, maxSuffix: 2600}
	gen := newTestGenerator(store)

	code, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CF-2024-2601", code)
}

func TestNextIsStrictlyIncreasing(t *testing.T) {
	store := &fakeStore{maxSuffix: 2581}
	gen := newTestGenerator(store)

	seen := map[string]bool{}
	var lastSuffix int
	for i := 0; i < 20; i++ {
		code, err := gen.Next(context.Background())
		require.NoError(t, err)
		require.False(t, seen[code], "code %s issued twice", code)
		seen[code] = true

		suffix, err := ParseSuffix(code)
		require.NoError(t, err)
		require.Greater(t, suffix, lastSuffix)
		lastSuffix = suffix
	}
}

func TestNextSurvivesCounterReadFailure(t *testing.T) {
	store := &fakeStore{counterErr: errors.New("counter table gone"), maxSuffix: 2599}
	gen := newTestGenerator(store)

	code, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CF-2024-2600", code)
}

func TestNextSurvivesBumpFailure(t *testing.T) {
	store := &fakeStore{counter: 2600, bumpErr: errors.New("disk full")}
	gen := newTestGenerator(store)

	code, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CF-2024-2601", code)
}

func TestNextEmergencyWhenBothSourcesFail(t *testing.T) {
	store := &fakeStore{
		counterErr: errors.New("down"),
		suffixErr:  errors.New("down"),
	}
	gen := newTestGenerator(store)

	code, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^CF-2024-\d{4,}$`, code)
}

func TestFormatPadsSuffix(t *testing.T) {
	assert.Equal(t, "CF-2024-0007", Format(2024, 7))
	assert.Equal(t, "CF-2024-2581", Format(2024, 2581))
	assert.Equal(t, "CF-2025-12345", Format(2025, 12345))
}

func TestParseSuffix(t *testing.T) {
	suffix, err := ParseSuffix("CF-2024-2581")
	require.NoError(t, err)
	assert.Equal(t, 2581, suffix)

	for _, code := range []string{"", "CF-2024", "XX-2024-0001", "CF-24-0001", "CF-2024-abcd"} {
		_, err := ParseSuffix(code)
		assert.Error(t, err, code)
	}
}
