// Package codes issues booking tracking codes of the form
// CF-<year>-<zero-padded sequence>. The sequence is reconciled from two
// sources (the persisted counter and the suffixes of stored codes) so a
// partially cleared store can never cause a code to be reissued.
package codes

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"campusfix/internal/models"

	"github.com/rs/zerolog"
)

// Store is the persistence surface the generator needs.
type Store interface {
	// Counter returns the persisted sequence counter (0 when unset).
	Counter(ctx context.Context) (int, error)
	// BumpCounter raises the persisted counter to value. It must never
	// lower it.
	BumpCounter(ctx context.Context, value int) error
	// MaxCodeSuffix returns the highest numeric suffix among stored codes,
	// 0 when the store is empty.
	MaxCodeSuffix(ctx context.Context) (int, error)
}

var codePattern = regexp.MustCompile(`^` + models.CodePrefix + `-(\d{4})-(\d+)$`)

type Generator struct {
	store  Store
	now    func() time.Time
	logger *zerolog.Logger
}

func NewGenerator(store Store, logger *zerolog.Logger) *Generator {
	return &Generator{store: store, now: time.Now, logger: logger}
}

// WithClock overrides the time source, for tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next issues a code strictly greater (by suffix) than every code issued
// before, and persists the advanced counter. When both sequence sources
// fail it degrades to a timestamp-derived code rather than refusing the
// booking.
func (g *Generator) Next(ctx context.Context) (string, error) {
	counter, counterErr := g.store.Counter(ctx)
	maxSuffix, suffixErr := g.store.MaxCodeSuffix(ctx)

	if counterErr != nil && suffixErr != nil {
		g.logger.Warn().
			AnErr("counter_err", counterErr).
			AnErr("suffix_err", suffixErr).
			Msg("sequence sources unavailable, issuing timestamp code")
		return g.Emergency(), nil
	}
	if counterErr != nil {
		g.logger.Warn().Err(counterErr).Msg("counter read failed, using stored code suffixes only")
		counter = 0
	}
	if suffixErr != nil {
		g.logger.Warn().Err(suffixErr).Msg("suffix scan failed, using counter only")
		maxSuffix = 0
	}

	next := counter + 1
	if maxSuffix+1 > next {
		next = maxSuffix + 1
	}

	if err := g.store.BumpCounter(ctx, next); err != nil {
		// The code is still safe to hand out: suffix reconciliation on the
		// next call covers a lost counter write.
		g.logger.Warn().Err(err).Int("value", next).Msg("counter persist failed")
	}

	return Format(g.now().Year(), next), nil
}

// Emergency returns a timestamp-suffixed code. Used when the sequence is
// unreadable or a freshly generated code collides at save time.
func (g *Generator) Emergency() string {
	suffix := int(g.now().UnixMilli() % 10_000_000)
	return Format(g.now().Year(), suffix)
}

// Format renders a code from its parts.
func Format(year, suffix int) string {
	return fmt.Sprintf("%s-%d-%0*d", models.CodePrefix, year, models.CodeSuffixDigits, suffix)
}

// ParseSuffix extracts the numeric sequence from a code.
func ParseSuffix(code string) (int, error) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return 0, fmt.Errorf("malformed booking code: %q", code)
	}
	suffix, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("malformed booking code suffix: %q", code)
	}
	return suffix, nil
}
