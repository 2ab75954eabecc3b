package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/beanbocchi/portage/internal/client/objectstore"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second

	// ceilingShrinkFactor narrows the attempter's chunk-size ceiling after a
	// quota rejection, as an adaptive signal finer than the strategy ladder.
	ceilingShrinkFactor = 0.8
)

// Attempter pushes single parts to the object store with bounded retries and
// quota-aware backoff. One attempter serves one transfer: its adaptive
// chunk-size ceiling is deliberately not shared across transfers.
type Attempter struct {
	store    objectstore.Client
	classify Classifier
	log      *slog.Logger

	maxAttempts int
	baseDelay   time.Duration

	ceiling    int64
	minCeiling int64
}

type AttempterConfig struct {
	Store      objectstore.Client
	Classifier Classifier
	Logger     *slog.Logger

	// Ladder bounds the adaptive ceiling (default DefaultLadder).
	Ladder Ladder

	// MaxAttempts bounds transient retries per part (default 3).
	MaxAttempts int
	// BaseDelay is the linear backoff unit: attempt i sleeps i*BaseDelay.
	BaseDelay time.Duration
}

func NewAttempter(cfg AttempterConfig) (*Attempter, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = DefaultClassifier
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Ladder) == 0 {
		cfg.Ladder = DefaultLadder
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	return &Attempter{
		store:       cfg.Store,
		classify:    cfg.Classifier,
		log:         cfg.Logger,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		ceiling:     cfg.Ladder.Largest().ChunkSize,
		minCeiling:  cfg.Ladder.Smallest().ChunkSize,
	}, nil
}

// Ceiling is the attempter's current chunk-size ceiling. The coordinator caps
// every strategy's chunk size at this value.
func (a *Attempter) Ceiling() int64 {
	return a.ceiling
}

// Attempt uploads one staged part under the given remote name. Transient
// failures are retried in place with linear backoff; a quota/limit rejection
// returns a *QuotaError immediately so the caller can fall back to a smaller
// strategy; used-up retries return a *RetriesExhaustedError.
func (a *Attempter) Attempt(ctx context.Context, part Part, name string, strategy Strategy) error {
	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * a.baseDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := a.upload(ctx, part, name)
		if err == nil {
			return nil
		}

		if a.classify(err) == KindQuota {
			a.shrinkCeiling()
			a.log.Warn("part rejected by backend quota/limit",
				"part", part.Ordinal, "strategy", strategy.Name,
				"chunk_ceiling", FormatBytes(a.ceiling), "error", err)
			return &QuotaError{Strategy: strategy.Name, Err: err}
		}

		lastErr = err
		a.log.Warn("transient upload failure",
			"part", part.Ordinal, "attempt", attempt, "error", err)
	}
	return &RetriesExhaustedError{Attempts: a.maxAttempts, Err: lastErr}
}

func (a *Attempter) upload(ctx context.Context, part Part, name string) error {
	f, err := os.Open(part.Path)
	if err != nil {
		return fmt.Errorf("open staged part: %w", err)
	}
	defer f.Close()
	return a.store.Upload(ctx, name, f)
}

func (a *Attempter) shrinkCeiling() {
	next := int64(float64(a.ceiling) * ceilingShrinkFactor)
	if next < a.minCeiling {
		next = a.minCeiling
	}
	a.ceiling = next
}
