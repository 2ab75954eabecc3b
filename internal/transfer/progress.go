package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Notifier is the external sink for human-readable progress strings. Delivery
// failures are logged and ignored; they are never fatal to a transfer.
type Notifier interface {
	Notify(ctx context.Context, transferID string, message string) error
}

// Event is one progress observation produced by the transfer loop. Producers
// write events to a channel; a single throttling consumer drives the sink, so
// progress reporting never fans out into per-update goroutines.
type Event struct {
	TransferID string
	Stage      string
	Done       int64
	Total      int64 // negative when unknown
	Final      bool
	Message    string
}

func (e Event) render(started time.Time) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Total > 0 {
		pct := float64(e.Done) / float64(e.Total) * 100
		return fmt.Sprintf("%s: %.0f%% (%s of %s, %s)",
			e.Stage, pct, FormatBytes(e.Done), FormatBytes(e.Total),
			FormatRate(e.Done, time.Since(started)))
	}
	return fmt.Sprintf("%s: %s (%s)",
		e.Stage, FormatBytes(e.Done), FormatRate(e.Done, time.Since(started)))
}

// RunThrottler consumes events until the channel closes, forwarding at most
// one notification per interval. Final events bypass the throttle so the
// completion state is always delivered.
func RunThrottler(ctx context.Context, events <-chan Event, sink Notifier, interval time.Duration, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	started := time.Now()
	var lastSent time.Time

	send := func(e Event) {
		if err := sink.Notify(ctx, e.TransferID, e.render(started)); err != nil {
			log.Warn("progress notification failed", "transfer", e.TransferID, "error", err)
		}
		lastSent = time.Now()
	}

	for e := range events {
		if e.Final {
			send(e)
			continue
		}
		if time.Since(lastSent) >= interval {
			send(e)
		}
	}
}
