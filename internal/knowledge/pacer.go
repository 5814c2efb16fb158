package knowledge

import (
	"context"
	"time"
)

// Pacer delays an answer so the caller can show a "thinking" state. It
// returns how long it actually waited.
type Pacer interface {
	Pace(ctx context.Context) time.Duration
}

// NoPacer returns immediately.
type NoPacer struct{}

// Pace implements Pacer.
func (NoPacer) Pace(context.Context) time.Duration { return 0 }

// Default pacing window.
const (
	DefaultPaceMin = 800 * time.Millisecond
	DefaultPaceMax = 2000 * time.Millisecond
)

// RandomPacer waits a uniformly random duration in [Min, Max].
type RandomPacer struct {
	Min, Max time.Duration
	Rand     Rand
}

// Pace implements Pacer. It returns early when ctx is done.
func (p RandomPacer) Pace(ctx context.Context) time.Duration {
	d := p.Min
	if span := p.Max - p.Min; span > 0 && p.Rand != nil {
		d += time.Duration(p.Rand.IntN(int(span) + 1))
	}
	if d <= 0 {
		return 0
	}

	start := time.Now()
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return d
	case <-ctx.Done():
		return time.Since(start)
	}
}
