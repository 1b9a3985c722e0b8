// Package ratelimit implements a per-user sliding-window limiter for
// inbound bot commands.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmhodges/clock"
)

// Limiter allows at most bucketSize events per key within a rolling
// window. Safe for concurrent use.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string][]time.Time
	bucketSize int
	window     time.Duration
	enabled    bool
	clk        clock.Clock
}

func New(bucketSize int, window time.Duration, enabled bool) *Limiter {
	return &Limiter{
		buckets:    make(map[string][]time.Time),
		bucketSize: bucketSize,
		window:     window,
		enabled:    enabled,
		clk:        clock.New(),
	}
}

// WithClock substitutes the time source. Tests use a fake clock.
func (l *Limiter) WithClock(clk clock.Clock) *Limiter {
	l.clk = clk
	return l
}

// Allow reports whether an event for key may proceed now. When denied,
// retryAfter says how long until the oldest event leaves the window.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if !l.enabled {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now()
	cutoff := now.Add(-l.window)

	kept := l.buckets[key][:0]
	for _, t := range l.buckets[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.buckets[key] = kept

	if len(kept) >= l.bucketSize {
		retryAfter := kept[0].Sub(cutoff)
		return false, retryAfter
	}

	l.buckets[key] = append(kept, now)
	return true, 0
}

// AllowCommand scopes the limit per user and command.
func (l *Limiter) AllowCommand(userID int64, command string) (bool, time.Duration) {
	return l.Allow(fmt.Sprintf("%d:%s", userID, command))
}
