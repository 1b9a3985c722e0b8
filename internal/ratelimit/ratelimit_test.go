package ratelimit

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(bucketSize int, window time.Duration) (*Limiter, clock.FakeClock) {
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	return New(bucketSize, window, true).WithClock(clk), clk
}

func TestAllowUpToBucketSize(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("u1")
		assert.True(t, ok, "event %d", i)
	}

	ok, retryAfter := l.Allow("u1")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestWindowExpiryReAllows(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)

	l.Allow("u1")
	l.Allow("u1")
	ok, _ := l.Allow("u1")
	assert.False(t, ok)

	clk.Add(61 * time.Second)
	ok, _ = l.Allow("u1")
	assert.True(t, ok)
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	ok, _ := l.Allow("u1")
	assert.True(t, ok)
	ok, _ = l.Allow("u2")
	assert.True(t, ok)
	ok, _ = l.Allow("u1")
	assert.False(t, ok)
}

func TestCommandScoping(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	ok, _ := l.AllowCommand(42, "add")
	assert.True(t, ok)
	ok, _ = l.AllowCommand(42, "list")
	assert.True(t, ok)
	ok, _ = l.AllowCommand(42, "add")
	assert.False(t, ok)
}

func TestDisabledLimiterAlwaysAllows(t *testing.T) {
	l := New(1, time.Minute, false)

	for i := 0; i < 100; i++ {
		ok, _ := l.Allow("u1")
		assert.True(t, ok)
	}
}
