package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter() *RateLimiter {
	return NewRateLimiter(100*time.Millisecond, testLogger())
}

func TestApplyDelay_RespectsContextCancellation(t *testing.T) {
	rl := newTestRateLimiter()
	host := "peps.python.org"
	rl.UpdateLastRequestTime(host)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	rl.ApplyDelay(ctx, host, 5*time.Second)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestApplyDelay_SleepsForExpectedDuration(t *testing.T) {
	rl := newTestRateLimiter()
	host := "peps.python.org"
	rl.UpdateLastRequestTime(host)

	start := time.Now()
	rl.ApplyDelay(context.Background(), host, 100*time.Millisecond)
	elapsed := time.Since(start)

	// Jitter is +/- 10%, leave room for timer imprecision
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 300*time.Millisecond)
}

func TestApplyDelay_NoDelayOnFirstRequest(t *testing.T) {
	rl := newTestRateLimiter()

	start := time.Now()
	rl.ApplyDelay(context.Background(), "fresh-host.example", 5*time.Second)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestApplyDelay_ZeroDelayDisabled(t *testing.T) {
	rl := NewRateLimiter(0, testLogger())
	host := "docs.python.org"
	rl.UpdateLastRequestTime(host)

	start := time.Now()
	rl.ApplyDelay(context.Background(), host, 0)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}
