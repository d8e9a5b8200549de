package api

import (
	"context"
	"sync"
	"time"
)

// rateLimiter is a token bucket: burst requests immediately, then ratePerSec
// tokens per second. A non-positive rate disables limiting.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	ratePerSec float64
	lastRefill time.Time
	now        func() time.Time
}

func newRateLimiter(ratePerSec float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		ratePerSec: ratePerSec,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// reserve takes a token if one is available, otherwise reports how long until
// the next one arrives.
func (rl *rateLimiter) reserve() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.ratePerSec <= 0 {
		return 0, true
	}
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens = min(rl.maxTokens, rl.tokens+elapsed*rl.ratePerSec)
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}
	return time.Duration((1.0 - rl.tokens) / rl.ratePerSec * float64(time.Second)), false
}

// Wait blocks until a token is available or ctx is done.
func (rl *rateLimiter) Wait(ctx context.Context) (waited time.Duration, err error) {
	start := time.Now()
	for {
		wait, ok := rl.reserve()
		if ok {
			return time.Since(start), nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return time.Since(start), ctx.Err()
		case <-timer.C:
		}
	}
}
