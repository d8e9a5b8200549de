package api

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker is open and the recovery window
// has not elapsed yet.
var ErrCircuitOpen = errors.New("circuit breaker open: catalog server is unavailable, backing off")

type circuitState int

const (
	circuitClosed   circuitState = iota // requests flow through
	circuitOpen                         // all requests rejected
	circuitHalfOpen                     // probing recovery
)

func (s circuitState) String() string {
	switch s {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// circuitBreaker trips open after threshold consecutive API-level failures
// (HTTP 429 or 5xx), stays open for resetTimeout, then lets probes through
// until one succeeds or fails.
type circuitBreaker struct {
	mu           sync.Mutex
	state        circuitState
	consecutive  int
	threshold    int
	resetTimeout time.Duration
	openedAt     time.Time
	now          func() time.Time
}

func newCircuitBreaker(threshold int, resetTimeout time.Duration) *circuitBreaker {
	if threshold < 1 {
		threshold = 1
	}
	return &circuitBreaker{
		state:        circuitClosed,
		threshold:    threshold,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

// Allow reports the current state and whether a request may proceed.
func (cb *circuitBreaker) Allow() (circuitState, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == circuitOpen {
		if cb.now().Sub(cb.openedAt) < cb.resetTimeout {
			return circuitOpen, false
		}
		cb.state = circuitHalfOpen
	}
	return cb.state, true
}

// RecordSuccess closes the circuit and returns the state it was in.
func (cb *circuitBreaker) RecordSuccess() (prev circuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	prev = cb.state
	cb.consecutive = 0
	cb.state = circuitClosed
	return prev
}

// RecordFailure counts an API-level failure and returns the resulting state.
// A failed half-open probe reopens the circuit immediately.
func (cb *circuitBreaker) RecordFailure() (newState circuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutive++
	if cb.state == circuitHalfOpen || cb.consecutive >= cb.threshold {
		cb.state = circuitOpen
		cb.openedAt = cb.now()
	}
	return cb.state
}

// State returns the current state without side effects.
func (cb *circuitBreaker) State() circuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
