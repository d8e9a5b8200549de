package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// APIEvent names a line in the API log.
type APIEvent string

const (
	EventRequest         APIEvent = "request"
	EventRetry           APIEvent = "retry"
	EventRateLimitWait   APIEvent = "rate_limit_wait"
	EventCircuitOpened   APIEvent = "circuit_opened"
	EventCircuitClosed   APIEvent = "circuit_closed"
	EventCircuitRejected APIEvent = "circuit_rejected"
)

// APILogEntry is one JSON line of the API log. Keys are snake_case for jq.
type APILogEntry struct {
	Timestamp  time.Time `json:"ts"`
	Event      APIEvent  `json:"event"`
	Label      string    `json:"label,omitempty"`
	Status     int       `json:"status,omitempty"` // 0 means the request never got a response
	DurationMS int64     `json:"duration_ms,omitempty"`
	Attempt    int       `json:"attempt,omitempty"`
	WaitMS     int64     `json:"wait_ms,omitempty"`
	Circuit    string    `json:"circuit,omitempty"`
	From       string    `json:"from,omitempty"` // previous circuit state on transitions
	Error      string    `json:"error,omitempty"`
}

// APILog appends entries for every catalog round trip. A nil *APILog
// discards everything, so the client calls it unconditionally.
type APILog struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
	now func() time.Time
}

// NewAPILog writes entries to w.
func NewAPILog(w io.Writer) *APILog {
	return &APILog{w: w, enc: json.NewEncoder(w), now: time.Now}
}

// OpenAPILog appends to the file at path, creating it and its directory
// with owner-only permissions.
func OpenAPILog(path string) (*APILog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("api log: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("api log: open %s: %w", path, err)
	}
	return NewAPILog(f), nil
}

// Close closes the destination if it is closable.
func (l *APILog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Log stamps and writes e. Write errors are dropped.
func (l *APILog) Log(e APILogEntry) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now().UTC()
	}
	_ = l.enc.Encode(e)
}

func (l *APILog) attempt(label string, status int, d time.Duration, attempt int, state circuitState, err error) {
	e := APILogEntry{
		Event:      EventRequest,
		Label:      label,
		Status:     status,
		DurationMS: d.Milliseconds(),
		Attempt:    attempt,
		Circuit:    state.String(),
	}
	if attempt > 0 {
		e.Event = EventRetry
	}
	if err != nil {
		e.Error = err.Error()
	}
	l.Log(e)
}

func (l *APILog) waited(label string, d time.Duration) {
	l.Log(APILogEntry{Event: EventRateLimitWait, Label: label, WaitMS: d.Milliseconds()})
}

func (l *APILog) transition(label string, from, to circuitState) {
	ev := EventCircuitOpened
	if to == circuitClosed {
		ev = EventCircuitClosed
	}
	l.Log(APILogEntry{Event: ev, Label: label, Circuit: to.String(), From: from.String()})
}

func (l *APILog) rejected(label string) {
	l.Log(APILogEntry{Event: EventCircuitRejected, Label: label, Circuit: circuitOpen.String(), Error: ErrCircuitOpen.Error()})
}
