package server

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmagar/jellybrowse/internal/browser"
	"github.com/jmagar/jellybrowse/internal/logger"
)

// Event names written on /library/events.
const (
	EventConnected           = "connected"
	EventSearchResultChanged = "searchResultChanged"
)

const (
	defaultSubscriberBuffer  = 16
	defaultHeartbeatInterval = 30 * time.Second
)

// Hub fans search notifications out to connected event streams. It
// implements browser.Notifier and never blocks the publisher: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	log       logger.Logger
	buffer    int
	heartbeat time.Duration

	mu   sync.Mutex
	subs map[chan browser.SearchResultChanged]struct{}
}

// NewHub returns an empty hub.
func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		log:       log,
		buffer:    defaultSubscriberBuffer,
		heartbeat: defaultHeartbeatInterval,
		subs:      make(map[chan browser.SearchResultChanged]struct{}),
	}
}

var _ browser.Notifier = (*Hub)(nil)

// SearchResultChanged publishes ev to every subscriber.
func (h *Hub) SearchResultChanged(_ context.Context, ev browser.SearchResultChanged) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.Warn("Dropped search notification for slow subscriber", logger.String("query", ev.Query))
		}
	}
}

// Subscribers returns the number of connected streams.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe() (<-chan browser.SearchResultChanged, func()) {
	ch := make(chan browser.SearchResultChanged, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// stream serves a server-sent event stream until the client disconnects.
func (h *Hub) stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events, unsubscribe := h.subscribe()
	defer unsubscribe()

	c.SSEvent(EventConnected, gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)})
	c.Writer.Flush()

	log := logger.FromContext(c.Request.Context())
	log.Debug("Event stream connected", logger.String("client_ip", c.ClientIP()))

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			c.SSEvent(EventSearchResultChanged, ev)
			c.Writer.Flush()
		case <-ticker.C:
			if _, err := c.Writer.WriteString(": heartbeat\n\n"); err != nil {
				log.Debug("Event stream heartbeat failed", logger.Err(err))
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			log.Debug("Event stream closed")
			return
		}
	}
}
