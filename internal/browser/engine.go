// Package browser serves host requests against the page registry: it
// resolves route tokens, lists page content as flat media items and attaches
// stream URLs for playback.
package browser

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jmagar/jellybrowse/internal/library"
	"github.com/jmagar/jellybrowse/internal/logger"
	"github.com/jmagar/jellybrowse/internal/metrics"
	"github.com/jmagar/jellybrowse/internal/route"
)

// MaxPageSize caps the number of children returned per request.
const MaxPageSize = 1000

// RootFlags are the host hints sent with a root request.
type RootFlags struct {
	IsRecent    bool
	IsSuggested bool
}

// StreamURLer builds a playable URL for a catalog item id.
// *stream.Policy satisfies it.
type StreamURLer interface {
	URL(itemID string) (string, error)
}

// Engine answers host requests. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	registry *library.Registry
	streams  StreamURLer
	log      logger.Logger
	metrics  *metrics.Metrics
}

// EngineOption customises NewEngine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithMetrics records every operation in m.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds an engine over reg that resolves stream URLs with streams.
func NewEngine(reg *library.Registry, streams StreamURLer, opts ...EngineOption) *Engine {
	e := &Engine{registry: reg, streams: streams, log: logger.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) observe(op string, start time.Time, err error) {
	code := CodeOf(err)
	e.metrics.ObserveEngine(op, code.String(), time.Since(start))
	if err != nil && !cancelled(err) {
		e.log.Debug("engine request failed",
			logger.String("operation", op),
			logger.String("result", code.String()),
			logger.Err(err),
		)
	}
}

// GetRoot returns the root node for flags. No remote call is made. The
// recent and suggested variants have no page yet and yield ErrUnknownPage.
func (e *Engine) GetRoot(flags RootFlags) (item MediaItem, err error) {
	defer func(start time.Time) { e.observe("get_root", start, err) }(time.Now())

	name := library.PageRoot
	switch {
	case flags.IsRecent:
		name = library.PageRecent
	case flags.IsSuggested:
		name = library.PageSuggested
	}
	return e.describe(route.Encode(name))
}

// ResolveNode checks that token names a registered page without fetching
// its content.
func (e *Engine) ResolveNode(token string) (item MediaItem, err error) {
	defer func(start time.Time) { e.observe("resolve_node", start, err) }(time.Now())
	return e.describe(token)
}

// ItemLookup resolves a node the same way ResolveNode does. Looking up
// individual catalog items by id is not supported.
func (e *Engine) ItemLookup(token string) (item MediaItem, err error) {
	defer func(start time.Time) { e.observe("item_lookup", start, err) }(time.Now())
	return e.describe(token)
}

func (e *Engine) describe(token string) (MediaItem, error) {
	name, _, err := route.Decode(token)
	if err != nil {
		return MediaItem{}, err
	}
	if _, ok := e.registry.Lookup(name); !ok {
		return MediaItem{}, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}
	return MediaItem{
		MediaID:  token,
		Metadata: Metadata{IsBrowsable: true, IsPlayable: true},
	}, nil
}

// ListChildren returns page number page of the node's content, at most
// min(pageSize, MaxPageSize) items before flattening. A token that cannot be
// served is a bad value here, whether malformed or naming an unknown page.
func (e *Engine) ListChildren(ctx context.Context, token string, page, pageSize int) (items []MediaItem, err error) {
	defer func(start time.Time) { e.observe("list_children", start, err) }(time.Now())
	return e.listChildren(ctx, token, page, pageSize)
}

// Search lists the search page for query. page and pageSize are validated
// but search results are not paged.
func (e *Engine) Search(ctx context.Context, query string, page, pageSize int) (items []MediaItem, err error) {
	defer func(start time.Time) { e.observe("search", start, err) }(time.Now())
	return e.listChildren(ctx, route.Encode(library.PageSearch, query), page, pageSize)
}

func (e *Engine) listChildren(ctx context.Context, token string, page, pageSize int) ([]MediaItem, error) {
	if page < 0 || pageSize < 0 {
		return nil, fmt.Errorf("%w: page %d, page size %d", ErrBadValue, page, pageSize)
	}
	if pageSize > 0 && page > math.MaxInt/pageSize {
		return nil, fmt.Errorf("%w: page %d of size %d is out of range", ErrBadValue, page, pageSize)
	}
	name, params, err := route.Decode(token)
	if err != nil {
		return nil, err
	}
	p, ok := e.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrBadValue, ErrUnknownPage, name)
	}

	offset := page * pageSize
	limit := min(pageSize, MaxPageSize)
	elements, err := p.Content(ctx, params, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	return Flatten(elements), nil
}

// AddMediaItems returns items in the same order, each with its stream URL
// set. Items are identified by catalog item id.
func (e *Engine) AddMediaItems(ctx context.Context, items []MediaItem) (out []MediaItem, err error) {
	defer func(start time.Time) { e.observe("add_media_items", start, err) }(time.Now())

	out = make([]MediaItem, len(items))
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uri, err := e.streams.URL(it.MediaID)
		if err != nil {
			return nil, fmt.Errorf("%w: media item %d: %w", ErrBadValue, i, err)
		}
		it.URI = uri
		out[i] = it
	}
	return out, nil
}
