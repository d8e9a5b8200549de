package browser

import (
	"context"

	"github.com/jmagar/jellybrowse/internal/logger"
	"github.com/jmagar/jellybrowse/internal/metrics"
)

// SearchResultChanged tells the host a search result is ready to fetch.
type SearchResultChanged struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Notifier delivers events to the host. Implementations must not block.
type Notifier interface {
	SearchResultChanged(ctx context.Context, ev SearchResultChanged)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev SearchResultChanged)

// SearchResultChanged calls f.
func (f NotifierFunc) SearchResultChanged(ctx context.Context, ev SearchResultChanged) { f(ctx, ev) }

// Session is the asynchronous host surface over an Engine. Every request
// runs in its own goroutine and returns a Future; cancelling the request
// context cancels the task and any sub-queries it started.
type Session struct {
	engine   *Engine
	notifier Notifier
	log      logger.Logger
	metrics  *metrics.Metrics
}

// NewSession wraps e. notifier may be nil when the host takes no events.
func NewSession(e *Engine, notifier Notifier, log logger.Logger, m *metrics.Metrics) *Session {
	if log == nil {
		log = logger.NewNop()
	}
	return &Session{engine: e, notifier: notifier, log: log, metrics: m}
}

// Engine returns the wrapped engine.
func (s *Session) Engine() *Engine { return s.engine }

func run[T any](ctx context.Context, s *Session, fn func(ctx context.Context) (T, error)) *Future[LibraryResult[T]] {
	done := s.metrics.TaskStarted()
	return spawn(ctx, func(ctx context.Context) LibraryResult[T] {
		defer done()
		v, err := fn(ctx)
		return resultOf(v, err)
	})
}

// GetLibraryRoot serves getRoot.
func (s *Session) GetLibraryRoot(ctx context.Context, flags RootFlags) *Future[LibraryResult[MediaItem]] {
	s.log.Debug("get library root", logger.Bool("recent", flags.IsRecent), logger.Bool("suggested", flags.IsSuggested))
	return run(ctx, s, func(context.Context) (MediaItem, error) {
		return s.engine.GetRoot(flags)
	})
}

// GetChildren serves getChildren.
func (s *Session) GetChildren(ctx context.Context, parentID string, page, pageSize int) *Future[LibraryResult[[]MediaItem]] {
	s.log.Debug("get children", logger.String("parent_id", parentID), logger.Int("page", page), logger.Int("page_size", pageSize))
	return run(ctx, s, func(ctx context.Context) ([]MediaItem, error) {
		return s.engine.ListChildren(ctx, parentID, page, pageSize)
	})
}

// GetItem serves getItem.
func (s *Session) GetItem(ctx context.Context, mediaID string) *Future[LibraryResult[MediaItem]] {
	s.log.Debug("get item", logger.String("media_id", mediaID))
	return run(ctx, s, func(context.Context) (MediaItem, error) {
		return s.engine.ItemLookup(mediaID)
	})
}

// Search acknowledges a search and announces one result before any query
// runs. The host then fetches it with GetSearchResult.
func (s *Session) Search(ctx context.Context, query string) *Future[LibraryResult[struct{}]] {
	s.log.Debug("search", logger.String("query", query))
	return run(ctx, s, func(ctx context.Context) (struct{}, error) {
		if s.notifier != nil {
			s.notifier.SearchResultChanged(context.WithoutCancel(ctx), SearchResultChanged{Query: query, Count: 1})
		}
		return struct{}{}, nil
	})
}

// GetSearchResult serves getSearchResult.
func (s *Session) GetSearchResult(ctx context.Context, query string, page, pageSize int) *Future[LibraryResult[[]MediaItem]] {
	s.log.Debug("get search result", logger.String("query", query), logger.Int("page", page), logger.Int("page_size", pageSize))
	return run(ctx, s, func(ctx context.Context) ([]MediaItem, error) {
		return s.engine.Search(ctx, query, page, pageSize)
	})
}

// AddMediaItems serves addMediaItems.
func (s *Session) AddMediaItems(ctx context.Context, items []MediaItem) *Future[LibraryResult[[]MediaItem]] {
	s.log.Debug("add media items", logger.Int("count", len(items)))
	return run(ctx, s, func(ctx context.Context) ([]MediaItem, error) {
		return s.engine.AddMediaItems(ctx, items)
	})
}
