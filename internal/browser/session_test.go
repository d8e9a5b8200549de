package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmagar/jellybrowse/internal/library"
	"github.com/jmagar/jellybrowse/internal/route"
)

func await[T any](t *testing.T, f *Future[T]) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := f.Get(ctx)
	if err != nil {
		t.Fatalf("future did not complete: %v", err)
	}
	return v
}

func TestSessionResultCodes(t *testing.T) {
	e := newTestEngine(map[string]library.Page{
		library.PageRoot: &recordingPage{elements: []library.Element{
			&library.Item{Title: "Music", Action: library.Navigate{Page: library.PageUserView, Params: []string{"m"}}},
		}},
	})
	s := NewSession(e, nil, nil, nil)
	ctx := context.Background()

	root := await(t, s.GetLibraryRoot(ctx, RootFlags{}))
	if !root.OK() || root.Value.MediaID != "jellyfin/root" {
		t.Fatalf("root = %#v", root)
	}

	recent := await(t, s.GetLibraryRoot(ctx, RootFlags{IsRecent: true}))
	if recent.Code != ResultErrorNotSupported || recent.Err() == nil || recent.Error == "" {
		t.Fatalf("recent = %#v", recent)
	}

	children := await(t, s.GetChildren(ctx, root.Value.MediaID, 0, 20))
	if !children.OK() || len(children.Value) != 1 {
		t.Fatalf("children = %#v", children)
	}

	bad := await(t, s.GetChildren(ctx, "jellyfin", 0, 20))
	if bad.Code != ResultErrorBadValue || bad.Value != nil {
		t.Fatalf("bad children = %#v", bad)
	}

	item := await(t, s.GetItem(ctx, route.Encode(library.PageFavorites, "m")))
	if item.Code != ResultErrorNotSupported {
		t.Fatalf("item = %#v", item)
	}

	added := await(t, s.AddMediaItems(ctx, []MediaItem{{MediaID: "x"}, {MediaID: "y"}}))
	if !added.OK() || len(added.Value) != 2 || added.Value[1].URI == "" {
		t.Fatalf("added = %#v", added)
	}
}

func TestSessionSearchAcknowledgesAndNotifies(t *testing.T) {
	events := make(chan SearchResultChanged, 1)
	page := &recordingPage{}
	e := newTestEngine(map[string]library.Page{library.PageSearch: page})
	s := NewSession(e, NotifierFunc(func(_ context.Context, ev SearchResultChanged) {
		events <- ev
	}), nil, nil)

	ack := await(t, s.Search(context.Background(), "abba"))
	if !ack.OK() {
		t.Fatalf("ack = %#v", ack)
	}
	select {
	case ev := <-events:
		if ev.Query != "abba" || ev.Count != 1 {
			t.Fatalf("event = %#v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no search notification")
	}
	if page.params != nil {
		t.Fatal("search acknowledgement ran the query")
	}

	res := await(t, s.GetSearchResult(context.Background(), "abba", 0, 10))
	if !res.OK() || page.params[0] != "abba" {
		t.Fatalf("search result = %#v, params %v", res, page.params)
	}
}

// blockingPage waits for cancellation and reports what it saw.
type blockingPage struct {
	started chan struct{}
}

func (p *blockingPage) Content(ctx context.Context, _ []string, _, _ int) ([]library.Element, error) {
	close(p.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSessionCancellationReachesPage(t *testing.T) {
	page := &blockingPage{started: make(chan struct{})}
	s := NewSession(newTestEngine(map[string]library.Page{library.PageAlbums: page}), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	f := s.GetChildren(ctx, route.Encode(library.PageAlbums, "lib"), 0, 10)
	<-page.started
	cancel()

	res := await(t, f)
	if res.OK() || !errors.Is(res.Err(), context.Canceled) {
		t.Fatalf("result = %#v", res)
	}
}

func TestFutureCancel(t *testing.T) {
	page := &blockingPage{started: make(chan struct{})}
	s := NewSession(newTestEngine(map[string]library.Page{library.PageAlbums: page}), nil, nil, nil)

	f := s.GetChildren(context.Background(), route.Encode(library.PageAlbums, "lib"), 0, 10)
	<-page.started
	f.Cancel()
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("future not done after Cancel")
	}
	if res := await(t, f); res.Code != ResultErrorUnknown {
		t.Fatalf("code = %v, want Unknown", res.Code)
	}
}

func TestFutureGetHonoursCallerContext(t *testing.T) {
	page := &blockingPage{started: make(chan struct{})}
	s := NewSession(newTestEngine(map[string]library.Page{library.PageAlbums: page}), nil, nil, nil)
	f := s.GetChildren(context.Background(), route.Encode(library.PageAlbums, "lib"), 0, 10)
	defer f.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Get(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Get error = %v, want deadline exceeded", err)
	}
}

func TestManyConcurrentRequests(t *testing.T) {
	e := newTestEngine(map[string]library.Page{
		library.PageRoot: library.PageFunc(func(context.Context, []string, int, int) ([]library.Element, error) {
			return []library.Element{&library.Item{Title: "x", Action: library.Navigate{Page: library.PageUserView}}}, nil
		}),
	})
	s := NewSession(e, nil, nil, nil)

	futures := make([]*Future[LibraryResult[[]MediaItem]], 64)
	for i := range futures {
		futures[i] = s.GetChildren(context.Background(), "jellyfin/root", 0, 10)
	}
	for i, f := range futures {
		if res := await(t, f); !res.OK() || len(res.Value) != 1 {
			t.Fatalf("request %d = %#v", i, res)
		}
	}
}
