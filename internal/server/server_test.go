package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmagar/jellybrowse/internal/browser"
	"github.com/jmagar/jellybrowse/internal/library"
	"github.com/jmagar/jellybrowse/internal/logger"
	"github.com/jmagar/jellybrowse/internal/metrics"
)

type fakeStreams struct{}

func (fakeStreams) URL(itemID string) (string, error) {
	if itemID == "" || strings.Contains(itemID, "/") {
		return "", errors.New("not an item id")
	}
	return "http://jf/Audio/" + itemID + "/universal", nil
}

type paged struct {
	offset, limit int
}

func testPages(got *paged) map[string]library.Page {
	return map[string]library.Page{
		library.PageRoot: library.PageFunc(func(_ context.Context, _ []string, offset, limit int) ([]library.Element, error) {
			if got != nil {
				got.offset, got.limit = offset, limit
			}
			return []library.Element{
				&library.Item{ID: "userView,m", Title: "Music", Action: library.Navigate{Page: library.PageUserView, Params: []string{"m"}}},
			}, nil
		}),
		library.PageAlbums: library.PageFunc(func(context.Context, []string, int, int) ([]library.Element, error) {
			return nil, errors.New("catalog down")
		}),
		library.PageSearch: library.PageFunc(func(_ context.Context, params []string, _, _ int) ([]library.Element, error) {
			return []library.Element{&library.Group{Title: "Albums", Items: []*library.Item{
				{ID: "a1", Title: params[0], Action: library.Navigate{Page: library.PageAlbum, Params: []string{"a1"}}},
			}}}, nil
		}),
	}
}

type harness struct {
	srv *Server
	hub *Hub
	reg *prometheus.Registry
}

func newHarness(t *testing.T, got *paged) *harness {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	hub := NewHub(logger.NewNop())
	engine := browser.NewEngine(library.NewRegistryFrom(testPages(got)), fakeStreams{}, browser.WithMetrics(m))
	sess := browser.NewSession(engine, hub, nil, m)
	return &harness{srv: New(Config{}, sess, hub, reg, nil), hub: hub, reg: reg}
}

type result struct {
	Code  int             `json:"resultCode"`
	Value json.RawMessage `json:"value"`
	Error string          `json:"error"`
}

func (h *harness) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, result) {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)

	var res result
	if strings.HasPrefix(target, "/library") {
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, target, w.Body.String(), err)
		}
	}
	return w, res
}

func TestStatusMapping(t *testing.T) {
	h := newHarness(t, nil)
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   int
	}{
		{"root", http.MethodGet, "/library/root", "", http.StatusOK, 0},
		{"recent root", http.MethodGet, "/library/root?recent=true", "", http.StatusNotImplemented, -6},
		{"children", http.MethodGet, "/library/children?parentId=jellyfin/root", "", http.StatusOK, 0},
		{"malformed parent", http.MethodGet, "/library/children?parentId=jellyfin", "", http.StatusBadRequest, -3},
		{"unknown page children", http.MethodGet, "/library/children?parentId=jellyfin/genres", "", http.StatusBadRequest, -3},
		{"negative page", http.MethodGet, "/library/children?parentId=jellyfin/root&page=-1", "", http.StatusBadRequest, -3},
		{"non-numeric page size", http.MethodGet, "/library/children?parentId=jellyfin/root&pageSize=ten", "", http.StatusBadRequest, -3},
		{"remote failure", http.MethodGet, "/library/children?parentId=jellyfin/albums/lib", "", http.StatusBadGateway, -1},
		{"item", http.MethodGet, "/library/item?mediaId=jellyfin/albums/lib", "", http.StatusOK, 0},
		{"unknown page item", http.MethodGet, "/library/item?mediaId=jellyfin/genres", "", http.StatusNotImplemented, -6},
		{"search ack", http.MethodPost, "/library/search", `{"query":"abba"}`, http.StatusOK, 0},
		{"search bad body", http.MethodPost, "/library/search", `{`, http.StatusBadRequest, -3},
		{"search result", http.MethodGet, "/library/search?query=abba", "", http.StatusOK, 0},
		{"media items", http.MethodPost, "/library/media-items", `[{"mediaId":"x"}]`, http.StatusOK, 0},
		{"media items bad id", http.MethodPost, "/library/media-items", `[{"mediaId":"jellyfin/root"}]`, http.StatusBadRequest, -3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, res := h.do(t, tc.method, tc.target, tc.body)
			if w.Code != tc.status || res.Code != tc.code {
				t.Fatalf("got %d/%d, want %d/%d (body %s)", w.Code, res.Code, tc.status, tc.code, w.Body.String())
			}
			if tc.code != 0 && res.Error == "" {
				t.Fatalf("failure without error text: %s", w.Body.String())
			}
		})
	}
}

func TestChildrenPaging(t *testing.T) {
	var got paged
	h := newHarness(t, &got)

	_, res := h.do(t, http.MethodGet, "/library/children?parentId=jellyfin/root&page=2&pageSize=10", "")
	if res.Code != 0 {
		t.Fatalf("result = %+v", res)
	}
	if got.offset != 20 || got.limit != 10 {
		t.Fatalf("page saw offset %d limit %d, want 20/10", got.offset, got.limit)
	}

	h.do(t, http.MethodGet, "/library/children?parentId=jellyfin/root", "")
	if got.offset != 0 || got.limit != DefaultPageSize {
		t.Fatalf("defaults gave offset %d limit %d", got.offset, got.limit)
	}

	var items []browser.MediaItem
	if err := json.Unmarshal(res.Value, &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].MediaID != "jellyfin/userView/m" || !items[0].Metadata.IsBrowsable {
		t.Fatalf("items = %+v", items)
	}
}

func TestSearchResultCarriesGroupTitle(t *testing.T) {
	h := newHarness(t, nil)
	_, res := h.do(t, http.MethodGet, "/library/search?query=abba&page=3&pageSize=1", "")

	var items []browser.MediaItem
	if err := json.Unmarshal(res.Value, &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Metadata.Title != "abba" {
		t.Fatalf("items = %+v", items)
	}
	if title, ok := items[0].GroupTitle(); !ok || title != "Albums" {
		t.Fatalf("group title = %q, %v", title, ok)
	}
}

func TestAddMediaItemsKeepsOrder(t *testing.T) {
	h := newHarness(t, nil)
	_, res := h.do(t, http.MethodPost, "/library/media-items", `[{"mediaId":"b"},{"mediaId":"a"},{"mediaId":"c"}]`)

	var items []browser.MediaItem
	if err := json.Unmarshal(res.Value, &items); err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "a", "c"}
	if len(items) != len(want) {
		t.Fatalf("got %d items", len(items))
	}
	for i, id := range want {
		if items[i].MediaID != id || items[i].URI != "http://jf/Audio/"+id+"/universal" {
			t.Fatalf("item %d = %+v", i, items[i])
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, nil)
	h.do(t, http.MethodGet, "/library/root", "")

	w, _ := h.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}

	w, _ = h.do(t, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `jellybrowse_engine_requests_total{operation="get_root",result="success"} 1`) {
		t.Fatalf("metrics missing engine counter:\n%s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	h := newHarness(t, nil)

	w, _ := h.do(t, http.MethodGet, "/health", "")
	if _, err := uuid.Parse(w.Header().Get(headerRequestID)); err != nil {
		t.Fatalf("generated request id %q: %v", w.Header().Get(headerRequestID), err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	req.Header.Set(headerRequestID, "upstream-1")
	w = httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(headerRequestID); got != "upstream-1" {
		t.Fatalf("request id = %q, want upstream-1", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	req.Header.Set(headerRequestID, strings.Repeat("x", maxRequestIDLength+1))
	w = httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(headerRequestID); len(got) > maxRequestIDLength {
		t.Fatalf("oversized request id kept")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(recoveryMiddleware(logger.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestSearchNotifiesEventStream(t *testing.T) {
	h := newHarness(t, nil)
	ts := httptest.NewServer(h.srv.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/library/events", http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type = %q", ct)
	}

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	next := func(prefix string) string {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed waiting for %q", prefix)
				}
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	next("event:" + EventConnected)
	if h.hub.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", h.hub.Subscribers())
	}

	post, err := http.Post(ts.URL+"/library/search", "application/json", strings.NewReader(`{"query":"abba"}`))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	_ = post.Body.Close()
	if post.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", post.StatusCode)
	}

	next("event:" + EventSearchResultChanged)
	data := next("data:")
	var ev browser.SearchResultChanged
	if err := json.Unmarshal([]byte(strings.TrimPrefix(data, "data:")), &ev); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	if ev.Query != "abba" || ev.Count != 1 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	hub.buffer = 1
	events, unsubscribe := hub.subscribe()

	done := make(chan struct{})
	go func() {
		hub.SearchResultChanged(context.Background(), browser.SearchResultChanged{Query: "a", Count: 1})
		hub.SearchResultChanged(context.Background(), browser.SearchResultChanged{Query: "b", Count: 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	if ev := <-events; ev.Query != "a" {
		t.Fatalf("first event = %+v", ev)
	}

	unsubscribe()
	if hub.Subscribers() != 0 {
		t.Fatalf("subscribers = %d after unsubscribe", hub.Subscribers())
	}
}
