package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmagar/jellybrowse/internal/model"
)

// fakeCatalog records every call and answers from canned data.
type fakeCatalog struct {
	mu      sync.Mutex
	views   []model.BaseItem
	items   map[model.ItemKind][]model.BaseItem // keyed by first included kind, "" for untyped
	failFor map[model.ItemKind]error
	block   map[model.ItemKind]bool // wait for ctx cancellation before answering
	queries []model.ItemQuery
	viewErr error
	calls   int
}

func (f *fakeCatalog) UserViews(context.Context) ([]model.BaseItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return f.views, nil
}

func (f *fakeCatalog) Items(ctx context.Context, q model.ItemQuery) (*model.ItemsResult, error) {
	f.mu.Lock()
	f.calls++
	f.queries = append(f.queries, q)
	var kind model.ItemKind
	if len(q.IncludeItemTypes) > 0 {
		kind = q.IncludeItemTypes[0]
	}
	err := f.failFor[kind]
	block := f.block[kind]
	items := f.items[kind]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return &model.ItemsResult{Items: items, TotalRecordCount: len(items)}, nil
}

func (f *fakeCatalog) ImageURL(itemID string, imageType model.ImageType, tag string) string {
	return fmt.Sprintf("img://%s/%s/%s", itemID, imageType, tag)
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCatalog) lastQuery() model.ItemQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func albums(n int) []model.BaseItem {
	out := make([]model.BaseItem, n)
	for i := range out {
		out[i] = model.BaseItem{
			ID:        fmt.Sprintf("album-%d", i),
			Name:      fmt.Sprintf("Album %d", i),
			Type:      model.KindMusicAlbum,
			ImageTags: map[string]string{"Primary": fmt.Sprintf("tag-%d", i)},
		}
	}
	return out
}
