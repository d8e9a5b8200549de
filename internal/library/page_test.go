package library

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jmagar/jellybrowse/internal/model"
)

func navigateOf(t *testing.T, e Element) (*Item, Navigate) {
	t.Helper()
	item, ok := e.(*Item)
	if !ok {
		t.Fatalf("element %T is not an *Item", e)
	}
	nav, ok := item.Action.(Navigate)
	if !ok {
		t.Fatalf("action %T is not Navigate", item.Action)
	}
	return item, nav
}

func TestRootListsMusicViewsOnly(t *testing.T) {
	fc := &fakeCatalog{views: []model.BaseItem{
		{ID: "m1", Name: "Music", CollectionType: model.CollectionMusic, ImageTags: map[string]string{"Primary": "x"}},
		{ID: "v1", Name: "Movies", CollectionType: model.CollectionMovies},
		{ID: "m2", Name: "Live", CollectionType: model.CollectionMusic},
		{ID: "b1", Name: "Books", CollectionType: model.CollectionBooks},
	}}
	page, _ := NewRegistry(fc).Lookup(PageRoot)

	got, err := page.Content(context.Background(), nil, 0, 10)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i, wantID := range []string{"m1", "m2"} {
		item, nav := navigateOf(t, got[i])
		if nav.Page != PageUserView || !reflect.DeepEqual(nav.Params, []string{wantID}) {
			t.Fatalf("element %d navigates to %s %v", i, nav.Page, nav.Params)
		}
		if nav.Grid {
			t.Fatalf("element %d uses grid style, want list", i)
		}
		if item.Image != "" {
			t.Fatalf("element %d has image %q, want none", i, item.Image)
		}
	}
}

func TestRootRespectsLimitAndOffset(t *testing.T) {
	var views []model.BaseItem
	for i := 0; i < 25; i++ {
		views = append(views, model.BaseItem{ID: fmt.Sprintf("m%d", i), CollectionType: model.CollectionMusic})
	}
	page, _ := NewRegistry(&fakeCatalog{views: views}).Lookup(PageRoot)

	tests := []struct {
		offset, limit int
		wantLen       int
		wantFirst     string
	}{
		{0, 10, 10, "m0"},
		{10, 10, 10, "m10"},
		{20, 10, 5, "m20"},
		{30, 10, 0, ""},
		{0, 0, 0, ""},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("offset=%d,limit=%d", tc.offset, tc.limit), func(t *testing.T) {
			got, err := page.Content(context.Background(), nil, tc.offset, tc.limit)
			if err != nil {
				t.Fatalf("Content returned error: %v", err)
			}
			if len(got) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tc.wantLen)
			}
			if tc.wantLen > 0 {
				if _, nav := navigateOf(t, got[0]); nav.Params[0] != tc.wantFirst {
					t.Fatalf("first = %s, want %s", nav.Params[0], tc.wantFirst)
				}
			}
		})
	}
}

func TestRootWrapsRemoteFailure(t *testing.T) {
	boom := errors.New("connection refused")
	page, _ := NewRegistry(&fakeCatalog{viewErr: boom}).Lookup(PageRoot)
	_, err := page.Content(context.Background(), nil, 0, 10)
	if !errors.Is(err, ErrRemote) || !errors.Is(err, boom) {
		t.Fatalf("error = %v, want ErrRemote wrapping cause", err)
	}
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Page != PageRoot {
		t.Fatalf("error = %#v, want *RemoteError for root", err)
	}
}

func TestUserViewMenu(t *testing.T) {
	page, _ := NewRegistry(&fakeCatalog{}).Lookup(PageUserView)
	got, err := page.Content(context.Background(), []string{"lib-1"}, 0, 100)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}

	want := []struct{ title, page string }{
		{"Albums", PageAlbums},
		{"Artists", PageArtists},
		{"Favorites", PageFavorites},
		{"Genres", PageGenres},
		{"Playlists", PagePlaylists},
		{"Recently played", PageRecent},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		item, nav := navigateOf(t, got[i])
		if item.Title != w.title || nav.Page != w.page {
			t.Fatalf("entry %d = %q -> %s, want %q -> %s", i, item.Title, nav.Page, w.title, w.page)
		}
		if !nav.Grid {
			t.Fatalf("entry %d not grid style", i)
		}
		if !reflect.DeepEqual(nav.Params, []string{"lib-1"}) {
			t.Fatalf("entry %d params = %v", i, nav.Params)
		}
	}

	sliced, _ := page.Content(context.Background(), []string{"lib-1"}, 4, 10)
	if len(sliced) != 2 {
		t.Fatalf("sliced len = %d, want 2", len(sliced))
	}
	if item, _ := navigateOf(t, sliced[0]); item.Title != "Playlists" {
		t.Fatalf("sliced first = %q, want Playlists", item.Title)
	}
}

func TestPagesRequireParameter(t *testing.T) {
	reg := NewRegistry(&fakeCatalog{})
	for _, name := range []string{PageUserView, PageAlbums, PageAlbum, PageSearch} {
		t.Run(name, func(t *testing.T) {
			page, _ := reg.Lookup(name)
			_, err := page.Content(context.Background(), []string{}, 0, 10)
			if !errors.Is(err, ErrMissingParameter) {
				t.Fatalf("error = %v, want ErrMissingParameter", err)
			}
		})
	}
}

func TestAlbumsForwardsPagination(t *testing.T) {
	fc := &fakeCatalog{items: map[model.ItemKind][]model.BaseItem{model.KindMusicAlbum: albums(3)}}
	page, _ := NewRegistry(fc).Lookup(PageAlbums)

	got, err := page.Content(context.Background(), []string{"lib-1"}, 40, 20)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}

	q := fc.lastQuery()
	want := model.ItemQuery{
		ParentID:         "lib-1",
		IncludeItemTypes: []model.ItemKind{model.KindMusicAlbum},
		SortBy:           []model.SortBy{model.SortName},
		Recursive:        true,
		ImageTypeLimit:   1,
		EnableImageTypes: []model.ImageType{model.ImagePrimary},
		StartIndex:       40,
		Limit:            20,
	}
	if !reflect.DeepEqual(q, want) {
		t.Fatalf("query = %#v, want %#v", q, want)
	}

	// Fewer results than the limit is a normal end of sequence.
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	item, nav := navigateOf(t, got[1])
	if nav.Page != PageAlbum || nav.Params[0] != "album-1" || nav.Grid {
		t.Fatalf("navigate = %#v", nav)
	}
	if item.Image != "img://album-1/Primary/tag-1" {
		t.Fatalf("image = %q", item.Image)
	}
}

func TestAlbumsTruncatesOversizedResponse(t *testing.T) {
	fc := &fakeCatalog{items: map[model.ItemKind][]model.BaseItem{model.KindMusicAlbum: albums(30)}}
	page, _ := NewRegistry(fc).Lookup(PageAlbums)
	got, err := page.Content(context.Background(), []string{"lib-1"}, 0, 5)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
}

func TestAlbumListsPlayableTracks(t *testing.T) {
	track := 3
	tracks := []model.BaseItem{
		{ID: "t1", Name: "Intro", Type: model.KindAudio, AlbumID: "alb", AlbumPrimaryImageTag: "albtag", IndexNumber: &track},
		{ID: "t2", Name: "Outro", Type: model.KindAudio},
	}
	fc := &fakeCatalog{items: map[model.ItemKind][]model.BaseItem{"": tracks}}
	page, _ := NewRegistry(fc).Lookup(PageAlbum)

	got, err := page.Content(context.Background(), []string{"alb"}, 2, 50)
	if err != nil {
		t.Fatalf("Content returned error: %v", err)
	}
	q := fc.lastQuery()
	if q.ParentID != "alb" || q.StartIndex != 2 || q.Limit != 50 || q.Recursive {
		t.Fatalf("query = %#v", q)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0].(*Item)
	play, ok := first.Action.(Play)
	if !ok || play.Item.ID != "t1" || first.ID != "t1" {
		t.Fatalf("first = %#v", first)
	}
	if first.Image != "img://alb/Primary/albtag" {
		t.Fatalf("album fallback image = %q", first.Image)
	}
	if img := got[1].(*Item).Image; img != "" {
		t.Fatalf("second image = %q, want none", img)
	}
}

func TestZeroLimitSkipsRemoteCall(t *testing.T) {
	fc := &fakeCatalog{}
	reg := NewRegistry(fc)
	for _, name := range []string{PageAlbums, PageAlbum} {
		page, _ := reg.Lookup(name)
		got, err := page.Content(context.Background(), []string{"x"}, 0, 0)
		if err != nil || len(got) != 0 {
			t.Fatalf("%s: got %d elements, err %v", name, len(got), err)
		}
	}
	if fc.callCount() != 0 {
		t.Fatalf("calls = %d, want 0", fc.callCount())
	}
}

func TestRegistryNames(t *testing.T) {
	got := NewRegistry(&fakeCatalog{}).Names()
	want := []string{PageAlbum, PageAlbums, PageRoot, PageSearch, PageUserView}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for _, unregistered := range []string{PageArtists, PageRecent, PageSuggested, "nope"} {
		if _, ok := NewRegistry(&fakeCatalog{}).Lookup(unregistered); ok {
			t.Fatalf("%s unexpectedly registered", unregistered)
		}
	}
}

func TestNewRegistryFromCopiesTable(t *testing.T) {
	table := map[string]Page{"x": PageFunc(func(context.Context, []string, int, int) ([]Element, error) { return nil, nil })}
	reg := NewRegistryFrom(table)
	delete(table, "x")
	if _, ok := reg.Lookup("x"); !ok {
		t.Fatal("registry changed after source map mutation")
	}
}
