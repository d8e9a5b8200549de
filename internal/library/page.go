// Package library holds the content pages a route token can address and the
// registry that maps page names to them. Pages are stateless: everything a
// request needs arrives through its parameters.
package library

import (
	"context"

	"github.com/jmagar/jellybrowse/internal/model"
)

// Page names addressable through route tokens.
const (
	PageRoot     = "root"
	PageUserView = "userView"
	PageAlbums   = "albums"
	PageAlbum    = "album"
	PageSearch   = "search"

	// Menu entries without a content page.
	PageArtists   = "artists"
	PageFavorites = "favorites"
	PageGenres    = "genres"
	PagePlaylists = "playlists"
	PageRecent    = "recent"

	// Root variants requested by some hosts. Neither is registered.
	PageSuggested = "suggested"
)

// Page produces one category of catalog content.
//
// Content never returns more than limit elements. How offset applies depends
// on the page: forwarded to the server for paged sources, applied as a slice
// for small local sets, ignored by search.
type Page interface {
	Content(ctx context.Context, params []string, offset, limit int) ([]Element, error)
}

// PageFunc adapts a function to the Page interface.
type PageFunc func(ctx context.Context, params []string, offset, limit int) ([]Element, error)

// Content calls f.
func (f PageFunc) Content(ctx context.Context, params []string, offset, limit int) ([]Element, error) {
	return f(ctx, params, offset, limit)
}

// Catalog is the part of the catalog client pages depend on.
// *api.Client satisfies it.
type Catalog interface {
	UserViews(ctx context.Context) ([]model.BaseItem, error)
	Items(ctx context.Context, q model.ItemQuery) (*model.ItemsResult, error)
	ImageURL(itemID string, imageType model.ImageType, tag string) string
}

// window returns the [offset, offset+limit) slice of s, clamped to its bounds.
func window[T any](s []T, offset, limit int) []T {
	offset = max(offset, 0)
	if offset >= len(s) || limit <= 0 {
		return nil
	}
	if limit > len(s)-offset {
		return s[offset:]
	}
	return s[offset : offset+limit]
}
