package library

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jmagar/jellybrowse/internal/model"
)

// SearchLimit caps each search category. Caller offset and limit are not
// applied to search results.
const SearchLimit = 50

// searchGroups are queried concurrently and always returned in this order.
var searchGroups = []struct {
	title string
	kind  model.ItemKind
}{
	{"Playlists", model.KindPlaylist},
	{"Albums", model.KindMusicAlbum},
	{"Artists", model.KindMusicArtist},
}

// searchPage runs one catalog query per group and joins them. Any failed
// query fails the whole search.
type searchPage struct {
	catalog Catalog
	onFail  func(group string)
}

func (p *searchPage) Content(ctx context.Context, params []string, _, _ int) ([]Element, error) {
	query, err := requireParam(PageSearch, params)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return []Element{}, nil
	}

	results := make([][]model.BaseItem, len(searchGroups))
	g, gctx := errgroup.WithContext(ctx)
	for i, group := range searchGroups {
		g.Go(func() error {
			res, err := p.catalog.Items(gctx, model.ItemQuery{
				IncludeItemTypes: []model.ItemKind{group.kind},
				SearchTerm:       query,
				ImageTypeLimit:   1,
				EnableImageTypes: []model.ImageType{model.ImagePrimary},
				Limit:            SearchLimit,
			})
			if err != nil {
				// Siblings cancelled by an earlier failure are not counted.
				if p.onFail != nil && gctx.Err() == nil {
					p.onFail(group.title)
				}
				return &SearchError{Query: query, Group: group.title, Err: remoteErr(PageSearch, "items", err)}
			}
			results[i] = window(res.Items, 0, SearchLimit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	elements := make([]Element, len(searchGroups))
	for i, group := range searchGroups {
		items := make([]*Item, 0, len(results[i]))
		for _, it := range results[i] {
			items = append(items, playItem(p.catalog, it))
		}
		elements[i] = &Group{Title: group.title, Items: items}
	}
	return elements, nil
}
