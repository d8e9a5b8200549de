package library

import (
	"context"

	"github.com/jmagar/jellybrowse/internal/model"
)

// albumsPage lists the albums of a library by name, paged by the server.
type albumsPage struct {
	catalog Catalog
}

func (p *albumsPage) Content(ctx context.Context, params []string, offset, limit int) ([]Element, error) {
	collectionID, err := requireParam(PageAlbums, params)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	res, err := p.catalog.Items(ctx, model.ItemQuery{
		ParentID:         collectionID,
		IncludeItemTypes: []model.ItemKind{model.KindMusicAlbum},
		SortBy:           []model.SortBy{model.SortName},
		Recursive:        true,
		ImageTypeLimit:   1,
		EnableImageTypes: []model.ImageType{model.ImagePrimary},
		StartIndex:       max(offset, 0),
		Limit:            limit,
	})
	if err != nil {
		return nil, remoteErr(PageAlbums, "items", err)
	}

	items := window(res.Items, 0, limit)
	elements := make([]Element, 0, len(items))
	for _, album := range items {
		elements = append(elements, &Item{
			ID:     PageAlbum + "," + album.ID,
			Title:  album.Name,
			Image:  imageFor(p.catalog, album),
			Action: Navigate{Page: PageAlbum, Params: []string{album.ID}},
		})
	}
	return elements, nil
}
