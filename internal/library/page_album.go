package library

import (
	"context"

	"github.com/jmagar/jellybrowse/internal/model"
)

// albumPage lists the tracks of one album.
type albumPage struct {
	catalog Catalog
}

func (p *albumPage) Content(ctx context.Context, params []string, offset, limit int) ([]Element, error) {
	albumID, err := requireParam(PageAlbum, params)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	res, err := p.catalog.Items(ctx, model.ItemQuery{
		ParentID:         albumID,
		SortBy:           []model.SortBy{model.SortName},
		ImageTypeLimit:   1,
		EnableImageTypes: []model.ImageType{model.ImagePrimary},
		StartIndex:       max(offset, 0),
		Limit:            limit,
	})
	if err != nil {
		return nil, remoteErr(PageAlbum, "items", err)
	}

	items := window(res.Items, 0, limit)
	elements := make([]Element, 0, len(items))
	for _, track := range items {
		elements = append(elements, playItem(p.catalog, track))
	}
	return elements, nil
}
