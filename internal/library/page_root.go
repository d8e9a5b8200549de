package library

import "context"

// rootPage lists the user's libraries. Only music libraries are browsable.
type rootPage struct {
	catalog Catalog
}

func (p *rootPage) Content(ctx context.Context, _ []string, offset, limit int) ([]Element, error) {
	views, err := p.catalog.UserViews(ctx)
	if err != nil {
		return nil, remoteErr(PageRoot, "userviews", err)
	}

	elements := make([]Element, 0, len(views))
	for _, v := range views {
		if !v.CollectionType.IsAudioCollection() {
			continue
		}
		elements = append(elements, &Item{
			ID:     PageUserView + "," + v.ID,
			Title:  v.Name,
			Action: Navigate{Page: PageUserView, Params: []string{v.ID}},
		})
	}
	return window(elements, offset, limit), nil
}
