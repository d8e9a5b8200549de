package library

import "context"

// userViewMenu is the fixed menu shown inside a music library.
var userViewMenu = []struct {
	page  string
	title string
}{
	{PageAlbums, "Albums"},
	{PageArtists, "Artists"},
	{PageFavorites, "Favorites"},
	{PageGenres, "Genres"},
	{PagePlaylists, "Playlists"},
	{PageRecent, "Recently played"},
}

// userViewPage shows the category menu of one library. Only albums has a
// content page behind it today.
type userViewPage struct{}

func (userViewPage) Content(_ context.Context, params []string, offset, limit int) ([]Element, error) {
	collectionID, err := requireParam(PageUserView, params)
	if err != nil {
		return nil, err
	}

	elements := make([]Element, 0, len(userViewMenu))
	for _, entry := range userViewMenu {
		elements = append(elements, &Item{
			ID:     entry.page,
			Title:  entry.title,
			Action: Navigate{Page: entry.page, Params: []string{collectionID}, Grid: true},
		})
	}
	return window(elements, offset, limit), nil
}
