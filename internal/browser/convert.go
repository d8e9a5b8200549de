package browser

import (
	"strings"

	"github.com/jmagar/jellybrowse/internal/library"
	"github.com/jmagar/jellybrowse/internal/route"
)

// Flatten turns a page result into the host's flat list. Group members take
// the group's position and carry its title; loose items carry no title.
func Flatten(elements []library.Element) []MediaItem {
	out := make([]MediaItem, 0, len(elements))
	for _, e := range elements {
		switch e := e.(type) {
		case *library.Group:
			for _, it := range e.Items {
				out = append(out, toMediaItem(it, e.Title))
			}
		case *library.Item:
			out = append(out, toMediaItem(e, ""))
		}
	}
	return out
}

func toMediaItem(it *library.Item, groupTitle string) MediaItem {
	md := Metadata{
		Title:      it.Title,
		ArtworkURI: it.Image,
	}
	extras := map[string]any{}
	if groupTitle != "" {
		extras[ExtraGroupTitle] = groupTitle
	}

	var mediaID string
	switch a := it.Action.(type) {
	case library.Navigate:
		style := ContentStyleList
		if a.Grid {
			style = ContentStyleGrid
		}
		extras[ExtraContentStyleBrowse] = style
		extras[ExtraContentStylePlay] = style
		mediaID = route.Encode(a.Page, a.Params...)
		md.IsBrowsable = true
	case library.Play:
		mediaID = it.ID
		md.IsPlayable = true
		md.AlbumTitle = a.Item.Album
		md.Artist = strings.Join(a.Item.Artists, ", ")
		md.AlbumArtist = a.Item.AlbumArtist
		md.TrackNumber = a.Item.IndexNumber
	}

	if len(extras) > 0 {
		md.Extras = extras
	}
	return MediaItem{MediaID: mediaID, Metadata: md}
}
