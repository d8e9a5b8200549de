package browser

// Extras keys understood by media-browsing hosts.
const (
	ExtraGroupTitle         = "android.media.browse.CONTENT_STYLE_GROUP_TITLE_HINT"
	ExtraContentStyleBrowse = "android.media.browse.CONTENT_STYLE_BROWSABLE_HINT"
	ExtraContentStylePlay   = "android.media.browse.CONTENT_STYLE_PLAYABLE_HINT"
)

// Content style hint values.
const (
	ContentStyleList = 1
	ContentStyleGrid = 2
)

// MediaItem is the flat node representation exchanged with the host.
type MediaItem struct {
	MediaID  string   `json:"mediaId"`
	URI      string   `json:"uri,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Metadata describes how the host presents a MediaItem.
type Metadata struct {
	Title       string         `json:"title,omitempty"`
	ArtworkURI  string         `json:"artworkUri,omitempty"`
	IsBrowsable bool           `json:"isBrowsable"`
	IsPlayable  bool           `json:"isPlayable"`
	AlbumTitle  string         `json:"albumTitle,omitempty"`
	Artist      string         `json:"artist,omitempty"`
	AlbumArtist string         `json:"albumArtist,omitempty"`
	TrackNumber *int           `json:"trackNumber,omitempty"`
	Extras      map[string]any `json:"extras,omitempty"`
}

// GroupTitle returns the section title the item was tagged with, if any.
func (m MediaItem) GroupTitle() (string, bool) {
	title, ok := m.Metadata.Extras[ExtraGroupTitle].(string)
	return title, ok
}
