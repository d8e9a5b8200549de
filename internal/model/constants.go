package model

// ItemKind is the Jellyfin BaseItemKind of a record.
type ItemKind string

const (
	KindAudio       ItemKind = "Audio"
	KindMusicAlbum  ItemKind = "MusicAlbum"
	KindMusicArtist ItemKind = "MusicArtist"
	KindPlaylist    ItemKind = "Playlist"
	KindCollection  ItemKind = "CollectionFolder"
	KindUserView    ItemKind = "UserView"
)

// CollectionType classifies a top-level library (user view).
type CollectionType string

const (
	CollectionMusic     CollectionType = "music"
	CollectionMovies    CollectionType = "movies"
	CollectionTVShows   CollectionType = "tvshows"
	CollectionPlaylists CollectionType = "playlists"
	CollectionBooks     CollectionType = "books"
)

// ImageType names an image slot on an item.
type ImageType string

const (
	ImagePrimary  ImageType = "Primary"
	ImageBackdrop ImageType = "Backdrop"
	ImageThumb    ImageType = "Thumb"
)

// SortBy is a Jellyfin ItemSortBy value.
type SortBy string

const (
	SortName      SortBy = "SortName"
	SortDateAdded SortBy = "DateCreated"
)

// IsAudioCollection reports whether a user view holds music.
func (c CollectionType) IsAudioCollection() bool {
	return c == CollectionMusic
}
