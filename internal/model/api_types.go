package model

// BaseItem is a catalog record as returned by the Jellyfin items endpoints.
// Only the fields the browser reads are decoded.
type BaseItem struct {
	ID                   string            `json:"Id"`
	Name                 string            `json:"Name"`
	Type                 ItemKind          `json:"Type"`
	CollectionType       CollectionType    `json:"CollectionType,omitempty"`
	ImageTags            map[string]string `json:"ImageTags,omitempty"`
	AlbumID              string            `json:"AlbumId,omitempty"`
	AlbumPrimaryImageTag string            `json:"AlbumPrimaryImageTag,omitempty"`
	Album                string            `json:"Album,omitempty"`
	AlbumArtist          string            `json:"AlbumArtist,omitempty"`
	Artists              []string          `json:"Artists,omitempty"`
	IndexNumber          *int              `json:"IndexNumber,omitempty"`
}

// PrimaryImageTag returns the tag of the item's own primary image, if any.
func (b BaseItem) PrimaryImageTag() (string, bool) {
	tag, ok := b.ImageTags[string(ImagePrimary)]
	return tag, ok && tag != ""
}

// ItemsResult is the paged envelope around BaseItem lists.
type ItemsResult struct {
	Items            []BaseItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
	StartIndex       int        `json:"StartIndex"`
}

// ItemQuery describes a child-listing or search request against the catalog.
// Zero values are omitted from the request.
type ItemQuery struct {
	ParentID         string
	IncludeItemTypes []ItemKind
	SortBy           []SortBy
	Recursive        bool
	SearchTerm       string
	ImageTypeLimit   int
	EnableImageTypes []ImageType
	StartIndex       int
	Limit            int
}
