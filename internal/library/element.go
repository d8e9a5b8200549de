package library

import "github.com/jmagar/jellybrowse/internal/model"

// Element is a node in the two-level content tree a page returns: either an
// *Item or a *Group of items. Groups never nest.
type Element interface {
	element()
}

// Item is a leaf entry carrying what happens when it is selected.
type Item struct {
	ID     string
	Title  string
	Image  string // artwork URL, empty when the item has none
	Action Action
}

// Group is a named section of items shown together by the host.
type Group struct {
	Title string
	Items []*Item
}

func (*Item) element()  {}
func (*Group) element() {}

// Action is either Play or Navigate.
type Action interface {
	action()
}

// Play starts playback of a catalog record captured at fetch time.
type Play struct {
	Item model.BaseItem
}

// Navigate opens another page. Grid selects grid rather than list
// presentation for the target's children.
type Navigate struct {
	Page   string
	Params []string
	Grid   bool
}

func (Play) action()     {}
func (Navigate) action() {}

// playItem wraps a catalog record as a playable leaf.
func playItem(c Catalog, it model.BaseItem) *Item {
	return &Item{
		ID:     it.ID,
		Title:  it.Name,
		Image:  imageFor(c, it),
		Action: Play{Item: it},
	}
}

// imageFor picks the item's own primary image, falling back to its album's.
func imageFor(c Catalog, it model.BaseItem) string {
	if tag, ok := it.PrimaryImageTag(); ok {
		return c.ImageURL(it.ID, model.ImagePrimary, tag)
	}
	if it.AlbumID != "" && it.AlbumPrimaryImageTag != "" {
		return c.ImageURL(it.AlbumID, model.ImagePrimary, it.AlbumPrimaryImageTag)
	}
	return ""
}
