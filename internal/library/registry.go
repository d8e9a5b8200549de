package library

import "sort"

// Registry maps page names to pages. It is never modified after
// construction and is safe for concurrent use.
type Registry struct {
	pages map[string]Page
}

// Option customises NewRegistry.
type Option func(*options)

type options struct {
	searchFailed func(group string)
}

// WithSearchFailureHook is called with the group title of every failed
// search sub-query.
func WithSearchFailureHook(fn func(group string)) Option {
	return func(o *options) { o.searchFailed = fn }
}

// NewRegistry builds the page table backed by c.
func NewRegistry(c Catalog, opts ...Option) *Registry {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{pages: map[string]Page{
		PageRoot:     &rootPage{catalog: c},
		PageUserView: userViewPage{},
		PageAlbums:   &albumsPage{catalog: c},
		PageAlbum:    &albumPage{catalog: c},
		PageSearch:   &searchPage{catalog: c, onFail: o.searchFailed},
	}}
}

// NewRegistryFrom builds a registry over an explicit page table. The map is
// copied.
func NewRegistryFrom(pages map[string]Page) *Registry {
	cp := make(map[string]Page, len(pages))
	for name, p := range pages {
		cp[name] = p
	}
	return &Registry{pages: cp}
}

// Lookup returns the page registered under name.
func (r *Registry) Lookup(name string) (Page, bool) {
	p, ok := r.pages[name]
	return p, ok
}

// Names returns the registered page names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
