package library

import (
	"errors"
	"fmt"
)

var (
	// ErrRemote matches every failure reported by the catalog server.
	ErrRemote = errors.New("catalog request failed")

	// ErrMissingParameter means a route reached a page without the
	// parameters that page requires.
	ErrMissingParameter = errors.New("missing route parameter")
)

// RemoteError wraps a catalog failure with the page and call that made it.
type RemoteError struct {
	Page string
	Op   string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrRemote, e.Page, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error { return []error{ErrRemote, e.Err} }

// SearchError reports the first failed sub-query of a search. No partial
// result accompanies it.
type SearchError struct {
	Query string
	Group string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %s query: %v", e.Query, e.Group, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

func remoteErr(page, op string, err error) error {
	return &RemoteError{Page: page, Op: op, Err: err}
}

func requireParam(page string, params []string) (string, error) {
	if len(params) == 0 {
		return "", fmt.Errorf("%w: page %q needs one parameter", ErrMissingParameter, page)
	}
	return params[0], nil
}
