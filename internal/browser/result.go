package browser

import (
	"context"
	"errors"

	"github.com/jmagar/jellybrowse/internal/route"
)

var (
	// ErrUnknownPage means a well-formed token names a page with no content
	// provider.
	ErrUnknownPage = errors.New("page not supported")

	// ErrBadValue marks a request the host must not repeat unchanged.
	ErrBadValue = errors.New("bad value")
)

// ResultCode is the status the host receives with every result.
type ResultCode int

const (
	ResultSuccess           ResultCode = 0
	ResultErrorUnknown      ResultCode = -1
	ResultErrorBadValue     ResultCode = -3
	ResultErrorNotSupported ResultCode = -6
)

func (c ResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "success"
	case ResultErrorBadValue:
		return "bad_value"
	case ResultErrorNotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// CodeOf maps an engine error to the code reported to the host.
func CodeOf(err error) ResultCode {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, route.ErrMalformed), errors.Is(err, ErrBadValue):
		return ResultErrorBadValue
	case errors.Is(err, ErrUnknownPage):
		return ResultErrorNotSupported
	default:
		return ResultErrorUnknown
	}
}

// LibraryResult carries a value or a failure code back to the host.
type LibraryResult[T any] struct {
	Code  ResultCode `json:"resultCode"`
	Value T          `json:"value,omitempty"`
	Error string     `json:"error,omitempty"`

	err error
}

// Err returns the underlying error of a failed result.
func (r LibraryResult[T]) Err() error { return r.err }

// OK reports whether the result succeeded.
func (r LibraryResult[T]) OK() bool { return r.Code == ResultSuccess }

func resultOf[T any](v T, err error) LibraryResult[T] {
	if err != nil {
		var zero T
		return LibraryResult[T]{Code: CodeOf(err), Value: zero, Error: err.Error(), err: err}
	}
	return LibraryResult[T]{Code: ResultSuccess, Value: v}
}

// cancelled reports whether err came from the caller giving up.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
