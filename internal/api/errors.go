package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidItemID is returned when a string is not a catalog item id.
var ErrInvalidItemID = errors.New("invalid item id")

// StatusError is returned for non-200 responses that were not retried.
type StatusError struct {
	Label      string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API %s failed: %s", e.Label, e.Status)
}

// ParseItemID accepts a catalog item id in dashed or compact form and
// returns the compact 32-hex form the server uses in its responses.
func ParseItemID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidItemID, s, err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
