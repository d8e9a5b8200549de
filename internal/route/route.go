// Package route encodes navigation state (a page name plus ordered string
// parameters) into the opaque node ids handed to the browsing host, and back.
//
// Wire format: "jellyfin/<page>/<param>/<param>...". Every component is
// escaped independently, so the separator and the escape byte can never be
// mistaken for structure. Tokens may be persisted by the host, so the format
// must not change between releases.
package route

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Namespace is the fixed first segment of every token.
	Namespace = "jellyfin"
	// Separator joins token segments.
	Separator = '/'
	// Escape introduces a two-digit hex byte.
	Escape = '%'
)

const upperHex = "0123456789ABCDEF"

// ErrMalformed matches every decode failure via errors.Is.
var ErrMalformed = errors.New("malformed route token")

// DecodeError describes why a token could not be decoded.
type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformed, e.Token, e.Reason)
}

// Unwrap lets errors.Is(err, ErrMalformed) succeed.
func (e *DecodeError) Unwrap() error { return ErrMalformed }

// Encode builds the token for page and params.
func Encode(page string, params ...string) string {
	var b strings.Builder
	b.WriteString(Namespace)
	b.WriteByte(Separator)
	escapeInto(&b, page)
	for _, p := range params {
		b.WriteByte(Separator)
		escapeInto(&b, p)
	}
	return b.String()
}

// Decode splits a token back into its page name and parameters.
// The returned params slice is never nil.
func Decode(token string) (string, []string, error) {
	segments := strings.Split(token, string(Separator))
	if segments[0] != Namespace {
		return "", nil, &DecodeError{Token: token, Reason: "missing namespace"}
	}
	if len(segments) < 2 {
		return "", nil, &DecodeError{Token: token, Reason: "missing page segment"}
	}

	parts := make([]string, 0, len(segments)-1)
	for i, seg := range segments[1:] {
		s, err := unescape(seg)
		if err != nil {
			return "", nil, &DecodeError{Token: token, Reason: fmt.Sprintf("segment %d: %v", i+1, err)}
		}
		parts = append(parts, s)
	}
	return parts[0], parts[1:], nil
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	case c == '-', c == '_', c == '.', c == '~':
		return false
	}
	return true
}

func escapeInto(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte(Escape)
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
}

func unescape(s string) (string, error) {
	if strings.IndexByte(s, Escape) < 0 {
		for i := 0; i < len(s); i++ {
			if s[i] < 0x21 || s[i] > 0x7e {
				return "", fmt.Errorf("raw byte 0x%02x", s[i])
			}
		}
		return s, nil
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == Escape:
			if i+2 >= len(s) {
				return "", fmt.Errorf("truncated escape at offset %d", i)
			}
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if !okHi || !okLo {
				return "", fmt.Errorf("invalid escape %q", s[i:i+3])
			}
			out = append(out, hi<<4|lo)
			i += 2
		case c < 0x21 || c > 0x7e:
			return "", fmt.Errorf("raw byte 0x%02x", c)
		default:
			out = append(out, c)
		}
	}
	return string(out), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
