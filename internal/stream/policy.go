// Package stream builds playable stream URLs for catalog items and inspects
// what the server returns for them.
package stream

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmagar/jellybrowse/internal/api"
)

// Fixed universal-audio parameters. Hosts depend on this exact table.
const (
	MaxStreamingBitrate  = "140000000"
	ContainerPreference  = "opus,mp3|mp3,aac,m4a,m4b|aac,flac,webma,webm,wav,ogg"
	TranscodingProtocol  = "hls"
	TranscodingContainer = "ts"
	AudioCodec           = "aac"
	EnableRemoteMedia    = "true"
)

// Credentials is what a Policy needs from the catalog client.
// *api.Client satisfies it.
type Credentials interface {
	BaseURL() string
	DeviceID() string
	AccessToken() string
}

// Policy builds universal-audio stream URLs for one device.
type Policy struct {
	baseURL  string
	deviceID string
	token    string
}

// NewPolicy captures the connection details of c.
func NewPolicy(c Credentials) *Policy {
	return &Policy{
		baseURL:  strings.TrimRight(c.BaseURL(), "/"),
		deviceID: c.DeviceID(),
		token:    c.AccessToken(),
	}
}

// URL returns the stream URL for itemID. The fixed parameters are written
// unescaped and in a fixed order; the access token is appended last.
func (p *Policy) URL(itemID string) (string, error) {
	id, err := api.ParseItemID(itemID)
	if err != nil {
		return "", fmt.Errorf("stream url: %w", err)
	}

	var b strings.Builder
	b.WriteString(p.baseURL)
	b.WriteString("/Audio/")
	b.WriteString(id)
	b.WriteString("/universal")

	params := [][2]string{
		{"DeviceId", url.QueryEscape(p.deviceID)},
		{"MaxStreamingBitrate", MaxStreamingBitrate},
		{"Container", ContainerPreference},
		{"TranscodingProtocol", TranscodingProtocol},
		{"TranscodingContainer", TranscodingContainer},
		{"AudioCodec", AudioCodec},
		{"EnableRemoteMedia", EnableRemoteMedia},
	}
	for i, kv := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(kv[1])
	}
	b.WriteString("&ApiKey=")
	b.WriteString(url.QueryEscape(p.token))
	return b.String(), nil
}
