package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/grafov/m3u8"
)

// Kind classifies a probed stream response.
type Kind string

const (
	KindMaster Kind = "master" // HLS master playlist
	KindMedia  Kind = "media"  // HLS media playlist
	KindDirect Kind = "direct" // direct file stream
)

// Variant is one rendition listed by a master playlist.
type Variant struct {
	Bandwidth  uint32
	Codecs     string
	Resolution string
	URI        string // absolute
}

// Report describes what the server returned for a stream URL.
type Report struct {
	URL           string // final URL after redirects
	StatusCode    int
	ContentType   string
	ContentLength int64 // -1 when unknown
	Kind          Kind

	Variants []Variant // master only, highest bandwidth first

	Segments       int           // media only
	TargetDuration time.Duration // media only
	Duration       time.Duration // media only, sum of segment durations
	Closed         bool          // media only, playlist has an end tag
}

var hlsMagic = []byte("#EXTM3U")

// Probe requests streamURL and decodes the response if it is an HLS
// playlist. Direct streams are not read past the first bytes.
func Probe(ctx context.Context, hc *http.Client, streamURL string) (*Report, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe: %s", resp.Status)
	}

	report := &Report{
		URL:           resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Kind:          KindDirect,
	}

	br := bufio.NewReader(resp.Body)
	head, _ := br.Peek(len(hlsMagic))
	if !bytes.Equal(head, hlsMagic) && !strings.Contains(strings.ToLower(report.ContentType), "mpegurl") {
		return report, nil
	}

	playlist, listType, err := m3u8.DecodeFrom(br, true)
	if err != nil {
		return nil, fmt.Errorf("probe: decode playlist: %w", err)
	}
	switch listType {
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		report.Kind = KindMaster
		report.Variants = variants(resp.Request.URL, master)
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		report.Kind = KindMedia
		report.TargetDuration = seconds(media.TargetDuration)
		report.Closed = media.Closed
		for _, seg := range media.Segments {
			if seg == nil {
				continue
			}
			report.Segments++
			report.Duration += seconds(seg.Duration)
		}
	}
	return report, nil
}

func variants(base *url.URL, master *m3u8.MasterPlaylist) []Variant {
	out := make([]Variant, 0, len(master.Variants))
	for _, v := range master.Variants {
		if v == nil {
			continue
		}
		uri := v.URI
		if ref, err := url.Parse(v.URI); err == nil {
			uri = base.ResolveReference(ref).String()
		}
		out = append(out, Variant{
			Bandwidth:  v.Bandwidth,
			Codecs:     v.Codecs,
			Resolution: v.Resolution,
			URI:        uri,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bandwidth > out[j].Bandwidth
	})
	return out
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
