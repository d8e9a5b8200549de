package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jmagar/jellybrowse/internal/browser"
	"github.com/jmagar/jellybrowse/internal/stream"
	"github.com/jmagar/jellybrowse/internal/ui"
)

// renderer writes command results as tables or, with --json, as indented
// JSON. width is passed to every table; see ui.Table.MaxWidth.
type renderer struct {
	out   io.Writer
	json  bool
	width int
}

func (r *renderer) printJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) table(t *ui.Table) {
	fmt.Fprintln(r.out, t.MaxWidth(r.width).Render())
}

func (r *renderer) summary(msg string) {
	ui.Info(r.out, msg)
}

func kindOf(m browser.MediaItem) string {
	switch {
	case m.Metadata.IsBrowsable && m.Metadata.IsPlayable:
		return "node"
	case m.Metadata.IsBrowsable:
		return ui.SymbolFolder + " folder"
	case m.Metadata.IsPlayable:
		return ui.SymbolMusic + " track"
	default:
		return "-"
	}
}

func (r *renderer) node(m browser.MediaItem) {
	t := ui.NewTable("Field", "Value")
	t.AddRow("Media ID", m.MediaID)
	t.AddRow("Kind", kindOf(m))
	t.AddRow("Browsable", strconv.FormatBool(m.Metadata.IsBrowsable))
	t.AddRow("Playable", strconv.FormatBool(m.Metadata.IsPlayable))
	r.table(t)
}

func (r *renderer) items(items []browser.MediaItem) {
	if len(items) == 0 {
		r.summary("No items")
		return
	}
	t := ui.NewTable("#", "Title", "Kind", "Group", "Artist", "Media ID").AlignRight(0)
	for i, m := range items {
		group, _ := m.GroupTitle()
		t.AddRow(strconv.Itoa(i+1), m.Metadata.Title, kindOf(m), group, m.Metadata.Artist, m.MediaID)
	}
	r.table(t)
	r.summary(ui.Count(t.Len()) + " items")
}

func (r *renderer) streams(items []browser.MediaItem) {
	t := ui.NewTable("Item", "Stream URL")
	for _, m := range items {
		t.AddRow(m.MediaID, m.URI)
	}
	r.table(t)
	ui.Music(r.out, ui.Count(t.Len())+" items ready to play")
}

func (r *renderer) report(rep *stream.Report) {
	t := ui.NewTable("Field", "Value")
	t.AddRow("URL", rep.URL)
	t.AddRow("Status", strconv.Itoa(rep.StatusCode))
	t.AddRow("Content-Type", rep.ContentType)
	t.AddRow("Size", ui.Bytes(rep.ContentLength))
	t.AddRow("Kind", string(rep.Kind))
	if rep.Kind == stream.KindMedia {
		t.AddRow("Segments", ui.Count(rep.Segments))
		t.AddRow("Target duration", rep.TargetDuration.String())
		t.AddRow("Duration", rep.Duration.String())
		t.AddRow("Complete", strconv.FormatBool(rep.Closed))
	}
	r.table(t)

	switch {
	case rep.Kind == stream.KindMaster && len(rep.Variants) == 0:
		ui.Warning(r.out, "master playlist lists no variants")
	case rep.Kind == stream.KindMedia && rep.Segments == 0:
		ui.Warning(r.out, "media playlist has no segments")
	default:
		ui.Success(r.out, "stream is playable ("+string(rep.Kind)+")")
	}
	if len(rep.Variants) == 0 {
		return
	}
	vt := ui.NewTable("Bandwidth", "Codecs", "Resolution", "URI").AlignRight(0)
	for _, v := range rep.Variants {
		vt.AddRow(ui.Bitrate(v.Bandwidth), v.Codecs, v.Resolution, v.URI)
	}
	r.table(vt)
	r.summary(ui.Count(len(rep.Variants)) + " variants")
}
