package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// Box drawing characters
const (
	BoxHorizontal        = "─"
	BoxVertical          = "│"
	BoxDoubleHorizontal  = "═"
	BoxDoubleTopLeft     = "╔"
	BoxDoubleTopRight    = "╗"
	BoxDoubleBottomLeft  = "╚"
	BoxDoubleBottomRight = "╝"

	BulletCircle  = "•"
	BulletDiamond = "◆"
)

// AnsiRegex is compiled once for performance.
var AnsiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const termWidthCacheTTL = 500 * time.Millisecond

var (
	termWidthMu         sync.Mutex
	cachedTermWidth     = 80
	cachedTermWidthTime time.Time
)

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GetTermWidth returns the terminal width, defaulting to 80.
func GetTermWidth() int {
	termWidthMu.Lock()
	defer termWidthMu.Unlock()
	if time.Since(cachedTermWidthTime) <= termWidthCacheTTL && cachedTermWidth > 0 {
		return cachedTermWidth
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width == 0 {
		width = 80
	}
	cachedTermWidth = width
	cachedTermWidthTime = time.Now()
	return width
}

// StripAnsiCodes removes ANSI escape sequences from a string.
func StripAnsiCodes(s string) string {
	return AnsiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripAnsiCodes(s))
}

// TruncateWithEllipsis shortens s to maxLen visible runes. Color codes are
// dropped from truncated strings.
func TruncateWithEllipsis(s string, maxLen int) string {
	if VisibleLength(s) <= maxLen {
		return s
	}
	runes := []rune(StripAnsiCodes(s))
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-3]) + "..."
}

// PadCenter centers a string in the specified width using visible length.
func PadCenter(s string, width int) string {
	visLen := VisibleLength(s)
	if visLen >= width {
		return s
	}
	padding := width - visLen
	leftPad := padding / 2
	return strings.Repeat(" ", leftPad) + s + strings.Repeat(" ", padding-leftPad)
}

// Header writes a double-boxed title sized to the terminal.
func Header(w io.Writer, title string) {
	width := GetTermWidth()
	lineLen := width - 2
	if VisibleLength(title)+4 > width-4 {
		title = TruncateWithEllipsis(title, width-10)
	}

	fmt.Fprintf(w, "\n%s%s%s%s%s\n", ColorCyan, BoxDoubleTopLeft,
		strings.Repeat(BoxDoubleHorizontal, lineLen), BoxDoubleTopRight, ColorReset)
	fmt.Fprintf(w, "%s%s%s %s %s%s%s\n", ColorCyan, BoxVertical, ColorReset,
		ColorBold+PadCenter(title, lineLen-2)+ColorReset, ColorCyan, BoxVertical, ColorReset)
	fmt.Fprintf(w, "%s%s%s%s%s\n\n", ColorCyan, BoxDoubleBottomLeft,
		strings.Repeat(BoxDoubleHorizontal, lineLen), BoxDoubleBottomRight, ColorReset)
}

// Section writes an underlined section title.
func Section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s%s %s%s\n", ColorBold, BulletDiamond, title, ColorReset)
	fmt.Fprintf(w, "%s%s%s\n\n", ColorCyan, strings.Repeat(BoxHorizontal, VisibleLength(title)+2), ColorReset)
}

// KeyValue writes an aligned key and a colored value, truncated to the
// terminal width.
func KeyValue(w io.Writer, key, value, valueColor string) {
	maxValueWidth := GetTermWidth() - len(key) - 10
	value = TruncateWithEllipsis(value, maxValueWidth)
	fmt.Fprintf(w, "  %s%-20s%s %s%s%s\n", ColorCyan, key+":", ColorReset, valueColor, value, ColorReset)
}

// List writes a bullet list.
func List(w io.Writer, items []string, color string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s%s%s %s\n", color, BulletCircle, ColorReset, item)
	}
}

// Align is a table column alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table collects rows for rendering as a rounded box table.
type Table struct {
	headers  []string
	aligns   []Align
	rows     [][]string
	maxWidth int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, aligns: make([]Align, len(headers))}
}

// AlignRight right-aligns the given zero-based columns.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.aligns) {
			t.aligns[c] = AlignRight
		}
	}
	return t
}

// MaxWidth limits rendered row length. Zero means the terminal width and a
// negative width disables the limit.
func (t *Table) MaxWidth(w int) *Table {
	t.maxWidth = w
	return t
}

// AddRow adds a row, padding or trimming it to the column count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Render returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	switch width := t.maxWidth; {
	case width == 0:
		tw.SetAllowedRowLength(GetTermWidth())
	case width > 0:
		tw.SetAllowedRowLength(width)
	}

	header := make(table.Row, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(t.headers))
	for i, a := range t.aligns {
		align := text.AlignLeft
		if a == AlignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// Count formats n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Bytes formats a byte size, or "unknown" for a negative size.
func Bytes(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(n))
}

// Bitrate formats bits per second with an SI prefix.
func Bitrate(bps uint32) string {
	return humanize.SIWithDigits(float64(bps), 0, "bit/s")
}
