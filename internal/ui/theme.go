package ui

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes. All are empty when color is disabled.
var (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[91m"
	ColorGreen  = "\033[92m"
	ColorYellow = "\033[93m"
	ColorBlue   = "\033[94m"
	ColorPurple = "\033[95m"
	ColorCyan   = "\033[96m"
	ColorBold   = "\033[1m"
)

// Unicode symbols
var (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolMusic   = "♪"
	SymbolFolder  = "▸"
	SymbolInfo    = "ℹ"
	SymbolWarning = "⚠"
)

// DefaultTheme is used when JELLYBROWSE_THEME is unset or unknown.
const DefaultTheme = "nordonedark"

// palette is one theme at one color depth, ordered red, green, yellow,
// blue, purple, cyan.
type palette [6]string

type theme struct {
	truecolor palette
	ansi256   palette // empty: keep the basic codes
	basic     palette // empty: keep the package defaults
}

var themes = map[string]theme{
	"nordonedark": {
		truecolor: rgb([6][3]int{{224, 108, 117}, {152, 195, 121}, {229, 192, 123}, {143, 188, 255}, {180, 142, 255}, {136, 220, 255}}),
		ansi256:   xterm([6]int{210, 114, 222, 111, 183, 159}),
	},
	"vivid": {
		truecolor: rgb([6][3]int{{255, 76, 102}, {80, 250, 123}, {255, 221, 87}, {110, 196, 255}, {215, 130, 255}, {0, 245, 255}}),
		basic:     palette{"\033[1;91m", "\033[1;92m", "\033[1;93m", "\033[1;94m", "\033[1;95m", "\033[1;96m"},
	},
}

func rgb(c [6][3]int) palette {
	var p palette
	for i, v := range c {
		p[i] = "\033[1;38;2;" + strconv.Itoa(v[0]) + ";" + strconv.Itoa(v[1]) + ";" + strconv.Itoa(v[2]) + "m"
	}
	return p
}

func xterm(c [6]int) palette {
	var p palette
	for i, v := range c {
		p[i] = "\033[1;38;5;" + strconv.Itoa(v) + "m"
	}
	return p
}

func init() {
	InitColorPalette()
}

// InitColorPalette selects the palette from JELLYBROWSE_THEME and disables
// color when NO_COLOR is set or stdout is not a terminal.
func InitColorPalette() {
	if !ColorEnabled() {
		disableColor()
		return
	}
	name := strings.ToLower(strings.TrimSpace(os.Getenv("JELLYBROWSE_THEME")))
	t, ok := themes[name]
	if !ok {
		t = themes[DefaultTheme]
	}
	switch {
	case SupportsTruecolor():
		apply(t.truecolor)
	case Supports256Color() && t.ansi256[0] != "":
		apply(t.ansi256)
	case t.basic[0] != "":
		apply(t.basic)
	}
}

func apply(p palette) {
	ColorRed, ColorGreen, ColorYellow = p[0], p[1], p[2]
	ColorBlue, ColorPurple, ColorCyan = p[3], p[4], p[5]
}

// ColorEnabled reports whether output should carry ANSI colors.
func ColorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func disableColor() {
	apply(palette{})
	ColorReset, ColorBold = "", ""
}

// SupportsTruecolor checks if the terminal supports 24-bit color.
func SupportsTruecolor() bool {
	colorTerm := strings.ToLower(os.Getenv("COLORTERM"))
	return strings.Contains(colorTerm, "truecolor") || strings.Contains(colorTerm, "24bit")
}

// Supports256Color checks if the terminal supports 256 colors.
func Supports256Color() bool {
	return strings.Contains(strings.ToLower(os.Getenv("TERM")), "256color")
}
