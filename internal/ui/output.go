package ui

import (
	"fmt"
	"io"
	"os"
)

// PrintError prints an error message to stderr.
func PrintError(msg string) {
	Fprint(os.Stderr, ColorRed, SymbolCross, msg)
}

// Success writes a success line to w.
func Success(w io.Writer, msg string) {
	Fprint(w, ColorGreen, SymbolCheck, msg)
}

// Info writes an info line to w.
func Info(w io.Writer, msg string) {
	Fprint(w, ColorBlue, SymbolInfo, msg)
}

// Warning writes a warning line to w.
func Warning(w io.Writer, msg string) {
	Fprint(w, ColorYellow, SymbolWarning, msg)
}

// Music writes a playback-related line to w.
func Music(w io.Writer, msg string) {
	Fprint(w, ColorGreen, SymbolMusic, msg)
}

// Fprint writes one symbol-prefixed line to w.
func Fprint(w io.Writer, color, symbol, msg string) {
	fmt.Fprintf(w, "%s%s%s %s\n", color, symbol, ColorReset, msg)
}
