package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is assumed when the output is not a terminal.
const DefaultWidth = 80

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or DefaultWidth.
func Width(f *os.File) int {
	if !IsTerminal(f) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// ColorProfile picks the colour profile for f. Pipes and files get plain text
// unless force is set.
func ColorProfile(f *os.File, force bool) termenv.Profile {
	if !IsTerminal(f) {
		if force {
			return termenv.ANSI256
		}
		return termenv.Ascii
	}
	return termenv.NewOutput(f).ColorProfile()
}
