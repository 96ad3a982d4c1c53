package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`        _ _                        _     `, "#34d399"},
	{`   __ _(_) |_ __ _ _ __ __ _ _ __ | |__  `, "#2dd4bf"},
	{`  / _' | | __/ _' | '__/ _' | '_ \| '_ \ `, "#22d3ee"},
	{` | (_| | | || (_| | | | (_| | |_) | | | |`, "#38bdf8"},
	{`  \__, |_|\__\__, |_|  \__,_| .__/|_| |_|`, "#60a5fa"},
	{`  |___/      |___/          |_|          `, "#818cf8"},
}

// PrintBanner writes the gitgraph ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
