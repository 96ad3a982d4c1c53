package render

import "github.com/mattn/go-runewidth"

// Truncate shortens s to at most width terminal cells, ending with ellipsis
// when something was cut. Wide runes count as two cells.
func Truncate(s string, width int, ellipsis string) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if runewidth.StringWidth(ellipsis) >= width {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, ellipsis)
}
