package render

// Style selects the glyph table.
type Style string

const (
	StyleASCII   Style = "ascii"
	StyleUnicode Style = "unicode"
)

// ParseStyle converts a flag or config value into a Style. Empty means ascii.
func ParseStyle(s string) (Style, bool) {
	switch Style(s) {
	case "", StyleASCII:
		return StyleASCII, true
	case StyleUnicode:
		return StyleUnicode, true
	}
	return "", false
}

// CharSet is the glyph table used to draw one style.
type CharSet struct {
	Commit     rune
	Vertical   rune
	Horizontal rune

	// Corners of lanes opening below the current row.
	ForkRight rune // lane to the right of the node
	ForkLeft  rune // lane to the left of the node

	// Corners of lanes closing into the current row.
	MergeRight rune
	MergeLeft  rune

	TeeRight rune // node column with connectors on its right only
	TeeLeft  rune // node column with connectors on its left only
	Junction rune // node column with connectors on both sides
	Cross    rune // a passing lane crossed by a horizontal run
	TeeUp    rune // inner lane closing under a longer merge run
	TeeDown  rune // inner lane opening under a longer fork run

	Ellipsis string
	Activity string
}

var asciiChars = CharSet{
	Commit:     '*',
	Vertical:   '|',
	Horizontal: '-',
	ForkRight:  '\\',
	ForkLeft:   '/',
	MergeRight: '/',
	MergeLeft:  '\\',
	TeeRight:   '|',
	TeeLeft:    '|',
	Junction:   '+',
	Cross:      '+',
	TeeUp:      '+',
	TeeDown:    '+',
	Ellipsis:   "...",
	Activity:   "-> ",
}

var unicodeChars = CharSet{
	Commit:     '●',
	Vertical:   '│',
	Horizontal: '─',
	ForkRight:  '╮',
	ForkLeft:   '╭',
	MergeRight: '╯',
	MergeLeft:  '╰',
	TeeRight:   '├',
	TeeLeft:    '┤',
	Junction:   '┼',
	Cross:      '┼',
	TeeUp:      '┴',
	TeeDown:    '┬',
	Ellipsis:   "…",
	Activity:   "↳ ",
}

// Chars returns the glyph table for a style.
func Chars(s Style) CharSet {
	if s == StyleUnicode {
		return unicodeChars
	}
	return asciiChars
}
