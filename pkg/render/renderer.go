package render

import (
	"strings"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/layout"
)

// labelGap separates the graph columns from the label text.
const labelGap = "  "

// Renderer draws layouts in one output style.
type Renderer struct {
	opts  Options
	chars CharSet
}

// New creates a Renderer. Unknown styles fall back to ascii.
func New(opts Options) *Renderer {
	if _, ok := ParseStyle(string(opts.Style)); !ok {
		opts.Style = StyleASCII
	}
	return &Renderer{
		opts:  opts,
		chars: Chars(opts.Style),
	}
}

// Options returns the configuration the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Graph renders the base commit graph: markers and labels only.
func (r *Renderer) Graph(nodes []domain.Node, l *layout.Layout) string {
	return r.render(nodes, l, false)
}

// Workflow renders the graph with the status overlay: a state glyph, progress and
// turn count beside each tracked node, and its current activity beneath it.
func (r *Renderer) Workflow(nodes []domain.Node, l *layout.Layout) string {
	return r.render(nodes, l, true)
}

func (r *Renderer) render(nodes []domain.Node, l *layout.Layout, workflow bool) string {
	if l == nil || len(l.Rows) == 0 {
		return EmptyGraph
	}

	c := &canvas{width: 2*l.Width() - 1, chars: r.chars}
	var lines []string

	for i, row := range l.Rows {
		node := nodes[row.Handle]

		switch {
		case len(row.Merges) > 0:
			lines = append(lines, c.connector(row.Incoming, row.Merges, row.Column, false))
		case !r.opts.Compact && i > 0 && row.HasParentLane() && len(l.Rows[i-1].Forks) == 0:
			lines = append(lines, c.lanes(row.Incoming))
		}

		text := ""
		if workflow {
			text = r.statusText(node)
		} else {
			text = r.label(node.Label)
		}
		lines = append(lines, c.withText(c.node(row), text))

		if workflow && node.HasOverlay && node.Overlay.Activity != "" {
			through := without(row.Outgoing, row.Forks)
			activity := r.chars.Activity + Truncate(singleLine(node.Overlay.Activity), r.opts.labelWidth(), r.chars.Ellipsis)
			lines = append(lines, c.withText(c.lanes(through), activity))
		}

		if len(row.Forks) > 0 {
			lines = append(lines, c.connector(row.Outgoing, row.Forks, row.Column, true))
		}
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) label(s string) string {
	if !r.opts.ShowLabels {
		return ""
	}
	return Truncate(singleLine(s), r.opts.labelWidth(), r.chars.Ellipsis)
}

func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}

// canvas builds fixed-width graph prefixes. Lane k sits at cell 2k.
type canvas struct {
	width int
	chars CharSet
}

func (c *canvas) blank() []rune {
	cells := make([]rune, c.width)
	for i := range cells {
		cells[i] = ' '
	}
	return cells
}

func (c *canvas) lanes(cols []int) string {
	cells := c.blank()
	for _, k := range cols {
		cells[2*k] = c.chars.Vertical
	}
	return strings.TrimRight(string(cells), " ")
}

func (c *canvas) node(row layout.Row) string {
	cells := c.blank()
	for _, k := range row.Incoming {
		if k == row.Column || containsCol(row.Merges, k) {
			continue
		}
		cells[2*k] = c.chars.Vertical
	}
	cells[2*row.Column] = c.chars.Commit
	return string(cells)
}

// connector draws the lanes in base, with corners at the given columns joined to
// the node column by horizontal runs.
func (c *canvas) connector(base, corners []int, col int, fork bool) string {
	cells := c.blank()
	for _, k := range base {
		cells[2*k] = c.chars.Vertical
	}

	left, right := col, col
	for _, j := range corners {
		if j < left {
			left = j
		}
		if j > right {
			right = j
		}
	}
	for x := 2 * left; x <= 2*right; x++ {
		if cells[x] == c.chars.Vertical {
			cells[x] = c.chars.Cross
		} else {
			cells[x] = c.chars.Horizontal
		}
	}

	for _, j := range corners {
		cells[2*j] = c.corner(j, col, left, right, fork)
	}

	switch {
	case left < col && right > col:
		cells[2*col] = c.chars.Junction
	case right > col:
		cells[2*col] = c.chars.TeeRight
	default:
		cells[2*col] = c.chars.TeeLeft
	}
	return strings.TrimRight(string(cells), " ")
}

func (c *canvas) corner(j, col, left, right int, fork bool) rune {
	if j != left && j != right {
		if fork {
			return c.chars.TeeDown
		}
		return c.chars.TeeUp
	}
	switch {
	case fork && j > col:
		return c.chars.ForkRight
	case fork:
		return c.chars.ForkLeft
	case j > col:
		return c.chars.MergeRight
	default:
		return c.chars.MergeLeft
	}
}

func (c *canvas) withText(prefix, text string) string {
	if text == "" {
		return strings.TrimRight(prefix, " ")
	}
	if pad := c.width - len([]rune(prefix)); pad > 0 {
		prefix += strings.Repeat(" ", pad)
	}
	return prefix + labelGap + text
}

func containsCol(cols []int, k int) bool {
	for _, c := range cols {
		if c == k {
			return true
		}
	}
	return false
}

func without(cols, drop []int) []int {
	out := make([]int, 0, len(cols))
	for _, k := range cols {
		if !containsCol(drop, k) {
			out = append(out, k)
		}
	}
	return out
}
