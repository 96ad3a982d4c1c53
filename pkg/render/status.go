package render

import (
	"fmt"

	"github.com/aretw0/gitgraph/pkg/domain"
)

type statusGlyph struct {
	ascii   string
	unicode string
	color   string
}

var statusGlyphs = map[domain.AgentState]statusGlyph{
	domain.StatePending:   {ascii: "[ ]", unicode: "○", color: "#9ca3af"},
	domain.StateRunning:   {ascii: "[~]", unicode: "◐", color: "#facc15"},
	domain.StateCompleted: {ascii: "[x]", unicode: "✓", color: "#22c55e"},
	domain.StateFailed:    {ascii: "[!]", unicode: "✗", color: "#ef4444"},
}

// StatusGlyph returns the uncoloured marker for a lifecycle state.
func StatusGlyph(style Style, state domain.AgentState) string {
	g, ok := statusGlyphs[state]
	if !ok {
		g = statusGlyphs[domain.StatePending]
	}
	if style == StyleUnicode {
		return g.unicode
	}
	return g.ascii
}

func (r *Renderer) statusGlyph(state domain.AgentState) string {
	glyph := StatusGlyph(r.opts.Style, state)
	if !r.opts.Colors {
		return glyph
	}
	g, ok := statusGlyphs[state]
	if !ok {
		return glyph
	}
	p := r.opts.Profile
	return p.String(glyph).Foreground(p.Color(g.color)).String()
}

// statusText is the label part of a workflow node line.
func (r *Renderer) statusText(n domain.Node) string {
	text := r.label(n.Label)
	if !n.HasOverlay {
		return text
	}
	glyph := r.statusGlyph(n.Overlay.State)
	if text == "" {
		text = glyph
	} else {
		text = glyph + " " + text
	}
	if n.Overlay.Progress != "" {
		text += " [" + Truncate(singleLine(n.Overlay.Progress), r.opts.labelWidth(), r.chars.Ellipsis) + "]"
	}
	switch n.Overlay.Turns {
	case 0:
	case 1:
		text += " (1 turn)"
	default:
		text += fmt.Sprintf(" (%d turns)", n.Overlay.Turns)
	}
	return text
}
