package gitgraph

import (
	"github.com/aretw0/gitgraph/pkg/render"
	"github.com/muesli/termenv"
)

// Option defines a functional option for configuring a Renderer.
type Option func(*Renderer)

// WithOptions replaces the whole render configuration.
func WithOptions(opts render.Options) Option {
	return func(r *Renderer) {
		r.opts = opts
	}
}

// WithStyle selects ascii or unicode glyphs.
func WithStyle(style render.Style) Option {
	return func(r *Renderer) {
		r.opts.Style = style
	}
}

// WithShowLabels toggles node labels.
func WithShowLabels(show bool) Option {
	return func(r *Renderer) {
		r.opts.ShowLabels = show
	}
}

// WithMaxLabelWidth sets the label truncation width in terminal cells.
func WithMaxLabelWidth(width int) Option {
	return func(r *Renderer) {
		r.opts.MaxLabelWidth = width
	}
}

// WithCompact drops the spacer lines between rows.
func WithCompact(compact bool) Option {
	return func(r *Renderer) {
		r.opts.Compact = compact
	}
}

// WithColors paints status glyphs using the given terminal profile.
// termenv.Ascii disables colouring.
func WithColors(profile termenv.Profile) Option {
	return func(r *Renderer) {
		r.opts.Colors = profile != termenv.Ascii
		r.opts.Profile = profile
	}
}

// WithStrictLifecycle rejects state updates that leave completed or failed.
func WithStrictLifecycle() Option {
	return func(r *Renderer) {
		r.strict = true
	}
}
