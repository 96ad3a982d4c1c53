package render

import "github.com/muesli/termenv"

// DefaultMaxLabelWidth is used when Options.MaxLabelWidth is not positive.
const DefaultMaxLabelWidth = 40

// EmptyGraph is the text rendered for a graph without nodes.
const EmptyGraph = "Empty graph"

// Options configures a Renderer.
type Options struct {
	Style      Style `json:"style" yaml:"style" mapstructure:"style"`
	ShowLabels bool  `json:"show_labels" yaml:"show_labels" mapstructure:"show_labels"`

	// MaxLabelWidth is measured in terminal cells. Longer labels are cut and end
	// with an ellipsis; they never wrap.
	MaxLabelWidth int `json:"max_label_width" yaml:"max_label_width" mapstructure:"max_label_width"`

	// Compact drops the plain spacer lines between rows. Merge and fork connectors
	// are always drawn.
	Compact bool `json:"compact" yaml:"compact" mapstructure:"compact"`

	// Colors paints workflow status glyphs using Profile.
	Colors  bool            `json:"colors" yaml:"colors" mapstructure:"colors"`
	Profile termenv.Profile `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultOptions returns ascii output with labels shown and truncated at 40 cells.
func DefaultOptions() Options {
	return Options{
		Style:         StyleASCII,
		ShowLabels:    true,
		MaxLabelWidth: DefaultMaxLabelWidth,
		Profile:       termenv.ANSI,
	}
}

func (o Options) labelWidth() int {
	if o.MaxLabelWidth <= 0 {
		return DefaultMaxLabelWidth
	}
	return o.MaxLabelWidth
}
