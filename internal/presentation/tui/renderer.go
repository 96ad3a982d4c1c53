package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour, wrapped at width.
func NewRenderer(width int) func(string) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(width),
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		return r.Render(markdown)
	}
}

// MarkdownReport wraps a rendered graph and its stats into a markdown document.
func MarkdownReport(title, graph string, stats domain.Stats) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	sb.WriteString("```text\n")
	sb.WriteString(graph)
	sb.WriteString("\n```\n\n")
	sb.WriteString("| Nodes | Edges | Lanes |\n")
	sb.WriteString("|------:|------:|------:|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d |\n", stats.Nodes, stats.Edges, stats.Columns())
	return sb.String()
}
