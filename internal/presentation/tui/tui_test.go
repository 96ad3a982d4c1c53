package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownReport(t *testing.T) {
	got := MarkdownReport("History", "*  a\n|\n*  b", domain.Stats{Nodes: 2, Edges: 1, MaxColumn: 0})
	assert.Equal(t, "# History\n\n```text\n*  a\n|\n*  b\n```\n\n"+
		"| Nodes | Edges | Lanes |\n|------:|------:|------:|\n| 2 | 1 | 1 |\n", got)
}

func TestMarkdownReport_NoTitle(t *testing.T) {
	got := MarkdownReport("", "Empty graph", domain.Stats{})
	assert.Contains(t, got, "| 0 | 0 | 0 |")
	assert.NotContains(t, got, "# ")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(0)
	out, err := render(MarkdownReport("History", "*  first commit", domain.Stats{Nodes: 1}))
	require.NoError(t, err)
	assert.Contains(t, out, "first commit")
}

func TestTerminalDetectionOnFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.False(t, IsTerminal(nil))
	assert.Equal(t, DefaultWidth, Width(f))
	assert.Equal(t, termenv.Ascii, ColorProfile(f, false))
	assert.Equal(t, termenv.ANSI256, ColorProfile(f, true))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.Contains(t, buf.String(), "|___/")
}
