package render_test

import (
	"strings"
	"testing"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/graph"
	"github.com/aretw0/gitgraph/pkg/layout"
	"github.com/aretw0/gitgraph/pkg/render"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nodeDef struct {
	id      string
	label   string
	parents []string
}

func draw(t *testing.T, opts render.Options, workflow bool, defs ...nodeDef) string {
	t.Helper()
	s := graph.NewStore()
	for _, sp := range defs {
		label := sp.label
		if label == "" {
			label = sp.id
		}
		_, err := s.AddNode(sp.id, label, sp.parents)
		require.NoError(t, err)
	}
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	r := render.New(opts)
	if workflow {
		return r.Workflow(s.Nodes(), l)
	}
	return r.Graph(s.Nodes(), l)
}

func lines(s ...string) string {
	return strings.Join(s, "\n")
}

func TestRenderer_Empty(t *testing.T) {
	r := render.New(render.DefaultOptions())
	l, err := layout.Compute(nil)
	require.NoError(t, err)
	assert.Equal(t, render.EmptyGraph, r.Graph(nil, l))
}

func TestRenderer_LinearASCII(t *testing.T) {
	got := draw(t, render.DefaultOptions(), false,
		nodeDef{id: "a", label: "Commit A"},
		nodeDef{id: "b", label: "Commit B", parents: []string{"a"}},
		nodeDef{id: "c", label: "Commit C", parents: []string{"b"}},
	)
	assert.Equal(t, lines(
		"*  Commit A",
		"|",
		"*  Commit B",
		"|",
		"*  Commit C",
	), got)
}

func TestRenderer_LinearCompact(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Compact = true
	got := draw(t, opts, false,
		nodeDef{id: "a"},
		nodeDef{id: "b", parents: []string{"a"}},
	)
	assert.Equal(t, lines("*  a", "*  b"), got)
}

func TestRenderer_BranchAndMergeUnicode(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Style = render.StyleUnicode
	got := draw(t, opts, false,
		nodeDef{id: "1"},
		nodeDef{id: "2", parents: []string{"1"}},
		nodeDef{id: "3", parents: []string{"1"}},
		nodeDef{id: "4", parents: []string{"2", "3"}},
	)
	assert.Equal(t, lines(
		"●    1",
		"├─╮",
		"● │  2",
		"│ │",
		"│ ●  3",
		"├─╯",
		"●    4",
	), got)
}

func TestRenderer_BranchAndMergeASCII(t *testing.T) {
	got := draw(t, render.DefaultOptions(), false,
		nodeDef{id: "1"},
		nodeDef{id: "2", parents: []string{"1"}},
		nodeDef{id: "3", parents: []string{"1"}},
		nodeDef{id: "4", parents: []string{"2", "3"}},
	)
	assert.Equal(t, lines(
		"*    1",
		"|-\\",
		"* |  2",
		"| |",
		"| *  3",
		"|-/",
		"*    4",
	), got)
}

func TestRenderer_ParallelBranches(t *testing.T) {
	opts := render.DefaultOptions()
	opts.ShowLabels = false
	got := draw(t, opts, false,
		nodeDef{id: "m1"},
		nodeDef{id: "m2", parents: []string{"m1"}},
		nodeDef{id: "a1", parents: []string{"m1"}},
		nodeDef{id: "a2", parents: []string{"a1"}},
		nodeDef{id: "a3", parents: []string{"a2"}},
		nodeDef{id: "b1", parents: []string{"m1"}},
		nodeDef{id: "b2", parents: []string{"b1"}},
		nodeDef{id: "m3", parents: []string{"m2", "a3"}},
		nodeDef{id: "m4", parents: []string{"m3", "b2"}},
		nodeDef{id: "m5", parents: []string{"m4"}},
	)
	assert.Equal(t, lines(
		"*",
		"|-+-\\",
		"* | |",
		"| | |",
		"| * |",
		"| | |",
		"| * |",
		"| | |",
		"| * |",
		"| | |",
		"| | *",
		"| | |",
		"| | *",
		"|-/ |",
		"*   |",
		"|---/",
		"*",
		"|",
		"*",
	), got)
}

func TestRenderer_ForkToTheLeft(t *testing.T) {
	got := draw(t, render.DefaultOptions(), false,
		nodeDef{id: "a"},
		nodeDef{id: "b", parents: []string{"a"}},
		nodeDef{id: "c", parents: []string{"a"}},
		nodeDef{id: "d", parents: []string{"c"}},
		nodeDef{id: "e", parents: []string{"c"}},
	)
	assert.Equal(t, lines(
		"*    a",
		"|-\\",
		"* |  b",
		"  |",
		"  *  c",
		"/-|",
		"| *  d",
		"|",
		"*    e",
	), got)
}

func TestRenderer_CrossingLane(t *testing.T) {
	// "z" merges the lane at column 2 while column 1 passes through.
	opts := render.DefaultOptions()
	opts.Style = render.StyleUnicode
	opts.ShowLabels = false
	opts.Compact = true
	got := draw(t, opts, false,
		nodeDef{id: "r"},
		nodeDef{id: "x", parents: []string{"r"}},
		nodeDef{id: "y", parents: []string{"r"}},
		nodeDef{id: "w", parents: []string{"r"}},
		nodeDef{id: "z", parents: []string{"x", "w"}},
		nodeDef{id: "end", parents: []string{"z", "y"}},
	)
	assert.Equal(t, lines(
		"●",
		"├─┬─╮",
		"● │ │",
		"│ ● │",
		"│ │ ●",
		"├─┼─╯",
		"● │",
		"├─╯",
		"●",
	), got)
}

func TestRenderer_LabelTruncation(t *testing.T) {
	opts := render.DefaultOptions()
	opts.MaxLabelWidth = 10
	got := draw(t, opts, false, nodeDef{id: "a", label: "A very long commit message"})
	assert.Equal(t, "*  A very ...", got)

	opts.Style = render.StyleUnicode
	got = draw(t, opts, false, nodeDef{id: "a", label: "A very long commit message"})
	assert.Equal(t, "●  A very lo…", got)
}

func TestRenderer_LabelsNeverWrap(t *testing.T) {
	opts := render.DefaultOptions()
	opts.MaxLabelWidth = 5
	got := draw(t, opts, false, nodeDef{id: "a", label: "line one\nline two"})
	assert.NotContains(t, got, "\n")

	got = draw(t, opts, false, nodeDef{id: "a", label: "a\nb"})
	assert.Equal(t, "*  a b", got)
}

func TestRenderer_Deterministic(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("1", "one", nil)
	_, _ = s.AddNode("2", "two", []string{"1"})
	_, _ = s.AddNode("3", "three", []string{"1"})
	_, _ = s.AddNode("4", "four", []string{"3", "2"})
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	r := render.New(render.Options{Style: render.StyleUnicode, ShowLabels: true})
	assert.Equal(t, r.Graph(s.Nodes(), l), r.Graph(s.Nodes(), l))
}

func TestRenderer_UnknownStyleFallsBack(t *testing.T) {
	r := render.New(render.Options{Style: "fancy"})
	assert.Equal(t, render.StyleASCII, r.Options().Style)
}

func workflowStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	_, err := s.Insert(domain.Node{
		ID: "c", Label: "Coordinator", HasOverlay: true,
		Overlay: domain.Overlay{State: domain.StateRunning, Activity: "Scanning repository", Progress: "0/5 files"},
	})
	require.NoError(t, err)
	_, err = s.Insert(domain.Node{
		ID: "w1", Label: "Worker", Parents: []string{"c"}, HasOverlay: true,
		Overlay: domain.Overlay{State: domain.StateRunning},
	})
	require.NoError(t, err)
	return s
}

func TestRenderer_Workflow(t *testing.T) {
	s := workflowStore(t)
	_, _ = s.IncrementTurns("w1")
	_, _ = s.IncrementTurns("w1")
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	r := render.New(render.DefaultOptions())
	assert.Equal(t, lines(
		"*  [~] Coordinator [0/5 files]",
		"|  -> Scanning repository",
		"|",
		"*  [~] Worker (2 turns)",
	), r.Workflow(s.Nodes(), l))

	require.NoError(t, s.UpdateState("w1", domain.StateCompleted, false))
	got := r.Workflow(s.Nodes(), l)
	assert.Contains(t, got, "[x] Worker")
	assert.NotContains(t, got, "[~] Worker")
}

func TestRenderer_WorkflowProgressNeverWraps(t *testing.T) {
	s := graph.NewStore()
	_, err := s.AddNode("root", "root", nil)
	require.NoError(t, err)
	_, err = s.AddNode("side", "side", []string{"root"})
	require.NoError(t, err)
	_, err = s.Insert(domain.Node{
		ID: "w1", Label: "w1", Parents: []string{"root"}, HasOverlay: true,
		Overlay: domain.Overlay{Progress: "step 1\nstep 2 " + strings.Repeat("x", 80)},
	})
	require.NoError(t, err)
	_, err = s.AddNode("end", "end", []string{"side", "w1"})
	require.NoError(t, err)
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	opts := render.DefaultOptions()
	opts.MaxLabelWidth = 20
	got := render.New(opts).Workflow(s.Nodes(), l)

	var row string
	for _, line := range strings.Split(got, "\n") {
		assert.False(t, strings.HasPrefix(line, "step 2"), got)
		if strings.Contains(line, "[ ] w1") {
			row = line
		}
	}
	require.NotEmpty(t, row, got)
	assert.Contains(t, row, "[step 1 step 2 xxx...]")
	assert.NotContains(t, got, strings.Repeat("x", 21))
}

func TestRenderer_WorkflowUnicodeGlyphs(t *testing.T) {
	s := workflowStore(t)
	require.NoError(t, s.UpdateState("w1", domain.StateFailed, false))
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	opts := render.DefaultOptions()
	opts.Style = render.StyleUnicode
	got := render.New(opts).Workflow(s.Nodes(), l)
	assert.Contains(t, got, "◐ Coordinator")
	assert.Contains(t, got, "│  ↳ Scanning repository")
	assert.Contains(t, got, "✗ Worker")
}

func TestRenderer_WorkflowColors(t *testing.T) {
	s := workflowStore(t)
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	opts := render.DefaultOptions()
	opts.Colors = true
	opts.Profile = termenv.ANSI
	assert.Contains(t, render.New(opts).Workflow(s.Nodes(), l), "\x1b[")

	opts.Profile = termenv.Ascii
	assert.NotContains(t, render.New(opts).Workflow(s.Nodes(), l), "\x1b[")
}

func TestRenderer_WorkflowWithoutLabels(t *testing.T) {
	s := workflowStore(t)
	l, err := layout.Compute(s.Nodes())
	require.NoError(t, err)

	opts := render.DefaultOptions()
	opts.ShowLabels = false
	got := render.New(opts).Workflow(s.Nodes(), l)
	assert.True(t, strings.HasPrefix(got, "*  [~] [0/5 files]"), got)
}

func TestStatusGlyph(t *testing.T) {
	assert.Equal(t, "[x]", render.StatusGlyph(render.StyleASCII, domain.StateCompleted))
	assert.Equal(t, "✓", render.StatusGlyph(render.StyleUnicode, domain.StateCompleted))
	assert.Equal(t, "[ ]", render.StatusGlyph(render.StyleASCII, domain.AgentState("bogus")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", render.Truncate("short", 10, "..."))
	assert.Equal(t, "ab...", render.Truncate("abcdefghij", 5, "..."))
	assert.Equal(t, "ab", render.Truncate("abcdefghij", 2, "..."))
	assert.Equal(t, "日...", render.Truncate("日本語のラベル", 5, "..."))
}

func TestParseStyle(t *testing.T) {
	s, ok := render.ParseStyle("")
	assert.True(t, ok)
	assert.Equal(t, render.StyleASCII, s)

	s, ok = render.ParseStyle("unicode")
	assert.True(t, ok)
	assert.Equal(t, render.StyleUnicode, s)

	_, ok = render.ParseStyle("braille")
	assert.False(t, ok)
}
