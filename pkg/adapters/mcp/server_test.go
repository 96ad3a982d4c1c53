package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/tracker"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestServer_AgentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewServer(tracker.New(), nil)

	node, err := s.handleAddAgent(ctx, mcp.CallToolRequest{}, AgentArgs{ID: "w1", Name: "Worker", State: "running"})
	require.NoError(t, err)
	require.True(t, node.HasOverlay)
	assert.Equal(t, domain.StateRunning, node.Overlay.State)

	node, err = s.handleUpdateAgent(ctx, mcp.CallToolRequest{}, UpdateArgs{
		ID:             "w1",
		State:          strp("completed"),
		Activity:       strp("done"),
		IncrementTurns: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, node.Overlay.State)
	assert.Equal(t, "done", node.Overlay.Activity)
	assert.Equal(t, 1, node.Overlay.Turns)

	res, err := s.handleRender(ctx, callRequest("render_graph", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "*  [x] Worker (1 turn)\n   -> done", resultText(t, res))
}

func TestServer_AddAgentErrors(t *testing.T) {
	ctx := context.Background()
	s := NewServer(tracker.New(), nil)

	_, err := s.handleAddAgent(ctx, mcp.CallToolRequest{}, AgentArgs{ID: "a", State: "sleeping"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = s.handleAddAgent(ctx, mcp.CallToolRequest{}, AgentArgs{ID: "a", Parent: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUnknownParent)

	_, err = s.handleAddAgent(ctx, mcp.CallToolRequest{}, AgentArgs{ID: "a"})
	require.NoError(t, err)
	_, err = s.handleAddAgent(ctx, mcp.CallToolRequest{}, AgentArgs{ID: "a"})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestServer_UpdateAgentErrors(t *testing.T) {
	ctx := context.Background()
	s := NewServer(tracker.New(), nil)

	_, err := s.handleUpdateAgent(ctx, mcp.CallToolRequest{}, UpdateArgs{ID: "ghost", Activity: strp("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.handleAddAgent(ctx, mcp.CallToolRequest{}, AgentArgs{ID: "a"})
	require.NoError(t, err)

	_, err = s.handleUpdateAgent(ctx, mcp.CallToolRequest{}, UpdateArgs{ID: "a"})
	assert.Error(t, err)

	_, err = s.handleUpdateAgent(ctx, mcp.CallToolRequest{}, UpdateArgs{ID: "a", State: strp("bogus")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestServer_RenderMermaid(t *testing.T) {
	ctx := context.Background()
	tr := tracker.New()
	require.NoError(t, tr.AddNode(ctx, "root", "Root"))
	require.NoError(t, tr.AddNode(ctx, "child", "Child", "root"))
	s := NewServer(tr, nil)

	res, err := s.handleRender(ctx, callRequest("render_graph", map[string]any{"format": "mermaid", "focus": "child"}))
	require.NoError(t, err)
	out := resultText(t, res)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "root --> child")
	assert.Contains(t, out, "class child focus;")

	res, err = s.handleRender(ctx, callRequest("render_graph", map[string]any{"format": "svg"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	tr := tracker.New()
	require.NoError(t, tr.AddNode(ctx, "a", "A"))
	require.NoError(t, tr.AddNode(ctx, "b", "B", "a"))
	s := NewServer(tr, nil)

	stats, err := s.handleStats(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Nodes: 2, Edges: 1}, stats)

	res, err := s.handleClear(ctx, callRequest("clear_graph", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	stats, err = s.handleStats(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)
}

func TestServer_GraphResource(t *testing.T) {
	ctx := context.Background()
	tr := tracker.New()
	require.NoError(t, tr.AddNode(ctx, "a", "A"))
	s := NewServer(tr, nil)

	contents, err := s.readGraph(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, GraphURI, text.URI)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text.Text), &snap))
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "a", snap.Nodes[0].ID)
}
