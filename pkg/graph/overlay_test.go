package graph_test

import (
	"testing"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOverlayStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	_, err := s.Insert(domain.Node{
		ID:         "w1",
		Label:      "Worker",
		HasOverlay: true,
		Overlay:    domain.Overlay{State: domain.StateRunning},
	})
	require.NoError(t, err)
	return s
}

func TestOverlay_UpdatesOnlyNamedField(t *testing.T) {
	s := newOverlayStore(t)
	version := s.Version()

	require.NoError(t, s.UpdateActivity("w1", "Applying merge strategy"))
	require.NoError(t, s.UpdateProgress("w1", "2/4 steps"))
	turns, err := s.IncrementTurns("w1")
	require.NoError(t, err)
	assert.Equal(t, 1, turns)
	turns, _ = s.IncrementTurns("w1")
	assert.Equal(t, 2, turns)

	n, _ := s.Node("w1")
	assert.Equal(t, domain.Overlay{
		State:    domain.StateRunning,
		Activity: "Applying merge strategy",
		Progress: "2/4 steps",
		Turns:    2,
	}, n.Overlay)
	assert.Equal(t, version, s.Version(), "overlay updates must not touch topology")
}

func TestOverlay_UnknownID(t *testing.T) {
	s := newOverlayStore(t)

	assert.ErrorIs(t, s.UpdateState("nope", domain.StateCompleted, false), domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdateActivity("nope", "x"), domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdateProgress("nope", "x"), domain.ErrNotFound)
	_, err := s.IncrementTurns("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.SetOverlay("nope", domain.Overlay{}), domain.ErrNotFound)
}

func TestOverlay_StateTransitions(t *testing.T) {
	t.Run("Terminal re-entry allowed by default", func(t *testing.T) {
		s := newOverlayStore(t)
		require.NoError(t, s.UpdateState("w1", domain.StateCompleted, false))
		require.NoError(t, s.UpdateState("w1", domain.StateRunning, false))
		n, _ := s.Node("w1")
		assert.Equal(t, domain.StateRunning, n.Overlay.State)
	})

	t.Run("Strict rejects leaving terminal", func(t *testing.T) {
		s := newOverlayStore(t)
		require.NoError(t, s.UpdateState("w1", domain.StateFailed, true))
		assert.ErrorIs(t, s.UpdateState("w1", domain.StateRunning, true), domain.ErrTerminalState)
		assert.NoError(t, s.UpdateState("w1", domain.StateFailed, true), "repeating the terminal state is fine")
	})

	t.Run("Invalid state", func(t *testing.T) {
		s := newOverlayStore(t)
		assert.ErrorIs(t, s.UpdateState("w1", domain.AgentState("sleeping"), false), domain.ErrInvalidState)
	})
}

func TestOverlay_PlainNodeGainsOverlay(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("c1", "Commit", nil)

	require.NoError(t, s.UpdateState("c1", domain.StateRunning, false))
	n, _ := s.Node("c1")
	assert.True(t, n.HasOverlay)
	assert.Equal(t, domain.StateRunning, n.Overlay.State)
}

func TestOverlay_AttachedOverlayStartsPending(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("c1", "Commit", nil)

	require.NoError(t, s.UpdateActivity("c1", "rebasing"))
	n, _ := s.Node("c1")
	assert.True(t, n.HasOverlay)
	assert.Equal(t, domain.StatePending, n.Overlay.State)
	assert.Equal(t, "rebasing", n.Overlay.Activity)
}
