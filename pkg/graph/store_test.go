package graph_test

import (
	"errors"
	"testing"

	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddNode(t *testing.T) {
	s := graph.NewStore()

	n, err := s.AddNode("1", "Initial", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Seq)
	assert.True(t, n.IsRoot())

	n, err = s.AddNode("2", "Feature", []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n.Seq)
	assert.Equal(t, []string{"1"}, n.Parents)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.EdgeCount())
}

func TestStore_AddNode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		parents []string
		want    error
	}{
		{name: "Duplicate ID", id: "root", want: domain.ErrDuplicateID},
		{name: "Unknown Parent", id: "a1", parents: []string{"zzz"}, want: domain.ErrUnknownParent},
		{name: "Unknown Second Parent", id: "a2", parents: []string{"root", "zzz"}, want: domain.ErrUnknownParent},
		{name: "Self Parent", id: "self", parents: []string{"self"}, want: domain.ErrUnknownParent},
		{name: "Empty ID", id: "", want: domain.ErrEmptyID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := graph.NewStore()
			_, err := s.AddNode("root", "Root", nil)
			require.NoError(t, err)
			version := s.Version()

			_, err = s.AddNode(tt.id, "label", tt.parents)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			assert.Equal(t, 1, s.Len(), "failed add must not change the node count")
			assert.Equal(t, 0, s.EdgeCount())
			assert.Equal(t, version, s.Version())
		})
	}
}

func TestStore_UnknownParentError_Details(t *testing.T) {
	s := graph.NewStore()
	_, err := s.AddNode("a1", "Branch A", []string{"zzz"})

	var gerr *domain.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "a1", gerr.NodeID)
	assert.Equal(t, "zzz", gerr.Ref)
	assert.Contains(t, err.Error(), "zzz")
}

func TestStore_DuplicateParentsCollapse(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("a", "A", nil)

	n, err := s.AddNode("b", "B", []string{"a", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, n.Parents)
	assert.Equal(t, 1, s.EdgeCount())
}

func TestStore_ClearResetsSequence(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("a", "A", nil)
	_, _ = s.AddNode("b", "B", []string{"a"})

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.EdgeCount())
	assert.False(t, s.Has("a"))

	n, err := s.AddNode("a", "A again", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Seq)
}

func TestStore_NodeReturnsCopy(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("a", "A", nil)
	_, _ = s.AddNode("b", "B", []string{"a"})

	n, err := s.Node("b")
	require.NoError(t, err)
	n.Parents[0] = "mutated"

	again, _ := s.Node("b")
	assert.Equal(t, []string{"a"}, again.Parents)

	_, err = s.Node("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Edges(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("1", "", nil)
	_, _ = s.AddNode("2", "", []string{"1"})
	_, _ = s.AddNode("3", "", []string{"1"})
	_, _ = s.AddNode("4", "", []string{"2", "3"})

	assert.Equal(t, []domain.Edge{
		{From: "1", To: "2"},
		{From: "1", To: "3"},
		{From: "2", To: "4"},
		{From: "3", To: "4"},
	}, s.Edges())
}

func TestStore_InsertKeepsOverlay(t *testing.T) {
	s := graph.NewStore()
	n, err := s.Insert(domain.Node{
		ID:         "w1",
		Label:      "Worker",
		Seq:        42,
		HasOverlay: true,
		Overlay:    domain.Overlay{State: domain.StateRunning, Turns: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n.Seq)
	assert.Equal(t, domain.StateRunning, n.Overlay.State)

	got, _ := s.Node("w1")
	assert.Equal(t, 2, got.Overlay.Turns)
}

func TestStore_InsertValidatesOverlay(t *testing.T) {
	s := graph.NewStore()

	_, err := s.Insert(domain.Node{ID: "z", HasOverlay: true, Overlay: domain.Overlay{State: "bogus"}})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = s.Insert(domain.Node{ID: "z", HasOverlay: true, Overlay: domain.Overlay{Turns: -5}})
	assert.ErrorIs(t, err, domain.ErrInvalidOverlay)
	assert.Equal(t, 0, s.Len())

	n, err := s.Insert(domain.Node{ID: "z", HasOverlay: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, n.Overlay.State)
}

func TestStore_SnapshotIsDeep(t *testing.T) {
	s := graph.NewStore()
	_, _ = s.AddNode("a", "A", nil)
	_, _ = s.AddNode("b", "B", []string{"a"})

	snap := s.Snapshot()
	snap.Nodes[1].Parents[0] = "x"

	n, _ := s.Node("b")
	assert.Equal(t, "a", n.Parents[0])
}
