package graph

import (
	"fmt"

	"github.com/aretw0/gitgraph/pkg/domain"
)

// Store holds nodes and their parent edges.
type Store struct {
	nodes []domain.Node
	index map[string]int
	edges int

	// version increases on every topology change so cached layouts can detect staleness.
	version uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// AddNode inserts a node with the next insertion sequence number.
// Duplicate parent references collapse into a single edge.
// A failed call leaves the store untouched.
func (s *Store) AddNode(id, label string, parents []string) (domain.Node, error) {
	if id == "" {
		return domain.Node{}, &domain.GraphError{Kind: domain.ErrEmptyID}
	}
	if _, exists := s.index[id]; exists {
		return domain.Node{}, &domain.GraphError{Kind: domain.ErrDuplicateID, NodeID: id}
	}

	var unique []string
	if len(parents) > 0 {
		seen := make(map[string]bool, len(parents))
		unique = make([]string, 0, len(parents))
		for _, p := range parents {
			if _, ok := s.index[p]; !ok {
				return domain.Node{}, &domain.GraphError{Kind: domain.ErrUnknownParent, NodeID: id, Ref: p}
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			unique = append(unique, p)
		}
	}

	n := domain.Node{
		ID:      id,
		Label:   label,
		Parents: unique,
		Seq:     len(s.nodes),
	}
	s.index[id] = n.Seq
	s.nodes = append(s.nodes, n)
	s.edges += len(unique)
	s.version++
	return n.Clone(), nil
}

// Insert adds a fully populated node (overlay included), validating it like AddNode.
// The Seq field of n is ignored.
func (s *Store) Insert(n domain.Node) (domain.Node, error) {
	if n.HasOverlay {
		if n.Overlay.State == "" {
			n.Overlay.State = domain.StatePending
		}
		if !n.Overlay.State.Valid() {
			return domain.Node{}, &domain.GraphError{Kind: domain.ErrInvalidState, NodeID: n.ID, Ref: string(n.Overlay.State)}
		}
		if n.Overlay.Turns < 0 {
			return domain.Node{}, &domain.GraphError{Kind: domain.ErrInvalidOverlay, NodeID: n.ID, Ref: fmt.Sprintf("turns %d", n.Overlay.Turns)}
		}
	}
	added, err := s.AddNode(n.ID, n.Label, n.Parents)
	if err != nil {
		return domain.Node{}, err
	}
	if n.HasOverlay {
		h := s.index[n.ID]
		s.nodes[h].HasOverlay = true
		s.nodes[h].Overlay = n.Overlay
		added.HasOverlay = true
		added.Overlay = n.Overlay
	}
	return added, nil
}

// Clear removes every node and resets the insertion sequence.
func (s *Store) Clear() {
	s.nodes = nil
	s.index = make(map[string]int)
	s.edges = 0
	s.version++
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (domain.Node, error) {
	h, ok := s.index[id]
	if !ok {
		return domain.Node{}, &domain.GraphError{Kind: domain.ErrNotFound, NodeID: id}
	}
	return s.nodes[h].Clone(), nil
}

// Has reports whether a node with the given ID exists.
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Handle resolves an ID to its arena handle.
func (s *Store) Handle(id string) (int, bool) {
	h, ok := s.index[id]
	return h, ok
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// EdgeCount returns the number of parent -> child edges.
func (s *Store) EdgeCount() int {
	return s.edges
}

// Version returns the topology version. It changes on AddNode and Clear only.
func (s *Store) Version() uint64 {
	return s.version
}

// Nodes returns the arena in insertion order.
// The slice is borrowed: callers must not modify it or retain it past the next mutation.
func (s *Store) Nodes() []domain.Node {
	return s.nodes
}

// Snapshot returns a deep copy of the graph in insertion order.
func (s *Store) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{Nodes: make([]domain.Node, len(s.nodes))}
	for i, n := range s.nodes {
		snap.Nodes[i] = n.Clone()
	}
	return snap
}

// Edges lists every edge ordered by child insertion, then parent declaration order.
func (s *Store) Edges() []domain.Edge {
	out := make([]domain.Edge, 0, s.edges)
	for _, n := range s.nodes {
		for _, p := range n.Parents {
			out = append(out, domain.Edge{From: p, To: n.ID})
		}
	}
	return out
}
