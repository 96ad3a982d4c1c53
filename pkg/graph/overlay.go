package graph

import (
	"github.com/aretw0/gitgraph/pkg/domain"
)

// The overlay mutations below touch a single field in O(1) and never change
// topology, so they do not bump the store version.

// SetOverlay attaches (or replaces) the workflow fields of a node.
func (s *Store) SetOverlay(id string, o domain.Overlay) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.HasOverlay = true
	n.Overlay = o
	return nil
}

// UpdateState sets the lifecycle state of a node.
// When strict is true, leaving a terminal state fails with ErrTerminalState.
func (s *Store) UpdateState(id string, state domain.AgentState, strict bool) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !state.Valid() {
		return &domain.GraphError{Kind: domain.ErrInvalidState, NodeID: id, Ref: string(state)}
	}
	if strict && n.HasOverlay && n.Overlay.State.IsTerminal() && n.Overlay.State != state {
		return &domain.GraphError{Kind: domain.ErrTerminalState, NodeID: id, Ref: string(n.Overlay.State)}
	}
	attach(n)
	n.Overlay.State = state
	return nil
}

// UpdateActivity sets the free-text current activity of a node.
func (s *Store) UpdateActivity(id, activity string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	attach(n)
	n.Overlay.Activity = activity
	return nil
}

// UpdateProgress sets the free-text progress indicator of a node.
func (s *Store) UpdateProgress(id, progress string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	attach(n)
	n.Overlay.Progress = progress
	return nil
}

// IncrementTurns bumps the turn counter and returns the new value.
func (s *Store) IncrementTurns(id string) (int, error) {
	n, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	attach(n)
	n.Overlay.Turns++
	return n.Overlay.Turns, nil
}

func (s *Store) lookup(id string) (*domain.Node, error) {
	h, ok := s.index[id]
	if !ok {
		return nil, &domain.GraphError{Kind: domain.ErrNotFound, NodeID: id}
	}
	return &s.nodes[h], nil
}

// attach marks a plain node as a workflow node, starting out pending.
func attach(n *domain.Node) {
	if n.HasOverlay {
		return
	}
	n.HasOverlay = true
	if n.Overlay.State == "" {
		n.Overlay.State = domain.StatePending
	}
}
