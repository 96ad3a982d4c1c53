package dsl

import "github.com/aretw0/gitgraph/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node domain.Node
}

// Label sets the display text. It defaults to the node ID.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// After appends parents. The first parent is the one whose lane the node continues;
// further parents are merged in.
func (n *NodeBuilder) After(parents ...string) *NodeBuilder {
	n.node.Parents = append(n.node.Parents, parents...)
	return n
}

// State attaches a workflow overlay with the given lifecycle state.
func (n *NodeBuilder) State(state domain.AgentState) *NodeBuilder {
	n.node.HasOverlay = true
	n.node.Overlay.State = state
	return n
}

// Activity sets the current activity shown beneath a workflow node.
func (n *NodeBuilder) Activity(activity string) *NodeBuilder {
	n.node.HasOverlay = true
	n.node.Overlay.Activity = activity
	return n
}

// Progress sets the progress indicator of a workflow node.
func (n *NodeBuilder) Progress(progress string) *NodeBuilder {
	n.node.HasOverlay = true
	n.node.Overlay.Progress = progress
	return n
}

// Turns sets the turn counter of a workflow node.
func (n *NodeBuilder) Turns(turns int) *NodeBuilder {
	n.node.HasOverlay = true
	n.node.Overlay.Turns = turns
	return n
}
