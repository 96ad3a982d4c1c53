package dsl

import (
	"fmt"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/pkg/domain"
)

// Builder collects node declarations in the order they are added.
type Builder struct {
	order []*NodeBuilder
	byID  map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		byID: make(map[string]*NodeBuilder),
	}
}

// Add declares a node. If the node already exists, it returns the existing builder
// and the node keeps its original position.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.byID[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:    id,
			Label: id,
			Seq:   len(b.order),
		},
	}
	b.order = append(b.order, nb)
	b.byID[id] = nb
	return nb
}

// Len returns the number of declared nodes.
func (b *Builder) Len() int {
	return len(b.order)
}

// Snapshot returns the declared nodes in declaration order without validating them.
func (b *Builder) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{Nodes: make([]domain.Node, 0, len(b.order))}
	for _, nb := range b.order {
		snap.Nodes = append(snap.Nodes, nb.node.Clone())
	}
	return snap
}

// Build replays the declarations into a new commit graph renderer.
func (b *Builder) Build(opts ...gitgraph.Option) (*gitgraph.Renderer, error) {
	g := gitgraph.New(opts...)
	if err := g.Restore(b.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}

// BuildAgents replays the declarations into a new workflow renderer. Nodes declared
// without a state start pending.
func (b *Builder) BuildAgents(opts ...gitgraph.Option) (*gitgraph.AgentRenderer, error) {
	a := gitgraph.NewAgentRenderer(opts...)
	snap := b.Snapshot()
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		n.HasOverlay = true
		if n.Overlay.State == "" {
			n.Overlay.State = domain.StatePending
		}
		if !n.Overlay.State.Valid() {
			return nil, &domain.GraphError{Kind: domain.ErrInvalidState, NodeID: n.ID, Ref: string(n.Overlay.State)}
		}
	}
	if err := a.Restore(snap); err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}
	return a, nil
}
