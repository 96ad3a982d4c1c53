package gitgraph

import (
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/graph"
	"github.com/aretw0/gitgraph/pkg/layout"
	"github.com/aretw0/gitgraph/pkg/render"
)

// Renderer is a caller-owned commit graph: a node store, its cached layout and a
// text renderer. The zero value is not usable; call New.
type Renderer struct {
	store  *graph.Store
	opts   render.Options
	draw   *render.Renderer
	strict bool

	layout *layout.Layout
	built  uint64
}

// New creates an empty graph renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		store: graph.NewStore(),
		opts:  render.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.draw = render.New(r.opts)
	r.opts = r.draw.Options()
	return r
}

// Options returns the effective render configuration.
func (r *Renderer) Options() render.Options {
	return r.opts
}

// AddNode inserts a node. It fails with domain.ErrDuplicateID when the ID exists and
// with domain.ErrUnknownParent when a parent has not been added yet; on failure the
// graph is unchanged.
func (r *Renderer) AddNode(id, label string, parents ...string) error {
	if _, err := r.store.AddNode(id, label, parents); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Node returns a copy of a node or domain.ErrNotFound.
func (r *Renderer) Node(id string) (domain.Node, error) {
	return r.store.Node(id)
}

// Nodes returns a copy of every node in insertion order.
func (r *Renderer) Nodes() []domain.Node {
	return r.store.Snapshot().Nodes
}

// Edges lists the parent -> child edges.
func (r *Renderer) Edges() []domain.Edge {
	return r.store.Edges()
}

// Len returns the number of nodes.
func (r *Renderer) Len() int {
	return r.store.Len()
}

// Clear removes every node and resets the insertion sequence.
func (r *Renderer) Clear() {
	r.store.Clear()
	r.invalidate()
}

// BuildGraph recomputes the layout from the current nodes.
func (r *Renderer) BuildGraph() error {
	l, err := layout.Compute(r.store.Nodes())
	if err != nil {
		r.invalidate()
		return err
	}
	r.layout = l
	r.built = r.store.Version()
	return nil
}

// Layout returns the current layout, computing it first when the topology changed.
// The returned value must be treated as read-only.
func (r *Renderer) Layout() (*layout.Layout, error) {
	if r.layout == nil || r.built != r.store.Version() {
		if err := r.BuildGraph(); err != nil {
			return nil, err
		}
	}
	return r.layout, nil
}

// Render draws the graph. Two calls without an intervening mutation return the same text.
func (r *Renderer) Render() (string, error) {
	l, err := r.Layout()
	if err != nil {
		return "", err
	}
	return r.draw.Graph(r.store.Nodes(), l), nil
}

// Stats returns the node count, edge count and highest lane index.
// An empty graph yields the zero Stats.
func (r *Renderer) Stats() (domain.Stats, error) {
	if r.store.Len() == 0 {
		return domain.Stats{}, nil
	}
	l, err := r.Layout()
	if err != nil {
		return domain.Stats{}, err
	}
	return l.Stats, nil
}

// Snapshot returns a deep copy of the graph in insertion order.
func (r *Renderer) Snapshot() *domain.Snapshot {
	return r.store.Snapshot()
}

// Restore replaces the graph with the snapshot contents, replaying the nodes in order.
// If any node is rejected the current graph is kept. Sealed snapshots must be opened
// by the store that sealed them and are rejected here.
func (r *Renderer) Restore(snap *domain.Snapshot) error {
	if snap != nil && snap.Sealed != "" {
		return domain.ErrSealedSnapshot
	}
	store := graph.NewStore()
	if snap != nil {
		for _, n := range snap.Nodes {
			if _, err := store.Insert(n); err != nil {
				return err
			}
		}
	}
	r.store = store
	r.invalidate()
	return nil
}

func (r *Renderer) invalidate() {
	r.layout = nil
	r.built = 0
}
