package gitgraph

import (
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/layout"
)

// Agent declares a unit of work in a workflow graph.
type Agent struct {
	ID    string
	Name  string
	State domain.AgentState // empty means pending

	// ParentID is the agent that spawned this one. Empty for a root.
	ParentID string
	// WaitsOn lists further agents whose results this one consumes; the graph draws
	// them as merge edges.
	WaitsOn []string

	CurrentActivity string
	Progress        string
}

// AgentRenderer draws workflow graphs with a live status overlay.
// Status updates touch a single field and never trigger a relayout; adding an agent does.
type AgentRenderer struct {
	base *Renderer
}

// NewAgentRenderer creates an empty workflow graph.
func NewAgentRenderer(opts ...Option) *AgentRenderer {
	return &AgentRenderer{base: New(opts...)}
}

// Graph exposes the underlying commit graph renderer.
func (a *AgentRenderer) Graph() *Renderer {
	return a.base
}

// AddAgent inserts an agent node. It fails like Renderer.AddNode and, for an unknown
// state, with domain.ErrInvalidState.
func (a *AgentRenderer) AddAgent(agent Agent) error {
	state := agent.State
	if state == "" {
		state = domain.StatePending
	}
	if !state.Valid() {
		return &domain.GraphError{Kind: domain.ErrInvalidState, NodeID: agent.ID, Ref: string(state)}
	}

	var parents []string
	if agent.ParentID != "" {
		parents = append(parents, agent.ParentID)
	}
	parents = append(parents, agent.WaitsOn...)

	label := agent.Name
	if label == "" {
		label = agent.ID
	}

	_, err := a.base.store.Insert(domain.Node{
		ID:         agent.ID,
		Label:      label,
		Parents:    parents,
		HasOverlay: true,
		Overlay: domain.Overlay{
			State:    state,
			Activity: agent.CurrentActivity,
			Progress: agent.Progress,
		},
	})
	if err != nil {
		return err
	}
	a.base.invalidate()
	return nil
}

// Agent returns a copy of an agent node or domain.ErrNotFound.
func (a *AgentRenderer) Agent(id string) (domain.Node, error) {
	return a.base.Node(id)
}

// UpdateAgentState sets the lifecycle state. Terminal states may be left again unless
// the renderer was built WithStrictLifecycle.
func (a *AgentRenderer) UpdateAgentState(id string, state domain.AgentState) error {
	return a.base.store.UpdateState(id, state, a.base.strict)
}

// UpdateAgentActivity sets the current activity line.
func (a *AgentRenderer) UpdateAgentActivity(id, activity string) error {
	return a.base.store.UpdateActivity(id, activity)
}

// UpdateAgentProgress sets the progress indicator.
func (a *AgentRenderer) UpdateAgentProgress(id, progress string) error {
	return a.base.store.UpdateProgress(id, progress)
}

// IncrementAgentTurns bumps the turn counter and returns the new value.
func (a *AgentRenderer) IncrementAgentTurns(id string) (int, error) {
	return a.base.store.IncrementTurns(id)
}

// BuildGraph recomputes the layout. Only needed after agents were added; Render
// builds lazily as well.
func (a *AgentRenderer) BuildGraph() error {
	return a.base.BuildGraph()
}

// Layout returns the current layout.
func (a *AgentRenderer) Layout() (*layout.Layout, error) {
	return a.base.Layout()
}

// Render draws the workflow with status glyphs, progress, turns and activities.
func (a *AgentRenderer) Render() (string, error) {
	l, err := a.base.Layout()
	if err != nil {
		return "", err
	}
	return a.base.draw.Workflow(a.base.store.Nodes(), l), nil
}

// RenderASCII is Render under the name the workflow trackers use. The glyph style is
// still the one the renderer was configured with.
func (a *AgentRenderer) RenderASCII() (string, error) {
	return a.Render()
}

// Stats returns the node count, edge count and highest lane index.
func (a *AgentRenderer) Stats() (domain.Stats, error) {
	return a.base.Stats()
}

// Clear removes every agent.
func (a *AgentRenderer) Clear() {
	a.base.Clear()
}

// Snapshot returns a deep copy of the workflow, overlay included.
func (a *AgentRenderer) Snapshot() *domain.Snapshot {
	return a.base.Snapshot()
}

// Restore replaces the workflow with a snapshot.
func (a *AgentRenderer) Restore(snap *domain.Snapshot) error {
	return a.base.Restore(snap)
}
