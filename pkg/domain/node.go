package domain

// Node represents a vertex of the commit/workflow graph.
// Edges are implicit: each entry of Parents is an edge from that parent to this node.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`

	// Parents lists parent IDs in declaration order. The first parent is the primary
	// one: a merge node continues in its lane.
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty"`

	// Seq is the insertion sequence number assigned by the store (0-based).
	Seq int `json:"seq" yaml:"seq"`

	// HasOverlay marks nodes registered through the workflow (agent) surface.
	HasOverlay bool    `json:"has_overlay,omitempty" yaml:"has_overlay,omitempty"`
	Overlay    Overlay `json:"overlay,omitempty" yaml:"overlay,omitempty"`
}

// Overlay holds the mutable runtime fields of a workflow node.
// Changing them never affects topology.
type Overlay struct {
	State    AgentState `json:"state" yaml:"state"`
	Activity string     `json:"activity,omitempty" yaml:"activity,omitempty"`
	Progress string     `json:"progress,omitempty" yaml:"progress,omitempty"`
	Turns    int        `json:"turns" yaml:"turns"`
}

// IsRoot reports whether the node has no parents.
func (n Node) IsRoot() bool {
	return len(n.Parents) == 0
}

// IsMerge reports whether the node converges two or more lanes.
func (n Node) IsMerge() bool {
	return len(n.Parents) > 1
}

// Clone returns a copy that shares no slices with n.
func (n Node) Clone() Node {
	c := n
	if n.Parents != nil {
		c.Parents = append([]string(nil), n.Parents...)
	}
	return c
}

// Edge is a directed parent -> child relation derived from a node's parent list.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}
