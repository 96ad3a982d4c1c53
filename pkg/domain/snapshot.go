package domain

// Snapshot is a serialisable copy of a graph.
// Nodes are kept in insertion order so replaying them through AddNode is always valid.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`

	// Sealed holds an encrypted copy of the nodes when the snapshot is an envelope
	// written by an encrypting store. An envelope carries no plain nodes.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// Len returns the number of nodes in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Nodes)
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{Nodes: make([]Node, len(s.Nodes)), Sealed: s.Sealed}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}
