package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when a node ID is already present in the store.
	ErrDuplicateID = errors.New("duplicate node id")
	// ErrUnknownParent is returned when a parent reference does not exist yet.
	ErrUnknownParent = errors.New("unknown parent")
	// ErrNotFound is returned when an operation targets a missing node.
	ErrNotFound = errors.New("node not found")
	// ErrCycleDetected is returned by the layout when the graph is not acyclic.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrEmptyID is returned when a node is declared without an ID.
	ErrEmptyID = errors.New("empty node id")
	// ErrInvalidState is returned for an unknown lifecycle state.
	ErrInvalidState = errors.New("invalid agent state")
	// ErrInvalidOverlay is returned for overlay values that cannot occur, such as negative turns.
	ErrInvalidOverlay = errors.New("invalid overlay")
	// ErrTerminalState is returned by strict trackers when leaving completed/failed.
	ErrTerminalState = errors.New("agent already in terminal state")
	// ErrSnapshotNotFound is returned when a snapshot key does not exist in a store.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSealedSnapshot is returned when restoring an encrypted envelope directly.
	ErrSealedSnapshot = errors.New("snapshot is sealed")
)

// GraphError wraps one of the sentinel errors with the offending identifiers.
type GraphError struct {
	Kind   error
	NodeID string
	Ref    string // parent id, state name or cycle path depending on Kind
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.NodeID != "" && e.Ref != "":
		return fmt.Sprintf("%s: node %q: %q", e.Kind, e.NodeID, e.Ref)
	case e.NodeID != "":
		return fmt.Sprintf("%s: node %q", e.Kind, e.NodeID)
	case e.Ref != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Ref)
	}
	return e.Kind.Error()
}

func (e *GraphError) Unwrap() error { return e.Kind }
