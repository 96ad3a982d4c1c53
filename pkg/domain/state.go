package domain

import "fmt"

// AgentState is the lifecycle of a workflow node.
// pending -> running -> {completed | failed}. Transitions are caller driven.
type AgentState string

const (
	StatePending   AgentState = "pending"
	StateRunning   AgentState = "running"
	StateCompleted AgentState = "completed"
	StateFailed    AgentState = "failed"
)

// AgentStates lists the known states in lifecycle order.
var AgentStates = []AgentState{StatePending, StateRunning, StateCompleted, StateFailed}

// IsTerminal reports whether the state is completed or failed.
func (s AgentState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Valid reports whether s is one of the known states.
func (s AgentState) Valid() bool {
	switch s {
	case StatePending, StateRunning, StateCompleted, StateFailed:
		return true
	}
	return false
}

// ParseAgentState converts user input into an AgentState.
// The empty string maps to pending.
func ParseAgentState(s string) (AgentState, error) {
	if s == "" {
		return StatePending, nil
	}
	st := AgentState(s)
	if !st.Valid() {
		return "", &GraphError{Kind: ErrInvalidState, Ref: s}
	}
	return st, nil
}

func (s AgentState) String() string {
	return string(s)
}

// GoString keeps %#v output readable in test failures.
func (s AgentState) GoString() string {
	return fmt.Sprintf("domain.AgentState(%q)", string(s))
}
