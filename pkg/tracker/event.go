package tracker

// Op names a tracker mutation.
type Op string

const (
	OpAddNode     Op = "add_node"
	OpAddAgent    Op = "add_agent"
	OpUpdateAgent Op = "update_agent"
	OpClear       Op = "clear"
)

// Event describes a successful mutation.
type Event struct {
	Op Op
	ID string // empty for OpClear
}
