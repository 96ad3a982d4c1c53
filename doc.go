/*
Package gitgraph lays out and draws directed acyclic graphs in the style of git log --graph.

Nodes are declared with zero or more parent IDs. A layout pass assigns every node a row
(a topological order, insertion order breaking ties) and a lane, opening lanes at branch
points and closing them at merges so the width of the drawing follows the graph's real
concurrency. The Renderer then emits ASCII or Unicode text with connector lines and labels.

AgentRenderer builds on the same engine to visualise multi-agent workflows: each agent is
a node carrying a lifecycle state, a current activity, a progress string and a turn counter
that can be updated at any time and show up on the next render.

# Usage

	g := gitgraph.New(gitgraph.WithStyle(render.StyleUnicode))
	_ = g.AddNode("1", "Main: Initial")
	_ = g.AddNode("2", "Main: Add feature", "1")
	_ = g.AddNode("3", "Branch: Fix bug", "1")
	_ = g.AddNode("4", "Main: Merge branch", "2", "3")

	out, err := g.Render()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

# Concurrency

The engine performs no locking, no I/O and no background work. Every call runs to
completion on the caller's goroutine and every render reflects the state at call time.
Hosts that share a Renderer between goroutines must serialise access themselves
(see pkg/tracker).
*/
package gitgraph
