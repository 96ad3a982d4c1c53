package layout

import (
	"sort"

	"github.com/aretw0/gitgraph/pkg/domain"
)

// Row is the placement of one node.
type Row struct {
	Index  int
	Handle int // position of the node in the slice given to Compute
	NodeID string
	Column int

	// Merges are the columns of secondary-parent lanes that close into this node.
	Merges []int
	// Forks are the columns opened for the node's second and later children.
	Forks []int

	// Incoming lists the lanes open just above the row.
	Incoming []int
	// Outgoing lists the lanes open just below the row, forks included.
	Outgoing []int
}

// HasParentLane reports whether a lane enters the node's column from above.
func (r Row) HasParentLane() bool {
	return contains(r.Incoming, r.Column)
}

// Continues reports whether the node's column stays open below the row.
func (r Row) Continues() bool {
	return contains(r.Outgoing, r.Column)
}

// Layout is a derived, discardable projection of a node set.
type Layout struct {
	Rows  []Row
	Stats domain.Stats

	// PeakLanes is the highest number of lanes open at the same time.
	PeakLanes int

	byID map[string]int
}

// Row returns the placement of the node with the given ID.
func (l *Layout) Row(id string) (Row, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Row{}, false
	}
	return l.Rows[i], true
}

// Width returns the number of lanes the layout spans.
func (l *Layout) Width() int {
	return l.Stats.Columns()
}

type edgeKey struct {
	parent, child int
}

// lanes is the pool of open columns. A used slot carries one pending edge.
type lanes struct {
	used []bool
	max  int
	open int
	peak int
}

func (p *lanes) allocate() int {
	col := -1
	for i, u := range p.used {
		if !u {
			col = i
			break
		}
	}
	if col == -1 {
		col = len(p.used)
		p.used = append(p.used, false)
	}
	p.used[col] = true
	p.open++
	if p.open > p.peak {
		p.peak = p.open
	}
	if col > p.max {
		p.max = col
	}
	return col
}

func (p *lanes) release(col int) {
	if p.used[col] {
		p.used[col] = false
		p.open--
	}
}

func (p *lanes) snapshot() []int {
	out := make([]int, 0, p.open)
	for i, u := range p.used {
		if u {
			out = append(out, i)
		}
	}
	return out
}

// Compute lays out nodes. The slice is read, never modified.
func Compute(nodes []domain.Node) (*Layout, error) {
	l := &Layout{byID: make(map[string]int, len(nodes))}
	if len(nodes) == 0 {
		return l, nil
	}

	topo, err := buildTopology(nodes)
	if err != nil {
		return nil, err
	}
	order, err := topoOrder(nodes, topo)
	if err != nil {
		return nil, err
	}

	rowOf := make([]int, len(nodes))
	for r, h := range order {
		rowOf[h] = r
	}
	for h := range topo.children {
		kids := topo.children[h]
		sort.SliceStable(kids, func(a, b int) bool { return rowOf[kids[a]] < rowOf[kids[b]] })
	}

	pool := &lanes{}
	edgeLane := make(map[edgeKey]int)
	edges := 0

	l.Rows = make([]Row, len(order))
	for r, h := range order {
		row := Row{
			Index:    r,
			Handle:   h,
			NodeID:   nodes[h].ID,
			Incoming: pool.snapshot(),
		}

		parents := topo.parents[h]
		edges += len(parents)
		if len(parents) == 0 {
			row.Column = pool.allocate()
		} else {
			row.Column = edgeLane[edgeKey{parents[0], h}]
			delete(edgeLane, edgeKey{parents[0], h})
			for _, p := range parents[1:] {
				key := edgeKey{p, h}
				col := edgeLane[key]
				delete(edgeLane, key)
				row.Merges = append(row.Merges, col)
				pool.release(col)
			}
		}

		kids := topo.children[h]
		if len(kids) == 0 {
			pool.release(row.Column)
		} else {
			edgeLane[edgeKey{h, kids[0]}] = row.Column
			for _, k := range kids[1:] {
				col := pool.allocate()
				edgeLane[edgeKey{h, k}] = col
				row.Forks = append(row.Forks, col)
			}
		}

		sort.Ints(row.Merges)
		sort.Ints(row.Forks)
		row.Outgoing = pool.snapshot()
		l.Rows[r] = row
		l.byID[row.NodeID] = r
	}

	l.PeakLanes = pool.peak
	l.Stats = domain.Stats{
		Nodes:     len(nodes),
		Edges:     edges,
		MaxColumn: pool.max,
	}
	return l, nil
}

func contains(cols []int, c int) bool {
	i := sort.SearchInts(cols, c)
	return i < len(cols) && cols[i] == c
}
