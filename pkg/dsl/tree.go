package dsl

import (
	"sort"
	"strings"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/pkg/domain"
)

// FromTree builds a graph from a parent -> children map. Every id mentioned as a key
// or a child becomes a node; a child listed under several parents becomes a merge.
// Nodes are inserted parents first, ties broken by id, so the result does not depend
// on map iteration order. Labels default to the id.
func FromTree(tree map[string][]string, labels map[string]string, opts ...gitgraph.Option) (*gitgraph.Renderer, error) {
	b, err := treeBuilder(tree, labels)
	if err != nil {
		return nil, err
	}
	return b.Build(opts...)
}

func treeBuilder(tree map[string][]string, labels map[string]string) (*Builder, error) {
	parents := make(map[string][]string)
	for parent, children := range tree {
		if _, ok := parents[parent]; !ok {
			parents[parent] = nil
		}
		for _, child := range children {
			parents[child] = append(parents[child], parent)
		}
	}

	ids := make([]string, 0, len(parents))
	for id := range parents {
		ids = append(ids, id)
		sort.Strings(parents[id])
	}
	sort.Strings(ids)

	b := New()
	placed := make(map[string]bool, len(ids))
	for len(placed) < len(ids) {
		progressed := false
		for _, id := range ids {
			if placed[id] || !allPlaced(parents[id], placed) {
				continue
			}
			label := id
			if l, ok := labels[id]; ok && l != "" {
				label = l
			}
			b.Add(id).Label(label).After(parents[id]...)
			placed[id] = true
			progressed = true
			// restart so the smallest ready id always goes next
			break
		}
		if !progressed {
			var stuck []string
			for _, id := range ids {
				if !placed[id] {
					stuck = append(stuck, id)
				}
			}
			return nil, &domain.GraphError{Kind: domain.ErrCycleDetected, Ref: strings.Join(stuck, ", ")}
		}
	}
	return b, nil
}

func allPlaced(ids []string, placed map[string]bool) bool {
	for _, id := range ids {
		if !placed[id] {
			return false
		}
	}
	return true
}

