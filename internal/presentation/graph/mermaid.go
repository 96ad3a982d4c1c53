package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/gitgraph/pkg/domain"
)

// GraphOverlay contains extra highlighting to apply on top of the node states.
type GraphOverlay struct {
	Focus []string
}

var stateClasses = []struct {
	state domain.AgentState
	def   string
}{
	{domain.StatePending, "fill:#f3f4f6,stroke:#9ca3af,color:#000"},
	{domain.StateRunning, "fill:#fef9c3,stroke:#facc15,stroke-width:2px,color:#000"},
	{domain.StateCompleted, "fill:#dcfce7,stroke:#22c55e,color:#000"},
	{domain.StateFailed, "fill:#fee2e2,stroke:#ef4444,color:#000"},
}

// GenerateMermaid produces a Mermaid flowchart from nodes in insertion order.
// It applies semantic styling:
// - Root: ((Circle))
// - Merge: {{Hexagon}}
// - Default: [Rectangle]
// The first parent edge is solid; edges merged in from further parents are dotted.
// Workflow nodes are classed by lifecycle state.
func GenerateMermaid(nodes []domain.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := mermaidIDs(nodes)

	for _, node := range nodes {
		safeID := ids[node.ID]

		opener, closer := "[", "]"
		switch {
		case node.IsRoot():
			opener, closer = "((", "))"
		case node.IsMerge():
			opener, closer = "{{", "}}"
		}

		text := escapeLabel(node.Label)
		if text == "" {
			text = escapeLabel(node.ID)
		}
		if node.HasOverlay {
			if node.Overlay.Progress != "" {
				text += " [" + escapeLabel(node.Overlay.Progress) + "]"
			}
			if node.Overlay.Activity != "" {
				text += "<br/>" + escapeLabel(node.Overlay.Activity)
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, text, closer)

		for i, parent := range node.Parents {
			arrow := "-->"
			if i > 0 {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", ids[parent], arrow, safeID)
		}
	}

	var classed []string
	for _, node := range nodes {
		if node.HasOverlay {
			classed = append(classed, fmt.Sprintf("    class %s %s;\n", ids[node.ID], node.Overlay.State))
		}
	}
	if len(classed) > 0 {
		sb.WriteString("\n    %% State Styles\n")
		for _, c := range stateClasses {
			fmt.Fprintf(&sb, "    classDef %s %s;\n", c.state, c.def)
		}
		for _, line := range classed {
			sb.WriteString(line)
		}
	}

	if overlay != nil && len(overlay.Focus) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef focus stroke:#2563eb,stroke-width:4px;\n")
		seen := make(map[string]bool)
		for _, id := range overlay.Focus {
			safeID, ok := ids[id]
			if !ok || seen[safeID] {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s focus;\n", safeID)
		}
	}

	return sb.String()
}

// mermaidIDs maps node IDs to unique Mermaid identifiers.
func mermaidIDs(nodes []domain.Node) map[string]string {
	ids := make(map[string]string, len(nodes))
	used := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		base := sanitizeMermaidID(node.ID)
		safe := base
		for i := 2; used[safe]; i++ {
			safe = fmt.Sprintf("%s_%d", base, i)
		}
		used[safe] = true
		ids[node.ID] = safe
	}
	return ids
}

func sanitizeMermaidID(id string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
	// bare "end" breaks the flowchart grammar
	if s == "" || s == "end" || (s[0] >= '0' && s[0] <= '9') {
		s = "n_" + s
	}
	return s
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
