package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/quester/pkg/domain"
)

// GraphOverlay marks nodes to highlight on the graph.
type GraphOverlay struct {
	Warnings []string // e.g. dangling conditions
	Current  string
}

// GenerateMermaid produces a Mermaid flowchart for the tree under root.
// Shapes follow the node type:
// - Room: [Rectangle], or ((Circle)) for the root
// - Choice: {Diamond}
// - Flag: [[Subroutine]]
// - Condition: {{Hexagon}}
// Parent/child links are solid arrows. A condition also gets a dotted arrow
// to the flag it tests, labelled with the expected state.
func GenerateMermaid(root *domain.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if root == nil {
		return sb.String()
	}

	var links []string
	root.Walk(func(n *domain.Node, depth int) bool {
		safeID := sanitizeMermaidID(n.ID())

		opener, closer := "[", "]"
		switch {
		case depth == 0:
			opener, closer = "((", "))"
		case n.Type() == domain.NodeTypeChoice:
			opener, closer = "{", "}"
		case n.Type() == domain.NodeTypeFlag:
			opener, closer = "[[", "]]"
		case n.Type() == domain.NodeTypeCondition:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label(n), closer)

		for _, c := range n.Children() {
			links = append(links, fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(c.ID())))
		}
		if cond, ok := n.Condition(); ok {
			links = append(links, fmt.Sprintf("    %s -. \"%s\" .-> %s\n", safeID, cond.FlagState(), sanitizeMermaidID(cond.FlagID())))
		}
		return true
	})
	for _, l := range links {
		sb.WriteString(l)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds.
		sb.WriteString("    classDef warning fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Warnings {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s warning;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func label(n *domain.Node) string {
	text := n.ID()
	if n.Name() != "" {
		text = n.Name()
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
