package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
)

// Outline renders a game as a Markdown document: a header with the game
// metadata followed by the node tree as a nested list.
func Outline(g *game.Game) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", g.Name())
	fmt.Fprintf(&sb, "%s\n\n", g.Description())

	status := "draft"
	if g.Published() {
		status = "published"
	}
	fmt.Fprintf(&sb, "*%s · by %s · %s*\n\n", g.Language(), g.Author(), status)

	root := g.Root()
	if root == nil {
		sb.WriteString("_No nodes yet._\n")
		return sb.String()
	}

	dangling := make(map[string]bool)
	for _, n := range root.DanglingConditions() {
		dangling[n.ID()] = true
	}

	root.Walk(func(n *domain.Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(item(n))
		if dangling[n.ID()] {
			sb.WriteString(" **(missing flag)**")
		}
		sb.WriteString("\n")
		return true
	})
	return sb.String()
}

func item(n *domain.Node) string {
	switch n.Type() {
	case domain.NodeTypeRoom:
		return fmt.Sprintf("**%s** `%s`: %s", n.Name(), n.ID(), n.Description())
	case domain.NodeTypeCondition:
		c, _ := n.Condition()
		return fmt.Sprintf("*if* `%s` is %s `%s`", c.FlagID(), c.FlagState(), n.ID())
	default:
		return fmt.Sprintf("%s *%s* `%s`", n.Name(), strings.ToLower(string(n.Type())), n.ID())
	}
}
