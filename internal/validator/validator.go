package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
)

// Severity grades an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding of a validation run.
type Issue struct {
	Severity Severity
	GameID   string
	NodeID   string
	Message  string
}

func (i Issue) String() string {
	s := fmt.Sprintf("[%s] %s", i.Severity, i.GameID)
	if i.NodeID != "" {
		s += "/" + i.NodeID
	}
	return s + ": " + i.Message
}

// Report collects the issues found across one or more games.
type Report struct {
	Games  int
	Nodes  int
	Issues []Issue
}

// Errors counts the issues with SeverityError.
func (r Report) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Err returns nil when the report holds no errors. Warnings alone pass.
func (r Report) Err() error {
	var lines []string
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			lines = append(lines, i.String())
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
}

// ValidateGame reports the problems of a structurally valid game: an empty
// tree, conditions whose flag is gone, and choices or conditions that lead
// nowhere. None of them stop the game from being edited.
func ValidateGame(g *game.Game) []Issue {
	root := g.Root()
	if root == nil {
		return []Issue{{Severity: SeverityWarning, GameID: g.ID(), Message: "game has no nodes"}}
	}

	var issues []Issue
	for _, n := range root.DanglingConditions() {
		c, _ := n.Condition()
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			GameID:   g.ID(),
			NodeID:   n.ID(),
			Message:  fmt.Sprintf("condition references missing flag %q", c.FlagID()),
		})
	}
	root.Walk(func(n *domain.Node, _ int) bool {
		if (n.Type() == domain.NodeTypeChoice || n.Type() == domain.NodeTypeCondition) && n.ChildCount() == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				GameID:   g.ID(),
				NodeID:   n.ID(),
				Message:  fmt.Sprintf("%s leads nowhere", strings.ToLower(string(n.Type()))),
			})
		}
		return true
	})
	return issues
}

// ValidateLibrary loads every game of lib. Games that fail to load are
// reported as errors; the rest go through ValidateGame.
func ValidateLibrary(ctx context.Context, lib ports.GameLibrary) (Report, error) {
	ids, err := lib.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list library: %w", err)
	}

	var r Report
	for _, id := range ids {
		g, err := lib.Load(ctx, id)
		if err != nil {
			r.Issues = append(r.Issues, Issue{Severity: SeverityError, GameID: id, Message: err.Error()})
			continue
		}
		r.Games++
		if g.Root() != nil {
			r.Nodes += g.Root().Len()
		}
		r.Issues = append(r.Issues, ValidateGame(g)...)
	}
	return r, nil
}
