package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/quester/pkg/domain"
)

// Op names a mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpEdit   Op = "edit"
	OpDelete Op = "delete"

	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpImport Op = "import"
)

// NodeEvent describes one attempt to change a game tree.
type NodeEvent struct {
	Timestamp time.Time
	Op        Op
	GameID    string
	NodeID    string
	NodeType  domain.NodeType // empty when the node could not be resolved
	User      string
	Cascaded  []string // ids of conditions dropped by a flag deletion
	Duration  time.Duration
	Err       error
}

// GameEvent describes a change to a game as a whole.
type GameEvent struct {
	Timestamp time.Time
	Op        Op
	GameID    string
	User      string
	Err       error
}

// Hooks receives events. Nil fields are skipped.
type Hooks struct {
	OnNodeAdded   func(ctx context.Context, e *NodeEvent)
	OnNodeEdited  func(ctx context.Context, e *NodeEvent)
	OnNodeDeleted func(ctx context.Context, e *NodeEvent)
	OnGameChanged func(ctx context.Context, e *GameEvent)
}

// EmitNode routes e to the hook matching its Op.
func (h Hooks) EmitNode(ctx context.Context, e *NodeEvent) {
	var fn func(context.Context, *NodeEvent)
	switch e.Op {
	case OpAdd:
		fn = h.OnNodeAdded
	case OpEdit:
		fn = h.OnNodeEdited
	case OpDelete:
		fn = h.OnNodeDeleted
	}
	if fn != nil {
		fn(ctx, e)
	}
}

// EmitGame calls OnGameChanged if set.
func (h Hooks) EmitGame(ctx context.Context, e *GameEvent) {
	if h.OnGameChanged != nil {
		h.OnGameChanged(ctx, e)
	}
}

// Chain returns hooks that call each of hs in order.
func Chain(hs ...Hooks) Hooks {
	return Hooks{
		OnNodeAdded: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hs {
				if h.OnNodeAdded != nil {
					h.OnNodeAdded(ctx, e)
				}
			}
		},
		OnNodeEdited: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hs {
				if h.OnNodeEdited != nil {
					h.OnNodeEdited(ctx, e)
				}
			}
		},
		OnNodeDeleted: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hs {
				if h.OnNodeDeleted != nil {
					h.OnNodeDeleted(ctx, e)
				}
			}
		},
		OnGameChanged: func(ctx context.Context, e *GameEvent) {
			for _, h := range hs {
				h.EmitGame(ctx, e)
			}
		},
	}
}

// LoggingHooks logs every event: failures at Warn, successes at Info.
func LoggingHooks(logger *slog.Logger) Hooks {
	node := func(ctx context.Context, e *NodeEvent) {
		attrs := []any{
			"op", e.Op,
			"game_id", e.GameID,
			"node_id", e.NodeID,
			"user", e.User,
			"duration", e.Duration,
		}
		if e.NodeType != "" {
			attrs = append(attrs, "type", e.NodeType)
		}
		if len(e.Cascaded) > 0 {
			attrs = append(attrs, "cascaded", e.Cascaded)
		}
		if e.Err != nil {
			logger.WarnContext(ctx, "node mutation rejected", append(attrs, "err", e.Err)...)
			return
		}
		logger.InfoContext(ctx, "node mutated", attrs...)
	}
	return Hooks{
		OnNodeAdded:   node,
		OnNodeEdited:  node,
		OnNodeDeleted: node,
		OnGameChanged: func(ctx context.Context, e *GameEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "game change rejected", "op", e.Op, "game_id", e.GameID, "user", e.User, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "game changed", "op", e.Op, "game_id", e.GameID, "user", e.User)
		},
	}
}
