package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.GameStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs store calls at debug level and failures at warn.
// A missing game is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.GameStore) ports.GameStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (s *loggingMiddleware) log(ctx context.Context, method, id string, err error) {
	if err != nil && !errors.Is(err, game.ErrGameNotFound) {
		s.logger.WarnContext(ctx, "store call failed", "method", method, "game_id", id, "err", err)
		return
	}
	s.logger.DebugContext(ctx, "store call", "method", method, "game_id", id, "err", err)
}

func (s *loggingMiddleware) Save(ctx context.Context, g *game.Game) error {
	err := s.next.Save(ctx, g)
	s.log(ctx, "save", g.ID(), err)
	return err
}

func (s *loggingMiddleware) Load(ctx context.Context, id string) (*game.Game, error) {
	g, err := s.next.Load(ctx, id)
	s.log(ctx, "load", id, err)
	return g, err
}

func (s *loggingMiddleware) Delete(ctx context.Context, id string) error {
	err := s.next.Delete(ctx, id)
	s.log(ctx, "delete", id, err)
	return err
}

func (s *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	ids, err := s.next.List(ctx)
	s.log(ctx, "list", "", err)
	return ids, err
}
