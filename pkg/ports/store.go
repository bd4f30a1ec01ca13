package ports

import (
	"context"

	"github.com/aretw0/quester/pkg/game"
)

// GameStore persists games.
type GameStore interface {
	// Save creates or replaces the game with g.ID().
	Save(ctx context.Context, g *game.Game) error

	// Load retrieves a game by id.
	// Returns game.ErrGameNotFound if it does not exist.
	Load(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored games.
	List(ctx context.Context) ([]string, error)
}

// GameLibrary is a read-only source of games, typically authored as files.
type GameLibrary interface {
	// List returns the ids of the games in the library.
	List(ctx context.Context) ([]string, error)

	// Load retrieves a game by id.
	// Returns game.ErrGameNotFound if it does not exist.
	Load(ctx context.Context, id string) (*game.Game, error)
}
