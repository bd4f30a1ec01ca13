package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/quester/pkg/game"
)

// Library implements ports.GameLibrary over a fixed set of encoded games.
type Library struct {
	games map[string][]byte
}

// NewLibrary creates a library from raw JSON documents keyed by id.
func NewLibrary(data map[string]string) *Library {
	games := make(map[string][]byte, len(data))
	for k, v := range data {
		games[k] = []byte(v)
	}
	return &Library{games: games}
}

// NewLibraryFromGames encodes the given games, which improves DX for tests.
func NewLibraryFromGames(games ...*game.Game) (*Library, error) {
	data := make(map[string][]byte, len(games))
	for _, g := range games {
		raw, err := game.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID(), err)
		}
		data[g.ID()] = raw
	}
	return &Library{games: data}, nil
}

// Load decodes the game stored under id.
func (l *Library) Load(ctx context.Context, id string) (*game.Game, error) {
	raw, ok := l.games[id]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	return game.Unmarshal(raw)
}

// List returns the ids in sorted order.
func (l *Library) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(l.games))
	for id := range l.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
