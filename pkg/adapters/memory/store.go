package memory

import (
	"context"
	"sync"

	"github.com/aretw0/quester/pkg/game"
)

// Store implements ports.GameStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]game.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]game.Document),
	}
}

// Save keeps a document copy of g, so later changes to g are not visible.
func (s *Store) Save(ctx context.Context, g *game.Game) error {
	doc := g.Document()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[doc.ID] = doc
	return nil
}

// Load rebuilds a fresh game from the stored document.
func (s *Store) Load(ctx context.Context, id string) (*game.Game, error) {
	s.mu.RLock()
	doc, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, game.ErrGameNotFound
	}
	return game.FromDocument(doc)
}

// Delete removes the game.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored game ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
