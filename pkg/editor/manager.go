package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/quester/internal/logging"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/observability"
	"github.com/aretw0/quester/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Manager serializes access to games and runs the authoring use cases.
type Manager struct {
	store ports.GameStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   observability.Hooks
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL passed to the distributed locker.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(h observability.Hooks) Option {
	return func(m *Manager) {
		m.hooks = h
	}
}

// NewManager creates a new Manager over store.
func NewManager(store ports.GameStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying game store.
func (m *Manager) Store() ports.GameStore {
	return m.store
}

// CreateParams holds the metadata of a new game.
type CreateParams struct {
	Name        string
	Description string
	Language    string
	Published   bool
}

// Create stores a new, empty game authored by u.
func (m *Manager) Create(ctx context.Context, u game.User, p CreateParams) (*game.Game, error) {
	g, err := game.New(p.Name, p.Description, p.Language, u, p.Published)
	if err == nil {
		err = m.WithLock(ctx, g.ID(), func(ctx context.Context) error {
			return m.store.Save(ctx, g)
		})
	}
	id := ""
	if g != nil {
		id = g.ID()
	}
	m.emitGame(ctx, observability.OpCreate, id, u, err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Get loads a game visible to viewer. A nil viewer is anonymous.
func (m *Manager) Get(ctx context.Context, id string, viewer *game.User) (*game.Game, error) {
	g, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.CanBeViewedBy(viewer) {
		return nil, game.ErrForbidden
	}
	return g, nil
}

// List returns the games visible to viewer, sorted by name then id.
// Games that fail to load are logged and skipped.
func (m *Manager) List(ctx context.Context, viewer *game.User) ([]game.Summary, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]game.Summary, 0, len(ids))
	for _, id := range ids {
		g, err := m.store.Load(ctx, id)
		if err != nil {
			if !errors.Is(err, game.ErrGameNotFound) {
				m.logger.Warn("Skipping unreadable game", "game_id", id, "err", err)
			}
			continue
		}
		if g.CanBeViewedBy(viewer) {
			out = append(out, g.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update applies metadata changes.
func (m *Manager) Update(ctx context.Context, id string, u game.User, up game.Update) (*game.Game, error) {
	g, err := m.mutate(ctx, id, func(g *game.Game) error {
		return g.Apply(u, up)
	})
	m.emitGame(ctx, observability.OpUpdate, id, u, err)
	return g, err
}

// Delete removes a game. Only its author or an admin may delete it.
func (m *Manager) Delete(ctx context.Context, id string, u game.User) error {
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		g, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if !g.CanBeModifiedBy(u) {
			return game.ErrForbidden
		}
		return m.store.Delete(ctx, id)
	})
	m.emitGame(ctx, observability.OpDelete, id, u, err)
	return err
}

// Import stores g as is, replacing any game with the same id.
func (m *Manager) Import(ctx context.Context, g *game.Game) error {
	err := m.WithLock(ctx, g.ID(), func(ctx context.Context) error {
		return m.store.Save(ctx, g)
	})
	m.emitGame(ctx, observability.OpImport, g.ID(), game.User{Username: g.Author()}, err)
	return err
}

// Seed imports every game of lib and returns how many were imported.
func (m *Manager) Seed(ctx context.Context, lib ports.GameLibrary) (int, error) {
	ids, err := lib.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list library: %w", err)
	}
	n := 0
	for _, id := range ids {
		g, err := lib.Load(ctx, id)
		if err != nil {
			return n, fmt.Errorf("failed to load library game %s: %w", id, err)
		}
		if err := m.Import(ctx, g); err != nil {
			return n, fmt.Errorf("failed to import %s: %w", id, err)
		}
		n++
	}
	m.logger.Info("Library imported", "games", n)
	return n, nil
}

// AddNode adds a node to a game and returns it.
func (m *Manager) AddNode(ctx context.Context, gameID string, u game.User, req domain.AddRequest) (*domain.Node, error) {
	start := m.now()
	var added *domain.Node
	_, err := m.mutate(ctx, gameID, func(g *game.Game) error {
		var err error
		added, err = g.AddNode(u, req)
		return err
	})
	m.hooks.EmitNode(ctx, &observability.NodeEvent{
		Timestamp: start,
		Op:        observability.OpAdd,
		GameID:    gameID,
		NodeID:    req.ID,
		NodeType:  req.Type,
		User:      u.Username,
		Duration:  m.now().Sub(start),
		Err:       err,
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// EditNode edits a node of a game and returns it.
func (m *Manager) EditNode(ctx context.Context, gameID string, u game.User, nodeID string, req domain.EditRequest) (*domain.Node, error) {
	start := m.now()
	var (
		edited   *domain.Node
		nodeType domain.NodeType
	)
	_, err := m.mutate(ctx, gameID, func(g *game.Game) error {
		if g.Root() != nil {
			if n := g.Root().FindByID(nodeID); n != nil {
				nodeType = n.Type()
			}
		}
		if err := g.EditNode(u, nodeID, req); err != nil {
			return err
		}
		edited = g.Root().FindByID(nodeID)
		return nil
	})
	m.hooks.EmitNode(ctx, &observability.NodeEvent{
		Timestamp: start,
		Op:        observability.OpEdit,
		GameID:    gameID,
		NodeID:    nodeID,
		NodeType:  nodeType,
		User:      u.Username,
		Duration:  m.now().Sub(start),
		Err:       err,
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// DeleteNode removes a node from a game, cascading to conditions when the
// node is a flag.
func (m *Manager) DeleteNode(ctx context.Context, gameID string, u game.User, nodeID string) (domain.Removal, error) {
	start := m.now()
	var rm domain.Removal
	_, err := m.mutate(ctx, gameID, func(g *game.Game) error {
		var err error
		rm, err = g.DeleteNode(u, nodeID)
		return err
	})

	e := &observability.NodeEvent{
		Timestamp: start,
		Op:        observability.OpDelete,
		GameID:    gameID,
		NodeID:    nodeID,
		User:      u.Username,
		Duration:  m.now().Sub(start),
		Err:       err,
	}
	if rm.Node != nil {
		e.NodeType = rm.Node.Type()
		for _, c := range rm.Cascaded {
			e.Cascaded = append(e.Cascaded, c.ID())
		}
	}
	m.hooks.EmitNode(ctx, e)
	return rm, err
}

// mutate loads a game under its lock, applies fn and saves the result.
// Nothing is saved when fn fails.
func (m *Manager) mutate(ctx context.Context, gameID string, fn func(*game.Game) error) (*game.Game, error) {
	var g *game.Game
	err := m.WithLock(ctx, gameID, func(ctx context.Context) error {
		var err error
		g, err = m.store.Load(ctx, gameID)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		if err := m.store.Save(ctx, g); err != nil {
			return fmt.Errorf("failed to save game %s: %w", gameID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (m *Manager) emitGame(ctx context.Context, op observability.Op, id string, u game.User, err error) {
	m.hooks.EmitGame(ctx, &observability.GameEvent{
		Timestamp: m.now(),
		Op:        op,
		GameID:    id,
		User:      u.Username,
		Err:       err,
	})
}
