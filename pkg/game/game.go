package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/quester/pkg/domain"
	"github.com/google/uuid"
)

// RootParentID is the parent id used to create the root node of an empty game.
const RootParentID = "###"

// User identifies the caller of a game operation.
type User struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin,omitempty"`
}

// Game is an authored tree of nodes plus its metadata.
type Game struct {
	id          string
	name        string
	description string
	language    string
	author      string
	published   bool
	createdAt   time.Time
	publishedAt *time.Time

	root *domain.Node

	now func() time.Time
}

// Option configures a new Game.
type Option func(*Game)

// WithID overrides the generated id.
func WithID(id string) Option {
	return func(g *Game) {
		g.id = id
	}
}

// WithClock sets the time source used for creation and publication dates.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// New creates an empty game authored by author.
func New(name, description, language string, author User, published bool, opts ...Option) (*Game, error) {
	g := &Game{
		id:  uuid.New().String(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	var err error
	if g.name, err = text("name", name); err != nil {
		return nil, err
	}
	if g.description, err = text("description", description); err != nil {
		return nil, err
	}
	if g.language, err = text("language", language); err != nil {
		return nil, err
	}
	if g.author, err = text("author", author.Username); err != nil {
		return nil, err
	}

	g.createdAt = g.now().UTC()
	if published {
		g.setPublished(true)
	}
	return g, nil
}

func text(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s: %w", field, domain.ErrEmptyString)
	}
	return v, nil
}

func (g *Game) ID() string              { return g.id }
func (g *Game) Name() string            { return g.name }
func (g *Game) Description() string     { return g.description }
func (g *Game) Language() string        { return g.language }
func (g *Game) Author() string          { return g.author }
func (g *Game) Published() bool         { return g.published }
func (g *Game) CreatedAt() time.Time    { return g.createdAt }
func (g *Game) PublishedAt() *time.Time { return g.publishedAt }

// Root returns the root node, or nil for a game without nodes.
func (g *Game) Root() *domain.Node { return g.root }

// CanBeModifiedBy reports whether u is the author or an admin.
func (g *Game) CanBeModifiedBy(u User) bool {
	return u.Admin || (u.Username != "" && u.Username == g.author)
}

// CanBeViewedBy reports whether the game is visible to u. Anonymous callers
// (nil) see published games only.
func (g *Game) CanBeViewedBy(u *User) bool {
	if g.published {
		return true
	}
	return u != nil && g.CanBeModifiedBy(*u)
}

// AddNode adds a node to the game tree. The first node of a game must be a
// Room whose parent id is RootParentID.
func (g *Game) AddNode(u User, req domain.AddRequest) (*domain.Node, error) {
	if !g.CanBeModifiedBy(u) {
		return nil, ErrForbidden
	}
	if g.root != nil {
		return g.root.AddNode(req)
	}

	if req.ParentID != RootParentID {
		return nil, fmt.Errorf("parent %q: %w", req.ParentID, ErrNotRootNode)
	}
	if req.Type != domain.NodeTypeRoom {
		return nil, fmt.Errorf("type %q: %w", req.Type, ErrIllegalRootType)
	}
	if req.Name == nil {
		return nil, &domain.NodeError{Op: "add", NodeID: req.ID, Err: domain.ErrNullValue, Msg: "name"}
	}
	if req.Description == nil {
		return nil, &domain.NodeError{Op: "add", NodeID: req.ID, Err: domain.ErrNullValue, Msg: "description"}
	}
	root, err := domain.NewRoom(req.ID, *req.Name, *req.Description)
	if err != nil {
		return nil, err
	}
	g.root = root
	return root, nil
}

// EditNode edits a node of the game tree.
func (g *Game) EditNode(u User, nodeID string, req domain.EditRequest) error {
	if !g.CanBeModifiedBy(u) {
		return ErrForbidden
	}
	if g.root == nil {
		return ErrRootNotExists
	}
	return g.root.EditNode(nodeID, req)
}

// DeleteNode removes a node, and for flags the conditions referencing it.
// The root node cannot be deleted.
func (g *Game) DeleteNode(u User, nodeID string) (domain.Removal, error) {
	if !g.CanBeModifiedBy(u) {
		return domain.Removal{}, ErrForbidden
	}
	if g.root == nil {
		return domain.Removal{}, ErrRootNotExists
	}
	return g.root.DeleteChildNode(nodeID)
}

// Update carries metadata changes. Nil fields are left as they are.
type Update struct {
	Name        *string
	Description *string
	Language    *string
	Published   *bool
}

// Apply validates every field of up before changing any of them.
func (g *Game) Apply(u User, up Update) error {
	if !g.CanBeModifiedBy(u) {
		return ErrForbidden
	}
	name, desc, lang := g.name, g.description, g.language
	var err error
	if up.Name != nil {
		if name, err = text("name", *up.Name); err != nil {
			return err
		}
	}
	if up.Description != nil {
		if desc, err = text("description", *up.Description); err != nil {
			return err
		}
	}
	if up.Language != nil {
		if lang, err = text("language", *up.Language); err != nil {
			return err
		}
	}
	g.name, g.description, g.language = name, desc, lang
	if up.Published != nil {
		g.setPublished(*up.Published)
	}
	return nil
}

// setPublished stamps the publication date the first time a game is published.
func (g *Game) setPublished(p bool) {
	g.published = p
	if p && g.publishedAt == nil {
		t := g.now().UTC()
		g.publishedAt = &t
	}
}
