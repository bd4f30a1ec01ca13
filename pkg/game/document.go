package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/quester/pkg/domain"
)

// Document is the persisted and transported form of a Game.
type Document struct {
	ID          string           `json:"id" yaml:"id" mapstructure:"id"`
	Name        string           `json:"name" yaml:"name" mapstructure:"name"`
	Description string           `json:"description" yaml:"description" mapstructure:"description"`
	Language    string           `json:"language" yaml:"language" mapstructure:"language"`
	Author      string           `json:"author" yaml:"author" mapstructure:"author"`
	Published   bool             `json:"published" yaml:"published" mapstructure:"published"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at" mapstructure:"created_at"`
	PublishedAt *time.Time       `json:"published_at,omitempty" yaml:"published_at,omitempty" mapstructure:"published_at"`
	Root        *domain.Snapshot `json:"root,omitempty" yaml:"root,omitempty" mapstructure:"root"`
}

// Document copies the game into its document form.
func (g *Game) Document() Document {
	doc := Document{
		ID:          g.id,
		Name:        g.name,
		Description: g.description,
		Language:    g.language,
		Author:      g.author,
		Published:   g.published,
		CreatedAt:   g.createdAt,
	}
	if g.publishedAt != nil {
		t := *g.publishedAt
		doc.PublishedAt = &t
	}
	if g.root != nil {
		snap := g.root.Snapshot()
		doc.Root = &snap
	}
	return doc
}

// FromDocument rebuilds a game, validating its metadata and its tree.
func FromDocument(doc Document) (*Game, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("id: %w", domain.ErrNullValue)
	}
	g := &Game{
		id:        doc.ID,
		published: doc.Published,
		createdAt: doc.CreatedAt,
		now:       time.Now,
	}
	var err error
	if g.name, err = text("name", doc.Name); err != nil {
		return nil, err
	}
	if g.description, err = text("description", doc.Description); err != nil {
		return nil, err
	}
	if g.language, err = text("language", doc.Language); err != nil {
		return nil, err
	}
	if g.author, err = text("author", doc.Author); err != nil {
		return nil, err
	}
	if doc.PublishedAt != nil {
		t := *doc.PublishedAt
		g.publishedAt = &t
	}
	if doc.Root != nil {
		if g.root, err = domain.Restore(*doc.Root); err != nil {
			return nil, fmt.Errorf("game %s: %w", doc.ID, err)
		}
	}
	return g, nil
}

// Summary is the listing form of a game.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
	Nodes     int    `json:"nodes"`
}

// Summary returns the listing form of g.
func (g *Game) Summary() Summary {
	s := Summary{
		ID:        g.id,
		Name:      g.name,
		Language:  g.language,
		Author:    g.author,
		Published: g.published,
	}
	if g.root != nil {
		s.Nodes = g.root.Len()
	}
	return s
}

// Marshal encodes g as JSON.
func Marshal(g *Game) ([]byte, error) {
	data, err := json.Marshal(g.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a game previously encoded with Marshal.
func Unmarshal(data []byte) (*Game, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return FromDocument(doc)
}
