package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
	"github.com/mitchellh/mapstructure"
)

// DefaultAuthor is assigned to library games that do not name an author.
const DefaultAuthor = "library"

// Library adapts a Loam repository to the ports.GameLibrary interface.
// Games are read-only; authors edit the files directly.
type Library struct {
	Repo *loam.TypedRepository[GameMetadata]

	// Now stamps the creation and publication dates of loaded games.
	Now func() time.Time
}

// New creates a new Loam library.
func New(repo *loam.TypedRepository[GameMetadata]) *Library {
	return &Library{Repo: repo, Now: time.Now}
}

// Open initializes a read-only Loam repository at path.
func Open(path string) (*Library, error) {
	repo, err := loam.Init(path, loam.WithVersioning(false), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", path, err)
	}
	return New(loam.NewTypedRepository[GameMetadata](repo)), nil
}

// index maps normalized game ids to Loam document ids.
func (l *Library) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := normalizeID(rawID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: game '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
	}
	return seen, nil
}

// List returns the normalized ids of every game document.
func (l *Library) List(ctx context.Context) ([]string, error) {
	idx, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads and validates one game.
func (l *Library) Load(ctx context.Context, id string) (*game.Game, error) {
	idx, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	id = normalizeID(id)
	docID, ok := idx[id]
	if !ok {
		return nil, game.ErrGameNotFound
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return toGame(id, doc.Data, doc.Content, l.Now().UTC())
}

func toGame(id string, meta GameMetadata, content string, now time.Time) (*game.Game, error) {
	doc := game.Document{
		ID:          id,
		Name:        meta.Name,
		Description: strings.TrimSpace(content),
		Language:    meta.Language,
		Author:      meta.Author,
		Published:   true,
		CreatedAt:   now,
	}
	if doc.Description == "" {
		doc.Description = meta.Description
	}
	if doc.Author == "" {
		doc.Author = DefaultAuthor
	}
	if meta.Published != nil {
		doc.Published = *meta.Published
	}
	if doc.Published {
		doc.PublishedAt = &now
	}

	if meta.Root != nil {
		var root domain.Snapshot
		if err := mapstructure.Decode(meta.Root, &root); err != nil {
			return nil, fmt.Errorf("failed to decode root of %s: %w", id, err)
		}
		doc.Root = &root
	}

	g, err := game.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid game %s: %w", id, err)
	}
	return g, nil
}

// normalizeID turns a document path or frontmatter id into a single segment
// usable as a store key and a URL path element: "campaign/tower.md" becomes
// "campaign-tower".
func normalizeID(id string) string {
	id = filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
	id = strings.ReplaceAll(id, "/", "-")
	id = strings.ReplaceAll(id, `\`, "-")
	return strings.TrimLeft(id, ".-")
}
