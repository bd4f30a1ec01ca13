package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGameStoreContract runs a suite of tests to verify that a GameStore
// implementation adheres to the defined interface contract.
func RunGameStoreContract(t *testing.T, store GameStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000000")
	author := game.User{Username: "contract"}

	newGame := func(t *testing.T, id string) *game.Game {
		g, err := game.New("Contract", "Contract game", "en", author, false, game.WithID(id))
		require.NoError(t, err)
		return g
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := "contract-" + suffix
		g := newGame(t, id)
		name, desc := "Hall", "Where it starts"
		_, err := g.AddNode(author, domain.AddRequest{ID: "hall", ParentID: game.RootParentID, Type: domain.NodeTypeRoom, Name: &name, Description: &desc})
		require.NoError(t, err)
		flag := "Lever"
		_, err = g.AddNode(author, domain.AddRequest{ID: "lever", ParentID: "hall", Type: domain.NodeTypeFlag, Name: &flag})
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, g), "Save should not return error")
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, g.Document().Root, loaded.Document().Root)
		assert.Equal(t, g.Name(), loaded.Name())
		assert.True(t, g.CreatedAt().Equal(loaded.CreatedAt()))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		id := "contract-overwrite-" + suffix
		g := newGame(t, id)
		require.NoError(t, store.Save(ctx, g))
		defer func() { _ = store.Delete(ctx, id) }()

		renamed := "Renamed"
		require.NoError(t, g.Apply(author, game.Update{Name: &renamed}))
		require.NoError(t, store.Save(ctx, g))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", loaded.Name())
	})

	t.Run("Loaded Copy Is Independent", func(t *testing.T) {
		id := "contract-copy-" + suffix
		g := newGame(t, id)
		require.NoError(t, store.Save(ctx, g))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		renamed := "Changed"
		require.NoError(t, loaded.Apply(author, game.Update{Name: &renamed}))

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Contract", again.Name(), "mutating a loaded game must not touch the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+suffix)
		assert.ErrorIs(t, err, game.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := "contract-delete-" + suffix
		require.NoError(t, store.Save(ctx, newGame(t, id)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, game.ErrGameNotFound, "Load after Delete should return ErrGameNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice is not an error")
	})

	t.Run("Ids That Look Like Internal Names", func(t *testing.T) {
		ids := []string{"index", "tmp-notes"}
		for _, id := range ids {
			require.NoError(t, store.Save(ctx, newGame(t, id)), "Save %q", id)
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err, "List must keep working after saving %v", ids)
		for _, id := range ids {
			assert.Contains(t, listed, id)
			loaded, err := store.Load(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, loaded.ID())
		}
	})

	t.Run("List", func(t *testing.T) {
		ids := make([]string, 2)
		for i := range ids {
			ids[i] = fmt.Sprintf("contract-list-%d-%s", i, suffix)
			require.NoError(t, store.Save(ctx, newGame(t, ids[i])))
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Contains(t, listed, id)
		}
	})
}
