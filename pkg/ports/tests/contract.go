package tests

import (
	"context"
	"testing"

	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GameLibraryContractTest is a reusable test suite that verifies if an adapter
// complies with ports.GameLibrary. want maps every expected id to its game name.
func GameLibraryContractTest(t *testing.T, lib ports.GameLibrary, want map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		ids, err := lib.List(ctx)
		require.NoError(t, err)
		for id := range want {
			assert.Contains(t, ids, id)
		}
	})

	t.Run("Load_Success", func(t *testing.T) {
		for id, name := range want {
			g, err := lib.Load(ctx, id)
			require.NoError(t, err, "loading %s", id)
			assert.Equal(t, name, g.Name())
			assert.NotEmpty(t, g.ID())
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := lib.Load(ctx, "non-existent-game")
		assert.ErrorIs(t, err, game.ErrGameNotFound)
	})
}
