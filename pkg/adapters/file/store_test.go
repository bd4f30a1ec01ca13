package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/quester/pkg/adapters/file"
	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.GameStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunGameStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_ListIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-abc-123.json"), []byte("{}"), 0644))

	g, err := game.New("Crypt", "Dark", "en", game.User{Username: "alice"}, false, game.WithID("crypt"))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), g))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"crypt"}, ids)
}

func TestFileStore_TmpLikeIDIsListed(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	g, err := game.New("Notes", "Scratch", "en", game.User{Username: "alice"}, false, game.WithID("tmp-notes"))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), g))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp-notes"}, ids)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())

	for _, id := range []string{"../escape", "a/b", `a\b`, ".", "..", ".tmp-x"} {
		_, err := store.Load(context.Background(), id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, game.ErrGameNotFound, id)
	}
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
