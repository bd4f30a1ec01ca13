package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/quester/internal/config"
	"github.com/aretw0/quester/internal/logging"
	"github.com/aretw0/quester/internal/testutils"
	"github.com/aretw0/quester/pkg/domain"
	"github.com/aretw0/quester/pkg/editor"
	"github.com/aretw0/quester/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlGame = `id: crypt
name: The Crypt
description: A short game
language: en
author: alice
published: true
root:
  id: hall
  type: ROOM
  name: Hall
  description: A long hall
  children:
    - id: lever
      type: FLAG
      name: Lever
`

const jsonGame = `{"id": "tower", "name": "Tower", "description": "Up", "language": "en", "author": "bob",
  "root": {"id": "base", "type": "ROOM", "name": "Base", "description": "Bottom"}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadGameFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		g, err := ReadGameFile(writeFile(t, dir, "crypt.yaml", yamlGame))
		require.NoError(t, err)
		assert.Equal(t, "crypt", g.ID())
		assert.True(t, g.Published())
		require.NotNil(t, g.Root())
		assert.Equal(t, domain.NodeTypeFlag, g.Root().FindByID("lever").Type())
	})

	t.Run("JSON", func(t *testing.T) {
		g, err := ReadGameFile(writeFile(t, dir, "tower.json", jsonGame))
		require.NoError(t, err)
		assert.Equal(t, "bob", g.Author())
		assert.Equal(t, 1, g.Root().Len())
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		_, err := ReadGameFile(writeFile(t, dir, "game.txt", jsonGame))
		assert.ErrorContains(t, err, "unsupported")
	})

	t.Run("Invalid tree", func(t *testing.T) {
		_, err := ReadGameFile(writeFile(t, dir, "bad.json", `{"id": "bad", "name": "Bad", "description": "x", "language": "en", "author": "a",
			"root": {"id": "f", "type": "FLAG", "name": "Flag"}}`))
		assert.ErrorIs(t, err, domain.ErrParentMismatch)
	})
}

func TestOpenLibrary_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crypt.yml", yamlGame)

	lib, err := OpenLibrary(path)
	require.NoError(t, err)
	ids, err := lib.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"crypt"}, ids)
}

func TestOpenLibrary_Directory(t *testing.T) {
	dir, _ := testutils.SetupTestRepo(t)
	writeFile(t, dir, "tiny.md", "---\nid: tiny\nname: Tiny\nlanguage: en\n---\nSmallest game.")

	lib, err := OpenLibrary(dir)
	require.NoError(t, err)
	g, err := lib.Load(context.Background(), "tiny")
	require.NoError(t, err)
	assert.Equal(t, "Smallest game.", g.Description())
}

func TestNewApp_Drivers(t *testing.T) {
	dir := t.TempDir()
	_, client := testutils.SetupRedis(t)

	cases := map[string]func(*config.Config){
		config.DriverMemory: func(c *config.Config) {},
		config.DriverFile:   func(c *config.Config) { c.Store.Path = filepath.Join(dir, "games") },
		config.DriverSQLite: func(c *config.Config) { c.Store.Path = filepath.Join(dir, "games.db") },
		config.DriverRedis:  func(c *config.Config) { c.Store.RedisAddr = client.Options().Addr },
	}

	for driver, configure := range cases {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Driver = driver
			configure(cfg)
			require.NoError(t, cfg.Validate())

			app, err := NewApp(cfg, logging.NewNop())
			require.NoError(t, err)
			defer app.Close()

			ctx := context.Background()
			alice := game.User{Username: "alice"}
			g, err := app.Editor.Create(ctx, alice, editor.CreateParams{Name: "Crypt", Description: "A crypt", Language: "en"})
			require.NoError(t, err)

			loaded, err := app.Store.Load(ctx, g.ID())
			require.NoError(t, err)
			assert.Equal(t, "Crypt", loaded.Name())
			assert.NotNil(t, app.Registry)
		})
	}
}

func TestNewApp_SeedLibrary(t *testing.T) {
	dir, _ := testutils.SetupTestRepo(t)
	writeFile(t, dir, "tiny.md", "---\nid: tiny\nname: Tiny\nlanguage: en\n---\nSmallest game.")
	writeFile(t, dir, filepath.Join("campaign", "tower.md"), "---\nname: Tower\nlanguage: en\n---\nA tall tower.")
	games := t.TempDir()

	cases := map[string]func(*config.Config){
		config.DriverMemory: func(c *config.Config) {},
		config.DriverFile:   func(c *config.Config) { c.Store.Path = games },
	}
	for driver, configure := range cases {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.Library.Dir = dir
			cfg.Server.Metrics = false
			cfg.Store.Driver = driver
			configure(cfg)
			require.NoError(t, cfg.Validate())

			app, err := NewApp(cfg, logging.NewNop())
			require.NoError(t, err)
			defer app.Close()
			assert.Nil(t, app.Registry)

			n, err := app.SeedLibrary(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			g, err := app.Editor.Get(context.Background(), "tiny", nil)
			require.NoError(t, err)
			assert.Equal(t, "library", g.Author())

			nested, err := app.Editor.Get(context.Background(), "campaign-tower", nil)
			require.NoError(t, err)
			assert.Equal(t, "Tower", nested.Name())
		})
	}
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(os.Stderr, config.Logging{Level: "loud"}, false)
	assert.Error(t, err)

	logger, err := NewLogger(os.Stderr, config.Logging{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), -4))
}
