package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/quester/pkg/adapters/loam"
	"github.com/aretw0/quester/pkg/adapters/memory"
	"github.com/aretw0/quester/pkg/game"
	"github.com/aretw0/quester/pkg/ports"
	"gopkg.in/yaml.v3"
)

// ReadGameFile decodes a game document from a .json, .yaml or .yml file.
func ReadGameFile(path string) (*game.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return game.Unmarshal(data)
	case ".yaml", ".yml":
		var doc game.Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return game.FromDocument(doc)
	default:
		return nil, fmt.Errorf("unsupported game file %s: want .json, .yaml or .yml", path)
	}
}

// OpenLibrary returns a Loam library for a directory and a one-game library
// for a single file.
func OpenLibrary(path string) (ports.GameLibrary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loam.Open(path)
	}
	g, err := ReadGameFile(path)
	if err != nil {
		return nil, err
	}
	return memory.NewLibraryFromGames(g)
}
