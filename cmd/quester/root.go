package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/quester/internal/cli"
	"github.com/aretw0/quester/internal/config"
	"github.com/aretw0/quester/pkg/game"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quester",
	Short: "Quester is an authoring backend for branching text adventures",
	Long: `Quester stores games as trees of rooms, choices, flags and conditions,
and serves them over HTTP or MCP for editing.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// setup loads the configuration and builds the logger shared by the commands.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewLogger(os.Stderr, cfg.Logging, debug)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// loadGame reads one game from a file, or from a library directory when
// gameID names it.
func loadGame(ctx context.Context, path, gameID string) (*game.Game, error) {
	lib, err := cli.OpenLibrary(path)
	if err != nil {
		return nil, err
	}
	if gameID == "" {
		ids, err := lib.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(ids) != 1 {
			return nil, fmt.Errorf("%s holds %d games, pick one with --game", path, len(ids))
		}
		gameID = ids[0]
	}
	return lib.Load(ctx, gameID)
}
