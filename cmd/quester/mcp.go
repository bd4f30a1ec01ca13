package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/quester/internal/cli"
	"github.com/aretw0/quester/pkg/adapters/mcp"
	"github.com/aretw0/quester/pkg/game"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the game editor as MCP tools so AI agents can read and edit games.
Every tool call acts as the configured user (mcp.user in the config file,
QUESTER_MCP_USER, or --as).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("as") {
			cfg.MCP.User, _ = cmd.Flags().GetString("as")
		}
		if cmd.Flags().Changed("library") {
			cfg.Library.Dir, _ = cmd.Flags().GetString("library")
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		app, err := cli.NewApp(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if _, err := app.SeedLibrary(ctx); err != nil {
			return fmt.Errorf("failed to import library: %w", err)
		}

		user := game.User{Username: cfg.MCP.User, Admin: cfg.MCP.Admin}
		srv := mcp.NewServer(app.Editor, user, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Quester MCP Server (Stdio)", "user", user.Username)
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Quester MCP Server (SSE)", "port", port, "user", user.Username)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("as", "", "Username the tools act as")
	mcpCmd.Flags().String("library", "", "Directory of game documents to import at startup")
}
