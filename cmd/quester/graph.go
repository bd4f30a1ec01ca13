package main

import (
	"fmt"

	"github.com/aretw0/quester/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file|dir>",
	Short: "Export a game tree as a Mermaid diagram",
	Long:  `Reads a game and outputs a Mermaid diagram (graph TD) of its node tree. Conditions whose flag is missing are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, _ := cmd.Flags().GetString("game")

		g, err := loadGame(cmd.Context(), args[0], gameID)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if root := g.Root(); root != nil {
			for _, n := range root.DanglingConditions() {
				if overlay == nil {
					overlay = &graph.GraphOverlay{}
				}
				overlay.Warnings = append(overlay.Warnings, n.ID())
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g.Root(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("game", "", "Game id when reading a library directory")
}
