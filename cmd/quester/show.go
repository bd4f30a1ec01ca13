package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quester/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show <file|dir>",
	Short: "Print a game as an outline",
	Long:  `Renders a game and its node tree as Markdown. On a terminal the Markdown is styled; otherwise it is printed raw.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, _ := cmd.Flags().GetString("game")
		raw, _ := cmd.Flags().GetBool("raw")

		g, err := loadGame(cmd.Context(), args[0], gameID)
		if err != nil {
			return err
		}
		md := tui.Outline(g)

		if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			return fmt.Errorf("failed to render: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("game", "", "Game id when reading a library directory")
	showCmd.Flags().Bool("raw", false, "Print Markdown without styling")
}
