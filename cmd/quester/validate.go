package main

import (
	"fmt"

	"github.com/aretw0/quester/internal/cli"
	"github.com/aretw0/quester/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>",
	Short: "Check games for consistency",
	Long: `Loads a game file or every game of a library directory and reports
broken trees as errors, and dangling conditions or empty branches as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := cli.OpenLibrary(args[0])
		if err != nil {
			return err
		}
		report, err := validator.ValidateLibrary(cmd.Context(), lib)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, issue := range report.Issues {
			if issue.Severity == validator.SeverityWarning {
				fmt.Fprintln(out, issue)
			}
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(out, "%d games, %d nodes: valid! ✅\n", report.Games, report.Nodes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
