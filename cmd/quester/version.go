package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/quester"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quester",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quester version %s\n", strings.TrimSpace(quester.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
