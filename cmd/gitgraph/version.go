package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gitgraph",
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimSpace(gitgraph.Version)
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "gitgraph version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
