package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/gitgraph/internal/logging"
	"github.com/spf13/cobra"
)

var logger = logging.New(slog.LevelInfo)

var rootCmd = &cobra.Command{
	Use:   "gitgraph",
	Short: "gitgraph draws DAGs the way git log --graph does",
	Long: `gitgraph lays out commit histories and agent workflows as lane graphs
and renders them as text, Mermaid or markdown. It can also host a shared
workflow graph over HTTP or MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}
