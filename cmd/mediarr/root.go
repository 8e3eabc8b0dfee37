package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "mediarr",
	Short: "CLI client for the mediarr catch-up daemon",
	Long: `mediarr - CLI client for the mediarr catch-up daemon

Inspect the dispatch pipeline, browse the item catalog, and tail
the event log of a running daemon.

Run 'mediarrd' to start the daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8787", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediarr {{.Version}}\n")
}
