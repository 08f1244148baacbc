package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a nondeterministic pushdown automaton simulator",
	Long: `Espalier loads pushdown automaton definitions from YAML, JSON, markdown,
ASCII tables, CSV or HCL documents, decides input words by exhaustive
search, walks machines interactively with backtracking, and serves the
whole thing over HTTP and MCP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// loadConfig layers defaults, ~/.espalier/config.yaml and ESPALIER_* env
// vars. A broken config file degrades to defaults with a warning so the
// read-only verbs keep working.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: using default config: %v\n", err)
		return config.Default()
	}
	return cfg
}
