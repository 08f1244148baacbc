package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/pkg/adapters/sqlite"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded runs",
	Long:  `Lists and inspects finished runs recorded in the sqlite history store.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		store := openHistory()
		defer store.Close()

		recs, err := store.List(cmd.Context(), limit)
		if err != nil {
			fmt.Printf("Error listing runs: %v\n", err)
			os.Exit(1)
		}

		if len(recs) == 0 {
			fmt.Println("No runs recorded.")
			return
		}

		for _, r := range recs {
			fmt.Printf("%s  %-12s  %-20s  input=%q  expanded=%d\n",
				r.CreatedAt.Local().Format(time.DateTime),
				r.Verdict, r.Definition, r.Input, r.Expanded)
			fmt.Printf("    id=%s\n", r.ID)
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openHistory()
		defer store.Close()

		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading run '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling run: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyListCmd.Flags().Int("limit", 20, "Maximum runs to list (0 = all)")
}

func openHistory() *sqlite.RunStore {
	cfg := loadConfig()
	if cfg.History.Path == "" {
		fmt.Println("History is disabled (history.path is empty).")
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.History.Path)
	if err != nil {
		fmt.Printf("Error opening history at '%s': %v\n", cfg.History.Path, err)
		os.Exit(1)
	}
	return store
}
