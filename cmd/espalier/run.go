package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run -f FILE [INPUT]",
	Short: "Decide whether the automaton accepts an input word",
	Long: `Runs the exhaustive nondeterministic search over the input word and
reports the verdict.

Exit codes: 0 accepted, 2 rejected, 3 inconclusive, 1 usage or definition
errors.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		input, _ := cmd.Flags().GetString("input")
		if !cmd.Flags().Changed("input") && len(args) > 0 {
			input = args[0]
		}
		mode, _ := cmd.Flags().GetString("mode")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		trace, _ := cmd.Flags().GetBool("trace")
		follow, _ := cmd.Flags().GetBool("follow")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		cfg := loadConfig()
		if !cmd.Flags().Changed("max-steps") {
			maxSteps = cfg.Engine.MaxSteps
		}
		if !cmd.Flags().Changed("mode") {
			mode = cfg.Engine.Mode
		}

		code, err := cli.Run(cli.RunOptions{
			File:        file,
			Input:       input,
			Mode:        mode,
			MaxSteps:    maxSteps,
			Trace:       trace,
			Follow:      follow,
			JSON:        jsonMode,
			Debug:       debug,
			HistoryPath: cfg.History.Path,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(cli.ExitUsage)
		}
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("file", "f", "", "Definition document to load")
	runCmd.Flags().StringP("input", "i", "", "Input word to decide (or pass it as the argument)")
	runCmd.Flags().String("mode", "", "Acceptance mode: final_state, empty_stack or both")
	runCmd.Flags().Int("max-steps", 1000, "Configurations to expand before giving up (0 = unbounded)")
	runCmd.Flags().Bool("trace", false, "Print the accepting trace")
	runCmd.Flags().Bool("follow", false, "Print every configuration as the search expands it")
	runCmd.Flags().Bool("json", false, "Emit the result as one JSON document")
	_ = runCmd.MarkFlagRequired("file")
}
