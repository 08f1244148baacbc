package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/pkg/ports"
)

// stepCmd represents the step command
var stepCmd = &cobra.Command{
	Use:   "step -f FILE [INPUT]",
	Short: "Walk an input word interactively, one transition at a time",
	Long: `Starts the interactive stepper. Every prompt lists the transitions that
can fire from the current configuration; pick one by number, 'b' undoes the
latest move, 'q' quits.

With --session the walk is saved after every move (under .espalier/sessions
or the configured backend) and the same ID resumes it later.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		input, _ := cmd.Flags().GetString("input")
		if !cmd.Flags().Changed("input") && len(args) > 0 {
			input = args[0]
		}
		mode, _ := cmd.Flags().GetString("mode")
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		cfg := loadConfig()
		if !cmd.Flags().Changed("mode") {
			mode = cfg.Engine.Mode
		}

		var store ports.SessionStore
		var backend *cli.SessionBackend
		if sessionID != "" {
			// The in-memory backend cannot resume across invocations, so
			// the stepper promotes it to the file store.
			stepCfg := *cfg
			if stepCfg.Sessions.Backend == "" || stepCfg.Sessions.Backend == "memory" {
				stepCfg.Sessions.Backend = "file"
			}

			b, err := cli.BuildSessionBackend(&stepCfg, nil)
			if err != nil {
				fmt.Printf("Error configuring session store: %v\n", err)
				os.Exit(cli.ExitUsage)
			}
			backend = b
			store = b.Store
		}

		err := cli.Step(cli.StepOptions{
			File:      file,
			Input:     input,
			Mode:      mode,
			SessionID: sessionID,
			Fresh:     fresh,
			JSON:      jsonMode,
			Debug:     debug,
			Store:     store,
		})
		if backend != nil {
			_ = backend.Close()
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(cli.ExitUsage)
		}
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)

	stepCmd.Flags().StringP("file", "f", "", "Definition document to load")
	stepCmd.Flags().StringP("input", "i", "", "Input word to walk (or pass it as the argument)")
	stepCmd.Flags().String("mode", "", "Acceptance mode: final_state, empty_stack or both")
	stepCmd.Flags().String("session", "", "Session ID for a durable, resumable walk")
	stepCmd.Flags().Bool("fresh", false, "Discard any stored session with this ID first")
	stepCmd.Flags().Bool("json", false, "Speak the NDJSON step protocol instead of the text UI")
	_ = stepCmd.MarkFlagRequired("file")
}
