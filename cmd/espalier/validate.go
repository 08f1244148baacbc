package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate -f FILE",
	Short: "Check a definition for violations and unreachable states",
	Long: `Loads the definition and reports every structural violation, plus
warnings for states the initial state cannot reach.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		jsonMode, _ := cmd.Flags().GetBool("json")

		os.Exit(runValidate(file, jsonMode))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("file", "f", "", "Definition document to check")
	validateCmd.Flags().Bool("json", false, "Emit the findings as JSON")
	_ = validateCmd.MarkFlagRequired("file")
}

type validateReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func runValidate(path string, jsonMode bool) int {
	def, err := loader.Load(path)
	if err != nil {
		var defErr *domain.DefinitionError
		if !errors.As(err, &defErr) {
			fmt.Printf("Error: %v\n", err)
			return 1
		}

		findings := schema.Messages(defErr.Err)
		if jsonMode {
			printJSON(validateReport{Valid: false, Errors: findings})
			return 1
		}
		fmt.Println("Definition is invalid:")
		for _, f := range findings {
			fmt.Printf("  - %s\n", f)
		}
		return 1
	}

	warnings := validator.Warnings(def)
	if jsonMode {
		printJSON(validateReport{Valid: true, Warnings: warnings})
		return 0
	}

	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	fmt.Println("Definition is valid! ✅")
	return 0
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
