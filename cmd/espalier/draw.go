package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/internal/presentation/diagram"
)

// drawCmd represents the draw command
var drawCmd = &cobra.Command{
	Use:   "draw -f FILE",
	Short: "Render the automaton as a diagram",
	Long: `Draws the state graph. The unicode format (default) prints circled
states with labeled arrows for the terminal; the mermaid format emits
stateDiagram-v2 markup for embedding in documentation.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")

		def, err := loader.Load(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var output string
		switch format {
		case "unicode":
			output = diagram.Unicode(def)
		case "mermaid":
			output = diagram.Mermaid(def, nil)
		default:
			fmt.Printf("Unknown format: %s. Supported: unicode, mermaid\n", format)
			os.Exit(1)
		}

		if outPath == "" {
			fmt.Print(output)
			return
		}
		if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("Diagram written to %s\n", outPath)
	},
}

func init() {
	rootCmd.AddCommand(drawCmd)

	drawCmd.Flags().StringP("file", "f", "", "Definition document to draw")
	drawCmd.Flags().String("format", "unicode", "Diagram format: unicode or mermaid")
	drawCmd.Flags().StringP("output", "o", "", "Write the diagram to a file instead of stdout")
	_ = drawCmd.MarkFlagRequired("file")
}
