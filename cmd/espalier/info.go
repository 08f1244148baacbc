package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/loader"
	"github.com/aretw0/espalier/internal/presentation/tui"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info -f FILE",
	Short: "Show a readable summary of a definition",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		def, err := loader.Load(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		printMarkdown(cli.DescribeMarkdown(def))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringP("file", "f", "", "Definition document to describe")
	_ = infoCmd.MarkFlagRequired("file")
}

// printMarkdown styles markdown for the terminal, falling back to the raw
// text when the renderer cannot cope.
func printMarkdown(md string) {
	render := tui.NewRenderer()
	styled, err := render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(styled)
}
