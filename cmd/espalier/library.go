package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/pkg/adapters/loam"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the definition library",
	Long: `Lists and inspects the automata stored in the library directory, a
folder of markdown documents whose frontmatter carries the definition.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all definitions in the library",
	Run: func(cmd *cobra.Command, args []string) {
		lib := openLibrary(cmd)

		names, err := lib.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing library: %v\n", err)
			os.Exit(1)
		}

		if len(names) == 0 {
			fmt.Println("No definitions found.")
			return
		}

		fmt.Println("Definitions:")
		for _, name := range names {
			fmt.Println("- " + name)
		}
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one library definition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := openLibrary(cmd)

		def, err := lib.Get(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		printMarkdown(cli.DescribeMarkdown(def))
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)

	libraryCmd.PersistentFlags().String("dir", "", "Library directory (default from config)")
}

func openLibrary(cmd *cobra.Command) *loam.Library {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = loadConfig().Library.Dir
	}

	lib, err := loam.Open(dir)
	if err != nil {
		fmt.Printf("Error opening library at '%s': %v\n", dir, err)
		os.Exit(1)
	}
	return lib
}
