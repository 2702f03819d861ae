package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/presentation/tui"
)

var docCmd = &cobra.Command{
	Use:   "doc <schema.yaml>",
	Short: "Generate the reference documentation for a schema",
	Long: `Compiles the schema and renders a markdown reference of its fields,
types, constraints, defaults and hints.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")
		title, _ := cmd.Flags().GetString("title")

		src, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
			os.Exit(2)
		}
		checker, err := oneconfig.NewChecker(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
			os.Exit(2)
		}

		if title == "" {
			base := filepath.Base(args[0])
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}
		markdown := checker.Doc(title)

		if raw {
			fmt.Print(markdown)
			return
		}
		rendered, err := tui.NewRenderer()(markdown)
		if err != nil {
			// Terminal rendering is cosmetic; fall back to the source.
			fmt.Print(markdown)
			return
		}
		fmt.Print(rendered)
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.Flags().Bool("raw", false, "Print plain markdown without terminal rendering")
	docCmd.Flags().String("title", "", "Reference title (defaults to the schema file name)")
}
