package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <schema.yaml>",
	Short: "Export the schema structure as a Mermaid diagram",
	Long: `Compiles the schema and outputs a Mermaid flowchart (graph TD) of its
fields, nested mappings, lists and choices.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
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

		// Generate and print the Mermaid graph
		output := graph.GenerateMermaid(checker.Schema())
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
