package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oneconfig/oneconfig"
)

var exportCmd = &cobra.Command{
	Use:   "export <schema.yaml>",
	Short: "Export a schema as JSON Schema",
	Long: `Compiles the schema and prints the equivalent JSON Schema (draft-07)
document, for editor integration and external tooling.`,
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

		out, err := checker.JSONSchema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(2)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
