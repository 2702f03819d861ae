package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/cli"
	"github.com/oneconfig/oneconfig/internal/report"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [documents...]",
	Short: "Check configuration documents against a schema",
	Long: `Validates one or more configuration documents against a schema and
reports every violation. With no arguments the document is read from stdin.

Exit codes: 0 when all documents are valid, 1 when at least one is invalid,
2 on schema or document errors.`,
	Run: func(cmd *cobra.Command, args []string) {
		schemaPath, _ := cmd.Flags().GetString("schema")
		format, _ := cmd.Flags().GetString("format")
		interpolate, _ := cmd.Flags().GetBool("interpolate")
		jsonOut, _ := cmd.Flags().GetBool("json")

		checker, err := newChecker(schemaPath, interpolate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
			os.Exit(2)
		}

		if len(args) == 0 {
			validateStdin(checker, format, jsonOut)
			return
		}
		validateFiles(checker, args, jsonOut)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("schema", "s", "", "Path to the schema file (required)")
	validateCmd.Flags().StringP("format", "f", "", "Document format for stdin: yaml, json, jsonc or toml")
	validateCmd.Flags().Bool("interpolate", false, "Resolve !ref references before validating")
	validateCmd.Flags().Bool("json", false, "Emit a machine-readable JSON report")
	_ = validateCmd.MarkFlagRequired("schema")
}

func newChecker(schemaPath string, interpolate bool) (*oneconfig.Checker, error) {
	src, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, err
	}
	var opts []oneconfig.Option
	if interpolate {
		opts = append(opts, oneconfig.WithInterpolation())
	}
	return oneconfig.NewChecker(src, opts...)
}

func validateStdin(checker *oneconfig.Checker, format string, jsonOut bool) {
	runner := oneconfig.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout
	runner.Format = format
	if jsonOut {
		runner.Renderer = func(res *schema.Result) (string, error) {
			out, err := report.JSON(res)
			return string(out), err
		}
	} else {
		runner.Renderer = cli.ColorRenderer()
	}

	res, err := runner.Run(checker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(2)
	}
	if !res.Valid() {
		os.Exit(1)
	}
	if !jsonOut {
		fmt.Println("Configuration is valid ✅")
	}
}

func validateFiles(checker *oneconfig.Checker, paths []string, jsonOut bool) {
	out := io.Writer(os.Stdout)
	render := cli.ColorRenderer()
	if jsonOut {
		// The JSON summary replaces the per-file reports.
		out = io.Discard
		render = nil
	}

	summary, err := cli.ValidateFiles(checker, paths, out, render)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(2)
	}

	if jsonOut {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	}

	if summary.Invalid > 0 {
		if !jsonOut {
			fmt.Printf("%d of %d documents failed validation\n", summary.Invalid, summary.Total)
		}
		os.Exit(1)
	}
	if !jsonOut {
		fmt.Println("Configuration is valid ✅")
	}
}
