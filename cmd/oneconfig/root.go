package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oneconfig",
	Short: "oneconfig checks configuration files against declarative schemas",
	Long: `oneconfig compiles YAML schema definitions and validates YAML, JSON or
TOML configuration documents against them, reporting every violation at once.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
