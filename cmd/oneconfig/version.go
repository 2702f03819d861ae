package main

import (
	"fmt"
	"strings"

	"github.com/oneconfig/oneconfig"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of oneconfig",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("oneconfig version %s\n", strings.TrimSpace(oneconfig.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
