// Package ctl implements the oneaictl command line tool.
package ctl

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oneaictl",
	Short: "OneAI catalog CLI",
	Long:  `oneaictl manages the OneAI agent catalog: run the server, import seed data, backfill descriptions.`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(generateCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
