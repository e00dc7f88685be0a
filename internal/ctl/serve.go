package ctl

import (
	"github.com/spf13/cobra"

	"github.com/oneai-dev/oneai/internal/catalog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP server",
	Long:  `Run the catalog HTTP server until interrupted. Configuration is read from the environment (ONEAI_ prefix) and an optional .env file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return catalog.App(cmd.Context())
	},
}
