package ctl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/oneai-dev/oneai/internal/catalog"
	"github.com/oneai-dev/oneai/internal/catalog/config"
)

var generateCmd = &cobra.Command{
	Use:   "generate-descriptions",
	Short: "Backfill detailed descriptions",
	Long:  `Generate a detailed description for every record that lacks one, using the configured text generator or the deterministic template.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.NewConfig()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()

		db, err := catalog.NewDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing database connection: %v", err)
			}
		}()

		catalogService := catalog.NewService(cfg, db)
		updated, err := catalogService.GenerateMissingDescriptions(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %d records\n", updated)
		return nil
	},
}
