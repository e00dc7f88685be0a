package ctl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/oneai-dev/oneai/internal/catalog"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/seed"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the builtin sample agents",
	Long:  `Import the builtin sample agents into the configured store. By default the import is skipped when the catalog already has records; --force imports regardless.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.NewConfig()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
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

		if !seedForce {
			count, err := db.CountAgents(ctx, nil, nil)
			if err != nil {
				return fmt.Errorf("failed to count existing records: %w", err)
			}
			if count > 0 {
				fmt.Printf("Catalog already has %d records, skipping import (use --force to import anyway)\n", count)
				return nil
			}
		}

		catalogService := catalog.NewService(cfg, db)
		if err := seed.ImportBuiltinSeedData(ctx, catalogService); err != nil {
			return err
		}
		fmt.Println("Builtin seed data imported")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Import even when the catalog already has records")
}
