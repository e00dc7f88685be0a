package ctl

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oneai-dev/oneai/internal/catalog"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/pkg/printer"
)

var (
	listOutput string
	listSearch string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.NewConfig()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
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

		filter := &database.AgentFilter{}
		if listSearch != "" {
			filter.SubstringText = &listSearch
		}
		list, err := catalogService.ListAgents(ctx, filter, "", listLimit)
		if err != nil {
			return err
		}

		if listOutput == string(printer.OutputTypeJSON) {
			return printer.PrintJSON(cmd.OutOrStdout(), list)
		}

		table := printer.NewTablePrinter(cmd.OutOrStdout())
		table.SetHeaders("ID", "Name", "Version", "Tags", "Creator")
		for _, agent := range list.Agents {
			table.AddRow(agent.ID, agent.Name, agent.Version, strings.Join(agent.Tags, ","), agent.Creator)
		}
		if err := table.Render(); err != nil {
			return err
		}
		if list.Metadata.Degraded {
			fmt.Fprintln(cmd.OutOrStdout(), "\nStore unreachable, showing placeholder records.")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", string(printer.OutputTypeTable), "Output format (table or json)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Substring filter over name and descriptions")
	listCmd.Flags().IntVar(&listLimit, "limit", 30, "Maximum number of records")
	rootCmd.AddCommand(listCmd)
}
