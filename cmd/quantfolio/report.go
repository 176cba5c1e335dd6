package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfolio/quantfolio/internal/logger"
	"github.com/quantfolio/quantfolio/internal/report"
)

var reportStore bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the daily portfolio report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportStore, "store", false, "Archive the report (JSON, text, chart)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	store, err := buildArchive(cfg)
	if err != nil {
		return fmt.Errorf("configuring archive storage: %w", err)
	}

	generator := report.NewGenerator(buildProvider(cfg), store, log)
	ctx := context.Background()

	rep, err := generator.Generate(ctx, buildReportConfig(cfg))
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	fmt.Print(rep.Render())

	if reportStore {
		if err := generator.Store(ctx, rep); err != nil {
			return fmt.Errorf("archiving report: %w", err)
		}
		fmt.Printf("\narchived as run %s\n", rep.ID)
	}

	return nil
}
