package main

import (
	"fmt"
	"os"

	"github.com/glintfin/glint/internal/cli"
	"github.com/glintfin/glint/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export snapshot data to an XLSX workbook",
		Long: `Export all snapshots with their values, series and trust levels to
an XLSX workbook, optionally restricted to a capture date range.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "glint-export.xlsx", "Output file path")
	cmd.Flags().StringP("from", "f", "", "Only include snapshots captured on or after this date (format: 2006-01-02)")
	cmd.Flags().StringP("to", "t", "", "Only include snapshots captured on or before this date (format: 2006-01-02)")

	_ = viper.BindPFlag("export.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("export.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("export.to", cmd.Flags().Lookup("to"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	from, err := parseDateFlag(viper.GetString("export.from"))
	if err != nil {
		return err
	}
	to, err := parseDateFlag(viper.GetString("export.to"))
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	data, err := export.NewService(store).XLSX(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	output := viper.GetString("export.output")
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Println(cli.FormatSuccess("Exported to " + output))

	return nil
}
