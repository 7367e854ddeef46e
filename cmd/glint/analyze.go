package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glintfin/glint/internal/cli"
	"github.com/glintfin/glint/internal/engine"
	"github.com/glintfin/glint/internal/fingerprint"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run an analysis cycle over pending screenshots",
		Long: `Run one full analysis cycle: compute visual fingerprints for new
screenshots, extract balance values via text recognition, and assign
screenshots to account series by fingerprint similarity.

The cycle only ever fills in missing data; values and series that are
already set (or confirmed by you) are never changed.`,
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close storage", "error", closeErr)
		}
	}()

	recognizer, err := initRecognizer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize recognizer: %w", err)
	}
	defer func() {
		if closeErr := recognizer.Close(); closeErr != nil {
			slog.Warn("Failed to close recognizer", "error", closeErr)
		}
	}()

	coordinator := engine.NewWithConfig(store, recognizer, fingerprint.NewPerceptionGenerator(), engineConfig())

	fmt.Println(cli.FormatTitle("Analyzing screenshots"))

	stats, err := coordinator.RunCycle(ctx)
	if err != nil {
		return fmt.Errorf("analysis cycle failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Cycle complete in %s", stats.Duration.Round(10*time.Millisecond))))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d fingerprinted, %d values extracted, %d extraction errors, %d categorized",
		stats.Fingerprinted, stats.ValuesExtracted, stats.ExtractionErrors, stats.Categorized)))

	return nil
}
