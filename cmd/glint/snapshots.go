package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glintfin/glint/internal/cli"
	"github.com/glintfin/glint/internal/model"
	"github.com/glintfin/glint/internal/series"
	"github.com/glintfin/glint/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect and confirm imported screenshots",
	}

	cmd.AddCommand(snapshotsListCmd())
	cmd.AddCommand(snapshotsShowCmd())
	cmd.AddCommand(snapshotsConfirmCmd())

	return cmd
}

func snapshotsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots with their values and trust levels",
		RunE:  runSnapshotsList,
	}

	cmd.Flags().Bool("pending", false, "Only show snapshots that still need review")

	return cmd
}

func runSnapshotsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	pendingOnly, _ := cmd.Flags().GetBool("pending")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	snapshots, err := store.GetSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	names, err := categoryNames(ctx, store)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Snapshots"))
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-36s  %-12s  %-14s  %-16s  %s",
		"ID", "Captured", "Value", "Series", "Trust")))

	shown := 0
	for i := range snapshots {
		s := &snapshots[i]
		trust := s.TrustLabel()
		if pendingOnly && trust != "needs review" && trust != "pending" {
			continue
		}
		fmt.Printf("%-36s  %-12s  %-14s  %-16s  %s\n",
			s.ID, formatCapturedAt(s), formatValue(s), seriesName(s, names), formatTrust(trust))
		shown++
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d snapshots", shown)))

	return nil
}

func snapshotsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full analysis state of one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotsShow,
	}
}

func runSnapshotsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	s, err := store.GetSnapshot(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	names, err := categoryNames(ctx, store)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Snapshot " + s.ID))
	fmt.Printf("  Captured:    %s\n", formatCapturedAt(s))
	fmt.Printf("  Value:       %s\n", formatValue(s))
	fmt.Printf("  Series:      %s\n", seriesName(s, names))
	fmt.Printf("  Trust:       %s\n", formatTrust(s.TrustLabel()))
	fmt.Printf("  Confidence:  %.2f\n", s.Confidence)
	if s.RawText != "" {
		fmt.Printf("  Source text: %q\n", s.RawText)
	}
	if s.Fingerprint != nil {
		fmt.Printf("  Fingerprint: %s\n", s.Fingerprint.Version)
	}
	if s.AnalyzedAt != nil {
		fmt.Printf("  Analyzed:    %s\n", s.AnalyzedAt.Format("2006-01-02 15:04"))
	}
	if s.AnalysisError != "" {
		fmt.Println("  " + cli.FormatWarning("Last error: "+s.AnalysisError))
	}

	return nil
}

func snapshotsConfirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a snapshot's value and series",
		Long: `Record a human decision for a snapshot. A confirmed snapshot is
trusted: automated analysis will never overwrite its value again.

With --value and/or --series the stored data is corrected before
confirming; without them the current automatic result is confirmed
as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: runSnapshotsConfirm,
	}

	cmd.Flags().String("value", "", "Corrected balance value (e.g. 1234.56)")
	cmd.Flags().String("series", "", "Series name to assign the snapshot to")

	return cmd
}

func runSnapshotsConfirm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	var value *decimal.Decimal
	if raw, _ := cmd.Flags().GetString("value"); raw != "" {
		parsed, parseErr := decimal.NewFromString(strings.TrimSpace(raw))
		if parseErr != nil {
			return fmt.Errorf("invalid value %q: %w", raw, parseErr)
		}
		value = &parsed
	}

	svc := series.NewService(store)

	var categoryID *int64
	if name, _ := cmd.Flags().GetString("series"); name != "" {
		category, catErr := store.GetCategoryByName(ctx, name)
		if catErr != nil {
			return fmt.Errorf("unknown series %q: %w", name, catErr)
		}
		categoryID = &category.ID
	}

	if err := store.ConfirmSnapshot(ctx, args[0], value, categoryID); err != nil {
		return fmt.Errorf("failed to confirm snapshot: %w", err)
	}

	if categoryID != nil {
		if err := svc.SetLastUsed(ctx, *categoryID); err != nil {
			slog.Warn("Failed to record last-used series", "error", err)
		}
	}

	fmt.Println(cli.FormatSuccess("Snapshot confirmed"))

	return nil
}

func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

func categoryNames(ctx context.Context, store service.Storage) (map[int64]string, error) {
	categories, err := store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func seriesName(s *model.Snapshot, names map[int64]string) string {
	if s.CategoryID == nil {
		return "-"
	}
	if name, ok := names[*s.CategoryID]; ok {
		return name
	}
	return fmt.Sprintf("#%d", *s.CategoryID)
}

func formatCapturedAt(s *model.Snapshot) string {
	if s.CapturedAt == nil {
		return "-"
	}
	return s.CapturedAt.Format("2006-01-02")
}

func formatValue(s *model.Snapshot) string {
	if s.Value == nil {
		return "-"
	}
	return s.Value.StringFixed(2)
}

func formatTrust(trust string) string {
	switch trust {
	case "confirmed":
		return cli.SuccessStyle.Render(trust)
	case "needs review":
		return cli.WarningStyle.Render(trust)
	case "pending":
		return cli.SubtleStyle.Render(trust)
	default:
		return trust
	}
}
