package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/glintfin/glint/internal/cli"
	"github.com/glintfin/glint/internal/series"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "series",
		Aliases: []string{"categories"},
		Short:   "Manage account series",
		Long: `Manage the account series that snapshots are assigned to.

Each series represents one tracked account (for example a checking
account or a savings account). Snapshots are matched to series
automatically by visual similarity once at least one snapshot per
series has been assigned.`,
	}

	cmd.AddCommand(seriesListCmd())
	cmd.AddCommand(seriesAddCmd())
	cmd.AddCommand(seriesDeleteCmd())

	return cmd
}

func seriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			svc := series.NewService(store)
			all, err := svc.EnsureDefault(ctx)
			if err != nil {
				return fmt.Errorf("failed to load series: %w", err)
			}

			fmt.Println(cli.FormatTitle("Series"))
			for _, c := range all {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
				fmt.Printf("  %s %-4d %s\n", swatch, c.ID, c.Name)
			}

			return nil
		},
	}
}

func seriesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			svc := series.NewService(store)
			created, err := svc.Create(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to create series: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created series %q (#%d)", created.Name, created.ID)))

			return nil
		},
	}
}

func seriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a series",
		Long: `Delete a series. Snapshots assigned to it keep their values but
lose the series assignment; they become candidates for automatic
matching again on the next analyze run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid series id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			svc := series.NewService(store)
			if err := svc.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete series: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted series #%d", id)))

			return nil
		},
	}
}
