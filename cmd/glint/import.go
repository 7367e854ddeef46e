package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glintfin/glint/internal/cli"
	"github.com/glintfin/glint/internal/model"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [paths...]",
		Short: "Import balance screenshots",
		Long: `Import e-banking balance screenshots into the local database.

Each argument may be an image file or a directory; directories are scanned
for .png, .jpg and .jpeg files. Screenshots already imported are detected
by content hash and skipped. Run 'glint analyze' afterwards to extract
balances from the new screenshots.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("captured-at", "", "Capture timestamp for all imported files (format: 2006-01-02; default: file modification time)")
	cmd.Flags().Bool("dry-run", false, "Show what would be imported without saving")

	_ = viper.BindPFlag("import.captured_at", cmd.Flags().Lookup("captured-at"))
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	capturedAt, err := parseDateFlag(viper.GetString("import.captured_at"))
	if err != nil {
		return err
	}
	dryRun := viper.GetBool("import.dry_run")

	files, err := collectImageFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println(cli.FormatWarning("No image files found"))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close storage", "error", closeErr)
		}
	}()

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Importing %d screenshots", len(files))))

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var imported, skipped, failed int
	for _, path := range files {
		_ = bar.Add(1)

		snapshot, err := snapshotFromFile(path, capturedAt)
		if err != nil {
			slog.Warn("Skipping unreadable file", "path", path, "error", err)
			failed++
			continue
		}

		existing, err := store.GetSnapshotByImageHash(ctx, snapshot.ImageHash())
		if err != nil {
			return fmt.Errorf("failed to check for duplicate of %s: %w", path, err)
		}
		if existing != nil {
			slog.Debug("Screenshot already imported", "path", path, "id", existing.ID)
			skipped++
			continue
		}

		if dryRun {
			imported++
			continue
		}

		if err := store.SaveSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		imported++
	}

	_ = bar.Finish()
	printImportSummary(imported, skipped, failed, dryRun)

	return nil
}

// snapshotFromFile reads an image file into a new snapshot. The capture time
// falls back to the file's modification time when no override is given.
func snapshotFromFile(path string, capturedAt *time.Time) (*model.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from CLI arguments
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	when := capturedAt
	if when == nil {
		if info, statErr := os.Stat(path); statErr == nil {
			mtime := info.ModTime().UTC()
			when = &mtime
		}
	}

	return &model.Snapshot{
		ID:         uuid.New().String(),
		CapturedAt: when,
		Image:      data,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// collectImageFiles expands the given paths into a list of image files.
// Directories are walked recursively.
func collectImageFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			if imageExtensions[strings.ToLower(filepath.Ext(p))] {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
	}
	return files, nil
}

func printImportSummary(imported, skipped, failed int, dryRun bool) {
	if dryRun {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Would import %d screenshots (%d duplicates skipped)", imported, skipped)))
		return
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d screenshots", imported)))
	if skipped > 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d duplicates skipped", skipped)))
	}
	if failed > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d files could not be read", failed)))
	}
}
