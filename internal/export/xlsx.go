// Package export produces XLSX workbooks from the snapshot collection.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/glintfin/glint/internal/model"
	"github.com/glintfin/glint/internal/service"
)

// Service writes snapshots to spreadsheet form.
type Service struct {
	storage service.Storage
}

// NewService creates an export service.
func NewService(store service.Storage) *Service {
	return &Service{storage: store}
}

// XLSX returns a workbook with one row per snapshot in the given window.
// A nil bound leaves that side open; snapshots without a capture time are
// included only when both bounds are open.
func (s *Service) XLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	snapshots, err := s.storage.GetSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	categories, err := s.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	f := excelize.NewFile()
	const sheet = "Snapshots"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := []string{"Captured", "Value", "Series", "Trust", "Source Text", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, snap := range snapshots {
		if !inWindow(snap, from, to) {
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if snap.CapturedAt != nil {
			write(1, snap.CapturedAt.Format("2006-01-02 15:04"))
		} else {
			write(1, "")
		}
		if snap.Value != nil {
			write(2, snap.Value.String())
		}
		if snap.CategoryID != nil {
			write(3, names[*snap.CategoryID])
		}
		write(4, snap.TrustLabel())
		write(5, snap.RawText)
		write(6, snap.AnalysisError)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 22)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "E", 30)
	_ = f.SetColWidth(sheet, "F", "F", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("Exported snapshots",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func inWindow(snap model.Snapshot, from, to *time.Time) bool {
	if snap.CapturedAt == nil {
		return from == nil && to == nil
	}
	if from != nil && snap.CapturedAt.Before(*from) {
		return false
	}
	if to != nil && snap.CapturedAt.After(*to) {
		return false
	}
	return true
}
