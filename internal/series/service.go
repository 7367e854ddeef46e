// Package series manages user-defined series (categories): creation with a
// color palette, the default series, and the last-used-series memory.
//
// This used to be ambient global state in an earlier design; it is now an
// explicitly constructed service injected wherever series bookkeeping is
// needed, and "last used" lives in the settings table rather than in a
// process-wide singleton.
package series

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/glintfin/glint/internal/common"
	"github.com/glintfin/glint/internal/model"
	"github.com/glintfin/glint/internal/service"
	"github.com/glintfin/glint/internal/storage"
)

// DefaultName is the series created on first use when none exists.
const DefaultName = "Main account"

const lastUsedKey = "series.last_used"

// palette is the color rotation for new series.
var palette = []string{
	"#4ECDC4", // teal
	"#FF6B6B", // red
	"#FFE66D", // yellow
	"#95E1D3", // light teal
	"#A8A4FF", // lavender
	"#F4A261", // orange
	"#6BCB77", // green
	"#B5838D", // mauve
}

// Service provides series bookkeeping on top of storage.
type Service struct {
	storage service.Storage
}

// NewService creates a series service.
func NewService(store service.Storage) *Service {
	return &Service{storage: store}
}

// EnsureDefault creates the default series when no series exists yet and
// returns the full list.
func (s *Service) EnsureDefault(ctx context.Context) ([]model.Category, error) {
	categories, err := s.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if len(categories) > 0 {
		return categories, nil
	}

	cat, err := s.storage.CreateCategory(ctx, DefaultName, palette[0])
	if err != nil {
		return nil, fmt.Errorf("failed to create default series: %w", err)
	}
	return []model.Category{*cat}, nil
}

// Create adds a new series, picking the next palette color.
func (s *Service) Create(ctx context.Context, name string) (*model.Category, error) {
	categories, err := s.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}

	color := palette[len(categories)%len(palette)]
	cat, err := s.storage.CreateCategory(ctx, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to create series %q: %w", name, err)
	}
	return cat, nil
}

// Delete removes a series. Snapshots assigned to it become unassigned; the
// next analysis cycle sees them without a category again.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return err
	}

	// Forget a stale last-used reference.
	raw, err := s.storage.GetSetting(ctx, lastUsedKey)
	if errors.Is(err, storage.ErrSettingNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if raw == strconv.FormatInt(id, 10) {
		if err := s.storage.SetSetting(ctx, lastUsedKey, ""); err != nil {
			return fmt.Errorf("failed to clear last-used series: %w", err)
		}
	}
	return nil
}

// LastUsed returns the series the user most recently picked, or nil when
// none is recorded or the series no longer exists.
func (s *Service) LastUsed(ctx context.Context) (*model.Category, error) {
	raw, err := s.storage.GetSetting(ctx, lastUsedKey)
	if errors.Is(err, storage.ErrSettingNotFound) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt last-used series %q", common.ErrInvalidConfig, raw)
	}

	cat, err := s.storage.GetCategoryByID(ctx, id)
	if errors.Is(err, storage.ErrCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// SetLastUsed records the series the user just picked.
func (s *Service) SetLastUsed(ctx context.Context, id int64) error {
	return s.storage.SetSetting(ctx, lastUsedKey, strconv.FormatInt(id, 10))
}
