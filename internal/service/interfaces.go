// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glintfin/glint/internal/model"
)

// Storage defines the contract for the persistence layer. Every mutation is
// independently durable: the engine treats a flag as committed only once the
// corresponding Storage call has returned nil.
type Storage interface {
	// Snapshot operations.
	SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error
	GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error)
	GetSnapshots(ctx context.Context) ([]model.Snapshot, error)
	GetSnapshotByImageHash(ctx context.Context, hash string) (*model.Snapshot, error)

	// Per-phase mutations used by the analysis engine. Each persists exactly
	// one concern so that a partial cycle is always recoverable.
	SetSnapshotFingerprint(ctx context.Context, id string, fp model.Fingerprint) error
	MarkExtractionAttempted(ctx context.Context, id string) error
	SetSnapshotValue(ctx context.Context, id string, value decimal.Decimal, rawText string, confidence float64) error
	SetSnapshotError(ctx context.Context, id string, message string) error
	// AssignSnapshotCategory only writes when no category is assigned yet;
	// an existing assignment is never overwritten by automation.
	AssignSnapshotCategory(ctx context.Context, id string, categoryID int64) error

	// ConfirmSnapshot records an explicit human decision: value and/or
	// series, and flips the confirmed flag.
	ConfirmSnapshot(ctx context.Context, id string, value *decimal.Decimal, categoryID *int64) error

	// Category operations.
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	CreateCategory(ctx context.Context, name, color string) (*model.Category, error)
	// DeleteCategory removes the category and clears (never reassigns) the
	// references of snapshots assigned to it.
	DeleteCategory(ctx context.Context, id int64) error

	// GetCategorizedFingerprints returns, per category, the fingerprints of
	// all snapshots currently assigned to it. There is no separate training
	// set; every categorized snapshot is a reference.
	GetCategorizedFingerprints(ctx context.Context) (map[int64][]model.Fingerprint, error)

	// Settings operations for small pieces of app state, such as the
	// last-used series.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// CycleStats summarizes one analysis cycle for logging and CLI output.
type CycleStats struct {
	Fingerprinted    int
	ValuesExtracted  int
	ExtractionErrors int
	Categorized      int
	Duration         time.Duration
}
