// Package engine implements the analysis coordinator that turns ingested
// screenshots into values and series assignments.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glintfin/glint/internal/common"
	"github.com/glintfin/glint/internal/extract"
	"github.com/glintfin/glint/internal/fingerprint"
	"github.com/glintfin/glint/internal/model"
	"github.com/glintfin/glint/internal/plan"
	"github.com/glintfin/glint/internal/service"
)

// Config holds configuration options for the analysis engine.
type Config struct {
	// RecognitionTimeout bounds a single text-recognition call.
	RecognitionTimeout time.Duration
	// MatchThreshold is the fingerprint distance below which a snapshot is
	// auto-assigned to the closest series.
	MatchThreshold float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		RecognitionTimeout: 30 * time.Second,
		MatchThreshold:     fingerprint.MatchThreshold,
	}
}

// Coordinator runs the three analysis phases over the snapshot collection in
// a fixed order: fingerprinting, value extraction, series matching. All of
// its effects are persisted per-snapshot mutations; one failing snapshot
// never blocks the others.
type Coordinator struct {
	storage    service.Storage
	recognizer Recognizer
	generator  Generator
	config     Config

	mu      sync.Mutex
	running bool
	pending bool
}

// New creates a coordinator with the default configuration.
func New(store service.Storage, recognizer Recognizer, generator Generator) *Coordinator {
	return NewWithConfig(store, recognizer, generator, DefaultConfig())
}

// NewWithConfig creates a coordinator with custom configuration.
func NewWithConfig(store service.Storage, recognizer Recognizer, generator Generator, config Config) *Coordinator {
	if config.RecognitionTimeout <= 0 {
		config.RecognitionTimeout = DefaultConfig().RecognitionTimeout
	}
	if config.MatchThreshold <= 0 {
		config.MatchThreshold = DefaultConfig().MatchThreshold
	}
	return &Coordinator{
		storage:    store,
		recognizer: recognizer,
		generator:  generator,
		config:     config,
	}
}

// RunCycle executes one full analysis cycle. Concurrent invocations
// coalesce: while a cycle is in flight, further triggers fold into exactly
// one follow-up cycle instead of running in parallel. The record-level flags
// make overlapping cycles safe anyway; coalescing just avoids wasted work.
func (c *Coordinator) RunCycle(ctx context.Context) (service.CycleStats, error) {
	c.mu.Lock()
	if c.running {
		c.pending = true
		c.mu.Unlock()
		slog.Debug("Analysis cycle already running, coalescing trigger")
		return service.CycleStats{}, nil
	}
	c.running = true
	c.mu.Unlock()

	var stats service.CycleStats
	var err error
	for {
		stats, err = c.runOnce(ctx)

		c.mu.Lock()
		again := c.pending && err == nil && ctx.Err() == nil
		c.pending = false
		if !again {
			c.running = false
		}
		c.mu.Unlock()

		if !again {
			return stats, err
		}
		slog.Info("Running coalesced follow-up cycle")
	}
}

// runOnce runs the three phases in order. Selectors are re-evaluated fresh
// at the start of each phase, so a snapshot fingerprinted in phase 1 is
// immediately eligible for matching in phase 3 of the same cycle.
func (c *Coordinator) runOnce(ctx context.Context) (service.CycleStats, error) {
	start := time.Now()
	var stats service.CycleStats

	if err := c.fingerprintPhase(ctx, &stats); err != nil {
		return stats, err
	}
	if err := c.extractionPhase(ctx, &stats); err != nil {
		return stats, err
	}
	if err := c.matchPhase(ctx, &stats); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	slog.Info("Analysis cycle complete",
		"fingerprinted", stats.Fingerprinted,
		"values_extracted", stats.ValuesExtracted,
		"extraction_errors", stats.ExtractionErrors,
		"categorized", stats.Categorized,
		"duration", stats.Duration)
	return stats, nil
}

// fingerprintPhase computes fingerprints for snapshots that lack one.
// There is no attempted flag here: generation is cheap, local, and
// deterministic, so a failure is simply retried next cycle.
func (c *Coordinator) fingerprintPhase(ctx context.Context, stats *service.CycleStats) error {
	snapshots, err := c.storage.GetSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	for _, s := range plan.Filter(snapshots, plan.NeedsFingerprint) {
		if err := ctx.Err(); err != nil {
			return err
		}

		fp, err := c.generator.Generate(s.Image)
		if err != nil {
			slog.Warn("Fingerprint generation failed, will retry next cycle",
				"snapshot_id", s.ID, "error", err)
			continue
		}

		if err := c.storage.SetSnapshotFingerprint(ctx, s.ID, fp); err != nil {
			slog.Error("Failed to persist fingerprint", "snapshot_id", s.ID, "error", err)
			continue
		}
		stats.Fingerprinted++
	}
	return nil
}

// extractionPhase recognizes text and derives a value for each snapshot
// that still needs one. The attempted flag is persisted before the attempt:
// even if the process dies mid-call, the snapshot is never retried forever.
// The flag is only considered committed once persistence succeeds, so a
// failed write leaves the snapshot eligible for the next cycle.
func (c *Coordinator) extractionPhase(ctx context.Context, stats *service.CycleStats) error {
	snapshots, err := c.storage.GetSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	for _, s := range plan.Filter(snapshots, plan.NeedsValueExtraction) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.storage.MarkExtractionAttempted(ctx, s.ID); err != nil {
			slog.Error("Failed to mark extraction attempted, skipping",
				"snapshot_id", s.ID, "error", err)
			continue
		}

		observations, err := c.recognize(ctx, s.Image)
		if err != nil {
			slog.Warn("Text recognition failed", "snapshot_id", s.ID, "error", err)
			c.recordExtractionError(ctx, s.ID, fmt.Sprintf("text recognition failed: %v", err))
			stats.ExtractionErrors++
			continue
		}

		best, ok := extract.SelectBest(observations)
		if !ok {
			slog.Info("No acceptable amount candidate",
				"snapshot_id", s.ID, "observations", len(observations))
			c.recordExtractionError(ctx, s.ID, "no recognized text looked like a balance amount")
			stats.ExtractionErrors++
			continue
		}

		if err := c.storage.SetSnapshotValue(ctx, s.ID, best.Amount, best.Observation.Text, best.Observation.Confidence); err != nil {
			slog.Error("Failed to persist extracted value", "snapshot_id", s.ID, "error", err)
			continue
		}

		slog.Info("Extracted value",
			"snapshot_id", s.ID,
			"value", best.Amount.String(),
			"score", best.Score,
			"source_text", best.Observation.Text)
		stats.ValuesExtracted++
	}
	return nil
}

// matchPhase assigns unassigned, fingerprinted snapshots to the closest
// series. The reference set is read once at phase start; assignment is
// guarded in storage so an existing category is never overwritten.
func (c *Coordinator) matchPhase(ctx context.Context, stats *service.CycleStats) error {
	snapshots, err := c.storage.GetSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	pending := plan.Filter(snapshots, plan.NeedsCategoryMatch)
	if len(pending) == 0 {
		return nil
	}

	refs, err := c.storage.GetCategorizedFingerprints(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reference fingerprints: %w", err)
	}
	if len(refs) == 0 {
		slog.Debug("No categorized fingerprints yet, skipping match phase")
		return nil
	}

	for _, s := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		categoryID, ok := fingerprint.Match(*s.Fingerprint, refs, c.config.MatchThreshold)
		if !ok {
			continue
		}

		if err := c.storage.AssignSnapshotCategory(ctx, s.ID, categoryID); err != nil {
			slog.Error("Failed to assign series", "snapshot_id", s.ID, "error", err)
			continue
		}

		slog.Info("Auto-assigned series", "snapshot_id", s.ID, "category_id", categoryID)
		stats.Categorized++
	}
	return nil
}

// recognize wraps the recognizer call with a per-call timeout and bounded
// retries. Retries stay inside one logical extraction attempt; they never
// circumvent the attempted flag.
func (c *Coordinator) recognize(ctx context.Context, imageData []byte) ([]model.TextObservation, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.RecognitionTimeout)
	defer cancel()

	var observations []model.TextObservation
	err := common.WithRetry(callCtx, func() error {
		var recErr error
		observations, recErr = c.recognizer.Recognize(callCtx, imageData)
		if recErr != nil {
			return &common.RetryableError{Err: recErr, Retryable: true}
		}
		return nil
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		return nil, err
	}
	return observations, nil
}

// recordExtractionError stores the failure message; the snapshot keeps no
// value and is left for the user to review.
func (c *Coordinator) recordExtractionError(ctx context.Context, id, message string) {
	if err := c.storage.SetSnapshotError(ctx, id, message); err != nil {
		slog.Error("Failed to record extraction error", "snapshot_id", id, "error", err)
	}
}
