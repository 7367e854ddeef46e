package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glintfin/glint/internal/model"
)

const snapshotColumns = `id, captured_at, value, category_id, human_confirmed,
	extraction_attempted, image, fingerprint, fingerprint_version,
	raw_text, confidence, analysis_error, analyzed_at, created_at`

// SaveSnapshot inserts a new snapshot or replaces an existing one by ID.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	var value any
	if snapshot.Value != nil {
		value = snapshot.Value.String()
	}
	var fpBits, fpVersion any
	if snapshot.Fingerprint != nil {
		fpBits = snapshot.Fingerprint.Bits
		fpVersion = snapshot.Fingerprint.Version
	}
	var imageHash any
	if len(snapshot.Image) > 0 {
		imageHash = snapshot.ImageHash()
	}

	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, image_hash, captured_at, value, category_id, human_confirmed,
			extraction_attempted, image, fingerprint, fingerprint_version,
			raw_text, confidence, analysis_error, analyzed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			captured_at = excluded.captured_at,
			value = excluded.value,
			category_id = excluded.category_id,
			human_confirmed = excluded.human_confirmed,
			extraction_attempted = excluded.extraction_attempted,
			raw_text = excluded.raw_text,
			confidence = excluded.confidence,
			analysis_error = excluded.analysis_error,
			analyzed_at = excluded.analyzed_at`,
		snapshot.ID, imageHash, snapshot.CapturedAt, value, snapshot.CategoryID,
		snapshot.HumanConfirmed, snapshot.ExtractionAttempted, snapshot.Image,
		fpBits, fpVersion, snapshot.RawText, snapshot.Confidence,
		snapshot.AnalysisError, snapshot.AnalyzedAt, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns a single snapshot by ID.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return snapshot, nil
}

// GetSnapshots returns the full snapshot collection, newest capture first.
func (s *SQLiteStorage) GetSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots
		 ORDER BY captured_at IS NULL, captured_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	slog.Debug("retrieved snapshots", "count", len(snapshots))
	return snapshots, nil
}

// GetSnapshotByImageHash returns the snapshot with the given image content
// hash, or nil when none exists. Used for duplicate detection at ingest.
func (s *SQLiteStorage) GetSnapshotByImageHash(ctx context.Context, hash string) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(hash, "hash"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE image_hash = ?`, hash)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot by hash: %w", err)
	}
	return snapshot, nil
}

// SetSnapshotFingerprint stores the fingerprint and its algorithm version as
// a unit. A no-op if a fingerprint is already present: fingerprints are
// generated once, never regenerated.
func (s *SQLiteStorage) SetSnapshotFingerprint(ctx context.Context, id string, fp model.Fingerprint) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateFingerprint(fp); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE snapshots
		SET fingerprint = ?, fingerprint_version = ?
		WHERE id = ? AND fingerprint IS NULL`,
		fp.Bits, fp.Version, id)
	if err != nil {
		return fmt.Errorf("failed to set fingerprint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		slog.Debug("fingerprint already present, skipping", "snapshot_id", id)
	}
	return nil
}

// MarkExtractionAttempted flips the one-way extraction-attempted flag. The
// flag is only considered committed once this returns nil.
func (s *SQLiteStorage) MarkExtractionAttempted(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET extraction_attempted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark extraction attempted: %w", err)
	}
	return nil
}

// SetSnapshotValue stores an extracted value plus its diagnostics and clears
// any previous analysis error. Human-confirmed snapshots are never touched.
func (s *SQLiteStorage) SetSnapshotValue(ctx context.Context, id string, value decimal.Decimal, rawText string, confidence float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE snapshots
		SET value = ?, raw_text = ?, confidence = ?, analysis_error = '', analyzed_at = ?
		WHERE id = ? AND human_confirmed = 0`,
		value.String(), rawText, confidence, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set snapshot value: %w", err)
	}
	return nil
}

// SetSnapshotError records an extraction failure message. The value stays
// unset; the attempted flag keeps the snapshot out of future cycles.
func (s *SQLiteStorage) SetSnapshotError(ctx context.Context, id string, message string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE snapshots
		SET analysis_error = ?, analyzed_at = ?
		WHERE id = ? AND human_confirmed = 0`,
		message, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set snapshot error: %w", err)
	}
	return nil
}

// AssignSnapshotCategory assigns a series to an unassigned snapshot. The
// guard is in the statement itself: an existing assignment, automatic or
// human, is never overwritten.
func (s *SQLiteStorage) AssignSnapshotCategory(ctx context.Context, id string, categoryID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE snapshots SET category_id = ?
		WHERE id = ? AND category_id IS NULL`,
		categoryID, id)
	if err != nil {
		return fmt.Errorf("failed to assign category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		slog.Debug("category already assigned, skipping", "snapshot_id", id)
	}
	return nil
}

// ConfirmSnapshot records an explicit human decision and marks the snapshot
// confirmed, permanently excluding it from automatic value extraction.
func (s *SQLiteStorage) ConfirmSnapshot(ctx context.Context, id string, value *decimal.Decimal, categoryID *int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	query := `UPDATE snapshots SET human_confirmed = 1, analysis_error = ''`
	args := []any{}
	if value != nil {
		query += `, value = ?`
		args = append(args, value.String())
	}
	if categoryID != nil {
		query += `, category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to confirm snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}

// GetCategorizedFingerprints returns the reference fingerprints grouped by
// category: the fingerprint of every snapshot currently assigned to one.
func (s *SQLiteStorage) GetCategorizedFingerprints(ctx context.Context) (map[int64][]model.Fingerprint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, fingerprint, fingerprint_version
		FROM snapshots
		WHERE category_id IS NOT NULL AND fingerprint IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference fingerprints: %w", err)
	}
	defer rows.Close()

	refs := make(map[int64][]model.Fingerprint)
	for rows.Next() {
		var categoryID int64
		var fpBits []byte
		var version string
		if err := rows.Scan(&categoryID, &fpBits, &version); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		refs[categoryID] = append(refs[categoryID], model.Fingerprint{Version: version, Bits: fpBits})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fingerprints: %w", err)
	}
	return refs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	var capturedAt, analyzedAt sql.NullTime
	var value sql.NullString
	var categoryID sql.NullInt64
	var fpBits []byte
	var fpVersion sql.NullString

	err := row.Scan(
		&snapshot.ID, &capturedAt, &value, &categoryID,
		&snapshot.HumanConfirmed, &snapshot.ExtractionAttempted,
		&snapshot.Image, &fpBits, &fpVersion,
		&snapshot.RawText, &snapshot.Confidence, &snapshot.AnalysisError,
		&analyzedAt, &snapshot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if capturedAt.Valid {
		t := capturedAt.Time
		snapshot.CapturedAt = &t
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		snapshot.AnalyzedAt = &t
	}
	if value.Valid {
		d, err := decimal.NewFromString(value.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt value %q: %w", value.String, err)
		}
		snapshot.Value = &d
	}
	if categoryID.Valid {
		id := categoryID.Int64
		snapshot.CategoryID = &id
	}
	if fpVersion.Valid && len(fpBits) > 0 {
		snapshot.Fingerprint = &model.Fingerprint{Version: fpVersion.String, Bits: fpBits}
	}

	return &snapshot, nil
}
