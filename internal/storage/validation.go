package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glintfin/glint/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrSettingNotFound    = errors.New("setting not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot validates a snapshot before persisting it.
func validateSnapshot(snapshot *model.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if snapshot.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidSnapshot)
	}
	if snapshot.Confidence < 0 || snapshot.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidSnapshot)
	}
	if snapshot.Fingerprint != nil {
		if err := validateFingerprint(*snapshot.Fingerprint); err != nil {
			return err
		}
	}
	return nil
}

// validateFingerprint ensures version and bits are always stored as a unit.
func validateFingerprint(fp model.Fingerprint) error {
	if fp.Version == "" {
		return fmt.Errorf("%w: missing algorithm version", ErrInvalidFingerprint)
	}
	if len(fp.Bits) == 0 {
		return fmt.Errorf("%w: missing bits", ErrInvalidFingerprint)
	}
	return nil
}
