// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot represents a single captured balance screen and everything that
// has been derived from it so far. Optional fields are pointers: nil means
// "not yet known", never a silently defaulted value.
type Snapshot struct {
	ID         string
	CapturedAt *time.Time
	Value      *decimal.Decimal
	CategoryID *int64

	// HumanConfirmed is set once a person has entered, edited, or reviewed
	// this snapshot. A confirmed snapshot is never touched by automatic
	// value extraction again.
	HumanConfirmed bool

	// ExtractionAttempted flips to true once a value-extraction attempt has
	// completed, success or not. It is one-way: automation never resets it.
	ExtractionAttempted bool

	Image       []byte
	Fingerprint *Fingerprint

	// Diagnostic fields; not invariant-bearing.
	RawText       string
	Confidence    float64
	AnalysisError string
	AnalyzedAt    *time.Time

	CreatedAt time.Time
}

// ImageHash returns a content hash of the source image, used for duplicate
// detection at ingest time.
func (s *Snapshot) ImageHash() string {
	sum := sha256.Sum256(s.Image)
	return fmt.Sprintf("%x", sum)
}

// HasValue reports whether a value has been derived or entered.
func (s *Snapshot) HasValue() bool {
	return s.Value != nil
}

// TrustLabel describes the trust level of the snapshot's data for display.
func (s *Snapshot) TrustLabel() string {
	switch {
	case s.HumanConfirmed:
		return "confirmed"
	case s.Value != nil:
		return "automatic"
	case s.AnalysisError != "":
		return "needs review"
	default:
		return "pending"
	}
}
