// Package plan decides which analysis phases a snapshot still needs.
//
// There is deliberately no state machine here. An earlier design used a
// six-value status enum and its transition table entangled three orthogonal
// concerns; these three independent predicates replace it. A snapshot can
// need all three phases, one, or none, and evaluating a predicate twice with
// no intervening mutation always yields the same answer, which is what makes
// the whole pipeline safe to re-run on every data arrival.
package plan

import "github.com/glintfin/glint/internal/model"

// NeedsFingerprint selects snapshots with an image but no fingerprint yet.
// Fingerprinting is idempotent and side-effect free, so there is no
// attempted flag: failures are simply retried next cycle.
func NeedsFingerprint(s model.Snapshot) bool {
	return len(s.Image) > 0 && s.Fingerprint == nil
}

// NeedsValueExtraction selects snapshots with an image, no value, no prior
// extraction attempt, and no human confirmation. Human-confirmed snapshots
// are permanently excluded regardless of their other fields.
func NeedsValueExtraction(s model.Snapshot) bool {
	return len(s.Image) > 0 && s.Value == nil && !s.ExtractionAttempted && !s.HumanConfirmed
}

// NeedsCategoryMatch selects fingerprinted snapshots that have no series
// assignment. An existing assignment, whether made by automation or by a
// human, is never revisited.
func NeedsCategoryMatch(s model.Snapshot) bool {
	return len(s.Image) > 0 && s.Fingerprint != nil && s.CategoryID == nil
}

// Filter returns the snapshots for which pred holds, preserving order.
func Filter(snapshots []model.Snapshot, pred func(model.Snapshot) bool) []model.Snapshot {
	var selected []model.Snapshot
	for _, s := range snapshots {
		if pred(s) {
			selected = append(selected, s)
		}
	}
	return selected
}
