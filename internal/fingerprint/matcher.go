package fingerprint

import (
	"sort"

	"github.com/glintfin/glint/internal/model"
)

// MatchThreshold is the distance a category's best reference must be
// strictly below for an automatic assignment to happen. Above it the
// snapshot stays unassigned for the user to sort out.
const MatchThreshold = 0.25

// Match finds the category whose reference fingerprints are closest to fp.
// Only references sharing fp's algorithm version participate; others are
// silently excluded, since cross-version distances are meaningless. The
// match must be strictly below threshold, and exact ties between categories
// go to the lowest category ID. The tie-break is arbitrary but deterministic.
//
// Match is pure: it never assigns anything itself.
func Match(fp model.Fingerprint, refs map[int64][]model.Fingerprint, threshold float64) (int64, bool) {
	ids := make([]int64, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var bestID int64
	bestDistance := -1.0

	for _, id := range ids {
		for _, ref := range refs[id] {
			d, err := Distance(fp, ref)
			if err != nil {
				// Version or shape mismatch: not a comparison candidate.
				continue
			}
			if bestDistance < 0 || d < bestDistance {
				bestDistance = d
				bestID = id
			}
		}
	}

	if bestDistance < 0 || bestDistance >= threshold {
		return 0, false
	}
	return bestID, true
}
