// Package fingerprint computes and compares perceptual fingerprints of
// screenshots. Matching is training-free: every categorized snapshot's
// fingerprint doubles as a reference for its category.
package fingerprint

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/glintfin/glint/internal/model"
)

// Version tags fingerprints produced by the current algorithm (64-bit DCT
// perceptual hash). Fingerprints carrying a different version are never
// compared against it; there is deliberately no migration path for old
// fingerprints when this changes.
const Version = "dct64/1"

// ErrVersionMismatch indicates an attempt to compare fingerprints produced
// by different algorithm versions.
var ErrVersionMismatch = errors.New("fingerprint algorithm versions differ")

// Distance returns the normalized Hamming distance between two same-version
// fingerprints: 0 means identical, 1 means every bit differs.
func Distance(a, b model.Fingerprint) (float64, error) {
	if a.Version != b.Version {
		return 0, fmt.Errorf("%w: %q vs %q", ErrVersionMismatch, a.Version, b.Version)
	}
	if len(a.Bits) != len(b.Bits) || len(a.Bits) == 0 {
		return 0, fmt.Errorf("fingerprint lengths differ or are empty: %d vs %d", len(a.Bits), len(b.Bits))
	}

	differing := 0
	for i := range a.Bits {
		differing += bits.OnesCount8(a.Bits[i] ^ b.Bits[i])
	}
	return float64(differing) / float64(len(a.Bits)*8), nil
}
