package model

import "bytes"

// Fingerprint is a perceptual feature vector summarizing a screenshot's
// visual appearance, tagged with the algorithm version that produced it.
// Fingerprints from different algorithm versions are never comparable and
// the two fields are always persisted as a unit.
type Fingerprint struct {
	Version string
	Bits    []byte
}

// Equal reports whether two fingerprints have the same version and bits.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Version == other.Version && bytes.Equal(f.Bits, other.Bits)
}
