package fingerprint

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	// Screenshot formats accepted at ingest.
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"

	"github.com/glintfin/glint/internal/model"
)

// Generator produces a fingerprint from raw image bytes.
type Generator interface {
	Generate(imageData []byte) (model.Fingerprint, error)
}

// PerceptionGenerator computes 64-bit DCT perceptual hashes. It is cheap and
// fully deterministic, so regenerating on retry is always safe.
type PerceptionGenerator struct{}

// NewPerceptionGenerator returns the default fingerprint generator.
func NewPerceptionGenerator() PerceptionGenerator {
	return PerceptionGenerator{}
}

// Generate decodes the image and computes its perceptual hash.
func (PerceptionGenerator) Generate(imageData []byte) (model.Fingerprint, error) {
	if len(imageData) == 0 {
		return model.Fingerprint{}, fmt.Errorf("image data is empty")
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return model.Fingerprint{}, fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return model.Fingerprint{}, fmt.Errorf("failed to compute perception hash: %w", err)
	}

	fbits := make([]byte, 8)
	binary.BigEndian.PutUint64(fbits, hash.GetHash())

	return model.Fingerprint{Version: Version, Bits: fbits}, nil
}
