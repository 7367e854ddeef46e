package engine

import (
	"context"

	"github.com/glintfin/glint/internal/model"
)

// Recognizer extracts ranked text observations from a screenshot. The engine
// makes no assumptions about the implementation beyond the output shape.
type Recognizer interface {
	Recognize(ctx context.Context, imageData []byte) ([]model.TextObservation, error)
}

// Generator computes a perceptual fingerprint from raw image bytes.
type Generator interface {
	Generate(imageData []byte) (model.Fingerprint, error)
}
