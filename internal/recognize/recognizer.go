// Package recognize defines the text-recognition boundary: given a
// screenshot, produce ranked text observations. The recognizer is a black
// box to the rest of the pipeline; the only assumptions made about it are
// the shape of its output.
package recognize

import (
	"context"

	"github.com/glintfin/glint/internal/model"
)

// Recognizer extracts text observations from an image. Implementations must
// return observations ordered by visual prominence (rank 1 first).
type Recognizer interface {
	Recognize(ctx context.Context, imageData []byte) ([]model.TextObservation, error)
}
