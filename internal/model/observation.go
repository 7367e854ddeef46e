package model

import "fmt"

// TextObservation is one piece of text recognized on a screenshot, together
// with the recognizer's confidence and a prominence rank derived from
// relative text size. Rank 1 is the most visually prominent element.
type TextObservation struct {
	Text       string
	Confidence float64
	Rank       int
}

// Validate checks that the observation's fields are within their documented
// ranges.
func (o TextObservation) Validate() error {
	if o.Text == "" {
		return fmt.Errorf("observation text is required")
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", o.Confidence)
	}
	if o.Rank < 1 {
		return fmt.Errorf("prominence rank must be >= 1, got %d", o.Rank)
	}
	return nil
}
