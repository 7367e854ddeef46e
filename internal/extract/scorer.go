package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/glintfin/glint/internal/model"
)

// Scoring weights and thresholds. These are explicit named constants rather
// than inline literals because they are expected to be tuned from field data
// without changing the shape of the algorithm.
const (
	// WeightProminence rewards visually prominent text; balance figures are
	// almost always the largest number on screen.
	WeightProminence = 0.4
	// WeightConfidence rewards high recognition confidence.
	WeightConfidence = 0.3
	// WeightCurrency rewards an explicit currency symbol or code.
	WeightCurrency = 0.2
	// WeightFormat rewards text shaped like a formatted monetary amount.
	WeightFormat = 0.1

	// MaxConsideredRank is the prominence rank beyond which the prominence
	// term contributes nothing. Lower-ranked candidates are still scored on
	// the remaining terms.
	MaxConsideredRank = 3

	// MinConfidence is the recognition-confidence floor; below it the
	// confidence term contributes nothing.
	MinConfidence = 0.75

	// MinAcceptScore is the total score a candidate must reach to be
	// selected at all.
	MinAcceptScore = 0.6
)

// centsSuffixRe matches text ending in a two-digit decimal fraction.
var centsSuffixRe = regexp.MustCompile(`[.,]\d{2}$`)

// Candidate is a parseable observation together with its parsed amount and
// total suitability score.
type Candidate struct {
	Observation model.TextObservation
	Amount      decimal.Decimal
	Score       float64
}

// SelectBest scores every parseable observation and returns the
// highest-scoring candidate at or above MinAcceptScore. Ties are broken by
// input order, which callers are expected to keep sorted by prominence. The
// second return value is false when no candidate qualifies.
func SelectBest(observations []model.TextObservation) (Candidate, bool) {
	var best Candidate
	found := false

	for _, obs := range observations {
		amount, ok := ParseAmount(obs.Text)
		if !ok {
			continue
		}

		score := Score(obs)
		if score < MinAcceptScore {
			continue
		}

		// Strictly greater keeps the first of equals.
		if !found || score > best.Score {
			best = Candidate{Observation: obs, Amount: amount, Score: score}
			found = true
		}
	}

	return best, found
}

// SelectBestAmount is SelectBest reduced to the parsed amount.
func SelectBestAmount(observations []model.TextObservation) (decimal.Decimal, bool) {
	best, ok := SelectBest(observations)
	if !ok {
		return decimal.Decimal{}, false
	}
	return best.Amount, true
}

// Score computes the weighted suitability score in [0,1] for a single
// observation, without checking that its text actually parses.
func Score(obs model.TextObservation) float64 {
	prominence := 0.0
	if obs.Rank >= 1 {
		prominence = 1.0 - float64(obs.Rank-1)/float64(MaxConsideredRank)
		if prominence < 0 {
			prominence = 0
		}
	}

	confidence := 0.0
	if obs.Confidence >= MinConfidence {
		confidence = obs.Confidence
	}

	currency := 0.0
	if ContainsCurrencyMarker(obs.Text) {
		currency = 1.0
	}

	return WeightProminence*prominence +
		WeightConfidence*confidence +
		WeightCurrency*currency +
		WeightFormat*formatQuality(obs.Text)
}

// formatQuality measures how much the text looks like a formatted monetary
// amount. Additive, capped at 1.0.
func formatQuality(text string) float64 {
	q := 0.0
	if strings.ContainsAny(text, ".,'") {
		q += 0.3
	}
	if centsSuffixRe.MatchString(strings.TrimSpace(stripCurrency(text))) {
		q += 0.4
	}
	if n := digitCount(text); n >= 3 && n <= 12 {
		q += 0.3
	}
	if q > 1.0 {
		q = 1.0
	}
	return q
}

// stripCurrency removes currency markers so a trailing code does not hide a
// two-digit fraction (e.g. "1'234.56 CHF").
func stripCurrency(text string) string {
	s := text
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	return strings.TrimSpace(currencyCodeRe.ReplaceAllString(s, ""))
}

func digitCount(text string) int {
	n := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
