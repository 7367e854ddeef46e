package extract

import (
	"testing"

	"github.com/glintfin/glint/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name         string
		observations []model.TextObservation
		wantText     string
		wantAmount   string
		wantOK       bool
	}{
		{
			name: "prominent currency-marked amount wins",
			observations: []model.TextObservation{
				{Text: "$1,234.56", Confidence: 0.95, Rank: 1},
				{Text: "$99.00", Confidence: 0.95, Rank: 2},
			},
			wantText:   "$1,234.56",
			wantAmount: "1234.56",
			wantOK:     true,
		},
		{
			name: "unparseable top element is skipped",
			observations: []model.TextObservation{
				{Text: "My Checking Account", Confidence: 0.99, Rank: 1},
				{Text: "2.345,00 EUR", Confidence: 0.9, Rank: 2},
			},
			wantText:   "2.345,00 EUR",
			wantAmount: "2345.00",
			wantOK:     true,
		},
		{
			name: "low scoring stray number rejected",
			observations: []model.TextObservation{
				{Text: "1234", Confidence: 0.5, Rank: 8},
			},
			wantOK: false,
		},
		{
			name:         "no observations",
			observations: nil,
			wantOK:       false,
		},
		{
			name: "tie broken by input order",
			observations: []model.TextObservation{
				{Text: "$45.00", Confidence: 0.9, Rank: 1},
				{Text: "$45.00", Confidence: 0.9, Rank: 1},
			},
			wantText:   "$45.00",
			wantAmount: "45.00",
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := SelectBest(tt.observations)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantText, best.Observation.Text)
			assert.Equal(t, tt.wantAmount, best.Amount.StringFixed(2))
			assert.GreaterOrEqual(t, best.Score, MinAcceptScore)
		})
	}
}

func TestScore_Components(t *testing.T) {
	base := model.TextObservation{Text: "1,234.56", Confidence: 0.9, Rank: 1}

	t.Run("currency marker adds weight", func(t *testing.T) {
		marked := base
		marked.Text = "$1,234.56"
		assert.InDelta(t, WeightCurrency, Score(marked)-Score(base), 1e-9)
	})

	t.Run("prominence decays with rank", func(t *testing.T) {
		second := base
		second.Rank = 2
		third := base
		third.Rank = 3
		assert.Greater(t, Score(base), Score(second))
		assert.Greater(t, Score(second), Score(third))
	})

	t.Run("prominence bottoms out past considered ranks", func(t *testing.T) {
		far := base
		far.Rank = MaxConsideredRank + 1
		farther := base
		farther.Rank = MaxConsideredRank + 5
		assert.InDelta(t, Score(far), Score(farther), 1e-9)
	})

	t.Run("confidence below floor contributes nothing", func(t *testing.T) {
		low := base
		low.Confidence = MinConfidence - 0.01
		lower := base
		lower.Confidence = 0.1
		assert.InDelta(t, Score(low), Score(lower), 1e-9)
	})

	t.Run("score stays within unit range", func(t *testing.T) {
		perfect := model.TextObservation{Text: "$1,234.56", Confidence: 1.0, Rank: 1}
		s := Score(perfect)
		assert.Greater(t, s, 0.9)
		assert.LessOrEqual(t, s, 1.0)
	})
}

func TestSelectBestAmount(t *testing.T) {
	amount, ok := SelectBestAmount([]model.TextObservation{
		{Text: "$45.00", Confidence: 0.9, Rank: 1},
	})
	require.True(t, ok)
	assert.Equal(t, "45.00", amount.StringFixed(2))

	_, ok = SelectBestAmount(nil)
	assert.False(t, ok)
}
