package recognize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/glintfin/glint/internal/common"
	"github.com/glintfin/glint/internal/model"
)

// parseObservations parses the model's JSON response into observations.
// Responses are sometimes wrapped in markdown fences or surrounded by prose,
// so the array is located by its brackets before unmarshaling.
func parseObservations(text string) ([]model.TextObservation, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "[")
	endIdx := strings.LastIndex(text, "]")
	if startIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	text = text[startIdx : endIdx+1]

	var raw []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		Rank       int     `json:"rank"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	observations := make([]model.TextObservation, 0, len(raw))
	for i, r := range raw {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}

		obs := model.TextObservation{
			Text:       r.Text,
			Confidence: clamp01(r.Confidence),
			Rank:       r.Rank,
		}
		// Models occasionally omit or repeat ranks; fall back to list order.
		if obs.Rank < 1 {
			obs.Rank = i + 1
		}
		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, common.ErrNoObservations
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Rank < observations[j].Rank
	})
	return observations, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
