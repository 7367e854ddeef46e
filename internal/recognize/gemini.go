package recognize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/glintfin/glint/internal/common"
	"github.com/glintfin/glint/internal/model"
)

const recognizePrompt = `You are reading a screenshot of a banking or finance app.
List every distinct piece of text you can read, ordered from most to least
visually prominent (largest and boldest first).

Return ONLY a JSON array, no markdown, no commentary:
[
  {"text": "the exact text as shown", "confidence": 0.0-1.0, "rank": 1}
]

Rules:
- rank 1 is the most prominent element, rank 2 the next, and so on
- preserve the text exactly, including currency symbols and separators
- confidence is how certain you are that you read the text correctly
- include at most 15 elements`

// Gemini implements Recognizer using Google Gemini vision.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed recognizer.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Recognize sends the screenshot to Gemini and parses the ranked
// observations from its response.
func (g *Gemini) Recognize(ctx context.Context, imageData []byte) ([]model.TextObservation, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	parts := []genai.Part{
		genai.ImageData(imageFormat(imageData), imageData),
		genai.Text(recognizePrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", common.ErrRecognitionFailed)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	observations, err := parseObservations(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing observations: %w", err)
	}
	return observations, nil
}

// Close closes the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// imageFormat sniffs the genai format suffix from magic bytes.
func imageFormat(data []byte) string {
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg"
	}
	return "png"
}
