// Package query wraps the generative-model calls behind the three assistant
// features. Each operation validates its preconditions locally, makes exactly
// one provider call, and normalizes any provider failure into a generic
// user-facing message. The original failure detail is logged, never surfaced.
package query

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/adapter"
	"google.golang.org/genai"
)

type Service struct {
	gemini adapter.Gemini
}

func New(gemini adapter.Gemini) *Service {
	return &Service{gemini: gemini}
}

func ptrFloat32(v float32) *float32 { return &v }

// structuredConfig builds a GenerateContentConfig that forces JSON output
// matching the given object schema.
func structuredConfig(properties map[string]*genai.Schema, required []string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      ptrFloat32(0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: properties,
			Required:   required,
		},
	}
}

// responseText extracts the first text part of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("empty response from model")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", goerr.New("no text part in response")
}

// decodeResponse unmarshals the candidate text into out.
func decodeResponse(resp *genai.GenerateContentResponse, out any) error {
	text, err := responseText(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return goerr.Wrap(err, "malformed model output", goerr.V("text", text))
	}
	return nil
}
