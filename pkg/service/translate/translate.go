// Package translate wraps the translation call and its per-field fan-out.
// Translation is all-or-nothing per request: when any field of a result
// fails to translate, the caller keeps the untranslated original.
package translate

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/adapter"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

const translateErrMsg = "An unexpected error occurred while translating the text. Please try again later."

type Service struct {
	gemini adapter.Gemini
}

func New(gemini adapter.Gemini) *Service {
	return &Service{gemini: gemini}
}

func ptrFloat32(v float32) *float32 { return &v }

// Translate converts text into the target language, named by its display
// name (e.g. "French").
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", model.NewValidationError("text to translate must not be empty")
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return "", model.NewValidationError("target language must not be empty")
	}

	prompt := "Translate the following text to " + targetLanguage + ". " +
		"Preserve the meaning and tone. Return only the translation.\n\n" + text

	config := &genai.GenerateContentConfig{
		Temperature:      ptrFloat32(0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"translatedText": {
					Type:        genai.TypeString,
					Description: "The translated text",
				},
			},
			Required: []string{"translatedText"},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logging.From(ctx).Error("translation failed", "error", err, "target", targetLanguage)
		return "", model.NewProviderError(translateErrMsg, goerr.V("target", targetLanguage))
	}

	text, err = decodeTranslation(resp)
	if err != nil {
		logging.From(ctx).Error("translation response malformed", "error", err, "target", targetLanguage)
		return "", model.NewProviderError(translateErrMsg, goerr.V("target", targetLanguage))
	}

	return text, nil
}

// TranslateFields translates every field in parallel. It returns the
// translated fields in input order, or an error if any single call failed;
// partial results are never returned.
func (s *Service) TranslateFields(ctx context.Context, targetLanguage string, fields []string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	translated := make([]string, len(fields))
	g, gCtx := errgroup.WithContext(ctx)

	for i, field := range fields {
		g.Go(func() error {
			out, err := s.Translate(gCtx, field, targetLanguage)
			if err != nil {
				return err
			}
			translated[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return translated, nil
}

func decodeTranslation(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("empty response from model")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text == "" {
			continue
		}
		var out struct {
			TranslatedText string `json:"translatedText"`
		}
		if err := json.Unmarshal([]byte(part.Text), &out); err != nil {
			return "", goerr.Wrap(err, "malformed translation output")
		}
		if out.TranslatedText == "" {
			return "", goerr.New("empty translation in response")
		}
		return out.TranslatedText, nil
	}

	return "", goerr.New("no text part in response")
}
