package query

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/utils/logging"
	"google.golang.org/genai"
)

const documentErrMsg = "An unexpected error occurred while analyzing the document. Please try again later."

// AnalyzeDocument extracts and explains the content of an uploaded medical
// document image (prescription, label, report).
func (s *Service) AnalyzeDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentAnalysis, error) {
	if len(image) == 0 {
		return nil, model.NewValidationError("document image must not be empty")
	}
	if mimeType == "" {
		return nil, model.NewValidationError("document image type is required")
	}

	prompt := "You are a pharmaceutical information assistant. The attached image is a " +
		"medical document such as a prescription, medication label, or lab report.\n\n" +
		"Summarize what the document contains, list any medications mentioned with " +
		"their dosages, and explain any instructions in plain language. Do not give " +
		"personal medical advice."

	config := structuredConfig(map[string]*genai.Schema{
		"analysis": {
			Type:        genai.TypeString,
			Description: "Plain-language analysis of the document",
		},
	}, []string{"analysis"})

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logging.From(ctx).Error("document analysis failed", "error", err, "mime_type", mimeType)
		return nil, model.NewProviderError(documentErrMsg, goerr.V("mime_type", mimeType))
	}

	var analysis model.DocumentAnalysis
	if err := decodeResponse(resp, &analysis); err != nil {
		logging.From(ctx).Error("document analysis response malformed", "error", err)
		return nil, model.NewProviderError(documentErrMsg)
	}

	return &analysis, nil
}
