package query

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/utils/logging"
	"google.golang.org/genai"
)

const interactionErrMsg = "An unexpected error occurred while checking drug interactions. Please try again later."

// CheckInteractions reports potential interactions among two or more
// medications.
func (s *Service) CheckInteractions(ctx context.Context, medications []string) (*model.InteractionReport, error) {
	names := make([]string, 0, len(medications))
	for _, m := range medications {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) < 2 {
		return nil, model.NewValidationError("at least two medication names are required",
			goerr.V("count", len(names)))
	}

	prompt := "You are a pharmaceutical information assistant. Analyze potential " +
		"interactions among the following medications: " + strings.Join(names, ", ") + ".\n\n" +
		"Describe known interactions between any pair, their severity, and general " +
		"precautions. If no significant interactions are known, say so. Do not give " +
		"personal medical advice."

	config := structuredConfig(map[string]*genai.Schema{
		"report": {
			Type:        genai.TypeString,
			Description: "Interaction report covering the listed medications",
		},
	}, []string{"report"})

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logging.From(ctx).Error("interaction query failed", "error", err, "medications", names)
		return nil, model.NewProviderError(interactionErrMsg, goerr.V("medications", names))
	}

	var report model.InteractionReport
	if err := decodeResponse(resp, &report); err != nil {
		logging.From(ctx).Error("interaction response malformed", "error", err, "medications", names)
		return nil, model.NewProviderError(interactionErrMsg, goerr.V("medications", names))
	}

	return &report, nil
}
