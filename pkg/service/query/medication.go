package query

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/utils/logging"
	"google.golang.org/genai"
)

const medicationInfoErrMsg = "An unexpected error occurred while fetching medication information. Please try again later."

// MedicationInfo looks up uses, side effects and dosage guidelines for a
// single medication name.
func (s *Service) MedicationInfo(ctx context.Context, name string) (*model.MedicationInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewValidationError("medication name must not be empty")
	}

	prompt := "You are a pharmaceutical information assistant. Provide factual, " +
		"consumer-friendly information about the medication \"" + name + "\".\n\n" +
		"Describe its common uses, its known side effects, and its typical dosage " +
		"guidelines. Do not give personal medical advice."

	config := structuredConfig(map[string]*genai.Schema{
		"uses": {
			Type:        genai.TypeString,
			Description: "Common uses of the medication",
		},
		"sideEffects": {
			Type:        genai.TypeString,
			Description: "Known side effects of the medication",
		},
		"dosageGuidelines": {
			Type:        genai.TypeString,
			Description: "Typical dosage guidelines for the medication",
		},
	}, []string{"uses", "sideEffects", "dosageGuidelines"})

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := s.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logging.From(ctx).Error("medication info query failed", "error", err, "medication", name)
		return nil, model.NewProviderError(medicationInfoErrMsg, goerr.V("medication", name))
	}

	var info model.MedicationInfo
	if err := decodeResponse(resp, &info); err != nil {
		logging.From(ctx).Error("medication info response malformed", "error", err, "medication", name)
		return nil, model.NewProviderError(medicationInfoErrMsg, goerr.V("medication", name))
	}

	return &info, nil
}
