package query_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/service/query"
	"google.golang.org/genai"
)

// mockGemini returns canned JSON and counts calls
type mockGemini struct {
	calls    int
	response string
	err      error
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: m.response}},
				},
			},
		},
	}, nil
}

func (m *mockGemini) GenerateSpeech(ctx context.Context, text string) (*genai.GenerateContentResponse, error) {
	return nil, goerr.New("not implemented")
}

func TestMedicationInfo(t *testing.T) {
	mock := &mockGemini{
		response: `{"uses":"Pain relief","sideEffects":"Stomach upset","dosageGuidelines":"325-650mg every 4 hours"}`,
	}
	svc := query.New(mock)

	info, err := svc.MedicationInfo(context.Background(), "Aspirin")
	gt.NoError(t, err)
	gt.Equal(t, info.Uses, "Pain relief")
	gt.Equal(t, info.SideEffects, "Stomach upset")
	gt.Equal(t, info.DosageGuidelines, "325-650mg every 4 hours")
	gt.Equal(t, mock.calls, 1)
}

func TestMedicationInfoEmptyName(t *testing.T) {
	mock := &mockGemini{}
	svc := query.New(mock)

	_, err := svc.MedicationInfo(context.Background(), "   ")
	gt.Error(t, err)
	gt.B(t, model.IsValidation(err)).True()
	gt.Equal(t, mock.calls, 0)
}

func TestMedicationInfoProviderFailure(t *testing.T) {
	mock := &mockGemini{err: goerr.New("rpc deadline exceeded")}
	svc := query.New(mock)

	_, err := svc.MedicationInfo(context.Background(), "Aspirin")
	gt.Error(t, err)
	gt.B(t, model.IsProvider(err)).True()
	// Provider detail must not leak into the user-facing message
	gt.S(t, err.Error()).NotContains("deadline")
	gt.S(t, err.Error()).Contains("Please try again later")
}

func TestMedicationInfoMalformedOutput(t *testing.T) {
	mock := &mockGemini{response: "not json"}
	svc := query.New(mock)

	_, err := svc.MedicationInfo(context.Background(), "Aspirin")
	gt.Error(t, err)
	gt.B(t, model.IsProvider(err)).True()
}

func TestCheckInteractions(t *testing.T) {
	mock := &mockGemini{response: `{"report":"Aspirin and Warfarin both increase bleeding risk."}`}
	svc := query.New(mock)

	report, err := svc.CheckInteractions(context.Background(), []string{"Aspirin", "Warfarin"})
	gt.NoError(t, err)
	gt.S(t, report.Report).Contains("bleeding risk")
	gt.Equal(t, mock.calls, 1)
}

func TestCheckInteractionsTooFew(t *testing.T) {
	mock := &mockGemini{}
	svc := query.New(mock)

	testCases := [][]string{
		nil,
		{},
		{"Aspirin"},
		{"Aspirin", "   "}, // blank entries don't count
	}

	for _, meds := range testCases {
		_, err := svc.CheckInteractions(context.Background(), meds)
		gt.Error(t, err)
		gt.B(t, model.IsValidation(err)).True()
	}
	gt.Equal(t, mock.calls, 0)
}

func TestAnalyzeDocument(t *testing.T) {
	mock := &mockGemini{response: `{"analysis":"Prescription for Amoxicillin 500mg, three times daily."}`}
	svc := query.New(mock)

	result, err := svc.AnalyzeDocument(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	gt.NoError(t, err)
	gt.S(t, result.Analysis).Contains("Amoxicillin")
	gt.Equal(t, mock.calls, 1)
}

func TestAnalyzeDocumentEmptyImage(t *testing.T) {
	mock := &mockGemini{}
	svc := query.New(mock)

	_, err := svc.AnalyzeDocument(context.Background(), nil, "image/png")
	gt.Error(t, err)
	gt.B(t, model.IsValidation(err)).True()
	gt.Equal(t, mock.calls, 0)
}
