package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/server"
	"github.com/medassist-app/medassist/pkg/usecase/document"
	"github.com/medassist-app/medassist/pkg/usecase/interaction"
	"github.com/medassist-app/medassist/pkg/usecase/medication"
)

type mockQueries struct {
	infoCalls int
}

func (m *mockQueries) MedicationInfo(ctx context.Context, name string) (*model.MedicationInfo, error) {
	m.infoCalls++
	return &model.MedicationInfo{
		Uses:             "Uses of " + name,
		SideEffects:      "Side effects of " + name,
		DosageGuidelines: "Dosage of " + name,
	}, nil
}

func (m *mockQueries) CheckInteractions(ctx context.Context, medications []string) (*model.InteractionReport, error) {
	return &model.InteractionReport{Report: "Report for " + strings.Join(medications, " + ")}, nil
}

func (m *mockQueries) AnalyzeDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentAnalysis, error) {
	return &model.DocumentAnalysis{Analysis: "Analysis of uploaded document"}, nil
}

type mockTranslator struct{}

func (mockTranslator) TranslateFields(ctx context.Context, target string, fields []string) ([]string, error) {
	translated := make([]string, len(fields))
	for i, f := range fields {
		translated[i] = "[" + target + "] " + f
	}
	return translated, nil
}

type mockSynthesizer struct{}

func (mockSynthesizer) Synthesize(ctx context.Context, text string) (*model.SpeechPayload, error) {
	return &model.SpeechPayload{AudioDataURI: "data:audio/wav;base64,AAAA"}, nil
}

func newTestServer(t *testing.T) (*server.Server, *repository.Memory) {
	t.Helper()

	queries := &mockQueries{}
	repo := repository.NewMemory()
	settings := model.NewSettings()

	srv := server.New(server.Input{
		Medication: medication.New(medication.Input{
			Queries:     queries,
			Translator:  mockTranslator{},
			Synthesizer: mockSynthesizer{},
			Repo:        repo,
			Settings:    settings,
		}),
		Interaction: interaction.New(interaction.Input{
			Queries:    queries,
			Translator: mockTranslator{},
			Repo:       repo,
			Settings:   settings,
		}),
		Document: document.New(document.Input{
			Queries:    queries,
			Translator: mockTranslator{},
			Repo:       repo,
			Settings:   settings,
		}),
		Repo:     repo,
		Settings: settings,
	})

	return srv, repo
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains(`"status":"ok"`)
}

func TestMedicationLookup(t *testing.T) {
	srv, repo := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/medications", strings.NewReader(`{"name":"Aspirin"}`))
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusOK)

	var resp struct {
		Result     *model.MedicationInfo `json:"result"`
		Disclaimer string                `json:"disclaimer"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Equal(t, resp.Result.Uses, "Uses of Aspirin")
	gt.S(t, resp.Disclaimer).Contains("healthcare professional")

	items, _ := repo.ListHistory(context.Background())
	gt.A(t, items).Length(1)
	gt.Equal(t, items[0].Type, model.QueryTypeInfo)
}

func TestMedicationLookupEmptyName(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/medications", strings.NewReader(`{"name":""}`))
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusBadRequest)
	gt.S(t, rec.Body.String()).Contains("validation_error")
}

func TestInteractionCheck(t *testing.T) {
	srv, repo := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/interactions",
		strings.NewReader(`{"medications":["Aspirin","Warfarin"]}`))
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains("Report for Aspirin + Warfarin")

	items, _ := repo.ListHistory(context.Background())
	gt.A(t, items).Length(1)
	gt.Equal(t, items[0].Query, []string{"Aspirin", "Warfarin"})
}

func TestInteractionCheckTooFew(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/interactions",
		strings.NewReader(`{"medications":["Aspirin"]}`))
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestInteractionCheckDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/interactions",
		strings.NewReader(`{"medications":["Aspirin","aspirin"]}`))
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusBadRequest)
	gt.S(t, rec.Body.String()).Contains("already in the list")
}

func TestInteractionCheckConcurrentRequests(t *testing.T) {
	srv, repo := newTestServer(t)
	handler := srv.Handler()

	bodies := []string{
		`{"medications":["Aspirin","Warfarin"]}`,
		`{"medications":["Ibuprofen","Naproxen"]}`,
	}
	want := []string{
		"Report for Aspirin + Warfarin",
		"Report for Ibuprofen + Naproxen",
	}

	var wg sync.WaitGroup
	recs := make([]*httptest.ResponseRecorder, len(bodies))
	for i, body := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs[i] = httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/interactions", strings.NewReader(body))
			handler.ServeHTTP(recs[i], req)
		}()
	}
	wg.Wait()

	// Each response is computed over its own request's medications, never
	// another in-flight request's list
	for i := range bodies {
		gt.Equal(t, recs[i].Code, http.StatusOK)
		gt.S(t, recs[i].Body.String()).Contains(want[i])
	}

	items, _ := repo.ListHistory(context.Background())
	gt.A(t, items).Length(2)
	recorded := map[string]bool{}
	for _, item := range items {
		recorded[strings.Join(item.Query, "+")] = true
	}
	gt.B(t, recorded["Aspirin+Warfarin"]).True()
	gt.B(t, recorded["Ibuprofen+Naproxen"]).True()
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	gt.NoError(t, err)
	_, err = part.Write(data)
	gt.NoError(t, err)
	gt.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func TestDocumentAnalyze(t *testing.T) {
	srv, repo := newTestServer(t)

	body, contentType := multipartUpload(t, "prescription.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains("Analysis of uploaded document")

	items, _ := repo.ListHistory(context.Background())
	gt.A(t, items).Length(1)
	gt.Equal(t, items[0].Query, []string{"prescription.png"})
}

func TestDocumentAnalyzeWrongType(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "doc.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestDocumentAnalyzeBodyTooLarge(t *testing.T) {
	srv, _ := newTestServer(t)

	// Past the body cap the multipart parse aborts; the response must carry
	// the same too-large message SetFile would give
	oversized := bytes.Repeat([]byte{0xAB}, document.MaxFileSize+(128<<10))
	body, contentType := multipartUpload(t, "scan.png", "image/png", oversized)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	gt.Equal(t, rec.Code, http.StatusBadRequest)
	gt.S(t, rec.Body.String()).Contains("File is too large")
}

func TestHistoryListAndClear(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	gt.NoError(t, repo.PutHistory(ctx, model.NewHistoryItem(model.QueryTypeInfo, "Aspirin")))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	gt.Equal(t, rec.Code, http.StatusOK)

	var items []*model.HistoryItem
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	gt.A(t, items).Length(1)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history", nil))
	gt.Equal(t, rec.Code, http.StatusNoContent)

	remaining, _ := repo.ListHistory(ctx)
	gt.A(t, remaining).Length(0)
}

func TestLocaleRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locale", nil))
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains(`"locale":"en"`)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/locale", strings.NewReader(`{"locale":"fr"}`))
	srv.Handler().ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusOK)

	// Subsequent lookups translate through the shared settings
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/medications", strings.NewReader(`{"name":"Aspirin"}`))
	srv.Handler().ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.S(t, rec.Body.String()).Contains("[French] Uses of Aspirin")
}

func TestLocaleSetInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/locale", strings.NewReader(`{"locale":"xx"}`))
	srv.Handler().ServeHTTP(rec, req)
	gt.Equal(t, rec.Code, http.StatusBadRequest)
}
