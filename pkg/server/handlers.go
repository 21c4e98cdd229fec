package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/usecase/document"
	"github.com/medassist-app/medassist/pkg/usecase/interaction"
	"github.com/medassist-app/medassist/pkg/utils/logging"
)

const maxJSONBodySize = 1 << 20

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func httpError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{Type: errType, Message: message},
	})
}

// writeUsecaseError maps the two error kinds onto HTTP statuses: validation
// failures are the client's fault, provider failures are the upstream's.
func writeUsecaseError(w http.ResponseWriter, err error) {
	if model.IsValidation(err) {
		httpError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	httpError(w, http.StatusBadGateway, "provider_error", err.Error())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleMedicationLookup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body")
		return
	}

	info, err := s.medication.Lookup(r.Context(), req.Name)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, struct {
		Result     *model.MedicationInfo `json:"result"`
		Disclaimer string                `json:"disclaimer"`
	}{Result: info, Disclaimer: model.Disclaimer})
}

func (s *Server) handleMedicationAudio(w http.ResponseWriter, r *http.Request) {
	audio := s.medication.Audio()
	if audio == nil {
		// Narration may still be in flight; the client can poll
		httpError(w, http.StatusNotFound, "not_ready", "Audio narration is not ready yet.")
		return
	}
	writeJSON(w, audio)
}

func (s *Server) handleInteractionCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req struct {
		Medications []string `json:"medications"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body")
		return
	}

	// The list stays request-scoped: concurrent checks must not stage onto
	// the shared orchestrator and bleed into each other.
	medications, err := interaction.BuildList(req.Medications)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	report, err := s.interaction.CheckList(r.Context(), medications)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, struct {
		Result     *model.InteractionReport `json:"result"`
		Disclaimer string                   `json:"disclaimer"`
	}{Result: report, Disclaimer: model.Disclaimer})
}

func (s *Server) handleDocumentAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpError(w, http.StatusBadRequest, "validation_error", document.MsgFileTooLarge)
			return
		}
		httpError(w, http.StatusBadRequest, "invalid_request_error", "a document image upload is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "failed to read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if err := s.document.SetFile(r.Context(), header.Filename, mimeType, data); err != nil {
		writeUsecaseError(w, err)
		return
	}

	analysis, err := s.document.Analyze(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, struct {
		Result     *model.DocumentAnalysis `json:"result"`
		Disclaimer string                  `json:"disclaimer"`
	}{Result: analysis, Disclaimer: model.Disclaimer})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.ListHistory(r.Context())
	if err != nil {
		logging.From(r.Context()).Error("failed to list history", "error", err)
		httpError(w, http.StatusInternalServerError, "internal_error", "failed to list history")
		return
	}
	if items == nil {
		items = []*model.HistoryItem{}
	}
	writeJSON(w, items)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.ClearHistory(r.Context()); err != nil {
		logging.From(r.Context()).Error("failed to clear history", "error", err)
		httpError(w, http.StatusInternalServerError, "internal_error", "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLocaleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Locale    model.Locale   `json:"locale"`
		Available []model.Locale `json:"available"`
	}{Locale: s.settings.Locale(), Available: model.Locales()})
}

func (s *Server) handleLocaleSet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req struct {
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body")
		return
	}

	locale, err := model.ParseLocale(req.Locale)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	s.settings.SetLocale(locale)
	writeJSON(w, struct {
		Locale model.Locale `json:"locale"`
	}{Locale: locale})
}
