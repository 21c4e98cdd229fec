// Package server exposes the assistant shell over HTTP: the three feature
// orchestrators, the shared locale, and the history sidebar.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/usecase/document"
	"github.com/medassist-app/medassist/pkg/usecase/interaction"
	"github.com/medassist-app/medassist/pkg/usecase/medication"
)

// Uploads are rejected client-side above 5MB; the reader cap is slightly
// higher to leave room for multipart framing.
const maxUploadBodySize = document.MaxFileSize + (64 << 10)

type Server struct {
	medication  *medication.Orchestrator
	interaction *interaction.Orchestrator
	document    *document.Orchestrator
	repo        repository.Repository
	settings    *model.Settings
}

type Input struct {
	Medication  *medication.Orchestrator
	Interaction *interaction.Orchestrator
	Document    *document.Orchestrator
	Repo        repository.Repository
	Settings    *model.Settings
}

func New(input Input) *Server {
	return &Server{
		medication:  input.Medication,
		interaction: input.Interaction,
		document:    input.Document,
		repo:        input.Repo,
		settings:    input.Settings,
	}
}

// Handler returns the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", handleHealth)

	r.Post("/api/medications", s.handleMedicationLookup)
	r.Get("/api/medications/audio", s.handleMedicationAudio)

	r.Post("/api/interactions", s.handleInteractionCheck)

	r.Post("/api/documents", s.handleDocumentAnalyze)

	r.Get("/api/history", s.handleHistoryList)
	r.Delete("/api/history", s.handleHistoryClear)

	r.Get("/api/locale", s.handleLocaleGet)
	r.Put("/api/locale", s.handleLocaleSet)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
