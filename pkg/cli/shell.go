package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/service/query"
	"github.com/medassist-app/medassist/pkg/service/speech"
	"github.com/medassist-app/medassist/pkg/service/translate"
	"github.com/medassist-app/medassist/pkg/usecase/document"
	"github.com/medassist-app/medassist/pkg/usecase/interaction"
	"github.com/medassist-app/medassist/pkg/usecase/medication"
)

// shell bundles the three feature orchestrators with the state they share.
type shell struct {
	medication  *medication.Orchestrator
	interaction *interaction.Orchestrator
	document    *document.Orchestrator
	repo        repository.Repository
	settings    *model.Settings
}

// newShell wires adapters, services and orchestrators from the configuration.
func (cfg *config) newShell(ctx context.Context) (*shell, error) {
	settings, err := cfg.newSettings()
	if err != nil {
		return nil, err
	}

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	archive, err := cfg.newStorage(ctx)
	if err != nil {
		return nil, err
	}

	queries := query.New(gemini)
	translator := translate.New(gemini)
	synthesizer := speech.New(gemini)

	s := &shell{
		repo:     repo,
		settings: settings,
	}
	s.medication = medication.New(medication.Input{
		Queries:     queries,
		Translator:  translator,
		Synthesizer: synthesizer,
		Repo:        repo,
		Settings:    settings,
	})
	s.interaction = interaction.New(interaction.Input{
		Queries:    queries,
		Translator: translator,
		Repo:       repo,
		Settings:   settings,
	})
	s.document = document.New(document.Input{
		Queries:    queries,
		Translator: translator,
		Repo:       repo,
		Archive:    archive,
		Settings:   settings,
	})

	return s, nil
}

// close releases repository resources when the backing store supports it.
func (s *shell) close() error {
	type closer interface{ Close() error }
	if c, ok := s.repo.(closer); ok {
		if err := c.Close(); err != nil {
			return goerr.Wrap(err, "failed to close repository")
		}
	}
	return nil
}
