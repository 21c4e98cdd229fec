package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/adapter"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Adapters
	geminiProject  string
	geminiLocation string
	geminiModel    string
	voice          string
	bucket         string

	// Shell
	locale     string
	localeFile string
	logLevel   string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore history (in-memory when unset)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "locale",
			Aliases:     []string{"l"},
			Usage:       "Active locale for translated output and voice input",
			Value:       string(model.LocaleDefault),
			Sources:     cli.EnvVars("MEDASSIST_LOCALE"),
			Destination: &cfg.locale,
		},
		&cli.StringFlag{
			Name:        "locale-config",
			Usage:       "Path to YAML file overriding locale names and speech tags",
			Sources:     cli.EnvVars("MEDASSIST_LOCALE_CONFIG"),
			Destination: &cfg.localeFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("MEDASSIST_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Generative model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "voice",
			Usage:       "Prebuilt voice name for narration",
			Sources:     cli.EnvVars("MEDASSIST_VOICE"),
			Destination: &cfg.voice,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for archiving analyzed documents (disabled when unset)",
			Sources:     cli.EnvVars("MEDASSIST_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// setupLogger installs the configured log level as the default logger
func (cfg *config) setupLogger() {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))
}

// newSettings builds the shared shell settings from the locale flags
func (cfg *config) newSettings() (*model.Settings, error) {
	if cfg.localeFile != "" {
		if err := model.LoadLocales(cfg.localeFile); err != nil {
			return nil, err
		}
	}

	locale, err := model.ParseLocale(cfg.locale)
	if err != nil {
		return nil, err
	}

	settings := model.NewSettings()
	settings.SetLocale(locale)
	return settings, nil
}

// newRepository creates a repository: Firestore when a project is set,
// in-memory otherwise
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		logging.From(ctx).Debug("no project configured, history is in-memory only")
		return repository.NewMemory(), nil
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}
	if cfg.voice != "" {
		opts = append(opts, adapter.WithVoice(cfg.voice))
	}

	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newStorage creates the optional document archive; nil when no bucket is set
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
