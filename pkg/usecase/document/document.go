// Package document implements the document-analyzer orchestrator: local
// file validation, the analysis call, optional translation, history
// recording, and optional archival of the uploaded image.
package document

import (
	"bytes"
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/adapter"
	"github.com/medassist-app/medassist/pkg/interfaces"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/utils/logging"
)

type QueryService interface {
	AnalyzeDocument(ctx context.Context, image []byte, mimeType string) (*model.DocumentAnalysis, error)
}

type Translator interface {
	TranslateFields(ctx context.Context, targetLanguage string, fields []string) ([]string, error)
}

// MaxFileSize is the client-side upload limit; oversized files never reach
// the adapter.
const MaxFileSize = 5 << 20

const (
	msgBusy          = "A request is already in progress."
	msgTranslateFail = "Could not translate the analysis. Showing the original text."
	msgNoFile        = "Please select a document image to analyze."
	msgBadType       = "Unsupported file type. Please upload a PNG, JPEG, or WebP image."
)

// MsgFileTooLarge is shared with the HTTP edge, which caps the request body
// and must report oversized uploads with the same message as SetFile.
const MsgFileTooLarge = "File is too large. Please upload an image smaller than 5MB."

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

type upload struct {
	filename string
	mimeType string
	data     []byte
}

// Orchestrator owns the document-analyzer feature state.
type Orchestrator struct {
	queries    QueryService
	translator Translator
	repo       repository.Repository
	archive    adapter.Storage
	notifier   interfaces.Notifier
	settings   *model.Settings

	mu         sync.Mutex
	submitting bool
	pending    *upload
	result     *model.DocumentAnalysis
}

type Input struct {
	Queries    QueryService
	Translator Translator
	Repo       repository.Repository
	Settings   *model.Settings

	// Archive is optional; when set, analyzed images are stored for recall
	Archive  adapter.Storage
	Notifier interfaces.Notifier
}

func New(input Input) *Orchestrator {
	o := &Orchestrator{
		queries:    input.Queries,
		translator: input.Translator,
		repo:       input.Repo,
		archive:    input.Archive,
		settings:   input.Settings,
		notifier:   input.Notifier,
	}
	if o.notifier == nil {
		o.notifier = interfaces.LogNotifier{}
	}
	return o
}

// SetFile validates and stages an uploaded image. Wrong-type or oversized
// files are rejected locally with a notification and never reach the
// adapter.
func (o *Orchestrator) SetFile(ctx context.Context, filename, mimeType string, data []byte) error {
	if len(data) == 0 {
		return model.NewValidationError(msgNoFile)
	}
	if !allowedTypes[mimeType] {
		o.notifier.Notify(ctx, interfaces.NotifyError, msgBadType)
		return model.NewValidationError(msgBadType, goerr.V("mime_type", mimeType))
	}
	if len(data) > MaxFileSize {
		o.notifier.Notify(ctx, interfaces.NotifyError, MsgFileTooLarge)
		return model.NewValidationError(MsgFileTooLarge, goerr.V("size", len(data)))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = &upload{filename: filename, mimeType: mimeType, data: data}
	return nil
}

// Analyze runs one submission cycle over the staged upload.
func (o *Orchestrator) Analyze(ctx context.Context) (*model.DocumentAnalysis, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return nil, model.NewValidationError(msgBusy)
	}
	if o.pending == nil {
		o.mu.Unlock()
		err := model.NewValidationError(msgNoFile)
		o.notifier.Notify(ctx, interfaces.NotifyError, msgNoFile)
		return nil, err
	}
	o.submitting = true
	o.result = nil
	file := o.pending
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	analysis, err := o.queries.AnalyzeDocument(ctx, file.data, file.mimeType)
	if err != nil {
		o.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
		return nil, err
	}

	if locale := o.settings.Locale(); !locale.IsDefault() {
		translated, terr := o.translator.TranslateFields(ctx, locale.DisplayName(), []string{analysis.Analysis})
		if terr != nil {
			o.notifier.Notify(ctx, interfaces.NotifyError, msgTranslateFail)
		} else {
			analysis = &model.DocumentAnalysis{Analysis: translated[0]}
		}
	}

	o.mu.Lock()
	o.result = analysis
	o.mu.Unlock()

	item := model.NewHistoryItem(model.QueryTypeDocument, file.filename)
	if err := o.repo.PutHistory(ctx, item); err != nil {
		logging.From(ctx).Warn("failed to record history", "error", err)
	}

	// Archival is best-effort and never blocks or retracts the result
	go o.archiveUpload(context.WithoutCancel(ctx), item.ID, file)

	return analysis, nil
}

func (o *Orchestrator) archiveUpload(ctx context.Context, id model.HistoryID, file *upload) {
	if o.archive == nil {
		return
	}

	writer, err := o.archive.Put(ctx, "documents/"+string(id))
	if err != nil {
		logging.From(ctx).Warn("failed to open document archive writer", "error", err)
		return
	}

	if _, err := bytes.NewReader(file.data).WriteTo(writer); err != nil {
		logging.From(ctx).Warn("failed to archive document", "error", err)
		_ = writer.Close()
		return
	}
	if err := writer.Close(); err != nil {
		logging.From(ctx).Warn("failed to finalize document archive", "error", err)
	}
}

// Result returns the currently displayed analysis, or nil when none.
func (o *Orchestrator) Result() *model.DocumentAnalysis {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}
