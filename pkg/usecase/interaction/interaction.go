// Package interaction implements the interaction-checker orchestrator: a
// client-side medication list with duplicate guards, the interaction call,
// optional translation, and history recording.
package interaction

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/interfaces"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/utils/logging"
)

type QueryService interface {
	CheckInteractions(ctx context.Context, medications []string) (*model.InteractionReport, error)
}

type Translator interface {
	TranslateFields(ctx context.Context, targetLanguage string, fields []string) ([]string, error)
}

const (
	msgBusy          = "A request is already in progress."
	msgTranslateFail = "Could not translate the report. Showing the original text."
	msgEmptyName     = "Please enter a medication name."
	msgDuplicate     = "This medication is already in the list."
	msgTooFew        = "Please add at least two medications to check interactions."
	msgNoVoiceInput  = "Voice input is not available."
)

// Orchestrator owns the interaction-checker feature state.
type Orchestrator struct {
	queries    QueryService
	translator Translator
	repo       repository.Repository
	notifier   interfaces.Notifier
	recognizer interfaces.Recognizer
	settings   *model.Settings

	mu          sync.Mutex
	submitting  bool
	listening   bool
	medications []string
	report      *model.InteractionReport
}

type Input struct {
	Queries    QueryService
	Translator Translator
	Repo       repository.Repository
	Settings   *model.Settings

	Notifier   interfaces.Notifier
	Recognizer interfaces.Recognizer
}

func New(input Input) *Orchestrator {
	o := &Orchestrator{
		queries:    input.Queries,
		translator: input.Translator,
		repo:       input.Repo,
		settings:   input.Settings,
		notifier:   input.Notifier,
		recognizer: input.Recognizer,
	}
	if o.notifier == nil {
		o.notifier = interfaces.LogNotifier{}
	}
	if o.recognizer == nil {
		o.recognizer = interfaces.NopRecognizer{}
	}
	return o
}

// validateEntry trims a medication name and rejects blanks and
// case-insensitive duplicates against list.
func validateEntry(list []string, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", model.NewValidationError(msgEmptyName)
	}
	for _, existing := range list {
		if strings.EqualFold(existing, trimmed) {
			return "", model.NewValidationError(msgDuplicate, goerr.V("medication", trimmed))
		}
	}
	return trimmed, nil
}

// BuildList validates a request-scoped medication list with the same rules
// as Add: names are trimmed, blanks and case-insensitive duplicates
// rejected. The first invalid name aborts the whole list.
func BuildList(names []string) ([]string, error) {
	list := make([]string, 0, len(names))
	for _, name := range names {
		trimmed, err := validateEntry(list, name)
		if err != nil {
			return nil, err
		}
		list = append(list, trimmed)
	}
	return list, nil
}

// Add appends a medication name to the list. The name is rejected with a
// field-level validation error if it is blank or already present
// (case-insensitively); the list is left unchanged in that case.
func (o *Orchestrator) Add(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	trimmed, err := validateEntry(o.medications, name)
	if err != nil {
		return err
	}

	o.medications = append(o.medications, trimmed)
	return nil
}

// Reset clears the medication list and any displayed report.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.medications = nil
	o.report = nil
}

// Remove deletes a medication name from the list, if present.
func (o *Orchestrator) Remove(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.medications[:0]
	for _, existing := range o.medications {
		if !strings.EqualFold(existing, name) {
			kept = append(kept, existing)
		}
	}
	o.medications = kept
}

// Medications returns a copy of the current list in insertion order.
func (o *Orchestrator) Medications() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string{}, o.medications...)
}

// Check runs one submission cycle over the current medication list.
func (o *Orchestrator) Check(ctx context.Context) (*model.InteractionReport, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return nil, model.NewValidationError(msgBusy)
	}
	if count := len(o.medications); count < 2 {
		o.mu.Unlock()
		o.notifier.Notify(ctx, interfaces.NotifyError, msgTooFew)
		return nil, model.NewValidationError(msgTooFew, goerr.V("count", count))
	}
	o.submitting = true
	o.report = nil
	medications := append([]string{}, o.medications...)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	report, err := o.runCheck(ctx, medications)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.report = report
	o.mu.Unlock()

	return report, nil
}

// CheckList runs one submission cycle over a caller-owned medication list.
// It never reads or writes the staged list or the displayed report, so
// concurrent callers each get a report and history entry computed over
// exactly the list they passed.
func (o *Orchestrator) CheckList(ctx context.Context, medications []string) (*model.InteractionReport, error) {
	if count := len(medications); count < 2 {
		o.notifier.Notify(ctx, interfaces.NotifyError, msgTooFew)
		return nil, model.NewValidationError(msgTooFew, goerr.V("count", count))
	}

	return o.runCheck(ctx, medications)
}

// runCheck performs the provider call, optional translation, and history
// recording for one medication list.
func (o *Orchestrator) runCheck(ctx context.Context, medications []string) (*model.InteractionReport, error) {
	report, err := o.queries.CheckInteractions(ctx, medications)
	if err != nil {
		o.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
		return nil, err
	}

	if locale := o.settings.Locale(); !locale.IsDefault() {
		translated, terr := o.translator.TranslateFields(ctx, locale.DisplayName(), []string{report.Report})
		if terr != nil {
			o.notifier.Notify(ctx, interfaces.NotifyError, msgTranslateFail)
		} else {
			report = &model.InteractionReport{Report: translated[0]}
		}
	}

	if err := o.repo.PutHistory(ctx, model.NewHistoryItem(model.QueryTypeInteraction, medications...)); err != nil {
		logging.From(ctx).Warn("failed to record history", "error", err)
	}

	return report, nil
}

// Dictate captures one spoken medication name and adds it to the list.
func (o *Orchestrator) Dictate(ctx context.Context) {
	if !o.recognizer.Available() {
		o.notifier.Notify(ctx, interfaces.NotifyInfo, msgNoVoiceInput)
		return
	}

	o.mu.Lock()
	if o.listening {
		o.mu.Unlock()
		return
	}
	o.listening = true
	o.mu.Unlock()

	transcript, err := o.recognizer.Recognize(ctx, o.settings.Locale().SpeechTag())

	o.mu.Lock()
	o.listening = false
	o.mu.Unlock()

	if err != nil {
		o.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
		return
	}
	if transcript == "" {
		return
	}

	if err := o.Add(transcript); err != nil {
		o.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
	}
}

// Report returns the currently displayed report, or nil when none.
func (o *Orchestrator) Report() *model.InteractionReport {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report
}
