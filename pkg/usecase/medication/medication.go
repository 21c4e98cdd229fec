// Package medication implements the medication-info orchestrator: input
// capture, the lookup call, optional translation, history recording, and
// audio narration of the result.
package medication

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/interfaces"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/repository"
	"github.com/medassist-app/medassist/pkg/utils/logging"
)

type QueryService interface {
	MedicationInfo(ctx context.Context, name string) (*model.MedicationInfo, error)
}

type Translator interface {
	TranslateFields(ctx context.Context, targetLanguage string, fields []string) ([]string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*model.SpeechPayload, error)
}

const (
	msgBusy          = "A request is already in progress."
	msgTranslateFail = "Could not translate the results. Showing the original text."
	msgAudioNotReady = "Audio narration is not ready yet. Please try again in a moment."
	msgNoVoiceInput  = "Voice input is not available."
)

// Orchestrator owns the medication-info feature state. Only one submission
// is active at a time; the result and narration of the previous request stay
// visible until the next submission starts.
type Orchestrator struct {
	queries     QueryService
	translator  Translator
	synthesizer Synthesizer
	repo        repository.Repository
	notifier    interfaces.Notifier
	recognizer  interfaces.Recognizer
	player      interfaces.Player
	settings    *model.Settings

	mu         sync.Mutex
	submitting bool
	listening  bool
	playing    bool
	generation uint64
	result     *model.MedicationInfo
	audio      *model.SpeechPayload
}

type Input struct {
	Queries     QueryService
	Translator  Translator
	Synthesizer Synthesizer
	Repo        repository.Repository
	Settings    *model.Settings

	// Optional ports; nil means absent capability
	Notifier   interfaces.Notifier
	Recognizer interfaces.Recognizer
	Player     interfaces.Player
}

func New(input Input) *Orchestrator {
	o := &Orchestrator{
		queries:     input.Queries,
		translator:  input.Translator,
		synthesizer: input.Synthesizer,
		repo:        input.Repo,
		settings:    input.Settings,
		notifier:    input.Notifier,
		recognizer:  input.Recognizer,
		player:      input.Player,
	}
	if o.notifier == nil {
		o.notifier = interfaces.LogNotifier{}
	}
	if o.recognizer == nil {
		o.recognizer = interfaces.NopRecognizer{}
	}
	if o.player == nil {
		o.player = interfaces.NopPlayer{}
	}
	return o
}

// Lookup runs one submission cycle: validate, query, translate if the active
// locale is non-default, record history, then narrate asynchronously. On any
// adapter error the cycle notifies and returns to idle without a history
// entry.
func (o *Orchestrator) Lookup(ctx context.Context, name string) (*model.MedicationInfo, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return nil, model.NewValidationError(msgBusy)
	}
	o.submitting = true
	o.generation++
	gen := o.generation
	o.result = nil
	o.audio = nil
	if o.playing {
		o.player.Stop()
		o.playing = false
	}
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	info, err := o.queries.MedicationInfo(ctx, name)
	if err != nil {
		o.notifier.Notify(ctx, interfaces.NotifyError, err.Error())
		return nil, err
	}

	if locale := o.settings.Locale(); !locale.IsDefault() {
		fields := []string{info.Uses, info.SideEffects, info.DosageGuidelines}
		translated, terr := o.translator.TranslateFields(ctx, locale.DisplayName(), fields)
		if terr != nil {
			// Degraded success: keep the untranslated result
			o.notifier.Notify(ctx, interfaces.NotifyError, msgTranslateFail)
		} else {
			info = &model.MedicationInfo{
				Uses:             translated[0],
				SideEffects:      translated[1],
				DosageGuidelines: translated[2],
			}
		}
	}

	o.mu.Lock()
	if gen != o.generation {
		// A newer submission started; this result is stale
		o.mu.Unlock()
		return info, nil
	}
	o.result = info
	o.mu.Unlock()

	if err := o.repo.PutHistory(ctx, model.NewHistoryItem(model.QueryTypeInfo, name)); err != nil {
		logging.From(ctx).Warn("failed to record history", "error", err)
	}

	// Narration does not block the result; its completion is discarded if a
	// newer submission has started in the meantime.
	go o.narrate(context.WithoutCancel(ctx), gen, info)

	return info, nil
}

// narrate synthesizes a spoken summary of the result.
func (o *Orchestrator) narrate(ctx context.Context, gen uint64, info *model.MedicationInfo) {
	summary := "Uses: " + info.Uses +
		". Side Effects: " + info.SideEffects +
		". Dosage Guidelines: " + info.DosageGuidelines + "."

	payload, err := o.synthesizer.Synthesize(ctx, summary)
	if err != nil {
		// Degrades into "no audio available"; the text result stands
		logging.From(ctx).Warn("speech synthesis failed", "error", err)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		return
	}
	o.audio = payload
}

// ToggleReadAloud starts or stops playback of the synthesized narration.
func (o *Orchestrator) ToggleReadAloud(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.playing {
		o.player.Stop()
		o.playing = false
		return
	}

	if o.audio == nil {
		o.notifier.Notify(ctx, interfaces.NotifyInfo, msgAudioNotReady)
		return
	}

	if err := o.player.Play(ctx, o.audio.AudioDataURI); err != nil {
		o.notifier.Notify(ctx, interfaces.NotifyError, goerr.Wrap(err, "failed to start playback").Error())
		return
	}
	o.playing = true
}

// PlaybackFinished resets the read-aloud state after playback end or error.
func (o *Orchestrator) PlaybackFinished() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.playing = false
}

// Dictate captures one spoken medication name and feeds it into the same
// submit path as typed input. Starting a session while one is active is a
// no-op.
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

	if _, err := o.Lookup(ctx, transcript); err != nil {
		logging.From(ctx).Debug("dictated lookup failed", "error", err)
	}
}

// Result returns the currently displayed result, or nil when none.
func (o *Orchestrator) Result() *model.MedicationInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Audio returns the synthesized narration once it is ready, or nil.
func (o *Orchestrator) Audio() *model.SpeechPayload {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.audio
}

// Playing reports whether read-aloud playback is active.
func (o *Orchestrator) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

// Listening reports whether a recognition session is active.
func (o *Orchestrator) Listening() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.listening
}
