package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Recognizer is an optional speech-to-text capability. Environments without
// microphone capture inject NopRecognizer instead of probing at runtime.
type Recognizer interface {
	// Available reports whether the capability is present
	Available() bool

	// Recognize captures a single utterance in the given BCP-47 language tag
	// and returns its transcript. The session auto-stops after one result or
	// any terminal event.
	Recognize(ctx context.Context, languageTag string) (string, error)
}

// NopRecognizer is the absent-capability implementation.
type NopRecognizer struct{}

func (NopRecognizer) Available() bool { return false }

func (NopRecognizer) Recognize(ctx context.Context, languageTag string) (string, error) {
	return "", goerr.New("speech recognition is not available")
}

// Player is an optional audio playback sink for synthesized narration.
type Player interface {
	// Play starts playback of a base64 audio data URI from the beginning
	Play(ctx context.Context, audioDataURI string) error

	// Stop halts playback and resets the position to the start
	Stop()
}

// NopPlayer discards playback requests.
type NopPlayer struct{}

func (NopPlayer) Play(ctx context.Context, audioDataURI string) error { return nil }

func (NopPlayer) Stop() {}
