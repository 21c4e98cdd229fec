// Package speech wraps the provider's audio generation call. The provider
// returns raw PCM samples; this package re-encodes them into a WAV container
// and hands them back as a base64 data URI playable by any audio sink.
package speech

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/adapter"
	"github.com/medassist-app/medassist/pkg/model"
	"github.com/medassist-app/medassist/pkg/utils/logging"
	"google.golang.org/genai"
)

const speechErrMsg = "An unexpected error occurred while generating audio. Please try again later."

type Service struct {
	gemini adapter.Gemini
}

func New(gemini adapter.Gemini) *Service {
	return &Service{gemini: gemini}
}

// Synthesize narrates text and returns it as an audio/wav data URI.
func (s *Service) Synthesize(ctx context.Context, text string) (*model.SpeechPayload, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.NewValidationError("text to narrate must not be empty")
	}

	resp, err := s.gemini.GenerateSpeech(ctx, text)
	if err != nil {
		logging.From(ctx).Error("speech generation failed", "error", err)
		return nil, model.NewProviderError(speechErrMsg)
	}

	pcm, err := extractPCM(resp)
	if err != nil {
		logging.From(ctx).Error("speech response carried no audio", "error", err)
		return nil, model.NewProviderError(speechErrMsg)
	}

	wav := encodeWAV(pcm, pcmSampleRate, pcmChannels, pcmBytesPerSample)
	return &model.SpeechPayload{
		AudioDataURI: "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(wav),
	}, nil
}

// extractPCM pulls raw PCM bytes out of the response. Audio usually arrives
// as inline blob data; some transports deliver it as a base64 data URI in a
// text part instead, so both forms are accepted.
func extractPCM(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, goerr.New("empty response from model")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
		if part.Text != "" {
			if pcm, err := decodeDataURI(part.Text); err == nil {
				return pcm, nil
			}
		}
	}

	return nil, goerr.New("no audio payload in response")
}

// decodeDataURI strips the "data:<mime>;base64," prefix and decodes the rest.
func decodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, goerr.New("not a data URI")
	}
	idx := strings.Index(uri, "base64,")
	if idx < 0 {
		return nil, goerr.New("data URI is not base64-encoded")
	}

	pcm, err := base64.StdEncoding.DecodeString(uri[idx+len("base64,"):])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode audio payload")
	}
	if len(pcm) == 0 {
		return nil, goerr.New("empty audio payload")
	}
	return pcm, nil
}
