package gemini

// tts.go synthesizes voiceovers via the generateContent endpoint with an
// audio response modality. The model returns raw 16-bit PCM at 24 kHz; the
// result is wrapped into a WAV container so players and export bundles can
// use it directly.

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/retry"
)

type ttsRequest struct {
	Contents         []ttsContent `json:"contents"`
	GenerationConfig ttsConfig    `json:"generationConfig"`
}

type ttsContent struct {
	Parts []ttsPart `json:"parts"`
}

type ttsPart struct {
	Text       string   `json:"text,omitempty"`
	InlineData *ttsBlob `json:"inlineData,omitempty"`
}

type ttsBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type ttsConfig struct {
	ResponseModalities []string        `json:"responseModalities"`
	SpeechConfig       ttsSpeechConfig `json:"speechConfig"`
}

type ttsSpeechConfig struct {
	VoiceConfig ttsVoiceConfig `json:"voiceConfig"`
}

type ttsVoiceConfig struct {
	PrebuiltVoiceConfig ttsPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type ttsPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type ttsResponse struct {
	Candidates []struct {
		Content ttsContent `json:"content"`
	} `json:"candidates"`
}

// GenerateSpeech synthesizes the text with the given prebuilt voice and
// returns a complete WAV file.
func (c *Client) GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	return retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff, "speech", func(ctx context.Context) ([]byte, error) {
		start := time.Now()

		req := ttsRequest{
			Contents: []ttsContent{{Parts: []ttsPart{{Text: text}}}},
			GenerationConfig: ttsConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig: ttsSpeechConfig{
					VoiceConfig: ttsVoiceConfig{
						PrebuiltVoiceConfig: ttsPrebuiltVoice{VoiceName: voice},
					},
				},
			},
		}

		var resp ttsResponse
		if err := c.postJSON(ctx, "/models/"+c.models.Speech+":generateContent", req, &resp); err != nil {
			return nil, fmt.Errorf("generate audio: %w", err)
		}

		blob := firstAudioBlob(resp)
		if blob == nil {
			return nil, fmt.Errorf("audio generation returned no audio")
		}
		pcm, err := base64.StdEncoding.DecodeString(blob.Data)
		if err != nil {
			return nil, fmt.Errorf("decode audio payload: %w", err)
		}

		log.Info().
			Str("voice", voice).
			Int("pcm_bytes", len(pcm)).
			Dur("duration", time.Since(start)).
			Msg("Voiceover generated")
		return wrapPCM(pcm), nil
	})
}

func firstAudioBlob(resp ttsResponse) *ttsBlob {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData
			}
		}
	}
	return nil
}
