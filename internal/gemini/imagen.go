package gemini

// imagen.go generates still visuals via the Imagen predict endpoint. The Go
// SDK does not expose image generation for API-key access, so this client
// calls the REST surface directly.

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/retry"
)

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount    int    `json:"sampleCount"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
	OutputMIMEType string `json:"outputMimeType,omitempty"`
}

type imagenResponse struct {
	Predictions []imagenPrediction `json:"predictions"`
}

type imagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MIMEType           string `json:"mimeType"`
}

// GenerateImage renders one JPEG still for the prompt at the given aspect
// ratio and returns the raw bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	return retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff, "image", func(ctx context.Context) ([]byte, error) {
		start := time.Now()

		req := imagenRequest{
			Instances: []imagenInstance{{Prompt: prompt}},
			Parameters: imagenParameters{
				SampleCount:    1,
				AspectRatio:    aspectRatio,
				OutputMIMEType: "image/jpeg",
			},
		}
		var resp imagenResponse
		if err := c.postJSON(ctx, "/models/"+c.models.Image+":predict", req, &resp); err != nil {
			return nil, fmt.Errorf("generate image: %w", err)
		}
		if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
			return nil, fmt.Errorf("image generation returned no image")
		}

		data, err := base64.StdEncoding.DecodeString(resp.Predictions[0].BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("decode image payload: %w", err)
		}

		log.Info().
			Str("model", c.models.Image).
			Int("bytes", len(data)).
			Dur("duration", time.Since(start)).
			Msg("Image generated")
		return data, nil
	})
}
