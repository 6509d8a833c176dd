package gemini

// veo.go generates video visuals via the Veo long-running REST endpoint.
// Video generation takes minutes; the API returns an operation which is
// polled until done, then the finished file is downloaded. Extending an
// existing video passes the prior generation's file reference back in, which
// is what makes multi-scene stories continuous.

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/retry"
	"github.com/artiestudio/artie/internal/scene"
)

// veoPollInterval matches the generation service's guidance for operation
// polling.
const veoPollInterval = 5 * time.Second

type veoRequest struct {
	Instances  []veoInstance `json:"instances"`
	Parameters veoParameters `json:"parameters"`
}

type veoInstance struct {
	Prompt string    `json:"prompt"`
	Video  *veoVideo `json:"video,omitempty"`
}

type veoVideo struct {
	URI         string `json:"uri,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type veoParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

type veoOperation struct {
	Name     string       `json:"name"`
	Done     bool         `json:"done"`
	Error    *apiError    `json:"error,omitempty"`
	Response *veoResponse `json:"response,omitempty"`
}

type veoResponse struct {
	GenerateVideoResponse *veoVideoResponse `json:"generateVideoResponse"`
}

type veoVideoResponse struct {
	GeneratedSamples []veoSample `json:"generatedSamples"`
}

type veoSample struct {
	Video veoVideo `json:"video"`
}

// GenerateVideo renders a video for the prompt, extending prev when given.
// It returns the raw video bytes plus the continuation handle a later scene
// needs to extend this one.
func (c *Client) GenerateVideo(ctx context.Context, prompt, aspectRatio string, prev *scene.Continuation) ([]byte, *scene.Continuation, error) {
	type videoResult struct {
		data []byte
		cont *scene.Continuation
	}

	model := c.models.Video
	if prev != nil {
		model = c.models.VideoExtend
	}

	result, err := retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff, "video", func(ctx context.Context) (videoResult, error) {
		start := time.Now()

		instance := veoInstance{Prompt: prompt}
		if prev != nil {
			instance.Video = &veoVideo{URI: prev.URI, AspectRatio: prev.AspectRatio}
		}
		req := veoRequest{
			Instances: []veoInstance{instance},
			Parameters: veoParameters{
				SampleCount: 1,
				AspectRatio: aspectRatio,
				Resolution:  "720p",
			},
		}

		var op veoOperation
		if err := c.postJSON(ctx, "/models/"+model+":predictLongRunning", req, &op); err != nil {
			return videoResult{}, fmt.Errorf("start video generation: %w", err)
		}

		op, err := c.awaitVeo(ctx, op)
		if err != nil {
			return videoResult{}, err
		}

		video, err := veoResult(op)
		if err != nil {
			return videoResult{}, err
		}

		data, err := c.download(ctx, video.URI)
		if err != nil {
			return videoResult{}, fmt.Errorf("download video: %w", err)
		}

		log.Info().
			Str("model", model).
			Bool("extension", prev != nil).
			Int("bytes", len(data)).
			Dur("duration", time.Since(start)).
			Msg("Video generated")

		cont := &scene.Continuation{URI: video.URI, AspectRatio: video.AspectRatio}
		if cont.AspectRatio == "" {
			cont.AspectRatio = aspectRatio
		}
		return videoResult{data: data, cont: cont}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result.data, result.cont, nil
}

// awaitVeo polls the operation until it finishes or the context ends.
func (c *Client) awaitVeo(ctx context.Context, op veoOperation) (veoOperation, error) {
	for !op.Done {
		select {
		case <-time.After(veoPollInterval):
		case <-ctx.Done():
			return op, ctx.Err()
		}
		log.Debug().Str("operation", op.Name).Msg("Polling video operation")
		var next veoOperation
		if err := c.getJSON(ctx, "/"+op.Name, &next); err != nil {
			return op, fmt.Errorf("poll video operation: %w", err)
		}
		op = next
	}
	if op.Error != nil {
		return op, op.Error
	}
	return op, nil
}

func veoResult(op veoOperation) (veoVideo, error) {
	if op.Response == nil ||
		op.Response.GenerateVideoResponse == nil ||
		len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 ||
		op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI == "" {
		return veoVideo{}, fmt.Errorf("video generation failed or returned no URI")
	}
	return op.Response.GenerateVideoResponse.GeneratedSamples[0].Video, nil
}
