// Package workflow drives a single generation run through its stages: script,
// visual, optional voiceover, then commit to the scene library. Only one run
// may be in flight at a time; the UI polls Status while it progresses.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/auth"
	"github.com/artiestudio/artie/internal/scene"
)

// Stage identifies where a generation run currently is.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageScripting       Stage = "scripting"
	StageRenderingVisual Stage = "rendering_visual"
	StageRenderingAudio  Stage = "rendering_audio"
	StageComplete        Stage = "complete"
	StageFailed          Stage = "failed"
)

// Status is the poller-facing view of the current run. Error carries the
// underlying failure text verbatim so the UI can show exactly what went wrong.
type Status struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	SceneID string `json:"sceneId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = errors.New("a generation run is already in progress")

// ErrMissingContinuation is returned, before any generator is called, when a
// scene is added to a story whose latest scene has no extendable video data.
// The text is shown to the user as-is.
var ErrMissingContinuation = errors.New("Cannot add a scene because the previous scene's video data is missing. Please regenerate the first scene.")

// ScriptGenerator writes the ad copy, continuing prior lines when extending a
// story.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, brief scene.Brief, prior []string) ([]string, error)
}

// VisualGenerator renders the scene's image or video.
type VisualGenerator interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
	GenerateVideo(ctx context.Context, prompt, aspectRatio string, prev *scene.Continuation) ([]byte, *scene.Continuation, error)
}

// SpeechGenerator narrates the script.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error)
}

// Generator is the full set of model calls a run needs.
type Generator interface {
	ScriptGenerator
	VisualGenerator
	SpeechGenerator
}

// GeneratorProvider yields a ready client for the run. Construction is
// deferred to run time because the API key can change between runs.
type GeneratorProvider func(ctx context.Context) (Generator, error)

// Credentials is notified when a run fails because the selected key lost
// access to a required model.
type Credentials interface {
	Invalidate()
}

// Assets persists generated bytes and returns store-relative paths.
type Assets interface {
	SaveVisual(id string, data []byte, vt scene.VisualType) (string, error)
	SaveAudio(id string, data []byte) (string, error)
}

// Runner owns the generation state machine.
type Runner struct {
	provider GeneratorProvider
	creds    Credentials
	assets   Assets
	library  *scene.Library

	mu     sync.Mutex
	busy   bool
	status Status
}

func NewRunner(provider GeneratorProvider, creds Credentials, assets Assets, library *scene.Library) *Runner {
	return &Runner{
		provider: provider,
		creds:    creds,
		assets:   assets,
		library:  library,
		status:   Status{Stage: StageIdle},
	}
}

// Status returns the current run state.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Busy reports whether a run is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Run executes one generation end to end and commits the resulting scene.
// A non-empty storyID adds a scene to that story instead of starting a new
// one; the new scene inherits the story's product, aspect ratio, and medium.
func (r *Runner) Run(ctx context.Context, brief scene.Brief, storyID string) (*scene.Scene, error) {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.busy = true
	r.status = Status{Stage: StageScripting, Message: "Writing your ad script..."}
	r.mu.Unlock()

	s, err := r.run(ctx, brief, storyID)
	r.mu.Lock()
	r.busy = false
	if err != nil {
		r.status = Status{Stage: StageFailed, Error: err.Error()}
	} else {
		r.status = Status{Stage: StageComplete, Message: "Scene ready", SceneID: s.ID}
	}
	r.mu.Unlock()

	if err != nil {
		if auth.IsEntityNotFound(err) {
			log.Warn().Err(err).Msg("Model rejected the selected key, invalidating")
			r.creds.Invalidate()
		}
		return nil, err
	}
	return s, nil
}

func (r *Runner) run(ctx context.Context, brief scene.Brief, storyID string) (*scene.Scene, error) {
	var (
		root   *scene.Scene
		prior  []string
		prev   *scene.Continuation
		number = 1
	)
	if storyID != "" {
		story, err := r.library.DeriveStory(storyID)
		if err != nil {
			return nil, err
		}
		last := story[len(story)-1]
		if last.Continuation == nil {
			return nil, ErrMissingContinuation
		}
		prev = last.Continuation
		root = &story[0]
		for _, s := range story {
			prior = append(prior, s.Script...)
		}
		number, err = r.library.NextSceneNumber(root.ID)
		if err != nil {
			return nil, err
		}

		brief.Product = root.Product
		brief.Era = root.Era
		brief.AspectRatio = root.AspectRatio
		brief.VisualType = scene.VisualVideo
	}

	gen, err := r.provider(ctx)
	if err != nil {
		return nil, err
	}

	script, err := gen.GenerateScript(ctx, brief, prior)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}

	if brief.VisualType == scene.VisualVideo {
		r.setStatus(StageRenderingVisual, fmt.Sprintf("Filming scene %d... this can take a few minutes.", number))
	} else {
		r.setStatus(StageRenderingVisual, "Painting your visual...")
	}

	assetID := uuid.NewString()
	payload := scene.Payload{Script: script}
	prompt := visualPrompt(brief, script)

	switch brief.VisualType {
	case scene.VisualVideo:
		data, cont, err := gen.GenerateVideo(ctx, prompt, brief.AspectRatio, prev)
		if err != nil {
			return nil, fmt.Errorf("generate video: %w", err)
		}
		payload.Continuation = cont
		payload.VisualPath, err = r.assets.SaveVisual(assetID, data, scene.VisualVideo)
		if err != nil {
			return nil, err
		}
	default:
		data, err := gen.GenerateImage(ctx, prompt, brief.AspectRatio)
		if err != nil {
			return nil, fmt.Errorf("generate image: %w", err)
		}
		payload.VisualPath, err = r.assets.SaveVisual(assetID, data, scene.VisualImage)
		if err != nil {
			return nil, err
		}
	}

	if narration := strings.Join(script, " "); brief.VisualType == scene.VisualVideo && brief.Voice != "" && strings.TrimSpace(narration) != "" {
		r.setStatus(StageRenderingAudio, "Recording the voiceover...")
		audio, err := gen.GenerateSpeech(ctx, narration, brief.Voice)
		if err != nil {
			return nil, fmt.Errorf("generate speech: %w", err)
		}
		payload.AudioPath, err = r.assets.SaveAudio(assetID, audio)
		if err != nil {
			return nil, err
		}
	}

	var s *scene.Scene
	if root == nil {
		s = scene.NewRoot(brief, payload)
	} else {
		s, err = scene.NewChild(root, number, brief, payload)
		if err != nil {
			return nil, err
		}
	}
	if err := r.library.Append(s); err != nil {
		return nil, err
	}

	log.Info().
		Str("scene", s.ID).
		Int("number", s.SceneNumber).
		Str("visual", string(brief.VisualType)).
		Bool("audio", payload.AudioPath != "").
		Msg("Generation run complete")
	return s.Clone(), nil
}

func (r *Runner) setStatus(stage Stage, message string) {
	r.mu.Lock()
	r.status = Status{Stage: stage, Message: message}
	r.mu.Unlock()
}
