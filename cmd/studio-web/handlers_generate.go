package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/auth"
	"github.com/artiestudio/artie/internal/scene"
	"github.com/artiestudio/artie/internal/workflow"
)

// GET /api/options
func handleOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"eras":         scene.Eras,
		"tones":        scene.Tones,
		"aspectRatios": scene.AspectRatios,
		"voices":       scene.Voices,
		"defaultBrief": scene.DefaultBrief(),
	})
}

// POST /api/generate
func handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		scene.Brief
		StoryID string `json:"storyId,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StoryID == "" && req.Product == "" {
		httpError(w, http.StatusBadRequest, "product is required")
		return
	}
	if runner.Busy() {
		httpError(w, http.StatusConflict, workflow.ErrBusy.Error())
		return
	}

	go func() {
		if _, err := runner.Run(context.Background(), req.Brief, req.StoryID); err != nil {
			log.Error().Err(err).Str("story", req.StoryID).Msg("Generation run failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, runner.Status())
}

// GET /api/generate/status
func handleGenerateStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, runner.Status())
}

// POST /api/brainstorm
func handleBrainstorm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Product string `json:"product"`
		Notes   string `json:"notes,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Product == "" {
		httpError(w, http.StatusBadRequest, "product is required")
		return
	}

	client, err := newClient(r.Context())
	if err != nil {
		httpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	concepts, err := client.Brainstorm(r.Context(), req.Product, req.Notes)
	if err != nil {
		modelFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"concepts": concepts})
}

// GET /api/idea
func handleIdea(w http.ResponseWriter, r *http.Request) {
	client, err := newClient(r.Context())
	if err != nil {
		httpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	idea, err := client.RandomIdea(r.Context())
	if err != nil {
		modelFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"idea":  idea,
		"brief": scene.SurpriseBrief(idea.Product, idea.VisualIdea),
	})
}

// modelFailure reports a model call error, surfacing its text as-is and
// dropping the key when the model rejected it.
func modelFailure(w http.ResponseWriter, err error) {
	if auth.IsEntityNotFound(err) {
		log.Warn().Err(err).Msg("Model rejected the selected key, invalidating")
		keychain.Invalidate()
	}
	httpError(w, http.StatusBadGateway, err.Error())
}

// GET /api/key
func handleKeyStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"selected": keychain.Selected()})
}

// POST /api/key/select
func handleKeySelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key,omitempty"`
	}
	// An empty body means "prompt me with the native dialog".
	_ = decodeJSON(noopWriter{}, r, &req)

	if req.Key != "" {
		if err := keychain.SetKey(req.Key); err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if err := keychain.Prompt(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := keychain.Validate(r.Context()); err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			httpError(w, http.StatusUnauthorized, verr.Message)
			return
		}
		httpError(w, http.StatusUnauthorized, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"selected": true})
}

// noopWriter swallows the error response decodeJSON would write; key selection
// treats an empty or absent body as a valid request.
type noopWriter struct{}

func (noopWriter) Header() http.Header         { return http.Header{} }
func (noopWriter) Write(b []byte) (int, error) { return len(b), nil }
func (noopWriter) WriteHeader(int)             {}
