package main

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/scene"
)

// GET /api/history
func handleHistory(w http.ResponseWriter, r *http.Request) {
	roots := library.Roots()
	type entry struct {
		scene.Scene
		SceneCount int `json:"sceneCount"`
	}
	out := make([]entry, 0, len(roots))
	for _, root := range roots {
		count := 1
		if story, err := library.DeriveStory(root.ID); err == nil {
			count = len(story)
		}
		out = append(out, entry{Scene: root, SceneCount: count})
	}

	var selectedID string
	if sel, ok := library.Selected(); ok {
		selectedID = sel.ID
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history":  out,
		"selected": selectedID,
	})
}

// GET /api/scenes/{id}
func handleScene(w http.ResponseWriter, r *http.Request) {
	s, ok := library.Get(r.PathValue("id"))
	if !ok {
		httpError(w, http.StatusNotFound, "scene not found")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// GET /api/scenes/{id}/story
func handleStory(w http.ResponseWriter, r *http.Request) {
	story, err := library.DeriveStory(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"story": story})
}

// POST /api/scenes/{id}/select
func handleSceneSelect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := library.Select(id); err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}
	dragCtl.Deselect()
	s, _ := library.Get(id)
	respondJSON(w, http.StatusOK, s)
}

// DELETE /api/scenes/{id}
func handleSceneDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Collect everything the delete will cascade to before it happens, so the
	// stored assets can be cleaned up afterwards.
	var doomed []scene.Scene
	if s, ok := library.Get(id); ok && s.IsRoot() {
		if story, err := library.DeriveStory(id); err == nil {
			doomed = story
		}
	} else if ok {
		doomed = []scene.Scene{s}
	}

	if err := library.Delete(id); err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			httpError(w, http.StatusNotFound, err.Error())
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dragCtl.Deselect()

	for _, s := range doomed {
		assets.Remove(s.VisualPath, s.AudioPath)
		if s.Logo != nil {
			assets.Remove(s.Logo.ImagePath)
		}
	}
	log.Info().Str("scene", id).Int("cascade", len(doomed)).Msg("Scene deleted")

	var selectedID string
	if sel, ok := library.Selected(); ok {
		selectedID = sel.ID
	}
	respondJSON(w, http.StatusOK, map[string]string{"selected": selectedID})
}

// GET /api/media/{path...}
func handleMedia(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	data, err := assets.Open(rel)
	if err != nil {
		httpError(w, http.StatusNotFound, "asset not found")
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(rel))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Write(data)
}
