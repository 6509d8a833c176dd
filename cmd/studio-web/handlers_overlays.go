package main

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/drag"
	"github.com/artiestudio/artie/internal/overlay"
)

// maxLogoUploadBytes bounds logo uploads; logos are small brand marks.
const maxLogoUploadBytes = 10 << 20

// PUT /api/scenes/{id}/overlays
func handleOverlaysUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TextOverlays []overlay.Text `json:"textOverlays"`
		Logo         *overlay.Logo  `json:"logo,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	if err := library.UpdateOverlays(id, req.TextOverlays, req.Logo); err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}
	s, _ := library.Get(id)
	respondJSON(w, http.StatusOK, s)
}

// POST /api/scenes/{id}/overlays/{overlayID}/center
func handleOverlayCenter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	overlayID := r.PathValue("overlayID")

	s, ok := library.Get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "scene not found")
		return
	}
	found := false
	for i := range s.TextOverlays {
		if s.TextOverlays[i].ID == overlayID {
			s.TextOverlays[i].AlignCenter()
			found = true
			break
		}
	}
	if !found {
		httpError(w, http.StatusNotFound, "overlay not found")
		return
	}
	if err := library.UpdateOverlays(id, s.TextOverlays, s.Logo); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"centered": overlayID})
}

// POST /api/scenes/{id}/logo
func handleLogoUpload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, ok := library.Get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "scene not found")
		return
	}

	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		httpError(w, http.StatusBadRequest, "missing logo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoUploadBytes))
	if err != nil {
		httpError(w, http.StatusBadRequest, "could not read logo file")
		return
	}

	path, err := assets.SaveLogo(uuid.NewString(), data, filepath.Ext(header.Filename))
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Replacing an existing logo orphans its file.
	if s.Logo != nil {
		assets.Remove(s.Logo.ImagePath)
	}
	logo := overlay.NewLogo(path)
	if err := library.UpdateOverlays(id, s.TextOverlays, logo); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Info().Str("scene", id).Str("logo", path).Msg("Logo uploaded")
	respondJSON(w, http.StatusOK, logo)
}

// DELETE /api/scenes/{id}/logo
func handleLogoDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, ok := library.Get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "scene not found")
		return
	}
	if s.Logo == nil {
		httpError(w, http.StatusNotFound, "scene has no logo")
		return
	}
	old := s.Logo.ImagePath
	if err := library.UpdateOverlays(id, s.TextOverlays, nil); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	assets.Remove(old)
	respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

// --- Drag gestures ---
//
// The frontend reports pointer events in its own pixel space; the controller
// converts them back to normalized overlay positions, which are committed to
// the selected scene on every move so a reload never loses a drag.

// POST /api/drag/select
func handleDragSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind drag.Kind `json:"kind"`
		ID   string    `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	dragCtl.Select(req.Kind, req.ID)
	respondJSON(w, http.StatusOK, map[string]interface{}{"kind": req.Kind, "id": req.ID})
}

// POST /api/drag/deselect
func handleDragDeselect(w http.ResponseWriter, r *http.Request) {
	dragCtl.Deselect()
	respondJSON(w, http.StatusOK, map[string]bool{"selected": false})
}

// POST /api/drag/begin
func handleDragBegin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    drag.Kind    `json:"kind"`
		ID      string       `json:"id"`
		Pointer drag.Pointer `json:"pointer"`
		Box     overlay.Box  `json:"box"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := dragCtl.Begin(req.Kind, req.ID, req.Pointer, req.Box); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"dragging": true})
}

// POST /api/drag/move
func handleDragMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pointer   drag.Pointer `json:"pointer"`
		Container overlay.Box  `json:"container"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, overlayID, pos, err := dragCtl.Move(req.Pointer, req.Container)
	if err != nil {
		if errors.Is(err, drag.ErrNoDrag) {
			httpError(w, http.StatusConflict, err.Error())
			return
		}
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := library.Selected()
	if !ok {
		httpError(w, http.StatusConflict, "no scene selected")
		return
	}
	switch kind {
	case drag.KindLogo:
		if s.Logo == nil || s.Logo.ID != overlayID {
			httpError(w, http.StatusNotFound, "overlay not found")
			return
		}
		s.Logo.SetPosition(pos)
	default:
		found := false
		for i := range s.TextOverlays {
			if s.TextOverlays[i].ID == overlayID {
				s.TextOverlays[i].SetPosition(pos)
				found = true
				break
			}
		}
		if !found {
			httpError(w, http.StatusNotFound, "overlay not found")
			return
		}
	}
	if err := library.UpdateOverlays(s.ID, s.TextOverlays, s.Logo); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kind":     kind,
		"id":       overlayID,
		"position": pos,
	})
}

// POST /api/drag/end
func handleDragEnd(w http.ResponseWriter, r *http.Request) {
	dragCtl.End()
	respondJSON(w, http.StatusOK, map[string]bool{"dragging": false})
}
