package main

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/artiestudio/artie/internal/export"
)

// GET /api/export/scenes/{id}/composite
func handleComposite(w http.ResponseWriter, r *http.Request) {
	s, ok := library.Get(r.PathValue("id"))
	if !ok {
		httpError(w, http.StatusNotFound, "scene not found")
		return
	}
	img, err := renderer.RenderComposite(s)
	if err != nil {
		httpError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="scene_%d_composite.jpg"`, s.SceneNumber))
	w.Write(img)
}

// GET /api/export/scenes/{id}/bundle
func handleSceneBundle(w http.ResponseWriter, r *http.Request) {
	s, ok := library.Get(r.PathValue("id"))
	if !ok {
		httpError(w, http.StatusNotFound, "scene not found")
		return
	}
	var buf bytes.Buffer
	if err := export.BundleScene(&buf, s, assets); err != nil {
		httpError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="scene_%d_bundle.zip"`, s.SceneNumber))
	w.Write(buf.Bytes())
}

// POST /api/export/stories/{id}
func handleStoryExport(w http.ResponseWriter, r *http.Request) {
	story, err := library.DeriveStory(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}

	job := newExportJob(storyArchiveName(story[0].Product))
	go runExportJob(job, story)
	respondJSON(w, http.StatusAccepted, map[string]string{"id": job.id})
}

// GET /api/export/jobs/{id}
func handleExportJob(w http.ResponseWriter, r *http.Request) {
	job := getJob(r.PathValue("id"))
	if job == nil {
		httpError(w, http.StatusNotFound, "job not found")
		return
	}
	job.mu.Lock()
	defer job.mu.Unlock()
	resp := map[string]interface{}{
		"id":      job.id,
		"status":  job.status,
		"percent": job.percent,
	}
	if job.errMsg != "" {
		resp["error"] = job.errMsg
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /api/export/jobs/{id}/download
func handleExportDownload(w http.ResponseWriter, r *http.Request) {
	job := getJob(r.PathValue("id"))
	if job == nil {
		httpError(w, http.StatusNotFound, "job not found")
		return
	}
	job.mu.Lock()
	status, name, data := job.status, job.name, job.data
	job.mu.Unlock()

	if status != "complete" {
		httpError(w, http.StatusConflict, "export is not finished")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Write(data)
}

func storyArchiveName(product string) string {
	name := strings.Join(strings.Fields(product), "_")
	if name == "" {
		name = "ad"
	}
	return fmt.Sprintf("%s_story.zip", name)
}
