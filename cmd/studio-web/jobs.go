package main

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/export"
	"github.com/artiestudio/artie/internal/jobs"
	"github.com/artiestudio/artie/internal/scene"
)

// --- Export Job Management ---

type exportJob struct {
	mu      sync.Mutex
	id      string
	status  string // "processing", "complete", "error"
	percent float64
	errMsg  string
	name    string // download filename
	data    []byte
}

var exportJobs = jobs.NewRegistry[*exportJob]()

func newExportJob(name string) *exportJob {
	j := &exportJob{
		id:     jobs.GenerateID("export-"),
		status: "processing",
		name:   name,
	}
	exportJobs.Put(j.id, j)
	return j
}

func getJob(id string) *exportJob {
	j, _ := exportJobs.Get(id)
	return j
}

// runExportJob bundles a story in the background, publishing progress for the
// poller. The finished archive is held in memory until downloaded; local
// stories are a handful of short clips.
func runExportJob(job *exportJob, story []scene.Scene) {
	var buf bytes.Buffer
	err := export.ExportStory(&buf, story, assets, func(p float64) {
		job.mu.Lock()
		job.percent = p
		job.mu.Unlock()
	})

	job.mu.Lock()
	defer job.mu.Unlock()
	if err != nil {
		job.status = "error"
		job.errMsg = err.Error()
		log.Error().Err(err).Str("job", job.id).Msg("Story export failed")
		return
	}
	job.data = buf.Bytes()
	job.status = "complete"
	job.percent = 100
	log.Info().Str("job", job.id).Int("bytes", len(job.data)).Msg("Story export complete")
}
