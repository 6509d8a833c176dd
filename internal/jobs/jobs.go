// Package jobs provides the in-memory registry backing the studio's
// asynchronous background work, such as story exports. Jobs live for the
// lifetime of the process; the UI polls them by ID.
package jobs

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/rs/zerolog/log"
)

// GenerateID creates a cryptographically random job ID so IDs cannot be
// enumerated. The prefix should include a trailing dash, e.g. "export-".
func GenerateID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msgf("Failed to generate random %s job ID", prefix)
	}
	return prefix + hex.EncodeToString(b)
}

// Registry is a concurrency-safe job collection keyed by ID.
type Registry[T any] struct {
	mu   sync.Mutex
	jobs map[string]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{jobs: make(map[string]T)}
}

// Put registers a job under its ID.
func (r *Registry[T]) Put(id string, job T) {
	r.mu.Lock()
	r.jobs[id] = job
	r.mu.Unlock()
}

// Get looks up a job by ID.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}
