package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

// Startup collects configuration and model assignments during process boot
// and emits them as a single structured event, so a session's setup can be
// reconstructed from the first line of its log.
type Startup struct {
	name   string
	began  time.Time
	config map[string]string
	models map[string]string
}

// NewStartup creates a startup summary for the given binary name.
func NewStartup(name string) *Startup {
	return &Startup{
		name:   name,
		began:  time.Now(),
		config: make(map[string]string),
		models: make(map[string]string),
	}
}

// Config records one configuration value for the summary.
func (s *Startup) Config(key, value string) *Startup {
	s.config[key] = value
	return s
}

// Model records which generation model serves a given role.
func (s *Startup) Model(role, model string) *Startup {
	s.models[role] = model
	return s
}

// Log emits the collected state as one info event.
func (s *Startup) Log() {
	evt := log.Info().
		Str("binary", s.name).
		Str("go_version", runtime.Version()).
		Dur("init_duration", time.Since(s.began))
	for k, v := range s.config {
		evt = evt.Str("cfg_"+k, v)
	}
	for k, v := range s.models {
		evt = evt.Str("model_"+k, v)
	}
	evt.Msg("Startup complete")
}
