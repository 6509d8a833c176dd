// Package auth is the credential collaborator for the studio: it holds the
// Gemini API key, knows whether a usable key is currently selected, and can
// prompt the user to pick one. Generation workflows gate on Selected before
// touching any generator and call Invalidate when the API reports an
// authorization failure, forcing a re-prompt on the next attempt.
package auth

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// Keychain caches the selected API key and its validity state.
type Keychain struct {
	mu    sync.Mutex
	key   string
	valid bool
}

// NewKeychain builds a keychain, seeding it from the GEMINI_API_KEY
// environment variable when set. A seeded key still counts as unvalidated
// until Validate confirms it.
func NewKeychain() *Keychain {
	kc := &Keychain{}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		kc.key = key
	}
	return kc
}

// Key returns the currently selected key, which may be empty.
func (k *Keychain) Key() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key
}

// Selected reports whether a key is present and not known to be bad.
func (k *Keychain) Selected() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key != "" && k.valid
}

// MarkValid records a successful validation for the current key.
func (k *Keychain) MarkValid() {
	k.mu.Lock()
	k.valid = true
	k.mu.Unlock()
}

// Invalidate drops the cached validity so the next attempt re-prompts.
// The key itself is kept; the user may simply re-select it.
func (k *Keychain) Invalidate() {
	k.mu.Lock()
	k.valid = false
	k.mu.Unlock()
	log.Warn().Msg("Cached API key validity invalidated; re-selection required")
}

// Prompt asks the user to select an API key via a native entry dialog and
// stores the result. The key is not validated here.
func (k *Keychain) Prompt() error {
	key, err := zenity.Entry("Enter your Gemini API key:",
		zenity.Title("Artie Studio"),
		zenity.HideText())
	if err != nil {
		return fmt.Errorf("API key selection cancelled: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key selection returned an empty key")
	}

	k.mu.Lock()
	k.key = key
	k.valid = false
	k.mu.Unlock()
	return nil
}

// SetKey stores a key directly. Used by the web API where the browser, not a
// native dialog, collects the key.
func (k *Keychain) SetKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty API key")
	}
	k.mu.Lock()
	k.key = key
	k.valid = false
	k.mu.Unlock()
	return nil
}
