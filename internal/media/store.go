// Package media is the local asset store for raw generated bytes. Scenes hold
// store-relative paths; the store maps them to files under the data
// directory and refuses anything that would escape it.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/scene"
)

// Store writes and reads assets below root. All returned paths are relative
// to root so the history database stays relocatable.
type Store struct {
	root string
}

// NewStore creates the asset directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "assets"), 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Store{root: root}, nil
}

// SaveVisual stores a scene's raw visual and returns its store path.
func (s *Store) SaveVisual(sceneID string, data []byte, vt scene.VisualType) (string, error) {
	rel := filepath.Join("assets", fmt.Sprintf("%s_visual.%s", sceneID, vt.Ext()))
	return rel, s.write(rel, data)
}

// SaveAudio stores a scene's voiceover WAV and returns its store path.
func (s *Store) SaveAudio(sceneID string, data []byte) (string, error) {
	rel := filepath.Join("assets", sceneID+"_audio.wav")
	return rel, s.write(rel, data)
}

// SaveLogo stores an uploaded logo image and returns its store path.
func (s *Store) SaveLogo(logoID string, data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	switch ext {
	case "png", "jpg", "jpeg":
	default:
		return "", fmt.Errorf("unsupported logo format %q", ext)
	}
	rel := filepath.Join("assets", fmt.Sprintf("%s.%s", logoID, ext))
	return rel, s.write(rel, data)
}

// Open reads a stored asset by its store path.
func (s *Store) Open(rel string) ([]byte, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", rel, err)
	}
	return data, nil
}

// Remove deletes stored assets best-effort; a missing file is not an error.
func (s *Store) Remove(rels ...string) {
	for _, rel := range rels {
		if rel == "" {
			continue
		}
		abs, err := s.resolve(rel)
		if err != nil {
			log.Warn().Err(err).Str("asset", rel).Msg("Skipping asset removal")
			continue
		}
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("asset", rel).Msg("Failed to remove asset")
		}
	}
}

func (s *Store) write(rel string, data []byte) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write asset %s: %w", rel, err)
	}
	return nil
}

// resolve rejects store paths with traversal segments before joining them to
// the root. Segments are checked raw because filepath.Clean would silently
// collapse ".." away.
func (s *Store) resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("asset path %q must be relative", rel)
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == ".." {
			return "", fmt.Errorf("asset path %q escapes the store", rel)
		}
	}
	return filepath.Join(s.root, rel), nil
}
