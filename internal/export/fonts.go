package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// FontLibrary resolves the studio's CSS-style font identifiers (e.g.
// "'Bebas Neue', cursive") to concrete faces for raster export. It looks for
// <family>.ttf in the fonts directory and falls back to the bundled Go Bold
// face, so export never fails just because a display font isn't installed.
type FontLibrary struct {
	mu     sync.Mutex
	dir    string
	parsed map[string]*truetype.Font
}

// NewFontLibrary creates a library backed by the given fonts directory.
func NewFontLibrary(dir string) *FontLibrary {
	return &FontLibrary{dir: dir, parsed: make(map[string]*truetype.Font)}
}

// Face returns a face for the family at the given pixel size.
func (f *FontLibrary) Face(family string, sizePx float64) (font.Face, error) {
	ft, err := f.fontFor(familyName(family))
	if err != nil {
		return nil, err
	}
	// At 72 DPI point size equals pixel size.
	return truetype.NewFace(ft, &truetype.Options{Size: sizePx, DPI: 72}), nil
}

func (f *FontLibrary) fontFor(name string) (*truetype.Font, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ft, ok := f.parsed[name]; ok {
		return ft, nil
	}

	var raw []byte
	if f.dir != "" {
		path := filepath.Join(f.dir, name+".ttf")
		if data, err := os.ReadFile(path); err == nil {
			raw = data
		}
	}
	if raw == nil {
		log.Debug().Str("family", name).Msg("Font file not found, using bundled fallback")
		raw = gobold.TTF
	}

	ft, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	f.parsed[name] = ft
	return ft, nil
}

// familyName extracts the first family from a CSS font-family list:
// "'Bebas Neue', cursive" → "Bebas Neue".
func familyName(family string) string {
	first := family
	if i := strings.IndexByte(family, ','); i >= 0 {
		first = family[:i]
	}
	first = strings.Trim(strings.TrimSpace(first), `'"`)
	if first == "" {
		return "default"
	}
	return first
}
