package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/scene"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
const zipMethodZstd uint16 = 93

func init() {
	// Register Zstandard as a ZIP compressor at level 12, the highest the
	// library supports. Only PCM audio and the playlist page use it; encoded
	// media is stored as-is.
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(12)))
	})
}

// Progress receives export completion as a percentage in [0, 100].
type Progress func(percent float64)

// BundleScene writes a ZIP holding a single scene's video and, when present,
// its narration audio.
func BundleScene(w io.Writer, s scene.Scene, assets AssetOpener) error {
	if s.VisualPath == "" {
		return fmt.Errorf("scene %s has no visual to bundle", s.ID)
	}

	zw := zip.NewWriter(w)
	base := sanitizeBaseName(s.Product)

	visual, err := assets.Open(s.VisualPath)
	if err != nil {
		return fmt.Errorf("open visual: %w", err)
	}
	visualName := fmt.Sprintf("%s_video.%s", base, s.VisualType.Ext())
	if err := addEntry(zw, visualName, visual, zip.Store); err != nil {
		return err
	}

	if s.AudioPath != "" {
		audio, err := assets.Open(s.AudioPath)
		if err != nil {
			return fmt.Errorf("open audio: %w", err)
		}
		if err := addEntry(zw, base+"_audio.wav", audio, zipMethodZstd); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close ZIP writer: %w", err)
	}
	return nil
}

// ExportStory writes a ZIP holding every asset of an ordered story: each
// scene's visual and audio under scene_N names, plus a self-contained playlist
// page when the story has at least one video. progress may be nil.
func ExportStory(w io.Writer, story []scene.Scene, assets AssetOpener, progress Progress) error {
	if len(story) == 0 {
		return fmt.Errorf("story has no scenes")
	}
	if progress == nil {
		progress = func(float64) {}
	}

	total := 0
	for _, s := range story {
		if s.VisualPath != "" {
			total++
		}
		if s.AudioPath != "" {
			total++
		}
	}
	if total == 0 {
		return fmt.Errorf("story has no exportable assets")
	}

	zw := zip.NewWriter(w)
	done := 0
	var videoFiles []string

	for i, s := range story {
		base := fmt.Sprintf("scene_%d", i+1)

		if s.VisualPath != "" {
			data, err := assets.Open(s.VisualPath)
			if err != nil {
				return fmt.Errorf("open %s visual: %w", base, err)
			}
			name := fmt.Sprintf("%s_visual.%s", base, s.VisualType.Ext())
			if err := addEntry(zw, name, data, zip.Store); err != nil {
				return err
			}
			if s.VisualType == scene.VisualVideo {
				videoFiles = append(videoFiles, name)
			}
			done++
			progress(float64(done) / float64(total) * 100)
		}

		if s.AudioPath != "" {
			data, err := assets.Open(s.AudioPath)
			if err != nil {
				return fmt.Errorf("open %s audio: %w", base, err)
			}
			if err := addEntry(zw, base+"_audio.wav", data, zipMethodZstd); err != nil {
				return err
			}
			done++
			progress(float64(done) / float64(total) * 100)
		}
	}

	if len(videoFiles) > 0 {
		page, err := playlistHTML(story[0].Product, videoFiles)
		if err != nil {
			return fmt.Errorf("render playlist: %w", err)
		}
		if err := addEntry(zw, "play_story.html", page, zipMethodZstd); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close ZIP writer: %w", err)
	}
	log.Info().Int("scenes", len(story)).Int("files", done).Msg("Story export bundled")
	return nil
}

func addEntry(zw *zip.Writer, name string, data []byte, method uint16) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: time.Now(),
	}
	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create ZIP entry for %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write ZIP entry for %s: %w", name, err)
	}
	return nil
}

// sanitizeBaseName turns a product name into a safe file name stem.
func sanitizeBaseName(product string) string {
	name := strings.Join(strings.Fields(product), "_")
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	if name == "" {
		return "ad"
	}
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}
