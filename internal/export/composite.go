package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/artiestudio/artie/internal/overlay"
	"github.com/artiestudio/artie/internal/scene"
)

// Composites are rendered at a fixed reference width so overlay percentages
// map to the same proportions the editor showed.
const referenceWidth = 1920

const jpegQuality = 90

// AssetOpener reads a stored asset by its relative path.
type AssetOpener interface {
	Open(path string) ([]byte, error)
}

// Renderer flattens a scene's visual and overlays into a single JPEG.
type Renderer struct {
	assets AssetOpener
	fonts  *FontLibrary
}

func NewRenderer(assets AssetOpener, fonts *FontLibrary) *Renderer {
	return &Renderer{assets: assets, fonts: fonts}
}

// RenderComposite draws the scene's visual cover-scaled onto a canvas sized by
// the scene's aspect ratio, then its text overlays and logo, and returns the
// result as JPEG bytes. Video scenes export their overlays over the last
// stored frame image; callers should prefer this only for image scenes.
func (r *Renderer) RenderComposite(s scene.Scene) ([]byte, error) {
	if s.VisualPath == "" {
		return nil, fmt.Errorf("scene %s has no visual to export", s.ID)
	}
	raw, err := r.assets.Open(s.VisualPath)
	if err != nil {
		return nil, fmt.Errorf("open visual: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode visual: %w", err)
	}

	w := referenceWidth
	h := heightForAspect(s.AspectRatio, w)
	dc := gg.NewContext(w, h)
	drawCover(dc, img, float64(w), float64(h))

	for i := range s.TextOverlays {
		if err := r.drawText(dc, &s.TextOverlays[i], float64(w), float64(h)); err != nil {
			return nil, err
		}
	}
	if s.Logo != nil {
		if err := r.drawLogo(dc, s.Logo, float64(w), float64(h)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawText(dc *gg.Context, t *overlay.Text, w, h float64) error {
	fontPx := t.Size / 100 * h
	face, err := r.fonts.Face(t.Font, fontPx)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(parseHexColor(t.Color))

	maxWidth := t.Width / 100 * w
	lines := wrapText(func(s string) float64 {
		lw, _ := dc.MeasureString(s)
		return lw
	}, t.Text, maxWidth)

	ax, ay := overlay.AnchorPixels(t.Pos, w, h)
	lineHeight := fontPx * 1.2
	for i, line := range lines {
		if line == "" {
			continue
		}
		// ay is the top edge of the block; anchor each baseline below it.
		dc.DrawStringAnchored(line, ax, ay+float64(i)*lineHeight, 0.5, 1)
	}
	return nil
}

func (r *Renderer) drawLogo(dc *gg.Context, l *overlay.Logo, w, h float64) error {
	raw, err := r.assets.Open(l.ImagePath)
	if err != nil {
		return fmt.Errorf("open logo: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode logo: %w", err)
	}
	bounds := img.Bounds()
	targetW := l.Size / 100 * w
	scale := targetW / float64(bounds.Dx())
	targetH := float64(bounds.Dy()) * scale

	cx, cy := overlay.AnchorPixels(l.Pos, w, h)
	dc.Push()
	dc.Translate(cx-targetW/2, cy-targetH/2)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
	return nil
}

// drawCover scales the image to fill the canvas, cropping the overflow evenly.
func drawCover(dc *gg.Context, img image.Image, w, h float64) {
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := w / iw
	if s := h / ih; s > scale {
		scale = s
	}
	dc.Push()
	dc.Translate((w-iw*scale)/2, (h-ih*scale)/2)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// heightForAspect derives the canvas height for a "W:H" ratio string,
// defaulting to 16:9 when the ratio is unparseable.
func heightForAspect(ratio string, width int) int {
	parts := strings.SplitN(ratio, ":", 2)
	if len(parts) == 2 {
		rw, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
		rh, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errW == nil && errH == nil && rw > 0 && rh > 0 {
			return width * rh / rw
		}
	}
	return width * 9 / 16
}

// parseHexColor reads #RGB or #RRGGBB, falling back to white so a malformed
// stored color never aborts an export.
func parseHexColor(s string) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	hexByte := func(str string) (uint8, bool) {
		v, err := strconv.ParseUint(str, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}
	switch len(s) {
	case 3:
		rv, ok1 := hexByte(strings.Repeat(s[0:1], 2))
		gv, ok2 := hexByte(strings.Repeat(s[1:2], 2))
		bv, ok3 := hexByte(strings.Repeat(s[2:3], 2))
		if ok1 && ok2 && ok3 {
			return color.RGBA{R: rv, G: gv, B: bv, A: 255}
		}
	case 6:
		rv, ok1 := hexByte(s[0:2])
		gv, ok2 := hexByte(s[2:4])
		bv, ok3 := hexByte(s[4:6])
		if ok1 && ok2 && ok3 {
			return color.RGBA{R: rv, G: gv, B: bv, A: 255}
		}
	}
	return color.White
}
