// Package overlay models the text and logo elements composited on top of a
// scene's visual. All positions and sizes are percentages of the rendering
// container's box, so placement survives viewport and export size changes.
//
// The two overlay kinds use different anchor conventions: a text overlay is
// anchored at its top edge, horizontally centered; a logo overlay is anchored
// at its center on both axes. Interactive editing and export rendering must
// agree on these conventions or dragged elements jump between contexts.
package overlay

import (
	"github.com/google/uuid"
)

// Defaults applied to the text overlays auto-generated from a script.
const (
	DefaultFont  = "'Bebas Neue', cursive"
	DefaultColor = "#FFFFFF"
	DefaultSize  = 8.0  // percent of container height
	DefaultWidth = 80.0 // percent of container width

	// Script overlays stack downward from 75% height in 10% steps.
	scriptStackTop     = 75.0
	scriptStackSpacing = 10.0
)

// Position is a normalized overlay anchor point. X is a percentage of the
// container width, Y a percentage of the container height. Which point of the
// overlay's box the position refers to depends on the overlay's Anchor.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Anchor identifies which point of an overlay's rendered box its Position
// refers to.
type Anchor int

const (
	// AnchorTopCenter: X at the horizontal center, Y at the top edge.
	AnchorTopCenter Anchor = iota
	// AnchorCenter: X and Y both at the center.
	AnchorCenter
)

// Box is a rectangle in pixel space, used when translating between a rendered
// surface and normalized coordinates.
type Box struct {
	X, Y, W, H float64
}

// Positionable is the capability shared by both overlay kinds: normalized
// position and size access plus the kind-specific anchor convention.
type Positionable interface {
	OverlayID() string
	Anchor() Anchor
	Position() Position
	SetPosition(Position)
}

// Text is a draggable text element. Size is a percentage of container height,
// Width a percentage of container width.
type Text struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Font  string   `json:"font"`
	Size  float64  `json:"size"`
	Color string   `json:"color"`
	Width float64  `json:"width"`
	Pos   Position `json:"position"`
}

func (t *Text) OverlayID() string      { return t.ID }
func (t *Text) Anchor() Anchor         { return AnchorTopCenter }
func (t *Text) Position() Position     { return t.Pos }
func (t *Text) SetPosition(p Position) { t.Pos = p }

// AlignCenter snaps the horizontal anchor to the container's center line.
// The vertical position is unchanged.
func (t *Text) AlignCenter() { t.Pos.X = 50 }

// Logo is a single image element. Size is a percentage of container width;
// the rendered height preserves the image's aspect ratio.
type Logo struct {
	ID        string   `json:"id"`
	ImagePath string   `json:"image"`
	Size      float64  `json:"size"`
	Pos       Position `json:"position"`
}

func (l *Logo) OverlayID() string      { return l.ID }
func (l *Logo) Anchor() Anchor         { return AnchorCenter }
func (l *Logo) Position() Position     { return l.Pos }
func (l *Logo) SetPosition(p Position) { l.Pos = p }

// NewLogo creates a centered logo overlay for a stored image.
func NewLogo(imagePath string) *Logo {
	return &Logo{
		ID:        "logo_" + uuid.NewString(),
		ImagePath: imagePath,
		Size:      20,
		Pos:       Position{X: 50, Y: 50},
	}
}

// ScriptOverlays builds the default text overlays for a freshly generated
// script: one overlay per line, centered, stacked downward from 75% height.
func ScriptOverlays(script []string) []Text {
	overlays := make([]Text, 0, len(script))
	for i, line := range script {
		overlays = append(overlays, Text{
			ID:    "txt_" + uuid.NewString(),
			Text:  line,
			Font:  DefaultFont,
			Size:  DefaultSize,
			Color: DefaultColor,
			Width: DefaultWidth,
			Pos:   Position{X: 50, Y: scriptStackTop + float64(i)*scriptStackSpacing},
		})
	}
	return overlays
}

// AnchorFromBox translates an overlay's rendered pixel box into its normalized
// anchor position within the container, honoring the anchor convention.
func AnchorFromBox(a Anchor, box, container Box) Position {
	var px, py float64
	switch a {
	case AnchorCenter:
		px = box.X + box.W/2
		py = box.Y + box.H/2
	default: // AnchorTopCenter
		px = box.X + box.W/2
		py = box.Y
	}
	return Position{
		X: (px - container.X) / container.W * 100,
		Y: (py - container.Y) / container.H * 100,
	}
}

// AnchorPixels converts a normalized anchor position into pixel coordinates
// for a container of the given size. The returned point is the anchor point
// itself, not the box origin.
func AnchorPixels(p Position, containerW, containerH float64) (x, y float64) {
	return p.X / 100 * containerW, p.Y / 100 * containerH
}
