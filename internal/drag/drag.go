// Package drag converts pointer gestures into normalized overlay positions.
// The controller is independent of any rendering surface: the UI reports
// pointer coordinates and the pixel boxes of the overlay and its container,
// and gets back the overlay's new anchor position in percentage space.
//
// Exactly one overlay can be dragged at a time, and selecting an overlay of
// one kind drops any selection of the other kind.
package drag

import (
	"errors"
	"sync"

	"github.com/artiestudio/artie/internal/overlay"
)

// Kind distinguishes the two selectable overlay families.
type Kind string

const (
	KindText Kind = "text"
	KindLogo Kind = "logo"
)

// ErrDragActive is returned when a drag begins while another is in progress.
// Pointer devices only produce one gesture at a time, so hitting this means
// a missed pointer-up, and the stale drag should be ended first.
var ErrDragActive = errors.New("another drag is already active")

// ErrNoDrag is returned by Move when no drag is in progress.
var ErrNoDrag = errors.New("no active drag")

// Pointer is a pointer location in the same pixel space as the boxes passed
// alongside it.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type dragState struct {
	kind Kind
	id   string
	// Pointer offset within the overlay's box at pointer-down, so the
	// overlay doesn't jump to center itself under the cursor.
	offsetX float64
	offsetY float64
	// Overlay box size, carried so Move can reconstruct the box at the
	// new location before converting to an anchor.
	w, h float64
}

// Controller holds the active selection and the in-progress drag.
type Controller struct {
	mu       sync.Mutex
	active   *dragState
	selKind  Kind
	selID    string
	selected bool
}

func NewController() *Controller { return &Controller{} }

// Select makes the given overlay active, dropping any selection of the other
// kind.
func (c *Controller) Select(kind Kind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selKind = kind
	c.selID = id
	c.selected = true
}

// Deselect clears the active overlay.
func (c *Controller) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = false
	c.selID = ""
}

// Selected returns the active overlay, if any.
func (c *Controller) Selected() (Kind, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selKind, c.selID, c.selected
}

// Begin starts dragging the overlay rendered at box, recording the pointer's
// offset within it. The overlay also becomes the active selection.
func (c *Controller) Begin(kind Kind, id string, p Pointer, box overlay.Box) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return ErrDragActive
	}
	c.active = &dragState{
		kind:    kind,
		id:      id,
		offsetX: p.X - box.X,
		offsetY: p.Y - box.Y,
		w:       box.W,
		h:       box.H,
	}
	c.selKind = kind
	c.selID = id
	c.selected = true
	return nil
}

// Move translates the pointer position into the dragged overlay's new anchor
// position within container, honoring the kind's anchor convention.
func (c *Controller) Move(p Pointer, container overlay.Box) (Kind, string, overlay.Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", "", overlay.Position{}, ErrNoDrag
	}
	st := c.active
	moved := overlay.Box{
		X: p.X - st.offsetX,
		Y: p.Y - st.offsetY,
		W: st.w,
		H: st.h,
	}
	anchor := overlay.AnchorTopCenter
	if st.kind == KindLogo {
		anchor = overlay.AnchorCenter
	}
	return st.kind, st.id, overlay.AnchorFromBox(anchor, moved, container), nil
}

// End releases the drag unconditionally. Safe to call with no drag active:
// pointer-up can arrive anywhere, including outside the container.
func (c *Controller) End() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}
