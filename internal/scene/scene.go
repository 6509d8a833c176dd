// Package scene holds the generated creative units and their linkage into
// stories. A story is exactly two levels deep: one root scene plus directly
// linked child scenes ordered by scene number. Children of children do not
// exist; the constructors enforce this.
package scene

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artiestudio/artie/internal/overlay"
)

// VisualType selects the generated visual medium.
type VisualType string

const (
	VisualImage VisualType = "image"
	VisualVideo VisualType = "video"
)

// Ext returns the file extension used for this visual type's raw asset.
func (v VisualType) Ext() string {
	if v == VisualVideo {
		return "mp4"
	}
	return "jpg"
}

// Continuation is the opaque handle returned by the video generator that lets
// a later generation extend the prior video. Only video scenes carry one.
type Continuation struct {
	URI         string `json:"uri"`
	AspectRatio string `json:"aspectRatio"`
}

// Brief is the creative request a scene was generated from. It doubles as the
// mutable draft the user edits before submitting; on success it is copied into
// the scene for provenance and story continuation.
type Brief struct {
	Product     string     `json:"product"`
	Era         string     `json:"era"`
	Tone        string     `json:"tone"`
	AspectRatio string     `json:"aspectRatio"`
	VisualType  VisualType `json:"visualType"`
	Voice       string     `json:"voice,omitempty"`
	VisualIdea  string     `json:"visualIdea,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Payload is what a successful generation run produced.
type Payload struct {
	Script       []string      `json:"script,omitempty"`
	VisualPath   string        `json:"visualPath,omitempty"`
	Continuation *Continuation `json:"continuation,omitempty"`
	AudioPath    string        `json:"audioPath,omitempty"`
}

// Scene is one generated creative unit. It is immutable once created except
// for its overlay collections, which the editor replaces wholesale.
type Scene struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Brief
	Payload

	TextOverlays []overlay.Text `json:"textOverlays,omitempty"`
	Logo         *overlay.Logo  `json:"logo,omitempty"`

	// ParentID is empty for a story root. SceneNumber is the 1-based position
	// within the story; a root is always scene 1.
	ParentID    string `json:"parentId,omitempty"`
	SceneNumber int    `json:"sceneNumber,omitempty"`
}

// IsRoot reports whether the scene starts a story.
func (s *Scene) IsRoot() bool { return s.ParentID == "" }

// NewRoot creates a story-root scene from a finished generation run, with one
// default text overlay per script line.
func NewRoot(brief Brief, payload Payload) *Scene {
	return &Scene{
		ID:           newSceneID(),
		CreatedAt:    time.Now(),
		Brief:        brief,
		Payload:      payload,
		TextOverlays: overlay.ScriptOverlays(payload.Script),
		SceneNumber:  1,
	}
}

// NewChild creates a scene linked under root. The root must itself be a story
// root and number must extend the story, i.e. be at least 2.
func NewChild(root *Scene, number int, brief Brief, payload Payload) (*Scene, error) {
	if root == nil {
		return nil, fmt.Errorf("child scene requires a root")
	}
	if !root.IsRoot() {
		return nil, fmt.Errorf("scene %s is not a story root; stories cannot nest", root.ID)
	}
	if number < 2 {
		return nil, fmt.Errorf("child scene number must be >= 2, got %d", number)
	}
	return &Scene{
		ID:           newSceneID(),
		CreatedAt:    time.Now(),
		Brief:        brief,
		Payload:      payload,
		TextOverlays: overlay.ScriptOverlays(payload.Script),
		ParentID:     root.ID,
		SceneNumber:  number,
	}, nil
}

func newSceneID() string { return "ad_" + uuid.NewString() }

// Clone returns a deep copy so callers outside the library can never alias
// its internal state.
func (s *Scene) Clone() *Scene {
	c := *s
	if s.Script != nil {
		c.Script = append([]string(nil), s.Script...)
	}
	if s.Continuation != nil {
		cont := *s.Continuation
		c.Continuation = &cont
	}
	if s.TextOverlays != nil {
		c.TextOverlays = append([]overlay.Text(nil), s.TextOverlays...)
	}
	if s.Logo != nil {
		logo := *s.Logo
		c.Logo = &logo
	}
	return &c
}
