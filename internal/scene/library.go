package scene

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/artiestudio/artie/internal/overlay"
)

// ErrNotFound is returned when a scene id does not exist in the library.
var ErrNotFound = errors.New("scene not found")

// Library owns the scene collection and the current selection. All methods
// are safe for concurrent use and readers only ever see complete snapshots;
// a mutation is either fully visible or not at all.
//
// Persistence hangs off OnChange rather than being interleaved with the
// operations themselves.
type Library struct {
	mu       sync.Mutex
	scenes   []*Scene
	selected string
	onChange []func([]Scene)
}

func NewLibrary() *Library { return &Library{} }

// OnChange registers a listener invoked with a full snapshot after every
// mutation. Listeners run outside the library lock.
func (l *Library) OnChange(fn func([]Scene)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

// Restore seeds the library from persisted history without firing listeners.
// Selection lands on the most recently created scene.
func (l *Library) Restore(scenes []Scene) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scenes = l.scenes[:0]
	for i := range scenes {
		s := scenes[i]
		l.scenes = append(l.scenes, &s)
	}
	l.selected = ""
	if newest := l.newestLocked(); newest != nil {
		l.selected = newest.ID
	}
}

// Append inserts a newly generated scene and selects it. A child whose parent
// is absent, or whose parent is itself a child, is a logic error in the
// generation workflow, not a user-facing condition.
func (l *Library) Append(s *Scene) error {
	l.mu.Lock()
	if s.ParentID != "" {
		parent := l.findLocked(s.ParentID)
		if parent == nil {
			l.mu.Unlock()
			return fmt.Errorf("append %s: parent %s: %w", s.ID, s.ParentID, ErrNotFound)
		}
		if !parent.IsRoot() {
			l.mu.Unlock()
			return fmt.Errorf("append %s: parent %s is not a story root", s.ID, s.ParentID)
		}
	}
	l.scenes = append(l.scenes, s)
	l.selected = s.ID
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snapshot)
	return nil
}

// Delete removes a scene. Removing a root cascades to every scene whose
// parent it was. If the selection was removed it falls back to the most
// recently created remaining scene, or to none.
func (l *Library) Delete(id string) error {
	l.mu.Lock()
	target := l.findLocked(id)
	if target == nil {
		l.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	keep := l.scenes[:0]
	removed := make(map[string]bool)
	for _, s := range l.scenes {
		if s.ID == id || s.ParentID == id {
			removed[s.ID] = true
			continue
		}
		keep = append(keep, s)
	}
	l.scenes = keep

	if removed[l.selected] {
		l.selected = ""
		if newest := l.newestLocked(); newest != nil {
			l.selected = newest.ID
		}
	}
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	log.Debug().Str("scene", id).Int("removed", len(removed)).Msg("Deleted scene")
	l.notify(snapshot)
	return nil
}

// Get returns a copy of the scene with the given id.
func (l *Library) Get(id string) (Scene, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s := l.findLocked(id); s != nil {
		return *s.Clone(), true
	}
	return Scene{}, false
}

// Select makes the given scene current.
func (l *Library) Select(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.findLocked(id) == nil {
		return fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	l.selected = id
	return nil
}

// Selected returns the current scene, if any.
func (l *Library) Selected() (Scene, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s := l.findLocked(l.selected); s != nil {
		return *s.Clone(), true
	}
	return Scene{}, false
}

// Scenes returns a snapshot of the whole collection in insertion order.
func (l *Library) Scenes() []Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Roots lists the story roots, newest first. This is the history ordering.
func (l *Library) Roots() []Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	var roots []Scene
	for _, s := range l.scenes {
		if s.IsRoot() {
			roots = append(roots, *s.Clone())
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	return roots
}

// DeriveStory resolves the story any scene belongs to: the root first, then
// its children in ascending scene-number order.
func (l *Library) DeriveStory(id string) ([]Scene, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.findLocked(id)
	if s == nil {
		return nil, fmt.Errorf("story for %s: %w", id, ErrNotFound)
	}
	rootID := s.ID
	if s.ParentID != "" {
		rootID = s.ParentID
	}
	root := l.findLocked(rootID)
	if root == nil {
		return nil, fmt.Errorf("story root %s: %w", rootID, ErrNotFound)
	}

	story := []Scene{*root.Clone()}
	var children []Scene
	for _, c := range l.scenes {
		if c.ParentID == rootID {
			children = append(children, *c.Clone())
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].SceneNumber < children[j].SceneNumber
	})
	return append(story, children...), nil
}

// NextSceneNumber returns the number the next scene added to the story would
// take: total scenes in the story plus one.
func (l *Library) NextSceneNumber(rootID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	root := l.findLocked(rootID)
	if root == nil {
		return 0, fmt.Errorf("next scene number for %s: %w", rootID, ErrNotFound)
	}
	if root.ParentID != "" {
		rootID = root.ParentID
	}
	count := 0
	for _, s := range l.scenes {
		if s.ID == rootID || s.ParentID == rootID {
			count++
		}
	}
	return count + 1, nil
}

// UpdateOverlays replaces a scene's overlay collections. This is the only
// mutation a created scene supports.
func (l *Library) UpdateOverlays(id string, texts []overlay.Text, logo *overlay.Logo) error {
	l.mu.Lock()
	s := l.findLocked(id)
	if s == nil {
		l.mu.Unlock()
		return fmt.Errorf("update overlays %s: %w", id, ErrNotFound)
	}
	s.TextOverlays = append([]overlay.Text(nil), texts...)
	if logo != nil {
		cp := *logo
		s.Logo = &cp
	} else {
		s.Logo = nil
	}
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snapshot)
	return nil
}

func (l *Library) findLocked(id string) *Scene {
	if id == "" {
		return nil
	}
	for _, s := range l.scenes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (l *Library) newestLocked() *Scene {
	var newest *Scene
	for _, s := range l.scenes {
		if newest == nil || s.CreatedAt.After(newest.CreatedAt) {
			newest = s
		}
	}
	return newest
}

func (l *Library) snapshotLocked() []Scene {
	out := make([]Scene, 0, len(l.scenes))
	for _, s := range l.scenes {
		out = append(out, *s.Clone())
	}
	return out
}

func (l *Library) notify(snapshot []Scene) {
	l.mu.Lock()
	listeners := slices.Clone(l.onChange)
	l.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
