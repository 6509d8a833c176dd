package scene

import (
	"errors"
	"testing"
	"time"
)

func testRoot(t *testing.T, product string) *Scene {
	t.Helper()
	return NewRoot(Brief{
		Product:     product,
		Era:         "1980s",
		Tone:        "Nostalgic",
		AspectRatio: "16:9",
		VisualType:  VisualVideo,
		Voice:       "Puck",
	}, Payload{
		Script:       []string{"First line.", "Second line."},
		VisualPath:   "assets/root_visual.mp4",
		Continuation: &Continuation{URI: "files/veo-root", AspectRatio: "16:9"},
	})
}

func testChild(t *testing.T, root *Scene, number int) *Scene {
	t.Helper()
	child, err := NewChild(root, number, root.Brief, Payload{
		Script:     []string{"Next line."},
		VisualPath: "assets/child_visual.mp4",
	})
	if err != nil {
		t.Fatalf("NewChild() error: %v", err)
	}
	return child
}

func TestNewChildValidation(t *testing.T) {
	root := testRoot(t, "Starlight Soda")
	child := testChild(t, root, 2)

	if _, err := NewChild(child, 3, child.Brief, Payload{}); err == nil {
		t.Error("NewChild() with a child as parent should fail; stories are two levels deep")
	}
	if _, err := NewChild(root, 1, root.Brief, Payload{}); err == nil {
		t.Error("NewChild() with number 1 should fail")
	}
	if _, err := NewChild(nil, 2, Brief{}, Payload{}); err == nil {
		t.Error("NewChild() with nil root should fail")
	}
}

func TestAppendRequiresParent(t *testing.T) {
	lib := NewLibrary()
	root := testRoot(t, "Starlight Soda")
	child := testChild(t, root, 2)

	if err := lib.Append(child); !errors.Is(err, ErrNotFound) {
		t.Errorf("Append(child without parent) error = %v, want ErrNotFound", err)
	}
	if err := lib.Append(root); err != nil {
		t.Fatalf("Append(root) error: %v", err)
	}
	if err := lib.Append(child); err != nil {
		t.Errorf("Append(child) error: %v", err)
	}
}

func TestDeriveStory(t *testing.T) {
	lib := NewLibrary()
	root := testRoot(t, "Starlight Soda")
	b := testChild(t, root, 2)
	c := testChild(t, root, 3)

	for _, s := range []*Scene{root, b, c} {
		if err := lib.Append(s); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	// Any member of the story resolves to the same ordering.
	for _, member := range []string{root.ID, b.ID, c.ID} {
		story, err := lib.DeriveStory(member)
		if err != nil {
			t.Fatalf("DeriveStory(%s) error: %v", member, err)
		}
		if len(story) != 3 {
			t.Fatalf("DeriveStory(%s) returned %d scenes, want 3", member, len(story))
		}
		if story[0].ID != root.ID {
			t.Errorf("story[0] = %s, want root %s", story[0].ID, root.ID)
		}
		if story[1].SceneNumber != 2 || story[2].SceneNumber != 3 {
			t.Errorf("story numbers = %d, %d, want 2, 3", story[1].SceneNumber, story[2].SceneNumber)
		}
	}
}

func TestNextSceneNumber(t *testing.T) {
	lib := NewLibrary()
	root := testRoot(t, "Starlight Soda")
	if err := lib.Append(root); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	n, err := lib.NextSceneNumber(root.ID)
	if err != nil {
		t.Fatalf("NextSceneNumber() error: %v", err)
	}
	if n != 2 {
		t.Errorf("NextSceneNumber() = %d, want 2", n)
	}

	if err := lib.Append(testChild(t, root, 2)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if n, _ = lib.NextSceneNumber(root.ID); n != 3 {
		t.Errorf("NextSceneNumber() after one child = %d, want 3", n)
	}
}

func TestDeleteCascades(t *testing.T) {
	lib := NewLibrary()
	root := testRoot(t, "Starlight Soda")
	child := testChild(t, root, 2)
	other := testRoot(t, "Moonbeam Mints")

	for _, s := range []*Scene{root, child, other} {
		if err := lib.Append(s); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	if err := lib.Delete(root.ID); err != nil {
		t.Fatalf("Delete(root) error: %v", err)
	}
	if _, ok := lib.Get(child.ID); ok {
		t.Error("child survived root deletion")
	}
	if _, ok := lib.Get(other.ID); !ok {
		t.Error("unrelated scene removed by cascade")
	}

	if err := lib.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteNonRootRemovesOnlyItself(t *testing.T) {
	lib := NewLibrary()
	root := testRoot(t, "Starlight Soda")
	child := testChild(t, root, 2)
	for _, s := range []*Scene{root, child} {
		if err := lib.Append(s); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	if err := lib.Delete(child.ID); err != nil {
		t.Fatalf("Delete(child) error: %v", err)
	}
	if _, ok := lib.Get(root.ID); !ok {
		t.Error("root removed when deleting a child")
	}
	if len(lib.Scenes()) != 1 {
		t.Errorf("library has %d scenes, want 1", len(lib.Scenes()))
	}
}

func TestSelectionFallbackOnDelete(t *testing.T) {
	lib := NewLibrary()
	first := testRoot(t, "First")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := testRoot(t, "Second")

	for _, s := range []*Scene{first, second} {
		if err := lib.Append(s); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	// Append selects the latest.
	if sel, ok := lib.Selected(); !ok || sel.ID != second.ID {
		t.Fatalf("Selected() = %v, want %s", sel.ID, second.ID)
	}

	if err := lib.Delete(second.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if sel, ok := lib.Selected(); !ok || sel.ID != first.ID {
		t.Errorf("selection after delete = %v, want fallback to %s", sel.ID, first.ID)
	}

	if err := lib.Delete(first.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok := lib.Selected(); ok {
		t.Error("Selected() reports a scene for an empty library")
	}
}

func TestRootsNewestFirst(t *testing.T) {
	lib := NewLibrary()
	old := testRoot(t, "Old")
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	mid := testRoot(t, "Mid")
	mid.CreatedAt = time.Now().Add(-time.Hour)
	fresh := testRoot(t, "Fresh")

	for _, s := range []*Scene{old, fresh, mid} {
		if err := lib.Append(s); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	roots := lib.Roots()
	if len(roots) != 3 {
		t.Fatalf("Roots() returned %d, want 3", len(roots))
	}
	if roots[0].Product != "Fresh" || roots[1].Product != "Mid" || roots[2].Product != "Old" {
		t.Errorf("Roots() order = %s, %s, %s, want Fresh, Mid, Old",
			roots[0].Product, roots[1].Product, roots[2].Product)
	}
}

func TestOnChangeFiresWithSnapshot(t *testing.T) {
	lib := NewLibrary()
	var got [][]Scene
	lib.OnChange(func(scenes []Scene) { got = append(got, scenes) })

	root := testRoot(t, "Starlight Soda")
	if err := lib.Append(root); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := lib.Delete(root.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("listener fired %d times, want 2", len(got))
	}
	if len(got[0]) != 1 || len(got[1]) != 0 {
		t.Errorf("snapshots sizes = %d, %d, want 1, 0", len(got[0]), len(got[1]))
	}
}

func TestOnChangeNotifiesEveryListener(t *testing.T) {
	lib := NewLibrary()
	first, second := 0, 0
	lib.OnChange(func([]Scene) { first++ })
	lib.OnChange(func([]Scene) { second++ })

	if err := lib.Append(testRoot(t, "Starlight Soda")); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if first != 1 || second != 1 {
		t.Errorf("listeners fired %d, %d times, want 1, 1", first, second)
	}
}

func TestRestoreDoesNotNotify(t *testing.T) {
	lib := NewLibrary()
	fired := 0
	lib.OnChange(func([]Scene) { fired++ })

	root := testRoot(t, "Starlight Soda")
	lib.Restore([]Scene{*root})
	if fired != 0 {
		t.Errorf("Restore() fired listeners %d times, want 0", fired)
	}
	if sel, ok := lib.Selected(); !ok || sel.ID != root.ID {
		t.Errorf("Selected() after restore = %v, want %s", sel.ID, root.ID)
	}
}

func TestUpdateOverlays(t *testing.T) {
	lib := NewLibrary()
	root := testRoot(t, "Starlight Soda")
	if err := lib.Append(root); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	texts := root.TextOverlays
	texts[0].Text = "Edited"
	if err := lib.UpdateOverlays(root.ID, texts, nil); err != nil {
		t.Fatalf("UpdateOverlays() error: %v", err)
	}

	got, _ := lib.Get(root.ID)
	if got.TextOverlays[0].Text != "Edited" {
		t.Errorf("overlay text = %q, want %q", got.TextOverlays[0].Text, "Edited")
	}
	if got.Logo != nil {
		t.Error("logo should be nil after update with nil logo")
	}
}
