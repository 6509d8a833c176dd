package overlay

import (
	"testing"
)

func TestPositionRoundTrip(t *testing.T) {
	// Percentage positions are container-independent: writing {50,50} and
	// reading it back must not depend on any pixel size.
	txt := &Text{ID: "t1"}
	txt.SetPosition(Position{X: 50, Y: 50})
	if got := txt.Position(); got.X != 50 || got.Y != 50 {
		t.Errorf("Position() = %+v, want {50 50}", got)
	}

	logo := NewLogo("logo.png")
	logo.SetPosition(Position{X: 12.5, Y: 87.5})
	if got := logo.Position(); got.X != 12.5 || got.Y != 87.5 {
		t.Errorf("Position() = %+v, want {12.5 87.5}", got)
	}
}

func TestAlignCenter(t *testing.T) {
	txt := &Text{Pos: Position{X: 83.2, Y: 41}}
	txt.AlignCenter()
	if txt.Pos.X != 50 {
		t.Errorf("AlignCenter() x = %v, want 50", txt.Pos.X)
	}
	if txt.Pos.Y != 41 {
		t.Errorf("AlignCenter() y = %v, want 41 (unchanged)", txt.Pos.Y)
	}
}

func TestScriptOverlaysStacking(t *testing.T) {
	overlays := ScriptOverlays([]string{"Line one", "Line two", "Line three"})
	if len(overlays) != 3 {
		t.Fatalf("ScriptOverlays() returned %d overlays, want 3", len(overlays))
	}
	for i, ov := range overlays {
		wantY := 75 + float64(i)*10
		if ov.Pos.Y != wantY {
			t.Errorf("overlay %d y = %v, want %v", i, ov.Pos.Y, wantY)
		}
		if ov.Pos.X != 50 {
			t.Errorf("overlay %d x = %v, want 50", i, ov.Pos.X)
		}
		if ov.Font != DefaultFont || ov.Color != DefaultColor {
			t.Errorf("overlay %d styling = (%q, %q), want defaults", i, ov.Font, ov.Color)
		}
		if ov.ID == "" {
			t.Errorf("overlay %d has empty id", i)
		}
	}
	if overlays[0].ID == overlays[1].ID {
		t.Error("overlay ids are not unique")
	}
}

func TestAnchorFromBox(t *testing.T) {
	container := Box{X: 100, Y: 50, W: 800, H: 400}

	tests := []struct {
		name   string
		anchor Anchor
		box    Box
		want   Position
	}{
		{
			name:   "text top-center",
			anchor: AnchorTopCenter,
			box:    Box{X: 300, Y: 150, W: 400, H: 100},
			want:   Position{X: 50, Y: 25},
		},
		{
			name:   "logo center-center",
			anchor: AnchorCenter,
			box:    Box{X: 460, Y: 210, W: 80, H: 80},
			want:   Position{X: 50, Y: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnchorFromBox(tt.anchor, tt.box, container)
			if got != tt.want {
				t.Errorf("AnchorFromBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAnchorPixels(t *testing.T) {
	x, y := AnchorPixels(Position{X: 25, Y: 75}, 1920, 1080)
	if x != 480 || y != 810 {
		t.Errorf("AnchorPixels() = (%v, %v), want (480, 810)", x, y)
	}
}
