package scene

import (
	"slices"
	"testing"
)

func TestSurpriseBrief(t *testing.T) {
	voiceValues := make([]string, len(Voices))
	for i, v := range Voices {
		voiceValues[i] = v.Value
	}

	for range 20 {
		b := SurpriseBrief("Moon Cheese", "A cow on the moon")
		if b.Product != "Moon Cheese" || b.VisualIdea != "A cow on the moon" {
			t.Fatalf("SurpriseBrief() = %+v, want the idea preserved", b)
		}
		if b.VisualType != VisualVideo {
			t.Errorf("VisualType = %q, want video", b.VisualType)
		}
		if !slices.Contains(Eras, b.Era) {
			t.Errorf("Era %q not in the era list", b.Era)
		}
		if !slices.Contains(Tones, b.Tone) {
			t.Errorf("Tone %q not in the tone list", b.Tone)
		}
		if !slices.Contains(AspectRatios, b.AspectRatio) {
			t.Errorf("AspectRatio %q not in the ratio list", b.AspectRatio)
		}
		if !slices.Contains(voiceValues, b.Voice) {
			t.Errorf("Voice %q not in the voice list", b.Voice)
		}
	}
}

func TestDefaultBriefIsComplete(t *testing.T) {
	b := DefaultBrief()
	if b.Product == "" || b.Era == "" || b.Tone == "" || b.AspectRatio == "" || b.Voice == "" {
		t.Errorf("DefaultBrief() = %+v, want every creative field filled", b)
	}
}
