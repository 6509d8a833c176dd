package export

import (
	"reflect"
	"testing"
)

// measureByRunes treats every rune as 10 units wide, spaces included.
func measureByRunes(s string) float64 {
	return float64(len([]rune(s))) * 10
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{
			name:     "fits on one line",
			text:     "new wave soda",
			maxWidth: 200,
			want:     []string{"new wave soda"},
		},
		{
			name:     "greedy packing",
			text:     "taste the future today",
			maxWidth: 130, // 13 runes
			want:     []string{"taste the", "future today"},
		},
		{
			name:     "oversized word gets its own line",
			text:     "try unquestionably fizzy",
			maxWidth: 100,
			want:     []string{"try", "unquestionably", "fizzy"},
		},
		{
			name:     "explicit newlines preserved",
			text:     "one\ntwo three",
			maxWidth: 1000,
			want:     []string{"one", "two three"},
		},
		{
			name:     "blank paragraph kept",
			text:     "one\n\ntwo",
			maxWidth: 1000,
			want:     []string{"one", "", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(measureByRunes, tt.text, tt.maxWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrapText(%q, %v) = %v, want %v", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrapTextLinesFit(t *testing.T) {
	lines := wrapText(measureByRunes, "a quick brown fox jumps over the lazy dog", 120)
	for _, line := range lines {
		if measureByRunes(line) > 120 && len([]rune(line)) > 12 {
			t.Errorf("line %q exceeds max width", line)
		}
	}
}

func TestFamilyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'Bebas Neue', cursive", "Bebas Neue"},
		{`"Roboto", sans-serif`, "Roboto"},
		{"monospace", "monospace"},
		{"", "default"},
	}
	for _, tt := range tests {
		if got := familyName(tt.in); got != tt.want {
			t.Errorf("familyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
