package main

import "testing"

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"assets/a_visual.mp4", "video/mp4"},
		{"assets/a_visual.jpg", "image/jpeg"},
		{"assets/logo.PNG", "image/png"},
		{"assets/a_audio.wav", "audio/wav"},
		{"assets/mystery.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentTypeFor(tt.path); got != tt.want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStoryArchiveName(t *testing.T) {
	tests := []struct {
		product string
		want    string
	}{
		{"Starlight Soda", "Starlight_Soda_story.zip"},
		{"", "ad_story.zip"},
	}
	for _, tt := range tests {
		if got := storyArchiveName(tt.product); got != tt.want {
			t.Errorf("storyArchiveName(%q) = %q, want %q", tt.product, got, tt.want)
		}
	}
}
