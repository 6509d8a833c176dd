package jobs

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID("export-")
	b := GenerateID("export-")
	if !strings.HasPrefix(a, "export-") {
		t.Errorf("GenerateID() = %q, want export- prefix", a)
	}
	if len(a) != len("export-")+32 {
		t.Errorf("GenerateID() length = %d, want %d", len(a), len("export-")+32)
	}
	if a == b {
		t.Error("GenerateID() returned the same ID twice")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[*struct{ n int }]()
	if _, ok := r.Get("missing"); ok {
		t.Error("Get() on an empty registry should miss")
	}
	job := &struct{ n int }{n: 7}
	r.Put("export-abc", job)
	got, ok := r.Get("export-abc")
	if !ok || got.n != 7 {
		t.Errorf("Get() = %+v %v, want the stored job", got, ok)
	}
}
