package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/artiestudio/artie/internal/scene"
)

type fakeGen struct {
	script    []string
	scriptErr error
	videoErr  error
	imageErr  error
	speechErr error
	cont      *scene.Continuation

	scriptCalls int
	imageCalls  int
	videoCalls  int
	speechCalls int

	priorSeen []string
	prevSeen  *scene.Continuation
	voiceSeen string

	started chan struct{}
	release chan struct{}
}

func (g *fakeGen) GenerateScript(ctx context.Context, brief scene.Brief, prior []string) ([]string, error) {
	g.scriptCalls++
	g.priorSeen = prior
	if g.started != nil {
		close(g.started)
		g.started = nil
	}
	if g.release != nil {
		<-g.release
	}
	return g.script, g.scriptErr
}

func (g *fakeGen) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	g.imageCalls++
	return []byte("img"), g.imageErr
}

func (g *fakeGen) GenerateVideo(ctx context.Context, prompt, aspectRatio string, prev *scene.Continuation) ([]byte, *scene.Continuation, error) {
	g.videoCalls++
	g.prevSeen = prev
	if g.videoErr != nil {
		return nil, nil, g.videoErr
	}
	return []byte("vid"), g.cont, nil
}

func (g *fakeGen) GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	g.speechCalls++
	g.voiceSeen = voice
	return []byte("wav"), g.speechErr
}

type fakeAssets struct {
	visuals int
	audios  int
}

func (a *fakeAssets) SaveVisual(id string, data []byte, vt scene.VisualType) (string, error) {
	a.visuals++
	return fmt.Sprintf("assets/%s_visual.%s", id, vt.Ext()), nil
}

func (a *fakeAssets) SaveAudio(id string, data []byte) (string, error) {
	a.audios++
	return fmt.Sprintf("assets/%s_audio.wav", id), nil
}

type fakeCreds struct{ invalidated bool }

func (c *fakeCreds) Invalidate() { c.invalidated = true }

func newRunner(gen *fakeGen) (*Runner, *scene.Library, *fakeCreds, *fakeAssets) {
	lib := scene.NewLibrary()
	creds := &fakeCreds{}
	assets := &fakeAssets{}
	provider := func(ctx context.Context) (Generator, error) { return gen, nil }
	return NewRunner(provider, creds, assets, lib), lib, creds, assets
}

func videoBrief(voice string) scene.Brief {
	return scene.Brief{
		Product:     "Starlight Soda",
		Era:         "1980s",
		Tone:        "Energetic",
		AspectRatio: "16:9",
		VisualType:  scene.VisualVideo,
		Voice:       voice,
	}
}

func TestRunRootVideoScene(t *testing.T) {
	gen := &fakeGen{
		script: []string{"Taste the future.", "Starlight Soda."},
		cont:   &scene.Continuation{URI: "files/abc", AspectRatio: "16:9"},
	}
	r, lib, _, assets := newRunner(gen)

	s, err := r.Run(context.Background(), videoBrief("Kore"), "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !s.IsRoot() || s.SceneNumber != 1 {
		t.Errorf("scene root = %v number = %d, want root scene 1", s.IsRoot(), s.SceneNumber)
	}
	if s.Continuation == nil || s.Continuation.URI != "files/abc" {
		t.Errorf("continuation = %+v, want files/abc", s.Continuation)
	}
	if len(s.TextOverlays) != 2 {
		t.Errorf("overlays = %d, want one per script line", len(s.TextOverlays))
	}
	if gen.speechCalls != 1 || assets.audios != 1 {
		t.Errorf("speech calls = %d, audio saves = %d, want 1 and 1", gen.speechCalls, assets.audios)
	}
	if sel, ok := lib.Selected(); !ok || sel.ID != s.ID {
		t.Errorf("library selection = %v %v, want new scene selected", sel.ID, ok)
	}
	if got := r.Status(); got.Stage != StageComplete || got.SceneID != s.ID {
		t.Errorf("Status() = %+v, want complete with scene id", got)
	}
}

func TestRunImageSceneSkipsAudio(t *testing.T) {
	gen := &fakeGen{script: []string{"Crisp."}}
	r, _, _, assets := newRunner(gen)

	brief := videoBrief("Kore")
	brief.VisualType = scene.VisualImage

	s, err := r.Run(context.Background(), brief, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gen.imageCalls != 1 || gen.videoCalls != 0 {
		t.Errorf("image calls = %d, video calls = %d, want 1 and 0", gen.imageCalls, gen.videoCalls)
	}
	if gen.speechCalls != 0 || assets.audios != 0 {
		t.Error("image scene should not get a voiceover")
	}
	if s.AudioPath != "" {
		t.Errorf("AudioPath = %q, want empty", s.AudioPath)
	}
}

func TestRunNoVoiceSkipsAudio(t *testing.T) {
	gen := &fakeGen{script: []string{"Crisp."}, cont: &scene.Continuation{URI: "files/x"}}
	r, _, _, _ := newRunner(gen)

	if _, err := r.Run(context.Background(), videoBrief(""), ""); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gen.speechCalls != 0 {
		t.Errorf("speech calls = %d, want 0 without a voice", gen.speechCalls)
	}
}

func TestRunEmptyScriptSkipsAudio(t *testing.T) {
	gen := &fakeGen{script: nil, cont: &scene.Continuation{URI: "files/x"}}
	r, _, _, _ := newRunner(gen)

	if _, err := r.Run(context.Background(), videoBrief("Kore"), ""); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gen.speechCalls != 0 {
		t.Errorf("speech calls = %d, want 0 for an empty script", gen.speechCalls)
	}
}

func TestRunAddSceneToStory(t *testing.T) {
	gen := &fakeGen{
		script: []string{"And then, more."},
		cont:   &scene.Continuation{URI: "files/second"},
	}
	r, lib, _, _ := newRunner(gen)

	root := scene.NewRoot(videoBrief("Kore"), scene.Payload{
		Script:       []string{"First line."},
		VisualPath:   "assets/root_visual.mp4",
		Continuation: &scene.Continuation{URI: "files/first", AspectRatio: "16:9"},
	})
	if err := lib.Append(root); err != nil {
		t.Fatal(err)
	}

	s, err := r.Run(context.Background(), scene.Brief{Voice: "Puck"}, root.ID)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.ParentID != root.ID || s.SceneNumber != 2 {
		t.Errorf("child parent = %s number = %d, want %s and 2", s.ParentID, s.SceneNumber, root.ID)
	}
	if s.Product != "Starlight Soda" || s.VisualType != scene.VisualVideo {
		t.Errorf("child brief = %+v, want product and medium inherited from root", s.Brief)
	}
	if gen.prevSeen == nil || gen.prevSeen.URI != "files/first" {
		t.Errorf("video generator got prev = %+v, want the root's continuation", gen.prevSeen)
	}
	if len(gen.priorSeen) != 1 || gen.priorSeen[0] != "First line." {
		t.Errorf("script generator got prior = %v, want the story's script", gen.priorSeen)
	}
}

func TestRunMissingContinuationFailsBeforeGenerating(t *testing.T) {
	gen := &fakeGen{script: []string{"x"}}
	r, lib, _, _ := newRunner(gen)

	root := scene.NewRoot(videoBrief(""), scene.Payload{
		Script:     []string{"First line."},
		VisualPath: "assets/root_visual.mp4",
	})
	if err := lib.Append(root); err != nil {
		t.Fatal(err)
	}

	_, err := r.Run(context.Background(), scene.Brief{}, root.ID)
	if !errors.Is(err, ErrMissingContinuation) {
		t.Fatalf("Run() error = %v, want ErrMissingContinuation", err)
	}
	if gen.scriptCalls != 0 || gen.videoCalls != 0 || gen.speechCalls != 0 {
		t.Errorf("generator called %d/%d/%d times, want none before the precondition",
			gen.scriptCalls, gen.videoCalls, gen.speechCalls)
	}
	status := r.Status()
	if status.Stage != StageFailed {
		t.Errorf("Status().Stage = %s, want failed", status.Stage)
	}
	if !strings.Contains(status.Error, "previous scene's video data is missing") {
		t.Errorf("Status().Error = %q, want the precondition message verbatim", status.Error)
	}
}

func TestRunBusyGate(t *testing.T) {
	gen := &fakeGen{
		script:  []string{"x"},
		cont:    &scene.Continuation{URI: "files/x"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	r, _, _, _ := newRunner(gen)

	started := gen.started
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), videoBrief(""), "")
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never started")
	}

	if _, err := r.Run(context.Background(), videoBrief(""), ""); !errors.Is(err, ErrBusy) {
		t.Errorf("second Run() error = %v, want ErrBusy", err)
	}

	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
}

func TestRunFailureSurfacesVerbatimAndInvalidates(t *testing.T) {
	gen := &fakeGen{
		script:   []string{"x"},
		videoErr: errors.New("Requested entity was not found."),
	}
	r, _, creds, _ := newRunner(gen)

	_, err := r.Run(context.Background(), videoBrief(""), "")
	if err == nil {
		t.Fatal("Run() should fail when the video generator fails")
	}
	if !strings.Contains(err.Error(), "Requested entity was not found.") {
		t.Errorf("error = %q, want the generator failure text preserved", err)
	}
	if !creds.invalidated {
		t.Error("credentials should be invalidated on an entity-not-found failure")
	}
	if status := r.Status(); status.Stage != StageFailed || !strings.Contains(status.Error, "Requested entity was not found.") {
		t.Errorf("Status() = %+v, want failed with the verbatim message", status)
	}
}

func TestRunGenericFailureDoesNotInvalidate(t *testing.T) {
	gen := &fakeGen{scriptErr: errors.New("deadline exceeded")}
	r, _, creds, _ := newRunner(gen)

	if _, err := r.Run(context.Background(), videoBrief(""), ""); err == nil {
		t.Fatal("Run() should fail when the script generator fails")
	}
	if creds.invalidated {
		t.Error("a generic failure must not invalidate the key")
	}
}

func TestVisualPromptExcludesText(t *testing.T) {
	brief := videoBrief("")
	brief.VisualIdea = "Neon skyline at dusk"
	got := visualPrompt(brief, []string{"Taste the future."})
	for _, want := range []string{"Starlight Soda", "1980s", "Neon skyline at dusk", "Taste the future.", "Do not render any text"} {
		if !strings.Contains(got, want) {
			t.Errorf("visualPrompt() missing %q in %q", want, got)
		}
	}
}
