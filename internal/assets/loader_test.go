package assets

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/animscene/internal/animation"
	"github.com/Faultbox/animscene/internal/scene"
)

func newTestLoader(t *testing.T) *Loader {
	return NewLoader(NewSourceFS(testFS(t)), zap.NewNop())
}

func collect(t *testing.T, l *Loader, n int) map[Kind]Completion {
	t.Helper()
	out := make(map[Kind]Completion)
	timeout := time.After(5 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case c := <-l.Completions():
			out[c.Kind] = c
		case <-timeout:
			t.Fatalf("timed out after %d of %d completions", i, n)
		}
	}
	return out
}

func TestLoadCharacter(t *testing.T) {
	l := newTestLoader(t)
	l.ModelScale = 0.01

	m, err := l.LoadCharacter("models/character.glb")
	if err != nil {
		t.Fatalf("LoadCharacter: %v", err)
	}

	if m.Name != "character.glb" {
		t.Errorf("unexpected model name %q", m.Name)
	}
	if !m.Root.Scale.ApproxEqual(mgl32.Vec3{0.01, 0.01, 0.01}) {
		t.Errorf("model scale not applied: %v", m.Root.Scale)
	}
	hips := m.Root.Find("hips")
	if hips == nil || !hips.Translation.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("hips missing or misplaced: %+v", hips)
	}
	meshes := m.Meshes()
	if len(meshes) != 1 || meshes[0].Name != "body" {
		t.Fatalf("expected one mesh on body, got %d", len(meshes))
	}
	prim := meshes[0].Mesh.Primitives[0]
	if len(prim.Positions) != 3 || len(prim.UVs) != 3 || len(prim.Indices) != 3 {
		t.Errorf("unexpected primitive sizes %d/%d/%d", len(prim.Positions), len(prim.UVs), len(prim.Indices))
	}
	if prim.Material == nil {
		t.Error("expected a default material")
	}

	if len(m.Clips) != 1 || m.Clips[0].Name != "idle" {
		t.Fatalf("expected embedded idle clip, got %d clips", len(m.Clips))
	}
	if m.Clips[0].Duration != 1 {
		t.Errorf("expected clip duration 1, got %v", m.Clips[0].Duration)
	}
}

func TestLoadCharacterWithoutClips(t *testing.T) {
	m, err := newTestLoader(t).LoadCharacter("models/static.glb")
	if err != nil {
		t.Fatalf("LoadCharacter: %v", err)
	}
	if len(m.Clips) != 0 {
		t.Errorf("expected no clips, got %d", len(m.Clips))
	}
}

func TestLoadExternalClip(t *testing.T) {
	l := newTestLoader(t)

	clip, err := l.LoadExternalClip("models/dance.glb")
	if err != nil {
		t.Fatalf("LoadExternalClip: %v", err)
	}
	if clip.Name != "dance" || len(clip.Tracks) != 1 {
		t.Fatalf("unexpected clip %q with %d tracks", clip.Name, len(clip.Tracks))
	}
	tr := clip.Tracks[0]
	if tr.Target != "hips" || tr.Path != animation.PathTranslation {
		t.Errorf("unexpected track target %q path %v", tr.Target, tr.Path)
	}
	if got := tr.Vec3(0.5); !got.ApproxEqual(mgl32.Vec3{0, 2, 0}) {
		t.Errorf("midpoint sample = %v", got)
	}

	if _, err := l.LoadExternalClip("models/static.glb"); !errors.Is(err, ErrNoAnimation) {
		t.Errorf("expected ErrNoAnimation, got %v", err)
	}
}

func TestLoadTexture(t *testing.T) {
	l := newTestLoader(t)

	png, err := l.LoadTexture("models/character.png")
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if png.Width() != 2 || png.Height() != 2 {
		t.Errorf("png size %dx%d", png.Width(), png.Height())
	}
	if c := png.Pix.NRGBAAt(0, 0); c.R != 255 {
		t.Errorf("png pixel = %+v", c)
	}

	tga, err := l.LoadTexture("models/skin.tga")
	if err != nil {
		t.Fatalf("tga: %v", err)
	}
	if tga.Width() != 2 || tga.Height() != 1 {
		t.Errorf("tga size %dx%d", tga.Width(), tga.Height())
	}
	if c := tga.Pix.NRGBAAt(0, 0); c.B != 255 || c.R != 0 {
		t.Errorf("tga first pixel = %+v", c)
	}

	if _, err := l.LoadTexture("models/broken.png"); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadEnvironment(t *testing.T) {
	env, err := newTestLoader(t).LoadEnvironment("hdr/noche.hdr")
	if err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	if env.Width != 2 || env.Height != 1 || len(env.Pix) != 6 {
		t.Fatalf("unexpected environment %dx%d with %d floats", env.Width, env.Height, len(env.Pix))
	}
	r, g, b := env.At(0, 0)
	if mgl32.Abs(r-1) > 0.01 || g > 0.01 || b > 0.01 {
		t.Errorf("first pixel = %v %v %v", r, g, b)
	}
	r, _, b = env.At(1, 0)
	if r > 0.01 || mgl32.Abs(b-1) > 0.01 {
		t.Errorf("second pixel = %v %v", r, b)
	}
}

func TestLoaderDeliversEveryCompletion(t *testing.T) {
	l := newTestLoader(t)
	l.Start(context.Background(),
		Request{Kind: KindEnvironment, Path: "hdr/noche.hdr"},
		Request{Kind: KindCharacter, Path: "models/character.glb", Texture: "models/character.png"},
		Request{Kind: KindExternalClip, Path: "models/dance.glb"},
		Request{Kind: KindSoundtrack, Path: "audio/theme.wav"},
	)
	got := collect(t, l, 4)
	if err := l.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if _, ok := got[KindEnvironment].Value.(*scene.Environment); !ok {
		t.Errorf("environment value %T", got[KindEnvironment].Value)
	}
	ch, ok := got[KindCharacter].Value.(*Character)
	if !ok || ch.Model == nil || ch.Texture == nil || ch.TextureErr != nil {
		t.Errorf("character completion = %+v", got[KindCharacter])
	}
	if _, ok := got[KindExternalClip].Value.(*animation.Clip); !ok {
		t.Errorf("clip value %T", got[KindExternalClip].Value)
	}
	if b, ok := got[KindSoundtrack].Value.([]byte); !ok || len(b) == 0 {
		t.Errorf("soundtrack value %T", got[KindSoundtrack].Value)
	}

	if _, ok := <-l.Completions(); ok {
		t.Error("expected channel closed after Wait")
	}
}

func TestLoaderFailureIsIsolated(t *testing.T) {
	l := newTestLoader(t)
	l.Start(context.Background(),
		Request{Kind: KindEnvironment, Path: "hdr/missing.hdr"},
		Request{Kind: KindCharacter, Path: "models/character.glb", Texture: "models/broken.png"},
		Request{Kind: KindExternalClip, Path: "models/static.glb"},
	)
	got := collect(t, l, 3)
	if err := l.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	var le *LoadError
	envErr := got[KindEnvironment].Err
	if !errors.As(envErr, &le) || le.Kind != KindEnvironment || !errors.Is(envErr, fs.ErrNotExist) {
		t.Errorf("environment error = %v", envErr)
	}
	if got[KindEnvironment].Value != nil {
		t.Error("failed completion should carry no value")
	}

	ch, ok := got[KindCharacter].Value.(*Character)
	if !ok || ch.Model == nil {
		t.Fatalf("character should load despite texture failure: %+v", got[KindCharacter])
	}
	if ch.Texture != nil || !errors.As(ch.TextureErr, &le) {
		t.Errorf("expected texture LoadError, got %v", ch.TextureErr)
	}

	if !errors.Is(got[KindExternalClip].Err, ErrNoAnimation) {
		t.Errorf("clip error = %v", got[KindExternalClip].Err)
	}
}

func TestLoaderDrainDoesNotBlock(t *testing.T) {
	l := newTestLoader(t)
	if n := l.Drain(func(Completion) { t.Error("unexpected completion") }); n != 0 {
		t.Errorf("expected nothing drained, got %d", n)
	}

	l.Start(context.Background(), Request{Kind: KindSoundtrack, Path: "audio/theme.wav"})
	if err := l.Wait(); err != nil {
		t.Fatal(err)
	}
	handled := 0
	l.Drain(func(Completion) { handled++ })
	if handled != 1 {
		t.Errorf("expected one completion drained, got %d", handled)
	}
}

func TestLoaderShutdownUnblocksSenders(t *testing.T) {
	l := newTestLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	reqs := make([]Request, 40) // more than the channel buffer
	for i := range reqs {
		reqs[i] = Request{Kind: KindSoundtrack, Path: "audio/theme.wav"}
	}
	l.Start(ctx, reqs...)
	cancel()

	done := make(chan error, 1)
	go func() { done <- l.Wait() }()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Wait: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait blocked after cancel")
	}

	l.Submit(Request{Kind: KindSoundtrack, Path: "audio/theme.wav"}) // ignored after Wait
}

func TestReloadRereadsSource(t *testing.T) {
	l := newTestLoader(t)
	if _, err := l.LoadExternalClip("models/dance.glb"); err != nil {
		t.Fatal(err)
	}
	l.Start(context.Background())
	l.Reload(Request{Kind: KindExternalClip, Path: "models/dance.glb"})
	got := collect(t, l, 1)
	_ = l.Wait()

	if got[KindExternalClip].Err != nil {
		t.Fatalf("reload failed: %v", got[KindExternalClip].Err)
	}
	if _, misses := l.src.Stats(); misses != 2 {
		t.Errorf("expected reload to miss the cache, got %d misses", misses)
	}
}

func TestKindString(t *testing.T) {
	if KindExternalClip.String() != "clip" || Kind(42).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}

// panicFS fails every read by panicking, standing in for a decoder that
// trips over corrupt input.
type panicFS struct{}

func (panicFS) Open(string) (fs.File, error) { panic("corrupt input") }

func TestLoaderRecoversDecoderPanic(t *testing.T) {
	l := NewLoader(NewSourceFS(panicFS{}), zap.NewNop())
	l.Start(context.Background(),
		Request{Kind: KindExternalClip, Path: "models/dance.glb"},
	)
	got := collect(t, l, 1)
	if err := l.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	c := got[KindExternalClip]
	var le *LoadError
	if !errors.As(c.Err, &le) || le.Path != "models/dance.glb" || !errors.Is(c.Err, ErrMalformed) {
		t.Errorf("expected malformed LoadError, got %v", c.Err)
	}
	if c.Value != nil {
		t.Error("recovered completion should carry no value")
	}
}
