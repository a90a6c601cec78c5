package animation

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeCharacter struct {
	rig   fakeRig
	clips []*Clip
}

func (c *fakeCharacter) Rig() Rig            { return c.rig }
func (c *fakeCharacter) Animations() []*Clip { return c.clips }

type fakeState struct{ playing bool }

func (s *fakeState) Playing() bool { return s.playing }

func TestBinderArrivalOrders(t *testing.T) {
	embedded := slideClip("idle", 1)
	external := slideClip("dance", 2)
	errMissing := errors.New("missing")

	tests := []struct {
		name      string
		embedded  bool
		external  bool
		clipFirst bool
		want      *Clip
	}{
		{"character then clip", true, true, false, external},
		{"clip then character", true, true, true, external},
		{"character then failed clip", true, false, false, embedded},
		{"failed clip then character", true, false, true, embedded},
		{"bare character then clip", false, true, false, external},
		{"clip then bare character", false, true, true, external},
		{"bare character, failed clip", false, false, false, nil},
		{"failed clip, bare character", false, false, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBinder(&fakeState{playing: true}, zap.NewNop())
			char := &fakeCharacter{rig: fakeRig{"hips": {}}}
			if tt.embedded {
				char.clips = []*Clip{embedded}
			}
			deliverClip := func() {
				if tt.external {
					b.ExternalClipReady(external)
				} else {
					b.ExternalClipFailed(errMissing)
				}
			}

			if tt.clipFirst {
				deliverClip()
				if b.Phase() != PhaseClipOnly {
					t.Errorf("expected clip-only phase, got %v", b.Phase())
				}
				b.CharacterReady(char)
			} else {
				b.CharacterReady(char)
				if b.Phase() != PhaseCharacterOnly {
					t.Errorf("expected character-only phase, got %v", b.Phase())
				}
				deliverClip()
			}

			if b.Phase() != PhaseComplete {
				t.Errorf("expected complete phase, got %v", b.Phase())
			}
			if b.Active() != tt.want {
				t.Errorf("active = %v, want %v", clipName(b.Active()), clipName(tt.want))
			}
			if b.Player().Clip() != tt.want {
				t.Errorf("player clip = %v, want %v", clipName(b.Player().Clip()), clipName(tt.want))
			}
		})
	}
}

func clipName(c *Clip) string {
	if c == nil {
		return "<none>"
	}
	return c.Name
}

func TestBinderEmbeddedPlaysUntilExternalArrives(t *testing.T) {
	embedded := slideClip("idle", 1)
	external := slideClip("dance", 2)
	b := NewBinder(&fakeState{playing: true}, zap.NewNop())

	b.CharacterReady(&fakeCharacter{rig: fakeRig{}, clips: []*Clip{embedded}})
	if b.Active() != embedded {
		t.Fatalf("expected embedded clip bound first, got %v", clipName(b.Active()))
	}

	b.ExternalClipReady(external)
	if b.Active() != external {
		t.Errorf("expected external clip to replace embedded, got %v", clipName(b.Active()))
	}
}

func TestBinderBindingMirrorsPlaybackState(t *testing.T) {
	state := &fakeState{playing: false}
	b := NewBinder(state, zap.NewNop())

	b.ExternalClipReady(slideClip("dance", 2))
	b.CharacterReady(&fakeCharacter{rig: fakeRig{}})

	if !b.Player().Paused() {
		t.Error("expected binding to start paused when playback is paused")
	}

	state.playing = true
	b.ExternalClipReady(slideClip("dance-v2", 2))
	if b.Player().Paused() {
		t.Error("expected rebinding to start playing when playback is playing")
	}
}

func TestBinderReloadReplacesExternalClip(t *testing.T) {
	b := NewBinder(&fakeState{playing: true}, zap.NewNop())
	b.CharacterReady(&fakeCharacter{rig: fakeRig{}})
	b.ExternalClipReady(slideClip("dance", 2))

	reloaded := slideClip("dance", 3)
	b.ExternalClipReady(reloaded)
	if b.Active() != reloaded {
		t.Error("expected reloaded clip to be bound")
	}
}

func TestBinderSetPausedWithoutBinding(t *testing.T) {
	b := NewBinder(nil, nil)
	b.SetPaused(true) // no player yet

	b.CharacterReady(&fakeCharacter{rig: fakeRig{}})
	b.SetPaused(true) // player, no binding
	if b.Player().Paused() {
		t.Error("expected unbound player untouched")
	}
}

func TestBinderNilExternalClipCountsAsFailure(t *testing.T) {
	b := NewBinder(nil, nil)
	b.ExternalClipReady(nil)
	if b.Phase() != PhaseClipOnly {
		t.Errorf("expected clip-only phase, got %v", b.Phase())
	}
}

func TestBinderFailedReloadKeepsExternalClip(t *testing.T) {
	b := NewBinder(&fakeState{playing: true}, zap.NewNop())
	b.CharacterReady(&fakeCharacter{rig: fakeRig{}, clips: []*Clip{slideClip("idle", 1)}})
	ext := slideClip("dance", 2)
	b.ExternalClipReady(ext)

	b.ExternalClipFailed(errors.New("reload failed"))
	if b.Active() != ext {
		t.Errorf("expected last good external clip kept, got %v", b.Active())
	}
}
