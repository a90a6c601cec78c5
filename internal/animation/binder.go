package animation

import "go.uber.org/zap"

// Phase tracks which of the two inputs the binder has received.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseCharacterOnly
	PhaseClipOnly
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseCharacterOnly:
		return "character-only"
	case PhaseClipOnly:
		return "clip-only"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Character is a loaded model the binder can drive.
type Character interface {
	Rig() Rig
	Animations() []*Clip
}

// PlaybackState reports whether the user wants animation playing.
type PlaybackState interface {
	Playing() bool
}

// Binder pairs the character, which may carry embedded clips, with the
// externally loaded clip. The two arrive in any order; the external clip
// wins whenever it is present.
type Binder struct {
	log   *zap.Logger
	state PlaybackState

	embedded *Clip
	external *Clip
	player   *Player
	active   *Clip

	haveCharacter bool
	haveClip      bool
}

// NewBinder creates a binder that consults state whenever it binds.
func NewBinder(state PlaybackState, log *zap.Logger) *Binder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Binder{log: log, state: state}
}

// CharacterReady creates the player for c and records its first embedded clip.
func (b *Binder) CharacterReady(c Character) {
	b.haveCharacter = true
	b.player = NewPlayer(c.Rig())
	b.active = nil
	b.embedded = nil
	if clips := c.Animations(); len(clips) > 0 {
		b.embedded = clips[0]
	}
	b.log.Debug("character ready", zap.Bool("embedded_clip", b.embedded != nil))
	b.resolve()
}

// ExternalClipReady records the external clip. A later call replaces the
// previous external clip.
func (b *Binder) ExternalClipReady(clip *Clip) {
	if clip == nil {
		b.ExternalClipFailed(nil)
		return
	}
	b.haveClip = true
	b.external = clip
	b.log.Debug("external clip ready", zap.String("clip", clip.Name))
	b.resolve()
}

// ExternalClipFailed marks the external clip input as arrived empty.
func (b *Binder) ExternalClipFailed(err error) {
	b.haveClip = true
	b.log.Debug("external clip unavailable", zap.Error(err))
	b.resolve()
}

func (b *Binder) resolve() {
	if b.player == nil {
		return
	}
	want := b.external
	if want == nil {
		want = b.embedded
	}
	if want == b.active {
		return
	}
	b.player.Bind(want)
	b.active = want
	if want == nil {
		return
	}
	b.player.SetPaused(!b.playing())
	b.log.Info("animation bound",
		zap.String("clip", want.Name),
		zap.Bool("external", want == b.external),
		zap.Float32("duration", want.Duration),
		zap.Bool("paused", b.player.Paused()),
		zap.Int("unresolved_tracks", b.player.Unresolved()))
}

func (b *Binder) playing() bool {
	if b.state == nil {
		return true
	}
	return b.state.Playing()
}

// SetPaused applies a playback change to the active binding, if any.
func (b *Binder) SetPaused(paused bool) {
	if b.player != nil && b.active != nil {
		b.player.SetPaused(paused)
	}
}

// Phase returns the rendezvous phase.
func (b *Binder) Phase() Phase {
	switch {
	case b.haveCharacter && b.haveClip:
		return PhaseComplete
	case b.haveCharacter:
		return PhaseCharacterOnly
	case b.haveClip:
		return PhaseClipOnly
	default:
		return PhaseWaiting
	}
}

// Player returns the character's player, or nil before the character arrives.
func (b *Binder) Player() *Player { return b.player }

// Active returns the bound clip, or nil.
func (b *Binder) Active() *Clip { return b.active }
