// Package app wires loading, animation, playback and rendering into the
// running scene.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/animscene/internal/animation"
	"github.com/Faultbox/animscene/internal/assets"
	"github.com/Faultbox/animscene/internal/config"
	"github.com/Faultbox/animscene/internal/frameloop"
	"github.com/Faultbox/animscene/internal/playback"
	"github.com/Faultbox/animscene/internal/scene"
)

// Soundtrack is the audio the session keeps in step with playback.
type Soundtrack interface {
	Play(data []byte) error
	SetPaused(paused bool)
}

// Session owns all scene state. It is confined to the render thread:
// completions are handed to it between ticks, never from loader goroutines.
type Session struct {
	log *zap.Logger

	Graph    *scene.Graph
	Camera   *scene.Camera
	Controls *scene.OrbitControls
	Playback *playback.Controller
	Binder   *animation.Binder
	Loop     *frameloop.Loop

	soundtrack Soundtrack
	character  *scene.Model
}

// NewSession builds the scene for cfg. r receives one View per tick and may
// be nil; clock defaults to the system monotonic clock.
func NewSession(cfg *config.Config, r scene.Renderer, clock frameloop.Clock, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = frameloop.NewSystemClock()
	}

	s := &Session{log: log}
	s.Graph = scene.NewGraph(r, log.Named("scene"))
	s.applyLights(cfg.Lights)

	cc := cfg.Camera
	s.Camera = scene.NewCamera(cc.FOV, cc.Near, cc.Far, mgl32.Vec3(cc.Position), mgl32.Vec3(cc.Target))
	s.Camera.SetViewport(cfg.Window.Width, cfg.Window.Height)
	s.Controls = scene.NewOrbitControls(s.Camera, cc.Damping)

	s.Playback = playback.New(cfg.Controls.StartPlaying, log.Named("playback"))
	s.Binder = animation.NewBinder(s.Playback, log.Named("animation"))
	s.Playback.Attach(s.Binder)

	s.Loop = frameloop.New(clock, s.Playback, s.player, s.render)
	s.Loop.AddHook(s.Controls.Update)

	return s
}

func (s *Session) applyLights(lc config.LightsConfig) {
	parse := func(field, value string, dst *mgl32.Vec3) {
		c, err := scene.ParseHexColor(value)
		if err != nil {
			s.log.Warn("invalid light colour, keeping default", zap.String("field", field), zap.Error(err))
			return
		}
		*dst = c
	}
	g := s.Graph
	parse("hemisphere_sky", lc.HemisphereSky, &g.Hemisphere.Sky)
	parse("hemisphere_ground", lc.HemisphereGround, &g.Hemisphere.Ground)
	parse("directional_color", lc.DirectionalColor, &g.Directional.Color)
	g.Hemisphere.Intensity = lc.HemisphereIntensity
	g.Directional.Intensity = lc.DirectionalStrength
	g.Directional.Position = mgl32.Vec3(lc.DirectionalPosition)
}

// player returns the binder's player as an Advancer, or a nil interface.
func (s *Session) player() frameloop.Advancer {
	if p := s.Binder.Player(); p != nil {
		return p
	}
	return nil
}

func (s *Session) render() {
	s.Graph.Render(s.Camera)
}

// AttachSoundtrack sets the audio that follows the playback state.
func (s *Session) AttachSoundtrack(t Soundtrack) {
	s.soundtrack = t
	s.Playback.Subscribe(func(playing bool) {
		t.SetPaused(!playing)
	})
}

// Character returns the attached character, or nil.
func (s *Session) Character() *scene.Model { return s.character }

// Tick runs one frame.
func (s *Session) Tick() time.Duration { return s.Loop.Tick() }

// Toggle flips playback.
func (s *Session) Toggle() { s.Playback.Toggle() }

// Resize recomputes the camera aspect ratio for a new surface size.
func (s *Session) Resize(width, height int) {
	s.Camera.SetViewport(width, height)
}

// HandleCompletion applies one finished load. A failed load is logged and
// leaves its feature absent; it never blocks the other assets.
func (s *Session) HandleCompletion(c assets.Completion) {
	if c.Err != nil {
		s.logFailure(c.Err)
		if c.Kind == assets.KindExternalClip {
			s.Binder.ExternalClipFailed(c.Err)
		}
		return
	}

	switch c.Kind {
	case assets.KindEnvironment:
		env, ok := c.Value.(*scene.Environment)
		if !ok {
			s.unexpected(c)
			return
		}
		s.Graph.AttachEnvironment(env)

	case assets.KindCharacter:
		ch, ok := c.Value.(*assets.Character)
		if !ok || ch.Model == nil {
			s.unexpected(c)
			return
		}
		s.attachCharacter(ch)

	case assets.KindExternalClip:
		clip, ok := c.Value.(*animation.Clip)
		if !ok {
			s.unexpected(c)
			s.Binder.ExternalClipFailed(nil)
			return
		}
		s.Binder.ExternalClipReady(clip)

	case assets.KindSoundtrack:
		data, ok := c.Value.([]byte)
		if !ok {
			s.unexpected(c)
			return
		}
		s.playSoundtrack(c.Path, data)

	default:
		s.unexpected(c)
	}
}

func (s *Session) attachCharacter(ch *assets.Character) {
	if ch.TextureErr != nil {
		s.logFailure(ch.TextureErr)
	}
	if ch.Texture != nil {
		s.Graph.ApplyMaterial(ch.Model, ch.Texture)
	}
	if err := s.Graph.AttachObject(ch.Model); err != nil {
		s.log.Warn("character not attached", zap.String("name", ch.Model.Name), zap.Error(err))
		return
	}
	s.character = ch.Model
	s.Binder.CharacterReady(ch.Model)
}

func (s *Session) playSoundtrack(path string, data []byte) {
	if s.soundtrack == nil {
		s.log.Debug("soundtrack loaded without audio output", zap.String("path", path))
		return
	}
	if err := s.soundtrack.Play(data); err != nil {
		s.logFailure(&assets.LoadError{Kind: assets.KindSoundtrack, Path: path, Err: err})
		return
	}
	s.soundtrack.SetPaused(!s.Playback.Playing())
}

func (s *Session) logFailure(err error) {
	var le *assets.LoadError
	if errors.As(err, &le) {
		s.log.Warn("asset load failed",
			zap.Stringer("kind", le.Kind),
			zap.String("path", le.Path),
			zap.Error(le.Err))
		return
	}
	s.log.Warn("asset load failed", zap.Error(err))
}

func (s *Session) unexpected(c assets.Completion) {
	s.log.Warn("asset load failed",
		zap.Stringer("kind", c.Kind),
		zap.String("path", c.Path),
		zap.Error(fmt.Errorf("unexpected value %T", c.Value)))
}
