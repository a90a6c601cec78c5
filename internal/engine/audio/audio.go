// Package audio plays the optional soundtrack, paused and resumed together
// with the animation.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by Play before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Soundtrack loops one WAV track on the speaker.
type Soundtrack struct {
	mu  sync.Mutex
	log *zap.Logger

	initialized bool
	sampleRate  beep.SampleRate

	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	paused   bool

	level float64 // 0.0 to 1.0
	muted bool
}

// New creates a soundtrack player at the given volume.
func New(volume float64, muted bool, log *zap.Logger) *Soundtrack {
	if log == nil {
		log = zap.NewNop()
	}
	return &Soundtrack{
		log:   log,
		level: clamp(volume, 0, 1),
		muted: muted,
	}
}

// Init initializes the speaker.
func (s *Soundtrack) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	s.sampleRate = DefaultSampleRate
	if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	s.initialized = true
	return nil
}

// Close stops playback and releases the track.
func (s *Soundtrack) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stop()
	if s.initialized {
		speaker.Close()
	}
	s.initialized = false
}

// Play decodes WAV data and loops it. The track starts paused if SetPaused
// was last called with true.
func (s *Soundtrack) Play(data []byte) error {
	streamer, format, err := decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		streamer.Close()
		return ErrNotInitialized
	}
	s.stop()

	var src beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != s.sampleRate {
		src = beep.Resample(4, format.SampleRate, s.sampleRate, src)
	}

	s.streamer = streamer
	s.ctrl = &beep.Ctrl{Streamer: src, Paused: s.paused}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	s.applyVolume()

	speaker.Play(s.volume)
	s.log.Info("soundtrack started",
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Bool("paused", s.paused))
	return nil
}

func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode wav: %w", err)
	}
	return streamer, format, nil
}

func (s *Soundtrack) stop() {
	if s.ctrl == nil {
		return
	}
	speaker.Clear()
	if s.streamer != nil {
		s.streamer.Close()
	}
	s.streamer = nil
	s.ctrl = nil
	s.volume = nil
}

// SetPaused pauses or resumes the track. It may be called before Play.
func (s *Soundtrack) SetPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	ctrl := s.ctrl
	s.mu.Unlock()

	if ctrl != nil {
		speaker.Lock()
		ctrl.Paused = paused
		speaker.Unlock()
	}
}

// Paused reports the last requested pause state.
func (s *Soundtrack) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Playing reports whether a track is loaded and not paused.
func (s *Soundtrack) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl != nil && !s.paused
}

// SetVolume sets the volume (0.0 to 1.0).
func (s *Soundtrack) SetVolume(vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = clamp(vol, 0, 1)
	s.applyVolume()
}

// Volume returns the volume.
func (s *Soundtrack) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Soundtrack) applyVolume() {
	if s.volume == nil {
		return
	}
	s.volume.Silent = s.muted || s.level <= 0
	s.volume.Volume = volumeToExp(s.level)
}

// volumeToExp converts a linear 0-1 volume to the base-2 exponent that
// effects.Volume expects.
func volumeToExp(vol float64) float64 {
	if vol <= 0 {
		return -10
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
