// Package frameloop advances animation and renders once per tick.
package frameloop

import "time"

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Duration
}

// SystemClock measures time since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the monotonic time since the clock started.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// Advancer moves an animation forward by a delta.
type Advancer interface {
	Update(dt time.Duration)
}

// Source yields the current player. It returns nil while none exists.
type Source func() Advancer

// PlaybackState reports whether animation should advance.
type PlaybackState interface {
	Playing() bool
}

// Hook runs once per tick after animation advances and before rendering.
type Hook func(dt time.Duration)

// Loop ticks sequentially on the thread that owns the GL context.
type Loop struct {
	clock    Clock
	playback PlaybackState
	player   Source
	render   func()
	hooks    []Hook

	last   time.Duration
	ticks  uint64
	primed bool
}

// New creates a loop. render is called exactly once per Tick.
func New(clock Clock, playback PlaybackState, player Source, render func()) *Loop {
	return &Loop{
		clock:    clock,
		playback: playback,
		player:   player,
		render:   render,
	}
}

// AddHook registers a per-frame hook such as camera controls.
func (l *Loop) AddHook(h Hook) {
	l.hooks = append(l.hooks, h)
}

// Tick advances the active player when playing, runs hooks and renders.
// It returns the delta it used.
func (l *Loop) Tick() time.Duration {
	now := l.clock.Now()
	var dt time.Duration
	if l.primed {
		dt = now - l.last
	}
	if dt < 0 {
		dt = 0
	}
	l.last = now
	l.primed = true

	if l.playback == nil || l.playback.Playing() {
		if l.player != nil {
			if p := l.player(); p != nil {
				p.Update(dt)
			}
		}
	}

	for _, h := range l.hooks {
		h(dt)
	}

	if l.render != nil {
		l.render()
	}
	l.ticks++
	return dt
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 { return l.ticks }
