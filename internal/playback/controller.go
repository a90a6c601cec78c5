// Package playback holds the user's play/pause choice.
package playback

import "go.uber.org/zap"

// Button labels.
const (
	LabelPause  = "Pause animation"
	LabelResume = "Resume animation"
)

// Target receives playback changes. The animation binder implements it and
// ignores changes while nothing is bound.
type Target interface {
	SetPaused(paused bool)
}

// Controller is the single playing/paused flag. Only Toggle mutates it.
type Controller struct {
	log       *zap.Logger
	playing   bool
	target    Target
	listeners []func(playing bool)
}

// New creates a controller in the given initial state.
func New(playing bool, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{log: log, playing: playing}
}

// Attach sets the target that Toggle pauses or resumes.
func (c *Controller) Attach(t Target) {
	c.target = t
}

// Playing reports whether animation should advance.
func (c *Controller) Playing() bool { return c.playing }

// Label returns the toggle control caption for the current state.
func (c *Controller) Label() string {
	if c.playing {
		return LabelPause
	}
	return LabelResume
}

// Toggle flips the flag, forwards it to the target and notifies listeners.
// The flag flips even when no target or binding exists.
func (c *Controller) Toggle() {
	c.playing = !c.playing
	if c.target != nil {
		c.target.SetPaused(!c.playing)
	}
	c.log.Debug("playback toggled", zap.Bool("playing", c.playing))
	for _, fn := range c.listeners {
		fn(c.playing)
	}
}

// Subscribe registers fn to run after every toggle.
func (c *Controller) Subscribe(fn func(playing bool)) {
	c.listeners = append(c.listeners, fn)
}
