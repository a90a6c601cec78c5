// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // relative motion or wheel steps
	DeltaY int
	Button uint8
}

// Input collects the events of one frame and tracks held mouse buttons.
type Input struct {
	events  []Event
	buttons map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true if the window should close.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := Translate(event)
		if !ok {
			continue
		}
		i.push(e)
		if e.Type == EventQuit {
			quit = true
		}
	}
	return quit
}

func (i *Input) push(e Event) {
	switch e.Type {
	case EventMouseDown:
		i.buttons[e.Button] = true
	case EventMouseUp:
		i.buttons[e.Button] = false
	}
	i.events = append(i.events, e)
}

// Translate converts one SDL event. ok is false for events the scene ignores.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		t := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			t = EventKeyDown
		}
		return Event{Type: t, Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		dy := int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		return Event{Type: EventMouseWheel, DeltaX: int(e.X), DeltaY: dy}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame, ignoring
// auto-repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// ButtonHeld reports whether a mouse button is down.
func (i *Input) ButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// ResolveKey maps a key name such as "Space" or "F12" to a scancode.
// It returns false for empty or unknown names.
func ResolveKey(name string) (sdl.Scancode, bool) {
	if name == "" {
		return sdl.SCANCODE_UNKNOWN, false
	}
	sc := sdl.GetScancodeFromName(name)
	return sc, sc != sdl.SCANCODE_UNKNOWN
}
