package ui2d

// InputState holds the mouse state the overlay reacts to.
type InputState struct {
	MouseX float32
	MouseY float32

	MouseLeftDown bool

	// Edges computed by Update.
	MouseLeftPressed  bool
	MouseLeftReleased bool

	// MouseLeftClicked is set from a button-down event so a press and
	// release inside one frame is not lost. Cleared by EndFrame.
	MouseLeftClicked bool

	prevMouseLeft bool
}

// Update prepares input state for a new frame.
// Call this at the start of each frame after updating raw input values.
func (i *InputState) Update() {
	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft
	i.prevMouseLeft = i.MouseLeftDown
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.MouseLeftClicked = false
}

// IsMouseInRect checks if the mouse is within a rectangle.
func (i *InputState) IsMouseInRect(r Rect) bool {
	return r.Contains(i.MouseX, i.MouseY)
}
