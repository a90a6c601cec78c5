package ui2d

// Rect is an axis-aligned rectangle in window pixels, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (px, py) lies inside r.
func (r Rect) Contains(px, py float32) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// Canvas queues 2D primitives for one frame.
type Canvas interface {
	Begin()
	End()
	DrawRect(x, y, width, height float32, color Color)
	DrawRectOutline(x, y, width, height, thickness float32, color Color)
	DrawText(x, y float32, text string, scale float32, color Color)
	MeasureText(text string, scale float32) (float32, float32)
}

// Button layout.
const (
	TextScale     = float32(2)
	ButtonPadding = float32(10)
	ButtonMargin  = float32(12)
)

// Context is an immediate-mode UI context over a Canvas.
type Context struct {
	canvas Canvas
	input  *InputState

	hotWidget    string
	activeWidget string
}

// NewContext creates a UI context drawing to canvas.
func NewContext(canvas Canvas) *Context {
	return &Context{canvas: canvas, input: &InputState{}}
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.hotWidget = ""
	c.canvas.Begin()
}

// End finishes the UI frame.
func (c *Context) End() {
	c.canvas.End()
	c.input.EndFrame()
}

// WantsMouse reports whether the pointer is over a widget or a widget is
// being pressed, so camera controls should ignore it.
func (c *Context) WantsMouse() bool {
	return c.hotWidget != "" || c.activeWidget != ""
}

// TopLeftButton returns the rect of a button sized to label, anchored in the
// top-left corner.
func (c *Context) TopLeftButton(label string) Rect {
	w, h := c.canvas.MeasureText(label, TextScale)
	return Rect{
		X: ButtonMargin,
		Y: ButtonMargin,
		W: w + ButtonPadding*2,
		H: h + ButtonPadding*2,
	}
}

// Button draws a button and returns true if it was clicked this frame.
func (c *Context) Button(id string, rect Rect, label string) bool {
	hovered := c.input.IsMouseInRect(rect)
	clicked := false

	if hovered {
		c.hotWidget = id
		// Click on press; the event flag catches press and release within one frame.
		if c.input.MouseLeftPressed || c.input.MouseLeftClicked {
			c.activeWidget = id
			clicked = true
			c.input.MouseLeftClicked = false
			c.input.MouseLeftPressed = false
		}
	}

	if c.activeWidget == id && (c.input.MouseLeftReleased || !c.input.MouseLeftDown) && !clicked {
		c.activeWidget = ""
	}

	color := ColorButtonNormal
	if c.activeWidget == id {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}

	c.canvas.DrawRect(rect.X, rect.Y, rect.W, rect.H, color)
	c.canvas.DrawRectOutline(rect.X, rect.Y, rect.W, rect.H, 1, ColorBorder)

	textW, textH := c.canvas.MeasureText(label, TextScale)
	c.canvas.DrawText(rect.X+(rect.W-textW)/2, rect.Y+(rect.H-textH)/2, label, TextScale, ColorText)

	return clicked
}
