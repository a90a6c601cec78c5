package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera is a perspective camera looking at a target.
type Camera struct {
	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
	Aspect float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	width, height int
}

// NewCamera creates a camera with a square aspect until SetViewport runs.
func NewCamera(fov, near, far float32, position, target mgl32.Vec3) *Camera {
	return &Camera{
		FOV:      fov,
		Near:     near,
		Far:      far,
		Aspect:   1,
		Position: position,
		Target:   target,
		Up:       mgl32.Vec3{0, 1, 0},
	}
}

// DefaultCamera returns the 60 degree camera at (0, 2, 6) looking at the origin.
func DefaultCamera() *Camera {
	return NewCamera(60, 0.1, 100, mgl32.Vec3{0, 2, 6}, mgl32.Vec3{})
}

// SetViewport records the surface size and recomputes the aspect ratio.
// Degenerate sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.Aspect = float32(width) / float32(height)
}

// Viewport returns the last size passed to SetViewport.
func (c *Camera) Viewport() (width, height int) { return c.width, c.height }

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// View returns the look-at view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}
