package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// OrbitControls orbits a camera around its target. With damping enabled,
// input accumulates into an offset that eases out over DampingTime.
type OrbitControls struct {
	camera *Camera

	Distance float32
	Yaw      float32 // radians around Y
	Pitch    float32 // radians above the XZ plane

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	Damping     bool
	DampingTime float32 // seconds

	yaw, pitch, zoom damped
}

// damped eases a pending offset toward zero.
type damped struct {
	tween     *gween.Tween
	remaining float32
}

func (d *damped) add(v, duration float32) {
	d.remaining += v
	d.tween = gween.New(d.remaining, 0, duration, ease.OutCubic)
}

// step returns how much of the offset to apply this frame.
func (d *damped) step(dt float32) float32 {
	if d.tween == nil {
		return 0
	}
	current, done := d.tween.Update(dt)
	if done {
		current = 0
		d.tween = nil
	}
	applied := d.remaining - current
	d.remaining = current
	return applied
}

// NewOrbitControls derives the orbit from the camera's current position.
func NewOrbitControls(cam *Camera, damping bool) *OrbitControls {
	off := cam.Position.Sub(cam.Target)
	dist := off.Len()
	var yaw, pitch float32
	if dist > 0 {
		yaw = float32(math.Atan2(float64(off.X()), float64(off.Z())))
		pitch = float32(math.Asin(float64(off.Y() / dist)))
	}
	return &OrbitControls{
		camera:          cam,
		Distance:        dist,
		Yaw:             yaw,
		Pitch:           pitch,
		MinDistance:     0.5,
		MaxDistance:     50,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Damping:         damping,
		DampingTime:     0.25,
	}
}

// HandleDrag orbits by a mouse drag delta in pixels.
func (c *OrbitControls) HandleDrag(deltaX, deltaY float32) {
	dy := -deltaX * c.DragSensitivity
	dp := deltaY * c.DragSensitivity
	if c.Damping {
		c.yaw.add(dy, c.DampingTime)
		c.pitch.add(dp, c.DampingTime)
		return
	}
	c.Yaw += dy
	c.Pitch += dp
	c.clamp()
	c.apply()
}

// HandleZoom dollies by wheel delta; positive zooms in.
func (c *OrbitControls) HandleZoom(delta float32) {
	dd := -delta * c.Distance * c.ZoomSensitivity
	if c.Damping {
		c.zoom.add(dd, c.DampingTime)
		return
	}
	c.Distance += dd
	c.clamp()
	c.apply()
}

// Update consumes damped input and repositions the camera.
func (c *OrbitControls) Update(dt time.Duration) {
	s := float32(dt.Seconds())
	c.Yaw += c.yaw.step(s)
	c.Pitch += c.pitch.step(s)
	c.Distance += c.zoom.step(s)
	c.clamp()
	c.apply()
}

// Settled reports whether no damped motion is pending.
func (c *OrbitControls) Settled() bool {
	return c.yaw.tween == nil && c.pitch.tween == nil && c.zoom.tween == nil
}

func (c *OrbitControls) clamp() {
	c.Pitch = mgl32.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

func (c *OrbitControls) apply() {
	cp := float32(math.Cos(float64(c.Pitch)))
	off := mgl32.Vec3{
		c.Distance * cp * float32(math.Sin(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cp * float32(math.Cos(float64(c.Yaw))),
	}
	c.camera.Position = c.camera.Target.Add(off)
}
