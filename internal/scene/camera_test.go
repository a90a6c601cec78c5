package scene

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultCamera(t *testing.T) {
	c := DefaultCamera()
	if c.FOV != 60 || c.Near != 0.1 || c.Far != 100 {
		t.Errorf("unexpected frustum %v %v %v", c.FOV, c.Near, c.Far)
	}
	if !c.Position.ApproxEqual(mgl32.Vec3{0, 2, 6}) {
		t.Errorf("unexpected position %v", c.Position)
	}
}

func TestSetViewportMatchesFreshProjection(t *testing.T) {
	sizes := []struct{ w, h int }{{1280, 720}, {800, 600}, {300, 900}}
	c := DefaultCamera()
	for _, s := range sizes {
		c.SetViewport(s.w, s.h)

		fresh := mgl32.Perspective(mgl32.DegToRad(60), float32(s.w)/float32(s.h), 0.1, 100)
		if !c.Projection().ApproxEqual(fresh) {
			t.Errorf("%dx%d: projection mismatch", s.w, s.h)
		}
		if w, h := c.Viewport(); w != s.w || h != s.h {
			t.Errorf("viewport = %dx%d, want %dx%d", w, h, s.w, s.h)
		}
	}
}

func TestSetViewportIgnoresZero(t *testing.T) {
	c := DefaultCamera()
	c.SetViewport(800, 400)
	c.SetViewport(0, 400) // minimized window
	if c.Aspect != 2 {
		t.Errorf("expected aspect 2 kept, got %v", c.Aspect)
	}
}

func TestOrbitControlsImmediate(t *testing.T) {
	c := DefaultCamera()
	oc := NewOrbitControls(c, false)
	dist := c.Position.Len()

	oc.HandleDrag(100, 0)
	if got := c.Position.Len(); mgl32.Abs(got-dist) > 1e-3 {
		t.Errorf("orbit changed distance: %v -> %v", dist, got)
	}
	if c.Position.ApproxEqual(mgl32.Vec3{0, 2, 6}) {
		t.Error("drag did not move the camera")
	}

	oc.HandleZoom(1)
	if c.Position.Len() >= dist {
		t.Error("zoom in did not reduce distance")
	}
}

func TestOrbitControlsDampedSettles(t *testing.T) {
	c := DefaultCamera()
	oc := NewOrbitControls(c, true)
	startYaw := oc.Yaw

	oc.HandleDrag(200, 0)
	if oc.Yaw != startYaw {
		t.Error("damped drag applied immediately")
	}

	oc.Update(50 * time.Millisecond)
	partial := oc.Yaw
	if partial == startYaw {
		t.Error("expected partial motion after first frame")
	}

	for i := 0; i < 20; i++ {
		oc.Update(50 * time.Millisecond)
	}
	if !oc.Settled() {
		t.Error("expected damping to settle")
	}
	want := startYaw - 200*oc.DragSensitivity
	if mgl32.Abs(oc.Yaw-want) > 1e-4 {
		t.Errorf("yaw settled at %v, want %v", oc.Yaw, want)
	}
}

func TestOrbitControlsClampPitch(t *testing.T) {
	oc := NewOrbitControls(DefaultCamera(), false)
	oc.HandleDrag(0, 10000)
	if oc.Pitch != oc.MaxPitch {
		t.Errorf("pitch %v not clamped to %v", oc.Pitch, oc.MaxPitch)
	}
}
