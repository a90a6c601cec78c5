package animation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestTrackVec3Linear(t *testing.T) {
	tr := Track{
		Path:   PathTranslation,
		Times:  []float32{0, 1, 3},
		Values: []float32{0, 0, 0, 10, 0, 0, 10, 20, 0},
	}

	tests := []struct {
		time float32
		want mgl32.Vec3
	}{
		{-1, mgl32.Vec3{0, 0, 0}},
		{0, mgl32.Vec3{0, 0, 0}},
		{0.5, mgl32.Vec3{5, 0, 0}},
		{1, mgl32.Vec3{10, 0, 0}},
		{2, mgl32.Vec3{10, 10, 0}},
		{5, mgl32.Vec3{10, 20, 0}},
	}
	for _, tt := range tests {
		got := tr.Vec3(tt.time)
		if !got.ApproxEqualThreshold(tt.want, 1e-4) {
			t.Errorf("Vec3(%v) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestTrackVec3Step(t *testing.T) {
	tr := Track{
		Path:          PathScale,
		Interpolation: InterpolationStep,
		Times:         []float32{0, 1},
		Values:        []float32{1, 1, 1, 2, 2, 2},
	}
	if got := tr.Vec3(0.99); !got.ApproxEqual(mgl32.Vec3{1, 1, 1}) {
		t.Errorf("step before second key = %v", got)
	}
	if got := tr.Vec3(1); !got.ApproxEqual(mgl32.Vec3{2, 2, 2}) {
		t.Errorf("step at second key = %v", got)
	}
}

func TestTrackCubicSplineHitsKeys(t *testing.T) {
	// in-tangent, value, out-tangent per key
	tr := Track{
		Path:          PathTranslation,
		Interpolation: InterpolationCubicSpline,
		Times:         []float32{0, 2},
		Values: []float32{
			0, 0, 0, 0, 0, 0, 1, 0, 0,
			1, 0, 0, 4, 0, 0, 0, 0, 0,
		},
	}
	if !tr.Valid() {
		t.Fatal("expected valid cubic spline track")
	}
	if got := tr.Vec3(0); !got.ApproxEqual(mgl32.Vec3{0, 0, 0}) {
		t.Errorf("start = %v", got)
	}
	if got := tr.Vec3(2); !got.ApproxEqual(mgl32.Vec3{4, 0, 0}) {
		t.Errorf("end = %v", got)
	}
	// h00=0.5 h10=0.125 h01=0.5 h11=-0.125 at the midpoint, dt=2
	want := float32(0.5*0 + 0.125*2*1 + 0.5*4 + -0.125*2*1)
	if got := tr.Vec3(1); !approx(got[0], want) {
		t.Errorf("midpoint x = %v, want %v", got[0], want)
	}
}

func TestTrackQuatSlerp(t *testing.T) {
	half := float32(math.Sqrt(0.5))
	tr := Track{
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 1, 0, half, 0, half}, // identity to 90deg about Y
	}

	got := tr.Quat(0.5)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	if !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("Quat(0.5) = %v, want %v", got, want)
	}
}

func TestTrackQuatTakesShortestPath(t *testing.T) {
	tr := Track{
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 1, 0, 0, 0, -1}, // same rotation, opposite sign
	}
	got := tr.Quat(0.5)
	if !approx(float32(math.Abs(float64(got.W))), 1) {
		t.Errorf("expected identity rotation, got %v", got)
	}
}

func TestNewClip(t *testing.T) {
	c := NewClip("dance", []Track{
		{Target: "hips", Path: PathTranslation, Times: []float32{0, 2.5}, Values: make([]float32, 6)},
		{Target: "spine", Path: PathRotation, Times: []float32{0, 4}, Values: make([]float32, 3)}, // malformed
		{Target: "head", Path: PathScale, Times: []float32{0, 1}, Values: make([]float32, 6)},
	})

	if c.Name != "dance" {
		t.Errorf("expected name dance, got %q", c.Name)
	}
	if len(c.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(c.Tracks))
	}
	if c.Duration != 2.5 {
		t.Errorf("expected duration 2.5, got %v", c.Duration)
	}
}

func TestPathString(t *testing.T) {
	if PathRotation.String() != "rotation" || Path(9).String() != "unknown" {
		t.Error("unexpected path names")
	}
}
