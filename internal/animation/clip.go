// Package animation samples keyframed clips, drives them on a node rig and
// binds whichever clip arrives to the character's player.
package animation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Path is the node property a track drives.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// Track is one animated property of one named node.
//
// Values holds Components() floats per keyframe. Cubic spline tracks store
// three elements per keyframe: in-tangent, value, out-tangent.
type Track struct {
	Target        string
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// Components returns the number of floats in one keyframe element.
func (t *Track) Components() int {
	if t.Path == PathRotation {
		return 4
	}
	return 3
}

func (t *Track) stride() int {
	if t.Interpolation == InterpolationCubicSpline {
		return 3 * t.Components()
	}
	return t.Components()
}

// Valid reports whether Values matches Times in length.
func (t *Track) Valid() bool {
	return len(t.Times) > 0 && len(t.Values) == len(t.Times)*t.stride()
}

// element returns the i-th keyframe element. For cubic spline tracks
// offset selects in-tangent (0), value (1) or out-tangent (2).
func (t *Track) element(key, offset int) []float32 {
	n := t.Components()
	start := key * t.stride()
	if t.Interpolation == InterpolationCubicSpline {
		start += offset * n
	}
	return t.Values[start : start+n]
}

// locate returns the keyframe pair surrounding time and the blend factor.
func (t *Track) locate(time float32) (k0, k1 int, f float32) {
	last := len(t.Times) - 1
	if time <= t.Times[0] {
		return 0, 0, 0
	}
	if time >= t.Times[last] {
		return last, last, 0
	}
	k1 = sort.Search(len(t.Times), func(i int) bool { return t.Times[i] > time })
	k0 = k1 - 1
	span := t.Times[k1] - t.Times[k0]
	if span <= 0 {
		return k0, k0, 0
	}
	return k0, k1, (time - t.Times[k0]) / span
}

// sample evaluates the track at time into out, which has Components() floats.
func (t *Track) sample(time float32, out []float32) {
	k0, k1, f := t.locate(time)
	if k0 == k1 || t.Interpolation == InterpolationStep {
		copy(out, t.element(k0, 1))
		return
	}

	if t.Interpolation == InterpolationCubicSpline {
		dt := t.Times[k1] - t.Times[k0]
		p0, m0 := t.element(k0, 1), t.element(k0, 2)
		p1, m1 := t.element(k1, 1), t.element(k1, 0)
		f2, f3 := f*f, f*f*f
		h00 := 2*f3 - 3*f2 + 1
		h10 := f3 - 2*f2 + f
		h01 := -2*f3 + 3*f2
		h11 := f3 - f2
		for i := range out {
			out[i] = h00*p0[i] + h10*dt*m0[i] + h01*p1[i] + h11*dt*m1[i]
		}
		return
	}

	a, b := t.element(k0, 1), t.element(k1, 1)
	for i := range out {
		out[i] = a[i] + f*(b[i]-a[i])
	}
}

// Vec3 samples a translation or scale track.
func (t *Track) Vec3(time float32) mgl32.Vec3 {
	var v mgl32.Vec3
	t.sample(time, v[:])
	return v
}

// Quat samples a rotation track. Linear tracks use spherical interpolation.
func (t *Track) Quat(time float32) mgl32.Quat {
	if t.Interpolation == InterpolationLinear {
		k0, k1, f := t.locate(time)
		q0 := quatOf(t.element(k0, 1))
		if k0 == k1 {
			return q0
		}
		q1 := quatOf(t.element(k1, 1))
		if q0.Dot(q1) < 0 {
			q1 = q1.Scale(-1)
		}
		return mgl32.QuatSlerp(q0, q1, f).Normalize()
	}
	var v [4]float32
	t.sample(time, v[:])
	return quatOf(v[:]).Normalize()
}

// glTF stores quaternions as x, y, z, w.
func quatOf(v []float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// Clip is an immutable named set of tracks.
type Clip struct {
	Name     string
	Duration float32 // seconds
	Tracks   []Track
}

// NewClip builds a clip whose duration is the latest keyframe time.
// Tracks with mismatched value counts are dropped.
func NewClip(name string, tracks []Track) *Clip {
	c := &Clip{Name: name}
	for _, tr := range tracks {
		if !tr.Valid() {
			continue
		}
		if end := tr.Times[len(tr.Times)-1]; end > c.Duration {
			c.Duration = end
		}
		c.Tracks = append(c.Tracks, tr)
	}
	return c
}
