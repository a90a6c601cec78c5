package animation

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Joint is a node whose local transform a track can drive.
type Joint interface {
	SetTranslation(mgl32.Vec3)
	SetRotation(mgl32.Quat)
	SetScale(mgl32.Vec3)
}

// Rig resolves track targets by node name. Joint returns nil when no node
// carries the name.
type Rig interface {
	Joint(name string) Joint
}

// Player owns at most one clip binding along with its paused flag and
// elapsed time. Clips loop.
type Player struct {
	rig    Rig
	clip   *Clip
	joints []Joint // parallel to clip.Tracks
	time   float32
	paused bool

	Speed float32
}

// NewPlayer creates an unbound player for the given rig.
func NewPlayer(rig Rig) *Player {
	return &Player{rig: rig, Speed: 1}
}

// Bind replaces the current binding with clip and resets elapsed time.
// The paused flag is left as is. A nil clip clears the binding.
func (p *Player) Bind(clip *Clip) {
	p.clip = clip
	p.time = 0
	p.joints = p.joints[:0]
	if clip == nil {
		return
	}
	for _, tr := range clip.Tracks {
		var j Joint
		if p.rig != nil {
			j = p.rig.Joint(tr.Target)
		}
		p.joints = append(p.joints, j)
	}
	p.apply()
}

// Clip returns the bound clip, or nil.
func (p *Player) Clip() *Clip { return p.clip }

// Bound reports whether a clip is bound.
func (p *Player) Bound() bool { return p.clip != nil }

// SetPaused pauses or resumes the binding.
func (p *Player) SetPaused(paused bool) { p.paused = paused }

// Paused reports whether the player is paused.
func (p *Player) Paused() bool { return p.paused }

// Time returns the playhead in seconds.
func (p *Player) Time() float32 { return p.time }

// Unresolved returns the number of tracks whose target node is missing.
func (p *Player) Unresolved() int {
	n := 0
	for _, j := range p.joints {
		if j == nil {
			n++
		}
	}
	return n
}

// Update advances the playhead by dt and poses the rig. It does nothing
// while paused or unbound.
func (p *Player) Update(dt time.Duration) {
	if p.paused || p.clip == nil || dt <= 0 {
		return
	}
	p.time += float32(dt.Seconds()) * p.Speed
	if d := p.clip.Duration; d > 0 {
		p.time = float32(math.Mod(float64(p.time), float64(d)))
		if p.time < 0 {
			p.time += d
		}
	} else {
		p.time = 0
	}
	p.apply()
}

func (p *Player) apply() {
	for i := range p.clip.Tracks {
		j := p.joints[i]
		if j == nil {
			continue
		}
		tr := &p.clip.Tracks[i]
		switch tr.Path {
		case PathTranslation:
			j.SetTranslation(tr.Vec3(p.time))
		case PathRotation:
			j.SetRotation(tr.Quat(p.time))
		case PathScale:
			j.SetScale(tr.Vec3(p.time))
		}
	}
}
