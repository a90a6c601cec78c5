package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// HemisphereLight blends a sky colour and a ground colour by surface normal.
type HemisphereLight struct {
	Sky       mgl32.Vec3
	Ground    mgl32.Vec3
	Intensity float32
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color     mgl32.Vec3
	Position  mgl32.Vec3
	Intensity float32
}

// Direction returns the normalized direction the light travels.
func (d DirectionalLight) Direction() mgl32.Vec3 {
	if d.Position.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Position.Mul(-1).Normalize()
}

// DefaultLights returns the white-over-grey hemisphere and the key light at (3, 10, 10).
func DefaultLights() (HemisphereLight, DirectionalLight) {
	return HemisphereLight{
			Sky:       mgl32.Vec3{1, 1, 1},
			Ground:    mgl32.Vec3{0x44 / 255.0, 0x44 / 255.0, 0x44 / 255.0},
			Intensity: 1,
		}, DirectionalLight{
			Color:     mgl32.Vec3{1, 1, 1},
			Position:  mgl32.Vec3{3, 10, 10},
			Intensity: 1,
		}
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into 0..1 RGB.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
