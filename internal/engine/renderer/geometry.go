package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/animscene/internal/scene"
)

// vertexFloats is pos(3) + normal(3) + uv(2) + joints(4) + weights(4).
const vertexFloats = 16

// Draw is one primitive ready for submission.
type Draw struct {
	Primitive *scene.Primitive
	World     mgl32.Mat4
	Joints    []mgl32.Mat4 // nil when the primitive is not skinned
}

// CollectDraws flattens every attached model into draw calls. World matrices
// are computed first so joint palettes see the current pose.
func CollectDraws(v *scene.View) []Draw {
	var draws []Draw
	for _, m := range v.Objects {
		if m == nil || m.Root == nil {
			continue
		}
		world := make(map[*scene.Node]mgl32.Mat4)
		var meshes []*scene.Node
		scene.Visit(m.Root, mgl32.Ident4(), func(n *scene.Node, w mgl32.Mat4) bool {
			world[n] = w
			if n.Mesh != nil {
				meshes = append(meshes, n)
			}
			return true
		})
		for _, n := range meshes {
			var joints []mgl32.Mat4
			if n.Skin != nil && len(n.Skin.Joints) > 0 {
				joints = ClampJoints(n.Skin.JointMatrices(world))
			}
			for _, p := range n.Mesh.Primitives {
				if p == nil || len(p.Positions) == 0 {
					continue
				}
				d := Draw{Primitive: p, World: world[n]}
				if joints != nil && p.Skinned() {
					d.Joints = joints
				}
				draws = append(draws, d)
			}
		}
	}
	return draws
}

// ClampJoints truncates a palette to what the shader can hold.
func ClampJoints(m []mgl32.Mat4) []mgl32.Mat4 {
	if len(m) > MaxJoints {
		return m[:MaxJoints]
	}
	return m
}

// Interleave packs a primitive into the mesh vertex layout. Missing normals
// point up, missing UVs are zero, and unskinned vertices get zero weights.
func Interleave(p *scene.Primitive) []float32 {
	out := make([]float32, 0, len(p.Positions)*vertexFloats)
	skinned := p.Skinned()
	for i, pos := range p.Positions {
		out = append(out, pos[0], pos[1], pos[2])
		if i < len(p.Normals) {
			n := p.Normals[i]
			out = append(out, n[0], n[1], n[2])
		} else {
			out = append(out, 0, 1, 0)
		}
		if i < len(p.UVs) {
			out = append(out, p.UVs[i][0], p.UVs[i][1])
		} else {
			out = append(out, 0, 0)
		}
		if skinned {
			j, w := p.Joints[i], p.Weights[i]
			out = append(out, float32(j[0]), float32(j[1]), float32(j[2]), float32(j[3]))
			out = append(out, w[0], w[1], w[2], w[3])
		} else {
			out = append(out, 0, 0, 0, 0, 0, 0, 0, 0)
		}
	}
	return out
}

// Indices returns the primitive's index list, generating a sequential one
// for non-indexed geometry.
func Indices(p *scene.Primitive) []uint32 {
	if len(p.Indices) > 0 {
		return p.Indices
	}
	idx := make([]uint32, len(p.Positions))
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

// BackgroundMatrix returns the inverse of projection * view with the
// translation removed, mapping clip space to world directions.
func BackgroundMatrix(projection, view mgl32.Mat4) mgl32.Mat4 {
	rot := view.Mat3().Mat4()
	return projection.Mul4(rot).Inv()
}

// TightRGBA returns the image pixels with no row padding, top row first.
func TightRGBA(img *image.NRGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == w*4 && b.Min == (image.Point{}) {
		return img.Pix[:w*h*4]
	}
	out := make([]uint8, 0, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		out = append(out, img.Pix[off:off+w*4]...)
	}
	return out
}
