package scene

import (
	"image"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
)

// Image is decoded texture data in non-premultiplied RGBA.
type Image struct {
	Name string
	Pix  *image.NRGBA
}

// NewImage converts any decoded image to NRGBA.
func NewImage(name string, src image.Image) *Image {
	if n, ok := src.(*image.NRGBA); ok {
		return &Image{Name: name, Pix: n}
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{Name: name, Pix: dst}
}

// Width returns the width in pixels.
func (i *Image) Width() int { return i.Pix.Bounds().Dx() }

// Height returns the height in pixels.
func (i *Image) Height() int { return i.Pix.Bounds().Dy() }

// Material describes surface shading for a primitive.
type Material struct {
	Name      string
	BaseColor mgl32.Vec4
	ColorMap  *Image

	// NeedsUpload marks the colour map for upload to the GPU. The renderer
	// clears it once uploaded.
	NeedsUpload bool
}

// NewMaterial creates a white material.
func NewMaterial(name string) *Material {
	return &Material{Name: name, BaseColor: mgl32.Vec4{1, 1, 1, 1}}
}

// Primitive is one draw call worth of geometry.
type Primitive struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Joints    [][4]uint16
	Weights   [][4]float32
	Indices   []uint32
	Material  *Material
}

// Skinned reports whether the primitive carries joint influences.
func (p *Primitive) Skinned() bool {
	return len(p.Joints) == len(p.Positions) && len(p.Weights) == len(p.Positions) && len(p.Positions) > 0
}

// Mesh is a named list of primitives.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// withMaterial returns a copy of m whose primitives share geometry but use mat.
func (m *Mesh) withMaterial(mat func() *Material) *Mesh {
	out := &Mesh{Name: m.Name, Primitives: make([]*Primitive, len(m.Primitives))}
	for i, p := range m.Primitives {
		cp := *p
		cp.Material = mat()
		out.Primitives[i] = &cp
	}
	return out
}
