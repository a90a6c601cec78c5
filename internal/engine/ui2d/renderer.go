// Package ui2d provides a small immediate-mode 2D overlay drawn with OpenGL
// on top of the scene.
package ui2d

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/animscene/internal/engine/shader"
)

const solidVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const solidFragment = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

const textVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

const textFragment = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
	float alpha = texture(uTexture, vTexCoord).r;
	FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`

// Renderer batches overlay quads and draws them with OpenGL. It implements
// Canvas.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solid *shader.Program
	text  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32

	solidVertices []float32
	textVertices  []float32

	font *Font
}

// New creates a new 2D UI renderer. The GL context must be current.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		solidVertices: make([]float32, 0, 1024),
		textVertices:  make([]float32, 0, 4096),
		font:          NewFont(),
	}

	var err error
	if r.solid, err = shader.NewProgram(solidVertex, solidFragment); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if r.text, err = shader.NewProgram(textVertex, textFragment); err != nil {
		r.solid.Delete()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	// pos(3) + color(4)
	r.solidVAO, r.solidVBO = vertexLayout(3, 4)
	// pos(3) + texcoord(2) + color(4)
	r.textVAO, r.textVBO = vertexLayout(3, 2, 4)

	return r, nil
}

func vertexLayout(sizes ...int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	var stride int32
	for _, n := range sizes {
		stride += n * 4
	}
	var offset uintptr
	for loc, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(loc), n, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(uint32(loc))
		offset += uintptr(n) * 4
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions in window coordinates.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// End draws everything queued since Begin.
func (r *Renderer) End() {
	prevBlend := gl.IsEnabled(gl.BLEND)
	prevDepth := gl.IsEnabled(gl.DEPTH_TEST)
	prevSRGB := gl.IsEnabled(gl.FRAMEBUFFER_SRGB)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	// Overlay colours are already display-referred.
	gl.Disable(gl.FRAMEBUFFER_SRGB)

	proj := Ortho(r.screenWidth, r.screenHeight)

	if len(r.solidVertices) > 0 {
		r.solid.Use()
		r.solid.SetMat4("uProjection", proj)
		gl.BindVertexArray(r.solidVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.solidVertices)*4, gl.Ptr(r.solidVertices), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.solidVertices)/7))
	}

	if len(r.textVertices) > 0 {
		r.text.Use()
		r.text.SetMat4("uProjection", proj)
		r.text.SetInt("uTexture", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())
		gl.BindVertexArray(r.textVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.textVertices)*4, gl.Ptr(r.textVertices), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.textVertices)/9))
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	restore(gl.BLEND, prevBlend)
	restore(gl.DEPTH_TEST, prevDepth)
	restore(gl.FRAMEBUFFER_SRGB, prevSRGB)
}

func restore(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	r.font.Close()
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.solid != nil {
		r.solid.Delete()
	}
	if r.text != nil {
		r.text.Delete()
	}
}

// Ortho maps window pixels (origin top-left) to clip space.
func Ortho(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	r.solidVertices = appendQuad(r.solidVertices, x, y, width, height, color)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	r.DrawRect(x, y, width, thickness, color)
	r.DrawRect(x, y+height-thickness, width, thickness, color)
	r.DrawRect(x, y+thickness, thickness, height-thickness*2, color)
	r.DrawRect(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawText draws text with its top-left corner at (x, y).
func (r *Renderer) DrawText(x, y float32, text string, scale float32, color Color) {
	r.textVertices = appendText(r.textVertices, r.font, x, y, text, scale, color)
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.font.MeasureText(text, scale)
}

// appendQuad appends two triangles of x, y, z, r, g, b, a.
func appendQuad(dst []float32, x, y, w, h float32, c Color) []float32 {
	return append(dst,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y+h, 0, c.R, c.G, c.B, c.A,
	)
}

// appendText appends one textured quad of x, y, z, u, v, r, g, b, a per glyph.
func appendText(dst []float32, f *Font, x, y float32, text string, scale float32, c Color) []float32 {
	gw, gh := f.GlyphSize()
	charW, charH := float32(gw)*scale, float32(gh)*scale
	curX := x
	for _, ch := range text {
		if ch == '\n' {
			curX = x
			y += charH
			continue
		}
		u0, v0, u1, v1 := f.GetGlyphUV(ch)
		dst = append(dst,
			curX, y, 0, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y, 0, u1, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, 0, u1, v1, c.R, c.G, c.B, c.A,
			curX, y, 0, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, 0, u1, v1, c.R, c.G, c.B, c.A,
			curX, y+charH, 0, u0, v1, c.R, c.G, c.B, c.A,
		)
		curX += charW
	}
	return dst
}
