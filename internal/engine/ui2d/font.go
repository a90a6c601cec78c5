package ui2d

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph  = ' '
	lastGlyph   = '~'
	atlasCols   = 16
	glyphCount  = lastGlyph - firstGlyph + 1
	atlasRows   = (glyphCount + atlasCols - 1) / atlasCols
	replacement = '?'
)

// Font is a fixed-width bitmap font rasterized from basicfont.Face7x13 into
// a single-channel atlas.
type Font struct {
	face    *basicfont.Face
	atlas   *image.Alpha
	texture uint32
}

// NewFont rasterizes the printable ASCII range. No GL calls are made until
// TextureID is first called.
func NewFont() *Font {
	face := basicfont.Face7x13
	gw, gh := face.Advance, face.Height
	atlas := image.NewAlpha(image.Rect(0, 0, atlasCols*gw, atlasRows*gh))
	d := font.Drawer{Dst: atlas, Src: image.Opaque, Face: face}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		col, row := glyphCell(r)
		d.Dot = fixed.P(col*gw, row*gh+face.Ascent)
		d.DrawString(string(r))
	}
	return &Font{face: face, atlas: atlas}
}

func glyphCell(r rune) (col, row int) {
	if r < firstGlyph || r > lastGlyph {
		r = replacement
	}
	i := int(r - firstGlyph)
	return i % atlasCols, i / atlasCols
}

// Atlas returns the rasterized glyph sheet.
func (f *Font) Atlas() *image.Alpha { return f.atlas }

// GlyphSize returns the cell size of one glyph in pixels.
func (f *Font) GlyphSize() (int, int) { return f.face.Advance, f.face.Height }

// GetGlyphUV returns the atlas coordinates of r, top-left then bottom-right.
// Runes outside printable ASCII map to '?'.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	col, row := glyphCell(r)
	b := f.atlas.Bounds()
	gw, gh := f.GlyphSize()
	w, h := float32(b.Dx()), float32(b.Dy())
	u0 = float32(col*gw) / w
	v0 = float32(row*gh) / h
	u1 = float32((col+1)*gw) / w
	v1 = float32((row+1)*gh) / h
	return
}

// MeasureText returns the size of text drawn at scale.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	gw, gh := f.GlyphSize()
	lines, widest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > widest {
			widest = cur
		}
	}
	return float32(widest*gw) * scale, float32(lines*gh) * scale
}

// TextureID uploads the atlas on first use and returns its texture.
func (f *Font) TextureID() uint32 {
	if f.texture != 0 {
		return f.texture
	}
	b := f.atlas.Bounds()
	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(f.atlas.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return f.texture
}

// Close releases the atlas texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
