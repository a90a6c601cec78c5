package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/animscene/internal/scene"
)

type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
}

type envTexture struct {
	texture uint32
	average mgl32.Vec3
}

// gpuCache maps scene data to GPU objects. Entries not touched during a
// frame are released by sweep, so replaced meshes and environments do not leak.
type gpuCache struct {
	meshes map[*scene.Primitive]*meshBuffers
	images map[*scene.Image]uint32
	envs   map[*scene.Environment]*envTexture

	used map[any]struct{}
}

func newGPUCache() *gpuCache {
	return &gpuCache{
		meshes: make(map[*scene.Primitive]*meshBuffers),
		images: make(map[*scene.Image]uint32),
		envs:   make(map[*scene.Environment]*envTexture),
		used:   make(map[any]struct{}),
	}
}

func (c *gpuCache) beginFrame() {
	clear(c.used)
}

func (c *gpuCache) primitive(p *scene.Primitive) *meshBuffers {
	c.used[p] = struct{}{}
	if b, ok := c.meshes[p]; ok {
		return b
	}

	verts := Interleave(p)
	idx := Indices(p)
	b := &meshBuffers{count: int32(len(idx))}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*4, gl.Ptr(idx), gl.STATIC_DRAW)

	stride := int32(vertexFloats * 4)
	// position, normal, uv, joints, weights
	sizes := []int32{3, 3, 2, 4, 4}
	var offset uintptr
	for loc, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(loc), n, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(uint32(loc))
		offset += uintptr(n) * 4
	}

	gl.BindVertexArray(0)
	c.meshes[p] = b
	return b
}

func (c *gpuCache) image(img *scene.Image) uint32 {
	c.used[img] = struct{}{}
	if tex, ok := c.images[img]; ok {
		return tex
	}
	pix := TightRGBA(img.Pix)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(img.Width()), int32(img.Height()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	c.images[img] = tex
	return tex
}

func (c *gpuCache) environment(env *scene.Environment) *envTexture {
	c.used[env] = struct{}{}
	if e, ok := c.envs[env]; ok {
		return e
	}
	e := &envTexture{average: mgl32.Vec3(env.Average())}
	gl.GenTextures(1, &e.texture)
	gl.BindTexture(gl.TEXTURE_2D, e.texture)
	if len(env.Pix) >= env.Width*env.Height*3 && env.Width > 0 {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(env.Width), int32(env.Height), 0,
			gl.RGB, gl.FLOAT, gl.Ptr(env.Pix))
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	c.envs[env] = e
	return e
}

func (c *gpuCache) sweep() {
	for p, b := range c.meshes {
		if _, ok := c.used[p]; !ok {
			b.release()
			delete(c.meshes, p)
		}
	}
	for img, tex := range c.images {
		if _, ok := c.used[img]; !ok {
			gl.DeleteTextures(1, &tex)
			delete(c.images, img)
		}
	}
	for env, e := range c.envs {
		if _, ok := c.used[env]; !ok {
			gl.DeleteTextures(1, &e.texture)
			delete(c.envs, env)
		}
	}
}

func (c *gpuCache) releaseAll() {
	clear(c.used)
	c.sweep()
}

func (b *meshBuffers) release() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteBuffers(1, &b.ebo)
}
