// Package renderer draws scene views with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/animscene/internal/engine/shader"
	"github.com/Faultbox/animscene/internal/scene"
)

// Renderer draws the environment background and every attached model.
// IMPORTANT: Must be created AFTER the OpenGL context exists, and used only
// on the thread that owns it.
type Renderer struct {
	log *zap.Logger

	width, height int

	background *shader.Program
	mesh       *shader.Program
	emptyVAO   uint32

	cache *gpuCache

	// Exposure scales the environment before tone mapping.
	Exposure float32
}

// New initializes OpenGL and compiles the scene shaders.
func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{log: log, cache: newGPUCache(), Exposure: 1}

	var err error
	if r.background, err = shader.NewProgram(backgroundVertex, backgroundFragment); err != nil {
		return nil, fmt.Errorf("background shader: %w", err)
	}
	if r.mesh, err = shader.NewProgram(meshVertex, meshFragment); err != nil {
		r.background.Delete()
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &r.emptyVAO)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	gl.ClearColor(0, 0, 0, 1)

	return r, nil
}

// Close releases every GPU resource.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.cache.releaseAll()
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
		r.emptyVAO = 0
	}
	if r.background != nil {
		r.background.Delete()
	}
	if r.mesh != nil {
		r.mesh.Delete()
	}
}

// Resize updates the GL viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Render implements scene.Renderer.
func (r *Renderer) Render(v *scene.View) {
	r.cache.beginFrame()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	var ambient mgl32.Vec3
	if v.Environment != nil {
		env := r.cache.environment(v.Environment)
		ambient = env.average
		r.drawBackground(v, env.texture)
	}

	r.mesh.Use()
	r.mesh.SetMat4("uProjection", v.Projection)
	r.mesh.SetMat4("uView", v.ViewMatrix)
	r.mesh.SetVec3("uSky", v.Hemisphere.Sky)
	r.mesh.SetVec3("uGround", v.Hemisphere.Ground)
	r.mesh.SetFloat("uHemiIntensity", v.Hemisphere.Intensity)
	r.mesh.SetVec3("uLightColor", v.Directional.Color)
	r.mesh.SetVec3("uLightDir", v.Directional.Direction())
	r.mesh.SetFloat("uLightIntensity", v.Directional.Intensity)
	r.mesh.SetVec3("uEnvAmbient", ambient)
	r.mesh.SetInt("uColorMap", 0)

	for _, d := range CollectDraws(v) {
		r.drawPrimitive(d)
	}

	gl.BindVertexArray(0)
	r.cache.sweep()
}

func (r *Renderer) drawBackground(v *scene.View, tex uint32) {
	gl.DepthMask(false)
	gl.Disable(gl.DEPTH_TEST)

	r.background.Use()
	r.background.SetMat4("uInvViewProj", BackgroundMatrix(v.Projection, v.ViewMatrix))
	r.background.SetFloat("uExposure", r.Exposure)
	r.background.SetInt("uEnvironment", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
}

func (r *Renderer) drawPrimitive(d Draw) {
	p := d.Primitive
	buf := r.cache.primitive(p)

	base := mgl32.Vec4{1, 1, 1, 1}
	var colorMap uint32
	if mat := p.Material; mat != nil {
		base = mat.BaseColor
		if mat.ColorMap != nil {
			colorMap = r.cache.image(mat.ColorMap)
			mat.NeedsUpload = false
		}
	}

	r.mesh.SetMat4("uModel", d.World)
	r.mesh.SetVec4("uBaseColor", base)
	r.mesh.SetBool("uHasColorMap", colorMap != 0)
	r.mesh.SetBool("uSkinned", d.Joints != nil)
	if d.Joints != nil {
		r.mesh.SetMat4Array("uJoints[0]", d.Joints)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, colorMap)
	gl.BindVertexArray(buf.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, buf.count, gl.UNSIGNED_INT, 0)
}
