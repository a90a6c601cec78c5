package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAlreadyAttached is returned when a model is attached twice.
var ErrAlreadyAttached = errors.New("scene: model already attached")

// Renderer draws a view of the scene.
type Renderer interface {
	Render(v *View)
}

// View is the snapshot of scene state handed to the renderer for one frame.
type View struct {
	Projection  mgl32.Mat4
	ViewMatrix  mgl32.Mat4
	Eye         mgl32.Vec3
	Environment *Environment
	Hemisphere  HemisphereLight
	Directional DirectionalLight
	Objects     []*Model
}

// Graph owns the attached objects, the lights and the environment.
// It is confined to the render thread.
type Graph struct {
	log      *zap.Logger
	renderer Renderer

	env     *Environment
	objects []*Model
	ids     map[uuid.UUID]struct{}

	Hemisphere  HemisphereLight
	Directional DirectionalLight
}

// NewGraph creates an empty scene with default lights.
func NewGraph(r Renderer, log *zap.Logger) *Graph {
	if log == nil {
		log = zap.NewNop()
	}
	hemi, dir := DefaultLights()
	return &Graph{
		log:         log,
		renderer:    r,
		ids:         make(map[uuid.UUID]struct{}),
		Hemisphere:  hemi,
		Directional: dir,
	}
}

// AttachEnvironment makes env both the background and the ambient source.
// It returns the environment it replaced, or nil.
func (g *Graph) AttachEnvironment(env *Environment) *Environment {
	prev := g.env
	g.env = env
	if env != nil {
		g.log.Info("environment attached",
			zap.String("name", env.Name),
			zap.Int("width", env.Width),
			zap.Int("height", env.Height),
			zap.Bool("replaced", prev != nil))
	}
	return prev
}

// Environment returns the active environment, or nil.
func (g *Graph) Environment() *Environment { return g.env }

// Background returns the visible background. It is always the environment.
func (g *Graph) Background() *Environment { return g.env }

// AttachObject adds m to the rendered set.
func (g *Graph) AttachObject(m *Model) error {
	if _, ok := g.ids[m.ID]; ok {
		return ErrAlreadyAttached
	}
	g.ids[m.ID] = struct{}{}
	g.objects = append(g.objects, m)
	g.log.Info("object attached", zap.String("name", m.Name), zap.Stringer("id", m.ID))
	return nil
}

// Objects returns the attached models in attach order.
func (g *Graph) Objects() []*Model { return g.objects }

// ApplyMaterial gives every mesh reachable from m's root a new mesh whose
// primitives use a new material with img as colour map. The replaced meshes
// are not modified. It returns the number of meshes replaced.
func (g *Graph) ApplyMaterial(m *Model, img *Image) int {
	n := 0
	for _, node := range m.Meshes() {
		name := node.Mesh.Name
		node.Mesh = node.Mesh.withMaterial(func() *Material {
			mat := NewMaterial(name)
			mat.ColorMap = img
			mat.NeedsUpload = true
			return mat
		})
		n++
	}
	g.log.Debug("material applied", zap.String("model", m.Name), zap.Int("meshes", n))
	return n
}

// SetRenderer replaces the renderer.
func (g *Graph) SetRenderer(r Renderer) { g.renderer = r }

// Snapshot builds the view for cam without rendering it.
func (g *Graph) Snapshot(cam *Camera) *View {
	objs := make([]*Model, len(g.objects))
	copy(objs, g.objects)
	return &View{
		Projection:  cam.Projection(),
		ViewMatrix:  cam.View(),
		Eye:         cam.Position,
		Environment: g.env,
		Hemisphere:  g.Hemisphere,
		Directional: g.Directional,
		Objects:     objs,
	}
}

// Render submits one frame to the renderer.
func (g *Graph) Render(cam *Camera) {
	if g.renderer == nil {
		return
	}
	g.renderer.Render(g.Snapshot(cam))
}
