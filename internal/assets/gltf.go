package assets

import (
	"bytes"
	"fmt"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/animscene/internal/animation"
	"github.com/Faultbox/animscene/internal/scene"
)

// Character is a decoded model plus the colour texture requested with it.
// TextureErr is set when the texture failed; the model is still usable.
type Character struct {
	Model      *scene.Model
	Texture    *scene.Image
	TextureErr error
}

// LoadCharacter decodes a glTF or GLB model with its embedded clips.
func (l *Loader) LoadCharacter(name string) (*scene.Model, error) {
	doc, err := l.document(name)
	if err != nil {
		return nil, err
	}
	m, err := decodeModel(doc, path.Base(name))
	if err != nil {
		return nil, err
	}
	if l.ModelScale > 0 && l.ModelScale != 1 {
		s := l.ModelScale
		m.Root.Scale = mgl32.Vec3{s, s, s}
	}
	return m, nil
}

// LoadCharacterWithTexture loads the model and then its texture. Only a
// model failure fails the whole load.
func (l *Loader) LoadCharacterWithTexture(model, texture string) (*Character, error) {
	m, err := l.LoadCharacter(model)
	if err != nil {
		return nil, err
	}
	c := &Character{Model: m}
	if texture != "" {
		c.Texture, c.TextureErr = l.LoadTexture(texture)
		if c.TextureErr != nil {
			c.TextureErr = &LoadError{Kind: KindCharacter, Path: texture, Err: c.TextureErr}
		}
	}
	return c, nil
}

// LoadExternalClip decodes the first animation of a glTF or GLB file.
func (l *Loader) LoadExternalClip(name string) (*animation.Clip, error) {
	doc, err := l.document(name)
	if err != nil {
		return nil, err
	}
	if len(doc.Animations) == 0 {
		return nil, ErrNoAnimation
	}
	return decodeClip(doc, 0)
}

func (l *Loader) document(name string) (*gltf.Document, error) {
	data, err := l.src.Load(name)
	if err != nil {
		return nil, err
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding gltf: %w", err)
	}
	return doc, nil
}

func decodeModel(doc *gltf.Document, name string) (*scene.Model, error) {
	var scn *gltf.Scene
	switch {
	case doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes):
		scn = doc.Scenes[*doc.Scene]
	case len(doc.Scenes) > 0:
		scn = doc.Scenes[0]
	}
	if scn == nil || len(scn.Nodes) == 0 {
		return nil, ErrNoScene
	}

	materials, err := decodeMaterials(doc)
	if err != nil {
		return nil, err
	}
	meshes := make([]*scene.Mesh, len(doc.Meshes))
	for i := range doc.Meshes {
		if meshes[i], err = decodeMesh(doc, i, materials); err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := scene.NewNode(gn.Name)
		setTransform(n, gn)
		if gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(meshes) {
			n.Mesh = meshes[*gn.Mesh]
		}
		nodes[i] = n
	}
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d child %d: %w", i, c, ErrUnsupported)
			}
			if nodes[c].Parent() != nil || ancestor(nodes[c], nodes[i]) {
				return nil, fmt.Errorf("node %d child %d forms a cycle or second parent: %w", i, c, ErrUnsupported)
			}
			nodes[i].AddChild(nodes[c])
		}
		if gn.Skin != nil && *gn.Skin >= 0 && *gn.Skin < len(doc.Skins) {
			skin, err := decodeSkin(doc, doc.Skins[*gn.Skin], nodes)
			if err != nil {
				return nil, fmt.Errorf("skin %d: %w", *gn.Skin, err)
			}
			nodes[i].Skin = skin
		}
	}

	root := scene.NewNode(name)
	for _, r := range scn.Nodes {
		if r >= 0 && r < len(nodes) && nodes[r].Parent() == nil {
			root.AddChild(nodes[r])
		}
	}

	clips := make([]*animation.Clip, 0, len(doc.Animations))
	for i := range doc.Animations {
		c, err := decodeClip(doc, i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips = append(clips, c)
	}

	return scene.NewModel(name, root, clips), nil
}

// ancestor reports whether a is n or one of its parents.
func ancestor(a, n *scene.Node) bool {
	for ; n != nil; n = n.Parent() {
		if n == a {
			return true
		}
	}
	return false
}

func setTransform(n *scene.Node, gn *gltf.Node) {
	var zero gltf.Node
	if gn.Matrix != gltf.DefaultMatrix && gn.Matrix != zero.Matrix {
		var m mgl32.Mat4
		for i, v := range gn.Matrix {
			m[i] = float32(v)
		}
		n.Translation = m.Col(3).Vec3()
		sx, sy, sz := m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()
		n.Scale = mgl32.Vec3{sx, sy, sz}
		if sx != 0 && sy != 0 && sz != 0 {
			rot := mgl32.Mat3FromCols(m.Col(0).Vec3().Mul(1/sx), m.Col(1).Vec3().Mul(1/sy), m.Col(2).Vec3().Mul(1/sz))
			n.Rotation = mgl32.Mat4ToQuat(rot.Mat4()).Normalize()
		}
		return
	}
	t, r, s := gn.Translation, gn.Rotation, gn.Scale
	n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	if n.Rotation.Len() == 0 {
		n.Rotation = mgl32.QuatIdent()
	}
	if s != zero.Scale {
		n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	}
}

func decodeMaterials(doc *gltf.Document) ([]*scene.Material, error) {
	out := make([]*scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := scene.NewMaterial(gm.Name)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if f := pbr.BaseColorFactor; f != nil {
				mat.BaseColor = mgl32.Vec4{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
			}
			if pbr.BaseColorTexture != nil {
				img, err := embeddedImage(doc, pbr.BaseColorTexture)
				if err != nil {
					return nil, fmt.Errorf("material %q: %w", gm.Name, err)
				}
				if img != nil {
					mat.ColorMap = img
					mat.NeedsUpload = true
				}
			}
		}
		out[i] = mat
	}
	return out, nil
}

// embeddedImage decodes a texture stored in a buffer view. Textures that
// reference external files are skipped.
func embeddedImage(doc *gltf.Document, ti *gltf.TextureInfo) (*scene.Image, error) {
	if ti.Index < 0 || ti.Index >= len(doc.Textures) || doc.Textures[ti.Index].Source == nil {
		return nil, nil
	}
	src := *doc.Textures[ti.Index].Source
	if src < 0 || src >= len(doc.Images) {
		return nil, nil
	}
	gi := doc.Images[src]
	if gi.BufferView == nil {
		return nil, nil
	}
	if *gi.BufferView < 0 || *gi.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("embedded image %q: buffer view %d: %w", gi.Name, *gi.BufferView, ErrUnsupported)
	}
	data, err := modeler.ReadBufferView(doc, doc.BufferViews[*gi.BufferView])
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(gi.Name, data)
	if err != nil {
		return nil, fmt.Errorf("embedded image %q: %w", gi.Name, err)
	}
	return scene.NewImage(gi.Name, img), nil
}

func decodeMesh(doc *gltf.Document, idx int, materials []*scene.Material) (*scene.Mesh, error) {
	gm := doc.Meshes[idx]
	mesh := &scene.Mesh{Name: gm.Name}
	for _, gp := range gm.Primitives {
		if gp.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := gp.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		p := &scene.Primitive{}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return nil, err
		}
		if p.Positions, err = modeler.ReadPosition(doc, acr, nil); err != nil {
			return nil, err
		}
		if a, ok := gp.Attributes[gltf.NORMAL]; ok {
			if acr, err = accessor(doc, a); err != nil {
				return nil, err
			}
			if p.Normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
				return nil, err
			}
		}
		if a, ok := gp.Attributes[gltf.TEXCOORD_0]; ok {
			if acr, err = accessor(doc, a); err != nil {
				return nil, err
			}
			if p.UVs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
				return nil, err
			}
		}
		if a, ok := gp.Attributes[gltf.WEIGHTS_0]; ok {
			if acr, err = accessor(doc, a); err != nil {
				return nil, err
			}
			if p.Weights, err = modeler.ReadWeights(doc, acr, nil); err != nil {
				return nil, err
			}
			if j, ok := gp.Attributes[gltf.JOINTS_0]; ok {
				if acr, err = accessor(doc, j); err != nil {
					return nil, err
				}
				if p.Joints, err = modeler.ReadJoints(doc, acr, nil); err != nil {
					return nil, err
				}
			}
		}
		if gp.Indices != nil {
			if acr, err = accessor(doc, *gp.Indices); err != nil {
				return nil, err
			}
			if p.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
				return nil, err
			}
		} else {
			p.Indices = make([]uint32, len(p.Positions))
			for i := range p.Indices {
				p.Indices[i] = uint32(i)
			}
		}
		if gp.Material != nil && *gp.Material >= 0 && *gp.Material < len(materials) {
			m := *materials[*gp.Material]
			p.Material = &m
		} else {
			p.Material = scene.NewMaterial("default")
		}
		mesh.Primitives = append(mesh.Primitives, p)
	}
	return mesh, nil
}

func decodeSkin(doc *gltf.Document, gs *gltf.Skin, nodes []*scene.Node) (*scene.Skin, error) {
	skin := &scene.Skin{}
	for _, j := range gs.Joints {
		if j < 0 || j >= len(nodes) {
			return nil, fmt.Errorf("joint %d out of range", j)
		}
		skin.Joints = append(skin.Joints, nodes[j])
	}
	if gs.InverseBindMatrices == nil {
		return skin, nil
	}
	acr, err := accessor(doc, *gs.InverseBindMatrices)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	mats, ok := raw.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("inverse bind matrices: %w", ErrUnsupported)
	}
	for _, cols := range mats {
		var m mgl32.Mat4
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				m[c*4+r] = cols[c][r]
			}
		}
		skin.InverseBind = append(skin.InverseBind, m)
	}
	return skin, nil
}

func decodeClip(doc *gltf.Document, idx int) (*animation.Clip, error) {
	ga := doc.Animations[idx]
	name := ga.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", idx)
	}

	var tracks []animation.Track
	for _, ch := range ga.Channels {
		if ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) || ch.Target.Node == nil {
			continue
		}
		target := *ch.Target.Node
		if target < 0 || target >= len(doc.Nodes) {
			return nil, fmt.Errorf("channel target node %d: %w", target, ErrUnsupported)
		}
		var p animation.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			p = animation.PathTranslation
		case gltf.TRSRotation:
			p = animation.PathRotation
		case gltf.TRSScale:
			p = animation.PathScale
		default:
			continue // morph weights
		}
		s := ga.Samplers[ch.Sampler]

		acr, err := accessor(doc, s.Input)
		if err != nil {
			return nil, err
		}
		in, err := modeler.ReadAccessor(doc, acr, nil)
		if err != nil {
			return nil, err
		}
		times, ok := in.([]float32)
		if !ok {
			return nil, fmt.Errorf("sampler input: %w", ErrUnsupported)
		}
		if acr, err = accessor(doc, s.Output); err != nil {
			return nil, err
		}
		out, err := modeler.ReadAccessor(doc, acr, nil)
		if err != nil {
			return nil, err
		}
		values, err := flatten(out)
		if err != nil {
			return nil, err
		}

		tracks = append(tracks, animation.Track{
			Target:        doc.Nodes[target].Name,
			Path:          p,
			Interpolation: interpolation(s.Interpolation),
			Times:         times,
			Values:        values,
		})
	}
	return animation.NewClip(name, tracks), nil
}

// accessor returns accessor i, or ErrUnsupported when the document has no
// such accessor.
func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", i, ErrUnsupported)
	}
	return doc.Accessors[i], nil
}

func interpolation(i gltf.Interpolation) animation.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return animation.InterpolationStep
	case gltf.InterpolationCubicSpline:
		return animation.InterpolationCubicSpline
	default:
		return animation.InterpolationLinear
	}
}

func flatten(v any) ([]float32, error) {
	switch d := v.(type) {
	case [][3]float32:
		out := make([]float32, 0, len(d)*3)
		for _, e := range d {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4]float32:
		out := make([]float32, 0, len(d)*4)
		for _, e := range d {
			out = append(out, e[:]...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("sampler output %T: %w", v, ErrUnsupported)
	}
}
