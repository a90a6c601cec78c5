package assets

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

func TestLoadCharacterEmbeddedTexture(t *testing.T) {
	fsys := fstest.MapFS{"models/textured.glb": {Data: buildTexturedGLB(t, buildPNG(t))}}
	l := NewLoader(NewSourceFS(fsys), zap.NewNop())

	m, err := l.LoadCharacter("models/textured.glb")
	if err != nil {
		t.Fatalf("LoadCharacter: %v", err)
	}
	body := m.Root.Find("body")
	if body == nil || body.Mesh == nil {
		t.Fatal("body mesh missing")
	}
	mat := body.Mesh.Primitives[0].Material
	if mat.Name != "skin" || mat.ColorMap == nil {
		t.Fatalf("expected embedded colour map on skin, got %+v", mat)
	}
	if !mat.NeedsUpload {
		t.Error("embedded colour map not marked for upload")
	}
	if mat.ColorMap.Width() != 2 || mat.ColorMap.Height() != 2 {
		t.Errorf("colour map size %dx%d", mat.ColorMap.Width(), mat.ColorMap.Height())
	}
	if c := mat.ColorMap.Pix.NRGBAAt(0, 0); c.R != 255 {
		t.Errorf("colour map pixel = %+v", c)
	}
}

func TestDecodeClipRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*gltf.Animation)
		wantErr bool
		tracks  int
	}{
		{"valid", func(*gltf.Animation) {}, false, 1},
		{"target node out of range", func(a *gltf.Animation) { a.Channels[0].Target.Node = gltf.Index(99) }, true, 0},
		{"negative target node", func(a *gltf.Animation) { a.Channels[0].Target.Node = gltf.Index(-1) }, true, 0},
		{"input accessor out of range", func(a *gltf.Animation) { a.Samplers[0].Input = 99 }, true, 0},
		{"output accessor out of range", func(a *gltf.Animation) { a.Samplers[0].Output = -1 }, true, 0},
		{"sampler out of range is skipped", func(a *gltf.Animation) { a.Channels[0].Sampler = 5 }, false, 0},
		{"missing target node is skipped", func(a *gltf.Animation) { a.Channels[0].Target.Node = nil }, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fixtureDoc("walk")
			tt.mutate(doc.Animations[0])

			clip, err := decodeClip(doc, 0)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Fatalf("expected ErrUnsupported, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeClip: %v", err)
			}
			if len(clip.Tracks) != tt.tracks {
				t.Errorf("expected %d tracks, got %d", tt.tracks, len(clip.Tracks))
			}
		})
	}
}

func TestDecodeModelRejectsBadHierarchy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*gltf.Document)
	}{
		{"cycle", func(d *gltf.Document) { d.Nodes[1].Children = []int{0} }},
		{"self parent", func(d *gltf.Document) { d.Nodes[1].Children = []int{1} }},
		{"child out of range", func(d *gltf.Document) { d.Nodes[0].Children = []int{7} }},
		{"primitive accessor out of range", func(d *gltf.Document) {
			d.Meshes[0].Primitives[0].Attributes[gltf.POSITION] = 42
		}},
		{"index accessor out of range", func(d *gltf.Document) {
			d.Meshes[0].Primitives[0].Indices = gltf.Index(42)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fixtureDoc("")
			tt.mutate(doc)
			if _, err := decodeModel(doc, "broken.glb"); !errors.Is(err, ErrUnsupported) {
				t.Errorf("expected ErrUnsupported, got %v", err)
			}
		})
	}
}

func TestDecodeModelSkipsDuplicateRoots(t *testing.T) {
	doc := fixtureDoc("")
	doc.Scenes[0].Nodes = []int{0, 0, 1}

	m, err := decodeModel(doc, "dup.glb")
	if err != nil {
		t.Fatalf("decodeModel: %v", err)
	}
	if len(m.Root.Children) != 1 || m.Root.Children[0].Name != "hips" {
		t.Errorf("expected hips as the only root, got %d children", len(m.Root.Children))
	}
}
