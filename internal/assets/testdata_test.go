package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// buildGLB encodes a two-node document: "hips" with a child "body" that
// carries a triangle. With anim set, one clip moves hips over one second.
func buildGLB(t *testing.T, anim string) []byte {
	t.Helper()
	return encodeGLB(t, fixtureDoc(anim))
}

func fixtureDoc(anim string) *gltf.Document {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "body",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "hips", Children: []int{1}, Translation: [3]float64{0, 1, 0}, Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}},
		{Name: "body", Mesh: gltf.Index(0), Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}},
	}
	doc.Scenes[0].Nodes = []int{0}

	if anim != "" {
		in := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
		out := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 1, 0}, {0, 3, 0}})
		doc.Animations = []*gltf.Animation{{
			Name:     anim,
			Samplers: []*gltf.AnimationSampler{{Input: in, Output: out}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation},
			}},
		}}
	}
	return doc
}

// buildTexturedGLB stores png inside the buffer and points the body's
// material at it.
func buildTexturedGLB(t *testing.T, png []byte) []byte {
	t.Helper()
	doc := fixtureDoc("")
	img, err := modeler.WriteImage(doc, "skin", "image/png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("writing image: %v", err)
	}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(img)}}
	doc.Materials = []*gltf.Material{{
		Name: "skin",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes[0].Primitives[0].Material = gltf.Index(0)
	return encodeGLB(t, doc)
}

func encodeGLB(t *testing.T, doc *gltf.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encoding glb: %v", err)
	}
	return buf.Bytes()
}

func buildPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// buildTGA returns an uncompressed 24-bit 2x1 image, top-left origin:
// one blue pixel then one green one.
func buildTGA() []byte {
	header := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 1, 0, 24, 0x20}
	pixels := []byte{255, 0, 0, 0, 255, 0} // BGR
	return append(header, pixels...)
}

// buildHDR returns a flat (non run-length) 2x1 Radiance file holding
// (1, 0, 0) and (0, 0, 1).
func buildHDR() []byte {
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 2\n")
	buf.Write([]byte{128, 0, 0, 129, 0, 0, 128, 129})
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"models/character.glb": {Data: buildGLB(t, "idle")},
		"models/static.glb":    {Data: buildGLB(t, "")},
		"models/dance.glb":     {Data: buildGLB(t, "dance")},
		"models/character.png": {Data: buildPNG(t)},
		"models/skin.tga":      {Data: buildTGA()},
		"models/broken.png":    {Data: []byte("not an image")},
		"hdr/noche.hdr":        {Data: buildHDR()},
		"audio/theme.wav":      {Data: []byte("RIFF....WAVE")},
	}
}
