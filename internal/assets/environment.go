package assets

import (
	"bytes"
	"fmt"
	"path"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"

	"github.com/Faultbox/animscene/internal/scene"
)

// LoadEnvironment decodes a Radiance RGBE map into linear float RGB.
func (l *Loader) LoadEnvironment(name string) (*scene.Environment, error) {
	data, err := l.src.Load(name)
	if err != nil {
		return nil, err
	}
	return decodeEnvironment(path.Base(name), data)
}

func decodeEnvironment(name string, data []byte) (*scene.Environment, error) {
	img, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding hdr: %w", err)
	}
	h, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%s is not a high dynamic range image: %w", name, ErrUnsupported)
	}

	b := h.Bounds()
	env := &scene.Environment{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]float32, 0, b.Dx()*b.Dy()*3),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := h.HDRAt(x, y).HDRRGBA()
			env.Pix = append(env.Pix, float32(r), float32(g), float32(bl))
		}
	}
	return env, nil
}
