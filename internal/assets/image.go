package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Faultbox/animscene/internal/scene"
)

// imageCodec pairs a file signature with its decoder. Formats are matched
// here instead of through image.Decode: tga registers an empty magic string
// that would claim every input.
type imageCodec struct {
	name   string
	match  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
}

var imageCodecs = []imageCodec{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"tiff", func(b []byte) bool { return prefix("II*\x00")(b) || prefix("MM\x00*")(b) }, tiff.Decode},
	{"webp", func(b []byte) bool { return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP" }, webp.Decode},
}

func prefix(magic string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(magic)) }
}

// LoadTexture decodes a colour texture. TGA has no magic number, so it is
// picked by extension; other formats are sniffed.
func (l *Loader) LoadTexture(name string) (*scene.Image, error) {
	data, err := l.src.Load(name)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(name, data)
	if err != nil {
		return nil, err
	}
	return scene.NewImage(path.Base(name), img), nil
}

func decodeImage(name string, data []byte) (image.Image, error) {
	codec, ok := sniffImage(name, data)
	if !ok {
		return nil, fmt.Errorf("decoding image %s: %w", path.Base(name), ErrUnsupported)
	}
	img, err := codec.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", codec.name, err)
	}
	return img, nil
}

func sniffImage(name string, data []byte) (imageCodec, bool) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		return imageCodec{name: "tga", decode: tga.Decode}, true
	}
	for _, c := range imageCodecs {
		if c.match(data) {
			return c, true
		}
	}
	return imageCodec{}, false
}
