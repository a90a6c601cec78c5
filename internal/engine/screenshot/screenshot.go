// Package screenshot writes the current framebuffer to PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Capture saves screenshots into a directory with timestamped names.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time

	last  string
	count int
}

// New creates a capture handler writing "<prefix>_<timestamp>.png" into dir.
func New(dir, prefix string) *Capture {
	return &Capture{outputDir: dir, prefix: prefix, now: time.Now}
}

// Grab reads the back buffer of size width x height and saves it.
// The GL context must be current.
func (c *Capture) Grab(width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("screenshot: invalid size %dx%d", width, height)
	}
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return c.Save(pixels, width, height)
}

// Save writes bottom-up RGBA pixels, as OpenGL returns them, to a new PNG.
func (c *Capture) Save(pixels []byte, width, height int) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}

	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := c.nextFilename()

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// nextFilename appends a counter when two captures share a timestamp.
func (c *Capture) nextFilename() string {
	stamp := c.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s", c.prefix, stamp)
	if stamp == c.last {
		c.count++
		name = fmt.Sprintf("%s_%d", name, c.count)
	} else {
		c.last, c.count = stamp, 0
	}
	name += ".png"
	if c.outputDir != "" {
		name = filepath.Join(c.outputDir, name)
	}
	return name
}

// FlipRGBA copies bottom-up RGBA rows into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
