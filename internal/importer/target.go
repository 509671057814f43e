package importer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/piwi3910/blockpaint/internal/canvas"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadTarget decodes a target image (PNG, JPEG, BMP, TIFF or WebP) into a
// surface that can be scored against.
func LoadTarget(path string) (*canvas.Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode target image %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("target image %s (%s) is empty", path, format)
	}
	return canvas.FromImage(img), nil
}
