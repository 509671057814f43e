// Package canvas provides the raster surface block programs paint on.
//
// A Surface is a fixed-size NRGBA pixel buffer addressed top-down. Puzzle
// coordinates grow bottom-up; converting between the two is the caller's job.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Surface is an in-memory RGBA pixel buffer.
type Surface struct {
	img *image.NRGBA
}

// New creates a transparent surface of the given size.
func New(width, height int) *Surface {
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// FromImage copies img into a new surface with its origin at (0, 0).
func FromImage(img image.Image) *Surface {
	b := img.Bounds()
	s := New(b.Dx(), b.Dy())
	draw.Draw(s.img, s.img.Bounds(), img, b.Min, draw.Src)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Pix returns the raw pixel buffer, 4 bytes per pixel, rows top-down.
// The slice aliases the surface.
func (s *Surface) Pix() []uint8 {
	return s.img.Pix
}

// Image returns the underlying image. It aliases the surface.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

// Clone returns an independent copy of the surface.
func (s *Surface) Clone() *Surface {
	c := New(s.Width(), s.Height())
	copy(c.img.Pix, s.img.Pix)
	return c
}

// Clear overwrites every pixel with c.
func (s *Surface) Clear(c color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect blends c over the pixels in r (source-over), clipped to the
// surface.
func (s *Surface) FillRect(r image.Rectangle, c color.NRGBA) {
	draw.Draw(s.img, r.Intersect(s.img.Rect), image.NewUniform(c), image.Point{}, draw.Over)
}

// ReadPixel returns the pixel at (x, y). Out-of-range reads return
// transparent black.
func (s *Surface) ReadPixel(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return color.NRGBA{}
	}
	return s.img.NRGBAAt(x, y)
}

// ReadRegion copies the pixels in r into a new tightly packed buffer of
// r.Dx()*r.Dy()*4 bytes. Pixels of r outside the surface read as zero.
func (s *Surface) ReadRegion(r image.Rectangle) []uint8 {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]uint8, w*h*4)
	clip := r.Intersect(s.img.Rect)
	if clip.Empty() {
		return out
	}
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		src := s.img.PixOffset(clip.Min.X, y)
		dst := ((y-r.Min.Y)*w + (clip.Min.X - r.Min.X)) * 4
		copy(out[dst:dst+clip.Dx()*4], s.img.Pix[src:src+clip.Dx()*4])
	}
	return out
}

// WriteRegion stores a buffer produced by ReadRegion (same dimensions as r)
// back into r, replacing the pixels there. Parts of r outside the surface
// are dropped.
func (s *Surface) WriteRegion(r image.Rectangle, pix []uint8) {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return
	}
	clip := r.Intersect(s.img.Rect)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		dst := s.img.PixOffset(clip.Min.X, y)
		src := ((y-r.Min.Y)*w + (clip.Min.X - r.Min.X)) * 4
		copy(s.img.Pix[dst:dst+clip.Dx()*4], pix[src:src+clip.Dx()*4])
	}
}

// Scaled returns a nearest-neighbour enlargement of the surface by factor.
// Factors below 2 return a plain copy.
func (s *Surface) Scaled(factor int) *image.NRGBA {
	if factor < 2 {
		return s.Clone().img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, s.Width()*factor, s.Height()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Src, nil)
	return dst
}

// EncodePNG writes the surface as a PNG image.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// SavePNG writes the surface to a PNG file, enlarged by scale.
func (s *Surface) SavePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, s.Scaled(scale)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}
