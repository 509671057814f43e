package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestNew_IsTransparent(t *testing.T) {
	s := New(4, 3)
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 3, s.Height())
	assert.Len(t, s.Pix(), 4*3*4)
	for _, b := range s.Pix() {
		require.Zero(t, b)
	}
}

func TestFillRect_OpaqueReplaces(t *testing.T) {
	s := New(10, 10)
	s.Clear(white)
	s.FillRect(image.Rect(2, 2, 5, 5), red)

	assert.Equal(t, red, s.ReadPixel(2, 2))
	assert.Equal(t, red, s.ReadPixel(4, 4))
	assert.Equal(t, white, s.ReadPixel(5, 5), "max edge is exclusive")
	assert.Equal(t, white, s.ReadPixel(1, 2))
}

func TestFillRect_TranslucentBlends(t *testing.T) {
	s := New(2, 2)
	s.Clear(white)
	s.FillRect(s.Image().Bounds(), color.NRGBA{A: 128})

	p := s.ReadPixel(0, 0)
	assert.Equal(t, uint8(255), p.A)
	assert.InDelta(t, 127, int(p.R), 1)
	assert.Equal(t, p.R, p.G)
	assert.Equal(t, p.R, p.B)
}

func TestFillRect_ClipsToSurface(t *testing.T) {
	s := New(4, 4)
	assert.NotPanics(t, func() {
		s.FillRect(image.Rect(-5, -5, 100, 100), red)
	})
	assert.Equal(t, red, s.ReadPixel(0, 0))
	assert.Equal(t, red, s.ReadPixel(3, 3))
}

func TestReadPixel_OutOfRange(t *testing.T) {
	s := New(2, 2)
	s.Clear(red)
	assert.Equal(t, color.NRGBA{}, s.ReadPixel(-1, 0))
	assert.Equal(t, color.NRGBA{}, s.ReadPixel(2, 0))
}

func TestReadWriteRegion_RoundTrip(t *testing.T) {
	s := New(8, 8)
	s.Clear(white)
	s.FillRect(image.Rect(0, 0, 2, 2), red)

	pix := s.ReadRegion(image.Rect(0, 0, 2, 2))
	require.Len(t, pix, 2*2*4)

	s.WriteRegion(image.Rect(6, 6, 8, 8), pix)
	assert.Equal(t, red, s.ReadPixel(6, 6))
	assert.Equal(t, red, s.ReadPixel(7, 7))
	assert.Equal(t, white, s.ReadPixel(5, 5))
}

func TestReadRegion_IsACopy(t *testing.T) {
	s := New(2, 2)
	s.Clear(red)
	pix := s.ReadRegion(image.Rect(0, 0, 2, 2))
	s.Clear(blue)
	assert.Equal(t, uint8(255), pix[0], "region must not alias the surface")
}

func TestReadRegion_Empty(t *testing.T) {
	s := New(2, 2)
	assert.Nil(t, s.ReadRegion(image.Rect(1, 1, 1, 2)))
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.Set(10, 10, red)

	s := FromImage(src)
	assert.Equal(t, 3, s.Width())
	assert.Equal(t, 2, s.Height())
	assert.Equal(t, red, s.ReadPixel(0, 0))
}

func TestClone_Independent(t *testing.T) {
	s := New(2, 2)
	s.Clear(red)
	c := s.Clone()
	s.Clear(blue)
	assert.Equal(t, red, c.ReadPixel(0, 0))
}

func TestScaled(t *testing.T) {
	s := New(2, 1)
	s.FillRect(image.Rect(0, 0, 1, 1), red)
	s.FillRect(image.Rect(1, 0, 2, 1), blue)

	big := s.Scaled(3)
	assert.Equal(t, image.Rect(0, 0, 6, 3), big.Bounds())
	assert.Equal(t, red, big.NRGBAAt(2, 2))
	assert.Equal(t, blue, big.NRGBAAt(3, 0))

	same := s.Scaled(1)
	assert.Equal(t, image.Rect(0, 0, 2, 1), same.Bounds())
}

func TestEncodeAndSavePNG(t *testing.T) {
	s := New(3, 3)
	s.Clear(red)

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, s.SavePNG(path, 2))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}
