package engine

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/piwi3910/blockpaint/internal/model"
)

// Alpha scales the summed pixel distance into score units.
const Alpha = 0.005

// ErrFrameSize is returned when two frames being compared differ in size.
var ErrFrameSize = errors.New("frame sizes differ")

// Frame is a read-only RGBA pixel buffer, top-down rows, 4 bytes per pixel.
// *canvas.Surface implements it.
type Frame interface {
	Width() int
	Height() int
	Pix() []uint8
}

func sameSize(a, b Frame) error {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrFrameSize, a.Width(), a.Height(), b.Width(), b.Height())
	}
	return nil
}

func pixelDistance(a, b []uint8, i int) float64 {
	var sum float64
	for c := 0; c < 4; c++ {
		d := float64(a[i+c]) - float64(b[i+c])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ImageDifference returns the whole-frame distance between a and b: the sum
// of the per-pixel Euclidean RGBA distance, scaled by Alpha and rounded.
func ImageDifference(a, b Frame) (int, error) {
	if err := sameSize(a, b); err != nil {
		return 0, err
	}
	pa, pb := a.Pix(), b.Pix()
	n := a.Width() * a.Height() * 4
	var total float64
	for i := 0; i < n; i += 4 {
		total += pixelDistance(pa, pb, i)
	}
	return int(math.Round(total * Alpha)), nil
}

// BlockDifference is ImageDifference restricted to one block. The block is
// in puzzle coordinates; rows are flipped to address the frame.
func BlockDifference(a, b Frame, block model.Block) (int, error) {
	if err := sameSize(a, b); err != nil {
		return 0, err
	}
	w, h := a.Width(), a.Height()
	pa, pb := a.Pix(), b.Pix()
	var total float64
	for y := max(block.Begin.Y, 0); y < min(block.End.Y, h); y++ {
		invY := h - (y + 1)
		for x := max(block.Begin.X, 0); x < min(block.End.X, w); x++ {
			total += pixelDistance(pa, pb, (x+invY*w)*4)
		}
	}
	return int(math.Round(total * Alpha)), nil
}

// Score is the contest score of a run against a target: total action cost
// plus image difference. Lower is better.
func Score(res Result, target Frame) (int, error) {
	if res.Surface == nil {
		return 0, errors.New("result has no surface")
	}
	diff, err := ImageDifference(res.Surface, target)
	if err != nil {
		return 0, err
	}
	return res.TotalCost() + diff, nil
}

// MeanColor returns the channel-wise mean color of a block's region in f.
func MeanColor(f Frame, block model.Block) color.NRGBA {
	w, h := f.Width(), f.Height()
	pix := f.Pix()
	var sum [4]int
	n := 0
	for y := max(block.Begin.Y, 0); y < min(block.End.Y, h); y++ {
		invY := h - (y + 1)
		for x := max(block.Begin.X, 0); x < min(block.End.X, w); x++ {
			i := (x + invY*w) * 4
			for c := 0; c < 4; c++ {
				sum[c] += int(pix[i+c])
			}
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{}
	}
	round := func(v int) uint8 {
		return uint8((v + n/2) / n)
	}
	return color.NRGBA{R: round(sum[0]), G: round(sum[1]), B: round(sum[2]), A: round(sum[3])}
}
