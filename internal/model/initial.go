package model

import (
	"fmt"
	"image/color"
)

// InitialBlock describes one pre-painted block of a starting partition.
type InitialBlock struct {
	BlockID    string `json:"blockId"`
	BottomLeft [2]int `json:"bottomLeft"`
	TopRight   [2]int `json:"topRight"`
	Color      [4]int `json:"color"`
}

// Block returns the geometric block described by ib.
func (ib InitialBlock) Block() Block {
	return NewBlock(ib.BlockID,
		Vec{X: ib.BottomLeft[0], Y: ib.BottomLeft[1]},
		Vec{X: ib.TopRight[0], Y: ib.TopRight[1]})
}

// NRGBA returns the starting color of the block.
func (ib InitialBlock) NRGBA() color.NRGBA {
	return RGBA(ib.Color)
}

// InitialState is a starting partition in the contest's JSON layout.
type InitialState struct {
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	BackgroundColor *[4]int        `json:"backgroundColor,omitempty"`
	Blocks          []InitialBlock `json:"blocks"`
}

// Canvas returns the canvas size declared by the state, falling back to def
// when the state does not carry one.
func (s InitialState) Canvas(def Canvas) Canvas {
	if s.Width > 0 && s.Height > 0 {
		return Canvas{Width: s.Width, Height: s.Height}
	}
	return def
}

// Validate checks that the blocks partition the canvas: every block is a
// valid rectangle inside the canvas, ids are unique, no two blocks overlap
// and together they cover the canvas area.
func (s InitialState) Validate(c Canvas) error {
	if len(s.Blocks) == 0 {
		return fmt.Errorf("initial state has no blocks")
	}
	seen := make(map[string]bool, len(s.Blocks))
	blocks := make([]Block, 0, len(s.Blocks))
	total := 0
	for _, ib := range s.Blocks {
		b := ib.Block()
		if b.Name == "" {
			return fmt.Errorf("initial block %s has an empty id", b.Rect)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate initial block id %q", b.Name)
		}
		seen[b.Name] = true
		if !b.Valid() {
			return fmt.Errorf("initial block %q has an empty rectangle %s", b.Name, b.Rect)
		}
		if !b.Within(c.Rect()) {
			return fmt.Errorf("initial block %q %s is outside the %dx%d canvas", b.Name, b.Rect, c.Width, c.Height)
		}
		for _, ch := range ib.Color {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("initial block %q has color channel %d out of range", b.Name, ch)
			}
		}
		for _, o := range blocks {
			if b.Overlaps(o.Rect) {
				return fmt.Errorf("initial blocks %q and %q overlap", o.Name, b.Name)
			}
		}
		blocks = append(blocks, b)
		total += b.Area()
	}
	if total != c.Area() {
		return fmt.Errorf("initial blocks cover %d of %d pixels", total, c.Area())
	}
	return nil
}

// RGBA converts a four-channel integer color to color.NRGBA, clamping each
// channel to [0, 255].
func RGBA(c [4]int) color.NRGBA {
	return color.NRGBA{R: clampByte(c[0]), G: clampByte(c[1]), B: clampByte(c[2]), A: clampByte(c[3])}
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
