package model

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Surface is the pixel store a block paints into. Rectangles passed to it are
// in surface space (rows top-down); Block performs the y flip.
type Surface interface {
	Height() int
	FillRect(r image.Rectangle, c color.NRGBA)
	ReadRegion(r image.Rectangle) []uint8
	WriteRegion(r image.Rectangle, pix []uint8)
}

// Block is a named cell of the canvas partition.
type Block struct {
	Name string `json:"name"`
	Rect
}

// NewBlock creates a block from its corners.
func NewBlock(name string, begin, end Vec) Block {
	return Block{Name: name, Rect: Rect{Begin: begin, End: end}}
}

// child returns the name of the i-th child produced by a cut.
func (b Block) child(i int) string {
	return b.Name + "." + strconv.Itoa(i)
}

// TopLevelID returns the numeric root of the block's lineage name
// ("7" for "7.0.3"). ok is false for non-numeric names.
func (b Block) TopLevelID() (id int, ok bool) {
	return TopLevelID(b.Name)
}

// TopLevelID parses the first dot-separated component of a block name.
func TopLevelID(name string) (int, bool) {
	head, _, _ := strings.Cut(name, ".")
	id, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return id, true
}

// CutX splits the block with a vertical line at x into left (.0) and
// right (.1) children.
func (b Block) CutX(x int) ([2]Block, error) {
	if x <= b.Begin.X || x >= b.End.X {
		return [2]Block{}, fmt.Errorf("%w at {X:%d} for block %s", ErrInvalidCut, x, b.Rect)
	}
	return [2]Block{
		NewBlock(b.child(0), b.Begin, Vec{X: x, Y: b.End.Y}),
		NewBlock(b.child(1), Vec{X: x, Y: b.Begin.Y}, b.End),
	}, nil
}

// CutY splits the block with a horizontal line at y into bottom (.0) and
// top (.1) children.
func (b Block) CutY(y int) ([2]Block, error) {
	if y <= b.Begin.Y || y >= b.End.Y {
		return [2]Block{}, fmt.Errorf("%w at {Y:%d} for block %s", ErrInvalidCut, y, b.Rect)
	}
	return [2]Block{
		NewBlock(b.child(0), b.Begin, Vec{X: b.End.X, Y: y}),
		NewBlock(b.child(1), Vec{X: b.Begin.X, Y: y}, b.End),
	}, nil
}

// PointCut splits the block around pt into four children ordered
// bottom-left, bottom-right, top-right, top-left. The point must lie strictly
// inside the block on both axes.
func (b Block) PointCut(pt Vec) ([4]Block, error) {
	if pt.X <= b.Begin.X || pt.X >= b.End.X || pt.Y <= b.Begin.Y || pt.Y >= b.End.Y {
		return [4]Block{}, fmt.Errorf("%w at %s for block %s", ErrInvalidCut, pt, b.Rect)
	}
	x0, y0 := b.Begin.X, b.Begin.Y
	x1, y1 := b.End.X, b.End.Y
	return [4]Block{
		NewBlock(b.child(0), Vec{X: x0, Y: y0}, Vec{X: pt.X, Y: pt.Y}),
		NewBlock(b.child(1), Vec{X: pt.X, Y: y0}, Vec{X: x1, Y: pt.Y}),
		NewBlock(b.child(2), Vec{X: pt.X, Y: pt.Y}, Vec{X: x1, Y: y1}),
		NewBlock(b.child(3), Vec{X: x0, Y: pt.Y}, Vec{X: pt.X, Y: y1}),
	}, nil
}

// Merge joins b and other into a block named newName. The two blocks must
// together form a rectangle: the bounding box area has to equal the sum of
// both areas exactly.
func (b Block) Merge(other Block, newName string) (Block, error) {
	merged := Block{Name: newName, Rect: b.Rect.Union(other.Rect)}
	if merged.Area() != b.Area()+other.Area() {
		return Block{}, fmt.Errorf("%w for blocks %s and %s", ErrInvalidMerge, b.Rect, other.Rect)
	}
	return merged, nil
}

// Swap exchanges the positions of b and other and their pixels on s.
// Both blocks must have the same width and height.
func (b *Block) Swap(s Surface, other *Block) error {
	if b.Size() != other.Size() {
		return fmt.Errorf("%w for blocks %s and %s", ErrInvalidSwap, b.Rect, other.Rect)
	}
	h := s.Height()
	mine := b.SurfaceRect(h)
	theirs := other.SurfaceRect(h)

	// read both before writing either
	minePix := s.ReadRegion(mine)
	theirPix := s.ReadRegion(theirs)
	s.WriteRegion(theirs, minePix)
	s.WriteRegion(mine, theirPix)

	b.Rect, other.Rect = other.Rect, b.Rect
	return nil
}

// Color paints the block's area on s with c, blended over what is there.
func (b Block) Color(s Surface, c color.NRGBA) {
	s.FillRect(b.SurfaceRect(s.Height()), c)
}

func (b Block) String() string {
	return fmt.Sprintf("%s %s", b.Name, b.Rect)
}
