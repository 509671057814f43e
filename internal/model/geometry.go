package model

import (
	"fmt"
	"image"
)

// Vec is an integer point in puzzle space (origin bottom-left, y up).
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Y)
}

// Rect is an axis-aligned rectangle spanning [Begin, End).
type Rect struct {
	Begin Vec `json:"begin"`
	End   Vec `json:"end"`
}

// NewRect builds a rectangle from its bottom-left and top-right corners.
func NewRect(x0, y0, x1, y1 int) Rect {
	return Rect{Begin: Vec{X: x0, Y: y0}, End: Vec{X: x1, Y: y1}}
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() Vec {
	return r.End.Sub(r.Begin)
}

// Width returns End.X - Begin.X.
func (r Rect) Width() int {
	return r.End.X - r.Begin.X
}

// Height returns End.Y - Begin.Y.
func (r Rect) Height() int {
	return r.End.Y - r.Begin.Y
}

// Area returns width * height.
func (r Rect) Area() int {
	s := r.Size()
	return s.X * s.Y
}

// Valid reports whether the rectangle has positive width and height.
func (r Rect) Valid() bool {
	return r.Begin.X < r.End.X && r.Begin.Y < r.End.Y
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Begin: Vec{X: min(r.Begin.X, o.Begin.X), Y: min(r.Begin.Y, o.Begin.Y)},
		End:   Vec{X: max(r.End.X, o.End.X), Y: max(r.End.Y, o.End.Y)},
	}
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.Begin.X < o.End.X && o.Begin.X < r.End.X &&
		r.Begin.Y < o.End.Y && o.Begin.Y < r.End.Y
}

// Contains reports whether p lies inside r, counting the lower edges only.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Begin.X && p.X < r.End.X && p.Y >= r.Begin.Y && p.Y < r.End.Y
}

// Within reports whether r lies entirely inside o.
func (r Rect) Within(o Rect) bool {
	return r.Begin.X >= o.Begin.X && r.Begin.Y >= o.Begin.Y &&
		r.End.X <= o.End.X && r.End.Y <= o.End.Y
}

// SurfaceRect converts r to surface space for a canvas of the given height.
// Surface rows grow downward, so the puzzle y range [y0, y1) maps to
// [height-y1, height-y0).
func (r Rect) SurfaceRect(height int) image.Rectangle {
	return image.Rect(r.Begin.X, height-r.End.Y, r.End.X, height-r.Begin.Y)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%s, %s)", r.Begin, r.End)
}

// Canvas holds the pixel dimensions of the painting surface.
type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultCanvas is the contest canvas size.
var DefaultCanvas = Canvas{Width: 400, Height: 400}

// Area returns the total number of pixels.
func (c Canvas) Area() int {
	return c.Width * c.Height
}

// Rect returns the rectangle covering the whole canvas.
func (c Canvas) Rect() Rect {
	return NewRect(0, 0, c.Width, c.Height)
}

// Valid reports whether both dimensions are positive.
func (c Canvas) Valid() bool {
	return c.Width > 0 && c.Height > 0
}
