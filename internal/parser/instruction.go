package parser

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/piwi3910/blockpaint/internal/model"
)

// Instruction is one parsed program line. The set of implementations is
// closed: Nop, LineCut, PointCut, Color, Swap and Merge.
type Instruction interface {
	// Blocks returns the ids of the blocks the instruction consumes.
	Blocks() []string
	// String renders the instruction as canonical program text.
	String() string

	isInstruction()
}

// Axis selects the orientation of a line cut.
type Axis int

const (
	AxisX Axis = iota // vertical cut line at x = offset
	AxisY             // horizontal cut line at y = offset
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// ParseAxis accepts "x" or "y" in either case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return AxisX, fmt.Errorf("incorrect cut direction %q", s)
}

// Nop is a blank or comment-only line.
type Nop struct{}

// LineCut splits a block in two along Axis at Offset.
type LineCut struct {
	Block  string
	Axis   Axis
	Offset int
}

// PointCut splits a block in four around Point.
type PointCut struct {
	Block string
	Point model.Vec
}

// Color paints a block with a solid color.
type Color struct {
	Block string
	Color color.NRGBA
}

// Swap exchanges two equally sized blocks.
type Swap struct {
	A, B string
}

// Merge joins two adjacent blocks.
type Merge struct {
	A, B string
}

func (Nop) isInstruction()      {}
func (LineCut) isInstruction()  {}
func (PointCut) isInstruction() {}
func (Color) isInstruction()    {}
func (Swap) isInstruction()     {}
func (Merge) isInstruction()    {}

func (Nop) Blocks() []string        { return nil }
func (c LineCut) Blocks() []string  { return []string{c.Block} }
func (c PointCut) Blocks() []string { return []string{c.Block} }
func (c Color) Blocks() []string    { return []string{c.Block} }
func (s Swap) Blocks() []string     { return []string{s.A, s.B} }
func (m Merge) Blocks() []string    { return []string{m.A, m.B} }

func (Nop) String() string {
	return ""
}

func (c LineCut) String() string {
	return fmt.Sprintf("cut [%s] [%s] [%d]", c.Block, c.Axis, c.Offset)
}

func (c PointCut) String() string {
	return fmt.Sprintf("cut [%s] [%d, %d]", c.Block, c.Point.X, c.Point.Y)
}

func (c Color) String() string {
	return fmt.Sprintf("color [%s] [%d, %d, %d, %d]", c.Block, c.Color.R, c.Color.G, c.Color.B, c.Color.A)
}

func (s Swap) String() string {
	return fmt.Sprintf("swap [%s] [%s]", s.A, s.B)
}

func (m Merge) String() string {
	return fmt.Sprintf("merge [%s] [%s]", m.A, m.B)
}

// Opcode returns the program keyword of an instruction ("" for Nop).
func Opcode(instr Instruction) string {
	switch instr.(type) {
	case LineCut, PointCut:
		return "cut"
	case Color:
		return "color"
	case Swap:
		return "swap"
	case Merge:
		return "merge"
	}
	return ""
}

// Format renders instructions as program text, one per line.
func Format(instrs []Instruction) string {
	lines := make([]string, len(instrs))
	for i, in := range instrs {
		lines[i] = in.String()
	}
	return strings.Join(lines, "\n")
}
