// Package codegen writes program snippets for common edits: single cuts,
// swaps and colors, merging a run or grid of blocks back together, and
// isolating and painting a rectangle.
package codegen

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/piwi3910/blockpaint/internal/engine"
	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/piwi3910/blockpaint/internal/parser"
)

var (
	ErrBlockOrder = errors.New("bad block order")
	ErrNotGrid    = errors.New("blocks do not form a grid")
	ErrNoChain    = errors.New("blocks are not adjacent")
	ErrOutside    = errors.New("rectangle is not inside a single block")
)

// DefaultSnap is the distance from a block edge within which Rect moves a
// corner onto the edge.
const DefaultSnap = 10

func CutX(id string, x int) string {
	return parser.LineCut{Block: id, Axis: parser.AxisX, Offset: x}.String()
}

func CutY(id string, y int) string {
	return parser.LineCut{Block: id, Axis: parser.AxisY, Offset: y}.String()
}

func CutPoint(id string, pt model.Vec) string {
	return parser.PointCut{Block: id, Point: pt}.String()
}

func SwapBlocks(a, b string) string {
	return parser.Swap{A: a, B: b}.String()
}

func ColorBlock(id string, c color.NRGBA) string {
	return parser.Color{Block: id, Color: c}.String()
}

// Generator produces snippets that are valid against one partition, usually
// the final blocks of a run.
type Generator struct {
	Canvas model.Canvas
	blocks map[string]model.Block
	order  []model.Block
	maxID  int
}

// New creates a generator for blocks on canvas c.
func New(c model.Canvas, blocks []model.Block) *Generator {
	g := &Generator{
		Canvas: c,
		blocks: make(map[string]model.Block, len(blocks)),
		order:  make([]model.Block, len(blocks)),
		maxID:  -1,
	}
	copy(g.order, blocks)
	engine.SortBlocks(g.order)
	for _, b := range blocks {
		g.blocks[b.Name] = b
		if id, ok := b.TopLevelID(); ok && id > g.maxID {
			g.maxID = id
		}
	}
	return g
}

// FromResult creates a generator for the final partition of a run.
func FromResult(res engine.Result) *Generator {
	return New(res.Canvas, res.Blocks)
}

func (g *Generator) block(id string) (model.Block, error) {
	b, ok := g.blocks[id]
	if !ok {
		return model.Block{}, fmt.Errorf("%w %q", model.ErrUnknownBlock, id)
	}
	return b, nil
}

// ColorToMean colors a block with the mean color of its region in target.
func (g *Generator) ColorToMean(id string, target engine.Frame) (string, error) {
	b, err := g.block(id)
	if err != nil {
		return "", err
	}
	return ColorBlock(id, engine.MeanColor(target, b)), nil
}

// MergeRange merges every block from start to end back into one. Blocks in
// one column are merged upward, blocks in one row rightward. Otherwise the
// blocks must form a regular grid of start-sized cells with start at the
// bottom-left and end at the top-right; each column is merged bottom-up and
// the columns are then merged left to right.
func (g *Generator) MergeRange(startID, endID string) (string, error) {
	start, err := g.block(startID)
	if err != nil {
		return "", err
	}
	end, err := g.block(endID)
	if err != nil {
		return "", err
	}

	switch {
	case start.Begin.X == end.Begin.X && start.End.X == end.End.X && end.Begin.Y >= start.End.Y:
		return g.linearMerge(startID, endID, g.nextUp)
	case start.Begin.Y == end.Begin.Y && start.End.Y == end.End.Y && end.Begin.X >= start.End.X:
		return g.linearMerge(startID, endID, g.nextRight)
	case start.Begin.X > end.Begin.X || start.Begin.Y > end.Begin.Y:
		return "", fmt.Errorf("%w: %s must be left of and below %s", ErrBlockOrder, startID, endID)
	}
	return g.gridMerge(start, end)
}

func (g *Generator) nextUp(b model.Block) (string, bool) {
	for _, o := range g.order {
		if o.Begin.Y == b.End.Y && o.Begin.X == b.Begin.X && o.End.X == b.End.X {
			return o.Name, true
		}
	}
	return "", false
}

func (g *Generator) nextRight(b model.Block) (string, bool) {
	for _, o := range g.order {
		if o.Begin.X == b.End.X && o.Begin.Y == b.Begin.Y && o.End.Y == b.End.Y {
			return o.Name, true
		}
	}
	return "", false
}

func (g *Generator) linearMerge(startID, endID string, next func(model.Block) (string, bool)) (string, error) {
	var cmds []string
	cur := startID
	curBlock := g.blocks[startID]
	for {
		nextID, ok := next(curBlock)
		if !ok {
			return "", fmt.Errorf("%w: nothing follows %s towards %s", ErrNoChain, curBlock.Name, endID)
		}
		cmds = append(cmds, parser.Merge{A: cur, B: nextID}.String())
		cur = strconv.Itoa(g.maxID + len(cmds))
		curBlock = g.blocks[nextID]
		if nextID == endID {
			break
		}
	}
	return strings.Join(cmds, "\n"), nil
}

func (g *Generator) gridMerge(start, end model.Block) (string, error) {
	step := start.Size()
	span := end.End.Sub(start.Begin)
	if span.X%step.X != 0 || span.Y%step.Y != 0 {
		return "", fmt.Errorf("%w: %s is not a multiple of %s", ErrNotGrid, span, step)
	}
	cols, rows := span.X/step.X, span.Y/step.Y

	byRect := make(map[model.Rect]string, len(g.blocks))
	for _, b := range g.order {
		byRect[b.Rect] = b.Name
	}

	var cmds []string
	merged := make([]string, cols)
	for xi := 0; xi < cols; xi++ {
		var last string
		for yi := 0; yi < rows; yi++ {
			begin := start.Begin.Add(model.Vec{X: xi * step.X, Y: yi * step.Y})
			name, ok := byRect[model.Rect{Begin: begin, End: begin.Add(step)}]
			if !ok {
				return "", fmt.Errorf("%w: no block at %s", ErrNotGrid, begin)
			}
			if yi == 0 {
				last = name
				continue
			}
			cmds = append(cmds, parser.Merge{A: last, B: name}.String())
			last = strconv.Itoa(g.maxID + len(cmds))
		}
		merged[xi] = last
	}

	last := merged[0]
	for _, name := range merged[1:] {
		cmds = append(cmds, parser.Merge{A: last, B: name}.String())
		last = strconv.Itoa(g.maxID + len(cmds))
	}
	return strings.Join(cmds, "\n"), nil
}

// Rect isolates the rectangle spanned by from and to, paints it c and merges
// the pieces back into one block. Corners within snap pixels of the
// enclosing block's edges move onto them, avoiding thin slivers.
func (g *Generator) Rect(from, to model.Vec, c color.NRGBA, snap int) (string, error) {
	r := model.NewRect(min(from.X, to.X), min(from.Y, to.Y), max(from.X, to.X), max(from.Y, to.Y))

	var outer model.Block
	found := false
	for _, b := range g.order {
		if r.Within(b.Rect) {
			outer, found = b, true
			break
		}
	}
	if !found || !r.Valid() {
		return "", fmt.Errorf("%w: %s", ErrOutside, r)
	}

	if r.Begin.X-outer.Begin.X < snap {
		r.Begin.X = outer.Begin.X
	}
	if r.Begin.Y-outer.Begin.Y < snap {
		r.Begin.Y = outer.Begin.Y
	}
	if outer.End.X-r.End.X < snap {
		r.End.X = outer.End.X
	}
	if outer.End.Y-r.End.Y < snap {
		r.End.Y = outer.End.Y
	}

	cmds := []string{fmt.Sprintf("# rect %s", r)}
	cut := func(id string, axis parser.Axis, at int) (string, string) {
		cmds = append(cmds, parser.LineCut{Block: id, Axis: axis, Offset: at}.String())
		return id + ".0", id + ".1"
	}

	// pieces cut away, in the order they are merged back
	var below, left, above, right string
	cur := outer.Name
	if r.Begin.Y > outer.Begin.Y {
		below, cur = cut(cur, parser.AxisY, r.Begin.Y)
	}
	if r.Begin.X > outer.Begin.X {
		left, cur = cut(cur, parser.AxisX, r.Begin.X)
	}
	if r.End.Y < outer.End.Y {
		cur, above = cut(cur, parser.AxisY, r.End.Y)
	}
	if r.End.X < outer.End.X {
		cur, right = cut(cur, parser.AxisX, r.End.X)
	}

	cmds = append(cmds, ColorBlock(cur, c))

	id := g.maxID
	for _, piece := range []string{right, above, left, below} {
		if piece == "" {
			continue
		}
		cmds = append(cmds, parser.Merge{A: cur, B: piece}.String())
		id++
		cur = strconv.Itoa(id)
	}
	return strings.Join(cmds, "\n"), nil
}

// Append adds a snippet to the end of a program on its own line.
func Append(program, snippet string) string {
	if program == "" || strings.HasSuffix(program, "\n") {
		return program + snippet
	}
	return program + "\n" + snippet
}
