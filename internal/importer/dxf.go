package importer

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// skippedWarnings reports skipped entity counts ordered by entity kind.
func skippedWarnings(skipped map[string]int) []string {
	kinds := make([]string, 0, len(skipped))
	for kind := range skipped {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, fmt.Sprintf("Skipped %d %s entities", skipped[kind], kind))
	}
	return out
}

// point is a drawing-space vertex.
type point struct {
	X, Y float64
}

// segment represents a line segment between two points, used for chaining
// disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF imports blocks from a DXF file. Every closed axis-aligned
// rectangle, drawn as an LWPOLYLINE or as four connected LINEs, becomes a
// block with id 0..n-1 in file order. Corners are rounded to whole pixels.
// Other entities are skipped with a warning.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	skipped := map[string]int{}

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := make([]point, 0, len(e.Vertices))
			for _, v := range e.Vertices {
				outline = append(outline, point{X: v[0], Y: v[1]})
			}
			outlines = append(outlines, outline)

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle:
			skipped["CIRCLE"]++
		case *entity.Arc:
			skipped["ARC"]++
		default:
			skipped["other"]++
		}
	}
	result.Warnings = append(result.Warnings, skippedWarnings(skipped)...)

	outlines = append(outlines, chainSegments(segments, 0.01)...)

	var rects []model.Rect
	for _, outline := range outlines {
		r, ok := outlineRect(outline)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped shape with %d vertices that is not an axis-aligned rectangle", len(outline)))
			continue
		}
		if !r.Valid() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate rectangle %s", r))
			continue
		}
		rects = append(rects, r)
	}

	for i, r := range rects {
		if enclosesOther(r, rects, i) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped frame %s enclosing other rectangles", r))
			continue
		}
		result.Blocks = append(result.Blocks, model.InitialBlock{
			BlockID:    strconv.Itoa(len(result.Blocks)),
			BottomLeft: [2]int{r.Begin.X, r.Begin.Y},
			TopRight:   [2]int{r.End.X, r.End.Y},
			Color:      defaultColor,
		})
	}

	if len(result.Blocks) == 0 {
		result.Errors = append(result.Errors, "No rectangles found in DXF file")
	}
	return result
}

// enclosesOther reports whether r contains any other rectangle of rects,
// as a canvas frame drawn around the blocks does.
func enclosesOther(r model.Rect, rects []model.Rect, self int) bool {
	for j, o := range rects {
		if j != self && o != r && o.Within(r) {
			return true
		}
	}
	return false
}

// outlineRect returns the rectangle an outline traces, if it traces one.
// A repeated closing vertex is ignored.
func outlineRect(o []point) (model.Rect, bool) {
	if len(o) == 5 && pointsClose(o[0], o[4], 0.01) {
		o = o[:4]
	}
	if len(o) != 4 {
		return model.Rect{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, p := range o {
		onX := math.Abs(p.X-minX) < 0.01 || math.Abs(p.X-maxX) < 0.01
		onY := math.Abs(p.Y-minY) < 0.01 || math.Abs(p.Y-maxY) < 0.01
		if !onX || !onY {
			return model.Rect{}, false
		}
	}
	// consecutive vertices must share an axis, or the outline is a bow tie
	for i := range o {
		a, b := o[i], o[(i+1)%4]
		if math.Abs(a.X-b.X) >= 0.01 && math.Abs(a.Y-b.Y) >= 0.01 {
			return model.Rect{}, false
		}
	}

	round := func(v float64) int { return int(math.Round(v)) }
	return model.NewRect(round(minX), round(minY), round(maxX), round(maxY)), true
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			if len(chain) > 2 && pointsClose(tail, chain[0], tolerance) {
				break
			}

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}
