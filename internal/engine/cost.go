package engine

import "math"

// BaseCost is the per-opcode cost multiplier.
type BaseCost int

const (
	LineCutCost  BaseCost = 7
	PointCutCost BaseCost = 10
	ColorCost    BaseCost = 5
	SwapCost     BaseCost = 3
	MergeCost    BaseCost = 1
)

// ActionCost returns round(base * canvasArea / blockArea): operations on
// small blocks are expensive, operations on large ones cheap.
func ActionCost(base BaseCost, canvasArea, blockArea int) int {
	if blockArea <= 0 {
		return 0
	}
	return int(math.Round(float64(base) * float64(canvasArea) / float64(blockArea)))
}
