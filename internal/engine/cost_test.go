package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionCost(t *testing.T) {
	const canvas = 400 * 400
	tests := []struct {
		name string
		base BaseCost
		area int
		want int
	}{
		{"color full canvas", ColorCost, canvas, 5},
		{"line cut half", LineCutCost, canvas / 2, 14},
		{"point cut quarter", PointCutCost, canvas / 4, 40},
		{"swap rounds", SwapCost, 120000, 4},
		{"merge rounds down", MergeCost, 120000, 1},
		{"merge rounds half up", MergeCost, 64000, 3},
		{"empty block", ColorCost, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionCost(tt.base, canvas, tt.area))
		})
	}
}

func TestActionCost_MonotonicInArea(t *testing.T) {
	const canvas = 400 * 400
	for _, base := range []BaseCost{LineCutCost, PointCutCost, ColorCost, SwapCost, MergeCost} {
		prev := ActionCost(base, canvas, 1)
		for area := 2; area <= canvas; area *= 3 {
			c := ActionCost(base, canvas, area)
			assert.LessOrEqual(t, c, prev, "base %d area %d", base, area)
			prev = c
		}
	}
}
