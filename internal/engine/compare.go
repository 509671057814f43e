package engine

import (
	"github.com/piwi3910/blockpaint/internal/model"
)

// Scenario is a named candidate program.
type Scenario struct {
	Name    string
	Program string
}

// ComparisonResult holds the run of a single scenario and its statistics.
type ComparisonResult struct {
	Scenario     Scenario
	Result       Result
	Err          error // initial state rejected, frame size mismatch
	Instructions int
	TotalCost    int
	Similarity   int // -1 without a target
	Score        int // -1 without a target
	FailedLine   int // -1 on success
}

// Succeeded reports whether the scenario ran to completion.
func (c ComparisonResult) Succeeded() bool {
	return c.Err == nil && c.Result.Outcome == Success
}

// CompareSolutions runs every scenario from the same initial state and
// scores it against target, which may be nil. Results keep scenario order.
func (in *Interpreter) CompareSolutions(scenarios []Scenario, initial *model.InitialState, target Frame) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		cr := ComparisonResult{Scenario: scenario, Similarity: -1, Score: -1, FailedLine: -1}

		res, err := in.Run(initial, scenario.Program)
		if err != nil {
			cr.Err = err
			results = append(results, cr)
			continue
		}
		cr.Result = res
		cr.Instructions = len(res.ActionsCost)
		cr.TotalCost = res.TotalCost()
		if res.Err != nil {
			cr.FailedLine = res.Err.Line
		}

		if target != nil {
			diff, err := ImageDifference(res.Surface, target)
			if err != nil {
				cr.Err = err
			} else {
				cr.Similarity = diff
				cr.Score = cr.TotalCost + diff
			}
		}
		Logger().Info("scenario compared", "name", scenario.Name, "cost", cr.TotalCost, "score", cr.Score)
		results = append(results, cr)
	}

	return results
}

// Best returns the index of the successful result with the lowest score,
// or the lowest total cost when no target was given. It returns -1 when no
// scenario succeeded.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if !r.Succeeded() {
			continue
		}
		if best < 0 || rank(r) < rank(results[best]) {
			best = i
		}
	}
	return best
}

func rank(r ComparisonResult) int {
	if r.Score >= 0 {
		return r.Score
	}
	return r.TotalCost
}
