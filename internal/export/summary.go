package export

import (
	"sort"

	"github.com/piwi3910/blockpaint/internal/engine"
	"github.com/piwi3910/blockpaint/internal/parser"
)

// Report is everything the exporters know about one run.
type Report struct {
	Title      string
	Lines      []string // program lines, as run
	Result     engine.Result
	Similarity int // -1 when no target was scored
}

// NewReport bundles a run with its program. similarity is -1 without a
// target.
func NewReport(title, program string, res engine.Result, similarity int) Report {
	return Report{Title: title, Lines: parser.Lines(program), Result: res, Similarity: similarity}
}

// ReportFor builds a report, scoring the run against target when one is
// given.
func ReportFor(title, program string, res engine.Result, target engine.Frame) Report {
	similarity := -1
	if target != nil && res.Surface != nil {
		if d, err := engine.ImageDifference(res.Surface, target); err == nil {
			similarity = d
		}
	}
	return NewReport(title, program, res, similarity)
}

// Score returns total cost plus similarity, or -1 without a target.
func (r Report) Score() int {
	if r.Similarity < 0 {
		return -1
	}
	return r.Result.TotalCost() + r.Similarity
}

// ScoreSummary is the machine-readable digest of a run, encoded into the
// report QR code.
type ScoreSummary struct {
	Title        string `json:"title,omitempty"`
	Outcome      string `json:"outcome"`
	Instructions int    `json:"instructions"`
	Blocks       int    `json:"blocks"`
	TotalCost    int    `json:"total_cost"`
	Similarity   int    `json:"similarity"`
	Score        int    `json:"score"`
	FailedLine   int    `json:"failed_line"`
}

// Summary returns the digest of the report.
func (r Report) Summary() ScoreSummary {
	s := ScoreSummary{
		Title:        r.Title,
		Outcome:      r.Result.Outcome.String(),
		Instructions: len(r.Result.ActionsCost),
		Blocks:       len(r.Result.Blocks),
		TotalCost:    r.Result.TotalCost(),
		Similarity:   r.Similarity,
		Score:        r.Score(),
		FailedLine:   -1,
	}
	if r.Result.Err != nil {
		s.FailedLine = r.Result.Err.Line
	}
	return s
}

// OpcodeCost aggregates the cost of one opcode over a program.
type OpcodeCost struct {
	Opcode string
	Count  int
	Cost   int
}

// LineCost is the cost of one executed program line.
type LineCost struct {
	Line int
	Text string
	Cost int
}

// CostByOpcode groups the executed lines by opcode, in program keyword
// order. Blank and comment lines are left out.
func CostByOpcode(lines []string, costs []int) []OpcodeCost {
	totals := map[string]*OpcodeCost{}
	for i, c := range costs {
		if i >= len(lines) {
			break
		}
		instr, err := parser.Parse(lines[i])
		if err != nil {
			continue
		}
		op := parser.Opcode(instr)
		if op == "" {
			continue
		}
		if totals[op] == nil {
			totals[op] = &OpcodeCost{Opcode: op}
		}
		totals[op].Count++
		totals[op].Cost += c
	}

	var out []OpcodeCost
	for _, op := range []string{"cut", "color", "swap", "merge"} {
		if t := totals[op]; t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// MostExpensive returns up to n executed lines ordered by descending cost,
// ties broken by line number.
func MostExpensive(lines []string, costs []int, n int) []LineCost {
	out := make([]LineCost, 0, len(costs))
	for i, c := range costs {
		if c == 0 || i >= len(lines) {
			continue
		}
		out = append(out, LineCost{Line: i, Text: parser.StripComment(lines[i]), Cost: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost > out[j].Cost
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
