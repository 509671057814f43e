// Package engine interprets block programs: it keeps the block partition,
// paints the surface, charges each instruction and scores results against
// a target image.
package engine

import (
	"fmt"
	"image/color"

	"github.com/piwi3910/blockpaint/internal/canvas"
	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/piwi3910/blockpaint/internal/parser"
)

// Config fixes the canvas a run paints on.
type Config struct {
	Canvas     model.Canvas
	Background color.NRGBA // painted before any block color
}

// DefaultConfig returns the contest setup: a white 400x400 canvas.
func DefaultConfig() Config {
	return ConfigFromApp(model.DefaultAppConfig())
}

// ConfigFromApp derives an interpreter configuration from app preferences.
func ConfigFromApp(cfg model.AppConfig) Config {
	return Config{Canvas: cfg.Canvas(), Background: cfg.BackgroundColor()}
}

// Outcome is the terminal state of a run.
type Outcome int

const (
	Success Outcome = iota // every line executed
	Failed                 // stopped at the first failing line
)

func (o Outcome) String() string {
	if o == Failed {
		return "error"
	}
	return "success"
}

// LineError reports the instruction a run stopped at.
type LineError struct {
	Line int    // 0-based program line
	Text string // the line as written
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result is everything a run produced. On failure it holds the state after
// the last successful line.
type Result struct {
	Outcome     Outcome
	Canvas      model.Canvas
	Blocks      []model.Block // sorted by lineage name
	ActionsCost []int         // one entry per executed line
	Err         *LineError
	Surface     *canvas.Surface
}

// TotalCost sums the per-line costs.
func (r Result) TotalCost() int {
	total := 0
	for _, c := range r.ActionsCost {
		total += c
	}
	return total
}

// Block finds a block of the final partition by name.
func (r Result) Block(name string) (model.Block, bool) {
	for _, b := range r.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return model.Block{}, false
}

// Interpreter runs block programs. It keeps no state between runs, so one
// Interpreter can serve any number of them.
type Interpreter struct {
	Config Config
}

// New creates an interpreter for the given configuration.
func New(cfg Config) *Interpreter {
	return &Interpreter{Config: cfg}
}

// Run interprets the whole program starting from initial, or from a single
// root block "0" covering the canvas when initial is nil.
//
// The returned error is only set when initial is not a valid partition; a
// failing instruction ends the run with Outcome Failed and Result.Err.
func (in *Interpreter) Run(initial *model.InitialState, program string) (Result, error) {
	return in.RunLines(initial, parser.Lines(program))
}

// RunUpTo interprets program lines [0, line]. This is how a preview shows
// the state at a given line.
func (in *Interpreter) RunUpTo(initial *model.InitialState, program string, line int) (Result, error) {
	lines := parser.Lines(program)
	switch {
	case line < 0:
		lines = nil
	case line+1 < len(lines):
		lines = lines[:line+1]
	}
	return in.RunLines(initial, lines)
}

// RunLines interprets pre-split program lines.
func (in *Interpreter) RunLines(initial *model.InitialState, lines []string) (Result, error) {
	st, err := in.newState(initial)
	if err != nil {
		return Result{}, err
	}
	log := Logger()

	for i, line := range lines {
		cost, err := st.execLine(line)
		if err != nil {
			lerr := &LineError{Line: i, Text: line, Err: err}
			log.Warn("instruction failed", "line", i, "text", line, "err", err)
			return st.result(Failed, lerr), nil
		}
		st.costs = append(st.costs, cost)
		log.Debug("instruction", "line", i, "text", line, "cost", cost, "blocks", st.registry.Len())
	}

	res := st.result(Success, nil)
	log.Info("program finished", "lines", len(lines), "blocks", len(res.Blocks), "cost", res.TotalCost())
	return res, nil
}

// state is the mutable part of one run.
type state struct {
	canvas   model.Canvas
	registry *Registry
	surface  *canvas.Surface
	costs    []int
}

func (in *Interpreter) newState(initial *model.InitialState) (*state, error) {
	cv := in.Config.Canvas
	if !cv.Valid() {
		cv = model.DefaultCanvas
	}
	bg := in.Config.Background

	if initial == nil {
		reg, _ := NewRegistry(model.Block{Name: "0", Rect: cv.Rect()})
		surf := canvas.New(cv.Width, cv.Height)
		surf.Clear(bg)
		return &state{canvas: cv, registry: reg, surface: surf, costs: []int{}}, nil
	}

	cv = initial.Canvas(cv)
	if err := initial.Validate(cv); err != nil {
		return nil, fmt.Errorf("invalid initial state: %w", err)
	}
	if initial.BackgroundColor != nil {
		bg = model.RGBA(*initial.BackgroundColor)
	}

	surf := canvas.New(cv.Width, cv.Height)
	surf.Clear(bg)
	blocks := make([]model.Block, len(initial.Blocks))
	for i, ib := range initial.Blocks {
		blocks[i] = ib.Block()
		blocks[i].Color(surf, ib.NRGBA())
	}
	reg, err := NewRegistry(blocks...)
	if err != nil {
		return nil, fmt.Errorf("invalid initial state: %w", err)
	}
	return &state{canvas: cv, registry: reg, surface: surf, costs: []int{}}, nil
}

func (s *state) result(o Outcome, err *LineError) Result {
	return Result{
		Outcome:     o,
		Canvas:      s.canvas,
		Blocks:      s.registry.Blocks(),
		ActionsCost: s.costs,
		Err:         err,
		Surface:     s.surface,
	}
}

func (s *state) execLine(line string) (int, error) {
	instr, err := parser.Parse(line)
	if err != nil {
		return 0, err
	}
	return s.exec(instr)
}

// exec applies one instruction and returns its cost. Every check happens
// before the registry or surface is touched, so a failed instruction leaves
// the state unchanged.
func (s *state) exec(instr parser.Instruction) (int, error) {
	reg := s.registry
	area := s.canvas.Area()

	switch in := instr.(type) {
	case parser.Nop:
		return 0, nil

	case parser.LineCut:
		h, err := reg.resolve(in.Block)
		if err != nil {
			return 0, err
		}
		b := *reg.at(h)
		var parts [2]model.Block
		if in.Axis == parser.AxisX {
			parts, err = b.CutX(in.Offset)
		} else {
			parts, err = b.CutY(in.Offset)
		}
		if err != nil {
			return 0, err
		}
		reg.remove(h)
		for _, p := range parts {
			reg.insert(p)
		}
		return ActionCost(LineCutCost, area, b.Area()), nil

	case parser.PointCut:
		h, err := reg.resolve(in.Block)
		if err != nil {
			return 0, err
		}
		b := *reg.at(h)
		parts, err := b.PointCut(in.Point)
		if err != nil {
			return 0, err
		}
		reg.remove(h)
		for _, p := range parts {
			reg.insert(p)
		}
		return ActionCost(PointCutCost, area, b.Area()), nil

	case parser.Color:
		h, err := reg.resolve(in.Block)
		if err != nil {
			return 0, err
		}
		b := reg.at(h)
		b.Color(s.surface, in.Color)
		return ActionCost(ColorCost, area, b.Area()), nil

	case parser.Swap:
		ha, err := reg.resolve(in.A)
		if err != nil {
			return 0, err
		}
		hb, err := reg.resolve(in.B)
		if err != nil {
			return 0, err
		}
		a, b := reg.at(ha), reg.at(hb)
		if err := a.Swap(s.surface, b); err != nil {
			return 0, err
		}
		return ActionCost(SwapCost, area, a.Area()), nil

	case parser.Merge:
		ha, err := reg.resolve(in.A)
		if err != nil {
			return 0, err
		}
		hb, err := reg.resolve(in.B)
		if err != nil {
			return 0, err
		}
		a, b := *reg.at(ha), *reg.at(hb)
		merged, err := a.Merge(b, reg.nextMergeName())
		if err != nil {
			return 0, err
		}
		reg.remove(ha)
		reg.remove(hb)
		reg.insert(merged)
		return ActionCost(MergeCost, area, max(a.Area(), b.Area())), nil
	}
	return 0, fmt.Errorf("%w: %T", model.ErrUnrecognizedInstruction, instr)
}
