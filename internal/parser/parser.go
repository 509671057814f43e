// Package parser turns block program text into instructions.
//
// One instruction per line; everything after '#' is a comment:
//
//	cut   [id] [x|y] [offset]
//	cut   [id] [x, y]
//	color [id] [r, g, b, a]
//	swap  [id1] [id2]
//	merge [id1] [id2]
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/piwi3910/blockpaint/internal/model"
)

// statement is the raw AST of one program line.
type statement struct {
	Op   string   `@Ident`
	Args []*group `@@*`
}

// group is one bracketed argument list: [a, b, ...]
type group struct {
	Atoms []*atom `"[" ( @@ ( "," @@ )* )? "]"`
}

type atom struct {
	Number *string `  @Number`
	Word   *string `| @Ident`
}

func (a *atom) text() string {
	if a.Number != nil {
		return *a.Number
	}
	return *a.Word
}

var instructionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	// block ids ("0.1.3") share the numeric shape
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[\[\],]`},
})

var grammar = participle.MustBuild[statement](
	participle.Lexer(instructionLexer),
	participle.Elide("Whitespace"),
)

// Lines splits program text into lines. Line i of the result is line i of
// the program; a trailing newline yields a final empty line.
func Lines(program string) []string {
	lines := strings.Split(program, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// StripComment removes a trailing '#' comment and surrounding whitespace.
func StripComment(line string) string {
	code, _, _ := strings.Cut(line, "#")
	return strings.TrimSpace(code)
}

// Parse converts one program line into an instruction. Blank and
// comment-only lines yield Nop. Any other line that does not match the
// grammar fails with model.ErrUnrecognizedInstruction.
func Parse(line string) (Instruction, error) {
	code := StripComment(line)
	if code == "" {
		return Nop{}, nil
	}
	st, err := grammar.ParseString("", code)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", model.ErrUnrecognizedInstruction, code, err)
	}
	instr, err := lower(st)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", model.ErrUnrecognizedInstruction, code, err)
	}
	return instr, nil
}

// ParseProgram parses every line of a program, stopping at the first error.
// The returned error names the 0-based line.
func ParseProgram(program string) ([]Instruction, error) {
	lines := Lines(program)
	out := make([]Instruction, 0, len(lines))
	for i, l := range lines {
		instr, err := Parse(l)
		if err != nil {
			return out, fmt.Errorf("line %d: %w", i, err)
		}
		out = append(out, instr)
	}
	return out, nil
}

// ReferencedBlocks returns the ids of the blocks a line touches. For cuts it
// also lists the four possible child ids, so callers can highlight whatever
// the cut produced. Unparseable lines reference nothing.
func ReferencedBlocks(line string) []string {
	instr, err := Parse(line)
	if err != nil {
		return nil
	}
	ids := instr.Blocks()
	switch instr.(type) {
	case LineCut, PointCut:
		parent := ids[0]
		for i := 0; i < 4; i++ {
			ids = append(ids, parent+"."+strconv.Itoa(i))
		}
	}
	return ids
}

// lower maps the generic statement onto a concrete instruction, checking
// argument shapes.
func lower(st *statement) (Instruction, error) {
	if len(st.Args) == 0 {
		return nil, fmt.Errorf("missing block id")
	}
	id, err := single(st.Args[0], "block id")
	if err != nil {
		return nil, err
	}
	args := st.Args[1:]

	switch st.Op {
	case "cut":
		switch len(args) {
		case 1:
			nums, err := ints(args[0], 2)
			if err != nil {
				return nil, fmt.Errorf("point: %w", err)
			}
			return PointCut{Block: id, Point: model.Vec{X: nums[0], Y: nums[1]}}, nil
		case 2:
			dir, err := single(args[0], "cut direction")
			if err != nil {
				return nil, err
			}
			axis, err := ParseAxis(dir)
			if err != nil {
				return nil, err
			}
			nums, err := ints(args[1], 1)
			if err != nil {
				return nil, fmt.Errorf("offset: %w", err)
			}
			return LineCut{Block: id, Axis: axis, Offset: nums[0]}, nil
		default:
			return nil, fmt.Errorf("cut takes 2 or 3 arguments, got %d", len(args)+1)
		}

	case "color":
		if len(args) != 1 {
			return nil, fmt.Errorf("color takes 2 arguments, got %d", len(args)+1)
		}
		nums, err := ints(args[0], 4)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		var c [4]int
		for i, v := range nums {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("color channel %d out of range", v)
			}
			c[i] = v
		}
		return Color{Block: id, Color: model.RGBA(c)}, nil

	case "swap", "merge":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes 2 arguments, got %d", st.Op, len(args)+1)
		}
		other, err := single(args[0], "block id")
		if err != nil {
			return nil, err
		}
		if st.Op == "swap" {
			return Swap{A: id, B: other}, nil
		}
		return Merge{A: id, B: other}, nil
	}
	return nil, fmt.Errorf("unknown opcode %q", st.Op)
}

// single returns the only atom of a group.
func single(g *group, what string) (string, error) {
	if len(g.Atoms) != 1 {
		return "", fmt.Errorf("expected a single %s, got %d values", what, len(g.Atoms))
	}
	return g.Atoms[0].text(), nil
}

// ints parses exactly n integers from a group.
func ints(g *group, n int) ([]int, error) {
	if len(g.Atoms) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(g.Atoms))
	}
	out := make([]int, n)
	for i, a := range g.Atoms {
		if a.Number == nil {
			return nil, fmt.Errorf("expected a number, got %q", a.text())
		}
		v, err := strconv.Atoi(*a.Number)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", *a.Number)
		}
		out[i] = v
	}
	return out, nil
}
