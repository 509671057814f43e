package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/blockpaint/internal/codegen"
	"github.com/piwi3910/blockpaint/internal/engine"
	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/piwi3910/blockpaint/internal/project"
)

// genCmd runs a program, generates a snippet against its final partition
// and prints it, or appends it to the program with -w.
func genCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	var c common
	c.register(fs)
	program := fs.String("program", "", "program to extend; empty starts from scratch")
	op := fs.String("op", "rect", "rect, merge, mean, cutx, cuty, point, swap or color")
	block := fs.String("block", "0", "block id the snippet works on")
	other := fs.String("other", "", "second block id for merge and swap")
	from := fs.String("from", "", "rect corner or cut point as x,y")
	to := fs.String("to", "", "opposite rect corner as x,y")
	at := fs.Int("at", 0, "offset for cutx and cuty")
	col := fs.String("color", "255,255,255,255", "color as r,g,b,a")
	snap := fs.Int("snap", codegen.DefaultSnap, "edge snapping distance for rect")
	write := fs.Bool("w", false, "append the snippet to the program file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, interp, err := c.setup()
	if err != nil {
		return err
	}
	code := ""
	if *program != "" {
		code, err = project.LoadProgram(*program)
		if err != nil && !(*write && errors.Is(err, os.ErrNotExist)) {
			return err
		}
	}
	initial, err := loadInitial(c.initial, cfg.Canvas())
	if err != nil {
		return err
	}
	res, err := interp.Run(initial, code)
	if err != nil {
		return err
	}
	if res.Outcome == engine.Failed {
		return fmt.Errorf("program does not run cleanly: %w", res.Err)
	}
	g := codegen.FromResult(res)

	var snippet string
	switch *op {
	case "rect":
		p0, err := parseVec(*from)
		if err != nil {
			return err
		}
		p1, err := parseVec(*to)
		if err != nil {
			return err
		}
		fill, err := parseColor(*col)
		if err != nil {
			return err
		}
		snippet, err = g.Rect(p0, p1, fill, *snap)
		if err != nil {
			return err
		}
	case "merge":
		snippet, err = g.MergeRange(*block, *other)
		if err != nil {
			return err
		}
	case "mean":
		target, err := loadTarget(c.target, res.Canvas)
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("-op mean needs -target")
		}
		snippet, err = g.ColorToMean(*block, target)
		if err != nil {
			return err
		}
	case "cutx":
		snippet = codegen.CutX(*block, *at)
	case "cuty":
		snippet = codegen.CutY(*block, *at)
	case "point":
		p, err := parseVec(*from)
		if err != nil {
			return err
		}
		snippet = codegen.CutPoint(*block, p)
	case "swap":
		snippet = codegen.SwapBlocks(*block, *other)
	case "color":
		fill, err := parseColor(*col)
		if err != nil {
			return err
		}
		snippet = codegen.ColorBlock(*block, fill)
	default:
		return fmt.Errorf("unknown -op %q", *op)
	}

	if !*write {
		fmt.Fprintln(out, snippet)
		return nil
	}
	if *program == "" {
		return fmt.Errorf("-w needs -program")
	}
	if err := writeProgram(*program, codegen.Append(code, snippet)); err != nil {
		return err
	}
	cfg.AddRecent(*program, 10)
	if err := project.SaveAppConfig(c.config, cfg); err != nil {
		engine.Logger().Warn("could not update recent solutions", "err", err)
	}
	fmt.Fprintf(out, "appended to %s\n", *program)
	return nil
}

// writeProgram stores code at path, updating the solution record in place
// for solution files.
func writeProgram(path, code string) error {
	if strings.EqualFold(filepath.Ext(path), project.SolutionExt) {
		sol, err := project.LoadSolution(path)
		if err != nil {
			sol = model.NewSolution(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), "", code)
		}
		return project.SaveSolution(path, sol.WithCode(code))
	}
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write program: %w", err)
	}
	return nil
}

// compareCmd runs every program argument from the same start and ranks them.
func compareCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("compare needs at least one program")
	}

	cfg, interp, err := c.setup()
	if err != nil {
		return err
	}
	initial, err := loadInitial(c.initial, cfg.Canvas())
	if err != nil {
		return err
	}
	target, err := loadTarget(c.target, canvasFor(initial, cfg.Canvas()))
	if err != nil {
		return err
	}

	scenarios := make([]engine.Scenario, 0, fs.NArg())
	for _, path := range fs.Args() {
		code, err := project.LoadProgram(path)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, engine.Scenario{Name: path, Program: code})
	}

	results := interp.CompareSolutions(scenarios, initial, target)
	best := engine.Best(results)
	for i, r := range results {
		mark := " "
		if i == best {
			mark = "*"
		}
		status := r.Result.Outcome.String()
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(out, "%s %-30s cost=%-8d similarity=%-8d score=%-8d %s\n",
			mark, r.Scenario.Name, r.TotalCost, r.Similarity, r.Score, status)
	}
	if best < 0 {
		return errFailed
	}
	return nil
}

// saveCmd stores a program as a solution, or lists stored solutions.
func saveCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	config := fs.String("config", project.DefaultConfigPath(), "application config file")
	program := fs.String("program", "", "program file to store")
	name := fs.String("name", "", "solution name")
	problem := fs.String("problem", "", "problem id")
	dir := fs.String("dir", "", "solutions directory")
	list := fs.Bool("list", false, "list stored solutions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := project.LoadAppConfig(*config)
	if err != nil {
		return err
	}
	if *dir == "" {
		*dir = cfg.SolutionsDir
	}
	if *dir == "" {
		*dir = project.DefaultSolutionsDir()
	}

	if *list {
		sols, errs := project.ListSolutions(*dir)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "skipped %v\n", e)
		}
		for _, s := range sols {
			fmt.Fprintf(out, "%s  %-10s %-20s %s\n", s.ID, s.ProblemID, s.Name, s.UpdatedAt)
		}
		return nil
	}

	if *program == "" {
		return fmt.Errorf("save needs -program")
	}
	code, err := project.LoadProgram(*program)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(*program), filepath.Ext(*program))
	}
	sol := model.NewSolution(*name, *problem, code)
	path, err := project.SolutionPath(*dir, sol)
	if err != nil {
		return err
	}
	if err := project.SaveSolution(path, sol); err != nil {
		return err
	}
	cfg.AddRecent(path, 10)
	if err := project.SaveAppConfig(*config, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s\n", path)
	return nil
}

// backupCmd exports the config and all stored solutions, or restores them.
func backupCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	config := fs.String("config", project.DefaultConfigPath(), "application config file")
	exportPath := fs.String("export", "", "write a backup to this file")
	restorePath := fs.String("restore", "", "restore a backup from this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := project.LoadAppConfig(*config)
	if err != nil {
		return err
	}
	dir := cfg.SolutionsDir
	if dir == "" {
		dir = project.DefaultSolutionsDir()
	}

	switch {
	case *exportPath != "":
		sols, errs := project.ListSolutions(dir)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "skipped %v\n", e)
		}
		if err := project.ExportAllData(*exportPath, cfg, sols); err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d solutions to %s\n", len(sols), *exportPath)
	case *restorePath != "":
		backup, err := project.ImportAllData(*restorePath)
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(*config, backup.Config); err != nil {
			return err
		}
		if backup.Config.SolutionsDir != "" {
			dir = backup.Config.SolutionsDir
		}
		paths, err := project.RestoreSolutions(dir, backup)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "restored config and %d solutions\n", len(paths))
	default:
		return fmt.Errorf("backup needs -export or -restore")
	}
	return nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec(s string) (model.Vec, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return model.Vec{}, err
	}
	return model.Vec{X: v[0], Y: v[1]}, nil
}

func parseColor(s string) (color.NRGBA, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return color.NRGBA{}, err
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return color.NRGBA{}, fmt.Errorf("color component %d out of range", c)
		}
	}
	return color.NRGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: uint8(v[3])}, nil
}
