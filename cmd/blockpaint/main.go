// BlockPaint renders and scores block-painting programs.
//
// A program is a list of cut, color, swap and merge instructions applied to
// a canvas partitioned into rectangular blocks. The command runs a program,
// prints the cost of every line and, given a target image, the similarity
// and final score. Reports can be written as PNG, PDF, XLSX and DXF.
//
// Build:
//
//	go build -o blockpaint ./cmd/blockpaint
//
// Subcommands:
//
//	blockpaint [flags]            run a program (default)
//	blockpaint gen ...            append generated instructions to a program
//	blockpaint compare ...        run several programs and rank them
//	blockpaint save ...           store a program as a solution file
//	blockpaint backup ...         export or restore config and solutions
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/blockpaint/internal/engine"
	"github.com/piwi3910/blockpaint/internal/export"
	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/piwi3910/blockpaint/internal/project"
)

// errFailed marks a program that stopped at a failing line. The failure
// itself has already been printed.
var errFailed = errors.New("interpretation failed")

func main() {
	if err := dispatch(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

func dispatch(args []string, out io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "run":
			return runCmd(args[1:], out)
		case "gen":
			return genCmd(args[1:], out)
		case "compare":
			return compareCmd(args[1:], out)
		case "save":
			return saveCmd(args[1:], out)
		case "backup":
			return backupCmd(args[1:], out)
		}
	}
	return runCmd(args, out)
}

// common holds the flags shared by every subcommand.
type common struct {
	config  string
	initial string
	target  string
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", project.DefaultConfigPath(), "application config file")
	fs.StringVar(&c.initial, "initial", "", "starting partition (.json, .csv, .xlsx or .dxf)")
	fs.StringVar(&c.target, "target", "", "target image (.png, .jpg, .bmp, .tiff or .webp)")
	fs.BoolVar(&c.verbose, "v", false, "log every instruction")
}

// setup loads the config, installs the logger and builds the interpreter.
func (c *common) setup() (model.AppConfig, *engine.Interpreter, error) {
	cfg, err := project.LoadAppConfig(c.config)
	if err != nil {
		return cfg, nil, err
	}
	level := parseLevel(cfg.LogLevel)
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	engine.SetLogger(logger)
	return cfg, engine.New(engine.ConfigFromApp(cfg)), nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func runCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("blockpaint", flag.ContinueOnError)
	var c common
	c.register(fs)
	program := fs.String("program", "", "program file (.isl text or .bpsol solution)")
	until := fs.Int("until", -1, "run only lines 0..N")
	pngOut := fs.String("png", "", "write the final canvas as PNG")
	scale := fs.Int("scale", 1, "PNG enlargement factor")
	pdfOut := fs.String("pdf", "", "write a PDF report")
	labelsOut := fs.String("labels", "", "write a PDF label sheet, one label per block")
	xlsxOut := fs.String("xlsx", "", "write an XLSX cost workbook")
	dxfOut := fs.String("dxf", "", "write the final partition as DXF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *program == "" && fs.NArg() > 0 {
		*program = fs.Arg(0)
	}
	if *program == "" {
		return fmt.Errorf("no program given; use -program")
	}

	cfg, interp, err := c.setup()
	if err != nil {
		return err
	}
	code, err := project.LoadProgram(*program)
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

	var res engine.Result
	if *until >= 0 {
		res, err = interp.RunUpTo(initial, code, *until)
	} else {
		res, err = interp.Run(initial, code)
	}
	if err != nil {
		return err
	}

	report := export.ReportFor(strings.TrimSuffix(filepath.Base(*program), filepath.Ext(*program)), code, res, target)
	printReport(out, report)

	outputs := []struct {
		path  string
		write func(string) error
	}{
		{*pngOut, func(p string) error { return res.Surface.SavePNG(p, *scale) }},
		{*pdfOut, func(p string) error { return export.ExportPDF(p, report) }},
		{*labelsOut, func(p string) error { return export.ExportBlockLabels(p, res.Blocks) }},
		{*xlsxOut, func(p string) error { return export.ExportCostWorkbook(p, report) }},
		{*dxfOut, func(p string) error { return export.ExportDXF(p, res.Canvas, res.Blocks) }},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.write(o.path); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", o.path)
	}

	if res.Outcome == engine.Failed {
		return errFailed
	}
	return nil
}

func printReport(out io.Writer, r export.Report) {
	for i, line := range r.Lines {
		if i >= len(r.Result.ActionsCost) {
			break
		}
		fmt.Fprintf(out, "%4d %6d  %s\n", i, r.Result.ActionsCost[i], line)
	}
	fmt.Fprintf(out, "outcome: %s\n", r.Result.Outcome)
	if r.Result.Err != nil {
		fmt.Fprintf(out, "error: %v\n", r.Result.Err)
	}
	fmt.Fprintf(out, "blocks: %d\n", len(r.Result.Blocks))
	fmt.Fprintf(out, "total cost: %d\n", r.Result.TotalCost())
	if r.Similarity >= 0 {
		fmt.Fprintf(out, "similarity: %d\n", r.Similarity)
		fmt.Fprintf(out, "score: %d\n", r.Score())
	}
}
