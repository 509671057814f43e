package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/blockpaint/internal/engine"
	"github.com/piwi3910/blockpaint/internal/importer"
	"github.com/piwi3910/blockpaint/internal/model"
)

// loadInitial reads a starting partition, choosing the importer by file
// extension. An empty path means the default single-block canvas.
func loadInitial(path string, def model.Canvas) (*model.InitialState, error) {
	if path == "" {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return importer.LoadInitialState(path)
	}

	var res importer.ImportResult
	switch ext {
	case ".csv", ".tsv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx":
		res = importer.ImportExcel(path)
	case ".dxf":
		res = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported partition format %q", ext)
	}
	for _, w := range res.Warnings {
		engine.Logger().Warn("import", "file", path, "warning", w)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("failed to import %s: %s", path, strings.Join(res.Errors, "; "))
	}
	return res.InitialState(def), nil
}

// loadTarget reads the target image, checking it matches the canvas. It
// returns an untyped nil Frame when path is empty so callers can compare
// against nil.
func loadTarget(path string, c model.Canvas) (engine.Frame, error) {
	if path == "" {
		return nil, nil
	}
	s, err := importer.LoadTarget(path)
	if err != nil {
		return nil, err
	}
	if s.Width() != c.Width || s.Height() != c.Height {
		return nil, fmt.Errorf("target %s is %dx%d, canvas is %dx%d: %w",
			path, s.Width(), s.Height(), c.Width, c.Height, engine.ErrFrameSize)
	}
	return s, nil
}

// canvasFor returns the canvas a run on initial will use.
func canvasFor(initial *model.InitialState, def model.Canvas) model.Canvas {
	if initial == nil {
		return def
	}
	return initial.Canvas(def)
}
