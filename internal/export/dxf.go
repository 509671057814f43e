package export

import (
	"fmt"

	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// ExportDXF draws the partition in puzzle coordinates: one closed
// LWPOLYLINE per block on the "blocks" layer and the canvas outline on the
// "canvas" layer.
func ExportDXF(path string, c model.Canvas, blocks []model.Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("no blocks to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer("canvas", dxfcolor.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add canvas layer: %w", err)
	}
	if err := drawRect(d, c.Rect()); err != nil {
		return err
	}

	if _, err := d.AddLayer("blocks", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add blocks layer: %w", err)
	}
	for _, b := range blocks {
		if err := drawRect(d, b.Rect); err != nil {
			return fmt.Errorf("failed to draw block %s: %w", b.Name, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawRect(d *drawing.Drawing, r model.Rect) error {
	x0, y0 := float64(r.Begin.X), float64(r.Begin.Y)
	x1, y1 := float64(r.End.X), float64(r.End.Y)
	_, err := d.LwPolyline(true, []float64{x0, y0}, []float64{x1, y0}, []float64{x1, y1}, []float64{x0, y1})
	return err
}
