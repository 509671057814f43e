// Package export writes run results to files: a PDF report, a sheet of
// QR-coded block labels, an Excel cost workbook and a DXF drawing of the
// final partition.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/blockpaint/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	reportQRSize = 45.0
)

// ExportPDF writes a two-page report: the rendered canvas with block
// outlines and ids, then a summary with costs and a QR code carrying the
// score summary as JSON.
func ExportPDF(path string, report Report) error {
	if report.Result.Surface == nil {
		return fmt.Errorf("no rendered canvas to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderCanvasPage(pdf, report); err != nil {
		return err
	}

	pdf.AddPage()
	if err := renderSummaryPage(pdf, report); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderCanvasPage draws the final surface and the partition over it.
func renderCanvasPage(pdf *fpdf.Fpdf, report Report) error {
	res := report.Result
	surf := res.Surface

	title := report.Title
	if title == "" {
		title = "Block program"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Canvas: %d x %d | Blocks: %d | Instructions: %d | Total cost: %d",
		surf.Width(), surf.Height(), len(res.Blocks), len(res.ActionsCost), res.TotalCost())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(surf.Width()), drawHeight/float64(surf.Height()))
	canvasW := float64(surf.Width()) * scale
	canvasH := float64(surf.Height()) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	var png bytes.Buffer
	if err := surf.EncodePNG(&png); err != nil {
		return fmt.Errorf("failed to encode canvas: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &png)
	pdf.ImageOptions("canvas", offsetX, offsetY, canvasW, canvasH, false, opts, 0, "")

	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "D")

	height := surf.Height()
	for _, b := range res.Blocks {
		sr := b.SurfaceRect(height)
		bx := offsetX + float64(sr.Min.X)*scale
		by := offsetY + float64(sr.Min.Y)*scale
		bw := float64(sr.Dx()) * scale
		bh := float64(sr.Dy()) * scale

		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(bx, by, bw, bh, "D")

		if bw > 8 && bh > 5 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)
			labelW := pdf.GetStringWidth(b.Name)
			if labelW < bw-1 {
				pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-2)
				pdf.CellFormat(labelW, 4, b.Name, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, res.Canvas, offsetX, offsetY, canvasW, canvasH)
	return nil
}

// drawDimensionAnnotations adds width and height labels outside the canvas.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Canvas, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", c.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", c.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the statistics page.
func renderSummaryPage(pdf *fpdf.Fpdf, report Report) error {
	summary := report.Summary()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Run Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	similarity, score := "n/a", "n/a"
	if summary.Similarity >= 0 {
		similarity = fmt.Sprintf("%d", summary.Similarity)
		score = fmt.Sprintf("%d", summary.Score)
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Outcome", summary.Outcome},
		{"Instructions", fmt.Sprintf("%d", summary.Instructions)},
		{"Final Blocks", fmt.Sprintf("%d", summary.Blocks)},
		{"Total Cost", fmt.Sprintf("%d", summary.TotalCost)},
		{"Similarity", similarity},
		{"Score", score},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if err := drawSummaryQR(pdf, summary); err != nil {
		return err
	}

	if lerr := report.Result.Err; lerr != nil {
		y += 3
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, fmt.Sprintf("FAILED at line %d: %v", lerr.Line, lerr.Err), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 8
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cost by Instruction", "", 0, "L", false, 0, "")
	y += 9
	rows := [][]string{}
	for _, oc := range CostByOpcode(report.Lines, report.Result.ActionsCost) {
		rows = append(rows, []string{oc.Opcode, fmt.Sprintf("%d", oc.Count), fmt.Sprintf("%d", oc.Cost)})
	}
	y = drawTable(pdf, y, []float64{40, 30, 30}, []string{"Instruction", "Count", "Cost"}, rows)

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Most Expensive Lines", "", 0, "L", false, 0, "")
	y += 9
	rows = rows[:0]
	for _, lc := range MostExpensive(report.Lines, report.Result.ActionsCost, 8) {
		rows = append(rows, []string{fmt.Sprintf("%d", lc.Line), lc.Text, fmt.Sprintf("%d", lc.Cost)})
	}
	drawTable(pdf, y, []float64{20, 120, 30}, []string{"Line", "Instruction", "Cost"}, rows)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BlockPaint", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawTable renders a bordered table with a shaded header and returns the
// y position below it.
func drawTable(pdf *fpdf.Fpdf, y float64, colWidths []float64, headers []string, rows [][]string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

// drawSummaryQR places a QR code with the JSON summary in the top right.
func drawSummaryQR(pdf *fpdf.Fpdf, summary ScoreSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal score summary: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("summary_qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("summary_qr", pageWidth-marginRight-reportQRSize, marginTop+18, reportQRSize, reportQRSize, false, opts, 0, "")
	return nil
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
