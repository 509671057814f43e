package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/blockpaint/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each block label's QR code.
type LabelInfo struct {
	BlockID string `json:"blockId"`
	X0      int    `json:"x0"`
	Y0      int    `json:"y0"`
	X1      int    `json:"x1"`
	Y1      int    `json:"y1"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Area    int    `json:"area"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportBlockLabels generates a PDF of QR-coded labels, one per block, laid
// out on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US
// Letter). Each label shows the block id and geometry; the QR code encodes
// the same as JSON.
func ExportBlockLabels(path string, blocks []model.Block) error {
	labels := CollectLabelInfos(blocks)
	if len(labels) == 0 {
		return fmt.Errorf("no blocks to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for block %q: %w", label.BlockID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, idx int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", idx)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	blockLabel := "Block " + info.BlockID
	if pdf.GetStringWidth(blockLabel) > textW {
		for len(blockLabel) > 0 && pdf.GetStringWidth(blockLabel+"...") > textW {
			blockLabel = blockLabel[:len(blockLabel)-1]
		}
		blockLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, blockLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d px", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("(%d, %d) - (%d, %d)", info.X0, info.Y0, info.X1, info.Y1), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a block list.
func CollectLabelInfos(blocks []model.Block) []LabelInfo {
	labels := make([]LabelInfo, 0, len(blocks))
	for _, b := range blocks {
		labels = append(labels, LabelInfo{
			BlockID: b.Name,
			X0:      b.Begin.X,
			Y0:      b.Begin.Y,
			X1:      b.End.X,
			Y1:      b.End.Y,
			Width:   b.Width(),
			Height:  b.Height(),
			Area:    b.Area(),
		})
	}
	return labels
}
