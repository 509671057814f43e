package export

import (
	"fmt"

	"github.com/piwi3910/blockpaint/internal/parser"
	"github.com/xuri/excelize/v2"
)

const (
	costsSheet  = "Costs"
	blocksSheet = "Blocks"
)

// ExportCostWorkbook writes an Excel workbook with a Costs sheet (one row
// per executed line with its running total) and a Blocks sheet listing the
// final partition.
func ExportCostWorkbook(path string, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), costsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(blocksSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	rows := [][]interface{}{{"Line", "Instruction", "Opcode", "Cost", "Cumulative"}}
	total := 0
	for i, c := range report.Result.ActionsCost {
		text := ""
		if i < len(report.Lines) {
			text = report.Lines[i]
		}
		op := ""
		if instr, err := parser.Parse(text); err == nil {
			op = parser.Opcode(instr)
		}
		total += c
		rows = append(rows, []interface{}{i, text, op, c, total})
	}
	rows = append(rows, []interface{}{"Total", "", "", total, total})
	if err := writeRows(f, costsSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Block", "X0", "Y0", "X1", "Y1", "Width", "Height", "Area"}}
	for _, b := range report.Result.Blocks {
		rows = append(rows, []interface{}{b.Name, b.Begin.X, b.Begin.Y, b.End.X, b.End.Y, b.Width(), b.Height(), b.Area()})
	}
	if err := writeRows(f, blocksSheet, rows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to create cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
