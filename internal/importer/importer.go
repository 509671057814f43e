// Package importer reads starting partitions and target images. Partitions
// come from the contest JSON layout, from CSV or Excel tables with one block
// per row, or from DXF drawings of rectangles. Table import detects the
// delimiter and maps columns by header name, case-insensitively.
package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Blocks   []model.InitialBlock
	Errors   []string
	Warnings []string
}

// InitialState wraps the imported blocks into a starting partition for
// canvas c. The result still has to pass InitialState.Validate.
func (r ImportResult) InitialState(c model.Canvas) *model.InitialState {
	return &model.InitialState{Width: c.Width, Height: c.Height, Blocks: r.Blocks}
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID int
	X0 int
	Y0 int
	X1 int
	Y1 int
	R  int
	G  int
	B  int
	A  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id": {"blockid", "block id", "block_id", "id", "block", "name"},
	"x0": {"x0", "left", "bottomleftx", "bottom left x", "begin x"},
	"y0": {"y0", "bottom", "bottomlefty", "bottom left y", "begin y"},
	"x1": {"x1", "right", "toprightx", "top right x", "end x"},
	"y1": {"y1", "top", "toprighty", "top right y", "end y"},
	"r":  {"r", "red"},
	"g":  {"g", "green"},
	"b":  {"b", "blue"},
	"a":  {"a", "alpha"},
}

// defaultColor is used for rows without color columns.
var defaultColor = [4]int{255, 255, 255, 255}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping id, x0, y0, x1, y1, r, g, b, a and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, X0: -1, Y0: -1, X1: -1, Y1: -1, R: -1, G: -1, B: -1, A: -1}
	slots := map[string]*int{
		"id": &mapping.ID,
		"x0": &mapping.X0, "y0": &mapping.Y0, "x1": &mapping.X1, "y1": &mapping.Y1,
		"r": &mapping.R, "g": &mapping.G, "b": &mapping.B, "a": &mapping.A,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					isHeader = true
					*slots[role] = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, X0: 1, Y0: 2, X1: 3, Y1: 4, R: 5, G: 6, B: 7, A: 8}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseCoord(row []string, idx int, rowLabel, name string) (int, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a block from a row using the given column mapping.
// Returns the block, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, blockCount int) (model.InitialBlock, string, string) {
	id := getCell(row, mapping.ID)
	if id == "" {
		id = strconv.Itoa(blockCount)
	}

	var coords [4]int
	for i, c := range []struct {
		idx  int
		name string
	}{{mapping.X0, "x0"}, {mapping.Y0, "y0"}, {mapping.X1, "x1"}, {mapping.Y1, "y1"}} {
		v, errMsg := parseCoord(row, c.idx, rowLabel, c.name)
		if errMsg != "" {
			return model.InitialBlock{}, errMsg, ""
		}
		coords[i] = v
	}
	if coords[0] >= coords[2] || coords[1] >= coords[3] {
		return model.InitialBlock{}, fmt.Sprintf("%s: Block %s has no area", rowLabel, id), ""
	}

	block := model.InitialBlock{
		BlockID:    id,
		BottomLeft: [2]int{coords[0], coords[1]},
		TopRight:   [2]int{coords[2], coords[3]},
		Color:      defaultColor,
	}

	var warning string
	for i, idx := range []int{mapping.R, mapping.G, mapping.B, mapping.A} {
		s := getCell(row, idx)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 255 {
			warning = fmt.Sprintf("%s: Invalid color channel '%s', defaulting to white", rowLabel, s)
			block.Color = defaultColor
			break
		}
		block.Color[i] = v
	}

	return block, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports blocks from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports blocks from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports blocks from the first sheet of an Excel (.xlsx) file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, c := range []struct {
			idx  int
			name string
		}{{mapping.X0, "x0"}, {mapping.Y0, "y0"}, {mapping.X1, "x1"}, {mapping.Y1, "y1"}} {
			if c.idx == -1 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 5 {
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][1])); err != nil {
			// unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		block, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Blocks))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if seen[block.BlockID] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate block id '%s'", rowLabel, block.BlockID))
			continue
		}
		seen[block.BlockID] = true
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Blocks = append(result.Blocks, block)
	}

	return result
}

// ParseInitialState decodes a starting partition in the contest JSON layout.
func ParseInitialState(data []byte) (*model.InitialState, error) {
	var st model.InitialState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse initial state: %w", err)
	}
	return &st, nil
}

// LoadInitialState reads a starting partition from a JSON file.
func LoadInitialState(path string) (*model.InitialState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial state: %w", err)
	}
	return ParseInitialState(data)
}
