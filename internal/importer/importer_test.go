package importer

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/blockpaint/internal/canvas"
	"github.com/piwi3910/blockpaint/internal/model"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("id,x0,y0,x1,y1\n0,0,0,200,400\n1,200,0,400,400\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("id;x0;y0;x1;y1\n0;0;0;200;400\n1;200;0;400;400\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("id\tx0\ty0\tx1\ty1\n0\t0\t0\t200\t400\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, ok := DetectColumns([]string{"blockId", "x0", "y0", "x1", "y1", "r", "g", "b", "a"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{ID: 0, X0: 1, Y0: 2, X1: 3, Y1: 4, R: 5, G: 6, B: 7, A: 8}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Left", "Bottom", "Right", "Top", "Name", "Red"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.X0 != 0 || mapping.Y0 != 1 || mapping.X1 != 2 || mapping.Y1 != 3 {
		t.Errorf("unexpected coordinate mapping %+v", mapping)
	}
	if mapping.ID != 4 || mapping.R != 5 || mapping.G != -1 {
		t.Errorf("unexpected id/color mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"0", "0", "0", "400", "400"})
	if ok {
		t.Error("expected no header")
	}
	if mapping.ID != 0 || mapping.A != 8 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "blockId,x0,y0,x1,y1,r,g,b,a\nleft,0,0,200,400,255,0,0,255\nright,200,0,400,400,0,0,255,128\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(result.Blocks))
	}

	b := result.Blocks[1]
	if b.BlockID != "right" {
		t.Errorf("expected id 'right', got '%s'", b.BlockID)
	}
	if b.BottomLeft != [2]int{200, 0} || b.TopRight != [2]int{400, 400} {
		t.Errorf("unexpected corners %v %v", b.BottomLeft, b.TopRight)
	}
	if b.Color != [4]int{0, 0, 255, 128} {
		t.Errorf("unexpected color %v", b.Color)
	}

	st := result.InitialState(model.DefaultCanvas)
	if err := st.Validate(model.DefaultCanvas); err != nil {
		t.Errorf("expected a valid partition: %v", err)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "0,0,0,400,200\n1,0,200,400,400\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d (errors: %v)", len(result.Blocks), result.Errors)
	}
	if result.Blocks[0].Color != [4]int{255, 255, 255, 255} {
		t.Errorf("expected default white, got %v", result.Blocks[0].Color)
	}
}

func TestImportCSVFromReader_GeneratesIDs(t *testing.T) {
	data := "x0,y0,x1,y1\n0,0,400,200\n0,200,400,400\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d (errors: %v)", len(result.Blocks), result.Errors)
	}
	if result.Blocks[0].BlockID != "0" || result.Blocks[1].BlockID != "1" {
		t.Errorf("expected generated ids 0 and 1, got %s and %s", result.Blocks[0].BlockID, result.Blocks[1].BlockID)
	}
}

func TestImportCSVFromReader_InvalidRows(t *testing.T) {
	data := "id,x0,y0,x1,y1\na,0,0,abc,10\nb,10,0,5,10\nc,0,0,10,10\nc,10,0,20,10\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if len(result.Blocks) != 1 {
		t.Errorf("expected 1 valid block, got %d", len(result.Blocks))
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	data := "id,x0,y0,x1\n0,0,0,10\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "y1") {
		t.Errorf("expected missing y1 error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_BadColorWarns(t *testing.T) {
	data := "id,x0,y0,x1,y1,r,g,b,a\n0,0,0,10,10,300,0,0,255\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(result.Blocks))
	}
	if result.Blocks[0].Color != [4]int{255, 255, 255, 255} {
		t.Errorf("expected fallback color, got %v", result.Blocks[0].Color)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Invalid color") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected color warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected an error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.csv")
	data := "id;x0;y0;x1;y1\n0;0;0;400;400\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d (errors: %v)", len(result.Blocks), result.Errors)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "semicolon") {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Block", "X0", "Y0", "X1", "Y1", "Red", "Green", "Blue", "Alpha"},
		{"0", 0, 0, 100, 400, 10, 20, 30, 255},
		{"1", 100, 0, 400, 400, 40, 50, 60, 255},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(result.Blocks))
	}
	if result.Blocks[1].Color != [4]int{40, 50, 60, 255} {
		t.Errorf("unexpected color %v", result.Blocks[1].Color)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

// ─── Initial State Tests ───────────────────────────────────

func TestParseInitialState(t *testing.T) {
	data := []byte(`{"width":400,"height":400,"blocks":[{"blockId":"0","bottomLeft":[0,0],"topRight":[400,400],"color":[255,255,255,255]}]}`)

	st, err := ParseInitialState(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Width != 400 || len(st.Blocks) != 1 {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.Blocks[0].TopRight != [2]int{400, 400} {
		t.Errorf("unexpected top right %v", st.Blocks[0].TopRight)
	}
}

func TestLoadInitialState_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadInitialState(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInitialState(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func TestImportDXF_Polylines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.dxf")
	d := dxf.NewDrawing()
	if _, err := d.LwPolyline(true, []float64{0, 0}, []float64{200, 0}, []float64{200, 400}, []float64{0, 400}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LwPolyline(true, []float64{200, 0}, []float64{400, 0}, []float64{400, 400}, []float64{200, 400}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Circle(50, 50, 0, 10); err != nil {
		t.Fatal(err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(result.Blocks))
	}
	if result.Blocks[1].BlockID != "1" || result.Blocks[1].BottomLeft != [2]int{200, 0} {
		t.Errorf("unexpected second block %+v", result.Blocks[1])
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one skipped-entity warning, got %v", result.Warnings)
	}
}

func TestImportDXF_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.dxf")
	d := dxf.NewDrawing()
	corners := [][2]float64{{0, 0}, {400, 0}, {400, 400}, {0, 400}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	result := ImportDXF(path)
	if len(result.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d (errors: %v)", len(result.Blocks), result.Errors)
	}
	if result.Blocks[0].TopRight != [2]int{400, 400} {
		t.Errorf("unexpected top right %v", result.Blocks[0].TopRight)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

func TestSkippedWarnings_SortedByKind(t *testing.T) {
	skipped := map[string]int{"other": 1, "CIRCLE": 2, "ARC": 3}
	want := []string{
		"Skipped 3 ARC entities",
		"Skipped 2 CIRCLE entities",
		"Skipped 1 other entities",
	}
	for run := 0; run < 20; run++ {
		got := skippedWarnings(skipped)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Fatalf("run %d: got %v, want %v", run, got, want)
		}
	}
	if got := skippedWarnings(nil); len(got) != 0 {
		t.Errorf("expected no warnings, got %v", got)
	}
}

func TestOutlineRect(t *testing.T) {
	tests := []struct {
		name string
		in   []point
		ok   bool
	}{
		{"square", []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
		{"closed", []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, true},
		{"triangle", []point{{0, 0}, {10, 0}, {10, 10}}, false},
		{"bow tie", []point{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, false},
		{"rotated", []point{{5, 0}, {10, 5}, {5, 10}, {0, 5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := outlineRect(tt.in)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && r != model.NewRect(0, 0, 10, 10) {
				t.Errorf("unexpected rect %s", r)
			}
		})
	}
}

// ─── Target Image Tests ────────────────────────────────────

func TestLoadTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.png")
	s := canvas.New(8, 4)
	s.Clear(color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if err := s.SavePNG(path, 1); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTarget(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Width() != 8 || got.Height() != 4 {
		t.Errorf("expected 8x4, got %dx%d", got.Width(), got.Height())
	}
	if got.ReadPixel(7, 3) != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("unexpected pixel %v", got.ReadPixel(7, 3))
	}
}

func TestLoadTarget_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTarget(path); err == nil {
		t.Error("expected decode error")
	}
}
