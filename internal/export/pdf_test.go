package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/blockpaint/internal/engine"
)

const testProgram = `cut [0] [x] [200]
color [0.0] [255, 0, 0, 255]
# right half
cut [0.1] [y] [100]
color [0.1.1] [0, 0, 255, 255]`

// buildTestReport runs a small program and wraps it in a report.
func buildTestReport(t *testing.T, program string) Report {
	t.Helper()
	res, err := engine.New(engine.DefaultConfig()).Run(nil, program)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return NewReport("Test run", program, res, 1234)
}

func assertFileWritten(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := ExportPDF(path, buildTestReport(t, testProgram)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportPDF_FailedRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.pdf")
	report := buildTestReport(t, "cut [0] [x] [200]\nswap [0.0] [9]")
	if report.Result.Err == nil {
		t.Fatal("expected the run to fail")
	}

	if err := ExportPDF(path, report); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportPDF_NoTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notarget.pdf")
	report := buildTestReport(t, testProgram)
	report.Similarity = -1

	if err := ExportPDF(path, report); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_NoSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, Report{}); err == nil {
		t.Fatal("expected error for a report without a canvas")
	}
}

func TestLabelFontSize(t *testing.T) {
	if got := labelFontSize(50, 50); got != 8 {
		t.Errorf("expected 8, got %v", got)
	}
	if got := labelFontSize(30, 100); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
	if got := labelFontSize(10, 10); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}
