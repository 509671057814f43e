package model

import "testing"

func TestDefaultAppConfigUsesContestCanvas(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.Canvas() != DefaultCanvas {
		t.Errorf("expected canvas %v, got %v", DefaultCanvas, cfg.Canvas())
	}
	if cfg.Background != [4]int{255, 255, 255, 255} {
		t.Errorf("expected white background, got %v", cfg.Background)
	}
	if cfg.RecentSolutions == nil {
		t.Error("RecentSolutions should not be nil")
	}
}

func TestAppConfigCanvasFallsBackToDefault(t *testing.T) {
	cfg := AppConfig{CanvasWidth: 0, CanvasHeight: 300}
	if cfg.Canvas() != DefaultCanvas {
		t.Errorf("expected fallback to default canvas, got %v", cfg.Canvas())
	}

	cfg = AppConfig{CanvasWidth: 200, CanvasHeight: 100}
	if got := cfg.Canvas(); got.Width != 200 || got.Height != 100 {
		t.Errorf("expected 200x100, got %v", got)
	}
}

func TestAddRecent(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecent("a.txt", 3)
	cfg.AddRecent("b.txt", 3)
	cfg.AddRecent("c.txt", 3)
	cfg.AddRecent("a.txt", 3)
	cfg.AddRecent("d.txt", 3)

	want := []string{"d.txt", "a.txt", "c.txt"}
	if len(cfg.RecentSolutions) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.RecentSolutions)
	}
	for i := range want {
		if cfg.RecentSolutions[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], cfg.RecentSolutions[i])
		}
	}
}
