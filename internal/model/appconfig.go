package model

import "image/color"

// AppConfig holds application-wide preferences.
type AppConfig struct {
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
	Background   [4]int `json:"background"` // RGBA painted before any block

	LogLevel        string   `json:"log_level"` // "debug", "info", "warn", "error"
	SolutionsDir    string   `json:"solutions_dir"`
	RecentSolutions []string `json:"recent_solutions"`
}

// DefaultAppConfig returns the contest defaults: a 400x400 white canvas.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		CanvasWidth:     DefaultCanvas.Width,
		CanvasHeight:    DefaultCanvas.Height,
		Background:      [4]int{255, 255, 255, 255},
		LogLevel:        "info",
		RecentSolutions: []string{},
	}
}

// Canvas returns the configured canvas, or DefaultCanvas when the config
// carries no usable size.
func (c AppConfig) Canvas() Canvas {
	cv := Canvas{Width: c.CanvasWidth, Height: c.CanvasHeight}
	if !cv.Valid() {
		return DefaultCanvas
	}
	return cv
}

// BackgroundColor returns the configured background.
func (c AppConfig) BackgroundColor() color.NRGBA {
	return RGBA(c.Background)
}

// AddRecent moves path to the front of the recent solutions list, keeping at
// most limit entries.
func (c *AppConfig) AddRecent(path string, limit int) {
	out := []string{path}
	for _, p := range c.RecentSolutions {
		if p != path && len(out) < limit {
			out = append(out, p)
		}
	}
	c.RecentSolutions = out
}
