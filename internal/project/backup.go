package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/blockpaint/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Config    model.AppConfig  `json:"config"`
	Solutions []model.Solution `json:"solutions"`
}

// ExportAllData exports the config and the given solutions to a single JSON
// file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, solutions []model.Solution) error {
	if solutions == nil {
		solutions = []model.Solution{}
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Solutions: solutions,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentSolutions == nil {
		backup.Config.RecentSolutions = []string{}
	}
	if backup.Solutions == nil {
		backup.Solutions = []model.Solution{}
	}
	return backup, nil
}

// RestoreSolutions writes each backed-up solution into dir and returns the
// paths written. Nothing is written when any solution carries ids that are
// unsafe to use as a file name.
func RestoreSolutions(dir string, backup BackupData) ([]string, error) {
	paths := make([]string, 0, len(backup.Solutions))
	for _, sol := range backup.Solutions {
		p, err := SolutionPath(dir, sol)
		if err != nil {
			return nil, fmt.Errorf("failed to restore solution %q: %w", sol.Name, err)
		}
		paths = append(paths, p)
	}
	for i, sol := range backup.Solutions {
		if err := SaveSolution(paths[i], sol); err != nil {
			return paths[:i], err
		}
	}
	return paths, nil
}
