package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/blockpaint/internal/model"
)

// SolutionExt is the file extension used for stored solutions.
const SolutionExt = ".bpsol"

// SaveSolution writes a solution as indented JSON, creating parent
// directories as needed.
func SaveSolution(path string, sol model.Solution) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create solution directory: %w", err)
	}
	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal solution: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}

// LoadSolution reads a solution written by SaveSolution.
func LoadSolution(path string) (model.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Solution{}, fmt.Errorf("failed to read solution: %w", err)
	}
	var sol model.Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		return model.Solution{}, fmt.Errorf("failed to parse solution: %w", err)
	}
	return sol, nil
}

// LoadProgram returns program text from path. Solution files yield their
// Code field; any other file is returned verbatim.
func LoadProgram(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), SolutionExt) {
		sol, err := LoadSolution(path)
		if err != nil {
			return "", err
		}
		return sol.Code, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read program: %w", err)
	}
	return string(data), nil
}

// ListSolutions loads every solution file in dir, sorted by problem id and
// then by name. A missing directory yields no solutions. Unreadable files
// are skipped and reported in the returned error list.
func ListSolutions(dir string) ([]model.Solution, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("failed to list solutions: %w", err)}
	}

	var sols []model.Solution
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), SolutionExt) {
			continue
		}
		sol, err := LoadSolution(filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		sols = append(sols, sol)
	}
	sort.SliceStable(sols, func(i, j int) bool {
		if sols[i].ProblemID != sols[j].ProblemID {
			return sols[i].ProblemID < sols[j].ProblemID
		}
		return sols[i].Name < sols[j].Name
	})
	return sols, errs
}

// ErrUnsafeName is returned when a solution id or problem id would place
// its file outside the solutions directory.
var ErrUnsafeName = errors.New("unsafe solution name")

// SolutionPath returns the canonical file path for sol inside dir. Ids that
// contain path separators or ".." are rejected.
func SolutionPath(dir string, sol model.Solution) (string, error) {
	name := sol.ProblemID
	if name == "" {
		name = "solution"
	}
	for _, part := range []string{name, sol.ID} {
		if strings.ContainsAny(part, `/\`) || strings.Contains(part, "..") {
			return "", fmt.Errorf("%w: %q", ErrUnsafeName, part)
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s%s", name, sol.ID, SolutionExt))
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s escapes %s", ErrUnsafeName, path, dir)
	}
	return path, nil
}
