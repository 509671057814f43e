package model

import (
	"time"

	"github.com/google/uuid"
)

// Solution is a named program for one problem, as stored on disk.
type Solution struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewSolution creates a solution with a fresh short id.
func NewSolution(name, problemID, code string) Solution {
	now := time.Now().UTC().Format(time.RFC3339)
	return Solution{
		ID:        uuid.New().String()[:8],
		Name:      name,
		ProblemID: problemID,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithCode returns a copy of s carrying new program text and an updated
// timestamp.
func (s Solution) WithCode(code string) Solution {
	s.Code = code
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s
}
