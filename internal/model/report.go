package model

import "time"

// RunReport summarizes one screening run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Verdicts   []Verdict
	Passing    []string
	Message    string
	Delivered  bool
}

// Matched returns the number of passing symbols.
func (r *RunReport) Matched() int {
	return len(r.Passing)
}
