package models

import "time"

// RunMetrics accumulates counters across one batch run. Constructed fresh per
// run by the orchestrator and finalized once at the end; repeated runs are
// isolated.
type RunMetrics struct {
	RunID            string    `json:"run_id"`
	FilesFound       int       `json:"files_found"`
	Processed        int       `json:"processed"`
	Failed           int       `json:"failed"`
	TotalInputChars  int       `json:"total_input_chars"`
	TotalOutputChars int       `json:"total_output_chars"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Coverage returns total output characters as a percentage of total input
// characters across the run, or 0 when no input was read.
func (m *RunMetrics) Coverage() float64 {
	if m.TotalInputChars == 0 {
		return 0
	}
	return float64(m.TotalOutputChars) / float64(m.TotalInputChars) * 100
}

// SuccessRate returns processed files as a percentage of files found, or 0
// when no files were found.
func (m *RunMetrics) SuccessRate() float64 {
	if m.FilesFound == 0 {
		return 0
	}
	return float64(m.Processed) / float64(m.FilesFound) * 100
}

// AverageDocumentSize returns total output characters divided by processed
// document count, or 0 when nothing was processed.
func (m *RunMetrics) AverageDocumentSize() int {
	if m.Processed == 0 {
		return 0
	}
	return m.TotalOutputChars / m.Processed
}
