package models

import "time"

// TestResult is the outcome of exercising a single operation against a
// running server.
type TestResult struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	OperationID string `json:"operation_id,omitempty"`

	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`

	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time_ns"`

	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// TestSummary aggregates the results of a contract test run.
type TestSummary struct {
	TotalTests int          `json:"total_tests"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Results    []TestResult `json:"results"`
}

// AddResult appends a result and updates the pass/fail counters.
func (s *TestSummary) AddResult(result TestResult) {
	s.TotalTests++
	s.Results = append(s.Results, result)
	if result.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}
