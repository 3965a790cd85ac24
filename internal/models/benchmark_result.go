package models

import "time"

// BenchmarkResult holds the latency and error profile measured for a single
// operation. Durations are exported in nanoseconds; display code renders
// them as milliseconds.
type BenchmarkResult struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	OperationID string `json:"operation_id,omitempty"`

	Iterations  int `json:"iterations"`
	Concurrency int `json:"concurrency"`
	WarmupRuns  int `json:"warmup_runs"`

	MinTime time.Duration `json:"min_time_ns"`
	MaxTime time.Duration `json:"max_time_ns"`
	AvgTime time.Duration `json:"avg_time_ns"`
	P50Time time.Duration `json:"p50_time_ns"`
	P90Time time.Duration `json:"p90_time_ns"`
	P99Time time.Duration `json:"p99_time_ns"`

	RequestsPerSec float64       `json:"requests_per_sec"`
	TotalDuration  time.Duration `json:"total_duration_ns"`

	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	ErrorRate    float64 `json:"error_rate"`

	// Response status code -> occurrence count.
	StatusCodes map[int]int `json:"status_codes"`

	// First few distinct error strings, for the report.
	SampleErrors []string `json:"sample_errors,omitempty"`
}

// BenchmarkSummary aggregates per-operation benchmark results for a run.
type BenchmarkSummary struct {
	TotalEndpoints int `json:"total_endpoints"`
	Iterations     int `json:"iterations_per_endpoint"`
	Concurrency    int `json:"concurrency"`
	WarmupRuns     int `json:"warmup_runs"`

	OverallMinTime time.Duration `json:"overall_min_time_ns"`
	OverallMaxTime time.Duration `json:"overall_max_time_ns"`
	OverallAvgTime time.Duration `json:"overall_avg_time_ns"`

	TotalRequests     int           `json:"total_requests"`
	TotalSuccesses    int           `json:"total_successes"`
	TotalErrors       int           `json:"total_errors"`
	OverallErrorRate  float64       `json:"overall_error_rate"`
	TotalDuration     time.Duration `json:"total_duration_ns"`
	OverallReqsPerSec float64       `json:"overall_requests_per_sec"`

	Results []BenchmarkResult `json:"results"`
}

// AddResult appends a per-operation result and refreshes the aggregates.
func (s *BenchmarkSummary) AddResult(result BenchmarkResult) {
	s.Results = append(s.Results, result)
	s.TotalEndpoints = len(s.Results)
	s.TotalRequests += result.Iterations
	s.TotalSuccesses += result.SuccessCount
	s.TotalErrors += result.ErrorCount

	if s.OverallMinTime == 0 || result.MinTime < s.OverallMinTime {
		s.OverallMinTime = result.MinTime
	}
	if result.MaxTime > s.OverallMaxTime {
		s.OverallMaxTime = result.MaxTime
	}

	if s.TotalRequests > 0 {
		s.OverallErrorRate = float64(s.TotalErrors) / float64(s.TotalRequests) * 100
	}

	// Average weighted by iteration count, so short runs don't skew it.
	var weightedSum time.Duration
	var weight int
	for _, r := range s.Results {
		weightedSum += r.AvgTime * time.Duration(r.Iterations)
		weight += r.Iterations
	}
	if weight > 0 {
		s.OverallAvgTime = weightedSum / time.Duration(weight)
	}
}

// Finalize stamps the wall-clock duration and derives overall throughput.
func (s *BenchmarkSummary) Finalize(totalDuration time.Duration) {
	s.TotalDuration = totalDuration
	if totalDuration > 0 {
		s.OverallReqsPerSec = float64(s.TotalRequests) / totalDuration.Seconds()
	}
}
