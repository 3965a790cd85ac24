package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/phillipboles/aci-contract/internal/models"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'json' or 'csv'", s)
	}
}

// ExportTestSummary writes a contract test summary to a file, or stdout
// when filePath is empty.
func ExportTestSummary(summary models.TestSummary, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return encodeJSON(w, summary)
	case FormatCSV:
		return exportTestCSV(w, summary)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportBenchmarkSummary writes a benchmark summary to a file, or stdout
// when filePath is empty.
func ExportBenchmarkSummary(summary models.BenchmarkSummary, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return encodeJSON(w, summary)
	case FormatCSV:
		return exportBenchmarkCSV(w, summary)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportValidationReport writes a validation report to a file, or stdout
// when filePath is empty. CI pipelines consume the JSON form.
func ExportValidationReport(report *models.ValidationReport, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return encodeJSON(w, report)
	case FormatCSV:
		return exportValidationCSV(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns the destination writer, stdout when filePath is
// empty.
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exportTestCSV(w io.Writer, summary models.TestSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"method", "path", "operation_id", "passed", "status_code",
		"response_time_ms", "error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range summary.Results {
		row := []string{
			r.Method,
			r.Path,
			r.OperationID,
			strconv.FormatBool(r.Passed),
			strconv.Itoa(r.StatusCode),
			fmt.Sprintf("%.2f", float64(r.ResponseTime.Microseconds())/1000),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

func exportBenchmarkCSV(w io.Writer, summary models.BenchmarkSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"method", "path", "operation_id", "iterations", "concurrency",
		"min_ms", "max_ms", "avg_ms", "p50_ms", "p90_ms", "p99_ms",
		"requests_per_sec", "success_count", "error_count", "error_rate",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range summary.Results {
		row := []string{
			r.Method,
			r.Path,
			r.OperationID,
			strconv.Itoa(r.Iterations),
			strconv.Itoa(r.Concurrency),
			fmt.Sprintf("%.2f", float64(r.MinTime.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.MaxTime.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.AvgTime.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.P50Time.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.P90Time.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.P99Time.Microseconds())/1000),
			fmt.Sprintf("%.2f", r.RequestsPerSec),
			strconv.Itoa(r.SuccessCount),
			strconv.Itoa(r.ErrorCount),
			fmt.Sprintf("%.2f", r.ErrorRate),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

func exportValidationCSV(w io.Writer, report *models.ValidationReport) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"field", "message", "expected", "received"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range report.Errors {
		if err := cw.Write([]string{e.Field, e.Message, e.Expected, e.Received}); err != nil {
			return err
		}
	}

	return cw.Error()
}
