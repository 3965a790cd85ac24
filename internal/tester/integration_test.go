package tester

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phillipboles/aci-contract/internal/models"
)

func sampleBrief() map[string]any {
	return map[string]any{
		"id":      "5e0cb564-5090-47f3-bd39-19d1b3464f89",
		"title":   "Monday machine learning digest",
		"cadence": "weekly",
		"settings": map[string]any{
			"max_blocks":          4,
			"education_ratio_min": 0.5,
			"subject_line_style":  "question",
		},
		"created_at": "2026-08-17T09:00:00Z",
	}
}

// newBriefServer implements just enough of the newsletter API to satisfy
// its contract.
func newBriefServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/health" && r.Method == "GET":
			json.NewEncoder(w).Encode(map[string]any{"status": "ok"})

		case r.URL.Path == "/briefs" && r.Method == "GET":
			w.Header().Set("X-Request-Id", "req-8841")
			json.NewEncoder(w).Encode(map[string]any{
				"page":     1,
				"per_page": 20,
				"total":    1,
				"items":    []any{sampleBrief()},
			})

		case r.URL.Path == "/briefs" && r.Method == "POST":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(sampleBrief())

		case strings.HasSuffix(r.URL.Path, "/approve") && r.Method == "POST":
			json.NewEncoder(w).Encode(sampleBrief())

		case strings.HasPrefix(r.URL.Path, "/briefs/") && r.Method == "GET":
			json.NewEncoder(w).Encode(sampleBrief())

		case strings.HasPrefix(r.URL.Path, "/briefs/") && r.Method == "PUT":
			json.NewEncoder(w).Encode(sampleBrief())

		case strings.HasPrefix(r.URL.Path, "/briefs/") && r.Method == "DELETE":
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"code": "not_found", "message": "no route"})
		}
	}))
}

func TestIntegrationFullRun(t *testing.T) {
	server := newBriefServer()
	defer server.Close()

	p := loadSpec(t)
	operations := p.Operations(server.URL)
	if len(operations) == 0 {
		t.Fatal("No operations found")
	}

	runner := NewTester(p, 10*time.Second)
	summary := runner.TestOperations(operations, nil)

	if summary.TotalTests != len(operations) {
		t.Errorf("Expected %d tests, got %d", len(operations), summary.TotalTests)
	}
	if summary.Failed > 0 {
		for _, result := range summary.Results {
			if !result.Passed {
				t.Errorf("%s %s failed: %s", result.Method, result.Path, result.Error)
			}
		}
	}

	foundList := false
	for _, result := range summary.Results {
		if result.Path == "/briefs" && result.Method == "GET" {
			foundList = true
			if result.StatusCode != http.StatusOK {
				t.Errorf("Expected status 200 for GET /briefs, got %d", result.StatusCode)
			}
		}
	}
	if !foundList {
		t.Error("Expected a GET /briefs result")
	}
}

func TestIntegrationEvents(t *testing.T) {
	server := newBriefServer()
	defer server.Close()

	p := loadSpec(t)
	operations := p.Operations(server.URL)

	var starting, completed int
	runner := NewTester(p, 10*time.Second)
	runner.TestOperations(operations, func(event TestEvent) {
		switch event.Type {
		case EventStarting:
			starting++
			if event.Result != nil {
				t.Error("Starting events carry no result")
			}
		case EventCompleted:
			completed++
			if event.Result == nil {
				t.Error("Completed events carry a result")
			}
		}
		if event.Total != len(operations) {
			t.Errorf("Expected total %d, got %d", len(operations), event.Total)
		}
	})

	if starting != len(operations) || completed != len(operations) {
		t.Errorf("Expected %d starting and completed events, got %d and %d",
			len(operations), starting, completed)
	}
}

func TestIntegrationSingleOperation(t *testing.T) {
	server := newBriefServer()
	defer server.Close()

	p := loadSpec(t)
	runner := NewTester(p, 10*time.Second)

	result, err := runner.TestOperation(models.Operation{
		Path:      "/briefs",
		Method:    "GET",
		ServerURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Test operation failed: %v", err)
	}

	if !result.Passed {
		t.Errorf("Expected test to pass, got: %s", result.Error)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", result.StatusCode)
	}
	if result.ResponseTime <= 0 {
		t.Error("Expected a measured response time")
	}
}

func TestIntegrationCreateBrief(t *testing.T) {
	server := newBriefServer()
	defer server.Close()

	p := loadSpec(t)
	runner := NewTester(p, 10*time.Second)

	result, err := runner.TestOperation(models.Operation{
		Path:      "/briefs",
		Method:    "POST",
		ServerURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Test operation failed: %v", err)
	}

	if result.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", result.StatusCode)
	}
	if !result.Passed {
		t.Errorf("Expected test to pass, got: %s", result.Error)
	}
}

func TestIntegrationUndeclaredStatus(t *testing.T) {
	// A server that answers everything with a teapot status; getBrief
	// declares no 4xx range and no default, so the contract is violated.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	p := loadSpec(t)
	runner := NewTester(p, 10*time.Second)

	result, err := runner.TestOperation(models.Operation{
		Path:      "/briefs/{briefId}",
		Method:    "GET",
		ServerURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Test operation failed: %v", err)
	}

	if result.Passed {
		t.Fatal("Expected the test to fail")
	}
	if len(result.ValidationErrors) == 0 {
		t.Fatal("Expected validation errors")
	}
	if result.ValidationErrors[0].Field != "status_code" {
		t.Errorf("Expected a status_code violation, got %v", result.ValidationErrors[0])
	}
}

func TestIntegrationBodyViolation(t *testing.T) {
	// The served brief is missing created_at and carries a cadence outside
	// the enum.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "5e0cb564-5090-47f3-bd39-19d1b3464f89",
			"title":   "Monday machine learning digest",
			"cadence": "daily",
			"settings": map[string]any{
				"max_blocks":          4,
				"education_ratio_min": 0.5,
				"subject_line_style":  "question",
			},
		})
	}))
	defer server.Close()

	p := loadSpec(t)
	runner := NewTester(p, 10*time.Second)

	result, err := runner.TestOperation(models.Operation{
		Path:      "/briefs/{briefId}",
		Method:    "GET",
		ServerURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Test operation failed: %v", err)
	}

	if result.Passed {
		t.Fatal("Expected the test to fail")
	}

	fields := map[string]bool{}
	for _, ve := range result.ValidationErrors {
		fields[ve.Field] = true
	}
	if !fields["body.cadence"] || !fields["body.created_at"] {
		t.Errorf("Expected body.cadence and body.created_at violations, got %v", result.ValidationErrors)
	}
	if !strings.Contains(result.Error, "validation failed") {
		t.Errorf("Expected the summary error to mention validation, got %q", result.Error)
	}
}

func TestIntegrationUnreachableServer(t *testing.T) {
	p := loadSpec(t)
	runner := NewTester(p, 2*time.Second)

	result, err := runner.TestOperation(models.Operation{
		Path:      "/health",
		Method:    "GET",
		ServerURL: "http://127.0.0.1:1",
	})
	if err != nil {
		t.Fatalf("Test operation failed: %v", err)
	}

	if result.Passed {
		t.Error("Expected the test to fail against an unreachable server")
	}
	if result.Error == "" {
		t.Error("Expected the transport failure to be recorded")
	}
}
