package tester

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildRequestGET(t *testing.T) {
	p := loadSpec(t)
	rb := NewRequestBuilder(p)

	opDetails, err := p.OperationDetails("/briefs", "GET")
	if err != nil {
		t.Fatalf("Failed to get operation details: %v", err)
	}

	req, err := rb.BuildRequest(opDetails, "http://localhost:8080/v1")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("Expected method GET, got %s", req.Method)
	}
	if !strings.HasPrefix(req.URL.String(), "http://localhost:8080/v1/briefs") {
		t.Errorf("Unexpected URL: %s", req.URL.String())
	}

	// Declared query parameters all get generated values.
	query := req.URL.Query()
	for _, name := range []string{"page", "per_page", "cadence"} {
		if query.Get(name) == "" {
			t.Errorf("Expected query parameter %s to be set", name)
		}
	}
	if query.Get("cadence") != "weekly" {
		t.Errorf("Expected the first enum member for cadence, got %s", query.Get("cadence"))
	}

	// The path-item header parameter rides along too.
	if req.Header.Get("X-Workspace-Id") == "" {
		t.Error("Expected X-Workspace-Id header to be set")
	}
}

func TestBuildRequestSubstitutesPathParameters(t *testing.T) {
	p := loadSpec(t)
	rb := NewRequestBuilder(p)

	opDetails, err := p.OperationDetails("/briefs/{briefId}", "GET")
	if err != nil {
		t.Fatalf("Failed to get operation details: %v", err)
	}

	req, err := rb.BuildRequest(opDetails, "http://localhost:8080/v1")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if strings.Contains(req.URL.Path, "{briefId}") {
		t.Fatal("Path parameter {briefId} was not replaced")
	}

	// briefId declares format uuid, so the substituted value parses as one.
	parts := strings.Split(req.URL.Path, "/")
	if _, err := uuid.Parse(parts[len(parts)-1]); err != nil {
		t.Errorf("Expected a uuid path segment, got %q", parts[len(parts)-1])
	}
}

func TestBuildRequestPOST(t *testing.T) {
	p := loadSpec(t)
	rb := NewRequestBuilder(p)

	opDetails, err := p.OperationDetails("/briefs", "POST")
	if err != nil {
		t.Fatalf("Failed to get operation details: %v", err)
	}

	req, err := rb.BuildRequest(opDetails, "http://localhost:8080/v1")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("Expected method POST, got %s", req.Method)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json content type, got %s", ct)
	}

	if req.Body == nil {
		t.Fatal("Expected a request body")
	}
	var payload map[string]any
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		t.Fatalf("Request body is not valid JSON: %v", err)
	}
	for _, name := range []string{"title", "cadence", "settings"} {
		if _, ok := payload[name]; !ok {
			t.Errorf("Expected required property %s in the generated body", name)
		}
	}
}

func TestBuildRequestDELETEHasNoBody(t *testing.T) {
	p := loadSpec(t)
	rb := NewRequestBuilder(p)

	opDetails, err := p.OperationDetails("/briefs/{briefId}", "DELETE")
	if err != nil {
		t.Fatalf("Failed to get operation details: %v", err)
	}

	req, err := rb.BuildRequest(opDetails, "http://localhost:8080/v1")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if req.Method != "DELETE" {
		t.Errorf("Expected method DELETE, got %s", req.Method)
	}
	if req.Body != nil {
		t.Error("Expected no body on DELETE")
	}
}

func TestBuildRequestDefaultHeaders(t *testing.T) {
	p := loadSpec(t)
	rb := NewRequestBuilder(p)

	opDetails, err := p.OperationDetails("/health", "GET")
	if err != nil {
		t.Fatalf("Failed to get operation details: %v", err)
	}

	req, err := rb.BuildRequest(opDetails, "http://localhost:8080/v1")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if req.Header.Get("Accept") != "application/json" {
		t.Error("Expected Accept header")
	}
	if req.Header.Get("User-Agent") == "" {
		t.Error("Expected User-Agent header")
	}
}

func TestBuildRequestNilDetails(t *testing.T) {
	rb := NewRequestBuilder(loadSpec(t))

	if _, err := rb.BuildRequest(nil, "http://localhost"); err == nil {
		t.Error("Expected error for nil operation details")
	}
}
