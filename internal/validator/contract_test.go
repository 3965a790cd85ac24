package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/phillipboles/aci-contract/internal/parser"
)

func loadSpec(t *testing.T, path string) *parser.Parser {
	t.Helper()
	p, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return p
}

func validSettings() map[string]any {
	return map[string]any{
		"max_blocks":          5,
		"education_ratio_min": 0.6,
		"subject_line_style":  "question",
	}
}

func TestValidateSchemaValidPayload(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	report, err := v.ValidateSchema("BriefSettings", validSettings())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %v", report.Errors)
	}
}

func TestValidateSchemaAccumulatesThroughRefs(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	payload := map[string]any{
		"title":   "AI",
		"cadence": "daily",
		"settings": map[string]any{
			"max_blocks":          0,
			"education_ratio_min": 0.5,
			"subject_line_style":  "question",
		},
	}

	report, err := v.ValidateSchema("CreateBriefRequest", payload)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Valid {
		t.Fatal("Expected invalid report")
	}

	// Short title, bad cadence, max_blocks below its minimum.
	if len(report.Errors) != 3 {
		t.Fatalf("Expected 3 errors, got %d: %v", len(report.Errors), report.Errors)
	}

	cadenceErrors := report.FieldErrors("cadence")
	if len(cadenceErrors) != 1 {
		t.Fatalf("Expected one cadence error, got %v", report.Errors)
	}
	if !strings.Contains(cadenceErrors[0].Message, `"weekly", "bi-weekly", "monthly"`) {
		t.Errorf("Expected cadence error to cite permitted values, got: %s", cadenceErrors[0].Message)
	}

	if len(report.FieldErrors("settings.max_blocks")) != 1 {
		t.Errorf("Expected an error at settings.max_blocks, got %v", report.Errors)
	}
}

func TestValidateSchemaUnknownName(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	report, err := v.ValidateSchema("Ghost", map[string]any{})
	if err != nil {
		t.Fatalf("Unknown schema must not be a Go error, got: %v", err)
	}
	if report.Valid {
		t.Fatal("Expected invalid report")
	}
	if len(report.Errors) != 1 {
		t.Fatalf("Expected a single error, got %v", report.Errors)
	}
	if !strings.Contains(report.Errors[0].Message, `schema "Ghost" is not defined`) {
		t.Errorf("Unexpected message: %s", report.Errors[0].Message)
	}
}

func TestValidateSchemaCyclicReference(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/cyclic.yaml"))

	report, err := v.ValidateSchema("Thread", map[string]any{"id": "t-1"})
	if err == nil {
		t.Fatal("Expected a cyclic reference error")
	}
	if !errors.Is(err, parser.ErrCyclicReference) {
		t.Errorf("Expected ErrCyclicReference, got: %v", err)
	}
	if report != nil {
		t.Error("Expected no report alongside the error")
	}
}

func TestValidateRequestBody(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	payload := map[string]any{
		"title":    "Monday machine learning digest",
		"cadence":  "weekly",
		"settings": validSettings(),
	}

	report, err := v.ValidateRequestBody("createBrief", payload)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %v", report.Errors)
	}

	delete(payload, "settings")
	report, err = v.ValidateRequestBody("createBrief", payload)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Valid {
		t.Fatal("Expected invalid report")
	}
	if len(report.FieldErrors("settings")) != 1 {
		t.Errorf("Expected missing settings to be reported, got %v", report.Errors)
	}
}

func TestValidateRequestBodyUnknownOperation(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	report, err := v.ValidateRequestBody("sendCarrierPigeon", map[string]any{})
	if err != nil {
		t.Fatalf("Unknown operation must not be a Go error, got: %v", err)
	}
	if report.Valid || len(report.Errors) != 1 {
		t.Fatalf("Expected a single synthetic error, got %v", report.Errors)
	}
	if !strings.Contains(report.Errors[0].Message, `operation "sendCarrierPigeon" is not defined`) {
		t.Errorf("Unexpected message: %s", report.Errors[0].Message)
	}
}

func TestValidateRequestBodyWithoutDeclaredBody(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	// listBriefs is a GET without a request body; anything goes.
	report, err := v.ValidateRequestBody("listBriefs", map[string]any{"whatever": true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %v", report.Errors)
	}
}

func TestValidateResponse(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	brief := map[string]any{
		"id":         "5e0cb564-5090-47f3-bd39-19d1b3464f89",
		"title":      "Monday machine learning digest",
		"cadence":    "weekly",
		"settings":   validSettings(),
		"created_at": "2026-08-17T09:00:00Z",
	}

	report, err := v.ValidateResponse("getBrief", 200, brief)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %v", report.Errors)
	}

	delete(brief, "created_at")
	report, err = v.ValidateResponse("getBrief", 200, brief)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Valid || len(report.FieldErrors("created_at")) != 1 {
		t.Errorf("Expected missing created_at to be reported, got %v", report.Errors)
	}
}

func TestValidateResponseRangeStatus(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	// approveBrief declares a 4XX range response carrying Error.
	report, err := v.ValidateResponse("approveBrief", 409, map[string]any{
		"code":    "already_approved",
		"message": "brief was approved on 2026-08-16",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %v", report.Errors)
	}

	report, err = v.ValidateResponse("approveBrief", 409, map[string]any{"code": "conflict"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Valid || len(report.FieldErrors("message")) != 1 {
		t.Errorf("Expected missing message to be reported, got %v", report.Errors)
	}
}

func TestValidateResponseUndeclaredStatus(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	report, err := v.ValidateResponse("getBrief", 418, map[string]any{})
	if err != nil {
		t.Fatalf("Undeclared status must not be a Go error, got: %v", err)
	}
	if report.Valid || len(report.Errors) != 1 {
		t.Fatalf("Expected a single error, got %v", report.Errors)
	}
	if !strings.Contains(report.Errors[0].Message, "status 418 is not declared") {
		t.Errorf("Unexpected message: %s", report.Errors[0].Message)
	}
}

func TestValidateResponseNoContent(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	report, err := v.ValidateResponse("deleteBrief", 204, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected a bodyless response to pass, got %v", report.Errors)
	}
}

func TestValidateResponsePageEnvelope(t *testing.T) {
	v := New(loadSpec(t, "../../testdata/newsletter-api.yaml"))

	page := map[string]any{
		"page":     1,
		"per_page": 20,
		"total":    1,
		"items": []any{
			map[string]any{
				"id":         "5e0cb564-5090-47f3-bd39-19d1b3464f89",
				"title":      "Monday machine learning digest",
				"cadence":    "weekly",
				"settings":   validSettings(),
				"created_at": "2026-08-17T09:00:00Z",
			},
		},
	}

	report, err := v.ValidateResponse("listBriefs", 200, page)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %v", report.Errors)
	}

	// A violation inside the envelope's items is located precisely.
	page["items"].([]any)[0].(map[string]any)["cadence"] = "daily"
	report, err = v.ValidateResponse("listBriefs", 200, page)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Valid {
		t.Fatal("Expected invalid report")
	}
	if len(report.FieldErrors("items[0].cadence")) != 1 {
		t.Errorf("Expected an error at items[0].cadence, got %v", report.Errors)
	}
}
