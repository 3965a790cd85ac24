package models

import "testing"

func TestNewValidationReportStartsValid(t *testing.T) {
	report := NewValidationReport()
	if !report.Valid {
		t.Error("Expected a fresh report to be valid")
	}
	if len(report.Errors) != 0 {
		t.Errorf("Expected no errors, got %d", len(report.Errors))
	}
}

func TestAddErrorFlipsValid(t *testing.T) {
	report := NewValidationReport()
	report.AddError(ValidationError{Field: "title", Message: "required property is missing"})

	if report.Valid {
		t.Error("Expected report to be invalid after an error")
	}
	if len(report.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(report.Errors))
	}
}

func TestMergeFoldsErrors(t *testing.T) {
	a := NewValidationReport()
	a.AddError(ValidationError{Field: "title", Message: "required property is missing"})

	b := NewValidationReport()
	b.AddError(ValidationError{Field: "cadence", Message: "value must be one of the enum members"})
	b.AddError(ValidationError{Field: "settings.max_blocks", Message: "value is below the minimum"})

	a.Merge(b)
	if len(a.Errors) != 3 {
		t.Errorf("Expected 3 errors after merge, got %d", len(a.Errors))
	}

	a.Merge(nil)
	if len(a.Errors) != 3 {
		t.Errorf("Merging nil should be a no-op, got %d errors", len(a.Errors))
	}

	valid := NewValidationReport()
	valid.Merge(NewValidationReport())
	if !valid.Valid {
		t.Error("Merging an empty report should not invalidate")
	}
}

func TestFieldErrors(t *testing.T) {
	report := NewValidationReport()
	report.AddError(ValidationError{Field: "title", Message: "too short"})
	report.AddError(ValidationError{Field: "title", Message: "does not match pattern"})
	report.AddError(ValidationError{Field: "cadence", Message: "not in enum"})

	if got := report.FieldErrors("title"); len(got) != 2 {
		t.Errorf("Expected 2 errors for title, got %d", len(got))
	}
	if got := report.FieldErrors("ghost"); got != nil {
		t.Errorf("Expected nil for an unknown field, got %v", got)
	}
}

func TestValidationErrorString(t *testing.T) {
	withField := ValidationError{Field: "settings.max_blocks", Message: "value is above the maximum 10"}
	if got := withField.String(); got != "settings.max_blocks: value is above the maximum 10" {
		t.Errorf("Unexpected string: %q", got)
	}

	rootLevel := ValidationError{Message: "expected object, got string"}
	if got := rootLevel.String(); got != "expected object, got string" {
		t.Errorf("Unexpected string for root error: %q", got)
	}
}
