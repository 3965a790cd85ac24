package models

// ValidationError is a single contract violation found in a payload. Field
// is a dotted path from the payload root, with [i] marking array indices
// ("blocks[2].claim_id"); the root itself is the empty path. Expected and
// Received carry the machine-readable sides of the mismatch when the
// violation has them.
type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

func (e ValidationError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationReport collects every violation found in one validation pass.
// A report starts valid and flips on the first recorded error.
type ValidationReport struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// NewValidationReport returns an empty, valid report.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{Valid: true}
}

// AddError records a violation and marks the report invalid.
func (r *ValidationReport) AddError(err ValidationError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// Merge folds another report's errors into this one.
func (r *ValidationReport) Merge(other *ValidationReport) {
	if other == nil {
		return
	}
	for _, err := range other.Errors {
		r.AddError(err)
	}
}

// FieldErrors returns the errors recorded against one field path.
func (r *ValidationReport) FieldErrors(field string) []ValidationError {
	var out []ValidationError
	for _, err := range r.Errors {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}
