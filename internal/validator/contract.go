package validator

import (
	"fmt"
	"strconv"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/parser"
)

// Validator checks payloads against the named schemas and operations of
// one specification document. Construct one per document and pass it
// around; it keeps no state beyond the parser it was built with.
type Validator struct {
	parser *parser.Parser
}

func New(p *parser.Parser) *Validator {
	return &Validator{parser: p}
}

// ValidateSchema checks a decoded payload against a named component
// schema. An unknown name yields an invalid report with a single entry
// naming it; a broken reference inside the schema is returned as an
// error.
func (v *Validator) ValidateSchema(name string, payload any) (*models.ValidationReport, error) {
	if _, ok := v.parser.SchemaByName(name); !ok {
		report := models.NewValidationReport()
		report.AddError(models.ValidationError{
			Message: fmt.Sprintf("schema %q is not defined in the specification", name),
		})
		return report, nil
	}
	resolved, err := v.parser.ResolveNamed(name)
	if err != nil {
		return nil, err
	}
	return ValidateValue(payload, resolved), nil
}

// ValidateRequestBody checks a decoded payload against the JSON request
// body contract of an operation. Operations without a request body or
// without a JSON media type accept anything.
func (v *Validator) ValidateRequestBody(operationID string, payload any) (*models.ValidationReport, error) {
	details, err := v.parser.OperationByID(operationID)
	if err != nil {
		return unknownOperation(operationID), nil
	}
	if details.RequestBody == nil {
		return models.NewValidationReport(), nil
	}
	media := parser.JSONContent(details.RequestBody.Content)
	if media == nil || media.Schema == nil {
		return models.NewValidationReport(), nil
	}
	resolved, err := v.parser.ResolveSchema(media.Schema)
	if err != nil {
		return nil, err
	}
	return ValidateValue(payload, resolved), nil
}

// ValidateResponse checks a decoded response body against the contract an
// operation declares for a status code. A status the operation does not
// declare yields an invalid report; a declared response without a JSON
// schema accepts anything.
func (v *Validator) ValidateResponse(operationID string, statusCode int, payload any) (*models.ValidationReport, error) {
	details, err := v.parser.OperationByID(operationID)
	if err != nil {
		return unknownOperation(operationID), nil
	}
	response := parser.MatchResponse(details.Responses, statusCode)
	if response == nil {
		report := models.NewValidationReport()
		report.AddError(models.ValidationError{
			Message:  fmt.Sprintf("status %d is not declared for operation %q", statusCode, operationID),
			Received: strconv.Itoa(statusCode),
		})
		return report, nil
	}
	media := parser.JSONContent(response.Content)
	if media == nil || media.Schema == nil {
		return models.NewValidationReport(), nil
	}
	resolved, err := v.parser.ResolveSchema(media.Schema)
	if err != nil {
		return nil, err
	}
	return ValidateValue(payload, resolved), nil
}

func unknownOperation(operationID string) *models.ValidationReport {
	report := models.NewValidationReport()
	report.AddError(models.ValidationError{
		Message: fmt.Sprintf("operation %q is not defined in the specification", operationID),
	})
	return report
}
