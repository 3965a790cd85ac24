package tester

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/parser"
	"github.com/phillipboles/aci-contract/internal/validator"
)

// ResponseChecker holds a live HTTP response against the contract an
// operation declares: status code, required headers, content type and
// the full body structure.
type ResponseChecker struct {
	parser *parser.Parser
}

func NewResponseChecker(p *parser.Parser) *ResponseChecker {
	return &ResponseChecker{parser: p}
}

// Check returns one validation error per contract violation found in the
// response. The error return is reserved for documents whose references
// do not resolve.
func (c *ResponseChecker) Check(resp *http.Response, opDetails *parser.OperationDetails) ([]models.ValidationError, error) {
	if resp == nil {
		return []models.ValidationError{{Field: "response", Message: "response is nil"}}, nil
	}
	if opDetails == nil || opDetails.Responses == nil {
		return nil, nil
	}

	var errors []models.ValidationError

	responseDef := parser.MatchResponse(opDetails.Responses, resp.StatusCode)
	if responseDef == nil {
		errors = append(errors, models.ValidationError{
			Field:    "status_code",
			Message:  fmt.Sprintf("unexpected status code %d, not declared for this operation", resp.StatusCode),
			Received: fmt.Sprintf("%d", resp.StatusCode),
		})
		return errors, nil
	}

	for name, header := range responseDef.Headers {
		if header == nil || !header.Required {
			continue
		}
		if resp.Header.Get(name) == "" {
			errors = append(errors, models.ValidationError{
				Field:   "header." + name,
				Message: fmt.Sprintf("missing required header: %s", name),
			})
		}
	}

	if len(responseDef.Content) == 0 {
		return errors, nil
	}

	contentType := resp.Header.Get("Content-Type")
	matched := false
	for declared := range responseDef.Content {
		if strings.Contains(contentType, strings.Split(declared, ";")[0]) {
			matched = true
			break
		}
	}
	if !matched && contentType != "" {
		errors = append(errors, models.ValidationError{
			Field:    "content_type",
			Message:  fmt.Sprintf("unexpected content type: %s", contentType),
			Received: contentType,
		})
	}

	if !strings.Contains(contentType, "json") {
		return errors, nil
	}
	media := parser.JSONContent(responseDef.Content)
	if media == nil || media.Schema == nil {
		return errors, nil
	}

	var bodyData any
	if err := json.NewDecoder(resp.Body).Decode(&bodyData); err != nil {
		errors = append(errors, models.ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("failed to parse JSON response: %v", err),
		})
		return errors, nil
	}

	resolved, err := c.parser.ResolveSchema(media.Schema)
	if err != nil {
		return errors, fmt.Errorf("failed to resolve response schema: %w", err)
	}

	report := validator.ValidateValue(bodyData, resolved)
	for _, verr := range report.Errors {
		if verr.Field == "" {
			verr.Field = "body"
		} else {
			verr.Field = "body." + verr.Field
		}
		errors = append(errors, verr)
	}

	return errors, nil
}
