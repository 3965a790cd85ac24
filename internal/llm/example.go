package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phillipboles/aci-contract/internal/parser"
	"github.com/phillipboles/aci-contract/internal/validator"
)

// ExampleGenerator turns a resolved schema into a realistic payload by
// asking a model, then holds the reply to the same contract it was asked
// to satisfy.
type ExampleGenerator struct {
	client Client
}

func NewExampleGenerator(client Client) *ExampleGenerator {
	return &ExampleGenerator{client: client}
}

// RealisticExample asks the model for a payload satisfying the schema.
// The description gives the model domain context ("create newsletter
// configuration request"). The reply must decode as JSON and pass
// structural validation, otherwise an error is returned and the caller
// falls back to schema-driven generation.
func (g *ExampleGenerator) RealisticExample(ctx context.Context, description string, schema *parser.Schema) (any, error) {
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	prompt := fmt.Sprintf(`Generate one realistic example payload for: %s

The payload must satisfy this JSON schema (OpenAPI flavor):
%s

Rules:
- include every required property
- respect enum, pattern, length and numeric bounds
- use plausible real-world values, not placeholders`, description, schemaJSON)

	reply, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal([]byte(stripFence(reply)), &payload); err != nil {
		return nil, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	if report := validator.ValidateValue(payload, schema); !report.Valid {
		return nil, fmt.Errorf("model payload violates the contract (%d errors, first: %s)",
			len(report.Errors), report.Errors[0])
	}
	return payload, nil
}

// stripFence removes the ```json fence chat models like to wrap replies
// in.
func stripFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.LastIndex(trimmed, "```"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed)
}
