// Package generator produces example payloads that satisfy a schema.
// Generated values are meant to round-trip: whatever comes out of
// GenerateValue passes structural validation against the same schema.
package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phillipboles/aci-contract/internal/parser"
)

// Generator builds example values from schemas. References are resolved
// through the parser the generator was constructed with.
type Generator struct {
	parser *parser.Parser
	rng    *rand.Rand
}

func New(p *parser.Parser) *Generator {
	return &Generator{
		parser: p,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeeded builds a generator with a fixed random source, for
// reproducible output.
func NewSeeded(p *parser.Parser, seed int64) *Generator {
	return &Generator{
		parser: p,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// GenerateNamed generates an example for a component schema by name.
func (g *Generator) GenerateNamed(name string) (any, error) {
	resolved, err := g.parser.ResolveNamed(name)
	if err != nil {
		return nil, err
	}
	return g.generate(resolved), nil
}

// GenerateValue generates an example satisfying the schema. The schema
// may contain $ref nodes; they are resolved first.
func (g *Generator) GenerateValue(schema *parser.Schema) (any, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	resolved, err := g.parser.ResolveSchema(schema)
	if err != nil {
		return nil, err
	}
	return g.generate(resolved), nil
}

// generate assumes a resolved tree. Precedence: example, default, enum,
// combinators, then the declared type with its constraints.
func (g *Generator) generate(s *parser.Schema) any {
	if s == nil {
		return nil
	}
	if s.Example != nil {
		return s.Example
	}
	if s.Default != nil {
		return s.Default
	}
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	if len(s.AllOf) > 0 {
		return g.generate(mergeAllOf(s))
	}
	if len(s.OneOf) > 0 {
		return g.generate(s.OneOf[0])
	}
	if len(s.AnyOf) > 0 {
		return g.generate(s.AnyOf[0])
	}

	switch s.Type {
	case parser.TypeString:
		return g.generateString(s)
	case parser.TypeInteger, parser.TypeNumber:
		return g.generateNumber(s)
	case parser.TypeBoolean:
		return true
	case parser.TypeArray:
		return g.generateArray(s)
	case parser.TypeObject:
		return g.generateObject(s)
	}

	if s.Format != "" {
		return g.generateFromFormat(s.Format)
	}
	return ""
}

func (g *Generator) generateString(s *parser.Schema) string {
	if s.Format != "" {
		if str, ok := g.generateFromFormat(s.Format).(string); ok {
			return str
		}
	}

	// No regex synthesis; a fixed token covers the usual slug and word
	// patterns, and schemas with stricter patterns should carry examples.
	if s.Pattern != "" {
		return "test-string"
	}

	minLength := 0
	maxLength := 10
	if s.MinLength != nil {
		minLength = *s.MinLength
	}
	if s.MaxLength != nil {
		maxLength = *s.MaxLength
	}
	length := minLength
	if maxLength > minLength {
		length = minLength + g.rng.Intn(maxLength-minLength+1)
	}
	if length == 0 {
		length = 5
		if s.MaxLength != nil && *s.MaxLength < length {
			length = *s.MaxLength
		}
	}
	return strings.Repeat("a", length)
}

// generateNumber stays inside the declared bounds. Integers round up so
// a fractional minimum cannot push the value below it.
func (g *Generator) generateNumber(s *parser.Schema) any {
	min, max := 0.0, 100.0
	if s.Minimum != nil {
		min = *s.Minimum
	}
	if s.Maximum != nil {
		max = *s.Maximum
	}
	if max < min {
		max = min
	}

	value := min + g.rng.Float64()*(max-min)
	if s.Type == parser.TypeInteger {
		n := math.Ceil(value)
		if n > max {
			n = math.Floor(max)
		}
		return int(n)
	}
	return value
}

func (g *Generator) generateArray(s *parser.Schema) []any {
	minItems := 0
	maxItems := 3
	if s.MinItems != nil {
		minItems = *s.MinItems
	}
	if s.MaxItems != nil {
		maxItems = *s.MaxItems
	}
	count := minItems
	if maxItems > minItems {
		count = minItems + g.rng.Intn(maxItems-minItems+1)
	}
	if count == 0 && s.MinItems == nil {
		count = 1
	}
	if s.MaxItems != nil && count > *s.MaxItems {
		count = *s.MaxItems
	}

	result := make([]any, count)
	for i := range result {
		if s.Items != nil {
			result[i] = g.generate(s.Items)
		} else {
			result[i] = "item"
		}
	}
	return result
}

// generateObject fills every required property and flips a coin for each
// optional one.
func (g *Generator) generateObject(s *parser.Schema) map[string]any {
	result := make(map[string]any)

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if s.IsRequired(name) || g.rng.Float64() > 0.5 {
			result[name] = g.generate(s.Properties[name])
		}
	}
	return result
}

func (g *Generator) generateFromFormat(format string) any {
	switch format {
	case "date":
		return time.Now().Format("2006-01-02")
	case "date-time":
		return time.Now().Format(time.RFC3339)
	case "email":
		return "test@example.com"
	case "uri", "url":
		return "https://example.com"
	case "uuid":
		return uuid.NewString()
	case "int32":
		return int(g.rng.Int31n(1000))
	case "int64":
		return int(g.rng.Int63n(1000))
	case "float":
		return g.rng.Float64() * 100
	case "double":
		return g.rng.Float64() * 100
	default:
		return "test-value"
	}
}

// mergeAllOf flattens allOf branches into one effective object schema.
// Later branches win on property collisions; required lists concatenate.
func mergeAllOf(s *parser.Schema) *parser.Schema {
	merged := &parser.Schema{Type: s.Type}
	if merged.Type == "" {
		merged.Type = parser.TypeObject
	}
	merged.Properties = make(map[string]*parser.Schema)

	branches := append([]*parser.Schema{}, s.AllOf...)
	branches = append(branches, &parser.Schema{
		Properties: s.Properties,
		Required:   s.Required,
	})
	for _, branch := range branches {
		if branch == nil {
			continue
		}
		for name, prop := range branch.Properties {
			merged.Properties[name] = prop
		}
		merged.Required = append(merged.Required, branch.Required...)
	}
	return merged
}

// GeneratePathParameter renders a value for a path placeholder.
func (g *Generator) GeneratePathParameter(param *parser.Parameter) (string, error) {
	if param == nil {
		return "", fmt.Errorf("parameter is nil")
	}
	if param.Schema == nil {
		return "test", nil
	}
	value, err := g.GenerateValue(param.Schema)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", value), nil
}

// GenerateQueryParameter renders a value for a query parameter.
func (g *Generator) GenerateQueryParameter(param *parser.Parameter) (string, error) {
	return g.GeneratePathParameter(param)
}

// GenerateRequestBody builds a marshalled request body for an operation,
// preferring the JSON media type.
func (g *Generator) GenerateRequestBody(requestBody *parser.RequestBody) ([]byte, string, error) {
	if requestBody == nil {
		return nil, "", fmt.Errorf("request body is nil")
	}
	if len(requestBody.Content) == 0 {
		return nil, "", fmt.Errorf("no content defined in request body")
	}

	contentType := "application/json"
	media := parser.JSONContent(requestBody.Content)
	if media == nil {
		// Fall back to any declared media type, in key order.
		keys := make([]string, 0, len(requestBody.Content))
		for key := range requestBody.Content {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		contentType = keys[0]
		media = requestBody.Content[contentType]
	}
	if media == nil || media.Schema == nil {
		return nil, "", fmt.Errorf("no schema found in request body")
	}

	value, err := g.GenerateValue(media.Schema)
	if err != nil {
		return nil, "", err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return payload, contentType, nil
}
