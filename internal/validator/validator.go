// Package validator checks decoded JSON/YAML payloads against resolved
// schema trees. Every violation found in one pass is reported; validation
// never stops at the first error.
package validator

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/parser"
)

// ValidateValue walks a decoded payload against a resolved schema and
// accumulates every violation. The schema must not contain unresolved
// $ref nodes; resolve it through the owning parser first.
func ValidateValue(value any, schema *parser.Schema) *models.ValidationReport {
	report := models.NewValidationReport()
	walk(value, schema, "", report)
	return report
}

func walk(value any, s *parser.Schema, path string, report *models.ValidationReport) {
	if s == nil {
		return
	}

	// Combinator branches apply on top of whatever the node itself
	// declares.
	for _, branch := range s.AllOf {
		walk(value, branch, path, report)
	}
	if len(s.AnyOf) > 0 {
		walkAnyOf(value, s.AnyOf, path, report)
	}
	if len(s.OneOf) > 0 {
		walkOneOf(value, s.OneOf, path, report)
	}

	if value == nil {
		if s.Nullable || s.Type == "" {
			return
		}
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("expected %s, got null", s.Type),
			Expected: s.Type,
			Received: "null",
		})
		return
	}

	switch s.Type {
	case parser.TypeObject:
		walkObject(value, s, path, report)
	case parser.TypeArray:
		walkArray(value, s, path, report)
	case parser.TypeString:
		walkString(value, s, path, report)
	case parser.TypeNumber, parser.TypeInteger:
		walkNumber(value, s, path, report)
	case parser.TypeBoolean:
		if _, ok := value.(bool); !ok {
			report.AddError(typeMismatch(path, parser.TypeBoolean, value))
		}
	default:
		// No declared type places no constraint on the value.
	}
}

func walkObject(value any, s *parser.Schema, path string, report *models.ValidationReport) {
	obj, ok := value.(map[string]any)
	if !ok {
		report.AddError(typeMismatch(path, parser.TypeObject, value))
		return
	}

	// One entry per missing required property.
	for _, name := range s.Required {
		if _, present := obj[name]; !present {
			report.AddError(models.ValidationError{
				Field:   joinPath(path, name),
				Message: "required property is missing",
			})
		}
	}

	// Properties declared in the schema and present in the payload are
	// checked recursively, in name order so reports are stable.
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		propValue, present := obj[name]
		if !present {
			continue
		}
		walk(propValue, s.Properties[name], joinPath(path, name), report)
	}
}

func walkArray(value any, s *parser.Schema, path string, report *models.ValidationReport) {
	arr, ok := value.([]any)
	if !ok {
		report.AddError(typeMismatch(path, parser.TypeArray, value))
		return
	}

	if s.MinItems != nil && len(arr) < *s.MinItems {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("expected at least %d items, got %d", *s.MinItems, len(arr)),
			Expected: fmt.Sprintf("minItems %d", *s.MinItems),
			Received: strconv.Itoa(len(arr)),
		})
	}
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("expected at most %d items, got %d", *s.MaxItems, len(arr)),
			Expected: fmt.Sprintf("maxItems %d", *s.MaxItems),
			Received: strconv.Itoa(len(arr)),
		})
	}

	if s.Items != nil {
		for i, element := range arr {
			walk(element, s.Items, fmt.Sprintf("%s[%d]", path, i), report)
		}
	}
}

func walkString(value any, s *parser.Schema, path string, report *models.ValidationReport) {
	str, ok := value.(string)
	if !ok {
		report.AddError(typeMismatch(path, parser.TypeString, value))
		return
	}

	length := utf8.RuneCountInString(str)
	if s.MinLength != nil && length < *s.MinLength {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("length %d is below the minimum %d", length, *s.MinLength),
			Expected: fmt.Sprintf("minLength %d", *s.MinLength),
			Received: fmt.Sprintf("length %d", length),
		})
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("length %d is above the maximum %d", length, *s.MaxLength),
			Expected: fmt.Sprintf("maxLength %d", *s.MaxLength),
			Received: fmt.Sprintf("length %d", length),
		})
	}

	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			report.AddError(models.ValidationError{
				Field:   path,
				Message: fmt.Sprintf("schema pattern %q does not compile: %v", s.Pattern, err),
			})
		} else if !re.MatchString(str) {
			report.AddError(models.ValidationError{
				Field:    path,
				Message:  fmt.Sprintf("value does not match pattern %q", s.Pattern),
				Expected: "pattern " + s.Pattern,
				Received: strconv.Quote(str),
			})
		}
	}

	if len(s.Enum) > 0 && !enumContains(s.Enum, str) {
		report.AddError(enumViolation(path, s.Enum, strconv.Quote(str)))
	}
}

func walkNumber(value any, s *parser.Schema, path string, report *models.ValidationReport) {
	num, ok := toFloat(value)
	if !ok {
		report.AddError(typeMismatch(path, s.Type, value))
		return
	}

	if s.Type == parser.TypeInteger && num != math.Trunc(num) {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  "expected an integer, got a fractional number",
			Expected: parser.TypeInteger,
			Received: formatNumber(num),
		})
	}
	if s.Minimum != nil && num < *s.Minimum {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("value %s is below the minimum %s", formatNumber(num), formatNumber(*s.Minimum)),
			Expected: ">= " + formatNumber(*s.Minimum),
			Received: formatNumber(num),
		})
	}
	if s.Maximum != nil && num > *s.Maximum {
		report.AddError(models.ValidationError{
			Field:    path,
			Message:  fmt.Sprintf("value %s is above the maximum %s", formatNumber(num), formatNumber(*s.Maximum)),
			Expected: "<= " + formatNumber(*s.Maximum),
			Received: formatNumber(num),
		})
	}

	if len(s.Enum) > 0 && !enumContains(s.Enum, value) {
		report.AddError(enumViolation(path, s.Enum, formatNumber(num)))
	}
}

// walkAnyOf passes when at least one branch accepts the value.
func walkAnyOf(value any, branches []*parser.Schema, path string, report *models.ValidationReport) {
	for _, branch := range branches {
		probe := models.NewValidationReport()
		walk(value, branch, path, probe)
		if probe.Valid {
			return
		}
	}
	report.AddError(models.ValidationError{
		Field:   path,
		Message: fmt.Sprintf("value does not match any of the %d anyOf variants", len(branches)),
	})
}

// walkOneOf requires exactly one branch to accept the value.
func walkOneOf(value any, branches []*parser.Schema, path string, report *models.ValidationReport) {
	matches := 0
	for _, branch := range branches {
		probe := models.NewValidationReport()
		walk(value, branch, path, probe)
		if probe.Valid {
			matches++
		}
	}
	switch {
	case matches == 1:
	case matches == 0:
		report.AddError(models.ValidationError{
			Field:   path,
			Message: fmt.Sprintf("value does not match any of the %d oneOf variants", len(branches)),
		})
	default:
		report.AddError(models.ValidationError{
			Field:   path,
			Message: fmt.Sprintf("value matches %d oneOf variants, expected exactly one", matches),
		})
	}
}

func typeMismatch(path, want string, value any) models.ValidationError {
	got := typeName(value)
	return models.ValidationError{
		Field:    path,
		Message:  fmt.Sprintf("expected %s, got %s", want, got),
		Expected: want,
		Received: got,
	}
}

func enumViolation(path string, enum []any, received string) models.ValidationError {
	permitted := enumList(enum)
	return models.ValidationError{
		Field:    path,
		Message:  "value must be one of " + permitted,
		Expected: "one of " + permitted,
		Received: received,
	}
}

// enumList renders the permitted values for an enum violation message.
func enumList(enum []any) string {
	parts := make([]string, len(enum))
	for i, member := range enum {
		if s, ok := member.(string); ok {
			parts[i] = strconv.Quote(s)
		} else {
			parts[i] = fmt.Sprintf("%v", member)
		}
	}
	return strings.Join(parts, ", ")
}

// enumContains compares with numeric tolerance so that an enum declared
// with YAML integers still matches a JSON-decoded float64.
func enumContains(enum []any, value any) bool {
	for _, member := range enum {
		if member == value {
			return true
		}
		mf, mok := toFloat(member)
		vf, vok := toFloat(value)
		if mok && vok && mf == vf {
			return true
		}
	}
	return false
}

// toFloat widens any numeric representation the YAML and JSON decoders
// produce. Booleans and strings do not coerce.
func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func formatNumber(num float64) string {
	return strconv.FormatFloat(num, 'f', -1, 64)
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		if _, ok := toFloat(value); ok {
			return "number"
		}
		return fmt.Sprintf("%T", value)
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
