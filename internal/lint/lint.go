// Package lint checks a specification document for well-formedness and
// common authoring mistakes before contract runs.
package lint

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Severity of a lint finding. Errors fail the document; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one lint finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

// Result of linting one document.
type Result struct {
	Valid   bool    `json:"valid"`
	Version string  `json:"version,omitempty"`
	Title   string  `json:"title,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}

func (r *Result) add(severity Severity, path, format string, args ...any) {
	if severity == SeverityError {
		r.Valid = false
	}
	r.Issues = append(r.Issues, Issue{
		Severity: severity,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errors counts error-severity findings.
func (r *Result) Errors() int { return r.count(SeverityError) }

// Warnings counts warning-severity findings.
func (r *Result) Warnings() int { return r.count(SeverityWarning) }

func (r *Result) count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// File lints a document on disk.
func File(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification file: %w", err)
	}
	return Bytes(data), nil
}

// Bytes lints a document in memory. A document that does not parse or
// build is reported through the result, not as a Go error: broken input
// is the finding, not a failure of the linter.
func Bytes(data []byte) *Result {
	result := &Result{Valid: true}

	document, err := libopenapi.NewDocument(data)
	if err != nil {
		result.add(SeverityError, "", "document does not parse: %v", err)
		return result
	}

	model, errs := document.BuildV3Model()
	if len(errs) > 0 {
		for _, buildErr := range errs {
			result.add(SeverityError, "", "model build failed: %v", buildErr)
		}
		return result
	}

	doc := &model.Model
	result.Version = doc.Version
	if doc.Info != nil {
		result.Title = doc.Info.Title
	}

	checkOperations(doc, result)
	checkUnusedSchemas(data, doc, result)
	return result
}

func checkOperations(doc *v3.Document, result *Result) {
	if doc.Paths == nil || doc.Paths.PathItems == nil || doc.Paths.PathItems.Len() == 0 {
		result.add(SeverityWarning, "paths", "document declares no paths")
		return
	}

	// operationId -> "METHOD path" of its first declaration
	seen := map[string]string{}
	for pair := doc.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()
		if item == nil {
			continue
		}

		ops := []struct {
			method string
			op     *v3.Operation
		}{
			{"GET", item.Get},
			{"POST", item.Post},
			{"PUT", item.Put},
			{"PATCH", item.Patch},
			{"DELETE", item.Delete},
			{"HEAD", item.Head},
			{"OPTIONS", item.Options},
		}

		declared := 0
		for _, entry := range ops {
			if entry.op == nil {
				continue
			}
			declared++
			where := entry.method + " " + path
			if entry.op.OperationId == "" {
				result.add(SeverityWarning, where, "operation has no operationId")
				continue
			}
			if prev, dup := seen[entry.op.OperationId]; dup {
				result.add(SeverityError, where, "operationId %q already used by %s", entry.op.OperationId, prev)
			} else {
				seen[entry.op.OperationId] = where
			}
		}
		if declared == 0 {
			result.add(SeverityWarning, path, "path declares no operations")
		}
	}
}

// checkUnusedSchemas flags component schemas nothing in the document
// points at. The raw bytes are searched for the reference string, which
// covers refs from paths and from other schemas alike.
func checkUnusedSchemas(data []byte, doc *v3.Document, result *Result) {
	if doc.Components == nil || doc.Components.Schemas == nil {
		return
	}
	for pair := doc.Components.Schemas.First(); pair != nil; pair = pair.Next() {
		name := pair.Key()
		ref := []byte("#/components/schemas/" + name)
		if !bytes.Contains(data, ref) {
			result.add(SeverityWarning, "components.schemas."+name, "schema is never referenced")
		}
	}
}
