package parser

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phillipboles/aci-contract/internal/models"
)

// methodOrder fixes the listing order of operations within one path.
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Parser holds one parsed specification document and answers questions
// about it. Construct one per document and hand it to whatever needs the
// contract; there is no package-level cache, so two suites can hold two
// documents without touching each other.
type Parser struct {
	doc *Document
}

// ParseFile loads and decodes an OpenAPI 3.x document from disk.
func ParseFile(filePath string) (*Parser, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification file: %w", err)
	}
	p, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return p, nil
}

// ParseBytes decodes an OpenAPI 3.x document from memory. YAML and JSON
// are both accepted; JSON is just YAML as far as the decoder is concerned.
func ParseBytes(data []byte) (*Parser, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode specification: %w", err)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, fmt.Errorf("unsupported specification: want an openapi 3.x version marker, got %q", doc.OpenAPI)
	}
	if len(doc.Paths) == 0 && (doc.Components == nil || len(doc.Components.Schemas) == 0) {
		return nil, fmt.Errorf("specification declares no paths and no component schemas")
	}
	return &Parser{doc: &doc}, nil
}

// Document exposes the decoded tree. Callers must treat it as read-only.
func (p *Parser) Document() *Document { return p.doc }

// Version returns the document's openapi version marker.
func (p *Parser) Version() string { return p.doc.OpenAPI }

// Title returns the document title, or "" when the info block is absent.
func (p *Parser) Title() string {
	if p.doc.Info == nil {
		return ""
	}
	return p.doc.Info.Title
}

// InfoVersion returns the API's own version from the info block, or ""
// when the info block is absent.
func (p *Parser) InfoVersion() string {
	if p.doc.Info == nil {
		return ""
	}
	return p.doc.Info.Version
}

// ServerURLs returns the declared server URLs, falling back to
// http://localhost when the document declares none.
func (p *Parser) ServerURLs() []string {
	var urls []string
	for _, server := range p.doc.Servers {
		if server != nil && server.URL != "" {
			urls = append(urls, server.URL)
		}
	}
	if len(urls) == 0 {
		return []string{"http://localhost"}
	}
	return urls
}

// Operations flattens the path tree into a list ordered by path and then
// by method, stamped with the given server URL.
func (p *Parser) Operations(serverURL string) []models.Operation {
	paths := make([]string, 0, len(p.doc.Paths))
	for path := range p.doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var operations []models.Operation
	for _, path := range paths {
		item := p.doc.Paths[path]
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			op := item.operation(method)
			if op == nil {
				continue
			}
			operations = append(operations, models.Operation{
				Path:        path,
				Method:      method,
				OperationID: op.OperationID,
				Summary:     op.Summary,
				Tags:        append([]string(nil), op.Tags...),
				ServerURL:   serverURL,
				FullPath:    serverURL + path,
			})
		}
	}
	return operations
}

// OperationDetails is the full record for one operation: the merged
// parameter list, the request body and the status-keyed response map.
type OperationDetails struct {
	Operation   *Operation
	Path        string
	Method      string
	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   map[string]*Response
}

// OperationDetails looks up one operation by path template and method.
// Path-item parameters are merged into the operation's list; an operation
// parameter with the same name and location overrides the path-item one.
func (p *Parser) OperationDetails(path, method string) (*OperationDetails, error) {
	item, ok := p.doc.Paths[path]
	if !ok || item == nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	method = strings.ToUpper(method)
	op := item.operation(method)
	if op == nil {
		return nil, fmt.Errorf("operation not found: %s %s", method, path)
	}

	return &OperationDetails{
		Operation:   op,
		Path:        path,
		Method:      method,
		Parameters:  mergeParameters(item.Parameters, op.Parameters),
		RequestBody: op.RequestBody,
		Responses:   op.Responses,
	}, nil
}

// OperationByID scans the path tree for an operationId.
func (p *Parser) OperationByID(id string) (*OperationDetails, error) {
	for _, op := range p.Operations("") {
		if op.OperationID == id {
			return p.OperationDetails(op.Path, op.Method)
		}
	}
	return nil, fmt.Errorf("operation not found: %s", id)
}

// SchemaNames returns the names declared under components.schemas, sorted.
func (p *Parser) SchemaNames() []string {
	if p.doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(p.doc.Components.Schemas))
	for name := range p.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaByName looks up a named component schema.
func (p *Parser) SchemaByName(name string) (*Schema, bool) {
	if p.doc.Components == nil {
		return nil, false
	}
	s, ok := p.doc.Components.Schemas[name]
	return s, ok
}

func (pi *PathItem) operation(method string) *Operation {
	switch method {
	case "GET":
		return pi.Get
	case "POST":
		return pi.Post
	case "PUT":
		return pi.Put
	case "PATCH":
		return pi.Patch
	case "DELETE":
		return pi.Delete
	case "HEAD":
		return pi.Head
	case "OPTIONS":
		return pi.Options
	}
	return nil
}

// mergeParameters combines path-item and operation parameters. The
// operation side wins when both declare the same name and location.
func mergeParameters(shared, own []*Parameter) []*Parameter {
	merged := make([]*Parameter, 0, len(shared)+len(own))
	merged = append(merged, shared...)
	for _, param := range own {
		replaced := false
		for i, existing := range merged {
			if existing.Name == param.Name && existing.In == param.In {
				merged[i] = param
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, param)
		}
	}
	return merged
}
