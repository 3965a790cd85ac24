package tester

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/phillipboles/aci-contract/internal/generator"
	"github.com/phillipboles/aci-contract/internal/parser"
)

// RequestBuilder turns an operation's declared inputs into a concrete
// HTTP request with generated parameter values and body.
type RequestBuilder struct {
	generator *generator.Generator
}

func NewRequestBuilder(p *parser.Parser) *RequestBuilder {
	return &RequestBuilder{
		generator: generator.New(p),
	}
}

// BuildRequest builds an HTTP request for one operation against the given
// server URL. Path placeholders are substituted, query and header
// parameters get generated values, and POST/PUT/PATCH operations with a
// declared body get a generated JSON payload.
func (rb *RequestBuilder) BuildRequest(opDetails *parser.OperationDetails, serverURL string) (*http.Request, error) {
	if opDetails == nil {
		return nil, fmt.Errorf("operation details is nil")
	}

	fullPath := opDetails.Path
	for _, param := range opDetails.Parameters {
		if param == nil || param.In != "path" {
			continue
		}
		val, err := rb.generator.GeneratePathParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to generate path parameter %s: %w", param.Name, err)
		}
		fullPath = strings.ReplaceAll(fullPath, "{"+param.Name+"}", val)
	}

	fullURL := serverURL + fullPath

	queryParams := url.Values{}
	for _, param := range opDetails.Parameters {
		if param == nil || param.In != "query" {
			continue
		}
		val, err := rb.generator.GenerateQueryParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to generate query parameter %s: %w", param.Name, err)
		}
		queryParams.Add(param.Name, val)
	}
	if len(queryParams) > 0 {
		fullURL += "?" + queryParams.Encode()
	}

	var req *http.Request
	var err error

	hasBody := opDetails.RequestBody != nil &&
		(opDetails.Method == "POST" || opDetails.Method == "PUT" || opDetails.Method == "PATCH")
	if hasBody {
		bodyBytes, contentType, err := rb.generator.GenerateRequestBody(opDetails.RequestBody)
		if err != nil {
			return nil, fmt.Errorf("failed to generate request body: %w", err)
		}
		req, err = http.NewRequest(opDetails.Method, fullURL, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
	} else {
		req, err = http.NewRequest(opDetails.Method, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aci-contract/1.0")

	for _, param := range opDetails.Parameters {
		if param == nil || param.In != "header" {
			continue
		}
		val, err := rb.generator.GenerateQueryParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to generate header parameter %s: %w", param.Name, err)
		}
		req.Header.Set(param.Name, val)
	}

	return req, nil
}
