package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is the decoded form of an OpenAPI 3.x specification file. It is
// read-only after parsing; resolution and validation build their own trees
// and never write back into it.
type Document struct {
	OpenAPI    string               `yaml:"openapi" json:"openapi"`
	Info       *Info                `yaml:"info,omitempty" json:"info,omitempty"`
	Servers    []*Server            `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths      map[string]*PathItem `yaml:"paths,omitempty" json:"paths,omitempty"`
	Components *Components          `yaml:"components,omitempty" json:"components,omitempty"`
}

type Info struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`
}

type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Components struct {
	Schemas map[string]*Schema `yaml:"schemas,omitempty" json:"schemas,omitempty"`
}

// PathItem groups the operations declared on one path template. Parameters
// listed at this level apply to every operation under the path.
type PathItem struct {
	Get        *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Post       *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Put        *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Patch      *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Delete     *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Head       *Operation   `yaml:"head,omitempty" json:"head,omitempty"`
	Options    *Operation   `yaml:"options,omitempty" json:"options,omitempty"`
	Parameters []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Operation is one method on one path as declared in the document.
// Responses are keyed by status code string ("200"), status range ("4xx")
// or "default".
type Operation struct {
	OperationID string               `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string               `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string             `yaml:"tags,omitempty" json:"tags,omitempty"`
	Parameters  []*Parameter         `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   map[string]*Response `yaml:"responses,omitempty" json:"responses,omitempty"`
	Deprecated  bool                 `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}

// Parameter describes a path, query, header or cookie input.
type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	In          string  `yaml:"in" json:"in"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

type MediaType struct {
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example any     `yaml:"example,omitempty" json:"example,omitempty"`
}

type Response struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

type Header struct {
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// MatchResponse finds the declared response for a status code: an exact
// match first, then the NXX range form, then "default".
func MatchResponse(responses map[string]*Response, statusCode int) *Response {
	if responses == nil {
		return nil
	}
	if r, ok := responses[strconv.Itoa(statusCode)]; ok {
		return r
	}
	rangeKey := fmt.Sprintf("%dxx", statusCode/100)
	if r, ok := responses[rangeKey]; ok {
		return r
	}
	if r, ok := responses[strings.ToUpper(rangeKey)]; ok {
		return r
	}
	return responses["default"]
}

// JSONContent picks the JSON media type out of a content map, preferring
// the canonical application/json key.
func JSONContent(content map[string]*MediaType) *MediaType {
	if content == nil {
		return nil
	}
	if mt, ok := content["application/json"]; ok {
		return mt
	}
	for key, mt := range content {
		if strings.Contains(key, "json") {
			return mt
		}
	}
	return nil
}
