package parser

import (
	"errors"
	"fmt"
	"strings"
)

const schemaRefPrefix = "#/components/schemas/"

var (
	// ErrSchemaNotFound reports a $ref whose target is not declared under
	// components.schemas.
	ErrSchemaNotFound = errors.New("schema reference not found")

	// ErrCyclicReference reports a $ref chain that loops back onto a
	// schema that is still being expanded.
	ErrCyclicReference = errors.New("cyclic schema reference")
)

// RefName extracts the component name from an internal schema reference,
// or "" when the reference does not point into components.schemas.
func RefName(ref string) string {
	if !strings.HasPrefix(ref, schemaRefPrefix) {
		return ""
	}
	return strings.TrimPrefix(ref, schemaRefPrefix)
}

// ResolveSchema returns a copy of s with every internal $ref replaced by
// the schema it names, applied recursively through properties, items and
// the allOf/anyOf/oneOf branches. The document and the input tree are
// never mutated. A reference to an unknown name fails with
// ErrSchemaNotFound; a reference back into a schema that is still being
// expanded fails with ErrCyclicReference.
func (p *Parser) ResolveSchema(s *Schema) (*Schema, error) {
	return p.resolve(s, map[string]bool{})
}

// ResolveNamed resolves a component schema by name.
func (p *Parser) ResolveNamed(name string) (*Schema, error) {
	s, ok := p.SchemaByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s%s", ErrSchemaNotFound, schemaRefPrefix, name)
	}
	return p.resolve(s, map[string]bool{name: true})
}

// resolve carries the set of component names currently being expanded.
// Seeing one of them again means the document's reference graph has a
// cycle under this node.
func (p *Parser) resolve(s *Schema, inProgress map[string]bool) (*Schema, error) {
	if s == nil {
		return nil, nil
	}

	if s.Ref != "" {
		name := RefName(s.Ref)
		if name == "" {
			return nil, fmt.Errorf("%w: unsupported reference %q", ErrSchemaNotFound, s.Ref)
		}
		target, ok := p.SchemaByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, s.Ref)
		}
		if inProgress[name] {
			return nil, fmt.Errorf("%w: %s", ErrCyclicReference, s.Ref)
		}
		inProgress[name] = true
		resolved, err := p.resolve(target, inProgress)
		delete(inProgress, name)
		return resolved, err
	}

	out := s.clone()
	var err error

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			if out.Properties[name], err = p.resolve(prop, inProgress); err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
		}
	}
	if s.Items != nil {
		if out.Items, err = p.resolve(s.Items, inProgress); err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
	}
	if out.AllOf, err = p.resolveBranches("allOf", s.AllOf, inProgress); err != nil {
		return nil, err
	}
	if out.AnyOf, err = p.resolveBranches("anyOf", s.AnyOf, inProgress); err != nil {
		return nil, err
	}
	if out.OneOf, err = p.resolveBranches("oneOf", s.OneOf, inProgress); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) resolveBranches(kind string, branches []*Schema, inProgress map[string]bool) ([]*Schema, error) {
	if len(branches) == 0 {
		return nil, nil
	}
	out := make([]*Schema, len(branches))
	for i, branch := range branches {
		resolved, err := p.resolve(branch, inProgress)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		out[i] = resolved
	}
	return out, nil
}
