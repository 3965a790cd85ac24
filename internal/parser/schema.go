package parser

// Schema type names the structural rules know about. A schema with any
// other type, or no type at all, places no constraint on the value.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Schema is one node of a schema tree. A node with Ref set is a pointer
// into components.schemas and its structural fields are not meaningful
// until the pointer is resolved.
type Schema struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Nullable    bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`

	// object
	Properties map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required   []string           `yaml:"required,omitempty" json:"required,omitempty"`

	// array
	Items    *Schema `yaml:"items,omitempty" json:"items,omitempty"`
	MinItems *int    `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems *int    `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`

	// string
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// number and integer, bounds inclusive
	Minimum *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`

	Enum    []any `yaml:"enum,omitempty" json:"enum,omitempty"`
	Example any   `yaml:"example,omitempty" json:"example,omitempty"`
	Default any   `yaml:"default,omitempty" json:"default,omitempty"`

	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
}

// IsRef reports whether the node is an unresolved pointer.
func (s *Schema) IsRef() bool { return s != nil && s.Ref != "" }

// IsRequired reports whether name appears in the object schema's required
// list.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// clone copies the node itself. Slice fields get fresh backing arrays;
// child schemas are left for the caller to rebuild.
func (s *Schema) clone() *Schema {
	out := *s
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Enum != nil {
		out.Enum = append([]any(nil), s.Enum...)
	}
	return &out
}
