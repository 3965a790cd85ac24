package parser

import (
	"errors"
	"testing"
)

func TestRefName(t *testing.T) {
	if got := RefName("#/components/schemas/Brief"); got != "Brief" {
		t.Errorf("Expected Brief, got %s", got)
	}
	if got := RefName("#/components/responses/NotFound"); got != "" {
		t.Errorf("Expected empty name for a non-schema reference, got %s", got)
	}
	if got := RefName("Brief"); got != "" {
		t.Errorf("Expected empty name for a bare string, got %s", got)
	}
}

func TestResolveNamedFlattensRefs(t *testing.T) {
	p, err := ParseFile("../../testdata/newsletter-api.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	resolved, err := p.ResolveNamed("Brief")
	if err != nil {
		t.Fatalf("Failed to resolve Brief: %v", err)
	}

	cadence := resolved.Properties["cadence"]
	if cadence == nil {
		t.Fatal("Expected cadence property")
	}
	if cadence.Ref != "" {
		t.Errorf("Expected cadence reference to be resolved, still has ref %q", cadence.Ref)
	}
	if len(cadence.Enum) != 3 {
		t.Errorf("Expected the resolved Cadence enum, got %v", cadence.Enum)
	}

	settings := resolved.Properties["settings"]
	if settings == nil || settings.Ref != "" {
		t.Fatal("Expected settings to be resolved in place")
	}
	maxBlocks := settings.Properties["max_blocks"]
	if maxBlocks == nil || maxBlocks.Type != TypeInteger {
		t.Fatal("Expected max_blocks integer schema inside resolved settings")
	}
	if maxBlocks.Minimum == nil || *maxBlocks.Minimum != 1 {
		t.Error("Expected max_blocks minimum 1 to survive resolution")
	}

	// Two levels down: blocks -> ContentBlock -> citations -> Citation.
	blocks := resolved.Properties["blocks"]
	if blocks == nil || blocks.Items == nil {
		t.Fatal("Expected blocks array with items")
	}
	citations := blocks.Items.Properties["citations"]
	if citations == nil || citations.Items == nil {
		t.Fatal("Expected citations array inside resolved ContentBlock")
	}
	if citations.Items.Properties["url"] == nil {
		t.Error("Expected the Citation schema to be fully expanded")
	}
}

func TestResolveNamedAllOf(t *testing.T) {
	p, err := ParseFile("../../testdata/newsletter-api.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	resolved, err := p.ResolveNamed("BriefPage")
	if err != nil {
		t.Fatalf("Failed to resolve BriefPage: %v", err)
	}

	if len(resolved.AllOf) != 2 {
		t.Fatalf("Expected 2 allOf branches, got %d", len(resolved.AllOf))
	}
	if resolved.AllOf[0].Properties["page"] == nil {
		t.Error("Expected the Page branch to be expanded")
	}
	items := resolved.AllOf[1].Properties["items"]
	if items == nil || items.Items == nil || items.Items.Properties["title"] == nil {
		t.Error("Expected items to contain the expanded Brief schema")
	}
}

func TestResolveSchemaUnknownRef(t *testing.T) {
	p, err := ParseFile("../../testdata/newsletter-api.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	_, err = p.ResolveSchema(&Schema{Ref: "#/components/schemas/Ghost"})
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound, got: %v", err)
	}

	_, err = p.ResolveSchema(&Schema{Ref: "#/components/responses/NotFound"})
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound for an unsupported reference, got: %v", err)
	}
}

func TestResolveNamedUnknown(t *testing.T) {
	p, err := ParseFile("../../testdata/newsletter-api.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	_, err = p.ResolveNamed("Ghost")
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound, got: %v", err)
	}
}

func TestResolveCyclicReference(t *testing.T) {
	p, err := ParseFile("../../testdata/cyclic.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	// Thread -> Message -> Thread.
	_, err = p.ResolveNamed("Thread")
	if !errors.Is(err, ErrCyclicReference) {
		t.Errorf("Expected ErrCyclicReference for Thread, got: %v", err)
	}

	// Category references itself through parent.
	_, err = p.ResolveNamed("Category")
	if !errors.Is(err, ErrCyclicReference) {
		t.Errorf("Expected ErrCyclicReference for Category, got: %v", err)
	}
}

func TestResolveSharedRefIsNotACycle(t *testing.T) {
	// Two properties referencing the same schema is a diamond, not a
	// cycle, and must resolve.
	doc := []byte(`
openapi: 3.0.3
info:
  title: Diamond API
  version: 1.0.0
components:
  schemas:
    Pair:
      type: object
      properties:
        left:
          $ref: '#/components/schemas/Leaf'
        right:
          $ref: '#/components/schemas/Leaf'
    Leaf:
      type: object
      properties:
        value:
          type: string
`)
	p, err := ParseBytes(doc)
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	resolved, err := p.ResolveNamed("Pair")
	if err != nil {
		t.Fatalf("Expected the diamond to resolve, got: %v", err)
	}
	if resolved.Properties["left"].Properties["value"] == nil {
		t.Error("Expected left branch to be expanded")
	}
	if resolved.Properties["right"].Properties["value"] == nil {
		t.Error("Expected right branch to be expanded")
	}
}

func TestResolveDoesNotMutateDocument(t *testing.T) {
	p, err := ParseFile("../../testdata/newsletter-api.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	resolved, err := p.ResolveNamed("Brief")
	if err != nil {
		t.Fatalf("Failed to resolve Brief: %v", err)
	}

	// The document still carries the raw reference.
	raw, _ := p.SchemaByName("Brief")
	if raw.Properties["settings"].Ref != "#/components/schemas/BriefSettings" {
		t.Errorf("Expected the document schema to keep its $ref after resolution, got %q",
			raw.Properties["settings"].Ref)
	}

	// Writing into the resolved tree must not leak into a second resolve.
	resolved.Properties["settings"].Required = append(resolved.Properties["settings"].Required, "audience")

	again, err := p.ResolveNamed("Brief")
	if err != nil {
		t.Fatalf("Failed to resolve Brief a second time: %v", err)
	}
	for _, name := range again.Properties["settings"].Required {
		if name == "audience" {
			t.Error("Mutating a resolved tree leaked into the document")
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	p, err := ParseFile("../../testdata/newsletter-api.yaml")
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	once, err := p.ResolveNamed("CreateBriefRequest")
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}

	// A resolved tree has no refs left, so resolving it again is a
	// structural no-op.
	twice, err := p.ResolveSchema(once)
	if err != nil {
		t.Fatalf("Failed to re-resolve: %v", err)
	}

	if len(twice.Required) != len(once.Required) {
		t.Error("Re-resolving changed the required list")
	}
	if len(twice.Properties) != len(once.Properties) {
		t.Error("Re-resolving changed the property set")
	}
	if twice.Properties["settings"].Properties["max_blocks"] == nil {
		t.Error("Re-resolving lost nested structure")
	}
}
