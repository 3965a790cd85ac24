/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phillipboles/aci-contract/internal/generator"
	"github.com/phillipboles/aci-contract/internal/llm"
	"github.com/phillipboles/aci-contract/internal/parser"
)

var (
	mockSchema    string
	mockOperation string
	mockStatus    int
	mockRequest   bool
	mockRealistic bool
	mockSeed      int64
)

// mockCmd represents the mock command
var mockCmd = &cobra.Command{
	Use:   "mock [spec-file]",
	Short: "Generate a mock payload from a specification",
	Long: `Generate a mock payload that satisfies a schema in the specification.

The payload is built from the schema's own constraints: examples and
defaults are used when present, enums pick their first member, and
string and numeric bounds are respected. The result always passes
validation against the same schema.

With --realistic the payload is produced by a language model instead
and checked against the schema before it is printed; if the model's
payload fails the contract the schema-driven generator takes over.

Examples:
  # Mock a component schema
  aci-contract mock newsletter-api.yaml --schema BriefSettings

  # Mock the 200 response of an operation
  aci-contract mock newsletter-api.yaml --operation listBriefs

  # Mock a request body with a fixed seed
  aci-contract mock newsletter-api.yaml --operation createBrief --request --seed 42

  # Ask a model for plausible values (needs ACIC_LLM_API_KEY or OPENAI_API_KEY)
  aci-contract mock newsletter-api.yaml --schema BriefSettings --realistic`,
	Args: cobra.ExactArgs(1),
	Run:  runMock,
}

func runMock(cmd *cobra.Command, args []string) {
	specFile := args[0]

	if mockSchema == "" && mockOperation == "" {
		fmt.Fprintln(os.Stderr, "Error: either --schema or --operation is required")
		os.Exit(1)
	}
	if mockSchema != "" && mockOperation != "" {
		fmt.Fprintln(os.Stderr, "Error: --schema and --operation are mutually exclusive")
		os.Exit(1)
	}

	p, err := parser.ParseFile(specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing specification: %v\n", err)
		os.Exit(1)
	}

	resolved, description, err := mockTarget(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	payload, err := buildMockPayload(p, resolved, description)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating payload: %v\n", err)
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding payload: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

// mockTarget resolves the schema the mock should satisfy, plus a short
// description used as model context in realistic mode.
func mockTarget(p *parser.Parser) (*parser.Schema, string, error) {
	if mockSchema != "" {
		resolved, err := p.ResolveNamed(mockSchema)
		if err != nil {
			return nil, "", err
		}
		description := mockSchema
		if resolved.Description != "" {
			description = fmt.Sprintf("%s (%s)", mockSchema, resolved.Description)
		}
		return resolved, description, nil
	}

	details, err := p.OperationByID(mockOperation)
	if err != nil {
		return nil, "", err
	}

	var media *parser.MediaType
	var description string

	if mockRequest {
		if details.RequestBody == nil {
			return nil, "", fmt.Errorf("operation %q declares no request body", mockOperation)
		}
		media = parser.JSONContent(details.RequestBody.Content)
		description = fmt.Sprintf("request body of %s %s", details.Method, details.Path)
	} else {
		response := parser.MatchResponse(details.Responses, mockStatus)
		if response == nil {
			return nil, "", fmt.Errorf("status %d is not declared for operation %q", mockStatus, mockOperation)
		}
		media = parser.JSONContent(response.Content)
		description = fmt.Sprintf("%d response of %s %s", mockStatus, details.Method, details.Path)
	}

	if media == nil || media.Schema == nil {
		return nil, "", fmt.Errorf("no JSON schema declared for %s", description)
	}

	resolved, err := p.ResolveSchema(media.Schema)
	if err != nil {
		return nil, "", err
	}
	if details.Operation != nil && details.Operation.Summary != "" {
		description = fmt.Sprintf("%s (%s)", description, details.Operation.Summary)
	}
	return resolved, description, nil
}

func buildMockPayload(p *parser.Parser, resolved *parser.Schema, description string) (any, error) {
	var gen *generator.Generator
	if mockSeed != 0 {
		gen = generator.NewSeeded(p, mockSeed)
	} else {
		gen = generator.New(p)
	}

	if !mockRealistic {
		return gen.GenerateValue(resolved)
	}

	config := llmConfigFromViper()
	if !config.Enabled() {
		return nil, fmt.Errorf("--realistic needs an API key (set ACIC_LLM_API_KEY or OPENAI_API_KEY)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	examples := llm.NewExampleGenerator(llm.NewOpenAI(config))
	payload, err := examples.RealisticExample(ctx, description, resolved)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: model generation failed (%v), falling back to schema-driven values\n", err)
		return gen.GenerateValue(resolved)
	}
	return payload, nil
}

func init() {
	rootCmd.AddCommand(mockCmd)

	mockCmd.Flags().StringVar(&mockSchema, "schema", "", "Component schema name to mock")
	mockCmd.Flags().StringVar(&mockOperation, "operation", "", "Operation ID to mock")
	mockCmd.Flags().IntVar(&mockStatus, "status", 200, "Response status code (with --operation)")
	mockCmd.Flags().BoolVar(&mockRequest, "request", false, "Mock the request body (with --operation)")
	mockCmd.Flags().BoolVar(&mockRealistic, "realistic", false, "Use a language model for plausible values")
	mockCmd.Flags().Int64Var(&mockSeed, "seed", 0, "Seed for deterministic output (0 = random)")
}
