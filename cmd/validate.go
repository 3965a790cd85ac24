/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/output"
	"github.com/phillipboles/aci-contract/internal/parser"
	"github.com/phillipboles/aci-contract/internal/validator"
)

var (
	validateSchema       string
	validateOperation    string
	validateStatus       int
	validateRequest      bool
	validatePayloadFile  string
	validateOutputFormat string
	validateOutputFile   string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [spec-file]",
	Short: "Validate a payload against a specification",
	Long: `Validate a JSON or YAML payload against an OpenAPI specification.

The payload is checked structurally against either a named component
schema or an operation's request or response body. Every violation is
reported, not just the first one, with the dotted path of the offending
field.

Examples:
  # Validate a payload against a component schema
  aci-contract validate newsletter-api.yaml --schema BriefSettings --payload settings.json

  # Validate a response body for an operation (status 200 by default)
  aci-contract validate newsletter-api.yaml --operation listBriefs --payload response.json

  # Validate an error response
  aci-contract validate newsletter-api.yaml --operation createBrief --status 422 --payload error.json

  # Validate a request body, reading the payload from stdin
  cat body.json | aci-contract validate newsletter-api.yaml --operation createBrief --request --payload -`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) {
	specFile := args[0]

	if validateSchema == "" && validateOperation == "" {
		fmt.Fprintln(os.Stderr, "Error: either --schema or --operation is required")
		os.Exit(1)
	}
	if validateSchema != "" && validateOperation != "" {
		fmt.Fprintln(os.Stderr, "Error: --schema and --operation are mutually exclusive")
		os.Exit(1)
	}
	if validatePayloadFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --payload is required")
		os.Exit(1)
	}

	p, err := parser.ParseFile(specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing specification: %v\n", err)
		os.Exit(1)
	}

	payload, err := readPayload(validatePayloadFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading payload: %v\n", err)
		os.Exit(1)
	}

	v := validator.New(p)

	var report *models.ValidationReport
	switch {
	case validateSchema != "":
		report, err = v.ValidateSchema(validateSchema, payload)
	case validateRequest:
		report, err = v.ValidateRequestBody(validateOperation, payload)
	default:
		report, err = v.ValidateResponse(validateOperation, validateStatus, payload)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if validateOutputFormat != "" {
		format, err := output.ParseFormat(validateOutputFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := output.ExportValidationReport(report, format, validateOutputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting report: %v\n", err)
			os.Exit(1)
		}

		if validateOutputFile != "" {
			fmt.Printf("Report exported to: %s\n", validateOutputFile)
			displayValidationReport(report)
		}
		if !report.Valid {
			os.Exit(1)
		}
		return
	}

	displayValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
}

// readPayload reads a JSON or YAML payload from a file, or from stdin
// when the path is "-". YAML is a superset of JSON, so a single decoder
// covers both.
func readPayload(path string) (any, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("payload does not parse: %w", err)
	}
	return payload, nil
}

func displayValidationReport(report *models.ValidationReport) {
	if report.Valid {
		fmt.Printf("%s\n", green("PASS"))
		return
	}

	fmt.Printf("%s (%d errors)\n\n", red("FAIL"), len(report.Errors))

	for _, ve := range report.Errors {
		fmt.Printf("  %s %s\n", red("✗"), ve.String())
		if ve.Expected != "" {
			fmt.Printf("      expected: %s\n", ve.Expected)
		}
		if ve.Received != "" {
			fmt.Printf("      received: %s\n", ve.Received)
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Component schema name to validate against")
	validateCmd.Flags().StringVar(&validateOperation, "operation", "", "Operation ID to validate against")
	validateCmd.Flags().IntVar(&validateStatus, "status", 200, "Response status code (with --operation)")
	validateCmd.Flags().BoolVar(&validateRequest, "request", false, "Validate against the request body (with --operation)")
	validateCmd.Flags().StringVar(&validatePayloadFile, "payload", "", "Payload file to validate, or - for stdin")

	validateCmd.Flags().StringVarP(&validateOutputFormat, "output", "o", "", "Output format: json, csv")
	validateCmd.Flags().StringVar(&validateOutputFile, "output-file", "", "Write output to file (default: stdout)")
}
