/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/output"
	"github.com/phillipboles/aci-contract/internal/parser"
	"github.com/phillipboles/aci-contract/internal/tester"
)

var (
	serverURL string
	filter    string
	tags      []string
	verbose   bool

	testTimeout      int
	testOutputFormat string
	testOutputFile   string
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test [spec-file]",
	Short: "Run live contract tests against a server",
	Long: `Send a generated request for every operation in the specification and
check each response against its declared contract: status code, required
headers, content type and full body structure.

Examples:
  # Test every operation against the server declared in the spec
  aci-contract test newsletter-api.yaml

  # Test against a local instance, only the approval endpoints
  aci-contract test approval-api.yaml --server http://localhost:8080 --filter approvals

  # Export results for CI
  aci-contract test newsletter-api.yaml -o json --output-file results.json`,
	Args: cobra.ExactArgs(1),
	Run:  runTest,
}

func runTest(cmd *cobra.Command, args []string) {
	specFile := args[0]

	p, err := parser.ParseFile(specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing specification: %v\n", err)
		os.Exit(1)
	}

	baseURL := resolveServerURL(p)
	operations := p.Operations(baseURL)
	filteredOps := filterOperations(operations, filter, tags)

	if len(filteredOps) == 0 {
		fmt.Println("No operations found matching the criteria")
		os.Exit(0)
	}

	fmt.Printf("Testing %d operations against %s\n\n", len(filteredOps), cyan(baseURL))

	testRunner := tester.NewTester(p, time.Duration(testTimeout)*time.Second)
	onEvent := func(event tester.TestEvent) {
		if event.Type != tester.EventCompleted || event.Result == nil {
			return
		}
		result := event.Result
		status := green("PASS")
		if !result.Passed {
			status = red("FAIL")
		}
		fmt.Printf("[%d/%d] %s %s %s (%d, %v)\n",
			event.Index+1, event.Total, status, result.Method, result.Path,
			result.StatusCode, result.ResponseTime.Round(time.Millisecond))
	}
	summary := testRunner.TestOperations(filteredOps, onEvent)

	if testOutputFormat != "" {
		format, err := output.ParseFormat(testOutputFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := output.ExportTestSummary(summary, format, testOutputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting results: %v\n", err)
			os.Exit(1)
		}
		if testOutputFile != "" {
			fmt.Printf("\nResults exported to: %s\n", testOutputFile)
		}
	}

	displayResults(summary, verbose)
}

// resolveServerURL picks the --server override, then the first server in
// the document, then the config default.
func resolveServerURL(p *parser.Parser) string {
	if serverURL != "" {
		return serverURL
	}
	if configured := viper.GetString("server"); configured != "" {
		return configured
	}
	return p.ServerURLs()[0]
}

func filterOperations(operations []models.Operation, filterStr string, tagFilters []string) []models.Operation {
	var filtered []models.Operation

	for _, op := range operations {
		if filterStr != "" {
			if !strings.Contains(op.Path, filterStr) && !strings.Contains(op.OperationID, filterStr) {
				continue
			}
		}

		if len(tagFilters) > 0 {
			found := false
			for _, filterTag := range tagFilters {
				for _, opTag := range op.Tags {
					if opTag == filterTag {
						found = true
						break
					}
				}
				if found {
					break
				}
			}
			if !found {
				continue
			}
		}

		filtered = append(filtered, op)
	}

	return filtered
}

func displayResults(summary models.TestSummary, verbose bool) {
	fmt.Printf("\n%s\n", white("=== Test Results ==="))
	fmt.Printf("Total Tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %s\n", green(summary.Passed))
	if summary.Failed > 0 {
		fmt.Printf("Failed: %s\n", red(summary.Failed))
	} else {
		fmt.Printf("Failed: %d\n", summary.Failed)
	}
	fmt.Println()

	if verbose {
		for _, result := range summary.Results {
			status := green("✓ PASS")
			if !result.Passed {
				status = red("✗ FAIL")
			}

			fmt.Printf("%s %s %s\n", status, result.Method, result.Path)
			if result.OperationID != "" {
				fmt.Printf("  Operation ID: %s\n", result.OperationID)
			}
			fmt.Printf("  Status Code: %d\n", result.StatusCode)
			fmt.Printf("  Response Time: %v\n", result.ResponseTime)

			if !result.Passed {
				if result.Error != "" {
					fmt.Printf("  Error: %s\n", result.Error)
				}
				if len(result.ValidationErrors) > 0 {
					fmt.Printf("  Validation Errors:\n")
					for _, ve := range result.ValidationErrors {
						fmt.Printf("    - %s\n", ve)
					}
				}
			}
			fmt.Println()
		}
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&serverURL, "server", "", "Override server URL from the specification")
	testCmd.Flags().StringVar(&filter, "filter", "", "Filter endpoints by path pattern or operation ID")
	testCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by tags (can be specified multiple times)")
	testCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	testCmd.Flags().IntVarP(&testTimeout, "timeout", "t", 30, "Request timeout in seconds")
	testCmd.Flags().StringVarP(&testOutputFormat, "output", "o", "", "Output format: json, csv")
	testCmd.Flags().StringVar(&testOutputFile, "output-file", "", "Write output to file (default: stdout)")
}
