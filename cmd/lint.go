/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phillipboles/aci-contract/internal/lint"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [spec-file]",
	Short: "Lint an OpenAPI specification",
	Long: `Lint an OpenAPI specification for structural problems.

The document is parsed and checked for issues that tend to break
downstream tooling: operations without an operationId, duplicated
operation IDs, and schemas that are declared but never referenced.

Errors fail the lint run with exit code 1; warnings are reported but
do not affect the exit code.

Examples:
  aci-contract lint newsletter-api.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runLint,
}

func runLint(cmd *cobra.Command, args []string) {
	specFile := args[0]

	result, err := lint.File(specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if result.Title != "" {
		fmt.Printf("%s %s\n\n", white(result.Title), cyan(result.Version))
	}

	for _, issue := range result.Issues {
		var marker string
		switch issue.Severity {
		case lint.SeverityError:
			marker = red("error")
		case lint.SeverityWarning:
			marker = yellow("warning")
		}
		if issue.Path != "" {
			fmt.Printf("%s  %s: %s\n", marker, issue.Path, issue.Message)
		} else {
			fmt.Printf("%s  %s\n", marker, issue.Message)
		}
	}

	errors := result.Errors()
	warnings := result.Warnings()

	if len(result.Issues) > 0 {
		fmt.Println()
	}

	if errors > 0 {
		fmt.Printf("%s (%d errors, %d warnings)\n", red("FAIL"), errors, warnings)
		os.Exit(1)
	}

	fmt.Printf("%s (%d warnings)\n", green("OK"), warnings)
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
