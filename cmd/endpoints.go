/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phillipboles/aci-contract/internal/parser"
)

// endpointsCmd represents the endpoints command
var endpointsCmd = &cobra.Command{
	Use:   "endpoints [spec-file]",
	Short: "List endpoints declared in a specification",
	Long: `List every endpoint declared in an OpenAPI specification.

Endpoints are printed one per line with their method, path, operation ID,
parameter count and tags, sorted by path. Use --filter and --tags to
narrow the list.

Examples:
  # List all endpoints
  aci-contract endpoints newsletter-api.yaml

  # Only the approval endpoints
  aci-contract endpoints newsletter-api.yaml --filter /approvals

  # Only operations tagged "briefs"
  aci-contract endpoints newsletter-api.yaml --tags briefs`,
	Args: cobra.ExactArgs(1),
	Run:  runEndpoints,
}

func runEndpoints(cmd *cobra.Command, args []string) {
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
		return
	}

	fmt.Printf("%s %s\n", white(p.Title()), cyan(p.InfoVersion()))
	fmt.Printf("Server: %s\n\n", baseURL)

	fmt.Printf("%-8s %-45s %-30s %-7s %s\n", "METHOD", "PATH", "OPERATION ID", "PARAMS", "TAGS")
	fmt.Println(strings.Repeat("-", 100))

	for _, op := range filteredOps {
		path := op.Path
		if len(path) > 43 {
			path = path[:40] + "..."
		}

		params := "-"
		if details, err := p.OperationDetails(op.Path, op.Method); err == nil {
			params = strconv.Itoa(len(details.Parameters))
		}

		fmt.Printf("%-8s %-45s %-30s %-7s %s\n",
			op.Method, path, op.OperationID, params, strings.Join(op.Tags, ", "))
	}

	fmt.Printf("\n%d operations\n", len(filteredOps))
}

func init() {
	rootCmd.AddCommand(endpointsCmd)

	endpointsCmd.Flags().StringVar(&serverURL, "server", "", "Override server URL from the specification")
	endpointsCmd.Flags().StringVar(&filter, "filter", "", "Filter endpoints by path pattern or operation ID")
	endpointsCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by tags")
}
