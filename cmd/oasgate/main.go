// Command oasgate inspects OpenAPI contract documents: listing their
// operations, resolving requests against them, synthesizing mock responses,
// and serving the same capabilities over MCP.
package main

import (
	"fmt"
	"os"

	"github.com/oasgate/oasgate"
	"github.com/oasgate/oasgate/cmd/oasgate/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasgate v%s\n", oasgate.Version())
	case "help", "-h", "--help":
		printUsage()
	case "operations":
		if err := commands.HandleOperations(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "match":
		if err := commands.HandleMatch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mock":
		if err := commands.HandleMock(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`oasgate v%s - contract-driven request dispatcher

Usage: oasgate <command> [flags]

Commands:
  operations  List the operations a contract document declares
  match       Resolve an HTTP method and path to an operation
  mock        Synthesize a mock response for an operation
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Run 'oasgate <command> -h' for command-specific flags.

Examples:
  oasgate operations -spec openapi.yaml
  oasgate match -spec openapi.yaml -X GET /pets/1
  oasgate mock -spec openapi.yaml -op getPetById -code 200
  oasgate mcp
`, oasgate.Version())
}
