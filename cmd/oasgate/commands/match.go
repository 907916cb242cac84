package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/oasgate/oasgate/router"
)

// MatchFlags contains flags for the match command
type MatchFlags struct {
	Spec   string
	Method string
	Format string
}

// SetupMatchFlags creates and configures a FlagSet for the match command.
func SetupMatchFlags() (*flag.FlagSet, *MatchFlags) {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	flags := &MatchFlags{}

	fs.StringVar(&flags.Spec, "spec", "", "path to the contract document (required)")
	fs.StringVar(&flags.Method, "X", "GET", "HTTP method of the request")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasgate match -spec <file> [-X METHOD] <path>\n\n")
		Writef(fs.Output(), "Resolve an HTTP method and path to the operation that would serve it.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasgate match -spec openapi.yaml /pets/1\n")
		Writef(fs.Output(), "  oasgate match -spec openapi.yaml -X POST /pets\n")
		Writef(fs.Output(), "  oasgate match -spec openapi.yaml -format json /pets/1 | jq '.operationId'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    The request resolves to an operation\n")
		Writef(fs.Output(), "  1    No route, or the route declares no such method\n")
	}

	return fs, flags
}

type matchRow struct {
	Matched     bool              `json:"matched" yaml:"matched"`
	Reason      string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	OperationID string            `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Template    string            `json:"template,omitempty" yaml:"template,omitempty"`
	PathParams  map[string]string `json:"pathParams,omitempty" yaml:"pathParams,omitempty"`
}

// HandleMatch executes the match command
func HandleMatch(args []string) error {
	fs, flags := SetupMatchFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("match command requires exactly one request path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	_, table, err := loadTable(flags.Spec)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	row := matchRow{}
	match, err := table.Match(flags.Method, path)
	switch {
	case err == nil:
		row.Matched = true
		row.OperationID = match.Operation.ID
		row.Template = match.Template
		row.PathParams = match.PathParams
	case errors.Is(err, router.ErrMethodNotDeclared):
		row.Reason = "method_not_declared"
		row.Template = match.Template
		row.PathParams = match.PathParams
	case errors.Is(err, router.ErrNoRoute):
		row.Reason = "no_route"
	default:
		return err
	}

	if flags.Format != FormatText {
		if err := OutputStructured(row, flags.Format); err != nil {
			return err
		}
		if !row.Matched {
			os.Exit(1)
		}
		return nil
	}

	if !row.Matched {
		Writef(os.Stdout, "✗ %s %s: %s\n", flags.Method, path, row.Reason)
		os.Exit(1)
	}
	Writef(os.Stdout, "✓ %s %s -> %s (%s)\n", flags.Method, path, row.OperationID, row.Template)
	for name, value := range row.PathParams {
		Writef(os.Stdout, "  %s = %s\n", name, value)
	}
	return nil
}
