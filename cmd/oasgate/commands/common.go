// Package commands provides CLI command handlers for oasgate.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// loadTable loads a contract document and builds its operation table. Shared
// by every command that takes a -spec flag.
func loadTable(specPath string) (*spec.Document, *router.Table, error) {
	if specPath == "" {
		return nil, nil, fmt.Errorf("the -spec flag is required")
	}
	doc, err := spec.LoadFile(specPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading document: %w", err)
	}
	table, err := router.NewTable(doc, "")
	if err != nil {
		return nil, nil, fmt.Errorf("building operation table: %w", err)
	}
	return doc, table, nil
}

// reportLint prints lint findings to stderr. Returns true when any finding is
// error severity.
func reportLint(doc *spec.Document) bool {
	findings := spec.Lint(doc)
	for _, issue := range findings {
		Writef(os.Stderr, "  %s\n", issue.String())
	}
	return spec.HasErrors(findings)
}
