package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/oasgate/oasgate/internal/naming"
)

// OperationsFlags contains flags for the operations command
type OperationsFlags struct {
	Spec   string
	Lint   bool
	Format string
}

// SetupOperationsFlags creates and configures a FlagSet for the operations
// command.
func SetupOperationsFlags() (*flag.FlagSet, *OperationsFlags) {
	fs := flag.NewFlagSet("operations", flag.ContinueOnError)
	flags := &OperationsFlags{}

	fs.StringVar(&flags.Spec, "spec", "", "path to the contract document (required)")
	fs.BoolVar(&flags.Lint, "lint", false, "report structural lint findings and fail on errors")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasgate operations -spec <file> [flags]\n\n")
		Writef(fs.Output(), "List the operations a contract document declares, in declaration order.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasgate operations -spec openapi.yaml\n")
		Writef(fs.Output(), "  oasgate operations -spec openapi.yaml -lint\n")
		Writef(fs.Output(), "  oasgate operations -spec openapi.yaml -format json | jq '.[].operationId'\n")
	}

	return fs, flags
}

type operationRow struct {
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	SuggestedID string `json:"suggestedId,omitempty" yaml:"suggestedId,omitempty"`
	Method      string `json:"method" yaml:"method"`
	Path        string `json:"path" yaml:"path"`
	Parameters  int    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	HasBody     bool   `json:"hasBody,omitempty" yaml:"hasBody,omitempty"`
}

// HandleOperations executes the operations command
func HandleOperations(args []string) error {
	fs, flags := SetupOperationsFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	doc, table, err := loadTable(flags.Spec)
	if err != nil {
		return err
	}

	if flags.Lint {
		if reportLint(doc) {
			return fmt.Errorf("document has lint errors")
		}
	}

	var rows []operationRow
	for _, op := range table.Operations() {
		row := operationRow{
			OperationID: op.ID,
			Method:      op.Method,
			Path:        op.Path,
			Parameters:  len(op.Parameters),
			HasBody:     op.RequestBody != nil,
		}
		if op.ID == "" {
			row.SuggestedID = naming.SuggestOperationID(op.Method, op.Path)
		}
		rows = append(rows, row)
	}

	if flags.Format != FormatText {
		return OutputStructured(rows, flags.Format)
	}

	Writef(os.Stderr, "Operations: %d\n\n", len(rows))
	for _, row := range rows {
		id := row.OperationID
		if id == "" {
			id = fmt.Sprintf("(no operationId; suggested %q)", row.SuggestedID)
		}
		Writef(os.Stdout, "%-8s %-40s %s\n", row.Method, row.Path, id)
	}
	return nil
}
