package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/oasgate/oasgate/mock"
)

// MockFlags contains flags for the mock command
type MockFlags struct {
	Spec        string
	OperationID string
	Code        string
	MediaType   string
	Example     string
	Format      string
}

// SetupMockFlags creates and configures a FlagSet for the mock command.
func SetupMockFlags() (*flag.FlagSet, *MockFlags) {
	fs := flag.NewFlagSet("mock", flag.ContinueOnError)
	flags := &MockFlags{}

	fs.StringVar(&flags.Spec, "spec", "", "path to the contract document (required)")
	fs.StringVar(&flags.OperationID, "op", "", "operationId to synthesize a response for (required)")
	fs.StringVar(&flags.Code, "code", "", "requested response code key, e.g. 404")
	fs.StringVar(&flags.MediaType, "media-type", "", "requested media type")
	fs.StringVar(&flags.Example, "example", "", "requested named example")
	fs.StringVar(&flags.Format, "format", FormatYAML, "output format: json or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasgate mock -spec <file> -op <operationId> [flags]\n\n")
		Writef(fs.Output(), "Synthesize a mock response from the operation's declared examples and schemas.\n")
		Writef(fs.Output(), "Selection is deterministic: requested code, else lowest 2xx, else default,\n")
		Writef(fs.Output(), "else first declared; named example, else inline, else first named, else\n")
		Writef(fs.Output(), "schema synthesis.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasgate mock -spec openapi.yaml -op getPetById\n")
		Writef(fs.Output(), "  oasgate mock -spec openapi.yaml -op listPets -code 404\n")
		Writef(fs.Output(), "  oasgate mock -spec openapi.yaml -op listPets -example garfield -format json\n")
	}

	return fs, flags
}

type mockRow struct {
	Status int `json:"status" yaml:"status"`
	Mock   any `json:"mock" yaml:"mock"`
}

// HandleMock executes the mock command
func HandleMock(args []string) error {
	fs, flags := SetupMockFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.OperationID == "" {
		fs.Usage()
		return fmt.Errorf("the -op flag is required")
	}
	if flags.Format != FormatJSON && flags.Format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", flags.Format, FormatJSON, FormatYAML)
	}

	_, table, err := loadTable(flags.Spec)
	if err != nil {
		return err
	}

	resp, err := mock.NewSelector(table).ForOperation(flags.OperationID, mock.Options{
		Code:      flags.Code,
		MediaType: flags.MediaType,
		Example:   flags.Example,
	})
	if err != nil {
		return err
	}

	return OutputStructured(mockRow{Status: resp.Status, Mock: resp.Mock}, flags.Format)
}
