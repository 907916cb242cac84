package commands

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/oasgate/oasgate/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasgate mcp\n\n")
		Writef(fs.Output(), "Run the MCP server over stdio. The server exposes the operations, match,\n")
		Writef(fs.Output(), "validate_request, and mock_response tools; contract documents are supplied\n")
		Writef(fs.Output(), "per tool call by file path or inline content.\n\n")
		Writef(fs.Output(), "Defaults are configurable via OASGATE_* environment variables; see the\n")
		Writef(fs.Output(), "server instructions emitted on startup.\n")
	}

	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
