// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasgate capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasgate/oasgate"
)

const serverInstructions = `oasgate MCP server: resolves, validates, and mocks requests against OpenAPI contract documents.

Configuration: All defaults are configurable via OASGATE_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASGATE_CACHE_FILE_TTL (default: 15m): cache TTL for local file specs
- OASGATE_CACHE_ENABLED (default: true): disable document caching entirely
- OASGATE_OPERATIONS_LIMIT (default: 100): default result limit for the operations tool
- OASGATE_MAX_INLINE_SIZE (default: 4MiB): maximum inline content size

Caching: Compiled documents (operation table + validators) are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		bundleCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasgate", Version: oasgate.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "operations",
		Description: "List the operations a contract document declares. Filter by method or path substring. Returns operationId, method, path, and parameter counts in document declaration order. Use offset/limit to paginate; the default limit is configurable via OASGATE_OPERATIONS_LIMIT.",
	}, handleOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "match",
		Description: "Resolve an HTTP method and path against a contract document. Returns the winning operation, its path template, and the captured path parameters, or the reason nothing matched (no_route vs method_not_declared).",
	}, handleMatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_request",
		Description: "Validate a request against a contract document: parameters per declared style and schema, plus the JSON body. Returns findings with dotted paths (query.limit, body.name) grouped by location. The request is matched first; an unroutable request is itself a finding.",
	}, handleValidateRequest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mock_response",
		Description: "Synthesize a mock response for an operation from its declared examples and schemas. Selection is deterministic: requested code, else lowest 2xx, else default, else first declared; named example, else inline example, else first named, else schema synthesis. Narrow with code, media_type, or example.",
	}, handleMockResponse)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.OperationsLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.OperationsLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
