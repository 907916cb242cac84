package mcpserver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasgate/oasgate/router"
)

type matchInput struct {
	Spec   specInput `json:"spec"   jsonschema:"The contract document to match against"`
	Method string    `json:"method" jsonschema:"HTTP method of the request (any case)"`
	Path   string    `json:"path"   jsonschema:"URL path of the request, without query string"`
}

type matchOutput struct {
	Matched     bool              `json:"matched"`
	Reason      string            `json:"reason,omitempty"` // no_route or method_not_declared
	OperationID string            `json:"operationId,omitempty"`
	Template    string            `json:"template,omitempty"`
	PathParams  map[string]string `json:"pathParams,omitempty"`
}

func handleMatch(_ context.Context, _ *mcp.CallToolRequest, input matchInput) (*mcp.CallToolResult, matchOutput, error) {
	b, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), matchOutput{}, nil
	}

	match, err := b.router.Match(input.Method, input.Path)
	switch {
	case err == nil:
		return nil, matchOutput{
			Matched:     true,
			OperationID: match.Operation.ID,
			Template:    match.Template,
			PathParams:  match.PathParams,
		}, nil
	case errors.Is(err, router.ErrMethodNotDeclared):
		return nil, matchOutput{
			Reason:     "method_not_declared",
			Template:   match.Template,
			PathParams: match.PathParams,
		}, nil
	case errors.Is(err, router.ErrNoRoute):
		return nil, matchOutput{Reason: "no_route"}, nil
	default:
		return errResult(err), matchOutput{}, nil
	}
}
