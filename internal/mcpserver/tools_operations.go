package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasgate/oasgate/internal/httputil"
	"github.com/oasgate/oasgate/internal/naming"
)

type operationsInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The contract document to list"`
	Method string    `json:"method,omitempty" jsonschema:"Filter to one HTTP method (any case)"`
	Path   string    `json:"path,omitempty"   jsonschema:"Filter to path templates containing this substring"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N operations (for pagination)"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of operations to return (default 100)"`
}

type operationSummary struct {
	OperationID string `json:"operationId,omitempty"`
	SuggestedID string `json:"suggestedId,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Parameters  int    `json:"parameters,omitempty"`
	HasBody     bool   `json:"hasBody,omitempty"`
	Responses   int    `json:"responses,omitempty"`
}

type operationsOutput struct {
	Total    int                `json:"total"`
	Returned int                `json:"returned"`
	Items    []operationSummary `json:"items,omitempty"`
}

func handleOperations(_ context.Context, _ *mcp.CallToolRequest, input operationsInput) (*mcp.CallToolResult, operationsOutput, error) {
	b, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), operationsOutput{}, nil
	}

	method := httputil.NormalizeMethod(input.Method)

	var items []operationSummary
	for _, op := range b.router.Table().Operations() {
		if method != "" && op.Method != method {
			continue
		}
		if input.Path != "" && !strings.Contains(op.Path, input.Path) {
			continue
		}
		summary := operationSummary{
			OperationID: op.ID,
			Method:      op.Method,
			Path:        op.Path,
			Parameters:  len(op.Parameters),
			HasBody:     op.RequestBody != nil,
		}
		if op.ID == "" {
			summary.SuggestedID = naming.SuggestOperationID(op.Method, op.Path)
		}
		if op.Responses != nil {
			summary.Responses = op.Responses.Len()
			if op.Responses.Default != nil {
				summary.Responses++
			}
		}
		items = append(items, summary)
	}

	output := operationsOutput{Total: len(items)}
	output.Items = paginate(items, input.Offset, input.Limit)
	output.Returned = len(output.Items)
	return nil, output, nil
}
