package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasgate/oasgate/mock"
)

type mockResponseInput struct {
	Spec        specInput `json:"spec"                 jsonschema:"The contract document to mock from"`
	OperationID string    `json:"operationId"          jsonschema:"The operationId to synthesize a response for"`
	Code        string    `json:"code,omitempty"       jsonschema:"Requested response code key, e.g. 404"`
	MediaType   string    `json:"media_type,omitempty" jsonschema:"Requested media type"`
	Example     string    `json:"example,omitempty"    jsonschema:"Requested named example"`
}

type mockResponseOutput struct {
	Status int `json:"status"`
	Mock   any `json:"mock"`
}

func handleMockResponse(_ context.Context, _ *mcp.CallToolRequest, input mockResponseInput) (*mcp.CallToolResult, mockResponseOutput, error) {
	b, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), mockResponseOutput{}, nil
	}

	resp, err := b.selector.ForOperation(input.OperationID, mock.Options{
		Code:      input.Code,
		MediaType: input.MediaType,
		Example:   input.Example,
	})
	if err != nil {
		return errResult(err), mockResponseOutput{}, nil
	}
	return nil, mockResponseOutput{Status: resp.Status, Mock: resp.Mock}, nil
}
