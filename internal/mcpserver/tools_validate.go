package mcpserver

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/validation"
)

type validateRequestInput struct {
	Spec    specInput         `json:"spec"              jsonschema:"The contract document to validate against"`
	Method  string            `json:"method"            jsonschema:"HTTP method of the request (any case)"`
	Path    string            `json:"path"              jsonschema:"URL path of the request, without query string"`
	Query   string            `json:"query,omitempty"   jsonschema:"Raw query string, without the leading ?"`
	Headers map[string]string `json:"headers,omitempty" jsonschema:"Request headers"`
	Body    string            `json:"body,omitempty"    jsonschema:"Raw request body"`
}

type validateFinding struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type validateRequestOutput struct {
	Matched     bool              `json:"matched"`
	OperationID string            `json:"operationId,omitempty"`
	Valid       bool              `json:"valid"`
	ErrorCount  int               `json:"error_count"`
	Errors      []validateFinding `json:"errors,omitempty"`
	Warnings    []validateFinding `json:"warnings,omitempty"`
}

func handleValidateRequest(_ context.Context, _ *mcp.CallToolRequest, input validateRequestInput) (*mcp.CallToolResult, validateRequestOutput, error) {
	b, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), validateRequestOutput{}, nil
	}

	headers := make(http.Header, len(input.Headers))
	for name, value := range input.Headers {
		headers.Set(name, value)
	}
	req := &router.Request{
		Method:   input.Method,
		Path:     input.Path,
		RawQuery: input.Query,
		Headers:  headers,
		Body:     []byte(input.Body),
	}

	match, err := b.router.Match(input.Method, input.Path)
	if err != nil {
		if errors.Is(err, router.ErrNoRoute) || errors.Is(err, router.ErrMethodNotDeclared) {
			return nil, validateRequestOutput{
				ErrorCount: 1,
				Errors: []validateFinding{{
					Path:    "request",
					Message: "request matches no declared operation: " + err.Error(),
				}},
			}, nil
		}
		return errResult(err), validateRequestOutput{}, nil
	}

	parsed, err := b.router.ParseRequest(req, match)
	if err != nil {
		return errResult(err), validateRequestOutput{}, nil
	}

	validators, ok := b.validators.ForOperation(match.Operation)
	if !ok {
		return nil, validateRequestOutput{Matched: true, OperationID: match.Operation.ID, Valid: true}, nil
	}
	result := validators.ValidateRequest(parsed)

	output := validateRequestOutput{
		Matched:     true,
		OperationID: match.Operation.ID,
		Valid:       result.Valid,
		ErrorCount:  len(result.Errors),
	}
	output.Errors = findings(result.Errors)
	output.Warnings = findings(result.Warnings)
	return nil, output, nil
}

func findings(issues []validation.Issue) []validateFinding {
	out := makeSlice[validateFinding](len(issues))
	for _, issue := range issues {
		out = append(out, validateFinding{
			Path:     issue.Path,
			Message:  issue.Message,
			Location: issue.Location,
		})
	}
	return out
}
