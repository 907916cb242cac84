package validation

import (
	"encoding/json"
	"fmt"

	"github.com/oasgate/oasgate/router"
)

// ValidateRequest checks a parsed request against the operation's declared
// parameters and request body. Findings report in a fixed order: path, query,
// header, cookie parameters, then body. Structural problems with the message
// (malformed JSON, missing required body, undeclared content type) are
// findings in the Result, never Go errors.
func (ov *OperationValidators) ValidateRequest(parsed *router.ParsedRequest) Result {
	if parsed == nil {
		return newResult([]Issue{errorIssue("", "request", "request cannot be nil")})
	}

	var found []Issue
	for _, location := range paramLocations {
		lv, ok := ov.params[location]
		if !ok {
			continue
		}
		found = append(found, lv.schema.Validate(paramValues(parsed, location), location, location)...)
	}
	found = append(found, ov.validateBody(parsed)...)
	return newResult(found)
}

// paramValues selects the parsed parameter map for one location.
func paramValues(parsed *router.ParsedRequest, location string) map[string]any {
	switch location {
	case "path":
		return parsed.PathParams
	case "query":
		return parsed.QueryParams
	case "header":
		return parsed.HeaderParams
	case "cookie":
		return parsed.CookieParams
	default:
		return nil
	}
}

// validateBody applies the declared request body constraints. A body on an
// operation that declares none is advisory only.
func (ov *OperationValidators) validateBody(parsed *router.ParsedRequest) []Issue {
	body := ov.op.RequestBody
	if body == nil {
		if len(parsed.RawBody) > 0 {
			return []Issue{warnIssue("body", "body", "request has a body but the operation declares none")}
		}
		return nil
	}

	if len(parsed.RawBody) == 0 {
		if body.Required {
			return []Issue{errorIssue("body", "body", "request body is required")}
		}
		return nil
	}

	if parsed.ContentType == "" {
		return []Issue{errorIssue("body", "body", "request has a body but no content type")}
	}

	media, declared := body.Content[parsed.ContentType]
	if !declared {
		return []Issue{errorIssue("body", "body",
			fmt.Sprintf("content type %q is not declared for this operation", parsed.ContentType))}
	}

	if !isJSONMediaType(parsed.ContentType) || media == nil || media.Schema == nil {
		// Non-JSON payloads and schemaless media types pass as-is.
		return nil
	}

	if !json.Valid(parsed.RawBody) {
		return []Issue{errorIssue("body", "body", "request body is not valid JSON")}
	}

	compiled, ok := ov.body[parsed.ContentType]
	if !ok {
		return nil
	}
	return compiled.Validate(parsed.Body, "body", "body")
}
