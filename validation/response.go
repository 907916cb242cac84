package validation

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oasgate/oasgate/internal/httputil"
	"github.com/oasgate/oasgate/router"
)

// SetMatch selects how strictly response headers are compared against the
// declared set.
type SetMatch string

const (
	// SetMatchAny validates only the headers that are declared; undeclared
	// and missing headers pass.
	SetMatchAny SetMatch = "any"

	// SetMatchSuperset requires every declared required header to be present;
	// undeclared extras pass.
	SetMatchSuperset SetMatch = "superset"

	// SetMatchSubset requires every response header to be declared; missing
	// declared headers pass.
	SetMatchSubset SetMatch = "subset"

	// SetMatchExact requires the response headers and the declared set to
	// coincide: no undeclared extras, no missing required headers.
	SetMatchExact SetMatch = "exact"
)

// HeaderOptions configures response header validation.
type HeaderOptions struct {
	// Code is the response status code used to resolve the declared header set.
	Code int

	// SetMatch selects the comparison mode. Defaults to SetMatchAny.
	SetMatch SetMatch
}

// ValidateResponse checks a response body against the schema declared for the
// status code. The declared key resolves exact code first, then a matching
// wildcard key such as "2XX", then "default". A status with no declared
// response is a finding; a declared response without a JSON schema passes.
func (ov *OperationValidators) ValidateResponse(status int, body any) Result {
	key, declared := ov.resolveCode(status)
	if !declared {
		return newResult([]Issue{errorIssue("response", "response",
			fmt.Sprintf("status code %d is not declared for this operation", status))})
	}
	compiled, ok := ov.responseBody[key]
	if !ok {
		return newResult(nil)
	}
	return newResult(compiled.Validate(body, "response", "response"))
}

// ValidateResponseHeaders checks response headers against the set declared
// for the status code, coercing raw header strings per the declared schemas
// before schema validation.
func (ov *OperationValidators) ValidateResponseHeaders(headers http.Header, opts HeaderOptions) Result {
	mode := opts.SetMatch
	if mode == "" {
		mode = SetMatchAny
	}

	key, declared := ov.resolveCode(opts.Code)
	if !declared {
		return newResult([]Issue{errorIssue("headers", "headers",
			fmt.Sprintf("status code %d is not declared for this operation", opts.Code))})
	}
	declaredHeaders := ov.responseHeaders[key]

	var found []Issue

	present := make(map[string]bool, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		present[lower] = true
		hv, ok := declaredHeaders[lower]
		if !ok {
			if mode == SetMatchSubset || mode == SetMatchExact {
				found = append(found, errorIssue("headers."+name, "headers",
					fmt.Sprintf("header %q is not declared for this response", name)))
			}
			continue
		}
		if len(values) == 0 {
			continue
		}
		value := router.CoerceValue(values[0], hv.schema)
		found = append(found, hv.compiled.Validate(value, "headers", "headers."+hv.name)...)
	}

	if mode == SetMatchSuperset || mode == SetMatchExact {
		for lower, hv := range declaredHeaders {
			if hv.required && !present[lower] {
				found = append(found, errorIssue("headers."+hv.name, "headers",
					fmt.Sprintf("required header %q is missing", hv.name)))
			}
		}
	}

	return newResult(found)
}

// resolveCode maps a numeric status to the declared response-code key:
// exact match, then wildcard, then "default".
func (ov *OperationValidators) resolveCode(status int) (string, bool) {
	responses := ov.op.Responses
	if responses == nil {
		return "", false
	}
	exact := strconv.Itoa(status)
	if _, ok := responses.Get(exact); ok {
		return exact, true
	}
	for _, code := range responses.Codes() {
		if httputil.MatchWildcard(code, status) {
			return code, true
		}
	}
	if responses.Default != nil {
		return "default", true
	}
	return "", false
}
