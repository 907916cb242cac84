package mock

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/oasgate/oasgate/internal/httputil"
	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
)

// Options narrows mock selection. Zero values mean "use the declared
// defaults"; a requested code, media type, or example that the operation does
// not declare falls through to the next selection step rather than failing.
type Options struct {
	// Code requests a specific declared response code key, e.g. "404".
	Code string

	// MediaType requests a specific declared media type.
	MediaType string

	// Example requests a specific named example.
	Example string
}

// Response is a synthesized mock: the resolved status code and the payload.
type Response struct {
	Status int
	Mock   any
}

// Selector synthesizes mock responses for the operations of one table.
type Selector struct {
	table *router.Table
}

// NewSelector creates a selector over a built operation table.
func NewSelector(table *router.Table) *Selector {
	return &Selector{table: table}
}

// ForOperation synthesizes a mock response for the operation registered under
// the given operationId. Only an unknown operationId is an error; an
// operation with no usable declarations yields {200, empty object}.
func (s *Selector) ForOperation(id string, opts Options) (*Response, error) {
	op, ok := s.table.Operation(id)
	if !ok {
		return nil, errors.Wrapf(router.ErrUnknownOperation, "%s", id)
	}
	return ForOperation(op, opts), nil
}

// ForOperation synthesizes a mock response for an already-resolved operation.
func ForOperation(op *router.Operation, opts Options) *Response {
	code, resp := selectResponse(op.Responses, opts.Code)
	if resp == nil {
		return &Response{Status: 200, Mock: map[string]any{}}
	}

	media := selectMedia(resp, opts.MediaType)
	if media == nil {
		return &Response{Status: statusFromCode(code), Mock: map[string]any{}}
	}

	return &Response{Status: statusFromCode(code), Mock: selectPayload(media, opts.Example)}
}

// selectResponse resolves the response-code key: the requested code when
// declared, else the lowest declared concrete 2xx, else default, else the
// first declared code.
func selectResponse(responses *spec.Responses, requested string) (string, *spec.Response) {
	if responses == nil {
		return "", nil
	}

	if requested != "" {
		if resp, ok := responses.Get(requested); ok {
			return requested, resp
		}
		if requested == "default" && responses.Default != nil {
			return "default", responses.Default
		}
	}

	codes := responses.Codes()
	best := ""
	for _, code := range codes {
		if !httputil.IsSuccessCode(code) {
			continue
		}
		if best == "" || numeric(code) < numeric(best) {
			best = code
		}
	}
	if best != "" {
		resp, _ := responses.Get(best)
		return best, resp
	}

	if responses.Default != nil {
		return "default", responses.Default
	}

	if len(codes) > 0 {
		resp, _ := responses.Get(codes[0])
		return codes[0], resp
	}
	return "", nil
}

// selectMedia resolves the media type: requested when declared, else
// application/json, else the first declared.
func selectMedia(resp *spec.Response, requested string) *spec.MediaType {
	if len(resp.Content) == 0 {
		return nil
	}
	if requested != "" {
		if media, ok := resp.Content[requested]; ok && media != nil {
			return media
		}
	}
	if media, ok := resp.Content["application/json"]; ok && media != nil {
		return media
	}
	for _, name := range resp.ContentNames() {
		if media := resp.Content[name]; media != nil {
			return media
		}
	}
	return nil
}

// selectPayload resolves the payload: requested named example, else inline
// example, else first declared named example, else schema synthesis.
func selectPayload(media *spec.MediaType, requested string) any {
	if requested != "" {
		if ex, ok := media.Examples[requested]; ok && ex != nil {
			return ex.Value
		}
	}
	if media.Example != nil {
		return media.Example
	}
	for _, name := range media.ExampleNames() {
		if ex := media.Examples[name]; ex != nil {
			return ex.Value
		}
	}
	return Generate(media.Schema)
}

// statusFromCode converts a response-code key to a numeric status: concrete
// codes parse directly, wildcard keys like "4XX" take the class floor, and
// "default" (or anything unparseable) maps to 200.
func statusFromCode(code string) int {
	if n, err := strconv.Atoi(code); err == nil {
		return n
	}
	if len(code) == 3 && (code[1] == 'X' || code[1] == 'x') {
		if class := int(code[0] - '0'); class >= 1 && class <= 5 {
			return class * 100
		}
	}
	return 200
}

// numeric parses a concrete code key, returning a large sentinel for
// non-numeric keys so they never win the lowest-2xx comparison.
func numeric(code string) int {
	n, err := strconv.Atoi(code)
	if err != nil {
		return 1 << 30
	}
	return n
}
