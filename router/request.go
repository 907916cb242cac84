package router

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// Request is the generic request shape the router consumes: enough of an HTTP
// request to classify it, without tying callers to net/http.
type Request struct {
	// Method is the HTTP method, any case.
	Method string

	// Path is the URL path, without query string.
	Path string

	// Query holds parsed query parameters. When nil, RawQuery is parsed instead.
	Query url.Values

	// RawQuery is the raw query string, used when Query is nil.
	RawQuery string

	// Headers holds the request headers.
	Headers http.Header

	// Body is the raw request body.
	Body []byte
}

// FromHTTP projects an *http.Request into the generic Request shape, reading
// the body fully. The original request body is replaced so downstream readers
// still see it.
func FromHTTP(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "router: failed to read request body")
		}
		r.Body = io.NopCloser(strings.NewReader(string(body)))
	}
	return &Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    r.URL.Query(),
		RawQuery: r.URL.RawQuery,
		Headers:  r.Header,
		Body:     body,
	}, nil
}

// queryValues returns the parsed query map, parsing RawQuery lazily.
func (r *Request) queryValues() url.Values {
	if r.Query != nil {
		return r.Query
	}
	if r.RawQuery == "" {
		return url.Values{}
	}
	values, err := url.ParseQuery(r.RawQuery)
	if err != nil {
		return url.Values{}
	}
	return values
}

// ParsedRequest is the per-request projection of a Request against a matched
// path template: deserialized parameters per location plus the body. Created
// fresh for every request and discarded afterwards.
type ParsedRequest struct {
	Method   string
	Path     string
	Template string

	// PathParams holds path parameters, typed per declared schema where coercible.
	PathParams map[string]any

	// QueryParams holds query parameters deserialized per declared style.
	QueryParams map[string]any

	// HeaderParams holds declared header parameters, matched case-insensitively.
	HeaderParams map[string]any

	// CookieParams holds declared cookie parameters.
	CookieParams map[string]any

	// RawBody is the unmodified request body.
	RawBody []byte

	// Body is the decoded JSON body when the content type is JSON-shaped and
	// the payload parses; nil otherwise.
	Body any

	// ContentType is the media type from the Content-Type header, without
	// parameters such as charset.
	ContentType string
}

// Router resolves and parses requests against an operation table.
type Router struct {
	table        *Table
	deserializer *Deserializer
}

// New creates a Router over a built table.
func New(table *Table) *Router {
	return &Router{table: table, deserializer: NewDeserializer()}
}

// Table returns the underlying operation table.
func (r *Router) Table() *Table {
	return r.table
}

// Match resolves a request to the single best operation. See Table.Match for
// the ambiguity and error rules.
func (r *Router) Match(method, path string) (*Match, error) {
	return r.table.Match(method, path)
}

// ParseRequest produces the per-request parameter projection. When known is
// non-nil (an already-resolved match), its template and captures are used
// directly; otherwise the template is re-derived via the path matchers.
//
// Requests that match no route still parse: query and headers are projected
// with no schema-driven typing, and path parameters stay empty.
func (r *Router) ParseRequest(req *Request, known *Match) (*ParsedRequest, error) {
	if req == nil {
		return nil, errors.New("router: request cannot be nil")
	}

	if known == nil {
		if m, err := r.table.Match(req.Method, req.Path); err == nil {
			known = m
		} else if errors.Is(err, ErrMethodNotDeclared) {
			known = m // template matched; parse its captures anyway
		}
	}

	parsed := &ParsedRequest{
		Method:       req.Method,
		Path:         req.Path,
		PathParams:   make(map[string]any),
		QueryParams:  make(map[string]any),
		HeaderParams: make(map[string]any),
		CookieParams: make(map[string]any),
		RawBody:      req.Body,
		ContentType:  contentType(req.Headers),
	}

	var op *Operation
	if known != nil {
		parsed.Template = known.Template
		op = known.Operation
		for name, raw := range known.PathParams {
			parsed.PathParams[name] = raw
		}
	}

	if op != nil {
		r.parseDeclared(req, known, op, parsed)
	} else {
		r.parseUndeclared(req, parsed)
	}

	if len(parsed.RawBody) > 0 && isJSONMediaType(parsed.ContentType) {
		var body any
		if err := json.Unmarshal(parsed.RawBody, &body); err == nil {
			parsed.Body = body
		}
	}

	return parsed, nil
}

// parseDeclared projects parameters using the operation's declarations.
func (r *Router) parseDeclared(req *Request, known *Match, op *Operation, parsed *ParsedRequest) {
	for _, param := range op.ParametersIn("path") {
		if raw, ok := known.PathParams[param.Name]; ok {
			parsed.PathParams[param.Name] = r.deserializer.PathParam(raw, param)
		}
	}

	queryValues := req.queryValues()
	for _, param := range op.ParametersIn("query") {
		values, present := queryValues[param.Name]
		if !present {
			if param.Style == "deepObject" && param.Schema != nil {
				deep := r.deserializer.QueryParamDeepObject(queryValues, param.Name, param.Schema)
				if len(deep) > 0 {
					parsed.QueryParams[param.Name] = deep
				}
			}
			continue
		}
		parsed.QueryParams[param.Name] = r.deserializer.QueryParam(values, param)
	}
	// Undeclared query parameters pass through untyped.
	for name, values := range queryValues {
		if _, done := parsed.QueryParams[name]; done {
			continue
		}
		if strings.Contains(name, "[") {
			continue // deepObject component keys
		}
		if len(values) == 1 {
			parsed.QueryParams[name] = values[0]
		} else {
			parsed.QueryParams[name] = values
		}
	}

	for _, param := range op.ParametersIn("header") {
		if value := req.Headers.Get(param.Name); value != "" {
			parsed.HeaderParams[param.Name] = r.deserializer.HeaderParam(value, param)
		}
	}

	cookies := parseCookies(req.Headers)
	for _, param := range op.ParametersIn("cookie") {
		if value, ok := cookies[param.Name]; ok {
			parsed.CookieParams[param.Name] = r.deserializer.CookieParam(value, param)
		}
	}
}

// parseUndeclared projects parameters with no schema information.
func (r *Router) parseUndeclared(req *Request, parsed *ParsedRequest) {
	for name, values := range req.queryValues() {
		if len(values) == 1 {
			parsed.QueryParams[name] = values[0]
		} else {
			parsed.QueryParams[name] = values
		}
	}
	for name, value := range parseCookies(req.Headers) {
		parsed.CookieParams[name] = value
	}
}

// parseCookies extracts name/value pairs from the Cookie header.
func parseCookies(headers http.Header) map[string]string {
	out := make(map[string]string)
	if headers == nil {
		return out
	}
	fake := http.Request{Header: headers}
	for _, c := range fake.Cookies() {
		out[c.Name] = c.Value
	}
	return out
}

// contentType extracts the bare media type from the Content-Type header.
func contentType(headers http.Header) string {
	if headers == nil {
		return ""
	}
	raw := headers.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.TrimSpace(strings.ToLower(raw))
	}
	return mediaType
}

// isJSONMediaType reports whether a media type carries a JSON payload,
// covering application/json and +json suffixed types.
func isJSONMediaType(mediaType string) bool {
	if mediaType == "" {
		return false
	}
	return mediaType == "application/json" ||
		strings.HasSuffix(mediaType, "+json") ||
		strings.HasPrefix(mediaType, "application/json;")
}
