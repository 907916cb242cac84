package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
)

const petstoreDoc = `
openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            maximum: 100
        - name: X-Request-ID
          in: header
          required: true
          schema:
            type: string
      responses:
        "200":
          description: pet list
          headers:
            X-Total-Count:
              required: true
              schema:
                type: integer
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
                  properties:
                    id:
                      type: integer
                    name:
                      type: string
                  required: [id, name]
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              properties:
                name:
                  type: string
                tag:
                  type: string
              required: [name]
      responses:
        "201":
          description: created
  /pets/{id}:
    get:
      operationId: getPetById
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: a pet
        default:
          description: error
`

func buildValidators(t *testing.T) (*router.Router, *ValidatorSet) {
	t.Helper()
	doc, err := spec.Load([]byte(petstoreDoc))
	require.NoError(t, err)
	table, err := router.NewTable(doc, "")
	require.NoError(t, err)
	set, err := NewCompiler(NewEngine()).Build(table)
	require.NoError(t, err)
	return router.New(table), set
}

func validatorsFor(t *testing.T, rt *router.Router, set *ValidatorSet, method, path string) (*OperationValidators, *router.ParsedRequest) {
	t.Helper()
	return validatorsForRequest(t, rt, set, &router.Request{Method: method, Path: path})
}

func validatorsForRequest(t *testing.T, rt *router.Router, set *ValidatorSet, req *router.Request) (*OperationValidators, *router.ParsedRequest) {
	t.Helper()
	match, err := rt.Match(req.Method, req.Path)
	require.NoError(t, err)
	parsed, err := rt.ParseRequest(req, match)
	require.NoError(t, err)
	ov, ok := set.ForOperation(match.Operation)
	require.True(t, ok)
	return ov, parsed
}

func TestValidateRequestPathParam(t *testing.T) {
	rt, set := buildValidators(t)

	tests := []struct {
		name      string
		path      string
		wantValid bool
		wantPath  string
	}{
		{name: "integer id", path: "/pets/42", wantValid: true},
		{name: "non-integer id", path: "/pets/abc", wantValid: false, wantPath: "path.id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov, parsed := validatorsFor(t, rt, set, "GET", tt.path)
			result := ov.ValidateRequest(parsed)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Nil(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantPath, result.Errors[0].Path)
			assert.Equal(t, "path", result.Errors[0].Location)
		})
	}
}

func TestValidateRequestQueryParam(t *testing.T) {
	rt, set := buildValidators(t)
	headers := http.Header{"X-Request-Id": []string{"req-1"}}

	t.Run("within maximum", func(t *testing.T) {
		ov, parsed := validatorsForRequest(t, rt, set, &router.Request{
			Method: "GET", Path: "/pets", RawQuery: "limit=10", Headers: headers,
		})
		result := ov.ValidateRequest(parsed)
		assert.True(t, result.Valid)
		assert.Nil(t, result.Errors)
	})

	t.Run("above maximum", func(t *testing.T) {
		ov, parsed := validatorsForRequest(t, rt, set, &router.Request{
			Method: "GET", Path: "/pets", RawQuery: "limit=500", Headers: headers,
		})
		result := ov.ValidateRequest(parsed)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "query.limit", result.Errors[0].Path)
	})

	t.Run("wrong type", func(t *testing.T) {
		ov, parsed := validatorsForRequest(t, rt, set, &router.Request{
			Method: "GET", Path: "/pets", RawQuery: "limit=banana", Headers: headers,
		})
		result := ov.ValidateRequest(parsed)
		assert.False(t, result.Valid)
	})
}

func TestValidateRequestRequiredHeader(t *testing.T) {
	rt, set := buildValidators(t)

	ov, parsed := validatorsForRequest(t, rt, set, &router.Request{
		Method: "GET", Path: "/pets",
	})
	result := ov.ValidateRequest(parsed)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "header", result.Errors[0].Location)
}

func TestValidateRequestBody(t *testing.T) {
	rt, set := buildValidators(t)
	jsonHeaders := http.Header{"Content-Type": []string{"application/json"}}

	tests := []struct {
		name      string
		headers   http.Header
		body      string
		wantValid bool
		wantMsg   string
	}{
		{
			name:      "valid body",
			headers:   jsonHeaders,
			body:      `{"name": "Garfield", "tag": "cat"}`,
			wantValid: true,
		},
		{
			name:    "missing required property",
			headers: jsonHeaders,
			body:    `{"tag": "cat"}`,
		},
		{
			name:    "malformed json",
			headers: jsonHeaders,
			body:    `{"name": `,
			wantMsg: "request body is not valid JSON",
		},
		{
			name:    "missing required body",
			headers: jsonHeaders,
			wantMsg: "request body is required",
		},
		{
			name:    "undeclared content type",
			headers: http.Header{"Content-Type": []string{"text/plain"}},
			body:    `hello`,
			wantMsg: `content type "text/plain" is not declared for this operation`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov, parsed := validatorsForRequest(t, rt, set, &router.Request{
				Method: "POST", Path: "/pets", Headers: tt.headers, Body: []byte(tt.body),
			})
			result := ov.ValidateRequest(parsed)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Nil(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, "body", result.Errors[0].Location)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, result.Errors[0].Message)
			}
		})
	}
}

func TestUndeclaredBodyIsAdvisory(t *testing.T) {
	rt, set := buildValidators(t)
	ov, parsed := validatorsForRequest(t, rt, set, &router.Request{
		Method:  "GET",
		Path:    "/pets/42",
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body:    []byte(`{"unexpected": true}`),
	})

	result := ov.ValidateRequest(parsed)
	assert.True(t, result.Valid)
	assert.Nil(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "declares none")
}

func TestErrorsNilExactlyWhenValid(t *testing.T) {
	rt, set := buildValidators(t)

	ov, parsed := validatorsFor(t, rt, set, "GET", "/pets/7")
	result := ov.ValidateRequest(parsed)
	require.True(t, result.Valid)
	assert.Nil(t, result.Errors)

	ov, parsed = validatorsFor(t, rt, set, "GET", "/pets/seven")
	result = ov.ValidateRequest(parsed)
	require.False(t, result.Valid)
	assert.NotNil(t, result.Errors)
}

func TestValidateResponse(t *testing.T) {
	rt, set := buildValidators(t)
	ov, _ := validatorsForRequest(t, rt, set, &router.Request{
		Method: "GET", Path: "/pets", Headers: http.Header{"X-Request-Id": []string{"r"}},
	})

	t.Run("conforming body", func(t *testing.T) {
		result := ov.ValidateResponse(200, []map[string]any{
			{"id": 1, "name": "Garfield"},
		})
		assert.True(t, result.Valid)
	})

	t.Run("violating body", func(t *testing.T) {
		result := ov.ValidateResponse(200, []map[string]any{
			{"id": "one"},
		})
		assert.False(t, result.Valid)
	})

	t.Run("undeclared status without default", func(t *testing.T) {
		result := ov.ValidateResponse(404, nil)
		assert.False(t, result.Valid)
	})
}

func TestValidateResponseDefaultFallback(t *testing.T) {
	rt, set := buildValidators(t)
	ov, _ := validatorsFor(t, rt, set, "GET", "/pets/1")

	// getPetById declares 200 and default; 503 falls through to default.
	result := ov.ValidateResponse(503, map[string]any{"message": "down"})
	assert.True(t, result.Valid)
}

func TestValidateResponseHeaders(t *testing.T) {
	rt, set := buildValidators(t)
	ov, _ := validatorsForRequest(t, rt, set, &router.Request{
		Method: "GET", Path: "/pets", Headers: http.Header{"X-Request-Id": []string{"r"}},
	})

	tests := []struct {
		name      string
		headers   http.Header
		mode      SetMatch
		wantValid bool
	}{
		{
			name:      "any mode ignores missing declared",
			headers:   http.Header{},
			mode:      SetMatchAny,
			wantValid: true,
		},
		{
			name:      "any mode checks declared value",
			headers:   http.Header{"X-Total-Count": []string{"banana"}},
			mode:      SetMatchAny,
			wantValid: false,
		},
		{
			name:      "superset flags missing required",
			headers:   http.Header{"X-Extra": []string{"1"}},
			mode:      SetMatchSuperset,
			wantValid: false,
		},
		{
			name:      "superset allows extras",
			headers:   http.Header{"X-Total-Count": []string{"3"}, "X-Extra": []string{"1"}},
			mode:      SetMatchSuperset,
			wantValid: true,
		},
		{
			name:      "subset flags undeclared",
			headers:   http.Header{"X-Extra": []string{"1"}},
			mode:      SetMatchSubset,
			wantValid: false,
		},
		{
			name:      "exact accepts the declared set",
			headers:   http.Header{"X-Total-Count": []string{"3"}},
			mode:      SetMatchExact,
			wantValid: true,
		},
		{
			name:      "exact flags extras",
			headers:   http.Header{"X-Total-Count": []string{"3"}, "X-Extra": []string{"1"}},
			mode:      SetMatchExact,
			wantValid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ov.ValidateResponseHeaders(tt.headers, HeaderOptions{Code: 200, SetMatch: tt.mode})
			assert.Equal(t, tt.wantValid, result.Valid)
		})
	}
}

func TestCompilerCoversAllOperations(t *testing.T) {
	doc, err := spec.Load([]byte(petstoreDoc))
	require.NoError(t, err)
	table, err := router.NewTable(doc, "")
	require.NoError(t, err)
	set, err := NewCompiler(nil).Build(table)
	require.NoError(t, err)
	assert.Equal(t, len(table.Operations()), set.Len())
}
