package router

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasgate/oasgate/spec"
)

const routerDoc = `
openapi: 3.1.0
info:
  title: Router fixtures
  version: 1.0.0
paths:
  /pets/{petId}/photos/{photoId}:
    get:
      operationId: getPetPhoto
      responses:
        "200":
          description: ok
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
          description: ok
    delete:
      operationId: deletePet
      responses:
        "204":
          description: gone
  /pets/mine:
    get:
      operationId: getMyPets
      responses:
        "200":
          description: ok
  /{entity}/{id}:
    get:
      operationId: getAnyEntity
      responses:
        "200":
          description: ok
  /pets:
    parameters:
      - name: tenant
        in: header
        schema:
          type: string
    get:
      operationId: listPets
      parameters:
        - name: tags
          in: query
          schema:
            type: array
            items:
              type: string
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        "200":
          description: ok
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
      responses:
        "201":
          description: created
`

func buildTable(t *testing.T, apiRoot string) *Table {
	t.Helper()
	doc, err := spec.Load([]byte(routerDoc))
	require.NoError(t, err)
	table, err := NewTable(doc, apiRoot)
	require.NoError(t, err)
	return table
}

func TestNewPathMatcherRejectsMalformedTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{name: "empty", template: ""},
		{name: "unclosed placeholder", template: "/pets/{id"},
		{name: "empty placeholder", template: "/pets/{}"},
		{name: "duplicate placeholder", template: "/pets/{id}/{id}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPathMatcher(tt.template, 0)
			require.Error(t, err)
		})
	}
}

func TestPathMatcherMatch(t *testing.T) {
	pm, err := NewPathMatcher("/pets/{id}", 0)
	require.NoError(t, err)

	matched, params := pm.Match("/pets/42")
	require.True(t, matched)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	matched, _ = pm.Match("/pets")
	assert.False(t, matched)
	matched, _ = pm.Match("/pets/42/photos")
	assert.False(t, matched)
	matched, _ = pm.Match("/pets/")
	assert.False(t, matched, "placeholders never match empty segments")
}

func TestMatchSpecificity(t *testing.T) {
	table := buildTable(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		wantOp string
	}{
		{name: "literal beats placeholder", method: "GET", path: "/pets/mine", wantOp: "getMyPets"},
		{name: "placeholder route", method: "GET", path: "/pets/42", wantOp: "getPetById"},
		{name: "generic placeholder fallback", method: "GET", path: "/users/9", wantOp: "getAnyEntity"},
		{name: "two placeholders", method: "GET", path: "/pets/1/photos/2", wantOp: "getPetPhoto"},
		{name: "method case-insensitive", method: "get", path: "/pets", wantOp: "listPets"},
		{name: "trailing slash normalized", method: "GET", path: "/pets/", wantOp: "listPets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := table.Match(tt.method, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOp, match.Operation.ID)
		})
	}
}

func TestMatchErrors(t *testing.T) {
	table := buildTable(t, "")

	t.Run("no route", func(t *testing.T) {
		_, err := table.Match("GET", "/there/is/no/such/route")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoRoute)
	})

	t.Run("method not declared keeps best template", func(t *testing.T) {
		match, err := table.Match("PATCH", "/pets/42")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMethodNotDeclared)
		require.NotNil(t, match)
		assert.Nil(t, match.Operation)
		assert.Equal(t, "/pets/{id}", match.Template, "most specific candidate reported")
		assert.Equal(t, map[string]string{"id": "42"}, match.PathParams)
	})

	t.Run("method on sibling candidate still wins", func(t *testing.T) {
		// DELETE is declared on /pets/{id} but not /pets/mine; the less
		// specific candidate that has the method wins over a 405.
		match, err := table.Match("DELETE", "/pets/mine")
		require.NoError(t, err)
		assert.Equal(t, "deletePet", match.Operation.ID)
	})
}

func TestMatchWithAPIRoot(t *testing.T) {
	table := buildTable(t, "/api/v1")

	match, err := table.Match("GET", "/api/v1/pets/42")
	require.NoError(t, err)
	assert.Equal(t, "getPetById", match.Operation.ID)
	assert.Equal(t, map[string]string{"id": "42"}, match.PathParams)
}

func TestTableLookups(t *testing.T) {
	table := buildTable(t, "")

	op, ok := table.Operation("createPet")
	require.True(t, ok)
	assert.Equal(t, "post", op.Method)
	assert.Equal(t, "/pets", op.Path)
	require.NotNil(t, op.RequestBody)

	_, ok = table.Operation("nope")
	assert.False(t, ok)

	byRoute, ok := table.Route("GET", "/pets")
	require.True(t, ok)
	assert.Equal(t, "listPets", byRoute.ID)

	// Path-item parameters merge into every operation.
	headers := byRoute.ParametersIn("header")
	require.Len(t, headers, 1)
	assert.Equal(t, "tenant", headers[0].Name)
}

func TestParseRequestDeclaredParams(t *testing.T) {
	table := buildTable(t, "")
	rt := New(table)

	req := &Request{
		Method:   "GET",
		Path:     "/pets",
		RawQuery: "tags=cat&tags=dog&limit=10&extra=x",
		Headers:  http.Header{"Tenant": []string{"acme"}},
	}
	parsed, err := rt.ParseRequest(req, nil)
	require.NoError(t, err)

	assert.Equal(t, "/pets", parsed.Template)
	assert.Equal(t, int64(10), parsed.QueryParams["limit"])
	assert.Equal(t, []any{"cat", "dog"}, parsed.QueryParams["tags"])
	assert.Equal(t, "x", parsed.QueryParams["extra"], "undeclared query passes through untyped")
	assert.Equal(t, "acme", parsed.HeaderParams["tenant"])
}

func TestParseRequestPathParamTyping(t *testing.T) {
	table := buildTable(t, "")
	rt := New(table)

	parsed, err := rt.ParseRequest(&Request{Method: "GET", Path: "/pets/42"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.PathParams["id"])

	// Uncoercible values stay raw strings for validation to report.
	parsed, err = rt.ParseRequest(&Request{Method: "GET", Path: "/pets/abc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", parsed.PathParams["id"])
}

func TestParseRequestBody(t *testing.T) {
	table := buildTable(t, "")
	rt := New(table)

	t.Run("json body decodes", func(t *testing.T) {
		parsed, err := rt.ParseRequest(&Request{
			Method:  "POST",
			Path:    "/pets",
			Headers: http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
			Body:    []byte(`{"name": "Garfield"}`),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "application/json", parsed.ContentType)
		assert.Equal(t, map[string]any{"name": "Garfield"}, parsed.Body)
	})

	t.Run("malformed json keeps raw body only", func(t *testing.T) {
		parsed, err := rt.ParseRequest(&Request{
			Method:  "POST",
			Path:    "/pets",
			Headers: http.Header{"Content-Type": []string{"application/json"}},
			Body:    []byte(`{"name": `),
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, parsed.Body)
		assert.Equal(t, []byte(`{"name": `), parsed.RawBody)
	})

	t.Run("non-json body is not decoded", func(t *testing.T) {
		parsed, err := rt.ParseRequest(&Request{
			Method:  "POST",
			Path:    "/pets",
			Headers: http.Header{"Content-Type": []string{"text/plain"}},
			Body:    []byte(`{"name": "x"}`),
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, parsed.Body)
	})
}

func TestParseRequestUnroutable(t *testing.T) {
	table := buildTable(t, "")
	rt := New(table)

	parsed, err := rt.ParseRequest(&Request{
		Method:   "GET",
		Path:     "/no/such/route/here",
		RawQuery: "a=1",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, parsed.Template)
	assert.Equal(t, "1", parsed.QueryParams["a"])
	assert.Empty(t, parsed.PathParams)
}

func TestFromHTTP(t *testing.T) {
	httpReq, err := http.NewRequest(http.MethodPost, "http://example.com/pets?limit=3",
		strings.NewReader(`{"name":"x"}`))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	req, err := FromHTTP(httpReq)
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/pets", req.Path)
	assert.Equal(t, []string{"3"}, req.Query["limit"])
	assert.Equal(t, []byte(`{"name":"x"}`), req.Body)

	// The original body is restored for downstream readers.
	rest := make([]byte, 12)
	n, _ := httpReq.Body.Read(rest)
	assert.Equal(t, `{"name":"x"}`, string(rest[:n]))
}

func TestDeserializerStyles(t *testing.T) {
	d := NewDeserializer()
	intSchema := &spec.Schema{Type: "integer"}
	arraySchema := &spec.Schema{Type: "array", Items: intSchema}
	objSchema := &spec.Schema{Type: "object", Properties: map[string]*spec.Schema{
		"role": {Type: "string"},
		"age":  intSchema,
	}}
	explode := func(b bool) *bool { return &b }

	t.Run("path simple array", func(t *testing.T) {
		got := d.PathParam("3,4,5", &spec.Parameter{Name: "id", Schema: arraySchema})
		assert.Equal(t, []any{int64(3), int64(4), int64(5)}, got)
	})

	t.Run("path label", func(t *testing.T) {
		got := d.PathParam(".7", &spec.Parameter{Name: "id", Style: "label", Schema: intSchema})
		assert.Equal(t, int64(7), got)
	})

	t.Run("path matrix", func(t *testing.T) {
		got := d.PathParam(";id=5", &spec.Parameter{Name: "id", Style: "matrix", Schema: intSchema})
		assert.Equal(t, int64(5), got)
	})

	t.Run("query form exploded array", func(t *testing.T) {
		got := d.QueryParam([]string{"3", "4"}, &spec.Parameter{Name: "id", Schema: arraySchema})
		assert.Equal(t, []any{int64(3), int64(4)}, got)
	})

	t.Run("query form unexploded array", func(t *testing.T) {
		got := d.QueryParam([]string{"3,4"}, &spec.Parameter{
			Name: "id", Schema: arraySchema, Explode: explode(false),
		})
		assert.Equal(t, []any{int64(3), int64(4)}, got)
	})

	t.Run("query pipeDelimited", func(t *testing.T) {
		got := d.QueryParam([]string{"3|4|5"}, &spec.Parameter{
			Name: "id", Style: "pipeDelimited", Schema: arraySchema,
		})
		assert.Equal(t, []any{int64(3), int64(4), int64(5)}, got)
	})

	t.Run("query spaceDelimited", func(t *testing.T) {
		got := d.QueryParam([]string{"3 4"}, &spec.Parameter{
			Name: "id", Style: "spaceDelimited", Schema: arraySchema,
		})
		assert.Equal(t, []any{int64(3), int64(4)}, got)
	})

	t.Run("query deepObject", func(t *testing.T) {
		values := url.Values{
			"filter[role]": {"admin"},
			"filter[age]":  {"30"},
			"other":        {"x"},
		}
		got := d.QueryParamDeepObject(values, "filter", objSchema)
		assert.Equal(t, map[string]any{"role": "admin", "age": int64(30)}, got)
	})

	t.Run("header object", func(t *testing.T) {
		got := d.HeaderParam("role,admin,age,30", &spec.Parameter{Name: "X-Who", Schema: objSchema})
		assert.Equal(t, map[string]any{"role": "admin", "age": int64(30)}, got)
	})

	t.Run("cookie scalar", func(t *testing.T) {
		got := d.CookieParam("7", &spec.Parameter{Name: "session", Schema: intSchema})
		assert.Equal(t, int64(7), got)
	})
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		schema *spec.Schema
		want   any
	}{
		{name: "integer", value: "5", schema: &spec.Schema{Type: "integer"}, want: int64(5)},
		{name: "number", value: "2.5", schema: &spec.Schema{Type: "number"}, want: 2.5},
		{name: "boolean", value: "true", schema: &spec.Schema{Type: "boolean"}, want: true},
		{name: "string stays", value: "5", schema: &spec.Schema{Type: "string"}, want: "5"},
		{name: "unparseable stays", value: "abc", schema: &spec.Schema{Type: "integer"}, want: "abc"},
		{name: "nil schema stays", value: "5", schema: nil, want: "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceValue(tt.value, tt.schema))
		})
	}
}
