package validation

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/oasgate/oasgate/internal/issues"
	"github.com/oasgate/oasgate/internal/severity"
	"github.com/oasgate/oasgate/spec"
)

// Engine compiles contract schemas into validators. It is the seam to the
// underlying JSON Schema implementation; nothing outside this file touches
// the engine library directly.
type Engine struct {
	assertFormat bool
}

// EngineOption configures the validation engine.
type EngineOption func(*Engine)

// WithFormatAssertions enables format keyword enforcement (date-time, email,
// uuid, ...). Default is true.
func WithFormatAssertions(assert bool) EngineOption {
	return func(e *Engine) {
		e.assertFormat = assert
	}
}

// NewEngine creates a validation engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{assertFormat: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile turns a contract schema into a reusable validator.
func (e *Engine) Compile(s *spec.Schema) (*CompiledSchema, error) {
	raw, err := schemaJSON(s)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = e.assertFormat

	const resourceID = "inline://schema.json"
	if err := compiler.AddResource(resourceID, bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "validation: failed to add schema resource")
	}
	compiled, err := compiler.Compile(resourceID)
	if err != nil {
		return nil, errors.Wrap(err, "validation: failed to compile schema")
	}
	return &CompiledSchema{schema: compiled}, nil
}

// CompiledSchema wraps one precompiled validator.
type CompiledSchema struct {
	schema *jsonschema.Schema
}

// Validate checks value against the schema and returns findings tagged with
// the given location, each carrying a path rooted at pathPrefix. Returns nil
// when the value conforms.
func (c *CompiledSchema) Validate(value any, location, pathPrefix string) []issues.Issue {
	normalized, err := normalizeJSONValue(value)
	if err != nil {
		return []issues.Issue{{
			Path:     pathPrefix,
			Message:  "value is not representable as JSON: " + err.Error(),
			Severity: severity.SeverityError,
			Location: location,
		}}
	}

	err = c.schema.Validate(normalized)
	if err == nil {
		return nil
	}

	var valErr *jsonschema.ValidationError
	if !errors.As(err, &valErr) {
		return []issues.Issue{{
			Path:     pathPrefix,
			Message:  err.Error(),
			Severity: severity.SeverityError,
			Location: location,
		}}
	}

	var found []issues.Issue
	collectLeaves(valErr, func(leaf *jsonschema.ValidationError) {
		found = append(found, issues.Issue{
			Path:     joinInstancePath(pathPrefix, leaf.InstanceLocation),
			Message:  leaf.Message,
			Severity: severity.SeverityError,
			Location: location,
		})
	})
	return found
}

// collectLeaves walks the cause tree depth-first, visiting only the most
// specific findings.
func collectLeaves(err *jsonschema.ValidationError, visit func(*jsonschema.ValidationError)) {
	if len(err.Causes) == 0 {
		visit(err)
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, visit)
	}
}

// joinInstancePath converts a JSON pointer like "/pet/name" into a dotted
// path under prefix: "body.pet.name".
func joinInstancePath(prefix, instanceLocation string) string {
	pointer := strings.TrimPrefix(instanceLocation, "/")
	if pointer == "" {
		return prefix
	}
	dotted := strings.ReplaceAll(pointer, "/", ".")
	if prefix == "" {
		return dotted
	}
	return prefix + "." + dotted
}

// schemaJSON renders a contract schema as the JSON document the engine
// compiles. OAS 3.0 nullable is folded into an anyOf with a null type, which
// draft 2020-12 understands.
func schemaJSON(s *spec.Schema) ([]byte, error) {
	if s == nil {
		// Absent schema constrains nothing.
		return []byte("true"), nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "validation: failed to marshal schema")
	}
	if !nullableAnywhere(s) {
		return raw, nil
	}
	return json.Marshal(map[string]any{
		"anyOf": []any{json.RawMessage(raw), map[string]any{"type": "null"}},
	})
}

// nullableAnywhere reports whether the top-level schema carries the OAS 3.0
// nullable flag. Nested nullable schemas are handled by their own Compile
// calls when they appear as parameter or property roots; deeper occurrences
// fall back to strict null checking.
func nullableAnywhere(s *spec.Schema) bool {
	return s != nil && s.Nullable
}

// normalizeJSONValue round-trips a Go value through JSON so the engine sees
// the exact value shapes encoding/json produces.
func normalizeJSONValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
