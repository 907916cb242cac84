package validation

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
)

// Parameter locations, in the order findings are reported.
var paramLocations = []string{"path", "query", "header", "cookie"}

// locationValidator validates all of an operation's parameters for one
// location with a single merged object schema.
type locationValidator struct {
	schema *CompiledSchema
	params []*spec.Parameter
}

// headerValidator validates one declared response header.
type headerValidator struct {
	name     string
	required bool
	schema   *spec.Schema
	compiled *CompiledSchema
}

// OperationValidators holds every precompiled validator one operation needs:
// one merged object schema per parameter location, one body validator per
// declared JSON media type, and response body and header validators per
// declared status-code key.
type OperationValidators struct {
	op *router.Operation

	params map[string]*locationValidator

	// body is keyed by declared request media type.
	body map[string]*CompiledSchema

	// responseBody is keyed by response-code key ("200", "2XX", "default").
	responseBody map[string]*CompiledSchema

	// responseHeaders is keyed by response-code key; header names are stored
	// lowercase.
	responseHeaders map[string]map[string]*headerValidator
}

// Operation returns the table operation these validators were built for.
func (ov *OperationValidators) Operation() *router.Operation {
	return ov.op
}

// ValidatorSet holds the compiled validators for every operation in a table,
// keyed by OperationKey. Built once at initialization; read-only afterwards.
type ValidatorSet struct {
	byKey map[string]*OperationValidators
}

// OperationKey identifies an operation in a validator set: the operationId
// when declared, otherwise "method path".
func OperationKey(op *router.Operation) string {
	if op.ID != "" {
		return op.ID
	}
	return op.Method + " " + op.Path
}

// ForOperation returns the validators compiled for an operation.
func (s *ValidatorSet) ForOperation(op *router.Operation) (*OperationValidators, bool) {
	if s == nil || op == nil {
		return nil, false
	}
	ov, ok := s.byKey[OperationKey(op)]
	return ov, ok
}

// Len returns the number of operations with compiled validators.
func (s *ValidatorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byKey)
}

// Compiler builds validator sets from operation tables.
type Compiler struct {
	engine *Engine
}

// NewCompiler creates a compiler over a validation engine.
func NewCompiler(engine *Engine) *Compiler {
	if engine == nil {
		engine = NewEngine()
	}
	return &Compiler{engine: engine}
}

// Build compiles validators for every operation in the table. Any schema that
// fails to compile aborts the build; a document that lints clean compiles.
func (c *Compiler) Build(table *router.Table) (*ValidatorSet, error) {
	if table == nil {
		return nil, errors.New("validation: table cannot be nil")
	}
	set := &ValidatorSet{byKey: make(map[string]*OperationValidators)}
	for _, op := range table.Operations() {
		ov, err := c.buildOperation(op)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %s", OperationKey(op))
		}
		set.byKey[OperationKey(op)] = ov
	}
	return set, nil
}

func (c *Compiler) buildOperation(op *router.Operation) (*OperationValidators, error) {
	ov := &OperationValidators{
		op:              op,
		params:          make(map[string]*locationValidator),
		body:            make(map[string]*CompiledSchema),
		responseBody:    make(map[string]*CompiledSchema),
		responseHeaders: make(map[string]map[string]*headerValidator),
	}

	for _, location := range paramLocations {
		params := op.ParametersIn(location)
		if len(params) == 0 {
			continue
		}
		compiled, err := c.engine.Compile(mergedLocationSchema(params))
		if err != nil {
			return nil, errors.Wrapf(err, "%s parameters", location)
		}
		ov.params[location] = &locationValidator{schema: compiled, params: params}
	}

	if op.RequestBody != nil {
		for mediaType, media := range op.RequestBody.Content {
			if media == nil || !isJSONMediaType(mediaType) {
				continue
			}
			compiled, err := c.engine.Compile(media.Schema)
			if err != nil {
				return nil, errors.Wrapf(err, "request body %s", mediaType)
			}
			ov.body[mediaType] = compiled
		}
	}

	if op.Responses != nil {
		codes := op.Responses.Codes()
		for _, code := range codes {
			resp, _ := op.Responses.Get(code)
			if err := c.buildResponse(ov, code, resp); err != nil {
				return nil, err
			}
		}
		if op.Responses.Default != nil {
			if err := c.buildResponse(ov, "default", op.Responses.Default); err != nil {
				return nil, err
			}
		}
	}

	return ov, nil
}

func (c *Compiler) buildResponse(ov *OperationValidators, code string, resp *spec.Response) error {
	if resp == nil {
		return nil
	}

	if media := jsonMedia(resp.Content); media != nil {
		compiled, err := c.engine.Compile(media.Schema)
		if err != nil {
			return errors.Wrapf(err, "response %s body", code)
		}
		ov.responseBody[code] = compiled
	}

	if len(resp.Headers) > 0 {
		headers := make(map[string]*headerValidator, len(resp.Headers))
		for name, header := range resp.Headers {
			if header == nil {
				continue
			}
			compiled, err := c.engine.Compile(header.Schema)
			if err != nil {
				return errors.Wrapf(err, "response %s header %s", code, name)
			}
			headers[strings.ToLower(name)] = &headerValidator{
				name:     name,
				required: header.Required,
				schema:   header.Schema,
				compiled: compiled,
			}
		}
		ov.responseHeaders[code] = headers
	}
	return nil
}

// mergedLocationSchema folds every parameter of one location into a single
// object schema: each parameter becomes a property, required parameters go on
// the required list, and undeclared keys pass.
func mergedLocationSchema(params []*spec.Parameter) *spec.Schema {
	merged := &spec.Schema{
		Type:       "object",
		Properties: make(map[string]*spec.Schema, len(params)),
	}
	for _, p := range params {
		s := p.Schema
		if s == nil {
			s = &spec.Schema{}
		}
		merged.Properties[p.Name] = s
		if p.Required {
			merged.Required = append(merged.Required, p.Name)
		}
	}
	return merged
}

// jsonMedia picks the JSON media type from a content map: application/json
// first, then the first +json suffixed type.
func jsonMedia(content map[string]*spec.MediaType) *spec.MediaType {
	if media, ok := content["application/json"]; ok && media != nil {
		return media
	}
	for mediaType, media := range content {
		if media != nil && isJSONMediaType(mediaType) {
			return media
		}
	}
	return nil
}

// isJSONMediaType reports whether a media type carries a JSON payload.
func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
