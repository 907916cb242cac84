package router

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/oasgate/oasgate/spec"
)

// Deserializer converts raw parameter strings into typed values according to
// the declared serialization styles. Each location has default styles:
//
// | Location | Default Style | Default Explode |
// |----------|---------------|-----------------|
// | path     | simple        | false           |
// | query    | form          | true            |
// | header   | simple        | false           |
// | cookie   | form          | false           |
type Deserializer struct{}

// NewDeserializer creates a new parameter deserializer.
func NewDeserializer() *Deserializer {
	return &Deserializer{}
}

// PathParam deserializes a path parameter value according to its style.
//
// Styles supported:
//   - simple (default): comma-separated values, e.g., "a,b,c"
//   - label: dot-prefixed values, e.g., ".a.b.c"
//   - matrix: semicolon-prefixed key=value, e.g., ";id=5"
func (d *Deserializer) PathParam(value string, param *spec.Parameter) any {
	style := param.Style
	if style == "" {
		style = "simple"
	}
	explode := false
	if param.Explode != nil {
		explode = *param.Explode
	}

	switch style {
	case "simple":
		return d.simple(value, param.Schema, explode)
	case "label":
		return d.label(value, param.Schema, explode)
	case "matrix":
		return d.matrix(value, param.Name, param.Schema, explode)
	default:
		return value
	}
}

// QueryParam deserializes query parameter values according to their style.
//
// Styles supported:
//   - form (default): standard query string format
//   - spaceDelimited: space-separated values
//   - pipeDelimited: pipe-separated values
//   - deepObject: nested object notation, handled by QueryParamDeepObject
func (d *Deserializer) QueryParam(values []string, param *spec.Parameter) any {
	style := param.Style
	if style == "" {
		style = "form"
	}
	explode := true
	if param.Explode != nil {
		explode = *param.Explode
	}

	switch style {
	case "form":
		return d.form(values, param.Schema, explode)
	case "spaceDelimited":
		return d.delimited(values, " ", param.Schema)
	case "pipeDelimited":
		return d.delimited(values, "|", param.Schema)
	default:
		if len(values) == 1 {
			return values[0]
		}
		return values
	}
}

// QueryParamDeepObject deserializes a deepObject-style query parameter from
// the full query map: "filter[status]=active&filter[type]=user" becomes
// {"status": "active", "type": "user"}.
func (d *Deserializer) QueryParamDeepObject(queryValues url.Values, paramName string, schema *spec.Schema) map[string]any {
	prefix := paramName + "["
	result := make(map[string]any)

	for key, values := range queryValues {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		propEnd := strings.Index(key[len(prefix):], "]")
		if propEnd == -1 {
			continue
		}
		propName := key[len(prefix) : len(prefix)+propEnd]

		if len(values) == 1 {
			result[propName] = d.coerce(values[0], schema.PropertySchema(propName))
		} else {
			result[propName] = values
		}
	}
	return result
}

// HeaderParam deserializes a header parameter value (simple style).
func (d *Deserializer) HeaderParam(value string, param *spec.Parameter) any {
	explode := false
	if param.Explode != nil {
		explode = *param.Explode
	}
	return d.simple(value, param.Schema, explode)
}

// CookieParam deserializes a cookie parameter value (form style, no explode).
func (d *Deserializer) CookieParam(value string, param *spec.Parameter) any {
	schema := param.Schema
	if schema.IsArray() {
		return d.simple(value, schema, false)
	}
	return d.coerce(value, schema)
}

// simple handles the "simple" style (comma-separated), the default for path
// and header parameters.
func (d *Deserializer) simple(value string, schema *spec.Schema, explode bool) any {
	if schema == nil {
		return value
	}
	if schema.IsArray() {
		return d.coerceArray(strings.Split(value, ","), schema.Items)
	}
	if schema.IsObject() {
		return d.simpleObject(value, schema, explode)
	}
	return d.coerce(value, schema)
}

func (d *Deserializer) simpleObject(value string, schema *spec.Schema, explode bool) map[string]any {
	result := make(map[string]any)
	parts := strings.Split(value, ",")

	if explode {
		// explode=true: key=value,key2=value2
		for _, part := range parts {
			if idx := strings.Index(part, "="); idx > 0 {
				key := part[:idx]
				result[key] = d.coerce(part[idx+1:], schema.PropertySchema(key))
			}
		}
		return result
	}
	// explode=false: key,value,key2,value2
	for i := 0; i+1 < len(parts); i += 2 {
		result[parts[i]] = d.coerce(parts[i+1], schema.PropertySchema(parts[i]))
	}
	return result
}

// label handles the "label" style (dot-prefixed).
func (d *Deserializer) label(value string, schema *spec.Schema, explode bool) any {
	if !strings.HasPrefix(value, ".") {
		return value
	}
	value = value[1:]

	if schema == nil {
		return value
	}
	if schema.IsArray() {
		sep := ","
		if explode {
			sep = "."
		}
		return d.coerceArray(strings.Split(value, sep), schema.Items)
	}
	if schema.IsObject() {
		if explode {
			// explode=true: .key=value.key2=value2
			result := make(map[string]any)
			for _, part := range strings.Split(value, ".") {
				if part == "" {
					continue
				}
				if idx := strings.Index(part, "="); idx > 0 {
					key := part[:idx]
					result[key] = d.coerce(part[idx+1:], schema.PropertySchema(key))
				}
			}
			return result
		}
		return d.simpleObject(value, schema, false)
	}
	return d.coerce(value, schema)
}

// matrix handles the "matrix" style (semicolon-prefixed).
func (d *Deserializer) matrix(value, paramName string, schema *spec.Schema, explode bool) any {
	if !strings.HasPrefix(value, ";") {
		return value
	}
	value = value[1:]
	prefix := paramName + "="

	if schema == nil {
		return strings.TrimPrefix(value, prefix)
	}

	if schema.IsArray() {
		if explode {
			// explode=true: ;id=3;id=4;id=5
			var values []string
			for _, part := range strings.Split(value, ";") {
				if strings.HasPrefix(part, prefix) {
					values = append(values, part[len(prefix):])
				}
			}
			return d.coerceArray(values, schema.Items)
		}
		// explode=false: ;id=3,4,5
		if strings.HasPrefix(value, prefix) {
			return d.coerceArray(strings.Split(value[len(prefix):], ","), schema.Items)
		}
		return nil
	}

	if schema.IsObject() {
		result := make(map[string]any)
		if explode {
			// explode=true: ;role=admin;firstName=Alex
			for _, part := range strings.Split(value, ";") {
				if part == "" {
					continue
				}
				if idx := strings.Index(part, "="); idx > 0 {
					key := part[:idx]
					result[key] = d.coerce(part[idx+1:], schema.PropertySchema(key))
				}
			}
			return result
		}
		// explode=false: ;id=role,admin,firstName,Alex
		if strings.HasPrefix(value, prefix) {
			parts := strings.Split(value[len(prefix):], ",")
			for i := 0; i+1 < len(parts); i += 2 {
				result[parts[i]] = d.coerce(parts[i+1], schema.PropertySchema(parts[i]))
			}
		}
		return result
	}

	if strings.HasPrefix(value, prefix) {
		return d.coerce(value[len(prefix):], schema)
	}
	return d.coerce(value, schema)
}

// form handles the "form" style (standard query string format).
func (d *Deserializer) form(values []string, schema *spec.Schema, explode bool) any {
	if schema == nil {
		if len(values) == 1 {
			return values[0]
		}
		return values
	}

	if schema.IsArray() {
		if explode {
			// explode=true: multiple values (id=3&id=4&id=5)
			return d.coerceArray(values, schema.Items)
		}
		// explode=false: comma-separated in single value (id=3,4,5)
		if len(values) == 1 {
			return d.coerceArray(strings.Split(values[0], ","), schema.Items)
		}
		return d.coerceArray(values, schema.Items)
	}

	if schema.IsObject() && !explode && len(values) == 1 {
		// explode=false: comma-separated key,value pairs (id=role,admin,...)
		parts := strings.Split(values[0], ",")
		result := make(map[string]any)
		for i := 0; i+1 < len(parts); i += 2 {
			result[parts[i]] = d.coerce(parts[i+1], schema.PropertySchema(parts[i]))
		}
		return result
	}

	if len(values) == 1 {
		return d.coerce(values[0], schema)
	}
	return values
}

// delimited handles space and pipe delimited styles.
func (d *Deserializer) delimited(values []string, delimiter string, schema *spec.Schema) any {
	joined := strings.Join(values, delimiter)
	parts := strings.Split(joined, delimiter)

	if schema.IsArray() {
		return d.coerceArray(parts, schema.Items)
	}
	if len(parts) == 1 {
		return d.coerce(parts[0], schema)
	}
	return parts
}

// CoerceValue converts a raw string to the Go type the schema declares.
// Unparseable values come back unchanged so schema validation can report the
// mismatch with the original text.
func CoerceValue(value string, schema *spec.Schema) any {
	return (&Deserializer{}).coerce(value, schema)
}

// coerce converts a string value to the Go type the schema declares.
// Unparseable values are returned as-is so the schema validator can report
// the mismatch with the original text.
func (d *Deserializer) coerce(value string, schema *spec.Schema) any {
	if schema == nil {
		return value
	}
	switch schema.TypeName() {
	case "integer":
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		return value
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		return value
	default:
		return value
	}
}

// coerceArray converts string values to a slice of typed values.
func (d *Deserializer) coerceArray(values []string, itemSchema *spec.Schema) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = d.coerce(v, itemSchema)
	}
	return result
}
