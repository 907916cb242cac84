package mock

import (
	"strings"

	"github.com/oasgate/oasgate/spec"
)

// Generate synthesizes a deterministic value from a schema. The same schema
// always produces the same value: declared examples and defaults win, enums
// take their first entry, objects include every declared property, arrays
// hold the minimum declared number of items (at least one), and scalars fall
// back to format-aware placeholders.
func Generate(schema *spec.Schema) any {
	if schema == nil {
		return map[string]any{}
	}
	if schema.Example != nil {
		return schema.Example
	}
	if len(schema.Examples) > 0 {
		return schema.Examples[0]
	}
	if schema.Default != nil {
		return schema.Default
	}
	if schema.Const != nil {
		return schema.Const
	}
	if len(schema.Enum) > 0 {
		return schema.Enum[0]
	}

	if len(schema.AllOf) > 0 {
		return generateAllOf(schema.AllOf)
	}
	if len(schema.AnyOf) > 0 {
		return Generate(schema.AnyOf[0])
	}
	if len(schema.OneOf) > 0 {
		return Generate(schema.OneOf[0])
	}

	switch schema.TypeName() {
	case "object":
		return generateObject(schema)
	case "array":
		return generateArray(schema)
	case "string":
		return generateString(schema)
	case "integer":
		return generateInteger(schema)
	case "number":
		return generateNumber(schema)
	case "boolean":
		return true
	case "null":
		return nil
	}

	// Untyped schemas: infer from shape.
	if len(schema.Properties) > 0 {
		return generateObject(schema)
	}
	if schema.Items != nil {
		return generateArray(schema)
	}
	return map[string]any{}
}

func generateObject(schema *spec.Schema) map[string]any {
	out := make(map[string]any, len(schema.Properties))
	for name, prop := range schema.Properties {
		out[name] = Generate(prop)
	}
	return out
}

func generateArray(schema *spec.Schema) []any {
	count := 1
	if schema.MinItems != nil && *schema.MinItems > count {
		count = *schema.MinItems
	}
	out := make([]any, count)
	for i := range out {
		out[i] = Generate(schema.Items)
	}
	return out
}

func generateString(schema *spec.Schema) string {
	var s string
	switch schema.Format {
	case "date-time":
		s = "2024-01-01T00:00:00Z"
	case "date":
		s = "2024-01-01"
	case "time":
		s = "00:00:00Z"
	case "email":
		s = "user@example.com"
	case "uuid":
		s = "00000000-0000-0000-0000-000000000000"
	case "uri", "url":
		s = "https://example.com"
	case "hostname":
		s = "example.com"
	case "ipv4":
		s = "192.0.2.1"
	case "ipv6":
		s = "2001:db8::1"
	case "byte":
		s = "c3RyaW5n"
	default:
		s = "string"
	}
	if schema.MinLength != nil && len(s) < *schema.MinLength {
		s += strings.Repeat("x", *schema.MinLength-len(s))
	}
	return s
}

func generateInteger(schema *spec.Schema) int64 {
	if schema.Minimum != nil {
		return int64(*schema.Minimum)
	}
	return 0
}

func generateNumber(schema *spec.Schema) float64 {
	if schema.Minimum != nil {
		return *schema.Minimum
	}
	return 0
}

// generateAllOf merges the object outputs of every branch; the last branch
// wins on property conflicts. Non-object branches short-circuit to the first
// branch's value.
func generateAllOf(branches []*spec.Schema) any {
	merged := make(map[string]any)
	for _, branch := range branches {
		value := Generate(branch)
		obj, ok := value.(map[string]any)
		if !ok {
			return Generate(branches[0])
		}
		for k, v := range obj {
			merged[k] = v
		}
	}
	return merged
}
