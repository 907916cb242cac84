// Package naming derives suggested operation identifiers from method and path
// for operations that declare none. Suggestions appear in registration
// warnings and CLI listings; they are never used for dispatch.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// SuggestOperationID builds a camelCase identifier from an HTTP method and a
// path template, e.g. ("get", "/pets/{id}") -> "getPetsById".
func SuggestOperationID(method, pathTemplate string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(method)))

	for _, seg := range strings.Split(pathTemplate, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteString("By")
			b.WriteString(titleWord(strings.Trim(seg, "{}")))
			continue
		}
		b.WriteString(titleWord(seg))
	}

	return b.String()
}

// titleWord title-cases a single path segment, splitting on common separators
// so "pet-orders" becomes "PetOrders". Segments that already carry interior
// capitals, such as "petId", keep them.
func titleWord(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		if p == strings.ToLower(p) {
			b.WriteString(titleCaser.String(p))
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
