// Package httputil provides HTTP-related constants and helpers shared by the
// router and validation packages.
package httputil

import (
	"strconv"
	"strings"
)

// HTTP method constants, lowercase as they appear as contract document keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Methods lists all supported methods in canonical declaration order.
var Methods = []string{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodDelete,
	MethodOptions,
	MethodHead,
	MethodPatch,
	MethodTrace,
}

// NormalizeMethod lowercases an HTTP method for table lookups.
func NormalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// IsKnownMethod reports whether method (any case) is a supported HTTP method.
func IsKnownMethod(method string) bool {
	m := NormalizeMethod(method)
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// IsSuccessCode reports whether a response-code key is a concrete 2xx code.
// Wildcard keys such as "2XX" and "default" are not concrete codes.
func IsSuccessCode(code string) bool {
	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= 200 && n < 300
}

// MatchWildcard reports whether a response-code key like "2XX" covers the
// given status code.
func MatchWildcard(key string, status int) bool {
	if len(key) != 3 {
		return false
	}
	upper := strings.ToUpper(key)
	if !strings.HasSuffix(upper, "XX") {
		return false
	}
	first := int(upper[0] - '0')
	return first >= 1 && first <= 5 && status/100 == first
}
