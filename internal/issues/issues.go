// Package issues provides a unified issue type for contract lint findings and
// request/response validation problems.
package issues

import (
	"fmt"

	"github.com/oasgate/oasgate/internal/severity"
)

// Issue represents a single problem found during lint or validation.
type Issue struct {
	// Path is the path to the problematic field within the message or document
	// (e.g., "query.limit" or "/pets/{id}.get.responses").
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Location tags where in the HTTP message the issue was found
	// (path, query, header, cookie, body, response). Empty for document lint.
	Location string
	// Value is the problematic value (optional)
	Value any
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	if i.Location != "" {
		return fmt.Sprintf("%s [%s] %s: %s", symbol, i.Location, i.Path, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}
