// Package severity provides severity level constants for issues reported by
// the document lint and the request/response validators.
package severity

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityError indicates a violation that makes a document or message invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates best-practice violations or recommendations
	// that don't prevent processing but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
