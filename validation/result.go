package validation

import (
	"github.com/oasgate/oasgate/internal/issues"
	"github.com/oasgate/oasgate/internal/severity"
)

// Issue is the finding type validation results carry.
type Issue = issues.Issue

// Result is the outcome of validating one message against its declared
// contract. Errors is nil exactly when the message is valid; callers may
// treat `len(result.Errors) == 0` and `result.Valid` interchangeably.
type Result struct {
	Valid  bool
	Errors []Issue

	// Warnings carries advisory findings that do not affect Valid.
	Warnings []Issue
}

// newResult splits findings by severity and derives Valid.
func newResult(found []Issue) Result {
	var r Result
	for _, issue := range found {
		if issue.Severity == severity.SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
	r.Valid = r.Errors == nil
	return r
}

// errorIssue builds an error finding.
func errorIssue(path, location, message string) Issue {
	return Issue{
		Path:     path,
		Message:  message,
		Severity: severity.SeverityError,
		Location: location,
	}
}

// warnIssue builds an advisory finding.
func warnIssue(path, location, message string) Issue {
	return Issue{
		Path:     path,
		Message:  message,
		Severity: severity.SeverityWarning,
		Location: location,
	}
}
