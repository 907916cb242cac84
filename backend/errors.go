package backend

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for registration and dispatch failures.
var (
	// ErrNilHandler is returned when a nil handler is registered under any key.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrNotHandled is the sentinel under every DispatchError: the pipeline
	// reached an outcome with no handler registered to absorb it.
	ErrNotHandled = errors.New("request not handled")
)

// DispatchError reports a pipeline outcome that had no registered handler,
// naming the request and (when resolved) the operation it was bound for.
type DispatchError struct {
	// Outcome is the special handler key that was missing, e.g. "notFound".
	Outcome string

	// OperationID is the resolved operationId, empty when no operation matched.
	OperationID string

	Method string
	Path   string
}

// Error implements error.
func (e *DispatchError) Error() string {
	if e.OperationID != "" {
		return fmt.Sprintf("no %s handler registered for operation %q (%s %s)",
			e.Outcome, e.OperationID, e.Method, e.Path)
	}
	return fmt.Sprintf("no %s handler registered (%s %s)", e.Outcome, e.Method, e.Path)
}

// Unwrap lets errors.Is(err, ErrNotHandled) match.
func (e *DispatchError) Unwrap() error {
	return ErrNotHandled
}
