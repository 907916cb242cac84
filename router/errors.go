package router

import "github.com/cockroachdb/errors"

// Sentinel errors for use with errors.Is().
var (
	// ErrNoRoute indicates no declared path template matches the request path.
	ErrNoRoute = errors.New("no matching route")

	// ErrMethodNotDeclared indicates a template matches the request path but
	// declares no operation for the request method. Callers that want to
	// distinguish 405 from 404 can test for this; the dispatch layer treats
	// both as not-found.
	ErrMethodNotDeclared = errors.New("method not declared for route")

	// ErrUnknownOperation indicates an operationId that the table does not contain.
	ErrUnknownOperation = errors.New("unknown operation")
)
