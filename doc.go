// Package oasgate provides a framework-agnostic HTTP request dispatcher driven
// by a dereferenced OpenAPI-style contract document.
//
// oasgate matches incoming requests to the operations a contract declares,
// validates them against the declared schemas, dispatches to handlers
// registered by operationId, and can synthesize example responses when no
// handler exists. It executes no HTTP I/O itself: it is embedded inside
// arbitrary HTTP-serving code as a pure in-memory request classifier and gate.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - spec: the contract document model, loading, and structural lint
//   - router: operation table, path matching, and request parsing
//   - validation: precompiled schema validators for requests and responses
//   - mock: deterministic example selection and schema-driven mock synthesis
//   - backend: the dispatch pipeline tying the above together
//
// # Quick Start
//
// Build a backend from a contract document and register handlers:
//
//	import "github.com/oasgate/oasgate/backend"
//
//	b := backend.New(
//		backend.WithDocumentFile("petstore.yaml"),
//		backend.WithValidateRequests(true),
//	)
//	err := b.RegisterHandlers(map[string]backend.HandlerFunc{
//		"getPetById": getPetByID,
//		"notFound":   notFound,
//	})
//
//	req, err := router.FromHTTP(r)
//	res, err := b.HandleRequest(ctx, req)
//
// Synthesize a mock response for an operation:
//
//	import "github.com/oasgate/oasgate/mock"
//
//	sel := mock.NewSelector(table)
//	resp, err := sel.ForOperation("getPetById", mock.Options{})
//	// resp.Status == 200, resp.Mock is an example or schema-derived value
//
// # Command-Line Interface
//
// A small CLI accompanies the library:
//
//	# List declared operations
//	oasgate operations -spec petstore.yaml
//
//	# Resolve a request to an operation
//	oasgate match -spec petstore.yaml -X GET /pets/42
//
//	# Synthesize a mock response body
//	oasgate mock -spec petstore.yaml -op getPetById
//
// Install the CLI:
//
//	go install github.com/oasgate/oasgate/cmd/oasgate@latest
//
// # Error Handling
//
// All packages follow consistent error handling patterns:
//
//   - Contract errors: strict mode aborts initialization, lenient mode logs
//   - Routing and dispatch misses: routed to notFound/notImplemented handlers,
//     or returned as structured failures when no fallback is registered
//   - Validation findings: collected in result objects, never returned as error
//
// Always check both the error return value and any error collections in
// result objects.
package oasgate
