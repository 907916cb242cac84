// Package backend wires the contract pipeline together: a request comes in,
// resolves to a declared operation, passes the validation gate, and
// dispatches to a registered handler, with declared fallbacks covering every
// miss.
//
// A Backend is configured with functional options, registers handlers by
// operationId, and initializes lazily: the document is linted and its
// validators compiled exactly once, on first use or on an explicit Init call.
// After initialization the backend is safe for concurrent HandleRequest
// calls.
//
// Special handler keys cover pipeline outcomes that have no operation:
//
//	notFound (alias "404")        request matched no route
//	notImplemented (alias "501")  operation resolved but has no handler
//	validationFail                request failed the validation gate
//	postResponseHandler           runs after the operation handler
//
// When validation fails and no validationFail handler is registered, the
// failure is advisory: the operation handler still runs and can inspect the
// result on its Context.
package backend
