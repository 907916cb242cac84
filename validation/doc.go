// Package validation applies a contract's declared schemas to actual requests
// and responses.
//
// The Compiler precompiles one validator per (operation, target) at
// initialization: parameters are merged into a single object schema per
// location so each request costs one validator invocation per location, body
// schemas compile per declared media type, and responses compile per status
// code. Compiled validators are cached for the lifetime of the validator and
// never rebuilt per request.
//
// Schema evaluation itself is delegated to a black-box engine
// (santhosh-tekuri/jsonschema); this package only shapes its inputs and
// flattens its findings into ordered issues.
//
// Validation never raises structural mismatches as Go errors: malformed JSON,
// missing required content, and constraint violations all land in a Result,
// whose Errors field is nil exactly when the message is valid.
package validation
