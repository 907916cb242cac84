// Package mock synthesizes responses from a contract's declared responses,
// examples, and schemas, with no handler involved.
//
// Selection is fully deterministic. For one operation the selector resolves,
// in order: the requested status code, else the lowest declared 2xx code,
// else the declared default, else the first declared code; then the requested
// media type, else application/json, else the first declared media type; then
// the requested named example, else the inline example, else the first
// declared named example, else a value generated from the schema. An
// operation declaring nothing usable yields status 200 with an empty object.
//
// Given the same document and the same options, every call returns the same
// payload.
package mock
