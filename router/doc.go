// Package router resolves incoming requests to the operations a contract
// document declares.
//
// A Table is built once from a spec.Document: every path × method combination
// is flattened into an Operation record, keyed by operationId and indexed by
// (method, template). Matching walks precompiled path matchers; a literal
// template always beats a placeholder template for the same path, and
// remaining ties resolve by declaration order in the document.
//
// The Router layers request parsing on top of the table: path, query, header,
// and cookie parameters are deserialized according to their declared styles
// (simple, label, matrix, form, spaceDelimited, pipeDelimited, deepObject)
// and coerced to the declared primitive types where possible.
package router
