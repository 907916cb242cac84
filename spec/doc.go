// Package spec defines the contract document model that drives routing,
// validation, and mock synthesis.
//
// A Document is the fully dereferenced API description: a mapping from
// path-template to per-method operation definitions, each carrying parameter
// schemas, request body media types, and response shapes. The model is
// immutable after loading; the router owns the only long-lived reference.
//
// Documents must arrive dereferenced. Resolving $ref values is the job of an
// upstream tool; any leftover reference is reported by Lint, not resolved.
//
// Declaration order is significant in three places and preserved by custom
// unmarshalers: path templates (route tie-breaking), response codes (mock
// status fallback), and named examples (mock example fallback).
package spec
