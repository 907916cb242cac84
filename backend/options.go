package backend

import (
	"github.com/oasgate/oasgate/spec"
	"github.com/oasgate/oasgate/validation"
)

// Option configures a Backend before initialization.
type Option func(*Backend)

// WithDocument supplies an already-loaded contract document.
func WithDocument(doc *spec.Document) Option {
	return func(b *Backend) {
		b.doc = doc
	}
}

// WithDocumentFile supplies a contract document path, loaded lazily on Init.
func WithDocumentFile(path string) Option {
	return func(b *Backend) {
		b.docPath = path
	}
}

// WithAPIRoot sets the path prefix stripped from incoming requests before
// matching. Empty or "/" means none.
func WithAPIRoot(root string) Option {
	return func(b *Backend) {
		b.apiRoot = root
	}
}

// WithStrictMode controls how defects are treated: strict backends fail Init
// on document lint errors and reject handler registration for unknown
// operationIds; lenient backends log and continue. Default is lenient.
func WithStrictMode(strict bool) Option {
	return func(b *Backend) {
		b.strict = strict
	}
}

// WithValidateRequests toggles the validation gate for every request.
// Default is true.
func WithValidateRequests(validate bool) Option {
	return func(b *Backend) {
		b.validateRequests = validate
		b.validationPredicate = nil
	}
}

// WithValidationPredicate installs a per-request validation gate; it
// overrides WithValidateRequests. The predicate sees the request context
// after matching and before validation.
func WithValidationPredicate(predicate func(*Context) bool) Option {
	return func(b *Backend) {
		b.validationPredicate = predicate
	}
}

// WithPassContext controls whether the request *Context is prepended to the
// handler argument list. Default is true; disable it when handlers are plain
// adapters that only care about caller-supplied arguments.
func WithPassContext(pass bool) Option {
	return func(b *Backend) {
		b.passContext = pass
	}
}

// WithHandlers registers an initial handler map. Registration errors surface
// on Init, once the operation table exists to check ids against.
func WithHandlers(handlers map[string]HandlerFunc) Option {
	return func(b *Backend) {
		if b.initial == nil {
			b.initial = make(map[string]HandlerFunc, len(handlers))
		}
		for name, h := range handlers {
			b.initial[name] = h
		}
	}
}

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(logger spec.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithEngineOptions forwards options to the schema validation engine.
func WithEngineOptions(opts ...validation.EngineOption) Option {
	return func(b *Backend) {
		b.engineOpts = append(b.engineOpts, opts...)
	}
}
