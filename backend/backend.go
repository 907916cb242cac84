package backend

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/oasgate/oasgate/internal/naming"
	"github.com/oasgate/oasgate/mock"
	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
	"github.com/oasgate/oasgate/validation"
)

// HandlerFunc is the signature every handler, operation or special, is
// registered with. When the backend passes context (the default), args[0] is
// the request *Context; caller-supplied dispatch arguments follow.
type HandlerFunc func(ctx context.Context, args ...any) (any, error)

// Special handler keys. Numeric aliases are accepted interchangeably with
// their named forms.
const (
	HandlerNotFound       = "notFound"
	HandlerNotFoundAlias  = "404"
	HandlerNotImplemented = "notImplemented"
	HandlerNotImplAlias   = "501"
	HandlerValidationFail = "validationFail"
	HandlerPostResponse   = "postResponseHandler"
)

var specialHandlers = map[string]bool{
	HandlerNotFound:       true,
	HandlerNotFoundAlias:  true,
	HandlerNotImplemented: true,
	HandlerNotImplAlias:   true,
	HandlerValidationFail: true,
	HandlerPostResponse:   true,
}

// Backend is the contract-driven dispatcher. Configure with New, register
// handlers by operationId, then serve requests through HandleRequest.
// Initialization is lazy and happens at most once; after it, the backend is
// safe for concurrent use.
type Backend struct {
	doc     *spec.Document
	docPath string
	apiRoot string
	strict  bool

	validateRequests    bool
	validationPredicate func(*Context) bool
	passContext         bool

	logger     spec.Logger
	engineOpts []validation.EngineOption
	initial    map[string]HandlerFunc

	initOnce sync.Once
	initErr  error

	table      *router.Table
	router     *router.Router
	validators *validation.ValidatorSet
	selector   *mock.Selector

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// New creates a Backend. The document is not loaded or linted until Init (or
// the first HandleRequest).
func New(opts ...Option) *Backend {
	b := &Backend{
		validateRequests: true,
		passContext:      true,
		logger:           spec.NopLogger{},
		handlers:         make(map[string]HandlerFunc),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init loads, lints, and compiles the document, builds the operation table
// and validator set, and applies handlers registered through WithHandlers.
// Repeated calls return the first outcome. HandleRequest calls Init
// implicitly.
func (b *Backend) Init(ctx context.Context) error {
	b.initOnce.Do(func() {
		b.initErr = b.init(ctx)
	})
	return b.initErr
}

func (b *Backend) init(ctx context.Context) error {
	if b.doc == nil && b.docPath == "" {
		return errors.New("backend: no document configured")
	}
	if b.doc == nil {
		doc, err := spec.LoadFile(b.docPath)
		if err != nil {
			return errors.Wrap(err, "backend: failed to load document")
		}
		b.doc = doc
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "backend: init canceled")
	}

	findings := spec.Lint(b.doc)
	for _, issue := range findings {
		b.logger.Warn("document lint finding", "path", issue.Path, "message", issue.Message)
	}
	if b.strict && spec.HasErrors(findings) {
		return errors.Newf("backend: document failed lint with %d finding(s) in strict mode", len(findings))
	}

	table, err := router.NewTable(b.doc, b.apiRoot)
	if err != nil {
		return err
	}
	// Published under the lock: RegisterHandler keys "queue or register
	// directly" off whether the table exists yet.
	b.mu.Lock()
	b.table = table
	b.mu.Unlock()
	b.router = router.New(table)
	b.selector = mock.NewSelector(table)

	for _, op := range table.Operations() {
		if op.ID == "" {
			b.logger.Warn("operation has no operationId and cannot be dispatched",
				"method", op.Method, "path", op.Path,
				"suggestion", naming.SuggestOperationID(op.Method, op.Path))
		}
	}

	engine := validation.NewEngine(b.engineOpts...)
	validators, err := validation.NewCompiler(engine).Build(table)
	if err != nil {
		return errors.Wrap(err, "backend: failed to compile validators")
	}
	b.validators = validators

	b.mu.Lock()
	defer b.mu.Unlock()
	var regErr error
	for name, h := range b.initial {
		if err := b.registerLocked(name, h); err != nil {
			regErr = errors.CombineErrors(regErr, err)
		}
	}
	b.initial = nil
	return regErr
}

// Document returns the loaded contract document; nil before Init.
func (b *Backend) Document() *spec.Document {
	return b.doc
}

// Router returns the request router; nil before Init.
func (b *Backend) Router() *router.Router {
	return b.router
}

// Validators returns the compiled validator set; nil before Init.
func (b *Backend) Validators() *validation.ValidatorSet {
	return b.validators
}

// MockSelector returns the mock selector; nil before Init.
func (b *Backend) MockSelector() *mock.Selector {
	return b.selector
}

// RegisterHandler registers a handler under an operationId or a special key.
// A nil handler is always an error. An unknown operationId is an error in
// strict mode and a logged warning otherwise; registration before Init defers
// the unknown-id check to Init. Safe to call concurrently with a first
// request's lazy Init: the handler either lands in the registry directly or
// is queued and applied by Init.
func (b *Backend) RegisterHandler(name string, handler HandlerFunc) error {
	if handler == nil {
		return errors.Wrapf(ErrNilHandler, "%q", name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.table == nil {
		// Not initialized yet: queue for the Init-time check.
		if b.initial == nil {
			b.initial = make(map[string]HandlerFunc)
		}
		b.initial[name] = handler
		return nil
	}
	return b.registerLocked(name, handler)
}

// RegisterHandlers registers a map of handlers, combining any failures.
func (b *Backend) RegisterHandlers(handlers map[string]HandlerFunc) error {
	var combined error
	for name, h := range handlers {
		if err := b.RegisterHandler(name, h); err != nil {
			combined = errors.CombineErrors(combined, err)
		}
	}
	return combined
}

// registerLocked performs the unknown-id check and registry write. Callers
// hold b.mu and have observed a non-nil table.
func (b *Backend) registerLocked(name string, handler HandlerFunc) error {
	if handler == nil {
		return errors.Wrapf(ErrNilHandler, "%q", name)
	}
	if !specialHandlers[name] {
		if _, known := b.table.Operation(name); !known {
			if b.strict {
				return errors.Wrapf(router.ErrUnknownOperation, "cannot register handler %q", name)
			}
			b.logger.Warn("handler registered for unknown operation", "operationId", name)
		}
	}
	b.handlers[name] = handler
	return nil
}

// Handler returns the handler registered under a key.
func (b *Backend) Handler(name string) (HandlerFunc, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, ok := b.handlers[name]
	return h, ok
}

// fallback returns the first registered handler among the given keys.
func (b *Backend) fallback(names ...string) HandlerFunc {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, name := range names {
		if h, ok := b.handlers[name]; ok {
			return h
		}
	}
	return nil
}
