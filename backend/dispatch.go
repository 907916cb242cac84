package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/validation"
)

// HandleRequest runs the full pipeline for one request: match, parse,
// validation gate, dispatch, post-response. Extra args are forwarded to the
// handler after the *Context (unless context passing is disabled).
//
// Misses route to the special handlers: notFound when no operation matches
// the request, notImplemented when the operation has no handler, and
// validationFail when the gate rejects the request. A miss whose special
// handler is not registered returns a *DispatchError wrapping ErrNotHandled.
//
// The postResponseHandler runs only on the response-producing paths, after
// the operation handler or the notImplemented fallback. The notFound and
// validationFail fallbacks return their result directly.
func (b *Backend) HandleRequest(ctx context.Context, req *router.Request, args ...any) (any, error) {
	if err := b.Init(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("backend: request cannot be nil")
	}

	c := &Context{
		Request: req,
		backend: b,
		machine: newLifecycle(b.logger),
	}

	match, err := b.router.Match(req.Method, req.Path)
	if err != nil {
		if errors.Is(err, router.ErrNoRoute) || errors.Is(err, router.ErrMethodNotDeclared) {
			return b.handleNotFound(ctx, c, match, args)
		}
		return nil, err
	}
	_ = c.machine.Event(ctx, eventMatch)
	c.Operation = match.Operation

	parsed, err := b.router.ParseRequest(req, match)
	if err != nil {
		return nil, err
	}
	c.Parsed = parsed

	if b.shouldValidate(c) {
		c.Gated = true
		if validators, ok := b.validators.ForOperation(match.Operation); ok {
			c.Validation = validators.ValidateRequest(parsed)
		} else {
			// Nothing compiled for the operation; nothing to reject on.
			c.Validation = validation.Result{Valid: true}
		}
		_ = c.machine.Event(ctx, eventValidate)
		if !c.Validation.Valid {
			if h := b.fallback(HandlerValidationFail); h != nil {
				return b.call(ctx, h, c, args)
			}
			// Advisory: no validationFail handler, the operation handler
			// proceeds and can inspect c.Validation.
			b.logger.Warn("request failed validation, dispatching anyway",
				"operationId", c.Operation.ID,
				"findings", len(c.Validation.Errors))
		}
	}

	handler := b.operationHandler(c.Operation)
	if handler == nil {
		if h := b.fallback(HandlerNotImplemented, HandlerNotImplAlias); h != nil {
			return b.finish(ctx, c, h, args)
		}
		_ = c.machine.Event(ctx, eventFail)
		return nil, &DispatchError{
			Outcome:     HandlerNotImplemented,
			OperationID: c.Operation.ID,
			Method:      req.Method,
			Path:        req.Path,
		}
	}
	return b.finish(ctx, c, handler, args)
}

// handleNotFound parses what it can and routes to the notFound handler.
// A matched-template-wrong-method miss still carries the template's captures.
func (b *Backend) handleNotFound(ctx context.Context, c *Context, partial *router.Match, args []any) (any, error) {
	parsed, err := b.router.ParseRequest(c.Request, partial)
	if err == nil {
		c.Parsed = parsed
	}
	h := b.fallback(HandlerNotFound, HandlerNotFoundAlias)
	if h == nil {
		_ = c.machine.Event(ctx, eventFail)
		return nil, &DispatchError{
			Outcome: HandlerNotFound,
			Method:  c.Request.Method,
			Path:    c.Request.Path,
		}
	}
	return b.call(ctx, h, c, args)
}

// finish dispatches the operation handler and runs the post-response handler
// when one is registered.
func (b *Backend) finish(ctx context.Context, c *Context, handler HandlerFunc, args []any) (any, error) {
	_ = c.machine.Event(ctx, eventHandle)
	response, err := b.call(ctx, handler, c, args)
	if err != nil {
		return response, err
	}
	c.Response = response

	if post := b.fallback(HandlerPostResponse); post != nil {
		_ = c.machine.Event(ctx, eventPostprocess)
		return b.call(ctx, post, c, args)
	}
	_ = c.machine.Event(ctx, eventPostprocess)
	return response, nil
}

// operationHandler resolves the handler for an operation; operations without
// an operationId cannot have one.
func (b *Backend) operationHandler(op *router.Operation) HandlerFunc {
	if op == nil || op.ID == "" {
		return nil
	}
	h, _ := b.Handler(op.ID)
	return h
}

// shouldValidate applies the gate configuration: a predicate when installed,
// the boolean toggle otherwise.
func (b *Backend) shouldValidate(c *Context) bool {
	if b.validationPredicate != nil {
		return b.validationPredicate(c)
	}
	return b.validateRequests
}

// call invokes a handler, prepending the request context to the argument
// list unless context passing is disabled.
func (b *Backend) call(ctx context.Context, handler HandlerFunc, c *Context, args []any) (any, error) {
	if b.passContext {
		args = append([]any{c}, args...)
	}
	return handler(ctx, args...)
}
