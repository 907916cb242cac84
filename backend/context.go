package backend

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/looplab/fsm"

	"github.com/oasgate/oasgate/mock"
	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/validation"
)

// Context carries everything the pipeline learned about one request. It is
// built fresh per request and handed to every handler the request reaches.
type Context struct {
	// Request is the incoming request as given to HandleRequest.
	Request *router.Request

	// Parsed holds the deserialized parameters and decoded body.
	Parsed *router.ParsedRequest

	// Operation is the resolved operation; nil on the notFound path.
	Operation *router.Operation

	// Validation is the gate outcome. Zero (Valid false, Errors nil) when the
	// gate did not run; check Gated to tell the two apart.
	Validation validation.Result

	// Gated reports whether the validation gate ran for this request.
	Gated bool

	// Response is the operation handler's return value, visible to the
	// post-response handler.
	Response any

	backend *Backend
	machine *fsm.FSM
}

// Backend returns the backend serving this request.
func (c *Context) Backend() *Backend {
	return c.backend
}

// Phase returns the current pipeline phase: received, matched, validated,
// handled, completed, or failed.
func (c *Context) Phase() string {
	return c.machine.Current()
}

// Mock synthesizes a mock response for the resolved operation, letting a
// notImplemented handler answer from the contract alone.
func (c *Context) Mock(opts mock.Options) (*mock.Response, error) {
	if c.Operation == nil {
		return nil, errors.Wrap(router.ErrNoRoute, "no operation resolved")
	}
	return mock.ForOperation(c.Operation, opts), nil
}

// Pipeline phases and the events that move between them.
const (
	phaseReceived  = "received"
	phaseMatched   = "matched"
	phaseValidated = "validated"
	phaseHandled   = "handled"
	phaseCompleted = "completed"
	phaseFailed    = "failed"

	eventMatch       = "match"
	eventValidate    = "validate"
	eventHandle      = "handle"
	eventPostprocess = "postprocess"
	eventFail        = "fail"
)

// newLifecycle builds the per-request phase machine. Transitions are strictly
// forward; any phase before handled can fail.
func newLifecycle(logger interface{ Debug(string, ...any) }) *fsm.FSM {
	return fsm.NewFSM(
		phaseReceived,
		fsm.Events{
			{Name: eventMatch, Src: []string{phaseReceived}, Dst: phaseMatched},
			{Name: eventValidate, Src: []string{phaseMatched}, Dst: phaseValidated},
			{Name: eventHandle, Src: []string{phaseMatched, phaseValidated}, Dst: phaseHandled},
			{Name: eventPostprocess, Src: []string{phaseHandled}, Dst: phaseCompleted},
			{Name: eventFail, Src: []string{phaseReceived, phaseMatched, phaseValidated}, Dst: phaseFailed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("request phase", "phase", e.Dst)
			},
		},
	)
}
