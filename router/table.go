package router

import (
	"github.com/cockroachdb/errors"

	"github.com/oasgate/oasgate/internal/httputil"
	"github.com/oasgate/oasgate/spec"
)

// Operation is a denormalized projection of one declared operation: everything
// request handling needs, flattened out of the document tree. Read-only after
// table construction.
type Operation struct {
	// ID is the declared operationId. Operations without one can be matched
	// by path but cannot be dispatched to a handler.
	ID string

	// Method is the lowercase HTTP method.
	Method string

	// Path is the declared path template.
	Path string

	// Parameters holds path-item and operation parameters merged,
	// operation-level declarations winning.
	Parameters []*spec.Parameter

	// RequestBody is the declared request body, if any.
	RequestBody *spec.RequestBody

	// Responses holds the declared responses.
	Responses *spec.Responses

	// declIndex is the operation's position in document declaration order.
	declIndex int
}

// ParametersIn returns the operation's parameters for one location
// (path, query, header, cookie).
func (o *Operation) ParametersIn(location string) []*spec.Parameter {
	var out []*spec.Parameter
	for _, p := range o.Parameters {
		if p != nil && p.In == location {
			out = append(out, p)
		}
	}
	return out
}

// routeKey indexes operations by (method, template).
type routeKey struct {
	method   string
	template string
}

// Table is the flattened, queryable index of every operation a document
// declares. Built once; read-only afterwards, safe for concurrent readers.
type Table struct {
	doc      *spec.Document
	ops      []*Operation
	byID     map[string]*Operation
	byRoute  map[routeKey]*Operation
	matchers *PathMatcherSet
}

// NewTable flattens a dereferenced document into an operation table and
// precompiles its path matchers. apiRoot is the path prefix stripped from
// incoming requests before matching ("" or "/" for none).
func NewTable(doc *spec.Document, apiRoot string) (*Table, error) {
	if doc == nil {
		return nil, errors.New("router: document cannot be nil")
	}

	t := &Table{
		doc:     doc,
		byID:    make(map[string]*Operation),
		byRoute: make(map[routeKey]*Operation),
	}

	templates := doc.Paths.Keys()
	for _, template := range templates {
		item, _ := doc.Paths.Get(template)
		if item == nil {
			continue
		}
		for _, method := range httputil.Methods {
			op := item.Operations()[method]
			if op == nil {
				continue
			}
			flat := &Operation{
				ID:          op.OperationID,
				Method:      method,
				Path:        template,
				Parameters:  spec.MergedParameters(item, op),
				RequestBody: op.RequestBody,
				Responses:   op.Responses,
				declIndex:   len(t.ops),
			}
			t.ops = append(t.ops, flat)
			t.byRoute[routeKey{method: method, template: template}] = flat
			if flat.ID != "" {
				// Duplicate ids are a lint error; last declaration wins here
				// so a lenient backend still routes.
				t.byID[flat.ID] = flat
			}
		}
	}

	matchers, err := NewPathMatcherSet(templates, apiRoot)
	if err != nil {
		return nil, errors.Wrap(err, "router: failed to compile path matchers")
	}
	t.matchers = matchers

	return t, nil
}

// Document returns the contract document the table was built from.
func (t *Table) Document() *spec.Document {
	return t.doc
}

// Operation returns the operation registered under the given operationId.
func (t *Table) Operation(id string) (*Operation, bool) {
	op, ok := t.byID[id]
	return op, ok
}

// Operations returns all operations in document declaration order.
func (t *Table) Operations() []*Operation {
	out := make([]*Operation, len(t.ops))
	copy(out, t.ops)
	return out
}

// Route returns the operation declared for (method, template), if any.
func (t *Table) Route(method, template string) (*Operation, bool) {
	op, ok := t.byRoute[routeKey{method: httputil.NormalizeMethod(method), template: template}]
	return op, ok
}

// Matchers exposes the compiled path matcher set.
func (t *Table) Matchers() *PathMatcherSet {
	return t.matchers
}

// Match is the result of resolving (method, path) against the table.
type Match struct {
	// Operation is the resolved operation. Nil only in the ErrMethodNotDeclared
	// case, where the template matched but the method is undeclared.
	Operation *Operation

	// Template is the winning path template.
	Template string

	// PathParams holds the raw captured placeholder values.
	PathParams map[string]string
}

// Match resolves a request method and path to the single best operation.
//
// All templates matching the path are collected independent of method, then
// filtered by method; the most specific match (fewest placeholders, then
// declaration order) wins. Returns ErrNoRoute when nothing matches the path,
// and ErrMethodNotDeclared (with the best template in the returned Match)
// when a template matches but declares no operation for the method.
func (t *Table) Match(method, path string) (*Match, error) {
	candidates := t.matchers.MatchAll(path)
	if len(candidates) == 0 {
		return nil, errors.Wrapf(ErrNoRoute, "%s %s", method, path)
	}

	m := httputil.NormalizeMethod(method)
	for _, c := range candidates {
		if op, ok := t.byRoute[routeKey{method: m, template: c.Template}]; ok {
			return &Match{Operation: op, Template: c.Template, PathParams: c.PathParams}, nil
		}
	}

	// The path is routed, just not for this method.
	best := candidates[0]
	return &Match{Template: best.Template, PathParams: best.PathParams},
		errors.Wrapf(ErrMethodNotDeclared, "%s %s", method, best.Template)
}
