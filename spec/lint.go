package spec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oasgate/oasgate/internal/issues"
	"github.com/oasgate/oasgate/internal/severity"
)

// Issue is a single lint finding.
type Issue = issues.Issue

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Lint performs structural checks on a document that claims to be a
// dereferenced contract. Findings are returned in document declaration order;
// nothing is raised as an error. Callers decide whether error-severity
// findings are fatal (strict mode) or advisory.
func Lint(doc *Document) []Issue {
	var found []Issue
	report := func(sev severity.Severity, path, msg string) {
		found = append(found, Issue{Path: path, Message: msg, Severity: sev})
	}

	if doc == nil {
		report(severity.SeverityError, "", "document is nil")
		return found
	}
	if doc.OpenAPI == "" {
		report(severity.SeverityError, "openapi", "missing openapi version field")
	}
	if doc.Info == nil {
		report(severity.SeverityWarning, "info", "missing info object")
	}
	if doc.Paths == nil {
		report(severity.SeverityError, "paths", "missing paths object")
		return found
	}
	if doc.Paths.Len() == 0 {
		report(severity.SeverityWarning, "paths", "paths object is empty; no request will match")
	}

	seenOperationIDs := make(map[string]string)

	for _, template := range doc.Paths.Keys() {
		item, _ := doc.Paths.Get(template)
		if !strings.HasPrefix(template, "/") {
			report(severity.SeverityError, "paths."+template, "path template must start with '/'")
		}

		placeholders := make(map[string]bool)
		for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
			placeholders[m[1]] = true
		}

		for _, method := range methodOrder {
			op := operationFor(item, method)
			if op == nil {
				continue
			}
			opPath := fmt.Sprintf("paths.%s.%s", template, method)

			if op.Responses == nil || (op.Responses.Len() == 0 && op.Responses.Default == nil) {
				report(severity.SeverityError, opPath+".responses", "operation declares no responses")
			}

			if op.OperationID != "" {
				if prev, dup := seenOperationIDs[op.OperationID]; dup {
					report(severity.SeverityError, opPath+".operationId",
						fmt.Sprintf("duplicate operationId %q (first declared at %s)", op.OperationID, prev))
				} else {
					seenOperationIDs[op.OperationID] = opPath
				}
			}

			declared := make(map[string]bool)
			for _, p := range MergedParameters(item, op) {
				if p.In != "path" {
					continue
				}
				declared[p.Name] = true
				if !p.Required {
					report(severity.SeverityWarning, opPath+".parameters."+p.Name,
						"path parameters must be declared required")
				}
				if !placeholders[p.Name] {
					report(severity.SeverityWarning, opPath+".parameters."+p.Name,
						fmt.Sprintf("path parameter %q does not appear in template %s", p.Name, template))
				}
			}
			for name := range placeholders {
				if !declared[name] {
					report(severity.SeverityWarning, opPath+".parameters",
						fmt.Sprintf("template placeholder {%s} has no declared path parameter", name))
				}
			}

			lintRefs(op, opPath, report)
		}
	}

	return found
}

// HasErrors reports whether any finding is error severity.
func HasErrors(found []Issue) bool {
	for _, issue := range found {
		if issue.Severity == severity.SeverityError {
			return true
		}
	}
	return false
}

var methodOrder = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

func operationFor(item *PathItem, method string) *Operation {
	if item == nil {
		return nil
	}
	switch method {
	case "get":
		return item.Get
	case "put":
		return item.Put
	case "post":
		return item.Post
	case "delete":
		return item.Delete
	case "options":
		return item.Options
	case "head":
		return item.Head
	case "patch":
		return item.Patch
	case "trace":
		return item.Trace
	default:
		return nil
	}
}

// MergedParameters merges path-item and operation parameters; operation-level
// declarations override path-level ones with the same (in, name).
func MergedParameters(item *PathItem, op *Operation) []*Parameter {
	merged := make(map[string]*Parameter)
	var order []string
	add := func(p *Parameter) {
		if p == nil {
			return
		}
		key := p.In + ":" + p.Name
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = p
	}
	if item != nil {
		for _, p := range item.Parameters {
			add(p)
		}
	}
	if op != nil {
		for _, p := range op.Parameters {
			add(p)
		}
	}
	out := make([]*Parameter, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

// lintRefs reports leftover $ref values anywhere in an operation's schemas.
// A dereferenced document must not contain any.
func lintRefs(op *Operation, opPath string, report func(severity.Severity, string, string)) {
	checkSchema := func(s *Schema, where string) {
		walkSchema(s, func(nested *Schema) {
			if nested.Ref != "" {
				report(severity.SeverityError, where,
					fmt.Sprintf("unresolved $ref %q in a document expected to be dereferenced", nested.Ref))
			}
		})
	}

	for _, p := range op.Parameters {
		if p != nil {
			checkSchema(p.Schema, opPath+".parameters."+p.Name)
		}
	}
	if op.RequestBody != nil {
		for mediaType, mt := range op.RequestBody.Content {
			if mt != nil {
				checkSchema(mt.Schema, opPath+".requestBody.content."+mediaType)
			}
		}
	}
	if op.Responses == nil {
		return
	}
	checkResponse := func(code string, resp *Response) {
		if resp == nil {
			return
		}
		for mediaType, mt := range resp.Content {
			if mt != nil {
				checkSchema(mt.Schema, fmt.Sprintf("%s.responses.%s.content.%s", opPath, code, mediaType))
			}
		}
		for name, hdr := range resp.Headers {
			if hdr != nil {
				checkSchema(hdr.Schema, fmt.Sprintf("%s.responses.%s.headers.%s", opPath, code, name))
			}
		}
	}
	for _, code := range op.Responses.Codes() {
		resp, _ := op.Responses.Get(code)
		checkResponse(code, resp)
	}
	checkResponse("default", op.Responses.Default)
}

// walkSchema applies fn to s and every nested subschema.
func walkSchema(s *Schema, fn func(*Schema)) {
	if s == nil {
		return
	}
	fn(s)
	walkSchema(s.Items, fn)
	walkSchema(s.Not, fn)
	for _, sub := range s.Properties {
		walkSchema(sub, fn)
	}
	for _, sub := range s.AllOf {
		walkSchema(sub, fn)
	}
	for _, sub := range s.AnyOf {
		walkSchema(sub, fn)
	}
	for _, sub := range s.OneOf {
		walkSchema(sub, fn)
	}
	if nested, ok := s.AdditionalProperties.(*Schema); ok {
		walkSchema(nested, fn)
	}
}
