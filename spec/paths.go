package spec

import (
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Paths is an insertion-ordered map from path template to PathItem.
// Declaration order is the documented tie-break for ambiguous routes, so the
// plain map form is not enough.
type Paths struct {
	items map[string]*PathItem
	order []string
}

// NewPaths returns an empty Paths, ready for programmatic construction.
func NewPaths() *Paths {
	return &Paths{items: make(map[string]*PathItem)}
}

// Set adds or replaces the PathItem for a template, preserving first-seen order.
func (p *Paths) Set(template string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, exists := p.items[template]; !exists {
		p.order = append(p.order, template)
	}
	p.items[template] = item
}

// Get returns the PathItem declared for template.
func (p *Paths) Get(template string) (*PathItem, bool) {
	if p == nil || p.items == nil {
		return nil, false
	}
	item, ok := p.items[template]
	return item, ok
}

// Keys returns the path templates in declaration order.
func (p *Paths) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of declared path templates.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// UnmarshalYAML decodes a mapping node, recording key order.
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("paths must be a mapping, got %s", nodeKind(node))
	}
	p.items = make(map[string]*PathItem, len(node.Content)/2)
	p.order = p.order[:0]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var item PathItem
		if err := node.Content[i+1].Decode(&item); err != nil {
			return fmt.Errorf("failed to decode path item %q: %w", key, err)
		}
		if _, dup := p.items[key]; dup {
			return fmt.Errorf("duplicate path template %q", key)
		}
		p.items[key] = &item
		p.order = append(p.order, key)
	}
	return nil
}

// MarshalYAML emits the templates in declaration order.
func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range p.order {
		var keyNode, valNode yaml.Node
		if err := keyNode.Encode(key); err != nil {
			return nil, err
		}
		if err := valNode.Encode(p.items[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node, nil
}

// Responses is the container for an operation's declared responses: an
// optional "default" entry plus an insertion-ordered map of status-code keys
// (concrete codes like "200" or wildcards like "2XX").
type Responses struct {
	Default *Response

	codes map[string]*Response
	order []string
}

// NewResponses returns an empty Responses for programmatic construction.
func NewResponses() *Responses {
	return &Responses{codes: make(map[string]*Response)}
}

// Set adds or replaces the response for a status-code key.
func (r *Responses) Set(code string, resp *Response) {
	if code == "default" {
		r.Default = resp
		return
	}
	if r.codes == nil {
		r.codes = make(map[string]*Response)
	}
	if _, exists := r.codes[code]; !exists {
		r.order = append(r.order, code)
	}
	r.codes[code] = resp
}

// Get returns the response declared for a status-code key.
func (r *Responses) Get(code string) (*Response, bool) {
	if r == nil || r.codes == nil {
		return nil, false
	}
	resp, ok := r.codes[code]
	return resp, ok
}

// Codes returns the declared status-code keys in declaration order, excluding
// "default".
func (r *Responses) Codes() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of declared status-code keys, excluding "default".
func (r *Responses) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// UnmarshalYAML decodes a mapping node, splitting out "default" and recording
// the order of the remaining status-code keys.
func (r *Responses) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("responses must be a mapping, got %s", nodeKind(node))
	}
	r.codes = make(map[string]*Response, len(node.Content)/2)
	r.order = r.order[:0]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var resp Response
		if err := node.Content[i+1].Decode(&resp); err != nil {
			return fmt.Errorf("failed to decode response %q: %w", key, err)
		}
		if key == "default" {
			r.Default = &resp
			continue
		}
		r.codes[key] = &resp
		r.order = append(r.order, key)
	}
	return nil
}

// MarshalYAML emits status-code keys in declaration order, then "default".
func (r *Responses) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair := func(key string, val any) error {
		var keyNode, valNode yaml.Node
		if err := keyNode.Encode(key); err != nil {
			return err
		}
		if err := valNode.Encode(val); err != nil {
			return err
		}
		node.Content = append(node.Content, &keyNode, &valNode)
		return nil
	}
	for _, key := range r.order {
		if err := appendPair(key, r.codes[key]); err != nil {
			return nil, err
		}
	}
	if r.Default != nil {
		if err := appendPair("default", r.Default); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// MediaType describes a media type entry in content maps. Named example order
// is preserved for the mock selector's first-declared fallback.
type MediaType struct {
	Schema   *Schema             `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example  any                 `yaml:"example,omitempty" json:"example,omitempty"`
	Examples map[string]*Example `yaml:"examples,omitempty" json:"examples,omitempty"`

	exampleOrder []string
}

// ExampleNames returns the named example keys in declaration order.
func (m *MediaType) ExampleNames() []string {
	if m == nil {
		return nil
	}
	if len(m.exampleOrder) == len(m.Examples) {
		out := make([]string, len(m.exampleOrder))
		copy(out, m.exampleOrder)
		return out
	}
	// Programmatically built media type: fall back to map iteration with no
	// guaranteed order. Callers building documents in code should use
	// SetExample to keep ordering.
	names := make([]string, 0, len(m.Examples))
	for name := range m.Examples {
		names = append(names, name)
	}
	return names
}

// SetExample adds a named example, preserving first-seen order.
func (m *MediaType) SetExample(name string, ex *Example) {
	if m.Examples == nil {
		m.Examples = make(map[string]*Example)
	}
	if _, exists := m.Examples[name]; !exists {
		m.exampleOrder = append(m.exampleOrder, name)
	}
	m.Examples[name] = ex
}

// responseAlias breaks unmarshal recursion.
type responseAlias Response

// UnmarshalYAML decodes the response and records the declaration order of its
// content media types for the mock selector's first-declared fallback.
func (r *Response) UnmarshalYAML(node *yaml.Node) error {
	var alias responseAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}
	*r = Response(alias)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "content" {
			continue
		}
		content := node.Content[i+1]
		if content.Kind != yaml.MappingNode {
			continue
		}
		r.contentOrder = r.contentOrder[:0]
		for j := 0; j+1 < len(content.Content); j += 2 {
			r.contentOrder = append(r.contentOrder, content.Content[j].Value)
		}
	}
	return nil
}

// mediaTypeAlias breaks unmarshal recursion.
type mediaTypeAlias MediaType

// UnmarshalYAML decodes the media type and records the declaration order of
// named examples.
func (m *MediaType) UnmarshalYAML(node *yaml.Node) error {
	var alias mediaTypeAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}
	*m = MediaType(alias)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "examples" {
			continue
		}
		examples := node.Content[i+1]
		if examples.Kind != yaml.MappingNode {
			continue
		}
		m.exampleOrder = m.exampleOrder[:0]
		for j := 0; j+1 < len(examples.Content); j += 2 {
			m.exampleOrder = append(m.exampleOrder, examples.Content[j].Value)
		}
	}
	return nil
}

// nodeKind names a yaml node kind for error messages.
func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
