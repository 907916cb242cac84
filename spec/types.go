package spec

// Document is the root of a dereferenced contract document.
type Document struct {
	OpenAPI string         `yaml:"openapi,omitempty" json:"openapi,omitempty"`
	Info    *Info          `yaml:"info,omitempty" json:"info,omitempty"`
	Paths   *Paths         `yaml:"paths" json:"paths"`
	Extra   map[string]any `yaml:",inline" json:"-"`
}

// Info carries document metadata.
type Info struct {
	Title       string         `yaml:"title,omitempty" json:"title,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string         `yaml:"version,omitempty" json:"version,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// PathItem holds the operations declared for one path template.
type PathItem struct {
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty" json:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty" json:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Trace       *Operation   `yaml:"trace,omitempty" json:"trace,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Operations returns the operations declared on this path item keyed by
// lowercase HTTP method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := map[string]*Operation{
		"get":     p.Get,
		"put":     p.Put,
		"post":    p.Post,
		"delete":  p.Delete,
		"options": p.Options,
		"head":    p.Head,
		"patch":   p.Patch,
		"trace":   p.Trace,
	}
	for method, op := range ops {
		if op == nil {
			delete(ops, method)
		}
	}
	return ops
}

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	OperationID string         `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []*Parameter   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody   `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   *Responses     `yaml:"responses" json:"responses"`
	Deprecated  bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	In          string `yaml:"in,omitempty" json:"in,omitempty"` // "path", "query", "header", "cookie"
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated  bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	Style   string  `yaml:"style,omitempty" json:"style,omitempty"`
	Explode *bool   `yaml:"explode,omitempty" json:"explode,omitempty"`
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example any     `yaml:"example,omitempty" json:"example,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// RequestBody describes a request body keyed by media type.
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Extra       map[string]any        `yaml:",inline" json:"-"`
}

// Response describes a single declared response.
type Response struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Extra       map[string]any        `yaml:",inline" json:"-"`

	contentOrder []string
}

// ContentNames returns the content media types in declaration order.
func (r *Response) ContentNames() []string {
	if r == nil {
		return nil
	}
	if len(r.contentOrder) == len(r.Content) {
		out := make([]string, len(r.contentOrder))
		copy(out, r.contentOrder)
		return out
	}
	names := make([]string, 0, len(r.Content))
	for name := range r.Content {
		names = append(names, name)
	}
	return names
}

// SetContent adds a media type entry, preserving first-seen order.
func (r *Response) SetContent(mediaType string, media *MediaType) {
	if r.Content == nil {
		r.Content = make(map[string]*MediaType)
	}
	if _, exists := r.Content[mediaType]; !exists {
		r.contentOrder = append(r.contentOrder, mediaType)
	}
	r.Content[mediaType] = media
}

// Header represents a declared response header.
type Header struct {
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema        `yaml:"schema,omitempty" json:"schema,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Example represents a named example object.
type Example struct {
	Summary     string         `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Value       any            `yaml:"value,omitempty" json:"value,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}
