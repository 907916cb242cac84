package router

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PathMatcher handles matching request paths against one declared path
// template. It converts templates like "/pets/{petId}" into regex patterns
// and extracts parameter values from actual request paths.
type PathMatcher struct {
	// template is the original path template (e.g., "/pets/{petId}")
	template string

	// regex is the compiled pattern for matching
	regex *regexp.Regexp

	// paramNames are the placeholder names in order of appearance
	paramNames []string

	// declIndex is the template's position in document declaration order
	declIndex int
}

// NewPathMatcher creates a PathMatcher from a path template.
// Returns an error if the template is malformed (e.g., unclosed braces).
func NewPathMatcher(template string, declIndex int) (*PathMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	normalized := normalizePath(template)

	var regexBuf strings.Builder
	regexBuf.WriteString("^")

	paramNames := []string{}

	i := 0
	for i < len(normalized) {
		if normalized[i] == '{' {
			end := strings.Index(normalized[i:], "}")
			if end == -1 {
				return nil, fmt.Errorf("unclosed path parameter at position %d in template %q", i, template)
			}

			paramName := normalized[i+1 : i+end]
			if paramName == "" {
				return nil, fmt.Errorf("empty path parameter at position %d in template %q", i, template)
			}
			for _, existing := range paramNames {
				if existing == paramName {
					return nil, fmt.Errorf("duplicate path parameter %q in template %q", paramName, template)
				}
			}
			paramNames = append(paramNames, paramName)

			// A placeholder spans exactly one non-empty segment.
			regexBuf.WriteString("([^/]+)")
			i += end + 1
		} else {
			c := normalized[i]
			if strings.ContainsRune(`\.+*?()|[]{}^$`, rune(c)) {
				regexBuf.WriteByte('\\')
			}
			regexBuf.WriteByte(c)
			i++
		}
	}

	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &PathMatcher{
		template:   template,
		regex:      regex,
		paramNames: paramNames,
		declIndex:  declIndex,
	}, nil
}

// Match checks if the given normalized path matches this template and
// extracts parameters. Returns false and nil if the path does not match.
func (pm *PathMatcher) Match(path string) (bool, map[string]string) {
	matches := pm.regex.FindStringSubmatch(path)
	if matches == nil {
		return false, nil
	}
	if len(matches) != len(pm.paramNames)+1 {
		return false, nil
	}

	params := make(map[string]string, len(pm.paramNames))
	for i, name := range pm.paramNames {
		params[name] = matches[i+1]
	}
	return true, params
}

// Template returns the original path template.
func (pm *PathMatcher) Template() string {
	return pm.template
}

// ParamNames returns the placeholder names in order of appearance.
func (pm *PathMatcher) ParamNames() []string {
	return pm.paramNames
}

// Placeholders returns the number of placeholder segments in the template.
func (pm *PathMatcher) Placeholders() int {
	return len(pm.paramNames)
}

// Candidate is one template that matches a request path.
type Candidate struct {
	Template   string
	PathParams map[string]string
}

// PathMatcherSet manages the compiled matchers for a document and finds the
// candidates for a given request path.
type PathMatcherSet struct {
	// matchers sorted by placeholder count (fewest first), then declaration order
	matchers []*PathMatcher

	// apiRoot is the configured prefix stripped from incoming paths
	apiRoot string
}

// NewPathMatcherSet compiles a matcher per template. Templates must be passed
// in document declaration order; that order is the final tie-break between
// templates with equal placeholder counts.
func NewPathMatcherSet(templates []string, apiRoot string) (*PathMatcherSet, error) {
	matchers := make([]*PathMatcher, 0, len(templates))
	for i, template := range templates {
		matcher, err := NewPathMatcher(template, i)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, matcher)
	}

	// Fewest placeholders first (literal routes beat parameterized ones),
	// declaration order breaks remaining ties.
	sort.SliceStable(matchers, func(i, j int) bool {
		if matchers[i].Placeholders() != matchers[j].Placeholders() {
			return matchers[i].Placeholders() < matchers[j].Placeholders()
		}
		return matchers[i].declIndex < matchers[j].declIndex
	})

	return &PathMatcherSet{matchers: matchers, apiRoot: normalizeAPIRoot(apiRoot)}, nil
}

// MatchAll returns every template matching the request path, in precedence
// order (most specific first). The request path is normalized first: the
// configured API root prefix and any trailing slash are stripped.
func (pms *PathMatcherSet) MatchAll(path string) []Candidate {
	normalized := pms.Normalize(path)

	var out []Candidate
	for _, matcher := range pms.matchers {
		if matched, params := matcher.Match(normalized); matched {
			out = append(out, Candidate{Template: matcher.template, PathParams: params})
		}
	}
	return out
}

// Match returns the single best matching template for the request path.
func (pms *PathMatcherSet) Match(path string) (template string, params map[string]string, found bool) {
	normalized := pms.Normalize(path)
	for _, matcher := range pms.matchers {
		if matched, params := matcher.Match(normalized); matched {
			return matcher.template, params, true
		}
	}
	return "", nil, false
}

// Templates returns all path templates in precedence order.
func (pms *PathMatcherSet) Templates() []string {
	templates := make([]string, len(pms.matchers))
	for i, m := range pms.matchers {
		templates[i] = m.template
	}
	return templates
}

// Normalize strips the API root prefix and any trailing slash from a path.
func (pms *PathMatcherSet) Normalize(path string) string {
	if pms.apiRoot != "" && strings.HasPrefix(path, pms.apiRoot) {
		path = path[len(pms.apiRoot):]
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
	}
	return normalizePath(path)
}

// normalizePath strips a trailing slash, keeping the bare root intact.
func normalizePath(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

// normalizeAPIRoot canonicalizes the configured prefix: no trailing slash,
// leading slash required, bare "/" means no prefix.
func normalizeAPIRoot(apiRoot string) string {
	apiRoot = strings.TrimSpace(apiRoot)
	if apiRoot == "" || apiRoot == "/" {
		return ""
	}
	if !strings.HasPrefix(apiRoot, "/") {
		apiRoot = "/" + apiRoot
	}
	return strings.TrimRight(apiRoot, "/")
}
