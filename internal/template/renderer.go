package template

import "regexp"

// Renderer substitutes placeholders in message templates. Two syntaxes are
// accepted because the admin screens and the Kakao templates historically
// used different markers: `#{name}` and `{{name}}`.
type Renderer interface {
	Render(tmpl string, vars map[string]string) string
	ExtractPlaceholders(tmpl string) []string
}

type renderer struct {
	hashPattern  *regexp.Regexp
	bracePattern *regexp.Regexp
}

// NewRenderer creates a new template renderer
func NewRenderer() Renderer {
	return &renderer{
		hashPattern:  regexp.MustCompile(`#\{([a-zA-Z0-9_]+)\}`),
		bracePattern: regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`),
	}
}

// Render replaces every occurrence of each recognized placeholder with the
// corresponding value from vars. Placeholders with no matching key are
// left verbatim.
func (r *renderer) Render(tmpl string, vars map[string]string) string {
	replace := func(pattern *regexp.Regexp, s string) string {
		return pattern.ReplaceAllStringFunc(s, func(match string) string {
			name := pattern.FindStringSubmatch(match)[1]
			if value, ok := vars[name]; ok {
				return value
			}
			return match
		})
	}

	result := replace(r.bracePattern, tmpl)
	return replace(r.hashPattern, result)
}

// ExtractPlaceholders returns all placeholder names found in tmpl, in both
// syntaxes, in order of appearance
func (r *renderer) ExtractPlaceholders(tmpl string) []string {
	names := []string{}
	for _, pattern := range []*regexp.Regexp{r.hashPattern, r.bracePattern} {
		for _, match := range pattern.FindAllStringSubmatch(tmpl, -1) {
			names = append(names, match[1])
		}
	}
	return names
}
