package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nlcmd/cli/internal/core/domain"
)

// placeholderPattern matches {name} placeholders in command templates.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// safeValuePattern covers parameter values that need no quoting. Space is
// included: rendered commands run through the shell, where unquoted
// spaces separate words, and templates rely on that for multi-word
// values like messages.
var safeValuePattern = regexp.MustCompile(`^[a-zA-Z0-9 _@%+=:,./-]+$`)

// Renderer binds parameters into plugin command templates.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render resolves the verb against the plugin, enforces required
// parameters, merges optional defaults, and substitutes every
// placeholder. It never partially renders: all missing required
// parameters are reported together.
func (r *Renderer) Render(p *domain.Plugin, verb string, params map[string]string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("plugin cannot be nil")
	}

	canonical, ok := p.CanonicalVerb(domain.NormalizeVerb(verb))
	if !ok {
		return "", &domain.VerbNotSupportedError{Plugin: p.Name(), Verb: verb}
	}

	spec, ok := p.Template(canonical)
	if !ok || strings.TrimSpace(spec.Pattern) == "" {
		return "", &domain.TemplateMissingError{Plugin: p.Name(), Verb: canonical}
	}

	var missing []string
	for _, name := range spec.RequiredParams {
		if _, present := params[name]; !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &domain.MissingParametersError{Names: missing}
	}

	merged := make(map[string]string, len(params)+len(spec.OptionalParams))
	for name, def := range spec.OptionalParams {
		merged[name] = def
	}
	for name, value := range params {
		merged[name] = value
	}

	return Expand(spec.Pattern, merged)
}

// Expand substitutes every {name} placeholder in pattern with the
// shell-escaped value from params. A placeholder with no binding fails
// with an UnresolvedPlaceholderError for the first such name in pattern
// order; successful output carries no residual placeholder syntax.
func Expand(pattern string, params map[string]string) (string, error) {
	var unresolved string
	out := placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			if unresolved == "" {
				unresolved = name
			}
			return match
		}
		return EscapeValue(value)
	})
	if unresolved != "" {
		return "", &domain.UnresolvedPlaceholderError{Name: unresolved}
	}
	return out, nil
}

// EscapeValue single-quotes a parameter value when it carries shell
// metacharacters, leaving plain words and space-separated phrases
// untouched.
func EscapeValue(value string) string {
	if value == "" {
		return "''"
	}
	if safeValuePattern.MatchString(value) {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
