package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// CoreNamespacePrefix marks built-in plugins. Core plugins win priority
// ties against third-party plugins exposing the same verb.
const CoreNamespacePrefix = "core."

// namePattern matches valid external plugin names. The dot is deliberately
// excluded so manifest-loaded plugins cannot claim the core namespace.
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// NormalizeVerb trims and case-folds a verb string for matching.
func NormalizeVerb(verb string) string {
	return cases.Fold().String(strings.TrimSpace(verb))
}

// ValidPluginName reports whether name is acceptable for an externally
// loaded plugin.
func ValidPluginName(name string) bool {
	return namePattern.MatchString(name)
}

// IsCoreName reports whether a plugin name lives in the reserved
// built-in namespace.
func IsCoreName(name string) bool {
	return strings.HasPrefix(name, CoreNamespacePrefix)
}

// TemplateSpec declares how a verb renders into a shell command: a
// pattern with {name} placeholders plus the parameters it needs.
type TemplateSpec struct {
	Pattern        string
	Description    string
	Examples       []string
	RequiredParams []string
	OptionalParams map[string]string
}

// Capability is the structural contract a type must satisfy to be
// registered as a plugin. Conformance is checked at registration time;
// no inheritance hierarchy is required.
type Capability interface {
	Name() string
	Priority() int
	Verbs() []string
	Aliases() map[string]string
	Templates() map[string]TemplateSpec
}

// Plugin is the registry-owned, immutable description of a capability:
// a named, prioritized bundle of verbs and their command templates.
// All verb and alias keys are stored normalized.
type Plugin struct {
	name      string
	priority  int
	verbs     map[string]struct{}
	aliases   map[string]string
	templates map[string]TemplateSpec
}

// NewPlugin builds an immutable Plugin, validating that verbs are
// non-empty single words and that every alias targets a declared verb.
func NewPlugin(name string, priority int, verbs []string, aliases map[string]string, templates map[string]TemplateSpec) (*Plugin, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("plugin name cannot be empty")
	}

	p := &Plugin{
		name:      name,
		priority:  priority,
		verbs:     make(map[string]struct{}, len(verbs)),
		aliases:   make(map[string]string, len(aliases)),
		templates: make(map[string]TemplateSpec, len(templates)),
	}

	for _, verb := range verbs {
		normalized := NormalizeVerb(verb)
		if normalized == "" {
			return nil, fmt.Errorf("plugin %s declares an empty verb", name)
		}
		if strings.ContainsAny(normalized, " \t") {
			return nil, fmt.Errorf("plugin %s verb %q contains whitespace", name, verb)
		}
		p.verbs[normalized] = struct{}{}
	}

	for alias, canonical := range aliases {
		normalizedAlias := NormalizeVerb(alias)
		normalizedCanonical := NormalizeVerb(canonical)
		if normalizedAlias == "" {
			return nil, fmt.Errorf("plugin %s declares an empty alias", name)
		}
		if _, ok := p.verbs[normalizedCanonical]; !ok {
			return nil, fmt.Errorf("plugin %s alias %q targets unknown verb %q", name, alias, canonical)
		}
		if _, clash := p.verbs[normalizedAlias]; clash {
			return nil, fmt.Errorf("plugin %s alias %q shadows a canonical verb", name, alias)
		}
		p.aliases[normalizedAlias] = normalizedCanonical
	}

	for verb, spec := range templates {
		p.templates[NormalizeVerb(verb)] = spec
	}

	return p, nil
}

// FromCapability checks structural conformance and snapshots the
// capability into an immutable Plugin.
func FromCapability(c Capability) (*Plugin, error) {
	if c == nil {
		return nil, fmt.Errorf("capability cannot be nil")
	}
	return NewPlugin(c.Name(), c.Priority(), c.Verbs(), c.Aliases(), c.Templates())
}

// Name returns the unique plugin name.
func (p *Plugin) Name() string {
	return p.name
}

// Priority returns the numeric priority; higher wins at resolution.
func (p *Plugin) Priority() int {
	return p.priority
}

// IsCore reports whether the plugin lives in the built-in namespace.
func (p *Plugin) IsCore() bool {
	return IsCoreName(p.name)
}

// CanHandle reports whether the normalized verb is one of the plugin's
// canonical verbs or alias keys.
func (p *Plugin) CanHandle(normalizedVerb string) bool {
	if _, ok := p.verbs[normalizedVerb]; ok {
		return true
	}
	_, ok := p.aliases[normalizedVerb]
	return ok
}

// CanonicalVerb maps a normalized verb or alias to its canonical verb.
func (p *Plugin) CanonicalVerb(normalizedVerb string) (string, bool) {
	if _, ok := p.verbs[normalizedVerb]; ok {
		return normalizedVerb, true
	}
	if canonical, ok := p.aliases[normalizedVerb]; ok {
		return canonical, true
	}
	return "", false
}

// Template returns the TemplateSpec for a canonical verb.
func (p *Plugin) Template(canonicalVerb string) (TemplateSpec, bool) {
	spec, ok := p.templates[canonicalVerb]
	return spec, ok
}

// Verbs returns the canonical verbs in sorted order.
func (p *Plugin) Verbs() []string {
	verbs := make([]string, 0, len(p.verbs))
	for verb := range p.verbs {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

// Aliases returns a copy of the alias map.
func (p *Plugin) Aliases() map[string]string {
	aliases := make(map[string]string, len(p.aliases))
	for alias, canonical := range p.aliases {
		aliases[alias] = canonical
	}
	return aliases
}

// MatchKeys returns every string the plugin answers to, verbs and
// aliases alike, in sorted order for deterministic scans.
func (p *Plugin) MatchKeys() []string {
	keys := make([]string, 0, len(p.verbs)+len(p.aliases))
	for verb := range p.verbs {
		keys = append(keys, verb)
	}
	for alias := range p.aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	return keys
}
