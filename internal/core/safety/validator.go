package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy configures the validator.
type Policy struct {
	Denylist       []string
	ProtectedPaths []string
	ExtraPatterns  []CustomPattern
}

// CustomPattern lets deployments add dangerous-command patterns beyond
// the built-in set.
type CustomPattern struct {
	Expr        string
	Description string
}

// DefaultPolicy returns the built-in denylist, pattern set, and
// protected paths.
func DefaultPolicy() Policy {
	return Policy{
		Denylist:       append([]string(nil), defaultDenylist...),
		ProtectedPaths: append([]string(nil), defaultProtectedPaths...),
	}
}

// Verdict is the outcome of validating one command string.
type Verdict struct {
	Safe   bool
	Reason string
}

// Validator classifies command strings as safe or unsafe. Checks run in
// a fixed order and short-circuit on the first violation, so failure
// reasons are deterministic: empty command, denylist membership,
// dangerous patterns, then protected-path tokens.
type Validator struct {
	denylist map[string]string
	patterns []dangerPattern
	paths    *pathChecker
}

// NewValidator compiles the policy into a validator.
func NewValidator(policy Policy) (*Validator, error) {
	v := &Validator{
		denylist: make(map[string]string, len(policy.Denylist)),
		paths:    newPathChecker(policy.ProtectedPaths),
	}

	for _, cmd := range policy.Denylist {
		v.denylist[normalizeCommand(cmd)] = cmd
	}

	for _, p := range defaultPatterns {
		expr, err := regexp.Compile(p.expr)
		if err != nil {
			return nil, fmt.Errorf("invalid built-in safety pattern %q: %w", p.expr, err)
		}
		v.patterns = append(v.patterns, dangerPattern{expr: expr, description: p.description})
	}
	for _, p := range policy.ExtraPatterns {
		expr, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("invalid safety pattern %q: %w", p.Expr, err)
		}
		v.patterns = append(v.patterns, dangerPattern{expr: expr, description: p.Description})
	}

	return v, nil
}

// Validate classifies a command string. The zero-value Verdict is never
// returned: either Safe is true, or Reason names what matched.
func (v *Validator) Validate(command string) Verdict {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return Verdict{Reason: "empty command"}
	}

	if entry, ok := v.denylist[normalizeCommand(trimmed)]; ok {
		return Verdict{Reason: fmt.Sprintf("blocked command: %s", entry)}
	}

	for _, p := range v.patterns {
		if p.expr.MatchString(trimmed) {
			return Verdict{Reason: fmt.Sprintf("dangerous pattern: %s", p.description)}
		}
	}

	if token, pattern := v.paths.check(trimmed); token != "" {
		return Verdict{Reason: fmt.Sprintf("protected path: %s (matches %s)", token, pattern)}
	}

	return Verdict{Safe: true}
}

// normalizeCommand collapses runs of whitespace so denylist membership
// is not defeated by extra spacing.
func normalizeCommand(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
