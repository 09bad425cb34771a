package domain

import (
	"fmt"
	"strings"
)

// Rendering-stage failures are distinct types so callers can discriminate
// with errors.As instead of matching message text.

// VerbNotSupportedError reports a verb the plugin does not own.
type VerbNotSupportedError struct {
	Plugin string
	Verb   string
}

func (e *VerbNotSupportedError) Error() string {
	return fmt.Sprintf("plugin %s does not support verb %q", e.Plugin, e.Verb)
}

// TemplateMissingError reports a canonical verb with no template behind it.
type TemplateMissingError struct {
	Plugin string
	Verb   string
}

func (e *TemplateMissingError) Error() string {
	return fmt.Sprintf("plugin %s has no template for verb %q", e.Plugin, e.Verb)
}

// MissingParametersError lists every required parameter absent from the
// call. Rendering never proceeds partially.
type MissingParametersError struct {
	Names []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("missing parameters: %s", strings.Join(e.Names, ", "))
}

// UnresolvedPlaceholderError flags a placeholder the template references
// but no parameter or default binds. This is a template-authoring defect,
// reported distinctly from a caller-supplied missing parameter.
type UnresolvedPlaceholderError struct {
	Name string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unresolved placeholder %q in template", e.Name)
}
