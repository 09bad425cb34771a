package domain

// ActionType discriminates what the translator wants done with an intent.
type ActionType string

const (
	// ActionExecuteCommand renders the intent's command template and
	// runs the result through validation and execution.
	ActionExecuteCommand ActionType = "execute_command"
)

// ResolvedIntent is the AST handed over by the natural-language
// translator: a rendering target plus parameter bindings. It is consumed
// once per request and never retained.
type ResolvedIntent struct {
	Verb            string
	PluginHint      string
	ActionType      ActionType
	CommandTemplate string
	Parameters      map[string]string
	Confidence      float64
	OriginalText    string
}
