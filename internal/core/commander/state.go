package commander

import "github.com/rs/zerolog"

// state names a stage of the request pipeline. States advance strictly
// forward; no state is revisited within a request.
type state string

const (
	stateReceived  state = "received"
	stateResolved  state = "resolved"
	stateRendered  state = "rendered"
	stateValidated state = "validated"
	stateExecuted  state = "executed"
	stateReported  state = "reported"
)

// run tracks one request's progress through the pipeline so transitions
// can be traced.
type run struct {
	current state
	logger  zerolog.Logger
}

func (c *Commander) newRun(origin string) *run {
	return &run{
		current: stateReceived,
		logger:  c.logger.With().Str("origin", origin).Logger(),
	}
}

func (r *run) advance(next state) {
	r.logger.Debug().
		Str("from", string(r.current)).
		Str("to", string(next)).
		Msg("pipeline transition")
	r.current = next
}

// fail terminates the run with an error message and no output.
func (r *run) fail(message string) (bool, string, string) {
	r.advance(stateReported)
	return false, "", message
}

// report terminates the run with the executor's verbatim output.
func (r *run) report(ok bool, stdout, stderr string) (bool, string, string) {
	r.advance(stateReported)
	return ok, stdout, stderr
}
