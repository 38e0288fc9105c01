package eval

import "github.com/google/uuid"

// TraceEvent describes one call frame entered during an evaluation. Host
// applications rendering many phrases concurrently can use EvalID to
// group the frames belonging to one top-level call when events from
// several evaluations interleave in a shared sink.
type TraceEvent struct {
	// EvalID is a random identifier shared by every frame of one
	// top-level evaluation.
	EvalID string
	// Phrase is the definition being entered.
	Phrase string
	// Depth is the frame's recursion depth (1 for the top-level call).
	Depth int
}

// TraceFunc receives TraceEvents as frames are entered. It must not call
// back into the evaluation that produced the event.
type TraceFunc func(TraceEvent)

// WithTrace installs a trace sink on the context and assigns the
// evaluation its correlation id.
func WithTrace(fn TraceFunc) Option {
	return func(c *EvalContext) {
		c.trace = fn
		c.evalID = uuid.NewString()
	}
}

func (c *EvalContext) emitTrace(phrase string, depth int) {
	if c.trace == nil {
		return
	}
	c.trace(TraceEvent{EvalID: c.evalID, Phrase: phrase, Depth: depth})
}
