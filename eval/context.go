// Package eval is the recursive evaluator: it turns a
// PhraseDefinition plus a parameter map into a fully-rendered Phrase, or a
// Template into a plain string, walking references, selectors, the
// right-to-left transform pipeline, :from inheritance and :match
// branching along the way.
package eval

import (
	"golang.org/x/text/language"

	"github.com/napalu/rlf/registry"
	"github.com/napalu/rlf/value"
)

// DefaultMaxDepth is the recursion ceiling applied unless overridden via
// WithMaxDepth.
const DefaultMaxDepth = 64

// EvalContext carries everything a single evaluation call needs: the
// active parameter map, call stack (for cycle detection), depth budget,
// string context (propagates to children, never parameters or the
// stack itself), and the warnings collected so far.
type EvalContext struct {
	Params     map[string]value.Value
	Lang       language.Tag
	Phrases    *registry.PhraseRegistry
	Transforms *registry.TransformRegistry

	Stack    []string
	Depth    int
	MaxDepth int

	StringContext    string
	HasStringContext bool

	// FromBound records every parameter name that has served as a
	// :from($p) iteration source during this evaluation. One map is
	// shared by all frames of the evaluation and entries are never
	// removed. No eval-time decision reads it; a caller-supplied warning
	// hook can consult it to avoid re-flagging such a parameter.
	FromBound map[string]bool

	Warnings *WarningSet

	trace  TraceFunc
	evalID string
}

// Option configures an EvalContext at construction.
type Option func(*EvalContext)

// WithMaxDepth overrides the recursion ceiling.
func WithMaxDepth(n int) Option {
	return func(c *EvalContext) { c.MaxDepth = n }
}

// WithStringContext seeds the initial string context, used by variant and
// :from default-text selection.
func WithStringContext(s string) Option {
	return func(c *EvalContext) {
		c.StringContext = s
		c.HasStringContext = true
	}
}

// NewEvalContext builds a root evaluation context for a top-level call.
func NewEvalContext(params map[string]value.Value, lang language.Tag, phrases *registry.PhraseRegistry, transforms *registry.TransformRegistry, opts ...Option) *EvalContext {
	if params == nil {
		params = map[string]value.Value{}
	}
	c := &EvalContext{
		Params:     params,
		Lang:       lang,
		Phrases:    phrases,
		Transforms: transforms,
		MaxDepth:   DefaultMaxDepth,
		FromBound:  map[string]bool{},
		Warnings:   NewWarningSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// withParams returns a copy of c with a new parameter map, sharing the
// stack, depth, language, registries and warnings.
func (c *EvalContext) withParams(params map[string]value.Value) *EvalContext {
	return &EvalContext{
		Params:           params,
		Lang:             c.Lang,
		Phrases:          c.Phrases,
		Transforms:       c.Transforms,
		Stack:            c.Stack,
		Depth:            c.Depth,
		MaxDepth:         c.MaxDepth,
		StringContext:    c.StringContext,
		HasStringContext: c.HasStringContext,
		FromBound:        c.FromBound,
		Warnings:         c.Warnings,
		trace:            c.trace,
		evalID:           c.evalID,
	}
}

func cloneParams(params map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
