package eval

import (
	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/internal/util"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/value"
)

// newChildFrame builds a call-frame context for evaluating name under
// params: it checks the cycle and depth invariants, extends the stack,
// and inherits only the string context, never the parameter map or
// the caller's own stack slice.
func newChildFrame(ctx *EvalContext, name string, params map[string]value.Value) (*EvalContext, error) {
	for _, s := range ctx.Stack {
		if s == name {
			chain := append(append([]string{}, ctx.Stack...), name)
			return nil, &errs.CyclicReference{Chain: chain}
		}
	}
	if ctx.Depth+1 > ctx.MaxDepth {
		return nil, &errs.MaxDepthExceeded{MaxDepth: ctx.MaxDepth}
	}
	child := ctx.withParams(params)
	child.Stack = append(append([]string{}, ctx.Stack...), name)
	child.Depth = ctx.Depth + 1
	ctx.emitTrace(name, child.Depth)
	return child, nil
}

// resolveReference resolves a single Reference to a Value, recursing into
// the registry for Identifier/Call references.
func resolveReference(ctx *EvalContext, ref rlftemplate.Reference) (value.Value, error) {
	switch ref.Kind {
	case rlftemplate.RefParameter:
		v, ok := ctx.Params[ref.Name]
		if !ok {
			return value.Value{}, &errs.UndefinedParameter{Name: ref.Name}
		}
		return v, nil

	case rlftemplate.RefNumberLiteral:
		return value.NumberValue(ref.Number), nil

	case rlftemplate.RefStringLiteral:
		return value.StringValue(ref.Str), nil

	case rlftemplate.RefIdentifier:
		if v, ok := ctx.Params[ref.Name]; ok {
			return v, nil
		}
		def, ok := ctx.Phrases.Get(ref.Name)
		if !ok {
			return value.Value{}, &errs.PhraseNotFound{Name: ref.Name, Suggestions: util.Suggest(ref.Name, ctx.Phrases.Names())}
		}
		child, err := newChildFrame(ctx, ref.Name, map[string]value.Value{})
		if err != nil {
			return value.Value{}, err
		}
		p, err := evalDefinition(child, def)
		if err != nil {
			return value.Value{}, err
		}
		return value.PhraseValue(p), nil

	case rlftemplate.RefCall:
		def, ok := ctx.Phrases.Get(ref.Name)
		if !ok {
			return value.Value{}, &errs.PhraseNotFound{Name: ref.Name, Suggestions: util.Suggest(ref.Name, ctx.Phrases.Names())}
		}
		if len(ref.Args) != len(def.Parameters) {
			return value.Value{}, &errs.ArgumentCount{Phrase: ref.Name, Expected: len(def.Parameters), Got: len(ref.Args)}
		}
		args := make(map[string]value.Value, len(ref.Args))
		for i, a := range ref.Args {
			v, err := resolveReference(ctx, a)
			if err != nil {
				return value.Value{}, err
			}
			args[def.Parameters[i]] = v
		}
		child, err := newChildFrame(ctx, ref.Name, args)
		if err != nil {
			return value.Value{}, err
		}
		p, err := evalDefinition(child, def)
		if err != nil {
			return value.Value{}, err
		}
		return value.PhraseValue(p), nil
	}

	return value.Value{}, &errs.PhraseNotFound{Name: ref.Name}
}
