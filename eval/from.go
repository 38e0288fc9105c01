package eval

import (
	"sort"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/value"
)

// evalFrom implements :from($p) metadata inheritance: tags
// inherit from p (prefixed by any tags declared on def itself), and the
// body renders once per variant key of p when p has variants, sorted for
// determinism.
func evalFrom(ctx *EvalContext, def *rlffile.PhraseDefinition) (value.Phrase, error) {
	if def.BodyKind == rlffile.BodyVariants {
		return value.Phrase{}, &errs.IncompatibleFromVariants{Phrase: def.Name}
	}

	pv, ok := ctx.Params[def.FromParam]
	if !ok {
		return value.Phrase{}, &errs.UndefinedParameter{Name: def.FromParam}
	}
	p, ok := pv.Phrase()
	if !ok {
		return value.Phrase{}, &errs.FromParamNotPhrase{Phrase: def.Name, Param: def.FromParam}
	}
	ctx.FromBound[def.FromParam] = true

	tags := append(append([]value.Tag{}, def.Tags...), p.Tags()...)

	if !p.HasVariants() {
		text, err := renderBody(ctx, def)
		if err != nil {
			return value.Phrase{}, err
		}
		return value.NewPhrase(text, nil, tags), nil
	}

	src := p.Variants()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	variants := make(map[value.VariantKey]string, len(keys))
	for _, k := range keys {
		childParams := cloneParams(ctx.Params)
		childParams[def.FromParam] = value.StringValue(src[value.VariantKey(k)])
		text, err := renderBody(ctx.withParams(childParams), def)
		if err != nil {
			return value.Phrase{}, err
		}
		variants[value.VariantKey(k)] = text
	}

	defaultParams := cloneParams(ctx.Params)
	defaultParams[def.FromParam] = value.StringValue(p.Text())
	defaultText, err := renderBody(ctx.withParams(defaultParams), def)
	if err != nil {
		return value.Phrase{}, err
	}
	if ctx.HasStringContext {
		if v, ok := variants[value.VariantKey(ctx.StringContext)]; ok {
			defaultText = v
		}
	}

	return value.NewPhrase(defaultText, variants, tags), nil
}

// renderBody renders def's body (Simple template or Match) under ctx's
// current parameter map. BodyVariants is rejected by its caller evalFrom;
// evalDefinition handles BodyVariants directly for non-:from definitions.
func renderBody(ctx *EvalContext, def *rlffile.PhraseDefinition) (string, error) {
	switch def.BodyKind {
	case rlffile.BodySimple:
		return evalTemplate(ctx, def.Simple)
	case rlffile.BodyMatch:
		return evalMatch(ctx, def.MatchParams, def.Match, def.Name)
	default:
		return "", &errs.IncompatibleFromVariants{Phrase: def.Name}
	}
}
