package eval

import (
	"sort"
	"strings"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/internal/util"
	"github.com/napalu/rlf/plural"
	"github.com/napalu/rlf/registry"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/semantics"
	"github.com/napalu/rlf/value"
)

// EvalPhrase evaluates a top-level Call against the given registries,
// producing a Phrase. args must already be in declared
// parameter order.
func EvalPhrase(ctx *EvalContext, name string, args []value.Value) (value.Phrase, error) {
	def, ok := ctx.Phrases.Get(name)
	if !ok {
		return value.Phrase{}, &errs.PhraseNotFound{Name: name, Suggestions: util.Suggest(name, ctx.Phrases.Names())}
	}
	if len(args) != len(def.Parameters) {
		return value.Phrase{}, &errs.ArgumentCount{Phrase: name, Expected: len(def.Parameters), Got: len(args)}
	}
	params := make(map[string]value.Value, len(args))
	for i, a := range args {
		params[def.Parameters[i]] = a
	}
	child, err := newChildFrame(ctx, name, params)
	if err != nil {
		return value.Phrase{}, err
	}
	return evalDefinition(child, def)
}

// EvalTemplate evaluates a bare template string against the context's
// current parameter map (used by locale.EvalStr), returning
// a plain string rather than a Phrase.
func EvalTemplate(ctx *EvalContext, tmpl *rlftemplate.Template) (string, error) {
	return evalTemplate(ctx, tmpl)
}

// evalDefinition evaluates one PhraseDefinition's body in ctx (whose
// parameter map already holds the resolved arguments) into a Phrase.
func evalDefinition(ctx *EvalContext, def *rlffile.PhraseDefinition) (value.Phrase, error) {
	if def.HasFrom {
		return evalFrom(ctx, def)
	}

	switch def.BodyKind {
	case rlffile.BodySimple:
		text, err := evalTemplate(ctx, def.Simple)
		if err != nil {
			return value.Phrase{}, err
		}
		maybeWarnMissingFrom(ctx, def)
		return value.NewPhrase(text, nil, def.Tags), nil

	case rlffile.BodyVariants:
		variants, defaultText, err := evalVariantEntries(ctx, def)
		if err != nil {
			return value.Phrase{}, err
		}
		return value.NewPhrase(defaultText, variants, def.Tags), nil

	case rlffile.BodyMatch:
		text, err := evalMatch(ctx, def.MatchParams, def.Match, def.Name)
		if err != nil {
			return value.Phrase{}, err
		}
		return value.NewPhrase(text, nil, def.Tags), nil
	}

	return value.Phrase{}, &errs.PhraseNotFound{Name: def.Name}
}

// maybeWarnMissingFrom implements the "likely missing :from" lint at
// runtime: a Phrase with no :from and no tags whose body
// references a Phrase-typed parameter silently drops that parameter's
// tag metadata.
func maybeWarnMissingFrom(ctx *EvalContext, def *rlffile.PhraseDefinition) {
	if def.HasFrom || len(def.Tags) > 0 || len(def.Parameters) == 0 {
		return
	}
	if !semantics.LanguageMeta(ctx.Lang).HasGender {
		return
	}
	if def.Simple == nil {
		return
	}
	for _, seg := range def.Simple.Segments {
		if seg.Kind != rlftemplate.SegmentInterpolation {
			continue
		}
		ref := seg.Interp.Reference
		if ref.Kind != rlftemplate.RefParameter {
			continue
		}
		if v, ok := ctx.Params[ref.Name]; ok && v.Kind() == value.KindPhrase {
			ctx.Warnings.Add(Warning{
				Kind:   "likely_missing_from",
				Phrase: def.Name,
				Detail: "parameter $" + ref.Name + " carries tags that will be silently dropped without :from",
			})
		}
	}
}

// evalTemplate renders a Template to a string: literal segments pass
// through; interpolations resolve their reference, apply selectors to
// build a compound key and (for a Phrase reference) look up a variant,
// then fold the transform pipeline right-to-left.
func evalTemplate(ctx *EvalContext, tmpl *rlftemplate.Template) (string, error) {
	var b strings.Builder
	for _, seg := range tmpl.Segments {
		switch seg.Kind {
		case rlftemplate.SegmentLiteral:
			b.WriteString(seg.Literal)
		case rlftemplate.SegmentInterpolation:
			s, err := evalInterpolation(ctx, seg.Interp)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

func evalInterpolation(ctx *EvalContext, interp rlftemplate.Interpolation) (string, error) {
	v, err := resolveReference(ctx, interp.Reference)
	if err != nil {
		return "", err
	}

	// Selectors only make sense against a Phrase value; for any other
	// kind they're a no-op (the reference has no variants to select
	// from), mirroring lookupVariant's empty-variants case.
	if len(interp.Selectors) > 0 {
		if ph, ok := v.Phrase(); ok {
			key, err := resolveSelectorKey(ctx, interp.Selectors)
			if err != nil {
				return "", err
			}
			text, err := lookupVariant(interp.Reference.Name, ph, key)
			if err != nil {
				return "", err
			}
			v = value.StringValue(text)
		}
	}

	return applyTransformPipeline(ctx, interp.Transforms, v)
}

// resolveSelectorKey resolves every Selector to a component string and
// dot-joins them into the compound lookup key.
func resolveSelectorKey(ctx *EvalContext, selectors []rlftemplate.Selector) (string, error) {
	parts := make([]string, 0, len(selectors))
	for _, sel := range selectors {
		switch sel.Kind {
		case rlftemplate.SelLiteral:
			parts = append(parts, sel.Name)
		case rlftemplate.SelParameter:
			v, ok := ctx.Params[sel.Name]
			if !ok {
				return "", &errs.UndefinedParameter{Name: sel.Name}
			}
			comp, err := selectorComponent(ctx, sel.Name, v)
			if err != nil {
				return "", err
			}
			parts = append(parts, comp)
		}
	}
	return strings.Join(parts, "."), nil
}

// selectorComponent resolves one parameter value to its discriminator
// component: Number/Float categorise via CLDR, Phrase uses its first
// tag, String tries an integer parse and falls back to itself verbatim.
func selectorComponent(ctx *EvalContext, paramName string, v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.Number()
		return string(plural.ForInt64(ctx.Lang, n)), nil
	case value.KindFloat:
		f, _ := v.Float()
		return string(plural.ForInt64(ctx.Lang, int64(f))), nil
	case value.KindPhrase:
		ph, _ := v.Phrase()
		tag, ok := ph.FirstTag()
		if !ok {
			return "", &errs.MissingTag{Transform: "selector", Expected: "a grammatical tag", Phrase: paramName}
		}
		return string(tag), nil
	case value.KindString:
		s, _ := v.String()
		if cat, ok := plural.ForString(ctx.Lang, s); ok {
			return string(cat), nil
		}
		return s, nil
	}
	return "", &errs.UndefinedParameter{Name: paramName}
}

// lookupVariant implements the variant-lookup-with-fallback
// algorithm: try the exact compound key, then repeatedly strip the
// trailing ".component", until no dots remain; an empty variant map
// degenerates to returning Text (a no-op selector on a non-variant
// phrase); otherwise fail with MissingVariant.
func lookupVariant(phraseName string, ph value.Phrase, key string) (string, error) {
	if !ph.HasVariants() {
		return ph.Text(), nil
	}
	if key == "*" {
		// ":*" explicitly requests the default rendering.
		return ph.Text(), nil
	}

	k := key
	for {
		if v, ok := ph.VariantLookup(value.VariantKey(k)); ok {
			return v, nil
		}
		idx := strings.LastIndexByte(k, '.')
		if idx < 0 {
			break
		}
		k = k[:idx]
	}

	available := variantKeyStrings(ph)
	return "", &errs.MissingVariant{
		Phrase:      phraseName,
		Key:         key,
		Available:   available,
		Suggestions: util.Suggest(key, available),
	}
}

func variantKeyStrings(ph value.Phrase) []string {
	vs := ph.Variants()
	out := make([]string, 0, len(vs))
	for k := range vs {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// applyTransformPipeline folds the transform list right-to-left around v:
// transforms is in source order (leftmost written first), so the last
// element is the one closest to the reference and applies first, seeing
// the raw Value (so it can inspect Phrase tags). Every transform after
// that sees the previous result as a plain string.
func applyTransformPipeline(ctx *EvalContext, transforms []rlftemplate.Transform, v value.Value) (string, error) {
	if len(transforms) == 0 {
		return v.AsDisplayString(), nil
	}

	// Transforms execute right-to-left: the last transform written
	// (closest to the reference) applies first.
	result := v.AsDisplayString()
	first := true
	for i := len(transforms) - 1; i >= 0; i-- {
		t := transforms[i]
		tctx, err := buildTransformContext(ctx, t)
		if err != nil {
			return "", err
		}
		fn, ok := ctx.Transforms.Lookup(t.Name, ctx.Lang)
		if !ok {
			id, resolved := semantics.Resolve(t.Name, ctx.Lang)
			if resolved {
				fn, ok = ctx.Transforms.Lookup(string(id), ctx.Lang)
			}
		}
		if !ok {
			base, _ := ctx.Lang.Base()
			return "", &errs.UnknownTransform{Name: t.Name, Language: base.String(), Suggestions: util.Suggest(t.Name, semantics.AcceptedNames(ctx.Lang))}
		}

		var input value.Value
		if first {
			input = v
		} else {
			input = value.StringValue(result)
		}
		out, err := fn(input, tctx, ctx.Lang)
		if err != nil {
			return "", err
		}
		result = out
		first = false
	}
	return result, nil
}

func buildTransformContext(ctx *EvalContext, t rlftemplate.Transform) (registry.TransformContext, error) {
	var tc registry.TransformContext
	switch t.Context {
	case rlftemplate.ContextStatic:
		tc.Static = t.Static
		tc.HasStatic = true
	case rlftemplate.ContextDynamic:
		v, ok := ctx.Params[t.Dynamic]
		if !ok {
			return tc, &errs.UndefinedParameter{Name: t.Dynamic}
		}
		tc.Dynamic = v
		tc.HasDynamic = true
	case rlftemplate.ContextBoth:
		tc.Static = t.Static
		tc.HasStatic = true
		v, ok := ctx.Params[t.Dynamic]
		if !ok {
			return tc, &errs.UndefinedParameter{Name: t.Dynamic}
		}
		tc.Dynamic = v
		tc.HasDynamic = true
	}
	return tc, nil
}
