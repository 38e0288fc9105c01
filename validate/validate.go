package validate

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/internal/util"
	"github.com/napalu/rlf/registry"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/semantics"
)

// Validate runs every static check over defs, a single
// language's full parsed definition set, given a registry already
// populated with every one of defs (used for reference/arity lookups).
// lang selects the transform-name table used for rule 8/9. Every
// violation is collected and returned; Validate never stops at the first
// error.
func Validate(defs []*rlffile.PhraseDefinition, reg *registry.PhraseRegistry, lang language.Tag) []error {
	var errsOut []error

	for _, def := range defs {
		checkParameterShadowing(def, reg, &errsOut)
		checkFromWithOwnVariants(def, &errsOut)
		checkMatchDefaults(def, &errsOut)

		walkDefinition(def, func(interp rlftemplate.Interpolation) {
			checkReference(def, reg, interp.Reference, &errsOut)
			checkTransforms(def, lang, interp.Transforms, &errsOut)
			checkSelectors(def, reg, interp, &errsOut)
		})
	}

	checkCycles(defs, &errsOut)

	return errsOut
}

func checkParameterShadowing(def *rlffile.PhraseDefinition, reg *registry.PhraseRegistry, out *[]error) {
	for _, param := range def.Parameters {
		if _, ok := reg.Get(param); ok {
			*out = append(*out, &errs.ValidationError{
				Rule:    errs.RuleParameterShadowing,
				Phrase:  def.Name,
				Message: fmt.Sprintf("parameter $%s shadows a defined phrase/term of the same name", param),
			})
		}
	}
}

func checkFromWithOwnVariants(def *rlffile.PhraseDefinition, out *[]error) {
	if def.HasFrom && def.BodyKind == rlffile.BodyVariants {
		*out = append(*out, &errs.ValidationError{
			Rule:    errs.RuleFromWithOwnVariants,
			Phrase:  def.Name,
			Message: ":from($" + def.FromParam + ") cannot be combined with this definition's own variant block",
		})
	}
}

// checkMatchDefaults re-verifies the :match default discipline across
// branches: exactly one distinct '*'-marked value
// per dimension. The parser enforces this for parsed sources; this
// re-check covers definitions assembled programmatically.
func checkMatchDefaults(def *rlffile.PhraseDefinition, out *[]error) {
	verify := func(branches []rlffile.MatchBranch) {
		for d := range def.MatchParams {
			values := map[string]bool{}
			for _, b := range branches {
				for _, k := range b.Keys {
					if d < len(k.Components) && k.Components[d].IsDefault {
						values[k.Components[d].Value] = true
					}
				}
			}
			if len(values) != 1 {
				*out = append(*out, &errs.ValidationError{
					Rule:    errs.RuleMatchDefaultDiscipline,
					Phrase:  def.Name,
					Message: fmt.Sprintf(":match parameter %q must have exactly one distinct default ('*') value, found %d", def.MatchParams[d], len(values)),
				})
			}
		}
	}

	switch def.BodyKind {
	case rlffile.BodyMatch:
		verify(def.Match)
	case rlffile.BodyVariants:
		for _, e := range def.Variants {
			if e.NestedMatch != nil {
				verify(e.NestedMatch)
			}
		}
	}
}

// checkReference implements rules 2-6: undefined reference, $name
// misuse, bare-identifier misuse, term/phrase confusion, and arity
// mismatch. Call arguments are walked recursively since they are
// themselves References (Identifier/Parameter/NumberLiteral/StringLiteral
// only — nested Call is rejected by the parser, rule 7).
func checkReference(def *rlffile.PhraseDefinition, reg *registry.PhraseRegistry, ref rlftemplate.Reference, out *[]error) {
	switch ref.Kind {
	case rlftemplate.RefParameter:
		if !containsStr(def.Parameters, ref.Name) {
			msg := fmt.Sprintf("$%s is not a declared parameter of %q", ref.Name, def.Name)
			var suggestions []string
			if _, ok := reg.Get(ref.Name); ok {
				msg += fmt.Sprintf("; did you mean the term/phrase %q without the '$'?", ref.Name)
			}
			*out = append(*out, &errs.ValidationError{Rule: errs.RuleParameterMisuse, Phrase: def.Name, Message: msg, Suggestions: suggestions})
		}

	case rlftemplate.RefIdentifier:
		if containsStr(def.Parameters, ref.Name) {
			*out = append(*out, &errs.ValidationError{
				Rule:    errs.RuleBareIdentifierMisuse,
				Phrase:  def.Name,
				Message: fmt.Sprintf("%q is a declared parameter; use {$%s} instead of a bare reference", ref.Name, ref.Name),
			})
			return
		}
		target, ok := reg.Get(ref.Name)
		if !ok {
			*out = append(*out, &errs.ValidationError{
				Rule:        errs.RuleUndefinedReference,
				Phrase:      def.Name,
				Message:     fmt.Sprintf("%q is not a declared parameter or registered phrase/term", ref.Name),
				Suggestions: util.Suggest(ref.Name, reg.Names()),
			})
			return
		}
		if target.Kind == rlffile.KindPhrase {
			*out = append(*out, &errs.ValidationError{
				Rule:    errs.RuleKindConfusion,
				Phrase:  def.Name,
				Message: fmt.Sprintf("%q requires %d argument(s); use call syntax %s(...)", ref.Name, len(target.Parameters), ref.Name),
			})
		}

	case rlftemplate.RefCall:
		target, ok := reg.Get(ref.Name)
		if !ok {
			*out = append(*out, &errs.ValidationError{
				Rule:        errs.RuleUndefinedReference,
				Phrase:      def.Name,
				Message:     fmt.Sprintf("%q is not a registered phrase/term", ref.Name),
				Suggestions: util.Suggest(ref.Name, reg.Names()),
			})
			return
		}
		if target.Kind == rlffile.KindTerm {
			*out = append(*out, &errs.ValidationError{
				Rule:    errs.RuleKindConfusion,
				Phrase:  def.Name,
				Message: fmt.Sprintf("%q is a term (no parameters); drop the call syntax", ref.Name),
			})
		} else if len(ref.Args) != len(target.Parameters) {
			*out = append(*out, &errs.ValidationError{
				Rule:    errs.RuleArityMismatch,
				Phrase:  def.Name,
				Message: fmt.Sprintf("%q expects %d argument(s), got %d", ref.Name, len(target.Parameters), len(ref.Args)),
			})
		}
		for _, arg := range ref.Args {
			checkReference(def, reg, arg, out)
		}
	}
}

// checkTransforms implements rules 8-9: unknown transform name, and a
// dynamic-context parameter that isn't declared on def.
func checkTransforms(def *rlffile.PhraseDefinition, lang language.Tag, transforms []rlftemplate.Transform, out *[]error) {
	for _, t := range transforms {
		if _, ok := semantics.Resolve(t.Name, lang); !ok {
			base, _ := lang.Base()
			*out = append(*out, &errs.ValidationError{
				Rule:        errs.RuleUnknownTransform,
				Phrase:      def.Name,
				Message:     fmt.Sprintf("unknown transform %q for language %q", t.Name, base.String()),
				Suggestions: util.Suggest(t.Name, semantics.AcceptedNames(lang)),
			})
		}
		if t.Context == rlftemplate.ContextDynamic || t.Context == rlftemplate.ContextBoth {
			if !containsStr(def.Parameters, t.Dynamic) {
				*out = append(*out, &errs.ValidationError{
					Rule:    errs.RuleUndeclaredDynamicParam,
					Phrase:  def.Name,
					Message: fmt.Sprintf("transform @%s's dynamic context references undeclared parameter $%s", t.Name, t.Dynamic),
				})
			}
		}
	}
}

// checkSelectors implements rules 10-11: an undeclared parameter selector
// is always an error; static-only selector reachability is checked when
// the reference resolves to a Term with a (non-match) variant block and
// every selector is a Literal.
func checkSelectors(def *rlffile.PhraseDefinition, reg *registry.PhraseRegistry, interp rlftemplate.Interpolation, out *[]error) {
	if len(interp.Selectors) == 0 {
		return
	}

	allStatic := true
	var parts []string
	for _, sel := range interp.Selectors {
		switch sel.Kind {
		case rlftemplate.SelLiteral:
			parts = append(parts, sel.Name)
		case rlftemplate.SelParameter:
			allStatic = false
			if !containsStr(def.Parameters, sel.Name) {
				*out = append(*out, &errs.ValidationError{
					Rule:    errs.RuleUndeclaredParamSelector,
					Phrase:  def.Name,
					Message: fmt.Sprintf("selector :$%s references undeclared parameter", sel.Name),
				})
			}
		}
	}
	if !allStatic {
		return
	}

	var targetName string
	switch interp.Reference.Kind {
	case rlftemplate.RefIdentifier, rlftemplate.RefCall:
		targetName = interp.Reference.Name
	default:
		return
	}
	target, ok := reg.Get(targetName)
	if !ok || target.Kind != rlffile.KindTerm || target.BodyKind != rlffile.BodyVariants {
		return
	}

	keys := variantKeysOf(target)
	key := strings.Join(parts, ".")
	if !reachableByFallback(key, keys) {
		sorted := append([]string{}, keys...)
		sort.Strings(sorted)
		*out = append(*out, &errs.ValidationError{
			Rule:        errs.RuleSelectorUnreachable,
			Phrase:      def.Name,
			Message:     fmt.Sprintf("selector key %q does not resolve against %q's variants (available: %s)", key, targetName, strings.Join(sorted, ", ")),
			Suggestions: util.Suggest(key, keys),
		})
	}
}

// reachableByFallback mirrors eval's runtime variant-lookup fallback
// statically: an exact match, or repeatedly stripping the
// trailing ".component".
func reachableByFallback(key string, keys []string) bool {
	if len(keys) == 0 || key == "*" {
		return true
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	k := key
	for {
		if set[k] {
			return true
		}
		idx := strings.LastIndexByte(k, '.')
		if idx < 0 {
			return false
		}
		k = k[:idx]
	}
}

func containsStr(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
