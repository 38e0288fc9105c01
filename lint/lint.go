// Package lint implements pattern-based warnings over parsed definitions:
// redundant :from passthrough blocks, redundant :from selectors, likely
// missing :from, and verbose transparent wrappers. Lint never produces
// errors; Lint's findings are advisory only.
package lint

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/semantics"
)

// Warning is one linter finding.
type Warning struct {
	Rule    string
	Phrase  string
	Message string
}

const (
	RuleRedundantPassthrough  = "redundant_passthrough"
	RuleRedundantFromSelector = "redundant_from_selector"
	RuleLikelyMissingFrom     = "likely_missing_from"
	RuleVerboseWrapper        = "verbose_transparent_wrapper"
)

// Lint runs every rule over defs for lang (lang matters only for
// RuleLikelyMissingFrom's genderless-language exemption via
// semantics.LanguageMeta).
func Lint(defs []*rlffile.PhraseDefinition, lang language.Tag) []Warning {
	var out []Warning
	for _, def := range defs {
		checkVerboseWrapper(def, &out)
		checkRedundantPassthrough(def, &out)
		checkRedundantFromSelector(def, &out)
		checkLikelyMissingFrom(def, lang, &out)
	}
	return out
}

// checkVerboseWrapper flags `:from($p) "{$p}"`, which can be written
// `:from($p);` — a Simple body whose template is exactly one
// interpolation referencing $p with no transforms and no selectors.
func checkVerboseWrapper(def *rlffile.PhraseDefinition, out *[]Warning) {
	if !def.HasFrom || def.BodyKind != rlffile.BodySimple || def.Simple == nil {
		return
	}
	if len(def.Simple.Segments) != 1 {
		return
	}
	seg := def.Simple.Segments[0]
	if seg.Kind != rlftemplate.SegmentInterpolation {
		return
	}
	interp := seg.Interp
	if len(interp.Transforms) != 0 || len(interp.Selectors) != 0 {
		return
	}
	if interp.Reference.Kind != rlftemplate.RefParameter || interp.Reference.Name != def.FromParam {
		return
	}
	*out = append(*out, Warning{
		Rule:    RuleVerboseWrapper,
		Phrase:  def.Name,
		Message: fmt.Sprintf(":from($%s) \"{$%s}\" can be written :from($%s);", def.FromParam, def.FromParam, def.FromParam),
	})
}

// checkRedundantPassthrough flags a :from($p)-phrase whose variant block
// is semantically equivalent to passing $p through, selecting by the
// entry's own key, in every entry: each entry's template is exactly
// `{$p:k}` for the entry's own single key k.
func checkRedundantPassthrough(def *rlffile.PhraseDefinition, out *[]Warning) {
	if !def.HasFrom || def.BodyKind != rlffile.BodyVariants || len(def.Variants) == 0 {
		return
	}
	for _, e := range def.Variants {
		if e.NestedMatch != nil || e.Template == nil || len(e.Keys) != 1 {
			return
		}
		if !isPassthroughForKey(e.Template, def.FromParam, string(e.Keys[0])) {
			return
		}
	}
	*out = append(*out, Warning{
		Rule:    RuleRedundantPassthrough,
		Phrase:  def.Name,
		Message: fmt.Sprintf(":from($%s) variant block only passes $%s through by its own key; it can be dropped", def.FromParam, def.FromParam),
	})
}

func isPassthroughForKey(tmpl *rlftemplate.Template, param, key string) bool {
	if len(tmpl.Segments) != 1 {
		return false
	}
	seg := tmpl.Segments[0]
	if seg.Kind != rlftemplate.SegmentInterpolation {
		return false
	}
	interp := seg.Interp
	if len(interp.Transforms) != 0 {
		return false
	}
	if interp.Reference.Kind != rlftemplate.RefParameter || interp.Reference.Name != param {
		return false
	}
	if len(interp.Selectors) != 1 {
		return false
	}
	sel := interp.Selectors[0]
	return sel.Kind == rlftemplate.SelLiteral && sel.Name == key
}

// checkRedundantFromSelector flags, inside a :from($p) entry keyed k,
// any interpolation of the form {$p:k} — the :k selector is implied by
// the entry's own key and can be dropped.
func checkRedundantFromSelector(def *rlffile.PhraseDefinition, out *[]Warning) {
	if !def.HasFrom || def.BodyKind != rlffile.BodyVariants {
		return
	}
	for _, e := range def.Variants {
		tmpl := e.Template
		if tmpl == nil {
			continue
		}
		for _, seg := range tmpl.Segments {
			if seg.Kind != rlftemplate.SegmentInterpolation {
				continue
			}
			interp := seg.Interp
			if interp.Reference.Kind != rlftemplate.RefParameter || interp.Reference.Name != def.FromParam {
				continue
			}
			for _, sel := range interp.Selectors {
				if sel.Kind != rlftemplate.SelLiteral {
					continue
				}
				for _, k := range e.Keys {
					if string(k) == sel.Name {
						*out = append(*out, Warning{
							Rule:    RuleRedundantFromSelector,
							Phrase:  def.Name,
							Message: fmt.Sprintf("{$%s:%s} inside entry %q repeats the entry's own key; :%s is implied", def.FromParam, sel.Name, k, sel.Name),
						})
					}
				}
			}
		}
	}
}

// checkLikelyMissingFrom flags a Phrase with no :from and no tags whose
// body references a Phrase-typed parameter by a non-transformed,
// non-selected bare reference: its tag metadata would be silently
// dropped at evaluation time. There's no static type system to know a
// parameter is Phrase-typed at parse time, so this is a heuristic: it
// fires for any parameter referenced bare (no transform, no selector)
// inside a definition that declares no tags of its own and has no
// :from — the same shape the evaluator's runtime warning checks
// dynamically once an actual argument's kind is known.
func checkLikelyMissingFrom(def *rlffile.PhraseDefinition, lang language.Tag, out *[]Warning) {
	if def.HasFrom || len(def.Tags) > 0 || def.BodyKind != rlffile.BodySimple || def.Simple == nil {
		return
	}
	if !semantics.LanguageMeta(lang).HasGender {
		return
	}
	for _, seg := range def.Simple.Segments {
		if seg.Kind != rlftemplate.SegmentInterpolation {
			continue
		}
		interp := seg.Interp
		if interp.Reference.Kind != rlftemplate.RefParameter {
			continue
		}
		if len(interp.Transforms) != 0 || len(interp.Selectors) != 0 {
			continue
		}
		*out = append(*out, Warning{
			Rule:    RuleLikelyMissingFrom,
			Phrase:  def.Name,
			Message: fmt.Sprintf("parameter $%s is used directly without :from; if it carries tags, they will be dropped", interp.Reference.Name),
		})
	}
}
