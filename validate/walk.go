// Package validate is the static validator: reference
// resolution, arity checks, variant-selector reachability, cycle
// detection, typo suggestions, and the :from/own-variants cross-check.
// It never mutates the definitions or registry it's given; it only reads
// them to produce diagnostics.
package validate

import (
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
)

// walkTemplate calls visit for every Interpolation in tmpl, in source
// order.
func walkTemplate(tmpl *rlftemplate.Template, visit func(rlftemplate.Interpolation)) {
	if tmpl == nil {
		return
	}
	for _, seg := range tmpl.Segments {
		if seg.Kind == rlftemplate.SegmentInterpolation {
			visit(seg.Interp)
		}
	}
}

// walkDefinition calls visit for every Interpolation anywhere in def's
// body: the Simple template, every Variants entry (and its nested
// Match, if any), or every Match branch.
func walkDefinition(def *rlffile.PhraseDefinition, visit func(rlftemplate.Interpolation)) {
	switch def.BodyKind {
	case rlffile.BodySimple:
		walkTemplate(def.Simple, visit)
	case rlffile.BodyVariants:
		for _, e := range def.Variants {
			if e.NestedMatch != nil {
				for _, b := range e.NestedMatch {
					walkTemplate(b.Template, visit)
				}
			} else {
				walkTemplate(e.Template, visit)
			}
		}
	case rlffile.BodyMatch:
		for _, b := range def.Match {
			walkTemplate(b.Template, visit)
		}
	}
}

// variantKeysOf flattens a Term's (non-match) variant block into its
// declared key strings, used by the selector-reachability check (rule
// 10) to mirror the evaluator's runtime fallback algorithm statically.
func variantKeysOf(def *rlffile.PhraseDefinition) []string {
	if def.BodyKind != rlffile.BodyVariants {
		return nil
	}
	var keys []string
	for _, e := range def.Variants {
		for _, k := range e.Keys {
			keys = append(keys, string(k))
		}
	}
	return keys
}
