package eval

import (
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/value"
)

// evalVariantEntries renders every entry of a variant block: each
// entry's keys all map to that entry's rendered text. The
// default text is the entry marked '*' (IsDefault) if one exists,
// otherwise the first entry; a matching string context then overrides
// whichever of those two picked.
func evalVariantEntries(ctx *EvalContext, def *rlffile.PhraseDefinition) (map[value.VariantKey]string, string, error) {
	entries := def.Variants
	variants := make(map[value.VariantKey]string)
	texts := make([]string, len(entries))

	for i, e := range entries {
		var text string
		var err error
		if e.NestedMatch != nil {
			text, err = evalMatch(ctx, def.MatchParams, e.NestedMatch, def.Name)
		} else {
			text, err = evalTemplate(ctx, e.Template)
		}
		if err != nil {
			return nil, "", err
		}
		texts[i] = text
		for _, k := range e.Keys {
			variants[k] = text
		}
	}

	defaultIdx := 0
	for i, e := range entries {
		if e.IsDefault {
			defaultIdx = i
			break
		}
	}
	defaultText := ""
	if len(texts) > 0 {
		defaultText = texts[defaultIdx]
	}

	if ctx.HasStringContext {
		for i, e := range entries {
			for _, k := range e.Keys {
				if string(k) == ctx.StringContext {
					defaultText = texts[i]
				}
			}
		}
	}

	return variants, defaultText, nil
}
