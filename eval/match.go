package eval

import (
	"strconv"
	"strings"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/plural"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/value"
)

// evalMatch resolves each :match parameter to its discriminator
// candidates, then finds the first branch whose key
// matches dimension-by-dimension. A numeric parameter offers both its
// decimal spelling and its plural category as candidates, so that
// `1: "a card"` and `one: "a card"` both match n = 1; a '*'-flagged
// component matches anything.
func evalMatch(ctx *EvalContext, matchParams []string, branches []rlffile.MatchBranch, phraseName string) (string, error) {
	candidates := make([][]string, len(matchParams))
	for i, name := range matchParams {
		v, ok := ctx.Params[name]
		if !ok {
			return "", &errs.UndefinedParameter{Name: name}
		}
		cands, err := discriminatorCandidates(ctx, name, v)
		if err != nil {
			return "", err
		}
		candidates[i] = cands
	}

	for _, branch := range branches {
		for _, key := range branch.Keys {
			if matchKeyComponents(key, candidates) {
				return evalTemplate(ctx, branch.Template)
			}
		}
	}

	primary := make([]string, len(candidates))
	for i, c := range candidates {
		primary[i] = c[0]
	}
	return "", &errs.NoMatchBranch{Phrase: phraseName, Key: strings.Join(primary, ".")}
}

// discriminatorCandidates resolves one :match parameter value to the
// component spellings a branch key may name it by: a Number matches its
// decimal literal or its CLDR category, a Phrase matches its first tag,
// a String matches itself (plus the numeric spellings if it parses as an
// integer).
func discriminatorCandidates(ctx *EvalContext, paramName string, v value.Value) ([]string, error) {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.Number()
		return []string{strconv.FormatInt(n, 10), string(plural.ForInt64(ctx.Lang, n))}, nil
	case value.KindFloat:
		f, _ := v.Float()
		n := int64(f)
		return []string{strconv.FormatInt(n, 10), string(plural.ForInt64(ctx.Lang, n))}, nil
	case value.KindPhrase:
		ph, _ := v.Phrase()
		tag, ok := ph.FirstTag()
		if !ok {
			return nil, &errs.MissingTag{Transform: "match", Expected: "a grammatical tag", Phrase: paramName}
		}
		return []string{string(tag)}, nil
	case value.KindString:
		s, _ := v.String()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return []string{s, string(plural.ForInt64(ctx.Lang, n))}, nil
		}
		return []string{s}, nil
	}
	return nil, &errs.UndefinedParameter{Name: paramName}
}

func matchKeyComponents(key rlffile.MatchKey, candidates [][]string) bool {
	if len(key.Components) != len(candidates) {
		return false
	}
	for i, c := range key.Components {
		if c.IsDefault {
			continue
		}
		hit := false
		for _, cand := range candidates[i] {
			if c.Value == cand {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
