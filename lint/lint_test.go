package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/value"
)

func lintSrc(t *testing.T, src string, lang language.Tag) []Warning {
	t.Helper()
	defs, err := rlffile.Parse(src)
	require.NoError(t, err)
	return Lint(defs, lang)
}

func rulesOf(warnings []Warning) []string {
	var out []string
	for _, w := range warnings {
		out = append(out, w.Rule)
	}
	return out
}

func TestVerboseTransparentWrapper(t *testing.T) {
	out := lintSrc(t, `wrap($p) = :from($p) "{$p}";`, language.English)
	assert.Contains(t, rulesOf(out), RuleVerboseWrapper)
}

func TestWrapperWithSurroundingTextNotFlagged(t *testing.T) {
	out := lintSrc(t, `wrap($p) = :from($p) "<b>{$p}</b>";`, language.English)
	assert.NotContains(t, rulesOf(out), RuleVerboseWrapper)
}

func TestWrapperWithTransformNotFlagged(t *testing.T) {
	out := lintSrc(t, `wrap($p) = :from($p) "{@cap $p}";`, language.English)
	assert.NotContains(t, rulesOf(out), RuleVerboseWrapper)
}

func mustTemplate(t *testing.T, src string) *rlftemplate.Template {
	t.Helper()
	tmpl, err := rlftemplate.Parse(src)
	require.NoError(t, err)
	return tmpl
}

// passthroughDef builds a :from($p) definition whose variant block holds
// the given key -> template entries. The surface grammar reaches this
// shape only through nested match blocks, so the flat form is assembled
// directly the way a host application composing definitions would.
func passthroughDef(entries []rlffile.VariantEntry) *rlffile.PhraseDefinition {
	return &rlffile.PhraseDefinition{
		Name:       "decline",
		Kind:       rlffile.KindPhrase,
		Parameters: []string{"p"},
		HasFrom:    true,
		FromParam:  "p",
		BodyKind:   rlffile.BodyVariants,
		Variants:   entries,
	}
}

func TestRedundantPassthroughBlock(t *testing.T) {
	def := passthroughDef([]rlffile.VariantEntry{
		{Keys: []value.VariantKey{"nom"}, Template: mustTemplate(t, "{$p:nom}")},
		{Keys: []value.VariantKey{"gen"}, Template: mustTemplate(t, "{$p:gen}")},
	})
	out := Lint([]*rlffile.PhraseDefinition{def}, language.English)
	assert.Contains(t, rulesOf(out), RuleRedundantPassthrough)
}

func TestPassthroughWithExtraTextNotFlagged(t *testing.T) {
	def := passthroughDef([]rlffile.VariantEntry{
		{Keys: []value.VariantKey{"nom"}, Template: mustTemplate(t, "the {$p:nom}")},
		{Keys: []value.VariantKey{"gen"}, Template: mustTemplate(t, "{$p:gen}")},
	})
	out := Lint([]*rlffile.PhraseDefinition{def}, language.English)
	assert.NotContains(t, rulesOf(out), RuleRedundantPassthrough)
}

func TestRedundantFromSelector(t *testing.T) {
	def := passthroughDef([]rlffile.VariantEntry{
		{Keys: []value.VariantKey{"nom"}, Template: mustTemplate(t, "the {$p:nom} here")},
	})
	out := Lint([]*rlffile.PhraseDefinition{def}, language.English)
	assert.Contains(t, rulesOf(out), RuleRedundantFromSelector)
}

func TestLikelyMissingFromForGenderedLanguage(t *testing.T) {
	out := lintSrc(t, `wrap($p) = "[{$p}]";`, language.Russian)
	assert.Contains(t, rulesOf(out), RuleLikelyMissingFrom)
}

func TestLikelyMissingFromSkippedForGenderlessLanguage(t *testing.T) {
	out := lintSrc(t, `wrap($p) = "[{$p}]";`, language.English)
	assert.NotContains(t, rulesOf(out), RuleLikelyMissingFrom)
}

func TestLikelyMissingFromSkippedWhenTagsDeclared(t *testing.T) {
	out := lintSrc(t, `wrap($p) = :fem "[{$p}]";`, language.Russian)
	assert.NotContains(t, rulesOf(out), RuleLikelyMissingFrom)
}

func TestLikelyMissingFromSkippedWhenFromDeclared(t *testing.T) {
	out := lintSrc(t, `wrap($p) = :from($p) "[{$p}]";`, language.Russian)
	assert.NotContains(t, rulesOf(out), RuleLikelyMissingFrom)
}
