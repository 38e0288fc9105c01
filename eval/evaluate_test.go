package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/registry"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/value"
)

func buildRegistry(t *testing.T, src string) *registry.PhraseRegistry {
	t.Helper()
	defs, err := rlffile.Parse(src)
	require.NoError(t, err)
	reg := registry.NewPhraseRegistry()
	for _, d := range defs {
		require.NoError(t, reg.Insert(d))
	}
	return reg
}

func callPhrase(t *testing.T, reg *registry.PhraseRegistry, lang language.Tag, name string, args ...value.Value) value.Phrase {
	t.Helper()
	ctx := NewEvalContext(nil, lang, reg, registry.NewTransformRegistry())
	p, err := EvalPhrase(ctx, name, args)
	require.NoError(t, err)
	return p
}

func TestEnglishPluralisation(t *testing.T) {
	reg := buildRegistry(t, `
		card = { one: "card", other: "cards" };
		draw($n) = "Draw {$n} {card:$n}.";
	`)
	p := callPhrase(t, reg, language.English, "draw", value.NumberValue(3))
	assert.Equal(t, "Draw 3 cards.", p.Text())

	p = callPhrase(t, reg, language.English, "draw", value.NumberValue(1))
	assert.Equal(t, "Draw 1 card.", p.Text())
}

func TestRussianPluralCategories(t *testing.T) {
	reg := buildRegistry(t, `
		card = :fem { one: "карта", few: "карты", many: "карт" };
		draw($n) = "Возьмите {$n} {card:$n}.";
	`)
	cases := []struct {
		n    int64
		want string
	}{
		{1, "Возьмите 1 карта."},
		{2, "Возьмите 2 карты."},
		{5, "Возьмите 5 карт."},
	}
	for _, tc := range cases {
		p := callPhrase(t, reg, language.Russian, "draw", value.NumberValue(tc.n))
		assert.Equal(t, tc.want, p.Text())
	}
}

func TestAutoCapitalisation(t *testing.T) {
	reg := buildRegistry(t, `
		card = { one: "card", other: "cards" };
		auto = "Draw a {Card}.";
	`)
	p := callPhrase(t, reg, language.English, "auto")
	assert.Equal(t, "Draw a Card.", p.Text())
}

func TestStringSelectorParameterTriesIntegerFirst(t *testing.T) {
	reg := buildRegistry(t, `
		card = { one: "card", other: "cards" };
		draw($n) = "{card:$n}";
	`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	p, err := EvalPhrase(ctx, "draw", []value.Value{value.StringValue("2")})
	require.NoError(t, err)
	assert.Equal(t, "cards", p.Text())
}

func TestPhraseSelectorUsesFirstTag(t *testing.T) {
	reg := buildRegistry(t, `
		ending = { masc: "ый", fem: "ая" };
		colour = :fem "красн";
		painted($c) = "{$c}{ending:$c}";
	`)
	ctx := NewEvalContext(nil, language.Russian, reg, registry.NewTransformRegistry())
	colour := callPhrase(t, reg, language.Russian, "colour")
	p, err := EvalPhrase(ctx, "painted", []value.Value{value.PhraseValue(colour)})
	require.NoError(t, err)
	assert.Equal(t, "красная", p.Text())
}

func TestTaglessPhraseSelectorFails(t *testing.T) {
	reg := buildRegistry(t, `
		ending = { masc: "ый", fem: "ая" };
		bare = "красн";
		painted($c) = "{$c}{ending:$c}";
	`)
	ctx := NewEvalContext(nil, language.Russian, reg, registry.NewTransformRegistry())
	bare := callPhrase(t, reg, language.Russian, "bare")
	_, err := EvalPhrase(ctx, "painted", []value.Value{value.PhraseValue(bare)})
	var mt *errs.MissingTag
	require.ErrorAs(t, err, &mt)
}

func TestVariantFallbackStripsTrailingComponents(t *testing.T) {
	reg := buildRegistry(t, `
		card = { nom: "card", nom.one: "one card" };
		pick = "{card:nom:one:masc}";
	`)
	p := callPhrase(t, reg, language.English, "pick")
	assert.Equal(t, "one card", p.Text())
}

func TestMissingVariantListsAvailableAndSuggests(t *testing.T) {
	reg := buildRegistry(t, `
		card = { nom: "card", gen: "card's" };
		pick = "{card:gem}";
	`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err := EvalPhrase(ctx, "pick", nil)
	var mv *errs.MissingVariant
	require.ErrorAs(t, err, &mv)
	assert.Equal(t, "gem", mv.Key)
	assert.Equal(t, []string{"gen", "nom"}, mv.Available)
	assert.Contains(t, mv.Suggestions, "gen")
}

func TestExplicitDefaultSelector(t *testing.T) {
	reg := buildRegistry(t, `
		card = { one: "card", *other: "cards" };
		show = "The default is {card:*}.";
	`)
	p := callPhrase(t, reg, language.English, "show")
	assert.Equal(t, "The default is cards.", p.Text())
}

func TestDefaultMarkerPicksVariantBlockText(t *testing.T) {
	reg := buildRegistry(t, `
		go_verb = { present: "go", *past: "went", participle: "gone" };
	`)
	p := callPhrase(t, reg, language.English, "go_verb")
	assert.Equal(t, "went", p.Text())
	assert.Equal(t, "go", p.Variant("present"))
}

func TestTransformOrderRightToLeft(t *testing.T) {
	reg := buildRegistry(t, `word = "word";`)
	tmpl, err := rlftemplate.Parse("{@lower @upper word}")
	require.NoError(t, err)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	out, err := EvalTemplate(ctx, tmpl)
	require.NoError(t, err)
	// @upper applies first (closest to the reference), then @lower.
	assert.Equal(t, "word", out)

	tmpl, err = rlftemplate.Parse("{@upper @lower word}")
	require.NoError(t, err)
	out, err = EvalTemplate(ctx, tmpl)
	require.NoError(t, err)
	assert.Equal(t, "WORD", out)
}

func TestFirstTransformSeesPhraseTags(t *testing.T) {
	reg := buildRegistry(t, `thing = :an "apple";`)
	transforms := registry.NewTransformRegistry()
	transforms.RegisterUniversal("a", func(v value.Value, _ registry.TransformContext, _ language.Tag) (string, error) {
		article := "a"
		if ph, ok := v.Phrase(); ok {
			for _, tag := range ph.Tags() {
				if tag == "an" {
					article = "an"
				}
			}
		}
		return article + " " + v.AsDisplayString(), nil
	})
	tmpl, err := rlftemplate.Parse("{@a thing}")
	require.NoError(t, err)
	ctx := NewEvalContext(nil, language.English, reg, transforms)
	out, err := EvalTemplate(ctx, tmpl)
	require.NoError(t, err)
	assert.Equal(t, "an apple", out)
}

func TestTransformDynamicContext(t *testing.T) {
	reg := buildRegistry(t, `noun = "card";`)
	transforms := registry.NewTransformRegistry()
	transforms.RegisterUniversal("count", func(v value.Value, tc registry.TransformContext, _ language.Tag) (string, error) {
		n := "?"
		if tc.HasDynamic {
			n = tc.Dynamic.AsDisplayString()
		}
		return n + " " + v.AsDisplayString(), nil
	})
	tmpl, err := rlftemplate.Parse("{@count($n) noun}")
	require.NoError(t, err)
	ctx := NewEvalContext(map[string]value.Value{"n": value.NumberValue(4)}, language.English, reg, transforms)
	out, err := EvalTemplate(ctx, tmpl)
	require.NoError(t, err)
	assert.Equal(t, "4 card", out)
}

func TestUnknownTransformSurfaced(t *testing.T) {
	reg := buildRegistry(t, `word = "word";`)
	tmpl, err := rlftemplate.Parse("{@nosuch word}")
	require.NoError(t, err)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err = EvalTemplate(ctx, tmpl)
	var ut *errs.UnknownTransform
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, "nosuch", ut.Name)
}

func TestPhraseCallWithArguments(t *testing.T) {
	reg := buildRegistry(t, `
		card = { one: "card", other: "cards" };
		count($n) = "{$n} {card:$n}";
		hand = "Your hand: {count(5)}.";
	`)
	p := callPhrase(t, reg, language.English, "hand")
	assert.Equal(t, "Your hand: 5 cards.", p.Text())
}

func TestCallArgumentCountMismatch(t *testing.T) {
	reg := buildRegistry(t, `
		count($n) = "{$n}";
		bad = "{count(1, 2)}";
	`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err := EvalPhrase(ctx, "bad", nil)
	var ac *errs.ArgumentCount
	require.ErrorAs(t, err, &ac)
	assert.Equal(t, 1, ac.Expected)
	assert.Equal(t, 2, ac.Got)
}

func TestTopLevelArgumentCountMismatch(t *testing.T) {
	reg := buildRegistry(t, `count($n) = "{$n}";`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err := EvalPhrase(ctx, "count", nil)
	var ac *errs.ArgumentCount
	require.ErrorAs(t, err, &ac)
}

func TestPhraseNotFoundSuggests(t *testing.T) {
	reg := buildRegistry(t, `card = "card";`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err := EvalPhrase(ctx, "cart", nil)
	var nf *errs.PhraseNotFound
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Suggestions, "card")
}

func TestCyclicReferenceDetectedAtRuntime(t *testing.T) {
	reg := buildRegistry(t, `
		a = "see {b}";
		b = "see {c}";
		c = "see {a}";
	`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err := EvalPhrase(ctx, "a", nil)
	var cyc *errs.CyclicReference
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"a", "b", "c", "a"}, cyc.Chain)
}

func TestMaxDepthExceeded(t *testing.T) {
	reg := buildRegistry(t, `
		x = "{y}";
		y = "{z}";
		z = "ok";
	`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry(), WithMaxDepth(2))
	_, err := EvalPhrase(ctx, "x", nil)
	var md *errs.MaxDepthExceeded
	require.ErrorAs(t, err, &md)
	assert.Equal(t, 2, md.MaxDepth)

	deep := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry(), WithMaxDepth(3))
	p, err := EvalPhrase(deep, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", p.Text())
}

func TestParameterPassThroughByIdentifier(t *testing.T) {
	// A bare identifier resolves through the parameter map before the
	// registry, permitting pass-through of a same-named parameter.
	reg := buildRegistry(t, `wrap($card) = "[{card}]";`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	p, err := EvalPhrase(ctx, "wrap", []value.Value{value.StringValue("ace")})
	require.NoError(t, err)
	assert.Equal(t, "[ace]", p.Text())
}

func TestChildFramesDoNotInheritParameters(t *testing.T) {
	reg := buildRegistry(t, `
		inner = "{$n}";
		outer($n) = "{inner}";
	`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry())
	_, err := EvalPhrase(ctx, "outer", []value.Value{value.NumberValue(1)})
	var up *errs.UndefinedParameter
	require.ErrorAs(t, err, &up)
	assert.Equal(t, "n", up.Name)
}

func TestEscapeSequencesRender(t *testing.T) {
	reg := buildRegistry(t, `esc = "{{ @@ :: $$ }}";`)
	p := callPhrase(t, reg, language.English, "esc")
	assert.Equal(t, "{ @ : $ }", p.Text())
}

func TestStringContextSelectsVariantBlockDefault(t *testing.T) {
	reg := buildRegistry(t, `card = { nom: "card", gen: "card's" };`)
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry(), WithStringContext("gen"))
	p, err := EvalPhrase(ctx, "card", nil)
	require.NoError(t, err)
	assert.Equal(t, "card's", p.Text())
	assert.Equal(t, "card", p.Variant("nom"))
}

func TestTraceCorrelatesFrames(t *testing.T) {
	reg := buildRegistry(t, `
		inner = "deep";
		outer = "{inner}";
	`)
	var events []TraceEvent
	ctx := NewEvalContext(nil, language.English, reg, registry.NewTransformRegistry(), WithTrace(func(ev TraceEvent) {
		events = append(events, ev)
	}))
	_, err := EvalPhrase(ctx, "outer", nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "outer", events[0].Phrase)
	assert.Equal(t, 1, events[0].Depth)
	assert.Equal(t, "inner", events[1].Phrase)
	assert.Equal(t, 2, events[1].Depth)
	assert.NotEmpty(t, events[0].EvalID)
	assert.Equal(t, events[0].EvalID, events[1].EvalID)
}

func TestWarningSetDeduplicates(t *testing.T) {
	s := NewWarningSet()
	w := Warning{Kind: "k", Phrase: "p", Detail: "d", Suggestions: []string{"a"}}
	s.Add(w)
	s.Add(w)
	s.Add(Warning{Kind: "k", Phrase: "p", Detail: "other"})
	assert.Len(t, s.List(), 2)
}
