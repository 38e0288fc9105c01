package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/napalu/rlf/registry"
	"github.com/napalu/rlf/value"
)

func TestMatchNumericKeyAndDefault(t *testing.T) {
	reg := buildRegistry(t, `
		cards($n) = :match($n) { 1: "a card", *other: "{$n} cards" };
	`)
	p := callPhrase(t, reg, language.English, "cards", value.NumberValue(1))
	assert.Equal(t, "a card", p.Text())

	p = callPhrase(t, reg, language.English, "cards", value.NumberValue(4))
	assert.Equal(t, "4 cards", p.Text())
}

func TestMatchNumericZeroBeatsCategory(t *testing.T) {
	reg := buildRegistry(t, `
		inventory($n) = :match($n) { 0: "no items", 1: "one item", *other: "{$n} items" };
	`)
	cases := []struct {
		n    int64
		want string
	}{
		{0, "no items"},
		{1, "one item"},
		{7, "7 items"},
	}
	for _, tc := range cases {
		p := callPhrase(t, reg, language.English, "inventory", value.NumberValue(tc.n))
		assert.Equal(t, tc.want, p.Text())
	}
}

func TestMatchCategoryAndLiteralKeysCoexist(t *testing.T) {
	reg := buildRegistry(t, `
		text_number($n) = :match($n) { one, 1: "one", *other: "{$n}" };
	`)
	p := callPhrase(t, reg, language.English, "text_number", value.NumberValue(1))
	assert.Equal(t, "one", p.Text())
	p = callPhrase(t, reg, language.English, "text_number", value.NumberValue(9))
	assert.Equal(t, "9", p.Text())
}

func TestMatchMultiDimension(t *testing.T) {
	reg := buildRegistry(t, `
		greet($gender, $n) = :match($gender, $n) {
			fem.one: "dear friend (f)",
			fem.*: "dear friends (f)",
			*.*: "dear friends",
		};
	`)
	p := callPhrase(t, reg, language.English, "greet",
		value.StringValue("fem"), value.NumberValue(1))
	assert.Equal(t, "dear friend (f)", p.Text())

	p = callPhrase(t, reg, language.English, "greet",
		value.StringValue("fem"), value.NumberValue(3))
	assert.Equal(t, "dear friends (f)", p.Text())

	p = callPhrase(t, reg, language.English, "greet",
		value.StringValue("masc"), value.NumberValue(1))
	assert.Equal(t, "dear friends", p.Text())
}

func TestMatchPhraseDiscriminatorUsesFirstTag(t *testing.T) {
	reg := buildRegistry(t, `
		moon = :fem "луна";
		bright($w) = :match($w) { fem: "яркая", *masc: "яркий" };
	`)
	moon := callPhrase(t, reg, language.Russian, "moon")
	ctx := NewEvalContext(nil, language.Russian, reg, registry.NewTransformRegistry())
	p, err := EvalPhrase(ctx, "bright", []value.Value{value.PhraseValue(moon)})
	require.NoError(t, err)
	assert.Equal(t, "яркая", p.Text())
}

func TestNestedMatchInsideVariantBlock(t *testing.T) {
	reg := buildRegistry(t, `
		card($n) = :match($n) {
			nom: {
				one: "card",
				*other: "cards",
			},
			gen: {
				one: "card's",
				*other: "cards'",
			},
		};
	`)
	p := callPhrase(t, reg, language.English, "card", value.NumberValue(2))
	assert.Equal(t, "cards", p.Variant("nom"))
	assert.Equal(t, "cards'", p.Variant("gen"))
	assert.Equal(t, "cards", p.Text())

	p = callPhrase(t, reg, language.English, "card", value.NumberValue(1))
	assert.Equal(t, "card", p.Variant("nom"))
}
