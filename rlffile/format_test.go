package rlffile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalize strips source positions so parses of different renderings of
// the same definitions compare structurally equal.
func normalize(defs []*PhraseDefinition) []*PhraseDefinition {
	for _, d := range defs {
		d.Line, d.Column = 0, 0
	}
	return defs
}

func assertRoundTrip(t *testing.T, src string) {
	t.Helper()
	first, err := Parse(src)
	require.NoError(t, err)
	formatted := Format(first)
	second, err := Parse(formatted)
	require.NoError(t, err, "formatted output failed to reparse:\n%s", formatted)
	assert.Equal(t, normalize(first), normalize(second), "round trip changed the AST:\n%s", formatted)
}

func TestRoundTripSimpleDefinitions(t *testing.T) {
	assertRoundTrip(t, `
		card = "card";
		draw($n) = "Draw {$n} {card:$n}.";
	`)
}

func TestRoundTripTagsFromAndMatch(t *testing.T) {
	assertRoundTrip(t, `
		ancient = :an { one: "Ancient", other: "Ancients" };
		subtype($s) = :masc :from($s) "<b>{$s}</b>";
		cards($n) = :match($n) { 1: "a card", *other: "{$n} cards" };
	`)
}

func TestRoundTripVariantShapes(t *testing.T) {
	assertRoundTrip(t, `
		go_verb = { present: "go", *past: "went", participle: "gone" };
		card = { nom, acc: "card", nom.one: "one card" };
	`)
}

func TestRoundTripNestedMatch(t *testing.T) {
	assertRoundTrip(t, `
		card($n) = :match($n) {
			nom: { one: "card", *other: "cards" },
			gen: { one: "card's", *other: "cards'" },
		};
	`)
}

func TestRoundTripMultiDimensionMatch(t *testing.T) {
	assertRoundTrip(t, `
		greet($g, $n) = :match($g, $n) {
			fem.one: "a",
			fem.*: "b",
			*.*: "c",
		};
	`)
}

func TestRoundTripEscapesAndTransforms(t *testing.T) {
	assertRoundTrip(t, `
		braces = "{{ @@ :: $$ }}";
		shout($n) = "{@upper @cap($n) word} {word:*}";
		word = "word";
	`)
}

func TestRoundTripAutoCapitalisation(t *testing.T) {
	assertRoundTrip(t, `
		card = "card";
		auto = "Draw a {Card}.";
	`)
}

func TestRoundTripCallArguments(t *testing.T) {
	assertRoundTrip(t, `
		card = "card";
		count($n, $w) = "{$n} {$w}";
		hand = "{count(5, card)}";
	`)
}

func TestFormatIsStable(t *testing.T) {
	defs, err := Parse(`
		card = { one: "card", other: "cards" };
		draw($n) = "Draw {$n} {card:$n}.";
	`)
	require.NoError(t, err)
	once := Format(defs)
	reparsed, err := Parse(once)
	require.NoError(t, err)
	assert.Equal(t, once, Format(reparsed))
}
