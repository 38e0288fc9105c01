package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	n := NumberValue(3)
	assert.Equal(t, KindNumber, n.Kind())
	got, ok := n.Number()
	require.True(t, ok)
	assert.EqualValues(t, 3, got)
	_, ok = n.Float()
	assert.False(t, ok)

	f := FloatValue(2.5)
	assert.Equal(t, KindFloat, f.Kind())

	s := StringValue("card")
	str, ok := s.String()
	require.True(t, ok)
	assert.Equal(t, "card", str)

	p := PhraseValue(NewPhrase("card", nil, nil))
	ph, ok := p.Phrase()
	require.True(t, ok)
	assert.Equal(t, "card", ph.Text())
}

func TestIntegerPart(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want int64
		ok   bool
	}{
		{"number", NumberValue(7), 7, true},
		{"float truncates", FloatValue(2.9), 2, true},
		{"numeric string", StringValue("12"), 12, true},
		{"non-numeric string", StringValue("card"), 0, false},
		{"phrase", PhraseValue(NewPhrase("x", nil, nil)), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := tc.v.IntegerPart()
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, n)
			}
		})
	}
}

func TestAsDisplayString(t *testing.T) {
	assert.Equal(t, "3", NumberValue(3).AsDisplayString())
	assert.Equal(t, "2.5", FloatValue(2.5).AsDisplayString())
	assert.Equal(t, "card", StringValue("card").AsDisplayString())
	assert.Equal(t, "card", PhraseValue(NewPhrase("card", nil, nil)).AsDisplayString())
}

func TestPhraseTagsDedupedPreservingOrder(t *testing.T) {
	p := NewPhrase("card", nil, []Tag{"a", "fem", "a"})
	assert.Equal(t, []Tag{"a", "fem"}, p.Tags())
}

func TestPhraseFirstTag(t *testing.T) {
	p := NewPhrase("card", nil, []Tag{"fem", "an"})
	tag, ok := p.FirstTag()
	require.True(t, ok)
	assert.Equal(t, Tag("fem"), tag)

	_, ok = NewPhrase("card", nil, nil).FirstTag()
	assert.False(t, ok)
}

func TestPhraseVariantAccessors(t *testing.T) {
	p := NewPhrase("card", map[VariantKey]string{"one": "card", "other": "cards"}, nil)
	assert.True(t, p.HasVariants())
	assert.Equal(t, "cards", p.Variant("other"))

	_, ok := p.VariantLookup("nom")
	assert.False(t, ok)

	assert.Panics(t, func() { p.Variant("nom") })
}

func TestVariantKeyComponents(t *testing.T) {
	assert.Equal(t, []string{"acc", "one", "masc"}, VariantKey("acc.one.masc").Components())
	assert.Equal(t, []string{"nom"}, VariantKey("nom").Components())
	assert.Nil(t, VariantKey("").Components())
}
