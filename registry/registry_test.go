package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/value"
)

func TestPhraseRegistryInsertAndGet(t *testing.T) {
	r := NewPhraseRegistry()
	def := &rlffile.PhraseDefinition{Name: "card"}
	require.NoError(t, r.Insert(def))

	got, ok := r.Get("card")
	require.True(t, ok)
	assert.Equal(t, def, got)

	byId, ok := r.GetById(value.PhraseIdFromName("card"))
	require.True(t, ok)
	assert.Equal(t, def, byId)
}

func TestPhraseRegistrySameNameReplaces(t *testing.T) {
	r := NewPhraseRegistry()
	first := &rlffile.PhraseDefinition{Name: "card"}
	second := &rlffile.PhraseDefinition{Name: "card", Tags: []value.Tag{"fem"}}
	require.NoError(t, r.Insert(first))
	require.NoError(t, r.Insert(second))

	got, _ := r.Get("card")
	assert.Equal(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestPhraseRegistryClear(t *testing.T) {
	r := NewPhraseRegistry()
	require.NoError(t, r.Insert(&rlffile.PhraseDefinition{Name: "card"}))
	r.Clear()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("card")
	assert.False(t, ok)
}

func TestTransformRegistryUniversalFallback(t *testing.T) {
	r := NewTransformRegistry()
	fn, ok := r.Lookup("cap", language.English)
	require.True(t, ok)
	out, err := fn(value.StringValue("card"), TransformContext{}, language.English)
	require.NoError(t, err)
	assert.Equal(t, "Card", out)
}

func TestTransformRegistryLanguageSpecificWins(t *testing.T) {
	r := NewTransformRegistry()
	r.RegisterForLanguage(language.Spanish, "articulo", func(v value.Value, _ TransformContext, _ language.Tag) (string, error) {
		return "el " + v.AsDisplayString(), nil
	})

	fn, ok := r.Lookup("articulo", language.Spanish)
	require.True(t, ok)
	out, _ := fn(value.StringValue("perro"), TransformContext{}, language.Spanish)
	assert.Equal(t, "el perro", out)

	_, ok = r.Lookup("articulo", language.English)
	assert.False(t, ok)
}

func TestTransformRegistryUpperLower(t *testing.T) {
	r := NewTransformRegistry()
	upper, _ := r.Lookup("upper", language.English)
	out, _ := upper(value.StringValue("card"), TransformContext{}, language.English)
	assert.Equal(t, "CARD", out)

	lower, _ := r.Lookup("lower", language.English)
	out, _ = lower(value.StringValue("CARD"), TransformContext{}, language.English)
	assert.Equal(t, "card", out)
}
