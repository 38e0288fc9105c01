package plural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestEnglishCardinalCategories(t *testing.T) {
	assert.Equal(t, One, ForInt64(language.English, 1))
	assert.Equal(t, Other, ForInt64(language.English, 0))
	assert.Equal(t, Other, ForInt64(language.English, 2))
	assert.Equal(t, Other, ForInt64(language.English, 25))
}

func TestRussianCardinalCategories(t *testing.T) {
	assert.Equal(t, One, ForInt64(language.Russian, 1))
	assert.Equal(t, Few, ForInt64(language.Russian, 2))
	assert.Equal(t, Many, ForInt64(language.Russian, 5))
	assert.Equal(t, One, ForInt64(language.Russian, 101))
	assert.Equal(t, Few, ForInt64(language.Russian, 102))
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	und := language.Und
	assert.Equal(t, ForInt64(language.English, 7), ForInt64(und, 7))
}

func TestForStringParsesIntegers(t *testing.T) {
	cat, ok := ForString(language.English, "3")
	assert.True(t, ok)
	assert.Equal(t, Other, cat)

	_, ok = ForString(language.English, "not-a-number")
	assert.False(t, ok)
}

func TestForInt64IsStableAcrossRepeatedCalls(t *testing.T) {
	first := ForInt64(language.Russian, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ForInt64(language.Russian, 5))
	}
}
