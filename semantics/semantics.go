// Package semantics is the canonical transform-name table
// shared by the validator and the evaluator so compile-time and runtime
// name resolution cannot drift: alias canonicalisation (language-scoped
// where needed), the universal transforms, and the per-language accepted
// name lists used for typo suggestions.
package semantics

import "golang.org/x/text/language"

// TransformId is a transform's canonical name, independent of the alias
// spelling used to invoke it (e.g. "an" canonicalises to "a"). The id is
// what a TransformRegistry registers implementations under.
type TransformId string

const (
	Cap   TransformId = "cap"
	Upper TransformId = "upper"
	Lower TransformId = "lower"
)

// canonicalizeAlias folds alias spellings onto their canonical transform
// name. Some aliases are language-scoped: "la" is the Spanish "el" but
// the French "le".
func canonicalizeAlias(name, lang string) string {
	switch {
	case name == "an":
		return "a"
	case name == "die" || name == "das":
		return "der"
	case name == "eine":
		return "ein"
	case name == "het":
		return "de"
	case name == "la" && lang == "es":
		return "el"
	case name == "una" && lang == "es":
		return "un"
	case name == "a" && lang == "pt":
		return "o"
	case name == "uma":
		return "um"
	case name == "la" && lang == "fr":
		return "le"
	case name == "une" && lang == "fr":
		return "un"
	case (name == "lo" || name == "la") && lang == "it":
		return "il"
	case (name == "uno" || name == "una") && lang == "it":
		return "un"
	case (name == "i" || name == "to") && lang == "el":
		return "o"
	case (name == "mia" || name == "ena") && lang == "el":
		return "enas"
	case (name == "ki" || name == "ke") && lang == "hi":
		return "ka"
	}
	return name
}

// perLanguage lists each language's transforms by canonical name.
var perLanguage = map[string][]string{
	"en": {"a", "the", "plural"},
	"de": {"der", "ein"},
	"nl": {"de", "een"},
	"es": {"el", "un"},
	"pt": {"o", "um", "de", "em"},
	"fr": {"le", "un", "de", "au", "liaison"},
	"it": {"il", "un", "di", "a"},
	"el": {"o", "enas"},
	"ro": {"def"},
	"ar": {"al"},
	"fa": {"ezafe"},
	"zh": {"count"},
	"ja": {"count", "particle"},
	"ko": {"count", "particle"},
	"vi": {"count"},
	"th": {"count"},
	"bn": {"count"},
	"id": {"plural"},
	"tr": {"inflect"},
	"fi": {"inflect"},
	"hu": {"inflect"},
	"hi": {"ka", "ko", "se", "me", "par", "ne"},
}

// acceptedExtra lists, per language, the alias spellings accepted on top
// of the canonical names and the universal three.
var acceptedExtra = map[string][]string{
	"en": {"an"},
	"de": {"die", "das", "eine"},
	"nl": {"het"},
	"es": {"la", "una"},
	"pt": {"a", "uma"},
	"fr": {"la", "une"},
	"it": {"lo", "la", "uno", "una"},
	"el": {"i", "to", "mia", "ena"},
	"hi": {"ki", "ke"},
}

func baseOf(lang language.Tag) string {
	base, _, _ := lang.Raw()
	return base.String()
}

// Resolve canonicalises name for lang: (1) alias canonicalisation, (2)
// the universal transforms, (3) the language-specific table. Returns
// false if name does not resolve for lang.
func Resolve(name string, lang language.Tag) (TransformId, bool) {
	langStr := baseOf(lang)
	canonical := canonicalizeAlias(name, langStr)

	switch canonical {
	case "cap":
		return Cap, true
	case "upper":
		return Upper, true
	case "lower":
		return Lower, true
	}

	for _, n := range perLanguage[langStr] {
		if n == canonical {
			return TransformId(canonical), true
		}
	}
	return "", false
}

// AcceptedNames returns every spelling that resolves for lang: the
// universal three, the language's canonical names, and its aliases.
// Used by the validator and evaluator to build "did you mean"
// suggestion pools.
func AcceptedNames(lang language.Tag) []string {
	langStr := baseOf(lang)
	names := []string{"cap", "upper", "lower"}
	names = append(names, perLanguage[langStr]...)
	names = append(names, acceptedExtra[langStr]...)
	return names
}

// Meta reports per-language facts beyond the transform-name table
// itself, used by the linter's "likely missing :from" rule to avoid
// flagging genderless languages.
type Meta struct {
	HasGender bool
}

var metaTable = map[string]Meta{
	"en": {HasGender: false},
	"de": {HasGender: true},
	"nl": {HasGender: true},
	"es": {HasGender: true},
	"pt": {HasGender: true},
	"fr": {HasGender: true},
	"it": {HasGender: true},
	"el": {HasGender: true},
	"ro": {HasGender: true},
	"ar": {HasGender: true},
	"ru": {HasGender: true},
	"hi": {HasGender: true},
	"zh": {HasGender: false},
	"ja": {HasGender: false},
	"ko": {HasGender: false},
	"vi": {HasGender: false},
	"th": {HasGender: false},
	"bn": {HasGender: false},
	"id": {HasGender: false},
	"tr": {HasGender: false},
	"fi": {HasGender: false},
	"hu": {HasGender: false},
	"fa": {HasGender: false},
}

// LanguageMeta returns Meta for lang, defaulting to HasGender: true (the
// conservative choice that never silently skips the lint).
func LanguageMeta(lang language.Tag) Meta {
	if m, ok := metaTable[baseOf(lang)]; ok {
		return m
	}
	return Meta{HasGender: true}
}
