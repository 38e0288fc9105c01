// Package plural computes CLDR cardinal plural categories
// on top of golang.org/x/text/feature/plural, with a cache so the
// (comparatively expensive) per-language rule set is never rebuilt on the
// hot evaluation path.
package plural

import (
	"strconv"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Category is one of CLDR's six cardinal plural categories.
type Category string

const (
	Zero  Category = "zero"
	One   Category = "one"
	Two   Category = "two"
	Few   Category = "few"
	Many  Category = "many"
	Other Category = "other"
)

// cache holds one plural.Form lookup path per language string. x/text's
// plural package is itself safe for concurrent use and does not expose a
// constructable "rules object" the way a hand-rolled CLDR table would;
// the cache here exists at the language-tag-normalisation layer so that
// repeated evaluations for the same language string don't re-parse the
// BCP 47 tag on every call.
var (
	mu    sync.Mutex
	cache = make(map[string]language.Tag)
)

func normalize(lang language.Tag) language.Tag {
	if lang == language.Und {
		return language.English
	}
	key := lang.String()
	mu.Lock()
	defer mu.Unlock()
	if tag, ok := cache[key]; ok {
		return tag
	}
	base, conf := lang.Base()
	if conf == language.No {
		cache[key] = language.English
		return language.English
	}
	norm, _ := language.Compose(base)
	cache[key] = norm
	return norm
}

func categorize(lang language.Tag, n int64) Category {
	tag := normalize(lang)
	if n < 0 {
		n = -n
	}
	form := plural.Cardinal.MatchPlural(tag, int(n), 0, 0, 0, 0)
	switch form {
	case plural.Zero:
		return Zero
	case plural.One:
		return One
	case plural.Two:
		return Two
	case plural.Few:
		return Few
	case plural.Many:
		return Many
	default:
		return Other
	}
}

// ForInt64 returns the CLDR cardinal category for n in lang. Unknown
// languages fall back to English rules. Floats are
// categorised by their integer part by the caller before reaching here.
func ForInt64(lang language.Tag, n int64) Category {
	return categorize(lang, n)
}

// ForString categorises a numeric string verbatim (used when a selector
// parameter is a String that happens to parse as an integer). ok is
// false if s does not parse.
func ForString(lang language.Tag, s string) (Category, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", false
	}
	return categorize(lang, n), true
}
