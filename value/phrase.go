package value

import "fmt"

// Phrase is the output of evaluating a phrase or term definition: a default
// rendering, a set of named inflected variants, and ordered grammatical
// tags. Phrase values are immutable once constructed.
type Phrase struct {
	text     string
	variants map[VariantKey]string
	tags     []Tag
}

// NewPhrase builds a Phrase, deduplicating tags by string value while
// preserving first-seen order.
func NewPhrase(text string, variants map[VariantKey]string, tags []Tag) Phrase {
	if variants == nil {
		variants = map[VariantKey]string{}
	}
	return Phrase{
		text:     text,
		variants: variants,
		tags:     uniqueTags(tags),
	}
}

// Text returns the default rendering.
func (p Phrase) Text() string { return p.text }

// Tags returns the ordered, deduplicated tag sequence.
func (p Phrase) Tags() []Tag {
	out := make([]Tag, len(p.tags))
	copy(out, p.tags)
	return out
}

// FirstTag returns the phrase's first tag, used as an implicit selector
// when a Phrase appears as a selector parameter. ok is false for a tagless
// phrase.
func (p Phrase) FirstTag() (Tag, bool) {
	if len(p.tags) == 0 {
		return "", false
	}
	return p.tags[0], true
}

// HasVariants reports whether the phrase carries any named variants.
func (p Phrase) HasVariants() bool { return len(p.variants) > 0 }

// Variants returns a copy of the variant map.
func (p Phrase) Variants() map[VariantKey]string {
	out := make(map[VariantKey]string, len(p.variants))
	for k, v := range p.variants {
		out[k] = v
	}
	return out
}

// Variant looks up an exact variant key with no fallback. This is a
// developer convenience accessor: unlike the evaluator's own lookup (which
// always returns a MissingVariant error), this panics on a missing key
// because it is meant for call sites that already know the key exists
// (e.g. a generated accessor for a statically known variant name).
func (p Phrase) Variant(key VariantKey) string {
	v, ok := p.variants[key]
	if !ok {
		panic(fmt.Sprintf("rlf: no variant %q on phrase %q", key, p.text))
	}
	return v
}

// VariantLookup returns the variant string and whether it was present,
// without the fallback-by-prefix algorithm the evaluator applies (see
// package eval for that).
func (p Phrase) VariantLookup(key VariantKey) (string, bool) {
	v, ok := p.variants[key]
	return v, ok
}
