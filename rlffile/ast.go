// Package rlffile parses the phrase-definition file format: parameters,
// tags, :from/:match modifiers, variant blocks, and match blocks, each
// definition's body bottoming out in rlftemplate.Template for its actual
// text.
package rlffile

import (
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/value"
)

// DefinitionKind distinguishes a zero-parameter Term from a >=1-parameter
// Phrase.
type DefinitionKind int

const (
	KindTerm DefinitionKind = iota
	KindPhrase
)

// BodyKind discriminates a PhraseDefinition's Body.
type BodyKind int

const (
	BodySimple BodyKind = iota
	BodyVariants
	BodyMatch
)

// PhraseDefinition is one parsed `name(...) = modifiers body;` statement.
type PhraseDefinition struct {
	Name        string
	Kind        DefinitionKind
	Parameters  []string
	Tags        []value.Tag
	FromParam   string // non-empty iff :from(...) present
	HasFrom     bool
	MatchParams []string // non-empty iff :match(...) present

	BodyKind BodyKind
	Simple   *rlftemplate.Template // BodySimple
	Variants []VariantEntry        // BodyVariants
	Match    []MatchBranch         // BodyMatch

	Line, Column int
}

// VariantEntry is one `keys: body` clause of a variant block. Body is
// either a Template or, for a Phrase with declared :match params, a
// nested Match block.
type VariantEntry struct {
	Keys        []value.VariantKey
	IsDefault   bool
	Template    *rlftemplate.Template // set when not nested
	NestedMatch []MatchBranch         // set when nested
}

// MatchComponent is one dot-separated slot of a MatchKey: either a
// literal discriminator value or the dimension's default wildcard ('*').
type MatchComponent struct {
	Value     string
	IsDefault bool
}

// MatchKey is one dotted discriminator tuple, one component per :match
// dimension.
type MatchKey struct {
	Components []MatchComponent
}

// MatchBranch is one `keys: template` clause of a match block; Keys holds
// every comma-separated alternate key mapped to the same Template.
type MatchBranch struct {
	Keys     []MatchKey
	Template *rlftemplate.Template
}
