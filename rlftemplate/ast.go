// Package rlftemplate parses the interpolation grammar shared by every
// phrase-definition body and by ad-hoc template strings evaluated directly
// (locale.EvalStr): literal text, {transforms... reference selectors...}
// interpolations, escapes, and auto-capitalisation.
package rlftemplate

// Template is an ordered sequence of segments. Adjacent Literal segments
// are merged by the parser.
type Template struct {
	Segments []Segment
}

// SegmentKind discriminates a Template segment.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentInterpolation
)

// Segment is either literal text or an interpolation.
type Segment struct {
	Kind    SegmentKind
	Literal string        // valid when Kind == SegmentLiteral
	Interp  Interpolation // valid when Kind == SegmentInterpolation
}

// Interpolation is the body of a {...} block: zero or more transforms
// applied right-to-left around a reference, followed by zero or more
// selectors that build the compound variant key.
type Interpolation struct {
	Transforms []Transform
	Reference  Reference
	Selectors  []Selector
}

// ContextKind discriminates a Transform's context arguments.
type ContextKind int

const (
	ContextNone ContextKind = iota
	ContextStatic
	ContextDynamic
	ContextBoth
)

// Transform is "@name" optionally followed by a static context ":lit"
// and/or a dynamic context "($param)".
type Transform struct {
	Name    string
	Context ContextKind
	Static  string // literal context text, valid for ContextStatic/ContextBoth
	Dynamic string // parameter name, valid for ContextDynamic/ContextBoth
}

// ReferenceKind discriminates the head of an interpolation.
type ReferenceKind int

const (
	RefIdentifier ReferenceKind = iota
	RefParameter
	RefCall
	RefNumberLiteral
	RefStringLiteral
)

// Reference is the bare identifier / $parameter / call(...) / literal that
// an interpolation resolves.
type Reference struct {
	Kind   ReferenceKind
	Name   string      // RefIdentifier, RefParameter, RefCall
	Args   []Reference // RefCall only; each arg is Identifier/Parameter/NumberLiteral/StringLiteral
	Number int64       // RefNumberLiteral
	Str    string      // RefStringLiteral
	// AutoCapitalised records whether the parser implicitly prepended a cap
	// transform to this interpolation because the bare identifier started
	// with an uppercase letter (see auto-capitalisation in the package doc).
	AutoCapitalised bool
}

// SelectorKind discriminates a Selector.
type SelectorKind int

const (
	SelLiteral SelectorKind = iota
	SelParameter
)

// Selector is a post-reference ":name" or ":$name" specifier; selectors
// stack and their dot-join forms the compound lookup key.
type Selector struct {
	Kind SelectorKind
	Name string
}
