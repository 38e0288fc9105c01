// Package errs defines RLF's two error taxonomies: load-time
// failures from parsing/loading a definition source, and evaluation-time
// failures from rendering a Phrase. These are deliberately not routed
// through the engine's own translation machinery: an engine whose entire
// job is producing localized strings should not localize its own
// diagnostics. Each kind is a plain struct carrying the structured
// detail (suggestions, chains, positions) its rendering needs.
package errs

import (
	"fmt"
	"strings"
)

// PhraseNotFound is raised when an Identifier/Call reference resolves to
// neither a parameter nor a registry entry.
type PhraseNotFound struct {
	Name        string
	Suggestions []string
}

func (e *PhraseNotFound) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("rlf: phrase %q not found", e.Name)
	}
	return fmt.Sprintf("rlf: phrase %q not found (did you mean: %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// ArgumentCount is raised when a Call's argument count does not match the
// definition's parameter count.
type ArgumentCount struct {
	Phrase   string
	Expected int
	Got      int
}

func (e *ArgumentCount) Error() string {
	return fmt.Sprintf("rlf: %s expects %d argument(s), got %d", e.Phrase, e.Expected, e.Got)
}

// MissingVariant is raised when a compound selector key (and every
// trailing-component-stripped fallback of it) fails to resolve against a
// phrase's variants.
type MissingVariant struct {
	Phrase      string
	Key         string
	Available   []string
	Suggestions []string
}

func (e *MissingVariant) Error() string {
	msg := fmt.Sprintf("rlf: %s has no variant %q (available: %s)", e.Phrase, e.Key, strings.Join(e.Available, ", "))
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// MissingTag is raised when a Phrase-typed selector parameter has no tags
// to use for the first-tag rule.
type MissingTag struct {
	Transform string
	Expected  string
	Phrase    string
}

func (e *MissingTag) Error() string {
	return fmt.Sprintf("rlf: %s requires a tag on %s (expected one like %s) but it has none", e.Transform, e.Phrase, e.Expected)
}

// CyclicReference is raised when evaluation would re-enter a phrase
// already on the active call stack.
type CyclicReference struct {
	Chain []string
}

func (e *CyclicReference) Error() string {
	return fmt.Sprintf("rlf: cyclic reference: %s", strings.Join(e.Chain, " -> "))
}

// MaxDepthExceeded is raised when recursive evaluation exceeds the
// configured max depth.
type MaxDepthExceeded struct {
	MaxDepth int
}

func (e *MaxDepthExceeded) Error() string {
	return fmt.Sprintf("rlf: max evaluation depth (%d) exceeded", e.MaxDepth)
}

// UnknownTransform is raised when a transform name does not resolve via
// the semantics table for the source language.
type UnknownTransform struct {
	Name        string
	Language    string
	Suggestions []string
}

func (e *UnknownTransform) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("rlf: unknown transform %q for language %q", e.Name, e.Language)
	}
	return fmt.Sprintf("rlf: unknown transform %q for language %q (did you mean: %s?)", e.Name, e.Language, strings.Join(e.Suggestions, ", "))
}

// UndefinedParameter is raised when a Parameter reference is not present
// in the active parameter map.
type UndefinedParameter struct {
	Name string
}

func (e *UndefinedParameter) Error() string {
	return fmt.Sprintf("rlf: undefined parameter %q", e.Name)
}

// IncompatibleFromVariants is raised when a :from($p) definition also
// declares its own Variants body.
type IncompatibleFromVariants struct {
	Phrase string
}

func (e *IncompatibleFromVariants) Error() string {
	return fmt.Sprintf("rlf: %s uses :from with its own variant block, which is not allowed", e.Phrase)
}

// FromParamNotPhrase is raised when a :from($p) definition's $p parameter
// resolves to a non-Phrase Value at evaluation time.
type FromParamNotPhrase struct {
	Phrase string
	Param  string
}

func (e *FromParamNotPhrase) Error() string {
	return fmt.Sprintf("rlf: %s's :from($%s) requires a Phrase value", e.Phrase, e.Param)
}

// NoMatchBranch is raised when a :match's composite discriminator key
// matches no branch. Well-formed :match bodies (parser-enforced default
// discipline) make this unreachable; it exists as a defensive backstop
// for definitions constructed programmatically rather than parsed.
type NoMatchBranch struct {
	Phrase string
	Key    string
}

func (e *NoMatchBranch) Error() string {
	return fmt.Sprintf("rlf: %s has no :match branch for %q", e.Phrase, e.Key)
}
