package errs

import (
	"fmt"
	"strings"
)

// ValidationError is one static-validator diagnostic. Rule
// identifies which check produced it (stable across releases, useful for
// tests and for CLI --json output); Phrase names the definition it was
// found in.
type ValidationError struct {
	Rule        string
	Phrase      string
	Message     string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("rlf: %s: %s", e.Phrase, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Validation rule identifiers, one per static check.
const (
	RuleParameterShadowing      = "parameter_shadowing"
	RuleUndefinedReference      = "undefined_reference"
	RuleParameterMisuse         = "parameter_misuse"
	RuleBareIdentifierMisuse    = "bare_identifier_misuse"
	RuleKindConfusion           = "term_phrase_confusion"
	RuleArityMismatch           = "arity_mismatch"
	RuleNestedCallArgument      = "nested_call_argument"
	RuleUnknownTransform        = "unknown_transform"
	RuleUndeclaredDynamicParam  = "undeclared_dynamic_context_parameter"
	RuleSelectorUnreachable     = "selector_unreachable"
	RuleUndeclaredParamSelector = "undeclared_parameter_selector"
	RuleMatchDefaultDiscipline  = "match_default_discipline"
	RuleCyclicReference         = "cyclic_reference"
	RuleFromWithOwnVariants     = "from_with_own_variants"
)
