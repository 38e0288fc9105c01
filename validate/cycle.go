package validate

import (
	"strings"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/rlffile"
	"github.com/napalu/rlf/rlftemplate"
)

// checkCycles implements rule 13: the directed graph where edge A->B
// exists when A's template statically references B as an Identifier or
// Call must be acyclic. Only edges to names that are themselves in defs
// are considered (an edge to an undeclared name is already rule 2's
// job). One ValidationError is reported per distinct cycle found.
func checkCycles(defs []*rlffile.PhraseDefinition, out *[]error) {
	nodes := make(map[string]*rlffile.PhraseDefinition, len(defs))
	for _, d := range defs {
		nodes[d.Name] = d
	}

	edges := make(map[string][]string, len(defs))
	for _, d := range defs {
		seen := map[string]bool{}
		walkDefinition(d, func(interp rlftemplate.Interpolation) {
			var target string
			switch interp.Reference.Kind {
			case rlftemplate.RefIdentifier, rlftemplate.RefCall:
				target = interp.Reference.Name
			default:
				return
			}
			if _, ok := nodes[target]; !ok || seen[target] {
				return
			}
			seen[target] = true
			edges[d.Name] = append(edges[d.Name], target)
		})
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(defs))
	reported := make(map[string]bool)

	var stack []string
	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		stack = append(stack, name)
		for _, next := range edges[name] {
			switch color[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				idx := 0
				for i, s := range stack {
					if s == next {
						idx = i
						break
					}
				}
				chain := append(append([]string{}, stack[idx:]...), next)
				key := strings.Join(chain, ">")
				if !reported[key] {
					reported[key] = true
					*out = append(*out, &errs.ValidationError{
						Rule:    errs.RuleCyclicReference,
						Phrase:  chain[0],
						Message: "cyclic reference: " + strings.Join(chain, " -> "),
					})
				}
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	// Iterate defs in order for deterministic diagnostic ordering rather
	// than Go's randomized map iteration.
	for _, d := range defs {
		if color[d.Name] == white {
			stack = nil
			visit(d.Name)
		}
	}
}
