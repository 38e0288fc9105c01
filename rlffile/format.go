package rlffile

import (
	"strconv"
	"strings"

	"github.com/napalu/rlf/rlftemplate"
)

// Format renders defs back to .rlf source in a canonical layout: one
// definition per block, modifiers after '=', one variant or match entry
// per line. Parsing the output yields definitions structurally equal to
// defs (source positions aside).
func Format(defs []*PhraseDefinition) string {
	var b strings.Builder
	for i, def := range defs {
		if i > 0 {
			b.WriteByte('\n')
		}
		formatDefinition(&b, def)
	}
	return b.String()
}

func formatDefinition(b *strings.Builder, def *PhraseDefinition) {
	b.WriteString(def.Name)
	if len(def.Parameters) > 0 {
		b.WriteByte('(')
		for i, p := range def.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(p)
		}
		b.WriteByte(')')
	}
	b.WriteString(" =")

	for _, t := range def.Tags {
		b.WriteString(" :")
		b.WriteString(string(t))
	}
	if def.HasFrom {
		b.WriteString(" :from($")
		b.WriteString(def.FromParam)
		b.WriteByte(')')
	}
	if len(def.MatchParams) > 0 {
		b.WriteString(" :match(")
		for i, mp := range def.MatchParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(mp)
		}
		b.WriteByte(')')
	}

	switch def.BodyKind {
	case BodySimple:
		b.WriteString(" \"")
		b.WriteString(FormatTemplate(def.Simple))
		b.WriteByte('"')
	case BodyVariants:
		b.WriteString(" {\n")
		for _, e := range def.Variants {
			formatVariantEntry(b, e, "    ")
		}
		b.WriteByte('}')
	case BodyMatch:
		b.WriteString(" {\n")
		formatMatchBranches(b, def.Match, "    ")
		b.WriteByte('}')
	}
	b.WriteString(";\n")
}

func formatVariantEntry(b *strings.Builder, e VariantEntry, indent string) {
	b.WriteString(indent)
	if e.IsDefault {
		b.WriteByte('*')
	}
	for i, k := range e.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(k))
	}
	b.WriteString(": ")
	if e.NestedMatch != nil {
		b.WriteString("{\n")
		formatMatchBranches(b, e.NestedMatch, indent+"    ")
		b.WriteString(indent)
		b.WriteByte('}')
	} else {
		b.WriteByte('"')
		b.WriteString(FormatTemplate(e.Template))
		b.WriteByte('"')
	}
	b.WriteString(",\n")
}

func formatMatchBranches(b *strings.Builder, branches []MatchBranch, indent string) {
	for _, br := range branches {
		b.WriteString(indent)
		for i, k := range br.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			formatMatchKey(b, k)
		}
		b.WriteString(": \"")
		b.WriteString(FormatTemplate(br.Template))
		b.WriteString("\",\n")
	}
}

func formatMatchKey(b *strings.Builder, k MatchKey) {
	// A single-dimension default written "*value" reparses through the
	// leading-star form; multi-dimension defaults are always the literal
	// '*' component, so plain dot-joining suffices there.
	if len(k.Components) == 1 {
		c := k.Components[0]
		if c.IsDefault && c.Value != "*" {
			b.WriteByte('*')
		}
		b.WriteString(c.Value)
		return
	}
	for i, c := range k.Components {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.Value)
	}
}

// FormatTemplate renders a parsed template back to its source form,
// re-escaping literal text and reconstructing auto-capitalised
// references in their capitalised spelling.
func FormatTemplate(t *rlftemplate.Template) string {
	var b strings.Builder
	for _, seg := range t.Segments {
		switch seg.Kind {
		case rlftemplate.SegmentLiteral:
			b.WriteString(escapeLiteral(seg.Literal))
		case rlftemplate.SegmentInterpolation:
			formatInterpolation(&b, seg.Interp)
		}
	}
	return b.String()
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '{':
			b.WriteString("{{")
		case '}':
			b.WriteString("}}")
		case '@':
			b.WriteString("@@")
		case ':':
			b.WriteString("::")
		case '$':
			b.WriteString("$$")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatInterpolation(b *strings.Builder, interp rlftemplate.Interpolation) {
	b.WriteByte('{')
	transforms := interp.Transforms
	if interp.Reference.AutoCapitalised && len(transforms) > 0 &&
		transforms[0].Name == "cap" && transforms[0].Context == rlftemplate.ContextNone {
		// The parser will re-insert this cap when it sees the
		// capitalised spelling below.
		transforms = transforms[1:]
	}
	for _, t := range transforms {
		b.WriteByte('@')
		b.WriteString(t.Name)
		if t.Context == rlftemplate.ContextStatic || t.Context == rlftemplate.ContextBoth {
			b.WriteByte(':')
			b.WriteString(t.Static)
		}
		if t.Context == rlftemplate.ContextDynamic || t.Context == rlftemplate.ContextBoth {
			b.WriteString("($")
			b.WriteString(t.Dynamic)
			b.WriteByte(')')
		}
		b.WriteByte(' ')
	}
	formatReference(b, interp.Reference)
	for _, sel := range interp.Selectors {
		b.WriteByte(':')
		if sel.Kind == rlftemplate.SelParameter {
			b.WriteByte('$')
		}
		b.WriteString(sel.Name)
	}
	b.WriteByte('}')
}

func formatReference(b *strings.Builder, ref rlftemplate.Reference) {
	switch ref.Kind {
	case rlftemplate.RefParameter:
		b.WriteByte('$')
		b.WriteString(ref.Name)
	case rlftemplate.RefIdentifier:
		if ref.AutoCapitalised {
			b.WriteString(recapitalize(ref.Name))
		} else {
			b.WriteString(ref.Name)
		}
	case rlftemplate.RefCall:
		b.WriteString(ref.Name)
		b.WriteByte('(')
		for i, a := range ref.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			formatArg(b, a)
		}
		b.WriteByte(')')
	case rlftemplate.RefNumberLiteral:
		b.WriteString(strconv.FormatInt(ref.Number, 10))
	case rlftemplate.RefStringLiteral:
		b.WriteByte('"')
		b.WriteString(ref.Str)
		b.WriteByte('"')
	}
}

func formatArg(b *strings.Builder, a rlftemplate.Reference) {
	formatReference(b, a)
}

// recapitalize restores the capitalised source spelling of a name the
// parser lowered via auto-capitalisation: the first ASCII letter, and
// the first letter after each underscore, become uppercase.
func recapitalize(name string) string {
	runes := []rune(name)
	if len(runes) > 0 && runes[0] >= 'a' && runes[0] <= 'z' {
		runes[0] -= 'a' - 'A'
	}
	for i := 1; i < len(runes); i++ {
		if runes[i-1] == '_' && runes[i] >= 'a' && runes[i] <= 'z' {
			runes[i] -= 'a' - 'A'
		}
	}
	return string(runes)
}
