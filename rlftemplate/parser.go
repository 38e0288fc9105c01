package rlftemplate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/napalu/rlf/errs"
)

// Parse parses a single template string (the body of a phrase template,
// without surrounding quotes) into a Template AST.
func Parse(src string) (*Template, error) {
	p := &parser{src: []rune(src), line: 1, col: 1}
	return p.parseTemplate()
}

type parser struct {
	src  []rune
	pos  int
	line int
	col  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() (rune, bool) {
	if p.atEnd() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) peekAt(offset int) (rune, bool) {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.src) {
		return 0, false
	}
	return p.src[idx], true
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) skipWS() {
	for {
		r, ok := p.peek()
		if !ok || !isSpace(r) {
			return
		}
		p.advance()
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &errs.Parse{Line: p.line, Column: p.col, Message: msg}
}

func (p *parser) parseTemplate() (*Template, error) {
	var segments []Segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentLiteral, Literal: lit.String()})
			lit.Reset()
		}
	}

	for !p.atEnd() {
		r, _ := p.peek()
		switch r {
		case '{':
			if n, ok := p.peekAt(1); ok && n == '{' {
				p.advance()
				p.advance()
				lit.WriteRune('{')
				continue
			}
			flush()
			p.advance() // consume '{'
			interp, err := p.parseInterpolation()
			if err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Kind: SegmentInterpolation, Interp: interp})
		case '}':
			if n, ok := p.peekAt(1); ok && n == '}' {
				p.advance()
				p.advance()
				lit.WriteRune('}')
				continue
			}
			return nil, p.errorf("unexpected '}'")
		case '@':
			if n, ok := p.peekAt(1); ok && n == '@' {
				p.advance()
				p.advance()
				lit.WriteRune('@')
				continue
			}
			p.advance()
			lit.WriteRune('@')
		case ':':
			if n, ok := p.peekAt(1); ok && n == ':' {
				p.advance()
				p.advance()
				lit.WriteRune(':')
				continue
			}
			p.advance()
			lit.WriteRune(':')
		case '$':
			if n, ok := p.peekAt(1); ok && n == '$' {
				p.advance()
				p.advance()
				lit.WriteRune('$')
				continue
			}
			p.advance()
			lit.WriteRune('$')
		default:
			p.advance()
			lit.WriteRune(r)
		}
	}
	flush()

	return &Template{Segments: segments}, nil
}

// parseInterpolation is called having already consumed the opening '{'.
func (p *parser) parseInterpolation() (Interpolation, error) {
	var interp Interpolation
	sawAnything := false

	p.skipWS()
	for {
		r, ok := p.peek()
		if !ok {
			return interp, p.errorf("unclosed interpolation: expected '}'")
		}
		if r != '@' {
			break
		}
		t, err := p.parseTransform()
		if err != nil {
			return interp, err
		}
		interp.Transforms = append(interp.Transforms, t)
		sawAnything = true
		p.skipWS()
	}

	r, ok := p.peek()
	if !ok {
		return interp, p.errorf("unclosed interpolation: expected '}'")
	}
	if r == '}' {
		if sawAnything {
			return interp, p.errorf("interpolation is missing a reference")
		}
		return interp, p.errorf("empty interpolation")
	}
	if r == ':' {
		return interp, p.errorf("interpolation is missing a reference")
	}

	ref, err := p.parseTopReference()
	if err != nil {
		return interp, err
	}
	interp.Reference = ref
	if ref.AutoCapitalised {
		interp.Transforms = append([]Transform{{Name: "cap"}}, interp.Transforms...)
	}

	p.skipWS()
	for {
		r, ok := p.peek()
		if !ok {
			return interp, p.errorf("unclosed interpolation: expected '}'")
		}
		if r != ':' {
			break
		}
		sel, err := p.parseSelector()
		if err != nil {
			return interp, err
		}
		interp.Selectors = append(interp.Selectors, sel)
		p.skipWS()
	}

	r, ok = p.peek()
	if !ok {
		return interp, p.errorf("unclosed interpolation: expected '}'")
	}
	if r != '}' {
		return interp, p.errorf("unexpected character %q in interpolation, expected '}'", r)
	}
	p.advance()

	return interp, nil
}

func (p *parser) parseTransform() (Transform, error) {
	var t Transform
	p.advance() // consume '@'
	name, err := p.parseIdent()
	if err != nil {
		return t, err
	}
	if name == "" {
		return t, p.errorf("empty transform name")
	}
	t.Name = name

	if r, ok := p.peek(); ok && r == ':' {
		p.advance()
		lit := p.readStaticContext()
		if lit == "" {
			return t, p.errorf("empty transform static context")
		}
		t.Static = lit
		t.Context = ContextStatic
	}

	if r, ok := p.peek(); ok && r == '(' {
		p.advance()
		p.skipWS()
		if r, ok := p.peek(); !ok || r != '$' {
			return t, p.errorf("transform dynamic context must be a $parameter")
		}
		p.advance()
		name, err := p.parseIdent()
		if err != nil {
			return t, err
		}
		if name == "" {
			return t, p.errorf("empty parameter name")
		}
		t.Dynamic = name
		if t.Context == ContextStatic {
			t.Context = ContextBoth
		} else {
			t.Context = ContextDynamic
		}
		p.skipWS()
		if r, ok := p.peek(); !ok || r != ')' {
			return t, p.errorf("expected ')' to close transform dynamic context")
		}
		p.advance()
	}

	return t, nil
}

// readStaticContext reads a bare literal token up to the next structural
// character: whitespace, '(', '@', ':' or '}'.
func (p *parser) readStaticContext() string {
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok || isSpace(r) || r == '(' || r == '@' || r == ':' || r == '}' {
			break
		}
		b.WriteRune(p.advance())
	}
	return b.String()
}

// parseTopReference parses the single required Reference at the head of
// an interpolation: Identifier, Parameter, or Call. Bare NumberLiteral and
// StringLiteral references are rejected here; they are legal only as Call
// arguments.
func (p *parser) parseTopReference() (Reference, error) {
	r, ok := p.peek()
	if !ok {
		return Reference{}, p.errorf("unclosed interpolation: expected '}'")
	}

	switch {
	case r == '$':
		p.advance()
		name, err := p.parseIdent()
		if err != nil {
			return Reference{}, err
		}
		if name == "" {
			return Reference{}, p.errorf("empty parameter name")
		}
		return Reference{Kind: RefParameter, Name: name}, nil
	case isIdentStart(r):
		name, err := p.parseIdent()
		if err != nil {
			return Reference{}, err
		}
		if nr, ok := p.peek(); ok && nr == '(' {
			return p.parseCall(name)
		}
		capName, didCap := autoCapitalize(name)
		return Reference{Kind: RefIdentifier, Name: capName, AutoCapitalised: didCap}, nil
	default:
		return Reference{}, p.errorf("interpolation is missing a reference")
	}
}

func (p *parser) parseCall(name string) (Reference, error) {
	p.advance() // consume '('
	ref := Reference{Kind: RefCall, Name: name}

	p.skipWS()
	if r, ok := p.peek(); ok && r == ')' {
		p.advance()
		return ref, nil
	}

	for {
		arg, err := p.parseArg()
		if err != nil {
			return Reference{}, err
		}
		ref.Args = append(ref.Args, arg)
		p.skipWS()
		r, ok := p.peek()
		if !ok {
			return Reference{}, p.errorf("unclosed call argument list: expected ')'")
		}
		if r == ',' {
			p.advance()
			p.skipWS()
			continue
		}
		if r == ')' {
			p.advance()
			break
		}
		return Reference{}, p.errorf("unexpected character %q in argument list, expected ',' or ')'", r)
	}

	return ref, nil
}

func (p *parser) parseArg() (Reference, error) {
	r, ok := p.peek()
	if !ok {
		return Reference{}, p.errorf("unclosed call argument list: expected ')'")
	}

	switch {
	case r == '$':
		p.advance()
		name, err := p.parseIdent()
		if err != nil {
			return Reference{}, err
		}
		if name == "" {
			return Reference{}, p.errorf("empty parameter name")
		}
		return Reference{Kind: RefParameter, Name: name}, nil
	case r == '"':
		return p.parseStringLiteral()
	case r == '-' || isDigit(r):
		return p.parseNumberLiteral()
	case isIdentStart(r):
		name, err := p.parseIdent()
		if err != nil {
			return Reference{}, err
		}
		if nr, ok := p.peek(); ok && nr == '(' {
			return Reference{}, p.errorf("nested call %q is not allowed as an argument; bind it to a host variable first", name)
		}
		return Reference{Kind: RefIdentifier, Name: name}, nil
	default:
		return Reference{}, p.errorf("unexpected character %q in argument", r)
	}
}

func (p *parser) parseStringLiteral() (Reference, error) {
	p.advance() // consume opening quote
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok {
			return Reference{}, p.errorf("unterminated string literal")
		}
		if r == '"' {
			p.advance()
			return Reference{Kind: RefStringLiteral, Str: b.String()}, nil
		}
		b.WriteRune(p.advance())
	}
}

func (p *parser) parseNumberLiteral() (Reference, error) {
	var b strings.Builder
	if r, ok := p.peek(); ok && r == '-' {
		b.WriteRune(p.advance())
	}
	start := b.Len()
	for {
		r, ok := p.peek()
		if !ok || !isDigit(r) {
			break
		}
		b.WriteRune(p.advance())
	}
	if b.Len() == start {
		return Reference{}, p.errorf("invalid number literal")
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return Reference{}, p.errorf("invalid number literal: %v", err)
	}
	return Reference{Kind: RefNumberLiteral, Number: n}, nil
}

func (p *parser) parseSelector() (Selector, error) {
	p.advance() // consume ':'
	if r, ok := p.peek(); ok && r == '*' {
		// ":*" explicitly requests the phrase's default variant.
		p.advance()
		return Selector{Kind: SelLiteral, Name: "*"}, nil
	}
	if r, ok := p.peek(); ok && r == '$' {
		p.advance()
		name, err := p.parseIdent()
		if err != nil {
			return Selector{}, err
		}
		if name == "" {
			return Selector{}, p.errorf("empty parameter selector name")
		}
		return Selector{Kind: SelParameter, Name: name}, nil
	}

	name, err := p.parseSelectorName()
	if err != nil {
		return Selector{}, err
	}
	if name == "" {
		return Selector{}, p.errorf("empty selector name")
	}
	return Selector{Kind: SelLiteral, Name: name}, nil
}

// parseIdent reads [A-Za-z_][A-Za-z0-9_]* (the caller has already checked
// for a plausible start where required).
func (p *parser) parseIdent() (string, error) {
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok || !isIdentPart(r) {
			break
		}
		b.WriteRune(p.advance())
	}
	return b.String(), nil
}

// parseSelectorName reads an identifier that may itself contain dot
// separators (e.g. "nom.one"), used to write a multi-component variant
// key in a single selector.
func (p *parser) parseSelectorName() (string, error) {
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok || !(isIdentPart(r) || r == '.') {
			break
		}
		b.WriteRune(p.advance())
	}
	s := b.String()
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..") {
		return "", p.errorf("malformed selector name %q", s)
	}
	return s, nil
}

func isSpace(r rune) bool  { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func toASCIILower(r rune) rune { return r + ('a' - 'A') }

// autoCapitalize implements the auto-capitalisation rule:
// lowercase the first ASCII letter, and the first letter after every
// underscore, when it is uppercase; report whether anything changed.
func autoCapitalize(name string) (string, bool) {
	runes := []rune(name)
	changed := false
	if len(runes) > 0 && isASCIIUpper(runes[0]) {
		runes[0] = toASCIILower(runes[0])
		changed = true
	}
	for i := 1; i < len(runes); i++ {
		if runes[i-1] == '_' && isASCIIUpper(runes[i]) {
			runes[i] = toASCIILower(runes[i])
			changed = true
		}
	}
	return string(runes), changed
}
