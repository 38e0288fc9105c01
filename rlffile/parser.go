package rlffile

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/napalu/rlf/errs"
	"github.com/napalu/rlf/rlftemplate"
	"github.com/napalu/rlf/value"
)

// Parse parses a complete .rlf source into an ordered sequence of
// PhraseDefinition. Comments ("// ..." to end of line) and whitespace are
// insignificant outside quoted template strings.
func Parse(src string) ([]*PhraseDefinition, error) {
	p := &fileParser{src: []rune(src), line: 1, col: 1}
	var defs []*PhraseDefinition
	p.skipTrivia()
	for !p.atEnd() {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		p.skipTrivia()
	}
	return defs, nil
}

type fileParser struct {
	src  []rune
	pos  int
	line int
	col  int
}

func (p *fileParser) atEnd() bool { return p.pos >= len(p.src) }

func (p *fileParser) peek() (rune, bool) {
	if p.atEnd() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *fileParser) peekAt(off int) (rune, bool) {
	idx := p.pos + off
	if idx < 0 || idx >= len(p.src) {
		return 0, false
	}
	return p.src[idx], true
}

func (p *fileParser) advance() rune {
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

func (p *fileParser) pos2() (int, int) { return p.line, p.col }

func (p *fileParser) errorf(format string, args ...interface{}) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &errs.Parse{Line: p.line, Column: p.col, Message: msg}
}

func (p *fileParser) skipTrivia() {
	for {
		r, ok := p.peek()
		if !ok {
			return
		}
		if isFileSpace(r) {
			p.advance()
			continue
		}
		if r == '/' {
			if n, ok := p.peekAt(1); ok && n == '/' {
				for {
					r, ok := p.peek()
					if !ok || r == '\n' {
						break
					}
					p.advance()
				}
				continue
			}
		}
		return
	}
}

func isFileSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
func isFileDigit(r rune) bool { return r >= '0' && r <= '9' }
func isIdentStartLower(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == '_'
}
func isIdentPart(r rune) bool {
	return isIdentStartLower(r) || (r >= 'A' && r <= 'Z') || isFileDigit(r)
}

// ---- definitions ----

func (p *fileParser) parseDefinition() (*PhraseDefinition, error) {
	line, col := p.pos2()

	name, err := p.parseBareIdent()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, p.errorf("expected a phrase or term name")
	}
	if err := validateName(name); err != nil {
		return nil, p.errorf("%v", err)
	}

	def := &PhraseDefinition{Name: name, Line: line, Column: col}

	p.skipTrivia()
	if r, ok := p.peek(); ok && r == '(' {
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		def.Parameters = params
	}

	if len(def.Parameters) == 0 {
		def.Kind = KindTerm
	} else {
		def.Kind = KindPhrase
	}

	p.skipTrivia()
	if r, ok := p.peek(); !ok || r != '=' {
		return nil, p.errorf("expected '=' after %q", name)
	}
	p.advance()
	p.skipTrivia()

	if err := p.parseModifiers(def); err != nil {
		return nil, err
	}

	if def.Kind == KindTerm && (def.HasFrom || len(def.MatchParams) > 0) {
		return nil, p.errorf("term %q may not carry :from or :match", name)
	}
	for _, mp := range def.MatchParams {
		if !containsStr(def.Parameters, mp) {
			return nil, p.errorf(":match parameter %q is not declared in %q's parameter list", mp, name)
		}
	}

	p.skipTrivia()
	if err := p.parseBody(def); err != nil {
		return nil, err
	}

	p.skipTrivia()
	if r, ok := p.peek(); !ok || r != ';' {
		return nil, p.errorf("expected ';' to end definition %q", name)
	}
	p.advance()

	return def, nil
}

func (p *fileParser) parseBareIdent() (string, error) {
	var b strings.Builder
	r, ok := p.peek()
	if !ok || !(isIdentStartLower(r) || (r >= 'A' && r <= 'Z')) {
		return "", p.errorf("expected an identifier")
	}
	for {
		r, ok := p.peek()
		if !ok || !isIdentPart(r) {
			break
		}
		b.WriteRune(p.advance())
	}
	return b.String(), nil
}

func validateName(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("empty name")
	}
	r := rune(name[0])
	if r < 'a' || r > 'z' {
		return fmt.Errorf("name %q must start with a lowercase ASCII letter", name)
	}
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return fmt.Errorf("name %q must be snake_case (did you mean %q?)", name, strcase.ToSnake(name))
		}
	}
	return nil
}

func (p *fileParser) parseParamList() ([]string, error) {
	p.advance() // consume '('
	p.skipTrivia()
	var params []string
	if r, ok := p.peek(); ok && r == ')' {
		return nil, p.errorf("parameter list must not be empty")
	}
	for {
		p.skipTrivia()
		if r, ok := p.peek(); !ok || r != '$' {
			return nil, p.errorf("expected '$' before parameter name")
		}
		p.advance()
		name, err := p.parseBareIdent()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, p.errorf("empty parameter name")
		}
		params = append(params, name)
		p.skipTrivia()
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf("unclosed parameter list: expected ')'")
		}
		if r == ',' {
			p.advance()
			continue
		}
		if r == ')' {
			p.advance()
			break
		}
		return nil, p.errorf("unexpected character %q in parameter list", r)
	}
	return params, nil
}

func (p *fileParser) parseModifiers(def *PhraseDefinition) error {
	for {
		p.skipTrivia()
		r, ok := p.peek()
		if !ok || r != ':' {
			return nil
		}
		p.advance()
		name, err := p.parseBareIdent()
		if err != nil {
			return err
		}
		if name == "" {
			return p.errorf("empty modifier name")
		}

		switch name {
		case "from":
			p.skipTrivia()
			if r, ok := p.peek(); !ok || r != '(' {
				return p.errorf(":from requires (\"$param\")")
			}
			p.advance()
			p.skipTrivia()
			if r, ok := p.peek(); !ok || r != '$' {
				return p.errorf(":from argument must be a $parameter")
			}
			p.advance()
			pname, err := p.parseBareIdent()
			if err != nil {
				return err
			}
			def.FromParam = pname
			def.HasFrom = true
			p.skipTrivia()
			if r, ok := p.peek(); !ok || r != ')' {
				return p.errorf("expected ')' to close :from")
			}
			p.advance()
		case "match":
			p.skipTrivia()
			if r, ok := p.peek(); !ok || r != '(' {
				return p.errorf(":match requires (\"$param\", ...)")
			}
			p.advance()
			for {
				p.skipTrivia()
				if r, ok := p.peek(); !ok || r != '$' {
					return p.errorf(":match arguments must be $parameters")
				}
				p.advance()
				pname, err := p.parseBareIdent()
				if err != nil {
					return err
				}
				def.MatchParams = append(def.MatchParams, pname)
				p.skipTrivia()
				r, ok := p.peek()
				if !ok {
					return p.errorf("unclosed :match argument list")
				}
				if r == ',' {
					p.advance()
					continue
				}
				if r == ')' {
					p.advance()
					break
				}
				return p.errorf("unexpected character %q in :match argument list", r)
			}
		default:
			def.Tags = append(def.Tags, value.Tag(name))
		}
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isFileDigit(r) {
			return false
		}
	}
	return true
}

func containsStr(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

// ---- bodies ----

func (p *fileParser) parseBody(def *PhraseDefinition) error {
	r, ok := p.peek()
	if !ok {
		return p.errorf("expected a template string or variant block for %q", def.Name)
	}

	switch r {
	case '"':
		tmpl, err := p.parseTemplateString()
		if err != nil {
			return err
		}
		def.BodyKind = BodySimple
		def.Simple = tmpl
		return nil
	case '{':
		entries, err := p.parseCurlyBlock()
		if err != nil {
			return err
		}
		return p.resolveBlockBody(def, entries)
	default:
		return p.errorf("unexpected character %q, expected a template string or '{'", r)
	}
}

func (p *fileParser) parseTemplateString() (*rlftemplate.Template, error) {
	startLine, startCol := p.pos2()
	p.advance() // consume opening quote
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated template string")
		}
		if r == '"' {
			p.advance()
			break
		}
		b.WriteRune(p.advance())
	}

	tmpl, err := rlftemplate.Parse(b.String())
	if err != nil {
		var perr *errs.Parse
		if asParse(err, &perr) {
			line := startLine
			col := startCol + 1 + perr.Column - 1
			if perr.Line > 1 {
				line = startLine + perr.Line - 1
				col = perr.Column
			}
			return nil, &errs.Parse{Line: line, Column: col, Message: perr.Message}
		}
		return nil, err
	}
	return tmpl, nil
}

func asParse(err error, target **errs.Parse) bool {
	if pe, ok := err.(*errs.Parse); ok {
		*target = pe
		return true
	}
	return false
}

// rawEntry is the generic shape of one clause inside a '{...}' block,
// before we know whether the block is a variant block or a match block.
type rawEntry struct {
	LeadingStar bool
	Keys        []rawKey
	Template    *rlftemplate.Template
	Nested      []rawEntry
	line, col   int
}

type rawKey struct {
	Components []string
}

func (p *fileParser) parseCurlyBlock() ([]rawEntry, error) {
	p.advance() // consume '{'
	p.skipTrivia()
	var entries []rawEntry
	if r, ok := p.peek(); ok && r == '}' {
		p.advance()
		return entries, nil
	}

	for {
		p.skipTrivia()
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		p.skipTrivia()
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf("unclosed variant block: expected '}'")
		}
		if r == ',' {
			p.advance()
			p.skipTrivia()
			if r, ok := p.peek(); ok && r == '}' {
				p.advance()
				break
			}
			continue
		}
		if r == '}' {
			p.advance()
			break
		}
		return nil, p.errorf("unexpected character %q in variant block, expected ',' or '}'", r)
	}
	return entries, nil
}

func (p *fileParser) parseEntry() (rawEntry, error) {
	line, col := p.pos2()
	var e rawEntry
	e.line, e.col = line, col

	if r, ok := p.peek(); ok && r == '*' {
		// '*' directly before '.' or ':' is a wildcard key component
		// (e.g. "*.*" or a bare "*" branch), not the entry default
		// marker; leave it for parseKeyList.
		n, ok := p.peekAt(1)
		if !ok || (n != '.' && n != ':') {
			p.advance()
			e.LeadingStar = true
		}
	}

	keys, err := p.parseKeyList()
	if err != nil {
		return e, err
	}
	e.Keys = keys

	p.skipTrivia()
	if r, ok := p.peek(); !ok || r != ':' {
		return e, p.errorf("expected ':' after variant key")
	}
	p.advance()
	p.skipTrivia()

	r, ok := p.peek()
	if !ok {
		return e, p.errorf("expected a template string or nested match block")
	}
	switch r {
	case '"':
		tmpl, err := p.parseTemplateString()
		if err != nil {
			return e, err
		}
		e.Template = tmpl
	case '{':
		nested, err := p.parseCurlyBlock()
		if err != nil {
			return e, err
		}
		e.Nested = nested
	default:
		return e, p.errorf("unexpected character %q, expected a template string or '{'", r)
	}

	return e, nil
}

func (p *fileParser) parseKeyList() ([]rawKey, error) {
	first, err := p.parseDottedKey()
	if err != nil {
		return nil, err
	}
	keys := []rawKey{first}
	for {
		p.skipTrivia()
		r, ok := p.peek()
		if !ok || r != ',' {
			break
		}
		// Only a key-list separator if we haven't reached ':' yet; the
		// caller re-checks for ':' once this loop exits, so any comma
		// here must introduce another key.
		save := p.pos
		saveLine, saveCol := p.line, p.col
		p.advance()
		p.skipTrivia()
		if r, ok := p.peek(); ok && (r == '*' || isIdentStartLower(r) || (r >= 'A' && r <= 'Z') || isFileDigit(r)) {
			k, err := p.parseDottedKey()
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			continue
		}
		p.pos, p.line, p.col = save, saveLine, saveCol
		break
	}
	return keys, nil
}

func (p *fileParser) parseDottedKey() (rawKey, error) {
	var k rawKey
	comp, err := p.parseKeyComponent()
	if err != nil {
		return k, err
	}
	k.Components = append(k.Components, comp)
	for {
		r, ok := p.peek()
		if !ok || r != '.' {
			break
		}
		p.advance()
		comp, err := p.parseKeyComponent()
		if err != nil {
			return k, err
		}
		k.Components = append(k.Components, comp)
	}
	return k, nil
}

// ---- resolving raw entries into Variants vs Match ----

// resolveBlockBody decides, purely from the shape of the parse (whether
// :match was declared and whether any entry nests another block), whether
// a top-level '{...}' body is a match block or a variant block, then
// converts the raw entries accordingly.
func (p *fileParser) resolveBlockBody(def *PhraseDefinition, entries []rawEntry) error {
	if len(def.MatchParams) == 0 {
		if def.Kind == KindPhrase {
			return p.errorf("phrase %q has a bare variant block; declare :match(...) to branch on its parameters", def.Name)
		}
		variants, err := p.convertVariantEntries(def, entries, false)
		if err != nil {
			return err
		}
		def.BodyKind = BodyVariants
		def.Variants = variants
		return nil
	}

	anyNested := false
	for _, e := range entries {
		if e.Nested != nil {
			anyNested = true
			break
		}
	}

	if !anyNested {
		branches, err := p.convertMatchBranches(def, entries)
		if err != nil {
			return err
		}
		def.BodyKind = BodyMatch
		def.Match = branches
		return nil
	}

	variants, err := p.convertVariantEntries(def, entries, true)
	if err != nil {
		return err
	}
	def.BodyKind = BodyVariants
	def.Variants = variants
	return nil
}

func (p *fileParser) convertVariantEntries(def *PhraseDefinition, entries []rawEntry, allowNested bool) ([]VariantEntry, error) {
	starCount := 0
	for _, e := range entries {
		if e.LeadingStar {
			starCount++
		}
	}
	if starCount > 1 {
		return nil, p.errorf("at most one entry in %q's variant block may be marked default ('*'), found %d", def.Name, starCount)
	}

	out := make([]VariantEntry, 0, len(entries))
	for _, e := range entries {
		if e.LeadingStar {
			for _, k := range e.Keys {
				if len(k.Components) != 1 {
					return nil, p.errorf("default marker '*' is not permitted on a multi-component key")
				}
			}
		}
		ve := VariantEntry{IsDefault: e.LeadingStar}
		for _, k := range e.Keys {
			if !allowNested {
				// Term variant keys are names; numeric components are
				// only meaningful inside a :match block.
				for _, c := range k.Components {
					if isAllDigits(c) {
						return nil, p.errorf("term %q's variant key %q is numeric; variant keys must be named", def.Name, strings.Join(k.Components, "."))
					}
				}
			}
			ve.Keys = append(ve.Keys, value.VariantKey(strings.Join(k.Components, ".")))
		}
		if e.Nested != nil {
			if !allowNested {
				return nil, p.errorf("nested match block is only permitted when %q declares :match(...)", def.Name)
			}
			branches, err := p.convertMatchBranches(def, e.Nested)
			if err != nil {
				return nil, err
			}
			ve.NestedMatch = branches
		} else {
			ve.Template = e.Template
		}
		out = append(out, ve)
	}
	return out, nil
}

func (p *fileParser) convertMatchBranches(def *PhraseDefinition, entries []rawEntry) ([]MatchBranch, error) {
	numDims := len(def.MatchParams)
	out := make([]MatchBranch, 0, len(entries))
	for _, e := range entries {
		if e.Nested != nil {
			return nil, p.errorf("match branches may not themselves nest a block")
		}
		if e.LeadingStar && numDims != 1 {
			return nil, p.errorf("default marker '*' is only permitted on a single-dimension :match")
		}
		var keys []MatchKey
		for _, k := range e.Keys {
			if len(k.Components) != numDims {
				return nil, p.errorf("match key has %d component(s), expected %d for %q", len(k.Components), numDims, def.Name)
			}
			mk := MatchKey{}
			for _, c := range k.Components {
				mk.Components = append(mk.Components, MatchComponent{Value: c, IsDefault: c == "*"})
			}
			if e.LeadingStar {
				mk.Components[0].IsDefault = true
			}
			keys = append(keys, mk)
		}
		out = append(out, MatchBranch{Keys: keys, Template: e.Template})
	}

	for d := 0; d < numDims; d++ {
		values := map[string]bool{}
		for _, b := range out {
			for _, k := range b.Keys {
				if k.Components[d].IsDefault {
					values[k.Components[d].Value] = true
				}
			}
		}
		if len(values) == 0 {
			return nil, p.errorf("no '*' default value for :match parameter %q of %q; exactly one is required", def.MatchParams[d], def.Name)
		}
		if len(values) > 1 {
			return nil, p.errorf("multiple distinct '*' default values for :match parameter %q of %q; exactly one is allowed", def.MatchParams[d], def.Name)
		}
	}

	return out, nil
}

func (p *fileParser) parseKeyComponent() (string, error) {
	r, ok := p.peek()
	if !ok {
		return "", p.errorf("expected a variant key component")
	}
	if r == '*' {
		p.advance()
		return "*", nil
	}
	if !(isIdentStartLower(r) || (r >= 'A' && r <= 'Z') || isFileDigit(r)) {
		return "", p.errorf("unexpected character %q in variant key", r)
	}
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok || !(isIdentPart(r)) {
			break
		}
		b.WriteRune(p.advance())
	}
	if b.Len() == 0 {
		return "", p.errorf("empty variant key component")
	}
	return b.String(), nil
}
