// Package parser implements a recursive-descent parser for the pattern
// grammar, emitting Thompson-construction fragments directly into an
// automaton.EpsilonNFABuilder as it goes. Each grammar production that
// builds a fragment is parsed by a method returning (statePair, matched
// bool, error); the character-class items return their byte ranges (or
// byte) in place of the statePair. matched is false when the production
// simply did not apply at the current position (not an error), mirroring
// how the grammar's alternatives are tried in sequence.
package parser

import (
	"fmt"
	"strings"

	"github.com/coregx/mindfa/automaton"
)

// metaChars are the characters with special meaning outside a character
// class; escaping one of them with '\' yields the literal character.
const metaChars = "[]\\.^$*+?{}|()"

// escapeChars are the characters legal immediately after a '\' outside a
// character class: the meta characters (as literals) plus the shorthand
// classes and control escapes.
const escapeChars = metaChars + "wWsSdDnrt"

// setMetaChars are the characters with special meaning inside a character
// class.
const setMetaChars = "[]\\"

// setEscapeChars are the characters legal immediately after a '\' inside a
// character class.
const setEscapeChars = setMetaChars + "nrt"

// statePair is the entry/exit state of a Thompson-construction fragment.
type statePair struct {
	start, end automaton.StateID
}

// Parser holds parsing state: the pattern being consumed, a cursor into it,
// and the builder that parsed fragments are emitted into.
type Parser struct {
	pattern []byte
	pos     int
	builder *automaton.EpsilonNFABuilder
}

// Parse parses pattern into a sealed epsilon-NFA. An empty pattern, and a
// pattern consisting entirely of an empty group "()", are both accepted and
// match only the empty string.
func Parse(pattern string, cfg automaton.BuildConfig) (*automaton.EpsilonNFA, error) {
	p := &Parser{pattern: []byte(pattern), builder: automaton.NewEpsilonNFABuilder()}

	sp, ok, err := p.parseRE()
	if err != nil {
		return nil, err
	}
	if !ok {
		sp = p.emptyFragment()
	}
	if p.pos != len(p.pattern) {
		return nil, p.errorAt(UnexpectedCharacter, "unexpected trailing input %q", string(p.pattern[p.pos:]))
	}

	return p.builder.Build(sp.start, sp.end, cfg)
}

func (p *Parser) emptyFragment() statePair {
	start := p.builder.AddState()
	end := p.builder.AddState()
	p.builder.AddEpsilon(start, end)
	return statePair{start, end}
}

func (p *Parser) errorAt(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Pos: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) peek() (byte, bool) {
	if p.pos >= len(p.pattern) {
		return 0, false
	}
	return p.pattern[p.pos], true
}

func (p *Parser) match(c byte) error {
	got, ok := p.peek()
	if !ok || got != c {
		return p.errorAt(UnexpectedCharacter, "expected %q", c)
	}
	p.pos++
	return nil
}

func (p *Parser) matchOneOf(set string) (byte, error) {
	got, ok := p.peek()
	if !ok || !strings.ContainsRune(set, rune(got)) {
		return 0, p.errorAt(UnexpectedCharacter, "expected one of %q", set)
	}
	p.pos++
	return got, nil
}

func (p *Parser) matchNoneOf(set string) (byte, error) {
	got, ok := p.peek()
	if !ok || strings.ContainsRune(set, rune(got)) {
		return 0, p.errorAt(UnexpectedCharacter, "expected none of %q", set)
	}
	p.pos++
	return got, nil
}

// parseRE parses: re ::= simple_re ('|' simple_re)*
func (p *Parser) parseRE() (statePair, bool, error) {
	lhs, ok, err := p.parseSimpleRE()
	if err != nil || !ok {
		return statePair{}, ok, err
	}

	for {
		c, has := p.peek()
		if !has || c != '|' {
			break
		}
		p.pos++

		rhs, ok2, err := p.parseSimpleRE()
		if err != nil {
			return statePair{}, false, err
		}
		if !ok2 {
			return statePair{}, false, p.errorAt(UnexpectedEnd, "expected an expression after '|'")
		}

		start := p.builder.AddState()
		end := p.builder.AddState()
		p.builder.AddEpsilon(start, lhs.start)
		p.builder.AddEpsilon(start, rhs.start)
		p.builder.AddEpsilon(lhs.end, end)
		p.builder.AddEpsilon(rhs.end, end)
		lhs = statePair{start, end}
	}

	return lhs, true, nil
}

// parseSimpleRE parses: simple_re ::= basic_re+
func (p *Parser) parseSimpleRE() (statePair, bool, error) {
	lhs, ok, err := p.parseBasicRE()
	if err != nil || !ok {
		return statePair{}, ok, err
	}

	for {
		rhs, ok2, err := p.parseBasicRE()
		if err != nil {
			return statePair{}, false, err
		}
		if !ok2 {
			break
		}
		p.builder.AddEpsilon(lhs.end, rhs.start)
		lhs = statePair{lhs.start, rhs.end}
	}

	return lhs, true, nil
}

// parseBasicRE parses: basic_re ::= elementary_re ('*' | '+' | '?' | counted_repetition)?
func (p *Parser) parseBasicRE() (statePair, bool, error) {
	elem, ok, err := p.parseElementaryRE()
	if err != nil || !ok {
		return statePair{}, ok, err
	}

	c, has := p.peek()
	if !has {
		return elem, true, nil
	}

	switch c {
	case '*':
		p.pos++
		return p.wrapStar(elem), true, nil
	case '+':
		p.pos++
		return p.wrapPlus(elem), true, nil
	case '?':
		p.pos++
		return p.wrapOptional(elem), true, nil
	case '{':
		p.pos++
		return p.parseCountedRepetition(elem)
	default:
		return elem, true, nil
	}
}

func (p *Parser) wrapStar(e statePair) statePair {
	s, end := p.wrapStarRaw(e.start, e.end)
	return statePair{s, end}
}

func (p *Parser) wrapPlus(e statePair) statePair {
	start := p.builder.AddState()
	end := p.builder.AddState()
	p.builder.AddEpsilon(start, e.start)
	p.builder.AddEpsilon(e.end, end)
	p.builder.AddEpsilon(e.end, e.start)
	return statePair{start, end}
}

func (p *Parser) wrapOptional(e statePair) statePair {
	s, end := p.wrapOptionalRaw(e.start, e.end)
	return statePair{s, end}
}

func (p *Parser) wrapStarRaw(s, e automaton.StateID) (automaton.StateID, automaton.StateID) {
	start := p.builder.AddState()
	end := p.builder.AddState()
	p.builder.AddEpsilon(start, s)
	p.builder.AddEpsilon(e, end)
	p.builder.AddEpsilon(start, end)
	p.builder.AddEpsilon(e, s)
	return start, end
}

func (p *Parser) wrapOptionalRaw(s, e automaton.StateID) (automaton.StateID, automaton.StateID) {
	start := p.builder.AddState()
	end := p.builder.AddState()
	p.builder.AddEpsilon(start, s)
	p.builder.AddEpsilon(e, end)
	p.builder.AddEpsilon(start, end)
	return start, end
}

// parseCountedRepetition parses the body of "{n}", "{n,}" and "{n,m}" after
// the opening brace has already been consumed, and expands it by deep-
// copying elem n times, plus either an unbounded '*'-wrapped copy ("{n,}")
// or m-n optionally-wrapped copies ("{n,m}").
func (p *Parser) parseCountedRepetition(elem statePair) (statePair, bool, error) {
	n := p.parseDigits()

	m := n
	if c, has := p.peek(); has && c == ',' {
		p.pos++
		if c2, has2 := p.peek(); has2 && isDigit(c2) {
			m = p.parseDigits()
		} else {
			m = -1
		}
	}

	if err := p.match('}'); err != nil {
		return statePair{}, false, err
	}
	if m != -1 && m < n {
		return statePair{}, false, p.errorAt(InvalidRange, "repetition upper bound %d is less than lower bound %d", m, n)
	}

	start := p.builder.AddState()
	end := p.builder.AddState()
	if n == 0 {
		p.builder.AddEpsilon(start, end)
	}

	var repStart, repEnd automaton.StateID
	haveRep := false
	appendFragment := func(cs, ce automaton.StateID) {
		if !haveRep {
			repStart, repEnd, haveRep = cs, ce, true
			return
		}
		p.builder.AddEpsilon(repEnd, cs)
		repEnd = ce
	}

	for i := 0; i < n; i++ {
		cs, ce, err := p.builder.DeepCopy(elem.start, elem.end)
		if err != nil {
			return statePair{}, false, err
		}
		appendFragment(cs, ce)
	}

	switch {
	case m == -1:
		cs, ce, err := p.builder.DeepCopy(elem.start, elem.end)
		if err != nil {
			return statePair{}, false, err
		}
		ws, we := p.wrapStarRaw(cs, ce)
		appendFragment(ws, we)
	default:
		for i := n; i < m; i++ {
			cs, ce, err := p.builder.DeepCopy(elem.start, elem.end)
			if err != nil {
				return statePair{}, false, err
			}
			ws, we := p.wrapOptionalRaw(cs, ce)
			appendFragment(ws, we)
		}
	}

	if haveRep {
		p.builder.AddEpsilon(start, repStart)
		p.builder.AddEpsilon(repEnd, end)
	}

	return statePair{start, end}, true, nil
}

// parseDigits consumes a (possibly empty) run of ASCII digits and returns
// their value; an empty run yields 0, matching "{}" being accepted as a
// zero repetition count rather than a parse error.
func (p *Parser) parseDigits() int {
	n := 0
	for {
		c, has := p.peek()
		if !has || !isDigit(c) {
			break
		}
		p.pos++
		n = n*10 + int(c-'0')
	}
	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseElementaryRE parses: elementary_re ::= group | any | char | set
func (p *Parser) parseElementaryRE() (statePair, bool, error) {
	if sp, ok, err := p.parseGroup(); err != nil || ok {
		return sp, ok, err
	}
	if sp, ok, err := p.parseAny(); err != nil || ok {
		return sp, ok, err
	}
	if sp, ok, err := p.parseChar(); err != nil || ok {
		return sp, ok, err
	}
	return p.parseSet()
}

// parseGroup parses: group ::= '(' re? ')'
func (p *Parser) parseGroup() (statePair, bool, error) {
	c, has := p.peek()
	if !has || c != '(' {
		return statePair{}, false, nil
	}
	p.pos++

	inner, hasInner, err := p.parseRE()
	if err != nil {
		return statePair{}, false, err
	}
	if err := p.match(')'); err != nil {
		return statePair{}, false, err
	}
	if !hasInner {
		return p.emptyFragment(), true, nil
	}
	return inner, true, nil
}

// parseAny parses: any ::= '.'
func (p *Parser) parseAny() (statePair, bool, error) {
	c, has := p.peek()
	if !has || c != '.' {
		return statePair{}, false, nil
	}
	p.pos++

	start := p.builder.AddState()
	end := p.builder.AddState()
	p.builder.AddByteRange(start, 0, 255, end)
	return statePair{start, end}, true, nil
}

// parseChar parses: char ::= literal | '\' escape_char
func (p *Parser) parseChar() (statePair, bool, error) {
	c, has := p.peek()
	if !has {
		return statePair{}, false, nil
	}

	if c == '\\' {
		p.pos++
		esc, err := p.matchOneOf(escapeChars)
		if err != nil {
			return statePair{}, false, p.errorAt(InvalidEscape, "unrecognized escape sequence after '\\'")
		}
		return p.emitEscape(esc)
	}

	if strings.IndexByte(metaChars, c) >= 0 {
		return statePair{}, false, nil
	}

	lit, err := p.matchNoneOf(metaChars)
	if err != nil {
		return statePair{}, false, err
	}
	start := p.builder.AddState()
	end := p.builder.AddState()
	p.builder.AddByte(start, lit, end)
	return statePair{start, end}, true, nil
}

func (p *Parser) emitEscape(c byte) (statePair, bool, error) {
	start := p.builder.AddState()
	end := p.builder.AddState()

	switch {
	case strings.IndexByte(metaChars, c) >= 0:
		p.builder.AddByte(start, c, end)
	case c == 'w':
		addWordRanges(p.builder, start, end)
	case c == 'W':
		addComplement(p.builder, start, end, isWordByte)
	case c == 's':
		for _, ws := range []byte{'\t', '\n', '\r', ' '} {
			p.builder.AddByte(start, ws, end)
		}
	case c == 'S':
		addComplement(p.builder, start, end, isSpaceByte)
	case c == 'd':
		p.builder.AddByteRange(start, '0', '9', end)
	case c == 'D':
		addComplement(p.builder, start, end, isDigit)
	case c == 'n':
		p.builder.AddByte(start, '\n', end)
	case c == 'r':
		p.builder.AddByte(start, '\r', end)
	case c == 't':
		p.builder.AddByte(start, '\t', end)
	default:
		return statePair{}, false, p.errorAt(InvalidEscape, "unrecognized escape '\\%c'", c)
	}

	return statePair{start, end}, true, nil
}

func addWordRanges(b *automaton.EpsilonNFABuilder, start, end automaton.StateID) {
	b.AddByteRange(start, 'a', 'z', end)
	b.AddByteRange(start, 'A', 'Z', end)
	b.AddByteRange(start, '0', '9', end)
	b.AddByte(start, '_', end)
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func isSpaceByte(c byte) bool {
	return c == '\t' || c == '\n' || c == '\r' || c == ' '
}

func addComplement(b *automaton.EpsilonNFABuilder, start, end automaton.StateID, member func(byte) bool) {
	for i := 0; i < 256; i++ {
		if !member(byte(i)) {
			b.AddByte(start, byte(i), end)
		}
	}
}

// byteRange is an inclusive range of byte values parsed from a character
// class item.
type byteRange struct {
	lo, hi byte
}

// parseSet parses: set ::= '[' '^'? set_item+ ']'
func (p *Parser) parseSet() (statePair, bool, error) {
	c, has := p.peek()
	if !has || c != '[' {
		return statePair{}, false, nil
	}
	p.pos++

	negate := false
	if c2, has2 := p.peek(); has2 && c2 == '^' {
		p.pos++
		negate = true
	}

	ranges, err := p.parseSetItems()
	if err != nil {
		return statePair{}, false, err
	}
	if len(ranges) == 0 {
		return statePair{}, false, p.errorAt(EmptyClass, "character class has no members")
	}
	if err := p.match(']'); err != nil {
		return statePair{}, false, err
	}

	start := p.builder.AddState()
	end := p.builder.AddState()

	if negate {
		var covered [256]bool
		for _, r := range ranges {
			for b := int(r.lo); b <= int(r.hi); b++ {
				covered[b] = true
			}
		}
		for b := 0; b < 256; b++ {
			if !covered[b] {
				p.builder.AddByte(start, byte(b), end)
			}
		}
	} else {
		for _, r := range ranges {
			p.builder.AddByteRange(start, r.lo, r.hi, end)
		}
	}

	return statePair{start, end}, true, nil
}

func (p *Parser) parseSetItems() ([]byteRange, error) {
	var ranges []byteRange
	for {
		item, ok, err := p.parseSetItem()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		ranges = append(ranges, item...)
	}
	return ranges, nil
}

// parseSetItem parses: set_item ::= set_char ('-' set_char)?
//
// A trailing '-' with a left operand but no right operand before ']' is
// treated as a literal '-' alongside the left operand. A bare leading '-'
// (e.g. the class "[-abc]") is not special-cased and is simply read as an
// ordinary set_char by the recursive call below.
func (p *Parser) parseSetItem() ([]byteRange, bool, error) {
	lo, ok, err := p.parseSetChar()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	c, has := p.peek()
	if !has || c != '-' {
		return []byteRange{{lo, lo}}, true, nil
	}
	p.pos++

	hi, ok2, err := p.parseSetChar()
	if err != nil {
		return nil, false, err
	}
	if !ok2 {
		return []byteRange{{lo, lo}, {'-', '-'}}, true, nil
	}
	if lo > hi {
		return []byteRange{{lo, lo}, {'-', '-'}, {hi, hi}}, true, nil
	}
	return []byteRange{{lo, hi}}, true, nil
}

// parseSetChar parses: set_char ::= literal | '\' set_escape_char
func (p *Parser) parseSetChar() (byte, bool, error) {
	c, has := p.peek()
	if !has {
		return 0, false, nil
	}

	if c == '\\' {
		p.pos++
		esc, err := p.matchOneOf(setEscapeChars)
		if err != nil {
			return 0, false, p.errorAt(InvalidEscape, "unrecognized escape sequence in character class")
		}
		switch esc {
		case 'n':
			return '\n', true, nil
		case 'r':
			return '\r', true, nil
		case 't':
			return '\t', true, nil
		default:
			return esc, true, nil
		}
	}

	if strings.IndexByte(setMetaChars, c) >= 0 {
		return 0, false, nil
	}

	lit, err := p.matchNoneOf(setMetaChars)
	if err != nil {
		return 0, false, err
	}
	return lit, true, nil
}
