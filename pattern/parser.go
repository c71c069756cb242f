package pattern

import (
	"fmt"
	"strconv"
	"unicode"
)

const (
	// MaxNestingDepth limits how deeply groups and alternations may nest.
	MaxNestingDepth = 256
	// MaxRepetition is the largest count accepted inside {min,max}.
	MaxRepetition = 1024
)

// Parse parses a prepared expression into a Domain. The expression is expected
// to be lower-cased and trimmed already (see package preprocess).
func Parse(text string) (*Domain, error) {
	arena := &Arena{}
	return parseDomain(Line{Text: text}, arena, nil)
}

// parseDomain substitutes the variables of env into ln and parses the result.
func parseDomain(ln Line, arena *Arena, env *Env) (*Domain, error) {
	p, err := newParser(ln, 0, arena, env)
	if err != nil {
		return nil, err
	}

	labels, err := p.parseLabels()
	if err != nil {
		return nil, err
	}

	return &Domain{
		Source: ln.Text,
		Line:   ln.Number,
		Labels: labels,
		Refs:   p.refs,
		Arena:  arena,
		Env:    env,
	}, nil
}

type parser struct {
	src    []rune
	origin []int
	refs   []VarRef
	pos    int
	line   int
	depth  int
	arena  *Arena
}

// newParser creates a parser over ln.Text with the references of env
// substituted. base is the column of ln.Text inside the written line, so
// errors inside a definition value point at the right column.
func newParser(ln Line, base int, arena *Arena, env *Env) (*parser, error) {
	sub, err := substitute(ln, base, env)
	if err != nil {
		return nil, err
	}

	return &parser{src: sub.text, origin: sub.origin, refs: sub.refs, line: ln.Number, arena: arena}, nil
}

// offset maps a position in the substituted text back to the written line.
// Text that came from a variable reports the column of its reference.
func (p *parser) offset(i int) int {
	return p.origin[min(i, len(p.origin)-1)]
}

func (p *parser) parseLabels() ([]Label, error) {
	if p.eof() {
		return nil, p.errorf(ErrSyntax, p.pos, "empty expression")
	}

	var labels []Label

	for {
		start := p.pos
		if p.eof() || p.peek() == '.' {
			return nil, p.errorf(ErrEmptyLabel, start, "a label needs at least one character")
		}

		body, err := p.parseSequence("label")
		if err != nil {
			return nil, err
		}

		if p.arena.Nullable(body) {
			return nil, p.errorf(ErrEmptyLabel, start, "the label can expand to an empty string")
		}

		labels = append(labels, Label{Offset: p.offset(start), Body: body})

		if p.eof() {
			return labels, nil
		}

		if !p.match('.') {
			return nil, p.unexpected()
		}
	}
}

// parseSequence reads elements up to a terminator ('.', ',', '}', ')') or end of input.
func (p *parser) parseSequence(what string) (NodeID, error) {
	start := p.pos

	var elements []Element

	for !p.eof() && !isTerminator(p.peek()) {
		el, err := p.parseElement()
		if err != nil {
			return 0, err
		}

		elements = append(elements, el)
	}

	if len(elements) == 0 {
		if p.eof() {
			return 0, p.errorf(ErrSyntax, start, "empty %s", what)
		}

		return 0, p.errorf(ErrSyntax, start, "empty %s before '%c'", what, p.peek())
	}

	return p.arena.addSequence(Sequence{Offset: p.offset(start), Elements: elements}), nil
}

func (p *parser) parseElement() (Element, error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return Element{}, err
	}

	return Element{Primary: primary, Optional: p.match('?')}, nil
}

func (p *parser) parsePrimary() (NodeID, error) {
	r := p.peek()

	switch {
	case isLiteralRune(r):
		return p.parseLiteral(), nil
	case r == '[':
		return p.parseCharClass()
	case r == '{':
		return p.parseAlternation()
	case r == '(':
		return p.parseGroup()
	default:
		return 0, p.unexpected()
	}
}

func (p *parser) parseLiteral() NodeID {
	start := p.pos
	for isLiteralRune(p.peek()) {
		p.pos++
	}

	return p.arena.addLiteral(Literal{Offset: p.offset(start), Text: string(p.src[start:p.pos])})
}

func (p *parser) parseCharClass() (NodeID, error) {
	start := p.pos

	var (
		set CharSet
		err error
	)

	if p.peekAt(1) == ':' {
		set, err = p.parseNamedClass()
	} else {
		set, err = p.parseBracket()
	}

	if err != nil {
		return 0, err
	}

	rep, err := p.parseRepetition()
	if err != nil {
		return 0, err
	}

	return p.arena.addCharClass(CharClass{Offset: p.offset(start), Set: set, Repeat: rep}), nil
}

func (p *parser) parseBracket() (CharSet, error) {
	start := p.pos
	p.pos++ // [

	negate := p.match('^')

	var (
		set   CharSet
		items int
	)

	for {
		if p.eof() {
			return 0, p.errorf(ErrSyntax, start, "unterminated character class")
		}

		r := p.peek()

		switch {
		case r == ']':
			p.pos++

			if items == 0 {
				return 0, p.errorf(ErrEmptyCharClass, start, "empty character class")
			}

			if negate {
				set = set.Negate()
			}

			if set.Len() == 0 {
				return 0, p.errorf(ErrEmptyCharClass, start, "character class matches nothing")
			}

			return set, nil
		case r == '[' && p.peekAt(1) == ':':
			named, err := p.parseNamedClass()
			if err != nil {
				return 0, err
			}

			set |= named
			items++
		case isClassRune(r):
			if p.peekAt(1) != '-' {
				set = set.Add(r)
				p.pos++
				items++

				continue
			}

			hi := p.peekAt(2)
			if !sameKind(r, hi) {
				return 0, p.errorf(ErrSyntax, p.pos, "invalid range '%c-%s'", r, printable(hi))
			}

			if hi < r {
				return 0, p.errorf(ErrSyntax, p.pos, "reversed range '%c-%c'", r, hi)
			}

			set = set.AddRange(r, hi)
			p.pos += 3
			items++
		default:
			return 0, p.unexpected()
		}
	}
}

func (p *parser) parseNamedClass() (CharSet, error) {
	start := p.pos
	p.pos += 2 // [:

	nameStart := p.pos
	for isClassRune(p.peek()) {
		p.pos++
	}

	name := string(p.src[nameStart:p.pos])

	if !p.match(':') || !p.match(']') {
		if p.eof() {
			return 0, p.errorf(ErrSyntax, start, "unterminated named class")
		}

		return 0, p.unexpected()
	}

	set, ok := NamedClass(name)
	if !ok {
		return 0, p.errorf(ErrSyntax, nameStart, "unknown named class '%s'", name)
	}

	return set, nil
}

func (p *parser) parseAlternation() (NodeID, error) {
	start := p.pos
	p.pos++ // {

	if err := p.enter(start); err != nil {
		return 0, err
	}
	defer p.leave()

	var options []NodeID

	for {
		opt, err := p.parseSequence("alternation option")
		if err != nil {
			return 0, err
		}

		options = append(options, opt)

		if p.match(',') {
			continue
		}

		if p.match('}') {
			break
		}

		if p.eof() {
			return 0, p.errorf(ErrSyntax, start, "unterminated alternation")
		}

		return 0, p.unexpected()
	}

	if len(options) < 2 {
		return 0, p.errorf(ErrSyntax, start, "alternation needs at least two options")
	}

	return p.arena.addAlternation(Alternation{Offset: p.offset(start), Options: options}), nil
}

func (p *parser) parseGroup() (NodeID, error) {
	start := p.pos
	p.pos++ // (

	if err := p.enter(start); err != nil {
		return 0, err
	}
	defer p.leave()

	body, err := p.parseSequence("group")
	if err != nil {
		return 0, err
	}

	if !p.match(')') {
		if p.eof() {
			return 0, p.errorf(ErrSyntax, start, "unterminated group")
		}

		return 0, p.unexpected()
	}

	rep, err := p.parseRepetition()
	if err != nil {
		return 0, err
	}

	return p.arena.addGroup(Group{Offset: p.offset(start), Body: body, Repeat: rep}), nil
}

// parseRepetition reads an optional {min[,max]} suffix. A '{' that does not
// match that shape is left alone; it starts the next element instead.
func (p *parser) parseRepetition() (Repetition, error) {
	if !p.atRepetition() {
		return Once, nil
	}

	start := p.pos
	p.pos++ // {

	lo, err := p.readCount()
	if err != nil {
		return Repetition{}, err
	}

	hi := lo
	if p.match(',') {
		hi, err = p.readCount()
		if err != nil {
			return Repetition{}, err
		}
	}

	p.pos++ // }

	if lo > hi {
		return Repetition{}, p.errorf(ErrInvalidRepetition, start, "minimum %d is greater than maximum %d", lo, hi)
	}

	return Repetition{Min: lo, Max: hi}, nil
}

// atRepetition looks ahead for {digits} or {digits,digits} without consuming input.
func (p *parser) atRepetition() bool {
	i := p.pos
	if p.at(i) != '{' {
		return false
	}

	i++

	n := p.digitsAt(i)
	if n == 0 {
		return false
	}

	i += n

	if p.at(i) == ',' {
		i++

		n = p.digitsAt(i)
		if n == 0 {
			return false
		}

		i += n
	}

	return p.at(i) == '}'
}

func (p *parser) readCount() (int, error) {
	start := p.pos
	p.pos += p.digitsAt(p.pos)

	n, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil || n > MaxRepetition {
		return 0, p.errorf(ErrInvalidRepetition, start, "repetition count exceeds %d", MaxRepetition)
	}

	return n, nil
}

func (p *parser) digitsAt(i int) int {
	n := 0
	for isDigit(p.at(i + n)) {
		n++
	}

	return n
}

func (p *parser) enter(offset int) error {
	p.depth++
	if p.depth > MaxNestingDepth {
		return p.errorf(ErrNestingTooDeep, offset, "more than %d nested groups or alternations", MaxNestingDepth)
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) unexpected() error {
	if p.eof() {
		return p.errorf(ErrSyntax, p.pos, "unexpected end of expression")
	}

	r := p.peek()
	if unicode.IsSpace(r) {
		return p.errorf(ErrWhitespace, p.pos, "unexpected whitespace")
	}

	return p.errorf(ErrSyntax, p.pos, "unexpected character '%c'", r)
}

func (p *parser) errorf(kind error, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Msg:    fmt.Sprintf(format, args...),
		Line:   p.line,
		Offset: p.offset(offset),
		Err:    kind,
	}
}

func (p *parser) match(r rune) bool {
	if p.peek() != r {
		return false
	}

	p.pos++

	return true
}

func (p *parser) peek() rune {
	return p.at(p.pos)
}

func (p *parser) peekAt(n int) rune {
	return p.at(p.pos + n)
}

func (p *parser) at(i int) rune {
	if i >= len(p.src) {
		return 0
	}

	return p.src[i]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func isTerminator(r rune) bool {
	return r == '.' || r == ',' || r == '}' || r == ')'
}

func isLiteralRune(r rune) bool {
	return isClassRune(r) || r == '-'
}

func isClassRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func sameKind(a, b rune) bool {
	return (isDigit(a) && isDigit(b)) || (a >= 'a' && a <= 'z' && b >= 'a' && b <= 'z')
}

func printable(r rune) string {
	if r == 0 {
		return "<end>"
	}

	return string(r)
}
