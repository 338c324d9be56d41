package rdf

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// turtleCursor is a recursive-descent Turtle parser over a whole document.
// N-Triples is a subset of Turtle and is handled by the line-oriented
// ntDecoder instead.
type turtleCursor struct {
	input    string
	pos      int
	prefixes map[string]string
	base     string
	bnodes   map[string]BlankNode
	gen      *blankNodeGenerator
	depth    int
	maxDepth int
	sink     sink
	opts     DecodeOptions
}

func decodeTurtle(input string, s sink, opts DecodeOptions) error {
	c := &turtleCursor{
		input:    input,
		prefixes: make(map[string]string),
		base:     opts.BaseIRI,
		bnodes:   make(map[string]BlankNode),
		gen:      newBlankNodeGenerator(),
		maxDepth: opts.MaxDepth,
		sink:     s,
		opts:     opts,
	}
	return c.parseDocument()
}

func (c *turtleCursor) parseDocument() error {
	for {
		if err := checkDecodeContext(c.opts.Context); err != nil {
			return err
		}
		c.skipWS()
		if c.eof() {
			return nil
		}
		if err := c.parseStatement(); err != nil {
			return newParseError(FormatTurtle, c.input, c.pos, err)
		}
	}
}

func (c *turtleCursor) parseStatement() error {
	if c.peek() == '@' {
		return c.parseAtDirective()
	}
	if c.matchKeyword("PREFIX") {
		return c.parsePrefixDirective(false)
	}
	if c.matchKeyword("BASE") {
		return c.parseBaseDirective(false)
	}
	if err := c.parseTriples(); err != nil {
		return err
	}
	c.skipWS()
	if !c.consume('.') {
		return c.errorf("expected '.' at end of statement")
	}
	return nil
}

func (c *turtleCursor) parseAtDirective() error {
	switch {
	case strings.HasPrefix(c.input[c.pos:], "@prefix"):
		c.pos += len("@prefix")
		return c.parsePrefixDirective(true)
	case strings.HasPrefix(c.input[c.pos:], "@base"):
		c.pos += len("@base")
		return c.parseBaseDirective(true)
	default:
		return c.errorf("unknown directive")
	}
}

func (c *turtleCursor) parsePrefixDirective(dotted bool) error {
	c.skipWS()
	start := c.pos
	for !c.eof() && c.peek() != ':' {
		if isWhitespace(c.peek()) {
			return c.errorf("invalid prefix name")
		}
		c.pos++
	}
	if c.eof() {
		return c.errorf("expected ':' in prefix declaration")
	}
	prefix := c.input[start:c.pos]
	if prefix != "" && !isValidPrefixName(prefix) {
		return c.errorf("invalid prefix name %q", prefix)
	}
	c.pos++
	c.skipWS()
	iri, err := c.parseIRIRef()
	if err != nil {
		return err
	}
	c.prefixes[prefix] = iri.Value
	c.sink.prefix(prefix, iri.Value)
	if dotted {
		c.skipWS()
		if !c.consume('.') {
			return c.errorf("expected '.' after @prefix")
		}
	}
	return nil
}

func (c *turtleCursor) parseBaseDirective(dotted bool) error {
	c.skipWS()
	iri, err := c.parseIRIRef()
	if err != nil {
		return err
	}
	c.base = iri.Value
	if dotted {
		c.skipWS()
		if !c.consume('.') {
			return c.errorf("expected '.' after @base")
		}
	}
	return nil
}

func (c *turtleCursor) parseTriples() error {
	c.skipWS()
	if c.peek() == '[' {
		subject, err := c.parseBlankNodePropertyList()
		if err != nil {
			return err
		}
		c.skipWS()
		// "[ :p :o ] ." is a complete statement on its own.
		if c.peek() == '.' {
			return nil
		}
		return c.parsePredicateObjectList(subject)
	}
	subject, err := c.parseSubject()
	if err != nil {
		return err
	}
	return c.parsePredicateObjectList(subject)
}

func (c *turtleCursor) parseSubject() (Term, error) {
	c.skipWS()
	switch {
	case c.eof():
		return nil, c.errorf("unexpected end of input")
	case c.peek() == '<':
		return c.parseIRIRef()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNodeLabel()
	case c.peek() == '(':
		return c.parseCollection()
	case c.peek() == '"' || c.peek() == '\'':
		return nil, c.errorf("literal not allowed as subject")
	default:
		return c.parsePrefixedName()
	}
}

func (c *turtleCursor) parsePredicateObjectList(subject Term) error {
	for {
		predicate, err := c.parseVerb()
		if err != nil {
			return err
		}
		if err := c.parseObjectList(subject, predicate); err != nil {
			return err
		}
		c.skipWS()
		if c.peek() != ';' {
			return nil
		}
		for c.peek() == ';' {
			c.pos++
			c.skipWS()
		}
		switch c.peek() {
		case '.', ']', 0:
			return nil
		}
	}
}

func (c *turtleCursor) parseVerb() (IRI, error) {
	c.skipWS()
	if c.peek() == 'a' && c.isDelimiterAt(c.pos+1) {
		c.pos++
		return RDFType, nil
	}
	switch {
	case c.eof():
		return IRI{}, c.errorf("expected predicate")
	case c.peek() == '<':
		return c.parseIRIRef()
	case c.peek() == '[' || c.peek() == '(' || c.peek() == '"' || strings.HasPrefix(c.input[c.pos:], "_:"):
		return IRI{}, c.errorf("predicate must be an IRI")
	default:
		return c.parsePrefixedName()
	}
}

func (c *turtleCursor) parseObjectList(subject Term, predicate IRI) error {
	for {
		object, err := c.parseObject()
		if err != nil {
			return err
		}
		if err := c.sink.triple(Triple{S: subject, P: predicate, O: object}); err != nil {
			return err
		}
		c.skipWS()
		if c.peek() != ',' {
			return nil
		}
		c.pos++
	}
}

func (c *turtleCursor) parseObject() (Term, error) {
	c.skipWS()
	if c.eof() {
		return nil, c.errorf("expected object")
	}
	switch ch := c.peek(); {
	case ch == '<':
		return c.parseIRIRef()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNodeLabel()
	case ch == '[':
		return c.parseBlankNodePropertyList()
	case ch == '(':
		return c.parseCollection()
	case ch == '"' || ch == '\'':
		return c.parseRDFLiteral()
	case ch == '+' || ch == '-' || ch == '.' || isDigit(ch):
		return c.parseNumericLiteral()
	default:
		if lit, ok := c.tryParseBoolean(); ok {
			return lit, nil
		}
		return c.parsePrefixedName()
	}
}

func (c *turtleCursor) parseBlankNodePropertyList() (Term, error) {
	if !c.consume('[') {
		return nil, c.errorf("expected '['")
	}
	if err := c.enter(); err != nil {
		return nil, err
	}
	defer c.leave()

	node := c.gen.next()
	c.skipWS()
	if c.consume(']') {
		return node, nil
	}
	if err := c.parsePredicateObjectList(node); err != nil {
		return nil, err
	}
	c.skipWS()
	if !c.consume(']') {
		return nil, c.errorf("expected ']'")
	}
	return node, nil
}

func (c *turtleCursor) parseCollection() (Term, error) {
	if !c.consume('(') {
		return nil, c.errorf("expected '('")
	}
	if err := c.enter(); err != nil {
		return nil, err
	}
	defer c.leave()

	var head Term = RDFNil
	var prev Term
	for {
		c.skipWS()
		if c.eof() {
			return nil, c.errorf("unterminated collection")
		}
		if c.consume(')') {
			return head, nil
		}
		item, err := c.parseObject()
		if err != nil {
			return nil, err
		}
		cell := c.gen.next()
		if prev == nil {
			head = cell
		} else if err := c.sink.triple(Triple{S: prev, P: RDFRest, O: cell}); err != nil {
			return nil, err
		}
		if err := c.sink.triple(Triple{S: cell, P: RDFFirst, O: item}); err != nil {
			return nil, err
		}
		prev = cell
		c.skipWS()
		if c.peek() == ')' {
			c.pos++
			return head, c.sink.triple(Triple{S: prev, P: RDFRest, O: RDFNil})
		}
	}
}

func (c *turtleCursor) parseIRIRef() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var b strings.Builder
	for {
		if c.eof() {
			return IRI{}, c.errorf("unterminated IRI")
		}
		ch := c.input[c.pos]
		switch {
		case ch == '>':
			c.pos++
			return IRI{Value: c.resolve(b.String())}, nil
		case ch == '\\':
			r, err := c.parseUChar()
			if err != nil {
				return IRI{}, err
			}
			b.WriteRune(r)
		case ch <= ' ' || strings.IndexByte("<\"{}|^`", ch) >= 0:
			return IRI{}, c.errorf("invalid character %q in IRI", ch)
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

func (c *turtleCursor) resolve(iri string) string {
	if c.base == "" || hasScheme(iri) {
		return iri
	}
	return resolveIRI(c.base, iri)
}

func (c *turtleCursor) parsePrefixedName() (IRI, error) {
	start := c.pos
	for !c.eof() && c.peek() != ':' {
		if !isPNChar(c.peek()) && c.peek() != '.' {
			break
		}
		c.pos++
	}
	if c.eof() || c.peek() != ':' {
		c.pos = start
		return IRI{}, c.errorf("unexpected token %q", c.tokenAt(start))
	}
	prefix := c.input[start:c.pos]
	ns, ok := c.prefixes[prefix]
	if !ok {
		c.pos = start
		return IRI{}, c.errorf("undefined prefix %q", prefix)
	}
	c.pos++
	local, err := c.parseLocalName()
	if err != nil {
		return IRI{}, err
	}
	return IRI{Value: ns + local}, nil
}

// parseLocalName reads PN_LOCAL, unescaping '\' escapes and keeping %XX
// sequences verbatim. A trailing '.' belongs to the statement, not the name.
func (c *turtleCursor) parseLocalName() (string, error) {
	var b strings.Builder
	for !c.eof() {
		ch := c.peek()
		switch {
		case ch == '\\':
			if c.pos+1 >= len(c.input) || !isValidPNLocalEscape(c.input[c.pos+1]) {
				return "", c.errorf("invalid escape in local name")
			}
			b.WriteByte(c.input[c.pos+1])
			c.pos += 2
		case ch == '%':
			if c.pos+2 >= len(c.input) || !isHexDigit(c.input[c.pos+1]) || !isHexDigit(c.input[c.pos+2]) {
				return "", c.errorf("invalid percent escape in local name")
			}
			b.WriteString(c.input[c.pos : c.pos+3])
			c.pos += 3
		case ch == '.':
			if c.pos+1 >= len(c.input) || !(isPNChar(c.input[c.pos+1]) || c.input[c.pos+1] == ':' ||
				c.input[c.pos+1] == '.' || c.input[c.pos+1] == '%' || c.input[c.pos+1] == '\\') {
				return b.String(), nil
			}
			b.WriteByte(ch)
			c.pos++
		case ch == ':' || isPNChar(ch):
			b.WriteByte(ch)
			c.pos++
		default:
			return b.String(), nil
		}
	}
	return b.String(), nil
}

func (c *turtleCursor) parseBlankNodeLabel() (Term, error) {
	c.pos += 2
	start := c.pos
	for !c.eof() {
		ch := c.peek()
		if ch == '.' {
			if c.pos+1 < len(c.input) && isPNChar(c.input[c.pos+1]) {
				c.pos++
				continue
			}
			break
		}
		if !isPNChar(ch) {
			break
		}
		c.pos++
	}
	if start == c.pos {
		return nil, c.errorf("blank node label missing")
	}
	label := c.input[start:c.pos]
	if node, ok := c.bnodes[label]; ok {
		return node, nil
	}
	node := c.gen.next()
	c.bnodes[label] = node
	return node, nil
}

func (c *turtleCursor) parseRDFLiteral() (Term, error) {
	lexical, err := c.parseString()
	if err != nil {
		return nil, err
	}
	switch {
	case c.peek() == '@':
		c.pos++
		start := c.pos
		for !c.eof() && (isAlpha(c.peek()) || isDigit(c.peek()) || c.peek() == '-') {
			c.pos++
		}
		tag := c.input[start:c.pos]
		if !isValidLangTag(tag) {
			return nil, c.errorf("invalid language tag %q", tag)
		}
		return Literal{Lexical: lexical, Lang: tag}, nil
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		var datatype IRI
		if c.peek() == '<' {
			datatype, err = c.parseIRIRef()
		} else {
			datatype, err = c.parsePrefixedName()
		}
		if err != nil {
			return nil, err
		}
		return Literal{Lexical: lexical, Datatype: datatype}, nil
	default:
		return Literal{Lexical: lexical}, nil
	}
}

func (c *turtleCursor) parseString() (string, error) {
	quote := c.peek()
	long := strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3))
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	var b strings.Builder
	for {
		if c.eof() {
			return "", c.errorf("unterminated string literal")
		}
		ch := c.input[c.pos]
		switch {
		case ch == '\\':
			if err := c.parseEscape(&b); err != nil {
				return "", err
			}
		case ch == quote && long:
			if strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3)) {
				// Up to two extra quotes may close a long string: """a""""".
				end := c.pos + 3
				for end < len(c.input) && c.input[end] == quote && end-c.pos < 5 {
					end++
				}
				b.WriteString(c.input[c.pos : end-3])
				c.pos = end
				return b.String(), nil
			}
			b.WriteByte(ch)
			c.pos++
		case ch == quote:
			c.pos++
			return b.String(), nil
		case !long && (ch == '\n' || ch == '\r'):
			return "", c.errorf("line break in short string literal")
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

func (c *turtleCursor) parseEscape(b *strings.Builder) error {
	if c.pos+1 >= len(c.input) {
		return c.errorf("unterminated escape")
	}
	switch next := c.input[c.pos+1]; next {
	case 'u', 'U':
		r, err := c.parseUChar()
		if err != nil {
			return err
		}
		b.WriteRune(r)
		return nil
	default:
		r, ok := simpleEscape(next)
		if !ok {
			return c.errorf("invalid escape sequence \\%c", next)
		}
		b.WriteByte(r)
		c.pos += 2
		return nil
	}
}

// parseUChar decodes \uXXXX or \UXXXXXXXX at the cursor.
func (c *turtleCursor) parseUChar() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape sequence \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	r, ok := decodeUChar(c.input[start : start+width])
	if !ok {
		return 0, c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
	}
	c.pos = start + width
	return r, nil
}

func (c *turtleCursor) parseNumericLiteral() (Term, error) {
	start := c.pos
	if c.peek() == '+' || c.peek() == '-' {
		c.pos++
	}
	intDigits := c.scanDigits()
	fracDigits := 0
	if c.peek() == '.' && c.pos+1 < len(c.input) && isDigit(c.input[c.pos+1]) {
		c.pos++
		fracDigits = c.scanDigits()
	}
	if intDigits == 0 && fracDigits == 0 {
		c.pos = start
		return nil, c.errorf("invalid numeric literal")
	}
	datatype := XSDInteger
	if fracDigits > 0 {
		datatype = XSDDecimal
	}
	if c.peek() == 'e' || c.peek() == 'E' {
		c.pos++
		if c.peek() == '+' || c.peek() == '-' {
			c.pos++
		}
		if c.scanDigits() == 0 {
			return nil, c.errorf("invalid exponent in numeric literal")
		}
		datatype = XSDDouble
	}
	return Literal{Lexical: c.input[start:c.pos], Datatype: datatype}, nil
}

func (c *turtleCursor) scanDigits() int {
	n := 0
	for !c.eof() && isDigit(c.peek()) {
		c.pos++
		n++
	}
	return n
}

func (c *turtleCursor) tryParseBoolean() (Literal, bool) {
	for _, word := range []string{"true", "false"} {
		if strings.HasPrefix(c.input[c.pos:], word) && c.isDelimiterAt(c.pos+len(word)) {
			c.pos += len(word)
			return Literal{Lexical: word, Datatype: XSDBoolean}, true
		}
	}
	return Literal{}, false
}

func (c *turtleCursor) enter() error {
	c.depth++
	if c.maxDepth > 0 && c.depth > c.maxDepth {
		return ErrDepthExceeded
	}
	return nil
}

func (c *turtleCursor) leave() { c.depth-- }

// matchKeyword consumes a case-insensitive SPARQL-style keyword followed by
// whitespace.
func (c *turtleCursor) matchKeyword(word string) bool {
	end := c.pos + len(word)
	if end >= len(c.input) || !strings.EqualFold(c.input[c.pos:end], word) || !isWhitespace(c.input[end]) {
		return false
	}
	c.pos = end
	return true
}

// isDelimiterAt reports whether a bare word ending at i is complete.
func (c *turtleCursor) isDelimiterAt(i int) bool {
	if i >= len(c.input) {
		return true
	}
	ch := c.input[i]
	return !isPNChar(ch) && ch != ':'
}

func (c *turtleCursor) skipWS() {
	for !c.eof() {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		case '#':
			for !c.eof() && c.input[c.pos] != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

func (c *turtleCursor) consume(ch byte) bool {
	c.skipWS()
	if !c.eof() && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *turtleCursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.input[c.pos]
}

func (c *turtleCursor) eof() bool { return c.pos >= len(c.input) }

func (c *turtleCursor) tokenAt(start int) string {
	end := start
	for end < len(c.input) && !isWhitespace(c.input[end]) && end-start < 32 {
		_, size := utf8.DecodeRuneInString(c.input[end:])
		end += size
	}
	return c.input[start:end]
}

func (c *turtleCursor) errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isAlpha(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

// isPNChar accepts PN_CHARS plus any non-ASCII byte, which covers the
// multi-byte UTF-8 encodings of the Unicode ranges Turtle allows in names.
func isPNChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch >= 0x80
}
