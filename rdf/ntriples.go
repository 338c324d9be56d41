package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// decodeNTriples parses one statement per line. Blank node labels are kept
// as written, so labels from the same document stay stable.
func decodeNTriples(input string, s sink, opts DecodeOptions) error {
	offset := 0
	for len(input[offset:]) > 0 {
		if err := checkDecodeContext(opts.Context); err != nil {
			return err
		}
		end := strings.IndexByte(input[offset:], '\n')
		line := input[offset:]
		next := len(input)
		if end >= 0 {
			line = input[offset : offset+end]
			next = offset + end + 1
		}
		c := &ntCursor{input: line}
		c.skipWS()
		if !c.eof() && c.input[c.pos] != '#' {
			t, err := c.parseStatement()
			if err != nil {
				return newParseError(FormatNTriples, input, offset+c.pos, err)
			}
			if err := s.triple(t); err != nil {
				return err
			}
		}
		offset = next
	}
	return nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) parseStatement() (Triple, error) {
	subject, err := c.parseTerm(false)
	if err != nil {
		return Triple{}, err
	}
	c.skipWS()
	predicate, err := c.parseIRI()
	if err != nil {
		return Triple{}, err
	}
	object, err := c.parseTerm(true)
	if err != nil {
		return Triple{}, err
	}
	c.skipWS()
	if c.eof() || c.input[c.pos] != '.' {
		return Triple{}, c.errorf("expected '.' at end of statement")
	}
	c.pos++
	c.skipWS()
	if !c.eof() && c.input[c.pos] != '#' {
		return Triple{}, c.errorf("unexpected content after '.'")
	}
	return Triple{S: subject, P: predicate, O: object}, nil
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.eof() {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if c.eof() || c.input[c.pos] != '<' {
		return IRI{}, c.errorf("expected IRI")
	}
	c.pos++
	var b strings.Builder
	for {
		if c.eof() {
			return IRI{}, c.errorf("unterminated IRI")
		}
		ch := c.input[c.pos]
		switch {
		case ch == '>':
			c.pos++
			if !hasScheme(b.String()) {
				return IRI{}, c.errorf("relative IRI %q", b.String())
			}
			return IRI{Value: b.String()}, nil
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

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for !c.eof() {
		ch := c.input[c.pos]
		if ch == '.' && c.pos+1 < len(c.input) && isPNChar(c.input[c.pos+1]) {
			c.pos++
			continue
		}
		if !isPNChar(ch) {
			break
		}
		c.pos++
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node label missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.pos++
	var b strings.Builder
	for {
		if c.eof() {
			return Literal{}, c.errorf("unterminated string literal")
		}
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			break
		}
		if ch != '\\' {
			b.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return Literal{}, c.errorf("unterminated escape")
		}
		next := c.input[c.pos+1]
		if next == 'u' || next == 'U' {
			r, err := c.parseUChar()
			if err != nil {
				return Literal{}, err
			}
			b.WriteRune(r)
			continue
		}
		r, ok := simpleEscape(next)
		if !ok {
			return Literal{}, c.errorf("invalid escape sequence \\%c", next)
		}
		b.WriteByte(r)
		c.pos += 2
	}
	lexical := b.String()
	switch {
	case strings.HasPrefix(c.input[c.pos:], "@"):
		c.pos++
		start := c.pos
		for !c.eof() && (isAlpha(c.input[c.pos]) || isDigit(c.input[c.pos]) || c.input[c.pos] == '-') {
			c.pos++
		}
		tag := c.input[start:c.pos]
		if !isValidLangTag(tag) {
			return Literal{}, c.errorf("invalid language tag %q", tag)
		}
		return Literal{Lexical: lexical, Lang: tag}, nil
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	default:
		return Literal{Lexical: lexical}, nil
	}
}

func (c *ntCursor) parseUChar() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 4
	switch c.input[c.pos+1] {
	case 'u':
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

func (c *ntCursor) skipWS() {
	for !c.eof() && (c.input[c.pos] == ' ' || c.input[c.pos] == '\t' || c.input[c.pos] == '\r') {
		c.pos++
	}
}

func (c *ntCursor) eof() bool { return c.pos >= len(c.input) }

func (c *ntCursor) errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// encodeNTriples writes every triple of g, one per line, in graph order.
func encodeNTriples(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for t := range g.All() {
		if _, err := bw.WriteString(t.String() + " .\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func renderIRI(iri IRI) string {
	return "<" + escapeIRI(iri.Value) + ">"
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode, Literal:
		return value.String()
	default:
		return ""
	}
}

// escapeIRI turns characters IRIREF forbids into \u escapes.
func escapeIRI(s string) string {
	if !strings.ContainsFunc(s, forbiddenInIRI) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if forbiddenInIRI(r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func forbiddenInIRI(r rune) bool {
	return r <= ' ' || strings.ContainsRune("<>\"{}|^`\\", r)
}
