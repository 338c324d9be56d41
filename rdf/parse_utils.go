package rdf

import (
	"io"
	"strings"
	"unicode/utf8"
)

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isValidPNLocalEscape(ch byte) bool {
	switch ch {
	case '_', '~', '.', '-', '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', '/', '?', '#', '@', '%':
		return true
	default:
		return false
	}
}

// isValidLangTag checks the BCP 47 shape Turtle requires:
// [a-zA-Z]+ ('-' [a-zA-Z0-9]+)*.
func isValidLangTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, part := range strings.Split(tag, "-") {
		if part == "" {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			if isAlpha(ch) || (i > 0 && isDigit(ch)) {
				continue
			}
			return false
		}
	}
	return true
}

func parseHexDigit(hex byte) (rune, bool) {
	switch {
	case hex >= '0' && hex <= '9':
		return rune(hex - '0'), true
	case hex >= 'a' && hex <= 'f':
		return rune(hex-'a') + 10, true
	case hex >= 'A' && hex <= 'F':
		return rune(hex-'A') + 10, true
	default:
		return 0, false
	}
}

// decodeUChar decodes the hex digits of a \u or \U escape. Surrogates and
// values beyond U+10FFFF are rejected.
func decodeUChar(hexStr string) (rune, bool) {
	if len(hexStr) != 4 && len(hexStr) != 8 {
		return 0, false
	}
	var codePoint rune
	for i := 0; i < len(hexStr); i++ {
		digit, ok := parseHexDigit(hexStr[i])
		if !ok {
			return 0, false
		}
		codePoint = codePoint*16 + digit
	}
	if !utf8.ValidRune(codePoint) {
		return 0, false
	}
	return codePoint, true
}

// simpleEscape maps the character after '\' in an ECHAR to its value.
func simpleEscape(ch byte) (byte, bool) {
	switch ch {
	case 't':
		return '\t', true
	case 'b':
		return '\b', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case '"', '\'', '\\':
		return ch, true
	default:
		return 0, false
	}
}

func isValidPrefixName(prefix string) bool {
	if prefix == "" {
		return true
	}
	if prefix[len(prefix)-1] == '.' {
		return false
	}
	if !isAlpha(prefix[0]) && prefix[0] < 0x80 {
		return false
	}
	for i := 1; i < len(prefix); i++ {
		if !isPNChar(prefix[i]) && prefix[i] != '.' {
			return false
		}
	}
	return true
}

// hasScheme reports whether iri starts with an RFC 3986 scheme.
func hasScheme(iri string) bool {
	for i := 0; i < len(iri); i++ {
		ch := iri[i]
		switch {
		case ch == ':':
			return i > 0
		case isAlpha(ch):
		case i > 0 && (isDigit(ch) || ch == '+' || ch == '-' || ch == '.'):
		default:
			return false
		}
	}
	return false
}

// escapeLiteral escapes a lexical form for a short double-quoted string in
// Turtle and N-Triples.
func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t\b\f") && !containsControl(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789ABCDEF"[r>>4])
				b.WriteByte("0123456789ABCDEF"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// readAllLimited reads r fully, failing with ErrInputTooLarge past limit.
// A negative limit disables the check.
func readAllLimited(r io.Reader, limit int64) (string, error) {
	if limit < 0 {
		data, err := io.ReadAll(r)
		return string(data), err
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", ErrInputTooLarge
	}
	return string(data), nil
}
