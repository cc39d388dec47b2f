package rustsrc

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokEOF      TokenKind = iota
	TokIdent              // identifiers and keywords; raw identifiers lose their r# prefix
	TokLifetime           // 'a
	TokInt                // integer literal, suffix included
	TokLiteral            // any other literal: strings, chars, floats
	TokPunct              // punctuation; "::", "->" and "=>" are single tokens
	TokDoc                // outer doc comment text (/// or /** */)
)

// Token is one lexical unit with its 1-based source line.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "end of file"
	}

	return fmt.Sprintf("%q", t.Text)
}

// Lex splits Rust source into tokens. Plain comments and inner doc
// comments are dropped; outer doc comments are kept as TokDoc.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1}

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		l.toks = append(l.toks, tok)

		if tok.Kind == TokEOF {
			return l.toks, nil
		}
	}
}

type lexer struct {
	src  string
	pos  int
	line int
	toks []Token
}

func (l *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", l.line, fmt.Sprintf(format, args...))
}

func (l *lexer) peek(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}

	return l.src[l.pos+off]
}

func (l *lexer) advance(n int) {
	for range n {
		if l.pos >= len(l.src) {
			return
		}

		if l.src[l.pos] == '\n' {
			l.line++
		}

		l.pos++
	}
}

func (l *lexer) next() (Token, error) {
	for {
		l.skipSpace()

		if l.pos >= len(l.src) {
			return Token{Kind: TokEOF, Line: l.line}, nil
		}

		if l.peek(0) != '/' {
			break
		}

		switch l.peek(1) {
		case '/':
			if tok, ok := l.lineComment(); ok {
				return tok, nil
			}

			continue
		case '*':
			tok, ok, err := l.blockComment()
			if err != nil {
				return Token{}, err
			}

			if ok {
				return tok, nil
			}

			continue
		}

		break
	}

	line := l.line
	c := l.peek(0)

	switch {
	case c == 'r' && l.peek(1) == '#' && isIdentStart(l.peek(2)):
		l.advance(2)
		return Token{Kind: TokIdent, Text: l.ident(), Line: line}, nil

	case c == 'r' && (l.peek(1) == '"' || (l.peek(1) == '#' && l.rawStringAhead(1))):
		return l.rawString(1, line)

	case c == 'b' && l.peek(1) == 'r' && (l.peek(2) == '"' || l.peek(2) == '#'):
		return l.rawString(2, line)

	case c == 'b' && (l.peek(1) == '"' || l.peek(1) == '\''):
		l.advance(1)
		return l.quoted(l.peek(0), line, 1)

	case isIdentStart(c):
		return Token{Kind: TokIdent, Text: l.ident(), Line: line}, nil

	case isDigit(c):
		return l.number(line), nil

	case c == '"':
		return l.quoted('"', line, 0)

	case c == '\'':
		return l.charOrLifetime(line)
	}

	for _, op := range []string{"::", "->", "=>"} {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.advance(len(op))
			return Token{Kind: TokPunct, Text: op, Line: line}, nil
		}
	}

	l.advance(1)

	return Token{Kind: TokPunct, Text: string(c), Line: line}, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		default:
			return
		}
	}
}

// lineComment consumes a // comment. "///" (but not "////") is an outer doc.
func (l *lexer) lineComment() (Token, bool) {
	line := l.line
	start := l.pos

	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}

	text := l.src[start:l.pos]
	if strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////") {
		return Token{Kind: TokDoc, Text: strings.TrimPrefix(strings.TrimPrefix(text, "///"), " "), Line: line}, true
	}

	return Token{}, false
}

// blockComment consumes a possibly nested /* */ comment. "/**" starts an
// outer doc unless it is "/**/" or "/***".
func (l *lexer) blockComment() (Token, bool, error) {
	line := l.line
	start := l.pos
	depth := 0

	for l.pos < len(l.src) {
		switch {
		case l.peek(0) == '/' && l.peek(1) == '*':
			depth++
			l.advance(2)
		case l.peek(0) == '*' && l.peek(1) == '/':
			depth--
			l.advance(2)

			if depth == 0 {
				text := l.src[start:l.pos]
				if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/" {
					body := strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
					return Token{Kind: TokDoc, Text: strings.TrimSpace(body), Line: line}, true, nil
				}

				return Token{}, false, nil
			}
		default:
			l.advance(1)
		}
	}

	return Token{}, false, fmt.Errorf("line %d: unterminated block comment", line)
}

func (l *lexer) ident() string {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	return l.src[start:l.pos]
}

// number lexes integer and float literals. Integer suffixes (300u16) stay
// part of the token; ParseInt strips them.
func (l *lexer) number(line int) Token {
	start := l.pos
	kind := TokInt

	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case isIdentPart(c):
			l.pos++
		case c == '.' && kind == TokInt && isDigit(l.peek(1)):
			kind = TokLiteral
			l.pos++
		default:
			return Token{Kind: kind, Text: l.src[start:l.pos], Line: line}
		}
	}

	return Token{Kind: kind, Text: l.src[start:l.pos], Line: line}
}

// quoted lexes a string or byte literal starting at the quote character.
// prefix is the number of bytes already consumed before the quote.
func (l *lexer) quoted(quote byte, line, prefix int) (Token, error) {
	start := l.pos - prefix
	l.advance(1)

	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance(2)
		case quote:
			l.advance(1)
			return Token{Kind: TokLiteral, Text: l.src[start:l.pos], Line: line}, nil
		default:
			l.advance(1)
		}
	}

	return Token{}, fmt.Errorf("line %d: unterminated literal", line)
}

func (l *lexer) rawStringAhead(off int) bool {
	i := l.pos + off
	for i < len(l.src) && l.src[i] == '#' {
		i++
	}

	return i < len(l.src) && l.src[i] == '"'
}

// rawString lexes r"..", r#".."# and the byte variants. off is the length
// of the prefix before the hashes.
func (l *lexer) rawString(off, line int) (Token, error) {
	start := l.pos
	l.advance(off)

	hashes := 0
	for l.peek(0) == '#' {
		hashes++
		l.advance(1)
	}

	if l.peek(0) != '"' {
		return Token{}, l.errorf("malformed raw string")
	}

	l.advance(1)

	closing := "\"" + strings.Repeat("#", hashes)

	idx := strings.Index(l.src[l.pos:], closing)
	if idx < 0 {
		return Token{}, fmt.Errorf("line %d: unterminated raw string", line)
	}

	l.advance(idx + len(closing))

	return Token{Kind: TokLiteral, Text: l.src[start:l.pos], Line: line}, nil
}

// charOrLifetime tells 'a' (char) from 'a (lifetime or label).
func (l *lexer) charOrLifetime(line int) (Token, error) {
	if l.peek(1) == '\\' || l.peek(2) == '\'' {
		return l.quoted('\'', line, 0)
	}

	if l.peek(1) < 0x80 && isIdentStart(l.peek(1)) {
		start := l.pos
		l.advance(1)
		l.ident()

		return Token{Kind: TokLifetime, Text: l.src[start:l.pos], Line: line}, nil
	}

	// Multi-byte character literal.
	return l.quoted('\'', line, 0)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
