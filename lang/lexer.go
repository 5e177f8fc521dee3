package lang

import (
	"strconv"
	"unicode/utf8"
)

// eof is the sentinel returned by [Lexer.peek] past the end of input.
const eof = -1

// Lexer scans CSG source text into tokens.
// Each Lexer owns its cursor, so independent instances may run concurrently.
type Lexer struct {
	source string
	pos    int
}

// NewLexer returns a Lexer positioned at the start of source.
func NewLexer(source string) *Lexer {
	return &Lexer{source: source}
}

// Scan returns the complete token sequence for the source, terminated by a
// single [KindEOF] token. Scanning stops at the first lexical error.
func Scan(source string) ([]Token, error) {
	return NewLexer(source).Scan()
}

// Scan consumes the remaining input and returns its tokens.
func (l *Lexer) Scan() ([]Token, error) {
	tokens := make([]Token, 0, len(l.source)/2+1)

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)

		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	c := l.peek()

	switch {
	case c == eof:
		return Token{Kind: KindEOF, Interval: Interval{Min: start, Max: start}}, nil

	case isDigit(c):
		return l.scanNumber(start)

	case isLetter(c):
		for isLetter(l.peek()) {
			l.pos++
		}

		return l.token(KindIdentifier, start), nil
	}

	if kind, ok := punctuation[byte(c)]; ok {
		l.pos++

		return l.token(kind, start), nil
	}

	r, size := utf8.DecodeRuneInString(l.source[start:])
	l.pos += size

	return Token{}, lexError(
		"unknown character "+strconv.Quote(string(r)),
		Interval{Min: start, Max: l.pos},
	)
}

func (l *Lexer) scanNumber(start int) (Token, error) {
	for isDigit(l.peek()) {
		l.pos++
	}

	if l.peek() == '.' {
		l.pos++

		if !isDigit(l.peek()) {
			return Token{}, lexError(
				"expecting more digits after .",
				Interval{Min: start, Max: l.pos},
			)
		}

		for isDigit(l.peek()) {
			l.pos++
		}
	}

	return l.token(KindNumber, start), nil
}

func (l *Lexer) token(kind Kind, start int) Token {
	return Token{
		Kind:     kind,
		Value:    l.source[start:l.pos],
		Interval: Interval{Min: start, Max: l.pos},
	}
}

// peek returns the byte at the cursor, or eof.
func (l *Lexer) peek() int {
	if l.pos >= len(l.source) {
		return eof
	}

	return int(l.source[l.pos])
}

// skipWhitespace skips spaces, tabs, and line endings. Carriage returns are
// whitespace so that CRLF files lex the same as LF files.
func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func isDigit(c int) bool { return '0' <= c && c <= '9' }

func isLetter(c int) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
