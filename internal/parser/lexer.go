// Package parser parses compound unit expressions such as "N / kg" or
// "m * s" into a single dimension vector and scale.
package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenSymbol
	TokenStar  // *
	TokenSlash // /
)

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // Byte offset in input
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %d}", t.Type.String(), t.Literal, t.Pos)
}

// String returns the string representation of a TokenType.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenSymbol:
		return "SYMBOL"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	default:
		return "UNKNOWN"
	}
}

// Lexer splits a unit expression into whitespace-separated tokens.
// Operators are only recognised as whole tokens, so "m/s" is a single
// symbol token and will fail to resolve.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// skipWhitespace advances past any Unicode whitespace.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.pos
	if start >= len(l.input) {
		return Token{Type: TokenEOF, Pos: start}
	}

	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}

	literal := l.input[start:l.pos]
	switch literal {
	case "*":
		return Token{Type: TokenStar, Literal: literal, Pos: start}
	case "/":
		return Token{Type: TokenSlash, Literal: literal, Pos: start}
	default:
		return Token{Type: TokenSymbol, Literal: literal, Pos: start}
	}
}

// Tokenize returns all tokens, ending with TokenEOF.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens
}
