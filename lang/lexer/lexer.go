// Package lexer splits ly source text into tokens.
package lexer

import (
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/pkg"
)

// keywords are reserved words. true, false, and undefined are lexed as
// literals instead.
var keywords = map[string]struct{}{
	"let":    {},
	"func":   {},
	"do":     {},
	"end":    {},
	"if":     {},
	"else":   {},
	"while":  {},
	"return": {},
	"import": {},
	"as":     {},
	"struct": {},
	"new":    {},
	"and":    {},
	"or":     {},
}

// IsKeyword reports whether s is reserved.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Keywords returns the reserved words, including the literal words.
func Keywords() []string {
	out := make([]string, 0, len(keywords)+3)
	for k := range keywords {
		out = append(out, k)
	}

	return append(out, "true", "false", "undefined")
}

// Lexer holds the scanning state.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// New returns a Lexer over src.
func New(src []byte) *Lexer {
	return &Lexer{input: src, line: 1, col: 1}
}

// All scans the remaining input, returning every token up to and including
// the terminating EOF token.
func (l *Lexer) All() ([]ast.Token, error) {
	toks := make([]ast.Token, 0, len(l.input)/3+1)

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == ast.TokenEOF {
			return toks, nil
		}
	}
}

// Next scans one token.
func (l *Lexer) Next() (ast.Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.position()

	if l.eof() {
		return ast.Token{Kind: ast.TokenEOF, Pos: pos}, nil
	}

	ch := l.peek()

	switch {
	case isDigit(ch):
		return l.scanNumber(pos)

	case isIdentifierStart(ch):
		return l.scanWord(pos)

	case ch == '"':
		return l.scanString(pos)

	case ch == '\'':
		return l.scanChar(pos)
	}

	return l.scanSymbol(pos)
}

func (l *Lexer) scanNumber(pos ast.Pos) (ast.Token, error) {
	start := l.pos

	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	if c := l.peek(); c == 'e' || c == 'E' {
		save, line, col := l.pos, l.line, l.col

		l.advance()

		if c := l.peek(); c == '+' || c == '-' {
			l.advance()
		}

		if !isDigit(l.peek()) {
			l.pos, l.line, l.col = save, line, col
		} else {
			for !l.eof() && isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	text := string(l.input[start:l.pos])

	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
			With(slog.String("number", text)).
			Wrap(err)
	}

	return ast.Token{
		Kind: ast.TokenNumber,
		Text: text,
		Num:  float32(f),
		Pos:  pos,
	}, nil
}

// scanWord scans a keyword, word literal, or dotted identifier. Segments after
// a dot may begin with a digit so that list elements can be named ("xs.0").
func (l *Lexer) scanWord(pos ast.Pos) (ast.Token, error) {
	start := l.pos
	dotted := false

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	for l.peek() == '.' && isIdentifierContinue(l.peekAt(1)) {
		dotted = true

		l.advance()

		for !l.eof() && isIdentifierContinue(l.peek()) {
			l.advance()
		}
	}

	text := string(l.input[start:l.pos])
	tok := ast.Token{Text: text, Pos: pos, Kind: ast.TokenIdentifier}

	if dotted {
		return tok, nil
	}

	switch text {
	case "true", "false":
		tok.Kind = ast.TokenBool
		tok.Bool = text == "true"

	case "undefined":
		tok.Kind = ast.TokenUndefined

	default:
		if IsKeyword(text) {
			tok.Kind = ast.TokenKeyword
		}
	}

	return tok, nil
}

func (l *Lexer) scanString(pos ast.Pos) (ast.Token, error) {
	start := l.pos

	l.advance() // opening quote

	for {
		if l.eof() || l.peek() == '\n' {
			return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
				With(slog.String("reason", "unterminated string"))
		}

		ch := l.peek()
		l.advance()

		if ch == '\\' && !l.eof() {
			l.advance()

			continue
		}

		if ch == '"' {
			break
		}
	}

	text := string(l.input[start:l.pos])

	s, err := strconv.Unquote(text)
	if err != nil {
		return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
			With(slog.String("string", text)).
			Wrap(err)
	}

	return ast.Token{Kind: ast.TokenString, Text: text, Str: s, Pos: pos}, nil
}

func (l *Lexer) scanChar(pos ast.Pos) (ast.Token, error) {
	start := l.pos

	l.advance() // opening quote

	for {
		if l.eof() || l.peek() == '\n' {
			return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
				With(slog.String("reason", "unterminated char"))
		}

		ch := l.peek()
		l.advance()

		if ch == '\\' && !l.eof() {
			l.advance()

			continue
		}

		if ch == '\'' {
			break
		}
	}

	text := string(l.input[start:l.pos])

	r, _, tail, err := strconv.UnquoteChar(text[1:len(text)-1], '\'')
	if err != nil || tail != "" {
		return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
			With(slog.String("char", text))
	}

	return ast.Token{Kind: ast.TokenChar, Text: text, Str: string(r), Pos: pos}, nil
}

func (l *Lexer) scanSymbol(pos ast.Pos) (ast.Token, error) {
	ch := l.peek()
	next := l.peekAt(1)

	two := func(kind ast.TokenKind, text string) (ast.Token, error) {
		l.advance()
		l.advance()

		return ast.Token{Kind: kind, Text: text, Pos: pos}, nil
	}

	one := func(kind ast.TokenKind) (ast.Token, error) {
		l.advance()

		return ast.Token{Kind: kind, Text: string(ch), Pos: pos}, nil
	}

	switch ch {
	case '<', '>', '=', '!':
		if next == '=' {
			return two(ast.TokenOperator, string(ch)+"=")
		}

		switch ch {
		case '=':
			return one(ast.TokenPunct)

		case '!':
			return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
				With(slog.String("unexpected", "!"))
		}

		return one(ast.TokenOperator)

	case '+', '-', '*', '/', '^':
		return one(ast.TokenOperator)

	case '(', ')', '[', ']', '{', '}', ',', ';':
		return one(ast.TokenPunct)
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return ast.Token{}, pkg.ErrParse.At(pos.Line, pos.Column).
		With(slog.String("unexpected", string(r)))
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		ch := l.peek()

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()

		case ch == '#', ch == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		default:
			return
		}
	}
}

func (l *Lexer) position() ast.Pos { return ast.Pos{Line: l.line, Column: l.col} }

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) peek() byte { return l.peekAt(0) }

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentifierStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentifierContinue(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}
