package parser

import (
	"context"
	"log/slog"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/pkg"
)

// unit holds the parsing state of one source file.
type unit struct {
	*Parser

	ctx  context.Context
	file string
	dir  string
	toks []ast.Token
	pos  int
}

func (u *unit) peek() ast.Token { return u.peekAt(0) }

func (u *unit) peekAt(n int) ast.Token {
	if u.pos+n >= len(u.toks) {
		return u.toks[len(u.toks)-1] // EOF
	}

	return u.toks[u.pos+n]
}

func (u *unit) advance() ast.Token {
	tok := u.peek()
	if u.pos < len(u.toks)-1 {
		u.pos++
	}

	return tok
}

func (u *unit) eof() bool { return u.peek().Kind == ast.TokenEOF }

// accept consumes the next token if it is a keyword, operator, or punctuation
// spelled text.
func (u *unit) accept(text string) bool {
	if u.peek().Is(text) {
		u.advance()

		return true
	}

	return false
}

// expect consumes a token spelled text or fails.
func (u *unit) expect(text string) (ast.Token, error) {
	tok := u.peek()
	if !tok.Is(text) {
		return tok, u.unexpected(tok, text)
	}

	return u.advance(), nil
}

// unexpected reports tok where something else was expected.
func (u *unit) unexpected(tok ast.Token, expected string) error {
	got := tok.Text
	if tok.Kind == ast.TokenEOF {
		got = "EOF"
	} else if got == "" {
		got = tok.Literal()
	}

	return pkg.ErrParse.At(tok.Pos.Line, tok.Pos.Column).With(
		slog.String("expected", expected),
		slog.String("got", got),
	)
}

// identifier consumes an identifier token and returns its interned path.
func (u *unit) identifier() (ast.ID, ast.Token, error) {
	tok := u.peek()
	if tok.Kind != ast.TokenIdentifier {
		return ast.ID{}, tok, u.unexpected(tok, "identifier")
	}

	u.advance()

	id, err := ast.ParseID(u.in, tok.Text)
	if err != nil {
		return ast.ID{}, tok, pkg.WrapError(err).At(tok.Pos.Line, tok.Pos.Column)
	}

	return id, tok, nil
}

// simpleName consumes a single-component identifier, as required for
// parameters and import aliases.
func (u *unit) simpleName(what string) (ast.ID, ast.Token, error) {
	id, tok, err := u.identifier()
	if err != nil {
		return id, tok, err
	}

	if id.IsMember() {
		return id, tok, pkg.ErrParse.At(tok.Pos.Line, tok.Pos.Column).With(
			slog.String("expected", what),
			slog.String("got", tok.Text),
		)
	}

	return id, tok, nil
}
