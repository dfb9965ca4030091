package parser

import (
	"log/slog"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// parseProgram parses: Stmt* EOF.
func (u *unit) parseProgram() (ast.Index, error) {
	start := u.peek().Pos

	stmts, err := u.parseStatements()
	if err != nil {
		return ast.Nil, err
	}

	if !u.eof() {
		return ast.Nil, u.unexpected(u.peek(), "statement")
	}

	return u.tree.Block(start, stmts...), nil
}

// parseStatements parses statements until EOF or one of the block
// terminators "end" and "else", which are left unconsumed.
func (u *unit) parseStatements() ([]ast.Index, error) {
	stmts := make([]ast.Index, 0)

	for {
		for u.accept(";") {
		}

		tok := u.peek()
		if tok.Kind == ast.TokenEOF || tok.Is("end") || tok.Is("else") {
			return stmts, nil
		}

		stmt, err := u.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}
}

// parseBody parses: 'do' ';'? Stmt* and returns the block. The terminator is
// left for the caller.
func (u *unit) parseBody() (ast.Index, error) {
	tok, err := u.expect("do")
	if err != nil {
		return ast.Nil, err
	}

	stmts, err := u.parseStatements()
	if err != nil {
		return ast.Nil, err
	}

	return u.tree.Block(tok.Pos, stmts...), nil
}

func (u *unit) parseStatement() (ast.Index, error) {
	tok := u.peek()

	switch {
	case tok.Is("let"):
		return u.parseLet()

	case tok.Is("func"):
		return u.parseFunc()

	case tok.Is("struct"):
		return u.parseStruct()

	case tok.Is("if"):
		return u.parseIf()

	case tok.Is("while"):
		return u.parseWhile()

	case tok.Is("return"):
		return u.parseReturn()

	case tok.Is("import"):
		return u.parseImport()

	case tok.Kind == ast.TokenIdentifier && u.peekAt(1).Is("="):
		return u.parseAssign()
	}

	return u.parseExpr()
}

// parseLet parses: 'let' ID '=' Expr.
func (u *unit) parseLet() (ast.Index, error) {
	kw := u.advance()

	id, _, err := u.identifier()
	if err != nil {
		return ast.Nil, err
	}

	if _, err := u.expect("="); err != nil {
		return ast.Nil, err
	}

	value, err := u.parseExpr()
	if err != nil {
		return ast.Nil, err
	}

	return u.tree.Declare(kw.Pos, id, value), nil
}

// parseAssign parses: ID '=' Expr.
func (u *unit) parseAssign() (ast.Index, error) {
	id, tok, err := u.identifier()
	if err != nil {
		return ast.Nil, err
	}

	u.advance() // '='

	value, err := u.parseExpr()
	if err != nil {
		return ast.Nil, err
	}

	return u.tree.Assign(tok.Pos, id, value), nil
}

// parseFunc parses: 'func' ID Ident* 'do' Stmt* 'end'.
func (u *unit) parseFunc() (ast.Index, error) {
	kw := u.advance()

	id, _, err := u.identifier()
	if err != nil {
		return ast.Nil, err
	}

	params := make([]intern.Symbol, 0)
	seen := make(map[intern.Symbol]struct{})

	for u.peek().Kind == ast.TokenIdentifier {
		param, tok, err := u.simpleName("parameter name")
		if err != nil {
			return ast.Nil, err
		}

		if _, dup := seen[param.Symbol()]; dup {
			return ast.Nil, pkg.ErrParse.At(tok.Pos.Line, tok.Pos.Column).With(
				slog.String("reason", "duplicate parameter"),
				slog.String("name", tok.Text),
			)
		}

		seen[param.Symbol()] = struct{}{}
		params = append(params, param.Symbol())
	}

	body, err := u.parseBody()
	if err != nil {
		return ast.Nil, err
	}

	if _, err := u.expect("end"); err != nil {
		return ast.Nil, err
	}

	return u.tree.Function(kw.Pos, id, params, body), nil
}

// parseStruct parses: 'struct' ID 'do' Stmt* 'end'.
func (u *unit) parseStruct() (ast.Index, error) {
	kw := u.advance()

	id, _, err := u.identifier()
	if err != nil {
		return ast.Nil, err
	}

	body, err := u.parseBody()
	if err != nil {
		return ast.Nil, err
	}

	if _, err := u.expect("end"); err != nil {
		return ast.Nil, err
	}

	return u.tree.Struct(kw.Pos, id, body), nil
}

// parseIf parses: 'if' Expr 'do' Stmt* ('else' 'do'? Stmt*)? 'end'.
func (u *unit) parseIf() (ast.Index, error) {
	kw := u.advance()

	cond, err := u.parseExpr()
	if err != nil {
		return ast.Nil, err
	}

	then, err := u.parseBody()
	if err != nil {
		return ast.Nil, err
	}

	otherwise := ast.Nil

	if tok := u.peek(); u.accept("else") {
		u.accept("do")

		stmts, err := u.parseStatements()
		if err != nil {
			return ast.Nil, err
		}

		otherwise = u.tree.Block(tok.Pos, stmts...)
	}

	if _, err := u.expect("end"); err != nil {
		return ast.Nil, err
	}

	return u.tree.Conditional(kw.Pos, cond, then, otherwise), nil
}

// parseWhile parses: 'while' Expr 'do' Stmt* 'end'.
func (u *unit) parseWhile() (ast.Index, error) {
	kw := u.advance()

	cond, err := u.parseExpr()
	if err != nil {
		return ast.Nil, err
	}

	body, err := u.parseBody()
	if err != nil {
		return ast.Nil, err
	}

	if _, err := u.expect("end"); err != nil {
		return ast.Nil, err
	}

	return u.tree.Loop(kw.Pos, cond, body), nil
}

// parseReturn parses: 'return' Expr?.
func (u *unit) parseReturn() (ast.Index, error) {
	kw := u.advance()

	next := u.peek()
	if next.Kind == ast.TokenEOF || next.Is(";") || next.Is("end") ||
		next.Is("else") {
		undef := u.tree.Literal(ast.Token{Kind: ast.TokenUndefined, Pos: kw.Pos})

		return u.tree.Return(kw.Pos, undef), nil
	}

	value, err := u.parseExpr()
	if err != nil {
		return ast.Nil, err
	}

	return u.tree.Return(kw.Pos, value), nil
}
