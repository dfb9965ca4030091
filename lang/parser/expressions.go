package parser

import (
	"github.com/ardnew/ly/lang/ast"
)

// parseExpr parses: Or.
func (u *unit) parseExpr() (ast.Index, error) {
	if err := u.ctx.Err(); err != nil {
		return ast.Nil, err
	}

	return u.parseOr()
}

// parseOr parses: And ('or' And)*.
func (u *unit) parseOr() (ast.Index, error) {
	return u.parseLeftAssoc(u.parseAnd, "or")
}

// parseAnd parses: Cmp ('and' Cmp)*.
func (u *unit) parseAnd() (ast.Index, error) {
	return u.parseLeftAssoc(u.parseCmp, "and")
}

// parseCmp parses: Sum (CmpOp Sum)?. Comparisons do not chain.
func (u *unit) parseCmp() (ast.Index, error) {
	lhs, err := u.parseSum()
	if err != nil {
		return ast.Nil, err
	}

	tok := u.peek()
	if tok.Kind != ast.TokenOperator {
		return lhs, nil
	}

	op, ok := ast.ParseOperator(tok.Text)
	if !ok || !op.IsComparison() {
		return lhs, nil
	}

	u.advance()

	rhs, err := u.parseSum()
	if err != nil {
		return ast.Nil, err
	}

	return u.tree.Op(tok.Pos, lhs, op, rhs), nil
}

// parseSum parses: Prod (('+'|'-') Prod)*.
func (u *unit) parseSum() (ast.Index, error) {
	return u.parseLeftAssoc(u.parseProd, "+", "-")
}

// parseProd parses: Pow (('*'|'/') Pow)*.
func (u *unit) parseProd() (ast.Index, error) {
	return u.parseLeftAssoc(u.parsePow, "*", "/")
}

// parsePow parses: Unary ('^' Pow)?, which makes '^' right-associative.
func (u *unit) parsePow() (ast.Index, error) {
	lhs, err := u.parseUnary()
	if err != nil {
		return ast.Nil, err
	}

	tok := u.peek()
	if !u.accept("^") {
		return lhs, nil
	}

	rhs, err := u.parsePow()
	if err != nil {
		return ast.Nil, err
	}

	return u.tree.Op(tok.Pos, lhs, ast.OpPow, rhs), nil
}

// parseUnary parses: '-' Unary | Postfix. Negation is lowered to a
// subtraction from zero; negative number literals are folded.
func (u *unit) parseUnary() (ast.Index, error) {
	tok := u.peek()
	if !u.accept("-") {
		return u.parsePostfix()
	}

	operand, err := u.parseUnary()
	if err != nil {
		return ast.Nil, err
	}

	if n := u.tree.Node(operand); n.Kind == ast.KindLiteral &&
		n.Token.Kind == ast.TokenNumber {
		return u.tree.Number(tok.Pos, -n.Token.Num), nil
	}

	return u.tree.Op(tok.Pos, u.tree.Number(tok.Pos, 0), ast.OpSub, operand), nil
}

// parsePostfix parses: ID '(' Args? ')' | ID '[' Expr ']' | Primary.
func (u *unit) parsePostfix() (ast.Index, error) {
	tok := u.peek()
	if tok.Kind != ast.TokenIdentifier {
		return u.parsePrimary()
	}

	next := u.peekAt(1)

	switch {
	case next.Is("("):
		id, _, err := u.identifier()
		if err != nil {
			return ast.Nil, err
		}

		u.advance() // '('

		args, err := u.parseArgs(")")
		if err != nil {
			return ast.Nil, err
		}

		return u.tree.Call(tok.Pos, id, args...), nil

	case next.Is("["):
		id, _, err := u.identifier()
		if err != nil {
			return ast.Nil, err
		}

		u.advance() // '['

		index, err := u.parseExpr()
		if err != nil {
			return ast.Nil, err
		}

		if _, err := u.expect("]"); err != nil {
			return ast.Nil, err
		}

		return u.tree.IndexOf(tok.Pos, id, index), nil
	}

	return u.parsePrimary()
}

// parsePrimary parses literals, names, list literals, parenthesized
// expressions and struct instantiation.
func (u *unit) parsePrimary() (ast.Index, error) {
	tok := u.peek()

	switch tok.Kind {
	case ast.TokenNumber, ast.TokenString, ast.TokenChar, ast.TokenBool,
		ast.TokenUndefined:
		u.advance()

		return u.tree.Literal(tok), nil

	case ast.TokenIdentifier:
		id, _, err := u.identifier()
		if err != nil {
			return ast.Nil, err
		}

		return u.tree.Name(tok.Pos, id), nil
	}

	switch {
	case u.accept("["):
		elems, err := u.parseArgs("]")
		if err != nil {
			return ast.Nil, err
		}

		return u.tree.List(tok.Pos, elems...), nil

	case u.accept("("):
		expr, err := u.parseExpr()
		if err != nil {
			return ast.Nil, err
		}

		if _, err := u.expect(")"); err != nil {
			return ast.Nil, err
		}

		return expr, nil

	case u.accept("new"):
		return u.parseNew(tok)
	}

	return ast.Nil, u.unexpected(tok, "expression")
}

// parseNew parses the remainder of: 'new' ID ('{' (ID '=' Expr (','|';')?)* '}')?.
func (u *unit) parseNew(kw ast.Token) (ast.Index, error) {
	kind, _, err := u.identifier()
	if err != nil {
		return ast.Nil, err
	}

	if !u.accept("{") {
		return u.tree.Instance(kw.Pos, kind), nil
	}

	fields := make([]ast.Index, 0)

	for !u.accept("}") {
		field, tok, err := u.simpleName("field name")
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

		fields = append(fields, u.tree.Assign(tok.Pos, field, value))

		if !u.accept(",") {
			u.accept(";")
		}
	}

	return u.tree.Instance(kw.Pos, kind, fields...), nil
}

// parseArgs parses a comma-separated expression list up to and including
// the closing token.
func (u *unit) parseArgs(closing string) ([]ast.Index, error) {
	args := make([]ast.Index, 0)

	if u.accept(closing) {
		return args, nil
	}

	for {
		arg, err := u.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if u.accept(closing) {
			return args, nil
		}

		if _, err := u.expect(","); err != nil {
			return nil, err
		}
	}
}

// parseLeftAssoc parses operand (op operand)* for the operators spelled in
// ops, folding to the left.
func (u *unit) parseLeftAssoc(
	operand func() (ast.Index, error),
	ops ...string,
) (ast.Index, error) {
	lhs, err := operand()
	if err != nil {
		return ast.Nil, err
	}

	for {
		tok := u.peek()

		op, ok := u.acceptOperator(ops)
		if !ok {
			return lhs, nil
		}

		rhs, err := operand()
		if err != nil {
			return ast.Nil, err
		}

		lhs = u.tree.Op(tok.Pos, lhs, op, rhs)
	}
}

func (u *unit) acceptOperator(ops []string) (ast.Operator, bool) {
	tok := u.peek()

	for _, text := range ops {
		if tok.Is(text) {
			op, ok := ast.ParseOperator(text)
			if ok {
				u.advance()
			}

			return op, ok
		}
	}

	return 0, false
}
