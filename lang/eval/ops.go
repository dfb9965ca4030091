package eval

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/pkg"
)

func (e *Evaluator) operate(ctx context.Context, n ast.Node) (Value, error) {
	lhs, err := e.eval(ctx, n.Left)
	if err != nil {
		return Undefined(), err
	}

	defer e.unpin(e.pinned())
	e.pin(lhs)

	// and/or skip the right operand once the left one decides the result.
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		if lhs.Kind != KindBool {
			return Undefined(), errOperand(n, lhs, Undefined())
		}

		if lhs.Bool == (n.Op == ast.OpOr) {
			return lhs, nil
		}
	}

	rhs, err := e.eval(ctx, n.Right)
	if err != nil {
		return Undefined(), err
	}

	v, ok := Binary(n.Op, lhs, rhs)
	if !ok {
		return Undefined(), errOperand(n, lhs, rhs)
	}

	return v, nil
}

func errOperand(n ast.Node, lhs, rhs Value) error {
	return pkg.ErrType.At(n.Pos.Line, n.Pos.Column).With(
		slog.String("operator", n.Op.String()),
		slog.String("lhs", lhs.Kind.String()),
		slog.String("rhs", rhs.Kind.String()),
	)
}

// Binary applies op to lhs and rhs. It reports false if op is not defined
// for the operand kinds.
//
// Arithmetic and comparison are defined over numbers with IEEE-754
// semantics, so division by zero yields an infinity or NaN. Strings support
// concatenation and ordering; strings, chars, bools, and undefined support
// equality; and/or require bools.
func Binary(op ast.Operator, lhs, rhs Value) (Value, bool) {
	if lhs.Kind == KindNumber && rhs.Kind == KindNumber {
		return arithmetic(op, lhs.Num, rhs.Num)
	}

	switch op {
	case ast.OpAdd:
		if lhs.Kind == KindString && rhs.Kind == KindString {
			return String(lhs.Str + rhs.Str), true
		}

		if lhs.Kind == KindString && rhs.Kind == KindChar {
			return String(lhs.Str + string(rhs.Char)), true
		}

	case ast.OpLT, ast.OpLE, ast.OpGT, ast.OpGE:
		if lhs.Kind == KindString && rhs.Kind == KindString {
			return compare(op, strings.Compare(lhs.Str, rhs.Str)), true
		}

		if lhs.Kind == KindChar && rhs.Kind == KindChar {
			return compare(op, int(lhs.Char)-int(rhs.Char)), true
		}

	case ast.OpEQ, ast.OpNE:
		if lhs.Kind == rhs.Kind ||
			lhs.Kind == KindUndefined || rhs.Kind == KindUndefined {
			return Bool(lhs.Equal(rhs) == (op == ast.OpEQ)), true
		}

	case ast.OpAnd:
		if lhs.Kind == KindBool && rhs.Kind == KindBool {
			return Bool(lhs.Bool && rhs.Bool), true
		}

	case ast.OpOr:
		if lhs.Kind == KindBool && rhs.Kind == KindBool {
			return Bool(lhs.Bool || rhs.Bool), true
		}
	}

	return Undefined(), false
}

func arithmetic(op ast.Operator, a, b float32) (Value, bool) {
	switch op {
	case ast.OpAdd:
		return Number(a + b), true

	case ast.OpSub:
		return Number(a - b), true

	case ast.OpMul:
		return Number(a * b), true

	case ast.OpDiv:
		return Number(a / b), true

	case ast.OpPow:
		return Number(float32(math.Pow(float64(a), float64(b)))), true

	case ast.OpLT:
		return Bool(a < b), true

	case ast.OpLE:
		return Bool(a <= b), true

	case ast.OpGT:
		return Bool(a > b), true

	case ast.OpGE:
		return Bool(a >= b), true

	case ast.OpEQ:
		return Bool(a == b), true

	case ast.OpNE:
		return Bool(a != b), true
	}

	return Undefined(), false
}

// compare converts the sign of cmp into the result of op.
func compare(op ast.Operator, cmp int) Value {
	switch op {
	case ast.OpLT:
		return Bool(cmp < 0)

	case ast.OpLE:
		return Bool(cmp <= 0)

	case ast.OpGT:
		return Bool(cmp > 0)

	default:
		return Bool(cmp >= 0)
	}
}
