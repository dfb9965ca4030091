package eval

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/pkg"
)

// exec executes the node at i. The returned flag reports whether a return
// statement was reached, in which case the value is the returned value.
func (e *Evaluator) exec(ctx context.Context, i ast.Index) (Value, bool, error) {
	n := e.tree.Node(i)

	switch n.Kind {
	case ast.KindBlock:
		return e.execBlock(ctx, n)

	case ast.KindModule:
		return Undefined(), false, e.execModule(ctx, n)

	case ast.KindDeclare:
		v, err := e.eval(ctx, n.Value)
		if err != nil {
			return Undefined(), false, err
		}

		return Undefined(), false, e.Declare(n.ID, v)

	case ast.KindAssign:
		v, err := e.eval(ctx, n.Value)
		if err != nil {
			return Undefined(), false, err
		}

		return Undefined(), false, e.Assign(n.ID, v)

	case ast.KindFunction:
		return Undefined(), false, e.define(i, n, CallFunction)

	case ast.KindStruct:
		return Undefined(), false, e.define(i, n, CallStruct)

	case ast.KindConditional:
		return e.execConditional(ctx, n)

	case ast.KindLoop:
		return e.execLoop(ctx, n)

	case ast.KindReturn:
		v, err := e.evalReturn(ctx, n)

		return v, err == nil, err
	}

	v, err := e.eval(ctx, i)

	return v, false, err
}

func (e *Evaluator) execBlock(ctx context.Context, n ast.Node) (Value, bool, error) {
	last := Undefined()

	for _, stmt := range n.Children {
		v, ret, err := e.exec(ctx, stmt)
		if err != nil {
			return Undefined(), false, err
		}

		if ret {
			if e.scope == 0 {
				return Undefined(), false, errReturnOutside(e.tree.Node(stmt).Pos)
			}

			return v, true, nil
		}

		last = v
	}

	return last, false, nil
}

// execModule runs the body of a named module at depth 0 of its container,
// creating the container on first use. Anonymous modules run in place.
func (e *Evaluator) execModule(ctx context.Context, n ast.Node) error {
	if !n.Named {
		_, _, err := e.exec(ctx, n.Body)

		return err
	}

	h, err := e.store.Module(e.active, n.Name)
	if err != nil {
		h = e.store.AddModule(e.active, n.Name)
	}

	e.logger.TraceContext(ctx, "module",
		slog.String("name", e.in.Resolve(n.Name)),
		slog.String("source", n.Source),
		slog.Int("container", int(h)),
	)

	active, scope, pins := e.active, e.scope, e.pinned()
	e.active, e.scope = h, 0
	e.pins = append(e.pins, h)

	defer func() {
		e.active, e.scope = active, scope
		e.unpin(pins)
	}()

	if _, _, err := e.exec(ctx, n.Body); err != nil {
		return pkg.Within(err, "module "+e.in.Resolve(n.Name),
			slog.String("source", n.Source),
		)
	}

	return nil
}

// define installs a reference to the function or struct definition at i.
func (e *Evaluator) define(i ast.Index, n ast.Node, kind CallableKind) error {
	h, sym, err := e.resolve(n.ID)
	if err != nil {
		return err
	}

	return e.declareIn(h, sym, Reference(Callable{
		Kind:  kind,
		Node:  i,
		Scope: h,
		Name:  sym,
	}))
}

func (e *Evaluator) execConditional(ctx context.Context, n ast.Node) (Value, bool, error) {
	cond, err := e.condition(ctx, n.Cond)
	if err != nil {
		return Undefined(), false, err
	}

	branch := n.Body
	if !cond {
		branch = n.Else
	}

	if !branch.Valid() {
		return Undefined(), false, nil
	}

	e.enter()
	defer e.exit()

	v, ret, err := e.exec(ctx, branch)
	if err != nil || ret {
		return v, ret, err
	}

	return Undefined(), false, nil
}

func (e *Evaluator) execLoop(ctx context.Context, n ast.Node) (Value, bool, error) {
	e.enter()
	defer e.exit()

	for {
		if err := interrupted(ctx); err != nil {
			return Undefined(), false, err
		}

		cond, err := e.condition(ctx, n.Cond)
		if err != nil {
			return Undefined(), false, err
		}

		if !cond {
			return Undefined(), false, nil
		}

		v, ret, err := e.exec(ctx, n.Body)
		if err != nil || ret {
			return v, ret, err
		}

		e.dropHere()
		e.collect()
	}
}

// condition evaluates the expression at i, which must yield a Bool.
func (e *Evaluator) condition(ctx context.Context, i ast.Index) (bool, error) {
	v, err := e.eval(ctx, i)
	if err != nil {
		return false, err
	}

	if v.Kind != KindBool {
		pos := e.tree.Node(i).Pos

		return false, pkg.ErrType.At(pos.Line, pos.Column).With(
			slog.String("reason", "condition is not a bool"),
			slog.String("kind", v.Kind.String()),
		)
	}

	return v.Bool, nil
}

// evalReturn evaluates the returned expression. Index expressions and list
// literals are flattened into fresh lists of concrete values so the result
// does not share containers with the scope being left.
func (e *Evaluator) evalReturn(ctx context.Context, n ast.Node) (Value, error) {
	v, err := e.eval(ctx, n.Value)
	if err != nil {
		return Undefined(), err
	}

	switch e.tree.Node(n.Value).Kind {
	case ast.KindIndex:
		return e.flatten(v), nil

	case ast.KindList:
		e.detach(n.Value, v)
	}

	return v, nil
}

// detach flattens the elements of the list v built by the list literal at i.
// The containers of v and of nested literals are already fresh, so only
// elements taken from elsewhere are copied.
func (e *Evaluator) detach(i ast.Index, v Value) {
	if v.Kind != KindList {
		return
	}

	for j, c := range e.tree.Node(i).Children {
		sym := e.position(j)

		elem, ok := e.store.Lookup(v.Handle, 0, sym)
		if !ok || elem.Value().Kind != KindList {
			continue
		}

		if e.tree.Node(c).Kind == ast.KindList {
			e.detach(c, elem.Value())

			continue
		}

		e.store.Set(v.Handle, 0, sym, Owned(e.flatten(elem.Value())))
	}
}

// flatten returns v with every list it contains, at any depth, copied into a
// new container.
func (e *Evaluator) flatten(v Value) Value {
	if v.Kind != KindList {
		return v
	}

	elems := e.Elements(v)
	for i, elem := range elems {
		elems[i] = e.flatten(elem)
	}

	return e.NewList(elems...)
}

// eval evaluates the expression at i.
func (e *Evaluator) eval(ctx context.Context, i ast.Index) (Value, error) {
	n := e.tree.Node(i)

	switch n.Kind {
	case ast.KindLiteral:
		return e.literal(n.Token)

	case ast.KindOp:
		return e.operate(ctx, n)

	case ast.KindFunctionCall:
		return e.callNode(ctx, n)

	case ast.KindIndex:
		return e.index(ctx, n)

	case ast.KindList:
		return e.list(ctx, n)

	case ast.KindInstance:
		return e.newInstance(ctx, n)
	}

	v, _, err := e.exec(ctx, i)

	return v, err
}

func (e *Evaluator) literal(tok ast.Token) (Value, error) {
	switch tok.Kind {
	case ast.TokenIdentifier:
		return e.Get(tok.ID)

	case ast.TokenNumber:
		return Number(tok.Num), nil

	case ast.TokenString:
		return String(tok.Str), nil

	case ast.TokenChar:
		for _, r := range tok.Str {
			return Char(r), nil
		}

		return Char(0), nil

	case ast.TokenBool:
		return Bool(tok.Bool), nil

	case ast.TokenUndefined:
		return Undefined(), nil
	}

	return Undefined(), pkg.ErrType.At(tok.Pos.Line, tok.Pos.Column).With(
		slog.String("reason", "not a value"),
		slog.String("token", tok.Kind.String()),
	)
}

// list evaluates every element of a list literal into a new list.
func (e *Evaluator) list(ctx context.Context, n ast.Node) (Value, error) {
	elems := make([]Value, len(n.Children))

	defer e.unpin(e.pinned())

	for j, c := range n.Children {
		v, err := e.eval(ctx, c)
		if err != nil {
			return Undefined(), err
		}

		e.pin(v)
		elems[j] = v
	}

	return e.NewList(elems...), nil
}

func (e *Evaluator) index(ctx context.Context, n ast.Node) (Value, error) {
	target, err := e.Get(n.ID)
	if err != nil {
		return Undefined(), err
	}

	defer e.unpin(e.pinned())
	e.pin(target)

	idx, err := e.eval(ctx, n.Value)
	if err != nil {
		return Undefined(), err
	}

	if idx.Kind != KindNumber {
		return Undefined(), pkg.ErrType.At(n.Pos.Line, n.Pos.Column).With(
			slog.String("reason", "index is not a number"),
			slog.String("kind", idx.Kind.String()),
		)
	}

	outOfRange := pkg.ErrResolution.At(n.Pos.Line, n.Pos.Column).With(
		slog.String("name", n.ID.String(e.in)),
		slog.String("reason", "index out of range"),
		slog.Float64("index", float64(idx.Num)),
	)

	// Negative and NaN indices fail this test.
	if !(idx.Num >= 0) {
		return Undefined(), outOfRange
	}

	pos := int(idx.Num)
	if pos < 0 {
		return Undefined(), outOfRange
	}

	switch target.Kind {
	case KindList:
		sym, ok := e.in.Lookup(strconv.Itoa(pos))
		if !ok {
			return Undefined(), outOfRange
		}

		v, ok := e.store.Lookup(target.Handle, 0, sym)
		if !ok {
			return Undefined(), outOfRange
		}

		return v.Value(), nil

	case KindString:
		runes := []rune(target.Str)
		if pos >= len(runes) {
			return Undefined(), outOfRange
		}

		return Char(runes[pos]), nil
	}

	return Undefined(), pkg.ErrType.At(n.Pos.Line, n.Pos.Column).With(
		slog.String("name", n.ID.String(e.in)),
		slog.String("reason", "not a list"),
		slog.String("kind", target.Kind.String()),
	)
}
