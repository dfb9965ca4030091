package eval

import (
	"context"
	"log/slog"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// callNode evaluates a call expression. Arguments are evaluated in the
// caller's context before control passes to the callee.
func (e *Evaluator) callNode(ctx context.Context, n ast.Node) (Value, error) {
	if err := interrupted(ctx); err != nil {
		return Undefined(), err
	}

	name := n.ID.String(e.in)

	callee, err := e.Get(n.ID)
	if err != nil {
		return Undefined(), err
	}

	if callee.Kind != KindFunc {
		return Undefined(), pkg.ErrType.At(n.Pos.Line, n.Pos.Column).With(
			slog.String("name", name),
			slog.String("reason", "not callable"),
			slog.String("kind", callee.Kind.String()),
		)
	}

	args := make([]Value, len(n.Children))

	defer e.unpin(e.pinned())
	e.pin(callee)

	for j, c := range n.Children {
		v, err := e.eval(ctx, c)
		if err != nil {
			return Undefined(), err
		}

		e.pin(v)
		args[j] = v
	}

	v, err := e.Call(ctx, callee.Callable, args...)
	if err != nil {
		return Undefined(), pkg.Within(err, "call "+name,
			slog.Int("line", n.Pos.Line),
			slog.Int("column", n.Pos.Column),
		)
	}

	return v, nil
}

// Call invokes c with args. Script functions run one frame deeper than the
// caller, in the container they were defined in; calling a struct creates an
// instance of it.
func (e *Evaluator) Call(ctx context.Context, c Callable, args ...Value) (Value, error) {
	e.logger.TraceContext(ctx, "call",
		slog.String("name", e.in.Resolve(c.Name)),
		slog.Int("args", len(args)),
		slog.Int("scope", e.scope),
	)

	defer e.unpin(e.pinned())
	e.pin(Func(c))

	for _, v := range args {
		e.pin(v)
	}

	switch c.Kind {
	case CallNative:
		fn, ok := e.natives[c.Name]
		if !ok {
			return Undefined(), pkg.ErrResolution.With(
				slog.String("name", e.in.Resolve(c.Name)),
				slog.String("reason", "builtin not registered"),
			)
		}

		return fn(ctx, e, args)

	case CallFunction:
		return e.callFunction(ctx, c, args)

	case CallStruct:
		if len(args) != 0 {
			return Undefined(), errArity(e.in.Resolve(c.Name), 0, len(args))
		}

		return e.instantiate(ctx, c, nil)
	}

	return Undefined(), pkg.ErrType.With(slog.String("reason", "not callable"))
}

func (e *Evaluator) callFunction(
	ctx context.Context,
	c Callable,
	args []Value,
) (Value, error) {
	fn := e.tree.Node(c.Node)
	if len(args) != len(fn.Params) {
		return Undefined(), errArity(e.in.Resolve(c.Name), len(fn.Params), len(args))
	}

	active, scope := e.active, e.scope

	// Frames of the callee's container below its current top may belong to
	// calls still in progress, so the body starts above them.
	depth := max(scope+1, e.store.Scopes(c.Scope))
	e.active, e.scope = c.Scope, depth

	defer func() {
		e.store.Truncate(c.Scope, depth)
		e.active, e.scope = active, scope
	}()

	for j, param := range fn.Params {
		if err := e.declareIn(c.Scope, param, variableOf(args[j])); err != nil {
			return Undefined(), err
		}
	}

	v, ret, err := e.exec(ctx, fn.Body)
	if err != nil {
		return Undefined(), err
	}

	if !ret {
		return Undefined(), nil
	}

	return v, nil
}

func errArity(name string, want, got int) error {
	return pkg.ErrArity.With(
		slog.String("name", name),
		slog.Int("expected", want),
		slog.Int("got", got),
	)
}

// fieldInit is a field initializer of an instantiation, evaluated in the
// context of the instantiating code.
type fieldInit struct {
	name  intern.Symbol
	value Value
	pos   ast.Pos
}

func (e *Evaluator) newInstance(ctx context.Context, n ast.Node) (Value, error) {
	def, err := e.Get(n.ID)
	if err != nil {
		return Undefined(), err
	}

	if def.Kind != KindFunc || def.Callable.Kind != CallStruct {
		return Undefined(), pkg.ErrType.At(n.Pos.Line, n.Pos.Column).With(
			slog.String("name", n.ID.String(e.in)),
			slog.String("reason", "not a struct"),
		)
	}

	inits := make([]fieldInit, len(n.Children))

	defer e.unpin(e.pinned())
	e.pin(def)

	for j, c := range n.Children {
		f := e.tree.Node(c)

		v, err := e.eval(ctx, f.Value)
		if err != nil {
			return Undefined(), err
		}

		e.pin(v)

		inits[j] = fieldInit{name: f.ID.Symbol(), value: v, pos: f.Pos}
	}

	return e.instantiate(ctx, def.Callable, inits)
}

// instantiate runs the body of the struct def in a new container and then
// applies inits to the fields it declared.
func (e *Evaluator) instantiate(
	ctx context.Context,
	def Callable,
	inits []fieldInit,
) (Value, error) {
	h := e.store.New(def.Scope)

	active, scope, pins := e.active, e.scope, e.pinned()
	e.active, e.scope = h, 0
	e.pins = append(e.pins, h)

	defer func() {
		e.active, e.scope = active, scope
		e.unpin(pins)
	}()

	if _, _, err := e.exec(ctx, e.tree.Node(def.Node).Body); err != nil {
		return Undefined(), pkg.Within(err, "new "+e.in.Resolve(def.Name))
	}

	for _, f := range inits {
		depth, ok := e.store.Find(h, f.name)
		if !ok {
			return Undefined(), pkg.ErrResolution.At(f.pos.Line, f.pos.Column).With(
				slog.String("struct", e.in.Resolve(def.Name)),
				slog.String("field", e.in.Resolve(f.name)),
				slog.String("reason", "unknown field"),
			)
		}

		e.store.Set(h, depth, f.name, variableOf(f.value))
	}

	return Instance(def, h), nil
}
