package eval

import (
	"log/slog"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// resolve walks all but the last component of id, starting from the active
// container, and returns the container reached and the final component.
//
// Each intermediate component names either a module registered in the
// current container or a variable holding a list or instance, whose backing
// container becomes the current one. The first component may also be found
// in the globals of the lexical parents of the active container.
func (e *Evaluator) resolve(id ast.ID) (Handle, intern.Symbol, error) {
	path := id.Path()
	h := e.active

	for i, sym := range path[:len(path)-1] {
		next, err := e.descend(h, sym, i == 0)
		if err != nil {
			return NoHandle, 0, pkg.ErrResolution.With(
				slog.String("name", id.String(e.in)),
				slog.String("component", e.in.Resolve(sym)),
			).Wrap(err)
		}

		h = next
	}

	return h, path[len(path)-1], nil
}

func (e *Evaluator) descend(h Handle, sym intern.Symbol, fallback bool) (Handle, error) {
	for c := h; c != NoHandle; c = e.store.Parent(c) {
		if m, err := e.store.Module(c, sym); err == nil {
			return m, nil
		}

		var (
			v  Variable
			ok bool
		)

		if c == h {
			v, ok = e.store.Get(c, sym)
		} else {
			v, ok = e.store.Lookup(c, 0, sym)
		}

		if ok {
			val := v.Value()
			if !val.IsContainer() {
				return NoHandle, pkg.ErrResolution.With(
					slog.String("reason", "not a module, instance, or list"),
					slog.String("kind", val.Kind.String()),
				)
			}

			return val.Handle, nil
		}

		if !fallback {
			break
		}
	}

	return NoHandle, pkg.ErrResolution.With(slog.String("reason", "not found"))
}

// lookup finds sym in h, innermost frame first. With fallback set, the
// globals of each lexical parent of h are searched next.
func (e *Evaluator) lookup(h Handle, sym intern.Symbol, fallback bool) (Variable, bool) {
	if v, ok := e.store.Get(h, sym); ok || !fallback {
		return v, ok
	}

	for p := e.store.Parent(h); p != NoHandle; p = e.store.Parent(p) {
		if v, ok := e.store.Lookup(p, 0, sym); ok {
			return v, true
		}
	}

	return Variable{}, false
}

// Get returns a copy of the value of the variable named by id.
func (e *Evaluator) Get(id ast.ID) (Value, error) {
	h, sym, err := e.resolve(id)
	if err != nil {
		return Undefined(), err
	}

	v, ok := e.lookup(h, sym, !id.IsMember())
	if !ok {
		return Undefined(), pkg.ErrResolution.With(
			slog.String("name", id.String(e.in)),
			slog.String("reason", "not found"),
		)
	}

	return v.Value(), nil
}

// Declare creates the variable named by id holding v. A variable is declared
// in the frame of the current depth when id resolves to the active
// container, and among the globals of any other container.
func (e *Evaluator) Declare(id ast.ID, v Value) error {
	h, sym, err := e.resolve(id)
	if err != nil {
		return err
	}

	return e.declareIn(h, sym, variableOf(v))
}

func (e *Evaluator) declareIn(h Handle, sym intern.Symbol, v Variable) error {
	if e.store.IsList(h) {
		return pkg.ErrResolution.With(
			slog.String("name", e.in.Resolve(sym)),
			slog.String("reason", "cannot declare in a list"),
		)
	}

	// A member path declares among the globals of its container whatever
	// the current depth, so the variable outlives the enclosing block.
	depth := 0
	if h == e.active {
		depth = e.scope
	}

	if !e.store.Declare(h, depth, sym, v) {
		return pkg.ErrRedeclaration.With(
			slog.String("name", e.in.Resolve(sym)),
			slog.Int("scope", depth),
		)
	}

	e.logger.Trace("declare",
		slog.String("name", e.in.Resolve(sym)),
		slog.Int("container", int(h)),
		slog.Int("scope", depth),
		slog.Bool("reference", v.IsReference()),
	)

	return nil
}

// Assign replaces the value of the innermost existing variable named by id.
func (e *Evaluator) Assign(id ast.ID, v Value) error {
	h, sym, err := e.resolve(id)
	if err != nil {
		return err
	}

	depth, ok := e.store.Find(h, sym)
	if !ok {
		return pkg.ErrResolution.With(
			slog.String("name", id.String(e.in)),
			slog.String("reason", "assignment to undeclared variable"),
		)
	}

	e.store.Set(h, depth, sym, variableOf(v))

	return nil
}

// enter increases the scope depth by one.
func (e *Evaluator) enter() { e.scope++ }

// exit decreases the scope depth by one and drops the frames deeper than
// the new depth.
func (e *Evaluator) exit() {
	e.scope--
	e.drop()
}

// drop removes every frame of the active container deeper than the current
// depth.
func (e *Evaluator) drop() {
	if n := e.store.Scopes(e.active); n > e.scope+1 {
		e.logger.Trace("drop",
			slog.Int("container", int(e.active)),
			slog.Int("scope", e.scope),
			slog.Int("frames", n-e.scope-1),
		)
	}

	e.store.Truncate(e.active, e.scope+1)
}

// dropHere empties the frame of the current depth.
func (e *Evaluator) dropHere() {
	e.store.Clear(e.active, e.scope)
}
