package eval

// Globals returns the owned variables among the globals of the root
// container, converted with [Evaluator.ToNative].
func (e *Evaluator) Globals() map[string]any {
	env := make(map[string]any)

	for sym, v := range e.store.Scope(Root, 0) {
		if !v.IsReference() {
			env[e.in.Resolve(sym)] = e.ToNative(v.Value())
		}
	}

	return env
}

// ToNative converts v to a plain Go value: float64, string, bool, nil,
// []any for lists, and map[string]any for instances. Chars become
// single-character strings and functions become their names.
func (e *Evaluator) ToNative(v Value) any {
	return e.toNative(v, make(map[Handle]bool))
}

func (e *Evaluator) toNative(v Value, seen map[Handle]bool) any {
	switch v.Kind {
	case KindNumber:
		return float64(v.Num)

	case KindString:
		return v.Str

	case KindChar:
		return string(v.Char)

	case KindBool:
		return v.Bool

	case KindList:
		if seen[v.Handle] {
			return nil
		}

		seen[v.Handle] = true
		defer delete(seen, v.Handle)

		elems := e.Elements(v)

		out := make([]any, len(elems))
		for j, elem := range elems {
			out[j] = e.toNative(elem, seen)
		}

		return out

	case KindInstance:
		if seen[v.Handle] {
			return nil
		}

		seen[v.Handle] = true
		defer delete(seen, v.Handle)

		out := make(map[string]any)
		for _, f := range e.fields(v) {
			out[f.name] = e.toNative(f.value, seen)
		}

		return out

	case KindFunc:
		return e.in.Resolve(v.Callable.Name)
	}

	return nil
}

// fromNative converts a result of an expr-lang program back to a value.
func fromNative(h Host, x any) (Value, bool) {
	switch x := x.(type) {
	case nil:
		return Undefined(), true

	case bool:
		return Bool(x), true

	case string:
		return String(x), true

	case float64:
		return Number(float32(x)), true

	case float32:
		return Number(x), true

	case int:
		return Number(float32(x)), true

	case int64:
		return Number(float32(x)), true

	case int32:
		return Number(float32(x)), true

	case uint:
		return Number(float32(x)), true

	case uint64:
		return Number(float32(x)), true

	case []any:
		elems := make([]Value, len(x))

		for j, item := range x {
			v, ok := fromNative(h, item)
			if !ok {
				return Undefined(), false
			}

			elems[j] = v
		}

		return h.NewList(elems...), true
	}

	return Undefined(), false
}
