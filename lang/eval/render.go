package eval

import (
	"slices"
	"strconv"
	"strings"
)

// Render returns the human-readable form of v used by print and str.
// Strings and chars nested in lists and instances are quoted.
func (e *Evaluator) Render(v Value) string {
	var sb strings.Builder

	e.render(&sb, v, false, make(map[Handle]bool))

	return sb.String()
}

func (e *Evaluator) render(sb *strings.Builder, v Value, nested bool, seen map[Handle]bool) {
	switch v.Kind {
	case KindUndefined:
		sb.WriteString("undefined")

	case KindNumber:
		sb.WriteString(strconv.FormatFloat(float64(v.Num), 'g', -1, 32))

	case KindString:
		if nested {
			sb.WriteString(strconv.Quote(v.Str))
		} else {
			sb.WriteString(v.Str)
		}

	case KindChar:
		if nested {
			sb.WriteString(strconv.QuoteRune(v.Char))
		} else {
			sb.WriteRune(v.Char)
		}

	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))

	case KindList:
		if seen[v.Handle] {
			sb.WriteString("[...]")

			return
		}

		seen[v.Handle] = true
		defer delete(seen, v.Handle)

		sb.WriteByte('[')

		for j, elem := range e.Elements(v) {
			if j > 0 {
				sb.WriteString(", ")
			}

			e.render(sb, elem, true, seen)
		}

		sb.WriteByte(']')

	case KindInstance:
		sb.WriteString(e.in.Resolve(v.Callable.Name))

		if seen[v.Handle] {
			sb.WriteString("{...}")

			return
		}

		seen[v.Handle] = true
		defer delete(seen, v.Handle)

		sb.WriteByte('{')

		for j, field := range e.fields(v) {
			if j > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(field.name)
			sb.WriteString(": ")
			e.render(sb, field.value, true, seen)
		}

		sb.WriteByte('}')

	case KindFunc:
		sb.WriteByte('<')
		sb.WriteString(callableKind(v.Callable.Kind))
		sb.WriteByte(' ')
		sb.WriteString(e.in.Resolve(v.Callable.Name))
		sb.WriteByte('>')
	}
}

type field struct {
	name  string
	value Value
}

// fields returns the owned variables of an instance sorted by name.
func (e *Evaluator) fields(v Value) []field {
	fields := make([]field, 0)

	for sym, vr := range e.store.Scope(v.Handle, 0) {
		if !vr.IsReference() {
			fields = append(fields, field{name: e.in.Resolve(sym), value: vr.Value()})
		}
	}

	slices.SortFunc(fields, func(a, b field) int {
		return strings.Compare(a.name, b.name)
	})

	return fields
}

// TypeName returns the name of the type of v. Instances are named by their
// struct.
func (e *Evaluator) TypeName(v Value) string {
	switch v.Kind {
	case KindInstance:
		return e.in.Resolve(v.Callable.Name)

	case KindFunc:
		return callableKind(v.Callable.Kind)
	}

	return v.Kind.String()
}

func callableKind(k CallableKind) string {
	switch k {
	case CallNative:
		return "builtin"

	case CallStruct:
		return "struct"

	default:
		return "function"
	}
}
