package eval

// Variable is the content of a frame slot. An owned variable holds a value
// that is copied out on every read. A reference holds a shared [Callable]
// definition, which is never copied or mutated in place.
type Variable struct {
	value Value
	ref   bool
}

// Owned returns a variable owning v.
func Owned(v Value) Variable { return Variable{value: v} }

// Reference returns a variable referring to the definition c.
func Reference(c Callable) Variable {
	return Variable{value: Func(c), ref: true}
}

// variableOf stores callables by reference and everything else by value.
func variableOf(v Value) Variable {
	if v.Kind == KindFunc {
		return Reference(v.Callable)
	}

	return Owned(v)
}

// IsReference reports whether v refers to a shared definition.
func (v Variable) IsReference() bool { return v.ref }

// Value returns a copy of the value held by v.
func (v Variable) Value() Value { return v.value }
