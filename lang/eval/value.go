package eval

import (
	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNumber
	KindString
	KindChar
	KindBool
	KindList
	KindInstance
	KindFunc
)

var kindName = [...]string{
	KindUndefined: "undefined",
	KindNumber:    "number",
	KindString:    "string",
	KindChar:      "char",
	KindBool:      "bool",
	KindList:      "list",
	KindInstance:  "instance",
	KindFunc:      "function",
}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}

	return "unknown"
}

// Value is a runtime value. Only the fields of its Kind are meaningful:
// Num for numbers, Str for strings, Char, Bool, Handle for lists, Handle and
// Callable (the struct definition) for instances, and Callable for functions.
//
// Lists and instances are copied by handle, so every copy of such a value
// refers to the same backing container.
type Value struct {
	Str      string
	Callable Callable
	Num      float32
	Char     rune
	Handle   Handle
	Kind     Kind
	Bool     bool
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{Kind: KindUndefined, Handle: NoHandle} }

// Number returns a numeric value.
func Number(n float32) Value { return Value{Kind: KindNumber, Num: n, Handle: NoHandle} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s, Handle: NoHandle} }

// Char returns a character value.
func Char(r rune) Value { return Value{Kind: KindChar, Char: r, Handle: NoHandle} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b, Handle: NoHandle} }

// List returns a list value backed by the container h.
func List(h Handle) Value { return Value{Kind: KindList, Handle: h} }

// Instance returns an instance of the struct def backed by the container h.
func Instance(def Callable, h Handle) Value {
	return Value{Kind: KindInstance, Callable: def, Handle: h}
}

// Func returns a callable value.
func Func(c Callable) Value { return Value{Kind: KindFunc, Callable: c, Handle: NoHandle} }

// IsContainer reports whether v is backed by a container that a member path
// can descend into.
func (v Value) IsContainer() bool {
	return v.Kind == KindList || v.Kind == KindInstance
}

// Equal reports whether v and w are the same kind and hold the same value.
// Lists and instances are equal only when they share a container.
func (v Value) Equal(w Value) bool {
	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case KindUndefined:
		return true

	case KindNumber:
		return v.Num == w.Num

	case KindString:
		return v.Str == w.Str

	case KindChar:
		return v.Char == w.Char

	case KindBool:
		return v.Bool == w.Bool

	case KindList, KindInstance:
		return v.Handle == w.Handle

	case KindFunc:
		return v.Callable == w.Callable
	}

	return false
}

// CallableKind distinguishes the implementations a [Callable] can refer to.
type CallableKind uint8

const (
	// CallNative is a builtin implemented in Go and found in the registry.
	CallNative CallableKind = iota
	// CallFunction is a script function definition.
	CallFunction
	// CallStruct is a struct definition; calling it creates an instance.
	CallStruct
)

// Callable refers to a function, struct, or builtin definition. Definitions
// are shared and never copied: a Callable names the defining node in the
// tree rather than holding it.
type Callable struct {
	Node  ast.Index     // Function or Struct node; ast.Nil for natives
	Scope Handle        // container the definition was installed in
	Name  intern.Symbol // registry key for natives, declared name otherwise
	Kind  CallableKind
}
