package ast

import (
	"log/slog"
	"strings"

	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// IDKind distinguishes a simple name from a dotted member path.
type IDKind uint8

const (
	// IDLiteral is a single-component name.
	IDLiteral IDKind = iota

	// IDMember is a member link: the parent path followed by one component.
	IDMember
)

// String returns a string representation of the identifier kind.
func (k IDKind) String() string {
	switch k {
	case IDLiteral:
		return "Literal"

	case IDMember:
		return "Member"

	default:
		return "Unknown"
	}
}

// ID is an identifier path over interned components.
//
// A Literal ID names one component. A Member ID links a parent ID to a final
// member component, so "a.b.c" is Member{Member{Literal a, b}, c}: the first
// segment is the innermost parent.
type ID struct {
	parent *ID
	sym    intern.Symbol
}

// Literal returns a single-component ID.
func Literal(sym intern.Symbol) ID { return ID{sym: sym} }

// Member returns the ID formed by appending member to parent.
func Member(parent ID, member intern.Symbol) ID {
	return ID{parent: &parent, sym: member}
}

// MakeID folds path into an ID. It panics if path is empty.
func MakeID(path ...intern.Symbol) ID {
	if len(path) == 0 {
		panic("ast: empty identifier path")
	}

	id := Literal(path[0])
	for _, sym := range path[1:] {
		id = Member(id, sym)
	}

	return id
}

// ParseID splits text on '.' and interns each segment.
// Empty segments (leading, trailing, or doubled dots) are rejected.
func ParseID(in *intern.Interner, text string) (ID, error) {
	segs := strings.Split(text, ".")
	path := make([]intern.Symbol, 0, len(segs))

	for _, seg := range segs {
		if seg == "" {
			return ID{}, pkg.ErrParse.With(
				slog.String("identifier", text),
				slog.String("reason", "empty path segment"),
			)
		}

		path = append(path, in.Intern(seg))
	}

	return MakeID(path...), nil
}

// Kind reports whether id is a Literal or a Member.
func (id ID) Kind() IDKind {
	if id.parent == nil {
		return IDLiteral
	}

	return IDMember
}

// IsMember reports whether id has more than one component.
func (id ID) IsMember() bool { return id.parent != nil }

// Symbol returns the final component of id.
func (id ID) Symbol() intern.Symbol { return id.sym }

// Parent returns the path preceding the final component of a Member ID.
func (id ID) Parent() (ID, bool) {
	if id.parent == nil {
		return ID{}, false
	}

	return *id.parent, true
}

// Len returns the number of components in id.
func (id ID) Len() int {
	n := 1
	for p := id.parent; p != nil; p = p.parent {
		n++
	}

	return n
}

// Path flattens id into its ordered components, first segment first.
func (id ID) Path() []intern.Symbol {
	path := make([]intern.Symbol, id.Len())

	cur := &id
	for i := len(path) - 1; i >= 0; i-- {
		path[i] = cur.sym
		cur = cur.parent
	}

	return path
}

// Equal reports whether id and other have the same path.
func (id ID) Equal(other ID) bool {
	a, b := &id, &other
	for a != nil && b != nil {
		if a.sym != b.sym {
			return false
		}

		a, b = a.parent, b.parent
	}

	return a == nil && b == nil
}

// String renders id as dotted text using in.
func (id ID) String(in *intern.Interner) string {
	path := id.Path()
	segs := make([]string, len(path))

	for i, sym := range path {
		segs[i] = in.Resolve(sym)
	}

	return strings.Join(segs, ".")
}
