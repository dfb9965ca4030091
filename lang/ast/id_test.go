package ast

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

func TestParseIDLiteral(t *testing.T) {
	in := intern.New()

	id, err := ParseID(in, "x")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}

	if id.Kind() != IDLiteral || id.IsMember() {
		t.Errorf("expected Literal, got %v", id.Kind())
	}

	if got := id.String(in); got != "x" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseIDMemberChain(t *testing.T) {
	in := intern.New()

	id, err := ParseID(in, "mod1.mod2.fn")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}

	if id.Kind() != IDMember {
		t.Fatalf("expected Member, got %v", id.Kind())
	}

	if got := in.Resolve(id.Symbol()); got != "fn" {
		t.Errorf("final component = %q, want fn", got)
	}

	parent, ok := id.Parent()
	if !ok || parent.String(in) != "mod1.mod2" {
		t.Errorf("parent = %q, %v", parent.String(in), ok)
	}

	innermost, ok := parent.Parent()
	if !ok || innermost.Kind() != IDLiteral || in.Resolve(innermost.Symbol()) != "mod1" {
		t.Errorf("innermost parent = %q", innermost.String(in))
	}

	want := []intern.Symbol{in.Intern("mod1"), in.Intern("mod2"), in.Intern("fn")}
	if got := id.Path(); !slices.Equal(got, want) {
		t.Errorf("Path() = %v, want %v", got, want)
	}

	if id.Len() != 3 {
		t.Errorf("Len() = %d", id.Len())
	}
}

func TestParseIDRejectsEmptySegments(t *testing.T) {
	in := intern.New()

	for _, text := range []string{"", ".a", "a.", "a..b"} {
		if _, err := ParseID(in, text); !errors.Is(err, pkg.ErrParse) {
			t.Errorf("ParseID(%q) error = %v, want ErrParse", text, err)
		}
	}
}

func TestIDEqual(t *testing.T) {
	in := intern.New()
	a, _ := ParseID(in, "list.0")
	b := MakeID(in.Intern("list"), in.Intern("0"))
	c, _ := ParseID(in, "list")

	if !a.Equal(b) {
		t.Error("equal paths compare unequal")
	}

	if a.Equal(c) || c.Equal(a) {
		t.Error("different-length paths compare equal")
	}
}

func TestTreeArena(t *testing.T) {
	in := intern.New()
	tree := NewTree()
	pos := Pos{Line: 1, Column: 1}

	x := MakeID(in.Intern("x"))
	lhs := tree.Number(pos, 1)
	rhs := tree.Number(pos, 2)
	sum := tree.Op(pos, lhs, OpAdd, rhs)
	decl := tree.Declare(pos, x, sum)
	root := tree.Block(pos, decl)

	if tree.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tree.Len())
	}

	n := tree.Node(root)
	if n.Kind != KindBlock || len(n.Children) != 1 || n.Children[0] != decl {
		t.Errorf("unexpected block %+v", n)
	}

	var children []Index
	for c := range tree.Children(sum) {
		children = append(children, c)
	}

	if !slices.Equal(children, []Index{lhs, rhs}) {
		t.Errorf("Children(op) = %v", children)
	}

	native, ok := tree.ToNative(in, root).(map[string]any)
	if !ok || native["kind"] != "Block" {
		t.Errorf("ToNative(root) = %#v", native)
	}
}

func TestNodeIndexOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for dangling index")
		}
	}()

	NewTree().Node(3)
}

func TestParseOperator(t *testing.T) {
	for _, op := range []Operator{OpAdd, OpSub, OpMul, OpDiv, OpPow, OpLT, OpLE, OpGT, OpGE, OpEQ, OpNE, OpAnd, OpOr} {
		got, ok := ParseOperator(op.String())
		if !ok || got != op {
			t.Errorf("ParseOperator(%q) = %v, %v", op.String(), got, ok)
		}
	}

	if _, ok := ParseOperator("%"); ok {
		t.Error("ParseOperator(%) reported ok")
	}
}
