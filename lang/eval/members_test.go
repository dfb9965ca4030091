package eval

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/ly/pkg"
)

func names(ms []Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}

	return out
}

func TestMembers(t *testing.T) {
	e := run(t, `
		struct Point do
			let x = 0
			let y = 0
		end
		func add a b do
			return a + b
		end
		let p = new Point { x = 3 }
		let xs = [1, 2]
	`)

	top, err := e.Members("")
	if err != nil {
		t.Fatal(err)
	}

	got := names(top)
	for _, want := range []string{"Point", "add", "p", "xs", "print", "len"} {
		if !slices.Contains(got, want) {
			t.Errorf("Members(\"\") = %v, missing %s", got, want)
		}
	}

	if !slices.IsSorted(got) {
		t.Errorf("Members(\"\") not sorted: %v", got)
	}

	fields, err := e.Members("p")
	if err != nil {
		t.Fatal(err)
	}

	if got := names(fields); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("Members(p) = %v, want [x y]", got)
	}

	if fields[0].Kind != KindNumber {
		t.Errorf("p.x kind = %v", fields[0].Kind)
	}

	elems, err := e.Members("xs")
	if err != nil {
		t.Fatal(err)
	}

	if got := names(elems); !slices.Equal(got, []string{"0", "1"}) {
		t.Errorf("Members(xs) = %v", got)
	}

	for _, bad := range []string{"nowhere", "add", "p.x"} {
		if _, err := e.Members(bad); !errors.Is(err, pkg.ErrResolution) {
			t.Errorf("Members(%q) error = %v, want ErrResolution", bad, err)
		}
	}
}

func TestParams(t *testing.T) {
	e := run(t, `
		func add a b do
			return a + b
		end
		struct S do
		end
		let n = 1
	`)

	params, ok := e.Params("add")
	if !ok || !slices.Equal(params, []string{"a", "b"}) {
		t.Errorf("Params(add) = %v, %v", params, ok)
	}

	for _, name := range []string{"print", "S", "n", "missing"} {
		if _, ok := e.Params(name); ok {
			t.Errorf("Params(%q) reported a script function", name)
		}
	}
}
