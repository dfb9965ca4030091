package eval

import (
	"strings"
	"testing"

	"github.com/ardnew/ly/lang/intern"
)

func TestStoreCollect(t *testing.T) {
	in := intern.New()
	s := NewStore()

	if s.Parent(Root) != Prelude || s.Parent(Prelude) != NoHandle {
		t.Fatalf("root parent = %d, prelude parent = %d", s.Parent(Root), s.Parent(Prelude))
	}

	kept := s.NewList()
	inner := s.NewList()
	s.Set(kept, 0, in.Intern("0"), Owned(List(inner)))
	s.Declare(Root, 0, in.Intern("kept"), Owned(List(kept)))

	garbage := s.NewList()
	pinned := s.New(Root)

	if n := s.Collect(pinned); n != 1 {
		t.Fatalf("Collect() = %d, want 1", n)
	}

	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}

	if h := s.New(NoHandle); h != garbage {
		t.Errorf("New() = %d, want reused handle %d", h, garbage)
	}

	if s.IsList(garbage) {
		t.Error("reused container is still a list")
	}

	if n := s.Collect(); n != 2 {
		t.Errorf("Collect() without pins = %d, want 2", n)
	}

	if !s.IsList(inner) {
		t.Error("list reachable through another list was reclaimed")
	}
}

func TestStoreCollectCycle(t *testing.T) {
	in := intern.New()
	s := NewStore()

	a := s.NewList()
	b := s.NewList()
	s.Set(a, 0, in.Intern("0"), Owned(List(b)))
	s.Set(b, 0, in.Intern("0"), Owned(List(a)))

	if n := s.Collect(); n != 2 {
		t.Errorf("Collect() = %d, want 2", n)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("reclaimed handle did not panic")
		}
	}()

	s.Scopes(a)
}

// TestContainersBounded runs loops that allocate a container on every
// iteration and checks the arena stays small.
func TestContainersBounded(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"list", `let i = 0; while i < 1000 do; let xs = [1, 2, 3]; i = i + 1; end`},
		{"returned", `
func f do return [1, [2, 3]] end
let i = 0
while i < 1000 do
	let r = f()
	i = i + 1
end`},
		{"instance", `
struct P do let x = 0 end
let i = 0
while i < 1000 do
	let p = new P { x = i }
	i = i + 1
end`},
		{"reassigned", `let xs = []; let i = 0; while i < 1000 do; xs = [i]; i = i + 1; end`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := run(t, tt.src)

			if n := e.store.Len(); n > 2*minCollect {
				t.Errorf("Len() = %d after 1000 iterations, want at most %d", n, 2*minCollect)
			}
		})
	}
}

func TestCollectKeepsReachable(t *testing.T) {
	e := run(t, `
struct P do let x = 0 end
let keep = []
let i = 0
while i < 300 do
	let q = new P { x = i }
	push(keep, [i, q])
	let junk = [i, i]
	i = i + 1
end
let last = keep[299]
let p = last[1]
let n = len(keep)
`)
	if n := number(t, e, "n"); n != 300 {
		t.Errorf("len(keep) = %v, want 300", n)
	}

	if got := e.Render(lookup(t, e, "last")); !strings.HasPrefix(got, "[299, P{x: 299}") {
		t.Errorf("keep[299] = %s", got)
	}

	for j, v := range e.Elements(lookup(t, e, "keep")) {
		if pair := e.Elements(v); len(pair) != 2 || pair[0].Num != float32(j) {
			t.Fatalf("keep[%d] = %s", j, e.Render(v))
		}
	}
}

// TestCollectPinsTemporaries allocates enough inside a call to trigger a
// collection while the caller still holds an unnamed list.
func TestCollectPinsTemporaries(t *testing.T) {
	e := run(t, `
func churn do
	let i = 0
	while i < 500 do
		let junk = [i]
		i = i + 1
	end
	return 7
end
func pair a b do return [a, b] end
let r = pair([1, 2], churn())
let s = [[3, 4], churn()]
`)
	if got := e.Render(lookup(t, e, "r")); got != "[[1, 2], 7]" {
		t.Errorf("r = %s, want [[1, 2], 7]", got)
	}

	if got := e.Render(lookup(t, e, "s")); got != "[[3, 4], 7]" {
		t.Errorf("s = %s, want [[3, 4], 7]", got)
	}
}

func TestReturnListLiteral(t *testing.T) {
	e := run(t, `
let shared = [1]
func f do return [shared, [2]] end
let r = f()
push(shared, 9)
let inner = r[0]
let n = len(inner)
`)
	if n := number(t, e, "n"); n != 1 {
		t.Errorf("len(r[0]) = %v, want 1; returned list aliases shared", n)
	}

	// Root and prelude, plus the two lists of the literal.
	e = run(t, `func g do return [1, [2, 3]] end; let r = g()`)
	if n := e.store.Len(); n != 4 {
		t.Errorf("Len() = %d after returning a literal, want 4", n)
	}
}
