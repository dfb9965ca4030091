package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ly/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input      string
		cursor     int
		word       string
		start, end int
	}{
		{"", 0, "", 0, 0},
		{"pri", 3, "pri", 0, 3},
		{"print(le", 8, "le", 6, 8},
		{"a + shapes.ar", 13, "ar", 11, 13},
		{"foo bar", 2, "foo", 0, 3},
		{"x = ", 4, "", 4, 4},
		{"héllo", 99, "héllo", 0, 6},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("wordBounds(%q, %d) = %q, %d, %d; want %q, %d, %d",
				tt.input, tt.cursor, word, start, end, tt.word, tt.start, tt.end)
		}
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ti", ""},
		{"x + shapes.util.ti", "shapes.util"},
		{"print(p.x", "p"},
		{"p.", "p"},
		{"a b", ""},
	}

	for _, tt := range tests {
		_, start, _ := wordBounds(tt.input, len(tt.input))
		if got := parentPath(tt.input, start); got != tt.want {
			t.Errorf("parentPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEnclosingCall(t *testing.T) {
	tests := []struct {
		input string
		name  string
		arg   int
		ok    bool
	}{
		{"add(", "add", 0, true},
		{"add(1, ", "add", 1, true},
		{"add(f(1, 2), ", "add", 1, true},
		{"m.add(1, [2, 3], ", "m.add", 2, true},
		{"add(1)", "", 0, false},
		{"(1 + ", "", 0, false},
		{"let x = 1", "", 0, false},
	}

	for _, tt := range tests {
		c, ok := enclosingCall(tt.input, len(tt.input))
		if ok != tt.ok || c.name != tt.name || c.arg != tt.arg {
			t.Errorf("enclosingCall(%q) = %+v, %v; want %s/%d, %v",
				tt.input, c, ok, tt.name, tt.arg, tt.ok)
		}
	}
}

func session(t *testing.T, src string) *lang.Interpreter {
	t.Helper()

	s := NewSession(quiet(), lang.WithoutStd())
	if _, err := s.Exec(t.Context(), src); err != nil {
		t.Fatal(err)
	}

	return s.Interpreter()
}

func matched(c completion) []string {
	out := make([]string, len(c.matches))
	for i, m := range c.matches {
		out[i] = m.Str
	}

	return out
}

func TestComplete(t *testing.T) {
	interp := session(t, `
struct Point do
	let x = 0
	let y = 0
end
func area w h do return w * h end
let origin = new Point {}
`)

	got := matched(complete(interp, modeEval, "are", 3))
	if len(got) == 0 || got[0] != "area" {
		t.Errorf("complete(are) = %v, want area first", got)
	}

	got = matched(complete(interp, modeEval, "origin.", 7))
	if !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("complete(origin.) = %v, want [x y]", got)
	}

	if got := matched(complete(interp, modeEval, "", 0)); len(got) != 0 {
		t.Errorf("complete(empty) = %v, want none", got)
	}

	got = matched(complete(interp, modeEval, "whi", 3))
	if !slices.Contains(got, "while") {
		t.Errorf("complete(whi) = %v, want keyword while", got)
	}

	got = matched(complete(interp, modeCtrl, "qu", 2))
	if !slices.Equal(got, []string{"quit"}) {
		t.Errorf("complete(ctrl qu) = %v, want [quit]", got)
	}

	if got := matched(complete(interp, modeCtrl, "edit qu", 7)); len(got) != 0 {
		t.Errorf("complete(ctrl argument) = %v, want none", got)
	}
}

func TestParams(t *testing.T) {
	interp := session(t, `func area w h do return w * h end`)

	if p, ok := params(interp, "area"); !ok || !slices.Equal(p, []string{"w", "h"}) {
		t.Errorf("params(area) = %v, %v", p, ok)
	}

	if p, ok := params(interp, "push"); !ok || !slices.Equal(p, []string{"list", "value"}) {
		t.Errorf("params(push) = %v, %v", p, ok)
	}

	if _, ok := params(interp, "nothing"); ok {
		t.Error("params(nothing) ok")
	}
}

func TestRenderSignature(t *testing.T) {
	got := renderSignature("print", []string{"values..."}, 3)
	if !strings.Contains(got, "print") || !strings.Contains(got, "values...") {
		t.Errorf("renderSignature = %q", got)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	c := completion{source: candidates{{name: "alpha"}, {name: "beta", call: true}}}

	if got := renderCandidateBar(c, 0, false, 80); got != "" {
		t.Errorf("bar without matches = %q", got)
	}

	c.matches = fuzzy.FindFrom("a", c.source)

	if got := renderCandidateBar(c, 0, false, 10); !strings.HasSuffix(got, "...") {
		t.Errorf("narrow bar = %q, want it cut off", got)
	}
}
