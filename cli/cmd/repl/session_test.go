package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/log"
	"github.com/ardnew/ly/pkg"
)

func quiet() log.Logger { return log.Make(io.Discard) }

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"", false},
		{"let x = 1", false},
		{"func f x do", true},
		{"func f x do\nreturn x\nend", false},
		{"if x do\nprint(1)\nelse do", true},
		{"if x do\nprint(1)\nelse do\nprint(2)\nend", false},
		{"let xs = [1,", true},
		{"print(1,", true},
		{"print(1, 2)", false},
		{`let s = "unterminated`, false},
	}

	for _, tt := range tests {
		if got := Incomplete(tt.src); got != tt.want {
			t.Errorf("Incomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestSessionFeed(t *testing.T) {
	s := NewSession(quiet(), lang.WithoutStd())
	ctx := t.Context()

	res, err := s.Feed(ctx, "func sq x do")
	if err != nil || !res.More || !s.Pending() {
		t.Fatalf("Feed(open block) = %+v, %v, pending %v", res, err, s.Pending())
	}

	if res, err = s.Feed(ctx, "  return x * x"); err != nil || !res.More {
		t.Fatalf("Feed(body) = %+v, %v", res, err)
	}

	if res, err = s.Feed(ctx, "end"); err != nil || res.More || s.Pending() {
		t.Fatalf("Feed(end) = %+v, %v", res, err)
	}

	res, err = s.Feed(ctx, "print(sq(3)); sq(4)")
	if err != nil {
		t.Fatal(err)
	}

	if res.Output != "9\n" || res.Value != "16" {
		t.Errorf("Feed(call) = %+v, want output 9 and value 16", res)
	}

	if s.Last() != "print(sq(3)); sq(4)" {
		t.Errorf("Last() = %q", s.Last())
	}
}

func TestSessionKeepsState(t *testing.T) {
	s := NewSession(quiet(), lang.WithoutStd())

	if _, err := s.Feed(t.Context(), "let n = 2"); err != nil {
		t.Fatal(err)
	}

	_, err := s.Feed(t.Context(), "let n = 3")
	if !errors.Is(err, pkg.ErrRedeclaration) {
		t.Errorf("redeclaration error = %v", err)
	}

	res, err := s.Feed(t.Context(), "n + 1")
	if err != nil || res.Value != "3" {
		t.Errorf("n + 1 = %+v, %v", res, err)
	}
}

func TestSessionError(t *testing.T) {
	s := NewSession(quiet(), lang.WithoutStd())

	res, err := s.Feed(t.Context(), `print("before"); undefinedName`)
	if !errors.Is(err, pkg.ErrResolution) {
		t.Fatalf("error = %v, want ErrResolution", err)
	}

	if res.Output != "before\n" {
		t.Errorf("output = %q, want output printed before the error", res.Output)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession(quiet(), lang.WithoutStd())

	if _, err := s.Feed(t.Context(), "while true do"); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if s.Pending() {
		t.Fatal("Pending() after Reset")
	}

	res, err := s.Feed(t.Context(), "1 + 1")
	if err != nil || res.Value != "2" {
		t.Errorf("after Reset: %+v, %v", res, err)
	}
}

func TestLines(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"func greet do",
		`  let who = input()`,
		`  print("hi " + who)`,
		"end",
		"greet()",
		"world",
		"missing",
		"len([1, 2, 3])",
	}, "\n"))

	var out, errOut bytes.Buffer

	cfg := Config{Logger: quiet(), Options: []lang.Option{lang.WithoutStd()}}
	if err := Lines(t.Context(), cfg, in, &out, &errOut, false); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "hi world\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if !strings.Contains(errOut.String(), "resolution error") {
		t.Errorf("errors = %q, want a resolution error", errOut.String())
	}
}

func TestLinesUnfinished(t *testing.T) {
	var out, errOut bytes.Buffer

	cfg := Config{Logger: quiet(), Options: []lang.Option{lang.WithoutStd()}}
	if err := Lines(t.Context(), cfg, strings.NewReader("func f do\n"), &out, &errOut, true); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out.String(), evalPrompt+morePrompt) {
		t.Errorf("prompts = %q", out.String())
	}

	if !strings.Contains(errOut.String(), "parse error") {
		t.Errorf("errors = %q, want a parse error", errOut.String())
	}
}
