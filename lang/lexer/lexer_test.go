package lexer

import (
	"errors"
	"testing"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/pkg"
)

func kinds(toks []ast.Token) []ast.TokenKind {
	out := make([]ast.TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestLexStatement(t *testing.T) {
	toks, err := New([]byte(`let c = a + b * 2.5;`)).All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}

	want := []struct {
		kind ast.TokenKind
		text string
	}{
		{ast.TokenKeyword, "let"},
		{ast.TokenIdentifier, "c"},
		{ast.TokenPunct, "="},
		{ast.TokenIdentifier, "a"},
		{ast.TokenOperator, "+"},
		{ast.TokenIdentifier, "b"},
		{ast.TokenOperator, "*"},
		{ast.TokenNumber, "2.5"},
		{ast.TokenPunct, ";"},
		{ast.TokenEOF, ""},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), kinds(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d = %v %q, want %v %q", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}

	if toks[7].Num != 2.5 {
		t.Errorf("number value = %v", toks[7].Num)
	}
}

func TestLexLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.TokenKind
		str  string
	}{
		{`"hi\n"`, ast.TokenString, "hi\n"},
		{`'x'`, ast.TokenChar, "x"},
		{`'\t'`, ast.TokenChar, "\t"},
		{`true`, ast.TokenBool, ""},
		{`undefined`, ast.TokenUndefined, ""},
		{`xs.0`, ast.TokenIdentifier, ""},
		{`m.add`, ast.TokenIdentifier, ""},
		{`1e3`, ast.TokenNumber, ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tok, err := New([]byte(tt.src)).Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}

			if tok.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tok.Kind, tt.kind)
			}

			if tt.str != "" && tok.Str != tt.str {
				t.Errorf("str = %q, want %q", tok.Str, tt.str)
			}
		})
	}
}

func TestLexOperators(t *testing.T) {
	toks, err := New([]byte(`<= >= == != < > ^ - /`)).All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}

	want := []string{"<=", ">=", "==", "!=", "<", ">", "^", "-", "/"}
	for i, w := range want {
		if toks[i].Kind != ast.TokenOperator || toks[i].Text != w {
			t.Errorf("token %d = %v %q, want operator %q", i, toks[i].Kind, toks[i].Text, w)
		}
	}
}

func TestLexPositionsAndComments(t *testing.T) {
	src := "# leading comment\nlet x = 1; // trailing\n  x"

	toks, err := New([]byte(src)).All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}

	if toks[0].Pos != (ast.Pos{Line: 2, Column: 1}) {
		t.Errorf("let at %+v", toks[0].Pos)
	}

	last := toks[len(toks)-2]
	if last.Text != "x" || last.Pos != (ast.Pos{Line: 3, Column: 3}) {
		t.Errorf("last identifier %q at %+v", last.Text, last.Pos)
	}
}

func TestLexErrors(t *testing.T) {
	for _, src := range []string{`"open`, `'ab'`, `!`, `@`, "'\n'"} {
		t.Run(src, func(t *testing.T) {
			_, err := New([]byte(src)).All()
			if !errors.Is(err, pkg.ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}
