package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

func parseString(t *testing.T, src string) (*ast.Tree, *intern.Interner, ast.Index) {
	t.Helper()

	in := intern.New()
	tree := ast.NewTree()

	root, err := New(in, tree).ParseSource(t.Context(), "test.ly", t.TempDir(), []byte(src))
	if err != nil {
		t.Fatalf("ParseSource(%q) error = %v", src, err)
	}

	return tree, in, root
}

func statements(t *testing.T, tree *ast.Tree, root ast.Index) []ast.Node {
	t.Helper()

	block := tree.Node(root)
	if block.Kind != ast.KindBlock {
		t.Fatalf("root kind = %v, want Block", block.Kind)
	}

	nodes := make([]ast.Node, len(block.Children))
	for i, c := range block.Children {
		nodes[i] = tree.Node(c)
	}

	return nodes
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseStatementKinds(t *testing.T) {
	src := `
let a = 1
a = 2;
func add x y do return x + y end
struct Point do let x = 0; let y = 0 end
if a < 3 do print(a) else print(0) end
while a < 5 do a = a + 1 end
return a
`
	tree, _, root := parseString(t, src)
	stmts := statements(t, tree, root)

	want := []ast.Kind{
		ast.KindDeclare,
		ast.KindAssign,
		ast.KindFunction,
		ast.KindStruct,
		ast.KindConditional,
		ast.KindLoop,
		ast.KindReturn,
	}

	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(want))
	}

	for i, k := range want {
		if stmts[i].Kind != k {
			t.Errorf("statement %d kind = %v, want %v", i, stmts[i].Kind, k)
		}
	}

	fn := stmts[2]
	if len(fn.Params) != 2 {
		t.Errorf("function params = %d, want 2", len(fn.Params))
	}

	if stmts[4].Else == ast.Nil {
		t.Error("conditional else branch missing")
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		op   ast.Operator
	}{
		{"sum over product", "1 + 2 * 3", ast.OpAdd},
		{"comparison over sum", "1 + 2 < 4", ast.OpLT},
		{"and over comparison", "1 < 2 and 3 < 4", ast.OpAnd},
		{"or over and", "true and false or true", ast.OpOr},
		{"parentheses", "(1 + 2) * 3", ast.OpMul},
		{"power", "2 ^ 3 ^ 2", ast.OpPow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _, root := parseString(t, tt.src)
			stmts := statements(t, tree, root)

			if len(stmts) != 1 || stmts[0].Kind != ast.KindOp {
				t.Fatalf("got %v, want a single Op", stmts)
			}

			if stmts[0].Op != tt.op {
				t.Errorf("top operator = %v, want %v", stmts[0].Op, tt.op)
			}
		})
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	tree, _, root := parseString(t, "2 ^ 3 ^ 2")
	top := statements(t, tree, root)[0]

	if lhs := tree.Node(top.Left); lhs.Kind != ast.KindLiteral {
		t.Errorf("lhs kind = %v, want Literal", lhs.Kind)
	}

	if rhs := tree.Node(top.Right); rhs.Kind != ast.KindOp || rhs.Op != ast.OpPow {
		t.Errorf("rhs = %v %v, want Op ^", rhs.Kind, rhs.Op)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	tree, _, root := parseString(t, "-2; -x")
	stmts := statements(t, tree, root)

	if stmts[0].Kind != ast.KindLiteral || stmts[0].Token.Num != -2 {
		t.Errorf("-2 parsed as %v %v, want folded literal", stmts[0].Kind, stmts[0].Token.Num)
	}

	if stmts[1].Kind != ast.KindOp || stmts[1].Op != ast.OpSub {
		t.Fatalf("-x parsed as %v, want 0 - x", stmts[1].Kind)
	}

	if zero := tree.Node(stmts[1].Left); zero.Token.Num != 0 {
		t.Errorf("-x lhs = %v, want 0", zero.Token.Num)
	}
}

func TestParsePostfixAndPrimary(t *testing.T) {
	src := `m.add(1, 2); xs[0]; [1, [2, 3]]; new Point { x = 1, y = 2 }; new Empty`
	tree, in, root := parseString(t, src)
	stmts := statements(t, tree, root)

	call := stmts[0]
	if call.Kind != ast.KindFunctionCall || len(call.Children) != 2 {
		t.Fatalf("call = %v with %d args", call.Kind, len(call.Children))
	}

	if got := call.ID.String(in); got != "m.add" {
		t.Errorf("call id = %q, want m.add", got)
	}

	if stmts[1].Kind != ast.KindIndex {
		t.Errorf("index kind = %v", stmts[1].Kind)
	}

	list := stmts[2]
	if list.Kind != ast.KindList || len(list.Children) != 2 {
		t.Fatalf("list = %v with %d elems", list.Kind, len(list.Children))
	}

	if inner := tree.Node(list.Children[1]); inner.Kind != ast.KindList {
		t.Errorf("nested element kind = %v, want List", inner.Kind)
	}

	inst := stmts[3]
	if inst.Kind != ast.KindInstance || len(inst.Children) != 2 {
		t.Fatalf("instance = %v with %d fields", inst.Kind, len(inst.Children))
	}

	if f := tree.Node(inst.Children[0]); f.Kind != ast.KindAssign || f.ID.String(in) != "x" {
		t.Errorf("first field = %v %q", f.Kind, f.ID.String(in))
	}

	if stmts[4].Kind != ast.KindInstance || len(stmts[4].Children) != 0 {
		t.Errorf("bare new = %v with %d fields", stmts[4].Kind, len(stmts[4].Children))
	}
}

func TestParseReturnWithoutValue(t *testing.T) {
	tree, _, root := parseString(t, "func f do return end")
	fn := statements(t, tree, root)[0]

	ret := tree.Node(tree.Node(fn.Body).Children[0])
	if ret.Kind != ast.KindReturn {
		t.Fatalf("kind = %v, want Return", ret.Kind)
	}

	if v := tree.Node(ret.Value); v.Token.Kind != ast.TokenUndefined {
		t.Errorf("bare return value = %v, want undefined", v.Token.Kind)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing end", "while x do x = 1"},
		{"missing value", "let a ="},
		{"unclosed call", "f(1, 2"},
		{"duplicate parameter", "func f a a do end"},
		{"dotted parameter", "func f a.b do end"},
		{"stray token", "let a = )"},
		{"unterminated string", `let s = "abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(intern.New(), ast.NewTree()).
				ParseSource(t.Context(), "bad.ly", t.TempDir(), []byte(tt.src))
			if !errors.Is(err, pkg.ErrParse) {
				t.Fatalf("error = %v, want ErrParse", err)
			}

			e := pkg.WrapError(err)
			if _, ok := e.Attr("line"); !ok {
				t.Errorf("error %v has no line attribute", err)
			}

			if _, ok := e.Attr("file"); !ok {
				t.Errorf("error %v has no file attribute", err)
			}
		})
	}
}

func TestParseImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "math.ly"), `
import "./helper" as h
func add a b do return a + b end
`)
	writeFile(t, filepath.Join(dir, "lib", "helper.ly"), `let one = 1`)
	writeFile(t, filepath.Join(dir, "main.ly"), `
import "lib/math.ly" as m
import "lib/helper.ly"
`)

	in := intern.New()
	tree := ast.NewTree()

	root, err := New(in, tree).ParseFile(t.Context(), filepath.Join(dir, "main.ly"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	stmts := statements(t, tree, root)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}

	named := stmts[0]
	if named.Kind != ast.KindModule || !named.Named || in.Resolve(named.Name) != "m" {
		t.Errorf("first import = %v named=%v", named.Kind, named.Named)
	}

	if named.Source != filepath.Join(dir, "lib", "math.ly") {
		t.Errorf("source = %q", named.Source)
	}

	// Nested import resolves relative to lib/.
	nested := tree.Node(tree.Node(named.Body).Children[0])
	if nested.Kind != ast.KindModule || in.Resolve(nested.Name) != "h" {
		t.Errorf("nested import = %v", nested.Kind)
	}

	anon := stmts[1]
	if anon.Kind != ast.KindModule || anon.Named {
		t.Errorf("second import = %v named=%v, want anonymous module", anon.Kind, anon.Named)
	}

	// helper.ly was already parsed through the nested import.
	if anon.Body != nested.Body {
		t.Errorf("anonymous import body = %d, want cached %d", anon.Body, nested.Body)
	}
}

func TestParseImportSearchPath(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "util.ly"), `let v = 1`)

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.ly"), `import "util" as u`)

	_, err := New(intern.New(), ast.NewTree()).
		ParseFile(t.Context(), filepath.Join(src, "main.ly"))
	if !errors.Is(err, pkg.ErrImport) {
		t.Fatalf("without search path: error = %v, want ErrImport", err)
	}

	_, err = New(intern.New(), ast.NewTree(), WithSearchPath(lib)).
		ParseFile(t.Context(), filepath.Join(src, "main.ly"))
	if err != nil {
		t.Fatalf("with search path: error = %v", err)
	}
}

func TestParseImportErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ly"), `import "./b.ly"`)
	writeFile(t, filepath.Join(dir, "b.ly"), `import "./a.ly"`)
	writeFile(t, filepath.Join(dir, "broken.ly"), `let = 1`)
	writeFile(t, filepath.Join(dir, "ok.ly"), `let x = 1`)

	tests := []struct {
		name string
		src  string
	}{
		{"cycle", `import "./a.ly"`},
		{"missing", `import "./nope.ly"`},
		{"not a string", `import nope`},
		{"dotted alias", `import "./ok.ly" as a.b`},
		{"numeric alias", `import "./ok.ly" as 3`},
		{"broken module", `import "./broken.ly"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(intern.New(), ast.NewTree()).
				ParseSource(t.Context(), "main.ly", dir, []byte(tt.src))
			if !errors.Is(err, pkg.ErrImport) {
				t.Fatalf("error = %v, want ErrImport", err)
			}
		})
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	env := b + string(os.PathListSeparator) + missing

	got := searchPath(env, a)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("searchPath() = %v, want [%s %s]", got, a, b)
	}
}
