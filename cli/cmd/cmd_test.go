package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ly/log"
	"github.com/ardnew/ly/pkg"
)

type testCLI struct {
	Run  Run  `cmd:"" default:"withargs"`
	AST  AST  `cmd:""`
	Repl Repl `cmd:""`
}

// execute runs the command line args with stdin as standard input and
// returns what the command wrote to standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
		ctx context.Context
	)

	parser, err := kong.New(&cli,
		kong.Writers(&out, io.Discard),
		kong.Exit(func(code int) { t.Fatalf("exit %d", code) }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	ctx = WithSettings(t.Context(), Settings{
		NoStd:    true,
		CacheDir: t.TempDir(),
		Logger:   log.Make(io.Discard),
		Stdin:    strings.NewReader(stdin),
	})
	ctx = WithContext(ctx, ktx)

	err = ktx.Run(ctx)

	return out.String(), err
}

func TestRunStdin(t *testing.T) {
	out, err := execute(t, `print(1 + 2)`)
	if err != nil {
		t.Fatal(err)
	}

	if out != "3\n" {
		t.Errorf("output = %q, want %q", out, "3\n")
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"lib.ly":  `func twice x do return x * 2 end`,
		"main.ly": `import "./lib.ly" as lib; print(lib.twice(21))`,
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "", "run", filepath.Join(dir, "main.ly"))
	if err != nil {
		t.Fatal(err)
	}

	if out != "42\n" {
		t.Errorf("output = %q, want %q", out, "42\n")
	}
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, `let x = 1; print(y)`)
	if !errors.Is(err, pkg.ErrResolution) {
		t.Errorf("undefined name error = %v, want ErrResolution", err)
	}

	_, err = execute(t, "", filepath.Join(t.TempDir(), "missing.ly"))
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("missing file error = %v, want ErrReadInput", err)
	}

	_, err = execute(t, `return 1`)
	if !errors.Is(err, pkg.ErrControlFlow) {
		t.Errorf("top-level return error = %v, want ErrControlFlow", err)
	}
}

func TestASTFormats(t *testing.T) {
	src := `let x = 1 + 2`

	out, err := execute(t, src, "ast", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}

	var tree any
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Errorf("ast json is invalid: %v\n%s", err, out)
	}

	out, err = execute(t, src, "ast")
	if err != nil {
		t.Fatal(err)
	}

	var fromYAML any
	if err := yaml.Unmarshal([]byte(out), &fromYAML); err != nil || fromYAML == nil {
		t.Errorf("ast yaml is invalid: %v\n%s", err, out)
	}

	if _, err := execute(t, `let = 1`, "ast"); !errors.Is(err, pkg.ErrParse) {
		t.Errorf("ast of bad source error = %v, want ErrParse", err)
	}
}

func TestReplLines(t *testing.T) {
	out, err := execute(t, "let x = 2\nfunc f y do\nreturn x * y\nend\nf(3)\n", "repl", "--plain")
	if err != nil {
		t.Fatal(err)
	}

	if out != "6\n" {
		t.Errorf("output = %q, want %q", out, "6\n")
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := settingsFrom(context.Background())
	if s.NoStd || s.Stdin != nil || len(s.options()) != 1 {
		t.Errorf("default settings = %+v", s)
	}

	if stdout(context.Background()) != os.Stdout {
		t.Error("stdout without a kong context is not os.Stdout")
	}
}
