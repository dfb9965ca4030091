package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/eval"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/lang/lexer"
	"github.com/ardnew/ly/lang/parser"
	"github.com/ardnew/ly/lang/std"
	"github.com/ardnew/ly/log"
)

// Interpreter parses and executes ly programs. State persists across calls,
// so definitions made by one call to [Interpreter.Exec] are visible to the
// next.
type Interpreter struct {
	in     *intern.Interner
	tree   *ast.Tree
	parser *parser.Parser
	eval   *eval.Evaluator
	logger log.Logger
	noStd  bool
	loaded bool
}

type options struct {
	logger log.Logger
	stdout io.Writer
	stdin  io.Reader
	getenv func(string) (string, bool)
	search []string
	noStd  bool
}

// Option configures an [Interpreter].
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStdout sets the writer programs print to.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithStdin sets the reader programs read input from.
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// WithLookupEnv sets the environment lookup used by the env builtin.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.getenv = fn
	}
}

// WithSearchPath adds directories searched for imports not found relative
// to the importing file, ahead of those listed in LYPATH.
func WithSearchPath(dirs ...string) Option {
	return func(o *options) {
		o.search = append(o.search, dirs...)
	}
}

// WithoutStd disables the standard module.
func WithoutStd() Option {
	return func(o *options) {
		o.noStd = true
	}
}

// New returns an Interpreter configured by opts.
func New(opts ...Option) *Interpreter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	in := intern.New()
	tree := ast.NewTree()

	popts := []parser.Option{parser.WithLogger(o.logger)}
	if len(o.search) > 0 {
		popts = append(popts, parser.WithSearchPath(o.search...))
	}

	eopts := []eval.Option{eval.WithLogger(o.logger)}
	if o.stdout != nil {
		eopts = append(eopts, eval.WithStdout(o.stdout))
	}

	if o.stdin != nil {
		eopts = append(eopts, eval.WithStdin(o.stdin))
	}

	if o.getenv != nil {
		eopts = append(eopts, eval.WithLookupEnv(o.getenv))
	}

	return &Interpreter{
		in:     in,
		tree:   tree,
		parser: parser.New(in, tree, popts...),
		eval:   eval.New(in, tree, eopts...),
		logger: o.logger,
		noStd:  o.noStd,
	}
}

// Tree returns the syntax tree holding every parsed program and module.
func (i *Interpreter) Tree() *ast.Tree { return i.tree }

// Interner returns the interner shared by the parser and evaluator.
func (i *Interpreter) Interner() *intern.Interner { return i.in }

// Evaluator returns the evaluator executing programs.
func (i *Interpreter) Evaluator() *eval.Evaluator { return i.eval }

// ParseFile parses the program at path without executing it.
func (i *Interpreter) ParseFile(ctx context.Context, path string) (ast.Index, error) {
	return i.parser.ParseFile(ctx, path)
}

// RunFile parses and executes the program at path.
func (i *Interpreter) RunFile(ctx context.Context, path string) (eval.Value, error) {
	root, err := i.parser.ParseFile(ctx, path)
	if err != nil {
		return eval.Undefined(), err
	}

	return i.run(ctx, root)
}

// Parse parses src as if it were a file named name in the working directory,
// without executing it.
func (i *Interpreter) Parse(ctx context.Context, name string, src []byte) (ast.Index, error) {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	return i.parser.ParseSource(ctx, name, dir, src)
}

// Exec parses and executes src as if it were a file in the working
// directory. It returns the value of the last statement.
func (i *Interpreter) Exec(ctx context.Context, name string, src []byte) (eval.Value, error) {
	root, err := i.Parse(ctx, name, src)
	if err != nil {
		return eval.Undefined(), err
	}

	return i.run(ctx, root)
}

func (i *Interpreter) run(ctx context.Context, root ast.Index) (eval.Value, error) {
	if err := i.loadStd(ctx); err != nil {
		return eval.Undefined(), err
	}

	i.logger.DebugContext(ctx, "exec", slog.Int("root", int(root)))

	return i.eval.Exec(ctx, root)
}

// loadStd executes the standard module once, in the prelude, before the
// first program. Programs may declare globals named like its functions.
func (i *Interpreter) loadStd(ctx context.Context) error {
	if i.loaded || i.noStd {
		return nil
	}

	i.loaded = true

	body, err := i.parser.ParseSource(ctx, std.Name, ".", std.Source())
	if err != nil {
		return err
	}

	return i.eval.Preload(ctx, body)
}

// Lookup returns the value of the variable named by the dotted path name.
func (i *Interpreter) Lookup(name string) (eval.Value, error) {
	return i.eval.Lookup(name)
}

// Render returns the printed form of v.
func (i *Interpreter) Render(v eval.Value) string { return i.eval.Render(v) }

// Names returns every keyword and interned name, for completion.
func (i *Interpreter) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, kw := range lexer.Keywords() {
			if !yield(kw) {
				return
			}
		}

		for _, name := range i.in.Symbols() {
			if !yield(name) {
				return
			}
		}
	}
}
