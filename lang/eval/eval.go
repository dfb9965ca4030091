// Package eval executes ly syntax trees.
//
// An [Evaluator] walks an [ast.Tree] statement by statement. All variables
// live in containers held by a [Store]: the root container holds globals, its
// parent the prelude holds builtins and the standard module, and modules,
// struct instances, and lists each get a container of their own. A container
// is a stack of frames indexed by scope depth; function bodies, conditional
// branches, and loop bodies run one frame deeper than their surroundings, and
// the deeper frames are dropped on exit. Containers nothing refers to any
// more are reclaimed between statements.
//
// Dotted names such as m.add, p.x, or xs.0 resolve through the chain of
// containers named by their leading components.
package eval

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/log"
	"github.com/ardnew/ly/pkg"
)

// Evaluator holds the run state of a program: the container store, the
// active container, and the current scope depth.
type Evaluator struct {
	in      *intern.Interner
	tree    *ast.Tree
	store   *Store
	natives map[intern.Symbol]Native
	logger  log.Logger
	stdin   *bufio.Reader
	stdout  io.Writer
	getenv  func(string) (string, bool)
	pins    []Handle
	active  Handle
	scope   int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithStdout sets the writer used by print. The default is [os.Stdout].
func WithStdout(w io.Writer) Option {
	return func(e *Evaluator) {
		e.stdout = w
	}
}

// WithStdin sets the reader used by input. The default is [os.Stdin].
func WithStdin(r io.Reader) Option {
	return func(e *Evaluator) {
		e.stdin = bufio.NewReader(r)
	}
}

// WithLookupEnv sets the environment lookup used by env. The default is
// [os.LookupEnv].
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(e *Evaluator) {
		e.getenv = fn
	}
}

// New returns an Evaluator for nodes of tree, interning names with in. The
// builtins are declared in the globals of the prelude container.
func New(in *intern.Interner, tree *ast.Tree, opts ...Option) *Evaluator {
	e := &Evaluator{
		in:      in,
		tree:    tree,
		store:   NewStore(),
		natives: make(map[intern.Symbol]Native, len(builtins)),
		stdout:  os.Stdout,
		getenv:  os.LookupEnv,
		active:  Root,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.stdin == nil {
		e.stdin = bufio.NewReader(os.Stdin)
	}

	for name, fn := range builtins {
		// The prelude is empty, so registering a builtin cannot collide with
		// anything but another builtin of the same name.
		_ = e.Register(name, fn)
	}

	return e
}

// Register installs fn as a builtin named name in the globals of the prelude
// container. Root globals of the same name shadow it.
func (e *Evaluator) Register(name string, fn Native) error {
	sym := e.in.Intern(name)

	c := Callable{Kind: CallNative, Node: ast.Nil, Scope: Prelude, Name: sym}
	if !e.store.Declare(Prelude, 0, sym, Reference(c)) {
		return pkg.ErrRedeclaration.With(slog.String("name", name))
	}

	e.natives[sym] = fn

	return nil
}

// Store returns the container store.
func (e *Evaluator) Store() *Store { return e.store }

// Interner returns the interner used to resolve names.
func (e *Evaluator) Interner() *intern.Interner { return e.in }

// Active returns the handle of the container statements currently run in.
func (e *Evaluator) Active() Handle { return e.active }

// Depth returns the current scope depth.
func (e *Evaluator) Depth() int { return e.scope }

// Exec executes the node at root, normally a Block produced by the parser,
// at the current depth of the active container. It returns the value of the
// last statement executed.
//
// Failures of the statements of a top-level block are wrapped with the
// position of the statement. A return reached outside any function is an
// error.
//
// Unreachable containers may be reclaimed before each statement, so a list
// or instance returned by an earlier Exec is only valid while a variable
// still refers to it.
func (e *Evaluator) Exec(ctx context.Context, root ast.Index) (Value, error) {
	n := e.tree.Node(root)
	if n.Kind != ast.KindBlock {
		v, ret, err := e.exec(ctx, root)
		if err == nil && ret && e.scope == 0 {
			err = errReturnOutside(n.Pos)
		}

		return v, err
	}

	last := Undefined()

	for _, stmt := range n.Children {
		e.collect()

		v, ret, err := e.exec(ctx, stmt)
		if err == nil && ret && e.scope == 0 {
			err = errReturnOutside(e.tree.Node(stmt).Pos)
		}

		if err != nil {
			pos := e.tree.Node(stmt).Pos

			return Undefined(), pkg.Within(err, "statement",
				slog.Int("line", pos.Line),
				slog.Int("column", pos.Column),
			)
		}

		if ret {
			return v, nil
		}

		last = v
	}

	return last, nil
}

// Preload executes the node at root in the prelude container, whose globals
// every program sees unless it declares the same name itself.
func (e *Evaluator) Preload(ctx context.Context, root ast.Index) error {
	active, scope := e.active, e.scope
	e.active, e.scope = Prelude, 0

	defer func() { e.active, e.scope = active, scope }()

	_, err := e.Exec(ctx, root)

	return err
}

// Lookup returns the value of the variable named by the dotted path text.
func (e *Evaluator) Lookup(text string) (Value, error) {
	id, err := ast.ParseID(e.in, text)
	if err != nil {
		return Undefined(), err
	}

	return e.Get(id)
}

func errReturnOutside(pos ast.Pos) error {
	return pkg.ErrControlFlow.At(pos.Line, pos.Column).With(
		slog.String("reason", "return outside function"),
	)
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return pkg.ErrInterrupted.Wrap(err)
	}

	return nil
}
