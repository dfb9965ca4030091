// Package parser builds the ly syntax tree from source text.
//
// The parser is a hand-written recursive descent over the token stream
// produced by package lexer. All nodes are appended to a caller-provided
// [ast.Tree], so imported modules share the arena of the importing program.
//
// # Imports
//
// An import statement
//
//	import "./util.ly" as util;
//
// is resolved relative to the directory of the file containing it, parsed
// recursively, and injected in place as a Module node. The module is named
// when an alias is given and transparent otherwise. Paths not found relative
// to the importing file are searched in the directories listed by the LYPATH
// environment variable.
package parser

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/lang/lexer"
	"github.com/ardnew/ly/log"
	"github.com/ardnew/ly/pkg"
)

// Parser parses ly programs and their imports into a shared tree.
type Parser struct {
	in     *intern.Interner
	tree   *ast.Tree
	cache  *cache
	logger log.Logger
	search []string
	active []string // absolute paths of files currently being parsed
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithSearchPath prepends dirs to the import search path derived from the
// LYPATH environment variable.
func WithSearchPath(dirs ...string) Option {
	return func(p *Parser) {
		p.search = searchPath(os.Getenv(pkg.PathEnv), dirs...)
	}
}

// New returns a Parser appending nodes to tree and interning names with in.
func New(in *intern.Interner, tree *ast.Tree, opts ...Option) *Parser {
	p := &Parser{
		in:     in,
		tree:   tree,
		cache:  newCache(),
		search: searchPath(os.Getenv(pkg.PathEnv)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Tree returns the arena the parser appends to.
func (p *Parser) Tree() *ast.Tree { return p.tree }

// ParseFile reads and parses the file at path. Imports inside it resolve
// relative to the file's directory.
func (p *Parser) ParseFile(ctx context.Context, path string) (ast.Index, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ast.Nil, pkg.ErrReadInput.With(slog.String("path", path)).Wrap(err)
	}

	data, err := readSource(abs)
	if err != nil {
		return ast.Nil, pkg.ErrReadInput.With(slog.String("path", path)).Wrap(err)
	}

	return p.parseUnit(ctx, abs, data)
}

// ParseSource parses src as if it were read from a file in dir. The name is
// used only in diagnostics.
func (p *Parser) ParseSource(
	ctx context.Context,
	name, dir string,
	src []byte,
) (ast.Index, error) {
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		abs = filepath.Join(dir, name)
	}

	return p.parse(ctx, abs, filepath.Dir(abs), src)
}

// parseUnit parses data read from the file abs, reusing a previous parse of
// identical content in the same directory.
func (p *Parser) parseUnit(
	ctx context.Context,
	abs string,
	data []byte,
) (ast.Index, error) {
	dir := filepath.Dir(abs)
	key := p.cache.key(dir, data)

	if root, ok := p.cache.get(key); ok {
		p.logger.TraceContext(ctx, "parse cache hit",
			slog.String("file", abs),
			slog.Int("root", int(root)),
		)

		return root, nil
	}

	root, err := p.parse(ctx, abs, dir, data)
	if err != nil {
		return ast.Nil, err
	}

	p.cache.put(key, root)

	return root, nil
}

func (p *Parser) parse(
	ctx context.Context,
	file, dir string,
	src []byte,
) (ast.Index, error) {
	p.logger.TraceContext(ctx, "parse start",
		slog.String("file", file),
		slog.Int("source_length", len(src)),
	)

	toks, err := lexer.New(src).All()
	if err != nil {
		return ast.Nil, withFile(err, file)
	}

	p.active = append(p.active, file)
	defer func() { p.active = p.active[:len(p.active)-1] }()

	u := &unit{
		Parser: p,
		ctx:    ctx,
		file:   file,
		dir:    dir,
		toks:   toks,
	}

	root, err := u.parseProgram()
	if err != nil {
		return ast.Nil, withFile(err, file)
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("file", file),
		slog.Int("node_count", p.tree.Len()),
	)

	return root, nil
}

// withFile attaches the file attribute to parse errors that lack one.
func withFile(err error, file string) error {
	e := pkg.WrapError(err)
	if _, ok := e.Attr("file"); ok {
		return err
	}

	if e.Is(pkg.ErrParse) {
		return e.With(slog.String("file", file))
	}

	return err
}
