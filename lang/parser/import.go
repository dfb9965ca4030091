package parser

import (
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// parseImport parses: 'import' String ('as' Ident)? and injects the parsed
// file as a Module node.
func (u *unit) parseImport() (ast.Index, error) {
	kw := u.advance()

	tok := u.peek()
	if tok.Kind != ast.TokenString {
		return ast.Nil, pkg.ErrImport.At(tok.Pos.Line, tok.Pos.Column).With(
			slog.String("expected", "path string"),
			slog.String("got", tok.Text),
		)
	}

	u.advance()

	var (
		named bool
		name  intern.Symbol
	)

	if u.accept("as") {
		alias := u.peek()
		if alias.Kind != ast.TokenIdentifier {
			return ast.Nil, pkg.ErrImport.At(alias.Pos.Line, alias.Pos.Column).
				With(slog.String("reason", "malformed alias"),
					slog.String("got", alias.Text))
		}

		u.advance()

		id, err := ast.ParseID(u.in, alias.Text)
		if err != nil || id.IsMember() {
			return ast.Nil, pkg.ErrImport.At(alias.Pos.Line, alias.Pos.Column).
				With(slog.String("reason", "malformed alias"),
					slog.String("alias", alias.Text))
		}

		named = true
		name = id.Symbol()
	}

	path, err := u.locate(tok.Str)
	if err != nil {
		return ast.Nil, pkg.WrapError(err).At(tok.Pos.Line, tok.Pos.Column)
	}

	if slices.Contains(u.active, path) {
		return ast.Nil, pkg.ErrImport.At(tok.Pos.Line, tok.Pos.Column).With(
			slog.String("reason", "import cycle"),
			slog.String("path", path),
		)
	}

	u.logger.TraceContext(u.ctx, "import",
		slog.String("from", u.file),
		slog.String("path", path),
		slog.Bool("named", named),
	)

	data, err := readSource(path)
	if err != nil {
		return ast.Nil, pkg.ErrImport.At(tok.Pos.Line, tok.Pos.Column).
			With(slog.String("path", path)).Wrap(err)
	}

	body, err := u.parseUnit(u.ctx, path, data)
	if err != nil {
		return ast.Nil, pkg.ErrImport.At(tok.Pos.Line, tok.Pos.Column).
			With(slog.String("path", path)).Wrap(err)
	}

	return u.tree.Module(kw.Pos, name, named, path, body), nil
}

// locate finds the file named by an import path. The path is tried relative
// to the importing file's directory, with and without the source extension,
// and then in each search directory unless it is explicitly relative.
func (u *unit) locate(path string) (string, error) {
	dirs := []string{u.dir}
	if !filepath.IsAbs(path) && !isRelative(path) {
		dirs = append(dirs, u.search...)
	}

	for _, dir := range dirs {
		base := path
		if !filepath.IsAbs(base) {
			base = filepath.Join(dir, path)
		}

		for _, cand := range []string{base, base + pkg.Ext} {
			if isFile(cand) {
				if abs, err := filepath.Abs(cand); err == nil {
					return abs, nil
				}

				return cand, nil
			}
		}

		if filepath.IsAbs(path) {
			break
		}
	}

	return "", pkg.ErrImport.With(
		slog.String("reason", "not found"),
		slog.String("path", path),
	)
}
