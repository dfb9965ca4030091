package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/pkg"
)

// AST prints the syntax tree of a program without executing it.
type AST struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                     help:"Indent width; 0 selects compact output." short:"i"`

	File string `arg:"" default:"-" help:"Program file, or '-' for stdin." name:"file"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	interp := lang.New(settingsFrom(ctx).options()...)

	root, err := a.parse(ctx, interp)
	if err != nil {
		return err
	}

	switch a.Format {
	case "json":
		err = interp.FormatJSON(ctx, stdout(ctx), root, a.Indent)
	default:
		err = interp.FormatYAML(ctx, stdout(ctx), root, a.Indent)
	}

	if err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", a.Format))
	}

	return nil
}

func (a *AST) parse(ctx context.Context, interp *lang.Interpreter) (ast.Index, error) {
	if a.File != stdinSource {
		root, err := interp.ParseFile(ctx, a.File)

		return root, pkg.Within(err, "ast", slog.String("file", a.File))
	}

	name, src, err := readSource(ctx, a.File)
	if err != nil {
		return ast.Nil, pkg.ErrReadInput.Wrap(err).With(slog.String("file", name))
	}

	root, err := interp.Parse(ctx, name, src)

	return root, pkg.Within(err, "ast", slog.String("file", name))
}
