package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/pkg"
)

// Run executes a program.
type Run struct {
	File string `arg:"" default:"-" help:"Program file, or '-' for stdin." name:"file"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	s := settingsFrom(ctx)
	interp := lang.New(append(s.options(), lang.WithStdout(stdout(ctx)))...)

	s.Logger.DebugContext(ctx, "run",
		slog.String("file", r.File),
		slog.Bool("std", !s.NoStd),
	)

	if r.File != stdinSource {
		_, err = interp.RunFile(ctx, r.File)

		return pkg.Within(err, "run", slog.String("file", r.File))
	}

	name, src, err := readSource(ctx, r.File)
	if err != nil {
		return pkg.ErrReadInput.Wrap(err).With(slog.String("file", name))
	}

	_, err = interp.Exec(ctx, name, src)

	return pkg.Within(err, "run", slog.String("file", name))
}
