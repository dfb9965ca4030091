package cmd

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/ly/cli/cmd/repl"
)

// Repl starts an interactive session.
type Repl struct {
	Plain   bool `help:"Read lines without the terminal interface."`
	History bool `default:"true" help:"Remember input across sessions." negatable:""`
}

// Run executes the repl command. The terminal interface is used only when
// both standard input and output are terminals.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	s := settingsFrom(ctx)

	cfg := repl.Config{Logger: s.Logger, Options: s.options()}
	if r.History {
		cfg.HistoryDir = s.CacheDir
	}

	if s.Stdin != nil {
		return repl.Lines(ctx, cfg, s.Stdin, stdout(ctx), stderr(ctx), false)
	}

	tty := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if r.Plain || !tty {
		return repl.Lines(ctx, cfg, os.Stdin, stdout(ctx), stderr(ctx), tty)
	}

	return repl.Run(ctx, cfg)
}
