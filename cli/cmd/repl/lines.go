package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/ly/lang"
)

// Lines runs the REPL without a terminal UI. Each line read from in is fed to
// a session; output and values go to out and errors to errOut. Prompts are
// written only when prompt is set. The builtin input reads from the same
// stream, so a program can consume the lines that follow it.
func Lines(
	ctx context.Context,
	cfg Config,
	in io.Reader,
	out, errOut io.Writer,
	prompt bool,
) error {
	br := bufio.NewReader(in)
	opts := append(cfg.Options[:len(cfg.Options):len(cfg.Options)], lang.WithStdin(br))
	s := NewSession(cfg.Logger, opts...)

	cfg.Logger.TraceContext(ctx, "repl start", slog.Bool("prompt", prompt))

	for {
		if prompt {
			p := evalPrompt
			if s.Pending() {
				p = morePrompt
			}

			fmt.Fprint(out, p)
		}

		line, err := br.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return flush(ctx, s, out, errOut)
			}

			return err
		}

		if ctx.Err() != nil {
			return nil
		}

		res, err := s.Feed(ctx, strings.TrimRight(line, "\r\n"))
		printResult(out, errOut, res, err)
	}
}

// flush executes input left unfinished at end of stream so that its error is
// reported.
func flush(ctx context.Context, s *Session, out, errOut io.Writer) error {
	if !s.Pending() {
		return nil
	}

	src := s.pending.String()
	s.Reset()

	res, err := s.Exec(ctx, src)
	printResult(out, errOut, res, err)

	return nil
}

func printResult(out, errOut io.Writer, res Result, err error) {
	fmt.Fprint(out, res.Output)

	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return
	}

	if res.Value != "" {
		fmt.Fprintln(out, res.Value)
	}
}
