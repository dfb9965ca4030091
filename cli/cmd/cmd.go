package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer of the kong application in ctx, or [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error writer of the kong application in ctx, or
// [os.Stderr].
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// Settings are the global options shared by every command.
type Settings struct {
	// NoStd suppresses the standard module.
	NoStd bool
	// Path lists directories searched for imports before $LYPATH.
	Path []string
	// CacheDir receives the REPL history.
	CacheDir string
	// Logger receives the interpreter's trace events.
	Logger log.Logger
	// Stdin is read by the input builtin. Nil means [os.Stdin].
	Stdin io.Reader
}

type settingsKey struct{}

// WithSettings returns a new context.Context carrying s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// options returns the interpreter options selected by s.
func (s Settings) options() []lang.Option {
	opts := []lang.Option{lang.WithLogger(s.Logger)}

	if s.NoStd {
		opts = append(opts, lang.WithoutStd())
	}

	if len(s.Path) > 0 {
		opts = append(opts, lang.WithSearchPath(s.Path...))
	}

	if s.Stdin != nil {
		opts = append(opts, lang.WithStdin(s.Stdin))
	}

	return opts
}

// stdinSource names standard input in place of a file path.
const stdinSource = "-"

// stdinName is the source name of a program read from standard input.
const stdinName = "<stdin>"

// readSource reads the program named by path, or standard input for "-".
func readSource(ctx context.Context, path string) (name string, src []byte, err error) {
	if path != stdinSource {
		src, err = os.ReadFile(path)

		return path, src, err
	}

	in := settingsFrom(ctx).Stdin
	if in == nil {
		in = os.Stdin
	}

	src, err = io.ReadAll(in)

	return stdinName, src, err
}
