package repl

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/lang/ast"
	"github.com/ardnew/ly/lang/eval"
	"github.com/ardnew/ly/lang/lexer"
	"github.com/ardnew/ly/log"
)

// Session accumulates input lines into complete chunks and executes each
// chunk in a persistent interpreter. Definitions made by one chunk remain
// visible to the next.
type Session struct {
	interp  *lang.Interpreter
	logger  log.Logger
	out     bytes.Buffer
	pending strings.Builder
	last    string
	chunks  int
}

// Result is the outcome of feeding a line to a [Session].
type Result struct {
	// Output is everything the chunk printed.
	Output string
	// Value is the printed form of the value of the last statement, or empty
	// when that value is undefined.
	Value string
	// More reports that the input so far is an unfinished block, so nothing
	// was executed.
	More bool
}

// NewSession returns a Session over a new interpreter configured by opts.
// Program output is captured into each [Result].
func NewSession(logger log.Logger, opts ...lang.Option) *Session {
	s := &Session{logger: logger}
	s.interp = lang.New(append(opts, lang.WithStdout(&s.out), lang.WithLogger(logger))...)

	return s
}

// Interpreter returns the interpreter executing the session.
func (s *Session) Interpreter() *lang.Interpreter { return s.interp }

// Pending reports whether an unfinished block is buffered.
func (s *Session) Pending() bool { return s.pending.Len() > 0 }

// Last returns the source of the most recently executed chunk.
func (s *Session) Last() string { return s.last }

// Reset discards any buffered partial input.
func (s *Session) Reset() { s.pending.Reset() }

// Feed adds line to the buffered input and executes the buffer once it forms
// a complete chunk. Printed output is returned even when execution fails.
func (s *Session) Feed(ctx context.Context, line string) (Result, error) {
	s.pending.WriteString(line)
	s.pending.WriteByte('\n')

	src := s.pending.String()
	if Incomplete(src) {
		return Result{More: true}, nil
	}

	s.pending.Reset()

	if strings.TrimSpace(src) == "" {
		return Result{}, nil
	}

	return s.Exec(ctx, src)
}

// Exec executes src as one chunk regardless of buffered input.
func (s *Session) Exec(ctx context.Context, src string) (Result, error) {
	s.chunks++
	s.last = strings.TrimSpace(src)
	name := "<repl:" + strconv.Itoa(s.chunks) + ">"

	s.logger.TraceContext(ctx, "repl exec",
		slog.String("chunk", name),
		slog.Int("length", len(src)),
	)

	v, err := s.interp.Exec(ctx, name, []byte(src))

	res := Result{Output: s.out.String()}
	s.out.Reset()

	if err != nil {
		return res, err
	}

	if v.Kind != eval.KindUndefined {
		res.Value = s.interp.Render(v)
	}

	return res, nil
}

// Incomplete reports whether src ends inside an unfinished block or an
// unclosed bracket. Source that fails to lex is complete, so that executing
// it reports the error.
func Incomplete(src string) bool {
	toks, err := lexer.New([]byte(src)).All()
	if err != nil {
		return false
	}

	depth := 0

	for i, tok := range toks {
		switch {
		case tok.Is("do"):
			if i == 0 || !toks[i-1].Is("else") {
				depth++
			}

		case tok.Is("end"), tok.Is(")"), tok.Is("]"), tok.Is("}"):
			depth--

		case tok.Is("("), tok.Is("["), tok.Is("{"):
			depth++

		case tok.Kind == ast.TokenEOF:
			return depth > 0
		}
	}

	return depth > 0
}
