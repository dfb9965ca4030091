package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// Host is the view of the interpreter given to builtins.
type Host interface {
	Stdout() io.Writer
	ReadLine() (string, error)
	LookupEnv(key string) (string, bool)
	Interner() *intern.Interner
	Store() *Store
	Render(v Value) string
	TypeName(v Value) string
	NewList(elems ...Value) Value
	Elements(list Value) []Value
	Append(list Value, v Value)
	Count(list Value) int
	Globals() map[string]any
}

// Native is the Go implementation of a builtin. It receives the evaluated
// arguments of the call.
type Native func(ctx context.Context, h Host, args []Value) (Value, error)

// builtins is the registry of natives installed in every [Evaluator].
var builtins = map[string]Native{
	"print": builtinPrint,
	"len":   builtinLen,
	"push":  builtinPush,
	"str":   builtinStr,
	"num":   builtinNum,
	"input": builtinInput,
	"type":  builtinType,
	"calc":  builtinCalc,
	"env":   builtinEnv,
}

// Builtins returns the names of the builtins installed in every evaluator.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}

	return names
}

// Stdout implements [Host].
func (e *Evaluator) Stdout() io.Writer { return e.stdout }

// ReadLine implements [Host]. It returns [io.EOF] once input is exhausted.
func (e *Evaluator) ReadLine() (string, error) {
	line, err := e.stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// LookupEnv implements [Host].
func (e *Evaluator) LookupEnv(key string) (string, bool) { return e.getenv(key) }

func expectArgs(name string, args []Value, n int) error {
	if len(args) != n {
		return errArity(name, n, len(args))
	}

	return nil
}

func errArgument(name string, v Value, want string) error {
	return pkg.ErrType.With(
		slog.String("builtin", name),
		slog.String("expected", want),
		slog.String("got", v.Kind.String()),
	)
}

// print writes its arguments separated by spaces and a newline.
func builtinPrint(_ context.Context, h Host, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for j, v := range args {
		parts[j] = h.Render(v)
	}

	if _, err := fmt.Fprintln(h.Stdout(), strings.Join(parts, " ")); err != nil {
		return Undefined(), err
	}

	return Undefined(), nil
}

// len returns the element count of a list or the character count of a
// string.
func builtinLen(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("len", args, 1); err != nil {
		return Undefined(), err
	}

	switch v := args[0]; v.Kind {
	case KindList:
		return Number(float32(h.Count(v))), nil

	case KindString:
		return Number(float32(utf8.RuneCountInString(v.Str))), nil

	default:
		return Undefined(), errArgument("len", v, "list or string")
	}
}

// push appends a value to a list and returns the list.
func builtinPush(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("push", args, 2); err != nil {
		return Undefined(), err
	}

	if args[0].Kind != KindList {
		return Undefined(), errArgument("push", args[0], "list")
	}

	h.Append(args[0], args[1])

	return args[0], nil
}

func builtinStr(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("str", args, 1); err != nil {
		return Undefined(), err
	}

	return String(h.Render(args[0])), nil
}

// num parses a string as a number. It returns undefined if the string is
// not numeric.
func builtinNum(_ context.Context, _ Host, args []Value) (Value, error) {
	if err := expectArgs("num", args, 1); err != nil {
		return Undefined(), err
	}

	switch v := args[0]; v.Kind {
	case KindNumber:
		return v, nil

	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 32)
		if err != nil {
			return Undefined(), nil
		}

		return Number(float32(f)), nil

	default:
		return Undefined(), errArgument("num", v, "string")
	}
}

// input reads one line from standard input. It returns undefined at end of
// input.
func builtinInput(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("input", args, 0); err != nil {
		return Undefined(), err
	}

	line, err := h.ReadLine()
	if errors.Is(err, io.EOF) {
		return Undefined(), nil
	}

	if err != nil {
		return Undefined(), pkg.ErrReadInput.Wrap(err)
	}

	return String(line), nil
}

func builtinType(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("type", args, 1); err != nil {
		return Undefined(), err
	}

	return String(h.TypeName(args[0])), nil
}

// calc evaluates an expr-lang expression with the root globals in scope.
func builtinCalc(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("calc", args, 1); err != nil {
		return Undefined(), err
	}

	if args[0].Kind != KindString {
		return Undefined(), errArgument("calc", args[0], "string")
	}

	env := h.Globals()

	program, err := expr.Compile(args[0].Str, expr.Env(env))
	if err != nil {
		return Undefined(), pkg.ErrType.With(
			slog.String("builtin", "calc"),
			slog.String("expression", args[0].Str),
		).Wrap(err)
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return Undefined(), pkg.ErrType.With(
			slog.String("builtin", "calc"),
			slog.String("expression", args[0].Str),
		).Wrap(err)
	}

	v, ok := fromNative(h, out)
	if !ok {
		return Undefined(), pkg.ErrType.With(
			slog.String("builtin", "calc"),
			slog.String("reason", "unsupported result"),
			slog.String("type", fmt.Sprintf("%T", out)),
		)
	}

	return v, nil
}

// env returns the value of an environment variable, or undefined if it is
// not set.
func builtinEnv(_ context.Context, h Host, args []Value) (Value, error) {
	if err := expectArgs("env", args, 1); err != nil {
		return Undefined(), err
	}

	if args[0].Kind != KindString {
		return Undefined(), errArgument("env", args[0], "string")
	}

	v, ok := h.LookupEnv(args[0].Str)
	if !ok {
		return Undefined(), nil
	}

	return String(v), nil
}
