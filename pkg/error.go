package pkg

// Sentinel errors for the ly packages.
// These errors can be tested using errors.Is for reliable error checking,
// even after attributes have been attached or a cause has been wrapped.

import (
	"errors"
	"log/slog"
	"strings"
)

// ErrParse is returned when lexing or parsing source text fails.
//
// It should carry the line and column of the offending token.
var ErrParse = NewError("parse error")

// ErrImport is returned when an imported module cannot be located, read, or
// parsed, when an import alias is malformed, or when imports form a cycle.
var ErrImport = NewError("import error")

// ErrResolution is returned when an identifier, module, or field cannot be
// found, or when a list index is out of range.
var ErrResolution = NewError("resolution error")

// ErrRedeclaration is returned when a name is declared twice in the same
// scope frame.
var ErrRedeclaration = NewError("redeclaration error")

// ErrType is returned when an operator is applied to unsupported operands, an
// index is not numeric, a condition is not boolean, or a call target is not
// callable.
var ErrType = NewError("type error")

// ErrControlFlow is returned when a return statement is reached at the
// outermost scope.
var ErrControlFlow = NewError("control flow error")

// ErrArity is returned when the number of arguments at a call site differs
// from the number of parameters declared by the callee.
var ErrArity = NewError("arity error")

// ErrInterrupted is returned when execution stops because its context was
// cancelled.
var ErrInterrupted = NewError("interrupted")

// ErrReadInput is returned when reading source input fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrReadInput = NewError("failed to read input")

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Every Error derived from a sentinel (via [Error.With], [Error.Wrap], or
// [Error.At]) matches that sentinel with errors.Is.
type Error struct {
	kind  *Error      // sentinel this error derives from
	msg   string      // sentinel message
	err   error       // wrapped cause (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an *Error, the outermost one is returned.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is formed as "<msg> (<key>=<value> ...): <cause>", omitting
// whichever parts are unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('(')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(a.Value.String())
		}

		sb.WriteByte(')')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.kind == nil {
		return false
	}

	return e.kind == t.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
// Wrapped Errors are rendered as nested groups so that the attributes of
// every link in the chain are preserved.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	attrs = append(attrs, e.attrs...)

	if e.err != nil {
		var cause *Error
		if errors.As(e.err, &cause) {
			attrs = append(attrs, slog.Any("cause", cause))
		} else {
			attrs = append(attrs, slog.String("cause", e.err.Error()))
		}
	}

	return slog.GroupValue(attrs...)
}

// Within returns an error that wraps err under msg and attrs. The result
// derives from the same sentinel as err, so each layer of a call chain can add
// its own context without changing what errors.Is reports.
func Within(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}

	var kind *Error

	var cause *Error
	if errors.As(err, &cause) {
		kind = cause.kind
	}

	return &Error{kind: kind, msg: msg, err: err, attrs: attrs}
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// At adds the source position attributes line and column.
func (e *Error) At(line, column int) *Error {
	return e.With(slog.Int("line", line), slog.Int("column", column))
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}
