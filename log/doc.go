// Package log wraps [log/slog] with the configuration used across ly: a
// Trace level below Debug, text or JSON encoding with an optional colorized
// rendition, selectable timestamp layouts, and optional caller locations.
//
// A [Logger] is built once with [Make] and rebuilt with different settings
// using [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	verbose := logger.Wrap(log.WithLevel(log.LevelTrace), log.WithCaller(true))
//
// The package-level functions ([Info], [TraceContext], and so on) write to a
// logger on standard error that [Config] reconfigures.
//
// # Levels
//
// [LevelTrace] is reserved for the interpreter's step-by-step events: parse
// start and completion, import resolution, module entry, declarations, calls,
// and dropped scope frames. [LevelDebug] reports one record per executed
// program. Errors that reach the command line are logged at [LevelError],
// with the context chain of [github.com/ardnew/ly/pkg.Error] rendered as
// nested groups.
//
// # Encodings
//
// [FormatText] (the default) writes key=value records and [FormatJSON] writes
// one object per line. With [WithPretty], text values are colored and
// unquoted with group keys flattened to dotted paths, and JSON objects are
// indented.
package log
