// Package cli contains the command line interface for ly.
//
// # Usage
//
//	ly [flags] [run] <file>      run a program ('-' reads stdin)
//	ly [flags] ast <file>        print its syntax tree as YAML or JSON
//	ly [flags] repl              start an interactive session
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/ly). The YAML file maps flag
// names, with hyphens or underscores, to values:
//
//	log-level: trace
//	log_pretty: false
//	no-std: true
//
// Flags given on the command line take precedence.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error); trace
//     reports every declaration, call, scope drop, and import
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, none, ...)
//   - --log-caller: include the logging call site
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile to record (cpu, heap, allocs, ...)
//   - --pprof-dir: output directory (default: the pprof subdirectory of the
//     user cache directory)
package cli
