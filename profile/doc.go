// Package profile runs optional [github.com/pkg/profile] sessions around an
// interpreter run.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	ly --pprof-mode cpu --pprof-dir ./prof script.ly
//	go tool pprof -http=: ./prof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a Stopper
// that does nothing, so callers never need build constraints of their own.
// With the tag, importing the package also registers the [net/http/pprof]
// handlers on the default mux.
package profile
