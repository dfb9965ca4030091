package repl

import "github.com/ardnew/ly/pkg"

var (
	// ErrHistory is returned when the history file cannot be read or written.
	ErrHistory = pkg.NewError("history")

	// ErrEditDeclined is returned when the user declines to edit a chunk
	// again after it failed to parse.
	ErrEditDeclined = pkg.NewError("edit declined")

	// ErrEditor is returned when the external editor cannot be run.
	ErrEditor = pkg.NewError("editor")
)
