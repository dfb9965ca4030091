// Package std holds the source of the standard module, which is executed in
// the prelude ahead of every program unless disabled. Programs may declare
// globals with the same names as its functions.
package std

import (
	_ "embed"
)

// Name is the file name reported for the standard module in diagnostics.
const Name = "std.ly"

//go:embed std.ly
var source []byte

// Source returns the source text of the standard module.
func Source() []byte { return source }
