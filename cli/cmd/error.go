package cmd

import "github.com/ardnew/ly/pkg"

// ErrFormat is returned when a syntax tree cannot be encoded.
var ErrFormat = pkg.NewError("format syntax tree")
