// Package cmd implements the ly subcommands: run executes a program, ast
// prints its syntax tree, and repl starts an interactive session.
//
// Commands read their shared [Settings] and the active kong context from
// the context they are run with.
package cmd
