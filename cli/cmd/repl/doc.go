// Package repl implements the interactive ly session.
//
// A [Session] buffers input lines until they form a complete chunk, then runs
// the chunk in an interpreter that persists for the whole session. [Run]
// drives a session from a Bubble Tea terminal interface with fuzzy
// completion of names, call signatures, and a history shared across
// sessions. [Lines] drives one from a plain stream.
package repl
