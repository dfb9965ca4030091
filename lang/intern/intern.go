// Package intern maps identifier text to small, stable integers.
//
// Every later stage of the interpreter compares and hashes names as
// [Symbol] values instead of strings. An [Interner] is an explicit instance
// owned by whoever drives a run; symbols must never be mixed between
// interners.
package intern

import (
	"fmt"
	"iter"
)

// Symbol is the interned representation of an identifier.
type Symbol uint32

// Interner deduplicates identifier text.
// The zero value is not usable; construct with [New].
type Interner struct {
	index map[string]Symbol
	text  []string
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{
		index: make(map[string]Symbol),
		text:  make([]string, 0, 64),
	}
}

// Intern returns the symbol for text, allocating the next sequential symbol
// if text was not seen before.
func (in *Interner) Intern(text string) Symbol {
	if sym, ok := in.index[text]; ok {
		return sym
	}

	sym := Symbol(len(in.text))
	in.text = append(in.text, text)
	in.index[text] = sym

	return sym
}

// Lookup returns the symbol for text without allocating one.
func (in *Interner) Lookup(text string) (Symbol, bool) {
	sym, ok := in.index[text]

	return sym, ok
}

// Resolve returns the text of sym.
//
// Resolve panics if sym was not produced by this interner; a foreign or forged
// symbol is a programming error.
func (in *Interner) Resolve(sym Symbol) string {
	if int(sym) >= len(in.text) {
		panic(fmt.Sprintf("intern: symbol %d was not issued by this interner", sym))
	}

	return in.text[sym]
}

// Len returns the number of distinct symbols interned.
func (in *Interner) Len() int { return len(in.text) }

// Symbols returns an iterator over all interned symbols and their text in
// allocation order.
func (in *Interner) Symbols() iter.Seq2[Symbol, string] {
	return func(yield func(Symbol, string) bool) {
		for i, s := range in.text {
			if !yield(Symbol(i), s) {
				return
			}
		}
	}
}
