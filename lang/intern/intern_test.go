package intern

import "testing"

func TestInternDeduplicates(t *testing.T) {
	in := New()

	a := in.Intern("alpha")
	b := in.Intern("beta")
	again := in.Intern("alpha")

	if a != again {
		t.Errorf("expected same symbol for repeated text, got %d and %d", a, again)
	}

	if a == b {
		t.Errorf("distinct text produced the same symbol %d", a)
	}

	if b != a+1 {
		t.Errorf("expected sequential symbols, got %d then %d", a, b)
	}

	if in.Len() != 2 {
		t.Errorf("expected 2 symbols, got %d", in.Len())
	}
}

func TestResolve(t *testing.T) {
	in := New()

	for _, s := range []string{"x", "y", "0", "module.name"} {
		if got := in.Resolve(in.Intern(s)); got != s {
			t.Errorf("Resolve(Intern(%q)) = %q", s, got)
		}
	}
}

func TestResolveForeignSymbolPanics(t *testing.T) {
	in := New()
	in.Intern("only")

	defer func() {
		if recover() == nil {
			t.Error("expected panic resolving a symbol not issued by the interner")
		}
	}()

	in.Resolve(Symbol(42))
}

func TestLookup(t *testing.T) {
	in := New()
	sym := in.Intern("known")

	if got, ok := in.Lookup("known"); !ok || got != sym {
		t.Errorf("Lookup(known) = %d, %v", got, ok)
	}

	if _, ok := in.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) reported present")
	}

	if in.Len() != 1 {
		t.Errorf("Lookup allocated a symbol: Len = %d", in.Len())
	}
}

func TestSymbolsOrder(t *testing.T) {
	in := New()
	words := []string{"c", "a", "b"}

	for _, w := range words {
		in.Intern(w)
	}

	i := 0
	for sym, text := range in.Symbols() {
		if int(sym) != i || text != words[i] {
			t.Errorf("entry %d = (%d, %q)", i, sym, text)
		}
		i++
	}

	if i != len(words) {
		t.Errorf("iterated %d symbols, want %d", i, len(words))
	}
}
