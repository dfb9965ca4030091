package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func lines(h *History) []Entry {
	out := make([]Entry, h.Len())
	for i := range out {
		out[i], _ = h.Entry(i)
	}

	return out
}

func TestHistoryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), historyFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file: %v", err)
	}

	for _, add := range []Entry{
		{"let x = 1", modeEval},
		{"list", modeCtrl},
		{"   ", modeEval},
		{"x + 1", modeEval},
		{"x + 1", modeEval},
		{"let x = 1", modeEval},
	} {
		if err := h.Add(add.Line, add.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []Entry{{"list", modeCtrl}, {"x + 1", modeEval}, {"let x = 1", modeEval}}

	check := func(name string, got []Entry) {
		t.Helper()

		if len(got) != len(want) {
			t.Fatalf("%s: entries = %v, want %v", name, got, want)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: entry %d = %v, want %v", name, i, got[i], want[i])
			}
		}
	}

	check("memory", lines(h))

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	check("file", lines(reloaded))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:list\nE:x + 1\nE:let x = 1\n" {
		t.Errorf("file = %q", got)
	}
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("quit", modeCtrl); err != nil {
		t.Fatal(err)
	}

	if e, ok := h.Entry(0); !ok || e.Line != "quit" || e.Mode != modeCtrl {
		t.Errorf("Entry(0) = %v, %v", e, ok)
	}

	if _, ok := h.Entry(1); ok {
		t.Error("Entry(1) exists")
	}
}

func TestHistoryDecode(t *testing.T) {
	e, ok := decode("plain line")
	if !ok || e.Mode != modeEval || e.Line != "plain line" {
		t.Errorf("decode(unprefixed) = %v, %v", e, ok)
	}

	if _, ok := decode("  "); ok {
		t.Error("decode(blank) ok")
	}
}
