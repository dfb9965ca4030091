package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// historyFile is the name of the history file in the cache directory.
const historyFile = "history.utf8"

// Each history line starts with the mode it was entered in.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

// Entry is one remembered input line.
type Entry struct {
	Line string
	Mode inputMode
}

func (e Entry) encode() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line + "\n"
	}

	return evalPrefix + e.Line + "\n"
}

func decode(line string) (Entry, bool) {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return Entry{}, false
	case strings.HasPrefix(line, ctrlPrefix):
		return Entry{Line: line[len(ctrlPrefix):], Mode: modeCtrl}, true
	default:
		return Entry{Line: strings.TrimPrefix(line, evalPrefix), Mode: modeEval}, true
	}
}

// History is the list of input lines, persisted to a file. A line entered
// again moves to the end instead of being duplicated. An empty path keeps
// history in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// NewHistory returns an empty History backed by the file at path.
func NewHistory(path string) *History { return &History{path: path} }

// Load replaces the entries with the contents of the history file.
// A missing file is an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return ErrHistory.Wrap(err)
	}
	defer f.Close()

	h.entries = h.entries[:0]

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if e, ok := decode(sc.Text()); ok {
			h.entries = append(h.entries, e)
		}
	}

	if err := sc.Err(); err != nil {
		return ErrHistory.Wrap(err)
	}

	return nil
}

// Add records line as entered in mode.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	e := Entry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	if i := slices.Index(h.entries, e); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		h.entries = append(h.entries, e)

		return h.save(os.O_TRUNC, h.entries...)
	}

	h.entries = append(h.entries, e)

	return h.save(os.O_APPEND, e)
}

// Entry returns the entry at i, oldest first.
func (h *History) Entry(i int) (Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, false
	}

	return h.entries[i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// save writes entries to the history file, either appended or replacing its
// contents according to flag. The caller holds the write lock.
func (h *History) save(flag int, entries ...Entry) error {
	if h.path == "" {
		return nil
	}

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|flag, 0o600)
	if err != nil {
		return ErrHistory.Wrap(err)
	}

	w := bufio.NewWriter(f)
	for _, e := range entries {
		_, _ = w.WriteString(e.encode())
	}

	if err := w.Flush(); err != nil {
		f.Close()

		return ErrHistory.Wrap(err)
	}

	if err := f.Close(); err != nil {
		return ErrHistory.Wrap(err)
	}

	return nil
}
