package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/lang/eval"
	"github.com/ardnew/ly/lang/lexer"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// isWordBoundary reports whether r ends a completion word: whitespace, the
// member-access dot, and the operators and punctuation of the language.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', '(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '^',
		'<', '>', '=', '!', ',', ';', '"', '\'', '#':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the word at cursor in input and its byte offsets.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word starting
// at wordStart. For "x + shapes.util.ti" and the word "ti" it returns
// "shapes.util". Top-level words have an empty parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// candidate is a completion candidate.
type candidate struct {
	name string
	call bool // displayed with "()"
}

type candidates []candidate

// String implements fuzzy.Source.
func (c candidates) String(i int) string { return c[i].name }

// Len implements fuzzy.Source.
func (c candidates) Len() int { return len(c) }

// memberCandidates returns the names visible under parent: the members of a
// module, instance, or list, or for an empty parent every global plus the
// keywords. Names that cannot be typed as identifiers are left out.
func memberCandidates(interp *lang.Interpreter, parent string) candidates {
	var out candidates

	if parent == "" {
		for _, kw := range lexer.Keywords() {
			out = append(out, candidate{name: kw})
		}
	}

	members, err := interp.Evaluator().Members(parent)
	if err != nil {
		return out
	}

	for _, m := range members {
		if parent == "" && !isIdentifier(m.Name) {
			continue
		}

		out = append(out, candidate{name: m.Name, call: m.Kind == eval.KindFunc})
	}

	return out
}

func isIdentifier(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return r == '_' || unicode.IsLetter(r)
}

// completion is the completion state of the input line.
type completion struct {
	matches    fuzzy.Matches
	source     candidates
	start, end int // bounds of the word being completed
}

// complete computes the fuzzy matches for the word at cursor. An empty word
// after a dot lists every member of the parent; an empty word elsewhere has
// no matches so the hint line stays visible.
func complete(interp *lang.Interpreter, mode inputMode, input string, cursor int) completion {
	word, start, end := wordBounds(input, cursor)
	c := completion{start: start, end: end}

	if mode == modeCtrl {
		if word == "" || strings.Contains(input[:start], " ") {
			return c
		}

		for _, name := range ctrlCommands {
			c.source = append(c.source, candidate{name: name})
		}
	} else {
		parent := parentPath(input, start)
		c.source = memberCandidates(interp, parent)

		if word == "" {
			if parent == "" {
				return c
			}

			c.matches = make(fuzzy.Matches, len(c.source))
			for i, s := range c.source {
				c.matches[i] = fuzzy.Match{Str: s.name, Index: i}
			}

			return c
		}
	}

	c.matches = fuzzy.FindFrom(word, c.source)

	return c
}

// renderCandidateBar renders the matches on one line, cut off with an
// ellipsis at width. The selected match is highlighted while tabbing.
func renderCandidateBar(c completion, selected int, tabbing bool, width int) string {
	if len(c.matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis) - len(sep)

	var b strings.Builder

	used := 0

	for i, m := range c.matches {
		item := renderCandidate(m, c.source[m.Index].call, tabbing && i == selected)
		w := lipgloss.Width(item)

		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w > room {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate renders one match with its matched characters in bold.
func renderCandidate(m fuzzy.Match, call, selected bool) string {
	base := suggestionStyle
	if selected {
		base = selectedStyle
	}

	bold := base.Bold(true)

	hit := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range m.Str {
		if hit[i] {
			b.WriteString(bold.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if call {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
