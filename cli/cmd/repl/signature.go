package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/lang/eval"
)

// builtinParams names the parameters of the builtins for signature hints.
// A trailing "..." marks a variadic parameter.
var builtinParams = map[string][]string{
	"print": {"values..."},
	"len":   {"value"},
	"push":  {"list", "value"},
	"str":   {"value"},
	"num":   {"text"},
	"input": {},
	"type":  {"value"},
	"calc":  {"expression"},
	"env":   {"name"},
}

var (
	signatureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	calleeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	paramStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// call describes the innermost call whose argument list holds the cursor.
type call struct {
	name string
	arg  int // index of the argument under the cursor
}

// enclosingCall finds the call whose open parenthesis most closely precedes
// cursor without being closed, and counts the commas before cursor at that
// nesting level.
func enclosingCall(input string, cursor int) (call, bool) {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']':
			depth++
		case '(', '[':
			if depth == 0 && input[i] == '(' {
				open = i
			} else if depth > 0 {
				depth--
			}
		}
	}

	if open < 0 {
		return call{}, false
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && isWordBoundary(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" || strings.HasPrefix(name, ".") {
		return call{}, false
	}

	c := call{name: name}
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				c.arg++
			}
		}
	}

	return c, true
}

// params returns the parameter names of the function or builtin called name.
func params(interp *lang.Interpreter, name string) ([]string, bool) {
	if p, ok := interp.Evaluator().Params(name); ok {
		return p, true
	}

	v, err := interp.Lookup(name)
	if err != nil || v.Kind != eval.KindFunc || v.Callable.Kind != eval.CallNative {
		return nil, false
	}

	p, ok := builtinParams[name]

	return p, ok
}

// renderSignature renders "name(a, b)" with the parameter at arg
// highlighted. A variadic last parameter stays highlighted past its index.
func renderSignature(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(calleeStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := i == len(params)-1 && strings.HasSuffix(p, "...")

		if i == arg || (variadic && arg > i) {
			b.WriteString(paramStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
