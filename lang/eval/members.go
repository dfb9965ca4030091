package eval

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/ly/pkg"
)

// Member describes a name visible in a container.
type Member struct {
	Name   string
	Kind   Kind
	Module bool
}

// Members lists the modules and variables of the container named by the
// dotted path text, sorted by name. An empty path names the active
// container, whose lexical parents also contribute their globals. A path may
// name a module, an instance, or a list.
func (e *Evaluator) Members(text string) ([]Member, error) {
	h := e.active

	if text != "" {
		for i, part := range strings.Split(text, ".") {
			sym, ok := e.in.Lookup(part)
			if !ok {
				return nil, pkg.ErrResolution.With(
					slog.String("name", text),
					slog.String("component", part),
					slog.String("reason", "not found"),
				)
			}

			next, err := e.descend(h, sym, i == 0)
			if err != nil {
				return nil, pkg.ErrResolution.With(
					slog.String("name", text),
					slog.String("component", part),
				).Wrap(err)
			}

			h = next
		}
	}

	seen := make(map[string]bool)

	var out []Member

	add := func(m Member) {
		if !seen[m.Name] {
			seen[m.Name] = true
			out = append(out, m)
		}
	}

	for c := h; c != NoHandle; c = e.store.Parent(c) {
		for sym := range e.store.Modules(c) {
			add(Member{Name: e.in.Resolve(sym), Module: true})
		}

		for i := e.store.Scopes(c) - 1; i >= 0; i-- {
			if c != h && i > 0 {
				continue
			}

			for sym, v := range e.store.Scope(c, i) {
				add(Member{Name: e.in.Resolve(sym), Kind: v.Value().Kind})
			}
		}

		if text != "" {
			break
		}
	}

	slices.SortFunc(out, func(a, b Member) int { return cmp.Compare(a.Name, b.Name) })

	return out, nil
}

// Params returns the parameter names of the script function held by the
// variable named by text. It reports false for anything else, including
// builtins and structs.
func (e *Evaluator) Params(text string) ([]string, bool) {
	v, err := e.Lookup(text)
	if err != nil || v.Kind != KindFunc || v.Callable.Kind != CallFunction {
		return nil, false
	}

	params := e.tree.Node(v.Callable.Node).Params
	names := make([]string, len(params))

	for i, p := range params {
		names[i] = e.in.Resolve(p)
	}

	return names, true
}
