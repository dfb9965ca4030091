package eval

import (
	"log/slog"
	"slices"
)

// pin keeps the containers v refers to alive across collections until the
// pin stack is unwound below it. Values held by Go code while further
// expressions are evaluated must be pinned, since no frame refers to them.
func (e *Evaluator) pin(v Value) {
	if v.IsContainer() {
		e.pins = append(e.pins, v.Handle)
	}

	if v.Kind == KindFunc || v.Kind == KindInstance {
		e.pins = append(e.pins, v.Callable.Scope)
	}
}

// pinned returns the height of the pin stack, for a later unpin.
func (e *Evaluator) pinned() int { return len(e.pins) }

// unpin drops every pin pushed since the pin stack was height n.
func (e *Evaluator) unpin(n int) { e.pins = e.pins[:n] }

// collect reclaims unreachable containers once enough have been allocated.
// It is only called between statements, where every live value is either
// held in a frame or pinned.
func (e *Evaluator) collect() {
	if !e.store.Due() {
		return
	}

	live := e.store.Len()
	freed := e.store.Collect(append(slices.Clip(e.pins), e.active)...)

	e.logger.Trace("collect",
		slog.Int("live", live-freed),
		slog.Int("freed", freed),
		slog.Int("pins", len(e.pins)),
	)
}
