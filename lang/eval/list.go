package eval

import (
	"strconv"

	"github.com/ardnew/ly/lang/intern"
)

// NewList stores elems in a new list container. Elements are keyed by their
// decimal position in the container's single frame.
func (e *Evaluator) NewList(elems ...Value) Value {
	h := e.store.NewList()

	for j, v := range elems {
		e.store.Set(h, 0, e.position(j), variableOf(v))
	}

	return List(h)
}

// Elements returns copies of the elements of list in order.
func (e *Evaluator) Elements(list Value) []Value {
	if list.Kind != KindList {
		return nil
	}

	elems := make([]Value, 0, e.store.frameLen(list.Handle, 0))

	for j := 0; ; j++ {
		sym, ok := e.in.Lookup(strconv.Itoa(j))
		if !ok {
			break
		}

		v, ok := e.store.Lookup(list.Handle, 0, sym)
		if !ok {
			break
		}

		elems = append(elems, v.Value())
	}

	return elems
}

// Append adds v to the end of list. The change is visible through every
// value sharing the list's container.
func (e *Evaluator) Append(list Value, v Value) {
	if list.Kind != KindList {
		return
	}

	n := e.store.frameLen(list.Handle, 0)
	e.store.Set(list.Handle, 0, e.position(n), variableOf(v))
}

// Count returns the number of elements of list.
func (e *Evaluator) Count(list Value) int {
	if list.Kind != KindList {
		return 0
	}

	return e.store.frameLen(list.Handle, 0)
}

func (e *Evaluator) position(j int) intern.Symbol {
	return e.in.Intern(strconv.Itoa(j))
}
