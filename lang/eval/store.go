package eval

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/ardnew/ly/lang/intern"
	"github.com/ardnew/ly/pkg"
)

// Handle addresses a container in a [Store]. Handles are stable for the
// lifetime of the store and are copied by value wherever a module, struct
// instance, or list refers to its backing container.
type Handle int32

const (
	// Root is the handle of the global container.
	Root Handle = 0
	// Prelude is the lexical parent of the root container. It holds the
	// builtins and the standard module, so root globals shadow them.
	Prelude Handle = 1
	// NoHandle is the parent of the prelude container.
	NoHandle Handle = -1
)

// minCollect is the allocation count below which [Store.Due] never reports
// a collection.
const minCollect = 64

type frame map[intern.Symbol]Variable

// container is a stack of frames indexed by scope depth plus the named child
// containers registered in it.
type container struct {
	frames  []frame
	modules map[intern.Symbol]Handle
	parent  Handle
	list    bool
	free    bool
}

// Store is the arena of every container created during a run. The root and
// prelude containers are allocated by [NewStore].
//
// Store methods never return references into a container; every read copies
// out of the arena, and every write goes back through a handle.
//
// Containers no longer reachable from the root are reclaimed by
// [Store.Collect], and their handles are reused by later allocations.
type Store struct {
	containers []container
	free       []Handle
	allocs     int
	goal       int
}

// NewStore returns a store holding only the root and prelude containers.
func NewStore() *Store {
	s := &Store{containers: make([]container, 0, 16), goal: minCollect}
	s.New(Prelude)
	s.New(NoHandle)

	return s
}

// New allocates a container with a single empty frame and returns its
// handle. Name lookups that miss in the container continue in the globals of
// parent, unless parent is [NoHandle].
func (s *Store) New(parent Handle) Handle {
	s.allocs++

	c := container{
		frames: []frame{make(frame)},
		parent: parent,
	}

	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.containers[h] = c

		return h
	}

	s.containers = append(s.containers, c)

	return Handle(len(s.containers) - 1)
}

// NewList allocates the container of a list. Its only frame holds the
// elements keyed by position.
func (s *Store) NewList() Handle {
	h := s.New(NoHandle)
	s.containers[h].list = true

	return h
}

// IsList reports whether h backs a list.
func (s *Store) IsList(h Handle) bool { return s.at(h).list }

// Len returns the number of live containers.
func (s *Store) Len() int { return len(s.containers) - len(s.free) }

func (s *Store) at(h Handle) *container {
	if h < 0 || int(h) >= len(s.containers) {
		panic(fmt.Sprintf("eval: container handle %d out of range [0,%d)",
			h, len(s.containers)))
	}

	c := &s.containers[h]
	if c.free {
		panic(fmt.Sprintf("eval: container handle %d used after reclaim", h))
	}

	return c
}

// Parent returns the lexical parent of h.
func (s *Store) Parent(h Handle) Handle { return s.at(h).parent }

// AddScope appends an empty frame to h and returns its index.
func (s *Store) AddScope(h Handle) int {
	c := s.at(h)
	c.frames = append(c.frames, make(frame))

	return len(c.frames) - 1
}

// Scopes returns the number of frames in h.
func (s *Store) Scopes(h Handle) int { return len(s.at(h).frames) }

// Scope iterates over the variables of frame i in h. It yields nothing if
// the frame does not exist.
func (s *Store) Scope(h Handle, i int) iter.Seq2[intern.Symbol, Variable] {
	return func(yield func(intern.Symbol, Variable) bool) {
		c := s.at(h)
		if i < 0 || i >= len(c.frames) {
			return
		}

		for sym, v := range c.frames[i] {
			if !yield(sym, v) {
				return
			}
		}
	}
}

// grow ensures h has at least n frames.
func (s *Store) grow(h Handle, n int) {
	for s.Scopes(h) < n {
		s.AddScope(h)
	}
}

// Lookup returns the variable named sym in frame i of h.
func (s *Store) Lookup(h Handle, i int, sym intern.Symbol) (Variable, bool) {
	c := s.at(h)
	if i < 0 || i >= len(c.frames) {
		return Variable{}, false
	}

	v, ok := c.frames[i][sym]

	return v, ok
}

// Find returns the index of the innermost frame of h holding sym.
func (s *Store) Find(h Handle, sym intern.Symbol) (int, bool) {
	c := s.at(h)
	for i := len(c.frames) - 1; i >= 0; i-- {
		if _, ok := c.frames[i][sym]; ok {
			return i, true
		}
	}

	return -1, false
}

// Get returns the innermost variable of h named sym.
func (s *Store) Get(h Handle, sym intern.Symbol) (Variable, bool) {
	i, ok := s.Find(h, sym)
	if !ok {
		return Variable{}, false
	}

	return s.Lookup(h, i, sym)
}

// Declare inserts v as sym in frame i of h, growing h to i+1 frames first.
// It reports false, leaving the frame unchanged, if sym is already present in
// that frame.
func (s *Store) Declare(h Handle, i int, sym intern.Symbol, v Variable) bool {
	s.grow(h, i+1)

	f := s.at(h).frames[i]
	if _, ok := f[sym]; ok {
		return false
	}

	f[sym] = v

	return true
}

// Set stores v as sym in frame i of h, replacing any previous value.
func (s *Store) Set(h Handle, i int, sym intern.Symbol, v Variable) {
	s.grow(h, i+1)
	s.at(h).frames[i][sym] = v
}

// Truncate removes every frame of h at index n or deeper. Frame 0 is never
// removed.
func (s *Store) Truncate(h Handle, n int) {
	c := s.at(h)
	n = max(n, 1)

	if n < len(c.frames) {
		clear(c.frames[n:])
		c.frames = c.frames[:n]
	}
}

// Clear empties frame i of h without removing it.
func (s *Store) Clear(h Handle, i int) {
	c := s.at(h)
	if i >= 0 && i < len(c.frames) {
		clear(c.frames[i])
	}
}

// AddModule creates a child container of h registered under name and
// returns its handle.
func (s *Store) AddModule(h Handle, name intern.Symbol) Handle {
	child := s.New(h)

	c := s.at(h)
	if c.modules == nil {
		c.modules = make(map[intern.Symbol]Handle)
	}

	c.modules[name] = child

	return child
}

// Module returns the child container of h registered under name.
func (s *Store) Module(h Handle, name intern.Symbol) (Handle, error) {
	m, ok := s.at(h).modules[name]
	if !ok {
		return NoHandle, pkg.ErrResolution.With(
			slog.String("reason", "not a module"),
			slog.Int("container", int(h)),
		)
	}

	return m, nil
}

// Modules iterates over the child containers registered in h.
func (s *Store) Modules(h Handle) iter.Seq2[intern.Symbol, Handle] {
	return func(yield func(intern.Symbol, Handle) bool) {
		for name, m := range s.at(h).modules {
			if !yield(name, m) {
				return
			}
		}
	}
}

// frameLen returns the number of variables in frame i of h.
func (s *Store) frameLen(h Handle, i int) int {
	c := s.at(h)
	if i < 0 || i >= len(c.frames) {
		return 0
	}

	return len(c.frames[i])
}

// Due reports whether enough containers were allocated since the last
// collection to make another worthwhile: as many as survived it, and at
// least minCollect.
func (s *Store) Due() bool { return s.allocs >= s.goal }

// Collect reclaims every container not reachable from the root or from
// pinned. A container is reachable through the lexical parent and modules of
// a reachable container, and through the lists, instances, and definitions
// held in any of its frames. It returns the number of containers reclaimed.
func (s *Store) Collect(pinned ...Handle) int {
	marked := make([]bool, len(s.containers))
	stack := append([]Handle{Root, Prelude}, pinned...)

	push := func(h Handle) {
		if h >= 0 && int(h) < len(marked) && !marked[h] {
			stack = append(stack, h)
		}
	}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if h < 0 || int(h) >= len(marked) || marked[h] {
			continue
		}

		marked[h] = true
		c := &s.containers[h]

		push(c.parent)

		for _, m := range c.modules {
			push(m)
		}

		for _, f := range c.frames {
			for _, v := range f {
				val := v.Value()
				if val.IsContainer() {
					push(val.Handle)
				}

				if val.Kind == KindFunc || val.Kind == KindInstance {
					push(val.Callable.Scope)
				}
			}
		}
	}

	freed := 0

	for i := range s.containers {
		if marked[i] || s.containers[i].free {
			continue
		}

		s.containers[i] = container{parent: NoHandle, free: true}
		s.free = append(s.free, Handle(i))
		freed++
	}

	s.allocs = 0
	s.goal = max(minCollect, s.Len())

	return freed
}
