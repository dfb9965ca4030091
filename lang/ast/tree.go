package ast

import (
	"fmt"
	"iter"

	"github.com/ardnew/ly/lang/intern"
)

// Tree is the arena holding every node of a run, including the nodes of
// imported modules. Nodes are appended and never removed, so an Index stays
// valid for the lifetime of the Tree.
type Tree struct {
	nodes []Node
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 0, 256)}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at i.
//
// Node panics if i is not an index issued by this Tree; a dangling index is
// a structural defect of the tree, not a user error.
func (t *Tree) Node(i Index) Node {
	if i < 0 || int(i) >= len(t.nodes) {
		panic(fmt.Sprintf("ast: node index %d out of range [0,%d)", i, len(t.nodes)))
	}

	return t.nodes[i]
}

// Add appends n to the arena and returns its index.
func (t *Tree) Add(n Node) Index {
	t.nodes = append(t.nodes, n)

	return Index(len(t.nodes) - 1)
}

// Set replaces the node at i. It is used by the parser to patch a block once
// its statements are known.
func (t *Tree) Set(i Index, n Node) {
	_ = t.Node(i)
	t.nodes[i] = n
}

// Children returns an iterator over the child indices of the node at i, in
// evaluation order.
func (t *Tree) Children(i Index) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		n := t.Node(i)

		for _, c := range []Index{n.Cond, n.Left, n.Value, n.Right, n.Body, n.Else} {
			if c.Valid() && !yield(c) {
				return
			}
		}

		for _, c := range n.Children {
			if !yield(c) {
				return
			}
		}
	}
}

// Block adds a Block of stmts.
func (t *Tree) Block(pos Pos, stmts ...Index) Index {
	n := newNode(KindBlock, pos)
	n.Children = stmts

	return t.Add(n)
}

// Module adds a Module whose body is executed in the named child container
// when named is true, or transparently in the current container otherwise.
func (t *Tree) Module(
	pos Pos,
	name intern.Symbol,
	named bool,
	source string,
	body Index,
) Index {
	n := newNode(KindModule, pos)
	n.Name = name
	n.Named = named
	n.Source = source
	n.Body = body

	return t.Add(n)
}

// Declare adds a declaration of id initialized by value.
func (t *Tree) Declare(pos Pos, id ID, value Index) Index {
	n := newNode(KindDeclare, pos)
	n.ID = id
	n.Value = value

	return t.Add(n)
}

// Assign adds an assignment of value to the existing variable id.
func (t *Tree) Assign(pos Pos, id ID, value Index) Index {
	n := newNode(KindAssign, pos)
	n.ID = id
	n.Value = value

	return t.Add(n)
}

// Function adds a function definition.
func (t *Tree) Function(
	pos Pos,
	id ID,
	params []intern.Symbol,
	body Index,
) Index {
	n := newNode(KindFunction, pos)
	n.ID = id
	n.Params = params
	n.Body = body

	return t.Add(n)
}

// Call adds a call of id with args.
func (t *Tree) Call(pos Pos, id ID, args ...Index) Index {
	n := newNode(KindFunctionCall, pos)
	n.ID = id
	n.Children = args

	return t.Add(n)
}

// Struct adds a struct definition.
func (t *Tree) Struct(pos Pos, id ID, body Index) Index {
	n := newNode(KindStruct, pos)
	n.ID = id
	n.Body = body

	return t.Add(n)
}

// Instance adds an instantiation of the struct kind with field initializers.
func (t *Tree) Instance(pos Pos, kind ID, fields ...Index) Index {
	n := newNode(KindInstance, pos)
	n.ID = kind
	n.Children = fields

	return t.Add(n)
}

// Conditional adds an if/else; otherwise may be [Nil].
func (t *Tree) Conditional(pos Pos, cond, then, otherwise Index) Index {
	n := newNode(KindConditional, pos)
	n.Cond = cond
	n.Body = then
	n.Else = otherwise

	return t.Add(n)
}

// Loop adds a while loop.
func (t *Tree) Loop(pos Pos, cond, body Index) Index {
	n := newNode(KindLoop, pos)
	n.Cond = cond
	n.Body = body

	return t.Add(n)
}

// Op adds a binary operation.
func (t *Tree) Op(pos Pos, lhs Index, op Operator, rhs Index) Index {
	n := newNode(KindOp, pos)
	n.Left = lhs
	n.Op = op
	n.Right = rhs

	return t.Add(n)
}

// IndexOf adds an index expression id[index].
func (t *Tree) IndexOf(pos Pos, id ID, index Index) Index {
	n := newNode(KindIndex, pos)
	n.ID = id
	n.Value = index

	return t.Add(n)
}

// Return adds a return of value.
func (t *Tree) Return(pos Pos, value Index) Index {
	n := newNode(KindReturn, pos)
	n.Value = value

	return t.Add(n)
}

// Literal adds a literal token. Identifier tokens must carry their ID.
func (t *Tree) Literal(tok Token) Index {
	n := newNode(KindLiteral, tok.Pos)
	n.Token = tok

	return t.Add(n)
}

// List adds a list literal of elems.
func (t *Tree) List(pos Pos, elems ...Index) Index {
	n := newNode(KindList, pos)
	n.Children = elems

	return t.Add(n)
}

// Number is a convenience for a numeric Literal.
func (t *Tree) Number(pos Pos, v float32) Index {
	return t.Literal(Token{Kind: TokenNumber, Num: v, Pos: pos})
}

// Name is a convenience for an identifier Literal.
func (t *Tree) Name(pos Pos, id ID) Index {
	return t.Literal(Token{Kind: TokenIdentifier, ID: id, Pos: pos})
}
