// Package ast defines the syntax tree consumed by the evaluator.
//
// Nodes live in a single arena ([Tree]) and refer to each other by [Index].
// A function body reached from many call sites, or a module injected by an
// import, is therefore shared by index and never copied.
package ast

import "github.com/ardnew/ly/lang/intern"

// Index addresses a node within a [Tree].
type Index int32

// Nil is the Index of an absent node.
const Nil Index = -1

// Valid reports whether i refers to a node.
func (i Index) Valid() bool { return i >= 0 }

// Kind identifies the variant of a [Node].
type Kind uint8

const (
	KindBlock Kind = iota
	KindModule
	KindDeclare
	KindAssign
	KindFunction
	KindFunctionCall
	KindStruct
	KindInstance
	KindConditional
	KindLoop
	KindOp
	KindIndex
	KindReturn
	KindLiteral
	KindList
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "Block"

	case KindModule:
		return "Module"

	case KindDeclare:
		return "Declare"

	case KindAssign:
		return "Assign"

	case KindFunction:
		return "Function"

	case KindFunctionCall:
		return "FunctionCall"

	case KindStruct:
		return "Struct"

	case KindInstance:
		return "Instance"

	case KindConditional:
		return "Conditional"

	case KindLoop:
		return "Loop"

	case KindOp:
		return "Op"

	case KindIndex:
		return "Index"

	case KindReturn:
		return "Return"

	case KindLiteral:
		return "Literal"

	case KindList:
		return "List"

	default:
		return "Unknown"
	}
}

// Operator is a binary operator of an Op node.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpLT
	OpLE
	OpGT
	OpGE
	OpEQ
	OpNE
	OpAnd
	OpOr
)

var operatorText = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
	OpLT:  "<",
	OpLE:  "<=",
	OpGT:  ">",
	OpGE:  ">=",
	OpEQ:  "==",
	OpNE:  "!=",
	OpAnd: "and",
	OpOr:  "or",
}

// String returns the source text of the operator.
func (op Operator) String() string {
	if int(op) < len(operatorText) {
		return operatorText[op]
	}

	return "?"
}

// IsComparison reports whether op yields a Bool from two operands of the same
// kind.
func (op Operator) IsComparison() bool { return op >= OpLT && op <= OpNE }

// ParseOperator returns the operator spelled by text.
func ParseOperator(text string) (Operator, bool) {
	for i, s := range operatorText {
		if s == text {
			return Operator(i), true
		}
	}

	return 0, false
}

// Node is one syntax tree variant. Only the fields listed for its Kind are
// meaningful:
//
//	Block         Children (statements)
//	Module        Name/Named (alias), Source, Body
//	Declare       ID, Value
//	Assign        ID, Value
//	Function      ID, Params, Body
//	FunctionCall  ID, Children (arguments)
//	Struct        ID, Body
//	Instance      ID (struct kind), Children (field Assign nodes)
//	Conditional   Cond, Body, Else (Nil when absent)
//	Loop          Cond, Body
//	Op            Left, Op, Right
//	Index         ID, Value (index expression)
//	Return        Value
//	Literal       Token
//	List          Children (elements)
type Node struct {
	Token    Token
	ID       ID
	Source   string
	Params   []intern.Symbol
	Children []Index
	Pos      Pos
	Value    Index
	Body     Index
	Else     Index
	Cond     Index
	Left     Index
	Right    Index
	Name     intern.Symbol
	Kind     Kind
	Op       Operator
	Named    bool
}

func newNode(kind Kind, pos Pos) Node {
	return Node{
		Kind:  kind,
		Pos:   pos,
		Value: Nil,
		Body:  Nil,
		Else:  Nil,
		Cond:  Nil,
		Left:  Nil,
		Right: Nil,
	}
}
