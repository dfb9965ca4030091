package ast

import (
	"github.com/ardnew/ly/lang/intern"
)

// ToNative converts the subtree rooted at i to native Go maps and slices
// suitable for JSON or YAML encoding. Names are resolved through in.
func (t *Tree) ToNative(in *intern.Interner, i Index) any {
	if !i.Valid() {
		return nil
	}

	n := t.Node(i)
	m := map[string]any{"kind": n.Kind.String()}

	switch n.Kind {
	case KindBlock:
		m["statements"] = t.nativeList(in, n.Children)

	case KindModule:
		if n.Named {
			m["alias"] = in.Resolve(n.Name)
		}

		if n.Source != "" {
			m["source"] = n.Source
		}

		m["body"] = t.ToNative(in, n.Body)

	case KindDeclare, KindAssign:
		m["id"] = n.ID.String(in)
		m["value"] = t.ToNative(in, n.Value)

	case KindFunction:
		params := make([]any, len(n.Params))
		for j, p := range n.Params {
			params[j] = in.Resolve(p)
		}

		m["id"] = n.ID.String(in)
		m["params"] = params
		m["body"] = t.ToNative(in, n.Body)

	case KindFunctionCall:
		m["id"] = n.ID.String(in)
		m["args"] = t.nativeList(in, n.Children)

	case KindStruct:
		m["id"] = n.ID.String(in)
		m["body"] = t.ToNative(in, n.Body)

	case KindInstance:
		m["kind_id"] = n.ID.String(in)
		m["fields"] = t.nativeList(in, n.Children)

	case KindConditional:
		m["cond"] = t.ToNative(in, n.Cond)
		m["then"] = t.ToNative(in, n.Body)

		if n.Else.Valid() {
			m["else"] = t.ToNative(in, n.Else)
		}

	case KindLoop:
		m["cond"] = t.ToNative(in, n.Cond)
		m["body"] = t.ToNative(in, n.Body)

	case KindOp:
		m["op"] = n.Op.String()
		m["lhs"] = t.ToNative(in, n.Left)
		m["rhs"] = t.ToNative(in, n.Right)

	case KindIndex:
		m["id"] = n.ID.String(in)
		m["index"] = t.ToNative(in, n.Value)

	case KindReturn:
		m["value"] = t.ToNative(in, n.Value)

	case KindLiteral:
		return tokenToNative(in, n.Token)

	case KindList:
		m["elements"] = t.nativeList(in, n.Children)
	}

	return m
}

func (t *Tree) nativeList(in *intern.Interner, idx []Index) []any {
	out := make([]any, len(idx))
	for j, c := range idx {
		out[j] = t.ToNative(in, c)
	}

	return out
}

func tokenToNative(in *intern.Interner, tok Token) any {
	switch tok.Kind {
	case TokenNumber:
		return float64(tok.Num)

	case TokenString:
		return tok.Str

	case TokenChar:
		return map[string]any{"char": tok.Str}

	case TokenBool:
		return tok.Bool

	case TokenUndefined:
		return nil

	case TokenIdentifier:
		return map[string]any{"name": tok.ID.String(in)}

	default:
		return tok.Text
	}
}
