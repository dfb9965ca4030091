package ast

import (
	"strconv"
)

// TokenKind classifies a lexical token.
type TokenKind uint8

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota

	// TokenNumber is a numeric literal; its value is held in [Token.Num].
	TokenNumber

	// TokenString is a string literal; its decoded value is in [Token.Str].
	TokenString

	// TokenChar is a character literal; its decoded value is in [Token.Str].
	TokenChar

	// TokenBool is a boolean literal; its value is in [Token.Bool].
	TokenBool

	// TokenUndefined is the "no value" sentinel literal.
	TokenUndefined

	// TokenIdentifier is a (possibly dotted) name; the parser fills [Token.ID].
	TokenIdentifier

	// TokenKeyword is a reserved word.
	TokenKeyword

	// TokenOperator is an arithmetic, comparison, or logical operator.
	TokenOperator

	// TokenPunct is punctuation: ( ) [ ] { } , ; =.
	TokenPunct
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"

	case TokenNumber:
		return "Number"

	case TokenString:
		return "String"

	case TokenChar:
		return "Char"

	case TokenBool:
		return "Bool"

	case TokenUndefined:
		return "Undefined"

	case TokenIdentifier:
		return "Identifier"

	case TokenKeyword:
		return "Keyword"

	case TokenOperator:
		return "Operator"

	case TokenPunct:
		return "Punct"

	default:
		return "Unknown"
	}
}

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Token is a lexical token. Only the fields relevant to Kind are set.
type Token struct {
	Text string  // raw lexeme
	Str  string  // decoded string or char literal
	ID   ID      // identifier path (set by the parser)
	Num  float32 // numeric literal
	Pos  Pos
	Kind TokenKind
	Bool bool
}

// Is reports whether t is a keyword, operator, or punctuation token with the
// given text.
func (t Token) Is(text string) bool {
	switch t.Kind {
	case TokenKeyword, TokenOperator, TokenPunct:
		return t.Text == text

	default:
		return false
	}
}

// Literal renders the literal value of t as it would appear in source.
func (t Token) Literal() string {
	switch t.Kind {
	case TokenNumber:
		return strconv.FormatFloat(float64(t.Num), 'f', -1, 32)

	case TokenString:
		return strconv.Quote(t.Str)

	case TokenChar:
		for _, r := range t.Str {
			return strconv.QuoteRune(r)
		}

		return "''"

	case TokenBool:
		return strconv.FormatBool(t.Bool)

	case TokenUndefined:
		return "undefined"

	default:
		return t.Text
	}
}
