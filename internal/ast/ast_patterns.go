package ast

import (
	"github.com/ruvylang/ruvy/internal/token"
)

// WildcardPattern matches anything and binds nothing: _.
type WildcardPattern struct {
	Token token.Token
}

func (wp *WildcardPattern) patternNode()         {}
func (wp *WildcardPattern) TokenLiteral() string { return wp.Token.Lexeme }
func (wp *WildcardPattern) GetToken() token.Token {
	if wp == nil {
		return token.Token{}
	}
	return wp.Token
}
func (wp *WildcardPattern) Span() token.Span { return token.SpanOf(wp.GetToken()) }

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	Token token.Token
	Value Expression // IntegerLiteral, StringLiteral, BooleanLiteral, CharLiteral, FloatLiteral, NilLiteral
}

func (lp *LiteralPattern) patternNode()         {}
func (lp *LiteralPattern) TokenLiteral() string { return lp.Token.Lexeme }
func (lp *LiteralPattern) GetToken() token.Token {
	if lp == nil {
		return token.Token{}
	}
	return lp.Token
}
func (lp *LiteralPattern) Span() token.Span { return token.SpanOf(lp.GetToken()) }

// IdentifierPattern matches anything and binds it to a name.
type IdentifierPattern struct {
	Token token.Token
	Name  string
}

func (ip *IdentifierPattern) patternNode()         {}
func (ip *IdentifierPattern) TokenLiteral() string { return ip.Token.Lexeme }
func (ip *IdentifierPattern) GetToken() token.Token {
	if ip == nil {
		return token.Token{}
	}
	return ip.Token
}
func (ip *IdentifierPattern) Span() token.Span { return token.SpanOf(ip.GetToken()) }

// TuplePattern destructures a tuple: (a, _, 3).
type TuplePattern struct {
	Token    token.Token
	Elements []Pattern
}

func (tp *TuplePattern) patternNode()         {}
func (tp *TuplePattern) TokenLiteral() string { return tp.Token.Lexeme }
func (tp *TuplePattern) GetToken() token.Token {
	if tp == nil {
		return token.Token{}
	}
	return tp.Token
}
func (tp *TuplePattern) Span() token.Span { return token.SpanOf(tp.GetToken()) }

// ListPattern destructures a list: [a, b] or [head, ..tail].
type ListPattern struct {
	Token    token.Token
	Elements []Pattern
	HasRest  bool
	Rest     string // "" binds nothing (bare ..), otherwise the rest name
}

func (lp *ListPattern) patternNode()         {}
func (lp *ListPattern) TokenLiteral() string { return lp.Token.Lexeme }
func (lp *ListPattern) GetToken() token.Token {
	if lp == nil {
		return token.Token{}
	}
	return lp.Token
}
func (lp *ListPattern) Span() token.Span { return token.SpanOf(lp.GetToken()) }

// FieldPattern is one field of a struct pattern.
type FieldPattern struct {
	Name    string
	Pattern Pattern // nil shorthand binds the field to its own name
}

// StructPattern destructures a struct or record: Point { x, y: b, .. }.
type StructPattern struct {
	Token   token.Token
	Name    string // empty matches any record shape
	Fields  []FieldPattern
	HasRest bool
}

func (sp *StructPattern) patternNode()         {}
func (sp *StructPattern) TokenLiteral() string { return sp.Token.Lexeme }
func (sp *StructPattern) GetToken() token.Token {
	if sp == nil {
		return token.Token{}
	}
	return sp.Token
}
func (sp *StructPattern) Span() token.Span { return token.SpanOf(sp.GetToken()) }

// EnumPattern matches an enum variant: Shape::Circle(r) or Some(x).
type EnumPattern struct {
	Token    token.Token
	EnumName string // may be empty when the variant is unqualified
	Variant  string
	Elements []Pattern
}

func (ep *EnumPattern) patternNode()         {}
func (ep *EnumPattern) TokenLiteral() string { return ep.Token.Lexeme }
func (ep *EnumPattern) GetToken() token.Token {
	if ep == nil {
		return token.Token{}
	}
	return ep.Token
}
func (ep *EnumPattern) Span() token.Span { return token.SpanOf(ep.GetToken()) }

// RangePattern matches a numeric or char range: 1..5 or 'a'..='z'.
type RangePattern struct {
	Token     token.Token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (rp *RangePattern) patternNode()         {}
func (rp *RangePattern) TokenLiteral() string { return rp.Token.Lexeme }
func (rp *RangePattern) GetToken() token.Token {
	if rp == nil {
		return token.Token{}
	}
	return rp.Token
}
func (rp *RangePattern) Span() token.Span { return token.SpanOf(rp.GetToken()) }

// OrPattern matches if any alternative matches: 1 | 2 | 3.
// All alternatives must bind the same names (checked at match time).
type OrPattern struct {
	Token        token.Token
	Alternatives []Pattern
}

func (op *OrPattern) patternNode()         {}
func (op *OrPattern) TokenLiteral() string { return op.Token.Lexeme }
func (op *OrPattern) GetToken() token.Token {
	if op == nil {
		return token.Token{}
	}
	return op.Token
}
func (op *OrPattern) Span() token.Span { return token.SpanOf(op.GetToken()) }
