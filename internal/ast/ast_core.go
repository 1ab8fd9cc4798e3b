package ast

import (
	"github.com/ruvylang/ruvy/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Span() token.Span
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node usable on the left of a match arm, a destructuring
// let, a for binding or a catch clause.
type Pattern interface {
	Node
	patternNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

func (p *Program) Span() token.Span {
	if len(p.Statements) == 0 {
		return token.Span{}
	}
	first := p.Statements[0].Span()
	last := p.Statements[len(p.Statements)-1].Span()
	return token.Span{Start: first.Start, End: last.End}
}

// Param is a single function or lambda parameter.
type Param struct {
	Token          token.Token
	Name           string
	TypeAnnotation string // optional, never gates evaluation
	Variadic       bool   // ...tail parameter; at most one, last
}

// Attribute is a simple #[name] or #[name(arg)] marker attached to a
// declaration. The core carries them through; only a few are interpreted.
type Attribute struct {
	Token token.Token
	Name  string
	Args  []string
}

// Identifier represents an identifier, e.g. a variable name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) Span() token.Span { return token.SpanOf(i.GetToken()) }

// BlockStatement is a `{ ... }` sequence of statements. Its value, when
// used in expression position, is the value of its last statement.
type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}
func (bs *BlockStatement) Span() token.Span {
	sp := token.SpanOf(bs.GetToken())
	if len(bs.Statements) > 0 {
		sp.End = bs.Statements[len(bs.Statements)-1].Span().End
	}
	return sp
}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
func (es *ExpressionStatement) Span() token.Span {
	if es.Expression != nil {
		return es.Expression.Span()
	}
	return token.SpanOf(es.GetToken())
}
