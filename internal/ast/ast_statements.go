package ast

import (
	"github.com/ruvylang/ruvy/internal/token"
)

// LetStatement represents a simple binding: let x = v / let mut x = v.
type LetStatement struct {
	Token          token.Token // the 'let' token
	Name           *Identifier
	Mutable        bool
	TypeAnnotation string // optional
	Value          Expression
	Attrs          []Attribute
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}
func (ls *LetStatement) Span() token.Span {
	sp := token.SpanOf(ls.GetToken())
	if ls.Value != nil {
		sp.End = ls.Value.Span().End
	}
	return sp
}

// LetPatternStatement destructures a value: let (a, b) = pair.
type LetPatternStatement struct {
	Token   token.Token // the 'let' token
	Pattern Pattern
	Value   Expression
}

func (lp *LetPatternStatement) statementNode()       {}
func (lp *LetPatternStatement) TokenLiteral() string { return lp.Token.Lexeme }
func (lp *LetPatternStatement) GetToken() token.Token {
	if lp == nil {
		return token.Token{}
	}
	return lp.Token
}
func (lp *LetPatternStatement) Span() token.Span {
	sp := token.SpanOf(lp.GetToken())
	if lp.Value != nil {
		sp.End = lp.Value.Span().End
	}
	return sp
}

// ConstStatement represents a const binding: const MAX = 10.
// Const names are promoted to module-level consts by the transpiler.
type ConstStatement struct {
	Token          token.Token // the 'const' token
	Name           *Identifier
	TypeAnnotation string // optional
	Value          Expression
}

func (cs *ConstStatement) statementNode()       {}
func (cs *ConstStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ConstStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}
func (cs *ConstStatement) Span() token.Span {
	sp := token.SpanOf(cs.GetToken())
	if cs.Value != nil {
		sp.End = cs.Value.Span().End
	}
	return sp
}

// AssignStatement mutates an existing binding or place: x = v, a.b = v, a[i] = v.
type AssignStatement struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}
func (as *AssignStatement) Span() token.Span {
	sp := token.SpanOf(as.GetToken())
	if as.Target != nil {
		sp.Start = as.Target.Span().Start
	}
	if as.Value != nil {
		sp.End = as.Value.Span().End
	}
	return sp
}

// CompoundAssignStatement is x += v and friends. Op is the bare operator ("+").
type CompoundAssignStatement struct {
	Token  token.Token // the operator token
	Target Expression
	Op     string
	Value  Expression
}

func (ca *CompoundAssignStatement) statementNode()       {}
func (ca *CompoundAssignStatement) TokenLiteral() string { return ca.Token.Lexeme }
func (ca *CompoundAssignStatement) GetToken() token.Token {
	if ca == nil {
		return token.Token{}
	}
	return ca.Token
}
func (ca *CompoundAssignStatement) Span() token.Span {
	sp := token.SpanOf(ca.GetToken())
	if ca.Target != nil {
		sp.Start = ca.Target.Span().Start
	}
	if ca.Value != nil {
		sp.End = ca.Value.Span().End
	}
	return sp
}

// IncDecStatement is x++ / x-- / ++x / --x. Op is "++" or "--".
type IncDecStatement struct {
	Token  token.Token
	Target Expression
	Op     string
	Prefix bool
}

func (id *IncDecStatement) statementNode()       {}
func (id *IncDecStatement) TokenLiteral() string { return id.Token.Lexeme }
func (id *IncDecStatement) GetToken() token.Token {
	if id == nil {
		return token.Token{}
	}
	return id.Token
}
func (id *IncDecStatement) Span() token.Span { return token.SpanOf(id.GetToken()) }

// FunctionStatement represents a named function definition.
type FunctionStatement struct {
	Token      token.Token // the 'fun' token
	Name       *Identifier
	Params     []*Param
	Body       *BlockStatement
	Pub        bool
	Async      bool
	Generics   []string
	Attrs      []Attribute
	DocComment string // leading /// lines, joined
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}
func (fs *FunctionStatement) Span() token.Span {
	sp := token.SpanOf(fs.GetToken())
	if fs.Body != nil {
		sp.End = fs.Body.Span().End
	}
	return sp
}

// Variadic reports whether the function declares a variadic tail parameter.
func (fs *FunctionStatement) Variadic() bool {
	return len(fs.Params) > 0 && fs.Params[len(fs.Params)-1].Variadic
}

// ReturnStatement returns from the enclosing function. Value may be nil.
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}
func (rs *ReturnStatement) Span() token.Span {
	sp := token.SpanOf(rs.GetToken())
	if rs.Value != nil {
		sp.End = rs.Value.Span().End
	}
	return sp
}

// BreakStatement exits the enclosing (or labeled) loop, optionally with a value.
type BreakStatement struct {
	Token token.Token
	Label string
	Value Expression
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}
func (bs *BreakStatement) Span() token.Span {
	sp := token.SpanOf(bs.GetToken())
	if bs.Value != nil {
		sp.End = bs.Value.Span().End
	}
	return sp
}

// ContinueStatement skips to the next iteration of the enclosing loop.
type ContinueStatement struct {
	Token token.Token
	Label string
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}
func (cs *ContinueStatement) Span() token.Span { return token.SpanOf(cs.GetToken()) }

// ThrowStatement raises a user exception.
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}
func (ts *ThrowStatement) Span() token.Span {
	sp := token.SpanOf(ts.GetToken())
	if ts.Value != nil {
		sp.End = ts.Value.Span().End
	}
	return sp
}

// ModuleStatement declares an inline module: module name { ... }.
type ModuleStatement struct {
	Token token.Token
	Name  *Identifier
	Body  *BlockStatement
}

func (ms *ModuleStatement) statementNode()       {}
func (ms *ModuleStatement) TokenLiteral() string { return ms.Token.Lexeme }
func (ms *ModuleStatement) GetToken() token.Token {
	if ms == nil {
		return token.Token{}
	}
	return ms.Token
}
func (ms *ModuleStatement) Span() token.Span {
	sp := token.SpanOf(ms.GetToken())
	if ms.Body != nil {
		sp.End = ms.Body.Span().End
	}
	return sp
}

// ImportItem is a single imported name, optionally aliased.
type ImportItem struct {
	Name  string
	Alias string
}

// ImportStatement represents import a::b::c, import a::b::{c, d as e},
// import a::b::* and import a::b as m.
type ImportStatement struct {
	Token    token.Token
	Path     []string // path segments, e.g. ["std", "fs"]
	Items    []ImportItem
	Wildcard bool
	Alias    string // module-level alias
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *ImportStatement) Span() token.Span { return token.SpanOf(is.GetToken()) }

// ExportStatement marks names as exported from the enclosing module.
type ExportStatement struct {
	Token token.Token
	Names []string
}

func (es *ExportStatement) statementNode()       {}
func (es *ExportStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExportStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
func (es *ExportStatement) Span() token.Span { return token.SpanOf(es.GetToken()) }

// StructField is one field declaration in a struct or actor.
type StructField struct {
	Name           string
	TypeAnnotation string
}

// StructStatement declares a struct type.
type StructStatement struct {
	Token      token.Token
	Name       *Identifier
	Fields     []StructField
	Pub        bool
	DocComment string
}

func (ss *StructStatement) statementNode()       {}
func (ss *StructStatement) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *StructStatement) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}
func (ss *StructStatement) Span() token.Span { return token.SpanOf(ss.GetToken()) }

// EnumVariant is one variant of an enum declaration.
type EnumVariant struct {
	Name   string
	Params []string // positional payload type annotations, may be empty
}

// EnumStatement declares an enum type.
type EnumStatement struct {
	Token    token.Token
	Name     *Identifier
	Variants []EnumVariant
}

func (es *EnumStatement) statementNode()       {}
func (es *EnumStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *EnumStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
func (es *EnumStatement) Span() token.Span { return token.SpanOf(es.GetToken()) }

// TraitStatement declares a trait with method signatures (bodies optional).
type TraitStatement struct {
	Token   token.Token
	Name    *Identifier
	Methods []*FunctionStatement
}

func (ts *TraitStatement) statementNode()       {}
func (ts *TraitStatement) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *TraitStatement) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}
func (ts *TraitStatement) Span() token.Span { return token.SpanOf(ts.GetToken()) }

// ImplStatement attaches methods to a type, optionally for a trait.
type ImplStatement struct {
	Token     token.Token
	TraitName string // empty for inherent impls
	TypeName  string
	Methods   []*FunctionStatement
}

func (is *ImplStatement) statementNode()       {}
func (is *ImplStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImplStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *ImplStatement) Span() token.Span { return token.SpanOf(is.GetToken()) }

// HandlerDecl is one receive handler inside an actor declaration.
// Handlers are dispatched by message type tag (the handler name).
type HandlerDecl struct {
	Token  token.Token
	Name   string
	Params []*Param
	Body   *BlockStatement
}

// ActorStatement declares an actor with state fields and message handlers.
type ActorStatement struct {
	Token    token.Token
	Name     *Identifier
	Fields   []StructField
	Handlers []*HandlerDecl
}

func (as *ActorStatement) statementNode()       {}
func (as *ActorStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *ActorStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}
func (as *ActorStatement) Span() token.Span { return token.SpanOf(as.GetToken()) }
