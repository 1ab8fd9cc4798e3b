package ast

import (
	"github.com/ruvylang/ruvy/internal/token"
)

// IntegerLiteral represents an integer literal, with an optional type suffix
// (e.g. 10i64) carried through for the transpiler.
type IntegerLiteral struct {
	Token  token.Token
	Value  int64
	Suffix string
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}
func (il *IntegerLiteral) Span() token.Span { return token.SpanOf(il.GetToken()) }

// FloatLiteral represents a floating point literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}
func (fl *FloatLiteral) Span() token.Span { return token.SpanOf(fl.GetToken()) }

// StringLiteral represents a string, e.g. "hello".
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StringLiteral) Span() token.Span { return token.SpanOf(sl.GetToken()) }

// InterpolatedString represents f"a {x} b". Parts alternates StringLiteral
// text chunks with embedded expressions.
type InterpolatedString struct {
	Token token.Token
	Parts []Expression
}

func (is *InterpolatedString) expressionNode()      {}
func (is *InterpolatedString) TokenLiteral() string { return is.Token.Lexeme }
func (is *InterpolatedString) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}
func (is *InterpolatedString) Span() token.Span { return token.SpanOf(is.GetToken()) }

// CharLiteral represents a character, e.g. 'c'.
type CharLiteral struct {
	Token token.Token
	Value rune
}

func (cl *CharLiteral) expressionNode()      {}
func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Lexeme }
func (cl *CharLiteral) GetToken() token.Token {
	if cl == nil {
		return token.Token{}
	}
	return cl.Token
}
func (cl *CharLiteral) Span() token.Span { return token.SpanOf(cl.GetToken()) }

// BooleanLiteral represents true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}
func (bl *BooleanLiteral) Span() token.Span { return token.SpanOf(bl.GetToken()) }

// NilLiteral represents the nil literal.
type NilLiteral struct {
	Token token.Token
}

func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NilLiteral) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}
func (nl *NilLiteral) Span() token.Span { return token.SpanOf(nl.GetToken()) }

// UnitLiteral represents ().
type UnitLiteral struct {
	Token token.Token
}

func (ul *UnitLiteral) expressionNode()      {}
func (ul *UnitLiteral) TokenLiteral() string { return ul.Token.Lexeme }
func (ul *UnitLiteral) GetToken() token.Token {
	if ul == nil {
		return token.Token{}
	}
	return ul.Token
}
func (ul *UnitLiteral) Span() token.Span { return token.SpanOf(ul.GetToken()) }

// ListLiteral represents [1, 2, 3].
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token {
	if ll == nil {
		return token.Token{}
	}
	return ll.Token
}
func (ll *ListLiteral) Span() token.Span { return token.SpanOf(ll.GetToken()) }

// TupleLiteral represents (1, "two", true).
type TupleLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode()      {}
func (tl *TupleLiteral) TokenLiteral() string { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token {
	if tl == nil {
		return token.Token{}
	}
	return tl.Token
}
func (tl *TupleLiteral) Span() token.Span { return token.SpanOf(tl.GetToken()) }

// RecordField is one key: value entry in a record or struct literal.
// Field order is preserved so output stays deterministic.
type RecordField struct {
	Key   string
	Value Expression
}

// RecordLiteral represents { x: 1, y: 2 }.
type RecordLiteral struct {
	Token  token.Token
	Fields []RecordField
}

func (rl *RecordLiteral) expressionNode()      {}
func (rl *RecordLiteral) TokenLiteral() string { return rl.Token.Lexeme }
func (rl *RecordLiteral) GetToken() token.Token {
	if rl == nil {
		return token.Token{}
	}
	return rl.Token
}
func (rl *RecordLiteral) Span() token.Span { return token.SpanOf(rl.GetToken()) }

// StructLiteral represents Point { x: 1, y: 2 }.
type StructLiteral struct {
	Token  token.Token
	Name   string
	Fields []RecordField
}

func (sl *StructLiteral) expressionNode()      {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StructLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StructLiteral) Span() token.Span { return token.SpanOf(sl.GetToken()) }

// PrefixExpression is a unary operation: -x, !x.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}
func (pe *PrefixExpression) Span() token.Span {
	sp := token.SpanOf(pe.GetToken())
	if pe.Right != nil {
		sp.End = pe.Right.Span().End
	}
	return sp
}

// InfixExpression is a binary operation: a + b, a == b.
type InfixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *InfixExpression) Span() token.Span {
	sp := token.SpanOf(ie.GetToken())
	if ie.Left != nil {
		sp.Start = ie.Left.Span().Start
	}
	if ie.Right != nil {
		sp.End = ie.Right.Span().End
	}
	return sp
}

// IfExpression: if cond { ... } else { ... }. Alternative is nil, a
// *BlockExpression or a chained *IfExpression.
type IfExpression struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Expression
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IfExpression) Span() token.Span {
	sp := token.SpanOf(ie.GetToken())
	if ie.Alternative != nil {
		sp.End = ie.Alternative.Span().End
	} else if ie.Consequence != nil {
		sp.End = ie.Consequence.Span().End
	}
	return sp
}

// BlockExpression is a block used in expression position.
type BlockExpression struct {
	Token token.Token
	Block *BlockStatement
}

func (be *BlockExpression) expressionNode()      {}
func (be *BlockExpression) TokenLiteral() string { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token {
	if be == nil {
		return token.Token{}
	}
	return be.Token
}
func (be *BlockExpression) Span() token.Span {
	if be.Block != nil {
		return be.Block.Span()
	}
	return token.SpanOf(be.GetToken())
}

// WhileExpression: while cond { ... }. Evaluates to the break value, or Unit.
type WhileExpression struct {
	Token     token.Token
	Label     string
	Condition Expression
	Body      *BlockStatement
}

func (we *WhileExpression) expressionNode()      {}
func (we *WhileExpression) TokenLiteral() string { return we.Token.Lexeme }
func (we *WhileExpression) GetToken() token.Token {
	if we == nil {
		return token.Token{}
	}
	return we.Token
}
func (we *WhileExpression) Span() token.Span {
	sp := token.SpanOf(we.GetToken())
	if we.Body != nil {
		sp.End = we.Body.Span().End
	}
	return sp
}

// ForExpression: for pat in iter { ... }.
type ForExpression struct {
	Token    token.Token
	Label    string
	Pattern  Pattern
	Iterable Expression
	Body     *BlockStatement
}

func (fe *ForExpression) expressionNode()      {}
func (fe *ForExpression) TokenLiteral() string { return fe.Token.Lexeme }
func (fe *ForExpression) GetToken() token.Token {
	if fe == nil {
		return token.Token{}
	}
	return fe.Token
}
func (fe *ForExpression) Span() token.Span {
	sp := token.SpanOf(fe.GetToken())
	if fe.Body != nil {
		sp.End = fe.Body.Span().End
	}
	return sp
}

// LoopExpression: loop { ... }. Exits only via break/return/throw.
type LoopExpression struct {
	Token token.Token
	Label string
	Body  *BlockStatement
}

func (le *LoopExpression) expressionNode()      {}
func (le *LoopExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LoopExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}
func (le *LoopExpression) Span() token.Span {
	sp := token.SpanOf(le.GetToken())
	if le.Body != nil {
		sp.End = le.Body.Span().End
	}
	return sp
}

// MatchArm is one arm of a match expression. The guard is part of the
// match decision: a failed guard falls through to the next arm.
type MatchArm struct {
	Token   token.Token
	Pattern Pattern
	Guard   Expression
	Body    Expression
}

// MatchExpression: match x { pat [if guard] => body, ... }.
type MatchExpression struct {
	Token     token.Token
	Scrutinee Expression
	Arms      []*MatchArm
}

func (me *MatchExpression) expressionNode()      {}
func (me *MatchExpression) TokenLiteral() string { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token {
	if me == nil {
		return token.Token{}
	}
	return me.Token
}
func (me *MatchExpression) Span() token.Span { return token.SpanOf(me.GetToken()) }

// CatchClause is one catch of a try expression.
type CatchClause struct {
	Token   token.Token
	Pattern Pattern
	Guard   Expression
	Body    *BlockStatement
}

// TryExpression: try { ... } catch pat { ... } finally { ... }.
type TryExpression struct {
	Token   token.Token
	Body    *BlockStatement
	Catches []*CatchClause
	Finally *BlockStatement
}

func (te *TryExpression) expressionNode()      {}
func (te *TryExpression) TokenLiteral() string { return te.Token.Lexeme }
func (te *TryExpression) GetToken() token.Token {
	if te == nil {
		return token.Token{}
	}
	return te.Token
}
func (te *TryExpression) Span() token.Span {
	sp := token.SpanOf(te.GetToken())
	if te.Finally != nil {
		sp.End = te.Finally.Span().End
	} else if len(te.Catches) > 0 {
		sp.End = te.Catches[len(te.Catches)-1].Body.Span().End
	} else if te.Body != nil {
		sp.End = te.Body.Span().End
	}
	return sp
}

// CallExpression: f(a, b).
type CallExpression struct {
	Token     token.Token // the '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CallExpression) Span() token.Span {
	sp := token.SpanOf(ce.GetToken())
	if ce.Function != nil {
		sp.Start = ce.Function.Span().Start
	}
	if n := len(ce.Arguments); n > 0 {
		sp.End = ce.Arguments[n-1].Span().End
	}
	return sp
}

// MethodCallExpression: recv.name(a, b).
type MethodCallExpression struct {
	Token     token.Token // the method name token
	Receiver  Expression
	Method    string
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Lexeme }
func (mc *MethodCallExpression) GetToken() token.Token {
	if mc == nil {
		return token.Token{}
	}
	return mc.Token
}
func (mc *MethodCallExpression) Span() token.Span {
	sp := token.SpanOf(mc.GetToken())
	if mc.Receiver != nil {
		sp.Start = mc.Receiver.Span().Start
	}
	return sp
}

// FieldAccessExpression: recv.field.
type FieldAccessExpression struct {
	Token    token.Token // the field name token
	Receiver Expression
	Field    string
}

func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Lexeme }
func (fa *FieldAccessExpression) GetToken() token.Token {
	if fa == nil {
		return token.Token{}
	}
	return fa.Token
}
func (fa *FieldAccessExpression) Span() token.Span {
	sp := token.SpanOf(fa.GetToken())
	if fa.Receiver != nil {
		sp.Start = fa.Receiver.Span().Start
	}
	return sp
}

// IndexExpression: recv[idx].
type IndexExpression struct {
	Token    token.Token // the '[' token
	Receiver Expression
	Index    Expression
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Lexeme }
func (ix *IndexExpression) GetToken() token.Token {
	if ix == nil {
		return token.Token{}
	}
	return ix.Token
}
func (ix *IndexExpression) Span() token.Span {
	sp := token.SpanOf(ix.GetToken())
	if ix.Receiver != nil {
		sp.Start = ix.Receiver.Span().Start
	}
	if ix.Index != nil {
		sp.End = ix.Index.Span().End
	}
	return sp
}

// SliceExpression: recv[a..b] / recv[a..=b]. Start or End may be nil.
type SliceExpression struct {
	Token     token.Token // the '[' token
	Receiver  Expression
	Start     Expression
	End       Expression
	Inclusive bool
}

func (se *SliceExpression) expressionNode()      {}
func (se *SliceExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SliceExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SliceExpression) Span() token.Span {
	sp := token.SpanOf(se.GetToken())
	if se.Receiver != nil {
		sp.Start = se.Receiver.Span().Start
	}
	return sp
}

// RangeExpression: a..b or a..=b.
type RangeExpression struct {
	Token     token.Token // the '..' token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (re *RangeExpression) expressionNode()      {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Lexeme }
func (re *RangeExpression) GetToken() token.Token {
	if re == nil {
		return token.Token{}
	}
	return re.Token
}
func (re *RangeExpression) Span() token.Span {
	sp := token.SpanOf(re.GetToken())
	if re.Start != nil {
		sp.Start = re.Start.Span().Start
	}
	if re.End != nil {
		sp.End = re.End.Span().End
	}
	return sp
}

// LambdaExpression: |a, b| expr or |a, b| { ... }.
type LambdaExpression struct {
	Token  token.Token // the '|' token
	Params []*Param
	Body   Expression
}

func (le *LambdaExpression) expressionNode()      {}
func (le *LambdaExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LambdaExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}
func (le *LambdaExpression) Span() token.Span {
	sp := token.SpanOf(le.GetToken())
	if le.Body != nil {
		sp.End = le.Body.Span().End
	}
	return sp
}

// SpawnExpression: spawn Counter { count: 0 }.
type SpawnExpression struct {
	Token  token.Token
	Actor  string
	Fields []RecordField
}

func (se *SpawnExpression) expressionNode()      {}
func (se *SpawnExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SpawnExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SpawnExpression) Span() token.Span { return token.SpanOf(se.GetToken()) }

// SendExpression enqueues a message on an actor's mailbox without waiting.
type SendExpression struct {
	Token   token.Token
	Target  Expression
	Message Expression
}

func (se *SendExpression) expressionNode()      {}
func (se *SendExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SendExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SendExpression) Span() token.Span { return token.SpanOf(se.GetToken()) }

// AskExpression enqueues a message and waits for the handler's reply.
type AskExpression struct {
	Token   token.Token
	Target  Expression
	Message Expression
}

func (ae *AskExpression) expressionNode()      {}
func (ae *AskExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AskExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}
func (ae *AskExpression) Span() token.Span { return token.SpanOf(ae.GetToken()) }

// AwaitExpression: await expr.
type AwaitExpression struct {
	Token token.Token
	Value Expression
}

func (ae *AwaitExpression) expressionNode()      {}
func (ae *AwaitExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AwaitExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}
func (ae *AwaitExpression) Span() token.Span { return token.SpanOf(ae.GetToken()) }

// AsyncExpression: async { ... }. Runs eagerly in the cooperative runtime.
type AsyncExpression struct {
	Token token.Token
	Body  *BlockStatement
}

func (ae *AsyncExpression) expressionNode()      {}
func (ae *AsyncExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AsyncExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}
func (ae *AsyncExpression) Span() token.Span { return token.SpanOf(ae.GetToken()) }

// PathExpression: Color::Red, math::pi. Segments holds each '::' piece
// in order.
type PathExpression struct {
	Token    token.Token // the first segment's token
	Segments []string
}

func (pe *PathExpression) expressionNode()      {}
func (pe *PathExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PathExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}
func (pe *PathExpression) Span() token.Span { return token.SpanOf(pe.GetToken()) }
