package parser

import (
	"fmt"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/token"
)

// MaxRecursionDepth bounds expression nesting so malformed input cannot
// blow the Go stack.
const MaxRecursionDepth = 500

// Operator precedence levels, lowest binds loosest.
const (
	LOWEST int = iota
	RANGE      // .. ..=
	LOGIC_OR   // ||
	LOGIC_AND  // &&
	EQUALS     // == !=
	COMPARE    // < > <= >=
	BIT_OR     // |
	BIT_XOR    // ^
	BIT_AND    // &
	SHIFT      // << >>
	SUM        // + -
	PRODUCT    // * / %
	PREFIX     // -x !x
	CALL       // f(x) x.y x[i] a::b
)

var precedences = map[token.Type]int{
	token.DOTDOT:     RANGE,
	token.DOTDOTEQ:   RANGE,
	token.OR:         LOGIC_OR,
	token.AND:        LOGIC_AND,
	token.EQ:         EQUALS,
	token.NOT_EQ:     EQUALS,
	token.LT:         COMPARE,
	token.GT:         COMPARE,
	token.LE:         COMPARE,
	token.GE:         COMPARE,
	token.BITOR:      BIT_OR,
	token.BITXOR:     BIT_XOR,
	token.BITAND:     BIT_AND,
	token.SHL:        SHIFT,
	token.SHR:        SHIFT,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.STAR:       PRODUCT,
	token.SLASH:      PRODUCT,
	token.PERCENT:    PRODUCT,
	token.LPAREN:     CALL,
	token.LBRACKET:   CALL,
	token.DOT:        CALL,
	token.COLONCOLON: CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	errors []*diagnostics.DiagnosticError

	depth int
	// noStructLiteral suppresses Name { ... } struct literals while parsing
	// a condition or scrutinee, so `if x { ... }` parses the brace as a body.
	noStructLiteral bool

	// pendingDoc accumulates /// doc comment lines for the next declaration.
	pendingDoc string
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:      p.parseIdentifier,
		token.UNDERSCORE: p.parseIdentifier,
		token.INT:        p.parseIntegerLiteral,
		token.FLOAT:      p.parseFloatLiteral,
		token.STRING:     p.parseStringLiteral,
		token.FSTRING:    p.parseInterpolatedString,
		token.CHAR:       p.parseCharLiteral,
		token.TRUE:       p.parseBooleanLiteral,
		token.FALSE:      p.parseBooleanLiteral,
		token.NIL:        p.parseNilLiteral,
		token.BANG:       p.parsePrefixExpression,
		token.MINUS:      p.parsePrefixExpression,
		token.LPAREN:     p.parseParenExpression,
		token.LBRACKET:   p.parseListLiteral,
		token.LBRACE:     p.parseBraceExpression,
		token.IF:         p.parseIfExpression,
		token.WHILE:      p.parseWhileExpression,
		token.FOR:        p.parseForExpression,
		token.LOOP:       p.parseLoopExpression,
		token.MATCH:      p.parseMatchExpression,
		token.TRY:        p.parseTryExpression,
		token.BITOR:      p.parseLambdaExpression,
		token.OR:         p.parseEmptyParamLambda,
		token.SPAWN:      p.parseSpawnExpression,
		token.AWAIT:      p.parseAwaitExpression,
		token.ASYNC:      p.parseAsyncExpression,
		token.DOTDOT:     p.parseOpenRange,
		token.DOTDOTEQ:   p.parseOpenRange,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:       p.parseInfixExpression,
		token.MINUS:      p.parseInfixExpression,
		token.STAR:       p.parseInfixExpression,
		token.SLASH:      p.parseInfixExpression,
		token.PERCENT:    p.parseInfixExpression,
		token.EQ:         p.parseInfixExpression,
		token.NOT_EQ:     p.parseInfixExpression,
		token.LT:         p.parseInfixExpression,
		token.GT:         p.parseInfixExpression,
		token.LE:         p.parseInfixExpression,
		token.GE:         p.parseInfixExpression,
		token.AND:        p.parseInfixExpression,
		token.OR:         p.parseInfixExpression,
		token.BITAND:     p.parseInfixExpression,
		token.BITOR:      p.parseInfixExpression,
		token.BITXOR:     p.parseInfixExpression,
		token.SHL:        p.parseInfixExpression,
		token.SHR:        p.parseInfixExpression,
		token.DOTDOT:     p.parseRangeExpression,
		token.DOTDOTEQ:   p.parseRangeExpression,
		token.LPAREN:     p.parseCallExpression,
		token.LBRACKET:   p.parseIndexExpression,
		token.DOT:        p.parseDotExpression,
		token.COLONCOLON: p.parsePathExpression,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	for {
		if p.pos < len(p.tokens) {
			p.peekToken = p.tokens[p.pos]
			p.pos++
		} else {
			p.peekToken = token.Token{Type: token.EOF}
		}
		if p.peekToken.Type != token.DOC {
			break
		}
		// Doc lines never reach the grammar; they accumulate for the
		// next fun/struct declaration.
		if p.pendingDoc != "" {
			p.pendingDoc += "\n"
		}
		p.pendingDoc += p.peekToken.Lexeme
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, diagnostics.NewErrorf(
		diagnostics.ErrP002, p.peekToken,
		"expected %s, got %s", t, p.peekToken.Type,
	))
}

func (p *Parser) errorAt(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP001, tok, fmt.Sprintf(format, args...),
	))
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errors = append(p.errors, diagnostics.NewErrorf(
		diagnostics.ErrP001, p.curToken, "unexpected token %s", t,
	))
}

// Errors returns the diagnostics collected during parsing.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errors }

// ParseProgram consumes the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

// skipToStatementBoundary advances past the current statement after an
// error so a single mistake does not cascade.
func (p *Parser) skipToStatementBoundary() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}
