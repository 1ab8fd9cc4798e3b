package parser

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.CONST:
		return p.parseConstStatement()
	case token.FUN:
		return p.parseFunctionStatement(false, false)
	case token.PUB:
		if p.peekTokenIs(token.FUN) {
			p.nextToken()
			return p.parseFunctionStatement(true, false)
		}
		if p.peekTokenIs(token.STRUCT) {
			p.nextToken()
			return p.parseStructStatement(true)
		}
		p.errorAt(p.peekToken, "pub must precede fun or struct")
		p.skipToStatementBoundary()
		return nil
	case token.ASYNC:
		if p.peekTokenIs(token.FUN) {
			p.nextToken()
			return p.parseFunctionStatement(false, true)
		}
		// async block in expression position
		return p.parseExpressionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.MODULE:
		return p.parseModuleStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.EXPORT:
		return p.parseExportStatement()
	case token.STRUCT:
		return p.parseStructStatement(false)
	case token.ENUM:
		return p.parseEnumStatement()
	case token.TRAIT:
		return p.parseTraitStatement()
	case token.IMPL:
		return p.parseImplStatement()
	case token.ACTOR:
		return p.parseActorStatement()
	case token.INCREMENT, token.DECREMENT:
		return p.parsePrefixIncDecStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	letTok := p.curToken
	mutable := false
	if p.peekTokenIs(token.MUT) {
		mutable = true
		p.nextToken()
	}

	// Destructuring let: let (a, b) = pair / let [x, ..rest] = xs.
	if p.peekTokenIs(token.LPAREN) || p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		pat := p.parsePattern()
		if pat == nil {
			p.skipToStatementBoundary()
			return nil
		}
		if !p.expectPeek(token.ASSIGN) {
			p.skipToStatementBoundary()
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.LetPatternStatement{Token: letTok, Pattern: pat, Value: value}
	}

	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	annotation := ""
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		annotation = p.parseTypeAnnotation()
	}

	if !p.expectPeek(token.ASSIGN) {
		p.skipToStatementBoundary()
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)

	return &ast.LetStatement{
		Token:          letTok,
		Name:           name,
		Mutable:        mutable,
		TypeAnnotation: annotation,
		Value:          value,
	}
}

func (p *Parser) parseConstStatement() ast.Statement {
	constTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	annotation := ""
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		annotation = p.parseTypeAnnotation()
	}

	if !p.expectPeek(token.ASSIGN) {
		p.skipToStatementBoundary()
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)

	return &ast.ConstStatement{Token: constTok, Name: name, TypeAnnotation: annotation, Value: value}
}

// parseTypeAnnotation consumes a type after ':'. Types never gate
// evaluation, so the surface form is kept as a string.
func (p *Parser) parseTypeAnnotation() string {
	p.nextToken()
	out := p.curToken.Lexeme
	// Generic arguments: List<Int>, Map<String, Int>.
	if p.peekTokenIs(token.LT) {
		depth := 0
		for {
			p.nextToken()
			out += p.curToken.Lexeme
			if p.curTokenIs(token.LT) {
				depth++
			}
			if p.curTokenIs(token.GT) {
				depth--
				if depth == 0 {
					break
				}
			}
			if p.curTokenIs(token.EOF) {
				break
			}
			if p.peekTokenIs(token.COMMA) && depth > 0 {
				p.nextToken()
				out += ", "
			}
		}
	}
	return out
}

func (p *Parser) parseFunctionStatement(pub, async bool) ast.Statement {
	funTok := p.curToken
	doc := p.pendingDoc
	p.pendingDoc = ""

	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	var generics []string
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		for !p.peekTokenIs(token.GT) && !p.peekTokenIs(token.EOF) {
			p.nextToken()
			if p.curTokenIs(token.IDENT) {
				generics = append(generics, p.curToken.Lexeme)
			}
		}
		p.nextToken() // consume '>'
	}

	if !p.expectPeek(token.LPAREN) {
		p.skipToStatementBoundary()
		return nil
	}
	params := p.parseParams()

	// Optional return annotation: -> Type.
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.parseTypeAnnotation()
	}

	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}
	body := p.parseBlockStatement()

	return &ast.FunctionStatement{
		Token:      funTok,
		Name:       name,
		Params:     params,
		Body:       body,
		Pub:        pub,
		Async:      async,
		Generics:   generics,
		DocComment: doc,
	}
}

// parseParams parses a parameter list; curToken is '(' on entry and ')'
// on exit.
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		p.nextToken()
		param := &ast.Param{Token: p.curToken}
		if p.curTokenIs(token.DOTDOTDOT) {
			param.Variadic = true
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorAt(p.curToken, "expected parameter name, got %s", p.curToken.Type)
			return params
		}
		param.Name = p.curToken.Lexeme
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			param.TypeAnnotation = p.parseTypeAnnotation()
		}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseBreakStatement() ast.Statement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseContinueStatement() ast.Statement {
	return &ast.ContinueStatement{Token: p.curToken}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseModuleStatement() ast.Statement {
	modTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.ModuleStatement{Token: modTok, Name: name, Body: body}
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	stmt.Path = append(stmt.Path, p.curToken.Lexeme)

	for p.peekTokenIs(token.COLONCOLON) {
		p.nextToken() // '::'
		switch {
		case p.peekTokenIs(token.STAR):
			p.nextToken()
			stmt.Wildcard = true
			return stmt
		case p.peekTokenIs(token.LBRACE):
			p.nextToken() // '{'
			for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
				if !p.expectPeek(token.IDENT) {
					return stmt
				}
				item := ast.ImportItem{Name: p.curToken.Lexeme}
				if p.peekTokenIs(token.AS) {
					p.nextToken()
					if !p.expectPeek(token.IDENT) {
						return stmt
					}
					item.Alias = p.curToken.Lexeme
				}
				stmt.Items = append(stmt.Items, item)
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
				}
			}
			p.nextToken() // '}'
			return stmt
		default:
			if !p.expectPeek(token.IDENT) {
				return stmt
			}
			stmt.Path = append(stmt.Path, p.curToken.Lexeme)
		}
	}

	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return stmt
		}
		stmt.Alias = p.curToken.Lexeme
	}

	// A path with no braces imports its last segment as the single item:
	// import std::fs::File means item File from std::fs. The transpiler
	// re-collapses this; the split keeps items uniform for the evaluator.
	if len(stmt.Path) > 1 && len(stmt.Items) == 0 && !stmt.Wildcard && stmt.Alias == "" {
		last := stmt.Path[len(stmt.Path)-1]
		stmt.Path = stmt.Path[:len(stmt.Path)-1]
		stmt.Items = []ast.ImportItem{{Name: last}}
	}
	return stmt
}

func (p *Parser) parseExportStatement() ast.Statement {
	stmt := &ast.ExportStatement{Token: p.curToken}
	for {
		if !p.expectPeek(token.IDENT) {
			return stmt
		}
		stmt.Names = append(stmt.Names, p.curToken.Lexeme)
		if !p.peekTokenIs(token.COMMA) {
			return stmt
		}
		p.nextToken()
	}
}

func (p *Parser) parseStructStatement(pub bool) ast.Statement {
	structTok := p.curToken
	doc := p.pendingDoc
	p.pendingDoc = ""
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}
	fields := p.parseFieldDecls()
	return &ast.StructStatement{Token: structTok, Name: name, Fields: fields, Pub: pub, DocComment: doc}
}

// parseFieldDecls parses `name: Type` declarations until '}'. curToken is
// '{' on entry and '}' on exit.
func (p *Parser) parseFieldDecls() []ast.StructField {
	var fields []ast.StructField
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT) {
			return fields
		}
		f := ast.StructField{Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			f.TypeAnnotation = p.parseTypeAnnotation()
		}
		fields = append(fields, f)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // '}'
	return fields
}

func (p *Parser) parseEnumStatement() ast.Statement {
	enumTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}

	var variants []ast.EnumVariant
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		v := ast.EnumVariant{Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
				p.nextToken()
				v.Params = append(v.Params, p.curToken.Lexeme)
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
				}
			}
			p.nextToken() // ')'
		}
		variants = append(variants, v)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // '}'
	return &ast.EnumStatement{Token: enumTok, Name: name, Variants: variants}
}

func (p *Parser) parseTraitStatement() ast.Statement {
	traitTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}
	methods := p.parseMethodDecls()
	return &ast.TraitStatement{Token: traitTok, Name: name, Methods: methods}
}

func (p *Parser) parseImplStatement() ast.Statement {
	implTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	first := p.curToken.Lexeme

	traitName := ""
	typeName := first
	if p.peekTokenIs(token.FOR) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			p.skipToStatementBoundary()
			return nil
		}
		traitName = first
		typeName = p.curToken.Lexeme
	}

	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}
	methods := p.parseMethodDecls()
	return &ast.ImplStatement{Token: implTok, TraitName: traitName, TypeName: typeName, Methods: methods}
}

// parseMethodDecls parses fun declarations until '}'. curToken is '{' on
// entry and '}' on exit.
func (p *Parser) parseMethodDecls() []*ast.FunctionStatement {
	var methods []*ast.FunctionStatement
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if !p.curTokenIs(token.FUN) {
			p.errorAt(p.curToken, "expected fun, got %s", p.curToken.Type)
			p.skipToStatementBoundary()
			continue
		}
		if fn, ok := p.parseFunctionStatement(false, false).(*ast.FunctionStatement); ok {
			methods = append(methods, fn)
		}
	}
	p.nextToken() // '}'
	return methods
}

func (p *Parser) parseActorStatement() ast.Statement {
	actorTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		p.skipToStatementBoundary()
		return nil
	}

	var fields []ast.StructField
	var handlers []*ast.HandlerDecl
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		switch p.curToken.Type {
		case token.RECEIVE:
			recvTok := p.curToken
			if !p.expectPeek(token.IDENT) {
				p.skipToStatementBoundary()
				continue
			}
			h := &ast.HandlerDecl{Token: recvTok, Name: p.curToken.Lexeme}
			if p.peekTokenIs(token.LPAREN) {
				p.nextToken()
				h.Params = p.parseParams()
			}
			if !p.expectPeek(token.LBRACE) {
				p.skipToStatementBoundary()
				continue
			}
			h.Body = p.parseBlockStatement()
			handlers = append(handlers, h)
		case token.IDENT:
			f := ast.StructField{Name: p.curToken.Lexeme}
			if p.peekTokenIs(token.COLON) {
				p.nextToken()
				f.TypeAnnotation = p.parseTypeAnnotation()
			}
			fields = append(fields, f)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
		default:
			p.errorAt(p.curToken, "unexpected token %s in actor body", p.curToken.Type)
			p.skipToStatementBoundary()
		}
	}
	p.nextToken() // '}'
	return &ast.ActorStatement{Token: actorTok, Name: name, Fields: fields, Handlers: handlers}
}

func (p *Parser) parsePrefixIncDecStatement() ast.Statement {
	opTok := p.curToken
	p.nextToken()
	target := p.parseExpression(PREFIX)
	return &ast.IncDecStatement{Token: opTok, Target: target, Op: opTok.Lexeme, Prefix: true}
}

// parseBlockStatement parses statements until '}'. curToken is '{' on
// entry and '}' on exit.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	startTok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		p.skipToStatementBoundary()
		return nil
	}

	switch p.peekToken.Type {
	case token.ASSIGN:
		p.nextToken()
		assignTok := p.curToken
		if !isAssignable(expr) {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP004, assignTok, "invalid assignment target"))
			p.skipToStatementBoundary()
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.AssignStatement{Token: assignTok, Target: expr, Value: value}
	case token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN:
		p.nextToken()
		opTok := p.curToken
		if !isAssignable(expr) {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP004, opTok, "invalid assignment target"))
			p.skipToStatementBoundary()
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		op := string(opTok.Lexeme[0])
		return &ast.CompoundAssignStatement{Token: opTok, Target: expr, Op: op, Value: value}
	case token.INCREMENT, token.DECREMENT:
		p.nextToken()
		opTok := p.curToken
		if !isAssignable(expr) {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP004, opTok, "invalid assignment target"))
			return nil
		}
		return &ast.IncDecStatement{Token: opTok, Target: expr, Op: opTok.Lexeme, Prefix: false}
	}

	return &ast.ExpressionStatement{Token: startTok, Expression: expr}
}

// isAssignable reports whether an expression can be the target of an
// assignment: a name, a field or an index.
func isAssignable(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.FieldAccessExpression, *ast.IndexExpression:
		return true
	}
	return false
}
