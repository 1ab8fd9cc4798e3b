package parser

import (
	"strconv"
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken,
			"expression too complex: recursion depth limit exceeded",
		))
		p.skipToStatementBoundary()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	// Struct literal: Name { field: value }. Only for capitalized names and
	// only outside condition position.
	if p.peekTokenIs(token.LBRACE) && !p.noStructLiteral && isTypeName(ident.Value) {
		p.nextToken() // '{'
		fields := p.parseRecordFields()
		return &ast.StructLiteral{Token: ident.Token, Name: ident.Value, Fields: fields}
	}
	return ident
}

func isTypeName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	raw := strings.ReplaceAll(p.curToken.Lexeme, "_", "")
	for _, s := range []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"} {
		if strings.HasSuffix(raw, s) {
			lit.Suffix = s
			raw = strings.TrimSuffix(raw, s)
			break
		}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken, "could not parse integer: "+p.curToken.Lexeme,
		))
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	raw := strings.ReplaceAll(p.curToken.Lexeme, "_", "")
	raw = strings.TrimSuffix(strings.TrimSuffix(raw, "f64"), "f32")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken, "could not parse float: "+p.curToken.Lexeme,
		))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
}

// parseInterpolatedString re-parses the expression pieces of an FSTRING
// token, which the lexer left as raw source.
func (p *Parser) parseInterpolatedString() ast.Expression {
	node := &ast.InterpolatedString{Token: p.curToken}
	for _, part := range p.curToken.Parts {
		if !part.IsExpr {
			node.Parts = append(node.Parts, &ast.StringLiteral{
				Token: token.Token{Type: token.STRING, Lexeme: part.Text, Line: part.Line, Column: part.Column},
				Value: part.Text,
			})
			continue
		}
		sub := New(lexer.Tokenize(part.Text))
		expr := sub.parseExpression(LOWEST)
		if len(sub.errors) > 0 {
			p.errors = append(p.errors, sub.errors...)
			continue
		}
		if expr != nil {
			node.Parts = append(node.Parts, expr)
		}
	}
	return node
}

func (p *Parser) parseCharLiteral() ast.Expression {
	r := ' '
	for _, c := range p.curToken.Lexeme {
		r = c
		break
	}
	return &ast.CharLiteral{Token: p.curToken, Value: r}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Lexeme}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	prec := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	return expr
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpression{
		Token:     p.curToken,
		Start:     left,
		Inclusive: p.curTokenIs(token.DOTDOTEQ),
	}
	// Open-ended range: xs[1..] leaves End nil.
	if p.peekTokenIs(token.RBRACKET) || p.peekTokenIs(token.RPAREN) ||
		p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.SEMICOLON) ||
		p.peekTokenIs(token.EOF) {
		return expr
	}
	p.nextToken()
	expr.End = p.parseExpression(RANGE)
	return expr
}

// parseOpenRange handles a range with no start: ..n or ..=n.
func (p *Parser) parseOpenRange() ast.Expression {
	expr := &ast.RangeExpression{Token: p.curToken, Inclusive: p.curTokenIs(token.DOTDOTEQ)}
	p.nextToken()
	expr.End = p.parseExpression(RANGE)
	return expr
}

// parseParenExpression handles (), (e) and (a, b, ...).
func (p *Parser) parseParenExpression() ast.Expression {
	lparen := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.UnitLiteral{Token: lparen}
	}

	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	p.nextToken()
	first := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.COMMA) {
		tuple := &ast.TupleLiteral{Token: lparen, Elements: []ast.Expression{first}}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) { // trailing comma
				break
			}
			p.nextToken()
			tuple.Elements = append(tuple.Elements, p.parseExpression(LOWEST))
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return tuple
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}

	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	for !p.peekTokenIs(token.RBRACKET) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el != nil {
			list.Elements = append(list.Elements, el)
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return list
}

// parseBraceExpression disambiguates { key: value } records from { stmt }
// blocks in expression position.
func (p *Parser) parseBraceExpression() ast.Expression {
	braceTok := p.curToken
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.RecordLiteral{Token: braceTok}
	}
	if p.peekTokenIs(token.IDENT) && p.tokenAfterPeekIs(token.COLON) {
		fields := p.parseRecordFields()
		return &ast.RecordLiteral{Token: braceTok, Fields: fields}
	}
	block := p.parseBlockStatement()
	return &ast.BlockExpression{Token: braceTok, Block: block}
}

// tokenAfterPeekIs looks one token past peekToken.
func (p *Parser) tokenAfterPeekIs(t token.Type) bool {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Type == t
	}
	return false
}

// parseRecordFields parses key: value pairs until '}'. curToken is '{' on
// entry and '}' on exit.
func (p *Parser) parseRecordFields() []ast.RecordField {
	var fields []ast.RecordField

	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT) {
			return fields
		}
		key := p.curToken.Lexeme
		if !p.expectPeek(token.COLON) {
			return fields
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		fields = append(fields, ast.RecordField{Key: key, Value: value})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // '}'
	return fields
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	p.noStructLiteral = true
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	p.noStructLiteral = false

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			expr.Alternative = p.parseIfExpression()
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			braceTok := p.curToken
			expr.Alternative = &ast.BlockExpression{Token: braceTok, Block: p.parseBlockStatement()}
		}
	}
	return expr
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expr := &ast.WhileExpression{Token: p.curToken}

	p.noStructLiteral = true
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	p.noStructLiteral = false

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseForExpression() ast.Expression {
	expr := &ast.ForExpression{Token: p.curToken}

	p.nextToken()
	expr.Pattern = p.parsePattern()
	if expr.Pattern == nil {
		return nil
	}

	if !p.expectPeek(token.IN) {
		return nil
	}

	p.noStructLiteral = true
	p.nextToken()
	expr.Iterable = p.parseExpression(LOWEST)
	p.noStructLiteral = false

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseLoopExpression() ast.Expression {
	expr := &ast.LoopExpression{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseMatchExpression() ast.Expression {
	expr := &ast.MatchExpression{Token: p.curToken}

	p.noStructLiteral = true
	p.nextToken()
	expr.Scrutinee = p.parseExpression(LOWEST)
	p.noStructLiteral = false

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		arm := &ast.MatchArm{Token: p.curToken}
		arm.Pattern = p.parsePattern()
		if arm.Pattern == nil {
			p.skipToStatementBoundary()
			return nil
		}
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			arm.Guard = p.parseExpression(LOWEST)
		}
		if !p.expectPeek(token.FATARROW) {
			return nil
		}
		p.nextToken()
		if p.curTokenIs(token.LBRACE) {
			braceTok := p.curToken
			arm.Body = &ast.BlockExpression{Token: braceTok, Block: p.parseBlockStatement()}
		} else {
			arm.Body = p.parseExpression(LOWEST)
		}
		expr.Arms = append(expr.Arms, arm)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return expr
}

func (p *Parser) parseTryExpression() ast.Expression {
	expr := &ast.TryExpression{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()

	for p.peekTokenIs(token.CATCH) {
		p.nextToken()
		clause := &ast.CatchClause{Token: p.curToken}
		p.nextToken()
		clause.Pattern = p.parsePattern()
		if clause.Pattern == nil {
			return nil
		}
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			clause.Guard = p.parseExpression(LOWEST)
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		clause.Body = p.parseBlockStatement()
		expr.Catches = append(expr.Catches, clause)
	}

	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Finally = p.parseBlockStatement()
	}
	return expr
}

func (p *Parser) parseLambdaExpression() ast.Expression {
	lambda := &ast.LambdaExpression{Token: p.curToken}
	for !p.peekTokenIs(token.BITOR) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		param := &ast.Param{Token: p.curToken}
		if p.curTokenIs(token.DOTDOTDOT) {
			param.Variadic = true
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.UNDERSCORE) {
			p.errorAt(p.curToken, "expected parameter name, got %s", p.curToken.Type)
			return nil
		}
		param.Name = p.curToken.Lexeme
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			param.TypeAnnotation = p.parseTypeAnnotation()
		}
		lambda.Params = append(lambda.Params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.BITOR) {
		return nil
	}
	p.nextToken()
	if p.curTokenIs(token.LBRACE) {
		braceTok := p.curToken
		lambda.Body = &ast.BlockExpression{Token: braceTok, Block: p.parseBlockStatement()}
	} else {
		lambda.Body = p.parseExpression(LOWEST)
	}
	return lambda
}

// parseEmptyParamLambda handles || body, which lexes as a single OR token.
func (p *Parser) parseEmptyParamLambda() ast.Expression {
	lambda := &ast.LambdaExpression{Token: p.curToken}
	p.nextToken()
	if p.curTokenIs(token.LBRACE) {
		braceTok := p.curToken
		lambda.Body = &ast.BlockExpression{Token: braceTok, Block: p.parseBlockStatement()}
	} else {
		lambda.Body = p.parseExpression(LOWEST)
	}
	return lambda
}

func (p *Parser) parseSpawnExpression() ast.Expression {
	expr := &ast.SpawnExpression{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Actor = p.curToken.Lexeme
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		expr.Fields = p.parseRecordFields()
	}
	return expr
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	expr := &ast.AwaitExpression{Token: p.curToken}
	p.nextToken()
	expr.Value = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseAsyncExpression() ast.Expression {
	expr := &ast.AsyncExpression{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	lparen := p.curToken
	args := p.parseCallArguments()

	// send/ask on an actor handle are distinguished AST nodes, mirroring
	// the actor operations rather than generic calls.
	if ident, ok := function.(*ast.Identifier); ok && len(args) == 2 {
		switch ident.Value {
		case "send":
			return &ast.SendExpression{Token: ident.Token, Target: args[0], Message: args[1]}
		case "ask":
			return &ast.AskExpression{Token: ident.Token, Target: args[0], Message: args[1]}
		}
	}
	return &ast.CallExpression{Token: lparen, Function: function, Arguments: args}
}

// parseCallArguments parses expressions until ')'. curToken is '(' on
// entry and ')' on exit.
func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression

	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}

// parseIndexExpression handles xs[i], xs[a..b] and xs[a..=b].
func (p *Parser) parseIndexExpression(receiver ast.Expression) ast.Expression {
	lbracket := p.curToken

	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	if r, ok := index.(*ast.RangeExpression); ok {
		return &ast.SliceExpression{
			Token:     lbracket,
			Receiver:  receiver,
			Start:     r.Start,
			End:       r.End,
			Inclusive: r.Inclusive,
		}
	}
	return &ast.IndexExpression{Token: lbracket, Receiver: receiver, Index: index}
}

// parseDotExpression handles recv.field and recv.method(args).
func (p *Parser) parseDotExpression(receiver ast.Expression) ast.Expression {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	nameTok := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseCallArguments()
		return &ast.MethodCallExpression{Token: nameTok, Receiver: receiver, Method: nameTok.Lexeme, Arguments: args}
	}
	return &ast.FieldAccessExpression{Token: nameTok, Receiver: receiver, Field: nameTok.Lexeme}
}

// parsePathExpression handles A::B paths (enum variants, module members).
func (p *Parser) parsePathExpression(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorAt(p.curToken, "path segments must be identifiers")
		return nil
	}
	path := &ast.PathExpression{Token: ident.Token, Segments: []string{ident.Value}}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	path.Segments = append(path.Segments, p.curToken.Lexeme)
	for p.peekTokenIs(token.COLONCOLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		path.Segments = append(path.Segments, p.curToken.Lexeme)
	}
	return path
}
