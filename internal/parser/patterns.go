package parser

import (
	"strconv"
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/token"
)

// parsePattern parses a match/destructuring pattern with curToken on its
// first token. Or-patterns bind loosest: `1 | 2 | 3`.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parseSinglePattern()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.BITOR) {
		return first
	}
	or := &ast.OrPattern{Token: first.GetToken(), Alternatives: []ast.Pattern{first}}
	for p.peekTokenIs(token.BITOR) {
		p.nextToken()
		p.nextToken()
		alt := p.parseSinglePattern()
		if alt == nil {
			return nil
		}
		or.Alternatives = append(or.Alternatives, alt)
	}
	return or
}

func (p *Parser) parseSinglePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.UNDERSCORE:
		return &ast.WildcardPattern{Token: p.curToken}
	case token.INT, token.FLOAT, token.MINUS:
		return p.parseNumericPattern()
	case token.STRING:
		return &ast.LiteralPattern{Token: p.curToken, Value: &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}}
	case token.CHAR:
		lit := p.parseCharLiteral()
		return &ast.LiteralPattern{Token: p.curToken, Value: lit}
	case token.TRUE, token.FALSE:
		return &ast.LiteralPattern{Token: p.curToken, Value: &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}}
	case token.NIL:
		return &ast.LiteralPattern{Token: p.curToken, Value: &ast.NilLiteral{Token: p.curToken}}
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.LBRACKET:
		return p.parseListPattern()
	case token.LBRACE:
		return p.parseStructPattern(p.curToken, "")
	case token.IDENT:
		return p.parseNamePattern()
	default:
		p.errorAt(p.curToken, "unexpected token %s in pattern", p.curToken.Type)
		return nil
	}
}

// parseNumericPattern handles integer and float literals, unary minus,
// and numeric range patterns like 1..10 or 'a'..='z'.
func (p *Parser) parseNumericPattern() ast.Pattern {
	startTok := p.curToken
	low := p.parseNumericLiteral()
	if low == nil {
		return nil
	}
	if p.peekTokenIs(token.DOTDOT) || p.peekTokenIs(token.DOTDOTEQ) {
		p.nextToken()
		inclusive := p.curTokenIs(token.DOTDOTEQ)
		p.nextToken()
		high := p.parseNumericLiteral()
		if high == nil {
			return nil
		}
		return &ast.RangePattern{Token: startTok, Start: low, End: high, Inclusive: inclusive}
	}
	return &ast.LiteralPattern{Token: startTok, Value: low}
}

func (p *Parser) parseNumericLiteral() ast.Expression {
	neg := false
	if p.curTokenIs(token.MINUS) {
		neg = true
		p.nextToken()
	}
	switch p.curToken.Type {
	case token.INT:
		lit, _ := p.parseIntegerLiteral().(*ast.IntegerLiteral)
		if lit == nil {
			return nil
		}
		if neg {
			lit.Value = -lit.Value
		}
		return lit
	case token.FLOAT:
		lit, _ := p.parseFloatLiteral().(*ast.FloatLiteral)
		if lit == nil {
			return nil
		}
		if neg {
			lit.Value = -lit.Value
		}
		return lit
	case token.CHAR:
		return p.parseCharLiteral()
	default:
		p.errorAt(p.curToken, "expected numeric literal in pattern, got %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	pat := &ast.TuplePattern{Token: p.curToken}
	for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, el)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return pat
}

// parseListPattern handles [a, b], [first, ..rest] and [..].
func (p *Parser) parseListPattern() ast.Pattern {
	pat := &ast.ListPattern{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACKET) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.DOTDOT) {
			pat.HasRest = true
			if p.peekTokenIs(token.IDENT) {
				p.nextToken()
				pat.Rest = p.curToken.Lexeme
			}
			break
		}
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, el)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return pat
}

// parseStructPattern parses { field, field: pat, .. } with curToken on '{'.
// name is empty for an anonymous record pattern.
func (p *Parser) parseStructPattern(tok token.Token, name string) ast.Pattern {
	pat := &ast.StructPattern{Token: tok, Name: name}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if p.curTokenIs(token.DOTDOT) {
			pat.HasRest = true
			break
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorAt(p.curToken, "expected field name in pattern, got %s", p.curToken.Type)
			return nil
		}
		field := ast.FieldPattern{Name: p.curToken.Lexeme}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			field.Pattern = p.parsePattern()
			if field.Pattern == nil {
				return nil
			}
		}
		pat.Fields = append(pat.Fields, field)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return pat
}

// parseNamePattern handles plain bindings, Enum::Variant(..) patterns,
// Struct { .. } patterns, and bare Variant names.
func (p *Parser) parseNamePattern() ast.Pattern {
	nameTok := p.curToken
	name := nameTok.Lexeme

	if p.peekTokenIs(token.COLONCOLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		pat := &ast.EnumPattern{Token: nameTok, EnumName: name, Variant: p.curToken.Lexeme}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
				p.nextToken()
				el := p.parsePattern()
				if el == nil {
					return nil
				}
				pat.Elements = append(pat.Elements, el)
				if p.peekTokenIs(token.COMMA) {
					p.nextToken()
				}
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		return pat
	}

	if p.peekTokenIs(token.LBRACE) && isTypeName(name) && !p.noStructLiteral {
		p.nextToken()
		return p.parseStructPattern(nameTok, name)
	}

	if isTypeName(name) && p.peekTokenIs(token.LPAREN) {
		// Bare variant with payload: Some(x).
		pat := &ast.EnumPattern{Token: nameTok, Variant: name}
		p.nextToken()
		for !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.EOF) {
			p.nextToken()
			el := p.parsePattern()
			if el == nil {
				return nil
			}
			pat.Elements = append(pat.Elements, el)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return pat
	}

	if isTypeName(name) {
		return &ast.EnumPattern{Token: nameTok, Variant: name}
	}
	return &ast.IdentifierPattern{Token: nameTok, Name: name}
}

// PatternBindings returns the names a pattern introduces, in source order.
func PatternBindings(pat ast.Pattern) []string {
	var names []string
	collectBindings(pat, &names)
	return names
}

func collectBindings(pat ast.Pattern, names *[]string) {
	switch pt := pat.(type) {
	case *ast.IdentifierPattern:
		*names = append(*names, pt.Name)
	case *ast.TuplePattern:
		for _, el := range pt.Elements {
			collectBindings(el, names)
		}
	case *ast.ListPattern:
		for _, el := range pt.Elements {
			collectBindings(el, names)
		}
		if pt.Rest != "" {
			*names = append(*names, pt.Rest)
		}
	case *ast.StructPattern:
		for _, f := range pt.Fields {
			if f.Pattern == nil {
				*names = append(*names, f.Name)
			} else {
				collectBindings(f.Pattern, names)
			}
		}
	case *ast.EnumPattern:
		for _, el := range pt.Elements {
			collectBindings(el, names)
		}
	case *ast.OrPattern:
		if len(pt.Alternatives) > 0 {
			collectBindings(pt.Alternatives[0], names)
		}
	}
}

// FormatPattern renders a pattern back to readable source, used in
// diagnostics for non-exhaustive matches.
func FormatPattern(pat ast.Pattern) string {
	switch pt := pat.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.LiteralPattern:
		return pt.Token.Lexeme
	case *ast.IdentifierPattern:
		return pt.Name
	case *ast.TuplePattern:
		parts := make([]string, len(pt.Elements))
		for i, el := range pt.Elements {
			parts[i] = FormatPattern(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ListPattern:
		parts := make([]string, 0, len(pt.Elements)+1)
		for _, el := range pt.Elements {
			parts = append(parts, FormatPattern(el))
		}
		if pt.HasRest {
			parts = append(parts, ".."+pt.Rest)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.StructPattern:
		parts := make([]string, 0, len(pt.Fields)+1)
		for _, f := range pt.Fields {
			if f.Pattern == nil {
				parts = append(parts, f.Name)
			} else {
				parts = append(parts, f.Name+": "+FormatPattern(f.Pattern))
			}
		}
		if pt.HasRest {
			parts = append(parts, "..")
		}
		prefix := ""
		if pt.Name != "" {
			prefix = pt.Name + " "
		}
		return prefix + "{ " + strings.Join(parts, ", ") + " }"
	case *ast.EnumPattern:
		name := pt.Variant
		if pt.EnumName != "" {
			name = pt.EnumName + "::" + pt.Variant
		}
		if len(pt.Elements) == 0 {
			return name
		}
		parts := make([]string, len(pt.Elements))
		for i, el := range pt.Elements {
			parts[i] = FormatPattern(el)
		}
		return name + "(" + strings.Join(parts, ", ") + ")"
	case *ast.RangePattern:
		op := ".."
		if pt.Inclusive {
			op = "..="
		}
		return formatLiteral(pt.Start) + op + formatLiteral(pt.End)
	case *ast.OrPattern:
		parts := make([]string, len(pt.Alternatives))
		for i, alt := range pt.Alternatives {
			parts[i] = FormatPattern(alt)
		}
		return strings.Join(parts, " | ")
	default:
		return "?"
	}
}

func formatLiteral(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(e.Value, 'g', -1, 64)
	case *ast.CharLiteral:
		return "'" + string(e.Value) + "'"
	default:
		return expr.TokenLiteral()
	}
}
