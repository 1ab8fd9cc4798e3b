package vm

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
)

var binaryOps = map[string]Opcode{
	"+":  OP_ADD,
	"-":  OP_SUB,
	"*":  OP_MUL,
	"/":  OP_DIV,
	"%":  OP_MOD,
	"&":  OP_BIT_AND,
	"|":  OP_BIT_OR,
	"^":  OP_BIT_XOR,
	"<<": OP_SHIFT_LEFT,
	">>": OP_SHIFT_RIGHT,
	"==": OP_EQUAL,
	"!=": OP_NOT_EQUAL,
	">":  OP_GREATER,
	">=": OP_GREATER_EQUAL,
	"<":  OP_LESS,
	"<=": OP_LESS_EQUAL,
}

func (c *Compiler) compileExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		c.emitConstant(&evaluator.Integer{Value: e.Value}, e.GetToken())
	case *ast.FloatLiteral:
		c.emitConstant(&evaluator.Float{Value: e.Value}, e.GetToken())
	case *ast.StringLiteral:
		c.emitConstant(&evaluator.Str{Value: e.Value}, e.GetToken())
	case *ast.CharLiteral:
		c.emitConstant(&evaluator.Char{Value: e.Value}, e.GetToken())
	case *ast.BooleanLiteral:
		if e.Value {
			c.emitConstant(evaluator.TRUE, e.GetToken())
		} else {
			c.emitConstant(evaluator.FALSE, e.GetToken())
		}
	case *ast.NilLiteral:
		c.emitConstant(evaluator.NIL, e.GetToken())
	case *ast.UnitLiteral:
		c.emitConstant(evaluator.UNIT, e.GetToken())

	case *ast.Identifier:
		return c.compileIdentifier(e)

	case *ast.PrefixExpression:
		if err := c.compileExpression(e.Right); err != nil {
			return err
		}
		switch e.Operator {
		case "-":
			c.emit(OP_NEG, e.GetToken())
		case "!":
			c.emit(OP_NOT, e.GetToken())
		case "~":
			c.emit(OP_BIT_NOT, e.GetToken())
		default:
			return unsupportedf("prefix operator %s", e.Operator)
		}

	case *ast.InfixExpression:
		return c.compileInfix(e)

	case *ast.IfExpression:
		return c.compileIf(e)

	case *ast.BlockExpression:
		c.beginScope()
		if err := c.compileStatements(e.Block.Statements, true); err != nil {
			return err
		}
		c.endScope(true, e.GetToken())

	case *ast.WhileExpression:
		return c.compileWhile(e)

	case *ast.ListLiteral:
		for _, el := range e.Elements {
			if err := c.compileExpression(el); err != nil {
				return err
			}
		}
		c.emit(OP_NEW_ARRAY, e.GetToken())
		c.chunk.WriteU16(len(e.Elements), e.GetToken().Line, e.GetToken().Column)

	case *ast.TupleLiteral:
		for _, el := range e.Elements {
			if err := c.compileExpression(el); err != nil {
				return err
			}
		}
		c.emit(OP_NEW_TUPLE, e.GetToken())
		c.chunk.WriteU16(len(e.Elements), e.GetToken().Line, e.GetToken().Column)

	case *ast.RecordLiteral:
		for _, f := range e.Fields {
			c.emitConstant(&evaluator.Str{Value: f.Key}, e.GetToken())
			if err := c.compileExpression(f.Value); err != nil {
				return err
			}
		}
		c.emit(OP_NEW_OBJECT, e.GetToken())
		c.chunk.WriteU16(len(e.Fields), e.GetToken().Line, e.GetToken().Column)

	case *ast.IndexExpression:
		if err := c.compileExpression(e.Receiver); err != nil {
			return err
		}
		if err := c.compileExpression(e.Index); err != nil {
			return err
		}
		c.emit(OP_LOAD_INDEX, e.GetToken())

	case *ast.FieldAccessExpression:
		if err := c.compileExpression(e.Receiver); err != nil {
			return err
		}
		c.emit(OP_LOAD_FIELD, e.GetToken())
		c.chunk.WriteU16(c.addConstant(&evaluator.Str{Value: e.Field}),
			e.GetToken().Line, e.GetToken().Column)

	case *ast.CallExpression:
		if err := c.compileExpression(e.Function); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := c.compileExpression(arg); err != nil {
				return err
			}
		}
		c.emit(OP_CALL, e.GetToken())
		c.chunk.Write(byte(len(e.Arguments)), e.GetToken().Line, e.GetToken().Column)

	case *ast.LambdaExpression:
		body := &ast.BlockStatement{Token: e.GetToken(), Statements: []ast.Statement{
			&ast.ExpressionStatement{Token: e.GetToken(), Expression: e.Body},
		}}
		return c.compileFunction("", e.Params, body, e.GetToken())

	case *ast.ForExpression:
		c.emitHybrid(OP_FOR, e)
	case *ast.MethodCallExpression:
		c.emitHybrid(OP_METHOD_CALL, e)
	case *ast.MatchExpression:
		c.emitHybrid(OP_MATCH, e)

	case *ast.TryExpression:
		return c.compileTry(e)

	default:
		return unsupportedf("%T", expr)
	}
	return nil
}

func (c *Compiler) compileIdentifier(e *ast.Identifier) error {
	tok := e.GetToken()
	if slot, _, ok := c.resolveLocal(e.Value); ok {
		c.emit(OP_LOAD_LOCAL, tok)
		c.chunk.Write(byte(slot), tok.Line, tok.Column)
		return nil
	}
	if idx, ok := c.resolveUpvalue(e.Value); ok {
		c.emit(OP_LOAD_UPVALUE, tok)
		c.chunk.Write(byte(idx), tok.Line, tok.Column)
		return nil
	}
	c.emit(OP_LOAD_GLOBAL, tok)
	c.chunk.WriteU16(c.addConstant(&evaluator.Str{Value: e.Value}), tok.Line, tok.Column)
	return nil
}

// compileInfix lowers binary operators. && and || keep their
// short-circuit behavior through conditional jumps rather than the And/Or
// opcodes, which combine two already-evaluated operands.
func (c *Compiler) compileInfix(e *ast.InfixExpression) error {
	switch e.Operator {
	case "&&":
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		c.emit(OP_DUP, e.GetToken())
		end := c.emitJump(OP_JUMP_IF_FALSE, e.GetToken())
		c.emit(OP_POP, e.GetToken())
		if err := c.compileExpression(e.Right); err != nil {
			return err
		}
		c.patchJump(end)
		return nil
	case "||":
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		c.emit(OP_DUP, e.GetToken())
		end := c.emitJump(OP_JUMP_IF_TRUE, e.GetToken())
		c.emit(OP_POP, e.GetToken())
		if err := c.compileExpression(e.Right); err != nil {
			return err
		}
		c.patchJump(end)
		return nil
	}
	op, ok := binaryOps[e.Operator]
	if !ok {
		return unsupportedf("operator %s", e.Operator)
	}
	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	c.emit(op, e.GetToken())
	return nil
}

func (c *Compiler) compileIf(e *ast.IfExpression) error {
	if err := c.compileExpression(e.Condition); err != nil {
		return err
	}
	elseJump := c.emitJump(OP_JUMP_IF_FALSE, e.GetToken())

	c.beginScope()
	if err := c.compileStatements(e.Consequence.Statements, true); err != nil {
		return err
	}
	c.endScope(true, e.GetToken())
	endJump := c.emitJump(OP_JUMP, e.GetToken())

	c.patchJump(elseJump)
	switch alt := e.Alternative.(type) {
	case nil:
		c.emitConstant(evaluator.UNIT, e.GetToken())
	case *ast.BlockExpression:
		c.beginScope()
		if err := c.compileStatements(alt.Block.Statements, true); err != nil {
			return err
		}
		c.endScope(true, e.GetToken())
	default:
		if err := c.compileExpression(alt); err != nil {
			return err
		}
	}
	c.patchJump(endJump)
	return nil
}

// compileWhile lowers a while loop; its value is always Unit. break exits
// to the end, continue re-tests the condition.
func (c *Compiler) compileWhile(e *ast.WhileExpression) error {
	if e.Label != "" {
		return unsupportedf("labeled loop")
	}
	start := c.chunk.Len()
	c.loops = append(c.loops, loopContext{start: start})

	if err := c.compileExpression(e.Condition); err != nil {
		return err
	}
	exit := c.emitJump(OP_JUMP_IF_FALSE, e.GetToken())

	c.beginScope()
	if err := c.compileStatements(e.Body.Statements, false); err != nil {
		return err
	}
	c.endScope(false, e.GetToken())

	c.emit(OP_JUMP, e.GetToken())
	c.chunk.WriteU16(start, e.GetToken().Line, e.GetToken().Column)
	c.patchJump(exit)

	top := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	for _, pos := range top.breakJumps {
		c.patchJump(pos)
	}
	c.emitConstant(evaluator.UNIT, e.GetToken())
	return nil
}

// compileTry handles the single catch-all shape; anything richer (guards,
// multiple catches, destructuring patterns, finally) is left to the
// evaluator via fallback.
func (c *Compiler) compileTry(e *ast.TryExpression) error {
	if len(e.Catches) != 1 || e.Finally != nil {
		return unsupportedf("try with multiple catches or finally")
	}
	catch := e.Catches[0]
	if catch.Guard != nil {
		return unsupportedf("catch guard")
	}
	var bindName string
	switch pat := catch.Pattern.(type) {
	case *ast.IdentifierPattern:
		bindName = pat.Name
	case *ast.WildcardPattern:
	case nil:
	default:
		return unsupportedf("catch pattern %T", catch.Pattern)
	}

	handler := c.emitJump(OP_ENTER_TRY, e.GetToken())
	c.beginScope()
	if err := c.compileStatements(e.Body.Statements, true); err != nil {
		return err
	}
	c.endScope(true, e.GetToken())
	c.emit(OP_EXIT_TRY, e.GetToken())
	end := c.emitJump(OP_JUMP, e.GetToken())

	// Handler entry: the caught value is on the stack.
	c.patchJump(handler)
	c.beginScope()
	if bindName != "" {
		c.locals = append(c.locals, local{name: bindName, depth: c.scopeDepth, mutable: false})
	} else {
		c.emit(OP_POP, e.GetToken())
	}
	if err := c.compileStatements(catch.Body.Statements, true); err != nil {
		return err
	}
	c.endScope(true, e.GetToken())
	c.patchJump(end)
	return nil
}

func (c *Compiler) emitHybrid(op Opcode, node ast.Node) {
	tok := node.GetToken()
	c.emit(op, tok)
	c.chunk.WriteU16(c.chunk.AddNode(node, c.activeLocalNames()), tok.Line, tok.Column)
}
