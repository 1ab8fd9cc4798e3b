package vm

import (
	"errors"
	"fmt"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/token"
)

// ErrUnsupported marks a program the bytecode compiler cannot express.
// The backend falls back to the tree-walk evaluator when it sees this.
var ErrUnsupported = errors.New("not bytecode-compilable")

func unsupportedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

type local struct {
	name    string
	depth   int
	mutable bool
}

type upvalue struct {
	// fromLocal captures a slot of the enclosing frame; otherwise the
	// index refers to the enclosing closure's own upvalue list.
	fromLocal bool
	index     byte
	name      string
}

type loopContext struct {
	breakJumps []int
	start      int
}

// Compiler lowers an AST to a chunk. Each function body gets its own
// Compiler, linked through enclosing for upvalue resolution.
type Compiler struct {
	enclosing *Compiler
	chunk     *Chunk
	protoName string

	locals     []local
	upvalues   []upvalue
	scopeDepth int
	loops      []loopContext

	// globalMut tracks top-level binding mutability for static checks;
	// only the root compiler owns it.
	globalMut map[string]bool
}

func NewCompiler() *Compiler {
	return &Compiler{
		chunk:     NewChunk(),
		globalMut: make(map[string]bool),
	}
}

func newFunctionCompiler(enclosing *Compiler, name string) *Compiler {
	return &Compiler{
		enclosing: enclosing,
		chunk:     NewChunk(),
		protoName: name,
	}
}

// Compile lowers a whole program. The chunk returns the value of the last
// top-level expression statement, or Unit.
func Compile(program *ast.Program) (*Chunk, error) {
	c := NewCompiler()
	c.chunk.File = program.File
	if err := c.compileStatements(program.Statements, true); err != nil {
		return nil, err
	}
	c.emit(OP_RETURN, token.Token{})
	return c.chunk, nil
}

// compileStatements lowers a statement list. When valuePos is set the
// value of a final expression statement is kept on the stack; every other
// statement leaves the stack balanced.
func (c *Compiler) compileStatements(stmts []ast.Statement, valuePos bool) error {
	produced := false
	for i, stmt := range stmts {
		last := i == len(stmts)-1
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			if err := c.compileExpression(es.Expression); err != nil {
				return err
			}
			if last && valuePos {
				produced = true
			} else {
				c.emit(OP_POP, es.GetToken())
			}
			continue
		}
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	if valuePos && !produced {
		c.emitConstant(evaluator.UNIT, token.Token{})
	}
	return nil
}

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		c.defineVariable(s.Name.Value, s.Mutable, s.GetToken())
		return nil

	case *ast.AssignStatement:
		return c.compileAssign(s)

	case *ast.CompoundAssignStatement:
		target, ok := s.Target.(*ast.Identifier)
		if !ok {
			return unsupportedf("compound assignment to a non-identifier")
		}
		if err := c.compileExpression(s.Target); err != nil {
			return err
		}
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		op, ok := binaryOps[s.Op]
		if !ok {
			return unsupportedf("compound operator %s", s.Op)
		}
		c.emit(op, s.GetToken())
		return c.storeVariable(target.Value, s.GetToken())

	case *ast.IncDecStatement:
		target, ok := s.Target.(*ast.Identifier)
		if !ok {
			return unsupportedf("increment of a non-identifier")
		}
		if err := c.compileExpression(s.Target); err != nil {
			return err
		}
		c.emitConstant(&evaluator.Integer{Value: 1}, s.GetToken())
		if s.Op == "++" {
			c.emit(OP_ADD, s.GetToken())
		} else {
			c.emit(OP_SUB, s.GetToken())
		}
		return c.storeVariable(target.Value, s.GetToken())

	case *ast.FunctionStatement:
		if err := c.compileFunction(s.Name.Value, s.Params, s.Body, s.GetToken()); err != nil {
			return err
		}
		c.defineVariable(s.Name.Value, false, s.GetToken())
		return nil

	case *ast.ReturnStatement:
		return c.compileReturn(s)

	case *ast.BreakStatement:
		if len(c.loops) == 0 {
			return unsupportedf("break outside a compiled loop")
		}
		if s.Value != nil || s.Label != "" {
			return unsupportedf("break with a value or label")
		}
		pos := c.emitJump(OP_JUMP, s.GetToken())
		top := &c.loops[len(c.loops)-1]
		top.breakJumps = append(top.breakJumps, pos)
		return nil

	case *ast.ContinueStatement:
		if len(c.loops) == 0 {
			return unsupportedf("continue outside a compiled loop")
		}
		if s.Label != "" {
			return unsupportedf("continue with a label")
		}
		c.emit(OP_JUMP, s.GetToken())
		c.chunk.WriteU16(c.loops[len(c.loops)-1].start, s.GetToken().Line, s.GetToken().Column)
		return nil

	case *ast.ThrowStatement:
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		c.emit(OP_THROW, s.GetToken())
		return nil

	default:
		return unsupportedf("%T at statement position", stmt)
	}
}

func (c *Compiler) compileAssign(s *ast.AssignStatement) error {
	switch target := s.Target.(type) {
	case *ast.Identifier:
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		return c.storeVariable(target.Value, s.GetToken())
	case *ast.IndexExpression:
		if err := c.compileExpression(target.Receiver); err != nil {
			return err
		}
		if err := c.compileExpression(target.Index); err != nil {
			return err
		}
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		c.emit(OP_STORE_INDEX, s.GetToken())
		return nil
	case *ast.FieldAccessExpression:
		if err := c.compileExpression(target.Receiver); err != nil {
			return err
		}
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		c.emit(OP_STORE_FIELD, s.GetToken())
		c.chunk.WriteU16(c.addConstant(&evaluator.Str{Value: target.Field}),
			s.GetToken().Line, s.GetToken().Column)
		return nil
	default:
		return unsupportedf("assignment to %T", s.Target)
	}
}

// compileReturn emits Return, or TailCall when the returned value is a
// direct call: the callee reuses the current frame.
func (c *Compiler) compileReturn(s *ast.ReturnStatement) error {
	if call, ok := s.Value.(*ast.CallExpression); ok {
		if _, isIdent := call.Function.(*ast.Identifier); isIdent {
			if err := c.compileExpression(call.Function); err != nil {
				return err
			}
			for _, arg := range call.Arguments {
				if err := c.compileExpression(arg); err != nil {
					return err
				}
			}
			c.emit(OP_TAIL_CALL, s.GetToken())
			c.chunk.Write(byte(len(call.Arguments)), s.GetToken().Line, s.GetToken().Column)
			return nil
		}
	}
	if s.Value == nil {
		c.emitConstant(evaluator.UNIT, s.GetToken())
	} else if err := c.compileExpression(s.Value); err != nil {
		return err
	}
	c.emit(OP_RETURN, s.GetToken())
	return nil
}

func (c *Compiler) compileFunction(name string, params []*ast.Param, body *ast.BlockStatement, tok token.Token) error {
	sub := newFunctionCompiler(c, name)
	sub.scopeDepth = 1
	for _, p := range params {
		if p.Variadic {
			return unsupportedf("variadic parameters")
		}
		sub.locals = append(sub.locals, local{name: p.Name, depth: 1, mutable: true})
	}
	if err := sub.compileStatements(body.Statements, true); err != nil {
		return err
	}
	sub.emit(OP_RETURN, tok)

	upvalueNames := make([]string, len(sub.upvalues))
	for i, uv := range sub.upvalues {
		upvalueNames[i] = uv.name
	}
	proto := &FunctionProto{
		Name:         name,
		Arity:        len(params),
		Chunk:        sub.chunk,
		LocalNames:   sub.localNames(),
		UpvalueNames: upvalueNames,
	}
	idx := c.addConstant(proto)
	c.emit(OP_NEW_CLOSURE, tok)
	c.chunk.WriteU16(idx, tok.Line, tok.Column)
	c.chunk.Write(byte(len(sub.upvalues)), tok.Line, tok.Column)
	for _, uv := range sub.upvalues {
		b := uv.index
		if !uv.fromLocal {
			b |= 0x80
		}
		c.chunk.Write(b, tok.Line, tok.Column)
	}
	return nil
}

// defineVariable binds the value on top of the stack. At scope depth zero
// that is a global store; inside a scope the value simply becomes the next
// local slot.
func (c *Compiler) defineVariable(name string, mutable bool, tok token.Token) {
	if c.scopeDepth == 0 && c.enclosing == nil {
		c.globalMut[name] = mutable
		c.emit(OP_STORE_GLOBAL, tok)
		c.chunk.WriteU16(c.addConstant(&evaluator.Str{Value: name}), tok.Line, tok.Column)
		return
	}
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth, mutable: mutable})
}

// storeVariable compiles an assignment to an existing binding, enforcing
// mutability statically.
func (c *Compiler) storeVariable(name string, tok token.Token) error {
	if slot, mutable, ok := c.resolveLocal(name); ok {
		if !mutable {
			return unsupportedf("assignment to immutable %s", name)
		}
		c.emit(OP_STORE_LOCAL, tok)
		c.chunk.Write(byte(slot), tok.Line, tok.Column)
		return nil
	}
	if idx, ok := c.resolveUpvalue(name); ok {
		c.emit(OP_STORE_UPVALUE, tok)
		c.chunk.Write(byte(idx), tok.Line, tok.Column)
		return nil
	}
	root := c
	for root.enclosing != nil {
		root = root.enclosing
	}
	if mutable, known := root.globalMut[name]; known && !mutable {
		return unsupportedf("assignment to immutable %s", name)
	}
	c.emit(OP_STORE_GLOBAL, tok)
	c.chunk.WriteU16(c.addConstant(&evaluator.Str{Value: name}), tok.Line, tok.Column)
	return nil
}

func (c *Compiler) resolveLocal(name string) (slot int, mutable, ok bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i, c.locals[i].mutable, true
		}
	}
	return 0, false, false
}

// resolveUpvalue walks outward through enclosing functions, threading the
// capture through each intermediate closure.
func (c *Compiler) resolveUpvalue(name string) (int, bool) {
	if c.enclosing == nil {
		return 0, false
	}
	if slot, _, ok := c.enclosing.resolveLocal(name); ok {
		return c.addUpvalue(upvalue{fromLocal: true, index: byte(slot), name: name}), true
	}
	if idx, ok := c.enclosing.resolveUpvalue(name); ok {
		return c.addUpvalue(upvalue{fromLocal: false, index: byte(idx), name: name}), true
	}
	return 0, false
}

func (c *Compiler) addUpvalue(uv upvalue) int {
	for i, existing := range c.upvalues {
		if existing.name == uv.name {
			return i
		}
	}
	c.upvalues = append(c.upvalues, uv)
	return len(c.upvalues) - 1
}

func (c *Compiler) localNames() []string {
	names := make([]string, len(c.locals))
	for i, l := range c.locals {
		names[i] = l.name
	}
	return names
}

// activeLocalNames snapshots the slots live right now, for hybrid ops.
func (c *Compiler) activeLocalNames() []string {
	return c.localNames()
}

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope drops the scope's locals. With preserve set, the block result
// on top of the stack survives: each dead slot is swapped up and popped.
func (c *Compiler) endScope(preserve bool, tok token.Token) {
	c.scopeDepth--
	dropped := 0
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		dropped++
	}
	for i := 0; i < dropped; i++ {
		if preserve {
			c.emit(OP_SWAP, tok)
		}
		c.emit(OP_POP, tok)
	}
}

func (c *Compiler) emit(op Opcode, tok token.Token) {
	c.chunk.WriteOp(op, tok.Line, tok.Column)
}

func (c *Compiler) emitConstant(value evaluator.Object, tok token.Token) {
	c.emit(OP_CONST, tok)
	c.chunk.WriteU16(c.addConstant(value), tok.Line, tok.Column)
}

func (c *Compiler) addConstant(value evaluator.Object) int {
	return c.chunk.AddConstant(value)
}

// emitJump writes a jump with a placeholder target and returns the
// operand offset for patching.
func (c *Compiler) emitJump(op Opcode, tok token.Token) int {
	c.emit(op, tok)
	pos := c.chunk.Len()
	c.chunk.WriteU16(0xFFFF, tok.Line, tok.Column)
	return pos
}

func (c *Compiler) patchJump(pos int) {
	c.chunk.PatchU16(pos, c.chunk.Len())
}
