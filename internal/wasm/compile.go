package wasm

import (
	"github.com/ruvylang/ruvy/internal/ast"
)

// funcCompiler lowers one function body. Locals are allocated on first
// let; the locals vector is prepended once the code is final.
type funcCompiler struct {
	e          *Emitter
	code       []byte
	localTypes []byte // index order, parameters first
	paramCount int
	scopes     []map[string]int
}

func (e *Emitter) compileFunction(def *funcDef) ([]byte, error) {
	fc := &funcCompiler{e: e, paramCount: len(def.params)}
	fc.pushScope()
	for _, p := range def.params {
		fc.scopes[0][p.Name] = len(fc.localTypes)
		fc.localTypes = append(fc.localTypes, typeI32)
	}
	if err := fc.compileBlock(def.body.Statements, def.result); err != nil {
		return nil, err
	}
	fc.code = append(fc.code, opEnd)

	// Locals vector: runs of identical types, parameters excluded.
	var body []byte
	extras := fc.localTypes[fc.paramCount:]
	var runs [][2]uint32 // count, type
	for _, t := range extras {
		if n := len(runs); n > 0 && runs[n-1][1] == uint32(t) {
			runs[n-1][0]++
			continue
		}
		runs = append(runs, [2]uint32{1, uint32(t)})
	}
	body = appendU32(body, uint32(len(runs)))
	for _, run := range runs {
		body = appendU32(body, run[0])
		body = append(body, byte(run[1]))
	}
	return append(body, fc.code...), nil
}

func (fc *funcCompiler) pushScope() {
	fc.scopes = append(fc.scopes, make(map[string]int))
}

func (fc *funcCompiler) popScope() {
	fc.scopes = fc.scopes[:len(fc.scopes)-1]
}

func (fc *funcCompiler) define(name string, t byte) int {
	idx := len(fc.localTypes)
	fc.localTypes = append(fc.localTypes, t)
	fc.scopes[len(fc.scopes)-1][name] = idx
	return idx
}

func (fc *funcCompiler) resolve(name string) (int, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if idx, ok := fc.scopes[i][name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (fc *funcCompiler) localType(idx int) byte {
	return fc.localTypes[idx]
}

// vars projects the scope chain into the name→type map the shared
// inference helpers expect.
func (fc *funcCompiler) vars() map[string]byte {
	out := make(map[string]byte)
	for _, scope := range fc.scopes {
		for name, idx := range scope {
			out[name] = fc.localTypes[idx]
		}
	}
	return out
}

// compileBlock lowers a statement list; want is the type the block must
// leave on the stack, typeVoid for none. Only the final expression
// statement contributes a value; every other produced value is dropped.
func (fc *funcCompiler) compileBlock(stmts []ast.Statement, want byte) error {
	for i, stmt := range stmts {
		last := i == len(stmts)-1
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			t, err := fc.compileExpression(es.Expression)
			if err != nil {
				return err
			}
			if last && want != typeVoid {
				continue
			}
			if t != typeVoid {
				fc.code = append(fc.code, opDrop)
			}
			continue
		}
		if err := fc.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcCompiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		t, err := fc.compileExpression(s.Value)
		if err != nil {
			return err
		}
		if t == typeVoid {
			return unsupported(s, "binding a valueless expression")
		}
		idx := fc.define(s.Name.Value, t)
		fc.code = append(fc.code, opLocalSet)
		fc.code = appendU32(fc.code, uint32(idx))
		return nil

	case *ast.AssignStatement:
		return fc.compileAssign(s)

	case *ast.ReturnStatement:
		if s.Value != nil {
			if _, err := fc.compileExpression(s.Value); err != nil {
				return err
			}
		}
		fc.code = append(fc.code, opReturn)
		return nil

	default:
		return unsupported(stmt, nodeName(stmt))
	}
}

func (fc *funcCompiler) compileAssign(s *ast.AssignStatement) error {
	switch target := s.Target.(type) {
	case *ast.Identifier:
		if _, err := fc.compileExpression(s.Value); err != nil {
			return err
		}
		idx, ok := fc.resolve(target.Value)
		if !ok {
			return unsupported(s, "assignment to an unknown name")
		}
		fc.code = append(fc.code, opLocalSet)
		fc.code = appendU32(fc.code, uint32(idx))
		return nil

	case *ast.IndexExpression:
		if err := fc.compileElementAddress(target); err != nil {
			return err
		}
		if _, err := fc.compileExpression(s.Value); err != nil {
			return err
		}
		fc.code = append(fc.code, opI32Store, 0x02, 0x00)
		return nil

	default:
		return unsupported(s, "this assignment target")
	}
}

func (fc *funcCompiler) compileExpression(expr ast.Expression) (byte, error) {
	switch x := expr.(type) {
	case *ast.IntegerLiteral:
		fc.code = append(fc.code, opI32Const)
		fc.code = appendS64(fc.code, int64(int32(x.Value)))
		return typeI32, nil

	case *ast.FloatLiteral:
		fc.code = append(fc.code, opF64Const)
		fc.code = appendF64(fc.code, x.Value)
		return typeF64, nil

	case *ast.BooleanLiteral:
		fc.code = append(fc.code, opI32Const)
		if x.Value {
			fc.code = appendS64(fc.code, 1)
		} else {
			fc.code = appendS64(fc.code, 0)
		}
		return typeI32, nil

	case *ast.Identifier:
		idx, ok := fc.resolve(x.Value)
		if !ok {
			return 0, unsupported(x, "free variable "+x.Value)
		}
		fc.code = append(fc.code, opLocalGet)
		fc.code = appendU32(fc.code, uint32(idx))
		return fc.localType(idx), nil

	case *ast.PrefixExpression:
		return fc.compilePrefix(x)

	case *ast.InfixExpression:
		return fc.compileInfix(x)

	case *ast.IfExpression:
		return fc.compileIf(x)

	case *ast.WhileExpression:
		return typeVoid, fc.compileWhile(x)

	case *ast.BlockExpression:
		want := fc.e.blockResult(x.Block.Statements, fc.vars())
		fc.pushScope()
		if err := fc.compileBlock(x.Block.Statements, want); err != nil {
			return 0, err
		}
		fc.popScope()
		return want, nil

	case *ast.CallExpression:
		return fc.compileCall(x)

	case *ast.ListLiteral:
		return fc.compileList(x)

	case *ast.IndexExpression:
		if err := fc.compileElementAddress(x); err != nil {
			return 0, err
		}
		fc.code = append(fc.code, opI32Load, 0x02, 0x00)
		return typeI32, nil

	default:
		return 0, unsupported(expr, nodeName(expr))
	}
}

func (fc *funcCompiler) compilePrefix(x *ast.PrefixExpression) (byte, error) {
	switch x.Operator {
	case "!":
		if _, err := fc.compileExpression(x.Right); err != nil {
			return 0, err
		}
		fc.code = append(fc.code, opI32Eqz)
		return typeI32, nil
	case "-":
		if fc.e.exprType(x.Right, fc.vars()) == typeF64 {
			if _, err := fc.compileExpression(x.Right); err != nil {
				return 0, err
			}
			fc.code = append(fc.code, opF64Neg)
			return typeF64, nil
		}
		fc.code = append(fc.code, opI32Const)
		fc.code = appendS64(fc.code, 0)
		if _, err := fc.compileExpression(x.Right); err != nil {
			return 0, err
		}
		fc.code = append(fc.code, opI32Sub)
		return typeI32, nil
	}
	return 0, unsupported(x, "prefix operator "+x.Operator)
}

var intBinary = map[string]byte{
	"+":  opI32Add,
	"-":  opI32Sub,
	"*":  opI32Mul,
	"/":  opI32DivS,
	"%":  opI32RemS,
	"==": opI32Eq,
	"!=": opI32Ne,
	"<":  opI32LtS,
	">":  opI32GtS,
	"<=": opI32LeS,
	">=": opI32GeS,
	"&&": opI32And,
	"||": opI32Or,
}

var floatBinary = map[string]byte{
	"+":  opF64Add,
	"-":  opF64Sub,
	"*":  opF64Mul,
	"/":  opF64Div,
	"==": opF64Eq,
	"!=": opF64Ne,
	"<":  opF64Lt,
	">":  opF64Gt,
	"<=": opF64Le,
	">=": opF64Ge,
}

func (fc *funcCompiler) compileInfix(x *ast.InfixExpression) (byte, error) {
	left, err := fc.compileExpression(x.Left)
	if err != nil {
		return 0, err
	}
	right, err := fc.compileExpression(x.Right)
	if err != nil {
		return 0, err
	}
	if left != right {
		return 0, unsupported(x, "mixing integer and float operands")
	}

	table := intBinary
	if left == typeF64 {
		table = floatBinary
	}
	op, ok := table[x.Operator]
	if !ok {
		return 0, unsupported(x, "operator "+x.Operator)
	}
	fc.code = append(fc.code, op)
	if isComparison(x.Operator) {
		return typeI32, nil
	}
	return left, nil
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return true
	}
	return false
}

// compileIf emits if/else with a block type taken from the branch result;
// an if without an else is always void.
func (fc *funcCompiler) compileIf(x *ast.IfExpression) (byte, error) {
	if _, err := fc.compileExpression(x.Condition); err != nil {
		return 0, err
	}

	blockType := typeVoid
	if x.Alternative != nil {
		blockType = fc.e.blockResult(x.Consequence.Statements, fc.vars())
	}
	fc.code = append(fc.code, opIf)
	if blockType == typeVoid {
		fc.code = append(fc.code, blockVoid)
	} else {
		fc.code = append(fc.code, blockType)
	}

	fc.pushScope()
	if err := fc.compileBlock(x.Consequence.Statements, blockType); err != nil {
		return 0, err
	}
	fc.popScope()

	if x.Alternative != nil {
		fc.code = append(fc.code, opElse)
		switch alt := x.Alternative.(type) {
		case *ast.BlockExpression:
			fc.pushScope()
			if err := fc.compileBlock(alt.Block.Statements, blockType); err != nil {
				return 0, err
			}
			fc.popScope()
		case *ast.IfExpression:
			t, err := fc.compileIf(alt)
			if err != nil {
				return 0, err
			}
			if t != blockType && blockType != typeVoid {
				return 0, unsupported(alt, "else-if branch of a different type")
			}
		default:
			if _, err := fc.compileExpression(alt); err != nil {
				return 0, err
			}
		}
	}
	fc.code = append(fc.code, opEnd)
	return blockType, nil
}

// compileWhile lowers to block { loop { inverted-cond br_if 1; body; br 0 } }.
func (fc *funcCompiler) compileWhile(x *ast.WhileExpression) error {
	if x.Label != "" {
		return unsupported(x, "labeled loop")
	}
	fc.code = append(fc.code, opBlock, blockVoid, opLoop, blockVoid)

	if _, err := fc.compileExpression(x.Condition); err != nil {
		return err
	}
	fc.code = append(fc.code, opI32Eqz, opBrIf, 0x01)

	fc.pushScope()
	if err := fc.compileBlock(x.Body.Statements, typeVoid); err != nil {
		return err
	}
	fc.popScope()

	fc.code = append(fc.code, opBr, 0x00, opEnd, opEnd)
	return nil
}

func (fc *funcCompiler) compileCall(x *ast.CallExpression) (byte, error) {
	ident, ok := x.Function.(*ast.Identifier)
	if !ok {
		return 0, unsupported(x, "calling a non-name")
	}
	info, ok := fc.e.funcs[ident.Value]
	if !ok {
		return 0, unsupported(x, "call to unknown function "+ident.Value)
	}
	if len(x.Arguments) != info.params {
		return 0, unsupported(x, "call with the wrong argument count")
	}
	for _, arg := range x.Arguments {
		if _, err := fc.compileExpression(arg); err != nil {
			return 0, err
		}
	}
	fc.code = append(fc.code, opCall)
	fc.code = appendU32(fc.code, uint32(info.index))
	return info.result, nil
}

// compileList stores the elements into a static linear-memory region and
// yields the base address.
func (fc *funcCompiler) compileList(x *ast.ListLiteral) (byte, error) {
	base := fc.e.allocStatic(uint32(len(x.Elements)) * 4)
	for i, el := range x.Elements {
		fc.code = append(fc.code, opI32Const)
		fc.code = appendS64(fc.code, int64(base)+int64(i)*4)
		t, err := fc.compileExpression(el)
		if err != nil {
			return 0, err
		}
		if t != typeI32 {
			return 0, unsupported(el, "non-integer array element")
		}
		fc.code = append(fc.code, opI32Store, 0x02, 0x00)
	}
	fc.code = append(fc.code, opI32Const)
	fc.code = appendS64(fc.code, int64(base))
	return typeI32, nil
}

// compileElementAddress leaves base + index*4 on the stack.
func (fc *funcCompiler) compileElementAddress(x *ast.IndexExpression) error {
	if _, err := fc.compileExpression(x.Receiver); err != nil {
		return err
	}
	if _, err := fc.compileExpression(x.Index); err != nil {
		return err
	}
	fc.code = append(fc.code, opI32Const)
	fc.code = appendS64(fc.code, 4)
	fc.code = append(fc.code, opI32Mul, opI32Add)
	return nil
}

func nodeName(node ast.Node) string {
	switch node.(type) {
	case *ast.MatchExpression:
		return "match"
	case *ast.TryExpression:
		return "try"
	case *ast.ForExpression:
		return "for"
	case *ast.LambdaExpression:
		return "lambda"
	case *ast.StringLiteral, *ast.InterpolatedString:
		return "string"
	case *ast.MethodCallExpression:
		return "method call"
	case *ast.SpawnExpression:
		return "spawn"
	case *ast.ThrowStatement:
		return "throw"
	case *ast.StructStatement:
		return "struct"
	}
	return "this construct"
}
