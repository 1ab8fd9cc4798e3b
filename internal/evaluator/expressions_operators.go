package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/token"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	switch node.Operator {
	case "!":
		b, ok := right.(*Boolean)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "operator ! expects a boolean, got %s", right.Type()))
		}
		return nativeBool(!b.Value)
	case "-":
		switch r := right.(type) {
		case *Integer:
			return &Integer{Value: -r.Value}
		case *Float:
			return &Float{Value: -r.Value}
		}
		return e.attachTrace(newError(TypeError, node.Token, "operator - expects a number, got %s", right.Type()))
	}
	return e.attachTrace(newError(TypeError, node.Token, "unknown prefix operator %s", node.Operator))
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	// && and || short-circuit before the right operand evaluates.
	if node.Operator == "&&" || node.Operator == "||" {
		return e.evalLogicalExpression(node, env)
	}
	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	return e.applyBinaryOp(node.Operator, left, right, node.Token)
}

func (e *Evaluator) evalLogicalExpression(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	lb, ok := left.(*Boolean)
	if !ok {
		return e.attachTrace(newError(TypeError, node.Token,
			"operator %s expects booleans, got %s", node.Operator, left.Type()))
	}
	if node.Operator == "&&" && !lb.Value {
		return FALSE
	}
	if node.Operator == "||" && lb.Value {
		return TRUE
	}
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	rb, ok := right.(*Boolean)
	if !ok {
		return e.attachTrace(newError(TypeError, node.Token,
			"operator %s expects booleans, got %s", node.Operator, right.Type()))
	}
	return nativeBool(rb.Value)
}

// applyBinaryOp dispatches a binary operator over evaluated operands.
// Mixed integer/float arithmetic promotes to float; + with a string
// operand concatenates.
func (e *Evaluator) applyBinaryOp(op string, left, right Object, tok token.Token) Object {
	switch op {
	case "==":
		return nativeBool(objectsEqual(left, right))
	case "!=":
		return nativeBool(!objectsEqual(left, right))
	}

	if op == "+" {
		if ls, ok := left.(*Str); ok {
			e.countAlloc(1)
			return &Str{Value: ls.Value + inspectPlain(right)}
		}
		if rs, ok := right.(*Str); ok {
			e.countAlloc(1)
			return &Str{Value: inspectPlain(left) + rs.Value}
		}
	}

	li, lIsInt := left.(*Integer)
	ri, rIsInt := right.(*Integer)
	if lIsInt && rIsInt {
		return e.evalIntegerOp(op, li.Value, ri.Value, tok)
	}

	lf, lOk := toFloat(left)
	rf, rOk := toFloat(right)
	if lOk && rOk {
		return e.evalFloatOp(op, lf, rf, tok)
	}

	switch op {
	case "+":
		if ll, ok := left.(*List); ok {
			if rl, ok := right.(*List); ok {
				merged := make([]Object, 0, len(ll.Elements)+len(rl.Elements))
				merged = append(merged, ll.Elements...)
				merged = append(merged, rl.Elements...)
				e.countAlloc(int64(len(merged)))
				return &List{Elements: merged}
			}
		}
	case "<", ">", "<=", ">=":
		if ls, ok := left.(*Str); ok {
			if rs, ok := right.(*Str); ok {
				return compareOrdered(op, ls.Value, rs.Value)
			}
		}
		if lc, ok := left.(*Char); ok {
			if rc, ok := right.(*Char); ok {
				return compareOrdered(op, lc.Value, rc.Value)
			}
		}
	}

	return e.attachTrace(newError(TypeError, tok,
		"unsupported operands for %s: %s and %s", op, left.Type(), right.Type()))
}

func (e *Evaluator) evalIntegerOp(op string, l, r int64, tok token.Token) Object {
	switch op {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return e.attachTrace(newError(DivisionByZero, tok, "division by zero"))
		}
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return e.attachTrace(newError(DivisionByZero, tok, "modulo by zero"))
		}
		return &Integer{Value: l % r}
	case "&":
		return &Integer{Value: l & r}
	case "|":
		return &Integer{Value: l | r}
	case "^":
		return &Integer{Value: l ^ r}
	case "<<":
		return &Integer{Value: l << uint64(r)}
	case ">>":
		return &Integer{Value: l >> uint64(r)}
	case "<", ">", "<=", ">=":
		return compareOrdered(op, l, r)
	}
	return e.attachTrace(newError(TypeError, tok, "unknown integer operator %s", op))
}

func (e *Evaluator) evalFloatOp(op string, l, r float64, tok token.Token) Object {
	switch op {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		if r == 0 {
			return e.attachTrace(newError(DivisionByZero, tok, "division by zero"))
		}
		return &Float{Value: l / r}
	case "<", ">", "<=", ">=":
		return compareOrdered(op, l, r)
	}
	return e.attachTrace(newError(TypeError, tok, "unknown float operator %s", op))
}

func compareOrdered[T int64 | float64 | string | rune](op string, l, r T) *Boolean {
	switch op {
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	default:
		return nativeBool(l >= r)
	}
}

func toFloat(obj Object) (float64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return float64(o.Value), true
	case *Float:
		return o.Value, true
	}
	return 0, false
}

// inspectPlain renders a value for string concatenation: no quotes on
// strings or chars.
func inspectPlain(obj Object) string {
	switch o := obj.(type) {
	case *Str:
		return o.Value
	case *Char:
		return string(o.Value)
	}
	return obj.Inspect()
}
