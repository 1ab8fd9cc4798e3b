package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
)

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	env.Define(node.Name.Value, val, node.Mutable)
	e.countAlloc(1)
	return UNIT
}

func (e *Evaluator) evalLetPatternStatement(node *ast.LetPatternStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	bindings := make(map[string]Object)
	if !e.matchPattern(node.Pattern, val, bindings) {
		return e.attachTrace(newError(PatternMismatch, node.Token,
			"cannot destructure %s into the given pattern", val.Type()))
	}
	for name, bound := range bindings {
		env.Define(name, bound, false)
	}
	e.countAlloc(int64(len(bindings)))
	return UNIT
}

func (e *Evaluator) evalConstStatement(node *ast.ConstStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	env.Define(node.Name.Value, val, false)
	return UNIT
}

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	return e.assignTo(node.Target, val, env)
}

// assignTo mutates the place a target expression names: a binding, a
// record field, or a list/map index.
func (e *Evaluator) assignTo(target ast.Expression, val Object, env *Environment) Object {
	switch t := target.(type) {
	case *ast.Identifier:
		switch env.Assign(t.Value, val) {
		case AssignOK:
			return UNIT
		case AssignImmutable:
			return e.attachTrace(newError(AssignToImmutable, t.Token,
				"cannot assign to immutable binding '%s'", t.Value))
		default:
			return e.attachTrace(newError(UnboundVariable, t.Token,
				"assignment to undefined variable '%s'", t.Value))
		}
	case *ast.FieldAccessExpression:
		recv := e.Eval(t.Receiver, env)
		if isSignal(recv) {
			return recv
		}
		rec, ok := recv.(*Record)
		if !ok {
			return e.attachTrace(newError(TypeError, t.Token,
				"cannot assign field '%s' on %s", t.Field, recv.Type()))
		}
		rec.Set(t.Field, val)
		return UNIT
	case *ast.IndexExpression:
		recv := e.Eval(t.Receiver, env)
		if isSignal(recv) {
			return recv
		}
		idx := e.Eval(t.Index, env)
		if isSignal(idx) {
			return idx
		}
		return e.assignIndex(t, recv, idx, val)
	}
	return e.attachTrace(newError(TypeError, target.GetToken(), "invalid assignment target"))
}

func (e *Evaluator) assignIndex(node *ast.IndexExpression, recv, idx, val Object) Object {
	switch r := recv.(type) {
	case *List:
		i, ok := idx.(*Integer)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "list index must be an integer"))
		}
		n := i.Value
		if n < 0 {
			n += int64(len(r.Elements))
		}
		if n < 0 || n >= int64(len(r.Elements)) {
			return e.attachTrace(newError(IndexOutOfBounds, node.Token,
				"index %d out of bounds for list of length %d", i.Value, len(r.Elements)))
		}
		r.Elements[n] = val
		return UNIT
	case *Map:
		key, ok := idx.(Hashable)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "unhashable map key: %s", idx.Type()))
		}
		r.Set(key, val)
		return UNIT
	case *Record:
		key, ok := idx.(*Str)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "object index must be a string"))
		}
		r.Set(key.Value, val)
		return UNIT
	}
	return e.attachTrace(newError(TypeError, node.Token, "cannot index-assign into %s", recv.Type()))
}

func (e *Evaluator) evalCompoundAssign(node *ast.CompoundAssignStatement, env *Environment) Object {
	current := e.Eval(node.Target, env)
	if isSignal(current) {
		return current
	}
	operand := e.Eval(node.Value, env)
	if isSignal(operand) {
		return operand
	}
	op := node.Op[:len(node.Op)-1] // "+=" -> "+"
	result := e.applyBinaryOp(op, current, operand, node.Token)
	if isSignal(result) {
		return result
	}
	return e.assignTo(node.Target, result, env)
}

func (e *Evaluator) evalIncDec(node *ast.IncDecStatement, env *Environment) Object {
	current := e.Eval(node.Target, env)
	if isSignal(current) {
		return current
	}
	op := "+"
	if node.Op == "--" {
		op = "-"
	}
	result := e.applyBinaryOp(op, current, &Integer{Value: 1}, node.Token)
	if isSignal(result) {
		return result
	}
	return e.assignTo(node.Target, result, env)
}

func (e *Evaluator) evalFunctionStatement(node *ast.FunctionStatement, env *Environment) Object {
	fn := &Function{
		Name:     node.Name.Value,
		Params:   node.Params,
		Body:     node.Body,
		Env:      env,
		IsAsync:  node.Async,
		Variadic: node.Variadic(),
		Doc:      node.DocComment,
	}
	// The closure captures the scope it is defined in; recursion is a
	// lookup by name through that shared scope, not a value capture.
	env.Define(fn.Name, fn, false)
	return UNIT
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.Value == nil {
		return &ReturnValue{Value: UNIT}
	}
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func (e *Evaluator) evalBreakStatement(node *ast.BreakStatement, env *Environment) Object {
	sig := &BreakSignal{Label: node.Label, Value: UNIT}
	if node.Value != nil {
		val := e.Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
		sig.Value = val
	}
	return sig
}

func (e *Evaluator) evalThrowStatement(node *ast.ThrowStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	return &ThrowSignal{Value: val}
}

func (e *Evaluator) evalEnumStatement(node *ast.EnumStatement, env *Environment) Object {
	e.enums[node.Name.Value] = node
	// Nullary variants are usable as bare values.
	for _, v := range node.Variants {
		if len(v.Params) == 0 {
			env.Define(v.Name, &EnumVariant{EnumName: node.Name.Value, Variant: v.Name}, false)
		}
	}
	return UNIT
}
