package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/token"
)

func (e *Evaluator) evalLambdaExpression(node *ast.LambdaExpression, env *Environment) Object {
	variadic := len(node.Params) > 0 && node.Params[len(node.Params)-1].Variadic
	return &Function{
		Params:   node.Params,
		Body:     node.Body,
		Env:      env,
		Variadic: variadic,
	}
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	// Enum constructor call: Shape::Circle(2.5) or bare Some(x).
	if path, ok := node.Function.(*ast.PathExpression); ok && len(path.Segments) == 2 {
		if decl, ok := e.enums[path.Segments[0]]; ok {
			return e.constructVariant(decl, path.Segments[1], node, env)
		}
	}

	callee := e.Eval(node.Function, env)
	if isSignal(callee) {
		return callee
	}

	args := make([]Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		val := e.Eval(a, env)
		if isSignal(val) {
			return val
		}
		args = append(args, val)
	}

	return e.applyFunction(callee, args, node.Token)
}

func (e *Evaluator) constructVariant(decl *ast.EnumStatement, variant string, node *ast.CallExpression, env *Environment) Object {
	for _, v := range decl.Variants {
		if v.Name != variant {
			continue
		}
		if len(node.Arguments) != len(v.Params) {
			return e.attachTrace(newError(ArityError, node.Token,
				"%s::%s expects %d arguments, got %d", decl.Name.Value, variant, len(v.Params), len(node.Arguments)))
		}
		values := make([]Object, 0, len(node.Arguments))
		for _, a := range node.Arguments {
			val := e.Eval(a, env)
			if isSignal(val) {
				return val
			}
			values = append(values, val)
		}
		return &EnumVariant{EnumName: decl.Name.Value, Variant: variant, Values: values}
	}
	return e.attachTrace(newError(UnboundVariable, node.Token,
		"enum %s has no variant %s", decl.Name.Value, variant))
}

// applyFunction invokes a callable with evaluated arguments. Calls
// absorb the return transfer; everything else propagates.
func (e *Evaluator) applyFunction(callee Object, args []Object, tok token.Token) Object {
	if err := e.checkpoint(tok); err != nil {
		return e.attachTrace(err)
	}

	switch fn := callee.(type) {
	case *Function:
		return e.applyClosure(fn, args, tok)
	case *Builtin:
		if err := e.checkBuiltinArity(fn, len(args), tok); err != nil {
			return err
		}
		return fn.Fn(e, args...)
	case *BoundMethod:
		return fn.Fn(e, append([]Object{fn.Receiver}, args...)...)
	}
	return e.attachTrace(newError(TypeError, tok, "%s is not callable", callee.Type()))
}

func (e *Evaluator) checkBuiltinArity(fn *Builtin, got int, tok token.Token) Object {
	if fn.Arity >= 0 && got != fn.Arity {
		return e.attachTrace(newError(ArityError, tok,
			"%s expects %d arguments, got %d", fn.Name, fn.Arity, got))
	}
	if fn.Arity < 0 && got < fn.MinArity {
		return e.attachTrace(newError(ArityError, tok,
			"%s expects at least %d arguments, got %d", fn.Name, fn.MinArity, got))
	}
	return nil
}

func (e *Evaluator) applyClosure(fn *Function, args []Object, tok token.Token) Object {
	fixed := len(fn.Params)
	if fn.Variadic {
		fixed--
		if len(args) < fixed {
			return e.attachTrace(newError(ArityError, tok,
				"%s expects at least %d arguments, got %d", fnName(fn), fixed, len(args)))
		}
	} else if len(args) != fixed {
		return e.attachTrace(newError(ArityError, tok,
			"%s expects %d arguments, got %d", fnName(fn), fixed, len(args)))
	}

	callEnv := NewEnclosedEnvironment(fn.Env)
	for i := 0; i < fixed; i++ {
		callEnv.Define(fn.Params[i].Name, args[i], false)
	}
	if fn.Variadic {
		rest := append([]Object(nil), args[fixed:]...)
		callEnv.Define(fn.Params[fixed].Name, &List{Elements: rest}, false)
	}

	e.pushFrame(fnName(fn), token.SpanOf(tok))
	defer e.popFrame()

	result := e.Eval(fn.Body, callEnv)
	switch r := result.(type) {
	case *ReturnValue:
		return r.Value
	case *BreakSignal, *ContinueSignal:
		return e.attachTrace(newError(TypeError, tok, "break or continue crossed a function boundary"))
	}
	return result
}

func fnName(fn *Function) string {
	if fn.Name == "" {
		return "lambda"
	}
	return fn.Name
}

func (e *Evaluator) evalMethodCall(node *ast.MethodCallExpression, env *Environment) Object {
	recv := e.Eval(node.Receiver, env)
	if isSignal(recv) {
		return recv
	}
	args := make([]Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		val := e.Eval(a, env)
		if isSignal(val) {
			return val
		}
		args = append(args, val)
	}
	return e.dispatchMethod(recv, node.Method, args, node.Token)
}

func (e *Evaluator) evalFieldAccess(node *ast.FieldAccessExpression, env *Environment) Object {
	recv := e.Eval(node.Receiver, env)
	if isSignal(recv) {
		return recv
	}
	switch r := recv.(type) {
	case *Record:
		if val, ok := r.Get(node.Field); ok {
			return val
		}
		return e.attachTrace(newError(KeyNotFound, node.Token,
			"%s has no field '%s'", recordName(r), node.Field))
	case *Tuple:
		// Positional access (t.0, t.1) never reaches here: the lexer only
		// produces IDENT after a dot, so tuples use index syntax instead.
	}
	return e.attachTrace(newError(TypeError, node.Token,
		"cannot access field '%s' on %s", node.Field, recv.Type()))
}

func recordName(r *Record) string {
	if r.TypeName != "" {
		return r.TypeName
	}
	return "object"
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	recv := e.Eval(node.Receiver, env)
	if isSignal(recv) {
		return recv
	}
	idx := e.Eval(node.Index, env)
	if isSignal(idx) {
		return idx
	}

	switch r := recv.(type) {
	case *List:
		return e.indexSequence(r.Elements, idx, node.Token)
	case *Tuple:
		return e.indexSequence(r.Elements, idx, node.Token)
	case *Str:
		i, ok := idx.(*Integer)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "string index must be an integer"))
		}
		runes := []rune(r.Value)
		n := i.Value
		if n < 0 {
			n += int64(len(runes))
		}
		if n < 0 || n >= int64(len(runes)) {
			return e.attachTrace(newError(IndexOutOfBounds, node.Token,
				"index %d out of bounds for string of length %d", i.Value, len(runes)))
		}
		return &Char{Value: runes[n]}
	case *Map:
		key, ok := idx.(Hashable)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "unhashable map key: %s", idx.Type()))
		}
		if val, ok := r.Get(key); ok {
			return val
		}
		return e.attachTrace(newError(KeyNotFound, node.Token, "key %s not found", idx.Inspect()))
	case *Record:
		key, ok := idx.(*Str)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "object index must be a string"))
		}
		if val, ok := r.Get(key.Value); ok {
			return val
		}
		return e.attachTrace(newError(KeyNotFound, node.Token, "key %q not found", key.Value))
	}
	return e.attachTrace(newError(TypeError, node.Token, "cannot index %s", recv.Type()))
}

func (e *Evaluator) indexSequence(elements []Object, idx Object, tok token.Token) Object {
	i, ok := idx.(*Integer)
	if !ok {
		return e.attachTrace(newError(TypeError, tok, "index must be an integer, got %s", idx.Type()))
	}
	n := i.Value
	if n < 0 {
		n += int64(len(elements))
	}
	if n < 0 || n >= int64(len(elements)) {
		return e.attachTrace(newError(IndexOutOfBounds, tok,
			"index %d out of bounds for length %d", i.Value, len(elements)))
	}
	return elements[n]
}

func (e *Evaluator) evalSliceExpression(node *ast.SliceExpression, env *Environment) Object {
	recv := e.Eval(node.Receiver, env)
	if isSignal(recv) {
		return recv
	}

	resolve := func(expr ast.Expression, fallback int64) (int64, Object) {
		if expr == nil {
			return fallback, nil
		}
		val := e.Eval(expr, env)
		if isSignal(val) {
			return 0, val
		}
		i, ok := val.(*Integer)
		if !ok {
			return 0, e.attachTrace(newError(TypeError, node.Token, "slice bound must be an integer"))
		}
		return i.Value, nil
	}

	slice := func(length int64) (int64, int64, Object) {
		start, sig := resolve(node.Start, 0)
		if sig != nil {
			return 0, 0, sig
		}
		end, sig := resolve(node.End, length)
		if sig != nil {
			return 0, 0, sig
		}
		if node.Inclusive && node.End != nil {
			end++
		}
		if start < 0 {
			start += length
		}
		if end < 0 {
			end += length
		}
		if start < 0 || end > length || start > end {
			return 0, 0, e.attachTrace(newError(IndexOutOfBounds, node.Token,
				"slice [%d..%d] out of bounds for length %d", start, end, length))
		}
		return start, end, nil
	}

	switch r := recv.(type) {
	case *List:
		start, end, sig := slice(int64(len(r.Elements)))
		if sig != nil {
			return sig
		}
		out := append([]Object(nil), r.Elements[start:end]...)
		e.countAlloc(int64(len(out)))
		return &List{Elements: out}
	case *Str:
		runes := []rune(r.Value)
		start, end, sig := slice(int64(len(runes)))
		if sig != nil {
			return sig
		}
		e.countAlloc(1)
		return &Str{Value: string(runes[start:end])}
	}
	return e.attachTrace(newError(TypeError, node.Token, "cannot slice %s", recv.Type()))
}

func (e *Evaluator) evalAwaitExpression(node *ast.AwaitExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	if fut, ok := val.(*Future); ok {
		return fut.Value
	}
	// Awaiting a settled value is a no-op.
	return val
}

func (e *Evaluator) evalAsyncExpression(node *ast.AsyncExpression, env *Environment) Object {
	// Cooperative runtime: async blocks run eagerly and produce a
	// resolved future.
	result := e.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
	if isSignal(result) {
		if rv, ok := result.(*ReturnValue); ok {
			return &Future{Value: rv.Value}
		}
		return result
	}
	return &Future{Value: result}
}
