package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
)

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *Environment) Object {
	cond := e.Eval(node.Condition, env)
	if isSignal(cond) {
		return cond
	}
	truthy, ok := isTruthy(cond)
	if !ok {
		return e.attachTrace(newError(TypeError, node.Token,
			"if condition must be a boolean, got %s", cond.Type()))
	}
	if truthy {
		return e.evalBlockStatement(node.Consequence, NewEnclosedEnvironment(env))
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return UNIT
}

// loopStep classifies the body result of one loop iteration.
type loopStep int

const (
	loopContinue loopStep = iota
	loopBreak
	loopPropagate
)

// absorbLoopSignal decides what a loop does with its body's result.
// Break and continue addressed to this loop (no label, or a matching
// label) are absorbed; everything else propagates.
func absorbLoopSignal(result Object, label string) (loopStep, Object) {
	switch sig := result.(type) {
	case *BreakSignal:
		if sig.Label == "" || sig.Label == label {
			return loopBreak, sig.Value
		}
		return loopPropagate, result
	case *ContinueSignal:
		if sig.Label == "" || sig.Label == label {
			return loopContinue, nil
		}
		return loopPropagate, result
	case *ReturnValue, *ThrowSignal, *Error:
		return loopPropagate, result
	}
	return loopContinue, nil
}

func (e *Evaluator) evalWhileExpression(node *ast.WhileExpression, env *Environment) Object {
	for {
		if err := e.checkpoint(node.Token); err != nil {
			return e.attachTrace(err)
		}
		cond := e.Eval(node.Condition, env)
		if isSignal(cond) {
			return cond
		}
		truthy, ok := isTruthy(cond)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token,
				"while condition must be a boolean, got %s", cond.Type()))
		}
		if !truthy {
			return UNIT
		}
		result := e.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
		step, out := absorbLoopSignal(result, "")
		if step == loopBreak {
			return out
		}
		if step == loopPropagate {
			return out
		}
	}
}

func (e *Evaluator) evalLoopExpression(node *ast.LoopExpression, env *Environment) Object {
	for {
		if err := e.checkpoint(node.Token); err != nil {
			return e.attachTrace(err)
		}
		result := e.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
		step, out := absorbLoopSignal(result, node.Label)
		if step == loopBreak {
			return out
		}
		if step == loopPropagate {
			return out
		}
	}
}

func (e *Evaluator) evalForExpression(node *ast.ForExpression, env *Environment) Object {
	iterable := e.Eval(node.Iterable, env)
	if isSignal(iterable) {
		return iterable
	}
	items, err := e.iterate(iterable, node)
	if err != nil {
		return err
	}
	for _, item := range items {
		if cerr := e.checkpoint(node.Token); cerr != nil {
			return e.attachTrace(cerr)
		}
		// Element bindings live in a fresh scope per iteration.
		iterEnv := NewEnclosedEnvironment(env)
		bindings := make(map[string]Object)
		if !e.matchPattern(node.Pattern, item, bindings) {
			return e.attachTrace(newError(PatternMismatch, node.Token,
				"loop pattern does not match element %s", item.Inspect()))
		}
		for name, val := range bindings {
			iterEnv.Define(name, val, false)
		}
		result := e.evalBlockStatement(node.Body, iterEnv)
		step, out := absorbLoopSignal(result, "")
		if step == loopBreak {
			return out
		}
		if step == loopPropagate {
			return out
		}
	}
	return UNIT
}

// iterate materializes the iteration sequence of a value: ranges count,
// lists and tuples walk elements, objects walk keys in insertion order,
// maps walk sorted entries as (key, value) tuples, strings walk chars.
func (e *Evaluator) iterate(obj Object, node *ast.ForExpression) ([]Object, Object) {
	switch o := obj.(type) {
	case *Range:
		items := make([]Object, 0, o.Len())
		end := o.End
		if o.Inclusive {
			end++
		}
		for i := o.Start; i < end; i++ {
			items = append(items, &Integer{Value: i})
		}
		e.countAlloc(int64(len(items)))
		return items, nil
	case *List:
		return o.Elements, nil
	case *Tuple:
		return o.Elements, nil
	case *Record:
		items := make([]Object, 0, len(o.Keys))
		for _, k := range o.Keys {
			items = append(items, &Str{Value: k})
		}
		return items, nil
	case *Map:
		pairs := o.SortedPairs()
		items := make([]Object, 0, len(pairs))
		for _, p := range pairs {
			items = append(items, &Tuple{Elements: []Object{p.Key, p.Value}})
		}
		return items, nil
	case *Set:
		return o.Sorted(), nil
	case *Str:
		items := make([]Object, 0, len(o.Value))
		for _, r := range o.Value {
			items = append(items, &Char{Value: r})
		}
		return items, nil
	}
	return nil, e.attachTrace(newError(TypeError, node.Token, "cannot iterate over %s", obj.Type()))
}

func (e *Evaluator) evalMatchExpression(node *ast.MatchExpression, env *Environment) Object {
	scrutinee := e.Eval(node.Scrutinee, env)
	if isSignal(scrutinee) {
		return scrutinee
	}
	for _, arm := range node.Arms {
		bindings := make(map[string]Object)
		if !e.matchPattern(arm.Pattern, scrutinee, bindings) {
			continue
		}
		armEnv := NewEnclosedEnvironment(env)
		for name, val := range bindings {
			armEnv.Define(name, val, false)
		}
		if arm.Guard != nil {
			guard := e.Eval(arm.Guard, armEnv)
			if isSignal(guard) {
				return guard
			}
			truthy, ok := isTruthy(guard)
			if !ok {
				return e.attachTrace(newError(TypeError, arm.Token,
					"match guard must be a boolean, got %s", guard.Type()))
			}
			if !truthy {
				continue
			}
		}
		return e.Eval(arm.Body, armEnv)
	}
	return e.attachTrace(newError(NonExhaustiveMatch, node.Token,
		"no pattern matches %s", scrutinee.Inspect()))
}

func (e *Evaluator) evalTryExpression(node *ast.TryExpression, env *Environment) Object {
	result := e.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
	result = e.handleCatches(node, result, env)

	if node.Finally != nil {
		finallyResult := e.evalBlockStatement(node.Finally, NewEnclosedEnvironment(env))
		// A failing finally replaces the pending result; a clean one
		// lets the original outcome (value or transfer) continue.
		if isSignal(finallyResult) {
			return finallyResult
		}
	}
	return result
}

// handleCatches routes a throw from the try body to the first matching
// catch clause. Only throws are absorbed; fatal errors and the other
// transfers pass through.
func (e *Evaluator) handleCatches(node *ast.TryExpression, result Object, env *Environment) Object {
	var thrown Object
	switch r := result.(type) {
	case *ThrowSignal:
		thrown = r.Value
	case *Error:
		if r.Kind.IsFatal() {
			return result
		}
		// Recoverable runtime errors surface as their message string, so
		// string patterns and guards treat them like thrown strings.
		thrown = &Str{Value: r.Message}
	default:
		return result
	}

	for _, clause := range node.Catches {
		bindings := make(map[string]Object)
		if !e.matchPattern(clause.Pattern, thrown, bindings) {
			continue
		}
		catchEnv := NewEnclosedEnvironment(env)
		for name, val := range bindings {
			catchEnv.Define(name, val, false)
		}
		if clause.Guard != nil {
			guard := e.Eval(clause.Guard, catchEnv)
			if isSignal(guard) {
				return guard
			}
			truthy, ok := isTruthy(guard)
			if !ok || !truthy {
				continue
			}
		}
		return e.evalBlockStatement(clause.Body, catchEnv)
	}
	return result
}
