// Package ruvy embeds the Ruvy interpreter in a Go program: evaluate
// source, exchange values across the language boundary and expose Go
// functions as builtins.
package ruvy

import (
	"fmt"
	"reflect"

	"github.com/ruvylang/ruvy/internal/evaluator"
)

// Engine wraps an interpreter instance with a marshalling layer. One
// Engine holds one global scope; it is not safe for concurrent use.
type Engine struct {
	eval *evaluator.Evaluator
}

func New() *Engine {
	return &Engine{eval: evaluator.New()}
}

// Eval runs source and returns the result converted to a Go value.
// Script errors and uncaught throws come back as Go errors.
func (e *Engine) Eval(source string) (interface{}, error) {
	obj, err := e.EvalObject(source)
	if err != nil {
		return nil, err
	}
	return FromObject(obj)
}

// EvalObject runs source and returns the raw interpreter object.
func (e *Engine) EvalObject(source string) (evaluator.Object, error) {
	result := e.eval.EvalSource(source)
	switch r := result.(type) {
	case *evaluator.Error:
		return nil, fmt.Errorf("%s", r.Inspect())
	case *evaluator.ThrowSignal:
		return nil, fmt.Errorf("uncaught throw: %s", r.Value.Inspect())
	}
	return result, nil
}

// Define binds a Go value as a global, converted on the way in.
func (e *Engine) Define(name string, value interface{}) error {
	obj, err := ToObject(value)
	if err != nil {
		return fmt.Errorf("define %s: %w", name, err)
	}
	e.eval.GlobalEnv.Define(name, obj, true)
	return nil
}

// Get reads a global binding back as a Go value.
func (e *Engine) Get(name string) (interface{}, error) {
	obj, ok := e.eval.GlobalEnv.Get(name)
	if !ok {
		return nil, fmt.Errorf("'%s' is not bound", name)
	}
	return FromObject(obj)
}

// Call invokes a script function by name with Go arguments.
func (e *Engine) Call(name string, args ...interface{}) (interface{}, error) {
	fn, ok := e.eval.GlobalEnv.Get(name)
	if !ok {
		return nil, fmt.Errorf("'%s' is not bound", name)
	}
	objArgs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := ToObject(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		objArgs[i] = obj
	}
	result := e.eval.Apply(fn, objArgs)
	switch r := result.(type) {
	case *evaluator.Error:
		return nil, fmt.Errorf("%s", r.Inspect())
	case *evaluator.ThrowSignal:
		return nil, fmt.Errorf("uncaught throw: %s", r.Value.Inspect())
	}
	return FromObject(result)
}

// Bind exposes a Go function to scripts. The function's arguments and
// its first return value are converted automatically; an optional
// trailing error return surfaces as a script error.
func (e *Engine) Bind(name string, fn interface{}) error {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return fmt.Errorf("bind %s: not a function", name)
	}
	if t.NumOut() > 2 {
		return fmt.Errorf("bind %s: at most two return values supported", name)
	}
	if t.NumOut() == 2 && t.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
		return fmt.Errorf("bind %s: second return value must be error", name)
	}

	arity := t.NumIn()
	if t.IsVariadic() {
		arity = -1
	}
	builtin := &evaluator.Builtin{
		Name:  name,
		Arity: arity,
		Fn: func(_ *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
			return callGoFunc(name, v, args)
		},
	}
	e.eval.GlobalEnv.Define(name, builtin, false)
	return nil
}

func callGoFunc(name string, fn reflect.Value, args []evaluator.Object) evaluator.Object {
	t := fn.Type()
	numIn := t.NumIn()
	if t.IsVariadic() {
		if len(args) < numIn-1 {
			return hostError("%s expects at least %d arguments, got %d", name, numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return hostError("%s expects %d arguments, got %d", name, numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if t.IsVariadic() && i >= numIn-1 {
			want = t.In(numIn - 1).Elem()
		} else {
			want = t.In(i)
		}
		goVal, err := FromObject(arg)
		if err != nil {
			return hostError("%s argument %d: %s", name, i, err)
		}
		rv, err := coerce(goVal, want)
		if err != nil {
			return hostError("%s argument %d: %s", name, i, err)
		}
		in[i] = rv
	}

	out := fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return hostError("%s: %s", name, out[1].Interface().(error))
	}
	if len(out) == 0 {
		return evaluator.UNIT
	}
	obj, err := ToObject(out[0].Interface())
	if err != nil {
		return hostError("%s return value: %s", name, err)
	}
	return obj
}

func coerce(val interface{}, want reflect.Type) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), want)
}

func hostError(format string, a ...interface{}) *evaluator.Error {
	return &evaluator.Error{
		Kind:    evaluator.TypeError,
		Message: fmt.Sprintf(format, a...),
	}
}
