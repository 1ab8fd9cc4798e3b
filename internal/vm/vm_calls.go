package vm

import (
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/token"
)

// call dispatches a Call instruction. VM closures get a new frame; every
// other callable (builtins, evaluator closures that crossed over through
// hybrid results) goes through the shared evaluator.
func (vm *VM) call(argc int, tok token.Token) (bool, evaluator.Object) {
	callee := vm.peek(argc)

	if closure, ok := callee.(*Closure); ok {
		if argc != closure.Proto.Arity {
			return vm.raise(errorObject(evaluator.ArityError, tok,
				"%s expects %d arguments, got %d", closure.Proto.Name, closure.Proto.Arity, argc))
		}
		vm.frames = append(vm.frames, frame{
			closure: closure,
			base:    len(vm.stack) - argc,
		})
		return false, nil
	}

	args := make([]evaluator.Object, argc)
	copy(args, vm.stack[len(vm.stack)-argc:])
	vm.stack = vm.stack[:len(vm.stack)-argc-1]
	result := vm.eval.Apply(callee, args)
	switch r := result.(type) {
	case *evaluator.Error:
		return vm.raise(r)
	case *evaluator.ThrowSignal:
		return vm.raiseThrow(r.Value, tok)
	}
	vm.push(result)
	return false, nil
}

// tailCall reuses the current frame instead of pushing a new one, keeping
// self-recursive and mutually recursive calls at constant stack depth.
func (vm *VM) tailCall(argc int, tok token.Token) (bool, evaluator.Object) {
	callee := vm.peek(argc)

	closure, ok := callee.(*Closure)
	if !ok {
		// Not a VM closure; complete the call and return its result.
		if done, result := vm.call(argc, tok); done {
			return true, result
		}
		return vm.returnTop()
	}
	if argc != closure.Proto.Arity {
		return vm.raise(errorObject(evaluator.ArityError, tok,
			"%s expects %d arguments, got %d", closure.Proto.Name, closure.Proto.Arity, argc))
	}

	f := &vm.frames[len(vm.frames)-1]
	if len(vm.frames) == 1 {
		// Root frame has no caller to return into; fall back to a
		// regular call frame.
		vm.frames = append(vm.frames, frame{closure: closure, base: len(vm.stack) - argc})
		return false, nil
	}
	args := vm.stack[len(vm.stack)-argc:]
	copy(vm.stack[f.base:], args)
	vm.stack = vm.stack[:f.base+argc]
	f.closure = closure
	f.ip = 0
	return false, nil
}

// returnTop performs the Return sequence with the result already on top.
func (vm *VM) returnTop() (bool, evaluator.Object) {
	f := &vm.frames[len(vm.frames)-1]
	result := vm.pop()
	if len(vm.frames) == 1 {
		return true, result
	}
	vm.stack = vm.stack[:f.base-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.push(result)
	return false, nil
}

// raise routes a runtime error to the innermost try handler. Fatal kinds
// skip every handler, matching the evaluator's catch semantics; the
// handler receives the error message as a string.
func (vm *VM) raise(err *evaluator.Error) (bool, evaluator.Object) {
	if err.Kind.IsFatal() || len(vm.tries) == 0 {
		return true, err
	}
	vm.unwindTo(&evaluator.Str{Value: err.Message})
	return false, nil
}

// raiseThrow routes a thrown value to the innermost try handler; the
// handler receives the value itself. Without a handler the throw becomes
// an uncaught-throw error.
func (vm *VM) raiseThrow(value evaluator.Object, tok token.Token) (bool, evaluator.Object) {
	if len(vm.tries) == 0 {
		return true, errorObject(evaluator.UserThrow, tok, "uncaught throw: %s", value.Inspect())
	}
	vm.unwindTo(value)
	return false, nil
}

func (vm *VM) unwindTo(payload evaluator.Object) {
	h := vm.tries[len(vm.tries)-1]
	vm.tries = vm.tries[:len(vm.tries)-1]
	vm.frames = vm.frames[:h.frameIdx+1]
	vm.frames[h.frameIdx].ip = h.target
	vm.stack = vm.stack[:h.sp]
	vm.push(payload)
}

// runHybrid executes a For/MethodCall/Match instruction by materializing
// the live frame slots into an environment, delegating the node to the
// evaluator, and writing mutations back into the slots.
func (vm *VM) runHybrid(ref HybridRef, f *frame, tok token.Token) (bool, evaluator.Object) {
	env := evaluator.NewEnclosedEnvironment(vm.eval.GlobalEnv)
	for i, name := range f.closure.Proto.UpvalueNames {
		env.Define(name, f.closure.Upvalues[i], true)
	}
	live := len(vm.stack) - f.base
	for i, name := range ref.Locals {
		if i >= live {
			break
		}
		env.Define(name, vm.stack[f.base+i], true)
	}

	result := vm.eval.Eval(ref.Node, env)

	for i, name := range f.closure.Proto.UpvalueNames {
		if val, ok := env.Get(name); ok {
			f.closure.Upvalues[i] = val
		}
	}
	for i, name := range ref.Locals {
		if i >= live {
			break
		}
		if val, ok := env.Get(name); ok {
			vm.stack[f.base+i] = val
		}
	}

	switch r := result.(type) {
	case *evaluator.Error:
		return vm.raise(r)
	case *evaluator.ThrowSignal:
		return vm.raiseThrow(r.Value, tok)
	case *evaluator.ReturnValue:
		vm.push(r.Value)
		return vm.returnTop()
	case *evaluator.BreakSignal, *evaluator.ContinueSignal:
		return vm.raise(errorObject(evaluator.TypeError, tok, "break or continue outside a loop"))
	}
	vm.push(result)
	return false, nil
}
