package evaluator

import (
	"sort"
	"time"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
	"github.com/ruvylang/ruvy/internal/token"
)

// Parse turns source text into a program, surfacing the first
// diagnostic as an Error object.
func Parse(source string) (*ast.Program, Object) {
	p := parser.New(lexer.Tokenize(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		first := errs[0]
		return nil, &Error{
			Kind:    TypeError,
			Message: first.Error(),
			Line:    first.Token.Line,
			Column:  first.Token.Column,
		}
	}
	return program, nil
}

// EvalSource parses and evaluates source in the global environment.
func (e *Evaluator) EvalSource(source string) Object {
	program, perr := Parse(source)
	if perr != nil {
		return perr
	}
	return e.Eval(program, e.GlobalEnv)
}

// EvalBounded evaluates source under a wall-clock timeout and a coarse
// allocation limit. Bounds are checked at loop back-edges, call entry
// and message dispatch; zero disables a bound.
func (e *Evaluator) EvalBounded(source string, allocLimit int64, timeout time.Duration) Object {
	if timeout > 0 {
		e.deadline = time.Now().Add(timeout)
	}
	e.allocLimit = allocLimit
	e.allocCount = 0
	defer func() {
		e.deadline = time.Time{}
		e.allocLimit = 0
	}()
	return e.EvalSource(source)
}

// EvalTransactional evaluates source against a snapshot of the global
// scope chain. On any failure the snapshot is restored, so a failed
// evaluation leaves no observable binding changes. finally blocks still
// run inside the failed transaction; their external side effects are
// not rolled back.
func (e *Evaluator) EvalTransactional(source string) Object {
	snap := e.GlobalEnv.Snapshot()
	result := e.EvalSource(source)
	if isFailure(result) {
		snap.Restore()
	}
	return result
}

// EvalNodeTransactional is the AST-level variant used by the REPL.
func (e *Evaluator) EvalNodeTransactional(node ast.Node, env *Environment) Object {
	snap := env.Snapshot()
	result := e.Eval(node, env)
	if isFailure(result) {
		snap.Restore()
	}
	return result
}

func isFailure(obj Object) bool {
	switch obj.(type) {
	case *Error, *ThrowSignal:
		return true
	}
	return false
}

// Checkpoint captures the global environment for later restoration.
// Restoration is idempotent.
func (e *Evaluator) Checkpoint() *Snapshot {
	return e.GlobalEnv.Snapshot()
}

// Apply invokes a callable object with already-evaluated arguments. It is
// the entry point for backends that hold closures outside an eval tree.
func (e *Evaluator) Apply(fn Object, args []Object) Object {
	return e.applyFunction(fn, args, token.Token{})
}

// TypeNames lists the declared struct and enum names, sorted.
func (e *Evaluator) TypeNames() []string {
	names := make([]string, 0, len(e.structs)+len(e.enums))
	for name := range e.structs {
		names = append(names, name)
	}
	for name := range e.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// errorAt builds an Error for callers outside the eval loop.
func errorAt(kind ErrorKind, tok token.Token, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Line: tok.Line, Column: tok.Column}
}
