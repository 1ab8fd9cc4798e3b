package evaluator

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ruvylang/ruvy/internal/ast"
)

// Function is a closure: parameters, a body, and the environment it was
// defined in. Name is empty for lambdas.
type Function struct {
	Name     string
	Params   []*ast.Param
	Body     ast.Node // *ast.BlockStatement for fun, ast.Expression for lambdas
	Env      *Environment
	IsAsync  bool
	Variadic bool
	Doc      string
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name
		if p.Variadic {
			params[i] = "..." + p.Name
		}
	}
	name := f.Name
	if name == "" {
		return "|" + strings.Join(params, ", ") + "| <lambda>"
	}
	return "fun " + name + "(" + strings.Join(params, ", ") + ")"
}

// BuiltinFunction is the Go-side signature of a builtin.
type BuiltinFunction func(e *Evaluator, args ...Object) Object

// Builtin wraps a host function exposed to programs.
type Builtin struct {
	Name     string
	Fn       BuiltinFunction
	Arity    int  // -1 for variadic
	MinArity int  // used when Arity == -1
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// BoundMethod pairs a receiver with one of its type's methods.
type BoundMethod struct {
	Receiver Object
	Name     string
	Fn       BuiltinFunction
}

func (bm *BoundMethod) Type() ObjectType { return BOUND_METHOD_OBJ }
func (bm *BoundMethod) Inspect() string  { return "method " + bm.Name }

// ActorHandle is the opaque reference a spawn returns. Only the runtime
// can dereference it.
type ActorHandle struct {
	ID       uuid.UUID
	TypeName string
}

func (ah *ActorHandle) Type() ObjectType { return ACTOR_HANDLE_OBJ }
func (ah *ActorHandle) Inspect() string {
	return "actor " + ah.TypeName + "<" + ah.ID.String()[:8] + ">"
}
func (ah *ActorHandle) HashKey() uint32 { return hashString(ah.ID.String()) }

// Future is the result of an async block. The cooperative runtime
// evaluates async blocks eagerly, so a future is always resolved.
type Future struct {
	Value Object
}

func (f *Future) Type() ObjectType { return FUTURE_OBJ }
func (f *Future) Inspect() string  { return "future(" + f.Value.Inspect() + ")" }
