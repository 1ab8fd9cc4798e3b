package vm

import (
	"fmt"

	"github.com/ruvylang/ruvy/internal/evaluator"
)

const (
	PROTO_OBJ   = "PROTO"
	CLOSURE_OBJ = "CLOSURE"
)

// FunctionProto is a compiled function body. It lives in the constant pool
// of the enclosing chunk; NewClosure instantiates it.
type FunctionProto struct {
	Name  string
	Arity int
	Chunk *Chunk

	// LocalNames maps frame slots to source names, in slot order. The
	// hybrid instructions use it to materialize an environment for the
	// evaluator and to write mutations back into the frame.
	LocalNames []string

	// UpvalueNames mirrors the closure's upvalue list so hybrid
	// instructions can expose captured bindings too.
	UpvalueNames []string
}

func (p *FunctionProto) Type() evaluator.ObjectType { return PROTO_OBJ }
func (p *FunctionProto) Inspect() string {
	if p.Name == "" {
		return "<proto>"
	}
	return fmt.Sprintf("<proto %s/%d>", p.Name, p.Arity)
}

// Closure is a proto bound to its captured upvalues.
type Closure struct {
	Proto    *FunctionProto
	Upvalues []evaluator.Object
}

func (c *Closure) Type() evaluator.ObjectType { return CLOSURE_OBJ }
func (c *Closure) Inspect() string {
	if c.Proto.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", c.Proto.Name)
}
