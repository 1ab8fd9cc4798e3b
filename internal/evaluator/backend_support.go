package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/token"
)

// Value-level entry points for the bytecode backend. They share the exact
// operator, indexing and field semantics of the tree-walk evaluator so the
// two backends cannot drift apart.

// BinaryOp applies an infix operator to two evaluated operands.
func (e *Evaluator) BinaryOp(op string, left, right Object, tok token.Token) Object {
	return e.applyBinaryOp(op, left, right, tok)
}

// PrefixOp applies a prefix operator to an evaluated operand.
func (e *Evaluator) PrefixOp(op string, operand Object, tok token.Token) Object {
	switch op {
	case "!":
		b, ok := operand.(*Boolean)
		if !ok {
			return e.attachTrace(newError(TypeError, tok, "operator ! expects a boolean, got %s", operand.Type()))
		}
		return nativeBool(!b.Value)
	case "-":
		switch v := operand.(type) {
		case *Integer:
			return &Integer{Value: -v.Value}
		case *Float:
			return &Float{Value: -v.Value}
		}
		return e.attachTrace(newError(TypeError, tok, "operator - expects a number, got %s", operand.Type()))
	case "~":
		v, ok := operand.(*Integer)
		if !ok {
			return e.attachTrace(newError(TypeError, tok, "operator ~ expects an integer, got %s", operand.Type()))
		}
		return &Integer{Value: ^v.Value}
	}
	return e.attachTrace(newError(TypeError, tok, "unknown prefix operator %s", op))
}

// IndexGet indexes an evaluated receiver with an evaluated index.
func (e *Evaluator) IndexGet(recv, idx Object, tok token.Token) Object {
	switch r := recv.(type) {
	case *List:
		return e.indexSequence(r.Elements, idx, tok)
	case *Tuple:
		return e.indexSequence(r.Elements, idx, tok)
	case *Str:
		i, ok := idx.(*Integer)
		if !ok {
			return e.attachTrace(newError(TypeError, tok, "string index must be an integer"))
		}
		runes := []rune(r.Value)
		n := i.Value
		if n < 0 {
			n += int64(len(runes))
		}
		if n < 0 || n >= int64(len(runes)) {
			return e.attachTrace(newError(IndexOutOfBounds, tok,
				"index %d out of bounds for string of length %d", i.Value, len(runes)))
		}
		return &Char{Value: runes[n]}
	case *Map:
		key, ok := idx.(Hashable)
		if !ok {
			return e.attachTrace(newError(TypeError, tok, "unhashable map key: %s", idx.Type()))
		}
		if val, ok := r.Get(key); ok {
			return val
		}
		return e.attachTrace(newError(KeyNotFound, tok, "key %s not found", idx.Inspect()))
	case *Record:
		key, ok := idx.(*Str)
		if !ok {
			return e.attachTrace(newError(TypeError, tok, "object index must be a string"))
		}
		if val, ok := r.Get(key.Value); ok {
			return val
		}
		return e.attachTrace(newError(KeyNotFound, tok, "key %q not found", key.Value))
	}
	return e.attachTrace(newError(TypeError, tok, "cannot index %s", recv.Type()))
}

// IndexSet stores into an evaluated receiver at an evaluated index.
func (e *Evaluator) IndexSet(recv, idx, val Object, tok token.Token) Object {
	return e.assignIndex(&ast.IndexExpression{Token: tok}, recv, idx, val)
}

// FieldGet reads a named field from an evaluated receiver.
func (e *Evaluator) FieldGet(recv Object, field string, tok token.Token) Object {
	rec, ok := recv.(*Record)
	if !ok {
		return e.attachTrace(newError(TypeError, tok,
			"cannot access field '%s' on %s", field, recv.Type()))
	}
	if val, ok := rec.Get(field); ok {
		return val
	}
	return e.attachTrace(newError(KeyNotFound, tok, "%s has no field '%s'", recordName(rec), field))
}

// FieldSet writes a named field on an evaluated receiver.
func (e *Evaluator) FieldSet(recv Object, field string, val Object, tok token.Token) Object {
	rec, ok := recv.(*Record)
	if !ok {
		return e.attachTrace(newError(TypeError, tok,
			"cannot assign field '%s' on %s", field, recv.Type()))
	}
	rec.Set(field, val)
	return UNIT
}

// NewRuntimeError builds a positioned runtime error for another backend.
func NewRuntimeError(kind ErrorKind, tok token.Token, format string, args ...interface{}) *Error {
	return newError(kind, tok, format, args...)
}

// Truthy reports whether an object is usable as a condition. Only
// booleans are; ok is false for everything else.
func Truthy(obj Object) (value, ok bool) {
	return isTruthy(obj)
}

// Equal is the structural equality both backends share.
func Equal(a, b Object) bool {
	return objectsEqual(a, b)
}
