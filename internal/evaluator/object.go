package evaluator

import (
	"hash/fnv"
)

type ObjectType string

const (
	INTEGER_OBJ      = "INTEGER"
	FLOAT_OBJ        = "FLOAT"
	BOOLEAN_OBJ      = "BOOLEAN"
	CHAR_OBJ         = "CHAR"
	STRING_OBJ       = "STRING"
	NIL_OBJ          = "NIL"
	UNIT_OBJ         = "UNIT"
	LIST_OBJ         = "LIST"
	TUPLE_OBJ        = "TUPLE"
	RECORD_OBJ       = "RECORD"
	MAP_OBJ          = "MAP"
	SET_OBJ          = "SET"
	RANGE_OBJ        = "RANGE"
	ENUM_VARIANT_OBJ = "ENUM_VARIANT"
	FUNCTION_OBJ     = "FUNCTION"
	BUILTIN_OBJ      = "BUILTIN"
	BOUND_METHOD_OBJ = "BOUND_METHOD"
	ERROR_OBJ        = "ERROR"
	ACTOR_HANDLE_OBJ = "ACTOR_HANDLE"
	FUTURE_OBJ       = "FUTURE"

	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
	THROW_SIGNAL_OBJ    = "THROW_SIGNAL"
)

// Object is the runtime value interface shared by the interpreter and
// the VM.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Hashable objects can key maps and populate sets.
type Hashable interface {
	Object
	HashKey() uint32
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// isTruthy implements the condition contract: only booleans drive
// branches, everything else is a type error handled by the caller.
func isTruthy(obj Object) (bool, bool) {
	if b, ok := obj.(*Boolean); ok {
		return b.Value, true
	}
	return false, false
}

// isSignal reports whether an object is a non-local transfer rather
// than a normal value.
func isSignal(obj Object) bool {
	switch obj.(type) {
	case *ReturnValue, *BreakSignal, *ContinueSignal, *ThrowSignal, *Error:
		return true
	}
	return false
}

func isError(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == ERROR_OBJ
}
