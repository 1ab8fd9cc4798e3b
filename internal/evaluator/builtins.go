package evaluator

import (
	"fmt"
	"strings"
)

// builtins is the global builtin table, shared by the interpreter and
// the VM. The env/fs/path families mirror the transpiler's lowering
// catalogue so interpreted and transpiled programs see the same stdlib.
var builtins = map[string]*Builtin{}

func registerBuiltin(b *Builtin) {
	builtins[b.Name] = b
}

// Builtins exposes the table for the VM and the REPL completer.
func Builtins() map[string]*Builtin { return builtins }

func init() {
	registerBuiltin(&Builtin{Name: "print", Arity: -1, Fn: builtinPrint})
	registerBuiltin(&Builtin{Name: "println", Arity: -1, Fn: builtinPrintln})
	registerBuiltin(&Builtin{Name: "len", Arity: 1, Fn: builtinLen})
	registerBuiltin(&Builtin{Name: "type_of", Arity: 1, Fn: builtinTypeOf})
	registerBuiltin(&Builtin{Name: "to_string", Arity: 1, Fn: builtinToString})
	registerBuiltin(&Builtin{Name: "stop", Arity: 1, Fn: builtinStop})
}

func builtinPrint(e *Evaluator, args ...Object) Object {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = inspectPlain(a)
	}
	fmt.Fprint(e.Out, strings.Join(parts, " "))
	return UNIT
}

func builtinPrintln(e *Evaluator, args ...Object) Object {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = inspectPlain(a)
	}
	fmt.Fprintln(e.Out, strings.Join(parts, " "))
	return UNIT
}

func builtinLen(e *Evaluator, args ...Object) Object {
	switch a := args[0].(type) {
	case *Str:
		return &Integer{Value: int64(len([]rune(a.Value)))}
	case *List:
		return &Integer{Value: int64(len(a.Elements))}
	case *Tuple:
		return &Integer{Value: int64(len(a.Elements))}
	case *Record:
		return &Integer{Value: int64(len(a.Fields))}
	case *Map:
		return &Integer{Value: int64(a.Size)}
	case *Set:
		return &Integer{Value: int64(a.Size)}
	case *Range:
		return &Integer{Value: a.Len()}
	}
	return &Error{Kind: TypeError, Message: fmt.Sprintf("len: unsupported type %s", args[0].Type())}
}

func builtinTypeOf(e *Evaluator, args ...Object) Object {
	switch a := args[0].(type) {
	case *Integer:
		return &Str{Value: "Int"}
	case *Float:
		return &Str{Value: "Float"}
	case *Boolean:
		return &Str{Value: "Bool"}
	case *Char:
		return &Str{Value: "Char"}
	case *Str:
		return &Str{Value: "String"}
	case *Nil:
		return &Str{Value: "Nil"}
	case *Unit:
		return &Str{Value: "Unit"}
	case *List:
		return &Str{Value: "List"}
	case *Tuple:
		return &Str{Value: "Tuple"}
	case *Record:
		if a.TypeName != "" {
			return &Str{Value: a.TypeName}
		}
		return &Str{Value: "Object"}
	case *Map:
		return &Str{Value: "Map"}
	case *Set:
		return &Str{Value: "Set"}
	case *Range:
		return &Str{Value: "Range"}
	case *EnumVariant:
		if a.EnumName != "" {
			return &Str{Value: a.EnumName}
		}
		return &Str{Value: "Enum"}
	case *Function, *Builtin, *BoundMethod:
		return &Str{Value: "Function"}
	case *ActorHandle:
		return &Str{Value: "Actor"}
	case *Future:
		return &Str{Value: "Future"}
	}
	return &Str{Value: string(args[0].Type())}
}

func builtinToString(e *Evaluator, args ...Object) Object {
	return &Str{Value: inspectPlain(args[0])}
}

func builtinStop(e *Evaluator, args ...Object) Object {
	handle, ok := args[0].(*ActorHandle)
	if !ok {
		return &Error{Kind: TypeError, Message: "stop expects an actor handle"}
	}
	if err := e.Actors.Stop(handle.ID); err != nil {
		return &Error{Kind: TypeError, Message: err.Error()}
	}
	return UNIT
}
