package evaluator

import (
	"github.com/ruvylang/ruvy/internal/token"
)

// Method dispatch consults a small per-type table keyed by method name.
// Unknown methods fail with NoSuchMethod.
func (e *Evaluator) dispatchMethod(recv Object, name string, args []Object, tok token.Token) Object {
	var table map[string]BuiltinFunction
	switch recv.(type) {
	case *Str:
		table = stringMethods
	case *List:
		table = listMethods
	case *Integer, *Float:
		table = numberMethods
	case *Record:
		table = recordMethods
	case *Map:
		table = mapMethods
	case *Set:
		table = setMethods
	case *Range:
		table = rangeMethods
	case *Tuple:
		table = tupleMethods
	}
	if table != nil {
		if fn, ok := table[name]; ok {
			return fn(e, append([]Object{recv}, args...)...)
		}
	}
	return e.attachTrace(newError(NoSuchMethod, tok,
		"%s has no method '%s'", recv.Type(), name))
}

func methodError(name, msg string) *Error {
	return &Error{Kind: TypeError, Message: name + ": " + msg}
}

var numberMethods = map[string]BuiltinFunction{
	"abs": func(e *Evaluator, args ...Object) Object {
		switch n := args[0].(type) {
		case *Integer:
			if n.Value < 0 {
				return &Integer{Value: -n.Value}
			}
			return n
		case *Float:
			if n.Value < 0 {
				return &Float{Value: -n.Value}
			}
			return n
		}
		return methodError("abs", "not a number")
	},
	"to_float": func(e *Evaluator, args ...Object) Object {
		f, _ := toFloat(args[0])
		return &Float{Value: f}
	},
	"to_int": func(e *Evaluator, args ...Object) Object {
		switch n := args[0].(type) {
		case *Integer:
			return n
		case *Float:
			return &Integer{Value: int64(n.Value)}
		}
		return methodError("to_int", "not a number")
	},
	"to_string": func(e *Evaluator, args ...Object) Object {
		return &Str{Value: args[0].Inspect()}
	},
}

var tupleMethods = map[string]BuiltinFunction{
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: int64(len(args[0].(*Tuple).Elements))}
	},
}

var rangeMethods = map[string]BuiltinFunction{
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: args[0].(*Range).Len()}
	},
	"to_list": func(e *Evaluator, args ...Object) Object {
		r := args[0].(*Range)
		items, _ := e.iterateRange(r)
		return &List{Elements: items}
	},
	"contains": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("contains", "expects one argument")
		}
		r := args[0].(*Range)
		n, ok := args[1].(*Integer)
		if !ok {
			return FALSE
		}
		if r.Inclusive {
			return nativeBool(n.Value >= r.Start && n.Value <= r.End)
		}
		return nativeBool(n.Value >= r.Start && n.Value < r.End)
	},
}

func (e *Evaluator) iterateRange(r *Range) ([]Object, Object) {
	items := make([]Object, 0, r.Len())
	end := r.End
	if r.Inclusive {
		end++
	}
	for i := r.Start; i < end; i++ {
		items = append(items, &Integer{Value: i})
	}
	e.countAlloc(int64(len(items)))
	return items, nil
}

// The object method surface is deliberately narrow; anything else is
// NoSuchMethod.
var recordMethods = map[string]BuiltinFunction{
	"keys": func(e *Evaluator, args ...Object) Object {
		r := args[0].(*Record)
		out := make([]Object, 0, len(r.Keys))
		for _, k := range r.Keys {
			out = append(out, &Str{Value: k})
		}
		return &List{Elements: out}
	},
	"values": func(e *Evaluator, args ...Object) Object {
		r := args[0].(*Record)
		out := make([]Object, 0, len(r.Keys))
		for _, k := range r.Keys {
			out = append(out, r.Fields[k])
		}
		return &List{Elements: out}
	},
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: int64(len(args[0].(*Record).Fields))}
	},
	"contains": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("contains", "expects one argument")
		}
		key, ok := args[1].(*Str)
		if !ok {
			return methodError("contains", "key must be a string")
		}
		_, found := args[0].(*Record).Get(key.Value)
		return nativeBool(found)
	},
	"get": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("get", "expects one argument")
		}
		key, ok := args[1].(*Str)
		if !ok {
			return methodError("get", "key must be a string")
		}
		if val, found := args[0].(*Record).Get(key.Value); found {
			return val
		}
		return NIL
	},
	"insert": func(e *Evaluator, args ...Object) Object {
		if len(args) != 3 {
			return methodError("insert", "expects two arguments")
		}
		key, ok := args[1].(*Str)
		if !ok {
			return methodError("insert", "key must be a string")
		}
		args[0].(*Record).Set(key.Value, args[2])
		return UNIT
	},
	"remove": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("remove", "expects one argument")
		}
		key, ok := args[1].(*Str)
		if !ok {
			return methodError("remove", "key must be a string")
		}
		return nativeBool(args[0].(*Record).Remove(key.Value))
	},
}

var mapMethods = map[string]BuiltinFunction{
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: int64(args[0].(*Map).Size)}
	},
	"keys": func(e *Evaluator, args ...Object) Object {
		pairs := args[0].(*Map).SortedPairs()
		out := make([]Object, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, p.Key)
		}
		return &List{Elements: out}
	},
	"values": func(e *Evaluator, args ...Object) Object {
		pairs := args[0].(*Map).SortedPairs()
		out := make([]Object, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, p.Value)
		}
		return &List{Elements: out}
	},
	"get": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("get", "expects one argument")
		}
		key, ok := args[1].(Hashable)
		if !ok {
			return methodError("get", "unhashable key")
		}
		if val, found := args[0].(*Map).Get(key); found {
			return val
		}
		return NIL
	},
	"insert": func(e *Evaluator, args ...Object) Object {
		if len(args) != 3 {
			return methodError("insert", "expects two arguments")
		}
		key, ok := args[1].(Hashable)
		if !ok {
			return methodError("insert", "unhashable key")
		}
		args[0].(*Map).Set(key, args[2])
		return UNIT
	},
	"remove": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("remove", "expects one argument")
		}
		key, ok := args[1].(Hashable)
		if !ok {
			return methodError("remove", "unhashable key")
		}
		return nativeBool(args[0].(*Map).Delete(key))
	},
	"contains": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("contains", "expects one argument")
		}
		key, ok := args[1].(Hashable)
		if !ok {
			return FALSE
		}
		_, found := args[0].(*Map).Get(key)
		return nativeBool(found)
	},
}

var setMethods = map[string]BuiltinFunction{
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: int64(args[0].(*Set).Size)}
	},
	"add": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("add", "expects one argument")
		}
		val, ok := args[1].(Hashable)
		if !ok {
			return methodError("add", "unhashable value")
		}
		return nativeBool(args[0].(*Set).Add(val))
	},
	"contains": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("contains", "expects one argument")
		}
		val, ok := args[1].(Hashable)
		if !ok {
			return FALSE
		}
		return nativeBool(args[0].(*Set).Contains(val))
	},
	"remove": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("remove", "expects one argument")
		}
		val, ok := args[1].(Hashable)
		if !ok {
			return FALSE
		}
		return nativeBool(args[0].(*Set).Remove(val))
	},
	"to_list": func(e *Evaluator, args ...Object) Object {
		return &List{Elements: args[0].(*Set).Sorted()}
	},
}
