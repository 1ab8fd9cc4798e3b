package evaluator

import (
	"sort"
	"strings"

	"github.com/ruvylang/ruvy/internal/token"
)

var listMethods = map[string]BuiltinFunction{
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: int64(len(args[0].(*List).Elements))}
	},
	"push": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("push", "expects one argument")
		}
		l := args[0].(*List)
		l.Elements = append(l.Elements, args[1])
		e.countAlloc(1)
		return UNIT
	},
	"pop": func(e *Evaluator, args ...Object) Object {
		l := args[0].(*List)
		if len(l.Elements) == 0 {
			return NIL
		}
		last := l.Elements[len(l.Elements)-1]
		l.Elements = l.Elements[:len(l.Elements)-1]
		return last
	},
	"first": func(e *Evaluator, args ...Object) Object {
		l := args[0].(*List)
		if len(l.Elements) == 0 {
			return NIL
		}
		return l.Elements[0]
	},
	"last": func(e *Evaluator, args ...Object) Object {
		l := args[0].(*List)
		if len(l.Elements) == 0 {
			return NIL
		}
		return l.Elements[len(l.Elements)-1]
	},
	"contains": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("contains", "expects one argument")
		}
		for _, el := range args[0].(*List).Elements {
			if objectsEqual(el, args[1]) {
				return TRUE
			}
		}
		return FALSE
	},
	"index_of": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("index_of", "expects one argument")
		}
		for i, el := range args[0].(*List).Elements {
			if objectsEqual(el, args[1]) {
				return &Integer{Value: int64(i)}
			}
		}
		return &Integer{Value: -1}
	},
	"reverse": func(e *Evaluator, args ...Object) Object {
		src := args[0].(*List).Elements
		out := make([]Object, len(src))
		for i, el := range src {
			out[len(src)-1-i] = el
		}
		e.countAlloc(int64(len(out)))
		return &List{Elements: out}
	},
	"join": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("join", "expects one argument")
		}
		sep, ok := args[1].(*Str)
		if !ok {
			return methodError("join", "separator must be a string")
		}
		parts := make([]string, len(args[0].(*List).Elements))
		for i, el := range args[0].(*List).Elements {
			parts[i] = inspectPlain(el)
		}
		return &Str{Value: strings.Join(parts, sep.Value)}
	},
	"sort": func(e *Evaluator, args ...Object) Object {
		src := args[0].(*List).Elements
		out := append([]Object(nil), src...)
		sort.SliceStable(out, func(i, j int) bool { return objectLess(out[i], out[j]) })
		e.countAlloc(int64(len(out)))
		return &List{Elements: out}
	},
	"sum": func(e *Evaluator, args ...Object) Object {
		var intSum int64
		var floatSum float64
		isFloat := false
		for _, el := range args[0].(*List).Elements {
			switch n := el.(type) {
			case *Integer:
				intSum += n.Value
				floatSum += float64(n.Value)
			case *Float:
				isFloat = true
				floatSum += n.Value
			default:
				return methodError("sum", "list contains a non-number")
			}
		}
		if isFloat {
			return &Float{Value: floatSum}
		}
		return &Integer{Value: intSum}
	},
}

// The closure-taking methods call back into Eval, which reaches this
// table through dispatchMethod. Registering them in the map literal
// would make listMethods depend on itself, so they go in at init time.
func init() {
	for _, name := range []string{"map", "filter", "reduce", "any", "all"} {
		listMethods[name] = listHOF(name)
	}
}

func objectLess(a, b Object) bool {
	af, aOk := toFloat(a)
	bf, bOk := toFloat(b)
	if aOk && bOk {
		return af < bf
	}
	as, aStr := a.(*Str)
	bs, bStr := b.(*Str)
	if aStr && bStr {
		return as.Value < bs.Value
	}
	return a.Inspect() < b.Inspect()
}

// listHOF implements the closure-taking list methods. They share the
// same calling convention: receiver, then the closure (plus the seed
// for reduce).
func listHOF(name string) BuiltinFunction {
	return func(e *Evaluator, args ...Object) Object {
		list := args[0].(*List)
		want := 2
		if name == "reduce" {
			want = 3
		}
		if len(args) != want {
			return methodError(name, "wrong number of arguments")
		}
		fn := args[len(args)-1]
		if name == "reduce" {
			fn = args[2]
		}
		call := func(callArgs ...Object) Object {
			return e.applyFunction(fn, callArgs, token.Token{})
		}
		switch name {
		case "map":
			out := make([]Object, 0, len(list.Elements))
			for _, el := range list.Elements {
				mapped := call(el)
				if isSignal(mapped) {
					return mapped
				}
				out = append(out, mapped)
			}
			e.countAlloc(int64(len(out)))
			return &List{Elements: out}
		case "filter":
			var out []Object
			for _, el := range list.Elements {
				keep := call(el)
				if isSignal(keep) {
					return keep
				}
				truthy, ok := isTruthy(keep)
				if !ok {
					return methodError("filter", "predicate must return a boolean")
				}
				if truthy {
					out = append(out, el)
				}
			}
			e.countAlloc(int64(len(out)))
			return &List{Elements: out}
		case "reduce":
			acc := args[1]
			for _, el := range list.Elements {
				acc = call(acc, el)
				if isSignal(acc) {
					return acc
				}
			}
			return acc
		case "any":
			for _, el := range list.Elements {
				res := call(el)
				if isSignal(res) {
					return res
				}
				if truthy, ok := isTruthy(res); ok && truthy {
					return TRUE
				}
			}
			return FALSE
		case "all":
			for _, el := range list.Elements {
				res := call(el)
				if isSignal(res) {
					return res
				}
				truthy, ok := isTruthy(res)
				if !ok || !truthy {
					return FALSE
				}
			}
			return TRUE
		}
		return methodError(name, "unknown method")
	}
}
