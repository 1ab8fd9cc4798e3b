package evaluator

import (
	"strconv"
	"strings"
)

var stringMethods = map[string]BuiltinFunction{
	"len": func(e *Evaluator, args ...Object) Object {
		return &Integer{Value: int64(len([]rune(args[0].(*Str).Value)))}
	},
	"to_upper": func(e *Evaluator, args ...Object) Object {
		return &Str{Value: strings.ToUpper(args[0].(*Str).Value)}
	},
	"to_lower": func(e *Evaluator, args ...Object) Object {
		return &Str{Value: strings.ToLower(args[0].(*Str).Value)}
	},
	"trim": func(e *Evaluator, args ...Object) Object {
		return &Str{Value: strings.TrimSpace(args[0].(*Str).Value)}
	},
	"split": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("split", "expects one argument")
		}
		sep, ok := args[1].(*Str)
		if !ok {
			return methodError("split", "separator must be a string")
		}
		parts := strings.Split(args[0].(*Str).Value, sep.Value)
		out := make([]Object, len(parts))
		for i, p := range parts {
			out[i] = &Str{Value: p}
		}
		return &List{Elements: out}
	},
	"contains": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("contains", "expects one argument")
		}
		sub, ok := args[1].(*Str)
		if !ok {
			return methodError("contains", "argument must be a string")
		}
		return nativeBool(strings.Contains(args[0].(*Str).Value, sub.Value))
	},
	"starts_with": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("starts_with", "expects one argument")
		}
		prefix, ok := args[1].(*Str)
		if !ok {
			return methodError("starts_with", "argument must be a string")
		}
		return nativeBool(strings.HasPrefix(args[0].(*Str).Value, prefix.Value))
	},
	"ends_with": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("ends_with", "expects one argument")
		}
		suffix, ok := args[1].(*Str)
		if !ok {
			return methodError("ends_with", "argument must be a string")
		}
		return nativeBool(strings.HasSuffix(args[0].(*Str).Value, suffix.Value))
	},
	"replace": func(e *Evaluator, args ...Object) Object {
		if len(args) != 3 {
			return methodError("replace", "expects two arguments")
		}
		old, ok1 := args[1].(*Str)
		new_, ok2 := args[2].(*Str)
		if !ok1 || !ok2 {
			return methodError("replace", "arguments must be strings")
		}
		return &Str{Value: strings.ReplaceAll(args[0].(*Str).Value, old.Value, new_.Value)}
	},
	"index_of": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("index_of", "expects one argument")
		}
		sub, ok := args[1].(*Str)
		if !ok {
			return methodError("index_of", "argument must be a string")
		}
		return &Integer{Value: int64(strings.Index(args[0].(*Str).Value, sub.Value))}
	},
	"repeat": func(e *Evaluator, args ...Object) Object {
		if len(args) != 2 {
			return methodError("repeat", "expects one argument")
		}
		n, ok := args[1].(*Integer)
		if !ok || n.Value < 0 {
			return methodError("repeat", "count must be a non-negative integer")
		}
		return &Str{Value: strings.Repeat(args[0].(*Str).Value, int(n.Value))}
	},
	"chars": func(e *Evaluator, args ...Object) Object {
		runes := []rune(args[0].(*Str).Value)
		out := make([]Object, len(runes))
		for i, r := range runes {
			out[i] = &Char{Value: r}
		}
		return &List{Elements: out}
	},
	"to_int": func(e *Evaluator, args ...Object) Object {
		n, err := strconv.ParseInt(strings.TrimSpace(args[0].(*Str).Value), 10, 64)
		if err != nil {
			return methodError("to_int", "not a valid integer")
		}
		return &Integer{Value: n}
	},
	"to_float": func(e *Evaluator, args ...Object) Object {
		f, err := strconv.ParseFloat(strings.TrimSpace(args[0].(*Str).Value), 64)
		if err != nil {
			return methodError("to_float", "not a valid float")
		}
		return &Float{Value: f}
	},
	"lines": func(e *Evaluator, args ...Object) Object {
		parts := strings.Split(strings.TrimSuffix(args[0].(*Str).Value, "\n"), "\n")
		out := make([]Object, len(parts))
		for i, p := range parts {
			out[i] = &Str{Value: p}
		}
		return &List{Elements: out}
	},
}
