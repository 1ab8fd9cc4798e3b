package evaluator

import (
	"os"
	"sort"
	"strings"
)

// Environment builtins, lowered by the transpiler to the host standard
// library and implemented here for the interpreter.
func init() {
	registerBuiltin(&Builtin{Name: "env_args", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
		out := make([]Object, 0, len(os.Args))
		for _, a := range os.Args {
			out = append(out, &Str{Value: a})
		}
		return &List{Elements: out}
	}})
	registerBuiltin(&Builtin{Name: "env_var", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		key, obj := wantString("env_var", args[0])
		if obj != nil {
			return obj
		}
		val, ok := os.LookupEnv(key)
		if !ok {
			return NIL
		}
		return &Str{Value: val}
	}})
	registerBuiltin(&Builtin{Name: "env_set_var", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		key, obj := wantString("env_set_var", args[0])
		if obj != nil {
			return obj
		}
		val, obj := wantString("env_set_var", args[1])
		if obj != nil {
			return obj
		}
		if err := os.Setenv(key, val); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "env_remove_var", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		key, obj := wantString("env_remove_var", args[0])
		if obj != nil {
			return obj
		}
		if err := os.Unsetenv(key); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "env_vars", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
		entries := os.Environ()
		sort.Strings(entries)
		rec := NewRecord("")
		for _, entry := range entries {
			k, v, ok := strings.Cut(entry, "=")
			if ok {
				rec.Set(k, &Str{Value: v})
			}
		}
		return rec
	}})
	registerBuiltin(&Builtin{Name: "env_current_dir", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
		dir, err := os.Getwd()
		if err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return &Str{Value: dir}
	}})
	registerBuiltin(&Builtin{Name: "env_set_current_dir", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		dir, obj := wantString("env_set_current_dir", args[0])
		if obj != nil {
			return obj
		}
		if err := os.Chdir(dir); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "env_temp_dir", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
		return &Str{Value: os.TempDir()}
	}})
}

func wantString(name string, arg Object) (string, Object) {
	s, ok := arg.(*Str)
	if !ok {
		return "", &Error{Kind: TypeError, Message: name + " expects a string, got " + string(arg.Type())}
	}
	return s.Value, nil
}
