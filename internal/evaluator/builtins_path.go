package evaluator

import (
	"path/filepath"
	"strings"
)

// Path builtins. These are pure path algebra except canonicalize, which
// touches the filesystem.
func init() {
	registerBuiltin(&Builtin{Name: "path_join", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		a, obj := wantString("path_join", args[0])
		if obj != nil {
			return obj
		}
		b, obj := wantString("path_join", args[1])
		if obj != nil {
			return obj
		}
		return &Str{Value: filepath.Join(a, b)}
	}})
	registerBuiltin(&Builtin{Name: "path_join_many", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		list, ok := args[0].(*List)
		if !ok {
			return &Error{Kind: TypeError, Message: "path_join_many expects a list of strings"}
		}
		parts := make([]string, 0, len(list.Elements))
		for _, el := range list.Elements {
			s, obj := wantString("path_join_many", el)
			if obj != nil {
				return obj
			}
			parts = append(parts, s)
		}
		return &Str{Value: filepath.Join(parts...)}
	}})
	registerBuiltin(&Builtin{Name: "path_parent", Arity: 1, Fn: pathString1(func(p string) Object {
		dir := filepath.Dir(p)
		if dir == p {
			return NIL
		}
		return &Str{Value: dir}
	})})
	registerBuiltin(&Builtin{Name: "path_file_name", Arity: 1, Fn: pathString1(func(p string) Object {
		base := filepath.Base(p)
		if base == "." || base == string(filepath.Separator) {
			return NIL
		}
		return &Str{Value: base}
	})})
	registerBuiltin(&Builtin{Name: "path_file_stem", Arity: 1, Fn: pathString1(func(p string) Object {
		base := filepath.Base(p)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		if stem == "" {
			return NIL
		}
		return &Str{Value: stem}
	})})
	registerBuiltin(&Builtin{Name: "path_extension", Arity: 1, Fn: pathString1(func(p string) Object {
		ext := filepath.Ext(p)
		if ext == "" {
			return NIL
		}
		return &Str{Value: strings.TrimPrefix(ext, ".")}
	})})
	registerBuiltin(&Builtin{Name: "path_is_absolute", Arity: 1, Fn: pathString1(func(p string) Object {
		return nativeBool(filepath.IsAbs(p))
	})})
	registerBuiltin(&Builtin{Name: "path_is_relative", Arity: 1, Fn: pathString1(func(p string) Object {
		return nativeBool(!filepath.IsAbs(p))
	})})
	registerBuiltin(&Builtin{Name: "path_canonicalize", Arity: 1, Fn: pathString1(func(p string) Object {
		abs, err := filepath.Abs(p)
		if err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return &Str{Value: abs}
	})})
	registerBuiltin(&Builtin{Name: "path_with_extension", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		p, obj := wantString("path_with_extension", args[0])
		if obj != nil {
			return obj
		}
		ext, obj := wantString("path_with_extension", args[1])
		if obj != nil {
			return obj
		}
		stripped := strings.TrimSuffix(p, filepath.Ext(p))
		if ext == "" {
			return &Str{Value: stripped}
		}
		return &Str{Value: stripped + "." + strings.TrimPrefix(ext, ".")}
	}})
	registerBuiltin(&Builtin{Name: "path_with_file_name", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		p, obj := wantString("path_with_file_name", args[0])
		if obj != nil {
			return obj
		}
		name, obj := wantString("path_with_file_name", args[1])
		if obj != nil {
			return obj
		}
		return &Str{Value: filepath.Join(filepath.Dir(p), name)}
	}})
	registerBuiltin(&Builtin{Name: "path_components", Arity: 1, Fn: pathString1(func(p string) Object {
		var out []Object
		for _, c := range strings.Split(p, string(filepath.Separator)) {
			if c != "" {
				out = append(out, &Str{Value: c})
			}
		}
		if filepath.IsAbs(p) {
			out = append([]Object{&Str{Value: string(filepath.Separator)}}, out...)
		}
		return &List{Elements: out}
	})})
	registerBuiltin(&Builtin{Name: "path_normalize", Arity: 1, Fn: pathString1(func(p string) Object {
		return &Str{Value: NormalizePath(p)}
	})})
}

func pathString1(fn func(string) Object) BuiltinFunction {
	return func(e *Evaluator, args ...Object) Object {
		p, obj := wantString("path builtin", args[0])
		if obj != nil {
			return obj
		}
		return fn(p)
	}
}

// NormalizePath is a pure logical normalization: consume `.` segments,
// pop one segment per `..` (kept when nothing is left to pop), keep the
// root. No filesystem access.
func NormalizePath(p string) string {
	sep := string(filepath.Separator)
	rooted := strings.HasPrefix(p, sep)
	var stack []string
	for _, seg := range strings.Split(p, sep) {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			} else if !rooted {
				stack = append(stack, "..")
			}
		default:
			stack = append(stack, seg)
		}
	}
	out := strings.Join(stack, sep)
	if rooted {
		return sep + out
	}
	if out == "" {
		return "."
	}
	return out
}
