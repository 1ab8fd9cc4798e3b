package transpiler

import (
	"fmt"
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
)

// builtinLowering is one fixed-name call the transpiler rewrites to a Rust
// standard-library form. Arity is exact; -1 means variadic.
type builtinLowering struct {
	arity int
	lower func(t *Transpiler, args []string) string
}

func fixed(arity int, format string) builtinLowering {
	return builtinLowering{arity: arity, lower: func(t *Transpiler, args []string) string {
		anyArgs := make([]interface{}, len(args))
		for i, a := range args {
			anyArgs[i] = a
		}
		return fmt.Sprintf(format, anyArgs...)
	}}
}

var builtinLowerings = map[string]builtinLowering{
	// Environment
	"env_args":            fixed(0, "std::env::args().skip(1).collect::<Vec<String>>()"),
	"env_var":             fixed(1, "std::env::var(%s).unwrap_or_default()"),
	"env_set_var":         fixed(2, "std::env::set_var(%s, %s)"),
	"env_remove_var":      fixed(1, "std::env::remove_var(%s)"),
	"env_vars":            fixed(0, "std::env::vars().collect::<Vec<(String, String)>>()"),
	"env_current_dir":     fixed(0, "std::env::current_dir().unwrap().display().to_string()"),
	"env_set_current_dir": fixed(1, "std::env::set_current_dir(%s).unwrap()"),
	"env_temp_dir":        fixed(0, "std::env::temp_dir().display().to_string()"),

	// Filesystem
	"fs_read":       fixed(1, "std::fs::read_to_string(%s).unwrap()"),
	"fs_write":      fixed(2, "std::fs::write(%s, %s).unwrap()"),
	"fs_exists":     fixed(1, "std::path::Path::new(%s).exists()"),
	"fs_create_dir": fixed(1, "std::fs::create_dir_all(%s).unwrap()"),
	"fs_remove_file": fixed(1, "std::fs::remove_file(%s).unwrap()"),
	"fs_remove_dir": fixed(1, "std::fs::remove_dir_all(%s).unwrap()"),
	"fs_copy":       fixed(2, "std::fs::copy(%s, %s).unwrap()"),
	"fs_rename":     fixed(2, "std::fs::rename(%s, %s).unwrap()"),
	"fs_metadata":   fixed(1, "std::fs::metadata(%s).unwrap()"),
	"fs_read_dir": fixed(1, "std::fs::read_dir(%s).unwrap()"+
		".map(|e| e.unwrap().path().display().to_string()).collect::<Vec<String>>()"),
	"fs_canonicalize": fixed(1, "std::fs::canonicalize(%s).unwrap().display().to_string()"),
	"fs_is_file":      fixed(1, "std::path::Path::new(%s).is_file()"),

	// Path
	"path_join":      fixed(2, "std::path::Path::new(%s).join(%s).display().to_string()"),
	"path_join_many": fixed(1, "%s.iter().collect::<std::path::PathBuf>().display().to_string()"),
	"path_parent": fixed(1, "std::path::Path::new(%s).parent()"+
		".map(|p| p.display().to_string()).unwrap_or_default()"),
	"path_file_name": fixed(1, "std::path::Path::new(%s).file_name()"+
		".map(|s| s.to_string_lossy().into_owned()).unwrap_or_default()"),
	"path_file_stem": fixed(1, "std::path::Path::new(%s).file_stem()"+
		".map(|s| s.to_string_lossy().into_owned()).unwrap_or_default()"),
	"path_extension": fixed(1, "std::path::Path::new(%s).extension()"+
		".map(|s| s.to_string_lossy().into_owned()).unwrap_or_default()"),
	"path_is_absolute":  fixed(1, "std::path::Path::new(%s).is_absolute()"),
	"path_is_relative":  fixed(1, "std::path::Path::new(%s).is_relative()"),
	"path_canonicalize": fixed(1, "std::fs::canonicalize(%s).unwrap().display().to_string()"),
	"path_with_extension": fixed(2, "std::path::Path::new(%s).with_extension(%s)" +
		".display().to_string()"),
	"path_with_file_name": fixed(2, "std::path::Path::new(%s).with_file_name(%s)" +
		".display().to_string()"),
	"path_components": fixed(1, "std::path::Path::new(%s).components()"+
		".map(|c| c.as_os_str().to_string_lossy().into_owned()).collect::<Vec<String>>()"),
	"path_normalize": {arity: 1, lower: func(t *Transpiler, args []string) string {
		t.needsNormalize = true
		return "__ruvy_normalize_path(" + args[0] + ")"
	}},
}

func (t *Transpiler) lowerCall(call *ast.CallExpression) (string, error) {
	args, err := t.lowerAll(call.Arguments)
	if err != nil {
		return "", err
	}

	if ident, ok := call.Function.(*ast.Identifier); ok {
		switch ident.Value {
		case "println":
			return lowerPrint("println!", args), nil
		case "print":
			return lowerPrint("print!", args), nil
		case "len":
			if len(args) != 1 {
				return "", arityError(call, "len", 1, len(args))
			}
			return "(" + args[0] + ".len() as i64)", nil
		case "to_string":
			if len(args) != 1 {
				return "", arityError(call, "to_string", 1, len(args))
			}
			return args[0] + ".to_string()", nil
		case "type_of", "stop":
			return "", unsupported(call, ident.Value)
		}
		if lowering, ok := builtinLowerings[ident.Value]; ok {
			if lowering.arity >= 0 && len(args) != lowering.arity {
				return "", arityError(call, ident.Value, lowering.arity, len(args))
			}
			return lowering.lower(t, args), nil
		}
	}

	fn, err := t.lowerExpression(call.Function)
	if err != nil {
		return "", err
	}
	return fn + "(" + strings.Join(args, ", ") + ")", nil
}

func arityError(node ast.Node, name string, want, got int) error {
	noun := "arguments"
	if want == 1 {
		noun = "argument"
	}
	return diagnostics.NewErrorf(diagnostics.ErrT001, node.GetToken(),
		"%s expects %d %s, got %d", name, want, noun, got)
}

func lowerPrint(macro string, args []string) string {
	if len(args) == 0 {
		return macro + "()"
	}
	slots := make([]string, len(args))
	for i := range args {
		slots[i] = "{}"
	}
	return macro + "(\"" + strings.Join(slots, " ") + "\", " + strings.Join(args, ", ") + ")"
}

// methodRewrites maps source method names to their Rust spellings where
// the two differ. Anything absent passes through unchanged.
var methodRewrites = map[string]string{
	"to_upper": "to_uppercase",
	"to_lower": "to_lowercase",
	"index_of": "find",
}

func (t *Transpiler) lowerMethodCall(mc *ast.MethodCallExpression) (string, error) {
	recv, err := t.lowerExpression(mc.Receiver)
	if err != nil {
		return "", err
	}
	args, err := t.lowerAll(mc.Arguments)
	if err != nil {
		return "", err
	}

	switch mc.Method {
	case "split":
		if len(args) == 1 {
			return recv + ".split(" + args[0] + ").map(|s| s.to_string()).collect::<Vec<String>>()", nil
		}
	case "chars":
		if len(args) == 0 {
			return recv + ".chars().collect::<Vec<char>>()", nil
		}
	case "to_int":
		if len(args) == 0 {
			return recv + ".trim().parse::<i64>().unwrap()", nil
		}
	case "to_float":
		if len(args) == 0 {
			return recv + ".trim().parse::<f64>().unwrap()", nil
		}
	case "map":
		if len(args) == 1 {
			return recv + ".iter().map(" + args[0] + ").collect::<Vec<_>>()", nil
		}
	case "filter":
		if len(args) == 1 {
			return recv + ".iter().cloned().filter(" + args[0] + ").collect::<Vec<_>>()", nil
		}
	case "reduce":
		if len(args) == 2 {
			return recv + ".iter().fold(" + args[0] + ", " + args[1] + ")", nil
		}
	case "any":
		if len(args) == 1 {
			return recv + ".iter().any(" + args[0] + ")", nil
		}
	case "all":
		if len(args) == 1 {
			return recv + ".iter().all(" + args[0] + ")", nil
		}
	case "sum":
		if len(args) == 0 {
			return recv + ".iter().sum::<i64>()", nil
		}
	case "join":
		if len(args) == 1 {
			return recv + ".join(" + args[0] + ")", nil
		}
	case "sort":
		if len(args) == 0 {
			return "{ let mut __v = " + recv + ".clone(); __v.sort(); __v }", nil
		}
	case "reverse":
		if len(args) == 0 {
			return recv + ".iter().rev().cloned().collect::<Vec<_>>()", nil
		}
	}

	name := mc.Method
	if rewritten, ok := methodRewrites[name]; ok {
		name = rewritten
	}
	return recv + "." + name + "(" + strings.Join(args, ", ") + ")", nil
}
