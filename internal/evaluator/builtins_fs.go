package evaluator

import (
	"os"
	"path/filepath"
	"sort"
)

// Filesystem builtins. Failures surface as catchable Error values, not
// fatal aborts; the source language treats I/O as recoverable.
func init() {
	registerBuiltin(&Builtin{Name: "fs_read", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_read", args[0])
		if obj != nil {
			return obj
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return &Error{Kind: KeyNotFound, Message: err.Error()}
		}
		return &Str{Value: string(data)}
	}})
	registerBuiltin(&Builtin{Name: "fs_write", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_write", args[0])
		if obj != nil {
			return obj
		}
		content, obj := wantString("fs_write", args[1])
		if obj != nil {
			return obj
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "fs_exists", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_exists", args[0])
		if obj != nil {
			return obj
		}
		_, err := os.Stat(path)
		return nativeBool(err == nil)
	}})
	registerBuiltin(&Builtin{Name: "fs_create_dir", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_create_dir", args[0])
		if obj != nil {
			return obj
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "fs_remove_file", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_remove_file", args[0])
		if obj != nil {
			return obj
		}
		if err := os.Remove(path); err != nil {
			return &Error{Kind: KeyNotFound, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "fs_remove_dir", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_remove_dir", args[0])
		if obj != nil {
			return obj
		}
		if err := os.RemoveAll(path); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "fs_copy", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		src, obj := wantString("fs_copy", args[0])
		if obj != nil {
			return obj
		}
		dst, obj := wantString("fs_copy", args[1])
		if obj != nil {
			return obj
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return &Error{Kind: KeyNotFound, Message: err.Error()}
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "fs_rename", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		src, obj := wantString("fs_rename", args[0])
		if obj != nil {
			return obj
		}
		dst, obj := wantString("fs_rename", args[1])
		if obj != nil {
			return obj
		}
		if err := os.Rename(src, dst); err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		return UNIT
	}})
	registerBuiltin(&Builtin{Name: "fs_metadata", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_metadata", args[0])
		if obj != nil {
			return obj
		}
		info, err := os.Stat(path)
		if err != nil {
			return &Error{Kind: KeyNotFound, Message: err.Error()}
		}
		rec := NewRecord("")
		rec.Set("size", &Integer{Value: info.Size()})
		rec.Set("is_dir", nativeBool(info.IsDir()))
		rec.Set("is_file", nativeBool(info.Mode().IsRegular()))
		rec.Set("modified", &Integer{Value: info.ModTime().Unix()})
		return rec
	}})
	registerBuiltin(&Builtin{Name: "fs_read_dir", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_read_dir", args[0])
		if obj != nil {
			return obj
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return &Error{Kind: KeyNotFound, Message: err.Error()}
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		out := make([]Object, 0, len(names))
		for _, n := range names {
			out = append(out, &Str{Value: n})
		}
		return &List{Elements: out}
	}})
	registerBuiltin(&Builtin{Name: "fs_canonicalize", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_canonicalize", args[0])
		if obj != nil {
			return obj
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return &Error{Kind: TypeError, Message: err.Error()}
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return &Error{Kind: KeyNotFound, Message: err.Error()}
		}
		return &Str{Value: resolved}
	}})
	registerBuiltin(&Builtin{Name: "fs_is_file", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		path, obj := wantString("fs_is_file", args[0])
		if obj != nil {
			return obj
		}
		info, err := os.Stat(path)
		return nativeBool(err == nil && info.Mode().IsRegular())
	}})
}
