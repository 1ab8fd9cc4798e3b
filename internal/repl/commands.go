package repl

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/transpiler"
)

const helpText = `Commands:
  :help              show this help
  :quit :exit :q     leave the session
  :clear             clear the screen
  :reset             discard all session bindings
  :type <name>       show the type of a binding
  :env               list all bindings
  :vars              list value bindings
  :funcs             list function bindings
  :types             list declared struct and enum types
  :mode [name]       show or switch the engine (tree-walk, vm)
  :debug             toggle engine and timing notes
  :pwd               print the working directory
  :history           show persisted input history
  :load <file>       evaluate a script in this session
  :save <file>       write this session's inputs to a file
  :ast <expr>        print the syntax tree of an expression
  :transpile <expr>  print the Rust rendering of an expression
  :bench <expr>      time an expression`

// command dispatches a colon command. The second return reports whether
// the session should end; unknown commands only print a notice.
func (s *Session) command(line string) (string, bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help":
		return helpText, false
	case ":quit", ":exit", ":q":
		return "", true
	case ":clear":
		return "\033[2J\033[H", false
	case ":reset":
		s.initial.Restore()
		s.lines = nil
		return "Session reset.", false
	case ":type":
		return s.typeOf(arg), false
	case ":env":
		return s.bindings(envAll), false
	case ":vars":
		return s.bindings(envVars), false
	case ":funcs":
		return s.bindings(envFuncs), false
	case ":types":
		names := s.eval.TypeNames()
		if len(names) == 0 {
			return "No types declared.", false
		}
		return strings.Join(names, "\n"), false
	case ":mode":
		return s.switchMode(arg), false
	case ":debug":
		s.debug = !s.debug
		if s.debug {
			return "Debug on.", false
		}
		return "Debug off.", false
	case ":pwd":
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Sprintf("Error: %s", err), false
		}
		return dir, false
	case ":history":
		return s.showHistory(), false
	case ":load":
		return s.loadFile(arg), false
	case ":save":
		return s.saveFile(arg), false
	case ":ast":
		return s.showAST(arg), false
	case ":transpile":
		return s.transpile(arg), false
	case ":bench":
		return s.bench(arg), false
	default:
		return fmt.Sprintf("unknown command: %s", name), false
	}
}

func (s *Session) typeOf(name string) string {
	if name == "" {
		return "usage: :type <name>"
	}
	obj, ok := s.eval.GlobalEnv.Get(name)
	if !ok {
		return fmt.Sprintf("Error: '%s' is not bound", name)
	}
	typed := evaluator.Builtins()["type_of"].Fn(s.eval, obj)
	return typed.Inspect()
}

type envFilter int

const (
	envAll envFilter = iota
	envVars
	envFuncs
)

func (s *Session) bindings(filter envFilter) string {
	names := s.eval.GlobalEnv.Names()
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		obj, ok := s.eval.GlobalEnv.Get(name)
		if !ok {
			continue
		}
		isFunc := obj.Type() == evaluator.FUNCTION_OBJ || obj.Type() == evaluator.BUILTIN_OBJ
		if filter == envVars && isFunc {
			continue
		}
		if filter == envFuncs && !isFunc {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", name, obj.Type())
	}
	if b.Len() == 0 {
		return "No bindings."
	}
	return b.String()
}

func (s *Session) switchMode(arg string) string {
	switch arg {
	case "":
		return fmt.Sprintf("Current mode: %s", s.mode)
	case "vm", "tree-walk":
		s.mode = arg
		return fmt.Sprintf("Switched to %s.", arg)
	default:
		return fmt.Sprintf("unknown mode: %s (tree-walk, vm)", arg)
	}
}

func (s *Session) showHistory() string {
	if s.hist == nil {
		return "History is not enabled."
	}
	entries, err := s.hist.Recent(50)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	if len(entries) == 0 {
		return "History is empty."
	}
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%3d  %s", i+1, entry)
	}
	return b.String()
}

func (s *Session) loadFile(path string) string {
	if path == "" {
		return "usage: :load <file>"
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	result := s.eval.EvalSource(string(source))
	if err, ok := result.(*evaluator.Error); ok {
		return err.Inspect()
	}
	return fmt.Sprintf("Loaded %s.", path)
}

func (s *Session) saveFile(path string) string {
	if path == "" {
		return "usage: :save <file>"
	}
	content := strings.Join(s.lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	return fmt.Sprintf("Saved %d lines to %s.", len(s.lines), path)
}

func (s *Session) showAST(src string) string {
	if src == "" {
		return "usage: :ast <expr>"
	}
	program, perr := evaluator.Parse(src)
	if perr != nil {
		return perr.Inspect()
	}
	var b strings.Builder
	dumpNode(&b, reflect.ValueOf(program), 0)
	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) transpile(src string) string {
	if src == "" {
		return "usage: :transpile <expr>"
	}
	program, perr := evaluator.Parse(src)
	if perr != nil {
		return perr.Inspect()
	}
	code, err := transpiler.Transpile(program)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	return strings.TrimRight(code, "\n")
}

func (s *Session) bench(src string) string {
	if src == "" {
		return "usage: :bench <expr>"
	}
	program, perr := evaluator.Parse(src)
	if perr != nil {
		return perr.Inspect()
	}
	start := time.Now()
	result, engine := s.run(program)
	elapsed := time.Since(start)
	if err, ok := result.(*evaluator.Error); ok {
		return err.Inspect()
	}
	return fmt.Sprintf("%s\n[%s, %s]", result.Inspect(), engine, elapsed.Round(time.Microsecond))
}

// dumpNode renders a syntax tree by reflection, one struct per line with
// nested fields indented. Nil branches and position tokens are skipped.
func dumpNode(b *strings.Builder, v reflect.Value, depth int) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	indent := strings.Repeat("  ", depth)
	switch v.Kind() {
	case reflect.Struct:
		fmt.Fprintf(b, "%s%s\n", indent, v.Type().Name())
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if !field.IsExported() || field.Type.Name() == "Token" {
				continue
			}
			fv := v.Field(i)
			switch fv.Kind() {
			case reflect.Ptr, reflect.Interface:
				dumpNode(b, fv, depth+1)
			case reflect.Slice:
				for j := 0; j < fv.Len(); j++ {
					dumpNode(b, fv.Index(j), depth+1)
				}
			case reflect.String, reflect.Int64, reflect.Float64, reflect.Bool:
				fmt.Fprintf(b, "%s  %s: %v\n", indent, field.Name, fv.Interface())
			}
		}
	default:
		fmt.Fprintf(b, "%s%v\n", indent, v.Interface())
	}
}
