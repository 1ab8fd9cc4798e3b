// Package transpiler lowers a parsed program to Rust source text.
//
// Top-level forms are categorized in three passes: discovery (is there a
// main function, which lets are mutable, which names are const),
// categorization (functions, statements, modules, imports), and global
// emission (consts and lock-protected mutable globals). Mutable top-level
// lets are promoted to process-lifetime globals only when the program
// defines at least one function; pure scripts keep them as plain locals
// hoisted into the generated main.
package transpiler

import (
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
)

// Transpiler holds the per-program promotion sets. A fresh Transpiler is
// cheap; reuse across programs is not supported because the sets are
// program-scoped.
type Transpiler struct {
	constNames  map[string]bool
	globalNames map[string]bool

	needsNormalize bool
}

func New() *Transpiler {
	return &Transpiler{
		constNames:  make(map[string]bool),
		globalNames: make(map[string]bool),
	}
}

// Transpile lowers a whole program to a single Rust source unit. Output is
// deterministic: the same AST always produces the same bytes.
func Transpile(program *ast.Program) (string, error) {
	return New().Transpile(program)
}

func (t *Transpiler) Transpile(program *ast.Program) (string, error) {
	t.discover(program)

	var imports, modules, functions, statements []string
	var mainFn *ast.FunctionStatement

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			if s.Name.Value == "main" {
				mainFn = s
				continue
			}
			code, err := t.lowerFunction(s, "")
			if err != nil {
				return "", err
			}
			functions = append(functions, code)
		case *ast.StructStatement, *ast.EnumStatement, *ast.TraitStatement, *ast.ImplStatement:
			code, err := t.lowerStatement(stmt)
			if err != nil {
				return "", err
			}
			functions = append(functions, code)
		case *ast.ModuleStatement:
			code, err := t.lowerModule(s)
			if err != nil {
				return "", err
			}
			modules = append(modules, code)
		case *ast.ImportStatement:
			imports = append(imports, t.lowerImport(s))
		case *ast.LetStatement:
			// Promoted lets are re-emitted as globals below.
			if s.Mutable && t.globalNames[s.Name.Value] {
				continue
			}
			code, err := t.lowerStatement(stmt)
			if err != nil {
				return "", err
			}
			statements = append(statements, code)
		case *ast.ConstStatement:
			continue // always module-level
		case *ast.ExpressionStatement:
			if mainFn != nil && isCallToMain(s.Expression) {
				continue
			}
			if mod, imp, ok := t.moduleResolverBlock(s.Expression); ok {
				code, err := t.lowerModule(mod)
				if err != nil {
					return "", err
				}
				modules = append(modules, code)
				imports = append(imports, t.lowerImport(imp))
				continue
			}
			code, err := t.lowerStatement(stmt)
			if err != nil {
				return "", err
			}
			statements = append(statements, code)
		default:
			code, err := t.lowerStatement(stmt)
			if err != nil {
				return "", err
			}
			statements = append(statements, code)
		}
	}

	globals, err := t.emitGlobals(program)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	writeAll := func(parts []string) {
		for _, p := range parts {
			out.WriteString(p)
			if !strings.HasSuffix(p, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	writeAll(imports)
	writeAll(globals)
	writeAll(modules)
	writeAll(functions)

	switch {
	case mainFn != nil && len(statements) == 0:
		code, err := t.lowerFunction(mainFn, "")
		if err != nil {
			return "", err
		}
		out.WriteString(code)
		out.WriteByte('\n')
	case mainFn != nil:
		// A user main plus loose statements: the statements run first,
		// then the renamed user main, so a stray main() call at top
		// level cannot recurse into the entry point.
		renamed, err := t.lowerFunction(mainFn, "__ruvy_main")
		if err != nil {
			return "", err
		}
		out.WriteString(renamed)
		out.WriteString("\nfn main() {\n")
		for _, s := range statements {
			out.WriteString(indent(s, 1))
		}
		out.WriteString("    __ruvy_main();\n}\n")
	default:
		out.WriteString("fn main() {\n")
		for _, s := range statements {
			out.WriteString(indent(s, 1))
		}
		out.WriteString("}\n")
	}

	if t.needsNormalize {
		out.WriteString(normalizeHelper)
	}
	return out.String(), nil
}

// discover is pass one: find main, collect const names, and decide which
// mutable lets are promoted to globals.
func (t *Transpiler) discover(program *ast.Program) {
	hasFunctions := false
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			hasFunctions = true
		case *ast.ConstStatement:
			t.constNames[s.Name.Value] = true
		}
	}
	if !hasFunctions {
		return
	}
	for _, stmt := range program.Statements {
		if let, ok := stmt.(*ast.LetStatement); ok && let.Mutable && !t.constNames[let.Name.Value] {
			t.globalNames[let.Name.Value] = true
		}
	}
}

// emitGlobals is pass three: const declarations first, then lock-protected
// lazy globals, both in source order.
func (t *Transpiler) emitGlobals(program *ast.Program) ([]string, error) {
	var globals []string
	for _, stmt := range program.Statements {
		c, ok := stmt.(*ast.ConstStatement)
		if !ok {
			continue
		}
		value, err := t.lowerExpression(c.Value)
		if err != nil {
			return nil, err
		}
		typ := mapType(c.TypeAnnotation)
		if typ == "" {
			typ = inferGlobalType(c.Value)
		}
		globals = append(globals, "const "+c.Name.Value+": "+typ+" = "+value+";")
	}
	for _, stmt := range program.Statements {
		let, ok := stmt.(*ast.LetStatement)
		if !ok || !let.Mutable || !t.globalNames[let.Name.Value] {
			continue
		}
		value, err := t.lowerExpression(let.Value)
		if err != nil {
			return nil, err
		}
		typ := mapType(let.TypeAnnotation)
		if typ == "" {
			typ = inferGlobalType(let.Value)
		}
		globals = append(globals,
			"static "+let.Name.Value+": std::sync::LazyLock<std::sync::Mutex<"+typ+">> = "+
				"std::sync::LazyLock::new(|| std::sync::Mutex::new("+value+"));")
	}
	return globals, nil
}

// moduleResolverBlock recognizes a top-level block of exactly a module
// declaration followed by an import, as produced by the module resolver.
func (t *Transpiler) moduleResolverBlock(expr ast.Expression) (*ast.ModuleStatement, *ast.ImportStatement, bool) {
	block, ok := expr.(*ast.BlockExpression)
	if !ok || block.Block == nil || len(block.Block.Statements) != 2 {
		return nil, nil, false
	}
	mod, ok := block.Block.Statements[0].(*ast.ModuleStatement)
	if !ok {
		return nil, nil, false
	}
	imp, ok := block.Block.Statements[1].(*ast.ImportStatement)
	if !ok {
		return nil, nil, false
	}
	return mod, imp, true
}

func isCallToMain(expr ast.Expression) bool {
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return false
	}
	ident, ok := call.Function.(*ast.Identifier)
	return ok && ident.Value == "main"
}

// terminate applies the statement-position rule: anything not already
// ending in ';' or '}' gets a ';'.
func terminate(code string) string {
	trimmed := strings.TrimRight(code, " \n")
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return trimmed + ";"
}

func indent(code string, level int) string {
	pad := strings.Repeat("    ", level)
	var out strings.Builder
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		if line == "" {
			out.WriteByte('\n')
			continue
		}
		out.WriteString(pad)
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}

func unsupported(node ast.Node, what string) error {
	return diagnostics.NewErrorf(diagnostics.ErrT002, node.GetToken(),
		"%s is not supported in transpiled output", what)
}

const normalizeHelper = `
fn __ruvy_normalize_path(p: &str) -> String {
    let rooted = p.starts_with('/');
    let mut parts: Vec<&str> = Vec::new();
    for seg in p.split('/') {
        match seg {
            "" | "." => {}
            ".." => {
                if parts.last().map_or(rooted, |s| *s != "..") {
                    parts.pop();
                } else {
                    parts.push("..");
                }
            }
            _ => parts.push(seg),
        }
    }
    let joined = parts.join("/");
    match (rooted, joined.is_empty()) {
        (true, _) => format!("/{}", joined),
        (false, true) => ".".to_string(),
        (false, false) => joined,
    }
}
`
