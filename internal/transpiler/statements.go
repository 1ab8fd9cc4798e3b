package transpiler

import (
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
)

func (t *Transpiler) lowerStatement(stmt ast.Statement) (string, error) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		value, err := t.lowerExpression(s.Value)
		if err != nil {
			return "", err
		}
		kw := "let "
		if s.Mutable {
			kw = "let mut "
		}
		if typ := mapType(s.TypeAnnotation); typ != "" {
			return kw + s.Name.Value + ": " + typ + " = " + value + ";", nil
		}
		return kw + s.Name.Value + " = " + value + ";", nil

	case *ast.LetPatternStatement:
		value, err := t.lowerExpression(s.Value)
		if err != nil {
			return "", err
		}
		pat, err := t.lowerPattern(s.Pattern)
		if err != nil {
			return "", err
		}
		return "let " + pat + " = " + value + ";", nil

	case *ast.ConstStatement:
		// Function-scoped const; top-level consts are hoisted by the
		// program assembly and never reach here.
		value, err := t.lowerExpression(s.Value)
		if err != nil {
			return "", err
		}
		typ := mapType(s.TypeAnnotation)
		if typ == "" {
			typ = inferGlobalType(s.Value)
		}
		return "const " + s.Name.Value + ": " + typ + " = " + value + ";", nil

	case *ast.AssignStatement:
		return t.lowerAssign(s.Target, s.Value, "")

	case *ast.CompoundAssignStatement:
		return t.lowerAssign(s.Target, s.Value, s.Op)

	case *ast.IncDecStatement:
		target, err := t.lowerPlace(s.Target)
		if err != nil {
			return "", err
		}
		if s.Op == "++" {
			return target + " += 1;", nil
		}
		return target + " -= 1;", nil

	case *ast.FunctionStatement:
		return t.lowerFunction(s, "")

	case *ast.ReturnStatement:
		if s.Value == nil {
			return "return;", nil
		}
		value, err := t.lowerExpression(s.Value)
		if err != nil {
			return "", err
		}
		return "return " + value + ";", nil

	case *ast.BreakStatement:
		out := "break"
		if s.Label != "" {
			out += " '" + s.Label
		}
		if s.Value != nil {
			value, err := t.lowerExpression(s.Value)
			if err != nil {
				return "", err
			}
			out += " " + value
		}
		return out + ";", nil

	case *ast.ContinueStatement:
		if s.Label != "" {
			return "continue '" + s.Label + ";", nil
		}
		return "continue;", nil

	case *ast.ThrowStatement:
		value, err := t.lowerExpression(s.Value)
		if err != nil {
			return "", err
		}
		return "panic!(\"{}\", " + value + ");", nil

	case *ast.StructStatement:
		return t.lowerStruct(s), nil

	case *ast.EnumStatement:
		return t.lowerEnum(s), nil

	case *ast.TraitStatement:
		return t.lowerTrait(s)

	case *ast.ImplStatement:
		return t.lowerImpl(s)

	case *ast.ModuleStatement:
		return t.lowerModule(s)

	case *ast.ImportStatement:
		return t.lowerImport(s), nil

	case *ast.ExpressionStatement:
		code, err := t.lowerExpression(s.Expression)
		if err != nil {
			return "", err
		}
		return terminate(code), nil

	case *ast.ActorStatement:
		return "", unsupported(s, "actor declaration")

	default:
		return "", unsupported(stmt, "this construct")
	}
}

// lowerAssign handles plain and compound assignment. Assignment through a
// promoted global goes through its lock.
func (t *Transpiler) lowerAssign(target, value ast.Expression, op string) (string, error) {
	place, err := t.lowerPlace(target)
	if err != nil {
		return "", err
	}
	rhs, err := t.lowerExpression(value)
	if err != nil {
		return "", err
	}
	if op != "" {
		return place + " " + op + "= " + rhs + ";", nil
	}
	return place + " = " + rhs + ";", nil
}

// lowerPlace lowers an assignment target. Promoted globals dereference
// their mutex guard.
func (t *Transpiler) lowerPlace(target ast.Expression) (string, error) {
	if ident, ok := target.(*ast.Identifier); ok && t.globalNames[ident.Value] {
		return "*" + ident.Value + ".lock().unwrap()", nil
	}
	return t.lowerExpression(target)
}

func (t *Transpiler) lowerFunction(fn *ast.FunctionStatement, rename string) (string, error) {
	name := fn.Name.Value
	if rename != "" {
		name = rename
	}
	var out strings.Builder
	if fn.Pub {
		out.WriteString("pub ")
	}
	if fn.Async {
		out.WriteString("async ")
	}
	out.WriteString("fn " + name + "(")
	for i, p := range fn.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		typ := mapType(p.TypeAnnotation)
		if typ == "" {
			typ = "i32"
		}
		if p.Variadic {
			typ = "Vec<" + typ + ">"
		}
		out.WriteString(p.Name + ": " + typ)
	}
	out.WriteString(") {\n")
	body, err := t.lowerBlock(fn.Body, true)
	if err != nil {
		return "", err
	}
	out.WriteString(indent(body, 1))
	out.WriteString("}")
	return out.String(), nil
}

// lowerBlock lowers the statements of a block. When valuePos is true the
// final expression statement is left unterminated so the block yields it.
func (t *Transpiler) lowerBlock(block *ast.BlockStatement, valuePos bool) (string, error) {
	if block == nil || len(block.Statements) == 0 {
		return "", nil
	}
	var out strings.Builder
	for i, stmt := range block.Statements {
		last := i == len(block.Statements)-1
		if last && valuePos {
			if es, ok := stmt.(*ast.ExpressionStatement); ok {
				code, err := t.lowerExpression(es.Expression)
				if err != nil {
					return "", err
				}
				out.WriteString(code + "\n")
				continue
			}
		}
		code, err := t.lowerStatement(stmt)
		if err != nil {
			return "", err
		}
		out.WriteString(code + "\n")
	}
	return out.String(), nil
}

func (t *Transpiler) lowerStruct(s *ast.StructStatement) string {
	var out strings.Builder
	out.WriteString("#[derive(Debug, Clone)]\n")
	if s.Pub {
		out.WriteString("pub ")
	}
	out.WriteString("struct " + s.Name.Value + " {\n")
	for _, f := range s.Fields {
		typ := mapType(f.TypeAnnotation)
		if typ == "" {
			typ = "i32"
		}
		out.WriteString("    " + f.Name + ": " + typ + ",\n")
	}
	out.WriteString("}")
	return out.String()
}

func (t *Transpiler) lowerEnum(e *ast.EnumStatement) string {
	var out strings.Builder
	out.WriteString("#[derive(Debug, Clone)]\n")
	out.WriteString("enum " + e.Name.Value + " {\n")
	for _, v := range e.Variants {
		if len(v.Params) == 0 {
			out.WriteString("    " + v.Name + ",\n")
			continue
		}
		types := make([]string, len(v.Params))
		for i, p := range v.Params {
			types[i] = mapType(p)
			if types[i] == "" {
				types[i] = "i32"
			}
		}
		out.WriteString("    " + v.Name + "(" + strings.Join(types, ", ") + "),\n")
	}
	out.WriteString("}")
	return out.String()
}

func (t *Transpiler) lowerTrait(tr *ast.TraitStatement) (string, error) {
	var out strings.Builder
	out.WriteString("trait " + tr.Name.Value + " {\n")
	for _, m := range tr.Methods {
		code, err := t.lowerFunction(m, "")
		if err != nil {
			return "", err
		}
		out.WriteString(indent(code, 1))
	}
	out.WriteString("}")
	return out.String(), nil
}

func (t *Transpiler) lowerImpl(im *ast.ImplStatement) (string, error) {
	var out strings.Builder
	if im.TraitName != "" {
		out.WriteString("impl " + im.TraitName + " for " + im.TypeName + " {\n")
	} else {
		out.WriteString("impl " + im.TypeName + " {\n")
	}
	for _, m := range im.Methods {
		code, err := t.lowerFunction(m, "")
		if err != nil {
			return "", err
		}
		out.WriteString(indent(code, 1))
	}
	out.WriteString("}")
	return out.String(), nil
}

func (t *Transpiler) lowerModule(m *ast.ModuleStatement) (string, error) {
	body, err := t.lowerBlock(m.Body, false)
	if err != nil {
		return "", err
	}
	return "mod " + m.Name.Value + " {\n" + indent(body, 1) + "}", nil
}
