package transpiler

import (
	"strconv"
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
)

func (t *Transpiler) lowerExpression(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10), nil

	case *ast.FloatLiteral:
		s := strconv.FormatFloat(e.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, nil

	case *ast.StringLiteral:
		return strconv.Quote(e.Value), nil

	case *ast.CharLiteral:
		return strconv.QuoteRune(e.Value), nil

	case *ast.BooleanLiteral:
		if e.Value {
			return "true", nil
		}
		return "false", nil

	case *ast.NilLiteral, *ast.UnitLiteral:
		return "()", nil

	case *ast.Identifier:
		if t.globalNames[e.Value] {
			return "(*" + e.Value + ".lock().unwrap())", nil
		}
		return e.Value, nil

	case *ast.InterpolatedString:
		return t.lowerInterpolation(e)

	case *ast.ListLiteral:
		parts, err := t.lowerAll(e.Elements)
		if err != nil {
			return "", err
		}
		return "vec![" + strings.Join(parts, ", ") + "]", nil

	case *ast.TupleLiteral:
		parts, err := t.lowerAll(e.Elements)
		if err != nil {
			return "", err
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)", nil
		}
		return "(" + strings.Join(parts, ", ") + ")", nil

	case *ast.StructLiteral:
		var out strings.Builder
		out.WriteString(e.Name + " { ")
		for i, f := range e.Fields {
			if i > 0 {
				out.WriteString(", ")
			}
			value, err := t.lowerExpression(f.Value)
			if err != nil {
				return "", err
			}
			out.WriteString(f.Key + ": " + value)
		}
		out.WriteString(" }")
		return out.String(), nil

	case *ast.RecordLiteral:
		return "", unsupported(e, "anonymous record literal")

	case *ast.PrefixExpression:
		right, err := t.lowerExpression(e.Right)
		if err != nil {
			return "", err
		}
		return "(" + e.Operator + right + ")", nil

	case *ast.InfixExpression:
		left, err := t.lowerExpression(e.Left)
		if err != nil {
			return "", err
		}
		right, err := t.lowerExpression(e.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " " + e.Operator + " " + right + ")", nil

	case *ast.RangeExpression:
		start, err := t.lowerExpression(e.Start)
		if err != nil {
			return "", err
		}
		end, err := t.lowerExpression(e.End)
		if err != nil {
			return "", err
		}
		if e.Inclusive {
			return "(" + start + "..=" + end + ")", nil
		}
		return "(" + start + ".." + end + ")", nil

	case *ast.IfExpression:
		return t.lowerIf(e)

	case *ast.BlockExpression:
		body, err := t.lowerBlock(e.Block, true)
		if err != nil {
			return "", err
		}
		return "{\n" + indent(body, 1) + "}", nil

	case *ast.WhileExpression:
		cond, err := t.lowerExpression(e.Condition)
		if err != nil {
			return "", err
		}
		body, err := t.lowerBlock(e.Body, false)
		if err != nil {
			return "", err
		}
		return loopLabel(e.Label) + "while " + cond + " {\n" + indent(body, 1) + "}", nil

	case *ast.ForExpression:
		pat, err := t.lowerPattern(e.Pattern)
		if err != nil {
			return "", err
		}
		iter, err := t.lowerExpression(e.Iterable)
		if err != nil {
			return "", err
		}
		body, err := t.lowerBlock(e.Body, false)
		if err != nil {
			return "", err
		}
		return loopLabel(e.Label) + "for " + pat + " in " + iter + " {\n" + indent(body, 1) + "}", nil

	case *ast.LoopExpression:
		body, err := t.lowerBlock(e.Body, false)
		if err != nil {
			return "", err
		}
		return loopLabel(e.Label) + "loop {\n" + indent(body, 1) + "}", nil

	case *ast.MatchExpression:
		return t.lowerMatch(e)

	case *ast.LambdaExpression:
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = p.Name
		}
		body, err := t.lowerExpression(e.Body)
		if err != nil {
			return "", err
		}
		return "|" + strings.Join(params, ", ") + "| " + body, nil

	case *ast.CallExpression:
		return t.lowerCall(e)

	case *ast.MethodCallExpression:
		return t.lowerMethodCall(e)

	case *ast.FieldAccessExpression:
		recv, err := t.lowerExpression(e.Receiver)
		if err != nil {
			return "", err
		}
		return recv + "." + e.Field, nil

	case *ast.IndexExpression:
		recv, err := t.lowerExpression(e.Receiver)
		if err != nil {
			return "", err
		}
		idx, err := t.lowerExpression(e.Index)
		if err != nil {
			return "", err
		}
		return recv + "[(" + idx + ") as usize]", nil

	case *ast.SliceExpression:
		return t.lowerSlice(e)

	case *ast.PathExpression:
		return strings.Join(e.Segments, "::"), nil

	case *ast.TryExpression:
		return "", unsupported(e, "try/catch")
	case *ast.SpawnExpression:
		return "", unsupported(e, "spawn")
	case *ast.SendExpression:
		return "", unsupported(e, "send")
	case *ast.AskExpression:
		return "", unsupported(e, "ask")
	case *ast.AwaitExpression:
		value, err := t.lowerExpression(e.Value)
		if err != nil {
			return "", err
		}
		return value + ".await", nil
	case *ast.AsyncExpression:
		body, err := t.lowerBlock(e.Body, true)
		if err != nil {
			return "", err
		}
		return "async {\n" + indent(body, 1) + "}", nil

	default:
		return "", unsupported(expr, "this expression")
	}
}

func (t *Transpiler) lowerAll(exprs []ast.Expression) ([]string, error) {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		code, err := t.lowerExpression(e)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

func (t *Transpiler) lowerIf(e *ast.IfExpression) (string, error) {
	cond, err := t.lowerExpression(e.Condition)
	if err != nil {
		return "", err
	}
	cons, err := t.lowerBlock(e.Consequence, true)
	if err != nil {
		return "", err
	}
	out := "if " + cond + " {\n" + indent(cons, 1) + "}"
	switch alt := e.Alternative.(type) {
	case nil:
	case *ast.IfExpression:
		chained, err := t.lowerIf(alt)
		if err != nil {
			return "", err
		}
		out += " else " + chained
	case *ast.BlockExpression:
		body, err := t.lowerBlock(alt.Block, true)
		if err != nil {
			return "", err
		}
		out += " else {\n" + indent(body, 1) + "}"
	default:
		body, err := t.lowerExpression(alt)
		if err != nil {
			return "", err
		}
		out += " else { " + body + " }"
	}
	return out, nil
}

func (t *Transpiler) lowerMatch(e *ast.MatchExpression) (string, error) {
	scrutinee, err := t.lowerExpression(e.Scrutinee)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	out.WriteString("match " + scrutinee + " {\n")
	for _, arm := range e.Arms {
		pat, err := t.lowerPattern(arm.Pattern)
		if err != nil {
			return "", err
		}
		out.WriteString("    " + pat)
		if arm.Guard != nil {
			guard, err := t.lowerExpression(arm.Guard)
			if err != nil {
				return "", err
			}
			out.WriteString(" if " + guard)
		}
		body, err := t.lowerExpression(arm.Body)
		if err != nil {
			return "", err
		}
		out.WriteString(" => " + body + ",\n")
	}
	out.WriteString("}")
	return out.String(), nil
}

func (t *Transpiler) lowerSlice(e *ast.SliceExpression) (string, error) {
	recv, err := t.lowerExpression(e.Receiver)
	if err != nil {
		return "", err
	}
	start := "0"
	if e.Start != nil {
		start, err = t.lowerExpression(e.Start)
		if err != nil {
			return "", err
		}
	}
	op := ".."
	if e.Inclusive {
		op = "..="
	}
	if e.End == nil {
		return recv + "[(" + start + ") as usize..]", nil
	}
	end, err := t.lowerExpression(e.End)
	if err != nil {
		return "", err
	}
	return recv + "[(" + start + ") as usize" + op + "(" + end + ") as usize]", nil
}

// lowerInterpolation turns an interpolated string into a format! call:
// literal parts become the format text, everything else a {} slot.
func (t *Transpiler) lowerInterpolation(e *ast.InterpolatedString) (string, error) {
	var format strings.Builder
	var args []string
	for _, part := range e.Parts {
		if lit, ok := part.(*ast.StringLiteral); ok {
			format.WriteString(escapeFormat(lit.Value))
			continue
		}
		code, err := t.lowerExpression(part)
		if err != nil {
			return "", err
		}
		format.WriteString("{}")
		args = append(args, code)
	}
	quoted := strconv.Quote(format.String())
	if len(args) == 0 {
		return quoted + ".to_string()", nil
	}
	return "format!(" + quoted + ", " + strings.Join(args, ", ") + ")", nil
}

func escapeFormat(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

func loopLabel(label string) string {
	if label == "" {
		return ""
	}
	return "'" + label + ": "
}

func (t *Transpiler) lowerPattern(pat ast.Pattern) (string, error) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return "_", nil
	case *ast.IdentifierPattern:
		return p.Name, nil
	case *ast.LiteralPattern:
		return t.lowerExpression(p.Value)
	case *ast.TuplePattern:
		parts := make([]string, len(p.Elements))
		for i, el := range p.Elements {
			code, err := t.lowerPattern(el)
			if err != nil {
				return "", err
			}
			parts[i] = code
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case *ast.ListPattern:
		parts := make([]string, 0, len(p.Elements)+1)
		for _, el := range p.Elements {
			code, err := t.lowerPattern(el)
			if err != nil {
				return "", err
			}
			parts = append(parts, code)
		}
		if p.HasRest {
			if p.Rest != "" {
				parts = append(parts, p.Rest+" @ ..")
			} else {
				parts = append(parts, "..")
			}
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ast.StructPattern:
		parts := make([]string, 0, len(p.Fields)+1)
		for _, f := range p.Fields {
			if f.Pattern == nil {
				parts = append(parts, f.Name)
				continue
			}
			code, err := t.lowerPattern(f.Pattern)
			if err != nil {
				return "", err
			}
			parts = append(parts, f.Name+": "+code)
		}
		if p.HasRest {
			parts = append(parts, "..")
		}
		return p.Name + " { " + strings.Join(parts, ", ") + " }", nil
	case *ast.EnumPattern:
		name := p.Variant
		if p.EnumName != "" {
			name = p.EnumName + "::" + p.Variant
		}
		if len(p.Elements) == 0 {
			return name, nil
		}
		parts := make([]string, len(p.Elements))
		for i, el := range p.Elements {
			code, err := t.lowerPattern(el)
			if err != nil {
				return "", err
			}
			parts[i] = code
		}
		return name + "(" + strings.Join(parts, ", ") + ")", nil
	case *ast.RangePattern:
		start, err := t.lowerExpression(p.Start)
		if err != nil {
			return "", err
		}
		end, err := t.lowerExpression(p.End)
		if err != nil {
			return "", err
		}
		if p.Inclusive {
			return start + "..=" + end, nil
		}
		return start + ".." + end, nil
	case *ast.OrPattern:
		parts := make([]string, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			code, err := t.lowerPattern(alt)
			if err != nil {
				return "", err
			}
			parts[i] = code
		}
		return strings.Join(parts, " | "), nil
	default:
		return "", unsupported(pat, "this pattern")
	}
}
