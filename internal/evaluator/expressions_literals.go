package evaluator

import (
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := builtins[node.Value]; ok {
		return builtin
	}
	return e.attachTrace(newError(UnboundVariable, node.Token, "undefined variable '%s'", node.Value))
}

// evalPathExpression resolves Enum::Variant references. Variants with a
// payload resolve to a constructor via evalCallExpression.
func (e *Evaluator) evalPathExpression(node *ast.PathExpression, env *Environment) Object {
	if len(node.Segments) == 2 {
		if decl, ok := e.enums[node.Segments[0]]; ok {
			for _, v := range decl.Variants {
				if v.Name == node.Segments[1] {
					return &EnumVariant{EnumName: decl.Name.Value, Variant: v.Name}
				}
			}
			return e.attachTrace(newError(UnboundVariable, node.Token,
				"enum %s has no variant %s", node.Segments[0], node.Segments[1]))
		}
	}
	// Module member access falls back to a plain lookup on the joined
	// name, matching how imports bind members.
	joined := strings.Join(node.Segments, "::")
	if val, ok := env.Get(joined); ok {
		return val
	}
	if val, ok := env.Get(node.Segments[len(node.Segments)-1]); ok {
		return val
	}
	return e.attachTrace(newError(UnboundVariable, node.Token, "undefined path '%s'", joined))
}

func (e *Evaluator) evalInterpolatedString(node *ast.InterpolatedString, env *Environment) Object {
	var sb strings.Builder
	for _, part := range node.Parts {
		val := e.Eval(part, env)
		if isSignal(val) {
			return val
		}
		sb.WriteString(val.Inspect())
	}
	e.countAlloc(1)
	return &Str{Value: sb.String()}
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, env *Environment) Object {
	elements := make([]Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val := e.Eval(el, env)
		if isSignal(val) {
			return val
		}
		elements = append(elements, val)
	}
	e.countAlloc(int64(len(elements)) + 1)
	return &List{Elements: elements}
}

func (e *Evaluator) evalTupleLiteral(node *ast.TupleLiteral, env *Environment) Object {
	elements := make([]Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val := e.Eval(el, env)
		if isSignal(val) {
			return val
		}
		elements = append(elements, val)
	}
	e.countAlloc(int64(len(elements)) + 1)
	return &Tuple{Elements: elements}
}

func (e *Evaluator) evalRecordLiteral(node *ast.RecordLiteral, env *Environment) Object {
	rec := NewRecord("")
	for _, field := range node.Fields {
		val := e.Eval(field.Value, env)
		if isSignal(val) {
			return val
		}
		rec.Set(field.Key, val)
	}
	e.countAlloc(int64(len(node.Fields)) + 1)
	return rec
}

func (e *Evaluator) evalStructLiteral(node *ast.StructLiteral, env *Environment) Object {
	rec := NewRecord(node.Name)
	if decl, ok := e.structs[node.Name]; ok {
		declared := make(map[string]bool, len(decl.Fields))
		for _, f := range decl.Fields {
			declared[f.Name] = true
		}
		for _, field := range node.Fields {
			if !declared[field.Key] {
				return e.attachTrace(newError(TypeError, node.Token,
					"struct %s has no field '%s'", node.Name, field.Key))
			}
		}
	}
	for _, field := range node.Fields {
		val := e.Eval(field.Value, env)
		if isSignal(val) {
			return val
		}
		rec.Set(field.Key, val)
	}
	e.countAlloc(int64(len(node.Fields)) + 1)
	return rec
}

func (e *Evaluator) evalRangeExpression(node *ast.RangeExpression, env *Environment) Object {
	r := &Range{Inclusive: node.Inclusive}
	if node.Start != nil {
		start := e.Eval(node.Start, env)
		if isSignal(start) {
			return start
		}
		i, ok := start.(*Integer)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "range start must be an integer, got %s", start.Type()))
		}
		r.Start = i.Value
	}
	if node.End != nil {
		end := e.Eval(node.End, env)
		if isSignal(end) {
			return end
		}
		i, ok := end.(*Integer)
		if !ok {
			return e.attachTrace(newError(TypeError, node.Token, "range end must be an integer, got %s", end.Type()))
		}
		r.End = i.Value
	}
	return r
}
