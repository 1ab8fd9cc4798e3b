package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
)

// matchPattern attempts to match a value against a pattern, collecting
// bindings. Arms are decided in source order by the callers; this only
// answers one pattern.
func (e *Evaluator) matchPattern(pat ast.Pattern, val Object, bindings map[string]Object) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentifierPattern:
		bindings[p.Name] = val
		return true

	case *ast.LiteralPattern:
		lit := e.Eval(p.Value, NewEnvironment())
		if isSignal(lit) {
			return false
		}
		return objectsEqual(lit, val)

	case *ast.TuplePattern:
		tup, ok := val.(*Tuple)
		if !ok || len(tup.Elements) != len(p.Elements) {
			return false
		}
		for i, el := range p.Elements {
			if !e.matchPattern(el, tup.Elements[i], bindings) {
				return false
			}
		}
		return true

	case *ast.ListPattern:
		list, ok := val.(*List)
		if !ok {
			return false
		}
		if p.HasRest {
			if len(list.Elements) < len(p.Elements) {
				return false
			}
		} else if len(list.Elements) != len(p.Elements) {
			return false
		}
		for i, el := range p.Elements {
			if !e.matchPattern(el, list.Elements[i], bindings) {
				return false
			}
		}
		if p.HasRest && p.Rest != "" {
			rest := append([]Object(nil), list.Elements[len(p.Elements):]...)
			bindings[p.Rest] = &List{Elements: rest}
		}
		return true

	case *ast.StructPattern:
		rec, ok := val.(*Record)
		if !ok {
			return false
		}
		if p.Name != "" && rec.TypeName != p.Name {
			return false
		}
		if !p.HasRest && len(p.Fields) != len(rec.Fields) {
			return false
		}
		for _, field := range p.Fields {
			fv, ok := rec.Get(field.Name)
			if !ok {
				return false
			}
			if field.Pattern == nil {
				bindings[field.Name] = fv
				continue
			}
			if !e.matchPattern(field.Pattern, fv, bindings) {
				return false
			}
		}
		return true

	case *ast.EnumPattern:
		ev, ok := val.(*EnumVariant)
		if !ok {
			return false
		}
		if ev.Variant != p.Variant {
			return false
		}
		if p.EnumName != "" && ev.EnumName != "" && ev.EnumName != p.EnumName {
			return false
		}
		if len(p.Elements) != len(ev.Values) {
			return false
		}
		for i, el := range p.Elements {
			if !e.matchPattern(el, ev.Values[i], bindings) {
				return false
			}
		}
		return true

	case *ast.RangePattern:
		return e.matchRangePattern(p, val)

	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			trial := make(map[string]Object)
			if e.matchPattern(alt, val, trial) {
				for k, v := range trial {
					bindings[k] = v
				}
				return true
			}
		}
		return false
	}
	return false
}

func (e *Evaluator) matchRangePattern(p *ast.RangePattern, val Object) bool {
	start := e.Eval(p.Start, NewEnvironment())
	end := e.Eval(p.End, NewEnvironment())
	if isSignal(start) || isSignal(end) {
		return false
	}
	switch v := val.(type) {
	case *Integer:
		s, okS := start.(*Integer)
		en, okE := end.(*Integer)
		if !okS || !okE {
			return false
		}
		if p.Inclusive {
			return v.Value >= s.Value && v.Value <= en.Value
		}
		return v.Value >= s.Value && v.Value < en.Value
	case *Char:
		s, okS := start.(*Char)
		en, okE := end.(*Char)
		if !okS || !okE {
			return false
		}
		if p.Inclusive {
			return v.Value >= s.Value && v.Value <= en.Value
		}
		return v.Value >= s.Value && v.Value < en.Value
	case *Float:
		sf, okS := toFloat(start)
		ef, okE := toFloat(end)
		if !okS || !okE {
			return false
		}
		if p.Inclusive {
			return v.Value >= sf && v.Value <= ef
		}
		return v.Value >= sf && v.Value < ef
	}
	return false
}
