package parser

import (
	"testing"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.Tokenize(input))
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		for _, err := range p.Errors() {
			t.Errorf("parser error: %s", err)
		}
		t.FailNow()
	}
	return program
}

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	program := parseProgram(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	es, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", program.Statements[0])
	}
	return es.Expression
}

func TestLetStatements(t *testing.T) {
	program := parseProgram(t, `
		let x = 5
		let mut y: i64 = 10
		let name = "ruvy"
	`)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}

	first := program.Statements[0].(*ast.LetStatement)
	if first.Name.Value != "x" || first.Mutable {
		t.Errorf("let x parsed wrong: name=%q mutable=%v", first.Name.Value, first.Mutable)
	}

	second := program.Statements[1].(*ast.LetStatement)
	if !second.Mutable {
		t.Error("let mut y should be mutable")
	}
	if second.TypeAnnotation != "i64" {
		t.Errorf("type annotation = %q, want i64", second.TypeAnnotation)
	}
}

func TestLetDestructuring(t *testing.T) {
	program := parseProgram(t, `let (a, b) = (1, 2)`)
	stmt, ok := program.Statements[0].(*ast.LetPatternStatement)
	if !ok {
		t.Fatalf("expected LetPatternStatement, got %T", program.Statements[0])
	}
	tuple, ok := stmt.Pattern.(*ast.TuplePattern)
	if !ok {
		t.Fatalf("expected TuplePattern, got %T", stmt.Pattern)
	}
	if len(tuple.Elements) != 2 {
		t.Fatalf("expected 2 pattern elements, got %d", len(tuple.Elements))
	}
	if got := PatternBindings(stmt.Pattern); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("bindings = %v, want [a b]", got)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string // top-level operator
	}{
		{"1 + 2 * 3", "+"},
		{"1 * 2 + 3", "+"},
		{"a == b && c == d", "&&"},
		{"a && b || c", "||"},
		{"1 + 2 < 3 + 4", "<"},
		{"a & b | c", "|"},
		{"1 << 2 + 3", "<<"},
	}
	for _, tt := range tests {
		expr := parseExpr(t, tt.input)
		infix, ok := expr.(*ast.InfixExpression)
		if !ok {
			t.Fatalf("%q: expected InfixExpression, got %T", tt.input, expr)
		}
		if infix.Operator != tt.want {
			t.Errorf("%q: top operator = %q, want %q", tt.input, infix.Operator, tt.want)
		}
	}
}

func TestIfElseChain(t *testing.T) {
	expr := parseExpr(t, `if x < 0 { -1 } else if x == 0 { 0 } else { 1 }`)
	ifExpr, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected IfExpression, got %T", expr)
	}
	nested, ok := ifExpr.Alternative.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected nested IfExpression alternative, got %T", ifExpr.Alternative)
	}
	if nested.Alternative == nil {
		t.Error("inner if should carry the final else")
	}
}

func TestIfConditionIsNotStructLiteral(t *testing.T) {
	// `if x { 1 }` must parse the brace as the consequence, not a struct
	// literal argument to the condition.
	program := parseProgram(t, `if Ready { 1 } else { 2 }`)
	es := program.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := es.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected IfExpression, got %T", es.Expression)
	}
	if _, ok := ifExpr.Condition.(*ast.Identifier); !ok {
		t.Errorf("condition should be a bare identifier, got %T", ifExpr.Condition)
	}
}

func TestStructLiteral(t *testing.T) {
	expr := parseExpr(t, `Point { x: 1, y: 2 }`)
	lit, ok := expr.(*ast.StructLiteral)
	if !ok {
		t.Fatalf("expected StructLiteral, got %T", expr)
	}
	if lit.Name != "Point" || len(lit.Fields) != 2 {
		t.Errorf("struct literal = %s with %d fields", lit.Name, len(lit.Fields))
	}
}

func TestRecordVsBlock(t *testing.T) {
	rec := parseExpr(t, `{ name: "a", age: 3 }`)
	if _, ok := rec.(*ast.RecordLiteral); !ok {
		t.Errorf("expected RecordLiteral, got %T", rec)
	}

	blk := parseExpr(t, `{ let x = 1; x + 1 }`)
	if _, ok := blk.(*ast.BlockExpression); !ok {
		t.Errorf("expected BlockExpression, got %T", blk)
	}
}

func TestFunctionStatement(t *testing.T) {
	program := parseProgram(t, `
		/// Adds two numbers.
		pub fun add(a: i64, b: i64) -> i64 { a + b }
	`)
	fn, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("expected FunctionStatement, got %T", program.Statements[0])
	}
	if !fn.Pub {
		t.Error("pub flag lost")
	}
	if fn.DocComment != "Adds two numbers." {
		t.Errorf("doc comment = %q", fn.DocComment)
	}
	if len(fn.Params) != 2 || fn.Params[0].TypeAnnotation != "i64" {
		t.Errorf("params parsed wrong: %+v", fn.Params)
	}
}

func TestVariadicParams(t *testing.T) {
	program := parseProgram(t, `fun join(sep, ...parts) { parts }`)
	fn := program.Statements[0].(*ast.FunctionStatement)
	if !fn.Variadic() {
		t.Fatal("expected variadic function")
	}
	if !fn.Params[1].Variadic {
		t.Error("last param should carry the variadic flag")
	}
}

func TestLambdas(t *testing.T) {
	expr := parseExpr(t, `|a, b| a + b`)
	lambda, ok := expr.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expected LambdaExpression, got %T", expr)
	}
	if len(lambda.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(lambda.Params))
	}

	empty := parseExpr(t, `|| 42`)
	el, ok := empty.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expected LambdaExpression, got %T", empty)
	}
	if len(el.Params) != 0 {
		t.Errorf("expected no params, got %d", len(el.Params))
	}
}

func TestMatchExpression(t *testing.T) {
	expr := parseExpr(t, `
		match x {
			0 => "zero",
			1 | 2 => "small",
			n if n > 100 => "big",
			_ => "other",
		}
	`)
	m, ok := expr.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected MatchExpression, got %T", expr)
	}
	if len(m.Arms) != 4 {
		t.Fatalf("expected 4 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[1].Pattern.(*ast.OrPattern); !ok {
		t.Errorf("arm 1 should be OrPattern, got %T", m.Arms[1].Pattern)
	}
	if m.Arms[2].Guard == nil {
		t.Error("arm 2 should carry a guard")
	}
	if _, ok := m.Arms[3].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("arm 3 should be WildcardPattern, got %T", m.Arms[3].Pattern)
	}
}

func TestEnumPatterns(t *testing.T) {
	expr := parseExpr(t, `match s { Shape::Circle(r) => r, Shape::Point => 0 }`)
	m := expr.(*ast.MatchExpression)
	circle := m.Arms[0].Pattern.(*ast.EnumPattern)
	if circle.EnumName != "Shape" || circle.Variant != "Circle" || len(circle.Elements) != 1 {
		t.Errorf("circle pattern parsed wrong: %+v", circle)
	}
}

func TestListRestPattern(t *testing.T) {
	expr := parseExpr(t, `match xs { [first, ..rest] => first, [] => 0 }`)
	m := expr.(*ast.MatchExpression)
	lp := m.Arms[0].Pattern.(*ast.ListPattern)
	if !lp.HasRest || lp.Rest != "rest" || len(lp.Elements) != 1 {
		t.Errorf("rest pattern parsed wrong: %+v", lp)
	}
}

func TestRangesAndSlices(t *testing.T) {
	r := parseExpr(t, `1..10`)
	rng, ok := r.(*ast.RangeExpression)
	if !ok || rng.Inclusive {
		t.Fatalf("expected exclusive RangeExpression, got %T", r)
	}

	ri := parseExpr(t, `1..=10`)
	if !ri.(*ast.RangeExpression).Inclusive {
		t.Error("..= should be inclusive")
	}

	s := parseExpr(t, `xs[1..3]`)
	slice, ok := s.(*ast.SliceExpression)
	if !ok {
		t.Fatalf("expected SliceExpression, got %T", s)
	}
	if slice.Start == nil || slice.End == nil {
		t.Error("slice bounds missing")
	}

	open := parseExpr(t, `xs[1..]`)
	if open.(*ast.SliceExpression).End != nil {
		t.Error("open slice should leave End nil")
	}

	idx := parseExpr(t, `xs[0]`)
	if _, ok := idx.(*ast.IndexExpression); !ok {
		t.Errorf("expected IndexExpression, got %T", idx)
	}
}

func TestMethodCallAndFieldAccess(t *testing.T) {
	mc := parseExpr(t, `xs.map(f).len()`)
	outer, ok := mc.(*ast.MethodCallExpression)
	if !ok {
		t.Fatalf("expected MethodCallExpression, got %T", mc)
	}
	if outer.Method != "len" {
		t.Errorf("outer method = %q", outer.Method)
	}
	inner, ok := outer.Receiver.(*ast.MethodCallExpression)
	if !ok || inner.Method != "map" {
		t.Fatalf("inner receiver parsed wrong: %T", outer.Receiver)
	}

	fa := parseExpr(t, `p.x`)
	if _, ok := fa.(*ast.FieldAccessExpression); !ok {
		t.Errorf("expected FieldAccessExpression, got %T", fa)
	}
}

func TestPathExpression(t *testing.T) {
	expr := parseExpr(t, `Color::Red`)
	path, ok := expr.(*ast.PathExpression)
	if !ok {
		t.Fatalf("expected PathExpression, got %T", expr)
	}
	if len(path.Segments) != 2 || path.Segments[0] != "Color" || path.Segments[1] != "Red" {
		t.Errorf("segments = %v", path.Segments)
	}

	call := parseExpr(t, `Shape::Circle(2.5)`)
	ce, ok := call.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", call)
	}
	if _, ok := ce.Function.(*ast.PathExpression); !ok {
		t.Errorf("call target should be a PathExpression, got %T", ce.Function)
	}
}

func TestImports(t *testing.T) {
	program := parseProgram(t, `
		import std::fs
		import std::collections::{HashMap, HashSet as Set}
		import std::env::*
	`)
	first := program.Statements[0].(*ast.ImportStatement)
	// Single trailing segment collapses into an item import.
	if len(first.Path) != 1 || first.Path[0] != "std" {
		t.Errorf("collapsed path = %v", first.Path)
	}
	if len(first.Items) != 1 || first.Items[0].Name != "fs" {
		t.Errorf("collapsed items = %+v", first.Items)
	}

	second := program.Statements[1].(*ast.ImportStatement)
	if len(second.Items) != 2 || second.Items[1].Alias != "Set" {
		t.Errorf("grouped import parsed wrong: %+v", second.Items)
	}

	third := program.Statements[2].(*ast.ImportStatement)
	if !third.Wildcard {
		t.Error("wildcard import lost")
	}
}

func TestTryCatchFinally(t *testing.T) {
	expr := parseExpr(t, `
		try { risky() } catch e if e == "io" { 1 } catch _ { 2 } finally { cleanup() }
	`)
	te, ok := expr.(*ast.TryExpression)
	if !ok {
		t.Fatalf("expected TryExpression, got %T", expr)
	}
	if len(te.Catches) != 2 {
		t.Fatalf("expected 2 catch clauses, got %d", len(te.Catches))
	}
	if te.Catches[0].Guard == nil {
		t.Error("first catch should carry a guard")
	}
	if te.Finally == nil {
		t.Error("finally block lost")
	}
}

func TestActorDeclaration(t *testing.T) {
	program := parseProgram(t, `
		actor Counter {
			count: i64,
			receive incr(by) { count = count + by }
			receive get() { count }
		}
	`)
	act, ok := program.Statements[0].(*ast.ActorStatement)
	if !ok {
		t.Fatalf("expected ActorStatement, got %T", program.Statements[0])
	}
	if len(act.Fields) != 1 || len(act.Handlers) != 2 {
		t.Errorf("actor parsed wrong: %d fields, %d handlers", len(act.Fields), len(act.Handlers))
	}
}

func TestSendAskRewrite(t *testing.T) {
	send := parseExpr(t, `send(h, incr(1))`)
	if _, ok := send.(*ast.SendExpression); !ok {
		t.Errorf("expected SendExpression, got %T", send)
	}
	ask := parseExpr(t, `ask(h, get())`)
	if _, ok := ask.(*ast.AskExpression); !ok {
		t.Errorf("expected AskExpression, got %T", ask)
	}
	// Arity mismatch stays a plain call.
	plain := parseExpr(t, `send(h)`)
	if _, ok := plain.(*ast.CallExpression); !ok {
		t.Errorf("expected CallExpression, got %T", plain)
	}
}

func TestSpawnExpression(t *testing.T) {
	expr := parseExpr(t, `spawn Counter { count: 0 }`)
	sp, ok := expr.(*ast.SpawnExpression)
	if !ok {
		t.Fatalf("expected SpawnExpression, got %T", expr)
	}
	if sp.Actor != "Counter" || len(sp.Fields) != 1 {
		t.Errorf("spawn parsed wrong: %+v", sp)
	}
}

func TestInterpolatedString(t *testing.T) {
	expr := parseExpr(t, `f"sum is {a + b}!"`)
	is, ok := expr.(*ast.InterpolatedString)
	if !ok {
		t.Fatalf("expected InterpolatedString, got %T", expr)
	}
	if len(is.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(is.Parts))
	}
	if _, ok := is.Parts[1].(*ast.InfixExpression); !ok {
		t.Errorf("middle part should be the expression, got %T", is.Parts[1])
	}
}

func TestCompoundAssignAndIncDec(t *testing.T) {
	program := parseProgram(t, `
		x += 2
		y[0] -= 1
		p.count += 1
		i++
	`)
	if _, ok := program.Statements[0].(*ast.CompoundAssignStatement); !ok {
		t.Errorf("expected CompoundAssignStatement, got %T", program.Statements[0])
	}
	if _, ok := program.Statements[3].(*ast.IncDecStatement); !ok {
		t.Errorf("expected IncDecStatement, got %T", program.Statements[3])
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	p := New(lexer.Tokenize(`1 + 2 = 3`))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a diagnostic for invalid assignment target")
	}
}

func TestErrorRecovery(t *testing.T) {
	// A broken statement must not swallow the rest of the file.
	p := New(lexer.Tokenize(`let = 5; let ok = 1`))
	program := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected diagnostics for the broken let")
	}
	found := false
	for _, stmt := range program.Statements {
		if ls, ok := stmt.(*ast.LetStatement); ok && ls.Name != nil && ls.Name.Value == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("parser did not recover to the following statement")
	}
}

func TestDeepNestingIsBounded(t *testing.T) {
	input := ""
	for i := 0; i < MaxRecursionDepth+10; i++ {
		input += "("
	}
	input += "1"
	p := New(lexer.Tokenize(input))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a depth limit diagnostic")
	}
}
