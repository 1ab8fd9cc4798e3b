package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
)

func parseSource(t *testing.T, src string) *parser.Parser {
	t.Helper()
	return parser.New(lexer.Tokenize(src))
}

func compileSource(t *testing.T, src string) *Chunk {
	t.Helper()
	p := parseSource(t, src)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	chunk, err := Compile(program)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return chunk
}

func runSource(t *testing.T, src string) evaluator.Object {
	t.Helper()
	return NewVM().Run(compileSource(t, src))
}

func wantInt(t *testing.T, obj evaluator.Object, want int64) {
	t.Helper()
	n, ok := obj.(*evaluator.Integer)
	if !ok {
		t.Fatalf("want Int %d, got %s (%s)", want, obj.Inspect(), obj.Type())
	}
	if n.Value != want {
		t.Fatalf("want %d, got %d", want, n.Value)
	}
}

func wantStr(t *testing.T, obj evaluator.Object, want string) {
	t.Helper()
	s, ok := obj.(*evaluator.Str)
	if !ok {
		t.Fatalf("want Str %q, got %s (%s)", want, obj.Inspect(), obj.Type())
	}
	if s.Value != want {
		t.Fatalf("want %q, got %q", want, s.Value)
	}
}

func wantBool(t *testing.T, obj evaluator.Object, want bool) {
	t.Helper()
	b, ok := obj.(*evaluator.Boolean)
	if !ok {
		t.Fatalf("want Bool %v, got %s (%s)", want, obj.Inspect(), obj.Type())
	}
	if b.Value != want {
		t.Fatalf("want %v, got %v", want, b.Value)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 - 4 / 2", 8},
		{"7 % 3", 1},
		{"-5 + 3", -2},
		{"6 & 3", 2},
		{"6 | 3", 7},
		{"6 ^ 3", 5},
		{"1 << 4", 16},
		{"~0", -1},
	}
	for _, tt := range tests {
		wantInt(t, runSource(t, tt.src), tt.want)
	}
}

func TestComparisonAndLogic(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 <= 1", false},
		{"3 > 2 && 2 > 1", true},
		{"1 > 2 || 2 > 1", true},
		{"!(1 == 1)", false},
		{`"a" != "b"`, true},
		{"[1, 2] == [1, 2]", true},
	}
	for _, tt := range tests {
		wantBool(t, runSource(t, tt.src), tt.want)
	}
}

func TestShortCircuit(t *testing.T) {
	// The right operand of && must not run when the left is false;
	// boom() would raise if it did.
	result := runSource(t, `
		fun boom() { 1 / 0 }
		false && boom() == 1
	`)
	wantBool(t, result, false)

	result = runSource(t, `
		fun boom() { 1 / 0 }
		true || boom() == 1
	`)
	wantBool(t, result, true)
}

func TestGlobals(t *testing.T) {
	wantInt(t, runSource(t, "let x = 5\nx + 1"), 6)
	wantInt(t, runSource(t, "let mut x = 1\nx = x + 10\nx"), 11)
}

func TestImmutableAssignmentRejected(t *testing.T) {
	p := parseSource(t, "let x = 5\nx = 6")
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	_, err := Compile(program)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("want compile rejection, got %v", err)
	}
}

func TestStringConcat(t *testing.T) {
	wantStr(t, runSource(t, `"foo" + "bar"`), "foobar")
}

func TestIfElse(t *testing.T) {
	wantStr(t, runSource(t, `
		let x = 10
		if x > 5 { "big" } else { "small" }
	`), "big")
	wantStr(t, runSource(t, `
		let x = 3
		if x > 5 { "big" } else { "small" }
	`), "small")
	// An if without an alternative yields Unit when the condition fails.
	result := runSource(t, "if false { 1 }")
	if result != evaluator.UNIT {
		t.Fatalf("want Unit, got %s", result.Inspect())
	}
}

func TestWhileLoop(t *testing.T) {
	wantInt(t, runSource(t, `
		let mut i = 0
		let mut total = 0
		while i < 5 {
			total = total + i
			i = i + 1
		}
		total
	`), 10)
}

func TestWhileBreakAndContinue(t *testing.T) {
	wantInt(t, runSource(t, `
		let mut i = 0
		let mut total = 0
		while true {
			i = i + 1
			if i > 10 { break }
			if i % 2 == 0 { continue }
			total = total + i
		}
		total
	`), 25)
}

func TestFunctionCall(t *testing.T) {
	wantInt(t, runSource(t, `
		fun add(a, b) { a + b }
		add(2, 3)
	`), 5)
}

func TestFunctionLocals(t *testing.T) {
	wantInt(t, runSource(t, `
		fun calc(n) {
			let doubled = n * 2
			let tripled = n * 3
			doubled + tripled
		}
		calc(4)
	`), 20)
}

func TestArityMismatch(t *testing.T) {
	result := runSource(t, `
		fun add(a, b) { a + b }
		add(1)
	`)
	err, ok := result.(*evaluator.Error)
	if !ok {
		t.Fatalf("want arity error, got %s", result.Inspect())
	}
	if err.Kind != evaluator.ArityError {
		t.Fatalf("want ArityError, got %s", err.Kind)
	}
	if !strings.Contains(err.Message, "expects 2 arguments, got 1") {
		t.Fatalf("unexpected message: %s", err.Message)
	}
}

func TestRecursion(t *testing.T) {
	wantInt(t, runSource(t, `
		fun fib(n) {
			if n < 2 { return n }
			fib(n - 1) + fib(n - 2)
		}
		fib(15)
	`), 610)
}

func TestTailCallDepth(t *testing.T) {
	// Self-recursion in tail position reuses the frame; this depth would
	// overflow a frame-per-call scheme.
	wantInt(t, runSource(t, `
		fun count(n, acc) {
			if n == 0 { return acc }
			return count(n - 1, acc + n)
		}
		count(100000, 0)
	`), 5000050000)
}

func TestBuiltinCall(t *testing.T) {
	wantInt(t, runSource(t, `len([1, 2, 3])`), 3)
	wantStr(t, runSource(t, `type_of(42)`), "Int")
}

func TestClosureCapture(t *testing.T) {
	wantInt(t, runSource(t, `
		fun make(n) {
			fun inner() { n + 1 }
			return inner
		}
		let f = make(4)
		f()
	`), 5)
}

func TestClosureMutation(t *testing.T) {
	wantInt(t, runSource(t, `
		fun counter() {
			let mut c = 0
			fun bump() {
				c = c + 1
				return c
			}
			return bump
		}
		let b = counter()
		b()
		b()
		b()
	`), 3)
}

func TestLambda(t *testing.T) {
	wantInt(t, runSource(t, `
		let double = |x| x * 2
		double(21)
	`), 42)
}

func TestListConstructionAndIndexing(t *testing.T) {
	wantInt(t, runSource(t, "let xs = [10, 20, 30]\nxs[1]"), 20)
	wantInt(t, runSource(t, "let xs = [10, 20, 30]\nxs[-1]"), 30)
	wantInt(t, runSource(t, "let xs = [1, 2, 3]\nxs[0] = 9\nxs[0]"), 9)
}

func TestIndexOutOfBounds(t *testing.T) {
	result := runSource(t, "let xs = [1]\nxs[5]")
	err, ok := result.(*evaluator.Error)
	if !ok || err.Kind != evaluator.IndexOutOfBounds {
		t.Fatalf("want IndexOutOfBounds, got %s", result.Inspect())
	}
}

func TestTupleConstruction(t *testing.T) {
	result := runSource(t, "let p = (1, 2, 3)\np[2]")
	wantInt(t, result, 3)
}

func TestRecordFields(t *testing.T) {
	wantInt(t, runSource(t, `
		let p = { x: 1, y: 2 }
		p.x + p.y
	`), 3)
	wantInt(t, runSource(t, `
		let p = { x: 1 }
		p.x = 41
		p.x + 1
	`), 42)
}

func TestBlockExpressionValue(t *testing.T) {
	// Locals declared in the block die with it; the block's final
	// expression survives as its value.
	wantInt(t, runSource(t, `
		let v = {
			let a = 2
			let b = 3
			a * b
		}
		v + 1
	`), 7)
}

func TestHybridFor(t *testing.T) {
	wantInt(t, runSource(t, `
		let mut total = 0
		for i in 0..5 {
			total = total + i
		}
		total
	`), 10)
}

func TestHybridForWritesBackLocals(t *testing.T) {
	// The loop runs inside a function, so total lives in a frame slot;
	// the mutation must land back in the slot.
	wantInt(t, runSource(t, `
		fun sum(limit) {
			let mut total = 0
			for i in 0..limit {
				total = total + i
			}
			return total
		}
		sum(4)
	`), 6)
}

func TestHybridMethodCall(t *testing.T) {
	result := runSource(t, `
		let xs = [1, 2, 3]
		xs.map(|x| x * 2)
	`)
	list, ok := result.(*evaluator.List)
	if !ok {
		t.Fatalf("want List, got %s", result.Inspect())
	}
	if list.Inspect() != "[2, 4, 6]" {
		t.Fatalf("want [2, 4, 6], got %s", list.Inspect())
	}
}

func TestHybridMethodCallOnFrameLocal(t *testing.T) {
	wantInt(t, runSource(t, `
		fun total(xs) {
			xs.reduce(0, |acc, x| acc + x)
		}
		total([1, 2, 3, 4])
	`), 10)
}

func TestHybridMatch(t *testing.T) {
	wantStr(t, runSource(t, `
		let n = 3
		match n {
			1 => "one",
			2 | 3 => "few",
			_ => "many",
		}
	`), "few")
}

func TestHybridMatchSeesFrameLocals(t *testing.T) {
	wantStr(t, runSource(t, `
		fun describe(n) {
			let threshold = 10
			match n {
				x if x > threshold => "big",
				_ => "small",
			}
		}
		describe(50)
	`), "big")
}

func TestTryCatchesThrow(t *testing.T) {
	wantStr(t, runSource(t, `
		try {
			throw "boom"
		} catch e {
			e
		}
	`), "boom")
}

func TestTryCatchesRuntimeError(t *testing.T) {
	// The handler receives the error message as a string.
	wantStr(t, runSource(t, `
		try {
			1 / 0
		} catch e {
			e
		}
	`), "division by zero")
}

func TestTryPassesThroughOnSuccess(t *testing.T) {
	wantInt(t, runSource(t, `
		try { 40 + 2 } catch e { 0 }
	`), 42)
}

func TestTryUnwindsNestedFrames(t *testing.T) {
	// The throw happens two call frames below the handler.
	wantStr(t, runSource(t, `
		fun inner() { throw "deep" }
		fun outer() { inner() }
		try {
			outer()
		} catch e {
			e
		}
	`), "deep")
}

func TestUncaughtThrow(t *testing.T) {
	result := runSource(t, `throw "loose"`)
	err, ok := result.(*evaluator.Error)
	if !ok || err.Kind != evaluator.UserThrow {
		t.Fatalf("want UserThrow, got %s", result.Inspect())
	}
	if !strings.Contains(err.Message, "loose") {
		t.Fatalf("thrown value missing from message: %s", err.Message)
	}
}

func TestUncaughtDivisionByZero(t *testing.T) {
	result := runSource(t, "1 / 0")
	err, ok := result.(*evaluator.Error)
	if !ok || err.Kind != evaluator.DivisionByZero {
		t.Fatalf("want DivisionByZero, got %s", result.Inspect())
	}
}

func TestUndefinedVariable(t *testing.T) {
	result := runSource(t, "nowhere + 1")
	err, ok := result.(*evaluator.Error)
	if !ok || err.Kind != evaluator.UnboundVariable {
		t.Fatalf("want UnboundVariable, got %s", result.Inspect())
	}
}

func TestCompilerRejectsRicherPrograms(t *testing.T) {
	// Shapes the bytecode backend does not express compile to
	// ErrUnsupported so the caller can fall back to the tree walk.
	sources := []string{
		"async { 1 }",
		"fun f(...xs) { xs }",
		"let mut i = 0\nwhile true { break 5 }",
		`try { 1 } catch e { 2 } finally { 3 }`,
	}
	for _, src := range sources {
		p := parseSource(t, src)
		program := p.ParseProgram()
		if len(p.Errors()) > 0 {
			t.Fatalf("parse error in %q: %s", src, p.Errors()[0].Error())
		}
		if _, err := Compile(program); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%q: want ErrUnsupported, got %v", src, err)
		}
	}
}

func TestSharedGlobalsWithEvaluator(t *testing.T) {
	vm := NewVM()
	result := vm.Run(compileSource(t, "let answer = 42\nanswer"))
	wantInt(t, result, 42)
	val, ok := vm.Evaluator().GlobalEnv.Get("answer")
	if !ok {
		t.Fatal("global not visible to the shared evaluator")
	}
	wantInt(t, val, 42)
}

func TestScriptResultIsLastExpression(t *testing.T) {
	wantInt(t, runSource(t, "1\n2\n3"), 3)
	result := runSource(t, "let x = 1")
	if result != evaluator.UNIT {
		t.Fatalf("a script of declarations yields Unit, got %s", result.Inspect())
	}
}
