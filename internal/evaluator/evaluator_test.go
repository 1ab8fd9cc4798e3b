package evaluator

import (
	"bytes"
	"testing"
	"time"
)

func testEval(t *testing.T, input string) Object {
	t.Helper()
	e := New()
	e.Out = &bytes.Buffer{}
	return e.EvalSource(input)
}

func wantInteger(t *testing.T, obj Object, want int64) {
	t.Helper()
	i, ok := obj.(*Integer)
	if !ok {
		t.Fatalf("expected Integer, got %T (%s)", obj, obj.Inspect())
	}
	if i.Value != want {
		t.Errorf("value = %d, want %d", i.Value, want)
	}
}

func wantStr(t *testing.T, obj Object, want string) {
	t.Helper()
	s, ok := obj.(*Str)
	if !ok {
		t.Fatalf("expected String, got %T (%s)", obj, obj.Inspect())
	}
	if s.Value != want {
		t.Errorf("value = %q, want %q", s.Value, want)
	}
}

func wantError(t *testing.T, obj Object, kind ErrorKind) *Error {
	t.Helper()
	err, ok := obj.(*Error)
	if !ok {
		t.Fatalf("expected Error, got %T (%s)", obj, obj.Inspect())
	}
	if err.Kind != kind {
		t.Errorf("error kind = %s, want %s", err.Kind, kind)
	}
	return err
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"2 + 3", 5},
		{"10 - 4 * 2", 2},
		{"(10 - 4) * 2", 12},
		{"7 / 2", 3},
		{"7 % 3", 1},
		{"-5 + 10", 5},
		{"1 << 4", 16},
		{"255 & 15", 15},
		{"8 | 1", 9},
		{"5 ^ 3", 6},
	}
	for _, tt := range tests {
		wantInteger(t, testEval(t, tt.input), tt.want)
	}
}

func TestFloatPromotion(t *testing.T) {
	result := testEval(t, "1 + 2.5")
	f, ok := result.(*Float)
	if !ok {
		t.Fatalf("expected Float, got %T", result)
	}
	if f.Value != 3.5 {
		t.Errorf("value = %g, want 3.5", f.Value)
	}
}

func TestStringConcat(t *testing.T) {
	wantStr(t, testEval(t, `"foo" + "bar"`), "foobar")
	wantStr(t, testEval(t, `"n = " + 42`), "n = 42")
}

func TestDivisionByZero(t *testing.T) {
	wantError(t, testEval(t, "1 / 0"), DivisionByZero)
	wantError(t, testEval(t, "1 % 0"), DivisionByZero)
}

func TestComparisonTypeError(t *testing.T) {
	wantError(t, testEval(t, `1 < "two"`), TypeError)
	// Numeric comparison promotes.
	b := testEval(t, "1 < 1.5")
	if b != TRUE {
		t.Errorf("1 < 1.5 = %s, want true", b.Inspect())
	}
}

func TestLetAndShadowing(t *testing.T) {
	// Shadowing preservation: the inner let never touches the outer x.
	result := testEval(t, `
		let x = 1
		let inner = { let x = 99; x }
		x
	`)
	wantInteger(t, result, 1)
}

func TestMutability(t *testing.T) {
	wantInteger(t, testEval(t, `let mut x = 1; x = x + 1; x`), 2)
	wantError(t, testEval(t, `let x = 1; x = 2`), AssignToImmutable)
	wantError(t, testEval(t, `y = 1`), UnboundVariable)
}

func TestCompoundAssignAndIncrement(t *testing.T) {
	wantInteger(t, testEval(t, `let mut x = 10; x += 5; x -= 3; x *= 2; x`), 24)
	wantInteger(t, testEval(t, `let mut i = 0; i++; i++; i`), 2)
}

func TestDestructuring(t *testing.T) {
	wantInteger(t, testEval(t, `let (a, b) = (3, 4); a + b`), 7)
	wantInteger(t, testEval(t, `let [first, ..rest] = [10, 20, 30]; first + rest.len()`), 12)
	wantError(t, testEval(t, `let (a, b) = (1, 2, 3); a`), PatternMismatch)
}

func TestIfElse(t *testing.T) {
	wantInteger(t, testEval(t, `if 1 < 2 { 10 } else { 20 }`), 10)
	wantInteger(t, testEval(t, `if 1 > 2 { 10 } else { 20 }`), 20)
	if result := testEval(t, `if false { 10 }`); result != UNIT {
		t.Errorf("if without else = %s, want ()", result.Inspect())
	}
	wantError(t, testEval(t, `if 1 { 2 }`), TypeError)
}

func TestWhileLoop(t *testing.T) {
	wantInteger(t, testEval(t, `
		let mut sum = 0
		let mut i = 0
		while i < 5 { sum += i; i += 1 }
		sum
	`), 10)
}

func TestForLoopBreakValue(t *testing.T) {
	// A break with a value becomes the loop's value.
	wantInteger(t, testEval(t, `for i in 0..3 { if i == 2 { break 42 } }`), 42)
}

func TestForOverCollections(t *testing.T) {
	wantInteger(t, testEval(t, `
		let mut sum = 0
		for x in [1, 2, 3] { sum += x }
		sum
	`), 6)
	wantInteger(t, testEval(t, `
		let mut n = 0
		for c in "abc" { n += 1 }
		n
	`), 3)
}

func TestLoopWithContinue(t *testing.T) {
	wantInteger(t, testEval(t, `
		let mut i = 0
		let mut odd_sum = 0
		loop {
			i += 1
			if i > 10 { break }
			if i % 2 == 0 { continue }
			odd_sum += i
		}
		odd_sum
	`), 25)
}

func TestMatchExpression(t *testing.T) {
	// Arms are tried in source order; guards are part of the decision.
	wantStr(t, testEval(t, `
		match (1, 2) {
			(0, _) => "a",
			(_, 0) => "b",
			(a, b) if a < b => "c",
			_ => "d",
		}
	`), "c")
}

func TestMatchRangeAndOrPatterns(t *testing.T) {
	wantStr(t, testEval(t, `match 5 { 0..=3 => "low", 4 | 5 | 6 => "mid", _ => "high" }`), "mid")
}

func TestNonExhaustiveMatch(t *testing.T) {
	wantError(t, testEval(t, `match 99 { 1 => "one" }`), NonExhaustiveMatch)
}

func TestEnumMatching(t *testing.T) {
	wantStr(t, testEval(t, `
		enum Shape { Circle(Float), Point }
		let s = Shape::Circle(2.5)
		match s {
			Shape::Circle(r) if r > 1.0 => "big circle",
			Shape::Circle(_) => "small circle",
			Shape::Point => "point",
		}
	`), "big circle")
}

func TestFunctionsAndClosures(t *testing.T) {
	wantInteger(t, testEval(t, `
		fun add(a, b) { a + b }
		add(2, 3)
	`), 5)
	wantInteger(t, testEval(t, `
		fun make_counter() {
			let mut n = 0
			|| { n += 1; n }
		}
		let c = make_counter()
		c()
		c()
		c()
	`), 3)
	wantInteger(t, testEval(t, `
		fun fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }
		fact(5)
	`), 120)
}

func TestArityErrors(t *testing.T) {
	wantError(t, testEval(t, `fun f(a, b) { a }; f(1)`), ArityError)
	wantInteger(t, testEval(t, `
		fun count(first, ...rest) { 1 + rest.len() }
		count(1, 2, 3, 4)
	`), 4)
}

func TestReturnUnwinds(t *testing.T) {
	wantInteger(t, testEval(t, `
		fun early(n) {
			for i in 0..100 { if i == n { return i * 10 } }
			-1
		}
		early(7)
	`), 70)
}

func TestTryCatch(t *testing.T) {
	wantStr(t, testEval(t, `try { throw "boom" } catch e { e }`), "boom")
	wantStr(t, testEval(t, `
		try { [1][5] } catch e { "caught" }
	`), "caught")
}

func TestCatchBindsErrorMessage(t *testing.T) {
	// A recoverable runtime error binds as its message string, so string
	// patterns and guards work the same for errors and thrown strings.
	wantStr(t, testEval(t, `try { 1 / 0 } catch e { e }`), "division by zero")
	wantStr(t, testEval(t, `
		try { 1 / 0 }
		catch e if e == "division by zero" { "matched" }
		catch _ { "other" }
	`), "matched")
}

func TestCatchGuardAndOrder(t *testing.T) {
	wantStr(t, testEval(t, `
		try { throw "io" }
		catch e if e == "net" { "network" }
		catch e if e == "io" { "disk" }
		catch _ { "other" }
	`), "disk")
}

func TestFinallyAlwaysRuns(t *testing.T) {
	// One finally execution per dynamic try entry, on every exit path.
	e := New()
	e.Out = &bytes.Buffer{}
	result := e.EvalSource(`
		let mut count = 0
		fun body(mode) {
			try {
				if mode == 0 { 1 }
				else if mode == 1 { throw "x" }
				else { return 3 }
			} catch _ { 2 } finally { count += 1 }
		}
		body(0)
		body(1)
		body(2)
		count
	`)
	wantInteger(t, result, 3)
}

func TestFatalErrorsSkipCatch(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	result := e.EvalBounded(`try { loop { } } catch _ { "caught" }`, 0, 20*time.Millisecond)
	wantError(t, result, Timeout)
}

func TestRecordsAndStructs(t *testing.T) {
	wantInteger(t, testEval(t, `let p = { x: 3, y: 4 }; p.x + p.y`), 7)
	wantInteger(t, testEval(t, `
		struct Point { x: Int, y: Int }
		let p = Point { x: 1, y: 2 }
		p.y
	`), 2)
	wantError(t, testEval(t, `
		struct Point { x: Int, y: Int }
		Point { z: 9 }
	`), TypeError)
	wantError(t, testEval(t, `let p = { x: 1 }; p.missing`), KeyNotFound)
}

func TestFieldMutation(t *testing.T) {
	wantInteger(t, testEval(t, `
		let p = { x: 1 }
		p.x = 10
		p.x
	`), 10)
}

func TestIndexingAndSlices(t *testing.T) {
	wantInteger(t, testEval(t, `[10, 20, 30][1]`), 20)
	wantInteger(t, testEval(t, `[10, 20, 30][-1]`), 30)
	wantError(t, testEval(t, `[1, 2][5]`), IndexOutOfBounds)
	result := testEval(t, `[1, 2, 3, 4][1..3]`)
	list, ok := result.(*List)
	if !ok || len(list.Elements) != 2 {
		t.Fatalf("slice = %s", result.Inspect())
	}
	wantInteger(t, list.Elements[0], 2)
	wantStr(t, testEval(t, `"hello"[1..=3]`), "ell")
}

func TestStringMethods(t *testing.T) {
	wantStr(t, testEval(t, `"Hello".to_upper()`), "HELLO")
	wantInteger(t, testEval(t, `"a,b,c".split(",").len()`), 3)
	wantError(t, testEval(t, `"x".no_such()`), NoSuchMethod)
}

func TestListHigherOrderMethods(t *testing.T) {
	result := testEval(t, `[1, 2, 3].map(|x| x * 2)`)
	list := result.(*List)
	wantInteger(t, list.Elements[2], 6)
	wantInteger(t, testEval(t, `[1, 2, 3, 4].filter(|x| x % 2 == 0).len()`), 2)
	wantInteger(t, testEval(t, `[1, 2, 3].reduce(0, |acc, x| acc + x)`), 6)
	if testEval(t, `[1, 2, 3].any(|x| x > 2)`) != TRUE {
		t.Error("any should find 3")
	}
	if testEval(t, `[1, 2, 3].all(|x| x > 2)`) != FALSE {
		t.Error("all should reject 1")
	}
}

func TestInterpolation(t *testing.T) {
	wantStr(t, testEval(t, `let a = 2; let b = 3; f"sum is {a + b}"`), "sum is 5")
}

func TestActorLifecycle(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	result := e.EvalSource(`
		actor Counter {
			count: Int,
			receive incr(by) { count = count + by }
			receive get() { count }
		}
		let h = spawn Counter { count: 0 }
		send(h, incr(2))
		send(h, incr(3))
		ask(h, get())
	`)
	wantInteger(t, result, 5)
}

func TestActorStop(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	result := e.EvalSource(`
		actor Echo { receive ping() { 1 } }
		let h = spawn Echo
		stop(h)
		send(h, ping())
	`)
	wantError(t, result, ActorStopped)
}

func TestMailboxFull(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	e.MailboxCapacity = 2
	result := e.EvalSource(`
		actor Slow { receive work() { } }
		let h = spawn Slow
		send(h, work())
		send(h, work())
		send(h, work())
	`)
	wantError(t, result, MailboxFull)
}

func TestTransactionalIsolation(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	e.EvalSource(`let mut x = 1`)
	result := e.EvalTransactional(`x = 99; throw "fail"`)
	if _, ok := result.(*Error); !ok {
		if _, ok := result.(*ThrowSignal); !ok {
			t.Fatalf("expected failure, got %T", result)
		}
	}
	after := e.EvalSource(`x`)
	wantInteger(t, after, 1)
}

func TestTransactionalCommitOnSuccess(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	e.EvalSource(`let mut x = 1`)
	e.EvalTransactional(`x = 5`)
	wantInteger(t, e.EvalSource(`x`), 5)
}

func TestEvalBoundedTimeout(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	result := e.EvalBounded(`loop { }`, 0, 20*time.Millisecond)
	wantError(t, result, Timeout)
}

func TestEvalBoundedMemory(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	result := e.EvalBounded(`
		let mut xs = []
		loop { xs.push(1) }
	`, 100, time.Second)
	wantError(t, result, MemoryExceeded)
}

func TestStackOverflow(t *testing.T) {
	wantError(t, testEval(t, `fun f() { f() }; f()`), StackOverflow)
}

func TestBuiltins(t *testing.T) {
	wantInteger(t, testEval(t, `len([1, 2, 3])`), 3)
	wantStr(t, testEval(t, `type_of(1.5)`), "Float")
	wantStr(t, testEval(t, `type_of("s")`), "String")
	wantError(t, testEval(t, `len(1, 2)`), ArityError)
}

func TestPrintln(t *testing.T) {
	e := New()
	var out bytes.Buffer
	e.Out = &out
	e.EvalSource(`println("hello", 42)`)
	if out.String() != "hello 42\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestErrorCarriesPosition(t *testing.T) {
	err := wantError(t, testEval(t, "let x = 1\n1 / 0"), DivisionByZero)
	if err.Line != 2 {
		t.Errorf("error line = %d, want 2", err.Line)
	}
}

func TestAsyncAwait(t *testing.T) {
	wantInteger(t, testEval(t, `let f = async { 40 + 2 }; await f`), 42)
}
