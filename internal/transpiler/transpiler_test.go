package transpiler

import (
	"strings"
	"testing"

	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
)

func transpileSource(t *testing.T, source string) string {
	t.Helper()
	p := parser.New(lexer.Tokenize(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	out, err := Transpile(program)
	if err != nil {
		t.Fatalf("transpile error: %v", err)
	}
	return out
}

func transpileError(t *testing.T, source string) *diagnostics.DiagnosticError {
	t.Helper()
	p := parser.New(lexer.Tokenize(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	_, err := Transpile(program)
	if err == nil {
		t.Fatalf("expected transpile error, got none")
	}
	diag, ok := err.(*diagnostics.DiagnosticError)
	if !ok {
		t.Fatalf("expected diagnostic error, got %T", err)
	}
	return diag
}

func wantContains(t *testing.T, out, fragment string) {
	t.Helper()
	if !strings.Contains(out, fragment) {
		t.Errorf("output missing %q:\n%s", fragment, out)
	}
}

func TestArithmeticScript(t *testing.T) {
	out := transpileSource(t, "2 + 3")
	wantContains(t, out, "fn main() {")
	wantContains(t, out, "(2 + 3);")
}

func TestLetAndMutability(t *testing.T) {
	out := transpileSource(t, "let x = 1\nlet mut y = 2\ny = x")
	wantContains(t, out, "let x = 1;")
	wantContains(t, out, "let mut y = 2;")
	wantContains(t, out, "y = x;")
	if strings.Contains(out, "LazyLock") {
		t.Errorf("script without functions must not promote globals:\n%s", out)
	}
}

func TestGlobalPromotion(t *testing.T) {
	out := transpileSource(t, `
let mut x = 0
fun main() {
    x = x + 1
    x
}
`)
	wantContains(t, out, "static x: std::sync::LazyLock<std::sync::Mutex<i32>> =")
	wantContains(t, out, "std::sync::LazyLock::new(|| std::sync::Mutex::new(0));")
	wantContains(t, out, "*x.lock().unwrap() = ((*x.lock().unwrap()) + 1);")
	if strings.Contains(out, "let mut x = 0;") {
		t.Errorf("promoted let must not also appear as a local:\n%s", out)
	}
}

func TestGlobalPromotionRespectsConstNames(t *testing.T) {
	out := transpileSource(t, `
const LIMIT = 10
fun main() {
    LIMIT
}
`)
	wantContains(t, out, "const LIMIT: i32 = 10;")
	if strings.Contains(out, "LazyLock") {
		t.Errorf("const must not become a mutable global:\n%s", out)
	}
}

func TestGlobalTypeInference(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"0", "Mutex<i32>"},
		{"1.5", "Mutex<f64>"},
		{`"hi"`, "Mutex<&str>"},
		{"true", "Mutex<bool>"},
		{"[1, 2]", "Mutex<Vec<i32>>"},
		{"[]", "Mutex<Vec<i32>>"},
		{"[[1.0]]", "Mutex<Vec<Vec<f64>>>"},
	}
	for _, tc := range cases {
		out := transpileSource(t, "let mut g = "+tc.value+"\nfun main() { g }")
		if !strings.Contains(out, tc.want) {
			t.Errorf("global %s: want type %s in:\n%s", tc.value, tc.want, out)
		}
	}
}

func TestMainCallElision(t *testing.T) {
	out := transpileSource(t, "fun main() { 42 }\nmain()")
	if got := strings.Count(out, "fn main("); got != 1 {
		t.Errorf("want exactly one fn main, got %d:\n%s", got, out)
	}
	if strings.Contains(out, "__ruvy_main") {
		t.Errorf("elided main call must not force renaming:\n%s", out)
	}
}

func TestMainRenamedWithTopLevelStatements(t *testing.T) {
	out := transpileSource(t, `
println("setup")
fun main() {
    1
}
`)
	wantContains(t, out, "fn __ruvy_main()")
	wantContains(t, out, "__ruvy_main();")
	idx := strings.Index(out, `println!("{}", "setup");`)
	call := strings.Index(out, "__ruvy_main();")
	if idx == -1 || call == -1 || idx > call {
		t.Errorf("top-level statements must run before main:\n%s", out)
	}
}

func TestScriptWithoutMainWrapsStatements(t *testing.T) {
	out := transpileSource(t, "let a = 1\nprintln(a)")
	wantContains(t, out, "fn main() {")
	wantContains(t, out, "let a = 1;")
	wantContains(t, out, `println!("{}", a);`)
}

func TestTranspileDeterminism(t *testing.T) {
	source := `
let mut total = 0
const STEP = 2
fun bump() {
    total = total + STEP
}
fun main() {
    bump()
    total
}
`
	p := parser.New(lexer.Tokenize(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	first, err := Transpile(program)
	if err != nil {
		t.Fatalf("transpile error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Transpile(program)
		if err != nil {
			t.Fatalf("transpile error on run %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("output differs between runs:\n%s\n----\n%s", first, again)
		}
	}
}

func TestControlFlowLowering(t *testing.T) {
	out := transpileSource(t, `
let mut i = 0
while i < 10 {
    i = i + 1
}
for x in 0..5 {
    println(x)
}
`)
	wantContains(t, out, "while (i < 10) {")
	wantContains(t, out, "for x in (0..5) {")
}

func TestIfElseChain(t *testing.T) {
	out := transpileSource(t, `
fun classify(n: Int) {
    if n < 0 {
        "neg"
    } else if n == 0 {
        "zero"
    } else {
        "pos"
    }
}
`)
	wantContains(t, out, "fn classify(n: i32) {")
	wantContains(t, out, "if (n < 0) {")
	wantContains(t, out, "} else if (n == 0) {")
	wantContains(t, out, `"neg"`)
}

func TestMatchLowering(t *testing.T) {
	out := transpileSource(t, `
fun describe(n: Int) {
    match n {
        0 => "zero",
        1 | 2 => "small",
        3..=9 => "mid",
        _ => "big",
    }
}
`)
	wantContains(t, out, "match n {")
	wantContains(t, out, "0 => \"zero\",")
	wantContains(t, out, "1 | 2 => \"small\",")
	wantContains(t, out, "3..=9 => \"mid\",")
	wantContains(t, out, "_ => \"big\",")
}

func TestMatchGuard(t *testing.T) {
	out := transpileSource(t, `
fun f(n: Int) {
    match n {
        x if x > 10 => "big",
        _ => "small",
    }
}
`)
	wantContains(t, out, "x if (x > 10) => \"big\",")
}

func TestStructAndEnumLowering(t *testing.T) {
	out := transpileSource(t, `
struct Point { x: Int, y: Int }
enum Shape {
    Circle(Float),
    Empty,
}
`)
	wantContains(t, out, "struct Point {")
	wantContains(t, out, "x: i32,")
	wantContains(t, out, "enum Shape {")
	wantContains(t, out, "Circle(f64),")
	wantContains(t, out, "Empty,")
}

func TestImportCollapse(t *testing.T) {
	out := transpileSource(t, "import std::fs::File")
	wantContains(t, out, "use std::fs::File;")
}

func TestImportStdModulePrefix(t *testing.T) {
	out := transpileSource(t, "import std::fs")
	wantContains(t, out, "use std::fs;")
}

func TestImportGroupedAndWildcard(t *testing.T) {
	out := transpileSource(t, "import std::collections::{HashMap, HashSet as Set}")
	wantContains(t, out, "use std::collections::{HashMap, HashSet as Set};")

	out = transpileSource(t, "import std::collections::*")
	wantContains(t, out, "use std::collections::*;")
}

func TestImportModuleAlias(t *testing.T) {
	out := transpileSource(t, "import std::collections as coll")
	wantContains(t, out, "use std::collections as coll;")
}

func TestBuiltinLowering(t *testing.T) {
	out := transpileSource(t, `fs_read("a.txt")`)
	wantContains(t, out, `std::fs::read_to_string("a.txt").unwrap()`)

	out = transpileSource(t, `env_var("HOME")`)
	wantContains(t, out, `std::env::var("HOME").unwrap_or_default()`)

	out = transpileSource(t, `path_join("a", "b")`)
	wantContains(t, out, `std::path::Path::new("a").join("b").display().to_string()`)
}

func TestBuiltinArityError(t *testing.T) {
	diag := transpileError(t, `fs_read("a", "b")`)
	if diag.Code != diagnostics.ErrT001 {
		t.Errorf("want code %s, got %s", diagnostics.ErrT001, diag.Code)
	}
	if !strings.Contains(diag.Message, "fs_read expects 1 argument, got 2") {
		t.Errorf("want exact expected count in message, got %q", diag.Message)
	}
}

func TestPathNormalizeEmitsHelper(t *testing.T) {
	out := transpileSource(t, `path_normalize("a/./b/../c")`)
	wantContains(t, out, `__ruvy_normalize_path("a/./b/../c")`)
	wantContains(t, out, "fn __ruvy_normalize_path(p: &str) -> String {")
}

func TestInterpolationLowering(t *testing.T) {
	out := transpileSource(t, `
let name = "world"
println(f"hello {name}!")
`)
	wantContains(t, out, `format!("hello {}!", name)`)
}

func TestUnsupportedConstruct(t *testing.T) {
	diag := transpileError(t, `
actor Counter {
    count: Int,
    receive incr() { count = count + 1 }
}
`)
	if diag.Code != diagnostics.ErrT002 {
		t.Errorf("want code %s, got %s", diagnostics.ErrT002, diag.Code)
	}
}

func TestStatementTermination(t *testing.T) {
	out := transpileSource(t, "let x = 1\nx + 1\nprintln(x)")
	wantContains(t, out, "(x + 1);")
	wantContains(t, out, `println!("{}", x);`)
}

func TestFunctionImplicitReturn(t *testing.T) {
	out := transpileSource(t, `
fun add(a: Int, b: Int) {
    a + b
}
`)
	wantContains(t, out, "fn add(a: i32, b: i32) {")
	wantContains(t, out, "(a + b)\n")
	if strings.Contains(out, "(a + b);") {
		t.Errorf("final expression must stay unterminated:\n%s", out)
	}
}
