package wasm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
)

func emitSource(t *testing.T, src string) []byte {
	t.Helper()
	p := parser.New(lexer.Tokenize(src))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	module, err := Emit(program)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return module
}

func emitError(t *testing.T, src string) error {
	t.Helper()
	p := parser.New(lexer.Tokenize(src))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	_, err := Emit(program)
	if err == nil {
		t.Fatalf("emit of %q unexpectedly succeeded", src)
	}
	return err
}

func mustValidate(t *testing.T, module []byte) {
	t.Helper()
	if err := Validate(module); err != nil {
		t.Fatalf("module does not validate: %v", err)
	}
}

func hasSection(module []byte, id byte) bool {
	rest := module[len(header):]
	for len(rest) > 0 {
		size, n := readU32(rest[1:])
		if rest[0] == id {
			return true
		}
		rest = rest[1+n+int(size):]
	}
	return false
}

func TestEmptyProgramIsBareHeader(t *testing.T) {
	module := emitSource(t, "")
	if !bytes.Equal(module, header) {
		t.Fatalf("want bare header, got % x", module)
	}
	mustValidate(t, module)
}

func TestMainExportAndArithmetic(t *testing.T) {
	module := emitSource(t, "fun main() { 2 + 3 }")
	mustValidate(t, module)

	if !hasSection(module, sectionExport) {
		t.Fatal("missing export section")
	}
	if !bytes.Contains(module, []byte("main")) {
		t.Fatal(`export name "main" not in binary`)
	}
	// i32.const 2, i32.const 3, i32.add
	want := []byte{opI32Const, 0x02, opI32Const, 0x03, opI32Add}
	if !bytes.Contains(module, want) {
		t.Fatalf("arithmetic lowering missing from % x", module)
	}
}

func TestLooseStatementsBecomeMain(t *testing.T) {
	module := emitSource(t, "let x = 4\nx * 10")
	mustValidate(t, module)
	if !bytes.Contains(module, []byte("main")) {
		t.Fatal("synthetic main was not exported")
	}
	if !bytes.Contains(module, []byte{opLocalSet, 0x00}) {
		t.Fatal("let did not lower to local.set")
	}
	if !bytes.Contains(module, []byte{opLocalGet, 0x00}) {
		t.Fatal("variable read did not lower to local.get")
	}
}

func TestFunctionWithoutMainHasNoExport(t *testing.T) {
	module := emitSource(t, "fun helper(n) { n + 1 }")
	mustValidate(t, module)
	if hasSection(module, sectionExport) {
		t.Fatal("nothing should be exported without main")
	}
}

func TestIfElseBlockType(t *testing.T) {
	module := emitSource(t, `
		fun pick(n) {
			if n > 0 { 1 } else { 2 }
		}
	`)
	mustValidate(t, module)
	if !bytes.Contains(module, []byte{opIf, typeI32}) {
		t.Fatal("value-producing if must carry an i32 block type")
	}
	if !bytes.Contains(module, []byte{opElse}) {
		t.Fatal("else branch missing")
	}
}

func TestIfWithoutElseIsVoid(t *testing.T) {
	module := emitSource(t, `
		fun f(n) {
			if n > 0 { n }
			0
		}
	`)
	mustValidate(t, module)
	if !bytes.Contains(module, []byte{opIf, blockVoid}) {
		t.Fatal("else-less if must use the empty block type")
	}
}

func TestWhileLowering(t *testing.T) {
	module := emitSource(t, `
		fun count() {
			let mut i = 0
			while i < 3 {
				i = i + 1
			}
			i
		}
	`)
	mustValidate(t, module)
	if !bytes.Contains(module, []byte{opBlock, blockVoid, opLoop, blockVoid}) {
		t.Fatal("while must open block+loop")
	}
	// Inverted condition exits the outer block; the back edge targets the loop.
	if !bytes.Contains(module, []byte{opI32Eqz, opBrIf, 0x01}) {
		t.Fatal("while exit branch missing")
	}
	if !bytes.Contains(module, []byte{opBr, 0x00, opEnd, opEnd}) {
		t.Fatal("while back edge missing")
	}
}

func TestFunctionCalls(t *testing.T) {
	module := emitSource(t, `
		fun double(n) { n * 2 }
		fun main() { double(21) }
	`)
	mustValidate(t, module)
	if !bytes.Contains(module, []byte{opCall, 0x00}) {
		t.Fatal("call to function 0 missing")
	}
}

func TestExplicitReturn(t *testing.T) {
	module := emitSource(t, `
		fun f(n) {
			if n > 10 { return 10 }
			n
		}
	`)
	mustValidate(t, module)
	if !bytes.Contains(module, []byte{opReturn}) {
		t.Fatal("return did not lower")
	}
}

func TestFloatLowering(t *testing.T) {
	module := emitSource(t, "fun f() { 1.5 + 2.5 }")
	mustValidate(t, module)
	if !bytes.Contains(module, []byte{opF64Add}) {
		t.Fatal("float add missing")
	}
	idx := bytes.IndexByte(module, opF64Const)
	if idx < 0 {
		t.Fatal("f64.const missing")
	}
}

func TestMixedNumericOperandsRejected(t *testing.T) {
	err := emitError(t, "fun f() { 1 + 2.5 }")
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) || diag.Code != diagnostics.ErrW001 {
		t.Fatalf("want W001, got %v", err)
	}
}

func TestArraysTriggerMemory(t *testing.T) {
	module := emitSource(t, `
		fun f() {
			let xs = [1, 2, 3]
			xs[1]
		}
	`)
	mustValidate(t, module)
	if !hasSection(module, sectionMemory) {
		t.Fatal("arrays must add a memory section")
	}
	if !bytes.Contains(module, []byte{opI32Store, 0x02, 0x00}) {
		t.Fatal("element store missing")
	}
	if !bytes.Contains(module, []byte{opI32Load, 0x02, 0x00}) {
		t.Fatal("element load missing")
	}
}

func TestNoMemoryWithoutArrays(t *testing.T) {
	module := emitSource(t, "fun f() { 1 + 1 }")
	if hasSection(module, sectionMemory) {
		t.Fatal("memory section emitted without arrays")
	}
}

func TestUnsupportedConstructs(t *testing.T) {
	sources := []string{
		`fun f() { match 1 { _ => 2 } }`,
		`fun f() { "hello" }`,
		`fun f() { [1].map(|x| x) }`,
		`fun f() { try { 1 } catch e { 2 } }`,
	}
	for _, src := range sources {
		err := emitError(t, src)
		var diag *diagnostics.DiagnosticError
		if !errors.As(err, &diag) || diag.Code != diagnostics.ErrW001 {
			t.Errorf("%q: want W001, got %v", src, err)
		}
	}
}

// Every module the emitter accepts must pass the structural validator.
func TestEmittedModulesValidate(t *testing.T) {
	sources := []string{
		"",
		"1 + 2 * 3",
		"fun main() { 2 + 3 }",
		"fun main() { if true { 1 } else { 0 } }",
		"let mut total = 0\nlet mut i = 0\nwhile i < 10 { total = total + i\ni = i + 1 }\ntotal",
		"fun sq(x) { x * x }\nfun main() { sq(3) + sq(4) }",
		"fun f() { let xs = [5, 6]\nxs[0] + xs[1] }",
		"fun f() { -3 }",
		"fun f() { 2.0 * 3.5 }",
	}
	for _, src := range sources {
		mustValidate(t, emitSource(t, src))
	}
}

func TestValidatorRejectsBadHeader(t *testing.T) {
	if err := Validate([]byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}); err == nil {
		t.Fatal("version 2 header must not validate")
	}
	if err := Validate([]byte{0x00}); err == nil {
		t.Fatal("truncated header must not validate")
	}
}

func TestValidatorRejectsOutOfOrderSections(t *testing.T) {
	module := append([]byte(nil), header...)
	module = append(module, section(sectionFunction, []byte{0x00})...)
	module = append(module, section(sectionType, []byte{0x00})...)
	if err := Validate(module); err == nil {
		t.Fatal("function before type must not validate")
	}
}

func TestValidatorRejectsCountMismatch(t *testing.T) {
	module := append([]byte(nil), header...)
	// One declared function, zero code bodies.
	module = append(module, section(sectionType, []byte{0x01, 0x60, 0x00, 0x00})...)
	module = append(module, section(sectionFunction, []byte{0x01, 0x00})...)
	module = append(module, section(sectionCode, []byte{0x00})...)
	if err := Validate(module); err == nil {
		t.Fatal("function/code count mismatch must not validate")
	}
}

func TestValidatorRejectsTruncatedSection(t *testing.T) {
	module := emitSource(t, "fun main() { 1 }")
	if err := Validate(module[:len(module)-2]); err == nil {
		t.Fatal("truncated module must not validate")
	}
}

func TestValidatorRejectsBadTypeIndex(t *testing.T) {
	module := append([]byte(nil), header...)
	module = append(module, section(sectionType, []byte{0x00})...)
	module = append(module, section(sectionFunction, []byte{0x01, 0x05})...)
	if err := Validate(module); err == nil {
		t.Fatal("type index past the table must not validate")
	}
}
