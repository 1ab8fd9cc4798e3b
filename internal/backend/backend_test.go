package backend

import (
	"testing"

	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
	"github.com/ruvylang/ruvy/internal/pipeline"
)

func runOn(t *testing.T, b Backend, src string) evaluator.Object {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	pipe := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{})
	ctx = pipe.Run(ctx)
	if ctx.HasErrors() {
		t.Fatalf("frontend error: %s", ctx.Errors[0].Error())
	}
	result, err := b.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}

func wantInt(t *testing.T, obj evaluator.Object, want int64) {
	t.Helper()
	n, ok := obj.(*evaluator.Integer)
	if !ok {
		t.Fatalf("want Int %d, got %s", want, obj.Inspect())
	}
	if n.Value != want {
		t.Fatalf("want %d, got %d", want, n.Value)
	}
}

func TestBackendsAgree(t *testing.T) {
	sources := []struct {
		src  string
		want int64
	}{
		{"1 + 2 * 3", 7},
		{"fun add(a, b) { a + b }\nadd(19, 23)", 42},
		{"let mut total = 0\nfor i in 0..5 { total = total + i }\ntotal", 10},
		{"let xs = [1, 2, 3]\nxs.reduce(0, |a, b| a + b)", 6},
	}
	for _, tt := range sources {
		wantInt(t, runOn(t, NewTreeWalk(), tt.src), tt.want)
		wantInt(t, runOn(t, NewVM(), tt.src), tt.want)
	}
}

// Programs the bytecode compiler rejects must still run, through the
// tree-walk fallback.
func TestVMFallsBackToTreeWalk(t *testing.T) {
	src := `
		fun sum(...xs) {
			xs.reduce(0, |a, b| a + b)
		}
		sum(1, 2, 3)
	`
	wantInt(t, runOn(t, NewVM(), src), 6)
}

func TestSelect(t *testing.T) {
	if got := Select("vm").Name(); got != "vm" {
		t.Fatalf("Select(vm) = %s", got)
	}
	if got := Select("").Name(); got != "tree-walk" {
		t.Fatalf("Select(default) = %s", got)
	}
	if got := Select("anything-else").Name(); got != "tree-walk" {
		t.Fatalf("Select(unknown) = %s", got)
	}
}

func TestExecutionProcessorRecordsRuntimeErrors(t *testing.T) {
	ctx := pipeline.NewPipelineContext("1 / 0")
	pipe := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		NewExecutionProcessor(NewTreeWalk()),
	)
	ctx = pipe.Run(ctx)
	if !ctx.HasErrors() {
		t.Fatal("division by zero must surface as a diagnostic")
	}
}

func TestExecutionProcessorStoresResult(t *testing.T) {
	proc := NewExecutionProcessor(NewVM())
	ctx := pipeline.NewPipelineContext("40 + 2")
	pipe := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, proc)
	ctx = pipe.Run(ctx)
	if ctx.HasErrors() {
		t.Fatalf("unexpected error: %s", ctx.Errors[0].Error())
	}
	wantInt(t, proc.Result, 42)
}
