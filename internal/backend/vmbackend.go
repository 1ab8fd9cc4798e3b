package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/pipeline"
	"github.com/ruvylang/ruvy/internal/vm"
)

// VMBackend compiles to bytecode and runs on the VM. Programs the
// compiler rejects run on the tree walk instead, against the same
// evaluator, so results and globals match either way.
type VMBackend struct {
	machine *vm.VM
	debug   bool
}

func NewVM(debugMode ...bool) *VMBackend {
	debug := len(debugMode) > 0 && debugMode[0]
	return &VMBackend{machine: vm.NewVM(), debug: debug}
}

func (b *VMBackend) Name() string { return "vm" }

// Evaluator exposes the evaluator shared with the VM.
func (b *VMBackend) Evaluator() *evaluator.Evaluator { return b.machine.Evaluator() }

func (b *VMBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return nil, fmt.Errorf("no program to execute")
	}

	chunk, err := vm.Compile(program)
	if errors.Is(err, vm.ErrUnsupported) {
		return newTreeWalkOn(b.machine.Evaluator()).Run(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("bytecode compilation: %w", err)
	}
	if ctx.FilePath != "" {
		chunk.File = ctx.FilePath
	}
	if b.debug {
		fmt.Fprint(os.Stderr, vm.Disassemble(chunk, chunkName(ctx)))
	}
	return b.machine.Run(chunk), nil
}

// Disassemble compiles the program and renders its bytecode.
func (b *VMBackend) Disassemble(ctx *pipeline.PipelineContext) (string, error) {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return "", fmt.Errorf("no program to compile")
	}
	chunk, err := vm.Compile(program)
	if err != nil {
		return "", err
	}
	return vm.Disassemble(chunk, chunkName(ctx)), nil
}

func chunkName(ctx *pipeline.PipelineContext) string {
	if ctx.FilePath != "" {
		return ctx.FilePath
	}
	return "main"
}
