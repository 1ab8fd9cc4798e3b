package backend

import (
	"fmt"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/pipeline"
)

// TreeWalkBackend runs programs on the evaluator directly.
type TreeWalkBackend struct {
	eval *evaluator.Evaluator
}

func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{eval: evaluator.New()}
}

// newTreeWalkOn shares an existing evaluator, so a fallback run sees the
// same globals as the backend that delegated to it.
func newTreeWalkOn(e *evaluator.Evaluator) *TreeWalkBackend {
	return &TreeWalkBackend{eval: e}
}

func (b *TreeWalkBackend) Name() string { return "tree-walk" }

// Evaluator exposes the underlying evaluator, mainly for the REPL.
func (b *TreeWalkBackend) Evaluator() *evaluator.Evaluator { return b.eval }

func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (evaluator.Object, error) {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return nil, fmt.Errorf("no program to execute")
	}
	if ctx.FilePath != "" {
		b.eval.CurrentFile = ctx.FilePath
	}
	return b.eval.Eval(program, b.eval.GlobalEnv), nil
}

// RunProgram executes an already-parsed program.
func (b *TreeWalkBackend) RunProgram(program *ast.Program) evaluator.Object {
	return b.eval.Eval(program, b.eval.GlobalEnv)
}
