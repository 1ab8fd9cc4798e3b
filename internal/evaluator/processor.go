package evaluator

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/pipeline"
	"github.com/ruvylang/ruvy/internal/token"
)

// EvaluatorProcessor is the pipeline stage that runs the tree-walk
// backend over the parsed program.
type EvaluatorProcessor struct {
	Evaluator *Evaluator
	Result    Object
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() {
		return ctx
	}
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return ctx
	}
	if ep.Evaluator == nil {
		ep.Evaluator = New()
	}
	ep.Evaluator.CurrentFile = ctx.FilePath
	result := ep.Evaluator.Eval(program, ep.Evaluator.GlobalEnv)
	ep.Result = result
	if err, isErr := result.(*Error); isErr {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(
			diagnostics.ErrR001,
			token.Token{Line: err.Line, Column: err.Column},
			err.Message,
		))
	}
	return ctx
}
