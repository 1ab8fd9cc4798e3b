package backend

import (
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/pipeline"
	"github.com/ruvylang/ruvy/internal/token"
)

// ExecutionProcessor is the pipeline stage that runs a backend and turns
// failures into positioned diagnostics.
type ExecutionProcessor struct {
	Backend Backend
	Result  evaluator.Object
}

func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(
			diagnostics.ErrR001, token.Token{}, err.Error()))
		return ctx
	}
	p.Result = result

	if errObj, ok := result.(*evaluator.Error); ok {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(
			diagnostics.ErrR001,
			token.Token{Line: errObj.Line, Column: errObj.Column},
			errObj.Message,
		))
	}
	return ctx
}
