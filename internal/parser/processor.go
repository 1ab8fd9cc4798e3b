package parser

import (
	"github.com/ruvylang/ruvy/internal/pipeline"
)

// ParserProcessor is the pipeline stage that builds the AST from tokens.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Tokens) == 0 {
		return ctx
	}
	p := New(ctx.Tokens)
	program := p.ParseProgram()
	program.File = ctx.FilePath
	ctx.Errors = append(ctx.Errors, p.Errors()...)
	ctx.AstRoot = program
	return ctx
}
