package lexer

import (
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/pipeline"
	"github.com/ruvylang/ruvy/internal/token"
)

// LexerProcessor is the pipeline stage that turns source text into tokens.
type LexerProcessor struct{}

func (p *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks := Tokenize(ctx.Source)
	for _, t := range toks {
		if t.Type == token.ILLEGAL {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL001, t, "illegal token: "+t.Lexeme))
		}
	}
	ctx.Tokens = toks
	return ctx
}
