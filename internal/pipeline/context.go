package pipeline

import (
	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/token"
)

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the artifacts of each stage: source text, the
// token stream, the AST root, and any diagnostics produced along the way.
type PipelineContext struct {
	Source   string
	FilePath string

	Tokens  []token.Token
	AstRoot interface{} // *ast.Program once parsing succeeds

	Errors []*diagnostics.DiagnosticError

	IsTestMode bool
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}
