package pipeline

// Pipeline threads a PipelineContext through an ordered list of stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage even after one records diagnostics, so a
// single pass surfaces both lex and parse errors to the CLI. Stages
// with side effects (execution, code generation) are expected to check
// ctx.HasErrors and skip themselves.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
	}
	return ctx
}
