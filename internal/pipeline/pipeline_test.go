package pipeline

import (
	"testing"

	"github.com/ruvylang/ruvy/internal/diagnostics"
	"github.com/ruvylang/ruvy/internal/token"
)

type stage struct {
	name string
	log  *[]string
	fail bool
}

func (s stage) Process(ctx *PipelineContext) *PipelineContext {
	*s.log = append(*s.log, s.name)
	if s.fail {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(
			diagnostics.ErrL001, token.Token{Line: 1, Column: 1}, s.name+" failed"))
	}
	return ctx
}

func TestRunVisitsAllStages(t *testing.T) {
	var log []string
	ctx := New(
		stage{name: "lex", log: &log},
		stage{name: "parse", log: &log},
	).Run(NewPipelineContext("let x = 1"))

	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if len(log) != 2 || log[0] != "lex" || log[1] != "parse" {
		t.Fatalf("stage order = %v", log)
	}
}

// A failing stage must not stop the pipeline; later stages still run so
// one invocation reports diagnostics from every phase.
func TestRunContinuesPastErrors(t *testing.T) {
	var log []string
	ctx := New(
		stage{name: "lex", log: &log, fail: true},
		stage{name: "parse", log: &log},
	).Run(NewPipelineContext("$"))

	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic from the failing stage")
	}
	if len(log) != 2 {
		t.Fatalf("later stage skipped, log = %v", log)
	}
}
