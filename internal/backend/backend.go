// Package backend selects and runs an execution engine over a parsed
// program: the tree-walk evaluator or the bytecode VM. The VM falls back
// to the tree walk for programs its compiler does not express, so both
// backends accept the full language.
package backend

import (
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/pipeline"
)

// Backend runs the parsed program carried by a pipeline context.
type Backend interface {
	Run(ctx *pipeline.PipelineContext) (evaluator.Object, error)
	Name() string
}

// Select maps a configured name to a backend; anything unrecognized gets
// the tree walk.
func Select(name string) Backend {
	if name == "vm" {
		return NewVM()
	}
	return NewTreeWalk()
}
