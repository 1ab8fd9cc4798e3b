// Package repl is the interactive session: a readline loop over the
// shared evaluator, with colon commands for inspection and control.
// Errors never terminate the session.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/vm"
)

// Config carries session settings; zero values mean no history file,
// tree-walk mode and no debug notes.
type Config struct {
	HistoryPath string
	Mode        string // "tree-walk" or "vm"
	Debug       bool
	Colors      bool
}

// Session holds the live state of one REPL. Execute is the whole
// input-to-output contract; the readline loop is just transport.
type Session struct {
	eval    *evaluator.Evaluator
	machine *vm.VM
	hist    *History
	mode    string
	debug   bool
	colors  bool

	// initial restores the pristine global scope for :reset; Restore is
	// idempotent, so repeated resets are safe.
	initial *evaluator.Snapshot

	// lines collects this session's successful inputs for :save.
	lines []string
}

func NewSession(cfg Config) (*Session, error) {
	e := evaluator.New()
	s := &Session{
		eval:    e,
		machine: vm.New(e),
		mode:    "tree-walk",
		debug:   cfg.Debug,
		colors:  cfg.Colors,
		initial: e.Checkpoint(),
	}
	if cfg.Mode == "vm" {
		s.mode = "vm"
	}
	if cfg.HistoryPath != "" {
		hist, err := OpenHistory(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		s.hist = hist
	}
	return s, nil
}

func (s *Session) Close() error {
	if s.hist != nil {
		return s.hist.Close()
	}
	return nil
}

// Execute handles one line of input and returns the text to print plus
// whether the session should end.
func (s *Session) Execute(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}
	return s.evalLine(line), false
}

// evalLine evaluates source input. History records the input before the
// result is known; `_` is rebound only on success.
func (s *Session) evalLine(line string) string {
	s.recordHistory(line)

	program, perr := evaluator.Parse(line)
	if perr != nil {
		return perr.Inspect()
	}

	start := time.Now()
	result, engine := s.run(program)
	elapsed := time.Since(start)

	if err, ok := result.(*evaluator.Error); ok {
		return err.Inspect()
	}
	if sig, ok := result.(*evaluator.ThrowSignal); ok {
		return fmt.Sprintf("Error: uncaught throw: %s", sig.Value.Inspect())
	}

	s.lines = append(s.lines, line)
	s.eval.GlobalEnv.Define("_", result, true)

	var out string
	if result != nil && result != evaluator.UNIT {
		out = result.Inspect()
	}
	if s.debug {
		note := fmt.Sprintf("[%s, %s]", engine, elapsed.Round(time.Microsecond))
		if out != "" {
			out += "\n"
		}
		out += note
	}
	return out
}

// run dispatches to the selected backend. In vm mode, programs the
// bytecode compiler rejects run on the tree walk against the same
// evaluator, so globals stay consistent across entries.
func (s *Session) run(program *ast.Program) (evaluator.Object, string) {
	if s.mode == "vm" {
		chunk, err := vm.Compile(program)
		if err == nil {
			return s.machine.Run(chunk), "vm"
		}
		if !errors.Is(err, vm.ErrUnsupported) {
			return &evaluator.Error{Kind: evaluator.TypeError, Message: err.Error()}, "vm"
		}
	}
	return s.eval.Eval(program, s.eval.GlobalEnv), "tree-walk"
}

func (s *Session) recordHistory(line string) {
	if s.hist != nil {
		// Best effort; a broken history file must not break evaluation.
		_ = s.hist.Add(line)
	}
}

const banner = "Ruvy REPL. Type :help for commands, :quit to leave."

// Run drives a full interactive session over readline until EOF or a
// quit command.
func Run(cfg Config) error {
	s, err := NewSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	prompt := ">> "
	if cfg.Colors {
		prompt = "\033[32m>>\033[0m "
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    &completer{},
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	rl.CaptureExitSignal()

	fmt.Fprintln(rl.Stdout(), banner)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		out, quit := s.Execute(line)
		if out != "" {
			fmt.Fprintln(rl.Stdout(), s.colorize(out))
		}
		if quit {
			return nil
		}
	}
}

func (s *Session) colorize(out string) string {
	if s.colors && strings.HasPrefix(out, "Error:") {
		return "\033[31m" + out + "\033[0m"
	}
	return out
}
