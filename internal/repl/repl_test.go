package repl

import (
	"path/filepath"
	"strings"
	"testing"
)

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func exec(t *testing.T, s *Session, line string) string {
	t.Helper()
	out, quit := s.Execute(line)
	if quit {
		t.Fatalf("%q unexpectedly ended the session", line)
	}
	return out
}

func TestEvalAndUnderscore(t *testing.T) {
	s := newTestSession(t, Config{})
	if got := exec(t, s, "40 + 2"); got != "42" {
		t.Fatalf("got %q", got)
	}
	if got := exec(t, s, "_ + 1"); got != "43" {
		t.Fatalf("_ not rebound: got %q", got)
	}
}

func TestLetPrintsNothing(t *testing.T) {
	s := newTestSession(t, Config{})
	if got := exec(t, s, "let x = 5"); got != "" {
		t.Fatalf("let must print nothing, got %q", got)
	}
	if got := exec(t, s, "x"); got != "5" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorsDoNotEndSession(t *testing.T) {
	s := newTestSession(t, Config{})
	out := exec(t, s, "1 / 0")
	if !strings.Contains(out, "division by zero") {
		t.Fatalf("want a division error, got %q", out)
	}
	if got := exec(t, s, "2 + 2"); got != "4" {
		t.Fatalf("session broken after error: got %q", got)
	}
}

func TestUnderscoreKeptOnError(t *testing.T) {
	s := newTestSession(t, Config{})
	exec(t, s, "7 * 6")
	exec(t, s, "1 / 0")
	if got := exec(t, s, "_"); got != "42" {
		t.Fatalf("_ must survive a failed entry: got %q", got)
	}
}

func TestQuitCommands(t *testing.T) {
	for _, cmd := range []string{":quit", ":exit", ":q"} {
		s := newTestSession(t, Config{})
		if _, quit := s.Execute(cmd); !quit {
			t.Fatalf("%s must end the session", cmd)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	s := newTestSession(t, Config{})
	out := exec(t, s, ":frobnicate")
	if !strings.Contains(out, "unknown command: :frobnicate") {
		t.Fatalf("got %q", out)
	}
}

func TestResetDiscardsBindings(t *testing.T) {
	s := newTestSession(t, Config{})
	exec(t, s, "let x = 10")
	exec(t, s, ":reset")
	out := exec(t, s, "x")
	if !strings.Contains(out, "x") || !strings.Contains(out, "Error") {
		t.Fatalf("x must be unbound after reset, got %q", out)
	}

	// Reset is idempotent.
	exec(t, s, ":reset")
	if got := exec(t, s, "1 + 1"); got != "2" {
		t.Fatalf("session broken after double reset: got %q", got)
	}
}

func TestTypeCommand(t *testing.T) {
	s := newTestSession(t, Config{})
	exec(t, s, `let name = "ruvy"`)
	if got := exec(t, s, ":type name"); got != "String" {
		t.Fatalf("got %q", got)
	}
	out := exec(t, s, ":type missing")
	if !strings.Contains(out, "not bound") {
		t.Fatalf("got %q", out)
	}
}

func TestVarsAndFuncs(t *testing.T) {
	s := newTestSession(t, Config{})
	exec(t, s, "let answer = 42")
	exec(t, s, "fun double(x) { x * 2 }")

	vars := exec(t, s, ":vars")
	if !strings.Contains(vars, "answer") || strings.Contains(vars, "double") {
		t.Fatalf(":vars got %q", vars)
	}
	funcs := exec(t, s, ":funcs")
	if !strings.Contains(funcs, "double") || strings.Contains(funcs, "answer") {
		t.Fatalf(":funcs got %q", funcs)
	}
	env := exec(t, s, ":env")
	if !strings.Contains(env, "answer") || !strings.Contains(env, "double") {
		t.Fatalf(":env got %q", env)
	}
}

func TestTypesCommand(t *testing.T) {
	s := newTestSession(t, Config{})
	if got := exec(t, s, ":types"); got != "No types declared." {
		t.Fatalf("got %q", got)
	}
	exec(t, s, "struct Point { x: Int, y: Int }")
	if got := exec(t, s, ":types"); !strings.Contains(got, "Point") {
		t.Fatalf("got %q", got)
	}
}

func TestModeSwitch(t *testing.T) {
	s := newTestSession(t, Config{})
	if got := exec(t, s, ":mode"); !strings.Contains(got, "tree-walk") {
		t.Fatalf("got %q", got)
	}
	exec(t, s, ":mode vm")
	if got := exec(t, s, ":mode"); !strings.Contains(got, "vm") {
		t.Fatalf("got %q", got)
	}
	if got := exec(t, s, "2 * 21"); got != "42" {
		t.Fatalf("vm mode broken: got %q", got)
	}
	// Globals defined before the switch stay visible; both engines share
	// one evaluator.
	exec(t, s, ":mode tree-walk")
	exec(t, s, "let shared = 7")
	exec(t, s, ":mode vm")
	if got := exec(t, s, "shared + 1"); got != "8" {
		t.Fatalf("globals not shared across engines: got %q", got)
	}
	if got := exec(t, s, ":mode turbo"); !strings.Contains(got, "unknown mode") {
		t.Fatalf("got %q", got)
	}
}

func TestVMModeFallsBack(t *testing.T) {
	s := newTestSession(t, Config{Mode: "vm"})
	src := "fun sum(...xs) { xs.reduce(0, |a, b| a + b) }"
	exec(t, s, src)
	if got := exec(t, s, "sum(1, 2, 3)"); got != "6" {
		t.Fatalf("fallback got %q", got)
	}
}

func TestDebugNote(t *testing.T) {
	s := newTestSession(t, Config{})
	exec(t, s, ":debug")
	out := exec(t, s, "1 + 1")
	if !strings.Contains(out, "2") || !strings.Contains(out, "[tree-walk") {
		t.Fatalf("got %q", out)
	}
	exec(t, s, ":debug")
	if got := exec(t, s, "1 + 1"); got != "2" {
		t.Fatalf("debug note must disappear after toggle: got %q", got)
	}
}

func TestTranspileCommand(t *testing.T) {
	s := newTestSession(t, Config{})
	out := exec(t, s, ":transpile 1 + 2")
	if !strings.Contains(out, "fn main") {
		t.Fatalf("got %q", out)
	}
}

func TestASTCommand(t *testing.T) {
	s := newTestSession(t, Config{})
	out := exec(t, s, ":ast 1 + 2")
	if !strings.Contains(out, "Program") || !strings.Contains(out, "InfixExpression") {
		t.Fatalf("got %q", out)
	}
}

func TestBenchCommand(t *testing.T) {
	s := newTestSession(t, Config{})
	out := exec(t, s, ":bench 6 * 7")
	if !strings.Contains(out, "42") || !strings.Contains(out, "[") {
		t.Fatalf("got %q", out)
	}
}

func TestHistoryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s := newTestSession(t, Config{HistoryPath: path})
	exec(t, s, "1 + 1")
	exec(t, s, "2 + 2")

	out := exec(t, s, ":history")
	if !strings.Contains(out, "1 + 1") || !strings.Contains(out, "2 + 2") {
		t.Fatalf("got %q", out)
	}

	// Failed entries are recorded too; history logs inputs, not results.
	exec(t, s, "1 / 0")
	out = exec(t, s, ":history")
	if !strings.Contains(out, "1 / 0") {
		t.Fatalf("failed entry missing from history: %q", out)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s := newTestSession(t, Config{})
	if got := exec(t, s, ":history"); got != "History is not enabled." {
		t.Fatalf("got %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.rv")

	s := newTestSession(t, Config{})
	exec(t, s, "let total = 40")
	exec(t, s, "fun bump(x) { x + 2 }")
	out := exec(t, s, ":save "+path)
	if !strings.Contains(out, "2 lines") {
		t.Fatalf("got %q", out)
	}

	fresh := newTestSession(t, Config{})
	exec(t, fresh, ":load "+path)
	if got := exec(t, fresh, "bump(total)"); got != "42" {
		t.Fatalf("loaded session broken: got %q", got)
	}
}

func TestCompleter(t *testing.T) {
	c := &completer{}

	line := []rune(":he")
	got, n := c.Do(line, len(line))
	if n != 3 || len(got) != 1 || string(got[0]) != "lp" {
		t.Fatalf("command completion got %v, %d", got, n)
	}

	line = []rune("wh")
	got, _ = c.Do(line, len(line))
	if len(got) != 1 || string(got[0]) != "ile" {
		t.Fatalf("keyword completion got %v", got)
	}

	// Empty input completes to nothing rather than every keyword.
	if got, _ := c.Do(nil, 0); got != nil {
		t.Fatalf("empty input completion got %v", got)
	}
}
