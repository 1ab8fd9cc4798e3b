package evaluator

import (
	"fmt"
	"strings"

	"github.com/ruvylang/ruvy/internal/token"
)

// Non-local transfers travel the normal result channel but are absorbed
// by the construct that owns them: loops absorb break/continue, calls
// absorb return, try absorbs throw.

// ReturnValue unwinds to the nearest call boundary.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal unwinds to the nearest (or labeled) loop, optionally
// carrying the loop's value.
type BreakSignal struct {
	Label string
	Value Object
}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

// ContinueSignal skips to the next iteration of the nearest (or
// labeled) loop.
type ContinueSignal struct {
	Label string
}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

// ThrowSignal carries a user-thrown value toward the nearest try.
type ThrowSignal struct {
	Value Object
}

func (ts *ThrowSignal) Type() ObjectType { return THROW_SIGNAL_OBJ }
func (ts *ThrowSignal) Inspect() string  { return "throw " + ts.Value.Inspect() }

// ErrorKind classifies runtime failures. Fatal kinds cannot be caught.
type ErrorKind string

const (
	TypeError          ErrorKind = "TypeError"
	ArityError         ErrorKind = "ArityError"
	UnboundVariable    ErrorKind = "UnboundVariable"
	AssignToImmutable  ErrorKind = "AssignToImmutable"
	IndexOutOfBounds   ErrorKind = "IndexOutOfBounds"
	KeyNotFound        ErrorKind = "KeyNotFound"
	DivisionByZero     ErrorKind = "DivisionByZero"
	PatternMismatch    ErrorKind = "PatternMismatch"
	NonExhaustiveMatch ErrorKind = "NonExhaustiveMatch"
	NoSuchMethod       ErrorKind = "NoSuchMethod"
	MailboxFull        ErrorKind = "MailboxFull"
	ActorStopped       ErrorKind = "ActorStopped"
	StackOverflow      ErrorKind = "StackOverflow"
	Timeout            ErrorKind = "Timeout"
	MemoryExceeded     ErrorKind = "MemoryExceeded"
	UserThrow          ErrorKind = "UserThrow"
)

// IsFatal reports whether an error kind unwinds past every catch.
func (k ErrorKind) IsFatal() bool {
	switch k {
	case StackOverflow, Timeout, MemoryExceeded, ActorStopped:
		return true
	}
	return false
}

// Error is a runtime failure. Trace holds the span stack, most recent
// first.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
	Trace   []token.Span
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("Error: %s: %s (%d:%d)", e.Kind, e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("Error: %s: %s", e.Kind, e.Message)
}

// Detail renders the error with its span trace, most recent first.
func (e *Error) Detail() string {
	var sb strings.Builder
	sb.WriteString(e.Inspect())
	for _, sp := range e.Trace {
		fmt.Fprintf(&sb, "\n  at %d:%d", sp.Start.Line, sp.Start.Column)
	}
	return sb.String()
}

func newError(kind ErrorKind, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}
