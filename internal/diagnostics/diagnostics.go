// Package diagnostics provides positioned, coded errors shared by every
// pipeline stage. Codes are stable so tests and tools can match on them.
package diagnostics

import (
	"fmt"

	"github.com/ruvylang/ruvy/internal/token"
)

// Code identifies a diagnostic family and number.
type Code string

const (
	// Lexer
	ErrL001 Code = "L001" // illegal character
	ErrL002 Code = "L002" // unterminated string
	ErrL003 Code = "L003" // malformed number

	// Parser
	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // expected token
	ErrP003 Code = "P003" // invalid pattern
	ErrP004 Code = "P004" // invalid assignment target

	// Transpiler
	ErrT001 Code = "T001" // arity mismatch in builtin lowering
	ErrT002 Code = "T002" // unsupported construct

	// Runtime
	ErrR001 Code = "R001" // runtime error

	// WASM emitter
	ErrW001 Code = "W001" // unsupported construct for wasm target
)

// DiagnosticError is an error with a source position and a stable code.
type DiagnosticError struct {
	Code    Code
	Token   token.Token
	Message string
}

func (e *DiagnosticError) Error() string {
	if e.Token.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Token.Line, e.Token.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewError builds a diagnostic at the given token.
func NewError(code Code, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// NewErrorf builds a diagnostic with a formatted message.
func NewErrorf(code Code, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: fmt.Sprintf(format, args...)}
}
