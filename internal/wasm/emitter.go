// Package wasm lowers an AST to a WebAssembly binary. The supported
// surface is the numeric core of the language: literals, arithmetic and
// comparison, locals, if/else, while loops, function calls and flat
// integer arrays in linear memory. Anything richer reports W001 so the
// caller can pick a different backend.
package wasm

import (
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/diagnostics"
)

const pageSize = 65536

// funcDef is one function scheduled for emission. Loose top-level
// statements become a synthetic def named main, emitted last.
type funcDef struct {
	name   string
	params []*ast.Param
	body   *ast.BlockStatement
	result byte
}

type funcInfo struct {
	index  int
	params int
	result byte
}

// Emitter assembles one module. It is single-use: Emit may be called once.
type Emitter struct {
	defs  []*funcDef
	funcs map[string]*funcInfo

	needsMemory bool
	memOffset   uint32

	exportMain int // function index, -1 when nothing is exported
}

func New() *Emitter {
	return &Emitter{funcs: make(map[string]*funcInfo), exportMain: -1}
}

// Emit lowers a program to WebAssembly bytes. A program with no functions
// and no statements yields a bare valid header.
func Emit(program *ast.Program) ([]byte, error) {
	return New().Emit(program)
}

func (e *Emitter) Emit(program *ast.Program) ([]byte, error) {
	if err := e.collect(program); err != nil {
		return nil, err
	}
	if len(e.defs) == 0 {
		return append([]byte(nil), header...), nil
	}
	e.inferSignatures()

	// Bodies first: compiling decides whether linear memory is needed,
	// and the memory section precedes the code section in the binary.
	bodies := make([][]byte, len(e.defs))
	for i, def := range e.defs {
		body, err := e.compileFunction(def)
		if err != nil {
			return nil, err
		}
		bodies[i] = body
	}

	out := append([]byte(nil), header...)
	out = append(out, section(sectionType, e.typePayload())...)
	out = append(out, section(sectionFunction, e.functionPayload())...)
	if e.needsMemory {
		out = append(out, section(sectionMemory, e.memoryPayload())...)
	}
	if e.exportMain >= 0 {
		out = append(out, section(sectionExport, e.exportPayload())...)
	}
	out = append(out, section(sectionCode, e.codePayload(bodies))...)
	return out, nil
}

// collect splits the top level into function defs and loose statements;
// the loose statements become the synthetic main.
func (e *Emitter) collect(program *ast.Program) error {
	var loose []ast.Statement
	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*ast.FunctionStatement); ok {
			def := &funcDef{name: fn.Name.Value, params: fn.Params, body: fn.Body}
			e.funcs[def.name] = &funcInfo{index: len(e.defs), params: len(fn.Params)}
			e.defs = append(e.defs, def)
			continue
		}
		loose = append(loose, stmt)
	}
	if len(loose) > 0 {
		e.exportMain = len(e.defs)
		e.defs = append(e.defs, &funcDef{
			name: "main",
			body: &ast.BlockStatement{Statements: loose},
		})
	} else if info, ok := e.funcs["main"]; ok {
		e.exportMain = info.index
	}
	return nil
}

// inferSignatures fixes every function's result type before bodies are
// compiled, so calls know whether the callee leaves a value. Parameters
// default to i32. Calls to functions declared later resolve as i32.
func (e *Emitter) inferSignatures() {
	for _, def := range e.defs {
		vars := make(map[string]byte)
		for _, p := range def.params {
			vars[p.Name] = typeI32
		}
		def.result = e.blockResult(def.body.Statements, vars)
		if info, ok := e.funcs[def.name]; ok {
			info.result = def.result
		}
	}
}

// blockResult is the type a statement list leaves on the stack: the type
// of its final expression statement, or void.
func (e *Emitter) blockResult(stmts []ast.Statement, vars map[string]byte) byte {
	result := typeVoid
	for i, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.LetStatement:
			vars[s.Name.Value] = e.exprType(s.Value, vars)
		case *ast.ReturnStatement:
			if s.Value != nil {
				return e.exprType(s.Value, vars)
			}
			return typeVoid
		case *ast.ExpressionStatement:
			if i == len(stmts)-1 {
				result = e.exprType(s.Expression, vars)
			}
		}
	}
	return result
}

func (e *Emitter) exprType(expr ast.Expression, vars map[string]byte) byte {
	switch x := expr.(type) {
	case *ast.IntegerLiteral, *ast.BooleanLiteral, *ast.ListLiteral, *ast.IndexExpression:
		return typeI32
	case *ast.FloatLiteral:
		return typeF64
	case *ast.Identifier:
		if t, ok := vars[x.Value]; ok {
			return t
		}
		return typeI32
	case *ast.PrefixExpression:
		if x.Operator == "!" {
			return typeI32
		}
		return e.exprType(x.Right, vars)
	case *ast.InfixExpression:
		switch x.Operator {
		case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
			return typeI32
		}
		if e.exprType(x.Left, vars) == typeF64 || e.exprType(x.Right, vars) == typeF64 {
			return typeF64
		}
		return typeI32
	case *ast.CallExpression:
		if ident, ok := x.Function.(*ast.Identifier); ok {
			if info, ok := e.funcs[ident.Value]; ok {
				return info.result
			}
		}
		return typeI32
	case *ast.IfExpression:
		if x.Alternative == nil {
			return typeVoid
		}
		branch := copyVars(vars)
		return e.blockResult(x.Consequence.Statements, branch)
	case *ast.BlockExpression:
		return e.blockResult(x.Block.Statements, copyVars(vars))
	case *ast.WhileExpression:
		return typeVoid
	}
	return typeI32
}

func copyVars(vars map[string]byte) map[string]byte {
	out := make(map[string]byte, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}

// allocStatic hands out a fixed linear-memory region for an array literal
// and marks the module as memory-using.
func (e *Emitter) allocStatic(size uint32) uint32 {
	e.needsMemory = true
	base := e.memOffset
	e.memOffset += size
	return base
}

func (e *Emitter) typePayload() []byte {
	var p []byte
	p = appendU32(p, uint32(len(e.defs)))
	for _, def := range e.defs {
		p = append(p, 0x60)
		p = appendU32(p, uint32(len(def.params)))
		for range def.params {
			p = append(p, typeI32)
		}
		if def.result == typeVoid {
			p = appendU32(p, 0)
		} else {
			p = appendU32(p, 1)
			p = append(p, def.result)
		}
	}
	return p
}

func (e *Emitter) functionPayload() []byte {
	var p []byte
	p = appendU32(p, uint32(len(e.defs)))
	for i := range e.defs {
		p = appendU32(p, uint32(i)) // type index i belongs to function i
	}
	return p
}

func (e *Emitter) memoryPayload() []byte {
	pages := e.memOffset / pageSize
	if e.memOffset%pageSize != 0 || pages == 0 {
		pages++
	}
	var p []byte
	p = appendU32(p, 1)
	p = append(p, 0x01) // min and max present
	p = appendU32(p, pages)
	p = appendU32(p, pages)
	return p
}

func (e *Emitter) exportPayload() []byte {
	var p []byte
	p = appendU32(p, 1)
	p = appendU32(p, uint32(len("main")))
	p = append(p, "main"...)
	p = append(p, 0x00) // func export
	p = appendU32(p, uint32(e.exportMain))
	return p
}

func (e *Emitter) codePayload(bodies [][]byte) []byte {
	var p []byte
	p = appendU32(p, uint32(len(bodies)))
	for _, body := range bodies {
		p = appendU32(p, uint32(len(body)))
		p = append(p, body...)
	}
	return p
}

func unsupported(node ast.Node, what string) error {
	return diagnostics.NewErrorf(diagnostics.ErrW001, node.GetToken(),
		"%s is not supported by the wasm target", what)
}
