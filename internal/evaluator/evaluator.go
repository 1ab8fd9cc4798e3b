package evaluator

import (
	"io"
	"os"
	"time"

	"github.com/ruvylang/ruvy/internal/actor"
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/config"
	"github.com/ruvylang/ruvy/internal/token"
)

// CallFrame is one entry of the span stack attached to errors.
type CallFrame struct {
	Name string
	Span token.Span
}

type Evaluator struct {
	Out io.Writer

	// Actors is the process-global registry behind spawn/send/ask.
	Actors *actor.Registry

	// GlobalEnv anchors the scope chain; the REPL and transactional
	// evaluation snapshot from here.
	GlobalEnv *Environment

	CurrentFile string
	CallStack   []CallFrame

	// Declarations collected while evaluating the program.
	structs    map[string]*ast.StructStatement
	enums      map[string]*ast.EnumStatement
	actorDecls map[string]*ast.ActorStatement

	// MailboxCapacity overrides the default actor mailbox bound when > 0.
	MailboxCapacity int

	// Execution bounds for EvalBounded. Zero values disable a bound.
	deadline   time.Time
	allocLimit int64
	allocCount int64

	evalDepth int
}

func New() *Evaluator {
	e := &Evaluator{
		Out:        os.Stdout,
		Actors:     actor.NewRegistry(),
		GlobalEnv:  NewEnvironment(),
		structs:    make(map[string]*ast.StructStatement),
		enums:      make(map[string]*ast.EnumStatement),
		actorDecls: make(map[string]*ast.ActorStatement),
	}
	return e
}

// checkpoint enforces the time and allocation bounds at safe points:
// loop back-edges, call entry and message dispatch.
func (e *Evaluator) checkpoint(tok token.Token) *Error {
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		return newError(Timeout, tok, "evaluation exceeded its time budget")
	}
	if e.allocLimit > 0 && e.allocCount > e.allocLimit {
		return newError(MemoryExceeded, tok, "evaluation exceeded its memory budget")
	}
	return nil
}

// countAlloc tracks coarse allocation units for the memory bound.
func (e *Evaluator) countAlloc(n int64) {
	if e.allocLimit > 0 {
		e.allocCount += n
	}
}

func (e *Evaluator) pushFrame(name string, sp token.Span) {
	e.CallStack = append(e.CallStack, CallFrame{Name: name, Span: sp})
}

func (e *Evaluator) popFrame() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

// attachTrace copies the current span stack onto an error, most recent
// first, once.
func (e *Evaluator) attachTrace(err *Error) *Error {
	if len(err.Trace) > 0 {
		return err
	}
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		err.Trace = append(err.Trace, e.CallStack[i].Span)
	}
	return err
}

// Eval evaluates a node in an environment. Non-local transfers (return,
// break, continue, throw, error) travel back through the result.
func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > config.MaxEvalDepth {
		return e.attachTrace(newError(StackOverflow, node.GetToken(), "evaluation stack overflow"))
	}

	switch node := node.(type) {
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)

	// Declarations and statements
	case *ast.LetStatement:
		return e.evalLetStatement(node, env)
	case *ast.LetPatternStatement:
		return e.evalLetPatternStatement(node, env)
	case *ast.ConstStatement:
		return e.evalConstStatement(node, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ast.CompoundAssignStatement:
		return e.evalCompoundAssign(node, env)
	case *ast.IncDecStatement:
		return e.evalIncDec(node, env)
	case *ast.FunctionStatement:
		return e.evalFunctionStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.BreakStatement:
		return e.evalBreakStatement(node, env)
	case *ast.ContinueStatement:
		return &ContinueSignal{Label: node.Label}
	case *ast.ThrowStatement:
		return e.evalThrowStatement(node, env)
	case *ast.StructStatement:
		e.structs[node.Name.Value] = node
		return UNIT
	case *ast.EnumStatement:
		return e.evalEnumStatement(node, env)
	case *ast.ActorStatement:
		e.actorDecls[node.Name.Value] = node
		return UNIT
	case *ast.TraitStatement, *ast.ImplStatement, *ast.ModuleStatement,
		*ast.ImportStatement, *ast.ExportStatement:
		// Namespacing constructs carry no runtime effect in the
		// single-unit interpreter.
		return UNIT

	// Literals
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return &Str{Value: node.Value}
	case *ast.CharLiteral:
		return &Char{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBool(node.Value)
	case *ast.NilLiteral:
		return NIL
	case *ast.UnitLiteral:
		return UNIT
	case *ast.InterpolatedString:
		return e.evalInterpolatedString(node, env)
	case *ast.ListLiteral:
		return e.evalListLiteral(node, env)
	case *ast.TupleLiteral:
		return e.evalTupleLiteral(node, env)
	case *ast.RecordLiteral:
		return e.evalRecordLiteral(node, env)
	case *ast.StructLiteral:
		return e.evalStructLiteral(node, env)
	case *ast.RangeExpression:
		return e.evalRangeExpression(node, env)

	// Expressions
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PathExpression:
		return e.evalPathExpression(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.BlockExpression:
		return e.evalBlockStatement(node.Block, NewEnclosedEnvironment(env))
	case *ast.WhileExpression:
		return e.evalWhileExpression(node, env)
	case *ast.ForExpression:
		return e.evalForExpression(node, env)
	case *ast.LoopExpression:
		return e.evalLoopExpression(node, env)
	case *ast.MatchExpression:
		return e.evalMatchExpression(node, env)
	case *ast.TryExpression:
		return e.evalTryExpression(node, env)
	case *ast.LambdaExpression:
		return e.evalLambdaExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.MethodCallExpression:
		return e.evalMethodCall(node, env)
	case *ast.FieldAccessExpression:
		return e.evalFieldAccess(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.SliceExpression:
		return e.evalSliceExpression(node, env)
	case *ast.SpawnExpression:
		return e.evalSpawnExpression(node, env)
	case *ast.SendExpression:
		return e.evalSendExpression(node, env)
	case *ast.AskExpression:
		return e.evalAskExpression(node, env)
	case *ast.AwaitExpression:
		return e.evalAwaitExpression(node, env)
	case *ast.AsyncExpression:
		return e.evalAsyncExpression(node, env)
	}

	return e.attachTrace(newError(TypeError, node.GetToken(), "cannot evaluate %T", node))
}

func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = UNIT
	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)
		switch r := result.(type) {
		case *ReturnValue:
			return r.Value
		case *ThrowSignal:
			return e.uncaughtThrow(r, stmt.GetToken())
		case *Error:
			return r
		case *BreakSignal, *ContinueSignal:
			return e.attachTrace(newError(TypeError, stmt.GetToken(), "break or continue outside a loop"))
		}
	}
	return result
}

// uncaughtThrow converts a throw that escaped every try into an error.
func (e *Evaluator) uncaughtThrow(ts *ThrowSignal, tok token.Token) *Error {
	return e.attachTrace(newError(UserThrow, tok, "uncaught throw: %s", ts.Value.Inspect()))
}

func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = UNIT
	for _, stmt := range block.Statements {
		result = e.Eval(stmt, env)
		if result != nil && isSignal(result) {
			return result
		}
	}
	return result
}
