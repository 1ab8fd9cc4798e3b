package evaluator

import (
	"errors"

	"github.com/ruvylang/ruvy/internal/actor"
	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/token"
)

// actorState is what the runtime stores per instance: the declaration
// for handler lookup and the state record handlers read and replace.
type actorState struct {
	decl  *ast.ActorStatement
	state *Record
}

func (e *Evaluator) evalSpawnExpression(node *ast.SpawnExpression, env *Environment) Object {
	decl, ok := e.actorDecls[node.Actor]
	if !ok {
		return e.attachTrace(newError(UnboundVariable, node.Token, "unknown actor type '%s'", node.Actor))
	}

	state := NewRecord(node.Actor)
	for _, f := range decl.Fields {
		state.Set(f.Name, NIL)
	}
	for _, field := range node.Fields {
		val := e.Eval(field.Value, env)
		if isSignal(val) {
			return val
		}
		state.Set(field.Key, val)
	}

	id := e.Actors.Spawn(node.Actor, &actorState{decl: decl, state: state},
		e.MailboxCapacity, e.dispatchMessage)
	return &ActorHandle{ID: id, TypeName: node.Actor}
}

// dispatchMessage runs one mailbox message: look the handler up by the
// message tag, bind parameters and state fields, evaluate the body, and
// adopt a returned record as the new state.
func (e *Evaluator) dispatchMessage(a *actor.Actor, msg actor.Message) (interface{}, error) {
	st := a.UserState.(*actorState)

	var handler *ast.HandlerDecl
	for _, h := range st.decl.Handlers {
		if h.Name == msg.Name {
			handler = h
			break
		}
	}
	if handler == nil {
		return nil, errors.New("actor " + st.decl.Name.Value + " has no handler '" + msg.Name + "'")
	}
	if len(msg.Args) != len(handler.Params) {
		return nil, errors.New("handler '" + msg.Name + "' arity mismatch")
	}

	// The actor's state fields are the handler's implicit, mutable
	// receiver scope.
	handlerEnv := NewEnclosedEnvironment(e.GlobalEnv)
	for _, k := range st.state.Keys {
		handlerEnv.Define(k, st.state.Fields[k], true)
	}
	for i, p := range handler.Params {
		handlerEnv.Define(p.Name, msg.Args[i].(Object), false)
	}

	result := e.evalBlockStatement(handler.Body, handlerEnv)
	if err, ok := result.(*Error); ok {
		return nil, errors.New(err.Message)
	}
	if ts, ok := result.(*ThrowSignal); ok {
		return nil, errors.New(ts.Value.Inspect())
	}
	if rv, ok := result.(*ReturnValue); ok {
		result = rv.Value
	}

	// Mutations of field bindings write back to the state record; a
	// returned record replaces the state wholesale.
	for _, k := range st.state.Keys {
		if val, ok := handlerEnv.Get(k); ok {
			st.state.Fields[k] = val
		}
	}
	if rec, ok := result.(*Record); ok && rec.TypeName == st.decl.Name.Value {
		st.state = rec
	}
	return result, nil
}

func (e *Evaluator) evalSendExpression(node *ast.SendExpression, env *Environment) Object {
	handle, msg, sig := e.resolveActorMessage(node.Target, node.Message, env, node.Token)
	if sig != nil {
		return sig
	}
	if err := e.Actors.Send(handle.ID, msg); err != nil {
		return e.actorError(err, node.Token)
	}
	return UNIT
}

func (e *Evaluator) evalAskExpression(node *ast.AskExpression, env *Environment) Object {
	if err := e.checkpoint(node.Token); err != nil {
		return e.attachTrace(err)
	}
	handle, msg, sig := e.resolveActorMessage(node.Target, node.Message, env, node.Token)
	if sig != nil {
		return sig
	}
	reply, err := e.Actors.Ask(handle.ID, msg)
	if err != nil {
		return e.actorError(err, node.Token)
	}
	if reply == nil {
		return UNIT
	}
	return reply.(Object)
}

// resolveActorMessage evaluates the target handle and decomposes the
// message expression `name(args...)` into a mailbox message.
func (e *Evaluator) resolveActorMessage(target, message ast.Expression, env *Environment, tok token.Token) (*ActorHandle, actor.Message, Object) {
	tv := e.Eval(target, env)
	if isSignal(tv) {
		return nil, actor.Message{}, tv
	}
	handle, ok := tv.(*ActorHandle)
	if !ok {
		return nil, actor.Message{}, e.attachTrace(newError(TypeError, tok,
			"send/ask target must be an actor handle, got %s", tv.Type()))
	}

	var name string
	var argExprs []ast.Expression
	switch m := message.(type) {
	case *ast.CallExpression:
		ident, ok := m.Function.(*ast.Identifier)
		if !ok {
			return nil, actor.Message{}, e.attachTrace(newError(TypeError, tok, "message must be a handler call"))
		}
		name = ident.Value
		argExprs = m.Arguments
	case *ast.Identifier:
		name = m.Value
	default:
		return nil, actor.Message{}, e.attachTrace(newError(TypeError, tok, "message must be a handler call"))
	}

	args := make([]interface{}, 0, len(argExprs))
	for _, a := range argExprs {
		val := e.Eval(a, env)
		if isSignal(val) {
			return nil, actor.Message{}, val
		}
		args = append(args, val)
	}
	return handle, actor.Message{Name: name, Args: args}, nil
}

func (e *Evaluator) actorError(err error, tok token.Token) Object {
	switch {
	case errors.Is(err, actor.ErrMailboxFull):
		return e.attachTrace(newError(MailboxFull, tok, "actor mailbox is full"))
	case errors.Is(err, actor.ErrActorStopped):
		return e.attachTrace(newError(ActorStopped, tok, "actor is stopped"))
	}
	return e.attachTrace(newError(TypeError, tok, "%s", err.Error()))
}
