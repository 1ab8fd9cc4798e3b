package evaluator

import "sync"

type binding struct {
	value   Object
	mutable bool
}

// Environment is one scope in the chain. Lookup walks outward;
// definitions always land in the innermost scope, so shadowing never
// touches outer bindings.
type Environment struct {
	mu         sync.RWMutex
	store      map[string]binding
	outer      *Environment
	generation uint64
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Outer() *Environment { return e.outer }

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	b, ok := e.store[name]
	e.mu.RUnlock()
	if ok {
		return b.value, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define creates a binding in this scope, shadowing any outer one.
func (e *Environment) Define(name string, val Object, mutable bool) Object {
	e.mu.Lock()
	e.store[name] = binding{value: val, mutable: mutable}
	e.generation++
	e.mu.Unlock()
	return val
}

// Assign mutates the nearest existing binding. It reports NotFound when
// no scope holds the name and Immutable when the nearest holder is a
// non-mut binding.
type AssignResult int

const (
	AssignOK AssignResult = iota
	AssignNotFound
	AssignImmutable
)

func (e *Environment) Assign(name string, val Object) AssignResult {
	e.mu.Lock()
	b, ok := e.store[name]
	if ok {
		if !b.mutable {
			e.mu.Unlock()
			return AssignImmutable
		}
		b.value = val
		e.store[name] = b
		e.generation++
		e.mu.Unlock()
		return AssignOK
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return AssignNotFound
}

// IsMutable reports the mutability of the nearest binding.
func (e *Environment) IsMutable(name string) (bool, bool) {
	e.mu.RLock()
	b, ok := e.store[name]
	e.mu.RUnlock()
	if ok {
		return b.mutable, true
	}
	if e.outer != nil {
		return e.outer.IsMutable(name)
	}
	return false, false
}

// Names returns the names bound in this scope only.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.store))
	for k := range e.store {
		out = append(out, k)
	}
	return out
}

// Generation is a change counter for this scope, used to detect
// modification between a snapshot and a restore.
func (e *Environment) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Snapshot captures a shallow structural copy of the whole scope chain.
// Container values are shared; only the binding maps are cloned, which
// is exactly what transactional rollback must restore.
type Snapshot struct {
	frames []snapshotFrame
}

type snapshotFrame struct {
	env        *Environment
	store      map[string]binding
	generation uint64
}

func (e *Environment) Snapshot() *Snapshot {
	snap := &Snapshot{}
	for env := e; env != nil; env = env.outer {
		env.mu.RLock()
		frame := snapshotFrame{env: env, store: make(map[string]binding, len(env.store)), generation: env.generation}
		for k, v := range env.store {
			frame.store[k] = v
		}
		env.mu.RUnlock()
		snap.frames = append(snap.frames, frame)
	}
	return snap
}

// Restore puts every captured scope back to its snapshot state.
// Idempotent: restoring twice leaves the same bindings.
func (s *Snapshot) Restore() {
	for _, frame := range s.frames {
		frame.env.mu.Lock()
		frame.env.store = make(map[string]binding, len(frame.store))
		for k, v := range frame.store {
			frame.env.store[k] = v
		}
		frame.env.generation = frame.generation
		frame.env.mu.Unlock()
	}
}
