package actor

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// DefaultMailboxCapacity bounds each actor's pending message queue.
const DefaultMailboxCapacity = 1000

var (
	ErrMailboxFull  = errors.New("mailbox full")
	ErrActorStopped = errors.New("actor stopped")
	ErrUnknownActor = errors.New("unknown actor")
)

// State is the actor lifecycle. Handlers only run in Running; a Stopping
// actor drops its pending messages and denies new sends.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Message is one mailbox entry: a handler name plus its arguments. The
// payload type is opaque to the runtime; the dispatcher interprets it.
type Message struct {
	Name string
	Args []interface{}
}

// Dispatcher runs one message against the actor's current state and
// returns the reply. The runtime serializes calls per actor.
type Dispatcher func(a *Actor, msg Message) (interface{}, error)

// Actor is one spawned instance: isolated state, a bounded FIFO mailbox,
// and the dispatcher that interprets its messages.
type Actor struct {
	ID       uuid.UUID
	TypeName string

	// State is owned by the dispatcher between messages; the runtime
	// never reads into it.
	UserState interface{}

	mu       sync.Mutex
	lifState State
	mailbox  []Message
	capacity int
	dispatch Dispatcher
}

// Lifecycle returns the actor's current lifecycle state.
func (a *Actor) Lifecycle() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lifState
}

// Pending returns the number of queued messages.
func (a *Actor) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mailbox)
}

// Registry is the process-global actor table keyed by handle id.
type Registry struct {
	mu     sync.Mutex
	actors map[uuid.UUID]*Actor
}

func NewRegistry() *Registry {
	return &Registry{actors: make(map[uuid.UUID]*Actor)}
}

// Spawn registers a new actor in the Idle state and returns its handle id.
// capacity <= 0 selects DefaultMailboxCapacity.
func (r *Registry) Spawn(typeName string, state interface{}, capacity int, dispatch Dispatcher) uuid.UUID {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	a := &Actor{
		ID:        uuid.New(),
		TypeName:  typeName,
		UserState: state,
		lifState:  Idle,
		capacity:  capacity,
		dispatch:  dispatch,
	}
	r.mu.Lock()
	r.actors[a.ID] = a
	r.mu.Unlock()
	return a.ID
}

// Lookup resolves a handle id to its actor.
func (r *Registry) Lookup(id uuid.UUID) (*Actor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actors[id]
	return a, ok
}

// Send enqueues a message without waiting. It fails with ErrMailboxFull
// at capacity and ErrActorStopped once the actor is stopping or stopped.
func (r *Registry) Send(id uuid.UUID, msg Message) error {
	a, ok := r.Lookup(id)
	if !ok {
		return ErrUnknownActor
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lifState == Stopping || a.lifState == Stopped {
		return ErrActorStopped
	}
	if len(a.mailbox) >= a.capacity {
		return ErrMailboxFull
	}
	a.mailbox = append(a.mailbox, msg)
	return nil
}

// Ask enqueues a message and drains the target's mailbox inline until the
// reply to this message is produced. The runtime is cooperative: the
// caller lends its thread to the target actor.
func (r *Registry) Ask(id uuid.UUID, msg Message) (interface{}, error) {
	if err := r.Send(id, msg); err != nil {
		return nil, err
	}
	a, _ := r.Lookup(id)
	var reply interface{}
	for {
		next, ok := a.takeNext()
		if !ok {
			return reply, nil
		}
		res, err := a.run(next)
		if err != nil {
			return nil, err
		}
		if next.Name == msg.Name {
			// FIFO per sender means the first same-named message to
			// drain is ours.
			return res, nil
		}
	}
}

// Drain processes every pending message of an actor in FIFO order. Used
// by the cooperative scheduler at suspension points.
func (r *Registry) Drain(id uuid.UUID) error {
	a, ok := r.Lookup(id)
	if !ok {
		return ErrUnknownActor
	}
	for {
		msg, ok := a.takeNext()
		if !ok {
			return nil
		}
		if _, err := a.run(msg); err != nil {
			return err
		}
	}
}

// Stop transitions the actor to Stopping, drops pending messages, then
// marks it Stopped. Idempotent.
func (r *Registry) Stop(id uuid.UUID) error {
	a, ok := r.Lookup(id)
	if !ok {
		return ErrUnknownActor
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lifState == Stopped {
		return nil
	}
	a.lifState = Stopping
	a.mailbox = nil
	a.lifState = Stopped
	return nil
}

// All returns a snapshot of the registered actors, for REPL inspection.
func (r *Registry) All() []*Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Actor, 0, len(r.actors))
	for _, a := range r.actors {
		out = append(out, a)
	}
	return out
}

func (a *Actor) takeNext() (Message, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lifState == Stopping || a.lifState == Stopped || len(a.mailbox) == 0 {
		return Message{}, false
	}
	msg := a.mailbox[0]
	a.mailbox = a.mailbox[1:]
	return msg, true
}

func (a *Actor) run(msg Message) (interface{}, error) {
	a.mu.Lock()
	if a.lifState == Stopping || a.lifState == Stopped {
		a.mu.Unlock()
		return nil, ErrActorStopped
	}
	a.lifState = Running
	a.mu.Unlock()

	res, err := a.dispatch(a, msg)

	a.mu.Lock()
	if a.lifState == Running {
		a.lifState = Idle
	}
	a.mu.Unlock()
	return res, err
}
