package actor

import (
	"testing"
)

func echoDispatch(a *Actor, msg Message) (interface{}, error) {
	return msg.Name, nil
}

func TestSpawnStartsIdle(t *testing.T) {
	r := NewRegistry()
	id := r.Spawn("Counter", nil, 0, echoDispatch)
	a, ok := r.Lookup(id)
	if !ok {
		t.Fatal("spawned actor not registered")
	}
	if a.Lifecycle() != Idle {
		t.Errorf("lifecycle = %s, want idle", a.Lifecycle())
	}
	if a.TypeName != "Counter" {
		t.Errorf("type name = %q", a.TypeName)
	}
}

func TestSendAndDrainFIFO(t *testing.T) {
	r := NewRegistry()
	var order []string
	id := r.Spawn("Log", nil, 0, func(a *Actor, msg Message) (interface{}, error) {
		order = append(order, msg.Name)
		return nil, nil
	})
	for _, name := range []string{"a", "b", "c"} {
		if err := r.Send(id, Message{Name: name}); err != nil {
			t.Fatalf("send %s: %v", name, err)
		}
	}
	if err := r.Drain(id); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("dispatch order = %v, want [a b c]", order)
	}
}

func TestMailboxFull(t *testing.T) {
	r := NewRegistry()
	id := r.Spawn("Tiny", nil, 2, echoDispatch)
	if err := r.Send(id, Message{Name: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(id, Message{Name: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(id, Message{Name: "3"}); err != ErrMailboxFull {
		t.Errorf("third send = %v, want ErrMailboxFull", err)
	}
}

func TestAskReturnsReply(t *testing.T) {
	r := NewRegistry()
	count := 0
	id := r.Spawn("Counter", nil, 0, func(a *Actor, msg Message) (interface{}, error) {
		switch msg.Name {
		case "incr":
			count++
			return nil, nil
		case "get":
			return count, nil
		}
		return nil, nil
	})
	_ = r.Send(id, Message{Name: "incr"})
	_ = r.Send(id, Message{Name: "incr"})
	got, err := r.Ask(id, Message{Name: "get"})
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("ask reply = %v, want 2", got)
	}
}

func TestStopDropsPendingAndDeniesSends(t *testing.T) {
	r := NewRegistry()
	ran := 0
	id := r.Spawn("Doomed", nil, 0, func(a *Actor, msg Message) (interface{}, error) {
		ran++
		return nil, nil
	})
	_ = r.Send(id, Message{Name: "x"})
	if err := r.Stop(id); err != nil {
		t.Fatal(err)
	}
	a, _ := r.Lookup(id)
	if a.Lifecycle() != Stopped {
		t.Errorf("lifecycle = %s, want stopped", a.Lifecycle())
	}
	if a.Pending() != 0 {
		t.Errorf("pending = %d, want 0 after stop", a.Pending())
	}
	if err := r.Send(id, Message{Name: "y"}); err != ErrActorStopped {
		t.Errorf("send after stop = %v, want ErrActorStopped", err)
	}
	if err := r.Drain(id); err != nil {
		t.Fatalf("drain after stop should be a no-op, got %v", err)
	}
	if ran != 0 {
		t.Errorf("handler ran %d times after stop", ran)
	}
	// Stop is idempotent.
	if err := r.Stop(id); err != nil {
		t.Errorf("second stop = %v", err)
	}
}

func TestUnknownActor(t *testing.T) {
	r := NewRegistry()
	other := NewRegistry()
	id := other.Spawn("Elsewhere", nil, 0, echoDispatch)
	if err := r.Send(id, Message{Name: "x"}); err != ErrUnknownActor {
		t.Errorf("send = %v, want ErrUnknownActor", err)
	}
}
