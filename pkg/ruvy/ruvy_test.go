package ruvy

import (
	"fmt"
	"strings"
	"testing"
)

func TestEvalBasic(t *testing.T) {
	e := New()
	got, err := e.Eval("40 + 2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("got %v (%T)", got, got)
	}

	got, err = e.Eval(`"hello " + "world"`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %v", got)
	}

	got, err = e.Eval("[1, 2, 3]")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	list, ok := got.([]interface{})
	if !ok || len(list) != 3 || list[2] != int64(3) {
		t.Fatalf("got %#v", got)
	}
}

func TestScriptErrorsSurfaceAsGoErrors(t *testing.T) {
	e := New()
	if _, err := e.Eval("1 / 0"); err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("got %v", err)
	}
	if _, err := e.Eval(`throw "boom"`); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("got %v", err)
	}
}

func TestDefineAndGet(t *testing.T) {
	e := New()
	if err := e.Define("limit", 10); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := e.Eval("limit * 2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != int64(20) {
		t.Fatalf("got %v", got)
	}

	if _, err := e.Eval("let answer = limit * 4 + 2"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	back, err := e.Get("answer")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if back != int64(42) {
		t.Fatalf("got %v", back)
	}

	if _, err := e.Get("missing"); err == nil {
		t.Fatal("want an error for an unbound name")
	}
}

func TestCallScriptFunction(t *testing.T) {
	e := New()
	if _, err := e.Eval("fun add(a, b) { a + b }"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	got, err := e.Call("add", 19, 23)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("got %v", got)
	}
}

func TestBindGoFunction(t *testing.T) {
	e := New()
	if err := e.Bind("twice", func(n int64) int64 { return n * 2 }); err != nil {
		t.Fatalf("bind: %v", err)
	}
	got, err := e.Eval("twice(21)")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("got %v", got)
	}
}

func TestBoundFunctionErrorReturn(t *testing.T) {
	e := New()
	err := e.Bind("divide", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fmt.Errorf("zero divisor")
		}
		return a / b, nil
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	got, err := e.Eval("divide(84, 2)")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("got %v", got)
	}

	if _, err := e.Eval("divide(1, 0)"); err == nil || !strings.Contains(err.Error(), "zero divisor") {
		t.Fatalf("got %v", err)
	}
}

func TestBindRejectsBadShapes(t *testing.T) {
	e := New()
	if err := e.Bind("notfn", 42); err == nil {
		t.Fatal("binding a non-function must fail")
	}
	if err := e.Bind("bad", func() (int, string) { return 0, "" }); err == nil {
		t.Fatal("second non-error return must fail")
	}
}

func TestStructBecomesRecord(t *testing.T) {
	type person struct {
		Name string
		Age  int
	}
	e := New()
	if err := e.Define("p", person{Name: "Ada", Age: 36}); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := e.Eval("p.Name")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "Ada" {
		t.Fatalf("got %v", got)
	}
}

func TestMapRoundtrip(t *testing.T) {
	e := New()
	if err := e.Define("scores", map[string]int{"a": 1, "b": 2}); err != nil {
		t.Fatalf("define: %v", err)
	}
	back, err := e.Get("scores")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	m, ok := back.(map[interface{}]interface{})
	if !ok {
		t.Fatalf("got %#v", back)
	}
	if m["a"] != int64(1) || m["b"] != int64(2) {
		t.Fatalf("got %#v", m)
	}
}
