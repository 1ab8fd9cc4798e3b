package doc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
)

const sample = `
/// Adds two numbers.
pub fun add(a, b) { a + b }

fun helper(x) { x }

/// Greets by name.
pub fun greet(name) { name }
`

func extract(t *testing.T, src string, private bool) []Item {
	t.Helper()
	p := parser.New(lexer.Tokenize(src))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	return Extract(program, private)
}

func TestExtractPublicOnly(t *testing.T) {
	items := extract(t, sample, false)
	if len(items) != 2 {
		t.Fatalf("want 2 public items, got %d", len(items))
	}
	if items[0].Name != "add" || items[1].Name != "greet" {
		t.Fatalf("wrong items: %+v", items)
	}
	if items[0].DocComment != "Adds two numbers." {
		t.Fatalf("doc comment lost: %q", items[0].DocComment)
	}
	if got := items[0].Signature(); got != "add(a, b)" {
		t.Fatalf("signature: %q", got)
	}
}

func TestExtractWithPrivate(t *testing.T) {
	items := extract(t, sample, true)
	if len(items) != 3 {
		t.Fatalf("want 3 items with private included, got %d", len(items))
	}
	if items[1].Name != "helper" {
		t.Fatalf("private function missing: %+v", items)
	}
}

func TestMarkdownRendering(t *testing.T) {
	out := Markdown("lib.rv", extract(t, sample, true))
	for _, want := range []string{
		"# Documentation for lib.rv",
		"## `add(a, b)`",
		"Adds two numbers.",
		"## `helper(x)`",
		"*No documentation available*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestHTMLRendering(t *testing.T) {
	out := HTML("lib.rv", extract(t, sample, false))
	for _, want := range []string{
		"<h2><code>add(a, b)</code></h2>",
		"<style>",
		"Adds two numbers.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestJSONRendering(t *testing.T) {
	out, err := JSON("lib.rv", extract(t, sample, false))
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Source string `json:"source"`
		Items  []struct {
			Kind       string   `json:"kind"`
			Name       string   `json:"name"`
			Params     []string `json:"params"`
			DocComment string   `json:"doc_comment"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Source != "lib.rv" || len(decoded.Items) != 2 {
		t.Fatalf("unexpected payload: %s", out)
	}
	if decoded.Items[0].Kind != "function" || decoded.Items[0].Name != "add" {
		t.Fatalf("unexpected first item: %+v", decoded.Items[0])
	}
}

func TestJSONEmptyItems(t *testing.T) {
	out, err := JSON("empty.rv", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"items": []`) {
		t.Fatalf("empty items must render as an array:\n%s", out)
	}
}
