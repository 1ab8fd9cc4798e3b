// Package doc extracts API documentation from a parsed program and
// renders it as markdown, HTML or JSON.
package doc

import (
	"fmt"
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
)

// Item is one documented definition.
type Item struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Params     []string `json:"params"`
	DocComment string   `json:"doc_comment"`
}

// Signature renders the item as name(a, b).
func (it Item) Signature() string {
	return fmt.Sprintf("%s(%s)", it.Name, strings.Join(it.Params, ", "))
}

// Extract collects the documentable top-level definitions. Only pub
// functions are included unless includePrivate is set.
func Extract(program *ast.Program, includePrivate bool) []Item {
	var items []Item
	for _, stmt := range program.Statements {
		fn, ok := stmt.(*ast.FunctionStatement)
		if !ok {
			continue
		}
		if !fn.Pub && !includePrivate {
			continue
		}
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Name
		}
		items = append(items, Item{
			Kind:       "function",
			Name:       fn.Name.Value,
			Params:     params,
			DocComment: fn.DocComment,
		})
	}
	return items
}
