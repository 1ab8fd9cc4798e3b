package doc

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

const missingDoc = "*No documentation available*"

// Markdown renders one page of function blocks under a source heading.
func Markdown(source string, items []Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Documentation for %s\n", source)
	for _, it := range items {
		fmt.Fprintf(&sb, "\n## `%s`\n\n", it.Signature())
		if it.DocComment == "" {
			sb.WriteString(missingDoc)
			sb.WriteString("\n")
		} else {
			sb.WriteString(it.DocComment)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// HTML renders a standalone page with inline styling; no assets needed.
func HTML(source string, items []Item) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&sb, "<title>Documentation for %s</title>\n", html.EscapeString(source))
	sb.WriteString(`<style>
body { font-family: sans-serif; max-width: 46rem; margin: 2rem auto; color: #222; }
h2 code { background: #f4f4f4; padding: 0.15rem 0.4rem; border-radius: 4px; }
p.missing { color: #888; font-style: italic; }
</style>
`)
	sb.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&sb, "<h1>Documentation for %s</h1>\n", html.EscapeString(source))
	for _, it := range items {
		fmt.Fprintf(&sb, "<h2><code>%s</code></h2>\n", html.EscapeString(it.Signature()))
		if it.DocComment == "" {
			sb.WriteString("<p class=\"missing\">No documentation available</p>\n")
		} else {
			fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(it.DocComment))
		}
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// JSON renders the machine-readable form.
func JSON(source string, items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	payload := struct {
		Source string `json:"source"`
		Items  []Item `json:"items"`
	}{Source: source, Items: items}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
