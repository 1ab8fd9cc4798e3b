package transpiler

import (
	"strings"

	"github.com/ruvylang/ruvy/internal/ast"
)

// stdModulePrefixes are the standard-library modules with dedicated import
// handlers. They are consulted before the generic path rewriter.
var stdModulePrefixes = map[string]bool{
	"fs":       true,
	"process":  true,
	"system":   true,
	"signal":   true,
	"net":      true,
	"mem":      true,
	"parallel": true,
	"simd":     true,
	"cache":    true,
	"bench":    true,
	"profile":  true,
}

func (t *Transpiler) lowerImport(imp *ast.ImportStatement) string {
	if code, ok := lowerStdModuleImport(imp); ok {
		return code
	}
	return lowerGenericImport(imp)
}

// lowerStdModuleImport handles bare imports of the dedicated std modules,
// e.g. import std::fs. Item imports fall through to the generic rewriter
// so that import std::fs::File still collapses to use std::fs::File.
func lowerStdModuleImport(imp *ast.ImportStatement) (string, bool) {
	if imp.Wildcard || imp.Alias != "" {
		return "", false
	}
	// import std::fs arrives split as path [std] plus the single item fs.
	if len(imp.Path) == 1 && imp.Path[0] == "std" && len(imp.Items) == 1 &&
		imp.Items[0].Alias == "" && stdModulePrefixes[imp.Items[0].Name] {
		return "use std::" + imp.Items[0].Name + ";", true
	}
	if len(imp.Path) == 2 && imp.Path[0] == "std" && stdModulePrefixes[imp.Path[1]] &&
		len(imp.Items) == 0 {
		return "use std::" + imp.Path[1] + ";", true
	}
	return "", false
}

func lowerGenericImport(imp *ast.ImportStatement) string {
	path := strings.Join(imp.Path, "::")

	switch {
	case imp.Wildcard:
		return "use " + path + "::*;"
	case len(imp.Items) == 0 && imp.Alias != "":
		return "use " + path + " as " + imp.Alias + ";"
	case len(imp.Items) == 0:
		return "use " + path + ";"
	case len(imp.Items) == 1:
		item := imp.Items[0]
		if item.Alias != "" {
			return "use " + path + "::" + item.Name + " as " + item.Alias + ";"
		}
		// Collapse when the path already ends in the item name.
		if len(imp.Path) > 0 && imp.Path[len(imp.Path)-1] == item.Name {
			return "use " + path + ";"
		}
		return "use " + path + "::" + item.Name + ";"
	default:
		parts := make([]string, len(imp.Items))
		for i, item := range imp.Items {
			if item.Alias != "" {
				parts[i] = item.Name + " as " + item.Alias
			} else {
				parts[i] = item.Name
			}
		}
		return "use " + path + "::{" + strings.Join(parts, ", ") + "};"
	}
}
