package transpiler

import (
	"github.com/ruvylang/ruvy/internal/ast"
)

// mapType translates a source type annotation to its Rust spelling.
// Unknown annotations pass through so user-defined types keep their names.
func mapType(annotation string) string {
	switch annotation {
	case "":
		return ""
	case "Int":
		return "i32"
	case "Float":
		return "f64"
	case "String":
		return "&str"
	case "Bool":
		return "bool"
	case "Char":
		return "char"
	case "Unit":
		return "()"
	default:
		return annotation
	}
}

// inferGlobalType is the narrow structural inference used only for
// module-level const and global declarations; everywhere else the host
// language infers. Nested lists recurse one level, an empty list defaults
// to Vec<i32>, and anything unrecognized falls back to i32.
func inferGlobalType(value ast.Expression) string {
	switch v := value.(type) {
	case *ast.IntegerLiteral:
		return "i32"
	case *ast.FloatLiteral:
		return "f64"
	case *ast.StringLiteral, *ast.InterpolatedString:
		return "&str"
	case *ast.BooleanLiteral:
		return "bool"
	case *ast.CharLiteral:
		return "char"
	case *ast.ListLiteral:
		if len(v.Elements) == 0 {
			return "Vec<i32>"
		}
		return "Vec<" + inferElementType(v.Elements[0]) + ">"
	case *ast.PrefixExpression:
		return inferGlobalType(v.Right)
	default:
		return "i32"
	}
}

// inferElementType is the one-level recursion for list elements.
func inferElementType(el ast.Expression) string {
	switch inner := el.(type) {
	case *ast.IntegerLiteral:
		return "i32"
	case *ast.FloatLiteral:
		return "f64"
	case *ast.StringLiteral:
		return "&str"
	case *ast.BooleanLiteral:
		return "bool"
	case *ast.CharLiteral:
		return "char"
	case *ast.ListLiteral:
		if len(inner.Elements) == 0 {
			return "Vec<i32>"
		}
		switch inner.Elements[0].(type) {
		case *ast.FloatLiteral:
			return "Vec<f64>"
		case *ast.StringLiteral:
			return "Vec<&str>"
		case *ast.BooleanLiteral:
			return "Vec<bool>"
		default:
			return "Vec<i32>"
		}
	default:
		return "i32"
	}
}
