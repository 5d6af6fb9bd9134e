package policy

import (
	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

// Import is one module load with a constant specifier.
type Import struct {
	Specifier string
	Node      *jsast.Node
}

// Specifiers collects the module specifiers of static imports, re-exports,
// dynamic import() and require() calls, in document order. Specifiers that
// are not constant strings are skipped.
// require is matched by name, even when shadowed.
func Specifiers(f *jsast.File) []Import {
	var out []Import
	add := func(n *jsast.Node) {
		if n == nil {
			return
		}
		if s, ok := f.ConstString(n); ok {
			out = append(out, Import{Specifier: s, Node: n})
		}
	}

	jsast.Walk(f.Root, func(n *jsast.Node) bool {
		switch n.Kind {
		case "import_statement", "export_statement":
			add(n.Child("source"))
		case "call_expression":
			callee := jsast.Unparen(n.Child("function"))
			if callee == nil {
				break
			}
			if callee.Kind == "import" || (callee.Kind == "identifier" && callee.Text == "require") {
				add(n.Child("arguments").FirstNamed())
			}
		}
		return true
	})
	return out
}
