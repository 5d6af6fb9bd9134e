package lint

import (
	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

// CollectImports returns every module specifier in the file with a constant
// string value, in document order. require() counts only when require is not
// declared in the file.
func CollectImports(ctx *Context) []ImportRef {
	var refs []ImportRef
	add := func(kind ImportKind, lit *jsast.Node) {
		if lit == nil {
			return
		}
		spec, ok := ctx.File.ConstString(lit)
		if !ok {
			return
		}
		refs = append(refs, ImportRef{Kind: kind, Specifier: spec, Node: lit})
	}

	jsast.Walk(ctx.File.Root, func(n *jsast.Node) bool {
		switch n.Kind {
		case "import_statement":
			add(ImportStatic, n.Child("source"))
		case "export_statement":
			add(ImportReexport, n.Child("source"))
		case "call_expression":
			callee := n.Child("function")
			args := n.Child("arguments")
			if callee == nil || args == nil {
				return true
			}
			switch {
			case callee.Kind == "import":
				add(ImportDynamic, args.FirstNamed())
			case ctx.IsGlobalRef(callee, "require"):
				add(ImportRequire, args.FirstNamed())
			}
		}
		return true
	})
	return refs
}
