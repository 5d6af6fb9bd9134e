package safety

import (
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(NoNewFunc)
}

// NoNewFunc reports uses of the Function constructor.
var NoNewFunc = lint.RuleDef{
	ID:          "no-new-func",
	Name:        "safety.no-new-func",
	Category:    core.CategorySafety,
	Description: "Disallow new Function(), Function(), Function.call/apply/bind and reaching Function through .constructor.",
	Severity:    core.SeverityError,
	Strategy:    lint.StrategyPattern,
	Kinds:       []string{"new_expression", "call_expression"},
	Match:       checkNoNewFunc,

	Rationale:   "The Function constructor compiles its string arguments into code, like eval. Every function's constructor property leads back to it, so [].constructor.constructor is the same thing.",
	BadExample:  `const add = new Function("a", "b", "return a + b");`,
	GoodExample: `const add = (a, b) => a + b;`,
	Fix:         "Write the function as a function expression.",
}

const newFuncMessage = "The Function constructor is eval."

func checkNoNewFunc(n *jsast.Node, ctx *lint.Context, _ map[string]any) []lint.Diagnostic {
	var callee *jsast.Node
	if n.Kind == "new_expression" {
		callee = n.Child("constructor")
	} else {
		callee = n.Child("function")
	}

	if isFunctionCtor(callee, ctx) {
		return []lint.Diagnostic{lint.At(n, newFuncMessage)}
	}

	// Function.call(null, "code") and friends
	callee = jsast.Unparen(callee)
	if n.Kind != "call_expression" || callee == nil || callee.Kind != "member_expression" {
		return nil
	}
	prop := callee.Child("property")
	if prop == nil {
		return nil
	}
	switch prop.Text {
	case "call", "apply", "bind":
		if isFunctionCtor(callee.Child("object"), ctx) {
			return []lint.Diagnostic{lint.At(n, newFuncMessage)}
		}
	}
	return nil
}

// isFunctionCtor reports whether n evaluates to the Function constructor:
// the global Function, x.constructor.constructor, or the constructor of a
// function literal.
func isFunctionCtor(n *jsast.Node, ctx *lint.Context) bool {
	if name, ok := globalName(n, ctx); ok && name == "Function" {
		return true
	}
	obj, ok := constructorOf(n, ctx)
	if !ok {
		return false
	}
	if _, ok := constructorOf(obj, ctx); ok {
		return true
	}
	switch obj.Kind {
	case "function", "function_expression", "generator_function", "arrow_function":
		return true
	}
	return false
}

// constructorOf returns x for x.constructor and x["constructor"].
func constructorOf(n *jsast.Node, ctx *lint.Context) (*jsast.Node, bool) {
	n = jsast.Unparen(n)
	if n == nil {
		return nil, false
	}
	var name string
	switch n.Kind {
	case "member_expression":
		if p := n.Child("property"); p != nil {
			name = p.Text
		}
	case "subscript_expression":
		name, _ = ctx.File.ConstString(n.Child("index"))
	default:
		return nil, false
	}
	if name != "constructor" {
		return nil, false
	}
	obj := jsast.Unparen(n.Child("object"))
	return obj, obj != nil
}
