package safety

import (
	"fmt"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(NoImpliedEval)
}

// NoImpliedEval reports timer functions called with code strings.
var NoImpliedEval = lint.RuleDef{
	ID:          "no-implied-eval",
	Name:        "safety.no-implied-eval",
	Category:    core.CategorySafety,
	Description: "Disallow passing strings to setTimeout, setInterval, setImmediate and execScript.",
	Severity:    core.SeverityError,
	Strategy:    lint.StrategyPattern,
	Kinds:       []string{"call_expression"},
	Match:       checkNoImpliedEval,

	Rationale:   "Timer functions evaluate a string first argument the same way eval does.",
	BadExample:  `setTimeout("tick()", 100);`,
	GoodExample: `setTimeout(tick, 100);`,
	Fix:         "Pass a function instead of a string.",
}

var impliedEvalFuncs = map[string]bool{
	"setTimeout":   true,
	"setInterval":  true,
	"setImmediate": true,
	"execScript":   true,
}

func checkNoImpliedEval(n *jsast.Node, ctx *lint.Context, _ map[string]any) []lint.Diagnostic {
	name, ok := globalName(n.Child("function"), ctx)
	if !ok || !impliedEvalFuncs[name] {
		return nil
	}
	first := n.Child("arguments").FirstNamed()
	if !isStringLike(first) {
		return nil
	}
	return []lint.Diagnostic{lint.At(n, fmt.Sprintf("Implied eval. Pass a function to %s instead of a string.", name))}
}

// isStringLike reports whether n certainly evaluates to a string: a string
// or template literal, or a concatenation involving one.
func isStringLike(n *jsast.Node) bool {
	n = jsast.Unparen(n)
	if n == nil {
		return false
	}
	switch n.Kind {
	case "string", "template_string":
		return true
	case "binary_expression":
		if op := n.Child("operator"); op == nil || op.Text != "+" {
			return false
		}
		return isStringLike(n.Child("left")) || isStringLike(n.Child("right"))
	}
	return false
}
