package safety

import (
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(NoEval)
}

// NoEval reports every reference to the global eval function.
var NoEval = lint.RuleDef{
	ID:          "no-eval",
	Name:        "safety.no-eval",
	Category:    core.CategorySafety,
	Description: "Disallow the use of eval().",
	Severity:    core.SeverityError,
	Strategy:    lint.StrategyPattern,
	Kinds:       []string{"identifier", "member_expression", "subscript_expression", "object_pattern"},
	Match:       checkNoEval,

	Rationale:   "eval runs arbitrary strings as code. Aliasing it (const e = eval) or reaching it through the global object, an alias of it, or destructuring is just as dangerous as calling it directly.",
	BadExample:  `const x = eval("1+1");`,
	GoodExample: `const x = 1 + 1;`,
	Fix:         "Compute the value directly, or parse data with JSON.parse.",
}

func checkNoEval(n *jsast.Node, ctx *lint.Context, _ map[string]any) []lint.Diagnostic {
	if n.Kind == "object_pattern" {
		return checkEvalPattern(n, ctx)
	}
	var name string
	var ok bool
	if n.Kind == "identifier" {
		name, ok = n.Text, ctx.IsGlobalRef(n, "eval")
	} else {
		name, ok = globalMember(n, ctx)
	}
	if !ok || name != "eval" {
		return nil
	}
	return []lint.Diagnostic{lint.At(n, "eval can be harmful.")}
}

// checkEvalPattern reports eval keys destructured from the global object,
// as in const {eval: e} = globalThis.
func checkEvalPattern(p *jsast.Node, ctx *lint.Context) []lint.Diagnostic {
	if !isGlobalObject(destructuredFrom(p), ctx) {
		return nil
	}
	var out []lint.Diagnostic
	for _, key := range patternKeys(p, ctx) {
		if key.Name == "eval" {
			out = append(out, lint.At(key.Node, "eval can be harmful."))
		}
	}
	return out
}
