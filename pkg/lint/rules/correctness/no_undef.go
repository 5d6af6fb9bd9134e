package correctness

import (
	"fmt"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(NoUndef)
}

// NoUndef reports references that resolve to no declaration, builtin, or
// allowed host global.
var NoUndef = lint.RuleDef{
	ID:          "no-undef",
	Name:        "correctness.no-undef",
	Category:    core.CategoryCorrectness,
	Description: "Disallow the use of undeclared variables.",
	Severity:    core.SeverityError,
	ConfigKeys:  []string{"typeof"},
	Strategy:    lint.StrategyBinding,
	Bindings:    checkNoUndef,

	Rationale:   "An undeclared name throws a ReferenceError when read, and silently creates a global when assigned in sloppy mode.",
	BadExample:  `let y = 2; console.log(z);`,
	GoodExample: `let y = 2; console.log(y);`,
	Fix:         "Declare the variable, fix the typo, or add a real host global to policy.allowed_globals.",
}

func checkNoUndef(ctx *lint.Context, opts map[string]any) []lint.Diagnostic {
	checkTypeof := lint.GetBoolOption(opts, "typeof", false)

	var diagnostics []lint.Diagnostic
	for _, ref := range ctx.Scope.Unresolved() {
		if ref.Typeof && !checkTypeof {
			continue
		}
		if ref.Ambiguous() || ctx.IsKnownGlobal(ref.Name) {
			continue
		}
		diagnostics = append(diagnostics, lint.At(ref.Node, fmt.Sprintf("'%s' is not defined.", ref.Name)))
	}
	return diagnostics
}
