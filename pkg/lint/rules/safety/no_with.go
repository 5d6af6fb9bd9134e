package safety

import (
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(NoWith)
}

// NoWith reports with statements.
var NoWith = lint.RuleDef{
	ID:          "no-with",
	Name:        "safety.no-with",
	Category:    core.CategorySafety,
	Description: "Disallow with statements.",
	Severity:    core.SeverityError,
	Strategy:    lint.StrategyPattern,
	Kinds:       []string{"with_statement"},
	Match: func(n *jsast.Node, _ *lint.Context, _ map[string]any) []lint.Diagnostic {
		return []lint.Diagnostic{lint.At(n, "Unexpected use of 'with' statement.")}
	},

	Rationale:   "with makes every name in its body resolve at run time, which hides what the code touches.",
	BadExample:  `with (Math) { x = cos(PI); }`,
	GoodExample: `x = Math.cos(Math.PI);`,
	Fix:         "Qualify the names explicitly.",
}
