// Package lint provides the rule engine that checks parsed JavaScript samples.
//
// # Architecture
//
// The lint package has three layers:
//
//  1. Root package (pkg/lint/): rule contracts, the registry, configuration, and the Analyzer
//  2. Scope analysis (pkg/lint/scope/): declaration and reference resolution shared by rules
//  3. Rule packages (pkg/lint/rules/...): the rule implementations, grouped by category
//
// # Rule Strategies
//
// Every rule declares exactly one check strategy:
//
//   - StrategyPattern: Match is called for every node whose kind is listed in Kinds.
//     All pattern rules share a single traversal of the tree.
//   - StrategyImport: Imports is called with every module specifier in the file.
//   - StrategyBinding: Bindings is called once with the file's scope analysis.
//
// The Analyzer switches on the strategy tag; it never inspects rule types.
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/samplegate/pkg/lint/rules"
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("no-unused-vars")
//	config.SetSeverity("sample-min-length", core.SeverityError)
//	config.SetRuleOptions("sample-min-length", map[string]any{"min_chars": 100})
//
// # Failure Handling
//
// A rule that panics does not abort analysis. The panic is recovered at the
// rule boundary, the rule's RuleResult carries the error, and Analyze turns it
// into a whole-file diagnostic owned by that rule.
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "no-debugger",
//		Name:        "No debugger",
//		Category:    core.CategoryCorrectness,
//		Description: "Disallow debugger statements",
//		Severity:    core.SeverityWarning,
//		Strategy:    lint.StrategyPattern,
//		Kinds:       []string{"debugger_statement"},
//		Match:       checkDebugger,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
