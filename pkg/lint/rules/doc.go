// Package rules registers the built-in lint rules for samplegate.
//
// Rules are organized by category:
//   - safety: code that evaluates strings or reaches host capabilities
//   - correctness: scope problems such as undeclared or unused names
//   - style: sample shape, such as minimum length
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/samplegate/pkg/lint/rules"
package rules
