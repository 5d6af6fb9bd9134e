// Package safety provides lint rules that reject code able to evaluate
// strings or load host capabilities.
//
// Rules in this package:
//   - no-eval: references to the global eval
//   - no-implied-eval: string arguments to setTimeout and friends
//   - no-new-func: the Function constructor
//   - no-with: with statements
//   - no-restricted-imports: module specifiers matching configured globs
package safety
