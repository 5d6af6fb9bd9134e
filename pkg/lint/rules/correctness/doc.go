// Package correctness provides lint rules built on scope analysis.
//
// Rules in this package:
//   - no-undef: references to names declared nowhere
//   - no-unused-vars: bindings that are never read
package correctness
