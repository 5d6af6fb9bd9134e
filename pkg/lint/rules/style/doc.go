// Package style provides lint rules about the shape of a sample rather
// than its behaviour.
//
// Rules in this package:
//   - sample-min-length: samples too short to be useful
package style
