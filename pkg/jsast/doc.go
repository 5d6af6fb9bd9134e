// Package jsast parses JavaScript samples into an immutable syntax tree.
//
// # Architecture
//
// Parsing happens in two steps:
//
//  1. Editions other than plain JavaScript (TypeScript, TSX) are lowered
//     to JavaScript with esbuild's transform API. Imports are preserved
//     verbatim so capability checks still see them.
//  2. The JavaScript text is parsed with the tree-sitter JavaScript grammar
//     and the concrete syntax tree is copied into plain Go values (Node).
//
// The copy is deliberate: tree-sitter trees are owned by C memory and are
// not safe to share across goroutines, while Node values are read-only data
// that any number of rules may inspect concurrently.
//
// Kind strings are tree-sitter grammar node names ("call_expression",
// "identifier", "import_statement", ...). Field strings are the grammar's
// field names ("function", "arguments", "source", ...).
//
// # Errors
//
// Syntax errors are reported as *ParseError, which carries the position of
// the first ERROR or MISSING node. Parsing never evaluates the sample.
package jsast
