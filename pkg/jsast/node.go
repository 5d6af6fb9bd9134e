package jsast

import (
	"github.com/leapstack-labs/samplegate/pkg/token"
)

// Node is one node of the syntax tree.
type Node struct {
	Kind    string // grammar node name, "ERROR" for error recovery nodes
	Field   string // field name in the parent, empty if none
	Named   bool
	Missing bool // inserted by error recovery

	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
	Pos   token.Position

	Text string // source text, set on leaves only

	Parent   *Node
	Children []*Node
}

// File is a parsed sample.
type File struct {
	Name    string
	Source  []byte // the text that was parsed (lowered output for TypeScript)
	Root    *Node
	Module  bool // parsed with the module goal
	Edition Edition
}

// Text returns the source text covered by n.
func (f *File) Text(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Text != "" || len(n.Children) == 0 {
		return n.Text
	}
	return string(f.Source[n.Start:n.End])
}

// Child returns the first child attached under field, or nil.
func (n *Node) Child(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child attached under field.
func (n *Node) ChildrenByField(field string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named children of n, skipping comments.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Named && c.Kind != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// FirstNamed returns the first named, non-comment child of n.
func (n *Node) FirstNamed() *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Named && c.Kind != "comment" {
			return c
		}
	}
	return nil
}

// Is reports whether n has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// HasChildKind reports whether any direct child has the given kind.
func (n *Node) HasChildKind(kind string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// Unparen strips any parenthesized_expression wrappers.
func Unparen(n *Node) *Node {
	for n != nil && n.Kind == "parenthesized_expression" {
		inner := n.FirstNamed()
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// Walk traverses the tree depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
func Walk(node *Node, fn func(n *Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, c := range node.Children {
		Walk(c, fn)
	}
}

// Find returns the first node, in document order, for which pred is true.
func Find(node *Node, pred func(n *Node) bool) *Node {
	var found *Node
	Walk(node, func(n *Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}
