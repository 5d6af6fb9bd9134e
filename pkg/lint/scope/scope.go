// Package scope resolves identifier references to their declarations.
//
// Analyze performs one traversal of a parsed file that records scopes,
// bindings, and references, followed by one linear pass that resolves each
// reference up its scope chain. Declarations are collected before any
// resolution, so hoisting needs no special ordering. There is no fixpoint
// iteration.
//
// Names that cannot be resolved statically (inside a with body, or in a
// function that calls eval directly) are marked ambiguous rather than
// unresolved.
package scope

import (
	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

// Kind classifies a scope.
type Kind int

// Scope kinds.
const (
	KindProgram Kind = iota
	KindFunction
	KindBlock
	KindClass
	KindWith
)

// BindingKind classifies how a name was declared.
type BindingKind int

// Binding kinds.
const (
	BindingVar BindingKind = iota
	BindingLet
	BindingConst
	BindingFunction
	BindingClass
	BindingParam
	BindingCatch
	BindingImport
	BindingExprName // name of a function or class expression, visible only inside it
	BindingImplicit // "arguments"
)

// Scope is a lexical scope.
type Scope struct {
	Kind     Kind
	Node     *jsast.Node
	Parent   *Scope
	Children []*Scope

	// Arrow is set on function scopes created by arrow functions.
	Arrow bool

	// Dynamic is set when names in this scope may be created at run time.
	Dynamic bool

	bindings map[string]*Binding
}

// Lookup finds name in this scope or its ancestors.
func (s *Scope) Lookup(name string) *Binding {
	for sc := s; sc != nil; sc = sc.Parent {
		if b, ok := sc.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Own returns the binding declared directly in this scope.
func (s *Scope) Own(name string) *Binding {
	return s.bindings[name]
}

// InDynamic reports whether this scope or any ancestor is dynamic.
func (s *Scope) InDynamic() bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Dynamic {
			return true
		}
	}
	return false
}

// varScope returns the nearest scope that receives var declarations.
func (s *Scope) varScope() *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Kind == KindFunction || sc.Kind == KindProgram {
			return sc
		}
	}
	return s
}

// Binding is one declared name.
type Binding struct {
	Name  string
	Kind  BindingKind
	Node  *jsast.Node // declaring identifier, nil for implicit bindings
	Scope *Scope

	Reads  int
	Writes int

	Initialized bool // declared with an initializer
	Exported    bool
	RestSibling bool // sibling of a ...rest element in an object pattern
}

// Reference is one use of a name.
type Reference struct {
	Name     string
	Node     *jsast.Node
	Scope    *Scope
	Write    bool // target of a plain assignment, not a read
	Typeof   bool // operand of typeof
	Resolved *Binding
}

// Ambiguous reports whether the reference cannot be resolved statically.
func (r *Reference) Ambiguous() bool {
	return r.Scope.InDynamic()
}

// Analysis is the result of Analyze.
type Analysis struct {
	File       *jsast.File
	Root       *Scope
	Bindings   []*Binding   // declaration order
	References []*Reference // document order

	byNode map[*jsast.Node]*Reference
}

// ReferenceAt returns the reference recorded for an identifier node.
func (a *Analysis) ReferenceAt(n *jsast.Node) *Reference {
	return a.byNode[n]
}

// IsGlobal reports whether the identifier n refers to a global, that is,
// to nothing declared in the file.
func (a *Analysis) IsGlobal(n *jsast.Node) bool {
	r := a.byNode[n]
	return r != nil && r.Resolved == nil
}

// Unresolved returns references that resolve to no declaration in the file.
func (a *Analysis) Unresolved() []*Reference {
	var out []*Reference
	for _, r := range a.References {
		if r.Resolved == nil {
			out = append(out, r)
		}
	}
	return out
}
