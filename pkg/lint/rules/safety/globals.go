package safety

import (
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	"github.com/leapstack-labs/samplegate/pkg/lint/scope"
)

// globalObjects are names that alias the global object in browsers and Node.
var globalObjects = []string{"window", "globalThis", "self", "global"}

// maxAliasDepth bounds how many const aliases are followed.
const maxAliasDepth = 8

// isGlobalObject reports whether n evaluates to the global object: one of
// globalObjects, or a const alias of one (const w = window).
func isGlobalObject(n *jsast.Node, ctx *lint.Context) bool {
	for depth := 0; depth <= maxAliasDepth; depth++ {
		n = jsast.Unparen(n)
		if n == nil {
			return false
		}
		for _, name := range globalObjects {
			if ctx.IsGlobalRef(n, name) {
				return true
			}
		}
		if n = constInit(n, ctx); n == nil {
			return false
		}
	}
	return false
}

// constInit returns the initializer of the binding the identifier n reads
// when that binding is declared as const name = init.
func constInit(n *jsast.Node, ctx *lint.Context) *jsast.Node {
	if n.Kind != "identifier" {
		return nil
	}
	r := ctx.Scope.ReferenceAt(n)
	if r == nil || r.Resolved == nil || r.Resolved.Kind != scope.BindingConst || r.Resolved.Node == nil {
		return nil
	}
	decl := r.Resolved.Node.Parent
	if decl == nil || decl.Kind != "variable_declarator" || decl.Child("name") != r.Resolved.Node {
		return nil
	}
	return decl.Child("value")
}

// destructuredFrom returns the value an object pattern destructures, for
// const {a} = v and ({a} = v).
func destructuredFrom(p *jsast.Node) *jsast.Node {
	parent := p.Parent
	if parent == nil {
		return nil
	}
	switch {
	case parent.Kind == "variable_declarator" && p.Field == "name":
		return parent.Child("value")
	case parent.Kind == "assignment_expression" && p.Field == "left":
		return parent.Child("right")
	}
	return nil
}

// patternKey is one property read by an object pattern.
type patternKey struct {
	Node *jsast.Node
	Name string
}

// patternKeys returns the properties an object pattern reads, in source
// order. Computed keys are included when constant.
func patternKeys(p *jsast.Node, ctx *lint.Context) []patternKey {
	var keys []patternKey
	for _, c := range p.NamedChildren() {
		if c.Kind == "object_assignment_pattern" {
			c = c.Child("left")
		}
		if c == nil {
			continue
		}
		switch c.Kind {
		case "shorthand_property_identifier_pattern":
			keys = append(keys, patternKey{c, c.Text})
		case "pair_pattern":
			key := c.Child("key")
			if key == nil {
				continue
			}
			switch key.Kind {
			case "property_identifier":
				keys = append(keys, patternKey{key, key.Text})
			case "string":
				if name, ok := ctx.File.ConstString(key); ok {
					keys = append(keys, patternKey{key, name})
				}
			case "computed_property_name":
				if name, ok := ctx.File.ConstString(key.FirstNamed()); ok {
					keys = append(keys, patternKey{key, name})
				}
			}
		}
	}
	return keys
}

// globalMember returns the property name of a member or subscript
// expression whose object is the global object, like window.eval or
// globalThis["eval"].
func globalMember(n *jsast.Node, ctx *lint.Context) (string, bool) {
	n = jsast.Unparen(n)
	if n == nil || !isGlobalObject(n.Child("object"), ctx) {
		return "", false
	}
	switch n.Kind {
	case "member_expression":
		if p := n.Child("property"); p != nil && p.Kind == "property_identifier" {
			return p.Text, true
		}
	case "subscript_expression":
		return ctx.File.ConstString(n.Child("index"))
	}
	return "", false
}

// globalName returns the name n refers to when it is a global identifier or
// a property of the global object.
func globalName(n *jsast.Node, ctx *lint.Context) (string, bool) {
	n = jsast.Unparen(n)
	if n == nil {
		return "", false
	}
	if n.Kind == "identifier" {
		if ctx.IsGlobalRef(n, n.Text) {
			return n.Text, true
		}
		return "", false
	}
	return globalMember(n, ctx)
}
