package scope

import (
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

// Analyze builds the scope tree for f and resolves every reference.
func Analyze(f *jsast.File) *Analysis {
	a := &Analysis{File: f, byNode: make(map[*jsast.Node]*Reference)}
	b := &builder{a: a}

	a.Root = b.push(KindProgram, f.Root)
	for _, c := range f.Root.Children {
		b.visit(c)
	}
	b.pop()

	for _, r := range a.References {
		bd := r.Scope.Lookup(r.Name)
		if bd == nil {
			continue
		}
		r.Resolved = bd
		if r.Write {
			bd.Writes++
		} else {
			bd.Reads++
		}
	}
	return a
}

type builder struct {
	a     *Analysis
	scope *Scope

	// exportDecl is the declaration node directly under an export statement.
	exportDecl *jsast.Node
	// exporting is true while the names of exportDecl are being declared.
	exporting bool
}

func (b *builder) push(kind Kind, n *jsast.Node) *Scope {
	s := &Scope{Kind: kind, Node: n, Parent: b.scope, bindings: make(map[string]*Binding)}
	if b.scope != nil {
		b.scope.Children = append(b.scope.Children, s)
	}
	b.scope = s
	return s
}

func (b *builder) pop() {
	b.scope = b.scope.Parent
}

func (b *builder) declare(s *Scope, id *jsast.Node, kind BindingKind) *Binding {
	name := id.Text
	if existing, ok := s.bindings[name]; ok {
		// redeclaration (var twice, function over var): one binding
		if b.exporting {
			existing.Exported = true
		}
		return existing
	}
	bd := &Binding{Name: name, Kind: kind, Node: id, Scope: s, Exported: b.exporting}
	s.bindings[name] = bd
	b.a.Bindings = append(b.a.Bindings, bd)
	return bd
}

func (b *builder) declareImplicit(s *Scope, name string) {
	s.bindings[name] = &Binding{Name: name, Kind: BindingImplicit, Scope: s}
}

func (b *builder) ref(id *jsast.Node, write bool) *Reference {
	r := &Reference{Name: id.Text, Node: id, Scope: b.scope, Write: write}
	b.a.References = append(b.a.References, r)
	b.a.byNode[id] = r
	return r
}

func (b *builder) visitChildren(n *jsast.Node) {
	for _, c := range n.Children {
		b.visit(c)
	}
}

func (b *builder) visit(n *jsast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case "comment":
		return

	case "identifier", "shorthand_property_identifier":
		b.ref(n, false)

	case "import_statement":
		b.importDecl(n)

	case "export_statement":
		b.exportStmt(n)

	case "variable_declaration", "lexical_declaration":
		b.variableDecl(n)

	case "function_declaration", "generator_function_declaration":
		if name := n.Child("name"); name != nil && name.Kind == "identifier" {
			b.exporting = n == b.exportDecl
			bd := b.declare(b.scope, name, BindingFunction)
			b.exporting = false
			// sloppy-mode block functions are also visible function-wide
			if vs := b.scope.varScope(); vs != b.scope && vs.Own(bd.Name) == nil {
				vs.bindings[bd.Name] = bd
			}
		}
		b.function(n, false)

	case "function", "function_expression", "generator_function", "arrow_function":
		b.function(n, true)

	case "method_definition":
		if key := n.Child("name"); key != nil && key.Kind == "computed_property_name" {
			b.visit(key)
		}
		b.function(n, false)

	case "class_declaration":
		if name := n.Child("name"); name != nil && name.Kind == "identifier" {
			b.exporting = n == b.exportDecl
			b.declare(b.scope, name, BindingClass)
			b.exporting = false
		}
		b.class(n, false)

	case "class":
		b.class(n, true)

	case "statement_block", "switch_body":
		b.push(KindBlock, n)
		b.visitChildren(n)
		b.pop()

	case "for_statement":
		b.push(KindBlock, n)
		b.visitChildren(n)
		b.pop()

	case "for_in_statement":
		b.forIn(n)

	case "catch_clause":
		b.push(KindBlock, n)
		if p := n.Child("parameter"); p != nil {
			b.declarePattern(p, b.scope, BindingCatch, false)
		}
		if body := n.Child("body"); body != nil {
			b.visitChildren(body)
		}
		b.pop()

	case "with_statement":
		b.visit(n.Child("object"))
		s := b.push(KindWith, n)
		s.Dynamic = true
		b.visit(n.Child("body"))
		b.pop()

	case "assignment_expression":
		b.assignTarget(n.Child("left"))
		b.visit(n.Child("right"))

	case "call_expression":
		if callee := n.Child("function"); callee != nil && callee.Kind == "identifier" && callee.Text == "eval" {
			// direct eval may declare vars in the enclosing function
			b.scope.varScope().Dynamic = true
		}
		b.visitChildren(n)

	case "unary_expression":
		arg := jsast.Unparen(n.Child("argument"))
		if op := n.Child("operator"); op != nil && op.Text == "typeof" && arg != nil && arg.Kind == "identifier" {
			b.ref(arg, false).Typeof = true
			return
		}
		b.visitChildren(n)

	case "jsx_opening_element", "jsx_self_closing_element":
		name := n.Child("name")
		if name == nil {
			name = n.FirstNamed()
		}
		for _, c := range n.Children {
			if c == name && c.Kind == "identifier" && !isComponentName(c.Text) {
				// intrinsic element such as <div>
				continue
			}
			b.visit(c)
		}

	case "jsx_closing_element", "meta_property":
		return

	default:
		b.visitChildren(n)
	}
}

// isComponentName reports whether a JSX tag names a value (<Button>) rather
// than an intrinsic element (<div>).
func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r) || r == '_' || r == '$'
}

func (b *builder) function(n *jsast.Node, exprName bool) {
	saved := b.exporting
	b.exporting = false
	defer func() { b.exporting = saved }()

	s := b.push(KindFunction, n)
	defer b.pop()

	s.Arrow = n.Kind == "arrow_function"
	if !s.Arrow {
		b.declareImplicit(s, "arguments")
	}
	if exprName {
		if name := n.Child("name"); name != nil && name.Kind == "identifier" {
			b.declare(s, name, BindingExprName)
		}
	}

	if params := n.Child("parameters"); params != nil {
		for _, p := range params.NamedChildren() {
			b.declarePattern(p, s, BindingParam, false)
		}
	}
	if p := n.Child("parameter"); p != nil {
		b.declarePattern(p, s, BindingParam, false)
	}

	body := n.Child("body")
	if body == nil {
		return
	}
	if body.Kind == "statement_block" {
		b.visitChildren(body)
		return
	}
	b.visit(body)
}

func (b *builder) class(n *jsast.Node, exprName bool) {
	saved := b.exporting
	b.exporting = false
	defer func() { b.exporting = saved }()

	// heritage and decorators are evaluated outside the class scope
	for _, c := range n.Children {
		if c.Field == "name" || c.Field == "body" {
			continue
		}
		b.visit(c)
	}

	s := b.push(KindClass, n)
	defer b.pop()

	if exprName {
		if name := n.Child("name"); name != nil && name.Kind == "identifier" {
			b.declare(s, name, BindingExprName)
		}
	}
	if body := n.Child("body"); body != nil {
		b.visitChildren(body)
	}
}

func (b *builder) variableDecl(n *jsast.Node) {
	kind := declKind(n)
	target := b.scope
	if kind == BindingVar {
		target = b.scope.varScope()
	}
	exported := n == b.exportDecl

	for _, d := range n.Children {
		if d.Kind != "variable_declarator" {
			continue
		}
		value := d.Child("value")
		if name := d.Child("name"); name != nil {
			b.exporting = exported
			first := len(b.a.Bindings)
			b.declarePattern(name, target, kind, false)
			b.exporting = false
			if value != nil {
				for _, bd := range b.a.Bindings[first:] {
					bd.Initialized = true
				}
			}
		}
		b.visit(value)
	}
}

// declKind reads the var/let/const keyword of a declaration or for-in head.
func declKind(n *jsast.Node) BindingKind {
	for _, c := range n.Children {
		if c.Named {
			continue
		}
		switch c.Kind {
		case "var":
			return BindingVar
		case "let":
			return BindingLet
		case "const":
			return BindingConst
		}
	}
	return BindingVar
}

func hasDeclKeyword(n *jsast.Node) bool {
	for _, c := range n.Children {
		if !c.Named && (c.Kind == "var" || c.Kind == "let" || c.Kind == "const") {
			return true
		}
	}
	return false
}

func (b *builder) forIn(n *jsast.Node) {
	b.push(KindBlock, n)
	defer b.pop()

	left := n.Child("left")
	if hasDeclKeyword(n) {
		kind := declKind(n)
		target := b.scope
		if kind == BindingVar {
			target = b.scope.varScope()
		}
		b.declarePattern(left, target, kind, false)
	} else {
		b.assignTarget(left)
	}

	for _, c := range n.Children {
		if c == left {
			continue
		}
		b.visit(c)
	}
}

// declarePattern declares every identifier bound by a binding pattern and
// visits default-value expressions as references.
func (b *builder) declarePattern(p *jsast.Node, s *Scope, kind BindingKind, restSibling bool) {
	if p == nil {
		return
	}
	switch p.Kind {
	case "identifier", "shorthand_property_identifier_pattern":
		bd := b.declare(s, p, kind)
		if restSibling {
			bd.RestSibling = true
		}

	case "object_pattern":
		hasRest := p.HasChildKind("rest_pattern")
		for _, c := range p.NamedChildren() {
			switch c.Kind {
			case "pair_pattern":
				if key := c.Child("key"); key != nil && key.Kind == "computed_property_name" {
					b.visit(key)
				}
				b.declarePattern(c.Child("value"), s, kind, hasRest)
			case "rest_pattern":
				b.declarePattern(c.FirstNamed(), s, kind, false)
			default:
				b.declarePattern(c, s, kind, hasRest)
			}
		}

	case "object_assignment_pattern", "assignment_pattern":
		b.declarePattern(p.Child("left"), s, kind, restSibling)
		b.visit(p.Child("right"))

	case "array_pattern":
		for _, c := range p.NamedChildren() {
			b.declarePattern(c, s, kind, false)
		}

	case "rest_pattern":
		b.declarePattern(p.FirstNamed(), s, kind, false)

	default:
		b.visit(p)
	}
}

// assignTarget records writes for the targets of a plain assignment.
func (b *builder) assignTarget(p *jsast.Node) {
	if p == nil {
		return
	}
	switch p.Kind {
	case "identifier", "shorthand_property_identifier_pattern":
		b.ref(p, true)

	case "parenthesized_expression":
		b.assignTarget(p.FirstNamed())

	case "object_pattern":
		for _, c := range p.NamedChildren() {
			switch c.Kind {
			case "pair_pattern":
				if key := c.Child("key"); key != nil && key.Kind == "computed_property_name" {
					b.visit(key)
				}
				b.assignTarget(c.Child("value"))
			case "rest_pattern":
				b.assignTarget(c.FirstNamed())
			default:
				b.assignTarget(c)
			}
		}

	case "object_assignment_pattern", "assignment_pattern":
		b.assignTarget(p.Child("left"))
		b.visit(p.Child("right"))

	case "array_pattern":
		for _, c := range p.NamedChildren() {
			b.assignTarget(c)
		}

	case "rest_pattern":
		b.assignTarget(p.FirstNamed())

	default:
		b.visit(p)
	}
}

func (b *builder) importDecl(n *jsast.Node) {
	root := b.a.Root
	for _, c := range n.Children {
		if c.Kind != "import_clause" {
			continue
		}
		for _, ic := range c.NamedChildren() {
			switch ic.Kind {
			case "identifier":
				b.declare(root, ic, BindingImport)
			case "namespace_import":
				if id := ic.FirstNamed(); id != nil && id.Kind == "identifier" {
					b.declare(root, id, BindingImport)
				}
			case "named_imports":
				for _, spec := range ic.NamedChildren() {
					if spec.Kind != "import_specifier" {
						continue
					}
					local := spec.Child("alias")
					if local == nil {
						local = spec.Child("name")
					}
					if local != nil && local.Kind == "identifier" {
						b.declare(root, local, BindingImport)
					}
				}
			}
		}
	}
}

func (b *builder) exportStmt(n *jsast.Node) {
	if n.Child("source") != nil {
		// re-export from another module: no local names involved
		return
	}
	if decl := n.Child("declaration"); decl != nil {
		saved := b.exportDecl
		b.exportDecl = decl
		b.visit(decl)
		b.exportDecl = saved
		return
	}
	for _, c := range n.NamedChildren() {
		if c.Kind != "export_clause" {
			b.visit(c)
			continue
		}
		for _, spec := range c.NamedChildren() {
			if spec.Kind != "export_specifier" {
				continue
			}
			if name := spec.Child("name"); name != nil && name.Kind == "identifier" {
				b.ref(name, false)
			}
		}
	}
}
